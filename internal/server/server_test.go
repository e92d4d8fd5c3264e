// internal/server/server_test.go
//
// 本檔為 server 層的整合測試。
// 以 httptest.Server 模擬完整 HTTP 請求流程，驗證 REST API 與 bank 層之間的整合、
// 狀態正確性以及錯誤代碼映射。
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ledger/internal/bank"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// doJSON 封裝 HTTP JSON 請求並驗證回傳狀態碼；out 非 nil 時解析回應。
func doJSON(t *testing.T, c *http.Client, method, url string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantCode {
		t.Fatalf("%s %s code=%d want=%d", method, url, resp.StatusCode, wantCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(bank.NewBank(nil), nil, nil)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func wantDec(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s=%s want=%s", what, got, want)
	}
}

// TestHTTPFlow 驗證建立、存提款、轉帳、沖正、查詢與錯誤情境。
func TestHTTPFlow(t *testing.T) {
	ts := newTestServer(t)
	cli := ts.Client()

	// 1️⃣ 建立兩個帳戶（金額可為數字或字串）
	var alice, bob bank.Account
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"name": "Alice"}, 201, &alice)
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"name": "Bob", "balance": "10"}, 201, &bob)

	// 2️⃣ 存款與提款
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+alice.ID+"/deposit", map[string]any{"amount": 100}, 200, &alice)
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+bob.ID+"/deposit", map[string]any{"amount": "50"}, 200, &bob)
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+bob.ID+"/withdraw", map[string]any{"amount": 10}, 200, &bob)
	wantDec(t, "alice", alice.Balance, "100")
	wantDec(t, "bob", bob.Balance, "50")

	// 3️⃣ 轉帳
	var tr bank.Receipt
	doJSON(t, cli, "POST", ts.URL+"/transfers", map[string]any{"from": alice.ID, "to": bob.ID, "amount": 25}, 201, &tr)
	if tr.Transfer.Summary != "Alice transferred 25 to Bob" {
		t.Fatalf("summary=%q", tr.Transfer.Summary)
	}
	wantDec(t, "from", tr.From.Balance, "75")
	wantDec(t, "to", tr.To.Balance, "75")

	// 4️⃣ 查詢轉帳
	var got bank.TransferInfo
	doJSON(t, cli, "GET", ts.URL+"/transfers/"+tr.Transfer.ID, nil, 200, &got)
	if got.ID != tr.Transfer.ID || got.Reversed {
		t.Fatalf("unexpected transfer %+v", got)
	}

	// 5️⃣ 沖正
	var rev bank.Receipt
	doJSON(t, cli, "POST", ts.URL+"/transfers/"+tr.Transfer.ID+"/reverse", nil, 201, &rev)
	if rev.Transfer.Summary != "Bob transferred 25 to Alice" || rev.Transfer.ReversalOf != tr.Transfer.ID {
		t.Fatalf("unexpected reversal %+v", rev.Transfer)
	}
	wantDec(t, "bob", rev.From.Balance, "50")
	wantDec(t, "alice", rev.To.Balance, "100")

	var list []bank.TransferInfo
	doJSON(t, cli, "GET", ts.URL+"/api/v1/transfers", nil, 200, &list)
	if len(list) != 2 || !list[0].Reversed {
		t.Fatalf("transfers=%+v", list)
	}

	// 6️⃣ 錯誤情境
	doJSON(t, cli, "POST", ts.URL+"/transfers/"+tr.Transfer.ID+"/reverse", nil, 409, nil)
	doJSON(t, cli, "POST", ts.URL+"/transfers", map[string]any{"from": alice.ID, "to": bob.ID, "amount": 999999}, 409, nil)
	doJSON(t, cli, "POST", ts.URL+"/transfers", map[string]any{"from": alice.ID, "to": alice.ID, "amount": 1}, 400, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+alice.ID+"/deposit", map[string]any{"amount": -1}, 400, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"balance": 1}, 400, nil)
	doJSON(t, cli, "GET", ts.URL+"/accounts/nope", nil, 404, nil)
	doJSON(t, cli, "GET", ts.URL+"/transfers/nope", nil, 404, nil)
	doJSON(t, cli, "DELETE", ts.URL+"/transfers", nil, 405, nil)

	var all []bank.Account
	doJSON(t, cli, "GET", ts.URL+"/accounts", nil, 200, &all)
	if len(all) != 2 || all[0].Name != "Alice" {
		t.Fatalf("accounts=%+v", all)
	}
}

// TestErrorEnvelope 驗證錯誤回應格式與錯誤代碼。
func TestErrorEnvelope(t *testing.T) {
	ts := newTestServer(t)
	cli := ts.Client()

	var a bank.Account
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"name": "A", "balance": 5}, 201, &a)

	var env ErrorEnvelope
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a.ID+"/withdraw", map[string]any{"amount": 6}, 409, &env)
	if env.Error.Code != "insufficient_funds" || env.Error.Message == "" {
		t.Fatalf("envelope=%+v", env)
	}

	// 超出範圍的金額：400 且餘額不變
	for _, amt := range []string{"1e1000000", "1e-1000000"} {
		env = ErrorEnvelope{}
		doJSON(t, cli, "POST", ts.URL+"/accounts/"+a.ID+"/deposit", map[string]any{"amount": amt}, 400, &env)
		if env.Error.Code != "bad_amount" {
			t.Fatalf("amount=%s envelope=%+v", amt, env)
		}
	}
	doJSON(t, cli, "POST", ts.URL+"/rebalance", map[string]any{"min": "1e1000000"}, 400, nil)
	var got bank.Account
	doJSON(t, cli, "GET", ts.URL+"/accounts/"+a.ID, nil, 200, &got)
	wantDec(t, "balance", got.Balance, "5")

	req, _ := http.NewRequest("POST", ts.URL+"/accounts/"+a.ID+"/deposit", bytes.NewBufferString("{bad json}"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := cli.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("bad json code=%d want 400", resp.StatusCode)
	}
}

// TestRebalanceEndpoint 驗證 /rebalance 撥款結果。
func TestRebalanceEndpoint(t *testing.T) {
	ts := newTestServer(t)
	cli := ts.Client()

	var rich, poor bank.Account
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"name": "Rich", "balance": 250}, 201, &rich)
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"name": "Poor", "balance": 20}, 201, &poor)

	var moves []bank.TransferInfo
	doJSON(t, cli, "POST", ts.URL+"/rebalance", map[string]any{"min": 100}, 200, &moves)
	if len(moves) != 1 || moves[0].From != rich.ID || moves[0].To != poor.ID {
		t.Fatalf("moves=%+v", moves)
	}
	wantDec(t, "amount", moves[0].Amount, "80")

	doJSON(t, cli, "POST", ts.URL+"/rebalance", map[string]any{"min": 1000}, 409, nil)
	doJSON(t, cli, "GET", ts.URL+"/health", nil, 200, nil)
}
