// internal/bank/bank.go

// Bank 為聚合根 (Aggregate Root)：以 ID 管理帳戶與轉帳紀錄。
// Account 與 Transfer 本身為單執行緒型別；Bank 以單一互斥鎖序列化所有讀寫，
// 讓 HTTP 等併發呼叫端可安全驅動核心邏輯。
// 所有回傳值皆為值拷貝，呼叫端不會取得內部指標。
package bank

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/shopspring/decimal"

	"ledger/internal/logger"
)

// Bank 內部狀態：
// - mu：序列化所有讀寫，確保跨帳戶操作（轉帳、沖正、再平衡）原子完成。
// - accts：帳戶索引表（ID → *Account）。
// - transfers / order：轉帳索引表與建立順序，供沖正與查詢使用。
type Bank struct {
	mu        deadlock.Mutex
	log       *logger.Logger
	accts     map[string]*Account
	transfers map[string]*Transfer
	order     []string
}

// TransferInfo 為 Transfer 的可序列化快照，以帳戶 ID 取代指標。
type TransferInfo struct {
	ID         string          `json:"id"`
	From       string          `json:"from"`
	FromName   string          `json:"from_name"`
	To         string          `json:"to"`
	ToName     string          `json:"to_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
	Reversed   bool            `json:"reversed"`
	ReversalOf string          `json:"reversal_of,omitempty"`
	Summary    string          `json:"summary"`
}

// Receipt 為轉帳紀錄與雙方帳戶快照；三者在同一臨界區內取得，彼此一致。
type Receipt struct {
	Transfer TransferInfo `json:"transfer"`
	From     Account      `json:"from"`
	To       Account      `json:"to"`
}

// NewBank 建立空白銀行實例；log 為 nil 時不輸出日誌。
func NewBank(log *logger.Logger) *Bank {
	if log == nil {
		log = logger.Nop()
	}
	return &Bank{
		log:       log.With("component", "bank"),
		accts:     make(map[string]*Account),
		transfers: make(map[string]*Transfer),
	}
}

// Create 以名稱與初始餘額建立帳戶；初始餘額不得為負。
func (b *Bank) Create(name string, balance decimal.Decimal) (Account, error) {
	a, err := OpenAccount(name, balance)
	if err != nil {
		return Account{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accts[a.ID] = a
	b.log.Debug("account created", "account_id", a.ID, "name", a.Name, "balance", a.Balance.String())
	return *a, nil
}

// Get 依 ID 取得帳戶的目前快照；若不存在回傳 ErrNotFound。
func (b *Bank) Get(id string) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.account(id)
	if err != nil {
		return Account{}, err
	}
	return *a, nil
}

// List 回傳所有帳戶快照，依名稱再依 ID 排序。
func (b *Bank) List() []Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Account, 0, len(b.accts))
	for _, a := range b.accts {
		out = append(out, *a)
	}
	slices.SortFunc(out, func(x, y Account) int {
		return cmp.Or(strings.Compare(x.Name, y.Name), strings.Compare(x.ID, y.ID))
	})
	return out
}

// Total 回傳所有帳戶餘額總和；轉帳與沖正皆不改變此值。
func (b *Bank) Total() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := decimal.Zero
	for _, a := range b.accts {
		total = total.Add(a.Balance)
	}
	return total
}

// Deposit 存款：金額需 > 0；若帳戶不存在回傳 ErrNotFound。
func (b *Bank) Deposit(id string, amount decimal.Decimal) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.account(id)
	if err != nil {
		return Account{}, err
	}
	if _, err := a.Deposit(amount); err != nil {
		b.log.Warn("deposit rejected", "account_id", id, "error", err)
		return Account{}, err
	}
	b.log.Debug("deposit committed", "account_id", id, "amount", amount.String(), "balance", a.Balance.String())
	return *a, nil
}

// Withdraw 提款：金額需 > 0 且不得超過餘額；不存在則 ErrNotFound。
func (b *Bank) Withdraw(id string, amount decimal.Decimal) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.account(id)
	if err != nil {
		return Account{}, err
	}
	if err := a.Withdraw(amount); err != nil {
		b.log.Warn("withdraw rejected", "account_id", id, "error", err)
		return Account{}, err
	}
	b.log.Debug("withdraw committed", "account_id", id, "amount", amount.String(), "balance", a.Balance.String())
	return *a, nil
}

// Transfer 在單一臨界區內完成轉帳並登錄紀錄；任一檢核失敗皆不改變任何帳戶。
func (b *Bank) Transfer(fromID, toID string, amount decimal.Decimal) (Receipt, error) {
	if fromID == toID {
		return Receipt{}, ErrSameAccount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	from, err := b.account(fromID)
	if err != nil {
		return Receipt{}, err
	}
	to, err := b.account(toID)
	if err != nil {
		return Receipt{}, err
	}
	t, err := from.Transfer(to, amount)
	if err != nil {
		b.log.Warn("transfer rejected", "from", fromID, "to", toID, "error", err)
		return Receipt{}, err
	}
	b.record(t)
	return receiptOf(t), nil
}

// Reverse 沖正指定轉帳並登錄反向紀錄。
func (b *Bank) Reverse(transferID string) (Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.transfers[transferID]
	if !ok {
		return Receipt{}, fmt.Errorf("%w: transfer %s", ErrNotFound, transferID)
	}
	r, err := t.Reverse()
	if err != nil {
		b.log.Warn("reverse rejected", "transfer_id", transferID, "error", err)
		return Receipt{}, err
	}
	b.record(r)
	return receiptOf(r), nil
}

// GetTransfer 依 ID 取得轉帳快照。
func (b *Bank) GetTransfer(id string) (TransferInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.transfers[id]
	if !ok {
		return TransferInfo{}, fmt.Errorf("%w: transfer %s", ErrNotFound, id)
	}
	return infoOf(t), nil
}

// Transfers 依建立順序回傳所有轉帳快照。
func (b *Bank) Transfers() []TransferInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]TransferInfo, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, infoOf(b.transfers[id]))
	}
	return out
}

// account 必須在持有 mu 時呼叫。
func (b *Bank) account(id string) (*Account, error) {
	a, ok := b.accts[id]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, id)
	}
	return a, nil
}

// record 必須在持有 mu 時呼叫。
func (b *Bank) record(t *Transfer) {
	b.transfers[t.ID()] = t
	b.order = append(b.order, t.ID())
	b.log.Debug("transfer committed",
		"transfer_id", t.ID(),
		"from", t.Sender().ID,
		"to", t.Receiver().ID,
		"amount", t.Amount().String(),
		"reversal_of", t.ReversalOf(),
	)
}

// receiptOf 必須在持有 mu 時呼叫。
func receiptOf(t *Transfer) Receipt {
	return Receipt{Transfer: infoOf(t), From: *t.Sender(), To: *t.Receiver()}
}

func infoOf(t *Transfer) TransferInfo {
	return TransferInfo{
		ID:         t.ID(),
		From:       t.Sender().ID,
		FromName:   t.Sender().Name,
		To:         t.Receiver().ID,
		ToName:     t.Receiver().Name,
		Amount:     t.Amount(),
		CreatedAt:  t.CreatedAt(),
		Reversed:   t.Reversed(),
		ReversalOf: t.ReversalOf(),
		Summary:    t.String(),
	}
}
