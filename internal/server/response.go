// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式。
// 成功回應直接輸出 JSON；錯誤回應一律包成 {"error": {"message", "code"}}，
// 並由 statusFor 集中將領域錯誤對應到 HTTP 狀態碼。
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger/internal/bank"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// writeJSON 統一輸出成功回應。
func writeJSON(c *gin.Context, code int, v any) {
	c.JSON(code, v)
}

// writeErr 依錯誤種類決定狀態碼後輸出錯誤信封。
func writeErr(c *gin.Context, err error) {
	status, code := statusFor(err)
	writeErrCode(c, status, code, err)
}

func writeErrCode(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// statusFor 對應表：
//   - ErrNotFound → 404
//   - ErrInsufficientFunds / ErrAlreadyReversed → 409
//   - ErrBadAmount / ErrSameAccount → 400
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, bank.ErrInsufficientFunds):
		return http.StatusConflict, "insufficient_funds"
	case errors.Is(err, bank.ErrAlreadyReversed):
		return http.StatusConflict, "already_reversed"
	case errors.Is(err, bank.ErrBadAmount):
		return http.StatusBadRequest, "bad_amount"
	case errors.Is(err, bank.ErrSameAccount):
		return http.StatusBadRequest, "same_account"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
