// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 帳戶、轉帳與 Bank 註冊表的所有失敗路徑皆回傳這些哨兵錯誤（或以 %w 包裝後的版本），
// 呼叫端一律以 errors.Is 判斷，HTTP 層再統一轉換成狀態碼。

package bank

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds 代表餘額不足：提款、轉帳或沖正會使餘額變為負數。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBadAmount 代表金額非法（存提款與轉帳金額 <= 0，或開戶餘額為負）。
	// 對應 HTTP 狀態碼 400 Bad Request。
	ErrBadAmount = errors.New("amount must be > 0")

	// ErrSameAccount 代表轉帳來源與目標為同一帳戶。
	// 對應 HTTP 狀態碼 400 Bad Request。
	ErrSameAccount = errors.New("sender and receiver are the same account")

	// ErrAlreadyReversed 代表該筆轉帳已被沖正過，不得重複沖正。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrAlreadyReversed = errors.New("transfer already reversed")

	// ErrNotFound 代表帳戶或轉帳不存在。
	// 對應 HTTP 狀態碼 404 Not Found。
	ErrNotFound = errors.New("not found")
)

// insufficient 附上帳戶名稱、餘額與金額，仍可用 errors.Is(err, ErrInsufficientFunds) 判斷。
func insufficient(name string, balance, amount decimal.Decimal) error {
	return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds, name, balance, amount)
}

// 金額上限：小數位數與指數皆不得超過 maxScale，有效位數不得超過 maxDigits。
// 超出範圍的值在任何運算之前即被拒絕，避免 decimal 對齊指數時產生巨大的 big.Int。
const (
	maxScale  = 18
	maxDigits = 38
)

// inRange 只檢查表示範圍；錯誤訊息刻意不輸出金額本身，因為超大指數的 String() 同樣昂貴。
func inRange(amount decimal.Decimal) error {
	if exp := amount.Exponent(); exp < -maxScale || exp > maxScale || amount.NumDigits() > maxDigits {
		return fmt.Errorf("%w: out of range (max %d digits, scale %d)", ErrBadAmount, maxDigits, maxScale)
	}
	return nil
}

// checkAmount 用於存提款、轉帳金額：需在範圍內且 > 0。
func checkAmount(amount decimal.Decimal) error {
	if err := inRange(amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrBadAmount, amount)
	}
	return nil
}

// checkFloor 用於開戶餘額與再平衡下限：需在範圍內且 >= 0。
func checkFloor(what string, amount decimal.Decimal) error {
	if err := inRange(amount); err != nil {
		return err
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s %s", ErrBadAmount, what, amount)
	}
	return nil
}
