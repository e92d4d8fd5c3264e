// Package bank 定義核心領域模型與業務規則。
// 本檔定義 Account：具名帳戶與其餘額，支援存款、提款與轉帳。
// Account 本身不含任何鎖，為單執行緒型別；需要併發存取時由 Bank 註冊表序列化。

package bank

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a named balance holder.
type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount 建立餘額為 0 的帳戶。名稱不要求唯一，帳戶以 ID 區分。
func NewAccount(name string) *Account {
	return &Account{ID: uuid.NewString(), Name: name, Balance: decimal.Zero}
}

// OpenAccount 以初始餘額建立帳戶；初始餘額不得為負。
func OpenAccount(name string, balance decimal.Decimal) (*Account, error) {
	if err := checkFloor("opening balance", balance); err != nil {
		return nil, err
	}
	a := NewAccount(name)
	a.Balance = balance
	return a, nil
}

// Deposit 存款並回傳新餘額。金額需 > 0 且在可表示範圍內，否則不變更狀態並回傳 ErrBadAmount。
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := checkAmount(amount); err != nil {
		return a.Balance, err
	}
	a.Balance = a.Balance.Add(amount)
	return a.Balance, nil
}

// Withdraw 提款：金額需 > 0 且不得超過餘額，失敗時餘額保持不變。
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(a.Balance) {
		return insufficient(a.Name, a.Balance, amount)
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Transfer 將 amount 從 a 轉入 other，成功時回傳新的 Transfer 紀錄。
// 所有檢核（金額、同帳戶、餘額）都在任何變更之前完成，
// 因此失敗時兩個帳戶皆不受影響。
func (a *Account) Transfer(other *Account, amount decimal.Decimal) (*Transfer, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	if other == nil {
		return nil, fmt.Errorf("%w: receiver is nil", ErrNotFound)
	}
	if other == a {
		return nil, ErrSameAccount
	}
	if amount.GreaterThan(a.Balance) {
		return nil, insufficient(a.Name, a.Balance, amount)
	}
	if err := a.Withdraw(amount); err != nil {
		return nil, err
	}
	// 金額已確認為正數，存款不會失敗
	_, _ = other.Deposit(amount)
	return newTransfer(a, other, amount, ""), nil
}

// String 以欄位形式輸出，例如 Account(name=Alice, balance=100)。
func (a *Account) String() string {
	return fmt.Sprintf("Account(name=%s, balance=%s)", a.Name, a.Balance)
}
