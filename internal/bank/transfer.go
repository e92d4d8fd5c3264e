// internal/bank/transfer.go
//
// Transfer 為一筆已完成的資金移動紀錄。
// 它只「參照」兩個既有帳戶（不擁有），金額於建立後不可變。
// 沖正 (Reverse) 不修改紀錄本身的金額或方向，而是變更兩個帳戶並產生一筆新的反向 Transfer；
// 每筆紀錄最多只能被沖正一次。

package bank

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer records one completed movement of funds.
type Transfer struct {
	id         string
	sender     *Account
	receiver   *Account
	amount     decimal.Decimal
	createdAt  time.Time
	reversalOf string
	reversed   bool
}

// newTransfer 僅由 Account.Transfer 與 Transfer.Reverse 呼叫，兩者皆已完成餘額檢核。
func newTransfer(sender, receiver *Account, amount decimal.Decimal, reversalOf string) *Transfer {
	return &Transfer{
		id:         uuid.NewString(),
		sender:     sender,
		receiver:   receiver,
		amount:     amount,
		createdAt:  time.Now(),
		reversalOf: reversalOf,
	}
}

func (t *Transfer) ID() string { return t.id }
func (t *Transfer) Sender() *Account { return t.sender }
func (t *Transfer) Receiver() *Account { return t.receiver }
func (t *Transfer) Amount() decimal.Decimal { return t.amount }
func (t *Transfer) CreatedAt() time.Time { return t.createdAt }
func (t *Transfer) Reversed() bool { return t.reversed }

// ReversalOf 回傳此筆紀錄所沖正的原始轉帳 ID；原始轉帳回傳空字串。
func (t *Transfer) ReversalOf() string { return t.reversalOf }

// Reverse 將資金由 receiver 退回 sender，並回傳代表反向移動的新 Transfer。
// 失敗條件（皆於變更前檢查，失敗時兩帳戶不變）：
//   - 非由 Account.Transfer 產生的零值紀錄（缺少帳戶）→ ErrNotFound
//   - 已沖正過 → ErrAlreadyReversed
//   - receiver 目前餘額 < amount → ErrInsufficientFunds
func (t *Transfer) Reverse() (*Transfer, error) {
	if t.sender == nil || t.receiver == nil {
		return nil, fmt.Errorf("%w: transfer has no accounts", ErrNotFound)
	}
	if t.reversed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyReversed, t.id)
	}
	if t.amount.GreaterThan(t.receiver.Balance) {
		return nil, insufficient(t.receiver.Name, t.receiver.Balance, t.amount)
	}
	if err := t.receiver.Withdraw(t.amount); err != nil {
		return nil, err
	}
	_, _ = t.sender.Deposit(t.amount)
	t.reversed = true
	return newTransfer(t.receiver, t.sender, t.amount, t.id), nil
}

// String 供使用者顯示，例如 "Alice transferred 25 to Bob"。
func (t *Transfer) String() string {
	return fmt.Sprintf("%s transferred %s to %s", t.sender.Name, t.amount, t.receiver.Name)
}

// GoString 供除錯顯示（%#v），例如 "Transfer(Alice, Bob, 25)"。
func (t *Transfer) GoString() string {
	return fmt.Sprintf("Transfer(%s, %s, %s)", t.sender.Name, t.receiver.Name, t.amount)
}
