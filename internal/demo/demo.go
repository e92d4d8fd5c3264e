// Package demo 重現最小帳本的示範流程：
// 兩個帳戶存款、轉帳、列印狀態，再沖正該筆轉帳並列印最終狀態。
package demo

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"ledger/internal/bank"
)

// Run 將示範流程輸出至 w；任一步驟失敗即回傳錯誤。
func Run(w io.Writer) error {
	alice := bank.NewAccount("Alice")
	bob := bank.NewAccount("Bob")
	if _, err := alice.Deposit(decimal.NewFromInt(100)); err != nil {
		return err
	}
	if _, err := bob.Deposit(decimal.NewFromInt(50)); err != nil {
		return err
	}
	fmt.Fprintln(w, alice)
	fmt.Fprintln(w, bob)

	t, err := alice.Transfer(bob, decimal.NewFromInt(25))
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	fmt.Fprintln(w, t)
	fmt.Fprintln(w, alice)
	fmt.Fprintln(w, bob)

	fmt.Fprintln(w, "Reversing transfer")
	r, err := t.Reverse()
	if err != nil {
		return fmt.Errorf("reverse: %w", err)
	}
	fmt.Fprintln(w, r)
	fmt.Fprintln(w, alice)
	fmt.Fprintln(w, bob)
	return nil
}
