// internal/bank/rebalance.go
//
// Rebalance 讓每個帳戶餘額至少達到 floor：
// 由盈餘最多的帳戶依序撥款給缺口最大的帳戶。
// 先完整計算撥款計畫再執行，總額不足時直接失敗，不做任何變更。

package bank

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// move 為撥款計畫中的一步。
type move struct {
	from, to *Account
	amount   decimal.Decimal
}

// slot 記錄帳戶與其距離 floor 的差額（盈餘或缺口，皆為正數）。
type slot struct {
	acct *Account
	gap  decimal.Decimal
}

// Rebalance 回傳本次產生的轉帳；所有帳戶皆已達標時回傳空切片。
func (b *Bank) Rebalance(floor decimal.Decimal) ([]TransferInfo, error) {
	if err := checkFloor("minimum", floor); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	accts := make([]*Account, 0, len(b.accts))
	for _, a := range b.accts {
		accts = append(accts, a)
	}
	plan, err := planRebalance(accts, floor)
	if err != nil {
		b.log.Warn("rebalance rejected", "minimum", floor.String(), "error", err)
		return nil, err
	}

	out := make([]TransferInfo, 0, len(plan))
	for _, m := range plan {
		t, err := m.from.Transfer(m.to, m.amount)
		if err != nil {
			// 計畫已保證每位撥款人餘額足夠
			return out, fmt.Errorf("rebalance %s -> %s: %w", m.from.ID, m.to.ID, err)
		}
		b.record(t)
		out = append(out, infoOf(t))
	}
	b.log.Info("rebalance committed", "minimum", floor.String(), "transfers", len(out))
	return out, nil
}

func planRebalance(accts []*Account, floor decimal.Decimal) ([]move, error) {
	total := decimal.Zero
	var donors, takers []slot
	for _, a := range accts {
		total = total.Add(a.Balance)
		switch diff := a.Balance.Sub(floor); diff.Sign() {
		case 1:
			donors = append(donors, slot{acct: a, gap: diff})
		case -1:
			takers = append(takers, slot{acct: a, gap: diff.Neg()})
		}
	}
	need := floor.Mul(decimal.NewFromInt(int64(len(accts))))
	if total.LessThan(need) {
		return nil, insufficient("ledger", total, need)
	}

	byGap := func(x, y slot) int {
		return cmp.Or(
			y.gap.Cmp(x.gap),
			strings.Compare(x.acct.Name, y.acct.Name),
			strings.Compare(x.acct.ID, y.acct.ID),
		)
	}
	slices.SortFunc(donors, byGap)
	slices.SortFunc(takers, byGap)

	var plan []move
	d := 0
	for _, tk := range takers {
		for tk.gap.IsPositive() {
			give := decimal.Min(donors[d].gap, tk.gap)
			plan = append(plan, move{from: donors[d].acct, to: tk.acct, amount: give})
			donors[d].gap = donors[d].gap.Sub(give)
			tk.gap = tk.gap.Sub(give)
			if donors[d].gap.IsZero() {
				d++
			}
		}
	}
	return plan, nil
}
