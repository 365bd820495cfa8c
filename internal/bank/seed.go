// internal/bank/seed.go
package bank

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedEntry struct {
	description string
	date        string
	time        string
	amount      int64 // 帶正負號
	kind        Kind
}

type seedAccount struct {
	name            string
	cnic            string
	iban            string
	pin             string
	balance         int64
	savings         int64
	monthlySpending int64
	history         []seedEntry // 依時間先後排列
}

var seedAccounts = []seedAccount{
	{name: "ADMIN", cnic: AdminID, pin: "0000"},
	{
		name: "Muhammad Ali", cnic: "35202-9823471-2", iban: "PK11111111111111111111", pin: "1234",
		balance: 1245500, savings: 450000, monthlySpending: 85200,
		history: []seedEntry{
			{"LESCO Bill", "Nov 25, 2025", "09:15 AM", -18200, KindBill},
			{"Carrefour Grocery", "Nov 28, 2025", "06:40 PM", -24350, KindTransfer},
			{"Salary Credit", "Dec 01, 2025", "10:00 AM", 350000, KindDeposit},
			{"Netflix Subscription", "Dec 02, 2025", "08:05 PM", -1500, KindBill},
		},
	},
	{
		name: "Sara Imran", cnic: "35202-9876543-1", iban: "PK33333333333333333333", pin: "9999",
		balance: 965200, savings: 42000, monthlySpending: 32200,
		history: []seedEntry{
			{"Chezious Bill", "Dec 19, 2025", "09:30 PM", -4350, KindBill},
			{"Salary Credit", "Dec 20, 2025", "10:00 AM", 350000, KindDeposit},
			{"UET Fee", "Dec 22, 2025", "11:20 AM", -100500, KindChallan},
			{"Income Tax", "Dec 25, 2025", "02:45 PM", -3200, KindTax},
		},
	},
	{
		name: "Ahmed Khan", cnic: "35202-1234567-9", iban: "PK22222222222222222222", pin: "5678",
		balance: 132500, savings: 20000, monthlySpending: 5200,
		history: []seedEntry{
			{"E-Challan", "Dec 05, 2025", "12:10 PM", -2000, KindChallan},
			{"PTCL Bill", "Dec 11, 2025", "04:25 PM", -2350, KindBill},
			{"Salary Credit", "Dec 14, 2025", "10:00 AM", 50000, KindDeposit},
			{"Gas Bill", "Dec 21, 2025", "07:50 PM", -1500, KindBill},
		},
	},
}

// DefaultAccounts 回傳預設帳戶集合（管理員加三位客戶）。
// 歷史紀錄的 balance_after 由目前餘額往回推算，最後一筆必等於餘額。
func DefaultAccounts() map[string]*Account {
	out := make(map[string]*Account, len(seedAccounts))
	for _, sa := range seedAccounts {
		a := &Account{
			ID:              sa.cnic,
			Name:            sa.name,
			PIN:             sa.pin,
			Balance:         decimal.NewFromInt(sa.balance),
			Savings:         decimal.NewFromInt(sa.savings),
			MonthlySpending: decimal.NewFromInt(sa.monthlySpending),
			Transactions:    make([]Transaction, len(sa.history)),
		}
		if sa.iban != "" {
			iban := sa.iban
			a.IBAN = &iban
		}

		after := a.Balance
		for i := len(sa.history) - 1; i >= 0; i-- {
			e := sa.history[i]
			amt := decimal.NewFromInt(e.amount)
			sign := SignCredit
			if amt.IsNegative() {
				sign = SignDebit
			}
			a.Transactions[i] = Transaction{
				ID:           uuid.NewString(),
				Description:  e.description,
				Date:         e.date,
				Time:         e.time,
				Amount:       amt.Abs(),
				Sign:         sign,
				Kind:         e.kind,
				BalanceAfter: after,
			}
			after = after.Sub(amt)
		}
		out[a.ID] = a
	}
	return out
}
