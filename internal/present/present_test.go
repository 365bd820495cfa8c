package present

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"cashit/internal/bank"
)

func TestRs(t *testing.T) {
	cases := map[string]string{
		"1245500":    "Rs 1,245,500.00",
		"500":        "Rs 500.00",
		"0":          "Rs 0.00",
		"1234.5":     "Rs 1,234.50",
		"999.999":    "Rs 1,000.00",
		"-24350":     "Rs -24,350.00",
		"1000000.01": "Rs 1,000,000.01",
		"100":        "Rs 100.00",
		// 超過 int64 範圍
		"9223372036854775808":      "Rs 9,223,372,036,854,775,808.00",
		"100000000000000000000.50": "Rs 100,000,000,000,000,000,000.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, Rs(decimal.RequireFromString(in)), in)
	}
}

func TestSignedRs(t *testing.T) {
	tx := bank.Transaction{Amount: decimal.NewFromInt(1500), Sign: bank.SignDebit}
	assert.Equal(t, "-Rs 1,500.00", SignedRs(tx))
	tx.Sign = bank.SignCredit
	assert.Equal(t, "+Rs 1,500.00", SignedRs(tx))
}

func TestDashboard(t *testing.T) {
	accts := bank.DefaultAccounts()
	ali := accts["35202-9823471-2"]

	var buf bytes.Buffer
	Dashboard(&buf, ali, ali.Transactions)
	out := buf.String()
	assert.Contains(t, out, "DASHBOARD OVERVIEW")
	assert.Contains(t, out, "Muhammad Ali")
	assert.Contains(t, out, "PK11111111111111111111")
	assert.Contains(t, out, "Rs 1,245,500.00")
	assert.Contains(t, out, "Rs 450,000.00")
	assert.Contains(t, out, "Netflix Subscription")
	assert.Contains(t, out, "+Rs 350,000.00")

	buf.Reset()
	admin := accts[bank.AdminID]
	Dashboard(&buf, admin, nil)
	out = buf.String()
	assert.Contains(t, out, "No transactions recorded yet.")
	assert.NotContains(t, out, "Netflix")
}

func TestAccounts(t *testing.T) {
	var list []*bank.Account
	for _, a := range bank.DefaultAccounts() {
		list = append(list, a)
	}

	var buf bytes.Buffer
	Accounts(&buf, list)
	out := buf.String()
	for _, a := range list {
		assert.Contains(t, out, a.ID)
		assert.Contains(t, out, a.Name)
	}
	assert.Contains(t, out, "Rs 965,200.00")
}

func TestReceipt(t *testing.T) {
	var buf bytes.Buffer
	Receipt(&buf, "Bill Payment Summary",
		Field{"Bill ID/Reference", "0412345678"},
		Field{"Amount", Rs(decimal.NewFromInt(2500))},
	)
	out := buf.String()
	assert.Contains(t, out, "Bill Payment Summary")
	assert.Contains(t, out, "0412345678")
	assert.Contains(t, out, "Rs 2,500.00")
}
