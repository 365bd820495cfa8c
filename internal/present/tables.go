package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cashit/internal/bank"
)

// Field 為收據或摘要中的一列。
type Field struct {
	Label string
	Value string
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// Banner 輸出置中的標題框。
func Banner(w io.Writer, title string) {
	line := strings.Repeat("=", 50)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", line, text.AlignCenter.Apply(title, len(line)), line)
}

// Dashboard 顯示帳戶概況與最近交易。recent 為空時顯示尚無交易。
func Dashboard(w io.Writer, a *bank.Account, recent []bank.Transaction) {
	Banner(w, "DASHBOARD OVERVIEW")

	t := newTable(w)
	t.AppendRow(table.Row{"Account Holder", a.Name})
	t.AppendRow(table.Row{"CNIC", a.ID})
	t.AppendRow(table.Row{"IBAN", orDash(a.AccountNumber())})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Current Balance", Rs(a.Balance)})
	t.AppendRow(table.Row{"Savings Account", Rs(a.Savings)})
	t.AppendRow(table.Row{"Monthly Spending", Rs(a.MonthlySpending)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()

	fmt.Fprintf(w, "\nRecent Transactions (Last %d):\n", bank.RecentLimit)
	if len(recent) == 0 {
		fmt.Fprintln(w, "   No transactions recorded yet.")
		return
	}
	Transactions(w, recent)
}

// Transactions 以表格列出交易，依傳入順序。
func Transactions(w io.Writer, txs []bank.Transaction) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Time", "Description", "Amount", "Balance After"})
	for _, tx := range txs {
		t.AppendRow(table.Row{tx.Date, tx.Time, tx.Description, SignedRs(tx), Rs(tx.BalanceAfter)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

// Accounts 為管理員的帳戶清單。
func Accounts(w io.Writer, accts []*bank.Account) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "CNIC", "IBAN", "Balance"})
	for _, a := range accts {
		t.AppendRow(table.Row{a.Name, a.ID, orDash(a.AccountNumber()), Rs(a.Balance)})
	}
	t.AppendFooter(table.Row{"", "", "Accounts", len(accts)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

// Receipt 輸出操作結果或確認前的摘要。
func Receipt(w io.Writer, title string, fields ...Field) {
	t := newTable(w)
	t.SetTitle(title)
	for _, f := range fields {
		t.AppendRow(table.Row{f.Label, f.Value})
	}
	t.Render()
}
