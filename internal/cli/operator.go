// internal/cli/operator.go
//
// Package cli 為終端機介面：主選單、客戶選單與管理員選單。
// 所有輸入先經 validation 檢查，再交給 bank 的 Session、Ledger 與 Admin；
// 可重新輸入的錯誤會再次提示，寫檔失敗只顯示警告。
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"cashit/internal/bank"
	"cashit/internal/log"
	"cashit/internal/present"
)

// largeTransfer 以上的轉帳需要額外確認。
var largeTransfer = decimal.NewFromInt(1_000_000)

var (
	topMenu = []Choice{
		{"1", "Login"},
		{"2", "Create New Account"},
		{"3", "Exit"},
	}
	customerMenu = []Choice{
		{"1", "Transfer"},
		{"2", "Bill Payment"},
		{"3", "Tax Payment"},
		{"4", "Challan Payment"},
		{"5", "View Dashboard"},
		{"6", "Change PIN"},
		{"7", "Logout"},
	}
	adminMenu = []Choice{
		{"1", "View All Users"},
		{"2", "Delete User"},
		{"3", "Add / Deduct Money"},
		{"4", "Logout"},
	}
)

type Operator struct {
	in      Input
	out     io.Writer
	store   *bank.Store
	ledger  *bank.Ledger
	session *bank.Session
	admin   *bank.Admin
	logger  log.Logger
}

func NewOperator(in Input, out io.Writer, store *bank.Store, ledger *bank.Ledger, session *bank.Session, admin *bank.Admin, logger log.Logger) *Operator {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Operator{
		in:      in,
		out:     out,
		store:   store,
		ledger:  ledger,
		session: session,
		admin:   admin,
		logger:  logger.WithName("cli"),
	}
}

// Run 顯示主選單直到使用者選擇離開。輸入結束（io.EOF）視為正常離開。
func (o *Operator) Run() error {
	err := o.run()
	if errors.Is(err, io.EOF) {
		o.println("\nGoodbye!")
		return nil
	}
	return err
}

func (o *Operator) run() error {
	for {
		o.println("\n======== CASHIT SYSTEM ========")
		choice, err := o.choose("menu", topMenu)
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			acc, err := o.login()
			if err != nil {
				return err
			}
			if acc == nil {
				continue
			}
			if acc.IsAdmin() {
				err = o.adminLoop()
			} else {
				err = o.customerLoop(acc)
			}
			if err != nil {
				return err
			}
		case "2":
			if err := o.createAccount(); err != nil {
				return err
			}
		case "3":
			o.println("Goodbye!")
			return nil
		default:
			o.println("Invalid option.")
		}
	}
}

func (o *Operator) customerLoop(acc *bank.Account) error {
	for {
		o.printf("\n======== Welcome, %s ========\n", acc.Name)
		choice, err := o.choose("menu", customerMenu)
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			err = o.transfer(acc)
		case "2":
			err = o.payBill(acc)
		case "3":
			err = o.payTax(acc)
		case "4":
			err = o.payChallan(acc)
		case "5":
			o.dashboard(acc)
		case "6":
			err = o.changePIN(acc)
		case "7":
			o.println("\nLogged out successfully.")
			return nil
		default:
			o.println("Invalid option.")
		}
		if err != nil {
			return err
		}
	}
}

// choose 接受選項編號或選項文字（不分大小寫）。無法辨識時回傳原輸入。
func (o *Operator) choose(label string, choices []Choice) (string, error) {
	for _, c := range choices {
		o.printf("%s. %s\n", c.Key, c.Text)
	}
	s, err := o.in.Select(label, choices)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	for _, c := range choices {
		if s == c.Key || strings.EqualFold(s, c.Text) {
			return c.Key, nil
		}
	}
	return s, nil
}

func (o *Operator) line(label string) (string, error) {
	s, err := o.in.Line(label)
	return strings.TrimSpace(s), err
}

func (o *Operator) secret(label string) (string, error) {
	s, err := o.in.Secret(label)
	return strings.TrimSpace(s), err
}

// confirm 詢問 y/n；只有 y 或 yes 視為同意。
func (o *Operator) confirm(label string) (bool, error) {
	s, err := o.line(label + " (y/n)")
	if err != nil {
		return false, err
	}
	s = strings.ToLower(s)
	return s == "y" || s == "yes", nil
}

// readAmount 重複詢問直到取得大於零的金額。
func (o *Operator) readAmount(label string) (decimal.Decimal, error) {
	for {
		s, err := o.line(label)
		if err != nil {
			return decimal.Zero, err
		}
		amt, err := bank.ParseAmount(s)
		switch {
		case err == nil:
			return amt, nil
		case s == "":
			o.println("Amount cannot be empty.")
		case errors.Is(err, bank.ErrInvalidAmount):
			o.println("Amount must be greater than zero.")
		case errors.Is(err, bank.ErrAmountOutOfRange):
			o.println("Amount is too large.")
		default:
			o.println("Invalid amount. Please enter numbers only (e.g., 5000.50).")
		}
	}
}

// reportLedger 顯示帳本操作結果；回傳 true 代表變更已生效（含寫檔失敗的情況）。
func (o *Operator) reportLedger(balance decimal.Decimal, err error) bool {
	switch {
	case err == nil:
		o.printf("Amount processed successfully. New Balance: %s\n", present.Rs(balance))
		return true
	case errors.Is(err, bank.ErrPersistence):
		o.printf("Amount processed successfully. New Balance: %s\n", present.Rs(balance))
		o.warnPersistence(err)
		return true
	case errors.Is(err, bank.ErrInsufficientFunds):
		o.println("\nInsufficient Balance!")
		o.println("   Transaction cannot be processed.")
		o.println("   Please deposit funds or enter a smaller amount.")
	default:
		o.printf("Transaction failed: %v\n", err)
	}
	return false
}

func (o *Operator) warnPersistence(err error) {
	o.logger.Warn("change kept in memory only", "error", err)
	o.printf("Warning: %v. Your change is applied but may be lost when the program exits.\n", err)
}

func (o *Operator) println(a ...any) {
	fmt.Fprintln(o.out, a...)
}

func (o *Operator) printf(format string, a ...any) {
	fmt.Fprintf(o.out, format, a...)
}
