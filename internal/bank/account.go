// Package bank 定義核心領域模型與帳本規則。
// 本檔定義 Account 與 Transaction 結構，不含任何 CLI、HTTP 或儲存細節。

package bank

import (
	"github.com/shopspring/decimal"
)

// AdminID 為管理員帳戶保留的 CNIC，不可刪除、不可調整餘額。
const AdminID = "00000-0000000-0"

// SignupBonus 為開戶時的初始餘額。
var SignupBonus = decimal.NewFromInt(500)

// Kind 標示交易類別。
type Kind string

const (
	KindTransfer    Kind = "transfer"
	KindBill        Kind = "bill"
	KindTax         Kind = "tax"
	KindChallan     Kind = "challan"
	KindAdminCredit Kind = "admin-credit"
	KindAdminDebit  Kind = "admin-debit"
	// KindDeposit 只出現在預設帳戶的歷史紀錄（薪資入帳）。
	KindDeposit Kind = "deposit"
)

func (k Kind) valid() bool {
	switch k {
	case KindTransfer, KindBill, KindTax, KindChallan, KindAdminCredit, KindAdminDebit, KindDeposit:
		return true
	}
	return false
}

// Sign 為金額方向：入帳 "+"、扣款 "-"。
type Sign string

const (
	SignCredit Sign = "+"
	SignDebit  Sign = "-"
)

// Transaction represents one balance change. Once appended it is never edited.
type Transaction struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	Amount       decimal.Decimal `json:"amount"`
	Sign         Sign            `json:"sign"`
	Kind         Kind            `json:"type"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// Signed 回傳帶正負號的金額。
func (t Transaction) Signed() decimal.Decimal {
	if t.Sign == SignDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Account represents a customer (or the admin) account.
type Account struct {
	ID              string          `json:"cnic"`
	Name            string          `json:"name"`
	IBAN            *string         `json:"iban"`
	PIN             string          `json:"-"`
	Balance         decimal.Decimal `json:"balance"`
	Savings         decimal.Decimal `json:"savings"`
	MonthlySpending decimal.Decimal `json:"monthly_spending"`
	Transactions    []Transaction   `json:"-"`
}

// IsAdmin 回報是否為管理員帳戶。
func (a *Account) IsAdmin() bool {
	return a.ID == AdminID
}

// AccountNumber 回傳 IBAN；管理員帳戶沒有帳號，回傳空字串。
func (a *Account) AccountNumber() string {
	if a.IBAN == nil {
		return ""
	}
	return *a.IBAN
}

// Clone 深拷貝帳戶（含交易切片），供其他 goroutine 安全讀取。
func (a *Account) Clone() *Account {
	cp := *a
	if a.IBAN != nil {
		iban := *a.IBAN
		cp.IBAN = &iban
	}
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}
