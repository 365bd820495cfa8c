// internal/bank/ledger.go

// Ledger 是唯一可以修改餘額與追加交易的元件。
// 每次操作在 Store 的臨界區內完成「更新餘額 → 追加交易 → 寫回快照」，
// 寫回失敗時變更仍保留，並以 ErrPersistence 回報給呼叫端作為警告。
package bank

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cashit/internal/log"
	"cashit/internal/validation"
)

const (
	dateLayout = "Jan 02, 2006"
	timeLayout = "03:04 PM"

	// RecentLimit 為儀表板顯示的交易筆數。
	RecentLimit = 5

	// 單筆金額最多 15 位整數、10 位小數（小數於入帳前四捨五入到兩位）。
	maxAmountDigits = 15
	maxAmountScale  = 10
)

type Ledger struct {
	store  *Store
	now    func() time.Time
	logger log.Logger
}

// LedgerOption 調整 Ledger 的行為（主要供測試固定時間）。
type LedgerOption func(*Ledger)

// WithClock 指定交易時間來源。
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(store *Store, logger log.Logger, opts ...LedgerOption) *Ledger {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	l := &Ledger{
		store:  store,
		now:    time.Now,
		logger: logger.WithName("ledger"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Debit 扣款並記錄一筆 "-" 交易，回傳新餘額。
// 金額 <= 0 回傳 ErrInvalidAmount；餘額不足回傳 ErrInsufficientFunds，兩者皆不修改帳戶。
func (l *Ledger) Debit(a *Account, amount decimal.Decimal, description string, kind Kind) (decimal.Decimal, error) {
	return l.apply(a, amount, description, kind, SignDebit)
}

// Credit 入帳並記錄一筆 "+" 交易，回傳新餘額。
func (l *Ledger) Credit(a *Account, amount decimal.Decimal, description string, kind Kind) (decimal.Decimal, error) {
	return l.apply(a, amount, description, kind, SignCredit)
}

func (l *Ledger) apply(a *Account, amount decimal.Decimal, description string, kind Kind, sign Sign) (decimal.Decimal, error) {
	amount, err := CheckAmount(amount)
	if err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	err = l.store.mutate(func() error {
		if !l.store.owns(a) {
			return fmt.Errorf("%w: %s", ErrNotFound, a.ID)
		}
		if a.IsAdmin() {
			return ErrProtectedAccount
		}
		balance = a.Balance
		if sign == SignDebit && a.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		if sign == SignDebit {
			a.Balance = a.Balance.Sub(amount)
		} else {
			a.Balance = a.Balance.Add(amount)
		}
		balance = a.Balance

		ts := l.now()
		a.Transactions = append(a.Transactions, Transaction{
			ID:           uuid.NewString(),
			Description:  description,
			Date:         ts.Format(dateLayout),
			Time:         ts.Format(timeLayout),
			Amount:       amount,
			Sign:         sign,
			Kind:         kind,
			BalanceAfter: a.Balance,
		})
		l.logger.Info("transaction recorded",
			"cnic", a.ID, "type", kind, "sign", sign, "amount", amount.StringFixed(2), "balance", a.Balance.StringFixed(2))
		return nil
	})
	return balance, err
}

// Transfer 轉帳到外部 IBAN。只扣除付款方，不會入帳到任何本地帳戶。
func (l *Ledger) Transfer(a *Account, iban string, amount decimal.Decimal) (decimal.Decimal, error) {
	iban = strings.TrimSpace(iban)
	if !validation.IsTransferDestinationValid(iban) {
		return decimal.Zero, fmt.Errorf("%w: IBAN seems too short", ErrValidation)
	}
	return l.Debit(a, amount, "Transfer to "+ShortIBAN(iban), KindTransfer)
}

// PayBill 繳納帳單（電費、瓦斯、網路…）。
func (l *Ledger) PayBill(a *Account, billID string, amount decimal.Decimal) (decimal.Decimal, error) {
	ref, err := reference(billID, "bill ID")
	if err != nil {
		return decimal.Zero, err
	}
	return l.Debit(a, amount, "Bill Payment - ID "+ref, KindBill)
}

// PayTax 繳稅。
func (l *Ledger) PayTax(a *Account, taxRef string, amount decimal.Decimal) (decimal.Decimal, error) {
	ref, err := reference(taxRef, "tax reference")
	if err != nil {
		return decimal.Zero, err
	}
	return l.Debit(a, amount, "Tax Payment - Ref "+ref, KindTax)
}

// PayChallan 繳納政府規費或罰單。
func (l *Ledger) PayChallan(a *Account, challan string, amount decimal.Decimal) (decimal.Decimal, error) {
	ref, err := reference(challan, "challan number")
	if err != nil {
		return decimal.Zero, err
	}
	return l.Debit(a, amount, "Challan Payment - "+ref, KindChallan)
}

func reference(s, what string) (string, error) {
	if !validation.IsReferenceValid(s) {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrValidation, what)
	}
	return strings.TrimSpace(s), nil
}

// Recent 依時間先後回傳最近 RecentLimit 筆交易的拷貝；沒有交易時回傳 ErrNoTransactions。
func (l *Ledger) Recent(a *Account) ([]Transaction, error) {
	var out []Transaction
	l.store.View(a, func(a *Account) {
		txs := a.Transactions
		if len(txs) > RecentLimit {
			txs = txs[len(txs)-RecentLimit:]
		}
		out = make([]Transaction, len(txs))
		copy(out, txs)
	})
	if len(out) == 0 {
		return nil, ErrNoTransactions
	}
	return out, nil
}

// ShortIBAN 將長於 14 字元的 IBAN 縮寫為「前 10 碼...末 4 碼」。
func ShortIBAN(iban string) string {
	if len(iban) <= 14 {
		return iban
	}
	return iban[:10] + "..." + iban[len(iban)-4:]
}

// ParseAmount 解析使用者輸入的金額（不接受科學記號），四捨五入到小數第二位，且必須大於零。
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount cannot be empty", ErrValidation)
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrValidation, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrValidation, s)
	}
	return CheckAmount(d)
}

// CheckAmount 檢查金額的位數範圍，回傳四捨五入到兩位小數的值；結果必須大於零。
// 位數只由係數與指數計算，不展開數值，因此 1e1000000 之類的輸入也能立即拒絕。
func CheckAmount(d decimal.Decimal) (decimal.Decimal, error) {
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	exp := int(d.Exponent())
	if exp < -maxAmountScale || d.NumDigits()+exp > maxAmountDigits {
		return decimal.Zero, ErrAmountOutOfRange
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
