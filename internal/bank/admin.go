// internal/bank/admin.go
package bank

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cashit/internal/log"
)

// Direction 為管理員調整餘額的方向。
type Direction string

const (
	DirectionAdd    Direction = "add"
	DirectionDeduct Direction = "deduct"
)

// Admin 提供管理員帳戶可用的操作。呼叫端須先確認登入者為管理員。
type Admin struct {
	store  *Store
	ledger *Ledger
	logger log.Logger
}

func NewAdmin(store *Store, ledger *Ledger, logger log.Logger) *Admin {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Admin{store: store, ledger: ledger, logger: logger.WithName("admin")}
}

// ListAccounts 回傳所有帳戶（含管理員）的拷貝。
func (m *Admin) ListAccounts() []*Account {
	return m.store.List()
}

func (m *Admin) DeleteAccount(id string) error {
	if err := m.store.Delete(id); err != nil {
		m.logger.Warn("delete rejected", "cnic", id, "error", err)
		return err
	}
	return nil
}

// AdjustBalance 由管理員直接加減餘額，並以 admin-credit / admin-debit 記錄。
// 檢查順序：管理員帳戶、金額、帳戶是否存在、餘額是否足夠。
func (m *Admin) AdjustBalance(id string, amount decimal.Decimal, dir Direction) (decimal.Decimal, error) {
	if id == AdminID {
		return decimal.Zero, ErrProtectedAccount
	}
	if _, err := CheckAmount(amount); err != nil {
		return decimal.Zero, err
	}
	a, err := m.store.Get(id)
	if err != nil {
		return decimal.Zero, err
	}

	switch dir {
	case DirectionAdd:
		return m.ledger.Credit(a, amount, "Admin Credit", KindAdminCredit)
	case DirectionDeduct:
		return m.ledger.Debit(a, amount, "Admin Deduction", KindAdminDebit)
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown direction %q", ErrValidation, dir)
	}
}
