// internal/storage/model.go
//
// 定義持久化層的資料結構。
// 快照為「以 CNIC 為鍵的完整帳戶對照表」，每次變更後整份覆寫；
// 本層只處理序列化，不包含任何帳本規則。
package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion 為目前快照格式版本。
const SchemaVersion = 2

// Meta 記錄快照的儲存方式、版本與建立時間。
type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// PersistTransaction 為交易紀錄的序列化格式，欄位一經寫入不再修改。
type PersistTransaction struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	Amount       decimal.Decimal `json:"amount"` // 絕對值
	Sign         string          `json:"sign"`   // "+" 或 "-"
	Kind         string          `json:"type"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// PersistAccount 為帳戶的序列化格式。IBAN 為 nil 代表管理員帳戶。
type PersistAccount struct {
	Name            string               `json:"name"`
	CNIC            string               `json:"cnic"`
	IBAN            *string              `json:"iban"`
	PIN             string               `json:"pin"`
	Balance         decimal.Decimal      `json:"balance"`
	Savings         decimal.Decimal      `json:"savings"`
	MonthlySpending decimal.Decimal      `json:"monthly_spending"`
	Transactions    []PersistTransaction `json:"transactions"`
}

// Snapshot 為整個帳戶集合的快照，Accounts 以 CNIC 為鍵。
type Snapshot struct {
	Meta     Meta                      `json:"_meta"`
	Accounts map[string]PersistAccount `json:"accounts"`
}
