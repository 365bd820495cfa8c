// internal/storage/sqlitestore.go
//
// SQLite 快照後端（gorm）。與 JSON 後端語意相同：每次 Save 於單一 DB 交易內
// 清空並重寫 accounts 與 transactions 兩張表，交易順序以 seq 欄位保存。
package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteStorageName = "sqlite"

type accountRow struct {
	CNIC            string          `gorm:"column:cnic;primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	IBAN            *string         `gorm:"column:iban"`
	PIN             string          `gorm:"column:pin;not null"`
	Balance         decimal.Decimal `gorm:"column:balance;type:varchar(78);not null"`
	Savings         decimal.Decimal `gorm:"column:savings;type:varchar(78);not null"`
	MonthlySpending decimal.Decimal `gorm:"column:monthly_spending;type:varchar(78);not null"`
}

func (accountRow) TableName() string { return "accounts" }

type transactionRow struct {
	ID           string          `gorm:"column:id;primaryKey"`
	AccountCNIC  string          `gorm:"column:account_cnic;not null;index:idx_account_seq"`
	Seq          int             `gorm:"column:seq;not null;index:idx_account_seq"`
	Description  string          `gorm:"column:description;not null"`
	Date         string          `gorm:"column:date;not null"`
	Time         string          `gorm:"column:time;not null"`
	Amount       decimal.Decimal `gorm:"column:amount;type:varchar(78);not null"`
	Sign         string          `gorm:"column:sign;type:varchar(1);not null"`
	Kind         string          `gorm:"column:kind;not null"`
	BalanceAfter decimal.Decimal `gorm:"column:balance_after;type:varchar(78);not null"`
}

func (transactionRow) TableName() string { return "transactions" }

// SQLite 以 gorm 連線保存快照。
type SQLite struct {
	db *gorm.DB
}

// NewSQLite 開啟（必要時建立）資料庫。location 可為檔案路徑，
// 或以 "file:" 開頭的完整 DSN（測試使用 in-memory DSN）。
func NewSQLite(location string) (*SQLite, error) {
	dsn := location
	if !strings.HasPrefix(location, "file:") {
		dsn = fmt.Sprintf("file:%s?cache=shared", location)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.AutoMigrate(&accountRow{}, &transactionRow{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load 讀取整份快照；accounts 表為空時回傳 ErrNoSnapshot。
func (s *SQLite) Load() (Snapshot, error) {
	snap := Snapshot{Meta: Meta{Storage: sqliteStorageName, Version: SchemaVersion}}

	var accounts []accountRow
	if err := s.db.Order("cnic").Find(&accounts).Error; err != nil {
		return snap, fmt.Errorf("%w: read accounts: %v", ErrCorrupt, err)
	}
	if len(accounts) == 0 {
		return snap, ErrNoSnapshot
	}

	var txs []transactionRow
	if err := s.db.Order("account_cnic").Order("seq").Find(&txs).Error; err != nil {
		return snap, fmt.Errorf("%w: read transactions: %v", ErrCorrupt, err)
	}

	snap.Accounts = make(map[string]PersistAccount, len(accounts))
	for _, a := range accounts {
		snap.Accounts[a.CNIC] = PersistAccount{
			Name:            a.Name,
			CNIC:            a.CNIC,
			IBAN:            a.IBAN,
			PIN:             a.PIN,
			Balance:         a.Balance,
			Savings:         a.Savings,
			MonthlySpending: a.MonthlySpending,
			Transactions:    []PersistTransaction{},
		}
	}
	for _, t := range txs {
		acc, ok := snap.Accounts[t.AccountCNIC]
		if !ok {
			return snap, fmt.Errorf("%w: transaction %s references unknown account %s", ErrCorrupt, t.ID, t.AccountCNIC)
		}
		acc.Transactions = append(acc.Transactions, PersistTransaction{
			ID:           t.ID,
			Description:  t.Description,
			Date:         t.Date,
			Time:         t.Time,
			Amount:       t.Amount,
			Sign:         t.Sign,
			Kind:         t.Kind,
			BalanceAfter: t.BalanceAfter,
		})
		snap.Accounts[t.AccountCNIC] = acc
	}
	return snap, nil
}

// Save 整份覆寫；任何一步失敗則整個 DB 交易回滾，舊快照保留。
func (s *SQLite) Save(snap Snapshot) error {
	ids := make([]string, 0, len(snap.Accounts))
	for id := range snap.Accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	accounts := make([]accountRow, 0, len(ids))
	var txs []transactionRow
	for _, id := range ids {
		a := snap.Accounts[id]
		accounts = append(accounts, accountRow{
			CNIC:            id,
			Name:            a.Name,
			IBAN:            a.IBAN,
			PIN:             a.PIN,
			Balance:         a.Balance,
			Savings:         a.Savings,
			MonthlySpending: a.MonthlySpending,
		})
		for seq, t := range a.Transactions {
			txs = append(txs, transactionRow{
				ID:           t.ID,
				AccountCNIC:  id,
				Seq:          seq,
				Description:  t.Description,
				Date:         t.Date,
				Time:         t.Time,
				Amount:       t.Amount,
				Sign:         t.Sign,
				Kind:         t.Kind,
				BalanceAfter: t.BalanceAfter,
			})
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&transactionRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear transactions: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&accountRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear accounts: %w", err)
		}
		if len(accounts) > 0 {
			if err := tx.CreateInBatches(accounts, 100).Error; err != nil {
				return fmt.Errorf("failed to write accounts: %w", err)
			}
		}
		if len(txs) > 0 {
			if err := tx.CreateInBatches(txs, 200).Error; err != nil {
				return fmt.Errorf("failed to write transactions: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
