// internal/bank/store.go

// Store 為帳戶集合的唯一擁有者：以 CNIC 為鍵保存所有帳戶，
// 並負責與持久化後端同步。所有狀態變更都在 mu 保護下完成，
// 且每次變更成功後立即整份寫回（write-through）。
package bank

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"cashit/internal/log"
	"cashit/internal/storage"
)

// Persister 為快照的讀寫能力；storage.JSONFile 與 storage.SQLite 皆實作此介面。
type Persister interface {
	Load() (storage.Snapshot, error)
	Save(storage.Snapshot) error
}

// LoadOutcome 描述啟動時帳戶資料的來源。
type LoadOutcome int

const (
	LoadedSnapshot LoadOutcome = iota
	SeededFresh
	SeededAfterCorruption
)

// Store 為帳戶聚合根。
// - mu：序列化所有讀寫（HTTP 介面會從多個 goroutine 存取同一個 Store）。
// - accts：CNIC → *Account，內部指標只在臨界區內修改。
type Store struct {
	mu      sync.Mutex
	accts   map[string]*Account
	backend Persister
	logger  log.Logger
}

// NewStore 建立空的 Store；呼叫 Load 後才有資料。
func NewStore(backend Persister, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Store{
		accts:   make(map[string]*Account),
		backend: backend,
		logger:  logger.WithName("store"),
	}
}

// Load 自後端讀取快照。
// 快照不存在時載入預設帳戶；快照損毀時同樣整份改用預設帳戶，不做部分修復。
func (s *Store) Load() LoadOutcome {
	snap, err := s.backend.Load()
	if errors.Is(err, storage.ErrNoSnapshot) {
		s.logger.Info("no snapshot found, starting with default accounts")
		s.reset(DefaultAccounts())
		return SeededFresh
	}
	if err == nil {
		err = s.Restore(snap)
	}
	if err != nil {
		s.logger.Warn("snapshot unusable, starting with default accounts", "error", err)
		s.reset(DefaultAccounts())
		return SeededAfterCorruption
	}
	s.logger.Info("snapshot loaded", "accounts", len(snap.Accounts))
	return LoadedSnapshot
}

func (s *Store) reset(accts map[string]*Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accts = accts
}

// Save 將整份帳戶集合寫回後端。失敗時回傳包裝 ErrPersistence 的錯誤，記憶體狀態不受影響。
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if err := s.backend.Save(s.snapshotLocked()); err != nil {
		s.logger.Error("failed to persist snapshot", "error", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// mutate 在臨界區內執行 fn；fn 成功才寫回快照。
// fn 回傳錯誤時不得修改任何狀態。
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	return s.saveLocked()
}

// Get 回傳帳戶本身（非拷貝），作為後續帳本操作的 handle。
func (s *Store) Get(id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// Account 回傳帳戶的深拷貝。
func (s *Store) Account(id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a.Clone(), nil
}

// View 在臨界區內以唯讀方式存取帳戶；fn 不得保留 a 或修改其欄位。
func (s *Store) View(a *Account, fn func(a *Account)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(a)
}

// List 依 CNIC 排序回傳所有帳戶的拷貝。
func (s *Store) List() []*Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Account, 0, len(s.accts))
	for _, a := range s.accts {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len 回傳帳戶數量（含管理員）。
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accts)
}

// Insert 新增帳戶；CNIC 重複時回傳 ErrDuplicate。
func (s *Store) Insert(a *Account) error {
	return s.mutate(func() error {
		if _, ok := s.accts[a.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, a.ID)
		}
		if a.Transactions == nil {
			a.Transactions = []Transaction{}
		}
		s.accts[a.ID] = a
		s.logger.Info("account inserted", "cnic", a.ID)
		return nil
	})
}

// Delete 移除帳戶；管理員帳戶回傳 ErrProtectedAccount。
func (s *Store) Delete(id string) error {
	if id == AdminID {
		return ErrProtectedAccount
	}
	return s.mutate(func() error {
		if _, ok := s.accts[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		delete(s.accts, id)
		s.logger.Info("account deleted", "cnic", id)
		return nil
	})
}

// Close 於程式結束時做最後一次寫回，並關閉後端（若後端需要）。
func (s *Store) Close() error {
	err := s.Save()
	if c, ok := s.backend.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// owns 檢查 handle 仍屬於此 Store（帳戶可能已被刪除）。須持有 mu。
func (s *Store) owns(a *Account) bool {
	return a != nil && s.accts[a.ID] == a
}

// Snapshot 匯出可持久化的快照。
func (s *Store) Snapshot() storage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() storage.Snapshot {
	snap := storage.Snapshot{
		Meta:     storage.Meta{Version: storage.SchemaVersion},
		Accounts: make(map[string]storage.PersistAccount, len(s.accts)),
	}
	for id, a := range s.accts {
		pa := storage.PersistAccount{
			Name:            a.Name,
			CNIC:            a.ID,
			IBAN:            copyIBAN(a.IBAN),
			PIN:             a.PIN,
			Balance:         a.Balance,
			Savings:         a.Savings,
			MonthlySpending: a.MonthlySpending,
			Transactions:    make([]storage.PersistTransaction, len(a.Transactions)),
		}
		for i, t := range a.Transactions {
			pa.Transactions[i] = storage.PersistTransaction{
				ID:           t.ID,
				Description:  t.Description,
				Date:         t.Date,
				Time:         t.Time,
				Amount:       t.Amount,
				Sign:         string(t.Sign),
				Kind:         string(t.Kind),
				BalanceAfter: t.BalanceAfter,
			}
		}
		snap.Accounts[id] = pa
	}
	return snap
}

func copyIBAN(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Restore 以快照取代目前的帳戶集合。
// 快照內容違反帳本不變量（缺少管理員帳戶、鍵與 CNIC 不符、負餘額、
// 未知的交易方向或類別、最後一筆 balance_after 與餘額不符）時回傳錯誤且不修改現有狀態。
// 缺少 ID 的舊交易會補上新的 UUID。
func (s *Store) Restore(snap storage.Snapshot) error {
	if _, ok := snap.Accounts[AdminID]; !ok {
		return fmt.Errorf("snapshot has no %s account", AdminID)
	}
	accts := make(map[string]*Account, len(snap.Accounts))
	for id, pa := range snap.Accounts {
		if pa.CNIC != id {
			return fmt.Errorf("account key %q does not match cnic %q", id, pa.CNIC)
		}
		if pa.Balance.IsNegative() {
			return fmt.Errorf("account %s has negative balance %s", id, pa.Balance)
		}
		a := &Account{
			ID:              pa.CNIC,
			Name:            pa.Name,
			IBAN:            copyIBAN(pa.IBAN),
			PIN:             pa.PIN,
			Balance:         pa.Balance,
			Savings:         pa.Savings,
			MonthlySpending: pa.MonthlySpending,
			Transactions:    make([]Transaction, 0, len(pa.Transactions)),
		}
		for _, pt := range pa.Transactions {
			t := Transaction{
				ID:           pt.ID,
				Description:  pt.Description,
				Date:         pt.Date,
				Time:         pt.Time,
				Amount:       pt.Amount,
				Sign:         Sign(pt.Sign),
				Kind:         Kind(pt.Kind),
				BalanceAfter: pt.BalanceAfter,
			}
			if t.Sign != SignCredit && t.Sign != SignDebit {
				return fmt.Errorf("account %s: transaction %q has unknown sign %q", id, t.Description, pt.Sign)
			}
			if !t.Kind.valid() {
				return fmt.Errorf("account %s: transaction %q has unknown type %q", id, t.Description, pt.Kind)
			}
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			a.Transactions = append(a.Transactions, t)
		}
		if n := len(a.Transactions); n > 0 && !a.Transactions[n-1].BalanceAfter.Equal(a.Balance) {
			return fmt.Errorf("account %s: last balance_after %s does not match balance %s",
				id, a.Transactions[n-1].BalanceAfter, a.Balance)
		}
		accts[id] = a
	}

	s.reset(accts)
	return nil
}
