package bank

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"cashit/internal/storage"
)

// memPersister 為記憶體中的 Persister，可指定讀取或寫入失敗。
type memPersister struct {
	mu      sync.Mutex
	snap    *storage.Snapshot
	saves   int
	loadErr error
	saveErr error
}

func (m *memPersister) Load() (storage.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return storage.Snapshot{}, m.loadErr
	}
	if m.snap == nil {
		return storage.Snapshot{}, storage.ErrNoSnapshot
	}
	return *m.snap, nil
}

func (m *memPersister) Save(s storage.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.snap = &s
	return nil
}

func (m *memPersister) failWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *memPersister) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var errDiskFull = errors.New("disk full")

var fixedNow = time.Date(2026, time.October, 16, 14, 5, 0, 0, time.UTC)

type fixture struct {
	p       *memPersister
	store   *Store
	ledger  *Ledger
	session *Session
	admin   *Admin
}

// newFixture 建立以預設帳戶啟動的完整元件組合。
func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := &memPersister{}
	store := NewStore(p, nil)
	require.Equal(t, SeededFresh, store.Load())
	ledger := NewLedger(store, nil, WithClock(func() time.Time { return fixedNow }))
	return &fixture{
		p:       p,
		store:   store,
		ledger:  ledger,
		session: NewSession(store, nil, nil),
		admin:   NewAdmin(store, ledger, nil),
	}
}

// openTestUser 開立 35202-0000000-0 測試帳戶。
func (f *fixture) openTestUser(t *testing.T) *Account {
	t.Helper()
	a, err := f.session.Open(OpenRequest{
		CNIC: "35202-0000000-0",
		Name: "Test User",
		IBAN: "PK00 0000 0000 0000 0000",
		PIN:  "4321",
	})
	require.NoError(t, err)
	return a
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// requireLedgerConsistent 檢查餘額非負，且最後一筆交易的 balance_after 等於餘額。
func requireLedgerConsistent(t *testing.T, a *Account) {
	t.Helper()
	require.False(t, a.Balance.IsNegative(), "negative balance %s", a.Balance)
	if n := len(a.Transactions); n > 0 {
		last := a.Transactions[n-1]
		require.True(t, last.BalanceAfter.Equal(a.Balance),
			"last balance_after %s != balance %s", last.BalanceAfter, a.Balance)
	}
}
