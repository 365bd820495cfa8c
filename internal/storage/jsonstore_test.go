// internal/storage/jsonstore_test.go
//
// 驗證 JSON 快照的寫入、讀回與錯誤分類（不存在 / 損毀）。
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	iban := "PK00000000000000000000"
	return Snapshot{
		Accounts: map[string]PersistAccount{
			"00000-0000000-0": {
				Name: "ADMIN", CNIC: "00000-0000000-0", PIN: "0000",
				Balance: decimal.Zero, Savings: decimal.Zero, MonthlySpending: decimal.Zero,
				Transactions: []PersistTransaction{},
			},
			"35202-0000000-0": {
				Name: "Test User", CNIC: "35202-0000000-0", IBAN: &iban, PIN: "4321",
				Balance:         decimal.RequireFromString("450"),
				Savings:         decimal.Zero,
				MonthlySpending: decimal.Zero,
				Transactions: []PersistTransaction{
					{ID: "t1", Description: "Bill Payment - ID 42", Date: "Oct 16, 2026", Time: "09:15 AM",
						Amount: decimal.RequireFromString("200"), Sign: "-", Kind: "bill", BalanceAfter: decimal.RequireFromString("300")},
					{ID: "t2", Description: "Admin Credit", Date: "Oct 16, 2026", Time: "09:20 AM",
						Amount: decimal.RequireFromString("150"), Sign: "+", Kind: "admin-credit", BalanceAfter: decimal.RequireFromString("450")},
				},
			},
		},
	}
}

// requireSameAccounts 以數值比較 decimal 欄位（內部精度表示可能不同）。
func requireSameAccounts(t *testing.T, want, got map[string]PersistAccount) {
	t.Helper()
	require.Len(t, got, len(want))
	for id, w := range want {
		g, ok := got[id]
		require.True(t, ok, "missing account %s", id)
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.CNIC, g.CNIC)
		assert.Equal(t, w.IBAN, g.IBAN)
		assert.Equal(t, w.PIN, g.PIN)
		assert.True(t, w.Balance.Equal(g.Balance), "balance %s vs %s", w.Balance, g.Balance)
		assert.True(t, w.Savings.Equal(g.Savings))
		assert.True(t, w.MonthlySpending.Equal(g.MonthlySpending))
		require.Len(t, g.Transactions, len(w.Transactions))
		for i := range w.Transactions {
			wt, gt := w.Transactions[i], g.Transactions[i]
			assert.Equal(t, wt.ID, gt.ID)
			assert.Equal(t, wt.Description, gt.Description)
			assert.Equal(t, wt.Date, gt.Date)
			assert.Equal(t, wt.Time, gt.Time)
			assert.Equal(t, wt.Sign, gt.Sign)
			assert.Equal(t, wt.Kind, gt.Kind)
			assert.True(t, wt.Amount.Equal(gt.Amount))
			assert.True(t, wt.BalanceAfter.Equal(gt.BalanceAfter))
		}
	}
}

func TestJSONSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := NewJSONFile(path)
	orig := sampleSnapshot()

	require.NoError(t, store.Save(orig))
	_, err := os.Stat(path)
	require.NoError(t, err, "snapshot not written")
	_, err = os.Stat(path + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist), "temp file left behind")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, jsonStorageName, loaded.Meta.Storage)
	assert.Equal(t, SchemaVersion, loaded.Meta.Version)
	assert.False(t, loaded.Meta.Timestamp.IsZero())
	requireSameAccounts(t, orig.Accounts, loaded.Accounts)
	assert.Nil(t, loaded.Accounts["00000-0000000-0"].IBAN)
}

func TestJSONLoadMissing(t *testing.T) {
	_, err := NewJSONFile(filepath.Join(t.TempDir(), "nope.json")).Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestJSONLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"garbage.json":   "{not json",
		"nosection.json": `{"_meta": {"storage": "json_snapshot"}}`,
		"badamount.json": `{"accounts": {"1": {"balance": "-1,500.00"}}}`,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := NewJSONFile(path).Load()
		assert.ErrorIs(t, err, ErrCorrupt, name)
	}
}

func TestJSONSaveFailure(t *testing.T) {
	// 目錄不存在時無法建立暫存檔
	store := NewJSONFile(filepath.Join(t.TempDir(), "missing-dir", "users.json"))
	assert.Error(t, store.Save(sampleSnapshot()))
}
