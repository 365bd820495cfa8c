// internal/bank/store_test.go
//
// 驗證 Store 的載入分流（快照 / 預設 / 損毀回退）、寫回行為與快照還原。
package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashit/internal/storage"
)

func TestLoadMissingSnapshotSeedsDefaults(t *testing.T) {
	p := &memPersister{}
	s := NewStore(p, nil)

	require.Equal(t, SeededFresh, s.Load())
	accts := s.List()
	require.Len(t, accts, 4)
	// List 依 CNIC 排序，管理員排第一
	assert.Equal(t, AdminID, accts[0].ID)
	assert.Nil(t, accts[0].IBAN)
	// 載入本身不寫檔
	assert.Equal(t, 0, p.saveCount())
}

func TestDefaultAccountsHistoryIsConsistent(t *testing.T) {
	for id, a := range DefaultAccounts() {
		assert.Equal(t, id, a.ID)
		requireLedgerConsistent(t, a)
		if a.IsAdmin() {
			assert.Empty(t, a.Transactions)
			continue
		}
		require.Len(t, a.Transactions, 4, id)
		for _, tx := range a.Transactions {
			assert.NotEmpty(t, tx.ID)
			assert.True(t, tx.Kind.valid())
		}
	}

	ali := DefaultAccounts()["35202-9823471-2"]
	assert.Equal(t, "Muhammad Ali", ali.Name)
	assert.Equal(t, "LESCO Bill", ali.Transactions[0].Description)
	requireDecimal(t, "921350", ali.Transactions[0].BalanceAfter)
	assert.Equal(t, KindDeposit, ali.Transactions[2].Kind)
	requireDecimal(t, "1245500", ali.Balance)
}

// adminRecord 為有效快照必備的管理員帳戶。
var adminRecord = storage.PersistAccount{CNIC: AdminID, Name: "ADMIN", PIN: "0000"}

func TestLoadCorruptSnapshotFallsBackToDefaults(t *testing.T) {
	cases := map[string]storage.Snapshot{
		"empty accounts": {Accounts: map[string]storage.PersistAccount{}},
		"missing admin": {Accounts: map[string]storage.PersistAccount{
			"11111-1111111-1": {CNIC: "11111-1111111-1", Name: "Orphan", Balance: dec("10")},
		}},
		"balance_after mismatch": {Accounts: map[string]storage.PersistAccount{
			AdminID: adminRecord,
			"11111-1111111-1": {CNIC: "11111-1111111-1", Name: "Bad", Balance: dec("10"),
				Transactions: []storage.PersistTransaction{
					{Description: "Admin Credit", Amount: dec("10"), Sign: "+", Kind: "admin-credit", BalanceAfter: dec("9")},
				}},
		}},
		"key mismatch": {Accounts: map[string]storage.PersistAccount{
			AdminID:           adminRecord,
			"11111-1111111-1": {CNIC: "22222-2222222-2", Name: "Bad"},
		}},
		"negative balance": {Accounts: map[string]storage.PersistAccount{
			AdminID:           adminRecord,
			"11111-1111111-1": {CNIC: "11111-1111111-1", Name: "Bad", Balance: dec("-1")},
		}},
		"unknown sign": {Accounts: map[string]storage.PersistAccount{
			AdminID: adminRecord,
			"11111-1111111-1": {CNIC: "11111-1111111-1", Name: "Bad", Transactions: []storage.PersistTransaction{
				{Description: "?", Amount: dec("1"), Sign: "*", Kind: "bill"},
			}},
		}},
		"unknown type": {Accounts: map[string]storage.PersistAccount{
			AdminID: adminRecord,
			"11111-1111111-1": {CNIC: "11111-1111111-1", Name: "Bad", Transactions: []storage.PersistTransaction{
				{Description: "?", Amount: dec("1"), Sign: "+", Kind: "admin"},
			}},
		}},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			snap := snap
			s := NewStore(&memPersister{snap: &snap}, nil)
			require.Equal(t, SeededAfterCorruption, s.Load())
			_, err := s.Get("11111-1111111-1")
			require.ErrorIs(t, err, ErrNotFound)
			assert.Len(t, s.List(), 4)
		})
	}

	t.Run("backend error", func(t *testing.T) {
		s := NewStore(&memPersister{loadErr: storage.ErrCorrupt}, nil)
		require.Equal(t, SeededAfterCorruption, s.Load())
		assert.Len(t, s.List(), 4)
	})
}

func TestLoadExistingSnapshot(t *testing.T) {
	f := newFixture(t)
	a := f.openTestUser(t)
	_, err := f.ledger.PayTax(a, "NTN-1", dec("125.5"))
	require.NoError(t, err)

	// 以同一個後端重新啟動
	s2 := NewStore(f.p, nil)
	require.Equal(t, LoadedSnapshot, s2.Load())
	got, err := s2.Account(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test User", got.Name)
	assert.Equal(t, "4321", got.PIN)
	requireDecimal(t, "374.5", got.Balance)
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, a.Transactions[0].ID, got.Transactions[0].ID)
	assert.Equal(t, "Tax Payment - Ref NTN-1", got.Transactions[0].Description)
	assert.Len(t, s2.List(), 5)
}

func TestRestoreAssignsMissingTransactionIDs(t *testing.T) {
	s := NewStore(&memPersister{}, nil)
	err := s.Restore(storage.Snapshot{Accounts: map[string]storage.PersistAccount{
		AdminID: adminRecord,
		"11111-1111111-1": {CNIC: "11111-1111111-1", Name: "Legacy", Balance: dec("10"),
			Transactions: []storage.PersistTransaction{
				{Description: "Admin Credit", Amount: dec("10"), Sign: "+", Kind: "admin-credit", BalanceAfter: dec("10")},
			}},
	}})
	require.NoError(t, err)
	a, err := s.Account("11111-1111111-1")
	require.NoError(t, err)
	assert.NotEmpty(t, a.Transactions[0].ID)
}

func TestInsertAndDelete(t *testing.T) {
	f := newFixture(t)
	saves := f.p.saveCount()
	assert.Equal(t, 4, f.store.Len())

	a := f.openTestUser(t)
	assert.Equal(t, saves+1, f.p.saveCount())

	_, err := f.session.Open(OpenRequest{CNIC: a.ID, Name: "Someone Else", IBAN: "PK11111111111111111111", PIN: "8642"})
	require.ErrorIs(t, err, ErrDuplicate)

	assert.Equal(t, 5, f.store.Len())
	require.NoError(t, f.store.Delete(a.ID))
	assert.Equal(t, saves+2, f.p.saveCount())
	assert.Equal(t, 4, f.store.Len())
	_, err = f.store.Get(a.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, f.store.Delete(a.ID), ErrNotFound)
	require.ErrorIs(t, f.store.Delete(AdminID), ErrProtectedAccount)
}

func TestDeletedHandleCannotBeMutated(t *testing.T) {
	f := newFixture(t)
	a := f.openTestUser(t)
	require.NoError(t, f.store.Delete(a.ID))

	_, err := f.ledger.Credit(a, dec("10"), "late", KindAdminCredit)
	require.ErrorIs(t, err, ErrNotFound)
	requireDecimal(t, "500", a.Balance)
}

func TestPersistenceFailureKeepsMutation(t *testing.T) {
	f := newFixture(t)
	a := f.openTestUser(t)
	f.p.failWith(errDiskFull)

	bal, err := f.ledger.PayChallan(a, "CH-9", dec("100"))
	require.ErrorIs(t, err, ErrPersistence)
	requireDecimal(t, "400", bal)
	requireDecimal(t, "400", a.Balance)
	require.Len(t, a.Transactions, 1)
	requireLedgerConsistent(t, a)

	// 後端恢復後，下一次寫回會包含先前的變更
	f.p.failWith(nil)
	require.NoError(t, f.store.Save())
	s2 := NewStore(f.p, nil)
	require.Equal(t, LoadedSnapshot, s2.Load())
	got, err := s2.Account(a.ID)
	require.NoError(t, err)
	requireDecimal(t, "400", got.Balance)
}

func TestAccountReturnsIndependentCopy(t *testing.T) {
	f := newFixture(t)
	a := f.openTestUser(t)

	cp, err := f.store.Account(a.ID)
	require.NoError(t, err)
	*cp.IBAN = "changed"
	cp.Transactions = append(cp.Transactions, Transaction{Description: "fake"})

	assert.Equal(t, "PK00000000000000000000", a.AccountNumber())
	assert.Empty(t, a.Transactions)
}

func TestCloseSavesSnapshot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Close())
	assert.Equal(t, 1, f.p.saveCount())
	assert.Len(t, f.p.snap.Accounts, 4)
	assert.Equal(t, storage.SchemaVersion, f.p.snap.Meta.Version)
}
