package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)

	a, err := f.session.Authenticate(" 35202-9876543-1 ", "9999")
	require.NoError(t, err)
	assert.Equal(t, "Sara Imran", a.Name)

	_, err = f.session.Authenticate("35202-9876543-1", "1111")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = f.session.Authenticate("12345-1234567-1", "1111")
	require.ErrorIs(t, err, ErrNotFound)

	admin, err := f.session.Authenticate(AdminID, "0000")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

// reversedPIN 為測試用的驗證器：輸入須為儲存 PIN 的反轉。
type reversedPIN struct{}

func (reversedPIN) Verify(stored, supplied string) bool {
	if len(stored) != len(supplied) {
		return false
	}
	for i := range stored {
		if stored[i] != supplied[len(supplied)-1-i] {
			return false
		}
	}
	return true
}

func TestAuthenticateUsesVerifier(t *testing.T) {
	f := newFixture(t)
	s := NewSession(f.store, reversedPIN{}, nil)

	_, err := s.Authenticate("35202-1234567-9", "5678")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.Authenticate("35202-1234567-9", "8765")
	require.NoError(t, err)
}

func TestChangePIN(t *testing.T) {
	f := newFixture(t)
	a := f.openTestUser(t)

	require.ErrorIs(t, f.session.ChangePIN(a, "0000", "8642"), ErrBadCredentials)
	require.ErrorIs(t, f.session.ChangePIN(a, "4321", "86a2"), ErrValidation)
	require.ErrorIs(t, f.session.ChangePIN(a, "4321", "86421"), ErrValidation)

	saves := f.p.saveCount()
	require.NoError(t, f.session.ChangePIN(a, "4321", " 8642 "))
	assert.Equal(t, saves+1, f.p.saveCount())

	_, err := f.session.Authenticate(a.ID, "4321")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = f.session.Authenticate(a.ID, "8642")
	require.NoError(t, err)

	// 變更 PIN 不產生交易
	assert.Empty(t, a.Transactions)
}

func TestIsWeakPIN(t *testing.T) {
	for _, pin := range []string{"0000", "1234", "1111", "2222", "9999", "9876", "5678"} {
		assert.True(t, IsWeakPIN(pin), pin)
	}
	for _, pin := range []string{"4321", "8642", "3333"} {
		assert.False(t, IsWeakPIN(pin), pin)
	}
}

func TestOpenNormalizesInput(t *testing.T) {
	f := newFixture(t)

	a, err := f.session.Open(OpenRequest{
		CNIC: " 35202-5555555-5 ",
		Name: "  fatima ZAHRA ",
		IBAN: "pk12 3456 7890 1234 5678 90",
		PIN:  "2468",
	})
	require.NoError(t, err)
	assert.Equal(t, "35202-5555555-5", a.ID)
	assert.Equal(t, "Fatima Zahra", a.Name)
	assert.Equal(t, "PK12345678901234567890", a.AccountNumber())
	requireDecimal(t, "500", a.Balance)
	assert.True(t, a.Savings.IsZero())

	got, err := f.store.Get("35202-5555555-5")
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestOpenRejectsInvalidFields(t *testing.T) {
	f := newFixture(t)
	valid := OpenRequest{CNIC: "35202-5555555-5", Name: "Fatima Zahra", IBAN: "PK12345678901234567890", PIN: "2468"}

	cases := map[string]func(r *OpenRequest){
		"cnic":       func(r *OpenRequest) { r.CNIC = "3520255555555" },
		"short name": func(r *OpenRequest) { r.Name = "Al" },
		"digit name": func(r *OpenRequest) { r.Name = "Agent 47" },
		"iban":       func(r *OpenRequest) { r.IBAN = "GB12345678901234567890" },
		"pin":        func(r *OpenRequest) { r.PIN = "12" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid
			mutate(&req)
			_, err := f.session.Open(req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Len(t, f.store.List(), 4)
}
