// internal/bank/session.go
package bank

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cashit/internal/log"
	"cashit/internal/validation"
)

// CredentialVerifier 比對儲存的憑證與使用者輸入。
type CredentialVerifier interface {
	Verify(stored, supplied string) bool
}

// PlainPIN 以明文字串比對 PIN。
type PlainPIN struct{}

func (PlainPIN) Verify(stored, supplied string) bool {
	return stored == supplied
}

var weakPINs = map[string]struct{}{
	"0000": {}, "1234": {}, "1111": {}, "2222": {}, "9999": {}, "9876": {}, "5678": {},
}

// IsWeakPIN 回報 PIN 是否為常見的弱密碼；只用於警告，不會拒絕。
func IsWeakPIN(pin string) bool {
	_, ok := weakPINs[strings.TrimSpace(pin)]
	return ok
}

// OpenRequest 為開戶所需資料，HTTP 與 CLI 共用。
type OpenRequest struct {
	CNIC string `json:"cnic" validate:"cnic"`
	Name string `json:"name" validate:"fullname"`
	IBAN string `json:"iban" validate:"iban"`
	PIN  string `json:"pin" validate:"pin"`
}

// Session 負責登入、開戶與變更 PIN。
type Session struct {
	store    *Store
	verifier CredentialVerifier
	logger   log.Logger
}

func NewSession(store *Store, verifier CredentialVerifier, logger log.Logger) *Session {
	if verifier == nil {
		verifier = PlainPIN{}
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Session{store: store, verifier: verifier, logger: logger.WithName("session")}
}

// Authenticate 以 CNIC 與 PIN 登入，成功時回傳帳戶 handle。
func (s *Session) Authenticate(id, pin string) (*Account, error) {
	a, err := s.store.Get(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	ok := false
	s.store.View(a, func(a *Account) {
		ok = s.verifier.Verify(a.PIN, strings.TrimSpace(pin))
	})
	if !ok {
		s.logger.Warn("authentication failed", "cnic", a.ID)
		return nil, ErrBadCredentials
	}
	s.logger.Debug("authenticated", "cnic", a.ID)
	return a, nil
}

// ChangePIN 驗證舊 PIN 後設定新 PIN。新 PIN 的二次確認由呼叫端負責。
func (s *Session) ChangePIN(a *Account, oldPIN, newPIN string) error {
	newPIN = strings.TrimSpace(newPIN)
	return s.store.mutate(func() error {
		if !s.store.owns(a) {
			return fmt.Errorf("%w: %s", ErrNotFound, a.ID)
		}
		if !s.verifier.Verify(a.PIN, strings.TrimSpace(oldPIN)) {
			return ErrBadCredentials
		}
		if !validation.IsPinShapeValid(newPIN) {
			return fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
		}
		a.PIN = newPIN
		s.logger.Info("PIN changed", "cnic", a.ID)
		return nil
	})
}

// Open 開立新帳戶：名稱轉為字首大寫、IBAN 正規化，初始餘額為 SignupBonus。
func (s *Session) Open(req OpenRequest) (*Account, error) {
	req.CNIC = strings.TrimSpace(req.CNIC)
	req.Name = strings.TrimSpace(req.Name)
	req.PIN = strings.TrimSpace(req.PIN)
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	iban := validation.NormalizeIBAN(req.IBAN)
	a := &Account{
		ID:           req.CNIC,
		Name:         cases.Title(language.English).String(req.Name),
		IBAN:         &iban,
		PIN:          req.PIN,
		Balance:      SignupBonus,
		Transactions: []Transaction{},
	}
	if err := s.store.Insert(a); err != nil {
		if errors.Is(err, ErrPersistence) {
			return a, err
		}
		return nil, err
	}
	return a, nil
}
