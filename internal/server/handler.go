// internal/server/handler.go
//
// Package server 提供 HTTP JSON 介面，與終端機介面共用同一個 bank.Store。
// 每個 handler 只負責：
//  1. 解析與驗證請求
//  2. 呼叫 bank 的 Session、Ledger 或 Admin
//  3. 以統一格式回應
//
// 寫回快照由 Store 在每次變更後自行完成，handler 不需額外呼叫。
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"cashit/internal/bank"
	"cashit/internal/log"
	"cashit/internal/validation"
)

const (
	headerPIN      = "X-PIN"
	headerAdminPIN = "X-Admin-PIN"
)

type ctxKey struct{}

type Server struct {
	store    *bank.Store
	ledger   *bank.Ledger
	session  *bank.Session
	admin    *bank.Admin
	registry *prometheus.Registry
	metrics  *Metrics
	logger   log.Logger
}

// NewServer 建立 HTTP 伺服器。registry 為 nil 時建立新的 registry。
func NewServer(store *bank.Store, ledger *bank.Ledger, session *bank.Session, admin *bank.Admin, registry *prometheus.Registry, logger log.Logger) *Server {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	s := &Server{
		store:    store,
		ledger:   ledger,
		session:  session,
		admin:    admin,
		registry: registry,
		metrics:  NewMetrics(registry),
		logger:   logger.WithName("server"),
	}
	s.metrics.Accounts.Set(float64(store.Len()))
	return s
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// openAccount：POST /accounts
func (s *Server) openAccount(w http.ResponseWriter, r *http.Request) {
	var req bank.OpenRequest
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	a, err := s.session.Open(req)
	s.metrics.operation("open", err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Accounts.Set(float64(s.store.Len()))
	s.writeAccount(w, http.StatusCreated, a.ID)
}

// login：POST /sessions，以 CNIC 與 PIN 驗證。
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CNIC string `json:"cnic"`
		PIN  string `json:"pin"`
	}
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	a, err := s.session.Authenticate(req.CNIC, req.PIN)
	if err != nil {
		if errors.Is(err, bank.ErrBadCredentials) {
			s.metrics.AuthFailures.Inc()
		}
		writeErr(w, err)
		return
	}
	acc, err := s.store.Account(a.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account": acc, "admin": acc.IsAdmin()})
}

// requirePIN 驗證 X-PIN 與路徑中的 CNIC，並把帳戶 handle 放進 context。
// 管理員帳戶只能使用 /admin 路由。
func (s *Server) requirePIN(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, err := s.authenticate(chi.URLParam(r, "id"), r.Header.Get(headerPIN), headerPIN)
		if err != nil {
			writeErr(w, err)
			return
		}
		if a.IsAdmin() {
			writeErr(w, fmt.Errorf("%w: use the /admin routes", bank.ErrProtectedAccount))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, a)))
	})
}

// requireAdmin 以 X-Admin-PIN 驗證管理員帳戶。
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.authenticate(bank.AdminID, r.Header.Get(headerAdminPIN), headerAdminPIN); err != nil {
			writeErr(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(id, pin, header string) (*bank.Account, error) {
	if pin == "" {
		s.metrics.AuthFailures.Inc()
		return nil, fmt.Errorf("%w: missing %s header", bank.ErrBadCredentials, header)
	}
	a, err := s.session.Authenticate(id, pin)
	if errors.Is(err, bank.ErrBadCredentials) {
		s.metrics.AuthFailures.Inc()
	}
	return a, err
}

func accountFrom(r *http.Request) *bank.Account {
	a, _ := r.Context().Value(ctxKey{}).(*bank.Account)
	return a
}

// getAccount：GET /accounts/{id}
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	s.writeAccount(w, http.StatusOK, accountFrom(r).ID)
}

func (s *Server) writeAccount(w http.ResponseWriter, code int, id string) {
	acc, err := s.store.Account(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, code, acc)
}

// transactions：GET /accounts/{id}/transactions[?recent=true]
func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	a := accountFrom(r)
	txs := []bank.Transaction{}
	if r.URL.Query().Get("recent") != "" {
		recent, err := s.ledger.Recent(a)
		if err != nil && !errors.Is(err, bank.ErrNoTransactions) {
			writeErr(w, err)
			return
		}
		if recent != nil {
			txs = recent
		}
	} else {
		acc, err := s.store.Account(a.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		txs = append(txs, acc.Transactions...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

type paymentRequest struct {
	Kind      string          `json:"kind" validate:"required,oneof=transfer bill tax challan"`
	Reference string          `json:"reference" validate:"reference"`
	Amount    decimal.Decimal `json:"amount"`
}

// pay：POST /accounts/{id}/payments
func (s *Server) pay(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeErr(w, err)
		return
	}
	if _, err := bank.CheckAmount(req.Amount); err != nil {
		writeErr(w, err)
		return
	}

	a := accountFrom(r)
	var (
		balance decimal.Decimal
		err     error
	)
	switch bank.Kind(req.Kind) {
	case bank.KindTransfer:
		balance, err = s.ledger.Transfer(a, req.Reference, req.Amount)
	case bank.KindBill:
		balance, err = s.ledger.PayBill(a, req.Reference, req.Amount)
	case bank.KindTax:
		balance, err = s.ledger.PayTax(a, req.Reference, req.Amount)
	case bank.KindChallan:
		balance, err = s.ledger.PayChallan(a, req.Reference, req.Amount)
	}
	s.metrics.operation(req.Kind, err)
	s.writeBalance(w, r, balance, err)
}

// changePIN：PUT /accounts/{id}/pin，以舊 PIN 驗證。
func (s *Server) changePIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPIN string `json:"old_pin"`
		NewPIN string `json:"new_pin"`
	}
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	a, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	err = s.session.ChangePIN(a, req.OldPIN, req.NewPIN)
	if errors.Is(err, bank.ErrBadCredentials) {
		s.metrics.AuthFailures.Inc()
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "weak_pin": bank.IsWeakPIN(req.NewPIN)})
}

// listAccounts：GET /admin/accounts
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"accounts": s.admin.ListAccounts()})
}

// deleteAccount：DELETE /admin/accounts/{id}
func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	err := s.admin.DeleteAccount(chi.URLParam(r, "id"))
	s.metrics.operation("delete", err)
	if err != nil && !errors.Is(err, bank.ErrPersistence) {
		writeErr(w, err)
		return
	}
	s.metrics.Accounts.Set(float64(s.store.Len()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adjustBalance：POST /admin/accounts/{id}/adjust
func (s *Server) adjustBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction bank.Direction  `json:"direction"`
		Amount    decimal.Decimal `json:"amount"`
	}
	if err := decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if _, err := bank.CheckAmount(req.Amount); err != nil {
		writeErr(w, err)
		return
	}
	balance, err := s.admin.AdjustBalance(chi.URLParam(r, "id"), req.Amount, req.Direction)
	kind := bank.KindAdminCredit
	if req.Direction == bank.DirectionDeduct {
		kind = bank.KindAdminDebit
	}
	s.metrics.operation(string(kind), err)
	s.writeBalance(w, r, balance, err)
}

// writeBalance 回應帳本操作結果。寫檔失敗時變更已生效，回應 500 並附上新餘額。
func (s *Server) writeBalance(w http.ResponseWriter, r *http.Request, balance decimal.Decimal, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
	case errors.Is(err, bank.ErrPersistence):
		s.logger.Error("ledger change not persisted", "path", r.URL.Path, "error", err)
		status, code := classify(err)
		writeJSON(w, status, map[string]any{
			"code":      code,
			"error":     err.Error(),
			"committed": true,
			"balance":   balance,
		})
	default:
		writeErr(w, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, bank.ErrPersistence) {
		s.logger.Error("change not persisted", "path", r.URL.Path, "error", err)
	}
	writeErr(w, err)
}
