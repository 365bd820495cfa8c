// internal/server/response.go
//
// 統一 HTTP 回應格式：成功回應為 JSON；錯誤回應為 {"id","code","error"}，
// 並依領域錯誤決定狀態碼。
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"cashit/internal/bank"
	"cashit/internal/validation"
)

type errorBody struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, errorBody{ID: uuid.NewString(), Code: code, Error: err.Error()})
}

// classify 將領域錯誤轉為 HTTP 狀態碼與錯誤代碼。
// ErrPersistence 優先判斷：變更已生效，但快照未寫入。
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, bank.ErrPersistence):
		return http.StatusInternalServerError, "PERSISTENCE_FAILED"
	case errors.Is(err, bank.ErrInsufficientFunds):
		return http.StatusConflict, "INSUFFICIENT_FUNDS"
	case errors.Is(err, bank.ErrValidation), errors.Is(err, validation.ErrInvalid):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, bank.ErrBadCredentials):
		return http.StatusUnauthorized, "BAD_CREDENTIALS"
	case errors.Is(err, bank.ErrDuplicate):
		return http.StatusConflict, "DUPLICATE"
	case errors.Is(err, bank.ErrProtectedAccount):
		return http.StatusForbidden, "PROTECTED_ACCOUNT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// maxBodyBytes 為請求 JSON 的大小上限。
const maxBodyBytes = 64 << 10

// decode 解析請求 JSON；格式錯誤或超過大小上限視為 ErrValidation。
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", bank.ErrValidation, err)
	}
	return nil
}
