// internal/validation/validation.go
//
// Package validation 提供外部輸入的格式檢查。
// 所有函式皆為純函式，不存取帳戶資料；呼叫端（CLI、HTTP、bank.Session）在資料進入帳本前先行檢查。
// 規則以 validator/v10 自訂 tag 註冊，可同時用於單一字串（Is* 系列）與請求結構（Struct）。
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	TagCNIC      = "cnic"
	TagIBAN      = "iban"
	TagPIN       = "pin"
	TagFullName  = "fullname"
	TagReference = "reference"
)

// 開戶 IBAN 長度（去除空白後）。範例帳號 "PK00 0000 0000 0000 0000" 為 20 碼。
const (
	minIBANLen = 20
	maxIBANLen = 26
)

// ErrInvalid 為所有格式錯誤的共同根錯誤。
var ErrInvalid = errors.New("invalid input")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func get() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		rules := map[string]func(string) bool{
			TagCNIC:      isCNIC,
			TagIBAN:      isIBAN,
			TagPIN:       isPIN,
			TagFullName:  isFullName,
			TagReference: isReference,
		}
		for tag, fn := range rules {
			fn := fn
			// 規則皆為固定字串，註冊失敗屬程式錯誤。
			if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return fn(fl.Field().String())
			}); err != nil {
				panic(fmt.Sprintf("register %s validation: %v", tag, err))
			}
		}
		validate = v
	})
	return validate
}

// IsIdentityShapeValid 檢查 CNIC 格式 XXXXX-XXXXXXX-X（前後空白忽略）。
func IsIdentityShapeValid(s string) bool {
	return get().Var(s, TagCNIC) == nil
}

// IsAccountNumberShapeValid 檢查開戶用 IBAN：去除空白並轉大寫後須以 PK 開頭，
// 總長 20 至 26，PK 之後全為數字。
func IsAccountNumberShapeValid(s string) bool {
	return get().Var(s, TagIBAN) == nil
}

// IsPinShapeValid 檢查 PIN 是否恰為 4 位數字。
func IsPinShapeValid(s string) bool {
	return get().Var(s, TagPIN) == nil
}

// IsNameValid：至少 3 個字元且不含數字。
func IsNameValid(s string) bool {
	return get().Var(s, TagFullName) == nil
}

// IsReferenceValid 用於帳單編號、稅務參考號與罰單號碼，僅要求非空白。
func IsReferenceValid(s string) bool {
	return get().Var(s, TagReference) == nil
}

// IsTransferDestinationValid 為轉帳收款 IBAN 的寬鬆檢查：去除空白後至少 10 個字元。
// 非 PK 開頭只需警告，見 HasLocalPrefix。
func IsTransferDestinationValid(s string) bool {
	return len(NormalizeIBAN(s)) >= 10
}

// HasLocalPrefix 回報 IBAN 是否為本地（PK）帳號。
func HasLocalPrefix(s string) bool {
	return strings.HasPrefix(NormalizeIBAN(s), "PK")
}

// NormalizeIBAN 去除所有空白並轉為大寫。
func NormalizeIBAN(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// Struct 依 validate tag 檢查請求結構，回傳包裝 ErrInvalid 的錯誤，訊息列出失敗欄位。
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
}

func isCNIC(s string) bool {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return false
	}
	return len(parts[0]) == 5 && len(parts[1]) == 7 && len(parts[2]) == 1 &&
		allDigits(parts[0]) && allDigits(parts[1]) && allDigits(parts[2])
}

func isIBAN(s string) bool {
	clean := strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if !strings.HasPrefix(clean, "PK") {
		return false
	}
	if len(clean) < minIBANLen || len(clean) > maxIBANLen {
		return false
	}
	return allDigits(clean[2:])
}

func isPIN(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) == 4 && allDigits(s)
}

func isFullName(s string) bool {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < 3 {
		return false
	}
	return strings.IndexFunc(s, unicode.IsDigit) < 0
}

func isReference(s string) bool {
	return strings.TrimSpace(s) != ""
}

// allDigits 僅接受 ASCII 0-9；空字串視為 true，長度由呼叫端檢查。
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
