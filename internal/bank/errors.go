// internal/bank/errors.go
//
// 集中定義領域錯誤。呼叫端以 errors.Is 判斷類別：
// CLI 依此決定重新提示或顯示警告，HTTP 層則轉換為對應狀態碼。

package bank

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation 代表輸入格式錯誤（可重新輸入）。
	ErrValidation = errors.New("invalid input")

	// ErrInvalidAmount 代表金額 <= 0，屬於 ErrValidation。
	ErrInvalidAmount = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)

	// ErrAmountOutOfRange 代表金額位數超出可處理範圍，屬於 ErrValidation。
	ErrAmountOutOfRange = fmt.Errorf("%w: amount is out of range", ErrValidation)

	// ErrNotFound 代表查無此 CNIC。
	ErrNotFound = errors.New("account not found")

	// ErrBadCredentials 代表 PIN 不符。
	ErrBadCredentials = errors.New("incorrect PIN")

	// ErrDuplicate 代表 CNIC 已有帳戶。
	ErrDuplicate = errors.New("an account with this CNIC already exists")

	// ErrInsufficientFunds 代表餘額不足，帳戶狀態未被修改。
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrPersistence 代表快照寫入失敗。記憶體中的變更已生效，僅需警告。
	ErrPersistence = errors.New("failed to save data")

	// ErrProtectedAccount 代表嘗試刪除或調整管理員帳戶。
	ErrProtectedAccount = errors.New("the ADMIN account cannot be modified")

	// ErrNoTransactions 代表帳戶尚無任何交易紀錄。
	ErrNoTransactions = errors.New("no transactions recorded yet")
)
