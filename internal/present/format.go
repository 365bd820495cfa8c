// internal/present/format.go
//
// Package present 負責把帳戶與交易轉成終端機文字（表格、收據、金額格式）。
// 不做任何驗證或狀態變更；CLI 只透過這裡輸出畫面。
package present

import (
	"strings"

	"github.com/shopspring/decimal"

	"cashit/internal/bank"
)

// Rs 以千分位與兩位小數格式化金額，例如 "Rs 1,245,500.00"。
func Rs(d decimal.Decimal) string {
	return "Rs " + grouped(d)
}

// SignedRs 依交易方向加上正負號，例如 "-Rs 1,500.00"。
func SignedRs(t bank.Transaction) string {
	return string(t.Sign) + Rs(t.Amount)
}

// grouped 直接在 StringFixed 的數字字串上加入千分位，金額位數不受 int64 限制。
func grouped(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	dot := strings.IndexByte(fixed, '.')
	digits, frac := fixed[:dot], fixed[dot:]

	var b strings.Builder
	b.Grow(len(fixed) + len(digits)/3 + 1)
	b.WriteString(sign)
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
