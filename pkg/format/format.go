// Package format renders amounts, dates and chart series for display. All functions are pure.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const currencySymbol = "₫"

// Currency formats an amount in dong with dot thousands separators: 1500000 -> "1.500.000 ₫".
func Currency(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	neg := amount < 0
	if neg {
		// negating math.MinInt64 overflows, so drop the sign from the text instead
		digits = digits[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	b.WriteString(" " + currencySymbol)
	return b.String()
}

// CurrencyDecimal rounds to whole dong before formatting.
func CurrencyDecimal(d decimal.Decimal) string {
	return Currency(d.Round(0).IntPart())
}

// Percent renders p with at most two decimals: 33.333 -> "33.33%".
func Percent(p float64) string {
	return decimal.NewFromFloat(p).Round(2).String() + "%"
}

func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

// ParseTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DateString formats a timestamp string as a date, or returns "" when it does not parse.
func DateString(s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return ""
	}
	return Date(t)
}

// MonthLabel turns "2026-03" into "03/2026". Anything else is returned unchanged.
func MonthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("01/2006")
}
