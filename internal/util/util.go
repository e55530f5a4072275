package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with two decimals and thousands separators,
// e.g. "₦10,500.00".
func FormatAmount(symbol string, amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	grouped.Grow(len(whole) + len(whole)/3)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	return sign + symbol + grouped.String() + "." + frac
}

// FormatQuantity zero-pads small quantities the way the cart shows them ("02").
func FormatQuantity(quantity int) string {
	return fmt.Sprintf("%02d", quantity)
}

// FormatDuration formats duration into human readable format (e.g., "1h30m", "5m10s", "45s").
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	}

	if duration < time.Hour {
		m := int(duration.Minutes())
		s := int(duration.Seconds()) % 60

		return fmt.Sprintf("%dm%ds", m, s)
	}

	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60

	return fmt.Sprintf("%dh%dm", h, m)
}
