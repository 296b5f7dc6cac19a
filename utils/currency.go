package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

const CurrencySymbol = "₹"

// FormatINR renders an amount as rupees with comma grouping and two decimals.
// Example: 1234.5 -> "₹1,234.50"
func FormatINR(amount decimal.Decimal) string {
	return CurrencySymbol + GroupThousands(amount)
}

// GroupThousands formats with two decimals and a comma every three digits.
func GroupThousands(amount decimal.Decimal) string {
	formatted := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	parts := strings.SplitN(formatted, ".", 2)
	integerPart := parts[0]
	decimalPart := parts[1]

	var result []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{integerPart[start:i]}, result...)
	}

	return sign + strings.Join(result, ",") + "." + decimalPart
}

// FormatPhone normalizes Indian numbers for display. Other shapes pass through.
func FormatPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	switch {
	case phone == "":
		return ""
	case strings.HasPrefix(phone, "+91"):
		return phone
	case strings.HasPrefix(phone, "91") && len(phone) == 12:
		return "+" + phone
	case len(phone) == 10:
		return "+91 " + phone[:5] + " " + phone[5:]
	}
	return phone
}
