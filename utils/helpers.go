package utils

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountPercentage is the share of original knocked off to reach final,
// rounded to one decimal. Non-positive inputs give 0.
func DiscountPercentage(original, final decimal.Decimal) float64 {
	if !original.IsPositive() || !final.IsPositive() {
		return 0
	}
	pct := original.Sub(final).Div(original).Mul(decimal.NewFromInt(100)).Round(1)
	f, _ := pct.Float64()
	return f
}

// MapsLink builds a Google Maps query link, or "" when a coordinate is missing.
func MapsLink(lat, lon decimal.NullDecimal) string {
	if !lat.Valid || !lon.Valid {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", lat.Decimal.String(), lon.Decimal.String())
}

// Location is a parsed "address|lat|lon|link" string.
type Location struct {
	Address   string              `json:"address"`
	Latitude  decimal.NullDecimal `json:"latitude"`
	Longitude decimal.NullDecimal `json:"longitude"`
	MapLink   string              `json:"map_link,omitempty"`
}

func ParseLocation(raw string) Location {
	parts := strings.Split(raw, "|")
	if len(parts) < 4 {
		return Location{Address: strings.TrimSpace(raw)}
	}

	loc := Location{
		Address: strings.TrimSpace(parts[0]),
		MapLink: strings.TrimSpace(parts[3]),
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(parts[1])); err == nil {
		loc.Latitude = decimal.NewNullDecimal(d)
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(parts[2])); err == nil {
		loc.Longitude = decimal.NewNullDecimal(d)
	}
	return loc
}

// TimeAgo renders the distance between t and now in coarse units.
// Months are 30 days and years 365.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}

	seconds := now.Sub(t).Seconds()
	unit := func(n int, name string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", name)
		}
		return fmt.Sprintf("%d %ss ago", n, name)
	}

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return unit(int(seconds/60), "minute")
	case seconds < 86400:
		return unit(int(seconds/3600), "hour")
	case seconds < 2592000:
		return unit(int(seconds/86400), "day")
	case seconds < 31536000:
		return unit(int(seconds/2592000), "month")
	default:
		return unit(int(seconds/31536000), "year")
	}
}

func Truncate(text string, length int) string {
	r := []rune(text)
	if len(r) <= length {
		return text
	}
	return string(r[:length]) + "..."
}

func FormatBytes(size int64) string {
	const unit = 1024
	switch {
	case size < unit:
		return fmt.Sprintf("%d B", size)
	case size < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(size)/unit)
	case size < unit*unit*unit:
		return fmt.Sprintf("%.1f MB", float64(size)/(unit*unit))
	}
	return fmt.Sprintf("%.1f GB", float64(size)/(unit*unit*unit))
}

var dangerousFragments = []string{"<script>", "</script>", "javascript:", "onclick", "onload", "onerror"}

// SanitizeInput escapes HTML and strips a few script vectors.
func SanitizeInput(text string) string {
	text = html.EscapeString(text)
	for _, d := range dangerousFragments {
		text = strings.ReplaceAll(text, d, "")
	}
	return strings.TrimSpace(text)
}
