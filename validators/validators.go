// Package validators holds pure field checks. Each returns whether the value
// is acceptable and a human readable message either way.
package validators

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/bitemebuddy/admin-dashboard/models"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStrip     = regexp.MustCompile(`[^\d+]`)
	phonePattern   = regexp.MustCompile(`^(\+91|91|0)?[6789]\d{9}$`)
	namePattern    = regexp.MustCompile(`^[a-zA-Z\s.'-]+$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	urlPattern     = regexp.MustCompile(`^https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+(?:/[-\w.%?=&]*)*$`)

	maxAmount = decimal.NewFromInt(10_000_000)
)

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Collect gathers the messages of failed checks, in order.
func Collect(results ...Result) []string {
	var msgs []string
	for _, r := range results {
		if !r.OK {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// Result pairs a verdict with its message.
type Result struct {
	OK      bool
	Message string
}

func R(ok bool, msg string) Result { return Result{OK: ok, Message: msg} }

func Email(email string) (bool, string) {
	if email == "" {
		return false, "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return false, "Invalid email format"
	}
	return true, "Email is valid"
}

func Phone(phone string) (bool, string) {
	if phone == "" {
		return false, "Phone number is required"
	}
	if !phonePattern.MatchString(phoneStrip.ReplaceAllString(phone, "")) {
		return false, "Invalid phone number format"
	}
	return true, "Phone number is valid"
}

func Name(name string) (bool, string) {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return false, "Name is required"
	case len(trimmed) < 2:
		return false, "Name must be at least 2 characters long"
	case len(trimmed) > 100:
		return false, "Name must be less than 100 characters"
	case !namePattern.MatchString(name):
		return false, "Name contains invalid characters"
	}
	return true, "Name is valid"
}

func Password(password string) (bool, string) {
	if password == "" {
		return false, "Password is required"
	}
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}

	switch {
	case !upper:
		return false, "Password must contain at least one uppercase letter"
	case !lower:
		return false, "Password must contain at least one lowercase letter"
	case !digit:
		return false, "Password must contain at least one digit"
	case !special:
		return false, "Password must contain at least one special character"
	}
	return true, "Password is strong"
}

// Amount accepts a decimal string between 0 and ten million inclusive.
func Amount(raw string) (bool, string) {
	if strings.TrimSpace(raw) == "" {
		return false, "Amount is required"
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return false, "Invalid amount format"
	}
	if amount.IsNegative() {
		return false, "Amount cannot be negative"
	}
	if amount.GreaterThan(maxAmount) {
		return false, "Amount is too large"
	}
	return true, "Amount is valid"
}

func Quantity(raw string) (bool, string) {
	if strings.TrimSpace(raw) == "" {
		return false, "Quantity is required"
	}
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false, "Invalid quantity format"
	}
	if qty <= 0 {
		return false, "Quantity must be greater than 0"
	}
	if qty > 1000 {
		return false, "Quantity is too large"
	}
	return true, "Quantity is valid"
}

// Date checks raw against a Go layout; empty layout means 2006-01-02.
func Date(raw, layout string) (bool, string) {
	if layout == "" {
		layout = time.DateOnly
	}
	if raw == "" {
		return false, "Date is required"
	}
	if _, err := time.Parse(layout, raw); err != nil {
		return false, "Invalid date format. Expected: " + layout
	}
	return true, "Date is valid"
}

func Pincode(pincode string) (bool, string) {
	if pincode == "" {
		return false, "Pincode is required"
	}
	if !pincodePattern.MatchString(pincode) {
		return false, "Invalid pincode format (6 digits required)"
	}
	return true, "Pincode is valid"
}

func Address(address string) (bool, string) {
	trimmed := strings.TrimSpace(address)
	switch {
	case trimmed == "":
		return false, "Address is required"
	case len(trimmed) < 10:
		return false, "Address must be at least 10 characters long"
	case len(trimmed) > 500:
		return false, "Address is too long (max 500 characters)"
	}
	return true, "Address is valid"
}

// Coordinate checks a latitude (isLatitude) or longitude string.
func Coordinate(raw string, isLatitude bool) (bool, string) {
	kind, limit := "longitude", 180.0
	if isLatitude {
		kind, limit = "latitude", 90.0
	}
	title := strings.ToUpper(kind[:1]) + kind[1:]

	if strings.TrimSpace(raw) == "" {
		return false, title + " is required"
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return false, "Invalid " + kind + " format"
	}
	if v < -limit || v > limit {
		return false, fmt.Sprintf("%s must be between %d and %d", title, -int(limit), int(limit))
	}
	return true, title + " is valid"
}

func URL(raw string) (bool, string) {
	if raw == "" {
		return false, "URL is required"
	}
	if !urlPattern.MatchString(raw) {
		return false, "Invalid URL format"
	}
	return true, "URL is valid"
}

var (
	ImageExtensions    = []string{"png", "jpg", "jpeg", "gif", "webp"}
	DocumentExtensions = []string{"pdf", "doc", "docx", "txt"}
	defaultExtensions  = []string{"png", "jpg", "jpeg", "gif", "pdf", "doc", "docx"}
)

// FileExtension checks filename against allowed (lowercase, no dot). nil uses the defaults.
func FileExtension(filename string, allowed []string) (bool, string) {
	if filename == "" {
		return false, "Filename is required"
	}
	if allowed == nil {
		allowed = defaultExtensions
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false, "File must have an extension"
	}
	for _, a := range allowed {
		if a == ext {
			return true, "File extension is valid"
		}
	}
	return false, "File type not allowed. Allowed: " + strings.Join(allowed, ", ")
}

func FileSize(size int64, maxMB int) (bool, string) {
	if maxMB <= 0 {
		maxMB = 10
	}
	if size > int64(maxMB)*1024*1024 {
		return false, fmt.Sprintf("File size exceeds %dMB limit", maxMB)
	}
	return true, "File size is valid"
}

func JSON(raw string) (bool, string) {
	if raw == "" {
		return false, "JSON is required"
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false, "Invalid JSON: " + err.Error()
	}
	return true, "JSON is valid"
}

// Range checks that raw parses as a number within [min, max].
func Range(raw string, min, max float64) (bool, string) {
	if strings.TrimSpace(raw) == "" {
		return false, "Value is required"
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return false, "Invalid numeric value"
	}
	if v < min || v > max {
		return false, fmt.Sprintf("Value must be between %g and %g", min, max)
	}
	return true, "Value is within range"
}

func Rating(raw string) (bool, string) { return Range(raw, 1, 5) }

func Discount(raw string) (bool, string) { return Range(raw, 0, 100) }

var defaultStatuses = []string{"active", "inactive", "pending", "approved", "rejected"}

// Status checks membership in allowed. nil uses the generic status set.
func Status(status string, allowed []string) (bool, string) {
	if allowed == nil {
		allowed = defaultStatuses
	}
	for _, a := range allowed {
		if a == status {
			return true, "Status is valid"
		}
	}
	sorted := append([]string(nil), allowed...)
	sort.Strings(sorted)
	return false, "Invalid status. Allowed: " + strings.Join(sorted, ", ")
}

func Category(category string, allowed []string) (bool, string) {
	if category == "" {
		return false, "Category is required"
	}
	if len(allowed) > 0 {
		for _, a := range allowed {
			if a == category {
				return true, "Category is valid"
			}
		}
		return false, "Invalid category. Allowed: " + strings.Join(allowed, ", ")
	}
	return true, "Category is valid"
}

func Description(description string, minLen, maxLen int) (bool, string) {
	if minLen == 0 && maxLen == 0 {
		minLen, maxLen = 10, 2000
	}
	switch {
	case description == "":
		return false, "Description is required"
	case len(description) < minLen:
		return false, fmt.Sprintf("Description must be at least %d characters long", minLen)
	case len(description) > maxLen:
		return false, fmt.Sprintf("Description must be less than %d characters", maxLen)
	}
	return true, "Description is valid"
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func OrderStatus(status string) (bool, string) {
	return Status(status, stringsOf(models.AllOrderStatuses()))
}

func PaymentMode(mode string) (bool, string) {
	return Status(mode, stringsOf(models.AllPaymentModes()))
}

func PaymentStatus(status string) (bool, string) {
	return Status(status, stringsOf(models.AllPaymentStatuses()))
}

func ItemType(itemType string) (bool, string) {
	return Status(itemType, stringsOf(models.AllItemTypes()))
}

func NotificationType(t string) (bool, string) {
	return Status(t, []string{"order_update", "payment", "system", "promotion", "alert"})
}

func AdminRole(role string) (bool, string) {
	return Status(role, []string{"superadmin", "admin", "manager", "viewer"})
}

// CatalogCategory applies to both service and menu categories. Empty is allowed.
func CatalogCategory(category string) (bool, string) {
	if category == "" {
		return true, "Category is optional"
	}
	if len(category) > 50 {
		return false, "Category must be less than 50 characters"
	}
	return true, "Category is valid"
}

func Position(raw string) (bool, string) {
	if strings.TrimSpace(raw) == "" {
		return true, "Position is optional"
	}
	pos, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false, "Invalid position format"
	}
	if pos < 0 {
		return false, "Position cannot be negative"
	}
	if pos > 1000 {
		return false, "Position is too large"
	}
	return true, "Position is valid"
}
