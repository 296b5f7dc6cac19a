package utils

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marks(ns ...int) []PageMark {
	out := make([]PageMark, len(ns))
	for i, n := range ns {
		out[i] = PageMark(n)
	}
	return out
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		page, total int
		want        []PageMark
	}{
		{1, 5, marks(1, 2, 3, 4, 5)},
		{7, 7, marks(1, 2, 3, 4, 5, 6, 7)},
		{3, 10, marks(1, 2, 3, 4, 5, 0, 10)},
		{9, 10, marks(1, 0, 6, 7, 8, 9, 10)},
		{5, 10, marks(1, 0, 3, 4, 5, 6, 7, 0, 10)},
		{1, 0, marks()},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PageWindow(tc.page, tc.total), "page %d of %d", tc.page, tc.total)
	}
}

func TestPageWindowJSON(t *testing.T) {
	raw, err := json.Marshal(PageWindow(3, 10))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3,4,5,"...",10]`, string(raw))
}

func TestPaginate(t *testing.T) {
	params := url.Values{"status": {"pending"}}
	p := Paginate(2, 20, 45, "/dashboard/orders", params)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, "/dashboard/orders?page=1&status=pending", p.PrevURL)
	assert.Equal(t, "/dashboard/orders?page=3&status=pending", p.NextURL)
	assert.Equal(t, []string{"pending"}, params["status"])
	_, mutated := params["page"]
	assert.False(t, mutated)

	last := Paginate(3, 20, 45, "/x", nil)
	assert.False(t, last.HasNext)
	assert.Empty(t, last.NextURL)
}

func TestMapsLink(t *testing.T) {
	lat := decimal.NewNullDecimal(decimal.RequireFromString("12.97"))
	lon := decimal.NewNullDecimal(decimal.RequireFromString("77.59"))
	assert.Equal(t, "https://www.google.com/maps?q=12.97,77.59", MapsLink(lat, lon))
	assert.Equal(t, "", MapsLink(lat, decimal.NullDecimal{}))
}

func TestParseLocation(t *testing.T) {
	loc := ParseLocation("12 MG Road|12.97|77.59|https://maps")
	assert.Equal(t, "12 MG Road", loc.Address)
	assert.True(t, loc.Latitude.Valid)
	assert.Equal(t, "https://maps", loc.MapLink)

	plain := ParseLocation("  somewhere  ")
	assert.Equal(t, "somewhere", plain.Address)
	assert.False(t, plain.Latitude.Valid)
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{29 * 24 * time.Hour, "29 days ago"},
		{30 * 24 * time.Hour, "1 month ago"},
		{364 * 24 * time.Hour, "12 months ago"},
		{365 * 24 * time.Hour, "1 year ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TimeAgo(now.Add(-tc.ago), now), tc.ago.String())
	}
	assert.Equal(t, "Unknown", TimeAgo(time.Time{}, now))
}

func TestDiscountPercentage(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	assert.Equal(t, 25.0, DiscountPercentage(d("200"), d("150")))
	assert.Equal(t, 33.3, DiscountPercentage(d("300"), d("200")))
	assert.Equal(t, 0.0, DiscountPercentage(d("0"), d("10")))
	assert.Equal(t, 0.0, DiscountPercentage(d("100"), d("0")))
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹1,234.50", FormatINR(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "₹0.00", FormatINR(decimal.Zero))
	assert.Equal(t, "₹1,234,567.00", FormatINR(decimal.NewFromInt(1234567)))
	assert.Equal(t, "-1,000.00", GroupThousands(decimal.NewFromInt(-1000)))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+91 98765 43210", FormatPhone("9876543210"))
	assert.Equal(t, "+919876543210", FormatPhone("919876543210"))
	assert.Equal(t, "+91 98765", FormatPhone("+91 98765"))
	assert.Equal(t, "12345", FormatPhone("12345"))
	assert.Equal(t, "", FormatPhone("  "))
}

func TestDateRange(t *testing.T) {
	// 2024-03-06 is a Wednesday; 20:00 UTC is already the 7th in IST.
	now := time.Date(2024, 3, 6, 20, 0, 0, 0, time.UTC)

	start, end := DateRange("today", now)
	assert.Equal(t, 7, start.Day())
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	start, _ = DateRange("yesterday", now)
	assert.Equal(t, 6, start.Day())

	start, end = DateRange("week", now)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 4, start.Day())
	assert.Equal(t, 11, end.Day())

	start, end = DateRange("month", now)
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, time.April, end.Month())

	start, end = DateRange("year", now)
	assert.Equal(t, time.January, start.Month())
	assert.Equal(t, 2025, end.Year())

	todayStart, _ := DateRange("today", now)
	bogus, _ := DateRange("fortnight", now)
	assert.Equal(t, todayStart, bogus)
}

func TestTokenRoundTripAndBlacklist(t *testing.T) {
	ConfigureSessions("unit-test-secret", time.Hour)

	token, err := GenerateToken(7, "admin", "superadmin")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.AdminID)
	assert.Equal(t, "superadmin", claims.Role)

	assert.False(t, IsTokenBlacklisted(token))
	BlacklistToken(token, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(token))

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}

func TestMiscFormatting(t *testing.T) {
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", SanitizeInput(" <b>hi</b> "))
}
