package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxPriceCents caps a subscription price at 9,999,999.99.
const MaxPriceCents = 999_999_999

// ParsePrice converts a decimal string ("39.90", "15", "0.5") into cents.
// At most two fractional digits are accepted; negative values are rejected.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("price is empty")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || !isDigits(whole) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if hasFrac && (frac == "" || len(frac) > 2 || !isDigits(frac)) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if len(whole) > 9 {
		return 0, fmt.Errorf("price too large, got %s", s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	var f int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		f, _ = strconv.ParseInt(frac, 10, 64)
	}
	cents := w*100 + f
	if cents > MaxPriceCents {
		return 0, fmt.Errorf("price too large, got %s", s)
	}
	return cents, nil
}

// FormatPrice renders cents with two decimals.
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func isDigits(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// ParseDateTime accepts RFC3339 timestamps (what the clients send) and plain YYYY-MM-DD.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}

// ValidateWindow requires the expiration not to precede the start.
func ValidateWindow(start, expiration time.Time) error {
	if expiration.Before(start) {
		return fmt.Errorf("expiration date %s is before start date %s",
			expiration.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// ValidateServiceName requires a non-blank name of reasonable length.
func ValidateServiceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("service name is empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("service name too long, max 128 characters")
	}
	return nil
}

// ValidateMaxUsers requires at least one seat.
func ValidateMaxUsers(n int) error {
	if n < 1 {
		return fmt.Errorf("max users must be at least 1, got %d", n)
	}
	if n > 1000 {
		return fmt.Errorf("max users too large, got %d", n)
	}
	return nil
}
