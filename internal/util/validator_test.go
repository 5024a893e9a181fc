package util

import (
	"testing"
	"time"
)

func TestParsePrice_Valid(t *testing.T) {
	cases := map[string]int64{
		"39.90":      3990,
		"39.9":       3990,
		"15":         1500,
		"0":          0,
		"0.05":       5,
		" 12.34 ":    1234,
		"9999999.99": 999999999,
	}
	for in, want := range cases {
		got, err := ParsePrice(in)
		if err != nil {
			t.Errorf("ParsePrice(%q) error = %v, want nil", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePrice(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	cases := []string{"", "abc", "-1", "1.234", "1.", ".5", "1,50", "10000000", "1e3", "12.3a"}
	for _, in := range cases {
		if _, err := ParsePrice(in); err == nil {
			t.Errorf("ParsePrice(%q) error = nil, want error", in)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[int64]string{0: "0.00", 5: "0.05", 3990: "39.90", 100: "1.00", -250: "-2.50"}
	for in, want := range cases {
		if got := FormatPrice(in); got != want {
			t.Errorf("FormatPrice(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2025-03-01T00:00:00Z")
	if err != nil {
		t.Fatalf("ParseDateTime error = %v", err)
	}
	if !got.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDateTime = %v", got)
	}

	got, err = ParseDateTime("2025-03-01T03:00:00+03:00")
	if err != nil {
		t.Fatalf("ParseDateTime error = %v", err)
	}
	if got.Location() != time.UTC || got.Hour() != 0 {
		t.Errorf("ParseDateTime should normalize to UTC, got %v", got)
	}

	if _, err := ParseDateTime("2025-03-01"); err != nil {
		t.Errorf("plain date should be accepted: %v", err)
	}

	for _, in := range []string{"", "2025/03/01", "tomorrow", "2025-13-01"} {
		if _, err := ParseDateTime(in); err == nil {
			t.Errorf("ParseDateTime(%q) error = nil, want error", in)
		}
	}
}

func TestValidateWindow(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if err := ValidateWindow(start, start.AddDate(0, 1, 0)); err != nil {
		t.Errorf("one month window: %v", err)
	}
	if err := ValidateWindow(start, start); err != nil {
		t.Errorf("zero-length window: %v", err)
	}
	if err := ValidateWindow(start, start.Add(-time.Second)); err == nil {
		t.Error("inverted window should fail")
	}
}

func TestValidateServiceName(t *testing.T) {
	if err := ValidateServiceName("Netflix"); err != nil {
		t.Errorf("ValidateServiceName(Netflix) = %v", err)
	}
	if err := ValidateServiceName("   "); err == nil {
		t.Error("blank name should fail")
	}
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateServiceName(string(long)); err == nil {
		t.Error("129-char name should fail")
	}
}

func TestValidateMaxUsers(t *testing.T) {
	for _, n := range []int{1, 4, 1000} {
		if err := ValidateMaxUsers(n); err != nil {
			t.Errorf("ValidateMaxUsers(%d) = %v", n, err)
		}
	}
	for _, n := range []int{0, -1, 1001} {
		if err := ValidateMaxUsers(n); err == nil {
			t.Errorf("ValidateMaxUsers(%d) = nil, want error", n)
		}
	}
}
