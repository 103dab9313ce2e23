package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"0.01", 1, false},
		{"12.345", 1235, false}, // rounds half-up on the third decimal
		{"12.344", 1234, false},
		{" 12.34 ", 1234, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"12.3.4", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmountToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseAmountToCents(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmountToCents(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmountToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseSignedCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"-120.50", -12050},
		{"0", 0},
		{"1000", 100000},
	}
	for _, tc := range cases {
		got, err := ParseSignedCents(tc.in)
		if err != nil {
			t.Fatalf("ParseSignedCents(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSignedCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if _, err := ParseSignedCents("nope"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "12.34" {
		t.Fatalf("marshal = %s, want 12.34", b)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"99.95"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 9995 {
		t.Fatalf("unmarshal string = %d, want 9995", m.Cents)
	}
	if err := json.Unmarshal([]byte(`7.5`), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 750 {
		t.Fatalf("unmarshal number = %d, want 750", m.Cents)
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: -12050}).String(); got != "-120.50" {
		t.Fatalf("String() = %q, want -120.50", got)
	}
}
