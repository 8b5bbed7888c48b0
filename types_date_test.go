package papertrade

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime asserts that time() is canonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := NewDate(2025, 7, 31)
	d2 := NewDate(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", NewDate(2025, time.January, 15), false},
		{"2025-7-1", NewDate(2025, time.July, 1), false},
		{" 2026-03-26 ", NewDate(2026, time.March, 26), false},
		{"2026-03-26T00:00:00Z", NewDate(2026, time.March, 26), false},
		{"invalid-date", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, time.February, 24)

	if got := d.Add(5); got != NewDate(2026, time.March, 1) {
		t.Errorf("Add(5) = %v", got)
	}
	if got := d.AddMonth(1); got != NewDate(2026, time.March, 24) {
		t.Errorf("AddMonth(1) = %v", got)
	}
	if !d.Before(d.Add(1)) || !d.After(d.Add(-1)) {
		t.Error("Before/After disagree with Add")
	}

	// DaysUntil is the time-to-expiry basis: exact whole days, negative in
	// the past.
	expiry := NewDate(2026, time.March, 26)
	if got := d.DaysUntil(expiry); got != 30 {
		t.Errorf("DaysUntil = %d, want 30", got)
	}
	if got := expiry.DaysUntil(d); got != -30 {
		t.Errorf("DaysUntil past = %d, want -30", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 5, 21)
	got, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `"2024-05-21"` {
		t.Errorf("json.Marshal() = %s, want %q", got, "2024-05-21")
	}

	var back Date
	if err := json.Unmarshal(got, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"not-a-date"`), &back); err == nil {
		t.Error("invalid date did not fail")
	}
}
