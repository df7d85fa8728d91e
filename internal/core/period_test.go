package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	valid := map[string]Period{
		"2025-03": {Year: 2025, Month: time.March},
		"2024-12": {Year: 2024, Month: time.December},
		"0001-01": {Year: 1, Month: time.January},
	}
	for key, want := range valid {
		got, err := ParsePeriod(key)
		if err != nil {
			t.Errorf("ParsePeriod(%q) unexpected error: %v", key, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePeriod(%q) = %+v, want %+v", key, got, want)
		}
	}

	invalid := []string{
		"", "2025", "2025-3", "2025-003", "25-03", "2025/03",
		"2025-00", "2025-13", "abcd-ef", "2025-3x", " ",
	}
	for _, key := range invalid {
		if _, err := ParsePeriod(key); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("ParsePeriod(%q) err = %v, want ErrInvalidPeriod", key, err)
		}
	}
}

func TestPeriodDays(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"2025-01", 31},
		{"2025-02", 28},
		{"2024-02", 29}, // leap year
		{"2000-02", 29}, // divisible by 400
		{"1900-02", 28}, // divisible by 100, not 400
		{"2025-04", 30},
		{"2025-12", 31},
	}
	for _, tt := range tests {
		p, err := ParsePeriod(tt.key)
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", tt.key, err)
		}
		if got := p.Days(); got != tt.want {
			t.Errorf("Days(%s) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestPeriodContains(t *testing.T) {
	p, _ := ParsePeriod("2025-03")

	if !p.Contains(NewDate(2025, 3, 1)) || !p.Contains(NewDate(2025, 3, 31)) {
		t.Error("period should contain its first and last day")
	}
	if p.Contains(NewDate(2025, 2, 28)) || p.Contains(NewDate(2025, 4, 1)) {
		t.Error("period should not contain adjacent months")
	}
	if p.Contains(NewDate(2024, 3, 15)) {
		t.Error("period should not contain same month of another year")
	}
}

func TestPeriodKeyRoundTrip(t *testing.T) {
	p := Period{Year: 2025, Month: time.July}
	if p.Key() != "2025-07" {
		t.Errorf("Key() = %s, want 2025-07", p.Key())
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-07"` {
		t.Errorf("marshal = %s, want \"2025-07\"", b)
	}

	var back Period
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != p {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}
}

func TestPeriodOf(t *testing.T) {
	p := PeriodOf(NewDate(2024, 2, 29))
	if p.Key() != "2024-02" {
		t.Errorf("PeriodOf leap day = %s, want 2024-02", p.Key())
	}
}
