package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Period identifies a calendar month, the unit of aggregation for financial
// reports. The wire format is "YYYY-MM".
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a "YYYY-MM" key. Anything that does not name a valid
// calendar month fails with ErrInvalidPeriod.
func ParsePeriod(key string) (Period, error) {
	key = strings.TrimSpace(key)
	parts := strings.Split(key, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return Period{}, ErrInvalidPeriod
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Period{}, ErrInvalidPeriod
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodOf returns the period containing the given date.
func PeriodOf(d Date) Period {
	return Period{Year: d.Time.Year(), Month: d.Time.Month()}
}

// Days returns the number of days in the month, accounting for leap years.
func (p Period) Days() int {
	// Day zero of the next month is the last day of this one.
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether the date falls inside the month. Only year and
// month matter for membership.
func (p Period) Contains(d Date) bool {
	return d.Time.Year() == p.Year && d.Time.Month() == p.Month
}

// Key returns the canonical "YYYY-MM" form.
func (p Period) Key() string {
	return fmt4(p.Year) + "-" + fmt2(int(p.Month))
}

func (p Period) String() string {
	return p.Key()
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Key())
}

func (p *Period) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidPeriod
	}
	parsed, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func fmt4(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

func fmt2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
