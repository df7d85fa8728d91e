package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// TransactionRecord is a single financial movement as recorded by the
	// CRUD frontend. Exactly one of Credit/Debit is expected to be positive,
	// consistent with Type, but the aggregator does not rely on that being
	// enforced upstream: missing or zero values count as zero.
	TransactionRecord struct {
		Date              Date            `json:"date"`
		Type              TransactionType `json:"transactionType"`
		Credit            Money           `json:"credit"`
		Debit             Money           `json:"debit"`
		SourceType        string          `json:"sourceType"`
		GivenBy           string          `json:"givenBy"`
		TransactionMethod string          `json:"transactionMethod"`
		Comments          string          `json:"comments,omitempty"`
	}
)

var (
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrEmptySourceType = errors.New("empty source type")
)

const dateLayout = "2006-01-02"

// NewDate creates a day-precision Date in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// Validate checks the fields a record needs before persistence. Aggregation
// is more forgiving than this: it absorbs malformed amounts instead of
// rejecting them.
func (r TransactionRecord) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if r.Credit.Cents < 0 || r.Debit.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.SourceType) == "" {
		// Grouping still works with an empty label, but recorded entries
		// should carry one.
		return ErrEmptySourceType
	}
	return nil
}

// Amount returns the record's contribution per its stated type: credit for
// income, debit for expense. Cross-type fields are ignored and negative
// amounts are coerced to zero rather than failing the whole aggregation.
func (r TransactionRecord) Amount() Money {
	var m Money
	switch r.Type {
	case Income:
		m = r.Credit
	case Expense:
		m = r.Debit
	}
	if m.Cents < 0 {
		return Money{}
	}
	return m
}
