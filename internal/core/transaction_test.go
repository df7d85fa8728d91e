package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTransactionRecordAmount(t *testing.T) {
	tests := []struct {
		name string
		rec  TransactionRecord
		want int64
	}{
		{
			name: "income takes credit",
			rec:  TransactionRecord{Type: Income, Credit: Money{Cents: 500}, Debit: Money{Cents: 999}},
			want: 500,
		},
		{
			name: "expense takes debit",
			rec:  TransactionRecord{Type: Expense, Credit: Money{Cents: 999}, Debit: Money{Cents: 300}},
			want: 300,
		},
		{
			name: "unknown type contributes zero",
			rec:  TransactionRecord{Type: "Transfer", Credit: Money{Cents: 100}, Debit: Money{Cents: 100}},
			want: 0,
		},
		{
			name: "negative amount coerced to zero",
			rec:  TransactionRecord{Type: Income, Credit: Money{Cents: -250}},
			want: 0,
		},
		{
			name: "missing amount is zero",
			rec:  TransactionRecord{Type: Expense},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Amount(); got.Cents != tt.want {
				t.Errorf("Amount() = %d cents, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestTransactionRecordValidate(t *testing.T) {
	valid := TransactionRecord{
		Date:       NewDate(2025, 3, 5),
		Type:       Income,
		Credit:     Money{Cents: 1000},
		SourceType: "Sales",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid record: %v", err)
	}

	tests := []struct {
		name string
		mut  func(*TransactionRecord)
		want error
	}{
		{"zero date", func(r *TransactionRecord) { r.Date = Date{} }, ErrInvalidDate},
		{"bad type", func(r *TransactionRecord) { r.Type = "Refund" }, ErrInvalidType},
		{"negative credit", func(r *TransactionRecord) { r.Credit.Cents = -1 }, ErrInvalidAmount},
		{"negative debit", func(r *TransactionRecord) { r.Debit.Cents = -1 }, ErrInvalidAmount},
		{"blank source", func(r *TransactionRecord) { r.SourceType = "  " }, ErrEmptySourceType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mut(&rec)
			if err := rec.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransactionRecordJSON(t *testing.T) {
	body := `{
		"date": "2025-03-05",
		"transactionType": "Expense",
		"credit": 0,
		"debit": 42.50,
		"sourceType": "Office",
		"givenBy": "Dana",
		"transactionMethod": "Card",
		"comments": "chairs"
	}`
	var rec TransactionRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Date.String() != "2025-03-05" {
		t.Errorf("date = %s, want 2025-03-05", rec.Date)
	}
	if rec.Type != Expense || rec.Debit.Cents != 4250 {
		t.Errorf("rec = %+v, want expense of 4250 cents", rec)
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back TransactionRecord
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if back != rec {
		t.Errorf("round trip = %+v, want %+v", back, rec)
	}
}

func TestDateUnmarshalInvalid(t *testing.T) {
	var d Date
	for _, input := range []string{`"2025-13-01"`, `"yesterday"`, `42`} {
		if err := json.Unmarshal([]byte(input), &d); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("unmarshal %s: err = %v, want ErrInvalidDate", input, err)
		}
	}
}
