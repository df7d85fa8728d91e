package report

import (
	"worklogz/internal/core"
)

// Aggregate computes the full monthly report for the given period. Records
// outside the period are excluded from every derived value. The computation
// is pure and safe for concurrent use; malformed records (negative amounts,
// missing fields) contribute zero instead of failing the pass.
func Aggregate(records []core.TransactionRecord, period core.Period) Report {
	days := period.Days()
	r := Report{
		Period: period,
		DailySeries: DailySeries{
			Income:  make([]core.Money, days),
			Expense: make([]core.Money, days),
		},
		Categories: make(CategoryBreakdown),
	}

	var income, expense int64
	for _, rec := range records {
		if !period.Contains(rec.Date) {
			continue
		}
		r.Metrics.TotalTransactions++

		amount := rec.Amount()
		day := rec.Date.Day() - 1

		totals := r.Categories[rec.SourceType]
		switch rec.Type {
		case core.Income:
			income += amount.Cents
			if day >= 0 && day < days {
				r.DailySeries.Income[day] = r.DailySeries.Income[day].Add(amount)
			}
			totals.Income = totals.Income.Add(amount)
		case core.Expense:
			expense += amount.Cents
			if day >= 0 && day < days {
				r.DailySeries.Expense[day] = r.DailySeries.Expense[day].Add(amount)
			}
			totals.Expense = totals.Expense.Add(amount)
		}
		totals.Total = totals.Income.Add(totals.Expense)
		r.Categories[rec.SourceType] = totals
	}

	r.Metrics.Income = core.Money{Cents: income}
	r.Metrics.Expense = core.Money{Cents: expense}
	r.Metrics.Profit = core.Money{Cents: income - expense}
	if income > 0 {
		r.Metrics.ProfitMargin = float64(income-expense) / float64(income) * 100
	}
	r.Metrics.AvgDailyIncome = r.Metrics.Income.Amount() / float64(days)
	r.Metrics.AvgDailyExpense = r.Metrics.Expense.Amount() / float64(days)

	return r
}

// AggregateKey is Aggregate with period parsing: the only error condition of
// the aggregator is an unparseable period key.
func AggregateKey(records []core.TransactionRecord, periodKey string) (Report, error) {
	period, err := core.ParsePeriod(periodKey)
	if err != nil {
		return Report{}, err
	}
	return Aggregate(records, period), nil
}
