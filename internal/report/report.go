// Package report implements the monthly financial aggregator: a pure
// computation from a list of transaction records and a calendar period to
// summary metrics, a per-day series and a per-category breakdown.
package report

import (
	"worklogz/internal/core"
)

// PeriodMetrics are the headline numbers for one calendar month. All derived
// values are recomputed on every call; nothing here is persisted state.
type PeriodMetrics struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Profit  core.Money `json:"profit"`
	// ProfitMargin is profit as a percentage of income, kept at full
	// precision; rounding to two decimals is a display concern.
	ProfitMargin      float64 `json:"profitMargin"`
	TotalTransactions int     `json:"totalTransactions"`
	// Daily averages divide by the number of days in the month, not by the
	// number of days that had activity.
	AvgDailyIncome  float64 `json:"avgDailyIncome"`
	AvgDailyExpense float64 `json:"avgDailyExpense"`
}

// DailySeries holds one summed amount per day of the month, indexed by
// day-of-month minus one. Both slices always have length Period.Days().
type DailySeries struct {
	Income  []core.Money `json:"income"`
	Expense []core.Money `json:"expense"`
}

// CategoryTotals is the accumulated amount for one sourceType. Income and
// expense are kept apart so insight rules can look at expense-only totals;
// Total sums both directions.
type CategoryTotals struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Total   core.Money `json:"total"`
}

// CategoryBreakdown maps sourceType labels to their accumulated totals. An
// empty sourceType is a valid key.
type CategoryBreakdown map[string]CategoryTotals

// Report is the full output of one aggregation pass.
type Report struct {
	Period      core.Period       `json:"period"`
	Metrics     PeriodMetrics     `json:"metrics"`
	DailySeries DailySeries       `json:"dailySeries"`
	Categories  CategoryBreakdown `json:"categoryBreakdown"`
}

// ExpenseTotal returns the summed expense cents for a category.
func (c CategoryTotals) ExpenseTotal() core.Money {
	return c.Expense
}

// TopExpenseCategory returns the category with the largest expense total and
// reports whether any expense entry exists. Ties go to the lexicographically
// smallest name so the result is deterministic across map iteration orders.
func (b CategoryBreakdown) TopExpenseCategory() (name string, total core.Money, ok bool) {
	for cat, totals := range b {
		if totals.Expense.Cents <= 0 {
			continue
		}
		if !ok || totals.Expense.Cents > total.Cents ||
			(totals.Expense.Cents == total.Cents && cat < name) {
			name, total, ok = cat, totals.Expense, true
		}
	}
	return name, total, ok
}
