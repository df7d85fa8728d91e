// Package insight derives advisory messages from aggregated monthly metrics.
// The engine is a fixed, ordered table of independent rules: no learning, no
// external calls, and no failure path — malformed input degrades to a
// shorter list, never an error.
package insight

import (
	"fmt"
	"math"

	"worklogz/internal/core"
	"worklogz/internal/report"
)

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindDanger  Kind = "danger"
	KindInfo    Kind = "info"
)

type (
	// Kind tags an advisory with its severity.
	Kind string

	// Advisory is a single rule-engine observation.
	Advisory struct {
		Kind    Kind   `json:"kind"`
		Title   string `json:"title"`
		Message string `json:"message"`
	}

	rule struct {
		fires func(report.PeriodMetrics, report.CategoryBreakdown) (Advisory, bool)
	}
)

// Thresholds used by the rule table. Fixed by product definition, not
// configurable.
const (
	lowMarginCeiling   = 10.0
	highExpenseRatio   = 80.0
	excellentMargin    = 20.0
	lowActivityRecords = 10
)

// rules are evaluated top to bottom; the output list preserves this order.
var rules = []rule{
	{fires: lowProfitMargin},
	{fires: highExpenses},
	{fires: dailyOverspend},
	{fires: excellentProfitMargin},
	{fires: lowActivity},
	{fires: topExpenseCategory},
}

// Derive evaluates every rule against the metrics and breakdown and returns
// the advisories of the rules that fired, in rule order. It never returns an
// error: a rule whose guard cannot be evaluated safely simply does not fire.
func Derive(metrics report.PeriodMetrics, breakdown report.CategoryBreakdown) []Advisory {
	advisories := make([]Advisory, 0, len(rules))
	for _, r := range rules {
		if adv, ok := r.fires(metrics, breakdown); ok {
			advisories = append(advisories, adv)
		}
	}
	return advisories
}

func lowProfitMargin(m report.PeriodMetrics, _ report.CategoryBreakdown) (Advisory, bool) {
	if !finite(m.ProfitMargin) || m.Profit.Cents <= 0 {
		return Advisory{}, false
	}
	if m.ProfitMargin <= 0 || m.ProfitMargin >= lowMarginCeiling {
		return Advisory{}, false
	}
	return Advisory{
		Kind:  KindWarning,
		Title: "Low profit margin",
		Message: fmt.Sprintf("Profit margin is only %.2f%% this month. Review pricing or recurring costs to widen it.",
			m.ProfitMargin),
	}, true
}

func highExpenses(m report.PeriodMetrics, _ report.CategoryBreakdown) (Advisory, bool) {
	if m.Income.Cents <= 0 {
		return Advisory{}, false
	}
	ratio := float64(m.Expense.Cents) / float64(m.Income.Cents) * 100
	if !finite(ratio) || ratio <= highExpenseRatio {
		return Advisory{}, false
	}
	return Advisory{
		Kind:  KindDanger,
		Title: "High expense ratio",
		Message: fmt.Sprintf("Expenses are %.1f%% of income this month. Spending at this level erodes the whole margin.",
			ratio),
	}, true
}

func dailyOverspend(m report.PeriodMetrics, _ report.CategoryBreakdown) (Advisory, bool) {
	if !finite(m.AvgDailyIncome) || !finite(m.AvgDailyExpense) {
		return Advisory{}, false
	}
	if m.AvgDailyIncome <= 0 || m.AvgDailyExpense <= m.AvgDailyIncome {
		return Advisory{}, false
	}
	return Advisory{
		Kind:  KindInfo,
		Title: "Daily spending exceeds income",
		Message: fmt.Sprintf("Average daily expense (%.2f) is above average daily income (%.2f).",
			m.AvgDailyExpense, m.AvgDailyIncome),
	}, true
}

func excellentProfitMargin(m report.PeriodMetrics, _ report.CategoryBreakdown) (Advisory, bool) {
	if !finite(m.ProfitMargin) || m.ProfitMargin <= excellentMargin {
		return Advisory{}, false
	}
	return Advisory{
		Kind:  KindSuccess,
		Title: "Excellent profit margin",
		Message: fmt.Sprintf("Profit margin of %.2f%% is well above target. Keep it up.",
			m.ProfitMargin),
	}, true
}

func lowActivity(m report.PeriodMetrics, _ report.CategoryBreakdown) (Advisory, bool) {
	// A negative count means the metrics are malformed; skip rather than
	// report on garbage.
	if m.TotalTransactions < 0 || m.TotalTransactions >= lowActivityRecords {
		return Advisory{}, false
	}
	return Advisory{
		Kind:  KindInfo,
		Title: "Low transaction volume",
		Message: fmt.Sprintf("Only %d transactions recorded this month. Logging income and expenses regularly makes these reports more useful.",
			m.TotalTransactions),
	}, true
}

func topExpenseCategory(_ report.PeriodMetrics, breakdown report.CategoryBreakdown) (Advisory, bool) {
	name, total, ok := breakdown.TopExpenseCategory()
	if !ok {
		return Advisory{}, false
	}
	label := name
	if label == "" {
		label = "(uncategorized)"
	}
	return Advisory{
		Kind:  KindInfo,
		Title: "Largest expense category",
		Message: fmt.Sprintf("%s accounts for the biggest share of expenses at %s.",
			label, formatAmount(total)),
	}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func formatAmount(m core.Money) string {
	return fmt.Sprintf("%.2f", m.Amount())
}
