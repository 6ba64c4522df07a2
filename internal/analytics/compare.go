package analytics

import (
	"time"

	"github.com/bizfinance/backend/internal/ledger"
	"github.com/shopspring/decimal"
)

// Window is an inclusive time range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PeriodWindows returns the current window ending at now and the equally long,
// disjoint window immediately before it.
func PeriodWindows(now time.Time, days int) (current, previous Window) {
	current = Window{Start: now.AddDate(0, 0, -days), End: now}
	previous = Window{
		Start: current.Start.AddDate(0, 0, -days),
		End:   current.Start.Add(-time.Nanosecond),
	}
	return current, previous
}

// PeriodStats are the dashboard aggregates for one window.
type PeriodStats struct {
	InvoicedTotal float64 `json:"invoiced_total"`
	InvoiceCount  int     `json:"invoice_count"`
	PaidTotal     float64 `json:"paid_total"`
	PaymentCount  int     `json:"payment_count"`
	ExpenseTotal  float64 `json:"expense_total"`
	Outstanding   float64 `json:"outstanding"`
	DailyCashFlow float64 `json:"daily_cash_flow"`
}

// Comparison is one metric across the two windows.
type Comparison struct {
	Current       float64 `json:"current_total"`
	Previous      float64 `json:"previous_total"`
	ChangePercent float64 `json:"change_percent"`
}

// PeriodComparison is the dashboard statistics result.
type PeriodComparison struct {
	PeriodDays     int         `json:"period_days"`
	CurrentWindow  Window      `json:"current_window"`
	PreviousWindow Window      `json:"previous_window"`
	Current        PeriodStats `json:"current"`
	Previous       PeriodStats `json:"previous"`
	Invoiced       Comparison  `json:"invoiced"`
	Paid           Comparison  `json:"paid"`
	Outstanding    Comparison  `json:"outstanding"`
	DailyCashFlow  Comparison  `json:"daily_cash_flow"`
}

// ChangePercent is the rounded percent change from previous to current.
// Growth from zero counts as +100%; zero to zero or below is 0%.
func ChangePercent(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0
	}
	return roundTo((current-previous)/previous*100, 1)
}

func compare(current, previous float64) Comparison {
	return Comparison{
		Current:       current,
		Previous:      previous,
		ChangePercent: ChangePercent(current, previous),
	}
}

// SummarizePeriod folds one window's qualifying events into PeriodStats.
// Malformed events are skipped.
func SummarizePeriod(billing []ledger.BillingEvent, payments []ledger.PaymentEvent, expenses []ledger.ExpenseEvent, days int) PeriodStats {
	var stats PeriodStats

	invoiced := decimal.Zero
	for _, e := range billing {
		if ledger.Validate(e.ID, e) != nil {
			continue
		}
		invoiced = invoiced.Add(e.Amount)
		stats.InvoiceCount++
	}
	paid := decimal.Zero
	for _, e := range payments {
		if ledger.Validate(e.ID, e) != nil {
			continue
		}
		paid = paid.Add(e.Amount)
		stats.PaymentCount++
	}
	spent := decimal.Zero
	for _, e := range expenses {
		if ledger.Validate(e.ID, e) != nil {
			continue
		}
		spent = spent.Add(e.Amount)
	}

	stats.InvoicedTotal = invoiced.InexactFloat64()
	stats.PaidTotal = paid.InexactFloat64()
	stats.ExpenseTotal = spent.InexactFloat64()
	stats.Outstanding = invoiced.Sub(paid).InexactFloat64()
	stats.DailyCashFlow = paid.Sub(spent).InexactFloat64() / float64(max(days, 1))
	return stats
}

// ComparePeriods builds the four metric comparisons.
func ComparePeriods(days int, currentWindow, previousWindow Window, current, previous PeriodStats) *PeriodComparison {
	return &PeriodComparison{
		PeriodDays:     days,
		CurrentWindow:  currentWindow,
		PreviousWindow: previousWindow,
		Current:        current,
		Previous:       previous,
		Invoiced:       compare(current.InvoicedTotal, previous.InvoicedTotal),
		Paid:           compare(current.PaidTotal, previous.PaidTotal),
		Outstanding:    compare(current.Outstanding, previous.Outstanding),
		DailyCashFlow:  compare(current.DailyCashFlow, previous.DailyCashFlow),
	}
}

// ZeroComparison is returned when the dashboard cannot be computed.
func ZeroComparison(days int, currentWindow, previousWindow Window) *PeriodComparison {
	return &PeriodComparison{
		PeriodDays:     days,
		CurrentWindow:  currentWindow,
		PreviousWindow: previousWindow,
	}
}
