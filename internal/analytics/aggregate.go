package analytics

import (
	"sort"
	"time"

	"github.com/bizfinance/backend/internal/ledger"
	"github.com/shopspring/decimal"
)

// MonthLayout is the canonical bucket label format.
const MonthLayout = "2006-01"

// MonthBucket is the summed amount of all events in one calendar month.
type MonthBucket struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// MonthlySeries is the ordered result of AggregateMonthly.
type MonthlySeries struct {
	Buckets []MonthBucket `json:"buckets"`
	// Dropped counts events excluded for a missing date or a negative amount.
	Dropped int `json:"dropped"`
}

// Values returns the bucket amounts in chronological order.
func (s MonthlySeries) Values() []float64 {
	values := make([]float64, len(s.Buckets))
	for i, b := range s.Buckets {
		values[i] = b.Amount
	}
	return values
}

// MonthLabel returns the bucket label for t in UTC.
func MonthLabel(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// MonthStart truncates t to the first instant of its UTC month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AggregateMonthly folds events falling within [start, end] into calendar-month buckets.
// Events without a date or with a negative amount are dropped and counted.
func AggregateMonthly(events []ledger.Event, start, end time.Time) MonthlySeries {
	type bucket struct {
		total decimal.Decimal
		count int
	}
	byMonth := make(map[string]*bucket)
	var dropped int

	for _, e := range events {
		when := e.When()
		if when.IsZero() || e.Value().IsNegative() {
			dropped++
			continue
		}
		if when.Before(start) || when.After(end) {
			continue
		}
		label := MonthLabel(when)
		b, ok := byMonth[label]
		if !ok {
			b = &bucket{}
			byMonth[label] = b
		}
		b.total = b.total.Add(e.Value())
		b.count++
	}

	labels := make([]string, 0, len(byMonth))
	for label := range byMonth {
		labels = append(labels, label)
	}
	// YYYY-MM sorts lexically in chronological order.
	sort.Strings(labels)

	buckets := make([]MonthBucket, 0, len(labels))
	for _, label := range labels {
		b := byMonth[label]
		buckets = append(buckets, MonthBucket{
			Month:  label,
			Amount: b.total.InexactFloat64(),
			Count:  b.count,
		})
	}
	return MonthlySeries{Buckets: buckets, Dropped: dropped}
}
