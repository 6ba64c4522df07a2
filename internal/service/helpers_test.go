package service

import (
	"context"
	"testing"
	"time"

	"github.com/bizfinance/backend/internal/analytics"
	"github.com/bizfinance/backend/internal/ledger"
	"github.com/bizfinance/backend/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// newTestService returns a service pinned to testNow with a captured logger.
func newTestService(s store.Store) (*AnalyticsService, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	svc := NewAnalyticsService(s, logger, Options{
		QueryTimeout:   time.Second,
		LookbackMonths: 12,
		Currency:       "KES",
	})
	svc.now = func() time.Time { return testNow }
	return svc, hook
}

// monthDates returns one date per month, ending in the month of testNow.
func monthDates(n int) []time.Time {
	last := analytics.MonthStart(testNow)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = last.AddDate(0, i-(n-1), 1)
	}
	return dates
}

func billingSeries(businessID string, amounts ...int64) []ledger.BillingEvent {
	dates := monthDates(len(amounts))
	events := make([]ledger.BillingEvent, len(amounts))
	for i, amt := range amounts {
		events[i] = ledger.BillingEvent{
			ID:         businessID + "-inv-" + dates[i].Format(analytics.MonthLayout),
			BusinessID: businessID,
			OccurredAt: dates[i],
			Amount:     decimal.NewFromInt(amt),
			Status:     ledger.BillingStatusPaid,
			Currency:   "KES",
		}
	}
	return events
}

func expenseSeries(businessID string, amounts ...int64) []ledger.ExpenseEvent {
	dates := monthDates(len(amounts))
	events := make([]ledger.ExpenseEvent, len(amounts))
	for i, amt := range amounts {
		events[i] = ledger.ExpenseEvent{
			ID:         businessID + "-rcpt-" + dates[i].Format(analytics.MonthLayout),
			BusinessID: businessID,
			OccurredAt: dates[i],
			Amount:     decimal.NewFromInt(amt),
			Category:   "stock",
			Currency:   "KES",
		}
	}
	return events
}

func repeat(amount int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = amount
	}
	return out
}

// seedBusiness writes monthly revenue and expense histories into a memory store.
func seedBusiness(t *testing.T, m *store.MemoryStore, businessID string, revenue, expenses []int64) {
	t.Helper()
	ctx := context.Background()
	for _, e := range billingSeries(businessID, revenue...) {
		require.NoError(t, m.CreateBillingEvent(ctx, &e))
	}
	for _, e := range expenseSeries(businessID, expenses...) {
		require.NoError(t, m.CreateExpenseEvent(ctx, &e))
	}
}
