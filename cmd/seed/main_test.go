package main

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/bizfinance/backend/internal/analytics"
	"github.com/bizfinance/backend/internal/ledger"
	"github.com/bizfinance/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func TestGenerateLedgerIsDeterministic(t *testing.T) {
	a := generateLedger("biz-1", "KES", 12, seedNow, rand.New(rand.NewSource(7)))
	b := generateLedger("biz-1", "KES", 12, seedNow, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestGenerateLedgerCoversEveryMonth(t *testing.T) {
	l := generateLedger("biz-1", "KES", 12, seedNow, rand.New(rand.NewSource(42)))
	start := analytics.MonthStart(seedNow).AddDate(0, -11, 0)

	revenue := analytics.AggregateMonthly(ledger.Events(l.billing), start, seedNow)
	expenses := analytics.AggregateMonthly(ledger.Events(l.expenses), start, seedNow)
	assert.Len(t, revenue.Buckets, 12)
	assert.Len(t, expenses.Buckets, 12)
	assert.Zero(t, revenue.Dropped)
	assert.Len(t, l.expenses, 12*len(expenseProfiles))

	paid := 0
	for _, e := range l.billing {
		require.NoError(t, ledger.Validate(e.ID, e))
		assert.False(t, e.OccurredAt.After(seedNow))
		if e.Status == ledger.BillingStatusPaid {
			paid++
		}
	}
	assert.Equal(t, paid, len(l.payments))
}

func TestWriteLedgerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	l := generateLedger("biz-1", "KES", 6, seedNow, rand.New(rand.NewSource(42)))

	require.NoError(t, writeLedger(ctx, mem, l))
	require.NoError(t, writeLedger(ctx, mem, l))

	start := analytics.MonthStart(seedNow).AddDate(0, -5, 0)
	expenses, err := mem.FetchExpenseEvents(ctx, "biz-1", start, seedNow, nil)
	require.NoError(t, err)
	assert.Len(t, expenses, len(l.expenses))

	ids, err := mem.ListBusinessIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"biz-1"}, ids)
}
