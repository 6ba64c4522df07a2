package store

import (
	"context"
	"testing"
	"time"

	"github.com/bizfinance/backend/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	ctx := context.Background()
	m := NewMemoryStore()

	billing := []*ledger.BillingEvent{
		{ID: "inv-1", BusinessID: "biz-1", OccurredAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(1000), Status: ledger.BillingStatusPaid},
		{ID: "inv-2", BusinessID: "biz-1", OccurredAt: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(400), Status: ledger.BillingStatusDraft},
		{ID: "inv-3", BusinessID: "biz-1", OccurredAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(250), Status: ledger.BillingStatusOverdue},
		{ID: "inv-4", BusinessID: "biz-2", OccurredAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(70), Status: ledger.BillingStatusSent},
	}
	for _, e := range billing {
		require.NoError(t, m.CreateBillingEvent(ctx, e))
	}

	expenses := []*ledger.ExpenseEvent{
		{ID: "rcpt-1", BusinessID: "biz-1", OccurredAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(300), Category: " Rent "},
		{ID: "rcpt-2", BusinessID: "biz-1", OccurredAt: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(80), Category: "transport"},
		{ID: "rcpt-3", BusinessID: "biz-1", OccurredAt: time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(20)},
	}
	for _, e := range expenses {
		require.NoError(t, m.CreateExpenseEvent(ctx, e))
	}

	payments := []*ledger.PaymentEvent{
		{ID: "pay-1", BusinessID: "biz-1", OccurredAt: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(900), Status: ledger.PaymentStatusCompleted},
		{ID: "pay-2", BusinessID: "biz-1", OccurredAt: time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(50), Status: ledger.PaymentStatusFailed},
		{ID: "pay-3", BusinessID: "biz-3", OccurredAt: time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(10), Status: ledger.PaymentStatusSuccess},
	}
	for _, e := range payments {
		require.NoError(t, m.CreatePaymentEvent(ctx, e))
	}
	return m
}

func TestMemoryStoreFetchBillingEvents(t *testing.T) {
	m := seedMemoryStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("status filter and ordering", func(t *testing.T) {
		events, err := m.FetchBillingEvents(ctx, "biz-1", start, end, ledger.RevenueStatuses)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "inv-3", events[0].ID)
		assert.Equal(t, "inv-1", events[1].ID)
	})

	t.Run("empty filter matches every status", func(t *testing.T) {
		events, err := m.FetchBillingEvents(ctx, "biz-1", start, end, nil)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		at := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		events, err := m.FetchBillingEvents(ctx, "biz-1", at, at, nil)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "inv-1", events[0].ID)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.FetchBillingEvents(cctx, "biz-1", start, end, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryStoreFetchExpenseEvents(t *testing.T) {
	m := seedMemoryStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	events, err := m.FetchExpenseEvents(ctx, "biz-1", start, end, nil)
	require.NoError(t, err)
	require.Len(t, events, 2, "uncategorised receipts are not expenses")
	assert.Equal(t, "rent", events[0].Category)

	events, err = m.FetchExpenseEvents(ctx, "biz-1", start, end, []string{"RENT"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "rcpt-1", events[0].ID)
}

func TestMemoryStoreFetchPaymentEvents(t *testing.T) {
	m := seedMemoryStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	events, err := m.FetchPaymentEvents(ctx, "biz-1", start, end, ledger.SuccessfulPaymentStatuses)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "pay-1", events[0].ID)
}

func TestMemoryStoreCreateRejectsInvalidEvents(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	err := m.CreateBillingEvent(ctx, &ledger.BillingEvent{BusinessID: "biz-1", Amount: decimal.NewFromInt(5)})
	var malformed *ledger.MalformedEventError
	assert.ErrorAs(t, err, &malformed)

	err = m.CreatePaymentEvent(ctx, &ledger.PaymentEvent{
		BusinessID: "biz-1",
		OccurredAt: time.Now(),
		Amount:     decimal.NewFromInt(-5),
	})
	assert.ErrorAs(t, err, &malformed)

	event := &ledger.ExpenseEvent{BusinessID: "biz-1", OccurredAt: time.Now(), Amount: decimal.NewFromInt(5), Category: "fuel"}
	require.NoError(t, m.CreateExpenseEvent(ctx, event))
	assert.NotEmpty(t, event.ID, "an ID is assigned on create")
}

func TestMemoryStoreListBusinessIDs(t *testing.T) {
	m := seedMemoryStore(t)
	ids, err := m.ListBusinessIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"biz-1", "biz-2", "biz-3"}, ids)
}

func TestMemoryStoreCashFlowAlerts(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	for _, month := range []string{"2026-03", "2026-01", "2026-02"} {
		require.NoError(t, m.UpsertCashFlowAlert(ctx, &ledger.CashFlowAlert{
			BusinessID:  "biz-1",
			Month:       month,
			NetCashFlow: -100,
		}))
	}
	require.NoError(t, m.UpsertCashFlowAlert(ctx, &ledger.CashFlowAlert{BusinessID: "biz-2", Month: "2026-01"}))

	// Upserting the same month replaces the alert.
	require.NoError(t, m.UpsertCashFlowAlert(ctx, &ledger.CashFlowAlert{
		BusinessID:  "biz-1",
		Month:       "2026-01",
		NetCashFlow: -250,
	}))

	page, next, err := m.ListCashFlowAlerts(ctx, "biz-1", 2, "")
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.NotEmpty(t, next)
	assert.Equal(t, "biz-1:2026-01", page[0].ID)
	assert.Equal(t, -250.0, page[0].NetCashFlow)
	assert.Equal(t, "biz-1:2026-02", page[1].ID)

	page, next, err = m.ListCashFlowAlerts(ctx, "biz-1", 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Empty(t, next)
	assert.Equal(t, "2026-03", page[0].Month)
}

func TestPageTokenRoundTrip(t *testing.T) {
	token := EncodePageToken("biz-1:2026-01")
	id, err := DecodePageToken(token)
	require.NoError(t, err)
	assert.Equal(t, "biz-1:2026-01", id)

	assert.Empty(t, EncodePageToken(""))
	_, err = DecodePageToken("%%%")
	assert.Error(t, err)
}
