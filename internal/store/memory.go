package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bizfinance/backend/internal/ledger"
	"github.com/google/uuid"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	billing  map[string]ledger.BillingEvent
	expenses map[string]ledger.ExpenseEvent
	payments map[string]ledger.PaymentEvent
	alerts   map[string]*ledger.CashFlowAlert
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		billing:  make(map[string]ledger.BillingEvent),
		expenses: make(map[string]ledger.ExpenseEvent),
		payments: make(map[string]ledger.PaymentEvent),
		alerts:   make(map[string]*ledger.CashFlowAlert),
	}
}

// paginateIDs applies cursor-based pagination to a sorted slice of IDs.
// Returns the paginated IDs and the next page token (empty if no more pages).
func paginateIDs(ids []string, pageSize int32, pageToken string) ([]string, string) {
	if pageSize <= 0 {
		pageSize = 100
	}

	sort.Strings(ids)

	startIdx := 0
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err == nil {
			startIdx = sort.SearchStrings(ids, cursorID)
			if startIdx < len(ids) && ids[startIdx] == cursorID {
				startIdx++
			}
		}
	}
	ids = ids[startIdx:]

	var nextToken string
	if int32(len(ids)) > pageSize {
		nextToken = EncodePageToken(ids[pageSize-1])
		ids = ids[:pageSize]
	}

	return ids, nextToken
}

// Financial event writes

func (m *MemoryStore) CreateBillingEvent(ctx context.Context, event *ledger.BillingEvent) error {
	if err := ledger.Validate(event.ID, event); err != nil {
		return fmt.Errorf("create billing event: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	m.billing[event.ID] = *event
	return nil
}

func (m *MemoryStore) CreateExpenseEvent(ctx context.Context, event *ledger.ExpenseEvent) error {
	if err := ledger.Validate(event.ID, event); err != nil {
		return fmt.Errorf("create expense event: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.Category = ledger.NormalizeCategory(event.Category)
	m.expenses[event.ID] = *event
	return nil
}

func (m *MemoryStore) CreatePaymentEvent(ctx context.Context, event *ledger.PaymentEvent) error {
	if err := ledger.Validate(event.ID, event); err != nil {
		return fmt.Errorf("create payment event: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	m.payments[event.ID] = *event
	return nil
}

// Financial event reads

func (m *MemoryStore) FetchBillingEvents(ctx context.Context, businessID string, start, end time.Time, statuses []ledger.BillingStatus) ([]ledger.BillingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ledger.BillingEvent
	for _, e := range m.billing {
		if e.BusinessID != businessID || !withinWindow(e.OccurredAt, start, end) {
			continue
		}
		if len(statuses) > 0 && !ledger.HasBillingStatus(statuses, e.Status) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (m *MemoryStore) FetchExpenseEvents(ctx context.Context, businessID string, start, end time.Time, categories []string) ([]ledger.ExpenseEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[ledger.NormalizeCategory(c)] = true
	}

	var out []ledger.ExpenseEvent
	for _, e := range m.expenses {
		if e.BusinessID != businessID || !withinWindow(e.OccurredAt, start, end) {
			continue
		}
		// Receipts without a category were never classified and do not count as expenses.
		if e.Category == "" {
			continue
		}
		if len(wanted) > 0 && !wanted[e.Category] {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (m *MemoryStore) FetchPaymentEvents(ctx context.Context, businessID string, start, end time.Time, statuses []ledger.PaymentStatus) ([]ledger.PaymentEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ledger.PaymentEvent
	for _, e := range m.payments {
		if e.BusinessID != businessID || !withinWindow(e.OccurredAt, start, end) {
			continue
		}
		if len(statuses) > 0 && !ledger.HasPaymentStatus(statuses, e.Status) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

// ListBusinessIDs returns every business that owns at least one event.
func (m *MemoryStore) ListBusinessIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for _, e := range m.billing {
		seen[e.BusinessID] = true
	}
	for _, e := range m.expenses {
		seen[e.BusinessID] = true
	}
	for _, e := range m.payments {
		seen[e.BusinessID] = true
	}
	delete(seen, "")

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Cash-flow alert operations

func (m *MemoryStore) UpsertCashFlowAlert(ctx context.Context, alert *ledger.CashFlowAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if alert.ID == "" {
		alert.ID = ledger.AlertID(alert.BusinessID, alert.Month)
	}
	stored := *alert
	m.alerts[alert.ID] = &stored
	return nil
}

func (m *MemoryStore) ListCashFlowAlerts(ctx context.Context, businessID string, pageSize int32, pageToken string) ([]*ledger.CashFlowAlert, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, a := range m.alerts {
		if a.BusinessID == businessID {
			ids = append(ids, id)
		}
	}

	pageIDs, nextToken := paginateIDs(ids, pageSize, pageToken)
	alerts := make([]*ledger.CashFlowAlert, 0, len(pageIDs))
	for _, id := range pageIDs {
		a := *m.alerts[id]
		alerts = append(alerts, &a)
	}
	return alerts, nextToken, nil
}
