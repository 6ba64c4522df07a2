package store

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/bizfinance/backend/internal/ledger"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// Store is the read collaborator for financial events plus the few writes the
// seeder and the cash-flow digest need.
type Store interface {
	// Financial event reads. Windows are inclusive on both ends; an empty
	// status or category filter matches everything.
	FetchBillingEvents(ctx context.Context, businessID string, start, end time.Time, statuses []ledger.BillingStatus) ([]ledger.BillingEvent, error)
	FetchExpenseEvents(ctx context.Context, businessID string, start, end time.Time, categories []string) ([]ledger.ExpenseEvent, error)
	FetchPaymentEvents(ctx context.Context, businessID string, start, end time.Time, statuses []ledger.PaymentStatus) ([]ledger.PaymentEvent, error)

	// Financial event writes
	CreateBillingEvent(ctx context.Context, event *ledger.BillingEvent) error
	CreateExpenseEvent(ctx context.Context, event *ledger.ExpenseEvent) error
	CreatePaymentEvent(ctx context.Context, event *ledger.PaymentEvent) error

	// Business operations
	ListBusinessIDs(ctx context.Context) ([]string, error)

	// Cash-flow alert operations
	UpsertCashFlowAlert(ctx context.Context, alert *ledger.CashFlowAlert) error
	ListCashFlowAlerts(ctx context.Context, businessID string, pageSize int32, pageToken string) ([]*ledger.CashFlowAlert, string, error)
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func withinWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
