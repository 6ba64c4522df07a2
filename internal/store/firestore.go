package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/bizfinance/backend/internal/ledger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

const (
	collectionBusinesses = "businesses"
	collectionInvoices   = "invoices"
	collectionReceipts   = "receipts"
	collectionPayments   = "payments"
	collectionAlerts     = "cashFlowAlerts"

	// Firestore caps "in" filters at 30 values.
	maxInFilterValues = 30
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
	log    *logrus.Logger
	retry  RetryConfig
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client, log *logrus.Logger) Store {
	return &FirestoreStore{
		client: client,
		log:    log,
		retry:  DefaultReadRetryConfig,
	}
}

// applyCursorPagination adds OrderBy + StartAfter + Limit to a query for cursor-based pagination.
// It fetches pageSize+1 docs so the caller can detect whether a next page exists.
func (s *FirestoreStore) applyCursorPagination(query firestore.Query, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.StartAfter(docID)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	query = query.Limit(int(pageSize) + 1) // +1 to detect next page
	return query, nil
}

// windowQuery scopes a collection to one business and an inclusive date range.
func (s *FirestoreStore) windowQuery(collection, dateField, businessID string, start, end time.Time) firestore.Query {
	return s.client.Collection(collection).
		Where(ledger.FieldBusinessID, "==", businessID).
		Where(dateField, ">=", start).
		Where(dateField, "<=", end)
}

// scan streams every document of the query through decode. Documents that fail to
// decode are dropped and counted; a failed read aborts the scan.
func (s *FirestoreStore) scan(ctx context.Context, query firestore.Query, collection string, decode func(doc *firestore.DocumentSnapshot) error) error {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var dropped int
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", collection, err)
		}
		if err := decode(doc); err != nil {
			var malformed *ledger.MalformedEventError
			if !errors.As(err, &malformed) {
				return err
			}
			dropped++
			s.log.WithFields(logrus.Fields{
				"collection": collection,
				"doc_id":     doc.Ref.ID,
				"field":      malformed.Field,
			}).Debug(malformed.Reason)
		}
	}
	if dropped > 0 {
		s.log.WithFields(logrus.Fields{
			"collection": collection,
			"dropped":    dropped,
		}).Warn("dropped malformed documents")
	}
	return nil
}

func (s *FirestoreStore) FetchBillingEvents(ctx context.Context, businessID string, start, end time.Time, statuses []ledger.BillingStatus) ([]ledger.BillingEvent, error) {
	query := s.windowQuery(collectionInvoices, ledger.FieldIssuedAt, businessID, start, end)
	if len(statuses) > 0 && len(statuses) <= maxInFilterValues {
		values := make([]string, len(statuses))
		for i, st := range statuses {
			values[i] = string(st)
		}
		query = query.Where(ledger.FieldStatus, "in", values)
	}

	return withRetry(ctx, s.retry, func(ctx context.Context) ([]ledger.BillingEvent, error) {
		var events []ledger.BillingEvent
		err := s.scan(ctx, query, collectionInvoices, func(doc *firestore.DocumentSnapshot) error {
			e, err := ledger.DecodeBillingEvent(doc.Ref.ID, doc.Data())
			if err != nil {
				return err
			}
			// Also covers filters too long for an "in" clause.
			if len(statuses) > 0 && !ledger.HasBillingStatus(statuses, e.Status) {
				return nil
			}
			events = append(events, e)
			return nil
		})
		return events, err
	})
}

func (s *FirestoreStore) FetchExpenseEvents(ctx context.Context, businessID string, start, end time.Time, categories []string) ([]ledger.ExpenseEvent, error) {
	query := s.windowQuery(collectionReceipts, ledger.FieldReceiptDate, businessID, start, end)

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[ledger.NormalizeCategory(c)] = true
	}

	return withRetry(ctx, s.retry, func(ctx context.Context) ([]ledger.ExpenseEvent, error) {
		var events []ledger.ExpenseEvent
		err := s.scan(ctx, query, collectionReceipts, func(doc *firestore.DocumentSnapshot) error {
			e, err := ledger.DecodeExpenseEvent(doc.Ref.ID, doc.Data())
			if err != nil {
				return err
			}
			if e.Category == "" {
				return nil
			}
			if len(wanted) > 0 && !wanted[e.Category] {
				return nil
			}
			events = append(events, e)
			return nil
		})
		return events, err
	})
}

func (s *FirestoreStore) FetchPaymentEvents(ctx context.Context, businessID string, start, end time.Time, statuses []ledger.PaymentStatus) ([]ledger.PaymentEvent, error) {
	query := s.windowQuery(collectionPayments, ledger.FieldPaidAt, businessID, start, end)

	return withRetry(ctx, s.retry, func(ctx context.Context) ([]ledger.PaymentEvent, error) {
		var events []ledger.PaymentEvent
		err := s.scan(ctx, query, collectionPayments, func(doc *firestore.DocumentSnapshot) error {
			e, err := ledger.DecodePaymentEvent(doc.Ref.ID, doc.Data())
			if err != nil {
				return err
			}
			if len(statuses) > 0 && !ledger.HasPaymentStatus(statuses, e.Status) {
				return nil
			}
			events = append(events, e)
			return nil
		})
		return events, err
	})
}

// createEvent writes the document and registers the owning business.
func (s *FirestoreStore) createEvent(ctx context.Context, collection, id, businessID string, data map[string]any) error {
	batch := s.client.Batch()
	batch.Set(s.client.Collection(collection).Doc(id), data)
	batch.Set(s.client.Collection(collectionBusinesses).Doc(businessID), map[string]any{
		"updated_at": time.Now().UTC(),
	}, firestore.MergeAll)
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) CreateBillingEvent(ctx context.Context, event *ledger.BillingEvent) error {
	if err := ledger.Validate(event.ID, event); err != nil {
		return fmt.Errorf("create billing event: %w", err)
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	return s.createEvent(ctx, collectionInvoices, event.ID, event.BusinessID, ledger.EncodeBillingEvent(*event))
}

func (s *FirestoreStore) CreateExpenseEvent(ctx context.Context, event *ledger.ExpenseEvent) error {
	if err := ledger.Validate(event.ID, event); err != nil {
		return fmt.Errorf("create expense event: %w", err)
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	return s.createEvent(ctx, collectionReceipts, event.ID, event.BusinessID, ledger.EncodeExpenseEvent(*event))
}

func (s *FirestoreStore) CreatePaymentEvent(ctx context.Context, event *ledger.PaymentEvent) error {
	if err := ledger.Validate(event.ID, event); err != nil {
		return fmt.Errorf("create payment event: %w", err)
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	return s.createEvent(ctx, collectionPayments, event.ID, event.BusinessID, ledger.EncodePaymentEvent(*event))
}

// ListBusinessIDs lists the businesses collection, including documents that only exist as parents.
func (s *FirestoreStore) ListBusinessIDs(ctx context.Context) ([]string, error) {
	return withRetry(ctx, s.retry, func(ctx context.Context) ([]string, error) {
		iter := s.client.Collection(collectionBusinesses).DocumentRefs(ctx)
		var ids []string
		for {
			ref, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("failed to list businesses: %w", err)
			}
			ids = append(ids, ref.ID)
		}
		return ids, nil
	})
}

func (s *FirestoreStore) UpsertCashFlowAlert(ctx context.Context, alert *ledger.CashFlowAlert) error {
	if alert.ID == "" {
		alert.ID = ledger.AlertID(alert.BusinessID, alert.Month)
	}
	if _, err := s.client.Collection(collectionAlerts).Doc(alert.ID).Set(ctx, alert); err != nil {
		return fmt.Errorf("failed to upsert cash flow alert: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListCashFlowAlerts(ctx context.Context, businessID string, pageSize int32, pageToken string) ([]*ledger.CashFlowAlert, string, error) {
	query := s.client.Collection(collectionAlerts).Where(ledger.FieldBusinessID, "==", businessID)
	query, err := s.applyCursorPagination(query, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list cash flow alerts: %w", err)
	}

	if pageSize <= 0 {
		pageSize = 100
	}

	// Detect next page
	var nextPageToken string
	if len(docs) > int(pageSize) {
		docs = docs[:pageSize]
		nextPageToken = EncodePageToken(docs[pageSize-1].Ref.ID)
	}

	alerts := make([]*ledger.CashFlowAlert, 0, len(docs))
	for _, doc := range docs {
		var alert ledger.CashFlowAlert
		if err := doc.DataTo(&alert); err != nil {
			return nil, "", fmt.Errorf("failed to parse cash flow alert: %w", err)
		}
		alerts = append(alerts, &alert)
	}
	return alerts, nextPageToken, nil
}
