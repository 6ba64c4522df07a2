package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingStatus is the lifecycle status of an invoice.
type BillingStatus string

const (
	BillingStatusDraft     BillingStatus = "draft"
	BillingStatusSent      BillingStatus = "sent"
	BillingStatusPaid      BillingStatus = "paid"
	BillingStatusOverdue   BillingStatus = "overdue"
	BillingStatusCancelled BillingStatus = "cancelled"
)

// PaymentStatus is the settlement status of an M-Pesa payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// RevenueStatuses are the invoice statuses that count as billed revenue.
var RevenueStatuses = []BillingStatus{BillingStatusPaid, BillingStatusSent, BillingStatusOverdue}

// SuccessfulPaymentStatuses are the payment statuses that count as collected cash.
var SuccessfulPaymentStatuses = []PaymentStatus{PaymentStatusCompleted, PaymentStatusSuccess}

// Event is the read-only view of a dated monetary record used by aggregation.
type Event interface {
	When() time.Time
	Value() decimal.Decimal
}

// BillingEvent is an invoice issued to a customer.
type BillingEvent struct {
	ID         string
	BusinessID string
	OccurredAt time.Time
	Amount     decimal.Decimal
	Status     BillingStatus
	Currency   string
}

func (e BillingEvent) When() time.Time        { return e.OccurredAt }
func (e BillingEvent) Value() decimal.Decimal { return e.Amount }

// ExpenseEvent is a business cost, usually ingested from a scanned receipt.
type ExpenseEvent struct {
	ID         string
	BusinessID string
	OccurredAt time.Time
	Amount     decimal.Decimal
	Category   string
	Currency   string
}

func (e ExpenseEvent) When() time.Time        { return e.OccurredAt }
func (e ExpenseEvent) Value() decimal.Decimal { return e.Amount }

// PaymentEvent is money received against an invoice.
type PaymentEvent struct {
	ID         string
	BusinessID string
	OccurredAt time.Time
	Amount     decimal.Decimal
	Status     PaymentStatus
	Currency   string
}

func (e PaymentEvent) When() time.Time        { return e.OccurredAt }
func (e PaymentEvent) Value() decimal.Decimal { return e.Amount }

// CashFlowAlert records a month predicted to close with negative cash flow.
type CashFlowAlert struct {
	ID           string    `firestore:"id" json:"id"`
	BusinessID   string    `firestore:"business_id" json:"business_id"`
	Month        string    `firestore:"month" json:"month"`
	NetCashFlow  float64   `firestore:"net_cash_flow" json:"net_cash_flow"`
	Message      string    `firestore:"message" json:"message"`
	GeneratedAt  time.Time `firestore:"generated_at" json:"generated_at"`
	ForecastSpan int       `firestore:"forecast_span" json:"forecast_span"`
}

// AlertID is the stable key of the alert for a business and month.
func AlertID(businessID, month string) string {
	return businessID + ":" + month
}

// Events converts a typed slice into the aggregation view.
func Events[T Event](in []T) []Event {
	out := make([]Event, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}

// HasBillingStatus reports whether s is in statuses.
func HasBillingStatus(statuses []BillingStatus, s BillingStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

// HasPaymentStatus reports whether s is in statuses.
func HasPaymentStatus(statuses []PaymentStatus, s PaymentStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}
