package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document field names shared by the invoices, receipts and payments collections.
const (
	FieldBusinessID  = "business_id"
	FieldIssuedAt    = "issue_date"
	FieldReceiptDate = "date"
	FieldPaidAt      = "transaction_date"
	FieldAmount      = "amount"
	FieldTotalAmount = "total_amount"
	FieldStatus      = "status"
	FieldCategory    = "category"
	FieldCurrency    = "currency"
)

// dateLayouts are the string layouts accepted for legacy documents.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MalformedEventError describes a document that could not be mapped to a typed record.
// Callers drop the document and keep going.
type MalformedEventError struct {
	ID     string
	Field  string
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event %s: %s: %s", e.ID, e.Field, e.Reason)
}

// ParseTimestamp accepts a native time or one of the legacy string layouts.
func ParseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, fmt.Errorf("zero timestamp")
		}
		return t.UTC(), nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, fmt.Errorf("zero timestamp")
		}
		return t.UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, fmt.Errorf("empty date string")
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	case nil:
		return time.Time{}, fmt.Errorf("missing")
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// ParseAmount accepts numeric document values and numeric strings.
// Negative amounts are rejected.
func ParseAmount(v any) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch n := v.(type) {
	case int64:
		d = decimal.NewFromInt(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, fmt.Errorf("non-finite amount")
		}
		d = decimal.NewFromFloat(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unparseable amount %q", n)
		}
		d = parsed
	case decimal.Decimal:
		d = n
	case nil:
		return decimal.Zero, fmt.Errorf("missing")
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", d.String())
	}
	return d, nil
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return strings.TrimSpace(s)
}

// amountField prefers total_amount and falls back to amount.
func amountField(data map[string]any) any {
	if v, ok := data[FieldTotalAmount]; ok && v != nil {
		return v
	}
	return data[FieldAmount]
}

// DecodeBillingEvent maps an invoice document to a BillingEvent.
func DecodeBillingEvent(id string, data map[string]any) (BillingEvent, error) {
	occurredAt, err := ParseTimestamp(data[FieldIssuedAt])
	if err != nil {
		return BillingEvent{}, &MalformedEventError{ID: id, Field: FieldIssuedAt, Reason: err.Error()}
	}
	amount, err := ParseAmount(amountField(data))
	if err != nil {
		return BillingEvent{}, &MalformedEventError{ID: id, Field: FieldTotalAmount, Reason: err.Error()}
	}
	return BillingEvent{
		ID:         id,
		BusinessID: stringField(data, FieldBusinessID),
		OccurredAt: occurredAt,
		Amount:     amount,
		Status:     BillingStatus(strings.ToLower(stringField(data, FieldStatus))),
		Currency:   stringField(data, FieldCurrency),
	}, nil
}

// DecodeExpenseEvent maps a receipt document to an ExpenseEvent.
func DecodeExpenseEvent(id string, data map[string]any) (ExpenseEvent, error) {
	occurredAt, err := ParseTimestamp(data[FieldReceiptDate])
	if err != nil {
		return ExpenseEvent{}, &MalformedEventError{ID: id, Field: FieldReceiptDate, Reason: err.Error()}
	}
	amount, err := ParseAmount(amountField(data))
	if err != nil {
		return ExpenseEvent{}, &MalformedEventError{ID: id, Field: FieldTotalAmount, Reason: err.Error()}
	}
	return ExpenseEvent{
		ID:         id,
		BusinessID: stringField(data, FieldBusinessID),
		OccurredAt: occurredAt,
		Amount:     amount,
		Category:   NormalizeCategory(stringField(data, FieldCategory)),
		Currency:   stringField(data, FieldCurrency),
	}, nil
}

// DecodePaymentEvent maps a payment document to a PaymentEvent.
func DecodePaymentEvent(id string, data map[string]any) (PaymentEvent, error) {
	occurredAt, err := ParseTimestamp(data[FieldPaidAt])
	if err != nil {
		return PaymentEvent{}, &MalformedEventError{ID: id, Field: FieldPaidAt, Reason: err.Error()}
	}
	amount, err := ParseAmount(data[FieldAmount])
	if err != nil {
		return PaymentEvent{}, &MalformedEventError{ID: id, Field: FieldAmount, Reason: err.Error()}
	}
	return PaymentEvent{
		ID:         id,
		BusinessID: stringField(data, FieldBusinessID),
		OccurredAt: occurredAt,
		Amount:     amount,
		Status:     PaymentStatus(strings.ToLower(stringField(data, FieldStatus))),
		Currency:   stringField(data, FieldCurrency),
	}, nil
}

// NormalizeCategory lower-cases and trims a category label.
func NormalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// EncodeBillingEvent is the document form written by CreateBillingEvent.
func EncodeBillingEvent(e BillingEvent) map[string]any {
	return map[string]any{
		FieldBusinessID:  e.BusinessID,
		FieldIssuedAt:    e.OccurredAt.UTC(),
		FieldTotalAmount: e.Amount.InexactFloat64(),
		FieldStatus:      string(e.Status),
		FieldCurrency:    e.Currency,
	}
}

// EncodeExpenseEvent is the document form written by CreateExpenseEvent.
func EncodeExpenseEvent(e ExpenseEvent) map[string]any {
	return map[string]any{
		FieldBusinessID:  e.BusinessID,
		FieldReceiptDate: e.OccurredAt.UTC(),
		FieldTotalAmount: e.Amount.InexactFloat64(),
		FieldCategory:    NormalizeCategory(e.Category),
		FieldCurrency:    e.Currency,
	}
}

// EncodePaymentEvent is the document form written by CreatePaymentEvent.
func EncodePaymentEvent(e PaymentEvent) map[string]any {
	return map[string]any{
		FieldBusinessID: e.BusinessID,
		FieldPaidAt:     e.OccurredAt.UTC(),
		FieldAmount:     e.Amount.InexactFloat64(),
		FieldStatus:     string(e.Status),
		FieldCurrency:   e.Currency,
	}
}

// Validate applies the same rules as the decoders to an already-typed record.
func Validate(id string, e Event) error {
	if e.When().IsZero() {
		return &MalformedEventError{ID: id, Field: "occurred_at", Reason: "missing"}
	}
	if e.Value().IsNegative() {
		return &MalformedEventError{ID: id, Field: "amount", Reason: "negative amount " + e.Value().String()}
	}
	return nil
}
