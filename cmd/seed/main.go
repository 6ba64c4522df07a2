// seed writes a deterministic ledger for one business: invoices, M-Pesa
// payments and receipts covering the last N months. Re-running it overwrites
// the same documents.
//
// Usage:
//
//	GOOGLE_CLOUD_PROJECT=my-project go run ./cmd/seed -business acme -months 12
//	go run ./cmd/seed -memory   # seed an in-memory store and print the digest preview
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/bizfinance/backend/internal/analytics"
	"github.com/bizfinance/backend/internal/auth"
	"github.com/bizfinance/backend/internal/ledger"
	"github.com/bizfinance/backend/internal/service"
	"github.com/bizfinance/backend/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// seedNamespace keys the deterministic document IDs.
var seedNamespace = uuid.MustParse("6f1c2a4e-7d0b-4c1e-9a53-2f8e0b7c5d11")

type expenseProfile struct {
	category string
	base     int64
	// growth is the month-over-month increase applied to base.
	growth float64
}

var expenseProfiles = []expenseProfile{
	{category: "stock", base: 42000, growth: 0.04},
	{category: "rent", base: 25000},
	{category: "transport", base: 6500, growth: 0.02},
	{category: "utilities", base: 4800, growth: 0.01},
	{category: "salaries", base: 38000},
}

type demoLedger struct {
	billing  []ledger.BillingEvent
	payments []ledger.PaymentEvent
	expenses []ledger.ExpenseEvent
}

func eventID(businessID, kind string, month, n int) string {
	return uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("%s/%s/%d/%d", businessID, kind, month, n))).String()
}

func amount(rng *rand.Rand, base float64, jitter float64) decimal.Decimal {
	v := base * (1 + (rng.Float64()*2-1)*jitter)
	return decimal.NewFromFloat(v).Round(0)
}

// generateLedger builds months of history ending in the month of now.
// Revenue grows steadily while stock costs outpace it in the final quarter.
func generateLedger(businessID, currency string, months int, now time.Time, rng *rand.Rand) demoLedger {
	var out demoLedger
	first := analytics.MonthStart(now).AddDate(0, -(months - 1), 0)

	for m := 0; m < months; m++ {
		monthStart := first.AddDate(0, m, 0)
		day := func() time.Time {
			d := monthStart.AddDate(0, 0, rng.Intn(27)).Add(time.Duration(8+rng.Intn(10)) * time.Hour)
			if d.After(now) {
				return now
			}
			return d
		}

		invoices := 4 + rng.Intn(3)
		for i := 0; i < invoices; i++ {
			status := ledger.BillingStatusPaid
			switch r := rng.Intn(20); {
			case r == 0:
				status = ledger.BillingStatusCancelled
			case r == 1:
				status = ledger.BillingStatusDraft
			case r < 4:
				status = ledger.BillingStatusOverdue
			case m == months-1 && r < 10:
				status = ledger.BillingStatusSent
			}
			invoice := ledger.BillingEvent{
				ID:         eventID(businessID, "invoice", m, i),
				BusinessID: businessID,
				OccurredAt: day(),
				Amount:     amount(rng, 30000*(1+0.03*float64(m)), 0.25),
				Status:     status,
				Currency:   currency,
			}
			out.billing = append(out.billing, invoice)

			if status != ledger.BillingStatusPaid {
				continue
			}
			paidAt := invoice.OccurredAt.AddDate(0, 0, 1+rng.Intn(10))
			if paidAt.After(now) {
				paidAt = now
			}
			paymentStatus := ledger.PaymentStatusCompleted
			if rng.Intn(10) == 0 {
				paymentStatus = ledger.PaymentStatusSuccess
			}
			out.payments = append(out.payments, ledger.PaymentEvent{
				ID:         eventID(businessID, "payment", m, i),
				BusinessID: businessID,
				OccurredAt: paidAt,
				Amount:     invoice.Amount,
				Status:     paymentStatus,
				Currency:   currency,
			})
		}

		for i, p := range expenseProfiles {
			growth := p.growth
			if p.category == "stock" && m >= months-3 {
				growth *= 4
			}
			out.expenses = append(out.expenses, ledger.ExpenseEvent{
				ID:         eventID(businessID, "receipt", m, i),
				BusinessID: businessID,
				OccurredAt: day(),
				Amount:     amount(rng, float64(p.base)*(1+growth*float64(m)), 0.1),
				Category:   p.category,
				Currency:   currency,
			})
		}
	}
	return out
}

func writeLedger(ctx context.Context, s store.Store, l demoLedger) error {
	for i := range l.billing {
		if err := s.CreateBillingEvent(ctx, &l.billing[i]); err != nil {
			return err
		}
	}
	for i := range l.payments {
		if err := s.CreatePaymentEvent(ctx, &l.payments[i]); err != nil {
			return err
		}
	}
	for i := range l.expenses {
		if err := s.CreateExpenseEvent(ctx, &l.expenses[i]); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	businessID := flag.String("business", auth.LocalDevBusinessID, "business to seed")
	months := flag.Int("months", 12, "months of history to write")
	currency := flag.String("currency", "KES", "ledger currency")
	linkUID := flag.String("link-uid", "", "Firebase user to link to the business via a custom claim")
	useMemory := flag.Bool("memory", false, "seed an in-memory store and preview the cash flow digest")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *months < analytics.MinHistoryMonths {
		logger.Fatalf("-months must be at least %d", analytics.MinHistoryMonths)
	}

	ctx := context.Background()
	now := time.Now().UTC()
	l := generateLedger(*businessID, *currency, *months, now, rand.New(rand.NewSource(*seed)))

	var s store.Store
	if *useMemory {
		s = store.NewMemoryStore()
	} else {
		projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			logger.Fatal("GOOGLE_CLOUD_PROJECT is required unless -memory is set")
		}
		client, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			logger.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer client.Close()
		s = store.NewFirestoreStore(client, logger)

		if *linkUID != "" {
			fbAuth, err := auth.NewFirebaseAuth(ctx, projectID)
			if err != nil {
				logger.Fatalf("Failed to initialize Firebase Auth: %v", err)
			}
			if err := fbAuth.SetBusinessClaim(ctx, *linkUID, *businessID); err != nil {
				logger.Fatalf("Failed to link user: %v", err)
			}
			logger.WithFields(logrus.Fields{"uid": *linkUID, "business_id": *businessID}).Info("Linked user to business")
		}
	}

	if err := writeLedger(ctx, s, l); err != nil {
		logger.Fatalf("Failed to seed ledger: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"business_id": *businessID,
		"months":      *months,
		"invoices":    len(l.billing),
		"payments":    len(l.payments),
		"receipts":    len(l.expenses),
	}).Info("Seeded ledger")

	if *useMemory {
		svc := service.NewAnalyticsService(s, logger, service.Options{Currency: *currency})
		report, err := service.NewCashFlowDigest(svc, s, logger).Run(ctx)
		if err != nil {
			logger.Fatalf("Digest preview failed: %v", err)
		}
		alerts, _, err := s.ListCashFlowAlerts(ctx, *businessID, 0, "")
		if err != nil {
			logger.Fatalf("Failed to list alerts: %v", err)
		}
		for _, a := range alerts {
			fmt.Println(a.Message)
		}
		logger.WithField("alerts", report.AlertsWritten).Info("Digest preview complete")
	}
}
