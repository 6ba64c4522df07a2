package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bizfinance/backend/internal/analytics"
	"github.com/bizfinance/backend/internal/ledger"
	"github.com/bizfinance/backend/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DigestMonthsAhead is how far the digest looks for negative months.
	DigestMonthsAhead = 3
	// digestRunTimeout bounds one scheduled pass over every business.
	digestRunTimeout = 5 * time.Minute
)

// DigestReport summarises one digest pass.
type DigestReport struct {
	BusinessesProcessed int
	AlertsWritten       int
	// Skipped counts businesses without enough history to forecast.
	Skipped int
	Failed  int
}

// CashFlowDigest stores an alert for every month a business is predicted to
// close with negative cash flow.
type CashFlowDigest struct {
	forecasts *AnalyticsService
	store     store.Store
	log       *logrus.Logger
	printer   *message.Printer
	now       func() time.Time
}

func NewCashFlowDigest(svc *AnalyticsService, store store.Store, log *logrus.Logger) *CashFlowDigest {
	return &CashFlowDigest{
		forecasts: svc,
		store:     store,
		log:       log,
		printer:   message.NewPrinter(language.English),
		now:       time.Now,
	}
}

// Run forecasts every business once. A failing business is logged and skipped;
// only a failure to enumerate businesses aborts the pass.
func (d *CashFlowDigest) Run(ctx context.Context) (DigestReport, error) {
	var report DigestReport

	businessIDs, err := d.store.ListBusinessIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list businesses: %w", err)
	}

	for _, businessID := range businessIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.BusinessesProcessed++

		written, err := d.runBusiness(ctx, businessID)
		report.AlertsWritten += written
		switch {
		case err == nil:
		case analytics.IsNotEnoughData(err):
			report.Skipped++
			d.log.WithField("business_id", businessID).Debug("not enough history for cash flow digest")
		default:
			report.Failed++
			d.log.WithFields(logrus.Fields{
				"business_id": businessID,
				"error":       err,
			}).Error("cash flow digest failed")
		}
	}

	d.log.WithFields(logrus.Fields{
		"businesses": report.BusinessesProcessed,
		"alerts":     report.AlertsWritten,
		"skipped":    report.Skipped,
		"failed":     report.Failed,
	}).Info("cash flow digest complete")
	return report, nil
}

func (d *CashFlowDigest) runBusiness(ctx context.Context, businessID string) (int, error) {
	forecast, err := d.forecasts.ForecastCashFlow(ctx, businessID, DigestMonthsAhead)
	if err != nil {
		return 0, err
	}

	var written int
	generatedAt := d.now().UTC()
	for _, point := range forecast.NegativeMonths() {
		alert := &ledger.CashFlowAlert{
			ID:           ledger.AlertID(businessID, point.Month),
			BusinessID:   businessID,
			Month:        point.Month,
			NetCashFlow:  point.NetCashFlow,
			Message:      d.alertMessage(forecast.Currency, point),
			GeneratedAt:  generatedAt,
			ForecastSpan: DigestMonthsAhead,
		}
		if err := d.store.UpsertCashFlowAlert(ctx, alert); err != nil {
			return written, fmt.Errorf("failed to store alert for %s: %w", point.Month, err)
		}
		written++
	}
	return written, nil
}

func (d *CashFlowDigest) alertMessage(currency string, point analytics.CashFlowPoint) string {
	month := point.Month
	if t, err := time.Parse(analytics.MonthLayout, point.Month); err == nil {
		month = t.Format("January 2006")
	}
	return d.printer.Sprintf("%s: expenses of %s %.0f are predicted to exceed revenue of %s %.0f (net %s %.0f)",
		month,
		currency, point.PredictedExpenses,
		currency, point.PredictedRevenue,
		currency, point.NetCashFlow,
	)
}

// Schedule registers the digest on spec and starts the scheduler. The caller
// stops it with Stop on shutdown.
func (d *CashFlowDigest) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestRunTimeout)
		defer cancel()
		if _, err := d.Run(ctx); err != nil {
			d.log.WithError(err).Error("cash flow digest aborted")
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
