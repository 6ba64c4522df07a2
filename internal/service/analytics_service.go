package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizfinance/backend/internal/analytics"
	"github.com/bizfinance/backend/internal/ledger"
	"github.com/bizfinance/backend/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMonthsAhead = 6
	MaxMonthsAhead     = 24
	DefaultPeriodDays  = 30
	MaxPeriodDays      = 366
)

// Series names used in results and errors.
const (
	SeriesRevenue  = "revenue"
	SeriesExpenses = "expenses"
)

// ErrInvalidArgument marks a request rejected before any store access.
var ErrInvalidArgument = errors.New("invalid argument")

// Options configures an AnalyticsService.
type Options struct {
	// QueryTimeout bounds every request's store reads.
	QueryTimeout time.Duration
	// LookbackMonths is the history window forecasts are built from.
	LookbackMonths int
	Currency       string
}

// AnalyticsService forecasts revenue, expenses and cash flow for a business and
// compares dashboard periods. Every call re-derives its result from the store.
type AnalyticsService struct {
	store store.Store
	log   *logrus.Logger
	opts  Options
	now   func() time.Time
}

func NewAnalyticsService(store store.Store, log *logrus.Logger, opts Options) *AnalyticsService {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 10 * time.Second
	}
	if opts.LookbackMonths < analytics.MinHistoryMonths {
		opts.LookbackMonths = 12
	}
	if opts.Currency == "" {
		opts.Currency = "KES"
	}
	return &AnalyticsService{
		store: store,
		log:   log,
		opts:  opts,
		now:   time.Now,
	}
}

// SeriesForecast is a revenue or expense forecast together with the history it was built from.
type SeriesForecast struct {
	Series      string `json:"series"`
	Currency    string `json:"currency"`
	MonthsAhead int    `json:"months_ahead"`
	*analytics.Forecast
	History       []analytics.MonthBucket `json:"history"`
	DroppedEvents int                     `json:"dropped_events"`
	GeneratedAt   time.Time               `json:"generated_at"`
}

// CashFlowForecast is the merged projection plus the trend of each side.
type CashFlowForecast struct {
	Currency    string `json:"currency"`
	MonthsAhead int    `json:"months_ahead"`
	*analytics.CashFlow
	RevenueTrend  analytics.TrendDirection `json:"revenue_trend"`
	ExpensesTrend analytics.TrendDirection `json:"expenses_trend"`
	GeneratedAt   time.Time                `json:"generated_at"`
}

func validateMonthsAhead(monthsAhead int) (int, error) {
	if monthsAhead == 0 {
		return DefaultMonthsAhead, nil
	}
	if monthsAhead < 1 || monthsAhead > MaxMonthsAhead {
		return 0, fmt.Errorf("%w: months_ahead must be between 1 and %d, got %d", ErrInvalidArgument, MaxMonthsAhead, monthsAhead)
	}
	return monthsAhead, nil
}

func validateBusinessID(businessID string) error {
	if businessID == "" {
		return fmt.Errorf("%w: business_id is required", ErrInvalidArgument)
	}
	return nil
}

// lookback returns the history window ending now and the first month to forecast.
func (s *AnalyticsService) lookback() (start, end, firstMonth time.Time) {
	end = s.now().UTC()
	start = end.AddDate(0, -s.opts.LookbackMonths, 0)
	firstMonth = analytics.MonthStart(end).AddDate(0, 1, 0)
	return start, end, firstMonth
}

func (s *AnalyticsService) revenueSeries(ctx context.Context, businessID string, start, end time.Time) (analytics.MonthlySeries, error) {
	events, err := s.store.FetchBillingEvents(ctx, businessID, start, end, ledger.RevenueStatuses)
	if err != nil {
		return analytics.MonthlySeries{}, analytics.DataSourceUnavailable("fetch billing events", err)
	}
	return analytics.AggregateMonthly(ledger.Events(events), start, end), nil
}

func (s *AnalyticsService) expenseSeries(ctx context.Context, businessID string, start, end time.Time, categories []string) (analytics.MonthlySeries, error) {
	events, err := s.store.FetchExpenseEvents(ctx, businessID, start, end, categories)
	if err != nil {
		return analytics.MonthlySeries{}, analytics.DataSourceUnavailable("fetch expense events", err)
	}
	return analytics.AggregateMonthly(ledger.Events(events), start, end), nil
}

func (s *AnalyticsService) forecast(businessID, name string, series analytics.MonthlySeries, monthsAhead int, includeConfidence bool, firstMonth time.Time) (*SeriesForecast, error) {
	if series.Dropped > 0 {
		s.log.WithFields(logrus.Fields{
			"business_id": businessID,
			"series":      name,
			"dropped":     series.Dropped,
		}).Warn("dropped malformed events from forecast history")
	}

	f, err := analytics.ForecastSeries(series.Values(), analytics.ForecastOptions{
		Name:              name,
		MonthsAhead:       monthsAhead,
		IncludeConfidence: includeConfidence,
		FirstMonth:        firstMonth,
	})
	if err != nil {
		return nil, err
	}
	return &SeriesForecast{
		Series:        name,
		Currency:      s.opts.Currency,
		MonthsAhead:   monthsAhead,
		Forecast:      f,
		History:       series.Buckets,
		DroppedEvents: series.Dropped,
		GeneratedAt:   s.now().UTC(),
	}, nil
}

// ForecastRevenue projects invoiced revenue from paid, sent and overdue invoices.
func (s *AnalyticsService) ForecastRevenue(ctx context.Context, businessID string, monthsAhead int, includeConfidence bool) (*SeriesForecast, error) {
	if err := validateBusinessID(businessID); err != nil {
		return nil, err
	}
	monthsAhead, err := validateMonthsAhead(monthsAhead)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	start, end, firstMonth := s.lookback()
	series, err := s.revenueSeries(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}
	return s.forecast(businessID, SeriesRevenue, series, monthsAhead, includeConfidence, firstMonth)
}

// ForecastExpenses projects categorised expenses, optionally restricted to categories.
func (s *AnalyticsService) ForecastExpenses(ctx context.Context, businessID string, monthsAhead int, includeConfidence bool, categories ...string) (*SeriesForecast, error) {
	if err := validateBusinessID(businessID); err != nil {
		return nil, err
	}
	monthsAhead, err := validateMonthsAhead(monthsAhead)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	start, end, firstMonth := s.lookback()
	series, err := s.expenseSeries(ctx, businessID, start, end, categories)
	if err != nil {
		return nil, err
	}
	return s.forecast(businessID, SeriesExpenses, series, monthsAhead, includeConfidence, firstMonth)
}

// ForecastCashFlow forecasts revenue and expenses over the same months and merges them.
func (s *AnalyticsService) ForecastCashFlow(ctx context.Context, businessID string, monthsAhead int) (*CashFlowForecast, error) {
	if err := validateBusinessID(businessID); err != nil {
		return nil, err
	}
	monthsAhead, err := validateMonthsAhead(monthsAhead)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	start, end, firstMonth := s.lookback()

	var revenue, expenses analytics.MonthlySeries
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		revenue, err = s.revenueSeries(gctx, businessID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenseSeries(gctx, businessID, start, end, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rev := analytics.Outcome{Name: SeriesRevenue}
	exp := analytics.Outcome{Name: SeriesExpenses}
	var revForecast, expForecast *SeriesForecast
	revForecast, rev.Err = s.forecast(businessID, SeriesRevenue, revenue, monthsAhead, false, firstMonth)
	expForecast, exp.Err = s.forecast(businessID, SeriesExpenses, expenses, monthsAhead, false, firstMonth)
	if revForecast != nil {
		rev.Forecast = revForecast.Forecast
	}
	if expForecast != nil {
		exp.Forecast = expForecast.Forecast
	}

	cashFlow, err := analytics.CombineForecasts(rev, exp)
	if err != nil {
		return nil, err
	}
	return &CashFlowForecast{
		Currency:      s.opts.Currency,
		MonthsAhead:   monthsAhead,
		CashFlow:      cashFlow,
		RevenueTrend:  revForecast.OverallTrend,
		ExpensesTrend: expForecast.OverallTrend,
		GeneratedAt:   s.now().UTC(),
	}, nil
}

// DashboardPeriodComparison compares the last periodDays against the equally long period
// before it. It never fails: when the store cannot be read the result is zeroed and the
// failure is logged.
func (s *AnalyticsService) DashboardPeriodComparison(ctx context.Context, businessID string, periodDays int) *analytics.PeriodComparison {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}
	if periodDays > MaxPeriodDays {
		periodDays = MaxPeriodDays
	}

	currentWindow, previousWindow := analytics.PeriodWindows(s.now().UTC(), periodDays)
	if businessID == "" {
		s.log.Warn("dashboard comparison requested without a business")
		return analytics.ZeroComparison(periodDays, currentWindow, previousWindow)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	type periodEvents struct {
		billing  []ledger.BillingEvent
		payments []ledger.PaymentEvent
		expenses []ledger.ExpenseEvent
	}
	var current, previous periodEvents

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range []struct {
		window analytics.Window
		events *periodEvents
	}{
		{currentWindow, &current},
		{previousWindow, &previous},
	} {
		g.Go(func() error {
			events, err := s.store.FetchBillingEvents(gctx, businessID, p.window.Start, p.window.End, ledger.RevenueStatuses)
			if err != nil {
				return analytics.DataSourceUnavailable("fetch billing events", err)
			}
			p.events.billing = events
			return nil
		})
		g.Go(func() error {
			events, err := s.store.FetchPaymentEvents(gctx, businessID, p.window.Start, p.window.End, ledger.SuccessfulPaymentStatuses)
			if err != nil {
				return analytics.DataSourceUnavailable("fetch payment events", err)
			}
			p.events.payments = events
			return nil
		})
		g.Go(func() error {
			events, err := s.store.FetchExpenseEvents(gctx, businessID, p.window.Start, p.window.End, nil)
			if err != nil {
				return analytics.DataSourceUnavailable("fetch expense events", err)
			}
			p.events.expenses = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.WithFields(logrus.Fields{
			"business_id": businessID,
			"period_days": periodDays,
			"error":       err,
		}).Warn("dashboard comparison unavailable, returning zeroed statistics")
		return analytics.ZeroComparison(periodDays, currentWindow, previousWindow)
	}

	return analytics.ComparePeriods(periodDays, currentWindow, previousWindow,
		analytics.SummarizePeriod(current.billing, current.payments, current.expenses, periodDays),
		analytics.SummarizePeriod(previous.billing, previous.payments, previous.expenses, periodDays),
	)
}

// ListCashFlowAlerts pages through the alerts written by the cash-flow digest.
func (s *AnalyticsService) ListCashFlowAlerts(ctx context.Context, businessID string, pageSize int32, pageToken string) ([]*ledger.CashFlowAlert, string, error) {
	if err := validateBusinessID(businessID); err != nil {
		return nil, "", err
	}
	if _, err := store.DecodePageToken(pageToken); err != nil {
		return nil, "", fmt.Errorf("%w: malformed page_token", ErrInvalidArgument)
	}
	alerts, next, err := s.store.ListCashFlowAlerts(ctx, businessID, pageSize, pageToken)
	if err != nil {
		return nil, "", analytics.DataSourceUnavailable("list cash flow alerts", err)
	}
	return alerts, next, nil
}
