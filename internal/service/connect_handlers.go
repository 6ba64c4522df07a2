package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/bizfinance/backend/internal/analytics"
	"github.com/bizfinance/backend/internal/auth"
	"github.com/bizfinance/backend/internal/ledger"
)

// AnalyticsServiceName is the fully-qualified name of the analytics RPC service.
const AnalyticsServiceName = "bizfinance.v1.AnalyticsService"

// Procedure paths served by NewAnalyticsServiceHandler.
const (
	ForecastRevenueProcedure        = "/" + AnalyticsServiceName + "/ForecastRevenue"
	ForecastExpensesProcedure       = "/" + AnalyticsServiceName + "/ForecastExpenses"
	ForecastCashFlowProcedure       = "/" + AnalyticsServiceName + "/ForecastCashFlow"
	GetDashboardStatisticsProcedure = "/" + AnalyticsServiceName + "/GetDashboardStatistics"
	ListCashFlowAlertsProcedure     = "/" + AnalyticsServiceName + "/ListCashFlowAlerts"
)

type ForecastRequest struct {
	// BusinessID defaults to the caller's business.
	BusinessID        string `json:"business_id,omitempty"`
	MonthsAhead       int    `json:"months_ahead"`
	IncludeConfidence bool   `json:"include_confidence"`
	// Categories restricts expense forecasts; ignored for revenue.
	Categories []string `json:"categories,omitempty"`
}

type CashFlowRequest struct {
	BusinessID  string `json:"business_id,omitempty"`
	MonthsAhead int    `json:"months_ahead"`
}

type DashboardStatisticsRequest struct {
	BusinessID string `json:"business_id,omitempty"`
	PeriodDays int    `json:"period_days"`
}

type ListCashFlowAlertsRequest struct {
	BusinessID string `json:"business_id,omitempty"`
	PageSize   int32  `json:"page_size"`
	PageToken  string `json:"page_token,omitempty"`
}

type ListCashFlowAlertsResponse struct {
	Alerts        []*ledger.CashFlowAlert `json:"alerts"`
	NextPageToken string                  `json:"next_page_token,omitempty"`
}

// toConnectError maps service and analytics errors onto Connect codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	if errors.Is(err, ErrInvalidArgument) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	var aerr *analytics.Error
	if errors.As(err, &aerr) {
		switch aerr.Code {
		case analytics.CodeInsufficientHistory, analytics.CodeCombinedInsufficientData:
			cerr := connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("not enough data yet: %s", aerr.Message))
			for _, series := range aerr.Series {
				cerr.Meta().Add("Insufficient-Series", series)
			}
			return cerr
		case analytics.CodeDataSourceUnavailable:
			if errors.Is(err, context.DeadlineExceeded) {
				return connect.NewError(connect.CodeDeadlineExceeded, err)
			}
			return connect.NewError(connect.CodeUnavailable, err)
		case analytics.CodeMisalignedForecasts:
			return connect.NewError(connect.CodeInternal, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}

// analyticsHandler adapts AnalyticsService to Connect unary handlers.
type analyticsHandler struct {
	svc *AnalyticsService
}

func (h *analyticsHandler) ForecastRevenue(ctx context.Context, req *connect.Request[ForecastRequest]) (*connect.Response[SeriesForecast], error) {
	businessID, err := auth.RequireBusinessAccess(ctx, req.Msg.BusinessID)
	if err != nil {
		return nil, err
	}
	forecast, err := h.svc.ForecastRevenue(ctx, businessID, req.Msg.MonthsAhead, req.Msg.IncludeConfidence)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(forecast), nil
}

func (h *analyticsHandler) ForecastExpenses(ctx context.Context, req *connect.Request[ForecastRequest]) (*connect.Response[SeriesForecast], error) {
	businessID, err := auth.RequireBusinessAccess(ctx, req.Msg.BusinessID)
	if err != nil {
		return nil, err
	}
	forecast, err := h.svc.ForecastExpenses(ctx, businessID, req.Msg.MonthsAhead, req.Msg.IncludeConfidence, req.Msg.Categories...)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(forecast), nil
}

func (h *analyticsHandler) ForecastCashFlow(ctx context.Context, req *connect.Request[CashFlowRequest]) (*connect.Response[CashFlowForecast], error) {
	businessID, err := auth.RequireBusinessAccess(ctx, req.Msg.BusinessID)
	if err != nil {
		return nil, err
	}
	forecast, err := h.svc.ForecastCashFlow(ctx, businessID, req.Msg.MonthsAhead)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(forecast), nil
}

func (h *analyticsHandler) GetDashboardStatistics(ctx context.Context, req *connect.Request[DashboardStatisticsRequest]) (*connect.Response[analytics.PeriodComparison], error) {
	businessID, err := auth.RequireBusinessAccess(ctx, req.Msg.BusinessID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(h.svc.DashboardPeriodComparison(ctx, businessID, req.Msg.PeriodDays)), nil
}

func (h *analyticsHandler) ListCashFlowAlerts(ctx context.Context, req *connect.Request[ListCashFlowAlertsRequest]) (*connect.Response[ListCashFlowAlertsResponse], error) {
	businessID, err := auth.RequireBusinessAccess(ctx, req.Msg.BusinessID)
	if err != nil {
		return nil, err
	}
	alerts, next, err := h.svc.ListCashFlowAlerts(ctx, businessID, auth.NormalizePageSize(req.Msg.PageSize), req.Msg.PageToken)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListCashFlowAlertsResponse{
		Alerts:        alerts,
		NextPageToken: next,
	}), nil
}

// NewAnalyticsServiceHandler builds an HTTP handler serving every analytics procedure.
// It returns the path prefix to mount the handler on.
func NewAnalyticsServiceHandler(svc *AnalyticsService, opts ...connect.HandlerOption) (string, http.Handler) {
	h := &analyticsHandler{svc: svc}
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ForecastRevenueProcedure, connect.NewUnaryHandler(ForecastRevenueProcedure, h.ForecastRevenue, opts...))
	mux.Handle(ForecastExpensesProcedure, connect.NewUnaryHandler(ForecastExpensesProcedure, h.ForecastExpenses, opts...))
	mux.Handle(ForecastCashFlowProcedure, connect.NewUnaryHandler(ForecastCashFlowProcedure, h.ForecastCashFlow, opts...))
	mux.Handle(GetDashboardStatisticsProcedure, connect.NewUnaryHandler(GetDashboardStatisticsProcedure, h.GetDashboardStatistics, opts...))
	mux.Handle(ListCashFlowAlertsProcedure, connect.NewUnaryHandler(ListCashFlowAlertsProcedure, h.ListCashFlowAlerts, opts...))
	return "/" + AnalyticsServiceName + "/", mux
}

// AnalyticsServiceClient calls the analytics procedures over Connect.
type AnalyticsServiceClient struct {
	forecastRevenue        *connect.Client[ForecastRequest, SeriesForecast]
	forecastExpenses       *connect.Client[ForecastRequest, SeriesForecast]
	forecastCashFlow       *connect.Client[CashFlowRequest, CashFlowForecast]
	getDashboardStatistics *connect.Client[DashboardStatisticsRequest, analytics.PeriodComparison]
	listCashFlowAlerts     *connect.Client[ListCashFlowAlertsRequest, ListCashFlowAlertsResponse]
}

// NewAnalyticsServiceClient creates a client for a server rooted at baseURL.
func NewAnalyticsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AnalyticsServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &AnalyticsServiceClient{
		forecastRevenue:        connect.NewClient[ForecastRequest, SeriesForecast](httpClient, baseURL+ForecastRevenueProcedure, opts...),
		forecastExpenses:       connect.NewClient[ForecastRequest, SeriesForecast](httpClient, baseURL+ForecastExpensesProcedure, opts...),
		forecastCashFlow:       connect.NewClient[CashFlowRequest, CashFlowForecast](httpClient, baseURL+ForecastCashFlowProcedure, opts...),
		getDashboardStatistics: connect.NewClient[DashboardStatisticsRequest, analytics.PeriodComparison](httpClient, baseURL+GetDashboardStatisticsProcedure, opts...),
		listCashFlowAlerts:     connect.NewClient[ListCashFlowAlertsRequest, ListCashFlowAlertsResponse](httpClient, baseURL+ListCashFlowAlertsProcedure, opts...),
	}
}

func (c *AnalyticsServiceClient) ForecastRevenue(ctx context.Context, req *connect.Request[ForecastRequest]) (*connect.Response[SeriesForecast], error) {
	return c.forecastRevenue.CallUnary(ctx, req)
}

func (c *AnalyticsServiceClient) ForecastExpenses(ctx context.Context, req *connect.Request[ForecastRequest]) (*connect.Response[SeriesForecast], error) {
	return c.forecastExpenses.CallUnary(ctx, req)
}

func (c *AnalyticsServiceClient) ForecastCashFlow(ctx context.Context, req *connect.Request[CashFlowRequest]) (*connect.Response[CashFlowForecast], error) {
	return c.forecastCashFlow.CallUnary(ctx, req)
}

func (c *AnalyticsServiceClient) GetDashboardStatistics(ctx context.Context, req *connect.Request[DashboardStatisticsRequest]) (*connect.Response[analytics.PeriodComparison], error) {
	return c.getDashboardStatistics.CallUnary(ctx, req)
}

func (c *AnalyticsServiceClient) ListCashFlowAlerts(ctx context.Context, req *connect.Request[ListCashFlowAlertsRequest]) (*connect.Response[ListCashFlowAlertsResponse], error) {
	return c.listCashFlowAlerts.CallUnary(ctx, req)
}
