package analytics

import (
	"fmt"
	"math"
	"strings"
)

// CashFlowStatus is the sign of a month's predicted net cash flow.
type CashFlowStatus string

const (
	CashFlowPositive CashFlowStatus = "positive"
	CashFlowNegative CashFlowStatus = "negative"
)

// InsightKind identifies a rule in the cash-flow insight list.
type InsightKind string

const (
	InsightNegativeMonths InsightKind = "negative_months"
	InsightImproving      InsightKind = "improving"
	InsightDeclining      InsightKind = "declining"
	InsightHighVolatility InsightKind = "high_volatility"
	InsightStable         InsightKind = "stable"
)

// CashFlowPoint is the predicted revenue, expenses and net for one month.
type CashFlowPoint struct {
	Month             string         `json:"month"`
	PredictedRevenue  float64        `json:"predicted_revenue"`
	PredictedExpenses float64        `json:"predicted_expenses"`
	NetCashFlow       float64        `json:"net_cash_flow"`
	Status            CashFlowStatus `json:"status"`
}

// CashFlowTotals sums a cash-flow projection.
type CashFlowTotals struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalExpenses     float64 `json:"total_expenses"`
	NetCashFlow       float64 `json:"net_cash_flow"`
	AverageMonthlyNet float64 `json:"average_monthly_net"`
}

// Insight is a qualitative observation derived from a projection.
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Message string      `json:"message"`
}

// CashFlow is the merged revenue/expense projection.
type CashFlow struct {
	Points   []CashFlowPoint `json:"points"`
	Totals   CashFlowTotals  `json:"totals"`
	Insights []Insight       `json:"insights"`
}

// NegativeMonths returns the points predicted to close with negative cash flow.
func (c *CashFlow) NegativeMonths() []CashFlowPoint {
	var out []CashFlowPoint
	for _, p := range c.Points {
		if p.Status == CashFlowNegative {
			out = append(out, p)
		}
	}
	return out
}

// Outcome is one side of a cash-flow combination: a forecast or the error that replaced it.
type Outcome struct {
	Name     string
	Forecast *Forecast
	Err      error
}

// CombineForecasts merges revenue and expense outcomes. If either side lacks history the
// result is COMBINED_INSUFFICIENT_DATA naming every failed side; other errors pass through.
func CombineForecasts(revenue, expenses Outcome) (*CashFlow, error) {
	var insufficient []string
	for _, o := range []Outcome{revenue, expenses} {
		if o.Err == nil {
			continue
		}
		if !IsCode(o.Err, CodeInsufficientHistory) {
			return nil, o.Err
		}
		insufficient = append(insufficient, o.Name)
	}
	if len(insufficient) > 0 {
		return nil, &Error{
			Code:    CodeCombinedInsufficientData,
			Message: fmt.Sprintf("insufficient data to forecast %s", strings.Join(insufficient, " and ")),
			Series:  insufficient,
		}
	}
	return CombineCashFlow(revenue.Forecast.Points, expenses.Forecast.Points)
}

// CombineCashFlow zips two forecasts covering the same months in the same order.
func CombineCashFlow(revenue, expenses []ForecastPoint) (*CashFlow, error) {
	if len(revenue) != len(expenses) {
		return nil, &Error{
			Code:    CodeMisalignedForecasts,
			Message: fmt.Sprintf("revenue has %d months but expenses has %d", len(revenue), len(expenses)),
		}
	}

	points := make([]CashFlowPoint, len(revenue))
	nets := make([]float64, len(revenue))
	var totals CashFlowTotals
	for i := range revenue {
		if revenue[i].Month != expenses[i].Month {
			return nil, &Error{
				Code:    CodeMisalignedForecasts,
				Message: fmt.Sprintf("month %d is %s for revenue but %s for expenses", i+1, revenue[i].Month, expenses[i].Month),
			}
		}
		net := revenue[i].PredictedAmount - expenses[i].PredictedAmount
		status := CashFlowNegative
		if net > 0 {
			status = CashFlowPositive
		}
		points[i] = CashFlowPoint{
			Month:             revenue[i].Month,
			PredictedRevenue:  revenue[i].PredictedAmount,
			PredictedExpenses: expenses[i].PredictedAmount,
			NetCashFlow:       net,
			Status:            status,
		}
		nets[i] = net
		totals.TotalRevenue += revenue[i].PredictedAmount
		totals.TotalExpenses += expenses[i].PredictedAmount
	}
	totals.NetCashFlow = totals.TotalRevenue - totals.TotalExpenses
	totals.AverageMonthlyNet = mean(nets)

	return &CashFlow{
		Points:   points,
		Totals:   totals,
		Insights: deriveInsights(points, nets),
	}, nil
}

// deriveInsights applies the rules in order and falls back to a single stable insight.
func deriveInsights(points []CashFlowPoint, nets []float64) []Insight {
	var insights []Insight

	var negative int
	for _, p := range points {
		if p.Status == CashFlowNegative {
			negative++
		}
	}
	if negative > 0 {
		insights = append(insights, Insight{
			Kind:    InsightNegativeMonths,
			Message: fmt.Sprintf("%d month(s) predicted with negative cash flow", negative),
		})
	}

	mid := len(nets) / 2
	if mid > 0 {
		firstHalf := mean(nets[:mid])
		secondHalf := mean(nets[mid:])
		switch {
		case secondHalf > firstHalf*1.1:
			insights = append(insights, Insight{
				Kind:    InsightImproving,
				Message: "Cash flow is improving over the forecast period",
			})
		case secondHalf < firstHalf*0.9:
			insights = append(insights, Insight{
				Kind:    InsightDeclining,
				Message: "Cash flow is declining over the forecast period",
			})
		}
	}

	if m := mean(nets); m != 0 && math.Abs(populationStdDev(nets)/m) > 0.5 {
		insights = append(insights, Insight{
			Kind:    InsightHighVolatility,
			Message: "High volatility expected in monthly cash flow",
		})
	}

	if len(insights) == 0 {
		insights = append(insights, Insight{
			Kind:    InsightStable,
			Message: "Cash flow is expected to remain stable",
		})
	}
	return insights
}
