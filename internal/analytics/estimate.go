package analytics

import (
	"math"
	"time"
)

const (
	// MinHistoryMonths is the fewest buckets a forecast is built from.
	MinHistoryMonths = 3
	// AccuracyWindowMonths is the history needed for the accuracy diagnostic.
	AccuracyWindowMonths = 6

	trendWindow = 3
)

// TrendDirection labels the sign of a growth rate.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// Volatility buckets the coefficient of variation of a series.
type Volatility string

const (
	VolatilityHigh   Volatility = "high"
	VolatilityMedium Volatility = "medium"
	VolatilityLow    Volatility = "low"
)

// ConfidenceInterval is a ±1 standard deviation band. Its width does not grow with the horizon.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ForecastPoint is the projection for one future month.
type ForecastPoint struct {
	Month              string              `json:"month"`
	PredictedAmount    float64             `json:"predicted_amount"`
	TrendDirection     TrendDirection      `json:"trend_direction"`
	ConfidenceInterval *ConfidenceInterval `json:"confidence_interval,omitempty"`
}

// HistoricalSummary describes the series a forecast was built from.
type HistoricalSummary struct {
	MonthsAnalyzed    int     `json:"months_analyzed"`
	Average           float64 `json:"average"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	StdDeviation      float64 `json:"std_deviation"`
	GrowthRatePercent float64 `json:"growth_rate_percent"`
}

// Accuracy compares the last three months against the three before them.
// Available is false when fewer than AccuracyWindowMonths buckets exist.
type Accuracy struct {
	Available bool    `json:"available"`
	Percent   float64 `json:"percent"`
	Reason    string  `json:"reason,omitempty"`
}

// Forecast is the output of ForecastSeries.
type Forecast struct {
	Summary      HistoricalSummary `json:"summary"`
	Points       []ForecastPoint   `json:"points"`
	OverallTrend TrendDirection    `json:"overall_trend"`
	Volatility   Volatility        `json:"volatility"`
	Accuracy     Accuracy          `json:"accuracy"`
}

// ForecastOptions parameterises ForecastSeries.
type ForecastOptions struct {
	// Name identifies the series in errors, e.g. "revenue".
	Name              string
	MonthsAhead       int
	IncludeConfidence bool
	// FirstMonth is any instant in the first forecast month.
	FirstMonth time.Time
}

// ForecastSeries projects opts.MonthsAhead months from a chronological series of monthly totals
// by compounding the recent-vs-older growth rate onto the recent average.
func ForecastSeries(values []float64, opts ForecastOptions) (*Forecast, error) {
	n := len(values)
	if n < MinHistoryMonths {
		return nil, InsufficientHistory(opts.Name, n, MinHistoryMonths)
	}

	average := mean(values)
	stdDev := sampleStdDev(values)
	lo, hi := minMax(values)

	recentAvg := mean(values[n-min(trendWindow, n):])
	olderAvg := average
	if n >= 2*trendWindow {
		olderAvg = mean(values[:trendWindow])
	}
	growth := growthRate(recentAvg, olderAvg)
	pointTrend := classifyPointTrend(growth)

	first := MonthStart(opts.FirstMonth)
	points := make([]ForecastPoint, 0, opts.MonthsAhead)
	for i := 1; i <= opts.MonthsAhead; i++ {
		predicted := recentAvg * math.Pow(1+growth/100, float64(i))
		pt := ForecastPoint{
			Month:           MonthLabel(first.AddDate(0, i-1, 0)),
			PredictedAmount: predicted,
			TrendDirection:  pointTrend,
		}
		if opts.IncludeConfidence {
			pt.ConfidenceInterval = &ConfidenceInterval{
				Lower: math.Max(0, predicted-stdDev),
				Upper: predicted + stdDev,
			}
		}
		points = append(points, pt)
	}

	return &Forecast{
		Summary: HistoricalSummary{
			MonthsAnalyzed:    n,
			Average:           average,
			Min:               lo,
			Max:               hi,
			StdDeviation:      stdDev,
			GrowthRatePercent: growth,
		},
		Points:       points,
		OverallTrend: classifyOverallTrend(growth),
		Volatility:   classifyVolatility(stdDev, average),
		Accuracy:     accuracy(values),
	}, nil
}

func growthRate(recent, older float64) float64 {
	if older <= 0 {
		return 0
	}
	return (recent - older) / older * 100
}

// classifyPointTrend labels each forecast point with a zero threshold.
func classifyPointTrend(growth float64) TrendDirection {
	switch {
	case growth > 0:
		return TrendIncreasing
	case growth < 0:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// classifyOverallTrend labels the whole series with a ±5% dead band. It can disagree
// with classifyPointTrend for small growth rates.
func classifyOverallTrend(growth float64) TrendDirection {
	switch {
	case growth > 5:
		return TrendIncreasing
	case growth < -5:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func classifyVolatility(stdDev, average float64) Volatility {
	if average <= 0 {
		return VolatilityLow
	}
	cv := stdDev / average
	switch {
	case cv > 0.3:
		return VolatilityHigh
	case cv > 0.15:
		return VolatilityMedium
	default:
		return VolatilityLow
	}
}

func accuracy(values []float64) Accuracy {
	n := len(values)
	if n < AccuracyWindowMonths {
		return Accuracy{Reason: "insufficient data"}
	}
	older := mean(values[n-6 : n-3])
	recent := mean(values[n-3:])
	if recent <= 0 {
		return Accuracy{Available: true}
	}
	return Accuracy{
		Available: true,
		Percent:   math.Max(0, 100-math.Abs((recent-older)/recent*100)),
	}
}
