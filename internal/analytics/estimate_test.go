package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var january2026 = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func TestForecastSeriesRecentGrowth(t *testing.T) {
	values := []float64{100, 100, 100, 100, 100, 100, 110, 120, 130, 140, 150, 160}

	fc, err := ForecastSeries(values, ForecastOptions{
		Name:        "revenue",
		MonthsAhead: 3,
		FirstMonth:  january2026,
	})
	require.NoError(t, err)

	assert.Equal(t, 12, fc.Summary.MonthsAnalyzed)
	assert.InDelta(t, 50.0, fc.Summary.GrowthRatePercent, 1e-9)
	assert.InDelta(t, 100.0, fc.Summary.Min, 1e-9)
	assert.InDelta(t, 160.0, fc.Summary.Max, 1e-9)

	require.Len(t, fc.Points, 3)
	want := []float64{225, 337.5, 506.25}
	months := []string{"2026-01", "2026-02", "2026-03"}
	for i, pt := range fc.Points {
		assert.InDelta(t, want[i], pt.PredictedAmount, 1e-9, "month %d", i+1)
		assert.Equal(t, months[i], pt.Month)
		assert.Equal(t, TrendIncreasing, pt.TrendDirection)
		assert.Nil(t, pt.ConfidenceInterval, "confidence not requested")
	}
	assert.Equal(t, TrendIncreasing, fc.OverallTrend)
}

func TestForecastSeriesFlatSeries(t *testing.T) {
	values := []float64{4200, 4200, 4200, 4200, 4200, 4200, 4200}

	fc, err := ForecastSeries(values, ForecastOptions{
		Name:              "expenses",
		MonthsAhead:       6,
		IncludeConfidence: true,
		FirstMonth:        january2026,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, fc.Summary.GrowthRatePercent)
	assert.Equal(t, 0.0, fc.Summary.StdDeviation)
	assert.Equal(t, TrendStable, fc.OverallTrend)
	assert.Equal(t, VolatilityLow, fc.Volatility)
	for _, pt := range fc.Points {
		assert.Equal(t, 4200.0, pt.PredictedAmount)
		assert.Equal(t, TrendStable, pt.TrendDirection)
		require.NotNil(t, pt.ConfidenceInterval)
		assert.Equal(t, 4200.0, pt.ConfidenceInterval.Lower)
		assert.Equal(t, 4200.0, pt.ConfidenceInterval.Upper)
	}
	assert.True(t, fc.Accuracy.Available)
	assert.Equal(t, 100.0, fc.Accuracy.Percent)
}

func TestForecastSeriesInsufficientHistory(t *testing.T) {
	for _, values := range [][]float64{nil, {10}, {10, 20}} {
		fc, err := ForecastSeries(values, ForecastOptions{Name: "revenue", MonthsAhead: 3, FirstMonth: january2026})
		assert.Nil(t, fc)
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInsufficientHistory))
		assert.True(t, IsNotEnoughData(err))

		aerr := err.(*Error)
		assert.Equal(t, []string{"revenue"}, aerr.Series)
		assert.Equal(t, len(values), aerr.Months)
	}
}

func TestForecastSeriesShortSeriesUsesOverallAverage(t *testing.T) {
	// n=5: older average falls back to the mean of the whole series.
	values := []float64{5000, 5000, 5000, 5000, 5000}

	fc, err := ForecastSeries(values, ForecastOptions{Name: "expenses", MonthsAhead: 2, FirstMonth: january2026})
	require.NoError(t, err)

	assert.Equal(t, 5, fc.Summary.MonthsAnalyzed)
	assert.Equal(t, 5000.0, fc.Summary.Average)
	assert.False(t, fc.Accuracy.Available)
	assert.Equal(t, "insufficient data", fc.Accuracy.Reason)
	assert.Equal(t, 0.0, fc.Accuracy.Percent)

	values = []float64{100, 200, 300, 400}
	fc, err = ForecastSeries(values, ForecastOptions{Name: "revenue", MonthsAhead: 1, FirstMonth: january2026})
	require.NoError(t, err)
	// recent = mean(200,300,400)=300, older = mean(all)=250
	assert.InDelta(t, 20.0, fc.Summary.GrowthRatePercent, 1e-9)
	assert.InDelta(t, 360.0, fc.Points[0].PredictedAmount, 1e-9)
}

func TestForecastSeriesConfidenceBandNeverNegative(t *testing.T) {
	series := [][]float64{
		{10, 900, 5, 1200, 0, 3},
		{0, 0, 0, 0, 1000, 0, 0},
		{500, 400, 300, 200, 100, 50, 10, 1},
	}
	for _, values := range series {
		fc, err := ForecastSeries(values, ForecastOptions{
			Name:              "revenue",
			MonthsAhead:       12,
			IncludeConfidence: true,
			FirstMonth:        january2026,
		})
		require.NoError(t, err)
		width := fc.Points[0].ConfidenceInterval.Upper - fc.Points[0].PredictedAmount
		for _, pt := range fc.Points {
			require.NotNil(t, pt.ConfidenceInterval)
			assert.GreaterOrEqual(t, pt.ConfidenceInterval.Lower, 0.0)
			assert.InDelta(t, width, pt.ConfidenceInterval.Upper-pt.PredictedAmount, 1e-6, "band width is constant")
		}
	}
}

func TestTrendClassifiersDisagreeInsideDeadBand(t *testing.T) {
	// growth of 3% is "increasing" per point but "stable" overall.
	assert.Equal(t, TrendIncreasing, classifyPointTrend(3))
	assert.Equal(t, TrendStable, classifyOverallTrend(3))

	assert.Equal(t, TrendDecreasing, classifyPointTrend(-0.1))
	assert.Equal(t, TrendStable, classifyOverallTrend(-5))
	assert.Equal(t, TrendDecreasing, classifyOverallTrend(-5.01))
	assert.Equal(t, TrendIncreasing, classifyOverallTrend(5.01))
	assert.Equal(t, TrendStable, classifyPointTrend(0))
}

func TestClassifyVolatility(t *testing.T) {
	assert.Equal(t, VolatilityHigh, classifyVolatility(31, 100))
	assert.Equal(t, VolatilityMedium, classifyVolatility(30, 100))
	assert.Equal(t, VolatilityMedium, classifyVolatility(16, 100))
	assert.Equal(t, VolatilityLow, classifyVolatility(15, 100))
	assert.Equal(t, VolatilityLow, classifyVolatility(50, 0))
}

func TestAccuracy(t *testing.T) {
	// older = mean(100,100,100) = 100, recent = mean(120,120,120) = 120
	acc := accuracy([]float64{1, 100, 100, 100, 120, 120, 120})
	require.True(t, acc.Available)
	assert.InDelta(t, 100-20.0/120*100, acc.Percent, 1e-9)

	acc = accuracy([]float64{100, 100, 100, 0, 0, 0})
	assert.True(t, acc.Available)
	assert.Equal(t, 0.0, acc.Percent)

	acc = accuracy([]float64{1000, 1000, 1000, 10, 10, 10})
	assert.Equal(t, 0.0, acc.Percent, "clamped at zero")
}

func TestGrowthRateNonPositiveOlder(t *testing.T) {
	assert.Equal(t, 0.0, growthRate(100, 0))
	assert.Equal(t, 0.0, growthRate(100, -5))
	assert.InDelta(t, -50.0, growthRate(50, 100), 1e-9)
}
