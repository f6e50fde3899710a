package climate

import "github.com/i474232898/environmental-data-aggregation/internal/common"

// ClimateTrend holds year-over-year statistics. A nil field means the metric or
// at least two distinct years of data were unavailable.
type ClimateTrend struct {
	TemperatureTrendC       *float64 `json:"temperature_trend_celsius,omitempty"`
	TemperatureRatePerYear  *float64 `json:"temperature_change_rate_per_year,omitempty"`
	RainfallTrendMM         *float64 `json:"rainfall_trend_mm,omitempty"`
	AverageAnnualRainfallMM *float64 `json:"average_annual_rainfall_mm,omitempty"`
	AvgSurfacePressureHPa   *float64 `json:"avg_surface_pressure_hpa,omitempty"`
}

// IsEmpty reports whether no trend field could be computed.
func (c ClimateTrend) IsEmpty() bool {
	return c.TemperatureTrendC == nil &&
		c.TemperatureRatePerYear == nil &&
		c.RainfallTrendMM == nil &&
		c.AverageAnnualRainfallMM == nil &&
		c.AvgSurfacePressureHPa == nil
}

// AnalyzeTrend compares the earliest and the latest calendar year present in the
// table. Temperature is averaged per year, precipitation summed per year. Surface
// pressure is a flat mean over the whole table.
func AnalyzeTrend(t *Table) ClimateTrend {
	var trend ClimateTrend
	if t == nil {
		return trend
	}

	if years, err := t.GroupByYear(MetricTempMean); err == nil && len(years) > 1 {
		change := years[len(years)-1].Mean() - years[0].Mean()
		trend.TemperatureTrendC = common.RoundPtr(change, 2)
		trend.TemperatureRatePerYear = common.RoundPtr(change/float64(len(years)-1), 3)
	}

	if years, err := t.GroupByYear(MetricPrecipitation); err == nil && len(years) > 1 {
		var total float64
		for _, y := range years {
			total += y.Sum()
		}
		change := years[len(years)-1].Sum() - years[0].Sum()
		trend.RainfallTrendMM = common.RoundPtr(change, 2)
		trend.AverageAnnualRainfallMM = common.RoundPtr(total/float64(len(years)), 2)
	}

	if mean, err := t.Mean(MetricSurfacePressure); err == nil {
		trend.AvgSurfacePressureHPa = common.RoundPtr(mean, 1)
	}

	return trend
}
