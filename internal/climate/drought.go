package climate

import (
	"fmt"

	"github.com/i474232898/environmental-data-aggregation/internal/common"
)

// DroughtRisk is the precipitation-derived hazard tier.
type DroughtRisk string

const (
	DroughtRiskModerate DroughtRisk = "Moderate"
	DroughtRiskHigh     DroughtRisk = "High"
	DroughtRiskVeryHigh DroughtRisk = "Very High"
)

// Level orders risks so that Moderate < High < Very High.
func (r DroughtRisk) Level() (int, error) {
	switch r {
	case DroughtRiskModerate:
		return 1, nil
	case DroughtRiskHigh:
		return 2, nil
	case DroughtRiskVeryHigh:
		return 3, nil
	default:
		return 0, fmt.Errorf("unknown drought risk %q", string(r))
	}
}

// AridityClass is the climate classification matching a risk tier.
type AridityClass string

const (
	AridityArid     AridityClass = "Arid/Semi-arid"
	AriditySemiArid AridityClass = "Semi-arid"
	AriditySubHumid AridityClass = "Sub-humid"
)

const (
	dryMonthThresholdMM = 20.0
	averageDaysPerMonth = 30.44

	semiAridThresholdMM = 300.0
	subHumidThresholdMM = 600.0
)

// DroughtAssessment classifies aridity from monthly precipitation climatology.
type DroughtAssessment struct {
	DrySeasonMonths       []int        `json:"dry_season_months"`
	WetSeasonMonths       []int        `json:"wet_season_months"`
	AnnualPrecipitationMM float64      `json:"annual_precipitation_mm"`
	Risk                  DroughtRisk  `json:"drought_risk"`
	Classification        AridityClass `json:"classification"`
}

// AssessDrought averages precipitation per calendar month over all years and
// scales the sum of the monthly means to an annual estimate. It returns
// ErrMissingMetric when the table carries no precipitation.
func AssessDrought(t *Table) (*DroughtAssessment, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetric, MetricPrecipitation)
	}
	months, err := t.GroupByMonth(MetricPrecipitation)
	if err != nil {
		return nil, err
	}

	a := &DroughtAssessment{
		DrySeasonMonths: []int{},
		WetSeasonMonths: []int{},
	}
	var sum float64
	for _, m := range months {
		mean := m.Mean()
		sum += mean
		if mean < dryMonthThresholdMM {
			a.DrySeasonMonths = append(a.DrySeasonMonths, m.Key)
		} else {
			a.WetSeasonMonths = append(a.WetSeasonMonths, m.Key)
		}
	}

	a.AnnualPrecipitationMM = common.Round(sum*averageDaysPerMonth, 2)
	a.Risk, a.Classification = ClassifyAnnualPrecipitation(a.AnnualPrecipitationMM)
	return a, nil
}

// ClassifyAnnualPrecipitation maps an annual precipitation estimate in mm to a
// drought risk and aridity class. Lower bounds are inclusive.
func ClassifyAnnualPrecipitation(mm float64) (DroughtRisk, AridityClass) {
	switch {
	case mm < semiAridThresholdMM:
		return DroughtRiskVeryHigh, AridityArid
	case mm < subHumidThresholdMM:
		return DroughtRiskHigh, AriditySemiArid
	default:
		return DroughtRiskModerate, AriditySubHumid
	}
}
