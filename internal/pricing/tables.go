package pricing

import "strings"

// Staffing heuristic coefficients.
const (
	BusinessDaysPerMonth   = 22.0
	HoursPerBusinessDay    = 8.0
	SafetyFactor           = 1.2
	Tier1MonthlyCapacity   = 100.0
	Tier2MonthlyCapacity   = 75.0
	SixHourCapacityFactor  = 0.75
	Tier3Ratio             = 4.0
	NightShiftMultiplier   = 1.3
	AIFeatureMultiplier    = 1.5
	DefaultToolCostFactor  = 1.0
	DeviceScaleWeight      = 0.1
	MetricScaleWeight      = 0.05
	NightShare             = 1.0 / 3.0
	DefaultBenefitsRate    = 0.8
	InvestmentMonthsOfCost = 2.0
)

// Competitiveness classification bounds on price / market average.
const (
	LowPriceRatio  = 0.85
	HighPriceRatio = 1.15
)

// ScaleStep discounts the market unit price once unit count reaches MinUnits.
type ScaleStep struct {
	MinUnits float64 `json:"minUnits"`
	Factor   float64 `json:"factor"`
}

// StaffingConstants are the tunable coefficients of the dimensioning heuristic.
type StaffingConstants struct {
	BusinessDaysPerMonth  float64 `json:"businessDaysPerMonth"`
	HoursPerBusinessDay   float64 `json:"hoursPerBusinessDay"`
	SafetyFactor          float64 `json:"safetyFactor"`
	Tier1MonthlyCapacity  float64 `json:"tier1MonthlyCapacity"`
	Tier2MonthlyCapacity  float64 `json:"tier2MonthlyCapacity"`
	SixHourCapacityFactor float64 `json:"sixHourCapacityFactor"`
	Tier3Ratio            float64 `json:"tier3Ratio"`
}

// Tables holds every lookup table the engine reads. The engine never mutates
// a Tables value; callers may build synthetic ones for tests.
type Tables struct {
	Staffing                 StaffingConstants        `json:"staffing"`
	TeamCoverageMultiplier   map[Coverage]float64     `json:"teamCoverageMultiplier"`
	ServiceLevelMultiplier   map[ServiceLevel]float64 `json:"serviceLevelMultiplier"`
	ToolCostFactors          map[string]float64       `json:"toolCostFactors"`
	MarketBaseValue          map[ServiceLevel]float64 `json:"marketBaseValue"`
	MarketCoverageMultiplier map[Coverage]float64     `json:"marketCoverageMultiplier"`
	ScaleDiscounts           []ScaleStep              `json:"scaleDiscounts"`
	TierSalary               map[int]float64          `json:"tierSalary"`
	BenefitsRate             float64                  `json:"benefitsRate"`
}

// DefaultTables returns a fresh copy of the reference tables.
func DefaultTables() Tables {
	return Tables{
		Staffing: StaffingConstants{
			BusinessDaysPerMonth:  BusinessDaysPerMonth,
			HoursPerBusinessDay:   HoursPerBusinessDay,
			SafetyFactor:          SafetyFactor,
			Tier1MonthlyCapacity:  Tier1MonthlyCapacity,
			Tier2MonthlyCapacity:  Tier2MonthlyCapacity,
			SixHourCapacityFactor: SixHourCapacityFactor,
			Tier3Ratio:            Tier3Ratio,
		},
		TeamCoverageMultiplier: map[Coverage]float64{
			Coverage8x5:  1.0,
			Coverage12x5: 1.5,
			Coverage12x6: 1.8,
			Coverage24x5: 3.0,
			Coverage24x7: 4.0,
		},
		ServiceLevelMultiplier: map[ServiceLevel]float64{
			ServiceLevelBasic:    0.7,
			ServiceLevelStandard: 1.0,
			ServiceLevelAdvanced: 1.5,
			ServiceLevelPremium:  2.0,
		},
		ToolCostFactors: map[string]float64{
			"zabbix":       0.5,
			"nagios":       0.5,
			"prometheus":   0.5,
			"grafana":      0.5,
			"glpi":         0.5,
			"prtg":         1.0,
			"manageengine": 1.2,
			"solarwinds":   1.3,
			"newrelic":     1.8,
			"dynatrace":    2.0,
			"datadog":      2.0,
			"splunk":       2.2,
			"servicenow":   2.5,
		},
		MarketBaseValue: map[ServiceLevel]float64{
			ServiceLevelBasic:    15,
			ServiceLevelStandard: 25,
			ServiceLevelAdvanced: 40,
			ServiceLevelPremium:  60,
		},
		MarketCoverageMultiplier: map[Coverage]float64{
			Coverage8x5:  1.0,
			Coverage12x5: 1.3,
			Coverage12x6: 1.5,
			Coverage24x5: 1.8,
			Coverage24x7: 2.2,
		},
		ScaleDiscounts: []ScaleStep{
			{MinUnits: 100, Factor: 0.9},
			{MinUnits: 500, Factor: 0.8},
			{MinUnits: 1000, Factor: 0.7},
		},
		TierSalary: map[int]float64{
			1: 3500,
			2: 5500,
			3: 8500,
		},
		BenefitsRate: DefaultBenefitsRate,
	}
}

func (t Tables) teamCoverage(c Coverage) float64 {
	if m, ok := t.TeamCoverageMultiplier[c]; ok {
		return m
	}
	return 1
}

func (t Tables) serviceLevel(l ServiceLevel) float64 {
	if m, ok := t.ServiceLevelMultiplier[l]; ok {
		return m
	}
	return 1
}

// toolMix averages the cost factors of the selected tools. Unknown tools count
// as DefaultToolCostFactor; an empty selection is neutral.
func (t Tables) toolMix(tools []string) float64 {
	if len(tools) == 0 {
		return DefaultToolCostFactor
	}
	var sum float64
	for _, tool := range tools {
		f, ok := t.ToolCostFactors[strings.ToLower(strings.TrimSpace(tool))]
		if !ok {
			f = DefaultToolCostFactor
		}
		sum += f
	}
	return sum / float64(len(tools))
}

// scaleDiscount returns the factor of the highest step reached by units.
func (t Tables) scaleDiscount(units float64) float64 {
	factor := 1.0
	best := -1.0
	for _, step := range t.ScaleDiscounts {
		if units >= step.MinUnits && step.MinUnits > best {
			best = step.MinUnits
			factor = step.Factor
		}
	}
	return factor
}

// staffingConstants fills zero coefficients with the reference values so a
// partially populated table never divides by zero.
func (t Tables) staffingConstants() StaffingConstants {
	k := t.Staffing
	if k.BusinessDaysPerMonth <= 0 {
		k.BusinessDaysPerMonth = BusinessDaysPerMonth
	}
	if k.HoursPerBusinessDay <= 0 {
		k.HoursPerBusinessDay = HoursPerBusinessDay
	}
	if k.SafetyFactor <= 0 {
		k.SafetyFactor = SafetyFactor
	}
	if k.Tier1MonthlyCapacity <= 0 {
		k.Tier1MonthlyCapacity = Tier1MonthlyCapacity
	}
	if k.Tier2MonthlyCapacity <= 0 {
		k.Tier2MonthlyCapacity = Tier2MonthlyCapacity
	}
	if k.SixHourCapacityFactor <= 0 {
		k.SixHourCapacityFactor = SixHourCapacityFactor
	}
	if k.Tier3Ratio <= 0 {
		k.Tier3Ratio = Tier3Ratio
	}
	return k
}
