package pricing

// ServiceLevel is the packaged depth of service sold to the client.
type ServiceLevel string

const (
	ServiceLevelBasic    ServiceLevel = "basic"
	ServiceLevelStandard ServiceLevel = "standard"
	ServiceLevelAdvanced ServiceLevel = "advanced"
	ServiceLevelPremium  ServiceLevel = "premium"
)

// ServiceLevels lists every known service level, cheapest first.
var ServiceLevels = []ServiceLevel{
	ServiceLevelBasic,
	ServiceLevelStandard,
	ServiceLevelAdvanced,
	ServiceLevelPremium,
}

// Valid reports whether l is a known service level.
func (l ServiceLevel) Valid() bool {
	for _, known := range ServiceLevels {
		if l == known {
			return true
		}
	}
	return false
}

// Coverage is the support window, written as hours-per-day x days-per-week.
type Coverage string

const (
	Coverage8x5  Coverage = "8x5"
	Coverage12x5 Coverage = "12x5"
	Coverage12x6 Coverage = "12x6"
	Coverage24x5 Coverage = "24x5"
	Coverage24x7 Coverage = "24x7"
)

// Coverages lists every known coverage window, narrowest first.
var Coverages = []Coverage{Coverage8x5, Coverage12x5, Coverage12x6, Coverage24x5, Coverage24x7}

// Valid reports whether c is a known coverage window.
func (c Coverage) Valid() bool {
	for _, known := range Coverages {
		if c == known {
			return true
		}
	}
	return false
}

// RunsOvernight reports whether the window needs a night shift.
func (c Coverage) RunsOvernight() bool {
	return c == Coverage24x5 || c == Coverage24x7
}

// Shift identifies when a team member works.
type Shift string

const (
	ShiftDay   Shift = "day"
	ShiftNight Shift = "night"
)

// LoadUnit is one line of the monitored inventory: a device class for NOC
// proposals or a user population for service desk proposals.
type LoadUnit struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	MetricsPerUnit float64 `json:"metricsPerUnit"`
	EventsPerUnit  float64 `json:"eventsPerUnit"`
	// Weight is the criticality factor applied to events. Zero counts as 1.
	Weight float64 `json:"weight"`
}

func (u LoadUnit) weight() float64 {
	if u.Weight == 0 {
		return 1
	}
	return u.Weight
}

// TeamMember is one person on the proposed team roster.
type TeamMember struct {
	Role     string  `json:"role"`
	Tier     int     `json:"tier"`
	Salary   float64 `json:"salary"`
	Benefits float64 `json:"benefits"`
	Shift    Shift   `json:"shift"`
}

// OperationalCosts holds monthly cost line items, except the two annual
// training budgets which are spread over twelve months.
type OperationalCosts struct {
	Server              float64 `json:"server"`
	Storage             float64 `json:"storage"`
	Network             float64 `json:"network"`
	MonitoringLicense   float64 `json:"monitoringLicense"`
	Integration         float64 `json:"integration"`
	Facility            float64 `json:"facility"`
	Utilities           float64 `json:"utilities"`
	TrainingAnnual      float64 `json:"trainingAnnual"`
	CertificationAnnual float64 `json:"certificationAnnual"`
	Contingency         float64 `json:"contingency"`
}

// TaxRates holds tax percentages levied on gross revenue.
type TaxRates struct {
	Federal       float64 `json:"federal"`
	State         float64 `json:"state"`
	Municipal     float64 `json:"municipal"`
	SocialCharges float64 `json:"socialCharges"`
}

// Total returns the summed rate as a fraction (20% -> 0.2).
func (t TaxRates) Total() float64 {
	return (t.Federal + t.State + t.Municipal + t.SocialCharges) / 100
}

// Variables are the commercial margins applied on top of cost.
type Variables struct {
	ProfitMarginPct float64 `json:"profitMarginPct"`
	RiskMarginPct   float64 `json:"riskMarginPct"`
}

// StaffingParams are the service-desk handling parameters used for dimensioning.
type StaffingParams struct {
	TMAMinutes        float64 `json:"tmaMinutes"`
	OccupancyPct      float64 `json:"occupancyPct"`
	Tier1SplitPct     float64 `json:"tier1SplitPct"`
	Tier1SixHourShift bool    `json:"tier1SixHourShift"`
	Tier2SixHourShift bool    `json:"tier2SixHourShift"`
}

// ProjectInput is the complete description of one pricing run.
type ProjectInput struct {
	Name             string           `json:"name"`
	Client           string           `json:"client"`
	ServiceLevel     ServiceLevel     `json:"serviceLevel"`
	Coverage         Coverage         `json:"coverage"`
	LoadUnits        []LoadUnit       `json:"loadUnits"`
	TeamRoster       []TeamMember     `json:"teamRoster"`
	OperationalCosts OperationalCosts `json:"operationalCosts"`
	TaxRates         TaxRates         `json:"taxRates"`
	Variables        Variables        `json:"variables"`
	Staffing         StaffingParams   `json:"staffing"`
	Tools            []string         `json:"tools"`
	AIEnabled        bool             `json:"aiEnabled"`
}

const (
	DefaultTMAMinutes    = 8.0
	DefaultOccupancyPct  = 85.0
	DefaultTier1SplitPct = 80.0
)

// NewProjectInput returns an empty project with the default service parameters.
func NewProjectInput() ProjectInput {
	return ProjectInput{
		ServiceLevel: ServiceLevelStandard,
		Coverage:     Coverage8x5,
		LoadUnits:    []LoadUnit{},
		TeamRoster:   []TeamMember{},
		Tools:        []string{},
		Staffing: StaffingParams{
			TMAMinutes:    DefaultTMAMinutes,
			OccupancyPct:  DefaultOccupancyPct,
			Tier1SplitPct: DefaultTier1SplitPct,
		},
	}
}

// LoadSummary aggregates the load inventory.
type LoadSummary struct {
	TotalDevices  float64 `json:"totalDevices"`
	TotalMetrics  float64 `json:"totalMetrics"`
	MonthlyEvents float64 `json:"monthlyEvents"`
}

// SummarizeLoad totals devices, metrics and weighted monthly events.
func SummarizeLoad(units []LoadUnit) LoadSummary {
	var s LoadSummary
	for _, u := range units {
		s.TotalDevices += u.Quantity
		s.TotalMetrics += u.Quantity * u.MetricsPerUnit
		s.MonthlyEvents += u.Quantity * u.EventsPerUnit * u.weight()
	}
	return s
}
