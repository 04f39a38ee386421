package pricing

import "math"

// CostBreakdown splits cost into its four components.
type CostBreakdown struct {
	Team           float64 `json:"team"`
	Infrastructure float64 `json:"infrastructure"`
	License        float64 `json:"license"`
	Operational    float64 `json:"operational"`
	Total          float64 `json:"total"`
}

// Annual scales every component to twelve months.
func (b CostBreakdown) Annual() CostBreakdown {
	return CostBreakdown{
		Team:           b.Team * 12,
		Infrastructure: b.Infrastructure * 12,
		License:        b.License * 12,
		Operational:    b.Operational * 12,
		Total:          b.Total * 12,
	}
}

// CostRequest carries the cost-relevant part of a project.
type CostRequest struct {
	Team         []TeamMember
	Costs        OperationalCosts
	DeviceCount  float64
	MetricCount  float64
	Tools        []string
	AIEnabled    bool
	ServiceLevel ServiceLevel
}

// Aggregate sums monthly team, infrastructure, license and operational cost.
func Aggregate(req CostRequest, tables Tables) CostBreakdown {
	b := CostBreakdown{
		Team:           TeamCost(req.Team),
		Infrastructure: InfrastructureCost(req.Costs, req.DeviceCount, req.MetricCount, req.ServiceLevel, tables),
		License:        LicenseCost(req.Costs, req.Tools, req.AIEnabled, tables),
		Operational:    OperationalCost(req.Costs),
	}
	b.Total = b.Team + b.Infrastructure + b.License + b.Operational
	return b
}

// TeamCost sums salary and benefits, with the night-shift premium applied.
func TeamCost(team []TeamMember) float64 {
	var total float64
	for _, m := range team {
		cost := m.Salary + m.Benefits
		if m.Shift == ShiftNight {
			cost *= NightShiftMultiplier
		}
		total += cost
	}
	return total
}

// InfrastructureCost scales server, storage and network cost logarithmically
// with inventory size and linearly with the service level.
func InfrastructureCost(c OperationalCosts, devices, metrics float64, level ServiceLevel, tables Tables) float64 {
	base := c.Server + c.Storage + c.Network
	return base * (1 + scaleAdjustment(devices, metrics)) * tables.serviceLevel(level)
}

func scaleAdjustment(devices, metrics float64) float64 {
	return DeviceScaleWeight*math.Log10(1+math.Max(devices, 0)) +
		MetricScaleWeight*math.Log10(1+math.Max(metrics, 0))
}

// LicenseCost applies the tool-mix factor and the AI uplift to licensing.
func LicenseCost(c OperationalCosts, tools []string, aiEnabled bool, tables Tables) float64 {
	cost := (c.MonitoringLicense + c.Integration) * tables.toolMix(tools)
	if aiEnabled {
		cost *= AIFeatureMultiplier
	}
	return cost
}

// OperationalCost spreads the annual training budgets over twelve months.
func OperationalCost(c OperationalCosts) float64 {
	return c.Facility + c.Utilities + (c.TrainingAnnual+c.CertificationAnnual)/12 + c.Contingency
}

// DeriveTeam builds a roster from the recommended headcount when the project
// has none. Overnight coverage puts NightShare of each tier on night shift.
func DeriveTeam(s Staffing, coverage Coverage, tables Tables) []TeamMember {
	tiers := []int{1, 2, 3}
	team := make([]TeamMember, 0, s.RecommendedTotal())
	for _, tier := range tiers {
		n := s.Recommended[tier]
		if n == 0 {
			continue
		}
		night := 0
		if coverage.RunsOvernight() {
			night = int(math.Round(float64(n) * NightShare))
		}
		salary := tables.TierSalary[tier]
		for i := 0; i < n; i++ {
			shift := ShiftDay
			if i < night {
				shift = ShiftNight
			}
			team = append(team, TeamMember{
				Role:     tierRole(tier),
				Tier:     tier,
				Salary:   salary,
				Benefits: salary * tables.BenefitsRate,
				Shift:    shift,
			})
		}
	}
	return team
}

func tierRole(tier int) string {
	switch tier {
	case 1:
		return "N1 analyst"
	case 2:
		return "N2 analyst"
	default:
		return "N3 specialist"
	}
}
