// Package pricing computes staffing, cost, sell price and market position for
// managed IT service proposals. Every function is pure: the same input and
// tables always produce the same result.
package pricing

// UnitCosts are costs spread over the inventory. A zero denominator yields 0.
type UnitCosts struct {
	CostPerDevice  float64 `json:"costPerDevice"`
	CostPerMetric  float64 `json:"costPerMetric"`
	CostPerEvent   float64 `json:"costPerEvent"`
	PricePerDevice float64 `json:"pricePerDevice"`
}

// CalculationResult groups the full output of a pricing run.
type CalculationResult struct {
	Load         LoadSummary      `json:"load"`
	Staffing     Staffing         `json:"staffing"`
	DerivedTeam  bool             `json:"derivedTeam"`
	Team         []TeamMember     `json:"team"`
	MonthlyCosts CostBreakdown    `json:"monthlyCosts"`
	AnnualCosts  CostBreakdown    `json:"annualCosts"`
	UnitCosts    UnitCosts        `json:"unitCosts"`
	Price        Price            `json:"price"`
	Financials   Financials       `json:"financials"`
	Market       MarketComparison `json:"market"`
}

// CalculateAll runs the whole pipeline without checking preconditions.
// Out-of-range input surfaces as NaN, Inf or negative figures in the result.
func CalculateAll(in ProjectInput, tables Tables) CalculationResult {
	load := SummarizeLoad(in.LoadUnits)

	staffing := Dimension(staffingRequest(in, load), tables)

	team := in.TeamRoster
	derived := false
	if len(team) == 0 {
		team = DeriveTeam(staffing, in.Coverage, tables)
		derived = true
	}

	costs := Aggregate(CostRequest{
		Team:         team,
		Costs:        in.OperationalCosts,
		DeviceCount:  load.TotalDevices,
		MetricCount:  load.TotalMetrics,
		Tools:        in.Tools,
		AIEnabled:    in.AIEnabled,
		ServiceLevel: in.ServiceLevel,
	}, tables)

	price := CalculatePrice(costs.Total, in.Variables, in.TaxRates)

	units := UnitCosts{
		CostPerDevice:  perUnit(costs.Total, load.TotalDevices),
		CostPerMetric:  perUnit(costs.Total, load.TotalMetrics),
		CostPerEvent:   perUnit(costs.Total, load.MonthlyEvents),
		PricePerDevice: perUnit(price.FinalMonthlyPrice, load.TotalDevices),
	}

	return CalculationResult{
		Load:         load,
		Staffing:     staffing,
		DerivedTeam:  derived,
		Team:         append([]TeamMember(nil), team...),
		MonthlyCosts: costs,
		AnnualCosts:  costs.Annual(),
		UnitCosts:    units,
		Price:        price,
		Financials:   CalculateFinancials(price.FinalMonthlyPrice, costs.Total),
		Market:       Evaluate(units.PricePerDevice, in.ServiceLevel, in.Coverage, load.TotalDevices, tables),
	}
}

func staffingRequest(in ProjectInput, load LoadSummary) StaffingRequest {
	return StaffingRequest{
		LoadTotal:         load.MonthlyEvents,
		Coverage:          in.Coverage,
		ServiceLevel:      in.ServiceLevel,
		Tier1SplitPct:     in.Staffing.Tier1SplitPct,
		TMAMinutes:        in.Staffing.TMAMinutes,
		OccupancyPct:      in.Staffing.OccupancyPct,
		Tier1SixHourShift: in.Staffing.Tier1SixHourShift,
		Tier2SixHourShift: in.Staffing.Tier2SixHourShift,
	}
}

// Calculate checks the input before running the pipeline and rejects any
// result that is not finite. Load and staffing are checked before the team is
// derived, so an overflowing load never reaches DeriveTeam.
func Calculate(in ProjectInput, tables Tables) (CalculationResult, error) {
	if err := CheckInput(in); err != nil {
		return CalculationResult{}, err
	}
	load := SummarizeLoad(in.LoadUnits)
	if err := checkStaffing(load, Dimension(staffingRequest(in, load), tables), len(in.TeamRoster) == 0); err != nil {
		return CalculationResult{}, err
	}
	res := CalculateAll(in, tables)
	if err := checkFinite(res); err != nil {
		return CalculationResult{}, err
	}
	return res, nil
}

func perUnit(total, units float64) float64 {
	if units > 0 {
		return total / units
	}
	return 0
}
