package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by every InputError.
var ErrInvalidInput = errors.New("invalid pricing input")

// Error codes reported by Calculate.
const (
	CodeInvalidPercent  = "INVALID_PERCENT"
	CodeNegativeAmount  = "NEGATIVE_AMOUNT"
	CodeTaxRateTooHigh  = "TAX_RATE_TOO_HIGH"
	CodeUnknownEnum     = "UNKNOWN_ENUM"
	CodeNonFiniteResult = "NON_FINITE_RESULT"
)

// InputError describes why a project cannot be priced.
type InputError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

type namedValue struct {
	field string
	value float64
}

// CheckInput enforces the preconditions the pipeline relies on.
func CheckInput(in ProjectInput) error {
	if !in.ServiceLevel.Valid() {
		return &InputError{Code: CodeUnknownEnum, Field: "serviceLevel", Message: fmt.Sprintf("unknown service level %q", in.ServiceLevel)}
	}
	if !in.Coverage.Valid() {
		return &InputError{Code: CodeUnknownEnum, Field: "coverage", Message: fmt.Sprintf("unknown coverage %q", in.Coverage)}
	}

	percents := []namedValue{
		{"taxRates.federal", in.TaxRates.Federal},
		{"taxRates.state", in.TaxRates.State},
		{"taxRates.municipal", in.TaxRates.Municipal},
		{"taxRates.socialCharges", in.TaxRates.SocialCharges},
		{"variables.profitMarginPct", in.Variables.ProfitMarginPct},
		{"variables.riskMarginPct", in.Variables.RiskMarginPct},
		{"staffing.tier1SplitPct", in.Staffing.Tier1SplitPct},
		{"staffing.occupancyPct", in.Staffing.OccupancyPct},
	}
	for _, p := range percents {
		if math.IsNaN(p.value) || p.value < 0 || p.value > 100 {
			return &InputError{Code: CodeInvalidPercent, Field: p.field, Message: fmt.Sprintf("%v is outside [0,100]", p.value)}
		}
	}
	if in.TaxRates.Total() >= 1 {
		return &InputError{Code: CodeTaxRateTooHigh, Field: "taxRates", Message: "total tax rate must be below 100%"}
	}

	c := in.OperationalCosts
	amounts := []namedValue{
		{"operationalCosts.server", c.Server},
		{"operationalCosts.storage", c.Storage},
		{"operationalCosts.network", c.Network},
		{"operationalCosts.monitoringLicense", c.MonitoringLicense},
		{"operationalCosts.integration", c.Integration},
		{"operationalCosts.facility", c.Facility},
		{"operationalCosts.utilities", c.Utilities},
		{"operationalCosts.trainingAnnual", c.TrainingAnnual},
		{"operationalCosts.certificationAnnual", c.CertificationAnnual},
		{"operationalCosts.contingency", c.Contingency},
		{"staffing.tmaMinutes", in.Staffing.TMAMinutes},
	}
	for i, u := range in.LoadUnits {
		amounts = append(amounts,
			namedValue{fmt.Sprintf("loadUnits[%d].quantity", i), u.Quantity},
			namedValue{fmt.Sprintf("loadUnits[%d].metricsPerUnit", i), u.MetricsPerUnit},
			namedValue{fmt.Sprintf("loadUnits[%d].eventsPerUnit", i), u.EventsPerUnit},
			namedValue{fmt.Sprintf("loadUnits[%d].weight", i), u.Weight},
		)
	}
	for i, m := range in.TeamRoster {
		amounts = append(amounts,
			namedValue{fmt.Sprintf("teamRoster[%d].salary", i), m.Salary},
			namedValue{fmt.Sprintf("teamRoster[%d].benefits", i), m.Benefits},
		)
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) || a.value < 0 {
			return &InputError{Code: CodeNegativeAmount, Field: a.field, Message: fmt.Sprintf("%v must be a non-negative number", a.value)}
		}
	}
	return nil
}

// checkStaffing rejects a load or staffing estimate that overflowed. A team
// derived from a saturated recommendation counts as overflowed too.
func checkStaffing(load LoadSummary, s Staffing, derived bool) error {
	if err := firstNonFinite([]namedValue{
		{"load.totalDevices", load.TotalDevices},
		{"load.totalMetrics", load.TotalMetrics},
		{"load.monthlyEvents", load.MonthlyEvents},
		{"staffing.erlangs", s.Erlangs},
	}); err != nil {
		return err
	}
	if derived {
		for _, n := range s.Recommended {
			if n == math.MaxInt {
				return &InputError{Code: CodeNonFiniteResult, Field: "staffing.recommended", Message: "recommended team size overflowed"}
			}
		}
	}
	return nil
}

// checkFinite covers every float in the result. encoding/json rejects Inf and
// NaN anywhere in it.
func checkFinite(res CalculationResult) error {
	values := []namedValue{
		{"load.totalDevices", res.Load.TotalDevices},
		{"load.totalMetrics", res.Load.TotalMetrics},
		{"load.monthlyEvents", res.Load.MonthlyEvents},
		{"staffing.erlangs", res.Staffing.Erlangs},
		{"staffing.coverageMultiplier", res.Staffing.CoverageMultiplier},
	}
	for _, b := range []struct {
		prefix string
		costs  CostBreakdown
	}{{"monthlyCosts", res.MonthlyCosts}, {"annualCosts", res.AnnualCosts}} {
		values = append(values,
			namedValue{b.prefix + ".team", b.costs.Team},
			namedValue{b.prefix + ".infrastructure", b.costs.Infrastructure},
			namedValue{b.prefix + ".license", b.costs.License},
			namedValue{b.prefix + ".operational", b.costs.Operational},
			namedValue{b.prefix + ".total", b.costs.Total},
		)
	}
	values = append(values,
		namedValue{"unitCosts.costPerDevice", res.UnitCosts.CostPerDevice},
		namedValue{"unitCosts.costPerMetric", res.UnitCosts.CostPerMetric},
		namedValue{"unitCosts.costPerEvent", res.UnitCosts.CostPerEvent},
		namedValue{"unitCosts.pricePerDevice", res.UnitCosts.PricePerDevice},
		namedValue{"price.marginFactor", res.Price.MarginFactor},
		namedValue{"price.totalTaxRate", res.Price.TotalTaxRate},
		namedValue{"price.priceWithMargin", res.Price.PriceWithMargin},
		namedValue{"price.priceWithTaxes", res.Price.PriceWithTaxes},
		namedValue{"price.taxAmount", res.Price.TaxAmount},
		namedValue{"price.finalMonthlyPrice", res.Price.FinalMonthlyPrice},
		namedValue{"price.finalAnnualPrice", res.Price.FinalAnnualPrice},
		namedValue{"financials.roiPct", res.Financials.ROIPct},
		namedValue{"financials.paybackMonths", res.Financials.PaybackMonths},
		namedValue{"financials.profitabilityPct", res.Financials.ProfitabilityPct},
		namedValue{"financials.monthlyProfit", res.Financials.MonthlyProfit},
		namedValue{"market.pricePerUnit", res.Market.PricePerUnit},
		namedValue{"market.marketAverage", res.Market.MarketAverage},
		namedValue{"market.ratio", res.Market.Ratio},
	)
	return firstNonFinite(values)
}

func firstNonFinite(values []namedValue) error {
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return &InputError{Code: CodeNonFiniteResult, Field: v.field, Message: "calculation produced a non-finite value"}
		}
	}
	return nil
}
