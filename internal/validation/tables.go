package validation

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Simplici0/servicequote/internal/pricing"
)

// ValidateTables checks admin-edited pricing tables. It returns nil or a
// validation.Errors keyed by section and entry.
func ValidateTables(t pricing.Tables) error {
	errs := validation.Errors{}

	for c, v := range t.TeamCoverageMultiplier {
		errs[fmt.Sprintf("teamCoverageMultiplier.%s", c)] = validation.Validate(v, nonNegative)
	}
	for c, v := range t.MarketCoverageMultiplier {
		errs[fmt.Sprintf("marketCoverageMultiplier.%s", c)] = validation.Validate(v, nonNegative)
	}
	for l, v := range t.ServiceLevelMultiplier {
		errs[fmt.Sprintf("serviceLevelMultiplier.%s", l)] = validation.Validate(v, nonNegative)
	}
	for l, v := range t.MarketBaseValue {
		errs[fmt.Sprintf("marketBaseValue.%s", l)] = validation.Validate(v, nonNegative)
	}
	for tool, v := range t.ToolCostFactors {
		errs[fmt.Sprintf("toolCostFactors.%s", tool)] = validation.Validate(v, nonNegative)
	}
	for tier, v := range t.TierSalary {
		key := fmt.Sprintf("tierSalary.%d", tier)
		errs[key] = validation.Validate(v, nonNegative)
		if tier < 1 || tier > 3 {
			errs[key] = validation.NewError("validation_tier", "deve ser 1, 2 ou 3")
		}
	}
	for i, step := range t.ScaleDiscounts {
		errs[fmt.Sprintf("scaleDiscounts[%d].minUnits", i)] = validation.Validate(step.MinUnits, nonNegative)
		errs[fmt.Sprintf("scaleDiscounts[%d].factor", i)] = validation.Validate(step.Factor,
			validation.Required.Error("deve ser maior que 0"),
			validation.Min(0.0).Exclusive().Error("deve ser maior que 0"))
	}
	errs["benefitsRate"] = validation.Validate(t.BenefitsRate, nonNegative)

	k := t.Staffing
	errs["staffing.businessDaysPerMonth"] = validation.Validate(k.BusinessDaysPerMonth, nonNegative)
	errs["staffing.hoursPerBusinessDay"] = validation.Validate(k.HoursPerBusinessDay, nonNegative)
	errs["staffing.safetyFactor"] = validation.Validate(k.SafetyFactor, nonNegative)
	errs["staffing.tier1MonthlyCapacity"] = validation.Validate(k.Tier1MonthlyCapacity, nonNegative)
	errs["staffing.tier2MonthlyCapacity"] = validation.Validate(k.Tier2MonthlyCapacity, nonNegative)
	errs["staffing.sixHourCapacityFactor"] = validation.Validate(k.SixHourCapacityFactor, nonNegative)
	errs["staffing.tier3Ratio"] = validation.Validate(k.Tier3Ratio, nonNegative)

	return errs.Filter()
}
