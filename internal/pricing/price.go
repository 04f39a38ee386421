package pricing

// Price is the sell price derived from monthly cost.
type Price struct {
	MarginFactor      float64 `json:"marginFactor"`
	TotalTaxRate      float64 `json:"totalTaxRate"`
	PriceWithMargin   float64 `json:"priceWithMargin"`
	PriceWithTaxes    float64 `json:"priceWithTaxes"`
	TaxAmount         float64 `json:"taxAmount"`
	FinalMonthlyPrice float64 `json:"finalMonthlyPrice"`
	FinalAnnualPrice  float64 `json:"finalAnnualPrice"`
}

// CalculatePrice applies margins additively to cost, then grosses up for
// taxes levied on the final price. A total tax rate of 100% or more is not
// guarded here and yields an infinite or negative price.
func CalculatePrice(monthlyCost float64, vars Variables, taxes TaxRates) Price {
	marginFactor := 1 + vars.ProfitMarginPct/100 + vars.RiskMarginPct/100
	withMargin := monthlyCost * marginFactor
	taxRate := taxes.Total()
	withTaxes := withMargin / (1 - taxRate)

	return Price{
		MarginFactor:      marginFactor,
		TotalTaxRate:      taxRate,
		PriceWithMargin:   withMargin,
		PriceWithTaxes:    withTaxes,
		TaxAmount:         withTaxes - withMargin,
		FinalMonthlyPrice: withTaxes,
		FinalAnnualPrice:  withTaxes * 12,
	}
}
