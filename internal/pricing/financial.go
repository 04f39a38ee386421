package pricing

// Financials are the headline return figures of a proposal.
type Financials struct {
	ROIPct           float64 `json:"roiPct"`
	PaybackMonths    float64 `json:"paybackMonths"`
	ProfitabilityPct float64 `json:"profitabilityPct"`
	MonthlyProfit    float64 `json:"monthlyProfit"`
}

// CalculateFinancials derives ROI, payback and profitability from revenue and
// cost. Payback is 0 when the contract never recovers the initial investment.
func CalculateFinancials(monthlyRevenue, monthlyCost float64) Financials {
	f := Financials{MonthlyProfit: monthlyRevenue - monthlyCost}

	annualRevenue, annualCost := monthlyRevenue*12, monthlyCost*12
	if annualCost != 0 {
		f.ROIPct = (annualRevenue - annualCost) / annualCost * 100
	}
	if f.MonthlyProfit > 0 {
		f.PaybackMonths = InvestmentMonthsOfCost * monthlyCost / f.MonthlyProfit
	}
	if monthlyRevenue != 0 {
		f.ProfitabilityPct = (monthlyRevenue - monthlyCost) / monthlyRevenue * 100
	}
	return f
}
