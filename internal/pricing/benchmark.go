package pricing

// Competitiveness labels a price against the market benchmark.
type Competitiveness string

const (
	CompetitivenessLow         Competitiveness = "low"
	CompetitivenessCompetitive Competitiveness = "competitive"
	CompetitivenessHigh        Competitiveness = "high"
)

// MarketComparison is the outcome of a benchmark evaluation.
type MarketComparison struct {
	PricePerUnit   float64         `json:"pricePerUnit"`
	MarketAverage  float64         `json:"marketAverage"`
	Ratio          float64         `json:"ratio"`
	Classification Competitiveness `json:"classification"`
}

// MarketAverage returns the synthetic market unit price for a service profile.
func MarketAverage(level ServiceLevel, coverage Coverage, units float64, tables Tables) float64 {
	coverageMult, ok := tables.MarketCoverageMultiplier[coverage]
	if !ok {
		coverageMult = 1
	}
	return tables.MarketBaseValue[level] * coverageMult * tables.scaleDiscount(units)
}

// Evaluate compares a unit price with the market average. The competitive
// band is inclusive at both ends. Without market data or without units there
// is nothing to compare, so the ratio stays 0 and the label competitive.
func Evaluate(pricePerUnit float64, level ServiceLevel, coverage Coverage, units float64, tables Tables) MarketComparison {
	avg := MarketAverage(level, coverage, units, tables)
	cmp := MarketComparison{
		PricePerUnit:   pricePerUnit,
		MarketAverage:  avg,
		Classification: CompetitivenessCompetitive,
	}
	if avg <= 0 || units <= 0 {
		return cmp
	}
	cmp.Ratio = pricePerUnit / avg
	cmp.Classification = Classify(cmp.Ratio)
	return cmp
}

// Classify maps a price / market ratio to a label.
func Classify(ratio float64) Competitiveness {
	switch {
	case ratio < LowPriceRatio:
		return CompetitivenessLow
	case ratio > HighPriceRatio:
		return CompetitivenessHigh
	default:
		return CompetitivenessCompetitive
	}
}
