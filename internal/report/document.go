// Package report renders a calculation result as a proposal document in PDF,
// Excel or plain text. It only reads results and never recomputes them.
package report

import (
	"fmt"
	"time"

	"github.com/Simplici0/servicequote/internal/pricing"
)

type Line struct {
	Label string
	Value string
}

type Section struct {
	Title string
	Lines []Line
}

// Document is the format-independent content of a proposal.
type Document struct {
	Title       string
	Client      string
	GeneratedAt string
	Sections    []Section
}

var competitivenessLabel = map[pricing.Competitiveness]string{
	pricing.CompetitivenessLow:         "abaixo do mercado",
	pricing.CompetitivenessCompetitive: "competitivo",
	pricing.CompetitivenessHigh:        "acima do mercado",
}

// Build lays out the proposal sections for one project.
func Build(in pricing.ProjectInput, res pricing.CalculationResult, generatedAt time.Time) Document {
	title := in.Name
	if title == "" {
		title = "Proposta"
	}

	s := res.Staffing
	staffing := []Line{
		{"N1 (carga / capacidade)", fmt.Sprintf("%d (%d / %d)", s.Tier1.Headcount, s.Tier1.Workload, s.Tier1.Capacity)},
		{"N2 (carga / capacidade)", fmt.Sprintf("%d (%d / %d)", s.Tier2.Headcount, s.Tier2.Workload, s.Tier2.Capacity)},
	}
	if s.Tier3 > 0 {
		staffing = append(staffing, Line{"N3 especialistas", fmt.Sprintf("%d", s.Tier3)})
	}
	teamSource := "informada"
	if res.DerivedTeam {
		teamSource = "derivada do dimensionamento"
	}
	staffing = append(staffing,
		Line{"Erlangs", Quantity(s.Erlangs)},
		Line{"Multiplicador de cobertura", Quantity(s.CoverageMultiplier)},
		Line{"Equipe recomendada", fmt.Sprintf("%d", s.RecommendedTotal())},
		Line{"Equipe precificada", fmt.Sprintf("%d (%s)", len(res.Team), teamSource)},
	)

	c := res.MonthlyCosts
	p := res.Price
	f := res.Financials
	m := res.Market

	return Document{
		Title:       title,
		Client:      in.Client,
		GeneratedAt: generatedAt.Format("02/01/2006 15:04"),
		Sections: []Section{
			{Title: "Escopo", Lines: []Line{
				{"Nível de serviço", string(in.ServiceLevel)},
				{"Cobertura", string(in.Coverage)},
				{"Dispositivos", Quantity(res.Load.TotalDevices)},
				{"Métricas", Quantity(res.Load.TotalMetrics)},
				{"Eventos por mês", Quantity(res.Load.MonthlyEvents)},
			}},
			{Title: "Dimensionamento", Lines: staffing},
			{Title: "Custos mensais", Lines: []Line{
				{"Equipe", Money(c.Team)},
				{"Infraestrutura", Money(c.Infrastructure)},
				{"Licenças", Money(c.License)},
				{"Operacional", Money(c.Operational)},
				{"Total mensal", Money(c.Total)},
				{"Total anual", Money(res.AnnualCosts.Total)},
			}},
			{Title: "Custos unitários", Lines: []Line{
				{"Por dispositivo", Money(res.UnitCosts.CostPerDevice)},
				{"Por métrica", Money(res.UnitCosts.CostPerMetric)},
				{"Por evento", Money(res.UnitCosts.CostPerEvent)},
			}},
			{Title: "Preço", Lines: []Line{
				{"Fator de margem", Quantity(p.MarginFactor)},
				{"Preço com margem", Money(p.PriceWithMargin)},
				{"Carga tributária", Percent(p.TotalTaxRate * 100)},
				{"Impostos", Money(p.TaxAmount)},
				{"Preço final mensal", Money(p.FinalMonthlyPrice)},
				{"Preço final anual", Money(p.FinalAnnualPrice)},
				{"Preço por dispositivo", Money(res.UnitCosts.PricePerDevice)},
			}},
			{Title: "Indicadores financeiros", Lines: []Line{
				{"Lucro mensal", Money(f.MonthlyProfit)},
				{"ROI", Percent(f.ROIPct)},
				{"Payback (meses)", Quantity(f.PaybackMonths)},
				{"Rentabilidade", Percent(f.ProfitabilityPct)},
			}},
			{Title: "Mercado", Lines: []Line{
				{"Média de mercado por dispositivo", Money(m.MarketAverage)},
				{"Relação preço / mercado", Quantity(m.Ratio)},
				{"Posicionamento", competitivenessLabel[m.Classification]},
			}},
		},
	}
}
