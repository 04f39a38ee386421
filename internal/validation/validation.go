// Package validation checks a project input section by section before it is
// priced. It reports problems, it never changes the input.
package validation

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Simplici0/servicequote/internal/pricing"
)

// Section names, one per step of the project form.
const (
	SectionGeneral   = "general"
	SectionLoad      = "load"
	SectionTeam      = "team"
	SectionCosts     = "costs"
	SectionTaxes     = "taxes"
	SectionVariables = "variables"
	SectionStaffing  = "staffing"
)

// Sections lists the section names in form order.
var Sections = []string{
	SectionGeneral,
	SectionLoad,
	SectionTeam,
	SectionCosts,
	SectionTaxes,
	SectionVariables,
	SectionStaffing,
}

const (
	lowProfitMarginPct = 10.0
	highTaxRatePct     = 40.0
	highOccupancyPct   = 90.0
)

type SectionReport struct {
	IsValid     bool     `json:"isValid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

type Report struct {
	IsValid  bool                     `json:"isValid"`
	Sections map[string]SectionReport `json:"sections"`
}

// Failed returns every error message prefixed with its section, in form order.
func (r Report) Failed() []string {
	var out []string
	for _, name := range Sections {
		for _, e := range r.Sections[name].Errors {
			out = append(out, name+": "+e)
		}
	}
	return out
}

// Validate runs every section check. Warnings and suggestions never make a
// section invalid.
func Validate(in pricing.ProjectInput) Report {
	r := Report{
		IsValid: true,
		Sections: map[string]SectionReport{
			SectionGeneral:   general(in),
			SectionLoad:      load(in),
			SectionTeam:      team(in),
			SectionCosts:     costs(in),
			SectionTaxes:     taxes(in),
			SectionVariables: variables(in),
			SectionStaffing:  staffing(in),
		},
	}
	for _, s := range r.Sections {
		if !s.IsValid {
			r.IsValid = false
		}
	}
	return r
}

var (
	nonNegative = validation.Min(0.0).Error("não pode ser negativo")
	maxPercent  = validation.Max(100.0).Error("deve estar entre 0 e 100")
)

func percent() []validation.Rule {
	return []validation.Rule{validation.Min(0.0).Error("deve estar entre 0 e 100"), maxPercent}
}

type section struct {
	errors      []string
	warnings    []string
	suggestions []string
}

// check adds one message per failing field, sorted by field name.
func (s *section) check(errs validation.Errors) {
	err := errs.Filter()
	if err == nil {
		return
	}
	failed, ok := err.(validation.Errors)
	if !ok {
		s.errors = append(s.errors, err.Error())
		return
	}
	keys := make([]string, 0, len(failed))
	for k := range failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.errors = append(s.errors, fmt.Sprintf("%s: %s", k, failed[k].Error()))
	}
}

func (s *section) warn(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

func (s *section) suggest(format string, args ...any) {
	s.suggestions = append(s.suggestions, fmt.Sprintf(format, args...))
}

func (s *section) report() SectionReport {
	return SectionReport{
		IsValid:     len(s.errors) == 0,
		Errors:      nonNil(s.errors),
		Warnings:    nonNil(s.warnings),
		Suggestions: nonNil(s.suggestions),
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func general(in pricing.ProjectInput) SectionReport {
	var s section
	s.check(validation.Errors{
		"serviceLevel": validation.Validate(in.ServiceLevel,
			validation.Required.Error("é obrigatório"),
			validation.In(levelValues()...).Error("nível de serviço desconhecido")),
		"coverage": validation.Validate(in.Coverage,
			validation.Required.Error("é obrigatória"),
			validation.In(coverageValues()...).Error("cobertura desconhecida")),
	})
	if in.Name == "" {
		s.warn("Projeto sem nome")
	}
	if in.Coverage == pricing.Coverage24x7 && in.ServiceLevel == pricing.ServiceLevelBasic {
		s.suggest("Cobertura 24x7 costuma acompanhar o nível standard ou superior")
	}
	if in.AIEnabled && in.ServiceLevel == pricing.ServiceLevelBasic {
		s.suggest("Recursos de IA têm mais retorno a partir do nível advanced")
	}
	return s.report()
}

func load(in pricing.ProjectInput) SectionReport {
	var s section
	errs := validation.Errors{}
	for i, u := range in.LoadUnits {
		key := fmt.Sprintf("loadUnits[%d].", i)
		errs[key+"name"] = validation.Validate(u.Name, validation.Required.Error("é obrigatório"))
		errs[key+"quantity"] = validation.Validate(u.Quantity, nonNegative)
		errs[key+"metricsPerUnit"] = validation.Validate(u.MetricsPerUnit, nonNegative)
		errs[key+"eventsPerUnit"] = validation.Validate(u.EventsPerUnit, nonNegative)
		errs[key+"weight"] = validation.Validate(u.Weight, nonNegative)
	}
	s.check(errs)

	summary := pricing.SummarizeLoad(in.LoadUnits)
	if summary.TotalDevices <= 0 {
		s.warn("Nenhuma carga informada: custos por dispositivo e comparação de mercado ficarão zerados")
	} else if summary.MonthlyEvents <= 0 {
		s.warn("Nenhum evento mensal informado: o dimensionamento usará a equipe mínima")
	}
	return s.report()
}

func team(in pricing.ProjectInput) SectionReport {
	var s section
	errs := validation.Errors{}
	night := 0
	for i, m := range in.TeamRoster {
		key := fmt.Sprintf("teamRoster[%d].", i)
		errs[key+"tier"] = validation.Validate(m.Tier,
			validation.Required.Error("é obrigatório"),
			validation.In(1, 2, 3).Error("deve ser 1, 2 ou 3"))
		errs[key+"salary"] = validation.Validate(m.Salary, nonNegative)
		errs[key+"benefits"] = validation.Validate(m.Benefits, nonNegative)
		errs[key+"shift"] = validation.Validate(m.Shift,
			validation.In(pricing.ShiftDay, pricing.ShiftNight).Error("turno desconhecido"))
		if m.Shift == pricing.ShiftNight {
			night++
		}
	}
	s.check(errs)

	if len(in.TeamRoster) == 0 {
		s.warn("Equipe vazia: será usada a equipe recomendada pelo dimensionamento")
	}
	if night > 0 && !in.Coverage.RunsOvernight() {
		s.warn("%d membro(s) no turno noturno, mas a cobertura %s não opera à noite", night, in.Coverage)
	}
	return s.report()
}

func costs(in pricing.ProjectInput) SectionReport {
	var s section
	c := in.OperationalCosts
	s.check(validation.Errors{
		"server":              validation.Validate(c.Server, nonNegative),
		"storage":             validation.Validate(c.Storage, nonNegative),
		"network":             validation.Validate(c.Network, nonNegative),
		"monitoringLicense":   validation.Validate(c.MonitoringLicense, nonNegative),
		"integration":         validation.Validate(c.Integration, nonNegative),
		"facility":            validation.Validate(c.Facility, nonNegative),
		"utilities":           validation.Validate(c.Utilities, nonNegative),
		"trainingAnnual":      validation.Validate(c.TrainingAnnual, nonNegative),
		"certificationAnnual": validation.Validate(c.CertificationAnnual, nonNegative),
		"contingency":         validation.Validate(c.Contingency, nonNegative),
	})

	if c == (pricing.OperationalCosts{}) {
		s.warn("Nenhum custo operacional informado")
	}
	if len(in.Tools) == 0 {
		s.suggest("Nenhuma ferramenta selecionada: o custo de licença não será ajustado pelo mix de ferramentas")
	}
	return s.report()
}

func taxes(in pricing.ProjectInput) SectionReport {
	var s section
	t := in.TaxRates
	s.check(validation.Errors{
		"federal":       validation.Validate(t.Federal, percent()...),
		"state":         validation.Validate(t.State, percent()...),
		"municipal":     validation.Validate(t.Municipal, percent()...),
		"socialCharges": validation.Validate(t.SocialCharges, percent()...),
	})

	total := t.Total() * 100
	switch {
	case total >= 100:
		s.errors = append(s.errors, fmt.Sprintf("total: soma dos impostos (%.2f%%) deve ser menor que 100%%", total))
	case total > highTaxRatePct:
		s.warn("Carga tributária total de %.2f%% está acima de %.0f%%", total, highTaxRatePct)
	}
	return s.report()
}

func variables(in pricing.ProjectInput) SectionReport {
	var s section
	v := in.Variables
	s.check(validation.Errors{
		"profitMarginPct": validation.Validate(v.ProfitMarginPct, percent()...),
		"riskMarginPct":   validation.Validate(v.RiskMarginPct, percent()...),
	})

	if v.ProfitMarginPct < lowProfitMarginPct {
		s.warn("Margem de lucro abaixo de %.0f%%", lowProfitMarginPct)
	}
	if v.RiskMarginPct == 0 {
		s.suggest("Considere uma margem de risco para absorver variações de volume")
	}
	return s.report()
}

func staffing(in pricing.ProjectInput) SectionReport {
	var s section
	p := in.Staffing
	s.check(validation.Errors{
		"tmaMinutes": validation.Validate(p.TMAMinutes, nonNegative),
		"occupancyPct": validation.Validate(p.OccupancyPct,
			validation.Required.Error("deve ser maior que 0"),
			validation.Min(0.0).Exclusive().Error("deve ser maior que 0"),
			maxPercent),
		"tier1SplitPct": validation.Validate(p.Tier1SplitPct, percent()...),
	})

	if p.TMAMinutes == 0 {
		s.warn("TMA não informado: será usado o padrão de %.0f minutos", pricing.DefaultTMAMinutes)
	}
	if p.OccupancyPct > highOccupancyPct && p.OccupancyPct <= 100 {
		s.warn("Ocupação acima de %.0f%% deixa pouca folga para picos", highOccupancyPct)
	}
	return s.report()
}

func levelValues() []any {
	out := make([]any, len(pricing.ServiceLevels))
	for i, l := range pricing.ServiceLevels {
		out[i] = l
	}
	return out
}

func coverageValues() []any {
	out := make([]any, len(pricing.Coverages))
	for i, c := range pricing.Coverages {
		out[i] = c
	}
	return out
}
