package pricing

import "testing"

func TestTeamCost_NightShiftPremium(t *testing.T) {
	team := []TeamMember{
		{Role: "N1", Tier: 1, Salary: 1000, Benefits: 500, Shift: ShiftDay},
		{Role: "N1", Tier: 1, Salary: 1000, Benefits: 500, Shift: ShiftNight},
	}

	nearlyEqual(t, "team", TeamCost(team), 1500+1950)
}

func TestInfrastructureCost_LogScaleAndServiceLevel(t *testing.T) {
	costs := OperationalCosts{Server: 1000, Storage: 500, Network: 500}
	tables := DefaultTables()

	// log10(100) * 0.1 + log10(1000) * 0.05 = 0.35
	nearlyEqual(t, "standard", InfrastructureCost(costs, 99, 999, ServiceLevelStandard, tables), 2700)
	nearlyEqual(t, "premium", InfrastructureCost(costs, 99, 999, ServiceLevelPremium, tables), 5400)
	nearlyEqual(t, "basic no load", InfrastructureCost(costs, 0, 0, ServiceLevelBasic, tables), 1400)
}

func TestLicenseCost_ToolMixAndAI(t *testing.T) {
	costs := OperationalCosts{MonitoringLicense: 800, Integration: 200}
	tables := DefaultTables()

	nearlyEqual(t, "no tools", LicenseCost(costs, nil, false, tables), 1000)
	nearlyEqual(t, "mixed tools", LicenseCost(costs, []string{"Zabbix", "datadog"}, false, tables), 1250)
	nearlyEqual(t, "mixed tools with ai", LicenseCost(costs, []string{"zabbix", "datadog"}, true, tables), 1875)
	nearlyEqual(t, "unknown tool", LicenseCost(costs, []string{"in-house"}, false, tables), 1000)
}

func TestOperationalCost_SpreadsAnnualTraining(t *testing.T) {
	costs := OperationalCosts{
		Facility:            100,
		Utilities:           50,
		TrainingAnnual:      1200,
		CertificationAnnual: 600,
		Contingency:         25,
	}

	nearlyEqual(t, "operational", OperationalCost(costs), 325)
}

func TestAggregate_TotalIsExactSumOfComponents(t *testing.T) {
	req := CostRequest{
		Team: []TeamMember{
			{Salary: 3333.33, Benefits: 1111.11, Shift: ShiftNight},
			{Salary: 4210.07, Benefits: 987.65},
		},
		Costs: OperationalCosts{
			Server: 1234.56, Storage: 78.9, Network: 321.1,
			MonitoringLicense: 999.99, Integration: 0.01,
			Facility: 10.1, Utilities: 20.2, TrainingAnnual: 3000.3, CertificationAnnual: 77.7, Contingency: 5.05,
		},
		DeviceCount:  437,
		MetricCount:  12345,
		Tools:        []string{"prtg", "servicenow", "grafana"},
		AIEnabled:    true,
		ServiceLevel: ServiceLevelAdvanced,
	}

	b := Aggregate(req, DefaultTables())

	if b.Total != b.Team+b.Infrastructure+b.License+b.Operational {
		t.Fatalf("total %v is not the sum of %+v", b.Total, b)
	}
	annual := b.Annual()
	if annual.Total != b.Total*12 || annual.Team != b.Team*12 {
		t.Fatalf("annual breakdown not scaled by 12: %+v", annual)
	}
}

func TestAggregate_MissingFieldsCountAsZero(t *testing.T) {
	b := Aggregate(CostRequest{ServiceLevel: ServiceLevelStandard}, DefaultTables())

	if b != (CostBreakdown{}) {
		t.Fatalf("expected zero breakdown, got %+v", b)
	}
}

func TestDeriveTeam_UsesRecommendationAndNightShare(t *testing.T) {
	tables := DefaultTables()
	s := Staffing{Recommended: map[int]int{1: 6, 2: 3}}

	team := DeriveTeam(s, Coverage24x7, tables)

	if len(team) != 9 {
		t.Fatalf("expected 9 members, got %d", len(team))
	}
	night := 0
	for _, m := range team {
		if m.Shift == ShiftNight {
			night++
		}
		if m.Benefits != m.Salary*tables.BenefitsRate {
			t.Fatalf("benefits not derived from salary: %+v", m)
		}
	}
	if night != 3 {
		t.Fatalf("expected 3 night members (2 N1 + 1 N2), got %d", night)
	}
	if team[0].Tier != 1 || team[0].Salary != 3500 || team[8].Tier != 2 {
		t.Fatalf("unexpected ordering or salary: %+v", team)
	}

	dayOnly := DeriveTeam(s, Coverage12x6, tables)
	for _, m := range dayOnly {
		if m.Shift == ShiftNight {
			t.Fatalf("12x6 coverage should not place night shifts: %+v", m)
		}
	}
}
