package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestDimension_SmallTeamFloorsToOne(t *testing.T) {
	s := Dimension(StaffingRequest{
		LoadTotal:     50,
		Coverage:      Coverage8x5,
		ServiceLevel:  ServiceLevelStandard,
		Tier1SplitPct: 80,
		TMAMinutes:    8,
		OccupancyPct:  85,
	}, DefaultTables())

	if s.Tier1.Headcount != 1 || s.Tier2.Headcount != 1 {
		t.Fatalf("expected 1/1 headcount, got %d/%d", s.Tier1.Headcount, s.Tier2.Headcount)
	}
	if s.Tier3 != 0 {
		t.Fatalf("tier3 should be inactive on standard, got %d", s.Tier3)
	}
}

func TestDimension_ZeroLoadStillStaffsEveryActiveTier(t *testing.T) {
	s := Dimension(StaffingRequest{Coverage: Coverage8x5, ServiceLevel: ServiceLevelPremium, Tier1SplitPct: 80}, DefaultTables())

	if s.Tier1.Headcount != 1 || s.Tier2.Headcount != 1 || s.Tier3 != 1 {
		t.Fatalf("expected 1/1/1 headcount, got %d/%d/%d", s.Tier1.Headcount, s.Tier2.Headcount, s.Tier3)
	}
}

func TestDimension_CapacityEstimateWins(t *testing.T) {
	s := Dimension(StaffingRequest{
		LoadTotal:     1000,
		Coverage:      Coverage8x5,
		ServiceLevel:  ServiceLevelStandard,
		Tier1SplitPct: 80,
		TMAMinutes:    8,
		OccupancyPct:  85,
	}, DefaultTables())

	if s.Tier1.Workload != 1 || s.Tier1.Capacity != 8 || s.Tier1.Headcount != 8 {
		t.Fatalf("unexpected tier1 estimate: %+v", s.Tier1)
	}
	if s.Tier2.Workload != 1 || s.Tier2.Capacity != 3 || s.Tier2.Headcount != 3 {
		t.Fatalf("unexpected tier2 estimate: %+v", s.Tier2)
	}
	nearlyEqual(t, "erlangs", s.Erlangs, 1000.0/BusinessDaysPerMonth/HoursPerBusinessDay*8/60)
}

func TestDimension_WorkloadEstimateWins(t *testing.T) {
	s := Dimension(StaffingRequest{
		LoadTotal:     1000,
		Coverage:      Coverage8x5,
		ServiceLevel:  ServiceLevelStandard,
		Tier1SplitPct: 80,
		TMAMinutes:    60,
		OccupancyPct:  50,
	}, DefaultTables())

	// 1000/22/8 cases per hour * 1h / 0.5 occupancy * 1.2 safety = 13.64 agents.
	if s.Tier1.Workload != 11 || s.Tier1.Headcount != 11 {
		t.Fatalf("unexpected tier1 estimate: %+v", s.Tier1)
	}
	if s.Tier2.Workload != 3 || s.Tier2.Headcount != 3 {
		t.Fatalf("unexpected tier2 estimate: %+v", s.Tier2)
	}
}

func TestDimension_SixHourShiftOnlyAffectsItsTier(t *testing.T) {
	req := StaffingRequest{
		LoadTotal:     1000,
		Coverage:      Coverage8x5,
		ServiceLevel:  ServiceLevelStandard,
		Tier1SplitPct: 80,
		TMAMinutes:    8,
		OccupancyPct:  85,
	}
	regular := Dimension(req, DefaultTables())
	req.Tier1SixHourShift = true
	short := Dimension(req, DefaultTables())

	if short.Tier1.Headcount < regular.Tier1.Headcount {
		t.Fatalf("six-hour tier1 %d < regular %d", short.Tier1.Headcount, regular.Tier1.Headcount)
	}
	if short.Tier1.Headcount != 11 {
		t.Fatalf("expected 800/75 rounded up = 11, got %d", short.Tier1.Headcount)
	}
	if short.Tier2.Headcount != regular.Tier2.Headcount {
		t.Fatalf("tier2 changed: %d vs %d", short.Tier2.Headcount, regular.Tier2.Headcount)
	}
}

func TestDimension_FullAllocationToOneTier(t *testing.T) {
	s := Dimension(StaffingRequest{LoadTotal: 1000, Coverage: Coverage8x5, Tier1SplitPct: 100}, DefaultTables())

	if s.Tier1.Headcount != 10 {
		t.Fatalf("expected tier1 10, got %d", s.Tier1.Headcount)
	}
	if s.Tier2.Headcount != 1 {
		t.Fatalf("expected tier2 floor 1, got %d", s.Tier2.Headcount)
	}
}

func TestDimension_MonotonicInLoad(t *testing.T) {
	tables := DefaultTables()
	prev := Dimension(StaffingRequest{Coverage: Coverage24x7, ServiceLevel: ServiceLevelAdvanced, Tier1SplitPct: 70}, tables)
	for load := 10.0; load <= 20000; load += 37 {
		cur := Dimension(StaffingRequest{
			LoadTotal:         load,
			Coverage:          Coverage24x7,
			ServiceLevel:      ServiceLevelAdvanced,
			Tier1SplitPct:     70,
			TMAMinutes:        12,
			OccupancyPct:      80,
			Tier2SixHourShift: true,
		}, tables)
		if cur.Tier1.Headcount < prev.Tier1.Headcount || cur.Tier2.Headcount < prev.Tier2.Headcount || cur.Tier3 < prev.Tier3 {
			t.Fatalf("headcount decreased at load %v: %+v -> %+v", load, prev, cur)
		}
		if cur.Tier1.Headcount < 1 || cur.Tier2.Headcount < 1 || cur.Tier3 < 1 {
			t.Fatalf("headcount below floor at load %v: %+v", load, cur)
		}
		prev = cur
	}
}

func TestDimension_CoverageScalesRecommendation(t *testing.T) {
	s := Dimension(StaffingRequest{
		LoadTotal:     1000,
		Coverage:      Coverage24x7,
		ServiceLevel:  ServiceLevelAdvanced,
		Tier1SplitPct: 80,
		TMAMinutes:    8,
		OccupancyPct:  85,
	}, DefaultTables())

	if s.CoverageMultiplier != 4 {
		t.Fatalf("coverage multiplier = %v, want 4", s.CoverageMultiplier)
	}
	if s.Recommended[1] != 32 || s.Recommended[2] != 12 || s.Recommended[3] != 4 {
		t.Fatalf("unexpected recommendation: %+v", s.Recommended)
	}
	if s.Headcount() != 12 || s.RecommendedTotal() != 48 {
		t.Fatalf("headcount %d / recommended %d", s.Headcount(), s.RecommendedTotal())
	}
}

func TestDimension_ZeroCoefficientsFallBackToReference(t *testing.T) {
	req := StaffingRequest{LoadTotal: 1000, Coverage: Coverage8x5, Tier1SplitPct: 80}
	withDefaults := Dimension(req, DefaultTables())
	withEmpty := Dimension(req, Tables{})

	if withEmpty.Tier1.Headcount != withDefaults.Tier1.Headcount || withEmpty.Tier2.Headcount != withDefaults.Tier2.Headcount {
		t.Fatalf("empty tables %+v differ from defaults %+v", withEmpty, withDefaults)
	}
	if withEmpty.CoverageMultiplier != 1 {
		t.Fatalf("missing coverage multiplier should be neutral, got %v", withEmpty.CoverageMultiplier)
	}
}

func TestCeilInt(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{-3, 0},
		{math.NaN(), 0},
		{2, 2},
		{8.000000000000002, 8},
		{2.0000000005, 3},
		{1e300, math.MaxInt},
		{math.Inf(1), math.MaxInt},
	}
	for _, tt := range tests {
		if got := ceilInt(tt.in); got != tt.want {
			t.Fatalf("ceilInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDimension_InfiniteLoadSaturatesHeadcount(t *testing.T) {
	req := StaffingRequest{
		LoadTotal:     1e6,
		Coverage:      Coverage24x7,
		ServiceLevel:  ServiceLevelStandard,
		Tier1SplitPct: 80,
		TMAMinutes:    8,
		OccupancyPct:  85,
	}
	finite := Dimension(req, DefaultTables())

	req.LoadTotal = math.Inf(1)
	inf := Dimension(req, DefaultTables())

	if inf.Tier1.Headcount != math.MaxInt || inf.Tier2.Headcount != math.MaxInt {
		t.Fatalf("expected saturated headcount, got %+v / %+v", inf.Tier1, inf.Tier2)
	}
	if inf.Tier1.Headcount < finite.Tier1.Headcount || inf.Recommended[1] < finite.Recommended[1] {
		t.Fatalf("headcount dropped as load grew: %+v vs %+v", finite, inf)
	}
}
