package pricing

import "math"

// StaffingRequest carries everything the dimensioner needs.
type StaffingRequest struct {
	LoadTotal         float64      `json:"loadTotal"`
	Coverage          Coverage     `json:"coverage"`
	ServiceLevel      ServiceLevel `json:"serviceLevel"`
	Tier1SplitPct     float64      `json:"tier1SplitPct"`
	TMAMinutes        float64      `json:"tmaMinutes"`
	OccupancyPct      float64      `json:"occupancyPct"`
	Tier1SixHourShift bool         `json:"tier1SixHourShift"`
	Tier2SixHourShift bool         `json:"tier2SixHourShift"`
}

// TierEstimate keeps both estimates so reports can show which one won.
type TierEstimate struct {
	Workload  int `json:"workload"`
	Capacity  int `json:"capacity"`
	Headcount int `json:"headcount"`
}

// Staffing is the required headcount per support tier.
type Staffing struct {
	Tier1 TierEstimate `json:"tier1"`
	Tier2 TierEstimate `json:"tier2"`
	// Tier3 is only active on advanced and premium service levels.
	Tier3              int     `json:"tier3"`
	Erlangs            float64 `json:"erlangs"`
	CoverageMultiplier float64 `json:"coverageMultiplier"`
	// Recommended is headcount scaled to the coverage window, per tier.
	Recommended map[int]int `json:"recommended"`
}

// Headcount returns the per-day headcount summed over every tier.
func (s Staffing) Headcount() int {
	return s.Tier1.Headcount + s.Tier2.Headcount + s.Tier3
}

// RecommendedTotal returns the coverage-scaled team size.
func (s Staffing) RecommendedTotal() int {
	total := 0
	for _, n := range s.Recommended {
		total += n
	}
	return total
}

// Dimension sizes the support team for a monthly load. Each tier takes the
// larger of a workload estimate and a capacity estimate, floored at one agent.
func Dimension(req StaffingRequest, tables Tables) Staffing {
	k := tables.staffingConstants()
	tma := req.TMAMinutes
	if tma <= 0 {
		tma = DefaultTMAMinutes
	}
	occupancy := req.OccupancyPct
	if occupancy <= 0 {
		occupancy = DefaultOccupancyPct
	}
	split := clampPct(req.Tier1SplitPct) / 100
	load := math.Max(req.LoadTotal, 0)

	// Workload estimate.
	hourlyRate := load / k.BusinessDaysPerMonth / k.HoursPerBusinessDay
	erlangs := hourlyRate * tma / 60
	agents := erlangs / (occupancy / 100) * k.SafetyFactor
	w1 := ceilInt(agents * split)
	w2 := ceilInt(agents * (1 - split))

	// Capacity estimate.
	c1 := ceilInt(load * split / tierCapacity(k.Tier1MonthlyCapacity, req.Tier1SixHourShift, k.SixHourCapacityFactor))
	c2 := ceilInt(load * (1 - split) / tierCapacity(k.Tier2MonthlyCapacity, req.Tier2SixHourShift, k.SixHourCapacityFactor))

	s := Staffing{
		Tier1:              TierEstimate{Workload: w1, Capacity: c1, Headcount: maxInt(w1, c1, 1)},
		Tier2:              TierEstimate{Workload: w2, Capacity: c2, Headcount: maxInt(w2, c2, 1)},
		Erlangs:            erlangs,
		CoverageMultiplier: tables.teamCoverage(req.Coverage),
	}
	if req.ServiceLevel == ServiceLevelAdvanced || req.ServiceLevel == ServiceLevelPremium {
		s.Tier3 = maxInt(ceilInt(float64(s.Tier2.Headcount)/k.Tier3Ratio), 1)
	}

	s.Recommended = map[int]int{
		1: ceilInt(float64(s.Tier1.Headcount) * s.CoverageMultiplier),
		2: ceilInt(float64(s.Tier2.Headcount) * s.CoverageMultiplier),
	}
	if s.Tier3 > 0 {
		s.Recommended[3] = ceilInt(float64(s.Tier3) * s.CoverageMultiplier)
	}
	return s
}

func tierCapacity(base float64, sixHour bool, factor float64) float64 {
	if sixHour {
		return base * factor
	}
	return base
}

func clampPct(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

// ceilTolerance is the relative float noise ceilInt absorbs above an integer.
const ceilTolerance = 1e-12

// ceilInt rounds up. Values too large for an int, +Inf included, saturate at
// math.MaxInt so headcount stays monotonic in load.
func ceilInt(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	c := math.Ceil(v - v*ceilTolerance)
	if c >= math.MaxInt {
		return math.MaxInt
	}
	return int(c)
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
