// Package scoring computes the heuristic rider risk score: five ratios
// against population baselines blended by configurable weights.
package scoring

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/peloton/internal/domain/model"
)

// Default risk configuration constants.
const (
	defaultCostEfficiencyWeight = 0.3
	defaultOwnershipWeight      = 0.1
	defaultConsistencyWeight    = 0.2
	defaultTrendWeight          = 0.2
	defaultRoleWeight           = 0.2

	defaultLowMax  = 0.8
	defaultHighMin = 1.2

	// trendDepth is how many trailing history values feed the trend factor.
	trendDepth = 3
)

// Factor names one risk sub-score. The string forms are the config keys.
type Factor string

// Risk factors.
const (
	FactorCostEfficiency Factor = "cost_efficiency"
	FactorOwnership      Factor = "ownership"
	FactorConsistency    Factor = "consistency"
	FactorTrend          Factor = "trend"
	FactorRole           Factor = "role"
)

// Factors lists every factor in weighting order.
var Factors = []Factor{FactorCostEfficiency, FactorOwnership, FactorConsistency, FactorTrend, FactorRole}

// Band is the qualitative bucket of an overall score.
type Band string

// Risk bands.
const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// ParseBand returns the band named s.
func ParseBand(s string) (Band, bool) {
	switch b := Band(s); b {
	case BandLow, BandMedium, BandHigh:
		return b, true
	}
	return "", false
}

// Breakdown holds the five sub-scores of one rider.
type Breakdown struct {
	CostEfficiency float64 `json:"cost_efficiency"`
	Ownership      float64 `json:"ownership"`
	Consistency    float64 `json:"consistency"`
	Trend          float64 `json:"trend"`
	Role           float64 `json:"role"`
}

func (b Breakdown) get(f Factor) float64 {
	switch f {
	case FactorCostEfficiency:
		return b.CostEfficiency
	case FactorOwnership:
		return b.Ownership
	case FactorConsistency:
		return b.Consistency
	case FactorTrend:
		return b.Trend
	case FactorRole:
		return b.Role
	}
	return 0
}

// Result is the risk assessment of one rider.
type Result struct {
	Name    string     `json:"name"`
	Team    string     `json:"team"`
	Role    model.Role `json:"role"`
	Factors Breakdown  `json:"factors"`
	Score   float64    `json:"score"`
	Band    Band       `json:"band"`
}

// Population holds the baselines every rider is compared against.
type Population struct {
	AvgCostPerPoint float64
	MaxOwnership    float64
	MeanPoints      float64
	RoleMeanPoints  map[model.Role]float64
}

// NewPopulation computes baselines over riders. The cost-per-point average
// only covers riders with points.
func NewPopulation(riders []model.Rider) Population {
	p := Population{RoleMeanPoints: make(map[model.Role]float64)}
	if len(riders) == 0 {
		return p
	}

	var cppSum, pointsSum float64
	var cppCount int
	roleSum := make(map[model.Role]float64)
	roleCount := make(map[model.Role]int)
	for _, r := range riders {
		pts := r.PointsFloat()
		if pts > 0 {
			cppSum += r.CostFloat() / pts
			cppCount++
		}
		pointsSum += pts
		p.MaxOwnership = math.Max(p.MaxOwnership, r.Ownership)
		roleSum[r.Role] += pts
		roleCount[r.Role]++
	}
	if cppCount > 0 {
		p.AvgCostPerPoint = cppSum / float64(cppCount)
	}
	p.MeanPoints = pointsSum / float64(len(riders))
	for role, n := range roleCount {
		p.RoleMeanPoints[role] = roleSum[role] / float64(n)
	}
	return p
}

// Option applies a configuration option to the RiskScorer.
type Option func(*RiskScorer)

// WithWeightsFromConfig overrides factor weights by config key. Unknown keys
// and negative weights are ignored.
func WithWeightsFromConfig(weights map[string]float64) Option {
	return func(s *RiskScorer) {
		for _, f := range Factors {
			if w, ok := weights[string(f)]; ok && w >= 0 {
				s.weights[f] = w
			}
		}
	}
}

// WithBands sets the band thresholds: score < lowMax is low, score > highMin
// is high, anything between is medium.
func WithBands(lowMax, highMin float64) Option {
	return func(s *RiskScorer) {
		if lowMax > 0 && highMin >= lowMax {
			s.lowMax = lowMax
			s.highMin = highMin
		}
	}
}

// RiskScorer blends rider sub-scores into an overall risk score.
type RiskScorer struct {
	weights map[Factor]float64
	lowMax  float64
	highMin float64
}

// NewRiskScorer creates a scorer with the default weights
// 0.3/0.1/0.2/0.2/0.2 and bands 0.8/1.2.
func NewRiskScorer(opts ...Option) *RiskScorer {
	s := &RiskScorer{
		weights: map[Factor]float64{
			FactorCostEfficiency: defaultCostEfficiencyWeight,
			FactorOwnership:      defaultOwnershipWeight,
			FactorConsistency:    defaultConsistencyWeight,
			FactorTrend:          defaultTrendWeight,
			FactorRole:           defaultRoleWeight,
		},
		lowMax:  defaultLowMax,
		highMin: defaultHighMin,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns a copy of the factor weights.
func (s *RiskScorer) Weights() map[Factor]float64 {
	out := make(map[Factor]float64, len(s.weights))
	for f, w := range s.weights {
		out[f] = w
	}
	return out
}

// Band buckets an overall score.
func (s *RiskScorer) Band(score float64) Band {
	switch {
	case score < s.lowMax:
		return BandLow
	case score > s.highMin:
		return BandHigh
	default:
		return BandMedium
	}
}

// Score assesses one rider against the population.
func (s *RiskScorer) Score(p Population, r model.Rider) Result {
	b := Breakdown{
		CostEfficiency: CostEfficiencyRisk(p, r),
		Ownership:      OwnershipRisk(p, r),
		Consistency:    ConsistencyRisk(r),
		Trend:          TrendRisk(p, r),
		Role:           RoleRisk(p, r),
	}
	var total float64
	for _, f := range Factors {
		total += s.weights[f] * b.get(f)
	}
	return Result{
		Name:    r.Name,
		Team:    r.Team,
		Role:    r.Role,
		Factors: b,
		Score:   total,
		Band:    s.Band(total),
	}
}

// Assess scores every rider against the population they form, preserving
// input order.
func (s *RiskScorer) Assess(riders []model.Rider) []Result {
	p := NewPopulation(riders)
	out := make([]Result, len(riders))
	for i, r := range riders {
		out[i] = s.Score(p, r)
	}
	return out
}

// CostEfficiencyRisk is the rider's cost per point over the population
// average. Riders without points are treated as having one point; an empty
// baseline yields the neutral 1.
func CostEfficiencyRisk(p Population, r model.Rider) float64 {
	if p.AvgCostPerPoint <= 0 {
		return 1
	}
	pts := math.Max(r.PointsFloat(), 1)
	return (r.CostFloat() / pts) / p.AvgCostPerPoint
}

// OwnershipRisk is 1 - ownership/max ownership; 0 when nobody is owned.
func OwnershipRisk(p Population, r model.Rider) float64 {
	if p.MaxOwnership <= 0 {
		return 0
	}
	return 1 - r.Ownership/p.MaxOwnership
}

// ConsistencyRisk is the coefficient of variation of the rider's daily
// point increments. A zero mean is floored to 1; fewer than one increment
// gives 0.
func ConsistencyRisk(r model.Rider) float64 {
	values := r.HistoryValues()
	if len(values) < 2 {
		return 0
	}
	increments := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		increments[i-1] = values[i] - values[i-1]
	}
	mean, std := stat.PopMeanStdDev(increments, nil)
	if mean == 0 {
		mean = 1
	}
	return std / math.Abs(mean)
}

// RecentForm is the weighted average of the last three history values with
// weights 1, 2, 3 (oldest to newest). Shorter histories use weights 1..k.
// A rider without history falls back to current points.
func RecentForm(r model.Rider) float64 {
	values := r.HistoryValues()
	if len(values) == 0 {
		return r.PointsFloat()
	}
	if len(values) > trendDepth {
		values = values[len(values)-trendDepth:]
	}
	weights := make([]float64, len(values))
	for i := range weights {
		weights[i] = float64(i + 1)
	}
	return stat.Mean(values, weights)
}

// TrendRisk is the population mean points over the rider's recent form.
// Recent form is floored to 1.
func TrendRisk(p Population, r model.Rider) float64 {
	form := RecentForm(r)
	if form < 1 {
		form = 1
	}
	return p.MeanPoints / form
}

// RoleRisk is the population mean points over the mean within the rider's
// role. A zero role mean is floored to 1.
func RoleRisk(p Population, r model.Rider) float64 {
	roleMean := p.RoleMeanPoints[r.Role]
	if roleMean <= 0 {
		roleMean = 1
	}
	return p.MeanPoints / roleMean
}
