package analytics

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/peloton/internal/domain/model"
)

// infinityLabel is the JSON form of the infinite cost-per-point.
const infinityLabel = "Infinity"

// CostPerPoint is the credits a rider costs per point scored. Riders without
// points have the Infinite value, which orders after every finite ratio.
type CostPerPoint struct {
	ratio    float64
	infinite bool
}

// Infinite is the cost-per-point of a rider with no points.
var Infinite = CostPerPoint{infinite: true}

// Finite returns a finite cost-per-point.
func Finite(ratio float64) CostPerPoint {
	return CostPerPoint{ratio: ratio}
}

// ComputeCostPerPoint returns cost/points, or Infinite when points <= 0.
func ComputeCostPerPoint(r model.Rider) CostPerPoint {
	if !r.Points.IsPositive() {
		return Infinite
	}
	return Finite(r.Cost.Div(r.Points).InexactFloat64())
}

// IsInfinite reports whether c is the infinite marker.
func (c CostPerPoint) IsInfinite() bool { return c.infinite }

// Ratio returns the finite ratio and false for Infinite.
func (c CostPerPoint) Ratio() (float64, bool) {
	return c.ratio, !c.infinite
}

// Less orders finite ratios ascending with Infinite last. Two Infinite
// values are equal.
func (c CostPerPoint) Less(o CostPerPoint) bool {
	switch {
	case c.infinite:
		return false
	case o.infinite:
		return true
	default:
		return c.ratio < o.ratio
	}
}

func (c CostPerPoint) String() string {
	if c.infinite {
		return "∞"
	}
	return fmt.Sprintf("%.2f", c.ratio)
}

// MarshalJSON encodes finite ratios as numbers and Infinite as "Infinity".
func (c CostPerPoint) MarshalJSON() ([]byte, error) {
	if c.infinite {
		return json.Marshal(infinityLabel)
	}
	return json.Marshal(c.ratio)
}

// UnmarshalJSON accepts a number or "Infinity".
func (c *CostPerPoint) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != infinityLabel {
			return fmt.Errorf("invalid cost per point %q", s)
		}
		*c = Infinite
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = Finite(v)
	return nil
}

// RiderEfficiency is a rider with its derived cost-per-point.
type RiderEfficiency struct {
	Name         string          `json:"name"`
	Team         string          `json:"team"`
	Role         model.Role      `json:"role"`
	Cost         decimal.Decimal `json:"cost"`
	Points       decimal.Decimal `json:"points"`
	Ownership    float64         `json:"ownership"`
	CostPerPoint CostPerPoint    `json:"cost_per_point"`
}

// RankByEfficiency sorts riders by ascending cost-per-point. The sort is
// stable: equal ratios, and all Infinite riders, keep their input order.
func RankByEfficiency(riders []model.Rider) []RiderEfficiency {
	out := make([]RiderEfficiency, len(riders))
	for i, r := range riders {
		out[i] = RiderEfficiency{
			Name:         r.Name,
			Team:         r.Team,
			Role:         r.Role,
			Cost:         r.Cost,
			Points:       r.Points,
			Ownership:    r.Ownership,
			CostPerPoint: ComputeCostPerPoint(r),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CostPerPoint.Less(out[j].CostPerPoint)
	})
	return out
}

// TopEfficiency returns the n most efficient riders. n <= 0 returns all.
func TopEfficiency(riders []model.Rider, n int) []RiderEfficiency {
	ranked := RankByEfficiency(riders)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
