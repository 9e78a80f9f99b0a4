package analytics

import "github.com/okian/peloton/internal/domain/model"

// Award is one MVP or MIP pick.
type Award struct {
	Name string     `json:"name"`
	Date model.Date `json:"date"`
	// Value is points added for the MVP; for the MIP it is the percentage
	// increase, or points added when FromZero is set.
	Value    float64 `json:"value"`
	FromZero bool    `json:"from_zero,omitempty"`
}

// Highlights groups the computed awards of the latest day with the award
// histories supplied by the snapshot.
type Highlights struct {
	LatestDate model.Date        `json:"latest_date"`
	MVP        *Award            `json:"mvp,omitempty"`
	MIP        *Award            `json:"mip,omitempty"`
	MVPHistory []model.Highlight `json:"mvp_history"`
	MIPHistory []model.Highlight `json:"mip_history"`
}

// LatestDay returns the latest date found at the end of any rider history.
func LatestDay(riders []model.Rider) (model.Date, bool) {
	var latest model.Date
	found := false
	for _, r := range riders {
		if len(r.PointHistory) == 0 {
			continue
		}
		d := r.PointHistory[len(r.PointHistory)-1].Date
		if !found || d.After(latest.Time) {
			latest = d
			found = true
		}
	}
	return latest, found
}

// MostValuable picks, for the latest day, the rider who added the most
// points (MVP) and the rider with the largest relative gain (MIP). Riders
// jumping from zero are preferred for the MIP and compared on points added.
// Either award is nil when nobody gained on that day.
func MostValuable(riders []model.Rider) (mvp, mip *Award) {
	latest, ok := LatestDay(riders)
	if !ok {
		return nil, nil
	}
	latestDay := latest.Day()
	for _, r := range riders {
		h := r.PointHistory
		for i := 1; i < len(h); i++ {
			if h[i].Date.Day() != latestDay {
				continue
			}
			prev := h[i-1].Points.InexactFloat64()
			cur := h[i].Points.InexactFloat64()
			added := cur - prev
			if added > 0 && (mvp == nil || added > mvp.Value) {
				mvp = &Award{Name: r.Name, Date: h[i].Date, Value: added}
			}
			switch {
			case prev == 0 && cur > 0:
				if mip == nil || !mip.FromZero || added > mip.Value {
					mip = &Award{Name: r.Name, Date: h[i].Date, Value: added, FromZero: true}
				}
			case prev > 0 && added > 0:
				pct := added / prev * 100
				if mip == nil || (!mip.FromZero && pct > mip.Value) {
					mip = &Award{Name: r.Name, Date: h[i].Date, Value: pct}
				}
			}
		}
	}
	return mvp, mip
}

// BuildHighlights computes the awards and attaches the stored histories.
func BuildHighlights(s *model.Snapshot) Highlights {
	h := Highlights{
		MVPHistory: nonNil(s.MVPHistory),
		MIPHistory: nonNil(s.MIPHistory),
	}
	h.LatestDate, _ = LatestDay(s.Riders)
	h.MVP, h.MIP = MostValuable(s.Riders)
	return h
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
