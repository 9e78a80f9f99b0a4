package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/peloton/internal/domain/analytics"
)

const (
	tabMinWidth = 0
	tabWidth    = 4
	tabPadding  = 2
)

// renderer writes aligned text tables, remembering the first write error.
type renderer struct {
	w   io.Writer
	top int
	err error
}

func (r *renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// table writes a titled table; rows are tab separated cells.
func (r *renderer) table(title string, columns []string, rows [][]string) {
	r.printf("\n%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
	if r.err != nil {
		return
	}
	if len(rows) == 0 {
		r.printf("(none)\n")
		return
	}
	tw := tabwriter.NewWriter(r.w, tabMinWidth, tabWidth, tabPadding, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	r.err = tw.Flush()
}

func (r *renderer) header(runID, source string, rep *analytics.Report) {
	s := rep.Summary
	r.printf("Season report %s\nsource: %s\n", runID, source)
	r.printf("riders: %d  teams: %d  league teams: %d  withdrawals: %d  join misses: %d\n",
		s.Riders, s.Teams, s.LeagueTeams, s.Withdrawals, rep.JoinMisses)
	r.printf("average cost: %s  average points: %s\n", measure(s.AverageCost, 2), measure(s.AveragePoints, 1))
}

func (r *renderer) render(rep *analytics.Report) {
	r.standings(rep)
	r.trends(rep)
	r.efficiency(rep)
	r.risk(rep)
	r.teams(rep)
	r.roles(rep)
	r.highlights(rep)
	r.dreamTeam("Dream team", rep.DreamTeam)
	r.dreamTeam("All-star team", rep.AllStarTeam)
	r.withdrawals(rep)
}

func (r *renderer) standings(rep *analytics.Report) {
	balance := make(map[string]analytics.TeamBalance, len(rep.Balance))
	for _, b := range rep.Balance {
		balance[b.Team] = b
	}
	relative := make(map[string]analytics.Measure, len(rep.Relative))
	for _, e := range rep.Relative {
		relative[e.Team] = e.Relative
	}
	rows := make([][]string, 0, len(rep.Standings))
	for _, e := range rep.Standings {
		rows = append(rows, []string{
			fmt.Sprint(e.Rank), e.Name, fmt.Sprintf("%.0f", e.Score),
			measure(relative[e.Name], 1) + "%", measure(balance[e.Name].Balance, 1),
		})
	}
	r.table("League standings", []string{"#", "TEAM", "POINTS", "VS MEAN", "BALANCE"}, rows)
	if rep.MostBalanced != nil && rep.LeastBalanced != nil {
		r.printf("most balanced: %s  least balanced: %s\n", rep.MostBalanced.Team, rep.LeastBalanced.Team)
	}
}

func (r *renderer) trends(rep *analytics.Report) {
	rows := make([][]string, 0, len(rep.Trends))
	for _, t := range rep.Trends {
		if t.Projection == nil {
			rows = append(rows, []string{t.Team, "-", "-", "-", t.Reason})
			continue
		}
		p := t.Projection
		rows = append(rows, []string{
			t.Team, fmt.Sprintf("%.0f", p.LastPoints), fmt.Sprintf("%+.1f/day", p.Line.Slope),
			fmt.Sprintf("%.0f", p.Projected), measure(p.RSquared, 2),
		})
	}
	r.table("League trends", []string{"TEAM", "LAST", "SLOPE", "PROJECTED", "R²"}, rows)
}

func (r *renderer) efficiency(rep *analytics.Report) {
	rows := make([][]string, 0, r.top)
	for _, e := range head(rep.TopEfficiency, r.top) {
		rows = append(rows, []string{e.Name, e.Team, e.Role.String(), e.Cost.String(), e.Points.String(), e.CostPerPoint.String()})
	}
	r.table("Best value riders", []string{"RIDER", "TEAM", "ROLE", "COST", "POINTS", "COST/POINT"}, rows)
}

func (r *renderer) risk(rep *analytics.Report) {
	rows := make([][]string, 0, r.top)
	for _, e := range head(rep.Risk, r.top) {
		rows = append(rows, []string{e.Name, e.Role.String(), fmt.Sprintf("%.2f", e.Score), string(e.Band)})
	}
	r.table("Highest risk riders", []string{"RIDER", "ROLE", "SCORE", "BAND"}, rows)
}

func (r *renderer) teams(rep *analytics.Report) {
	rows := make([][]string, 0, len(rep.Teams))
	for _, t := range rep.Teams {
		rows = append(rows, []string{t.Team, fmt.Sprint(t.Riders), t.Cost.String(), t.Points.String(), measure(t.Efficiency, 2)})
	}
	r.table("Professional teams", []string{"TEAM", "RIDERS", "COST", "POINTS", "POINTS/CREDIT"}, rows)
}

func (r *renderer) roles(rep *analytics.Report) {
	rows := make([][]string, 0, len(rep.Roles))
	for _, s := range rep.Roles {
		rows = append(rows, []string{s.Role.String(), fmt.Sprint(s.Count)})
	}
	r.table("Roles", []string{"ROLE", "RIDERS"}, rows)
}

func (r *renderer) highlights(rep *analytics.Report) {
	h := rep.Highlights
	var rows [][]string
	if h.MVP != nil {
		rows = append(rows, []string{"MVP", h.MVP.Name, fmt.Sprintf("+%.0f points", h.MVP.Value)})
	}
	if h.MIP != nil {
		gain := fmt.Sprintf("+%.1f%%", h.MIP.Value)
		if h.MIP.FromZero {
			gain = "from zero"
		}
		rows = append(rows, []string{"MIP", h.MIP.Name, gain})
	}
	title := "Highlights"
	if day := h.LatestDate.Day(); day != "" {
		title += " " + day
	}
	r.table(title, []string{"AWARD", "RIDER", "GAIN"}, rows)
}

func (r *renderer) dreamTeam(title string, v analytics.LineupView) {
	if !v.Available {
		r.table(title, nil, nil)
		return
	}
	rows := make([][]string, 0, len(v.Slots))
	for _, s := range v.Slots {
		rows = append(rows, []string{fmt.Sprint(s.Position), s.Rider.Name, s.Rider.Role.String(), s.Rider.Cost.String(), s.Rider.Points.String()})
	}
	r.table(title, []string{"#", "RIDER", "ROLE", "COST", "POINTS"}, rows)
	r.printf("total cost: %s  total points: %s\n", v.TotalCost, v.TotalPoints)
}

func (r *renderer) withdrawals(rep *analytics.Report) {
	rows := make([][]string, 0, len(rep.Withdrawals))
	for _, w := range rep.Withdrawals {
		rows = append(rows, []string{fmt.Sprint(w.Stage), w.Name, w.Team})
	}
	r.table("Withdrawals", []string{"STAGE", "RIDER", "TEAM"}, rows)
}

func measure(m analytics.Measure, digits int) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", digits, m.Value)
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
