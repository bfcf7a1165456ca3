package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-volley-metrics/internal/model"
	"github.com/pable/go-volley-metrics/internal/storage"
)

const (
	pctVerb  = "%.1f%%"
	rateVerb = "%.2f"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func playerName(k model.PlayerKey) string {
	if k.FirstName == "" {
		return k.LastName
	}
	return k.LastName + " " + k.FirstName
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	fmt.Fprintf(w, "\n%s (%s) %d – %d %s (%s)  |  Points: %d – %d  |  File: %s  |  Hash: %s\n\n",
		s.HomeName, s.HomeCode, s.HomeSets, s.AwaySets, s.AwayName, s.AwayCode,
		s.HomePoints, s.AwayPoints, s.Source, shortHash(s.Hash))
}

// PrintMatchList prints one row per stored match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("HASH", "HOME", "AWAY", "SETS", "POINTS", "FILE", "IMPORTED")
	for _, s := range matches {
		table.Append(
			shortHash(s.Hash),
			s.HomeCode,
			s.AwayCode,
			fmt.Sprintf("%d-%d", s.HomeSets, s.AwaySets),
			fmt.Sprintf("%d-%d", s.HomePoints, s.AwayPoints),
			s.Source,
			s.ImportedAt,
		)
	}
	table.Render()
}

// PrintSets prints the set-by-set scores, home perspective.
func PrintSets(w io.Writer, m *model.MatchResult) {
	table := newTable(w)
	table.Header("SET", m.HomeTeam.Code, m.AwayTeam.Code, "WINNER")
	for i, s := range m.Sets {
		winner := m.AwayTeam.Code
		if s.IsWin {
			winner = m.HomeTeam.Code
		}
		table.Append(strconv.Itoa(i+1), strconv.Itoa(s.HomePoints), strconv.Itoa(s.AwayPoints), winner)
	}
	table.Append("TOTAL", strconv.Itoa(m.TotalHomePoints), strconv.Itoa(m.TotalAwayPoints), "")
	table.Render()
}

// PrintMatchStats prints the [3STATS] counters of a match with the
// reconstructed sideouts of both sides.
func PrintMatchStats(w io.Writer, m *model.MatchResult) {
	s := m.Stats
	table := newTable(w)
	table.Header("CATEGORY", "WON", "ATTEMPTS", "%")
	row := func(name string, won, att int) {
		table.Append(name, strconv.Itoa(won), strconv.Itoa(att), model.Percent(won, att).Format(pctVerb))
	}
	row("Points", s.Points, s.TotalPoints)
	row("Break", s.Breaks, s.BreakAttempts)
	row("Serve (aces)", s.Aces, s.Serves)
	row("Sideout", s.Sideouts, s.SideoutAttempts)
	row("Reception", s.Receptions, s.ReceptionAttempts)
	row("Attack (kills)", s.Kills, s.AttackAttempts)
	row("Block", s.Blocks, s.BlockAttempts)
	row("CAR", s.CARs, s.CARAttempts)
	row("Sideout "+m.HomeTeam.Code, m.Sideouts.Home.Points, m.Sideouts.Home.Attempts)
	row("Sideout "+m.AwayTeam.Code, m.Sideouts.Away.Points, m.Sideouts.Away.Attempts)
	table.Render()
}

// PrintMatchPlayers prints the scoring of both rosters of one match.
func PrintMatchPlayers(w io.Writer, m *model.MatchResult) {
	table := newTable(w)
	table.Header("TEAM", "#", "NAME", "ROLE", "SETS", "SRV", "ATT", "BLK", "PTS")
	for _, p := range m.Players() {
		table.Append(
			p.Team.Code,
			p.Number,
			playerName(p.Key()),
			p.Role.String(),
			strconv.Itoa(p.PlayedSets),
			strconv.Itoa(p.ServePoints),
			strconv.Itoa(p.AttackPoints),
			strconv.Itoa(p.BlockPoints),
			strconv.Itoa(p.TotalPoints()),
		)
	}
	table.Render()
}

// PrintDiagnostics lists the lines skipped while decoding a match.
func PrintDiagnostics(w io.Writer, diags []model.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSkipped lines (%d):\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// PrintTeamSummaries prints the cross-match table, one row per team, best
// win rate first.
func PrintTeamSummaries(w io.Writer, sums []model.TeamSummary) {
	sorted := make([]model.TeamSummary, len(sums))
	copy(sorted, sums)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Wins != sorted[j].Wins {
			return sorted[i].Wins > sorted[j].Wins
		}
		return sorted[i].Team.Code < sorted[j].Team.Code
	})

	table := newTable(w)
	table.Header(
		"TEAM", "M", "W", "WIN%", "SETS", "PTS%", "SO%", "BRK%", "ACE%",
		"REC%", "KILL%", "OPP_KILL%", "BLK%", "CAR%", "ACE/S", "KILL/S", "BLK/S",
	)
	for _, s := range sorted {
		table.Append(
			s.Team.Code,
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.Wins),
			s.WinPct.Format(pctVerb),
			fmt.Sprintf("%d-%d", s.WonSets, s.LostSets()),
			s.PointsRatio.Format(pctVerb),
			s.SideoutPct.Format(pctVerb),
			s.BreakPct.Format(pctVerb),
			s.AcePct.Format(pctVerb),
			s.ReceptionPct.Format(pctVerb),
			s.KillPct.Format(pctVerb),
			s.OppKillPct.Format(pctVerb),
			s.BlockPct.Format(pctVerb),
			s.CARPct.Format(pctVerb),
			s.AcesPerSet.Format(rateVerb),
			s.KillsPerSet.Format(rateVerb),
			s.BlocksPerSet.Format(rateVerb),
		)
	}
	table.Render()
}

// PrintTeamRecords prints the stored win/loss records.
func PrintTeamRecords(w io.Writer, recs []storage.TeamRecord) {
	table := newTable(w)
	table.Header("TEAM", "NAME", "M", "W", "L", "SETS")
	for _, r := range recs {
		table.Append(
			r.Code,
			r.Name,
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Matches-r.Wins),
			fmt.Sprintf("%d-%d", r.SetsWon, r.SetsLost),
		)
	}
	table.Render()
}

// PrintScorers prints player points across matches, top scorer first.
func PrintScorers(w io.Writer, totals []model.PlayerTotals) {
	sorted := make([]model.PlayerTotals, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPoints() > sorted[j].TotalPoints()
	})

	table := newTable(w)
	table.Header("TEAM", "#", "NAME", "ROLE", "M", "SETS", "SRV", "ATT", "BLK", "PTS", "PTS/S", "SRV/S", "ATT/S", "BLK/S")
	for _, p := range sorted {
		table.Append(
			p.Key.TeamCode,
			p.Number,
			playerName(p.Key),
			p.Role.String(),
			strconv.Itoa(p.Matches),
			strconv.Itoa(p.PlayedSets),
			strconv.Itoa(p.ServePoints),
			strconv.Itoa(p.AttackPoints),
			strconv.Itoa(p.BlockPoints),
			strconv.Itoa(p.TotalPoints()),
			p.PointsPerSet().Format(rateVerb),
			p.ServePointsPerSet().Format(rateVerb),
			p.AttackPointsPerSet().Format(rateVerb),
			p.BlockPointsPerSet().Format(rateVerb),
		)
	}
	table.Render()
}

// PrintServing prints the serving breakdown, most serves first.
func PrintServing(w io.Writer, rows []model.PlayerServing) {
	sorted := make([]model.PlayerServing, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })

	table := newTable(w)
	table.Header(
		"TEAM", "#", "NAME", "SETS", "TOT", "ACE", "ERR", "+", "-", "ACE%", "ERR%", "EFF%",
		"ACE/S", "ERR/S", "RUN", "JUMP", "JUMP_EFF%", "FLOAT", "FLOAT_EFF%",
	)
	for _, s := range sorted {
		table.Append(
			s.Key.TeamCode,
			s.Number,
			playerName(s.Key),
			strconv.Itoa(s.PlayedSets),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Points),
			strconv.Itoa(s.Mistakes),
			strconv.Itoa(s.Positive),
			strconv.Itoa(s.Negative),
			s.PointPct().Format(pctVerb),
			s.MistakePct().Format(pctVerb),
			s.Efficiency().Format(pctVerb),
			s.PointsPerSet().Format(rateVerb),
			s.MistakesPerSet().Format(rateVerb),
			strconv.Itoa(s.MaxConsecutive),
			strconv.Itoa(s.Jump.Total),
			s.Jump.Efficiency().Format(pctVerb),
			strconv.Itoa(s.Float.Total),
			s.Float.Efficiency().Format(pctVerb),
		)
	}
	table.Render()
}

// PrintReception prints the reception breakdown, most receptions first.
func PrintReception(w io.Writer, rows []model.PlayerReception) {
	sorted := make([]model.PlayerReception, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })

	table := newTable(w)
	table.Header(
		"TEAM", "#", "NAME", "SETS", "TOT", "POS", "NEG", "ERR", "POS%", "NEG%", "ERR%", "EFF%",
		"VS_JUMP", "JUMP_EFF%", "VS_FLOAT", "FLOAT_EFF%",
	)
	for _, s := range sorted {
		table.Append(
			s.Key.TeamCode,
			s.Number,
			playerName(s.Key),
			strconv.Itoa(s.PlayedSets),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Positive),
			strconv.Itoa(s.Negative),
			strconv.Itoa(s.Mistakes),
			s.PositivePct().Format(pctVerb),
			s.NegativePct().Format(pctVerb),
			s.MistakePct().Format(pctVerb),
			s.Efficiency().Format(pctVerb),
			strconv.Itoa(s.Jump.Total),
			s.Jump.Efficiency().Format(pctVerb),
			strconv.Itoa(s.Float.Total),
			s.Float.Efficiency().Format(pctVerb),
		)
	}
	table.Render()
}

// PrintAttack prints the attack breakdown, most kills first.
func PrintAttack(w io.Writer, rows []model.PlayerAttack) {
	sorted := make([]model.PlayerAttack, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Points > sorted[j].Points })

	table := newTable(w)
	table.Header("TEAM", "#", "NAME", "SETS", "TOT", "KILL", "ERR", "BLKD", "+", "-", "KILL%", "ERR%", "BLKD%", "EFF%", "KILL/S")
	for _, s := range sorted {
		table.Append(
			s.Key.TeamCode,
			s.Number,
			playerName(s.Key),
			strconv.Itoa(s.PlayedSets),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Points),
			strconv.Itoa(s.Mistakes),
			strconv.Itoa(s.Blocked),
			strconv.Itoa(s.Positive),
			strconv.Itoa(s.Negative),
			s.KillPct().Format(pctVerb),
			s.MistakePct().Format(pctVerb),
			s.BlockedPct().Format(pctVerb),
			s.Efficiency().Format(pctVerb),
			s.PointsPerSet().Format(rateVerb),
		)
	}
	table.Render()
}

// PrintBlock prints the block breakdown, most block points first.
func PrintBlock(w io.Writer, rows []model.PlayerBlock) {
	sorted := make([]model.PlayerBlock, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Points > sorted[j].Points })

	table := newTable(w)
	table.Header("TEAM", "#", "NAME", "SETS", "TOT", "PTS", "ERR", "+", "-", "PTS%", "EFF%", "PTS/S")
	for _, s := range sorted {
		table.Append(
			s.Key.TeamCode,
			s.Number,
			playerName(s.Key),
			strconv.Itoa(s.PlayedSets),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Points),
			strconv.Itoa(s.Mistakes),
			strconv.Itoa(s.Positive),
			strconv.Itoa(s.Negative),
			s.PointPct().Format(pctVerb),
			s.Efficiency().Format(pctVerb),
			s.PointsPerSet().Format(rateVerb),
		)
	}
	table.Render()
}
