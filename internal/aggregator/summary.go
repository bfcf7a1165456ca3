package aggregator

import "github.com/pable/go-volley-metrics/internal/model"

// Teams returns every team that appears in matches, unique by code, in
// order of first appearance (home before away). The first name seen wins.
func Teams(matches []*model.MatchResult) []model.Team {
	seen := make(map[string]bool)
	var out []model.Team
	for _, m := range matches {
		for _, t := range []model.Team{m.HomeTeam, m.AwayTeam} {
			if seen[t.Code] {
				continue
			}
			seen[t.Code] = true
			out = append(out, t)
		}
	}
	return out
}

// Summarize computes a TeamSummary for every team in matches. Rates are
// taken over counters summed across the team's matches, never averaged per
// match, and are unavailable when their denominator is zero.
func Summarize(matches []*model.MatchResult) []model.TeamSummary {
	teams := Teams(matches)
	out := make([]model.TeamSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, SummarizeTeam(t, matches))
	}
	return out
}

// SummarizeTeam folds the matches involving t into one summary.
//
// The [3STATS] counters are summed as recorded, and they are always the home
// side's figures: when t played away, its points, break, serve, reception,
// attack, block and CAR counters (and every rate built on them) are those of
// its opponent. Only sideouts are per side: they use t's own reconstructed
// tally for each match.
func SummarizeTeam(t model.Team, matches []*model.MatchResult) model.TeamSummary {
	s := model.TeamSummary{Team: t}

	for _, m := range matches {
		side := m.SideOf(t.Code)
		if side == model.SideUnknown {
			continue
		}
		s.Matches++
		s.Sets += len(m.Sets)

		homeSets, awaySets := m.SetWins()
		if side == model.SideHome {
			s.WonSets += homeSets
			s.WonPoints += m.TotalHomePoints
			s.LostPoints += m.TotalAwayPoints
			if m.IsWin {
				s.Wins++
			}
		} else {
			s.WonSets += awaySets
			s.WonPoints += m.TotalAwayPoints
			s.LostPoints += m.TotalHomePoints
			if !m.IsWin {
				s.Wins++
			}
		}

		stats := m.Stats
		so := m.Sideouts.For(side)
		stats.Sideouts, stats.SideoutAttempts = so.Points, so.Attempts
		s.Totals = s.Totals.Add(stats)
	}

	tot := s.Totals
	s.WinPct = model.Percent(s.Wins, s.Matches)
	s.PointsRatio = model.Percent(tot.Points, tot.TotalPoints)
	s.SideoutPct = model.Percent(tot.Sideouts, tot.SideoutAttempts)
	s.BreakPct = model.Percent(tot.Breaks, tot.BreakAttempts)
	s.AcePct = model.Percent(tot.Aces, tot.Serves)
	s.ReceptionPct = model.Percent(tot.Receptions, tot.ReceptionAttempts)
	s.KillPct = model.Percent(tot.Kills, tot.AttackAttempts)
	s.OppKillPct = model.Percent(tot.AttackAttempts-tot.Kills, tot.AttackAttempts)
	s.BlockPct = model.Percent(tot.Blocks, tot.BlockAttempts)
	s.CARPct = model.Percent(tot.CARs, tot.CARAttempts)

	s.AcesPerSet = model.PerUnit(tot.Aces, s.Sets)
	s.KillsPerSet = model.PerUnit(tot.Kills, s.Sets)
	s.BlocksPerSet = model.PerUnit(tot.Blocks, s.Sets)
	return s
}

// PlayerTotalsAcross carries played sets and scoring points per player
// identity across matches. Liberos are left out.
func PlayerTotalsAcross(matches []*model.MatchResult) []model.PlayerTotals {
	index := make(map[model.PlayerKey]int)
	var out []model.PlayerTotals
	for _, m := range matches {
		for _, p := range m.Players() {
			if p.Role == model.RoleLibero {
				continue
			}
			k := p.Key()
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, model.PlayerTotals{Key: k, Number: p.Number, Role: p.Role})
			}
			t := &out[i]
			t.Matches++
			t.PlayedSets += p.PlayedSets
			t.ServePoints += p.ServePoints
			t.AttackPoints += p.AttackPoints
			t.BlockPoints += p.BlockPoints
		}
	}
	return out
}
