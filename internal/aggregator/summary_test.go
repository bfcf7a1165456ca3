package aggregator

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/pable/go-volley-metrics/internal/model"
)

var (
	teamFEN = model.Team{Code: "FEN", Name: "Fenerbahce"}
	teamVAK = model.Team{Code: "VAK", Name: "Vakifbank"}
	teamECZ = model.Team{Code: "ECZ", Name: "Eczacibasi"}
)

// makeMatch builds a minimal MatchResult from "H-A" set scores.
func makeMatch(home, away model.Team, scores ...string) *model.MatchResult {
	m := &model.MatchResult{Hash: home.Code + away.Code, HomeTeam: home, AwayTeam: away}
	homeSets := 0
	for _, s := range scores {
		hs, as, _ := strings.Cut(s, "-")
		h, _ := strconv.Atoi(hs)
		a, _ := strconv.Atoi(as)
		m.Sets = append(m.Sets, model.SetResult{Score: s, IsWin: h > a, HomePoints: h, AwayPoints: a})
		m.TotalHomePoints += h
		m.TotalAwayPoints += a
		if h > a {
			homeSets++
		}
	}
	m.IsWin = homeSets == 3
	return m
}

// ---- Cross-match summary ----

func TestTeamsFirstAppearance(t *testing.T) {
	matches := []*model.MatchResult{
		makeMatch(teamFEN, teamVAK, "25-20", "25-20", "25-20"),
		makeMatch(teamECZ, model.Team{Code: "FEN", Name: "Other"}, "25-20", "25-20", "25-20"),
	}
	got := Teams(matches)
	want := []model.Team{teamFEN, teamVAK, teamECZ}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Teams = %v, want %v", got, want)
	}
}

func TestSummarizeTeamHomeAndAway(t *testing.T) {
	m1 := makeMatch(teamFEN, teamVAK, "25-20", "20-25", "25-22", "18-25", "15-10")
	m1.Stats = model.TeamStats{Aces: 4, Serves: 80, Kills: 50, AttackAttempts: 120, Blocks: 10, BlockAttempts: 50}
	m1.Sideouts = model.SideoutTally{
		Home: model.SideoutCount{Points: 30, Attempts: 50},
		Away: model.SideoutCount{Points: 35, Attempts: 55},
	}
	m2 := makeMatch(teamVAK, teamFEN, "25-20", "25-20", "25-20")
	m2.Stats = model.TeamStats{Aces: 2, Serves: 60, Kills: 30, AttackAttempts: 80, Blocks: 5, BlockAttempts: 30}
	m2.Sideouts = model.SideoutTally{
		Home: model.SideoutCount{Points: 20, Attempts: 30},
		Away: model.SideoutCount{Points: 10, Attempts: 40},
	}

	s := SummarizeTeam(teamFEN, []*model.MatchResult{m1, m2})

	if s.Matches != 2 || s.Wins != 1 {
		t.Errorf("matches/wins = %d/%d, want 2/1", s.Matches, s.Wins)
	}
	if s.Sets != 8 || s.WonSets != 3 || s.LostSets() != 5 {
		t.Errorf("sets = %d won %d lost %d, want 8/3/5", s.Sets, s.WonSets, s.LostSets())
	}
	if s.WonPoints != 103+60 || s.LostPoints != 102+75 {
		t.Errorf("points = %d/%d", s.WonPoints, s.LostPoints)
	}
	// FEN received as home in m1 and as away in m2.
	if s.Totals.Sideouts != 40 || s.Totals.SideoutAttempts != 90 {
		t.Errorf("sideouts = %d/%d, want 40/90", s.Totals.Sideouts, s.Totals.SideoutAttempts)
	}
	// Stats counters are home-perspective: m2 contributes VAK's figures as recorded.
	if s.Totals.Kills != 80 || s.Totals.AttackAttempts != 200 {
		t.Errorf("attack = %d/%d, want 80/200", s.Totals.Kills, s.Totals.AttackAttempts)
	}

	checkRate(t, "WinPct", s.WinPct, 50)
	checkRate(t, "KillPct", s.KillPct, 40)
	checkRate(t, "OppKillPct", s.OppKillPct, 60)
	checkRate(t, "AcePct", s.AcePct, 6/140.0*100)
	checkRate(t, "BlockPct", s.BlockPct, 15/80.0*100)
	checkRate(t, "KillsPerSet", s.KillsPerSet, 10)
	checkRate(t, "BlocksPerSet", s.BlocksPerSet, 15/8.0)

	if s.BreakPct.Valid {
		t.Errorf("BreakPct should be unavailable with zero attempts, got %v", s.BreakPct)
	}
	if s.CARPct.Valid || s.CARPct.Format("%.1f%%") != "—" {
		t.Errorf("CARPct should render as unavailable, got %q", s.CARPct.Format("%.1f%%"))
	}
}

func checkRate(t *testing.T, name string, r model.Rate, want float64) {
	t.Helper()
	if !r.Valid {
		t.Errorf("%s unavailable, want %.3f", name, want)
		return
	}
	if d := r.Value - want; d > 1e-9 || d < -1e-9 {
		t.Errorf("%s = %.6f, want %.6f", name, r.Value, want)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	matches := []*model.MatchResult{
		makeMatch(teamFEN, teamVAK, "25-20", "25-20", "25-20"),
		makeMatch(teamECZ, teamFEN, "25-20", "20-25", "25-20", "25-20"),
	}
	first := Summarize(matches)
	second := Summarize(matches)
	if !reflect.DeepEqual(first, second) {
		t.Error("Summarize is not deterministic")
	}
	if len(first) != 3 || first[0].Team != teamFEN {
		t.Errorf("unexpected summary order: %v", first)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("expected no summaries, got %d", len(got))
	}
	s := SummarizeTeam(teamFEN, nil)
	if s.WinPct.Valid || s.AcesPerSet.Valid {
		t.Error("rates over zero matches must be unavailable")
	}
}

// ---- Player totals ----

func TestPlayerTotalsAcrossSkipsLiberos(t *testing.T) {
	m1 := makeMatch(teamFEN, teamVAK, "25-20", "25-20", "25-20")
	m1.HomePlayers = []model.Player{
		{Number: "6", LastName: "Yilmaz", FirstName: "Ayse", Role: model.RoleOutsideHitter, PlayedSets: 3, ServePoints: 2, AttackPoints: 10, Team: teamFEN},
		{Number: "1", LastName: "Libero", FirstName: "Lea", Role: model.RoleLibero, PlayedSets: 3, Team: teamFEN},
	}
	m2 := makeMatch(teamVAK, teamFEN, "25-20", "25-20", "25-20")
	m2.AwayPlayers = []model.Player{
		{Number: "6", LastName: "Yilmaz", FirstName: "Ayse", Role: model.RoleOutsideHitter, PlayedSets: 2, BlockPoints: 3, Team: teamFEN},
	}

	totals := PlayerTotalsAcross([]*model.MatchResult{m1, m2})
	if len(totals) != 1 {
		t.Fatalf("expected 1 player, got %d", len(totals))
	}
	p := totals[0]
	if p.Matches != 2 || p.PlayedSets != 5 || p.TotalPoints() != 15 {
		t.Errorf("totals = %+v", p)
	}
	checkRate(t, "PointsPerSet", p.PointsPerSet(), 3)
}
