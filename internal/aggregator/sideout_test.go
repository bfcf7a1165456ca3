package aggregator

import (
	"testing"

	"github.com/pable/go-volley-metrics/internal/dvw"
	"github.com/pable/go-volley-metrics/internal/model"
)

// decodeLog turns rally-log text lines into actions the way the parser does.
func decodeLog(lines ...string) []model.RallyAction {
	in := make([]dvw.Line, len(lines))
	for i, l := range lines {
		in[i] = dvw.Line{No: i + 1, Text: l}
	}
	return dvw.DecodeScout(in).Actions
}

// ---- Sideout reconstruction ----

func TestSideoutOnlyReceivingTeamCounts(t *testing.T) {
	tally := ReconstructSideouts(decodeLog(
		"*06SQ-", // home serves
		"a10RQ+", // away receives: attempt
		"a03EH+", // away sets: transition
		"a10AH#", // away kills: point
	))

	if tally.Away != (model.SideoutCount{Points: 1, Attempts: 1}) {
		t.Errorf("away = %+v, want 1/1", tally.Away)
	}
	if tally.Home != (model.SideoutCount{}) {
		t.Errorf("home = %+v, want 0/0", tally.Home)
	}
	if tally.LastServer != model.SideHome {
		t.Errorf("LastServer = %v, want home", tally.LastServer)
	}
}

func TestSideoutNeedsImmediateSuccession(t *testing.T) {
	tally := ReconstructSideouts(decodeLog(
		"*06SQ-",
		"a10DQ+", // dig, not a reception: window closes
		"a10RQ+",
		"a03EH+",
		"a10AH#",
	))
	if tally.Away != (model.SideoutCount{}) {
		t.Errorf("away = %+v, want 0/0 when the reception does not follow the serve", tally.Away)
	}
}

func TestSideoutAttemptWithoutPoint(t *testing.T) {
	cases := map[string][]string{
		"attack not a kill":        {"a01SQ-", "*06RQ+", "*03EH+", "*06AH-"},
		"kill by serving side":     {"a01SQ-", "*06RQ+", "*03EH+", "a10AH#"},
		"rally continues":          {"a01SQ-", "*06RQ+", "*03EH+", "*06DH+", "*06AH#"},
		"ungraded attack":          {"a01SQ-", "*06RQ+", "*03EH+", "*06AH"},
		"short line breaks window": {"a01SQ-", "*06RQ+", "x", "*03EH+", "*06AH#"},
	}
	for name, log := range cases {
		t.Run(name, func(t *testing.T) {
			tally := ReconstructSideouts(decodeLog(log...))
			if tally.Home != (model.SideoutCount{Attempts: 1}) {
				t.Errorf("home = %+v, want 0/1", tally.Home)
			}
			if tally.Away != (model.SideoutCount{}) {
				t.Errorf("away = %+v, want 0/0", tally.Away)
			}
		})
	}
}

func TestSideoutAttackAsTransition(t *testing.T) {
	// A first-tempo attack opens the transition; the kill must follow it.
	tally := ReconstructSideouts(decodeLog(
		"a01SQ-",
		"*06RQ+",
		"*06AH-",
		"*06AH#",
	))
	if tally.Home != (model.SideoutCount{Points: 1, Attempts: 1}) {
		t.Errorf("home = %+v, want 1/1", tally.Home)
	}
}

func TestSideoutEmptyLog(t *testing.T) {
	tally := ReconstructSideouts(nil)
	if tally != (model.SideoutTally{}) {
		t.Errorf("tally = %+v, want zero", tally)
	}
}

func TestSideoutUngradedServeIgnored(t *testing.T) {
	tally := ReconstructSideouts(decodeLog(
		"*06S", // too short to carry a grade
		"a10RQ+",
		"a03EH+",
		"a10AH#",
	))
	if tally.Away != (model.SideoutCount{}) {
		t.Errorf("away = %+v, want 0/0 after an ungraded serve", tally.Away)
	}
	if tally.LastServer != model.SideUnknown {
		t.Errorf("LastServer = %v, want unknown", tally.LastServer)
	}
}

func TestSideoutTrailingUngradedServeKeepsLastServer(t *testing.T) {
	tally := ReconstructSideouts(decodeLog(
		"a10SQ-",
		"*06RQ+",
		"*03EH+",
		"*06AH#",
		"*06S",
	))
	if tally.Home != (model.SideoutCount{Points: 1, Attempts: 1}) {
		t.Errorf("home = %+v, want 1/1", tally.Home)
	}
	if tally.LastServer != model.SideAway {
		t.Errorf("LastServer = %v, want away", tally.LastServer)
	}

	stats, _ := BuildTeamStats(nil, tally)
	if stats.Sideouts != 1 || stats.SideoutAttempts != 1 {
		t.Errorf("sideouts = %d/%d, want 1/1", stats.Sideouts, stats.SideoutAttempts)
	}
}

// ---- Team stats ----

func TestBuildTeamStatsUsesReconstructedSideouts(t *testing.T) {
	lines := []dvw.Line{
		{No: 1, Text: "0;Points;70;130"},
		{No: 2, Text: "0;Break;20;60"},
		{No: 3, Text: "0;Serve;5;65"},
		{No: 4, Text: "0;Sideout;99;99"},
		{No: 5, Text: "0;Reception;30;60"},
		{No: 6, Text: "0;Attack;40;100"},
		{No: 7, Text: "0;Block;8;40"},
		{No: 8, Text: "0;CAR;12;20"},
		{No: 9, Text: "0;Attack"},
		{No: 10, Text: "0;Dig;x;y"},
		{No: 11, Text: "0;Unknown;1;2"},
	}
	tally := model.SideoutTally{
		Home:       model.SideoutCount{Points: 3, Attempts: 5},
		Away:       model.SideoutCount{Points: 7, Attempts: 9},
		LastServer: model.SideHome,
	}

	stats, diags := BuildTeamStats(lines, tally)

	want := model.TeamStats{
		Points: 70, TotalPoints: 130,
		Breaks: 20, BreakAttempts: 60,
		Aces: 5, Serves: 65,
		Sideouts: 7, SideoutAttempts: 9,
		Receptions: 30, ReceptionAttempts: 60,
		Kills: 40, AttackAttempts: 100,
		Blocks: 8, BlockAttempts: 40,
		CARs: 12, CARAttempts: 20,
	}
	if stats != want {
		t.Errorf("stats = %+v\nwant   %+v", stats, want)
	}
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	if diags[0].Line != 9 || diags[1].Line != 10 {
		t.Errorf("diagnostic lines = %d, %d; want 9, 10", diags[0].Line, diags[1].Line)
	}
}

func TestBuildTeamStatsNoServerFallsBackToHome(t *testing.T) {
	tally := model.SideoutTally{Home: model.SideoutCount{Points: 2, Attempts: 4}}
	stats, _ := BuildTeamStats(nil, tally)
	if stats.Sideouts != 2 || stats.SideoutAttempts != 4 {
		t.Errorf("sideouts = %d/%d, want 2/4", stats.Sideouts, stats.SideoutAttempts)
	}
}
