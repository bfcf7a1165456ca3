package aggregator

import (
	"testing"

	"github.com/pable/go-volley-metrics/internal/model"
)

func homeRoster() []model.Player {
	return []model.Player{
		{Number: "6", LastName: "Yilmaz", FirstName: "Ayse", Role: model.RoleOutsideHitter, PlayedSets: 4, Team: teamFEN},
		{Number: "1", LastName: "Libero", FirstName: "Lea", Role: model.RoleLibero, PlayedSets: 4, Team: teamFEN},
		{Number: "12", LastName: "Demir", FirstName: "Zehra", Role: model.RoleMiddleBlocker, PlayedSets: 2, Team: teamFEN},
	}
}

func awayRoster() []model.Player {
	return []model.Player{
		{Number: "10", LastName: "Smith", FirstName: "Ann", Role: model.RoleOpposite, PlayedSets: 4, Team: teamVAK},
	}
}

// ---- Scoring attribution ----

func TestAttributeScoring(t *testing.T) {
	home, away := homeRoster(), awayRoster()
	roster := NewRoster(home, away)

	diags := AttributeScoring(roster, decodeLog(
		"*06SQ#", // ace
		"*06SQ-",
		"*06AH#", // kill
		"*12BH#", // block point
		"*12BH!",
		"a10AH#",
		"a10RQ#", // reception graded '#' is not a point
		"*77AH#", // not on roster
		"*06S",   // no grade
	))

	if home[0].ServePoints != 1 || home[0].AttackPoints != 1 || home[0].BlockPoints != 0 {
		t.Errorf("Yilmaz = %d/%d/%d, want 1/1/0", home[0].ServePoints, home[0].AttackPoints, home[0].BlockPoints)
	}
	if home[2].BlockPoints != 1 || home[2].TotalPoints() != 1 {
		t.Errorf("Demir blocks = %d, want 1", home[2].BlockPoints)
	}
	if away[0].AttackPoints != 1 {
		t.Errorf("Smith attacks = %d, want 1", away[0].AttackPoints)
	}
	if len(diags) != 1 || diags[0].Kind != model.DiagUnresolvedPlayer || diags[0].Line != 8 {
		t.Errorf("diagnostics = %v, want one unresolved player on line 8", diags)
	}
}

func TestRosterLookupPadded(t *testing.T) {
	roster := NewRoster(homeRoster(), awayRoster())
	if p := roster.Lookup(model.SideHome, "06"); p == nil || p.LastName != "Yilmaz" {
		t.Errorf("lookup 06 = %v", p)
	}
	if p := roster.Lookup(model.SideHome, "6"); p == nil {
		t.Error("lookup by unpadded number failed")
	}
	if p := roster.Lookup(model.SideAway, "06"); p != nil {
		t.Errorf("home player resolved on away side: %v", p)
	}
}

// ---- Skill breakdowns ----

func breakdownMatch() *model.MatchResult {
	m := makeMatch(teamFEN, teamVAK, "25-20", "20-25", "25-20", "25-20")
	m.HomePlayers = homeRoster()
	m.AwayPlayers = awayRoster()
	m.RawLines = []string{
		"[3TEAMS]",
		"FEN;Fenerbahce;3",
		"[3SCOUT]",
		"*06SQ#",
		"*06SQ+",
		"*06SM=",
		"*12SH-",
		"*06SQ#",
		"a10RQ+",
		"a10RM/",
		"a10RH=",
		"a10AH#",
		"a10AH/",
		"a10AH=",
		"a10AQ",
		"*12BH#",
		"*12B",
		"*12BH!",
		"*01RQ#",
		"[3ENDSCOUT]",
	}
	return m
}

func TestSkillBreakdowns(t *testing.T) {
	b := SkillBreakdowns([]*model.MatchResult{breakdownMatch()})

	// The libero only appears in the reception table.
	if len(b.Serving) != 3 || len(b.Reception) != 4 || len(b.Attack) != 3 || len(b.Block) != 3 {
		t.Fatalf("table sizes = %d/%d/%d/%d, want 3/4/3/3", len(b.Serving), len(b.Reception), len(b.Attack), len(b.Block))
	}
	for _, r := range b.Serving {
		if r.Key.LastName == "Libero" {
			t.Errorf("libero in serving table: %+v", r)
		}
	}

	yilmaz := b.Serving[0]
	if yilmaz.Total != 4 || yilmaz.Points != 2 || yilmaz.Positive != 1 || yilmaz.Mistakes != 1 {
		t.Errorf("Yilmaz serving = %+v", yilmaz)
	}
	if yilmaz.Jump.Total != 3 || yilmaz.Jump.Points != 2 || yilmaz.Float.Total != 1 || yilmaz.Float.Mistakes != 1 {
		t.Errorf("Yilmaz serve types jump=%+v float=%+v", yilmaz.Jump, yilmaz.Float)
	}
	// The 12 serve breaks the run, so the longest run is the first three.
	if yilmaz.MaxConsecutive != 3 {
		t.Errorf("MaxConsecutive = %d, want 3", yilmaz.MaxConsecutive)
	}
	checkRate(t, "serve efficiency", yilmaz.Efficiency(), 50)
	checkRate(t, "serve points per set", yilmaz.PointsPerSet(), 0.5)

	demir := b.Serving[1]
	if demir.Float.Total != 1 || demir.Negative != 1 {
		t.Errorf("Demir serving: 'H' should count as float, got %+v", demir)
	}

	libRec := b.Reception[1]
	if libRec.Key.LastName != "Libero" || libRec.Total != 1 || libRec.Positive != 1 || libRec.Jump.Total != 1 {
		t.Errorf("libero reception = %+v", libRec)
	}

	smithRec := b.Reception[3]
	if smithRec.Total != 3 || smithRec.Positive != 1 || smithRec.Negative != 1 || smithRec.Mistakes != 1 {
		t.Errorf("Smith reception = %+v", smithRec)
	}
	// Receptions read only 'M' as float.
	if smithRec.Jump.Total != 1 || smithRec.Float.Total != 1 {
		t.Errorf("Smith reception types jump=%+v float=%+v", smithRec.Jump, smithRec.Float)
	}

	smithAtt := b.Attack[2]
	if smithAtt.Total != 3 || smithAtt.Points != 1 || smithAtt.Blocked != 1 || smithAtt.Mistakes != 1 {
		t.Errorf("Smith attack = %+v", smithAtt)
	}
	checkRate(t, "attack efficiency", smithAtt.Efficiency(), -100.0/3)

	demirBlk := b.Block[1]
	if demirBlk.Total != 3 || demirBlk.Points != 1 || demirBlk.Positive != 1 || demirBlk.Negative != 1 {
		t.Errorf("Demir block = %+v", demirBlk)
	}

	if b.Attack[0].Total != 0 || b.Attack[0].KillPct().Valid {
		t.Errorf("Yilmaz never attacked, got %+v", b.Attack[0])
	}
}

func TestSkillBreakdownsSumAcrossMatches(t *testing.T) {
	b := SkillBreakdowns([]*model.MatchResult{breakdownMatch(), breakdownMatch()})
	if len(b.Serving) != 3 {
		t.Fatalf("expected 3 players, got %d", len(b.Serving))
	}
	s := b.Serving[0]
	if s.Total != 8 || s.PlayedSets != 8 || s.MaxConsecutive != 3 {
		t.Errorf("summed serving = %+v", s)
	}
	if lib := b.Reception[1]; lib.Total != 2 || lib.PlayedSets != 8 {
		t.Errorf("summed libero reception = %+v", lib)
	}
}
