package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/dvw"
	"github.com/pable/go-volley-metrics/internal/logging"
	"github.com/pable/go-volley-metrics/internal/model"
)

// rosterLine builds a 15-field roster record.
func rosterLine(number, last, first, role string, sets ...string) string {
	f := make([]string, rosterMinFields)
	f[0] = "0"
	f[rosterNumberField] = number
	for i, s := range sets {
		f[rosterFirstSetField+i] = s
	}
	f[rosterLastNameField] = last
	f[rosterFirstNameField] = first
	f[rosterRoleField] = role
	return strings.Join(f, ";")
}

// matchFile assembles a DVW file with the given set scores and rally log.
func matchFile(scores []string, scout ...string) string {
	var b strings.Builder
	b.WriteString("[3DATAVOLLEYSCOUT]\r\n")
	b.WriteString("[3TEAMS]\r\n")
	b.WriteString("FEN;Fenerbah\xe7e;3;Coach;;\r\n")
	b.WriteString("VAK;Vak\xfdfbank;2;Coach;;\r\n")
	b.WriteString("[3MORE]\r\n")
	b.WriteString("[3SET]\r\n")
	for _, s := range scores {
		b.WriteString("True;;;;" + s + ";\r\n")
	}
	b.WriteString("[3PLAYERS-H]\r\n")
	b.WriteString(rosterLine("6", "Y\xfdlmaz", "Ay\xfee", "2", "1", "2", "3") + "\r\n")
	b.WriteString(rosterLine("1", "Libero", "Lea", "1", "1", "2", "3") + "\r\n")
	b.WriteString("[3PLAYERS-V]\r\n")
	b.WriteString(rosterLine("10", "Smith", "Ann", "4", "1", "2") + "\r\n")
	b.WriteString("[3ATTACKCOMBINATION]\r\n")
	b.WriteString("X5;2;H;Q;\r\n")
	b.WriteString("[3STATS]\r\n")
	b.WriteString("0;Points;75;140\r\n")
	b.WriteString("0;Serve;6;70\r\n")
	b.WriteString("0;Sideout;99;99\r\n")
	b.WriteString("0;Attack;40;90\r\n")
	b.WriteString("[3SCOUT]\r\n")
	for _, l := range scout {
		b.WriteString(l + "\r\n")
	}
	b.WriteString("[3ENDSCOUT]\r\n")
	return b.String()
}

var fiveSets = []string{"25-20", "20-25", "25-22", "18-25", "15-10"}

func TestValidSetScore(t *testing.T) {
	cases := []struct {
		h, a int
		want bool
	}{
		{24, 23, false},
		{25, 24, false},
		{25, 23, true},
		{26, 24, true},
		{15, 13, true},
		{23, 25, true},
		{14, 12, false},
		{0, 0, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ValidSetScore(c.h, c.a), "%d-%d", c.h, c.a)
	}
}

func TestDecodeSets(t *testing.T) {
	lines := []dvw.Line{
		{No: 1, Text: "True;;;;25-20;"},
		{No: 2, Text: "True;;;;25-24;"},
		{No: 3, Text: "True;;;;abc;"},
		{No: 4, Text: "False;;;;25-20;"},
		{No: 5, Text: "True;;;; ;"},
		{No: 6, Text: "True;;;;13-15;"},
	}
	sets, diags := DecodeSets(lines)

	require.Len(t, sets, 2)
	assert.Equal(t, model.SetResult{Score: "25-20", IsWin: true, HomePoints: 25, AwayPoints: 20}, sets[0])
	assert.False(t, sets[1].IsWin)
	require.Len(t, diags, 2)
	assert.Equal(t, model.DiagInvalidSet, diags[0].Kind)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, model.DiagMalformedLine, diags[1].Kind)
}

func TestMatchOutcome(t *testing.T) {
	sets, _ := DecodeSets(setLines(fiveSets))
	homeWon, ok := MatchOutcome(sets)
	assert.True(t, ok)
	assert.True(t, homeWon)

	sets, _ = DecodeSets(setLines([]string{"20-25", "22-25", "25-27"}))
	homeWon, ok = MatchOutcome(sets)
	assert.True(t, ok)
	assert.False(t, homeWon)

	sets, _ = DecodeSets(setLines([]string{"25-20", "25-20"}))
	_, ok = MatchOutcome(sets)
	assert.False(t, ok)
}

func TestMatchOutcome_NoSingleWinner(t *testing.T) {
	won := func(pattern ...bool) []model.SetResult {
		out := make([]model.SetResult, len(pattern))
		for i, w := range pattern {
			out[i] = model.SetResult{IsWin: w}
		}
		return out
	}
	cases := map[string][]model.SetResult{
		"both sides at three": won(true, false, true, false, true, false),
		"home at four":        won(true, true, true, true),
		"away at four":        won(false, false, false, false, true),
		"no sets":             nil,
	}
	for name, sets := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := MatchOutcome(sets)
			assert.False(t, ok)
		})
	}
}

func setLines(scores []string) []dvw.Line {
	out := make([]dvw.Line, len(scores))
	for i, s := range scores {
		out[i] = dvw.Line{No: i + 1, Text: "True;;;;" + s + ";"}
	}
	return out
}

func TestDecodeRoster_PlayedSets(t *testing.T) {
	line := "0;7;x;1;;2;3;;x;Doe;Jane;x;x;2;x"
	require.Len(t, strings.Split(line, ";"), 15)

	team := model.Team{Code: "FEN"}
	players, diags := DecodeRoster([]dvw.Line{
		{No: 1, Text: line},
		{No: 2, Text: "0;8;short"},
	}, dvw.SectionPlayersHome, team)

	require.Len(t, players, 1)
	p := players[0]
	assert.Equal(t, 3, p.PlayedSets)
	assert.Equal(t, "7", p.Number)
	assert.Equal(t, "Doe", p.LastName)
	assert.Equal(t, "Jane", p.FirstName)
	assert.Equal(t, model.RoleOutsideHitter, p.Role)
	assert.Equal(t, team, p.Team)
	require.Len(t, diags, 1)
	assert.Equal(t, "PLAYERS-H", diags[0].Section)
}

func TestParse_FiveSetMatch(t *testing.T) {
	raw := matchFile(fiveSets,
		"*06SQ-",
		"a10RQ+",
		"a10EH+",
		"a10AH#",
		"a10SM=",
		"*06RM#",
		"*06AH#",
		"*06SQ#",
		"*01SQ#",
		"a99AH#",
		"*06S",
	)

	m, err := Parse("final.dvw", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "final.dvw", m.Source)
	assert.Len(t, m.Hash, 64)
	assert.Equal(t, model.Team{Code: "FEN", Name: "Fenerbahçe"}, m.HomeTeam)
	assert.Equal(t, "Vakıfbank", m.AwayTeam.Name)
	assert.True(t, m.IsWin)
	require.Len(t, m.Sets, 5)
	assert.Equal(t, 25+20+25+18+15, m.TotalHomePoints)
	assert.Equal(t, 20+25+22+25+10, m.TotalAwayPoints)

	require.Len(t, m.HomePlayers, 2)
	ayse := m.HomePlayers[0]
	assert.Equal(t, "Yılmaz", ayse.LastName)
	assert.Equal(t, "Ayşe", ayse.FirstName)
	assert.Equal(t, 3, ayse.PlayedSets)
	assert.Equal(t, 1, ayse.ServePoints)
	assert.Equal(t, 1, ayse.AttackPoints)
	assert.Equal(t, 1, m.HomePlayers[1].ServePoints)

	require.Len(t, m.AwayPlayers, 1)
	assert.Equal(t, 1, m.AwayPlayers[0].AttackPoints)

	// Away received and converted once. Home received once, but the
	// transition attack was followed by a serve, so no point.
	assert.Equal(t, model.SideoutCount{Points: 1, Attempts: 1}, m.Sideouts.Away)
	assert.Equal(t, model.SideoutCount{Points: 0, Attempts: 1}, m.Sideouts.Home)
	assert.Equal(t, model.SideHome, m.Sideouts.LastServer)

	assert.Equal(t, 75, m.Stats.Points)
	assert.Equal(t, 6, m.Stats.Aces)
	assert.Equal(t, 40, m.Stats.Kills)
	// The [3STATS] sideout line is replaced by the reconstruction for the
	// side opposite the last server.
	assert.Equal(t, 1, m.Stats.Sideouts)
	assert.Equal(t, 1, m.Stats.SideoutAttempts)

	assert.Contains(t, m.RawLines, "a10AH#")

	var unresolved int
	for _, d := range m.Diagnostics {
		if d.Kind == model.DiagUnresolvedPlayer {
			unresolved++
		}
	}
	assert.Equal(t, 1, unresolved)
}

func TestParse_StructuralErrors(t *testing.T) {
	_, err := Parse("short.dvw", []byte(matchFile([]string{"25-20", "25-20"})))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructural))
	assert.True(t, errors.Is(err, ErrNoMatchWinner))
	assert.Contains(t, err.Error(), "short.dvw")

	_, err = Parse("noteams.dvw", []byte("[3TEAMS]\nFEN;Fenerbahce;3\n[3SET]\nTrue;;;;25-20;\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStructural))
	assert.True(t, errors.Is(err, ErrMissingTeams))
}

func TestParse_SameBytesSameHash(t *testing.T) {
	raw := []byte(matchFile(fiveSets))
	a, err := Parse("a.dvw", raw)
	require.NoError(t, err)
	b, err := Parse("b.dvw", raw)
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)
}

func TestParseSources_CollectsFailures(t *testing.T) {
	sources := []Source{
		{Name: "one.dvw", Data: []byte(matchFile(fiveSets, "*06SQ#"))},
		{Name: "broken.dvw", Data: []byte(matchFile([]string{"25-20"}))},
		{Name: "two.dvw", Data: []byte(matchFile([]string{"20-25", "20-25", "20-25"}))},
	}

	res, err := ParseSources(context.Background(), sources, 2)
	require.NoError(t, err)

	require.Len(t, res.Matches, 2)
	assert.Equal(t, "one.dvw", res.Matches[0].Source)
	assert.Equal(t, "two.dvw", res.Matches[1].Source)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "broken.dvw", res.Failures[0].Name)
	assert.True(t, errors.Is(res.Failures[0], ErrStructural))

	summaries := aggregator.Summarize(res.Matches)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].Matches)
	assert.Equal(t, 1, summaries[0].Wins)
	assert.Equal(t, 2, summaries[1].Matches)
	assert.Equal(t, 1, summaries[1].Wins)
}

func TestParseSources_RecoversDecoderPanic(t *testing.T) {
	orig := decode
	t.Cleanup(func() { decode = orig })
	decode = func(source string, raw []byte) (*model.MatchResult, error) {
		if source == "bad.dvw" {
			panic("index out of range")
		}
		return orig(source, raw)
	}

	sources := []Source{
		{Name: "bad.dvw", Data: []byte(matchFile(fiveSets))},
		{Name: "good.dvw", Data: []byte(matchFile(fiveSets))},
	}
	res, err := ParseSources(context.Background(), sources, 2)
	require.NoError(t, err)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "good.dvw", res.Matches[0].Source)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "bad.dvw", res.Failures[0].Name)
	assert.True(t, errors.Is(res.Failures[0], ErrDecodePanic))
}

func TestParseSources_LogsBatchSummary(t *testing.T) {
	core, logs := observer.New(logging.LevelInfo)
	prev := logging.Default()
	logging.SetDefault(logging.FromZap(zap.New(core)))
	t.Cleanup(func() { logging.SetDefault(prev) })

	sources := []Source{
		{Name: "one.dvw", Data: []byte(matchFile(fiveSets))},
		{Name: "broken.dvw", Data: []byte(matchFile([]string{"25-20"}))},
	}
	_, err := ParseSources(context.Background(), sources, 3)
	require.NoError(t, err)

	summary := logs.FilterMessage("dvw batch decoded").All()
	require.Len(t, summary, 1)
	fields := summary[0].ContextMap()
	assert.EqualValues(t, 2, fields["files"])
	assert.EqualValues(t, 1, fields["matches"])
	assert.EqualValues(t, 1, fields["failures"])
	assert.EqualValues(t, 3, fields["workers"])
	assert.Equal(t, 1, logs.FilterMessage("dvw file skipped").Len())
}

func TestParseSources_Empty(t *testing.T) {
	res, err := ParseSources(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	assert.Empty(t, res.Failures)
	assert.Empty(t, aggregator.Summarize(res.Matches))
}

func TestParseBatch_ReadsFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.dvw")
	require.NoError(t, os.WriteFile(good, []byte(matchFile(fiveSets)), 0o644))
	missing := filepath.Join(dir, "missing.dvw")

	res, err := ParseBatch(context.Background(), []string{missing, good}, 1)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "good.dvw", res.Matches[0].Source)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "missing.dvw", res.Failures[0].Name)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.dvw")
	require.NoError(t, os.WriteFile(path, []byte(matchFile(fiveSets)), 0o644))

	m, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "match.dvw", m.Source)
}
