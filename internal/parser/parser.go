// Package parser decodes DVW scouting files into match records.
package parser

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/dvw"
	"github.com/pable/go-volley-metrics/internal/model"
)

// ErrStructural marks a file that cannot yield a match at all. Nothing
// decoded from such a file is returned.
var ErrStructural = errors.New("structural error")

var (
	ErrMissingTeams  = errors.Mark(errors.New("fewer than two teams in [3TEAMS]"), ErrStructural)
	ErrNoMatchWinner = errors.Mark(errors.New("no side won exactly three valid sets"), ErrStructural)
)

// ParseFile reads and decodes the DVW file at path.
func ParseFile(path string) (*model.MatchResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(filepath.Base(path), raw)
}

// Parse decodes one DVW file held in raw. source names the file in errors
// and on the result. The decode either yields a complete match or fails as a
// whole; line-level problems are collected in MatchResult.Diagnostics.
func Parse(source string, raw []byte) (*model.MatchResult, error) {
	text, err := dvw.Decode(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", source)
	}
	lines := dvw.SplitLines(dvw.Normalize(text))
	sections := dvw.Scan(lines)

	var diags []model.Diagnostic

	// ---- Teams and sets decide whether this is a match at all. ----

	teams, d := decodeTeams(sections.Teams)
	diags = append(diags, d...)
	if len(teams) < 2 {
		return nil, errors.Wrapf(ErrMissingTeams, "parse %s: found %d", source, len(teams))
	}
	home, away := teams[0], teams[1]

	sets, d := DecodeSets(sections.Sets)
	diags = append(diags, d...)
	homeWon, ok := MatchOutcome(sets)
	if !ok {
		return nil, errors.Wrapf(ErrNoMatchWinner, "parse %s: %d valid sets", source, len(sets))
	}

	// ---- Rosters, then one decode of the rally log feeding scoring and sideouts. ----

	homePlayers, d := DecodeRoster(sections.PlayersHome, dvw.SectionPlayersHome, home)
	diags = append(diags, d...)
	awayPlayers, d := DecodeRoster(sections.PlayersAway, dvw.SectionPlayersAway, away)
	diags = append(diags, d...)

	scout := dvw.DecodeScout(sections.Scout)
	diags = append(diags, scout.Skipped...)

	roster := aggregator.NewRoster(homePlayers, awayPlayers)
	diags = append(diags, aggregator.AttributeScoring(roster, scout.Actions)...)

	tally := aggregator.ReconstructSideouts(scout.Actions)
	stats, d := aggregator.BuildTeamStats(sections.Stats, tally)
	diags = append(diags, d...)

	m := &model.MatchResult{
		Hash:        fmt.Sprintf("%x", sha256.Sum256(raw)),
		Source:      source,
		HomeTeam:    home,
		AwayTeam:    away,
		Sets:        sets,
		IsWin:       homeWon,
		Stats:       stats,
		Sideouts:    tally,
		HomePlayers: homePlayers,
		AwayPlayers: awayPlayers,
		RawLines:    lines,
		Diagnostics: diags,
	}
	for _, s := range sets {
		m.TotalHomePoints += s.HomePoints
		m.TotalAwayPoints += s.AwayPoints
	}
	return m, nil
}
