package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/go-volley-metrics/internal/dvw"
	"github.com/pable/go-volley-metrics/internal/model"
)

const (
	setPlayedFlag = "True"
	setScoreField = 4
	setMinFields  = 5
	setsToWin     = 3
	decidingGoal  = 15
	winningMargin = 2
)

// ValidSetScore reports whether h-a is a completed set: one side reached 25,
// or 15 for a deciding set, with a margin of at least two.
func ValidSetScore(h, a int) bool {
	top := max(h, a)
	margin := h - a
	if margin < 0 {
		margin = -margin
	}
	if margin < winningMargin {
		return false
	}
	// Records do not say whether a set was the deciding one, so the lower
	// target applies to every set.
	return top >= decidingGoal
}

// DecodeSets collects the valid set records of the [3SET] section. Records
// with a malformed or incomplete score are dropped and reported.
func DecodeSets(lines []dvw.Line) ([]model.SetResult, []model.Diagnostic) {
	var (
		sets  []model.SetResult
		diags []model.Diagnostic
	)
	for _, l := range lines {
		parts := strings.Split(l.Text, ";")
		if len(parts) < setMinFields || parts[0] != setPlayedFlag {
			continue
		}
		score := strings.TrimSpace(parts[setScoreField])
		if score == "" {
			continue
		}
		h, a, err := parseScore(score)
		if err != nil {
			diags = append(diags, model.Diagnostic{
				Section: dvw.SectionSet.String(),
				Line:    l.No,
				Kind:    model.DiagMalformedLine,
				Detail:  err.Error(),
			})
			continue
		}
		if !ValidSetScore(h, a) {
			diags = append(diags, model.Diagnostic{
				Section: dvw.SectionSet.String(),
				Line:    l.No,
				Kind:    model.DiagInvalidSet,
				Detail:  fmt.Sprintf("score %s is not a completed set", score),
			})
			continue
		}
		sets = append(sets, model.SetResult{
			Score:      score,
			IsWin:      h > a,
			HomePoints: h,
			AwayPoints: a,
		})
	}
	return sets, diags
}

func parseScore(score string) (int, int, error) {
	hs, as, ok := strings.Cut(score, "-")
	if !ok {
		return 0, 0, fmt.Errorf("score %q has no separator", score)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, fmt.Errorf("home score %q: %w", hs, err)
	}
	a, err := strconv.Atoi(strings.TrimSpace(as))
	if err != nil {
		return 0, 0, fmt.Errorf("away score %q: %w", as, err)
	}
	return h, a, nil
}

// MatchOutcome checks that exactly one side won exactly three sets and
// reports whether it was the home side.
func MatchOutcome(sets []model.SetResult) (homeWon bool, ok bool) {
	home, away := 0, 0
	for _, s := range sets {
		if s.IsWin {
			home++
		} else {
			away++
		}
	}
	switch {
	case home == setsToWin && away < setsToWin:
		return true, true
	case away == setsToWin && home < setsToWin:
		return false, true
	default:
		return false, false
	}
}

// decodeTeams reads the first two team records. Each needs more than two
// fields: code, name, and at least one more.
func decodeTeams(lines []dvw.Line) ([]model.Team, []model.Diagnostic) {
	var (
		teams []model.Team
		diags []model.Diagnostic
	)
	for _, l := range lines {
		parts := strings.Split(l.Text, ";")
		if len(parts) <= 2 {
			diags = append(diags, model.Diagnostic{
				Section: dvw.SectionTeams.String(),
				Line:    l.No,
				Kind:    model.DiagMalformedLine,
				Detail:  fmt.Sprintf("%d fields, need 3", len(parts)),
			})
			continue
		}
		teams = append(teams, model.Team{
			Code: strings.TrimSpace(parts[0]),
			Name: dvw.Normalize(strings.TrimSpace(parts[1])),
		})
	}
	return teams, diags
}
