package aggregator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/go-volley-metrics/internal/dvw"
	"github.com/pable/go-volley-metrics/internal/model"
)

// Stats categories as written in field 2 of a [3STATS] line.
const (
	categoryPoints    = "Points"
	categoryBreak     = "Break"
	categoryServe     = "Serve"
	categorySideout   = "Sideout"
	categoryReception = "Reception"
	categoryAttack    = "Attack"
	categoryBlock     = "Block"
	categoryCAR       = "CAR"
)

// BuildTeamStats reads the [3STATS] counters and installs the reconstructed
// sideout figures. The raw Sideout line is ignored; the figures come from the
// side opposite the last server in the rally log, home when nobody served.
func BuildTeamStats(lines []dvw.Line, tally model.SideoutTally) (model.TeamStats, []model.Diagnostic) {
	var (
		stats model.TeamStats
		diags []model.Diagnostic
	)
	skip := func(l dvw.Line, detail string) {
		diags = append(diags, model.Diagnostic{
			Section: dvw.SectionStats.String(),
			Line:    l.No,
			Kind:    model.DiagMalformedLine,
			Detail:  detail,
		})
	}

	for _, l := range lines {
		parts := strings.Split(l.Text, ";")
		if len(parts) < 4 {
			skip(l, fmt.Sprintf("%d fields, need 4", len(parts)))
			continue
		}
		category := strings.TrimSpace(parts[1])
		if category == categorySideout {
			continue
		}
		success, err1 := strconv.Atoi(strings.TrimSpace(parts[2]))
		attempts, err2 := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err1 != nil || err2 != nil {
			skip(l, fmt.Sprintf("non-numeric counters %q/%q", parts[2], parts[3]))
			continue
		}
		switch category {
		case categoryPoints:
			stats.Points, stats.TotalPoints = success, attempts
		case categoryBreak:
			stats.Breaks, stats.BreakAttempts = success, attempts
		case categoryServe:
			stats.Aces, stats.Serves = success, attempts
		case categoryReception:
			stats.Receptions, stats.ReceptionAttempts = success, attempts
		case categoryAttack:
			stats.Kills, stats.AttackAttempts = success, attempts
		case categoryBlock:
			stats.Blocks, stats.BlockAttempts = success, attempts
		case categoryCAR:
			stats.CARs, stats.CARAttempts = success, attempts
		}
	}

	so := tally.For(sideoutSide(tally))
	stats.Sideouts, stats.SideoutAttempts = so.Points, so.Attempts
	return stats, diags
}

func sideoutSide(tally model.SideoutTally) model.Side {
	if tally.LastServer == model.SideHome {
		return model.SideAway
	}
	return model.SideHome
}
