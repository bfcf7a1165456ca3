package parser

import (
	"fmt"
	"strings"

	"github.com/pable/go-volley-metrics/internal/dvw"
	"github.com/pable/go-volley-metrics/internal/model"
)

// Roster line field positions (0-based).
const (
	rosterNumberField    = 1
	rosterFirstSetField  = 3
	rosterLastSetField   = 7
	rosterLastNameField  = 9
	rosterFirstNameField = 10
	rosterRoleField      = 13
	rosterMinFields      = 15
)

// DecodeRoster turns one squad's [3PLAYERS-*] lines into players of team.
// Lines with fewer than 15 fields are skipped and reported.
func DecodeRoster(lines []dvw.Line, section dvw.Section, team model.Team) ([]model.Player, []model.Diagnostic) {
	var (
		players []model.Player
		diags   []model.Diagnostic
	)
	for _, l := range lines {
		parts := strings.Split(l.Text, ";")
		if len(parts) < rosterMinFields {
			diags = append(diags, model.Diagnostic{
				Section: section.String(),
				Line:    l.No,
				Kind:    model.DiagMalformedLine,
				Detail:  fmt.Sprintf("%d fields, need %d", len(parts), rosterMinFields),
			})
			continue
		}
		players = append(players, decodePlayer(parts, team))
	}
	return players, diags
}

func decodePlayer(parts []string, team model.Team) model.Player {
	played := 0
	for i := rosterFirstSetField; i <= rosterLastSetField; i++ {
		if strings.TrimSpace(parts[i]) != "" {
			played++
		}
	}
	return model.Player{
		Number:     strings.TrimSpace(parts[rosterNumberField]),
		LastName:   dvw.Normalize(strings.TrimSpace(parts[rosterLastNameField])),
		FirstName:  dvw.Normalize(strings.TrimSpace(parts[rosterFirstNameField])),
		Role:       model.RoleFromCode(parts[rosterRoleField]),
		PlayedSets: played,
		Team:       team,
	}
}
