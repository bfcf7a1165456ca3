package aggregator

import (
	"fmt"

	"github.com/pable/go-volley-metrics/internal/model"
)

type rosterKey struct {
	side   model.Side
	number string
}

// Roster resolves rally-log (side, two-digit number) pairs to players of one
// match. It points into the slices it was built from.
type Roster struct {
	bySlot map[rosterKey]*model.Player
}

// NewRoster indexes both squads by their jersey number as written and
// left-padded to two digits.
func NewRoster(home, away []model.Player) *Roster {
	r := &Roster{bySlot: make(map[rosterKey]*model.Player, len(home)+len(away))}
	r.add(model.SideHome, home)
	r.add(model.SideAway, away)
	return r
}

func (r *Roster) add(side model.Side, players []model.Player) {
	for i := range players {
		p := &players[i]
		r.bySlot[rosterKey{side, p.Number}] = p
		r.bySlot[rosterKey{side, p.PaddedNumber()}] = p
	}
}

// Lookup returns the player for a rally-log reference, or nil.
func (r *Roster) Lookup(side model.Side, number string) *model.Player {
	return r.bySlot[rosterKey{side, number}]
}

// AttributeScoring increments serve, attack and block points for every
// point-graded action of those skills. It runs once per match on freshly
// decoded rosters; references to players not on the roster are reported
// and skipped.
func AttributeScoring(roster *Roster, actions []model.RallyAction) []model.Diagnostic {
	var diags []model.Diagnostic
	for _, a := range actions {
		if a.Skill != model.SkillServe && a.Skill != model.SkillAttack && a.Skill != model.SkillBlock {
			continue
		}
		if !a.IsPoint() {
			continue
		}
		p := roster.Lookup(a.Side, a.Number)
		if p == nil {
			diags = append(diags, model.Diagnostic{
				Section: "SCOUT",
				Line:    a.Line,
				Kind:    model.DiagUnresolvedPlayer,
				Detail:  fmt.Sprintf("%s point by %s%s has no roster entry", a.Skill, a.Side, a.Number),
			})
			continue
		}
		switch a.Skill {
		case model.SkillServe:
			p.ServePoints++
		case model.SkillAttack:
			p.AttackPoints++
		case model.SkillBlock:
			p.BlockPoints++
		}
	}
	return diags
}
