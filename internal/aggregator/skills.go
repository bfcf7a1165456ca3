package aggregator

import (
	"github.com/pable/go-volley-metrics/internal/dvw"
	"github.com/pable/go-volley-metrics/internal/model"
)

// Breakdowns are the per-player skill tables derived from the rally logs of
// a set of matches. Every player appears in each table, with zero counters
// when they never performed the skill. Liberos only appear in Reception.
type Breakdowns struct {
	Serving   []model.PlayerServing
	Reception []model.PlayerReception
	Attack    []model.PlayerAttack
	Block     []model.PlayerBlock
}

type breakdownBuilder struct {
	index  map[model.PlayerKey]int
	libero map[model.PlayerKey]bool
	b      Breakdowns
}

func (bb *breakdownBuilder) slot(p *model.Player) int {
	k := p.Key()
	if i, ok := bb.index[k]; ok {
		return i
	}
	i := len(bb.b.Serving)
	bb.index[k] = i
	bb.b.Serving = append(bb.b.Serving, model.PlayerServing{Key: k, Number: p.Number})
	bb.b.Reception = append(bb.b.Reception, model.PlayerReception{Key: k, Number: p.Number})
	bb.b.Attack = append(bb.b.Attack, model.PlayerAttack{Key: k, Number: p.Number})
	bb.b.Block = append(bb.b.Block, model.PlayerBlock{Key: k, Number: p.Number})
	return i
}

// SkillBreakdowns decodes each match's rally log once and folds it into the
// serving, reception, attacking and blocking tables.
func SkillBreakdowns(matches []*model.MatchResult) Breakdowns {
	bb := &breakdownBuilder{
		index:  make(map[model.PlayerKey]int),
		libero: make(map[model.PlayerKey]bool),
	}

	for _, m := range matches {
		for _, p := range m.Players() {
			if p.Role == model.RoleLibero {
				bb.libero[p.Key()] = true
			}
			i := bb.slot(&p)
			bb.b.Serving[i].PlayedSets += p.PlayedSets
			bb.b.Reception[i].PlayedSets += p.PlayedSets
			bb.b.Attack[i].PlayedSets += p.PlayedSets
			bb.b.Block[i].PlayedSets += p.PlayedSets
		}
		bb.foldMatch(m)
	}

	out := bb.b
	out.Serving = withoutLiberos(out.Serving, bb.libero, func(r model.PlayerServing) model.PlayerKey { return r.Key })
	out.Attack = withoutLiberos(out.Attack, bb.libero, func(r model.PlayerAttack) model.PlayerKey { return r.Key })
	out.Block = withoutLiberos(out.Block, bb.libero, func(r model.PlayerBlock) model.PlayerKey { return r.Key })
	return out
}

func withoutLiberos[T any](rows []T, libero map[model.PlayerKey]bool, key func(T) model.PlayerKey) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if !libero[key(r)] {
			out = append(out, r)
		}
	}
	return out
}

func (bb *breakdownBuilder) foldMatch(m *model.MatchResult) {
	scout := dvw.DecodeRawLines(m.RawLines)
	roster := NewRoster(m.HomePlayers, m.AwayPlayers)

	var (
		currentServer string
		run           int
	)
	for _, a := range scout.Actions {
		p := roster.Lookup(a.Side, a.Number)
		if p == nil {
			continue
		}
		i, ok := bb.index[p.Key()]
		if !ok {
			continue
		}
		if p.Role == model.RoleLibero && a.Skill != model.SkillReception {
			continue
		}
		switch a.Skill {
		case model.SkillServe:
			if !a.HasGrade() {
				continue
			}
			server := a.Side.String() + a.Number
			if server == currentServer {
				run++
			} else {
				currentServer, run = server, 1
			}
			foldServe(&bb.b.Serving[i], a, run)
		case model.SkillReception:
			if a.HasGrade() {
				foldReception(&bb.b.Reception[i], a)
			}
		case model.SkillAttack:
			if a.HasGrade() {
				foldAttack(&bb.b.Attack[i], a)
			}
		case model.SkillBlock:
			foldBlock(&bb.b.Block[i], a)
		}
	}
}

func foldServe(s *model.PlayerServing, a model.RallyAction, run int) {
	o := a.Outcome()
	s.Total++
	if run > s.MaxConsecutive {
		s.MaxConsecutive = run
	}
	tally := func(t *model.ServeTypeStats) {
		t.Total++
		if o.Has(model.OutcomePoint) {
			t.Points++
		}
		if o.Has(model.OutcomeError) {
			t.Mistakes++
		}
		if o.Has(model.OutcomePositive) {
			t.Positive++
		}
	}
	if o.Has(model.OutcomePoint) {
		s.Points++
	}
	if o.Has(model.OutcomeError) {
		s.Mistakes++
	}
	if o.Has(model.OutcomeNegative) {
		s.Negative++
	}
	if o.Has(model.OutcomePositive) {
		s.Positive++
	}
	switch a.SubType {
	case model.ServeJump:
		tally(&s.Jump)
	case model.ServeFloat, model.ServeFloatAlt:
		tally(&s.Float)
	}
}

func foldReception(s *model.PlayerReception, a model.RallyAction) {
	o := a.Outcome()
	tally := func(t *model.ReceptionTypeStats) {
		t.Total++
		if o.Has(model.OutcomePositive) {
			t.Positive++
		}
		if o.Has(model.OutcomeNegative) {
			t.Negative++
		}
		if o.Has(model.OutcomeError) {
			t.Mistakes++
		}
	}
	s.Total++
	if o.Has(model.OutcomePositive) {
		s.Positive++
	}
	if o.Has(model.OutcomeNegative) {
		s.Negative++
	}
	if o.Has(model.OutcomeError) {
		s.Mistakes++
	}
	// Receptions read only 'M' as a float serve.
	switch a.SubType {
	case model.ServeJump:
		tally(&s.Jump)
	case model.ServeFloat:
		tally(&s.Float)
	}
}

func foldAttack(s *model.PlayerAttack, a model.RallyAction) {
	o := a.Outcome()
	s.Total++
	if o.Has(model.OutcomePoint) {
		s.Points++
	}
	if o.Has(model.OutcomeError) {
		s.Mistakes++
	}
	if o.Has(model.OutcomeBlocked) {
		s.Blocked++
	}
	if o.Has(model.OutcomeNegative) {
		s.Negative++
	}
	if o.Has(model.OutcomePositive) {
		s.Positive++
	}
}

func foldBlock(s *model.PlayerBlock, a model.RallyAction) {
	o := a.Outcome()
	s.Total++
	if o.Has(model.OutcomePoint) {
		s.Points++
	}
	if o.Has(model.OutcomeError) {
		s.Mistakes++
	}
	if o.Has(model.OutcomePositive) {
		s.Positive++
	}
	if o.Has(model.OutcomeNegative) {
		s.Negative++
	}
}
