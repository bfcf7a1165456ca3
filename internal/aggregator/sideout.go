package aggregator

import "github.com/pable/go-volley-metrics/internal/model"

// sideoutWindow tracks the open serve → reception → transition chain by
// rally-log index. -1 means the marker is not open.
type sideoutWindow struct {
	serve      int
	reception  int
	transition int
	receiving  model.Side
}

func newSideoutWindow() sideoutWindow {
	return sideoutWindow{serve: -1, reception: -1, transition: -1}
}

func (w *sideoutWindow) reset() {
	*w = newSideoutWindow()
}

// ReconstructSideouts replays the rally log to count sideout attempts and
// points per side.
//
// An attempt is counted for the receiving side when a reception line
// immediately follows a serve. A point is counted when the chain continues
// with a set or attack line and then an attack graded as a point by the
// receiving side, each on the very next rally-log line. Any line that does
// not extend an open chain closes it, as does every serve. Lines too short
// to carry a grade only close the chain; they never open one or change the
// last server.
func ReconstructSideouts(actions []model.RallyAction) model.SideoutTally {
	var tally model.SideoutTally
	w := newSideoutWindow()

	count := func(side model.Side) *model.SideoutCount {
		switch side {
		case model.SideHome:
			return &tally.Home
		case model.SideAway:
			return &tally.Away
		default:
			return nil
		}
	}

	for _, a := range actions {
		if !a.HasGrade() {
			w.reset()
			continue
		}
		if a.Skill == model.SkillServe {
			w.reset()
			w.serve = a.Index
			tally.LastServer = a.Side
			continue
		}

		switch {
		case w.transition >= 0:
			if a.Skill == model.SkillAttack && a.Index == w.transition+1 {
				if a.IsPoint() && a.Side == w.receiving {
					if c := count(w.receiving); c != nil {
						c.Points++
					}
				}
			}
			w.reset()

		case w.reception >= 0:
			if (a.Skill == model.SkillSet || a.Skill == model.SkillAttack) && a.Index == w.reception+1 {
				w.transition = a.Index
				continue
			}
			w.reset()

		case w.serve >= 0:
			if a.Skill == model.SkillReception && a.Index == w.serve+1 {
				w.reception = a.Index
				w.receiving = a.Side
				if c := count(a.Side); c != nil {
					c.Attempts++
				}
				continue
			}
			w.reset()
		}
	}
	return tally
}
