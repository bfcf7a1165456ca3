package dvw

import (
	"fmt"
	"strings"

	"github.com/pable/go-volley-metrics/internal/model"
)

// Fixed offsets of a rally-log line.
const (
	offSide    = 0
	offNumber  = 1 // two characters
	offSkill   = 3
	offSubType = 4
	offGrade   = 5

	// minActionLen is the shortest line that names a skill.
	minActionLen = offSkill + 1
	// minGradedLen is the shortest line that carries a grade.
	minGradedLen = offGrade + 1
)

// DecodeAction reads one rally-log line at position index. ok is false when
// the line is too short to name a skill; such lines still occupy their
// index so adjacency checks see the gap.
func DecodeAction(index int, text string) (model.RallyAction, bool) {
	if len(text) < minActionLen {
		return model.RallyAction{}, false
	}
	a := model.RallyAction{
		Index:  index,
		Side:   sideFromMarker(text[offSide]),
		Number: text[offNumber : offNumber+2],
		Skill:  model.Skill(text[offSkill]),
	}
	if len(text) > offSubType {
		a.SubType = text[offSubType]
	}
	if len(text) >= minGradedLen {
		a.Grade = text[offGrade]
	}
	return a, true
}

func sideFromMarker(c byte) model.Side {
	switch c {
	case '*':
		return model.SideHome
	case 'a':
		return model.SideAway
	default:
		return model.SideUnknown
	}
}

// Scout is the decoded rally log of one file.
type Scout struct {
	Actions []model.RallyAction
	// Lines is the number of non-blank rally-log lines, decoded or not.
	Lines int
	Skipped []model.Diagnostic
}

// DecodeScout decodes every rally-log line once. Consumers fold over the
// returned actions instead of re-reading text.
func DecodeScout(lines []Line) Scout {
	out := Scout{
		Actions: make([]model.RallyAction, 0, len(lines)),
		Lines:   len(lines),
	}
	for i, l := range lines {
		a, ok := DecodeAction(i, l.Text)
		if !ok {
			out.Skipped = append(out.Skipped, model.Diagnostic{
				Section: SectionScout.String(),
				Line:    l.No,
				Kind:    model.DiagMalformedLine,
				Detail:  fmt.Sprintf("rally line %q shorter than %d characters", strings.TrimSpace(l.Text), minActionLen),
			})
			continue
		}
		a.Line = l.No
		out.Actions = append(out.Actions, a)
	}
	return out
}

// DecodeRawLines is DecodeScout over a whole file's lines.
func DecodeRawLines(raw []string) Scout {
	return DecodeScout(ScoutLines(raw))
}
