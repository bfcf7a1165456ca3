package model

// Skill is the action type at offset 3 of a rally-log line.
type Skill byte

const (
	SkillServe     Skill = 'S'
	SkillReception Skill = 'R'
	SkillAttack    Skill = 'A'
	SkillBlock     Skill = 'B'
	SkillSet       Skill = 'E'
	SkillDig       Skill = 'D'
	SkillFreeball  Skill = 'F'
)

func (s Skill) String() string {
	switch s {
	case SkillServe:
		return "serve"
	case SkillReception:
		return "reception"
	case SkillAttack:
		return "attack"
	case SkillBlock:
		return "block"
	case SkillSet:
		return "set"
	case SkillDig:
		return "dig"
	case SkillFreeball:
		return "freeball"
	default:
		return "other"
	}
}

// Outcome is a set of grade readings. Most grades map to exactly one
// outcome; a block graded '!' reads as both positive and negative.
type Outcome uint8

const (
	OutcomePoint Outcome = 1 << iota
	OutcomeError
	OutcomeBlocked
	OutcomeNegative
	OutcomePositive

	OutcomeNone Outcome = 0
)

// Has reports whether o includes every bit of x.
func (o Outcome) Has(x Outcome) bool {
	return x != 0 && o&x == x
}

// Serve sub-types at offset 4.
const (
	ServeJump  byte = 'Q'
	ServeFloat byte = 'M'
	// ServeFloatAlt is accepted as a float serve by the serving breakdown
	// only; the reception breakdown reads 'M' alone.
	ServeFloatAlt byte = 'H'
)

// RallyAction is one decoded rally-log line. It is not retained on the
// MatchResult; consumers decode RawLines again when they need actions.
type RallyAction struct {
	// Index is the position of the line among the non-blank lines of the
	// rally log, so adjacency survives lines that failed to decode.
	Index int
	// Line is the 1-based file line, 0 when decoded outside a file.
	Line   int
	Side   Side
	Number string // two characters, as written
	Skill  Skill
	// SubType and Grade are zero when the line is too short to carry them.
	SubType byte
	Grade   byte
}

// HasGrade reports whether the line was long enough to carry a grade.
func (a RallyAction) HasGrade() bool {
	return a.Grade != 0
}

// Outcome reads the grade with the mapping for the action's skill.
func (a RallyAction) Outcome() Outcome {
	return GradeOutcome(a.Skill, a.Grade)
}

// IsPoint reports whether the action ended the rally in its team's favour.
func (a RallyAction) IsPoint() bool {
	return a.Outcome().Has(OutcomePoint)
}

// GradeOutcome maps a grade character to outcomes for one skill. Skills
// without a grading scheme always yield OutcomeNone.
func GradeOutcome(skill Skill, grade byte) Outcome {
	switch skill {
	case SkillServe:
		switch grade {
		case '#':
			return OutcomePoint
		case '=':
			return OutcomeError
		case '-':
			return OutcomeNegative
		case '+', '/':
			return OutcomePositive
		}
	case SkillReception:
		switch grade {
		case '#', '+':
			return OutcomePositive
		case '/':
			return OutcomeNegative
		case '=':
			return OutcomeError
		}
	case SkillAttack:
		switch grade {
		case '#':
			return OutcomePoint
		case '=':
			return OutcomeError
		case '/':
			return OutcomeBlocked
		case '-', '!':
			return OutcomeNegative
		case '+':
			return OutcomePositive
		}
	case SkillBlock:
		switch grade {
		case '#':
			return OutcomePoint
		case '=', '/':
			return OutcomeError
		case '!':
			return OutcomePositive | OutcomeNegative
		case '-':
			return OutcomeNegative
		}
	}
	return OutcomeNone
}
