package dvw

import "strings"

// Section is the active part of a DVW file.
type Section int

const (
	SectionNone Section = iota
	SectionTeams
	SectionSet
	SectionPlayersHome
	SectionPlayersAway
	SectionStats
	SectionScout
)

func (s Section) String() string {
	switch s {
	case SectionTeams:
		return "TEAMS"
	case SectionSet:
		return "SET"
	case SectionPlayersHome:
		return "PLAYERS-H"
	case SectionPlayersAway:
		return "PLAYERS-V"
	case SectionStats:
		return "STATS"
	case SectionScout:
		return "SCOUT"
	default:
		return "NONE"
	}
}

const (
	markerTeams       = "[3TEAMS]"
	markerSet         = "[3SET]"
	markerPlayersHome = "[3PLAYERS-H]"
	markerPlayersAway = "[3PLAYERS-V]"
	markerAttackCombo = "[3ATTACKCOMBINATION]"
	markerStats       = "[3STATS]"
	markerScout       = "[3SCOUT]"
	markerEndScout    = "[3ENDSCOUT]"
)

// Line is one data line with its 1-based position in the file.
type Line struct {
	No   int
	Text string
}

// Sections groups the data lines of a file by section, in file order.
type Sections struct {
	Teams       []Line
	Sets        []Line
	PlayersHome []Line
	PlayersAway []Line
	Stats       []Line
	Scout       []Line
}

// Scan walks lines once and assigns every non-blank data line to the
// section active at that point. Marker lines switch the section and are not
// data. Any bracketed tag not listed above switches to SectionNone, and
// [3ATTACKCOMBINATION] closes roster scanning for the rest of the file.
func Scan(lines []string) Sections {
	var (
		out          Sections
		current      = SectionNone
		rosterClosed bool
	)
	for i, text := range lines {
		if next, ok := markerSection(text); ok {
			if strings.HasPrefix(text, markerAttackCombo) {
				rosterClosed = true
			}
			current = next
			if rosterClosed && (current == SectionPlayersHome || current == SectionPlayersAway) {
				current = SectionNone
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		l := Line{No: i + 1, Text: text}
		switch current {
		case SectionTeams:
			out.Teams = append(out.Teams, l)
		case SectionSet:
			out.Sets = append(out.Sets, l)
		case SectionPlayersHome:
			out.PlayersHome = append(out.PlayersHome, l)
		case SectionPlayersAway:
			out.PlayersAway = append(out.PlayersAway, l)
		case SectionStats:
			out.Stats = append(out.Stats, l)
		case SectionScout:
			out.Scout = append(out.Scout, l)
		}
	}
	return out
}

// markerSection reports whether text is a section tag and which section it
// opens.
func markerSection(text string) (Section, bool) {
	if !strings.HasPrefix(text, "[3") {
		return SectionNone, false
	}
	switch {
	case strings.HasPrefix(text, markerTeams):
		return SectionTeams, true
	case strings.HasPrefix(text, markerSet):
		return SectionSet, true
	case strings.HasPrefix(text, markerPlayersHome):
		return SectionPlayersHome, true
	case strings.HasPrefix(text, markerPlayersAway):
		return SectionPlayersAway, true
	case strings.HasPrefix(text, markerStats):
		return SectionStats, true
	case strings.HasPrefix(text, markerScout):
		return SectionScout, true
	case strings.HasPrefix(text, markerEndScout), strings.HasPrefix(text, markerAttackCombo):
		return SectionNone, true
	}
	if strings.Contains(text, "]") {
		return SectionNone, true
	}
	return SectionNone, false
}

// ScoutLines returns the rally-log section of already split lines. It is the
// entry point for consumers re-deriving breakdowns from MatchResult.RawLines.
func ScoutLines(lines []string) []Line {
	return Scan(lines).Scout
}
