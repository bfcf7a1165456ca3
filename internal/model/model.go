package model

import "strings"

// Side identifies which team a rally-log line belongs to.
type Side int

const (
	SideUnknown Side = 0
	SideHome    Side = 1
	SideAway    Side = 2
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "H"
	case SideAway:
		return "A"
	default:
		return "?"
	}
}

// Opponent returns the other side. Unknown stays unknown.
func (s Side) Opponent() Side {
	switch s {
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	default:
		return SideUnknown
	}
}

// Team is identified by its code.
type Team struct {
	Code string
	Name string
}

// Role is a player's position as recorded in the roster.
type Role int

const (
	RoleUnknown Role = iota
	RoleLibero
	RoleOutsideHitter
	RoleOpposite
	RoleMiddleBlocker
	RoleSetter
)

// RoleFromCode maps the single-digit roster code to a Role.
func RoleFromCode(code string) Role {
	switch strings.TrimSpace(code) {
	case "1":
		return RoleLibero
	case "2":
		return RoleOutsideHitter
	case "3":
		return RoleOpposite
	case "4":
		return RoleMiddleBlocker
	case "5":
		return RoleSetter
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleLibero:
		return "Libero"
	case RoleOutsideHitter:
		return "Outside Hitter"
	case RoleOpposite:
		return "Opposite"
	case RoleMiddleBlocker:
		return "Middle Blocker"
	case RoleSetter:
		return "Setter"
	default:
		return "-"
	}
}

// Code returns the roster digit for the role, or "" for RoleUnknown.
func (r Role) Code() string {
	if r == RoleUnknown {
		return ""
	}
	return string(rune('0' + int(r)))
}

// PlayerKey is the cross-table identity of a player. Two players sharing a
// first and last name on the same team collide.
type PlayerKey struct {
	TeamCode  string
	LastName  string
	FirstName string
}

type Player struct {
	Number     string
	FirstName  string
	LastName   string
	Role       Role
	PlayedSets int

	ServePoints  int
	AttackPoints int
	BlockPoints  int

	Team Team
}

func (p *Player) Key() PlayerKey {
	return PlayerKey{TeamCode: p.Team.Code, LastName: p.LastName, FirstName: p.FirstName}
}

// TotalPoints is the sum of serve, attack and block points.
func (p *Player) TotalPoints() int {
	return p.ServePoints + p.AttackPoints + p.BlockPoints
}

// PaddedNumber is the jersey number left-padded to the two digits used in
// rally-log lines.
func (p *Player) PaddedNumber() string {
	return PadNumber(p.Number)
}

// PadNumber left-pads a jersey number with zeros to two characters.
func PadNumber(n string) string {
	if len(n) >= 2 {
		return n
	}
	return strings.Repeat("0", 2-len(n)) + n
}

// SetResult is one completed set, home perspective.
type SetResult struct {
	Score      string // "H-A" as recorded
	IsWin      bool
	HomePoints int
	AwayPoints int
}

// TeamStats are the per-match counters read from the [3STATS] section, with
// the sideout pair replaced by the reconstructed values.
type TeamStats struct {
	Points, TotalPoints           int
	Breaks, BreakAttempts         int
	Aces, Serves                  int
	Sideouts, SideoutAttempts     int
	Receptions, ReceptionAttempts int
	Kills, AttackAttempts         int
	Blocks, BlockAttempts         int
	CARs, CARAttempts             int
}

// Add returns the counter-wise sum of s and o.
func (s TeamStats) Add(o TeamStats) TeamStats {
	return TeamStats{
		Points: s.Points + o.Points, TotalPoints: s.TotalPoints + o.TotalPoints,
		Breaks: s.Breaks + o.Breaks, BreakAttempts: s.BreakAttempts + o.BreakAttempts,
		Aces: s.Aces + o.Aces, Serves: s.Serves + o.Serves,
		Sideouts: s.Sideouts + o.Sideouts, SideoutAttempts: s.SideoutAttempts + o.SideoutAttempts,
		Receptions: s.Receptions + o.Receptions, ReceptionAttempts: s.ReceptionAttempts + o.ReceptionAttempts,
		Kills: s.Kills + o.Kills, AttackAttempts: s.AttackAttempts + o.AttackAttempts,
		Blocks: s.Blocks + o.Blocks, BlockAttempts: s.BlockAttempts + o.BlockAttempts,
		CARs: s.CARs + o.CARs, CARAttempts: s.CARAttempts + o.CARAttempts,
	}
}

// SideoutCount is a success/attempt pair for one side.
type SideoutCount struct {
	Points   int
	Attempts int
}

// SideoutTally holds the reconstructed sideout figures for both sides.
type SideoutTally struct {
	Home SideoutCount
	Away SideoutCount

	// LastServer is the side of the last serve line in the rally log.
	LastServer Side
}

// For returns the count for the given side.
func (t SideoutTally) For(s Side) SideoutCount {
	if s == SideAway {
		return t.Away
	}
	return t.Home
}

// MatchResult is one fully decoded, valid match.
type MatchResult struct {
	Hash   string // sha256 of the raw file bytes
	Source string // file name the match was decoded from

	HomeTeam Team
	AwayTeam Team
	Sets     []SetResult
	IsWin    bool

	Stats    TeamStats
	Sideouts SideoutTally

	TotalHomePoints int
	TotalAwayPoints int

	HomePlayers []Player
	AwayPlayers []Player

	// RawLines are the normalized file lines, in order, so consumers can
	// re-derive breakdowns from the rally log.
	RawLines []string

	Diagnostics []Diagnostic
}

// SetWins returns the number of sets won by each side.
func (m *MatchResult) SetWins() (home, away int) {
	for _, s := range m.Sets {
		if s.IsWin {
			home++
		} else {
			away++
		}
	}
	return home, away
}

// Involves reports whether the team with the given code played in the match.
func (m *MatchResult) Involves(code string) bool {
	return m.HomeTeam.Code == code || m.AwayTeam.Code == code
}

// SideOf returns which side the team played on, or SideUnknown.
func (m *MatchResult) SideOf(code string) Side {
	switch code {
	case m.HomeTeam.Code:
		return SideHome
	case m.AwayTeam.Code:
		return SideAway
	default:
		return SideUnknown
	}
}

// Players returns home then away players.
func (m *MatchResult) Players() []Player {
	out := make([]Player, 0, len(m.HomePlayers)+len(m.AwayPlayers))
	out = append(out, m.HomePlayers...)
	return append(out, m.AwayPlayers...)
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	Hash       string
	Source     string
	HomeCode   string
	HomeName   string
	AwayCode   string
	AwayName   string
	HomeSets   int
	AwaySets   int
	HomePoints int
	AwayPoints int
	ImportedAt string
}

// Summary projects the match into a MatchSummary.
func (m *MatchResult) Summary() MatchSummary {
	h, a := m.SetWins()
	return MatchSummary{
		Hash:       m.Hash,
		Source:     m.Source,
		HomeCode:   m.HomeTeam.Code,
		HomeName:   m.HomeTeam.Name,
		AwayCode:   m.AwayTeam.Code,
		AwayName:   m.AwayTeam.Name,
		HomeSets:   h,
		AwaySets:   a,
		HomePoints: m.TotalHomePoints,
		AwayPoints: m.TotalAwayPoints,
	}
}
