package model

import (
	"fmt"
	"strconv"
)

// Rate is a derived percentage or per-set rate. Valid is false when the
// denominator was zero; Value is then 0 and must not be read.
type Rate struct {
	Value float64
	Valid bool
}

// Percent returns num/den*100, or an unavailable Rate when den is zero.
func Percent(num, den int) Rate {
	if den == 0 {
		return Rate{}
	}
	return Rate{Value: float64(num) / float64(den) * 100, Valid: true}
}

// PerUnit returns num/den, or an unavailable Rate when den is zero.
func PerUnit(num, den int) Rate {
	if den == 0 {
		return Rate{}
	}
	return Rate{Value: float64(num) / float64(den), Valid: true}
}

// Format renders the rate with the given verb, or "—" when unavailable.
func (r Rate) Format(verb string) string {
	if !r.Valid {
		return "—"
	}
	return fmt.Sprintf(verb, r.Value)
}

// MarshalJSON encodes an unavailable rate as null.
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, r.Value, 'f', -1, 64), nil
}

// TeamSummary is the cross-match projection for one team. It carries no
// identity of its own and is recomputed on every aggregation.
type TeamSummary struct {
	Team    Team
	Matches int
	Wins    int

	Sets       int
	WonSets    int
	WonPoints  int
	LostPoints int

	// Totals are the summed counters the rates are computed from.
	Totals TeamStats

	WinPct       Rate
	PointsRatio  Rate
	SideoutPct   Rate
	BreakPct     Rate
	AcePct       Rate
	ReceptionPct Rate
	KillPct      Rate
	OppKillPct   Rate
	BlockPct     Rate
	CARPct       Rate

	AcesPerSet   Rate
	KillsPerSet  Rate
	BlocksPerSet Rate
}

// LostSets is the number of sets the team lost.
func (s *TeamSummary) LostSets() int {
	return s.Sets - s.WonSets
}

// PlayerTotals carries one player's scoring across matches.
type PlayerTotals struct {
	Key    PlayerKey
	Number string
	Role   Role

	Matches      int
	PlayedSets   int
	ServePoints  int
	AttackPoints int
	BlockPoints  int
}

func (p *PlayerTotals) TotalPoints() int {
	return p.ServePoints + p.AttackPoints + p.BlockPoints
}

func (p *PlayerTotals) PointsPerSet() Rate {
	return PerUnit(p.TotalPoints(), p.PlayedSets)
}

func (p *PlayerTotals) ServePointsPerSet() Rate {
	return PerUnit(p.ServePoints, p.PlayedSets)
}

func (p *PlayerTotals) AttackPointsPerSet() Rate {
	return PerUnit(p.AttackPoints, p.PlayedSets)
}

func (p *PlayerTotals) BlockPointsPerSet() Rate {
	return PerUnit(p.BlockPoints, p.PlayedSets)
}

// ServeTypeStats is the jump or float split of the serving breakdown.
type ServeTypeStats struct {
	Total    int
	Points   int
	Mistakes int
	Positive int
}

type PlayerServing struct {
	Key        PlayerKey
	Number     string
	PlayedSets int

	Total          int
	Points         int
	Mistakes       int
	Negative       int
	Positive       int
	MaxConsecutive int

	Jump  ServeTypeStats
	Float ServeTypeStats
}

func (s *PlayerServing) PointPct() Rate    { return Percent(s.Points, s.Total) }
func (s *PlayerServing) MistakePct() Rate  { return Percent(s.Mistakes, s.Total) }
func (s *PlayerServing) PositivePct() Rate { return Percent(s.Positive, s.Total) }
func (s *PlayerServing) NegativePct() Rate { return Percent(s.Negative, s.Total) }

// Efficiency is (points + positive - mistakes) / total.
func (s *PlayerServing) Efficiency() Rate {
	return Percent(s.Points+s.Positive-s.Mistakes, s.Total)
}

func (s *PlayerServing) PointsPerSet() Rate   { return PerUnit(s.Points, s.PlayedSets) }
func (s *PlayerServing) MistakesPerSet() Rate { return PerUnit(s.Mistakes, s.PlayedSets) }

// Efficiency is (points + positive - mistakes) / total for the serve type.
func (s ServeTypeStats) Efficiency() Rate {
	return Percent(s.Points+s.Positive-s.Mistakes, s.Total)
}

// ReceptionTypeStats is the split of receptions by the incoming serve type.
type ReceptionTypeStats struct {
	Total    int
	Positive int
	Negative int
	Mistakes int
}

type PlayerReception struct {
	Key        PlayerKey
	Number     string
	PlayedSets int

	Total    int
	Positive int
	Negative int
	Mistakes int

	Jump  ReceptionTypeStats
	Float ReceptionTypeStats
}

func (s *PlayerReception) PositivePct() Rate { return Percent(s.Positive, s.Total) }
func (s *PlayerReception) NegativePct() Rate { return Percent(s.Negative, s.Total) }
func (s *PlayerReception) MistakePct() Rate  { return Percent(s.Mistakes, s.Total) }

// Efficiency is (positive - negative - mistakes) / total.
func (s *PlayerReception) Efficiency() Rate {
	return Percent(s.Positive-s.Negative-s.Mistakes, s.Total)
}

func (s ReceptionTypeStats) Efficiency() Rate {
	return Percent(s.Positive-s.Negative-s.Mistakes, s.Total)
}

type PlayerAttack struct {
	Key        PlayerKey
	Number     string
	PlayedSets int

	Total    int
	Points   int
	Mistakes int
	Blocked  int
	Negative int
	Positive int
}

func (s *PlayerAttack) KillPct() Rate     { return Percent(s.Points, s.Total) }
func (s *PlayerAttack) MistakePct() Rate  { return Percent(s.Mistakes, s.Total) }
func (s *PlayerAttack) BlockedPct() Rate  { return Percent(s.Blocked, s.Total) }
func (s *PlayerAttack) PointsPerSet() Rate { return PerUnit(s.Points, s.PlayedSets) }

// Efficiency is (points - mistakes - blocked) / total.
func (s *PlayerAttack) Efficiency() Rate {
	return Percent(s.Points-s.Mistakes-s.Blocked, s.Total)
}

// PlayerBlock counts block touches. A '!' grade increments both Positive
// and Negative.
type PlayerBlock struct {
	Key        PlayerKey
	Number     string
	PlayedSets int

	Total    int
	Points   int
	Mistakes int
	Positive int
	Negative int
}

func (s *PlayerBlock) PointPct() Rate     { return Percent(s.Points, s.Total) }
func (s *PlayerBlock) PointsPerSet() Rate { return PerUnit(s.Points, s.PlayedSets) }

// Efficiency is (points + positive - mistakes - negative) / total.
func (s *PlayerBlock) Efficiency() Rate {
	return Percent(s.Points+s.Positive-s.Mistakes-s.Negative, s.Total)
}
