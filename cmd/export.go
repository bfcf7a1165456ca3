package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/model"
	"github.com/pable/go-volley-metrics/internal/storage"
)

var (
	exportTeam   string
	exportOut    string
	exportSkills bool
)

// exportFile is the top-level JSON schema written by the export command.
// Unavailable rates are written as null.
type exportFile struct {
	GeneratedAt string                 `json:"generated_at"`
	MatchCount  int                    `json:"match_count"`
	Matches     []exportMatch          `json:"matches"`
	Teams       []exportTeamSummary    `json:"teams"`
	Records     []storage.TeamRecord   `json:"records,omitempty"`
	Players     []exportPlayer         `json:"players"`
	Skills      *aggregator.Breakdowns `json:"skills,omitempty"`
}

type exportMatch struct {
	Hash       string   `json:"hash"`
	Source     string   `json:"source"`
	Home       string   `json:"home"`
	Away       string   `json:"away"`
	HomeSets   int      `json:"home_sets"`
	AwaySets   int      `json:"away_sets"`
	Scores     []string `json:"scores"`
	HomePoints int      `json:"home_points"`
	AwayPoints int      `json:"away_points"`
	Skipped    int      `json:"skipped_lines"`
}

type exportTeamSummary struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Matches      int        `json:"matches"`
	Wins         int        `json:"wins"`
	Sets         int        `json:"sets"`
	WonSets      int        `json:"won_sets"`
	WonPoints    int        `json:"won_points"`
	LostPoints   int        `json:"lost_points"`
	WinPct       model.Rate `json:"win_pct"`
	PointsRatio  model.Rate `json:"points_ratio"`
	SideoutPct   model.Rate `json:"sideout_pct"`
	BreakPct     model.Rate `json:"break_pct"`
	AcePct       model.Rate `json:"ace_pct"`
	ReceptionPct model.Rate `json:"reception_pct"`
	KillPct      model.Rate `json:"kill_pct"`
	OppKillPct   model.Rate `json:"opp_kill_pct"`
	BlockPct     model.Rate `json:"block_pct"`
	CARPct       model.Rate `json:"car_pct"`
	AcesPerSet   model.Rate `json:"aces_per_set"`
	KillsPerSet  model.Rate `json:"kills_per_set"`
	BlocksPerSet model.Rate `json:"blocks_per_set"`
}

type exportPlayer struct {
	Team         string     `json:"team"`
	Number       string     `json:"number"`
	LastName     string     `json:"last_name"`
	FirstName    string     `json:"first_name"`
	Role         string     `json:"role"`
	Matches      int        `json:"matches"`
	PlayedSets   int        `json:"played_sets"`
	ServePoints  int        `json:"serve_points"`
	AttackPoints int        `json:"attack_points"`
	BlockPoints  int        `json:"block_points"`
	PointsPerSet model.Rate `json:"points_per_set"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export matches, team summaries and player totals as JSON",
	Long: `Write the stored matches, the cross-match team summaries, the SQL-side
team records and the per-player scoring totals to a JSON document.

Example:
  vbmetrics export --out season.json
  vbmetrics export --team FEN --skills`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTeam, "team", "", "only matches of this team code")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&exportSkills, "skills", false, "include the per-player skill breakdowns")
}

func runExport(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := loadMatches(db, exportTeam)
	if err != nil {
		return err
	}
	out := buildExport(matches, exportSkills)
	if exportTeam == "" {
		recs, err := db.TeamRecords()
		if err != nil {
			return fmt.Errorf("team records: %w", err)
		}
		out.Records = recs
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d matches)\n", exportOut, len(matches))
	return nil
}

func buildExport(matches []*model.MatchResult, skills bool) exportFile {
	out := exportFile{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		MatchCount:  len(matches),
		Matches:     make([]exportMatch, 0, len(matches)),
		Teams:       []exportTeamSummary{},
		Players:     []exportPlayer{},
	}
	for _, m := range matches {
		h, a := m.SetWins()
		em := exportMatch{
			Hash:       m.Hash,
			Source:     m.Source,
			Home:       m.HomeTeam.Code,
			Away:       m.AwayTeam.Code,
			HomeSets:   h,
			AwaySets:   a,
			HomePoints: m.TotalHomePoints,
			AwayPoints: m.TotalAwayPoints,
			Skipped:    len(m.Diagnostics),
		}
		for _, s := range m.Sets {
			em.Scores = append(em.Scores, s.Score)
		}
		out.Matches = append(out.Matches, em)
	}
	for _, s := range aggregator.Summarize(matches) {
		out.Teams = append(out.Teams, teamSummaryJSON(s))
	}
	for _, p := range aggregator.PlayerTotalsAcross(matches) {
		out.Players = append(out.Players, exportPlayer{
			Team:         p.Key.TeamCode,
			Number:       p.Number,
			LastName:     p.Key.LastName,
			FirstName:    p.Key.FirstName,
			Role:         p.Role.String(),
			Matches:      p.Matches,
			PlayedSets:   p.PlayedSets,
			ServePoints:  p.ServePoints,
			AttackPoints: p.AttackPoints,
			BlockPoints:  p.BlockPoints,
			PointsPerSet: p.PointsPerSet(),
		})
	}
	if skills {
		b := aggregator.SkillBreakdowns(matches)
		out.Skills = &b
	}
	return out
}

func teamSummaryJSON(s model.TeamSummary) exportTeamSummary {
	return exportTeamSummary{
		Code:         s.Team.Code,
		Name:         s.Team.Name,
		Matches:      s.Matches,
		Wins:         s.Wins,
		Sets:         s.Sets,
		WonSets:      s.WonSets,
		WonPoints:    s.WonPoints,
		LostPoints:   s.LostPoints,
		WinPct:       s.WinPct,
		PointsRatio:  s.PointsRatio,
		SideoutPct:   s.SideoutPct,
		BreakPct:     s.BreakPct,
		AcePct:       s.AcePct,
		ReceptionPct: s.ReceptionPct,
		KillPct:      s.KillPct,
		OppKillPct:   s.OppKillPct,
		BlockPct:     s.BlockPct,
		CARPct:       s.CARPct,
		AcesPerSet:   s.AcesPerSet,
		KillsPerSet:  s.KillsPerSet,
		BlocksPerSet: s.BlocksPerSet,
	}
}
