package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/model"
	"github.com/pable/go-volley-metrics/internal/report"
)

var (
	playersSkill string
	playersTeam  string
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Per-player tables across stored matches",
	Long: `Print per-player tables across all stored matches. Liberos only appear in
the reception table.

  --skill scorers     points by serve, attack and block, with per-set rates (default)
  --skill serve       serving breakdown with jump/float split and longest serve run
  --skill reception   reception breakdown split by incoming serve type
  --skill attack      attack breakdown
  --skill block       block breakdown ('!' counts as both positive and negative)
  --skill all         every breakdown`,
	Args: cobra.NoArgs,
	RunE: runPlayers,
}

func init() {
	playersCmd.Flags().StringVar(&playersSkill, "skill", "scorers", "scorers, serve, reception, attack, block or all")
	playersCmd.Flags().StringVar(&playersTeam, "team", "", "only players of this team code")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := loadMatches(db, playersTeam)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet.")
		return nil
	}
	return printPlayers(matches, playersSkill, playersTeam)
}

func printPlayers(matches []*model.MatchResult, skill, team string) error {
	if skill == "scorers" {
		totals := aggregator.PlayerTotalsAcross(matches)
		if team != "" {
			totals = filterByTeam(totals, team, func(p model.PlayerTotals) string { return p.Key.TeamCode })
		}
		report.PrintScorers(os.Stdout, totals)
		return nil
	}

	b := aggregator.SkillBreakdowns(matches)
	if team != "" {
		b.Serving = filterByTeam(b.Serving, team, func(p model.PlayerServing) string { return p.Key.TeamCode })
		b.Reception = filterByTeam(b.Reception, team, func(p model.PlayerReception) string { return p.Key.TeamCode })
		b.Attack = filterByTeam(b.Attack, team, func(p model.PlayerAttack) string { return p.Key.TeamCode })
		b.Block = filterByTeam(b.Block, team, func(p model.PlayerBlock) string { return p.Key.TeamCode })
	}

	switch skill {
	case "serve":
		report.PrintServing(os.Stdout, b.Serving)
	case "reception":
		report.PrintReception(os.Stdout, b.Reception)
	case "attack":
		report.PrintAttack(os.Stdout, b.Attack)
	case "block":
		report.PrintBlock(os.Stdout, b.Block)
	case "all":
		printBreakdowns(b)
	default:
		return fmt.Errorf("unknown skill %q: use scorers, serve, reception, attack, block or all", skill)
	}
	return nil
}

// filterByTeam keeps rows whose team code equals team. Matches on opponents
// of the team contribute rows for the opponents, which are dropped here.
func filterByTeam[T any](rows []T, team string, code func(T) string) []T {
	var out []T
	for _, r := range rows {
		if code(r) == team {
			out = append(out, r)
		}
	}
	return out
}
