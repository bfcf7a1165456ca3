package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/model"
	"github.com/pable/go-volley-metrics/internal/report"
	"github.com/pable/go-volley-metrics/internal/storage"
)

var teamsFilter string

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Summarize every team across all stored matches",
	Long: `Print one cross-match summary row per team.

Rates are computed over counters summed across matches, never averaged per
match. A rate whose denominator is zero is shown as "—".`,
	Args: cobra.NoArgs,
	RunE: runTeams,
}

func init() {
	teamsCmd.Flags().StringVar(&teamsFilter, "team", "", "only summarize this team code")
}

func runTeams(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := loadMatches(db, teamsFilter)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet.")
		return nil
	}

	sums := aggregator.Summarize(matches)
	if teamsFilter != "" {
		sums = filterSummaries(sums, teamsFilter)
	}
	report.PrintTeamSummaries(os.Stdout, sums)
	return nil
}

// loadMatches loads all stored matches, or only those of team when set.
func loadMatches(db *storage.DB, team string) ([]*model.MatchResult, error) {
	var (
		ms  []*model.MatchResult
		err error
	)
	if team = strings.TrimSpace(team); team != "" {
		ms, err = db.LoadMatchesForTeam(team)
	} else {
		ms, err = db.LoadMatches()
	}
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	return ms, nil
}

func filterSummaries(sums []model.TeamSummary, code string) []model.TeamSummary {
	var out []model.TeamSummary
	for _, s := range sums {
		if s.Team.Code == code {
			out = append(out, s)
		}
	}
	return out
}
