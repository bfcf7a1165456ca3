package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/logging"
	"github.com/pable/go-volley-metrics/internal/model"
	"github.com/pable/go-volley-metrics/internal/parser"
	"github.com/pable/go-volley-metrics/internal/report"
	"github.com/pable/go-volley-metrics/internal/storage"
)

var (
	parseForce   bool
	parseVerbose bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.dvw>...",
	Short: "Decode DVW files and store their matches",
	Long: `Decode one or more DVW scouting files in parallel and store every valid match.

A file that is not a complete match (fewer than two teams, or no side with
exactly three valid sets) is reported and skipped; the other files are still
stored. A team summary over the matches decoded in this run is printed at the end.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseForce, "force", false, "re-store matches that are already in the database")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "print each stored match with its sets and players")
}

func runParse(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Decoding %d file(s) with %d worker(s)...\n", len(args), workers)
	res, err := parser.ParseBatch(cmd.Context(), args, workers)
	if err != nil {
		return fmt.Errorf("parse batch: %w", err)
	}

	stored, cached := 0, 0
	for _, m := range res.Matches {
		ok, err := storeMatch(db, m, parseForce)
		if err != nil {
			return err
		}
		if !ok {
			cached++
			continue
		}
		stored++
		if parseVerbose {
			report.PrintMatchSummary(os.Stdout, m.Summary())
			report.PrintSets(os.Stdout, m)
			report.PrintMatchPlayers(os.Stdout, m)
			report.PrintDiagnostics(os.Stdout, m.Diagnostics)
		}
	}

	fmt.Fprintf(os.Stdout, "\nStored %d match(es), %d already stored, %d file(s) failed.\n",
		stored, cached, len(res.Failures))
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  %s\n", f)
	}

	if len(res.Matches) > 0 {
		fmt.Fprintln(os.Stdout)
		report.PrintTeamSummaries(os.Stdout, aggregator.Summarize(res.Matches))
	}
	return nil
}

// storeMatch inserts m unless its hash is already stored and force is off.
// It reports whether the match was written.
func storeMatch(db *storage.DB, m *model.MatchResult, force bool) (bool, error) {
	exists, err := db.MatchExists(m.Hash)
	if err != nil {
		return false, fmt.Errorf("check match: %w", err)
	}
	if exists && !force {
		logging.Default().Debug("match already stored", "hash", m.Hash, "file", m.Source)
		return false, nil
	}
	if err := db.InsertMatch(m); err != nil {
		logging.Default().Error("store match failed", "hash", m.Hash, "file", m.Source, "error", err)
		return false, fmt.Errorf("insert match: %w", err)
	}
	return true, nil
}
