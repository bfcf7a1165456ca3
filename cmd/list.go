package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/report"
)

var listRecords bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listRecords, "records", false, "also print each team's win/loss record")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'vbmetrics parse <file.dvw>' to add one.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)

	if listRecords {
		recs, err := db.TeamRecords()
		if err != nil {
			return fmt.Errorf("team records: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		report.PrintTeamRecords(os.Stdout, recs)
	}
	return nil
}
