package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/model"
	"github.com/pable/go-volley-metrics/internal/report"
)

var showSkills bool

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show a stored match by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showSkills, "skills", false, "also print the serving, reception, attack and block breakdowns")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with hash prefix %q\n", prefix)
		return nil
	}

	m, err := db.LoadMatch(summary.Hash)
	if err != nil {
		return fmt.Errorf("load match: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, *summary)
	report.PrintSets(os.Stdout, m)
	fmt.Fprintln(os.Stdout)
	report.PrintMatchStats(os.Stdout, m)
	fmt.Fprintln(os.Stdout)
	report.PrintMatchPlayers(os.Stdout, m)

	if showSkills {
		b := aggregator.SkillBreakdowns([]*model.MatchResult{m})
		printBreakdowns(b)
	}
	report.PrintDiagnostics(os.Stdout, m.Diagnostics)
	return nil
}

func printBreakdowns(b aggregator.Breakdowns) {
	fmt.Fprintln(os.Stdout, "\nServing")
	report.PrintServing(os.Stdout, b.Serving)
	fmt.Fprintln(os.Stdout, "\nReception")
	report.PrintReception(os.Stdout, b.Reception)
	fmt.Fprintln(os.Stdout, "\nAttack")
	report.PrintAttack(os.Stdout, b.Attack)
	fmt.Fprintln(os.Stdout, "\nBlock")
	report.PrintBlock(os.Stdout, b.Block)
}
