package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/model"
	"github.com/pable/go-volley-metrics/internal/report"
	"github.com/pable/go-volley-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("vbmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("vbmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <hash-prefix>")
				continue
			}
			shellShow(db, args[0])
		case "teams":
			team := ""
			if len(args) > 0 {
				team = args[0]
			}
			shellTeams(db, team)
		case "players":
			skill, team := "scorers", ""
			if len(args) > 0 {
				skill = args[0]
			}
			if len(args) > 1 {
				team = args[1]
			}
			shellPlayers(db, skill, team)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"show <hash-prefix>", "show a match's sets, stats and players"},
		{"teams [code]", "cross-match team summaries"},
		{"players [skill] [code]", "per-player tables (scorers, serve, reception, attack, block, all)"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-26s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-14s  %-8s  %-8s  %5s  %7s\n", "HASH", "HOME", "AWAY", "SETS", "POINTS")
	cMuted.Fprintf(os.Stdout, "%-14s  %-8s  %-8s  %5s  %7s\n", "──────────────", "────────", "────────", "─────", "───────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-14s  %-8s  %-8s  %5s  %7s\n",
			m.Hash[:12], m.HomeCode, m.AwayCode,
			fmt.Sprintf("%d-%d", m.HomeSets, m.AwaySets),
			fmt.Sprintf("%d-%d", m.HomePoints, m.AwayPoints))
	}
}

func shellShow(db *storage.DB, prefix string) {
	summary, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if summary == nil {
		cWarn.Fprintf(os.Stderr, "no match found with prefix %q\n", prefix)
		return
	}
	m, err := db.LoadMatch(summary.Hash)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintMatchSummary(os.Stdout, *summary)
	report.PrintSets(os.Stdout, m)
	fmt.Fprintln(os.Stdout)
	report.PrintMatchStats(os.Stdout, m)
	fmt.Fprintln(os.Stdout)
	report.PrintMatchPlayers(os.Stdout, m)
	report.PrintDiagnostics(os.Stdout, m.Diagnostics)
}

func shellTeams(db *storage.DB, team string) {
	matches, ok := shellLoad(db, team)
	if !ok {
		return
	}
	sums := aggregator.Summarize(matches)
	if team != "" {
		sums = filterSummaries(sums, team)
	}
	report.PrintTeamSummaries(os.Stdout, sums)
}

func shellPlayers(db *storage.DB, skill, team string) {
	matches, ok := shellLoad(db, team)
	if !ok {
		return
	}
	if err := printPlayers(matches, skill, team); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellLoad(db *storage.DB, team string) ([]*model.MatchResult, bool) {
	matches, err := loadMatches(db, team)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, false
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return nil, false
	}
	return matches, true
}
