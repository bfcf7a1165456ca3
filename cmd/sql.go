package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(hash, source, home_code, home_name, away_code, away_name, is_win,
    home_points, away_points, so_home_points, so_home_attempts, so_away_points,
    so_away_attempts, last_server, imported_at)
  match_sets(match_hash, set_number, score, is_win, home_points, away_points)
  match_players(match_hash, side, position, team_code, number, first_name,
    last_name, role, played_sets, serve_points, attack_points, block_points)
  team_stats(match_hash, points, total_points, breaks, break_attempts, aces,
    serves, sideouts, sideout_attempts, receptions, reception_attempts, kills,
    attack_attempts, blocks, block_attempts, cars, car_attempts)
  raw_lines(match_hash, line_no, text)
  match_diagnostics(match_hash, seq, section, line, kind, detail)

side and last_server are 1 for home and 2 for away. team_stats is home-perspective.
Example: SELECT team_code, SUM(attack_points) FROM match_players GROUP BY team_code`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

