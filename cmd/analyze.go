package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/aggregator"
	"github.com/pable/go-volley-metrics/internal/model"
)

const analyzeSystemPrompt = `You are a volleyball performance analyst. You are given structured data
decoded from DataVolley scouting files and a question from a coach.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- A null rate means its denominator was zero; say the figure is unavailable.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable.

Metrics glossary:
- Sideout %: points won while receiving serve, over rallies received.
- Break %: points won while serving, over serves.
- Ace %: aces over serves.
- Reception %: positive or perfect receptions over receptions.
- Kill %: attack points over attack attempts.
- Opp kill %: attack attempts that did not end in a kill, over attack attempts.
- Block %: block points over block attempts.
- CAR %: Continuous Attack Rate, as recorded in the scouting file's stats section.
- Points ratio: points won over total points played, as a percentage.
- Per-set rates divide a total by the number of sets played.
- Except sideouts, team counters come from the home side's stats section, so for
  matches a team played away they describe its opponent.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeTeamCmd = &cobra.Command{
	Use:   "team <code> <question>",
	Short: "Analyze a team's cross-match summary with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeTeam,
}

var analyzeMatchCmd = &cobra.Command{
	Use:   "match <hash-prefix> <question>",
	Short: "Analyze a single stored match with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeMatch,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeCmd.AddCommand(analyzeTeamCmd)
	analyzeCmd.AddCommand(analyzeMatchCmd)
}

func runAnalyzeTeam(cmd *cobra.Command, args []string) error {
	code, question := strings.TrimSpace(args[0]), args[1]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := loadMatches(db, code)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no matches found for team %q", code)
	}

	contextJSON, err := buildTeamContext(code, matches)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, question)
}

func runAnalyzeMatch(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("no match found with hash prefix %q", args[0])
	}
	m, err := db.LoadMatch(summary.Hash)
	if err != nil {
		return fmt.Errorf("load match: %w", err)
	}

	contextJSON, err := buildMatchContext(m)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, args[1])
}

// buildTeamContext serialises a team's summary, its players and its match
// list into compact JSON.
func buildTeamContext(code string, matches []*model.MatchResult) (string, error) {
	var team *exportTeamSummary
	for _, s := range aggregator.Summarize(matches) {
		if s.Team.Code == code {
			ts := teamSummaryJSON(s)
			team = &ts
			break
		}
	}

	players := []exportPlayer{}
	for _, p := range aggregator.PlayerTotalsAcross(matches) {
		if p.Key.TeamCode != code {
			continue
		}
		players = append(players, exportPlayer{
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

	type matchEntry struct {
		Opponent string   `json:"opponent"`
		Home     bool     `json:"home"`
		Won      bool     `json:"won"`
		Sets     string   `json:"sets"`
		Scores   []string `json:"scores"`
	}
	list := make([]matchEntry, 0, len(matches))
	for _, m := range matches {
		side := m.SideOf(code)
		h, a := m.SetWins()
		e := matchEntry{Home: side == model.SideHome}
		if e.Home {
			e.Opponent = m.AwayTeam.Code
			e.Won = m.IsWin
			e.Sets = fmt.Sprintf("%d-%d", h, a)
		} else {
			e.Opponent = m.HomeTeam.Code
			e.Won = !m.IsWin
			e.Sets = fmt.Sprintf("%d-%d", a, h)
		}
		for _, s := range m.Sets {
			e.Scores = append(e.Scores, s.Score)
		}
		list = append(list, e)
	}

	doc := map[string]interface{}{
		"subject":          "team",
		"team":             code,
		"matches_analyzed": len(matches),
		"summary":          team,
		"players":          players,
		"matches":          list,
	}
	b, err := sonic.Marshal(doc)
	return string(b), err
}

// buildMatchContext serialises a single match into compact JSON. Scores are
// written home-away.
func buildMatchContext(m *model.MatchResult) (string, error) {
	type playerEntry struct {
		Team         string `json:"team"`
		Number       string `json:"number"`
		Name         string `json:"name"`
		Role         string `json:"role"`
		PlayedSets   int    `json:"played_sets"`
		ServePoints  int    `json:"serve_points"`
		AttackPoints int    `json:"attack_points"`
		BlockPoints  int    `json:"block_points"`
	}
	players := make([]playerEntry, 0, len(m.HomePlayers)+len(m.AwayPlayers))
	for _, p := range m.Players() {
		players = append(players, playerEntry{
			Team:         p.Team.Code,
			Number:       p.Number,
			Name:         strings.TrimSpace(p.FirstName + " " + p.LastName),
			Role:         p.Role.String(),
			PlayedSets:   p.PlayedSets,
			ServePoints:  p.ServePoints,
			AttackPoints: p.AttackPoints,
			BlockPoints:  p.BlockPoints,
		})
	}

	scores := make([]string, 0, len(m.Sets))
	for _, s := range m.Sets {
		scores = append(scores, s.Score)
	}
	h, a := m.SetWins()
	st := m.Stats

	doc := map[string]interface{}{
		"subject":    "match",
		"home":       m.HomeTeam,
		"away":       m.AwayTeam,
		"home_won":   m.IsWin,
		"sets":       fmt.Sprintf("%d-%d", h, a),
		"scores":     scores,
		"points":     fmt.Sprintf("%d-%d", m.TotalHomePoints, m.TotalAwayPoints),
		"home_stats": map[string]interface{}{
			"sideout_pct":   model.Percent(st.Sideouts, st.SideoutAttempts),
			"break_pct":     model.Percent(st.Breaks, st.BreakAttempts),
			"ace_pct":       model.Percent(st.Aces, st.Serves),
			"reception_pct": model.Percent(st.Receptions, st.ReceptionAttempts),
			"kill_pct":      model.Percent(st.Kills, st.AttackAttempts),
			"block_pct":     model.Percent(st.Blocks, st.BlockAttempts),
			"car_pct":       model.Percent(st.CARs, st.CARAttempts),
		},
		"sideouts": map[string]interface{}{
			"home":        m.Sideouts.Home,
			"away":        m.Sideouts.Away,
			"last_server": m.Sideouts.LastServer.String(),
		},
		"players":       players,
		"skipped_lines": len(m.Diagnostics),
	}
	b, err := sonic.Marshal(doc)
	return string(b), err
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
