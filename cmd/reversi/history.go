package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-reversi/internal/storage"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently finished games",
	Long: `Display the most recent games recorded in the database, followed by
per-mode totals.

Examples:
  reversi history
  reversi history --limit 50
  reversi history --db ./games.db`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of games to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("cannot open game database: %w", err)
	}
	defer store.Close()

	games, err := store.RecentGames(flagLimit)
	if err != nil {
		return fmt.Errorf("cannot read games: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Recent games")
	fmt.Fprintln(out)

	if len(games) == 0 {
		fmt.Fprintln(out, "No games recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'reversi play' to record the first one!")
		return nil
	}

	// Print header
	fmt.Fprintf(out, "  %-16s  %-8s  %-12s  %-12s  %-7s  %-6s  %s\n", "Date", "Mode", "Black", "White", "Score", "Winner", "End")
	fmt.Fprintf(out, "  %-16s  %-8s  %-12s  %-12s  %-7s  %-6s  %s\n", "----", "----", "-----", "-----", "-----", "------", "---")

	for _, g := range games {
		winner := g.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(out, "  %-16s  %-8s  %-12s  %-12s  %-7s  %-6s  %s\n",
			g.CreatedAt.Format("2006-01-02 15:04"),
			g.Mode,
			nameOr(g.BlackName, "Black"),
			nameOr(g.WhiteName, "White"),
			fmt.Sprintf("%d-%d", g.BlackDisks, g.WhiteDisks),
			winner,
			g.EndReason,
		)
	}

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("cannot read stats: %w", err)
	}
	modes := make([]string, 0, len(stats))
	for m := range stats {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	fmt.Fprintln(out)
	for _, m := range modes {
		st := stats[m]
		fmt.Fprintf(out, "%-8s  %d games  black %d  white %d  draws %d  aborted %d\n",
			m, st.Games, st.BlackWins, st.WhiteWins, st.Draws, st.Aborted)
	}
	return nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
