package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"champion-quiz/internal/app"
	"github.com/spf13/cobra"
)

// NewTotalsCmd prints a season's aggregate score.
func NewTotalsCmd(configPath *string) *cobra.Command {
	var seasonID string
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show the season score across completed quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			season, err := d.catalog.Season(seasonID)
			if err != nil {
				return err
			}
			totals, err := d.totals.SeasonTotals(cmd.Context(), seasonID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ref := range season.Quizzes {
				result, ok, err := d.quizzes.Result(cmd.Context(), seasonID, ref.ID)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(out, "%-12s -\n", ref.ID)
					continue
				}
				fmt.Fprintf(out, "%-12s %d/%d %s\n", ref.ID, result.CorrectCount, result.TotalQuestions, result.ResultID)
			}
			fmt.Fprintf(out, "%s: %d/%d\n", season.Name, totals.Score, totals.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&seasonID, "season", "season-1", "season id")
	return cmd
}

// NewSubmitCmd publishes the season score with a champion card image.
func NewSubmitCmd(configPath *string) *cobra.Command {
	var seasonID, cardPath string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Upload the champion card and submit the season score",
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := os.ReadFile(cardPath)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			sync, err := d.requireSync()
			if err != nil {
				return err
			}
			receipt, err := sync.SubmitSeasonResult(cmd.Context(), seasonID, card)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "submitted %d/%d for %s\n", receipt.Totals.Score, receipt.Totals.Total, receipt.Season)
			fmt.Fprintf(out, "card:   %s\n", receipt.ChampURL)
			if receipt.AvatarURL != "" {
				fmt.Fprintf(out, "avatar: %s\n", receipt.AvatarURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seasonID, "season", "season-1", "season id")
	cmd.Flags().StringVar(&cardPath, "card", "", "champion card image (PNG, JPEG or GIF)")
	_ = cmd.MarkFlagRequired("card")
	return cmd
}

// NewLeaderboardCmd prints the merged leaderboard.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var limit int
	var showAll bool
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			sync, err := d.requireSync()
			if err != nil {
				return err
			}
			view, err := sync.Leaderboard(cmd.Context(), limit, showAll)
			if err != nil {
				return err
			}
			printLeaderboard(cmd, view)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "rows to fetch")
	cmd.Flags().BoolVar(&showAll, "all", false, "keep duplicate nicknames")
	return cmd
}

func printLeaderboard(cmd *cobra.Command, view app.LeaderboardView) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSCORE\t")
	for _, e := range view.Entries {
		marker := ""
		if e.Me {
			marker = "<- you"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", e.Rank, e.Nickname, e.TotalScore, marker)
	}
	_ = w.Flush()
	if view.Missing {
		fmt.Fprintln(cmd.OutOrStdout(), "you are not on the board yet")
	}
}

// NewWhoamiCmd resolves and prints the player identity.
func NewWhoamiCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Resolve the stable player identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			id := d.identity.Resolve(cmd.Context())
			source := "local"
			if _, ok := d.identity.Session(); ok {
				source = "anonymous sign-in"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", id, source)
			return nil
		},
	}
}
