package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"champion-quiz/internal/app"
	"champion-quiz/internal/domain"
	"github.com/spf13/cobra"
)

// NewPlayCmd plays a quiz in the terminal. Progress survives quitting; a
// finished quiz only shows its stored result.
func NewPlayCmd(configPath *string) *cobra.Command {
	var seasonID, quizID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play (or resume) a quiz",
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

			view, err := d.quizzes.Enter(cmd.Context(), seasonID, quizID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			for view.Phase == domain.PhaseInProgress {
				printQuestion(out, view)
				selected, ok := readChoice(in, out, len(view.Question.Options))
				if !ok {
					fmt.Fprintln(out, "progress saved")
					return nil
				}
				view, err = d.quizzes.Answer(cmd.Context(), seasonID, quizID, selected)
				if err != nil && !errors.Is(err, domain.ErrQuizCompleted) {
					return err
				}
				if !view.Durable {
					fmt.Fprintln(out, "warning: progress could not be saved")
				}
			}
			printResult(out, view)
			return nil
		},
	}
	cmd.Flags().StringVar(&seasonID, "season", "season-1", "season id")
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id")
	_ = cmd.MarkFlagRequired("quiz")
	return cmd
}

func printQuestion(out io.Writer, view app.SessionView) {
	q := view.Question
	fmt.Fprintf(out, "\n[%d/%d] %s\n", view.Index+1, view.Total, q.Prompt)
	if q.Media != "" {
		fmt.Fprintf(out, "  (%s)\n", q.Media)
	}
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}
}

// readChoice returns a zero-based option index; ok is false on EOF or "q".
func readChoice(in *bufio.Scanner, out io.Writer, options int) (int, bool) {
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return 0, false
		}
		text := strings.TrimSpace(in.Text())
		if text == "q" {
			return 0, false
		}
		n, err := strconv.Atoi(text)
		if err == nil && n >= 1 && n <= options {
			return n - 1, true
		}
		fmt.Fprintf(out, "pick 1-%d or q to quit\n", options)
	}
}

func printResult(out io.Writer, view app.SessionView) {
	r := view.Result
	if r == nil {
		return
	}
	fmt.Fprintf(out, "\n%s: %d/%d correct (%d%%)\n", r.ResultID, r.CorrectCount, r.TotalQuestions, r.AccuracyPercent)
	if r.PlayerName != "" {
		fmt.Fprintf(out, "player: %s\n", r.PlayerName)
	}
	if r.Missing {
		fmt.Fprintln(out, "answer log unavailable for this result")
	}
}
