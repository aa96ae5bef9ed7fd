package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ragclass/internal/history"
	"ragclass/internal/ui/quizview"
	"ragclass/internal/verbose"
)

const missedLimit = 5

// runStats builds the handler for the stats command.
func runStats(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		common := registerCommonFlags(flags)
		recent := flags.Int("recent", 10, "Number of recent attempts to list")
		attemptID := flags.String("attempt", "", "Show the questions of one attempt")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if rejectArgs(cmd, flags, stderr) {
			return ExitUsage
		}
		if *recent < 1 {
			fmt.Fprintln(stderr, "--recent must be >= 1")
			return ExitUsage
		}

		env, err := newEnvironment(common, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Stats failed: %v\n", err)
			return ExitError
		}
		ctx, cancel := commandContext()
		defer cancel()

		store, err := env.openHistory(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Stats failed: %v\n", err)
			return ExitError
		}
		defer store.Close()

		if *attemptID != "" {
			questions, err := store.Questions(ctx, *attemptID)
			if err != nil {
				fmt.Fprintf(stderr, "Stats failed: %v\n", err)
				return ExitError
			}
			if len(questions) == 0 {
				fmt.Fprintf(stderr, "No attempt %s recorded.\n", *attemptID)
				return ExitError
			}
			fmt.Fprintln(stdout, attemptTable(questions))
			return ExitOK
		}

		stats, err := store.Stats(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Stats failed: %v\n", err)
			return ExitError
		}
		if stats.Attempts == 0 {
			fmt.Fprintln(stdout, "No quiz attempts recorded yet.")
			return ExitOK
		}
		fmt.Fprintf(stdout, "Attempts: %d\n", stats.Attempts)
		fmt.Fprintf(stdout, "Questions graded: %d\n", stats.Questions)
		fmt.Fprintf(stdout, "Accuracy: %d%% (%d correct)\n", stats.Accuracy, stats.Correct)
		fmt.Fprintf(stdout, "Best score: %d%%\n", stats.BestPercent)
		fmt.Fprintf(stdout, "Last attempt: %s\n", stats.LastTakenAt.Local().Format(time.DateTime))

		attempts, err := store.Recent(ctx, *recent)
		if err != nil {
			fmt.Fprintf(stderr, "Stats failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, recentTable(attempts))

		missed, err := store.MostMissed(ctx, missedLimit)
		if err != nil {
			fmt.Fprintf(stderr, "Stats failed: %v\n", err)
			return ExitError
		}
		if len(missed) > 0 {
			fmt.Fprintln(stdout, "\nMost missed:")
			for _, item := range missed {
				fmt.Fprintf(stdout, "  %dx %s\n", item.Count, verbose.Truncate(item.Text, 80))
			}
		}
		return ExitOK
	}
}

func recentTable(attempts []history.Attempt) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Attempt", "Taken", "Score", "%")
	for _, attempt := range attempts {
		t.Row(
			attempt.ID,
			attempt.TakenAt.Local().Format(time.DateTime),
			fmt.Sprintf("%d/%d", attempt.Correct, attempt.Total),
			strconv.Itoa(attempt.Percent),
		)
	}
	return t.String()
}

func attemptTable(questions []history.AttemptQuestion) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Question", "Yours", "Answer", "Result")
	for _, q := range questions {
		user := q.User
		if user == "" {
			user = "-"
		}
		t.Row(
			strconv.Itoa(q.ID),
			verbose.Truncate(q.Text, 60),
			user,
			q.Standard,
			quizview.StatusLabel(q.Status),
		)
	}
	return t.String()
}
