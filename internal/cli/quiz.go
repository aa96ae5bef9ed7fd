package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"ragclass/internal/export"
	"ragclass/internal/quiz"
	"ragclass/internal/ui/quizview"
)

// quizInput allows tests to override stdin for plain quiz prompts.
var quizInput io.Reader = os.Stdin

type quizOptions struct {
	count    int
	answers  string
	export   string
	noRecord bool
}

// runQuiz builds the handler for the quiz command.
func runQuiz(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		common := registerCommonFlags(flags)
		count := flags.Int("count", 0, "Number of questions, 1-20 (default: quiz.default_count)")
		answers := flags.String("answers", "", "Comma-separated answers in question order, e.g. B,A,C")
		uiMode := flags.String("ui", "", "UI mode: auto|live|plain (default: ui.mode)")
		exportPath := flags.String("export", "", "Append graded results to an .xlsx workbook")
		noRecord := flags.Bool("no-record", false, "Do not record the attempt in the local history")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if rejectArgs(cmd, flags, stderr) {
			return ExitUsage
		}

		env, err := newEnvironment(common, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
			return ExitError
		}
		mode := *uiMode
		if strings.TrimSpace(mode) == "" {
			mode = env.cfg.UI.Mode
		}
		decision, err := resolveUIMode(mode, env.verbose, quizInput, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		opts := quizOptions{count: *count, answers: *answers, export: *exportPath, noRecord: *noRecord}
		ctx, cancel := commandContext()
		defer cancel()
		if decision.useLive && opts.answers == "" {
			return env.runLiveQuiz(ctx, opts, stdout, stderr)
		}
		return env.runPlainQuiz(ctx, opts, stdout, stderr)
	}
}

func (e *environment) runLiveQuiz(ctx context.Context, opts quizOptions, stdout, stderr io.Writer) int {
	model := quizview.New(nil, e.assistant, quizview.Options{
		Count:   opts.count,
		Timeout: e.cfg.Timeout(),
		NoColor: e.noColor,
	})
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(quizInput), tea.WithOutput(stdout)).Run()
	if err != nil {
		fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
		return ExitError
	}
	finished, ok := final.(quizview.Model)
	if !ok {
		fmt.Fprintf(stderr, "Quiz failed: unexpected model %T\n", final)
		return ExitError
	}
	result, graded := finished.Result()
	if !graded {
		fmt.Fprintln(stdout, "Quiz closed without submitting.")
		return ExitOK
	}
	fmt.Fprintln(stdout, quizview.ScoreLine(result, e.noColor))
	return e.saveResult(ctx, opts, result, stdout, stderr)
}

func (e *environment) runPlainQuiz(ctx context.Context, opts quizOptions, stdout, stderr io.Writer) int {
	generated, err := e.assistant.GenerateQuiz(ctx, opts.count)
	if err != nil {
		fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
		return ExitError
	}
	session := quiz.NewSession()
	if err := e.assistant.Apply(session, generated); err != nil {
		fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
		return ExitError
	}
	if got := len(generated.Batch.Questions); got < generated.Requested {
		fmt.Fprintf(stderr, "Requested %d question(s), received %d.\n", generated.Requested, got)
	}
	fmt.Fprintln(stdout, quizview.RenderQuestions(session, e.noColor))
	fmt.Fprintln(stdout)

	if opts.answers != "" {
		if err := applyAnswers(session, parseAnswers(opts.answers)); err != nil {
			fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
			return ExitUsage
		}
	} else {
		in := quizInput
		if in == nil {
			in = os.Stdin
		}
		if err := promptAnswers(bufio.NewReader(in), stdout, session); err != nil {
			fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
			return ExitError
		}
	}

	result, err := quiz.Grade(session)
	if err != nil {
		if errors.Is(err, quiz.ErrNoUserAnswers) {
			fmt.Fprintln(stderr, "Select at least one answer before submitting.")
			return ExitError
		}
		fmt.Fprintf(stderr, "Quiz failed: %v\n", err)
		return ExitError
	}
	fmt.Fprintln(stdout, quizview.RenderResult(session, result, e.noColor))
	return e.saveResult(ctx, opts, result, stdout, stderr)
}

// saveResult records the attempt and appends it to the export workbook when requested.
func (e *environment) saveResult(ctx context.Context, opts quizOptions, result quiz.Result, stdout, stderr io.Writer) int {
	attemptID := uuid.NewString()
	takenAt := time.Now().UTC()
	if !opts.noRecord && !e.cfg.History.Disabled {
		store, err := e.openHistory(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Record failed: %v\n", err)
			return ExitError
		}
		attempt, err := store.Record(ctx, result)
		closeErr := store.Close()
		if err != nil {
			fmt.Fprintf(stderr, "Record failed: %v\n", err)
			return ExitError
		}
		if closeErr != nil {
			e.logger.Errorf("history: close: %v", closeErr)
		}
		attemptID, takenAt = attempt.ID, attempt.TakenAt
		fmt.Fprintf(stdout, "Recorded attempt %s.\n", attemptID)
	}
	if opts.export != "" {
		if err := export.AppendResult(opts.export, attemptID, takenAt, result); err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Exported results to %s.\n", opts.export)
	}
	return ExitOK
}

// parseAnswers splits "B, a,,C" into ["B", "A", "", "C"].
func parseAnswers(raw string) []string {
	parts := strings.Split(raw, ",")
	answers := make([]string, len(parts))
	for i, part := range parts {
		answers[i] = strings.ToUpper(strings.TrimSpace(part))
	}
	return answers
}

// applyAnswers selects answers positionally; blank entries leave a question unanswered.
func applyAnswers(session *quiz.Session, answers []string) error {
	questions := session.Questions()
	if len(answers) > len(questions) {
		return fmt.Errorf("%d answers given for %d question(s)", len(answers), len(questions))
	}
	for i, letter := range answers {
		if letter == "" {
			continue
		}
		if err := session.Select(questions[i].ID, letter); err != nil {
			return err
		}
	}
	return nil
}

func optionRange(q quiz.Question) string {
	if len(q.Options) == 0 {
		return "-"
	}
	return q.Options[0].Letter + "-" + q.Options[len(q.Options)-1].Letter
}
