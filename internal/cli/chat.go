package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"ragclass/internal/api"
)

// runAsk builds the handler for the ask command.
func runAsk(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		common := registerCommonFlags(flags)
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		question := strings.TrimSpace(strings.Join(flags.Args(), " "))
		if question == "" {
			fmt.Fprintln(stderr, "question is empty")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		env, err := newEnvironment(common, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Ask failed: %v\n", err)
			return ExitError
		}
		ctx, cancel := commandContext()
		defer cancel()

		resp, err := env.assistant.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(stderr, "Ask failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintln(stdout, resp.Answer)
		if sources := strings.TrimSpace(resp.Sources); sources != "" {
			fmt.Fprintf(stdout, "\nSources:\n%s\n", sources)
		}
		return ExitOK
	}
}

// runHistory builds the handler for the history command.
func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		common := registerCommonFlags(flags)
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if rejectArgs(cmd, flags, stderr) {
			return ExitUsage
		}

		env, err := newEnvironment(common, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		ctx, cancel := commandContext()
		defer cancel()

		messages, err := env.assistant.History(ctx)
		if err != nil {
			if errors.Is(err, api.ErrSessionExpired) {
				fmt.Fprintln(stdout, "Conversation expired. The next question starts a new one.")
				return ExitOK
			}
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		if len(messages) == 0 {
			fmt.Fprintln(stdout, "No conversation yet.")
			return ExitOK
		}
		for i, message := range messages {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "%s: %s\n", roleLabel(message.Role), message.Content)
		}
		return ExitOK
	}
}

// runClear builds the handler for the clear command.
func runClear(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		common := registerCommonFlags(flags)
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if rejectArgs(cmd, flags, stderr) {
			return ExitUsage
		}

		env, err := newEnvironment(common, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Clear failed: %v\n", err)
			return ExitError
		}
		if err := env.assistant.ClearChat(); err != nil {
			fmt.Fprintf(stderr, "Clear failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintln(stdout, "Conversation cleared.")
		return ExitOK
	}
}

func roleLabel(role string) string {
	switch strings.ToLower(role) {
	case "user":
		return "You"
	case "assistant":
		return "Assistant"
	default:
		return role
	}
}
