package cli

import (
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Command is one ragclass subcommand.
type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

// Run dispatches args to a command and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ragclass <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"ragclass <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .ragclass/config.yml", []string{
		"ragclass init [--config <path>] [--base-url <url>]",
	}, runInit),
	command("validate", "Validate .ragclass/config.yml", []string{
		"ragclass validate [--config <path>]",
	}, runValidate),
	command("upload", "Upload course files to the backend", []string{
		"ragclass upload [--config <path>] <file>...",
	}, runUpload),
	command("content", "Show the indexed course content", []string{
		"ragclass content [--json]",
	}, runContent),
	command("ask", "Ask the course assistant a question", []string{
		"ragclass ask <question>",
	}, runAsk),
	command("history", "Show the current conversation", []string{
		"ragclass history",
	}, runHistory),
	command("clear", "Forget the current conversation", []string{
		"ragclass clear",
	}, runClear),
	command("quiz", "Generate and take a quiz on the course content", []string{
		"ragclass quiz [--count N] [--answers B,A,...] [--ui auto|live|plain]",
		"ragclass quiz --export <results.xlsx> [--no-record]",
	}, runQuiz),
	command("stats", "Summarize recorded quiz attempts", []string{
		"ragclass stats [--recent N]",
	}, runStats),
}
