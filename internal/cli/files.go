package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"ragclass/internal/assistant"
	"ragclass/internal/verbose"
)

// previewChars bounds the content preview printed after an upload.
const previewChars = 200

// runUpload builds the handler for the upload command.
func runUpload(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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
		if flags.NArg() == 0 {
			fmt.Fprintln(stderr, "no files given")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		env, err := newEnvironment(common, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Upload failed: %v\n", err)
			return ExitError
		}
		ctx, cancel := commandContext()
		defer cancel()

		outcome, err := env.assistant.Upload(ctx, flags.Args())
		if err != nil {
			fmt.Fprintf(stderr, "Upload failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintln(stdout, outcome.Result.Message)
		if outcome.Result.Paragraphs > 0 {
			fmt.Fprintf(stdout, "Indexed %d paragraph(s).\n", outcome.Result.Paragraphs)
		}
		if outcome.HasContent {
			fmt.Fprintf(stdout, "Content preview: %s\n", verbose.Truncate(outcome.Content.Text(), previewChars))
		}
		return ExitOK
	}
}

// runContent builds the handler for the content command.
func runContent(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		common := registerCommonFlags(flags)
		asJSON := flags.Bool("json", false, "Print the raw backend document")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if rejectArgs(cmd, flags, stderr) {
			return ExitUsage
		}

		env, err := newEnvironment(common, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Content failed: %v\n", err)
			return ExitError
		}
		ctx, cancel := commandContext()
		defer cancel()

		content, err := env.assistant.Content(ctx)
		if err != nil {
			if errors.Is(err, assistant.ErrNoCourseContent) {
				fmt.Fprintln(stderr, "No course content yet. Upload course files first.")
				return ExitError
			}
			fmt.Fprintf(stderr, "Content failed: %v\n", err)
			return ExitError
		}
		if *asJSON {
			pretty, err := content.PrettyJSON()
			if err != nil {
				fmt.Fprintf(stderr, "Content failed: %v\n", err)
				return ExitError
			}
			fmt.Fprintln(stdout, pretty)
			return ExitOK
		}
		fmt.Fprintln(stdout, content.Text())
		return ExitOK
	}
}
