package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"ragclass/internal/api"
	"ragclass/internal/assistant"
	"ragclass/internal/config"
	"ragclass/internal/history"
	"ragclass/internal/session"
	"ragclass/internal/verbose"
)

// commonFlags are accepted by every command that talks to the backend.
type commonFlags struct {
	configPath *string
	verbose    *bool
	noColor    *bool
}

func registerCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath: fs.String("config", "", "Path to config file (default: search for .ragclass/config.yml)"),
		verbose:    fs.Bool("verbose", false, "Log requests and normalization details to stderr"),
		noColor:    fs.Bool("no-color", false, "Disable colored output"),
	}
}

// parseFlags parses args and reports whether the command should continue.
func parseFlags(cmd *Command, fs *flag.FlagSet, args []string, stdout, stderr io.Writer) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}

// rejectArgs reports unexpected positional arguments.
func rejectArgs(cmd *Command, fs *flag.FlagSet, stderr io.Writer) bool {
	if fs.NArg() == 0 {
		return false
	}
	fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
	printCommandUsage(cmd, stderr)
	return true
}

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadConfig loads the config and its project root. Without an explicit path and
// without a config on disk, defaults rooted at the working directory are used.
func loadConfig(configPath string) (config.Config, string, error) {
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		if strings.TrimSpace(configPath) == "" && errors.Is(err, config.ErrConfigNotFound) {
			wd, wdErr := os.Getwd()
			if wdErr != nil {
				return config.Config{}, "", fmt.Errorf("get working directory: %w", wdErr)
			}
			return config.Default(), wd, nil
		}
		return config.Config{}, "", err
	}
	cfg, err := config.Load(resolved)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, config.RootFromConfigPath(resolved), nil
}

// environment bundles the collaborators a command needs.
type environment struct {
	cfg       config.Config
	root      string
	noColor   bool
	verbose   bool
	logger    *verbose.Logger
	client    *api.Client
	state     *session.Store
	assistant *assistant.Assistant
}

func newEnvironment(flags commonFlags, stderr io.Writer) (*environment, error) {
	cfg, root, err := loadConfig(*flags.configPath)
	if err != nil {
		return nil, err
	}
	noColor := *flags.noColor || os.Getenv("NO_COLOR") != ""
	logger := verbose.New(stderr, *flags.verbose, noColor)
	client, err := api.New(api.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	state := session.NewStore(config.ResolvePath(root, cfg.State.Path))
	logger.Printf("config: backend %s, state %s", client.BaseURL(), state.Path())
	return &environment{
		cfg:     cfg,
		root:    root,
		noColor: noColor,
		verbose: *flags.verbose,
		logger:  logger,
		client:  client,
		state:   state,
		assistant: assistant.New(assistant.Options{
			Backend:         client,
			Store:           state,
			Logger:          logger,
			DefaultCount:    cfg.Quiz.DefaultCount,
			MaxContentChars: cfg.Quiz.MaxContentChars,
			Language:        cfg.Quiz.Language,
		}),
	}, nil
}

// openHistory opens the attempt history database.
func (e *environment) openHistory(ctx context.Context) (*history.Store, error) {
	path := config.ResolvePath(e.root, e.cfg.History.Path)
	e.logger.Printf("history: opening %s", path)
	return history.Open(ctx, path)
}

// commandContext is cancelled on interrupt. Each request carries its own timeout.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
