package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aqasim81/migration-healer/internal/analyzer"
	"github.com/aqasim81/migration-healer/internal/config"
	"github.com/aqasim81/migration-healer/internal/extractor"
	"github.com/aqasim81/migration-healer/internal/input"
	"github.com/aqasim81/migration-healer/internal/report"
)

const (
	version   = "0.1.0"
	usageLine = "Usage: healer <container-name> [migration-output-file] [--json]"
)

// errUsage is returned when the positional arguments are wrong.
var errUsage = errors.New("expected a container name and an optional migration output file")

// errMissingTables signals that the prose report listed errors. It maps to
// exit code 1 without printing anything further.
var errMissingTables = errors.New("missing table errors detected")

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// rootCmd is the healer command.
var rootCmd = newRootCmd() //nolint:gochecknoglobals // standard Cobra pattern

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "healer <container-name> [migration-output-file]",
		Version: version,
		Short:   "Analyze missing-table errors in migration output",
		Long: `healer reads the output of a migration run from a file or standard input,
detects "Table '<db>.<table>' doesn't exist" errors, groups them by database,
decides whether they point at a corrupted database or a pending migration,
and prints a remediation report or a JSON list of suggested actions.

Nothing is executed: the container name only labels generated commands.`,
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
		RunE: runHeal,
	}

	cmd.PersistentFlags().String("config", "healer.yml", "path to configuration file")
	cmd.PersistentFlags().Bool("verbose", false, "enable debug logging on stderr")
	cmd.Flags().Bool("json", false, "print a JSON payload instead of the prose report")
	cmd.Flags().Bool("check-commands", false, "list docker commands that check each missing table")
	cmd.Flags().Int("min-distinct-tables", 0, "missing tables in one database that signal corruption")
	cmd.Flags().Int("min-repeats", 0, "repeats of a core table failure that signal corruption")

	return cmd
}

// Execute runs the root command and exits with its status. Called from main.
func Execute() {
	os.Exit(exitCode(rootCmd.Execute(), os.Stderr))
}

// exitCode maps the command result to a process exit status, printing
// fatal errors to stderr.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errMissingTables):
		return 1
	default:
		fmt.Fprintln(stderr, "Error:", err)

		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, usageLine)
		}

		return 1
	}
}

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 { //nolint:mnd // container plus optional file
		return fmt.Errorf("%w (got %d argument(s))", errUsage, len(args))
	}

	return nil
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	config.MergeEnv(cfg)
	mergeFlags(cmd, cfg)

	AppConfig = cfg

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("min-distinct-tables") {
		cfg.MinDistinctTables, _ = cmd.Flags().GetInt("min-distinct-tables")
	}

	if cmd.Flags().Changed("min-repeats") {
		cfg.MinRepeats, _ = cmd.Flags().GetInt("min-repeats")
	}
}

func runHeal(cmd *cobra.Command, args []string) error {
	cfg := AppConfig
	container := args[0]

	var path string
	if len(args) > 1 {
		path = args[1]
	}

	logger := newLogger(cmd)
	logger.WithFields(logrus.Fields{
		"container": container,
		"input":     inputName(path),
	}).Debug("analyzing migration output")

	raw, err := input.Read(path, cmd.InOrStdin(), cfg.MaxInputBytes)
	if err != nil {
		return fmt.Errorf("reading migration output: %w", err)
	}

	records := extractor.New(extractor.WithLogger(logger)).Extract(raw)

	result := analyzer.New(
		analyzer.WithPolicy(cfg.Policy()),
		analyzer.WithVerifyLimit(cfg.VerifyLimit),
		analyzer.WithLogger(logger),
	).Analyze(records)

	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return report.JSON(out, result)
	}

	opts := report.TextOptions{VerifyLimit: cfg.ReportVerifyLimit}

	if checks, _ := cmd.Flags().GetBool("check-commands"); checks {
		opts.CheckCommands = analyzer.BuildCheckCommands(container, result.Dependencies, cfg.MySQLTarget())
	}

	report.Text(out, result, opts)

	if result.HasErrors() {
		return errMissingTables
	}

	return nil
}

// newLogger returns a stderr logger; --verbose enables debug entries.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetLevel(logrus.WarnLevel)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		l.SetLevel(logrus.DebugLevel)
	}

	return l
}

func inputName(path string) string {
	if path == "" {
		return "stdin"
	}

	return path
}
