package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/dirscroll/internal/config"
	"github.com/rshade/dirscroll/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// app carries state resolved once per invocation by the root command.
type app struct {
	cfg       *config.Config
	logResult *logging.LogPathResult

	// interactive reports whether stdout is a terminal; tests override it.
	interactive func() bool
}

// NewRootCmd creates the root Cobra command for the dirscroll CLI.
// It loads configuration, wires up logging and tracing, and adds the browse,
// list, config and catalog subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return newRootCmd(ver, &app{interactive: func() bool { return isTerminal(os.Stdout) }})
}

func newRootCmd(ver string, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dirscroll",
		Short:   "Browse a package catalog with an endlessly scrolling list",
		Long:    "dirscroll: browse a package directory that loads more rows as you scroll",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a.cfg = cfg

			result := setupLogging(cmd, cfg, a.wantsTUI(cmd))
			a.logResult = &result
			cfg.LogWarnings(logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(a.logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $DIRSCROLL_HOME/config.yaml or ~/.dirscroll/config.yaml)")
	cmd.PersistentFlags().String("catalog", "", "catalog file (.jsonl, .json, .db, .sqlite)")

	cmd.AddCommand(newBrowseCmd(a), newListCmd(a), newConfigCmd(), newCatalogCmd())

	return cmd
}

// wantsTUI reports whether cmd is about to take over the terminal.
func (a *app) wantsTUI(cmd *cobra.Command) bool {
	return cmd.Name() == browseCmdName && a.interactive()
}

// loadConfig resolves configuration from --config or the default location,
// then applies the root flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.New()
	}

	if catalogPath, _ := cmd.Flags().GetString("catalog"); catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	return cfg, nil
}

const rootCmdExample = `  # Browse a catalog interactively
  dirscroll browse --catalog packages.jsonl

  # Print the first three windows of npm packages as JSON
  dirscroll list --catalog packages.db --ecosystem npm --pages 3 --output json

  # Import a JSONL catalog into SQLite
  dirscroll catalog import packages.jsonl packages.db

  # Initialize configuration
  dirscroll config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}

// newCatalogCmd creates the catalog command group.
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Catalog management commands"}
	cmd.AddCommand(newCatalogImportCmd())
	return cmd
}
