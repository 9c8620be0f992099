package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/dirscroll/internal/catalog"
	"github.com/rshade/dirscroll/internal/config"
	"github.com/rshade/dirscroll/internal/listsync"
	"github.com/rshade/dirscroll/internal/logging"
	"github.com/rshade/dirscroll/internal/pagination"
	"github.com/rshade/dirscroll/internal/tui"
)

const browseCmdName = "browse"

// ErrNoCatalog is returned when no catalog path was configured.
var ErrNoCatalog = errors.New("no catalog configured: pass --catalog or set catalog.path in config")

// queryFlags holds the flags shared by browse and list.
type queryFlags struct {
	text      string
	ecosystem string
	sort      string
	window    pagination.Config
}

func (q *queryFlags) bind(cmd *cobra.Command) {
	q.window = pagination.DefaultConfig()
	cmd.Flags().StringVar(&q.text, "filter", "", "show only packages whose name or description contains this text")
	cmd.Flags().StringVar(&q.ecosystem, "ecosystem", "", "show only packages from this ecosystem (npm, pypi, go, ...)")
	cmd.Flags().StringVar(&q.sort, "sort", "", "sort order as field[:asc|desc] (downloads, stars, name, updated, version)")
	pagination.BindFlags(cmd.Flags(), &q.window)
}

// resolve merges the flags into cfg and returns the validated filter.
func (q *queryFlags) resolve(cmd *cobra.Command, cfg *config.Config) (catalog.Filter, error) {
	pagination.ApplyChanged(cmd.Flags(), q.window, &cfg.Pagination)
	if q.sort != "" {
		cfg.Catalog.Sort = q.sort
	}
	if err := cfg.Validate(); err != nil {
		return catalog.Filter{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Catalog.Path == "" {
		return catalog.Filter{}, ErrNoCatalog
	}

	sortSpec, err := catalog.ParseSort(cfg.Catalog.Sort)
	if err != nil {
		return catalog.Filter{}, err
	}
	return catalog.Filter{Text: q.text, Ecosystem: q.ecosystem, Sort: sortSpec}, nil
}

func newBrowseCmd(a *app) *cobra.Command {
	var q queryFlags

	cmd := &cobra.Command{
		Use:   browseCmdName,
		Short: "Browse the catalog in an infinitely scrolling list",
		Long: `Opens an interactive package list. Scrolling to the bottom loads the next
window of packages until the auto-load limit is reached; after that, press m
to load more by hand.

When stdout is not a terminal, browse prints the first window like list.`,
		Example: `  # Browse all packages, most downloaded first
  dirscroll browse --catalog packages.jsonl

  # Browse Go modules by stars, loading 50 at a time
  dirscroll browse --ecosystem go --sort stars --load-more-count 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := q.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}
			if !a.interactive() {
				logger.Debug().Msg("stdout is not a terminal, printing list")
				return runList(cmd, a.cfg, filter, 1, outputTable)
			}
			return runBrowse(cmd.Context(), a.cfg, filter)
		},
	}
	q.bind(cmd)

	return cmd
}

// runBrowse runs the directory TUI until the user quits. When catalog watching
// is enabled, file changes are forwarded to the model as refreshes.
func runBrowse(ctx context.Context, cfg *config.Config, filter catalog.Filter) error {
	log := logging.FromContext(ctx).With().Str("operation", "browse").Logger()

	src, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer func() { _ = src.Close() }()

	session := listsync.NewSession(src, cfg.Pagination, log)
	session.SetFilter(filter)

	g, gctx := errgroup.WithContext(ctx)
	model := tui.NewDirectoryModel(gctx, session, tui.DirectoryOptions{
		RowHeightPx:          cfg.Scroll.RowHeightPx,
		Debounce:             cfg.Scroll.Debounce(),
		RootMarginPx:         cfg.Scroll.RootMarginPx,
		BackToTopThresholdPx: cfg.Scroll.BackToTopThresholdPx,
		Logger:               log,
	})
	defer model.Close()

	var watcher *catalog.Watcher
	if cfg.Catalog.Watch {
		watcher, err = catalog.NewWatcher(cfg.Catalog.Path,
			catalog.WithDebounceDuration(cfg.Catalog.WatchDebounce()),
			catalog.WithOnError(func(werr error) {
				log.Warn().Err(werr).Str("path", cfg.Catalog.Path).Msg("catalog watch error")
			}),
		)
		if err == nil {
			err = watcher.Start()
		}
		if err != nil {
			log.Warn().Err(err).Msg("catalog watching disabled")
			watcher = nil
		} else {
			defer watcher.Stop()
		}
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		_, runErr := program.Run()
		if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return runErr
	})

	if watcher != nil {
		g.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				case <-watcher.Changed():
					log.Debug().Str("path", watcher.Path()).Msg("catalog changed")
					model.Notify(tui.CatalogChangedMsg{})
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
