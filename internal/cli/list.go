package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rshade/dirscroll/internal/catalog"
	"github.com/rshade/dirscroll/internal/config"
	"github.com/rshade/dirscroll/internal/listsync"
	"github.com/rshade/dirscroll/internal/logging"
	"github.com/rshade/dirscroll/internal/pagination"
	"github.com/rshade/dirscroll/internal/tui"
)

const (
	outputTable = "table"
	outputJSON  = "json"

	tabPadding = 2
)

// ErrInvalidOutput is returned for an unsupported --output value.
var ErrInvalidOutput = errors.New("output must be 'table' or 'json'")

// ErrInvalidPages is returned when --pages is less than one.
var ErrInvalidPages = errors.New("pages must be at least 1")

// listResult is the JSON document printed by list --output json.
type listResult struct {
	Filter string            `json:"filter"`
	Meta   pagination.Meta   `json:"meta"`
	Items  []catalog.Package `json:"items"`
}

func newListCmd(a *app) *cobra.Command {
	var (
		q      queryFlags
		pages  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print windows of the catalog without the interactive UI",
		Long: `Prints the catalog using the same window rules as browse. --pages 1 prints the
initial window; each further page loads one more window, as a scroll to the
bottom would.`,
		Example: `  # Print the first window as a table
  dirscroll list --catalog packages.jsonl

  # Print three windows of pypi packages as JSON
  dirscroll list --ecosystem pypi --pages 3 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages < 1 {
				return ErrInvalidPages
			}
			if output != outputTable && output != outputJSON {
				return fmt.Errorf("%w: %q", ErrInvalidOutput, output)
			}
			filter, err := q.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}
			return runList(cmd, a.cfg, filter, pages, output)
		},
	}
	q.bind(cmd)
	cmd.Flags().IntVar(&pages, "pages", 1, "number of windows to load")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")

	return cmd
}

// runList loads pages windows and prints the result.
func runList(cmd *cobra.Command, cfg *config.Config, filter catalog.Filter, pages int, output string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx).With().Str("operation", "list").Logger()

	src, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer func() { _ = src.Close() }()

	session := listsync.NewSession(src, cfg.Pagination, log)
	session.SetFilter(filter)

	for page := 1; ; page++ {
		if _, err := session.Refresh(ctx); err != nil {
			return err
		}
		if page >= pages || !session.CanLoadMore() {
			break
		}
		session.LoadMore()
	}

	log.Debug().
		Int("limit", session.Limit()).
		Int("items", len(session.Items())).
		Msg("list loaded")

	if output == outputJSON {
		return printListJSON(cmd, session)
	}
	return printListTable(cmd, session)
}

func printListJSON(cmd *cobra.Command, session *listsync.Session) error {
	items := session.Items()
	if items == nil {
		items = []catalog.Package{}
	}
	data, err := json.MarshalIndent(listResult{
		Filter: session.Filter().Fingerprint(),
		Meta:   session.Meta(),
		Items:  items,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding list: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func printListTable(cmd *cobra.Command, session *listsync.Session) error {
	out := cmd.OutOrStdout()
	items := session.Items()
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "No packages match.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(w, "#\tECOSYSTEM\tNAME\tVERSION\tDOWNLOADS\tSTARS\tUPDATED")
	for i, p := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, p.Ecosystem, p.Name, p.Version,
			tui.FormatCount(p.Downloads), tui.FormatCount(p.Stars), tui.FormatDate(p.UpdatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	meta := session.Meta()
	fmt.Fprintf(out, "\nShowing %d of limit %d", meta.Loaded, meta.Limit)
	if meta.CanLoadMore {
		fmt.Fprintf(out, " (more available, use --pages %d)", pagesFor(meta, session.Controller().Config())+1)
	}
	_, err := fmt.Fprintln(out)
	return err
}

// pagesFor returns how many pages produced the current limit.
func pagesFor(meta pagination.Meta, cfg pagination.Config) int {
	if cfg.LoadMoreCount <= 0 || meta.Limit <= cfg.InitialLimit {
		return 1
	}
	return 1 + (meta.Limit-cfg.InitialLimit)/cfg.LoadMoreCount
}
