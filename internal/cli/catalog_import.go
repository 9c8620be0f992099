package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/dirscroll/internal/catalog"
)

func newCatalogImportCmd() *cobra.Command {
	var allowPartial bool

	cmd := &cobra.Command{
		Use:   "import <catalog.jsonl> <catalog.db>",
		Short: "Import a JSONL catalog into SQLite",
		Long: `Reads every package from a JSONL catalog and writes it into a SQLite catalog,
creating the database if needed. Packages already present are replaced.

A JSONL file whose last line is cut off is refused unless --allow-partial is
given.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // source and destination
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			log := logger.With().Str("operation", "catalog_import").Str("source", src).Str("dest", dst).Logger()

			switch strings.ToLower(filepath.Ext(dst)) {
			case ".db", ".sqlite", ".sqlite3":
			default:
				return fmt.Errorf("%w: destination must be .db, .sqlite or .sqlite3", catalog.ErrUnknownFormat)
			}

			pkgs, complete, err := catalog.ReadJSONL(src)
			if err != nil {
				return err
			}
			if !complete && !allowPartial {
				return fmt.Errorf("%s ends with an incomplete line, use --allow-partial to import the %d complete packages",
					src, len(pkgs))
			}

			if err := catalog.ImportSQLite(cmd.Context(), dst, pkgs); err != nil {
				return err
			}

			log.Info().Int("packages", len(pkgs)).Bool("complete", complete).Msg("catalog imported")
			cmd.Printf("Imported %d packages into %s\n", len(pkgs), dst)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowPartial, "allow-partial", false, "import the complete lines of a partially written file")

	return cmd
}
