package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dirscroll/internal/catalog"
	"github.com/rshade/dirscroll/internal/cli"
	"github.com/rshade/dirscroll/internal/config"
	"github.com/rshade/dirscroll/internal/pagination"
)

// setupCLITest isolates the config directory and quiets logging.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvCatalog, "")
	t.Setenv(config.EnvInitialLimit, "")
	t.Setenv(config.EnvAutoLoadLimit, "")
	return home
}

// writeCatalog writes n npm packages, most downloaded first, and returns the path.
func writeCatalog(t *testing.T, n int) string {
	t.Helper()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pkgs := make([]catalog.Package, n)
	for i := range pkgs {
		pkgs[i] = catalog.Package{
			Name:      fmt.Sprintf("pkg-%03d", i+1),
			Ecosystem: "npm",
			Version:   "1.0.0",
			Downloads: int64(100000 - i),
			Stars:     int64(i),
			UpdatedAt: base,
		}
	}
	pkgs = append(pkgs, catalog.Package{Name: "requests", Ecosystem: "pypi", Downloads: 1, UpdatedAt: base})

	data, err := catalog.WriteJSONL(pkgs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type listOutput struct {
	Filter string            `json:"filter"`
	Meta   pagination.Meta   `json:"meta"`
	Items  []catalog.Package `json:"items"`
}

func TestList_FirstWindowTable(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t, 40)

	out, err := execute(t, "list", "--catalog", path)
	require.NoError(t, err)

	assert.Contains(t, out, "ECOSYSTEM")
	assert.Contains(t, out, "pkg-001")
	assert.Contains(t, out, "pkg-024")
	assert.NotContains(t, out, "pkg-025")
	assert.Contains(t, out, "100,000")
	assert.Contains(t, out, "Showing 24 of limit 24 (more available, use --pages 2)")
}

func TestList_PagesJSON(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t, 40)

	out, err := execute(t, "list", "--catalog", path, "--ecosystem", "npm", "--pages", "3", "--output", "json")
	require.NoError(t, err)

	var result listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Items, 40)
	assert.Equal(t, "pkg-001", result.Items[0].Name)
	assert.Equal(t, 48, result.Meta.Limit, "loading stops once the source runs short")
	assert.False(t, result.Meta.CanLoadMore)
	assert.Contains(t, result.Filter, "ecosystem=npm")
}

func TestList_WindowFlags(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t, 40)

	out, err := execute(t, "list", "--catalog", path, "--initial-limit", "6", "--load-more-count", "12",
		"--pages", "2", "--output", "json")
	require.NoError(t, err)

	var result listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Items, 18)
	assert.True(t, result.Meta.CanLoadMore)
}

func TestList_FilterAndSort(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t, 10)

	out, err := execute(t, "list", "--catalog", path, "--filter", "pkg-01", "--sort", "stars:desc", "--output", "json")
	require.NoError(t, err)

	var result listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Items, 1)
	assert.Equal(t, "pkg-010", result.Items[0].Name)
}

func TestList_NoMatches(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t, 3)

	out, err := execute(t, "list", "--catalog", path, "--filter", "nothing-like-this")
	require.NoError(t, err)
	assert.Contains(t, out, "No packages match.")
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "no catalog", args: []string{"list"}, wantErr: cli.ErrNoCatalog},
		{name: "bad pages", args: []string{"list", "--catalog", "x.jsonl", "--pages", "0"}, wantErr: cli.ErrInvalidPages},
		{name: "bad output", args: []string{"list", "--catalog", "x.jsonl", "--output", "xml"}, wantErr: cli.ErrInvalidOutput},
		{name: "misaligned window", args: []string{"list", "--catalog", "x.jsonl", "--initial-limit", "5"}, wantErr: pagination.ErrGridMisaligned},
		{name: "bad sort", args: []string{"list", "--catalog", "x.jsonl", "--sort", "size"}, wantErr: catalog.ErrInvalidSortField},
		{name: "unknown format", args: []string{"list", "--catalog", "catalog.csv"}, wantErr: catalog.ErrUnknownFormat},
		{name: "missing file", args: []string{"list", "--catalog", "missing.jsonl"}, wantMsg: "reading catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestList_CatalogFromConfigFile(t *testing.T) {
	setupCLITest(t)
	path := writeCatalog(t, 5)

	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("catalog:\n  path: "+path+"\n  sort: name:desc\n"), 0o600))

	out, err := execute(t, "list", "--config", cfgPath, "--output", "json")
	require.NoError(t, err)

	var result listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "requests", result.Items[0].Name)
}

func TestCatalogImport(t *testing.T) {
	setupCLITest(t)
	src := writeCatalog(t, 30)
	dst := filepath.Join(t.TempDir(), "catalog.db")

	out, err := execute(t, "catalog", "import", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 31 packages")

	out, err = execute(t, "list", "--catalog", dst, "--ecosystem", "npm", "--output", "json")
	require.NoError(t, err)

	var result listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Items, 24)
	assert.Equal(t, "pkg-001", result.Items[0].Name)
}

func TestCatalogImport_Partial(t *testing.T) {
	setupCLITest(t)
	src := writeCatalog(t, 3)
	f, err := os.OpenFile(src, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"name":"half`)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	dst := filepath.Join(t.TempDir(), "catalog.db")

	_, err = execute(t, "catalog", "import", src, dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--allow-partial")

	out, err := execute(t, "catalog", "import", "--allow-partial", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 4 packages")
}

func TestCatalogImport_BadDestination(t *testing.T) {
	setupCLITest(t)
	src := writeCatalog(t, 1)

	_, err := execute(t, "catalog", "import", src, filepath.Join(t.TempDir(), "out.jsonl"))
	require.ErrorIs(t, err, catalog.ErrUnknownFormat)
}
