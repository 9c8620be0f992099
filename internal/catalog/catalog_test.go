package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []Package {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Package{
		{Name: "lodash", Ecosystem: "npm", Version: "4.17.21", Description: "utility library", Downloads: 900, Stars: 50, UpdatedAt: base},
		{Name: "react", Ecosystem: "npm", Version: "18.3.1", Description: "ui library", Downloads: 800, Stars: 200, UpdatedAt: base.AddDate(0, 1, 0)},
		{Name: "requests", Ecosystem: "pypi", Version: "2.32.3", Description: "http for humans", Downloads: 700, Stars: 90, UpdatedAt: base.AddDate(0, 2, 0)},
		{Name: "cobra", Ecosystem: "go", Version: "v1.10.2", Description: "cli framework", Downloads: 300, Stars: 70, UpdatedAt: base.AddDate(0, 3, 0)},
		{Name: "legacy", Ecosystem: "npm", Version: "not-a-version", Description: "old utility", Downloads: 10, Stars: 1, UpdatedAt: base.AddDate(-1, 0, 0)},
	}
}

func names(pkgs []Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

func TestKey(t *testing.T) {
	assert.Equal(t, "npm/react", Key(Package{Name: "react", Ecosystem: "NPM"}))
}

func TestFilter_Fingerprint(t *testing.T) {
	a := Filter{Text: " React ", Ecosystem: "npm"}
	b := Filter{Text: "react", Ecosystem: "NPM", Sort: DefaultSort()}
	c := Filter{Text: "react", Ecosystem: "npm", Sort: Sort{Field: SortName, Order: SortOrderAsc}}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, Filter{}.Fingerprint(), Filter{Text: "x"}.Fingerprint())
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		limit  int
		want   []string
	}{
		{name: "default sort", filter: Filter{}, want: []string{"lodash", "react", "requests", "cobra", "legacy"}},
		{name: "limit", filter: Filter{}, limit: 2, want: []string{"lodash", "react"}},
		{name: "text matches description", filter: Filter{Text: "UTILITY"}, want: []string{"lodash", "legacy"}},
		{name: "ecosystem", filter: Filter{Ecosystem: "NPM", Sort: Sort{Field: SortStars, Order: SortOrderDesc}}, want: []string{"react", "lodash", "legacy"}},
		{name: "name asc", filter: Filter{Sort: Sort{Field: SortName, Order: SortOrderAsc}}, want: []string{"cobra", "legacy", "lodash", "react", "requests"}},
		{name: "updated desc", filter: Filter{Sort: Sort{Field: SortUpdated}}, want: []string{"cobra", "requests", "react", "lodash", "legacy"}},
		{name: "version desc invalid last", filter: Filter{Sort: Sort{Field: SortVersion, Order: SortOrderDesc}}, want: []string{"react", "lodash", "requests", "cobra", "legacy"}},
		{name: "version asc invalid last", filter: Filter{Sort: Sort{Field: SortVersion, Order: SortOrderAsc}}, want: []string{"cobra", "requests", "lodash", "react", "legacy"}},
		{name: "no match", filter: Filter{Text: "zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(tt.filter.Apply(fixture(), tt.limit)))
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		expr    string
		want    Sort
		wantErr error
	}{
		{expr: "", want: DefaultSort()},
		{expr: "name", want: Sort{Field: SortName, Order: SortOrderDesc}},
		{expr: "version:ASC", want: Sort{Field: SortVersion, Order: SortOrderAsc}},
		{expr: ":asc", wantErr: ErrEmptySortField},
		{expr: "size", wantErr: ErrInvalidSortField},
		{expr: "name:up", wantErr: ErrInvalidSortOrder},
		{expr: "a:b:c", wantErr: ErrInvalidSortFmt},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseSort(tt.expr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSort_String(t *testing.T) {
	assert.Equal(t, "downloads:desc", Sort{}.String())
	assert.Equal(t, "name:desc", Sort{Field: SortName}.String())
}

func TestParseJSONL(t *testing.T) {
	data, err := WriteJSONL(fixture()[:2])
	require.NoError(t, err)

	pkgs, complete, err := ParseJSONL(data)
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, fixture()[:2], pkgs)

	t.Run("partial trailing line", func(t *testing.T) {
		partial := append(append([]byte{}, data...), []byte(`{"name":"tr`)...)
		pkgs, complete, err := ParseJSONL(partial)
		require.NoError(t, err)
		assert.False(t, complete)
		assert.Len(t, pkgs, 2)
	})

	t.Run("malformed middle line", func(t *testing.T) {
		bad := append([]byte("{oops\n"), data...)
		_, _, err := ParseJSONL(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("blank lines and empty input", func(t *testing.T) {
		pkgs, complete, err := ParseJSONL([]byte("\n\n"))
		require.NoError(t, err)
		assert.True(t, complete)
		assert.Empty(t, pkgs)

		pkgs, complete, err = ParseJSONL(nil)
		require.NoError(t, err)
		assert.True(t, complete)
		assert.Empty(t, pkgs)
	})
}

func writeCatalog(t *testing.T, pkgs []Package) string {
	t.Helper()
	data, err := WriteJSONL(pkgs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestJSONLSource_Query(t *testing.T) {
	src := NewJSONLSource(writeCatalog(t, fixture()))
	defer src.Close()

	snap, err := src.Query(context.Background(), Filter{Ecosystem: "npm"}, 2)
	require.NoError(t, err)
	assert.True(t, snap.Complete)
	assert.Equal(t, []string{"lodash", "react"}, names(snap.Items))

	_, err = NewJSONLSource(filepath.Join(t.TempDir(), "missing.jsonl")).Query(context.Background(), Filter{}, 1)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Query(ctx, Filter{}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteSource_Query(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")
	require.NoError(t, ImportSQLite(ctx, path, fixture()))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	tests := []struct {
		name   string
		filter Filter
		limit  int
		want   []string
	}{
		{name: "default", filter: Filter{}, limit: 3, want: []string{"lodash", "react", "requests"}},
		{name: "text", filter: Filter{Text: "utility"}, want: []string{"lodash", "legacy"}},
		{name: "ecosystem nocase", filter: Filter{Ecosystem: "NPM", Sort: Sort{Field: SortName, Order: SortOrderAsc}}, want: []string{"legacy", "lodash", "react"}},
		{name: "version in go", filter: Filter{Sort: Sort{Field: SortVersion}}, limit: 2, want: []string{"react", "lodash"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := src.Query(ctx, tt.filter, tt.limit)
			require.NoError(t, err)
			assert.True(t, snap.Complete)
			assert.Equal(t, tt.want, names(snap.Items))
		})
	}

	snap, err := src.Query(ctx, Filter{Text: "react"}, 0)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, fixture()[1], snap.Items[0])
}

func TestOpen(t *testing.T) {
	_, err := Open("")
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = Open("catalog.csv")
	require.ErrorIs(t, err, ErrUnknownFormat)

	src, err := Open("catalog.jsonl")
	require.NoError(t, err)
	assert.IsType(t, &JSONLSource{}, src)
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	path := writeCatalog(t, fixture()[:1])

	w, err := NewWatcher(path, WithDebounceDuration(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.ErrorIs(t, w.Start(), ErrAlreadyStarted)

	data, err := WriteJSONL(fixture())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path := writeCatalog(t, fixture()[:1])

	w, err := NewWatcher(path, WithDebounceDuration(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o600))

	select {
	case <-w.Changed():
		t.Fatal("unexpected change signal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(writeCatalog(t, nil))
	require.NoError(t, err)
	require.NoError(t, w.Start())

	w.Stop()
	assert.NotPanics(t, w.Stop)
}
