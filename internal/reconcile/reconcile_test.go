package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID string
	V  int
}

func rowKey(r row) string { return r.ID }

func TestReconcile(t *testing.T) {
	tests := []struct {
		name           string
		newItems       []row
		oldItems       []row
		filtersChanged bool
		want           []row
		wantOK         bool
	}{
		{
			name:     "refresh in place and append tail",
			oldItems: []row{{"a", 1}, {"b", 1}},
			newItems: []row{{"a", 2}, {"b", 1}, {"c", 1}},
			want:     []row{{"a", 2}, {"b", 1}, {"c", 1}},
			wantOK:   true,
		},
		{
			name:     "shorter snapshot rejected",
			oldItems: []row{{"a", 0}, {"b", 0}, {"c", 0}},
			newItems: []row{{"a", 0}, {"b", 0}},
			want:     nil,
			wantOK:   false,
		},
		{
			name:           "filter change is a fresh start",
			oldItems:       []row{{"a", 0}},
			newItems:       []row{{"x", 0}, {"y", 0}},
			filtersChanged: true,
			want:           []row{{"x", 0}, {"y", 0}},
			wantOK:         true,
		},
		{
			name:           "filter change accepts a shorter snapshot",
			oldItems:       []row{{"a", 0}, {"b", 0}, {"c", 0}},
			newItems:       []row{{"z", 0}},
			filtersChanged: true,
			want:           []row{{"z", 0}},
			wantOK:         true,
		},
		{
			name:     "empty history is a fresh start",
			newItems: []row{{"b", 0}, {"a", 0}},
			want:     []row{{"b", 0}, {"a", 0}},
			wantOK:   true,
		},
		{
			name:     "both empty",
			want:     []row{},
			wantOK:   true,
			newItems: nil,
			oldItems: nil,
		},
		{
			name:     "old order wins over new order",
			oldItems: []row{{"a", 1}, {"b", 1}, {"c", 1}},
			newItems: []row{{"c", 2}, {"b", 2}, {"a", 2}},
			want:     []row{{"a", 2}, {"b", 2}, {"c", 2}},
			wantOK:   true,
		},
		{
			name:     "stale item dropped",
			oldItems: []row{{"a", 1}, {"b", 1}},
			newItems: []row{{"a", 1}, {"c", 1}, {"d", 1}},
			want:     []row{{"a", 1}, {"c", 1}, {"d", 1}},
			wantOK:   true,
		},
		{
			name:     "duplicate keys resolve to last record",
			oldItems: []row{{"a", 1}},
			newItems: []row{{"a", 2}, {"n", 1}, {"a", 3}, {"n", 4}},
			want:     []row{{"a", 3}, {"n", 4}},
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Reconcile(tt.newItems, tt.oldItems, tt.filtersChanged, rowKey)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcile_FreshCopyDoesNotAlias(t *testing.T) {
	newItems := []row{{"a", 1}}
	got, ok := Reconcile(newItems, nil, false, rowKey)
	require.True(t, ok)

	got[0].V = 99
	assert.Equal(t, 1, newItems[0].V)
}

func TestReconcile_SecondPassIsNoop(t *testing.T) {
	oldItems := []row{{"a", 1}, {"b", 1}}
	newItems := []row{{"b", 2}, {"a", 2}, {"c", 1}}

	first, ok := Reconcile(newItems, oldItems, false, rowKey)
	require.True(t, ok)

	second, ok := Reconcile(newItems, first, false, rowKey)
	require.True(t, ok)
	assert.Equal(t, first, second)
}
