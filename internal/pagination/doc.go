// Package pagination owns the growable result window used by scroll-driven
// lists.
//
// The window starts at an initial limit, grows by a fixed step each time more
// items are requested, and resets when the query intent changes:
//   - Config: window sizing with validation (defaults 24 / 24 / 240)
//   - LimitController: the only writer of the current limit
//   - Meta: a serializable snapshot of the window for footers and json output
//
// All sizes are multiples of six so that a full window always fills complete
// rows in both 2- and 3-column grid layouts.
package pagination
