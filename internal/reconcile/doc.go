// Package reconcile merges fresh query snapshots into a previously displayed
// list without reshuffling it.
//
// Live-sync data sources can briefly return results that are shorter or in a
// different order than what is on screen. Re-rendering each of those verbatim
// makes the list flicker and loses the reader's scroll position. Reconcile
// keeps the existing display order, refreshes records in place, drops records
// that vanished, and appends newly loaded ones at the tail:
//   - Reconcile is a pure function usable on its own
//   - StableList is the single writer that remembers the previous result and
//     the filter fingerprint it was produced under
package reconcile
