// Package listview provides a virtually scrolled list for Bubble Tea TUIs.
//
// Only the rows inside the viewport, plus a small buffer, are rendered, so the
// cost of a frame does not depend on how many items the window has grown to.
// An optional sentinel row after the last item marks the end of the loaded
// window; hosts watch it to decide when to load more.
package listview
