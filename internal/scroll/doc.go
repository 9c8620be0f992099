// Package scroll turns viewport events into list actions.
//
// The package never touches a concrete renderer. Hosts implement Viewport (a
// terminal list, a web bridge, a test fake) and the controllers here attach to
// it for as long as they live:
//   - SentinelObserver grows a pagination window when a marker placed after
//     the last item comes into view, debounced and capped at the auto-load
//     limit
//   - BackToTop exposes whether the reader has scrolled far enough to offer a
//     jump back to the start
//
// Every controller releases its watchers and timers on Close.
package scroll
