// Package listsync ties a catalog source, the pagination window and the
// stable list together into the refresh loop a directory view runs: read the
// limit, query the window, and fold complete results into the list on screen.
package listsync
