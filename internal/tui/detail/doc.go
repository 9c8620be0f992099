// Package detail renders the expanded view of a single catalog package.
package detail
