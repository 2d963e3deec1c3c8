// Package dom holds the small set of node-tree operations the grid needs on top
// of golang.org/x/net/html: element lookup, class and attribute edits, wrapping,
// fragment parsing and table body replacement.
package dom
