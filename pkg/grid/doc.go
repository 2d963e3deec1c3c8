// Package grid turns a table element into a data grid: it builds the wrapper,
// header and pager structure, renders rows from a data source through compiled
// row templates, and handles keyboard and pointer input for the current cell
// and selection.
//
// State that refers to body cells (the current cell and the selection) is kept
// as row/column coordinates so it can be resolved again after each refresh.
package grid
