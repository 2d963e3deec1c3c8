// Package sortable wires sort gestures on header cells to a data source.
package sortable
