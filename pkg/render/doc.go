// Package render compiles the primary and alternate row templates a grid uses
// to turn records into table rows, and keeps the registry of template engines.
package render
