// Package template defines the templating contract the grid compiles row
// templates against. Engines live in subpackages; the grid only depends on
// Compiler and Settings.
package template
