// Package pager renders page navigation for a data source. It is purely
// reactive: links are rebuilt on every data source change and clicks become
// page requests.
package pager
