// Package datasource is the data collaborator a grid binds to. It owns the
// records (inline or behind a Transport), applies sorting and paging, and
// notifies subscribers whenever the materialized view changes.
package datasource
