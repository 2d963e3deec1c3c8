// Package selection keeps a single or multiple selection of table body rows or
// cells. Items are stored as positions and resolved to live nodes on demand,
// so a rebuilt body never leaves the helper holding detached nodes.
package selection
