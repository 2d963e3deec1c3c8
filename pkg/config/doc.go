// Package config loads declarative grid definitions from JSON or YAML files
// and converts their loosely typed options (pageable, sortable, selectable)
// into the tagged variants grid.Config expects.
//
//	grids:
//	  people:
//	    columns: [name, {field: age, title: Age}]
//	    pageable: {pageSize: 20}
//	    selectable: "multiple, row"
package config
