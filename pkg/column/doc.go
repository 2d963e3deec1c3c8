// Package column resolves the ordered column set a grid renders. Columns come
// from explicit configuration, from existing header markup (data-field or the
// slugified header text), from an OpenAPI object schema, or, as a last resort,
// from the keys of the first data record.
package column
