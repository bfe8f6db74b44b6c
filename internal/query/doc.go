// Package query implements the paginated search used by every list endpoint.
//
// An Engine is configured once per resource with its free-text searchable
// fields and a whitelist of sortable fields, and delegates the actual lookup
// to a Source. A Source must answer both the total match count and the
// requested page in a single call so the two cannot observe different
// snapshots of the collection.
package query
