// Package report turns benchmark documents into text tables.
//
// Records are grouped by the operation and container encoded in their
// name ("Op_Container[/param]"); records whose name does not match are
// skipped. Missing N or size metadata renders as "?".
package report
