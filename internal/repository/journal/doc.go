// Package journal keeps the history of delivered timer alerts.
//
// FileJournal appends one protojson-encoded google.protobuf.Struct per line
// and can read the whole history back. Only alerts are recorded here; the
// timer list itself is never persisted.
package journal
