// Package sqlite provides the SQLite-backed passage store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Documents and their embedded chunks live in one database file; similarity
// search scans the stored vectors and ranks them by cosine similarity.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the migrations/
// directory. Each applied version is recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.vademecum/data/passages.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store relies on SQLite in WAL mode.
package sqlite
