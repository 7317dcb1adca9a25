// Package ledger creates and reads the table that records applied
// migrations.
//
// Each migration run through sqlgate adds one row holding its version, name
// and the SQL that was executed. The table lives at
// schema_migrations.schema_migrations unless configured otherwise:
//
//	CREATE TABLE schema_migrations.schema_migrations (
//		version    TEXT,
//		name       TEXT,
//		statements TEXT
//	)
//
// Versions are not unique: migrations applied within the same second share a
// version and are read back in insertion order.
//
// Rows are written by the executor package as part of the same transaction
// that runs the migration; this package only bootstraps the table and reads
// it back.
package ledger
