// Package migration names migrations and builds the SQL that records them in
// the schema_migrations ledger.
//
// Names are derived from the first statement of a validation result that
// needs a migration, e.g. "create_users_public_users" or
// "grant_select_public_users", and sanitized to [a-z0-9_]. Versions are UTC
// timestamps with second granularity.
//
// Example:
//
//	sql := "CREATE TABLE users (id SERIAL PRIMARY KEY, name TEXT);"
//	insert, name := migration.PrepareMigrationQuery(statement.Validate(sql), sql, "")
//	// name   == "create_users_public_users"
//	// insert == "INSERT INTO schema_migrations.schema_migrations (version, name, statements) VALUES (...);"
package migration
