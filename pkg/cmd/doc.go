// Package cmd provides the CLI commands for sqlgate.
//
// Commands are built as *cli.Command values from urfave/cli/v3 and provided
// to the fx "commands" group; Run assembles them into the application.
//
// # Available Commands
//
//   - classify: Show each statement's category and whether it needs a migration
//   - name: Print the migration name generated for SQL
//   - prepare: Print the schema_migrations insert for SQL without running it
//   - query: Run read-only SQL in a rolled back READ ONLY transaction
//   - exec: Run SQL, recording a migration when it changes schema or data
//   - bootstrap: Create the schema_migrations ledger
//   - history: List recorded migrations
//   - dev up/down: Manage a local PostgreSQL server in Docker
//
// SQL is taken from the arguments, from --file, or from stdin when the only
// argument is "-". Commands that talk to the database use --url, then
// SQLGATE_DATABASE_URL, then the database configured in sqlgate.yaml.
//
// # Example Usage
//
//	sqlgate classify "BEGIN; UPDATE users SET active = false; COMMIT;"
//	sqlgate prepare --name deactivate_users -f deactivate.sql
//	sqlgate exec -f deactivate.sql
//	sqlgate history --sql
package cmd
