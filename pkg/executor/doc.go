// Package executor runs caller supplied SQL against PostgreSQL and records a
// migration for every change to schema or data.
//
// Execute classifies the SQL with the statement package. If any statement
// needs a migration, the SQL and a schema_migrations insert built by the
// migration package run in a single transaction. Single read statements run
// in a READ ONLY transaction and return their rows. Everything else, such as
// a bare SET or a transaction control statement, runs without a ledger row.
//
// # Usage Example
//
//	client := postgres.New(postgres.Config{URL: url})
//	defer client.Close()
//
//	exec := executor.New(executor.Config{
//		Database: client,
//		Manager:  migration.New(migration.Config{Schema: "supabase_migrations"}),
//	})
//
//	res, err := exec.Execute(ctx, "ALTER TABLE users ADD COLUMN bio TEXT", "add_bio")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("%s %s\n", res.Version, res.Name) // 20250102030405 add_bio
package executor
