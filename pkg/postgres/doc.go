// Package postgres runs SQL against a PostgreSQL (or Supabase) database.
//
// A Client owns a lazily created pgx connection pool. Read-only queries run in
// a READ ONLY transaction that is always rolled back; writes run together in a
// single transaction that commits only when every statement succeeds.
//
// Failures are reported as one of three error types so callers can tell them
// apart with errors.As:
//
//   - *ConnectionError when the pool cannot be created
//   - *PermissionError when the role lacks a privilege (SQLSTATE 42501)
//   - *QueryError for everything else; IsSchemaError reports undefined
//     tables and columns
//
// Query counts and connection attempts are exported as Prometheus counters.
package postgres
