// Package statement splits PostgreSQL text into individual statements and
// classifies each one by the SQL sub-language it belongs to.
//
// Splitting is lexical only. Semicolons inside string literals, quoted
// identifiers, comments and dollar-quoted bodies never end a statement, but
// nothing is parsed beyond that. Classification looks at the first keyword
// of a statement and decides whether running it changes persistent schema or
// data, in which case it needs to be recorded as a migration.
//
// Nothing in this package returns an error for malformed SQL. Input that
// cannot be understood is classified as Other and allowed through.
package statement
