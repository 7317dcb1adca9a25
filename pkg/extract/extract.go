package extract

import (
	"regexp"
	"strings"
)

const (
	// Unknown is returned by the object extractors when nothing matches.
	Unknown = "unknown"

	// DefaultPrivilege is returned by Privilege when no privilege keyword is
	// found.
	DefaultPrivilege = "privilege"

	// maxUpdateColumns caps how many column names UpdateColumns reports.
	maxUpdateColumns = 3
)

var (
	tablePatterns = []*regexp.Regexp{
		qualified(`\bCREATE\s+(?:OR\s+REPLACE\s+)?(?:(?:GLOBAL|LOCAL)\s+)?(?:(?:TEMP|TEMPORARY|UNLOGGED)\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?`),
		qualified(`\bALTER\s+TABLE\s+(?:IF\s+EXISTS\s+)?(?:ONLY\s+)?`),
		qualified(`\bDROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?`),
		qualified(`\bTRUNCATE\s+(?:TABLE\s+)?(?:ONLY\s+)?`),
		qualified(`\bINSERT\s+INTO\s+`),
		qualified(`\bUPDATE\s+(?:ONLY\s+)?`),
		qualified(`\bDELETE\s+FROM\s+(?:ONLY\s+)?`),
		qualified(`\bMERGE\s+INTO\s+(?:ONLY\s+)?`),
	}

	functionPatterns = []*regexp.Regexp{
		qualified(`\bCREATE\s+(?:OR\s+REPLACE\s+)?(?:FUNCTION|PROCEDURE)\s+`),
		qualified(`\bALTER\s+(?:FUNCTION|PROCEDURE)\s+(?:IF\s+EXISTS\s+)?`),
		qualified(`\bDROP\s+(?:FUNCTION|PROCEDURE)\s+(?:IF\s+EXISTS\s+)?`),
	}

	viewPatterns = []*regexp.Regexp{
		qualified(`\bCREATE\s+(?:OR\s+REPLACE\s+)?(?:(?:TEMP|TEMPORARY)\s+)?(?:RECURSIVE\s+)?(?:MATERIALIZED\s+)?VIEW\s+(?:IF\s+NOT\s+EXISTS\s+)?`),
		qualified(`\bALTER\s+(?:MATERIALIZED\s+)?VIEW\s+(?:IF\s+EXISTS\s+)?`),
		qualified(`\bDROP\s+(?:MATERIALIZED\s+)?VIEW\s+(?:IF\s+EXISTS\s+)?`),
	}

	// IF EXISTS is deliberately not stripped from DROP INDEX.
	indexPatterns = []*regexp.Regexp{
		qualifiedWithSuffix(`\bCREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:CONCURRENTLY\s+)?(?:IF\s+NOT\s+EXISTS\s+)?`, `\s+ON\b`),
		qualified(`\bALTER\s+INDEX\s+(?:IF\s+EXISTS\s+)?`),
		qualified(`\bDROP\s+INDEX\s+(?:CONCURRENTLY\s+)?`),
	}

	// IF EXISTS is deliberately not stripped from DROP EXTENSION.
	extensionPatterns = []*regexp.Regexp{
		unqualified(`\bCREATE\s+EXTENSION\s+(?:IF\s+NOT\s+EXISTS\s+)?`),
		unqualified(`\bALTER\s+EXTENSION\s+`),
		unqualified(`\bDROP\s+EXTENSION\s+`),
	}

	typePatterns = []*regexp.Regexp{
		qualified(`\bCREATE\s+TYPE\s+`),
		qualified(`\bCREATE\s+DOMAIN\s+(?:IF\s+NOT\s+EXISTS\s+)?`),
		qualified(`\bALTER\s+(?:TYPE|DOMAIN)\s+`),
		qualified(`\bDROP\s+(?:TYPE|DOMAIN)\s+(?:IF\s+EXISTS\s+)?`),
	}

	genericPatterns = []*regexp.Regexp{
		qualified(`\b(?:CREATE|ALTER|DROP)\s+(?:OR\s+REPLACE\s+)?\w+\s+(?:IF\s+(?:NOT\s+)?EXISTS\s+)?`),
		qualified(`\bFROM\s+`),
		qualified(`\bINTO\s+`),
	}

	commentPattern = regexp.MustCompile(`(?is)\bCOMMENT\s+ON\s+(?P<kind>MATERIALIZED\s+VIEW|FOREIGN\s+TABLE|\w+)\s+` + qualifiedPattern)

	updateSetPattern    = qualifiedWithSuffix(`^\s*UPDATE\s+(?:ONLY\s+)?`, `\s+SET\s+(?P<assignments>.+?)\s+WHERE\s`)
	updateColumnPattern = regexp.MustCompile(`^\s*(` + identPattern + `)\s*=`)

	targets = map[string][]*regexp.Regexp{
		"TABLE":     tablePatterns,
		"FUNCTION":  functionPatterns,
		"PROCEDURE": functionPatterns,
		"VIEW":      viewPatterns,
		"INDEX":     indexPatterns,
		"EXTENSION": extensionPatterns,
		"TYPE":      typePatterns,
		"DOMAIN":    typePatterns,
	}

	allTargetPatterns = concat(tablePatterns, functionPatterns, viewPatterns, indexPatterns, extensionPatterns, typePatterns)
)

// Table returns the bare name of the table targeted by a CREATE, ALTER, DROP
// or TRUNCATE TABLE statement, or by INSERT INTO, UPDATE and DELETE FROM.
//
// Examples:
//   - "CREATE TABLE IF NOT EXISTS public.users (id int)" -> "users"
//   - "DELETE FROM users WHERE id = 1" -> "users"
//   - "SELECT * FROM users" -> "unknown"
func Table(sql string) string {
	return nameOrUnknown(leftmost(tablePatterns, sql))
}

// Function returns the bare name of the function (or procedure) created,
// altered or dropped by sql. The name ends at the argument list.
//
// Examples:
//   - "CREATE OR REPLACE FUNCTION auth.user_role(uid UUID) ..." -> "user_role"
//   - "DROP FUNCTION get_user();" -> "get_user"
func Function(sql string) string {
	return nameOrUnknown(leftmost(functionPatterns, sql))
}

// View returns the bare name of the view created, altered or dropped by sql.
func View(sql string) string {
	return nameOrUnknown(leftmost(viewPatterns, sql))
}

// Index returns the name of the index created, altered or dropped by sql.
//
// An IF EXISTS clause on DROP INDEX is not skipped, so
// "DROP INDEX IF EXISTS idx" yields "IF".
func Index(sql string) string {
	return nameOrUnknown(leftmost(indexPatterns, sql))
}

// Extension returns the name of the extension created, altered or dropped by
// sql. Extensions are never schema-qualified.
//
// An IF EXISTS clause on DROP EXTENSION is not skipped.
func Extension(sql string) string {
	return nameOrUnknown(leftmost(extensionPatterns, sql))
}

// Type returns the bare name of the type or domain created, altered or dropped
// by sql.
//
// Examples:
//   - "CREATE TYPE public.user_status AS ENUM ('active')" -> "user_status"
//   - "CREATE DOMAIN email_address AS TEXT" -> "email_address"
func Type(sql string) string {
	return nameOrUnknown(leftmost(typePatterns, sql))
}

// Generic is the fallback for statements without a dedicated extractor. It
// tries, in order, "CREATE|ALTER|DROP <keyword> <name>", "FROM <name>" and
// "INTO <name>", returning the first match.
//
// Examples:
//   - "CREATE SCHEMA app" -> "app"
//   - "ALTER SCHEMA app RENAME TO application" -> "app"
//   - "SELECT * FROM users" -> "users"
//   - "BEGIN" -> "unknown"
func Generic(sql string) string {
	return nameOrUnknown(ordered(genericPatterns, sql))
}

// Target returns the schema-qualified identifier a statement of the given
// object kind operates on. Kinds without dedicated patterns use the generic
// ones. The boolean is false when nothing matched.
func Target(kind, sql string) (Identifier, bool) {
	if patterns, ok := targets[strings.ToUpper(kind)]; ok {
		return leftmost(patterns, sql)
	}

	return ordered(genericPatterns, sql)
}

// SchemaOf returns the explicit schema qualifier of whatever object sql
// targets, or "" when the target is unqualified or cannot be found.
//
// Examples:
//   - "CREATE TABLE auth.users (id int)" -> "auth"
//   - "GRANT SELECT ON app.orders TO anon" -> "app"
//   - "CREATE TABLE users (id int)" -> ""
func SchemaOf(sql string) string {
	if _, id, ok := CommentTarget(sql); ok {
		return id.Schema
	}

	if id, ok := DCLTarget(sql); ok {
		return id.Schema
	}

	if id, ok := leftmost(allTargetPatterns, sql); ok {
		return id.Schema
	}

	id, _ := ordered(genericPatterns, sql)
	return id.Schema
}

// CommentTarget returns the upper-cased object kind and identifier named by a
// COMMENT ON statement.
//
// Examples:
//   - "COMMENT ON TABLE public.users IS 'x'" -> ("TABLE", {public users}, true)
//   - "COMMENT ON MATERIALIZED VIEW mv IS 'x'" -> ("MATERIALIZED VIEW", {"" mv}, true)
func CommentTarget(sql string) (string, Identifier, bool) {
	loc := commentPattern.FindStringSubmatchIndex(sql)
	if loc == nil {
		return "", Identifier{}, false
	}

	i := commentPattern.SubexpIndex("kind")
	kind := strings.ToUpper(strings.Join(strings.Fields(sql[loc[2*i]:loc[2*i+1]]), " "))

	return kind, identifierAt(commentPattern, sql, loc), true
}

// UpdateColumns makes a best-effort attempt at listing the columns assigned by
// an UPDATE statement. Up to three column names are returned joined with
// underscores.
//
// Only the narrow shape "UPDATE <table> SET <col> = <value>[, ...] WHERE ..."
// is understood, and every assignment must start with a plain column name.
// Anything else, including values containing commas, yields "".
//
// Examples:
//   - "UPDATE users SET name = 'John', email = 'j@x.io' WHERE id = 1" -> "name_email"
//   - "UPDATE users SET name = 'John'" -> ""
func UpdateColumns(sql string) string {
	match := updateSetPattern.FindStringSubmatch(sql)
	if match == nil {
		return ""
	}

	assignments := match[updateSetPattern.SubexpIndex("assignments")]

	var columns []string
	for _, assignment := range strings.Split(assignments, ",") {
		col := updateColumnPattern.FindStringSubmatch(assignment)
		if col == nil {
			return ""
		}

		if len(columns) < maxUpdateColumns {
			columns = append(columns, StripQuotes(col[1]))
		}
	}

	return strings.Join(columns, "_")
}

func concat(sets ...[]*regexp.Regexp) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, set := range sets {
		out = append(out, set...)
	}

	return out
}
