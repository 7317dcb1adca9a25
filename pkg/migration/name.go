package migration

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pseudomuto/sqlgate/pkg/extract"
	"github.com/pseudomuto/sqlgate/pkg/statement"
)

const (
	defaultSchema = "public"
	fallbackKind  = "object"
)

// GenerateDescriptiveName builds a human readable name for the first
// statement in result that needs a migration. The name has four underscore
// separated parts:
//
//	{command}_{primary}_{schema}_{secondary}
//
// The command is the lower-cased verb and the schema is the statement's
// explicit qualifier, or "public" when there is none. What primary and
// secondary hold depends on the statement:
//
//   - table DDL, INSERT and DELETE: the table name, twice
//   - UPDATE: the table name, then the assigned columns (or the table name)
//   - functions, views, indexes, extensions, types and domains: the kind
//     word, then the object name
//   - GRANT and REVOKE: the privilege, then the object
//   - COMMENT ON: the kind of the commented object, then its name
//   - any other DDL: the object kind (or "object"), then the generic name
//
// When nothing in result needs a migration the name is "migration_" followed
// by the ShortHash of the original query.
//
// Example:
//
//	result := statement.Validate("CREATE TABLE users (id SERIAL PRIMARY KEY)")
//	migration.GenerateDescriptiveName(result) // "create_users_public_users"
func GenerateDescriptiveName(result statement.ValidationResult) string {
	stmt, ok := result.FirstMigration()
	if !ok {
		return "migration_" + ShortHash(result.OriginalQuery)
	}

	primary, secondary := nameTokens(stmt, statement.StripComments(stmt.Text))

	schema := stmt.SchemaName
	if schema == "" {
		schema = defaultSchema
	}

	return strings.Join([]string{strings.ToLower(stmt.Command), primary, schema, secondary}, "_")
}

// ShortHash returns the low 32 bits of the xxhash of s as 8 lower-case hex
// characters. It is stable across runs and platforms.
func ShortHash(s string) string {
	return fmt.Sprintf("%08x", uint32(xxhash.Sum64String(s)))
}

func nameTokens(stmt statement.ClassifiedStatement, sql string) (string, string) {
	switch stmt.Command {
	case "INSERT", "DELETE", "MERGE", "TRUNCATE":
		table := extract.Table(sql)
		return table, table
	case "UPDATE":
		table := extract.Table(sql)
		if columns := extract.UpdateColumns(sql); columns != "" {
			return table, columns
		}
		return table, table
	case "GRANT", "REVOKE":
		return extract.Privilege(sql), extract.DCLObject(sql)
	case "COMMENT":
		kind, id, ok := extract.CommentTarget(sql)
		if !ok {
			return fallbackKind, extract.Unknown
		}
		return kindWord(kind), id.Name
	}

	switch stmt.ObjectKind {
	case "TABLE":
		table := extract.Table(sql)
		return table, table
	case "FUNCTION", "PROCEDURE":
		return kindWord(stmt.ObjectKind), extract.Function(sql)
	case "VIEW":
		return "view", extract.View(sql)
	case "INDEX":
		return "index", extract.Index(sql)
	case "EXTENSION":
		return "extension", extract.Extension(sql)
	case "TYPE", "DOMAIN":
		return kindWord(stmt.ObjectKind), extract.Type(sql)
	case "":
		return fallbackKind, extract.Generic(sql)
	default:
		return kindWord(stmt.ObjectKind), extract.Generic(sql)
	}
}

// kindWord turns an object kind such as "MATERIALIZED VIEW" into
// "materialized_view".
func kindWord(kind string) string {
	return strings.ToLower(strings.Join(strings.Fields(kind), "_"))
}
