package extract

import (
	"regexp"
	"strings"
)

var (
	privilegeListPattern = regexp.MustCompile(`(?is)\b(?:GRANT|REVOKE)\b(?P<list>.*?)(?:\bON\b|$)`)
	privilegePattern     = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|ALL)\b`)

	dclObjectPatterns = []*regexp.Regexp{
		unqualified(`\b(?:GRANT|REVOKE)\b.*?\bON\s+ALL\s+(?:TABLES|SEQUENCES|FUNCTIONS|PROCEDURES|ROUTINES)\s+IN\s+SCHEMA\s+`),
		qualified(`\b(?:GRANT|REVOKE)\b.*?\bON\s+(?:(?:TABLE|SEQUENCE|FUNCTION|PROCEDURE|ROUTINE|SCHEMA|DATABASE|TYPE|DOMAIN)\s+)?`),
	}
)

// Privilege returns the first privilege keyword granted or revoked by sql,
// lower-cased. Only SELECT, INSERT, UPDATE, DELETE and ALL [PRIVILEGES] are
// recognised, so a privilege list collapses to its first recognised element.
//
// Examples:
//   - "GRANT SELECT, INSERT ON users TO anon" -> "select"
//   - "REVOKE ALL PRIVILEGES ON users FROM anon" -> "all"
//   - "SELECT * FROM users" -> "privilege"
func Privilege(sql string) string {
	list := privilegeListPattern.FindStringSubmatch(sql)
	if list == nil {
		return DefaultPrivilege
	}

	match := privilegePattern.FindStringSubmatch(list[privilegeListPattern.SubexpIndex("list")])
	if match == nil {
		return DefaultPrivilege
	}

	return strings.ToLower(match[1])
}

// DCLObject returns the bare name of the object following ON [TABLE] in a
// GRANT or REVOKE statement. For "ON ALL TABLES IN SCHEMA s" the schema name
// is returned.
//
// Examples:
//   - "GRANT SELECT ON TABLE public.users TO anon" -> "users"
//   - "GRANT SELECT ON ALL TABLES IN SCHEMA app TO anon" -> "app"
//   - "GRANT admin TO bob" -> "unknown"
func DCLObject(sql string) string {
	return nameOrUnknown(DCLTarget(sql))
}

// DCLTarget is DCLObject returning the qualified identifier.
func DCLTarget(sql string) (Identifier, bool) {
	return ordered(dclObjectPatterns, sql)
}
