package extract

import (
	"regexp"
	"strings"
)

const (
	// identPattern matches a single unquoted or double-quoted identifier.
	identPattern = `(?:"(?:[^"]|"")+"|[\p{L}_][\p{L}\p{N}_$]*)`

	// qualifiedPattern matches an identifier with an optional schema prefix.
	// A single dot separates schema and name.
	qualifiedPattern = `(?:(?P<schema>` + identPattern + `)\s*\.\s*)?(?P<name>` + identPattern + `)`
)

// Identifier is a possibly schema-qualified object name with any surrounding
// double quotes removed.
type Identifier struct {
	Schema string
	Name   string
}

// String returns the identifier in schema.name form, or just the name when no
// schema was given.
//
// Examples:
//   - {Schema: "auth", Name: "users"} -> "auth.users"
//   - {Name: "users"} -> "users"
func (id Identifier) String() string {
	if id.Schema == "" {
		return id.Name
	}

	return id.Schema + "." + id.Name
}

// QuoteIdentifier wraps each dot separated part of name in double quotes,
// doubling embedded quotes. Parts that are already quoted are left alone.
//
// Examples:
//   - "users" -> `"users"`
//   - "auth.users" -> `"auth"."users"`
//   - `"My Table"` -> `"My Table"`
//   - "" -> ""
func QuoteIdentifier(name string) string {
	if name == "" {
		return ""
	}

	if IsQuoted(name) {
		return name
	}

	parts := strings.Split(name, ".")
	for i, part := range parts {
		if IsQuoted(part) {
			continue
		}
		parts[i] = `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
	}

	return strings.Join(parts, ".")
}

// IsQuoted reports whether s is a single double-quoted identifier.
//
// Examples:
//   - `"users"` -> true
//   - "users" -> false
//   - `"auth"."users"` -> false
func IsQuoted(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}

	inner := strings.ReplaceAll(s[1:len(s)-1], `""`, "")
	return !strings.Contains(inner, `"`)
}

// StripQuotes removes the surrounding double quotes from a quoted identifier
// and collapses doubled quotes. Unquoted input is returned unchanged.
func StripQuotes(s string) string {
	if !IsQuoted(s) {
		return s
	}

	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
}

func qualified(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + prefix + qualifiedPattern)
}

func qualifiedWithSuffix(prefix, suffix string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + prefix + qualifiedPattern + suffix)
}

func unqualified(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + prefix + `(?P<name>` + identPattern + `)`)
}

// identifierAt builds the identifier captured by re at the given submatch
// indexes.
func identifierAt(re *regexp.Regexp, sql string, loc []int) Identifier {
	var id Identifier

	if i := re.SubexpIndex("schema"); i > 0 && loc[2*i] >= 0 {
		id.Schema = StripQuotes(sql[loc[2*i]:loc[2*i+1]])
	}

	if i := re.SubexpIndex("name"); i > 0 && loc[2*i] >= 0 {
		id.Name = StripQuotes(sql[loc[2*i]:loc[2*i+1]])
	}

	return id
}

// leftmost returns the identifier of whichever pattern matches earliest in
// sql. Ties go to the pattern listed first.
func leftmost(patterns []*regexp.Regexp, sql string) (Identifier, bool) {
	var (
		best  Identifier
		start = -1
	)

	for _, re := range patterns {
		loc := re.FindStringSubmatchIndex(sql)
		if loc == nil || (start >= 0 && loc[0] >= start) {
			continue
		}

		if id := identifierAt(re, sql, loc); id.Name != "" {
			best, start = id, loc[0]
		}
	}

	return best, start >= 0
}

// ordered returns the identifier of the first pattern, in list order, that
// matches sql.
func ordered(patterns []*regexp.Regexp, sql string) (Identifier, bool) {
	for _, re := range patterns {
		loc := re.FindStringSubmatchIndex(sql)
		if loc == nil {
			continue
		}

		if id := identifierAt(re, sql, loc); id.Name != "" {
			return id, true
		}
	}

	return Identifier{}, false
}

func nameOrUnknown(id Identifier, ok bool) string {
	if !ok {
		return Unknown
	}

	return id.Name
}
