package statement

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/extract"
)

// Category constants group statements by the SQL sub-language they belong to.
const (
	// DDL statements define or change schema objects (CREATE, ALTER, DROP...).
	DDL Category = iota

	// DML statements read or change rows (SELECT, INSERT, UPDATE, DELETE).
	DML

	// DCL statements change privileges (GRANT, REVOKE).
	DCL

	// TCL statements control transactions (BEGIN, COMMIT, ROLLBACK...).
	TCL

	// Other covers everything not recognised, including EXPLAIN and SHOW.
	Other
)

type (
	// Category is the statement category assigned by Classify.
	Category int

	// ClassifiedStatement is a statement together with what Classify learned
	// about it. Values are never modified after construction.
	ClassifiedStatement struct {
		// Text is the verbatim statement text, comments included.
		Text string

		// Category is the SQL sub-language the statement belongs to.
		Category Category

		// Command is the upper-cased leading verb (CREATE, INSERT, GRANT...).
		// For WITH queries it is the data-modifying verb found in the query,
		// or SELECT when there is none.
		Command string

		// ObjectKind is the upper-cased kind of object a DDL statement works
		// on (TABLE, FUNCTION, INDEX...). DML statements report TABLE and DCL
		// statements leave it empty.
		ObjectKind string

		// NeedsMigration reports whether the statement changes persistent
		// schema or data and must therefore be recorded in the ledger.
		NeedsMigration bool

		// SchemaName is the explicit schema qualifier of the statement's
		// target, or "" when none was given.
		SchemaName string

		// Ordinal is the statement's position in the original input.
		Ordinal int
	}

	// ValidationResult is the ordered set of classified statements found in a
	// single piece of SQL text.
	ValidationResult struct {
		Statements    []ClassifiedStatement
		OriginalQuery string
	}

	commandRule struct {
		category       Category
		needsMigration bool
	}
)

var (
	commandRules = map[string]commandRule{
		"CREATE":   {DDL, true},
		"ALTER":    {DDL, true},
		"DROP":     {DDL, true},
		"TRUNCATE": {DDL, true},
		"COMMENT":  {DDL, true},

		"INSERT": {DML, true},
		"UPDATE": {DML, true},
		"DELETE": {DML, true},
		"MERGE":  {DML, true},
		"SELECT": {DML, false},

		"EXPLAIN": {Other, false},
		"SHOW":    {Other, false},

		"GRANT":  {DCL, true},
		"REVOKE": {DCL, true},

		"BEGIN":     {TCL, false},
		"START":     {TCL, false},
		"COMMIT":    {TCL, false},
		"END":       {TCL, false},
		"ROLLBACK":  {TCL, false},
		"ABORT":     {TCL, false},
		"SAVEPOINT": {TCL, false},
		"RELEASE":   {TCL, false},
	}

	// objectModifiers may appear between CREATE/ALTER/DROP and the object kind.
	objectModifiers = map[string]bool{
		"OR":           true,
		"REPLACE":      true,
		"GLOBAL":       true,
		"LOCAL":        true,
		"TEMP":         true,
		"TEMPORARY":    true,
		"UNLOGGED":     true,
		"UNIQUE":       true,
		"MATERIALIZED": true,
		"RECURSIVE":    true,
		"TRUSTED":      true,
		"PROCEDURAL":   true,
		"CONSTRAINT":   true,
		"DEFAULT":      true,
	}

	dataModifyingVerbs = map[string]bool{
		"INSERT": true,
		"UPDATE": true,
		"DELETE": true,
		"MERGE":  true,
	}
)

// String returns the upper-case name of the category.
func (c Category) String() string {
	switch c {
	case DDL:
		return "DDL"
	case DML:
		return "DML"
	case DCL:
		return "DCL"
	case TCL:
		return "TCL"
	default:
		return "OTHER"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "DDL":
		*c = DDL
	case "DML":
		*c = DML
	case "DCL":
		*c = DCL
	case "TCL":
		*c = TCL
	case "OTHER":
		*c = Other
	default:
		return errors.Errorf("unknown statement category: %s", text)
	}

	return nil
}

// Validate splits sql into statements and classifies each of them, keeping
// source order.
//
// Example:
//
//	result := statement.Validate("SELECT * FROM users; CREATE TABLE logs (id int);")
//	result.Statements[0].NeedsMigration // false
//	result.Statements[1].NeedsMigration // true
func Validate(sql string) ValidationResult {
	raw := Split(sql)

	statements := make([]ClassifiedStatement, 0, len(raw))
	for _, stmt := range raw {
		statements = append(statements, Classify(stmt))
	}

	return ValidationResult{
		Statements:    statements,
		OriginalQuery: sql,
	}
}

// Classify assigns a category, command and migration requirement to a single
// statement based on its first significant keyword. Leading whitespace and
// comments are skipped.
//
// Classify never fails: anything it does not recognise is reported as Other
// with NeedsMigration set to false so the statement is never blocked.
func Classify(raw RawStatement) ClassifiedStatement {
	stmt := ClassifiedStatement{
		Text:     raw.Text,
		Category: Other,
		Ordinal:  raw.Ordinal,
	}

	tokens, err := tokenize(raw.Text)
	if err != nil {
		return stmt
	}

	words := keywords(tokens)
	if len(words) == 0 {
		return stmt
	}

	stmt.Command = words[0]
	if stmt.Command == "WITH" {
		stmt.Command = resolveWith(words[1:])
	}

	rule, ok := commandRules[stmt.Command]
	if !ok {
		return stmt
	}

	stmt.Category = rule.category
	stmt.NeedsMigration = rule.needsMigration

	if stmt.NeedsMigration {
		stmt.ObjectKind, stmt.SchemaName = target(stmt, words, stripComments(tokens))
	}

	return stmt
}

// NeedsMigration reports whether any statement in the result needs a
// migration.
func (r ValidationResult) NeedsMigration() bool {
	_, ok := r.FirstMigration()
	return ok
}

// FirstMigration returns the first statement, in source order, that needs a
// migration.
func (r ValidationResult) FirstMigration() (ClassifiedStatement, bool) {
	for _, stmt := range r.Statements {
		if stmt.NeedsMigration {
			return stmt, true
		}
	}

	return ClassifiedStatement{}, false
}

// Categories returns the category of every statement, in source order.
func (r ValidationResult) Categories() []Category {
	categories := make([]Category, len(r.Statements))
	for i, stmt := range r.Statements {
		categories[i] = stmt.Category
	}

	return categories
}

// keywords returns the upper-cased identifier tokens of a statement in order.
// The first entry is the statement's leading verb.
func keywords(tokens []token) []string {
	var words []string
	for _, tok := range tokens {
		if kw := tok.keyword(); kw != "" {
			words = append(words, kw)
		}
	}

	return words
}

// resolveWith finds the verb a WITH query ultimately runs. Data-modifying
// CTEs count, so any INSERT, UPDATE, DELETE or MERGE wins over SELECT.
func resolveWith(words []string) string {
	for _, word := range words {
		if dataModifyingVerbs[word] {
			return word
		}
	}

	return "SELECT"
}

// objectKind returns the first keyword after the leading verb that is not a
// modifier such as OR REPLACE or UNIQUE.
func objectKind(words []string) string {
	for _, word := range words[1:] {
		if !objectModifiers[word] {
			return word
		}
	}

	return ""
}

func target(stmt ClassifiedStatement, words []string, text string) (string, string) {
	switch stmt.Category {
	case DML:
		id, _ := extract.Target("TABLE", text)
		return "TABLE", id.Schema
	case DCL:
		id, _ := extract.DCLTarget(text)
		return "", id.Schema
	}

	switch stmt.Command {
	case "TRUNCATE":
		id, _ := extract.Target("TABLE", text)
		return "TABLE", id.Schema
	case "COMMENT":
		kind, id, _ := extract.CommentTarget(text)
		return kind, id.Schema
	}

	kind := objectKind(words)
	id, _ := extract.Target(kind, text)
	return kind, id.Schema
}
