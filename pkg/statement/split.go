package statement

import (
	"log/slog"
	"strings"
)

// RawStatement is a single statement's verbatim source text along with its
// zero-based position in the original input.
type RawStatement struct {
	Text    string
	Ordinal int
}

// Split breaks sql into individual statements on semicolons that are not
// inside a string literal, quoted identifier, comment or dollar-quoted block.
//
// Each statement keeps its comments so the text can be recorded as written.
// Surrounding whitespace is trimmed and the terminating semicolon is not part
// of the text. Statements that contain nothing but comments and whitespace
// are dropped, which also takes care of the empty statement after a trailing
// semicolon.
//
// Split never fails. If sql cannot be tokenized the whole trimmed input is
// returned as a single statement.
//
// Example:
//
//	stmts := statement.Split("CREATE TABLE a (id int); -- done\nSELECT 1;")
//	// stmts[0].Text == "CREATE TABLE a (id int)"
//	// stmts[1].Text == "-- done\nSELECT 1"
func Split(sql string) []RawStatement {
	statements := make([]RawStatement, 0)

	tokens, err := tokenize(sql)
	if err != nil {
		slog.Debug("Falling back to single statement", "err", err)
		if text := strings.TrimSpace(sql); text != "" {
			statements = append(statements, RawStatement{Text: text})
		}
		return statements
	}

	var (
		start       int
		offset      int
		significant bool
	)

	flush := func(end int) {
		if significant {
			statements = append(statements, RawStatement{
				Text:    strings.TrimSpace(sql[start:end]),
				Ordinal: len(statements),
			})
		}
		significant = false
	}

	for _, tok := range tokens {
		if tok.kind == tokenSemicolon {
			flush(offset)
			start = offset + len(tok.value)
		} else if tok.significant() {
			significant = true
		}

		offset += len(tok.value)
	}
	flush(len(sql))

	return statements
}
