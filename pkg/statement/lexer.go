package statement

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

type (
	tokenKind int

	token struct {
		kind  tokenKind
		value string
	}
)

const (
	tokenOther tokenKind = iota
	tokenWhitespace
	tokenComment
	tokenString
	tokenQuotedIdent
	tokenDollarQuoted
	tokenIdent
	tokenSemicolon
)

var (
	// sqlLexer tokenizes PostgreSQL text just far enough to find statement
	// boundaries. Strings, identifiers, comments and dollar-quoted bodies are
	// allowed to run to end of input so unterminated text never fails to lex.
	sqlLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Whitespace", Pattern: `\s+`},
			{Name: "LineComment", Pattern: `--[^\n]*`},
			{Name: "BlockCommentStart", Pattern: `/\*`, Action: lexer.Push("BlockComment")},
			{Name: "EscapeString", Pattern: `[Ee]'(?:[^'\\]|\\(?s:.)|'')*'?`},
			{Name: "String", Pattern: `'(?:[^']|'')*'?`},
			{Name: "QuotedIdent", Pattern: `"(?:[^"]|"")*"?`},
			{Name: "DollarQuoteStart", Pattern: `\$([A-Za-z_][A-Za-z0-9_]*|)\$`, Action: lexer.Push("DollarQuote")},
			{Name: "Param", Pattern: `\$\d+`},
			{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_$]*`},
			{Name: "Number", Pattern: `\d+(?:\.\d*)?(?:[eE][+-]?\d+)?`},
			{Name: "Semicolon", Pattern: `;`},
			{Name: "Char", Pattern: `.`},
		},
		"BlockComment": {
			{Name: "BlockCommentStart", Pattern: `/\*`, Action: lexer.Push("BlockComment")},
			{Name: "BlockCommentEnd", Pattern: `\*/`, Action: lexer.Pop()},
			{Name: "BlockCommentBody", Pattern: `[^/*]+|[/*]`},
		},
		"DollarQuote": {
			{Name: "DollarQuoteEnd", Pattern: `\$\1\$`, Action: lexer.Pop()},
			{Name: "DollarQuoteBody", Pattern: `[^$]+|\$`},
		},
	})

	tokenKinds = func() map[lexer.TokenType]tokenKind {
		kinds := map[string]tokenKind{
			"Whitespace":        tokenWhitespace,
			"LineComment":       tokenComment,
			"BlockCommentStart": tokenComment,
			"BlockCommentEnd":   tokenComment,
			"BlockCommentBody":  tokenComment,
			"EscapeString":      tokenString,
			"String":            tokenString,
			"QuotedIdent":       tokenQuotedIdent,
			"DollarQuoteStart":  tokenDollarQuoted,
			"DollarQuoteEnd":    tokenDollarQuoted,
			"DollarQuoteBody":   tokenDollarQuoted,
			"Ident":             tokenIdent,
			"Semicolon":         tokenSemicolon,
		}

		out := make(map[lexer.TokenType]tokenKind, len(kinds))
		for name, typ := range sqlLexer.Symbols() {
			if kind, ok := kinds[name]; ok {
				out[typ] = kind
			}
		}
		return out
	}()

	blockCommentStart = sqlLexer.Symbols()["BlockCommentStart"]
	blockCommentEnd   = sqlLexer.Symbols()["BlockCommentEnd"]
)

// tokenize returns every token of sql, including whitespace and comments, so
// that concatenating the token values reproduces the input exactly.
//
// Block comments nest as they do in PostgreSQL and each outermost comment is
// returned as a single token.
func tokenize(sql string) ([]token, error) {
	lex, err := sqlLexer.LexString("", sql)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create lexer")
	}

	var (
		tokens []token
		depth  int
	)
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, errors.Wrap(err, "failed to tokenize SQL")
		}

		if tok.EOF() {
			return tokens, nil
		}

		inComment := depth > 0
		switch tok.Type {
		case blockCommentStart:
			depth++
		case blockCommentEnd:
			depth--
		}

		if inComment {
			tokens[len(tokens)-1].value += tok.Value
			continue
		}

		tokens = append(tokens, token{kind: tokenKinds[tok.Type], value: tok.Value})
	}
}

func (t token) significant() bool {
	return t.kind != tokenWhitespace && t.kind != tokenComment
}

// keyword returns the upper-cased value of an identifier token, or "" for any
// other kind of token.
func (t token) keyword() string {
	if t.kind != tokenIdent {
		return ""
	}

	return strings.ToUpper(t.value)
}

// StripComments replaces every line and block comment in sql with a single
// space, leaving string literals, quoted identifiers and dollar-quoted bodies
// untouched. Input that cannot be tokenized is returned unchanged.
func StripComments(sql string) string {
	tokens, err := tokenize(sql)
	if err != nil {
		return sql
	}

	return stripComments(tokens)
}

func stripComments(tokens []token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.kind == tokenComment {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(tok.value)
	}

	return sb.String()
}
