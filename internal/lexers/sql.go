package lexers

import (
	"bytes"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/token"
)

// SQL dialects accepted by the "dialect" option.
const (
	DialectANSI       = "ansi"
	DialectMySQL      = "mysql"
	DialectPostgreSQL = "postgresql"
)

var sqlKeywords = []string{
	"ADD", "ALL", "ALTER", "AND", "ANY", "AS", "ASC", "BEGIN", "BETWEEN", "BY", "CASCADE", "CASE",
	"CHECK", "COLUMN", "COMMIT", "CONSTRAINT", "CREATE", "CROSS", "DATABASE", "DEFAULT", "DELETE",
	"DESC", "DISTINCT", "DROP", "ELSE", "END", "EXCEPT", "EXISTS", "FOREIGN", "FROM", "FULL",
	"FUNCTION", "GRANT", "GROUP", "HAVING", "IF", "IN", "INDEX", "INNER", "INSERT", "INTERSECT",
	"INTO", "IS", "JOIN", "KEY", "LEFT", "LIKE", "LIMIT", "NOT", "NULL", "OFFSET", "ON", "OR",
	"ORDER", "OUTER", "PRIMARY", "PROCEDURE", "REFERENCES", "RETURNS", "REVOKE", "RIGHT",
	"ROLLBACK", "SCHEMA", "SELECT", "SET", "TABLE", "THEN", "TO", "TRANSACTION", "TRIGGER", "TRUNCATE",
	"UNION", "UNIQUE", "UPDATE", "USING", "VALUES", "VIEW", "WHEN", "WHERE", "WITH",
}

var sqlTypes = []string{
	"BIGINT", "BINARY", "BLOB", "BOOLEAN", "CHAR", "CHARACTER", "DATE", "DECIMAL", "DOUBLE",
	"FLOAT", "INT", "INTEGER", "INTERVAL", "NUMERIC", "REAL", "SMALLINT", "TEXT", "TIME",
	"TIMESTAMP", "VARCHAR",
}

var sqlConstants = []string{"TRUE", "FALSE", "UNKNOWN", "CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP"}

var dialectKeywords = map[string][]string{
	DialectMySQL: {
		"AUTO_INCREMENT", "CHANGE", "DUPLICATE", "ENGINE", "IGNORE", "MODIFY", "REGEXP", "REPLACE",
		"SHOW", "UNSIGNED", "USE", "ZEROFILL",
	},
	DialectPostgreSQL: {
		"ILIKE", "LANGUAGE", "RETURNING", "SERIAL", "BIGSERIAL", "SIMILAR", "VACUUM", "ANALYZE",
		"CONFLICT", "DO", "NOTHING", "PLPGSQL",
	},
}

var dialectTypes = map[string][]string{
	DialectMySQL:      {"TINYINT", "MEDIUMINT", "LONGTEXT", "MEDIUMTEXT", "TINYTEXT", "ENUM", "DATETIME"},
	DialectPostgreSQL: {"BYTEA", "JSONB", "JSON", "UUID", "INET", "TIMESTAMPTZ", "TSVECTOR"},
}

// Keywords introducing the name that follows them.
var sqlLabels = map[string]lexer.Label{
	"FROM":      lexer.LabelClass,
	"JOIN":      lexer.LabelClass,
	"INTO":      lexer.LabelClass,
	"UPDATE":    lexer.LabelClass,
	"TABLE":     lexer.LabelClass,
	"VIEW":      lexer.LabelClass,
	"FUNCTION":  lexer.LabelFunction,
	"PROCEDURE": lexer.LabelFunction,
	"DATABASE":  lexer.LabelNamespace,
	"SCHEMA":    lexer.LabelNamespace,
	"USE":       lexer.LabelNamespace,
}

type sqlWord struct {
	class token.Class
	label lexer.Label
}

// keywordTables holds one case-insensitive classification table per
// dialect, built once.
var keywordTables = func() map[string]*hashtable.Table[string, sqlWord] {
	tables := make(map[string]*hashtable.Table[string, sqlWord])
	for _, dialect := range []string{DialectANSI, DialectMySQL, DialectPostgreSQL} {
		t := hashtable.New[string, sqlWord](256, hashtable.ASCIICaseInsensitive(), nil)
		put := func(words []string, c token.Class) {
			for _, w := range words {
				t.Put(hashtable.OnDupKeyPreserve, w, sqlWord{class: c, label: sqlLabels[w]})
			}
		}
		put(sqlKeywords, token.Keyword)
		put(dialectKeywords[dialect], token.Keyword)
		put(sqlTypes, token.KeywordType)
		put(dialectTypes[dialect], token.KeywordType)
		put(sqlConstants, token.KeywordConstant)
		tables[dialect] = t
	}
	return tables
}()

type sqlLexer struct{}

var sqlInfo = &lexer.Info{
	Name:      "SQL",
	Doc:       "Structured Query Language, with ANSI, MySQL and PostgreSQL keyword sets.",
	Aliases:   []string{"sql", "mysql", "postgresql", "psql"},
	Filenames: []string{"*.sql"},
	MimeTypes: []string{"text/x-sql", "application/sql"},
	Options: []option.Decl{
		{
			Name:    "dialect",
			Type:    option.TypeEnum,
			Default: option.Enum(DialectANSI),
			Choices: []string{DialectANSI, DialectMySQL, DialectPostgreSQL},
			Doc:     "keyword set and quoting rules",
		},
	},
}

func (*sqlLexer) Info() *lexer.Info { return sqlInfo }

type sqlState struct {
	dialect  string
	keywords *hashtable.Table[string, sqlWord]
}

func (*sqlLexer) Init(lx *lexer.Lexer, d *lexer.Data) {
	dialect := lx.Str("dialect")
	keywords, ok := keywordTables[dialect]
	if !ok {
		dialect, keywords = DialectANSI, keywordTables[DialectANSI]
	}
	d.Local = &sqlState{dialect: dialect, keywords: keywords}
}

// Analyse looks for statement keywords at the start of lines.
func (*sqlLexer) Analyse(src []byte) int {
	score := 0
	for _, line := range bytes.Split(src, []byte("\n")) {
		line = bytes.TrimSpace(line)
		for _, kw := range []string{"SELECT ", "INSERT INTO ", "UPDATE ", "DELETE FROM ", "CREATE TABLE ", "ALTER TABLE "} {
			if len(line) >= len(kw) && hashtable.EqualFold(string(line[:len(kw)]), kw) {
				score += 30
				break
			}
		}
		if score >= 100 {
			return 100
		}
	}
	return score
}

func (l *sqlLexer) Step(in *lexer.Input, d *lexer.Data, lx *lexer.Lexer) lexer.Result {
	if in.AtLimit() {
		return lexer.Done()
	}
	st, ok := d.Local.(*sqlState)
	if !ok {
		l.Init(lx, d)
		st = d.Local.(*sqlState)
	}
	if r, ok := whitespace(in); ok {
		return r
	}

	c, _ := in.Peek()
	next, _ := in.PeekAt(1)
	switch {
	case c == '-' && next == '-', c == '#' && st.dialect == DialectMySQL:
		lineComment(in, 0)
		return in.Token(token.CommentSingle)
	case c == '/' && next == '*':
		in.Advance(2)
		if end := in.Index("*/"); end >= 0 {
			in.Cursor = end + 2
		} else {
			in.Cursor = in.Limit
		}
		return in.Token(token.CommentMultiline)
	case c == '\'':
		quoted(in, '\'', true, st.dialect == DialectMySQL)
		return in.Token(token.StringSingle)
	case c == '"':
		quoted(in, '"', true, st.dialect == DialectMySQL)
		if st.dialect == DialectMySQL {
			return in.Token(token.StringDouble)
		}
		d.NextLabel = lexer.LabelNone
		return in.Token(token.Name)
	case c == '`' && st.dialect == DialectMySQL:
		quoted(in, '`', true, false)
		d.NextLabel = lexer.LabelNone
		return in.Token(token.Name)
	case c == '$' && st.dialect == DialectPostgreSQL:
		return dollar(in)
	case c == '?':
		in.Advance(1)
		return in.Token(token.NameVariable)
	case (c == ':' || c == '@') && isLetter(next):
		in.Advance(1)
		in.AdvanceWhile(isIdent)
		return in.Token(token.NameVariable)
	case isDigit(c) || (c == '.' && isDigit(next)):
		return in.Token(number(in))
	case isLetter(c):
		in.AdvanceWhile(isIdent)
		return identifier(in, d, st)
	case bytes.IndexByte([]byte("+-*/%<>=!|&^~:"), c) >= 0:
		in.Advance(1)
		if bytes.IndexByte([]byte("<>=!|&:"), c) >= 0 && bytes.IndexByte([]byte("<>=|&:"), next) >= 0 {
			in.Advance(1)
		}
		return in.Token(token.Operator)
	case bytes.IndexByte([]byte("(),;.[]"), c) >= 0:
		in.Advance(1)
		return in.Token(token.Punctuation)
	}
	return in.Unclassified()
}

func identifier(in *lexer.Input, d *lexer.Data, st *sqlState) lexer.Result {
	word := string(in.Lexeme())
	if kw, ok := st.keywords.Get(word); ok {
		d.NextLabel = kw.label
		return in.Token(kw.class)
	}

	label := d.NextLabel
	d.NextLabel = lexer.LabelNone
	switch label {
	case lexer.LabelClass:
		return in.Token(token.NameClass)
	case lexer.LabelFunction:
		return in.Token(token.NameFunction)
	case lexer.LabelNamespace:
		return in.Token(token.NameNamespace)
	}
	if c, ok := in.Peek(); ok && c == '(' {
		return in.Token(token.NameFunction)
	}
	return in.Token(token.Name)
}

// dollar scans a PostgreSQL positional parameter ($1) or dollar-quoted
// string ($tag$ ... $tag$).
func dollar(in *lexer.Input) lexer.Result {
	in.Advance(1)
	if in.AdvanceWhile(isDigit) > 0 {
		return in.Token(token.NameVariable)
	}
	in.AdvanceWhile(isIdent)
	c, ok := in.Peek()
	if !ok || c != '$' {
		return in.Token(token.Error)
	}
	in.Advance(1)
	tag := string(in.Lexeme())
	if end := in.Index(tag); end >= 0 {
		in.Cursor = end + len(tag)
	} else {
		in.Cursor = in.Limit
	}
	return in.Token(token.String)
}
