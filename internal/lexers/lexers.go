// Package lexers contains the builtin lexer implementations and the adapter
// exposing chroma lexers through the same protocol.
package lexers

import (
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/token"
)

// Builtin lexer implementations. They are stateless and shared by every
// instance.
var (
	Text     = &textLexer{}
	SQL      = &sqlLexer{}
	CSS      = &cssLexer{}
	HTML     = &htmlLexer{}
	Template = &templateLexer{}
	BQL      = &bqlLexer{}
)

// Builtins returns the builtin implementations in registration order.
func Builtins() []lexer.Implementation {
	return []lexer.Implementation{Text, SQL, CSS, HTML, Template, BQL}
}

// Register adds every builtin lexer to reg.
func Register(reg *registry.Registry) error {
	for _, impl := range Builtins() {
		if err := reg.Add(impl, registry.SourceBuiltIn); err != nil {
			return err
		}
	}
	return nil
}

// isLetter returns true if c is an ASCII letter or underscore.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// isDigit returns true if c is a digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdent(c byte) bool {
	return isLetter(c) || isDigit(c) || c >= 0x80
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isLineEnd(c byte) bool {
	return c == '\n' || c == '\r'
}

// whitespace emits a run of blanks as TEXT, reporting false when the cursor
// is not on one. CR, LF and CRLF each end a line.
func whitespace(in *lexer.Input) (lexer.Result, bool) {
	start := in.Cursor
	for {
		if in.Newline() {
			continue
		}
		c, ok := in.Peek()
		if !ok || !isSpace(c) {
			break
		}
		in.Advance(1)
	}
	if in.Cursor == start {
		return lexer.Result{}, false
	}
	return in.Token(token.Text), true
}

// lineComment consumes the rest of the line. A non-zero stop byte also ends
// the comment.
func lineComment(in *lexer.Input, stop byte) {
	in.AdvanceWhile(func(b byte) bool { return !isLineEnd(b) && (stop == 0 || b != stop) })
}

// quoted consumes a string delimited by quote starting at the cursor. A
// doubled quote or a backslash escape does not terminate it when allowed.
// Unterminated strings run to the limit.
func quoted(in *lexer.Input, quote byte, doubling, backslash bool) {
	in.Advance(1)
	for !in.AtLimit() {
		c, _ := in.Peek()
		switch {
		case backslash && c == '\\':
			in.Advance(2)
		case c == quote:
			in.Advance(1)
			if next, ok := in.Peek(); doubling && ok && next == quote {
				in.Advance(1)
				continue
			}
			return
		default:
			in.Advance(1)
		}
	}
}

// number consumes an integer or decimal literal with optional exponent and
// returns its class.
func number(in *lexer.Input) token.Class {
	if in.HasPrefixFold("0x") {
		in.Advance(2)
		in.AdvanceWhile(isHexDigit)
		return token.NumberHexadecimal
	}
	class := token.NumberDecimal
	in.AdvanceWhile(isDigit)
	if c, ok := in.Peek(); ok && c == '.' {
		if d, ok := in.PeekAt(1); ok && isDigit(d) {
			in.Advance(1)
			in.AdvanceWhile(isDigit)
			class = token.NumberFloat
		}
	}
	if c, ok := in.Peek(); ok && (c == 'e' || c == 'E') {
		in.Backup()
		in.Advance(1)
		if s, ok := in.Peek(); ok && (s == '+' || s == '-') {
			in.Advance(1)
		}
		if in.AdvanceWhile(isDigit) > 0 {
			class = token.NumberFloat
		} else {
			in.Restore()
		}
	}
	return class
}
