package lexers

import (
	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/token"
)

// bqlLexer highlights BQL, the issue query language of the beads tracker:
//
//	type = bug and priority < P2 order by created desc
//
// Identifiers are field names unless they follow a comparison operator or
// sit inside an "in (...)" list, where they are values.
type bqlLexer struct{}

var bqlInfo = &lexer.Info{
	Name:      "BQL",
	Doc:       "Beads Query Language filters.",
	Aliases:   []string{"bql", "beads"},
	Filenames: []string{"*.bql"},
	MimeTypes: []string{"text/x-bql"},
}

func (*bqlLexer) Info() *lexer.Info { return bqlInfo }

// BQL context flags kept in Data.Flags.
const (
	bqlAfterOperator uint16 = 1 << iota
	bqlInValueList
	bqlAfterIn
)

// bqlKeywords maps keyword strings to their classes.
var bqlKeywords = func() *hashtable.Table[string, token.Class] {
	t := hashtable.New[string, token.Class](16, hashtable.ASCIICaseInsensitive(), nil)
	for _, w := range []string{"and", "or", "not", "in", "order", "by", "asc", "desc"} {
		t.Put(0, w, token.Keyword)
	}
	t.Put(0, "true", token.KeywordConstant)
	t.Put(0, "false", token.KeywordConstant)
	return t
}()

func (*bqlLexer) Step(in *lexer.Input, d *lexer.Data, _ *lexer.Lexer) lexer.Result {
	if in.AtLimit() {
		return lexer.Done()
	}
	if r, ok := whitespace(in); ok {
		return r
	}

	afterIn := d.Flags&bqlAfterIn != 0
	d.Flags &^= bqlAfterIn

	c, _ := in.Peek()
	next, _ := in.PeekAt(1)
	switch {
	case c == '(':
		in.Advance(1)
		if afterIn {
			d.Flags |= bqlInValueList
		}
		return in.Token(token.Punctuation)
	case c == ')':
		in.Advance(1)
		d.Flags &^= bqlInValueList
		return in.Token(token.Punctuation)
	case c == ',':
		in.Advance(1)
		return in.Token(token.Punctuation)
	case c == '=' || c == '~':
		in.Advance(1)
		d.Flags |= bqlAfterOperator
		return in.Token(token.Operator)
	case c == '!' && (next == '=' || next == '~'):
		in.Advance(2)
		d.Flags |= bqlAfterOperator
		return in.Token(token.Operator)
	case c == '<' || c == '>':
		in.Advance(1)
		if next == '=' {
			in.Advance(1)
		}
		d.Flags |= bqlAfterOperator
		return in.Token(token.Operator)
	case c == '"' || c == '\'':
		quoted(in, c, false, false)
		d.Flags &^= bqlAfterOperator
		return in.Token(token.String)
	case isDigit(c) || (c == '-' && isDigit(next)):
		// Numbers may carry a time offset unit: -7d, -24h, -3m.
		in.Advance(1)
		in.AdvanceWhile(isDigit)
		if u, ok := in.Peek(); ok && (u == 'd' || u == 'D' || u == 'h' || u == 'H' || u == 'm' || u == 'M') {
			in.Advance(1)
			d.Flags &^= bqlAfterOperator
			return in.Token(token.LiteralDuration)
		}
		d.Flags &^= bqlAfterOperator
		return in.Token(token.NumberDecimal)
	case isLetter(c):
		in.AdvanceWhile(func(b byte) bool { return isLetter(b) || isDigit(b) || b == '-' })
		if class, ok := bqlKeywords.Get(string(in.Lexeme())); ok {
			if in.EqualFold("in") {
				d.Flags |= bqlAfterIn
			}
			d.Flags &^= bqlAfterOperator
			return in.Token(class)
		}
		if d.Flags&(bqlAfterOperator|bqlInValueList) != 0 {
			d.Flags &^= bqlAfterOperator
			return in.Token(token.Text)
		}
		return in.Token(token.NameAttribute)
	}
	return in.Unclassified()
}
