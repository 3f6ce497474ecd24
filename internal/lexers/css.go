package lexers

import (
	"bytes"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/token"
)

// CSS conditions.
const (
	cssSelector = iota
	cssBlock
	cssValue
)

// cssNestingRule is set in Data.Flags after an at-rule whose block holds
// rules rather than declarations.
const cssNestingRule uint16 = 1 << 0

var cssNestingAtRules = []string{"@media", "@supports", "@document", "@layer", "@container", "@scope", "@keyframes"}

type cssLexer struct{}

var cssInfo = &lexer.Info{
	Name:      "CSS",
	Doc:       "Cascading Style Sheets.",
	Aliases:   []string{"css"},
	Filenames: []string{"*.css"},
	MimeTypes: []string{"text/css"},
}

func (*cssLexer) Info() *lexer.Info { return cssInfo }

func isCSSIdent(c byte) bool {
	return isIdent(c) || c == '-'
}

func (*cssLexer) Step(in *lexer.Input, d *lexer.Data, _ *lexer.Lexer) lexer.Result {
	if in.AtLimit() {
		return lexer.Done()
	}
	if r, ok := whitespace(in); ok {
		return r
	}
	if in.HasPrefix("/*") {
		in.Advance(2)
		if end := in.Index("*/"); end >= 0 {
			in.Cursor = end + 2
		} else {
			in.Cursor = in.Limit
		}
		return in.Token(token.CommentMultiline)
	}

	c, _ := in.Peek()
	switch c {
	case '"', '\'':
		quoted(in, c, false, true)
		if c == '"' {
			return in.Token(token.StringDouble)
		}
		return in.Token(token.StringSingle)
	case '{':
		in.Advance(1)
		if d.State == cssSelector && d.Flags&cssNestingRule != 0 {
			d.Flags &^= cssNestingRule
			d.PushState(cssSelector)
		} else {
			d.PushState(cssBlock)
		}
		return in.Token(token.Punctuation)
	case '}':
		in.Advance(1)
		if d.State == cssValue {
			d.PopState()
		}
		d.PopState()
		return in.Token(token.Punctuation)
	}

	switch d.State {
	case cssBlock:
		return cssDeclaration(in, d, c)
	case cssValue:
		return cssValueToken(in, d, c)
	default:
		return cssSelectorToken(in, d, c)
	}
}

func cssSelectorToken(in *lexer.Input, d *lexer.Data, c byte) lexer.Result {
	next, _ := in.PeekAt(1)
	switch {
	case c == '@' && isCSSIdent(next):
		in.Advance(1)
		in.AdvanceWhile(isCSSIdent)
		for _, rule := range cssNestingAtRules {
			if in.EqualFold(rule) {
				d.Flags |= cssNestingRule
			}
		}
		return in.Token(token.Keyword)
	case (c == '.' || c == '#') && isCSSIdent(next):
		in.Advance(1)
		in.AdvanceWhile(isCSSIdent)
		if c == '.' {
			return in.Token(token.NameClass)
		}
		return in.Token(token.NameNamespace)
	case c == ':':
		in.AdvanceWhile(func(b byte) bool { return b == ':' })
		if in.AdvanceWhile(isCSSIdent) == 0 {
			return in.Token(token.Punctuation)
		}
		return in.Token(token.NameBuiltinPseudo)
	case c == ';':
		in.Advance(1)
		d.Flags &^= cssNestingRule
		return in.Token(token.Punctuation)
	case isDigit(c):
		number(in)
		in.AdvanceWhile(func(b byte) bool { return isLetter(b) || b == '%' })
		return in.Token(token.LiteralSize)
	case isCSSIdent(c):
		in.AdvanceWhile(isCSSIdent)
		if d.Flags&cssNestingRule != 0 {
			return in.Token(token.Name)
		}
		return in.Token(token.NameTag)
	case c == '[':
		in.Advance(1)
		in.AdvanceWhile(isSpace)
		in.AdvanceWhile(isCSSIdent)
		return in.Token(token.NameAttribute)
	case bytes.IndexByte([]byte(">+~*|^$="), c) >= 0:
		in.Advance(1)
		return in.Token(token.Operator)
	case bytes.IndexByte([]byte(",()]"), c) >= 0:
		in.Advance(1)
		return in.Token(token.Punctuation)
	}
	return in.Unclassified()
}

func cssDeclaration(in *lexer.Input, d *lexer.Data, c byte) lexer.Result {
	switch {
	case c == ':':
		in.Advance(1)
		d.PushState(cssValue)
		return in.Token(token.Punctuation)
	case c == ';':
		in.Advance(1)
		return in.Token(token.Punctuation)
	case isCSSIdent(c):
		in.AdvanceWhile(isCSSIdent)
		if in.Len() > 2 && in.Src[in.Text] == '-' && in.Src[in.Text+1] == '-' {
			return in.Token(token.NameVariable)
		}
		return in.Token(token.Keyword)
	case c == '&' || c == '.' || c == '#':
		// A nested rule inside a declaration block.
		return cssSelectorToken(in, d, c)
	}
	return in.Unclassified()
}

var cssValueKeywords = func() *hashtable.Table[string, token.Class] {
	t := hashtable.New[string, token.Class](32, hashtable.ASCIICaseInsensitive(), nil)
	for _, w := range []string{"inherit", "initial", "unset", "revert", "auto", "none"} {
		t.Put(0, w, token.KeywordConstant)
	}
	return t
}()

func cssValueToken(in *lexer.Input, d *lexer.Data, c byte) lexer.Result {
	next, _ := in.PeekAt(1)
	switch {
	case c == ';':
		in.Advance(1)
		d.PopState()
		return in.Token(token.Punctuation)
	case c == '#' && isHexDigit(next):
		in.Advance(1)
		in.AdvanceWhile(isHexDigit)
		return in.Token(token.NumberHexadecimal)
	case isDigit(c) || (c == '.' && isDigit(next)) || ((c == '-' || c == '+') && (isDigit(next) || next == '.')):
		if c == '-' || c == '+' {
			in.Advance(1)
		}
		class := number(in)
		if in.AdvanceWhile(isLetter) > 0 || in.AdvanceWhile(func(b byte) bool { return b == '%' }) > 0 {
			return in.Token(token.LiteralSize)
		}
		return in.Token(class)
	case c == '!' && isLetter(next):
		in.Advance(1)
		in.AdvanceWhile(isLetter)
		return in.Token(token.KeywordReserved)
	case isCSSIdent(c):
		in.AdvanceWhile(isCSSIdent)
		if in.Len() > 2 && in.Src[in.Text] == '-' && in.Src[in.Text+1] == '-' {
			return in.Token(token.NameVariable)
		}
		if p, ok := in.Peek(); ok && p == '(' {
			return in.Token(token.NameFunction)
		}
		if class, ok := cssValueKeywords.Get(string(in.Lexeme())); ok {
			return in.Token(class)
		}
		return in.Token(token.NameBuiltin)
	case bytes.IndexByte([]byte("(),"), c) >= 0:
		in.Advance(1)
		return in.Token(token.Punctuation)
	case bytes.IndexByte([]byte("/*+-=<>"), c) >= 0:
		in.Advance(1)
		return in.Token(token.Operator)
	}
	return in.Unclassified()
}
