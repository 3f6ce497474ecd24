package lexers

import (
	"bytes"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/token"
)

// HTML conditions.
const (
	htmlContent = iota
	htmlTag
)

// ScriptLexerName is the lexer <script> bodies are delegated to. Without a
// registered lexer of that name they fall back to TEXT.
const ScriptLexerName = "javascript"

type htmlLexer struct{}

var htmlInfo = &lexer.Info{
	Name:      "HTML",
	Doc:       "HyperText Markup Language; style and script elements are highlighted by the CSS and JavaScript lexers.",
	Aliases:   []string{"html", "htm", "xhtml"},
	Filenames: []string{"*.html", "*.htm", "*.xhtml"},
	MimeTypes: []string{"text/html", "application/xhtml+xml"},
	Implicit:  []lexer.Implementation{CSS},
}

func (*htmlLexer) Info() *lexer.Info { return htmlInfo }

type htmlState struct {
	tag     string
	closing bool
}

func (*htmlLexer) Init(_ *lexer.Lexer, d *lexer.Data) {
	d.Local = &htmlState{}
}

func (*htmlLexer) Analyse(src []byte) int {
	head := src[:min(len(src), 1024)]
	switch {
	case bytes.Contains(bytes.ToLower(head), []byte("<!doctype html")):
		return 100
	case bytes.Contains(bytes.ToLower(head), []byte("<html")):
		return 80
	case bytes.Contains(src, []byte("</div>")), bytes.Contains(src, []byte("</p>")):
		return 20
	}
	return 0
}

func isTagName(c byte) bool {
	return isIdent(c) || c == '-' || c == ':' || c == '.'
}

func (h *htmlLexer) Step(in *lexer.Input, d *lexer.Data, lx *lexer.Lexer) lexer.Result {
	if in.AtLimit() {
		return lexer.Done()
	}
	st, ok := d.Local.(*htmlState)
	if !ok {
		h.Init(lx, d)
		st = d.Local.(*htmlState)
	}
	if d.State == htmlTag {
		return htmlInTag(in, d, st)
	}

	c, _ := in.Peek()
	next, _ := in.PeekAt(1)
	switch {
	case in.HasPrefix("<!--"):
		in.Advance(4)
		if end := in.Index("-->"); end >= 0 {
			in.Cursor = end + 3
		} else {
			in.Cursor = in.Limit
		}
		return in.Token(token.CommentMultiline)
	case c == '<' && (next == '!' || next == '?'):
		in.Advance(2)
		if end := in.Index(">"); end >= 0 {
			in.Cursor = end + 1
		} else {
			in.Cursor = in.Limit
		}
		return in.Token(token.TagPreproc)
	case c == '<' && next == '/':
		in.Advance(2)
		in.AdvanceWhile(isTagName)
		st.tag = string(in.Src[in.Text+2 : in.Cursor])
		st.closing = true
		d.Begin(htmlTag)
		return in.Token(token.NameTag)
	case c == '<' && isLetter(next):
		in.Advance(1)
		in.AdvanceWhile(isTagName)
		st.tag = string(in.Src[in.Text+1 : in.Cursor])
		st.closing = false
		d.Begin(htmlTag)
		return in.Token(token.NameTag)
	case c == '&':
		return htmlEntity(in)
	}

	in.Advance(1)
	in.AdvanceWhile(func(b byte) bool { return b != '<' && b != '&' })
	return in.Token(token.Text)
}

func htmlEntity(in *lexer.Input) lexer.Result {
	in.Advance(1)
	if c, ok := in.Peek(); ok && c == '#' {
		in.Advance(1)
		if x, ok := in.Peek(); ok && (x == 'x' || x == 'X') {
			in.Advance(1)
			in.AdvanceWhile(isHexDigit)
		} else {
			in.AdvanceWhile(isDigit)
		}
	} else {
		in.AdvanceWhile(func(b byte) bool { return isLetter(b) || isDigit(b) })
	}
	if c, ok := in.Peek(); ok && c == ';' && in.Len() > 1 {
		in.Advance(1)
		return in.Token(token.NameEntity)
	}
	in.Less(1)
	return in.Token(token.Text)
}

func htmlInTag(in *lexer.Input, d *lexer.Data, st *htmlState) lexer.Result {
	if r, ok := whitespace(in); ok {
		return r
	}
	c, _ := in.Peek()
	switch {
	case in.HasPrefix("/>"):
		in.Advance(2)
		d.Begin(htmlContent)
		return in.Token(token.NameTag)
	case c == '>':
		in.Advance(1)
		d.Begin(htmlContent)
		tok := in.Token(token.NameTag)
		if st.closing {
			return tok
		}
		return htmlEmbedded(in, st, tok)
	case c == '=':
		in.Advance(1)
		return in.Token(token.Operator)
	case c == '"' || c == '\'':
		quoted(in, c, false, false)
		return in.Token(token.String)
	case isTagName(c):
		in.AdvanceWhile(isTagName)
		if next, ok := in.Peek(); ok && next == '=' {
			return in.Token(token.NameAttribute)
		}
		if in.Text > 0 && in.Src[in.Text-1] == '=' {
			return in.Token(token.String)
		}
		return in.Token(token.NameAttribute)
	}
	return in.Unclassified()
}

var embeddedTags = func() *hashtable.Table[string, lexer.Target] {
	t := hashtable.New[string, lexer.Target](8, hashtable.ASCIICaseInsensitive(), nil)
	t.Put(0, "style", lexer.Target{Impl: CSS})
	t.Put(0, "script", lexer.Target{Name: ScriptLexerName})
	return t
}()

// htmlEmbedded hands the body of a style or script element to its lexer,
// up to the matching end tag.
func htmlEmbedded(in *lexer.Input, st *htmlState, tok lexer.Result) lexer.Result {
	target, ok := embeddedTags.Get(st.tag)
	if !ok {
		return tok
	}
	end := in.IndexFold("</" + st.tag)
	if end < 0 {
		end = in.Limit
	}
	return tok.ThenDelegateUntil(end, target, token.Text)
}
