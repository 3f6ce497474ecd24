package lexers

import (
	"bytes"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/token"
)

// templateLexer handles ERB-style templates: text interleaved with <% %>
// tags. Text regions are rescanned by the "secondary" lexer, whose state is
// kept from one region to the next so that markup split by tags still
// highlights correctly.
type templateLexer struct{}

var templateInfo = &lexer.Info{
	Name:      "Template",
	Doc:       "ERB-style templates; text between tags is highlighted by the secondary lexer.",
	Aliases:   []string{"erb", "eruby", "rhtml", "template"},
	Filenames: []string{"*.erb", "*.rhtml"},
	MimeTypes: []string{"application/x-ruby-templating"},
	Options: []option.Decl{
		{Name: "secondary", Type: option.TypeLexer, Doc: "lexer for the text between tags"},
	},
	Implicit: []lexer.Implementation{templateCode},
}

func (*templateLexer) Info() *lexer.Info { return templateInfo }

type templateState struct {
	secondary *lexer.Lexer
	data      *lexer.Data
}

func (*templateLexer) Init(lx *lexer.Lexer, d *lexer.Data) {
	st := &templateState{secondary: lx.Sublexer("secondary")}
	if st.secondary != nil {
		st.data = st.secondary.NewData()
	}
	d.Local = st
}

func (*templateLexer) Finalize(d *lexer.Data) {
	d.Local = nil
}

func (*templateLexer) Analyse(src []byte) int {
	if bytes.Contains(src, []byte("<%")) && bytes.Contains(src, []byte("%>")) {
		return 40
	}
	return 0
}

func (t *templateLexer) Step(in *lexer.Input, d *lexer.Data, lx *lexer.Lexer) lexer.Result {
	if in.AtLimit() {
		return lexer.Done()
	}
	st, ok := d.Local.(*templateState)
	if !ok {
		t.Init(lx, d)
		st = d.Local.(*templateState)
	}

	if in.HasPrefix("<%") {
		switch next, _ := in.PeekAt(2); next {
		case '#':
			if end := in.Index("%>"); end >= 0 {
				in.Cursor = end + 2
			} else {
				in.Cursor = in.Limit
			}
			return in.Token(token.Comment)
		case '%':
			in.Advance(3)
			return in.Token(token.Text)
		case '=', '-':
			in.Advance(3)
		default:
			in.Advance(2)
		}
		return in.Token(token.TagPreproc).ThenDelegateFull(lexer.Target{Impl: templateCode}, token.Comment)
	}

	if end := in.Index("<%"); end >= 0 {
		in.Cursor = end
	} else {
		in.Cursor = in.Limit
	}
	if st.secondary == nil {
		return in.Token(token.Text)
	}
	return lexer.Replay(in.Text, in.Cursor, lexer.Target{Lexer: st.secondary, Data: st.data}, token.Text)
}

// templateCodeLexer scans the Ruby code inside a template tag and returns
// at the closing %>.
type templateCodeLexer struct{}

var templateCode = &templateCodeLexer{}

var templateCodeInfo = &lexer.Info{
	Name: "TemplateCode",
	Doc:  "Ruby code inside template tags.",
}

func (*templateCodeLexer) Info() *lexer.Info { return templateCodeInfo }

var rubyKeywords = func() *hashtable.Table[string, token.Class] {
	t := hashtable.New[string, token.Class](64, hashtable.ASCIICaseSensitive(), nil)
	for _, w := range []string{
		"begin", "break", "case", "class", "def", "do", "else", "elsif", "end", "ensure", "for",
		"if", "in", "module", "next", "rescue", "return", "then", "unless", "until", "when",
		"while", "yield",
	} {
		t.Put(0, w, token.Keyword)
	}
	for _, w := range []string{"nil", "true", "false", "self"} {
		t.Put(0, w, token.KeywordConstant)
	}
	for _, w := range []string{"puts", "render", "link_to", "raw", "h", "each", "map"} {
		t.Put(0, w, token.NameBuiltin)
	}
	return t
}()

func (*templateCodeLexer) Step(in *lexer.Input, d *lexer.Data, _ *lexer.Lexer) lexer.Result {
	if in.AtLimit() {
		return lexer.Done()
	}
	if in.HasPrefix("%>") || in.HasPrefix("-%>") {
		in.Cursor = in.Index("%>") + 2
		return in.Token(token.TagPreproc).ThenDone()
	}
	if r, ok := whitespace(in); ok {
		return r
	}

	c, _ := in.Peek()
	next, _ := in.PeekAt(1)
	switch {
	case c == '"' || c == '\'':
		quoted(in, c, false, true)
		if c == '"' {
			return in.Token(token.StringDouble)
		}
		return in.Token(token.StringSingle)
	case c == '#':
		lineComment(in, '%')
		return in.Token(token.CommentSingle)
	case c == '@':
		in.AdvanceWhile(func(b byte) bool { return b == '@' })
		in.AdvanceWhile(isIdent)
		return in.Token(token.NameVariableInstance)
	case c == ':' && isLetter(next):
		in.Advance(1)
		in.AdvanceWhile(isIdent)
		return in.Token(token.StringInterned)
	case isDigit(c):
		return in.Token(number(in))
	case isLetter(c):
		in.AdvanceWhile(isIdent)
		if p, ok := in.Peek(); ok && (p == '?' || p == '!') {
			in.Advance(1)
		}
		word := string(in.Lexeme())
		if class, ok := rubyKeywords.Get(word); ok {
			if word == "def" || word == "class" || word == "module" {
				d.NextLabel = lexer.LabelFunction
			}
			return in.Token(class)
		}
		if d.NextLabel != lexer.LabelNone {
			d.NextLabel = lexer.LabelNone
			if word[0] >= 'A' && word[0] <= 'Z' {
				return in.Token(token.NameClass)
			}
			return in.Token(token.NameFunction)
		}
		if word[0] >= 'A' && word[0] <= 'Z' {
			return in.Token(token.NameConstant)
		}
		return in.Token(token.Name)
	case bytes.IndexByte([]byte("(){}[],.|;"), c) >= 0:
		in.Advance(1)
		return in.Token(token.Punctuation)
	case bytes.IndexByte([]byte("+-*/%<>=!&?:~^"), c) >= 0:
		in.Advance(1)
		return in.Token(token.Operator)
	}
	return in.Unclassified()
}
