package lexers

import (
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/token"
)

type textLexer struct{}

var textInfo = &lexer.Info{
	Name:      "Text",
	Doc:       "Plain text, emitted as a single TEXT token.",
	Aliases:   []string{"text", "plain", "txt"},
	Filenames: []string{"*.txt"},
	MimeTypes: []string{"text/plain"},
}

func (*textLexer) Info() *lexer.Info { return textInfo }

func (*textLexer) Step(in *lexer.Input, _ *lexer.Data, _ *lexer.Lexer) lexer.Result {
	if in.AtLimit() {
		return lexer.Done()
	}
	in.Cursor = in.Limit
	return in.Token(token.Text).ThenDone()
}
