package lexers

import (
	"context"
	"testing"

	chroma "github.com/alecthomas/chroma/v2"
	chromalexers "github.com/alecthomas/chroma/v2/lexers"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/token"
)

func TestChroma_Go(t *testing.T) {
	impl := NewChroma(chromalexers.Get("go"))
	require.Equal(t, "Go", impl.Info().Name)
	require.Contains(t, impl.Info().Filenames, "*.go")

	got := lex(t, lexer.New(impl), "package main\n\nfunc main() {}\n")
	require.Contains(t, got, lexeme{"package", token.KeywordNamespace})
	require.Contains(t, got, lexeme{"func", token.KeywordDeclaration})
}

func TestChroma_KeepsCRLF(t *testing.T) {
	impl := NewChroma(chromalexers.Get("go"))
	lex(t, lexer.New(impl), "var x = 1\r\nvar y = 2\r\n")
}

func TestRegisterChroma(t *testing.T) {
	reg := builtinRegistry(t)
	added, err := RegisterChroma(reg)
	require.NoError(t, err)
	require.Positive(t, added)

	html, err := reg.Lookup("html")
	require.NoError(t, err)
	require.Equal(t, registry.SourceBuiltIn, html.Source(), "builtins win over chroma")

	js, err := reg.Lookup("javascript")
	require.NoError(t, err)
	require.Equal(t, registry.SourceChroma, js.Source())
}

func TestRegisterChroma_ScriptDelegation(t *testing.T) {
	reg := builtinRegistry(t)
	_, err := RegisterChroma(reg)
	require.NoError(t, err)

	src := "<script>var x = 1;</script>"
	events, err := lexer.Tokenize(context.Background(), lexer.New(HTML), []byte(src), lexer.WithResolver(reg))
	require.NoError(t, err)

	var found bool
	for _, ev := range events {
		if ev.Kind == lexer.EventToken && string(ev.Text) == "var" {
			found = true
			require.Equal(t, "JavaScript", ev.Lexer)
			require.Equal(t, 2, ev.Depth)
		}
	}
	require.True(t, found, "script body is highlighted by the chroma lexer")
}

func TestClassFor(t *testing.T) {
	tests := []struct {
		in   chroma.TokenType
		want token.Class
	}{
		{chroma.KeywordType, token.KeywordType},
		{chroma.LiteralStringHeredoc, token.String},
		{chroma.NameDecorator, token.Name},
		{chroma.CommentPreproc, token.TagPreproc},
		{chroma.Whitespace, token.Text},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, classFor(tt.in), tt.in.String())
	}
}
