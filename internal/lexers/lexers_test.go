package lexers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/token"
)

type lexeme struct {
	Text  string
	Class token.Class
}

// lex tokenizes src and returns the tokens that are not blank TEXT. It fails
// the test unless the tokens reproduce src.
func lex(t *testing.T, lx *lexer.Lexer, src string, opts ...lexer.EngineOption) []lexeme {
	t.Helper()
	events, err := lexer.Tokenize(context.Background(), lx, []byte(src), opts...)
	require.NoError(t, err)

	var b strings.Builder
	var out []lexeme
	for _, ev := range events {
		if ev.Kind != lexer.EventToken {
			continue
		}
		b.Write(ev.Text)
		if ev.Class == token.Text && strings.TrimSpace(string(ev.Text)) == "" {
			continue
		}
		out = append(out, lexeme{Text: string(ev.Text), Class: ev.Class})
	}
	require.Equal(t, src, b.String(), "tokens must reproduce the input")
	return out
}

func builtinRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, Register(reg))
	return reg
}

func TestRegister(t *testing.T) {
	reg := builtinRegistry(t)

	for _, name := range []string{"text", "sql", "css", "html", "erb", "bql", "TemplateCode"} {
		_, err := reg.Lookup(name)
		require.NoError(t, err, name)
	}
	require.Equal(t, len(Builtins())+1, reg.Len(), "template code is registered implicitly")

	// Registering twice is a no-op.
	require.NoError(t, Register(reg))
	require.Equal(t, len(Builtins())+1, reg.Len())
}

func TestDetect(t *testing.T) {
	reg := builtinRegistry(t)

	tests := []struct {
		name     string
		filename string
		src      string
		want     string
	}{
		{name: "by file name", filename: "query.sql", want: "SQL"},
		{name: "by mime-less content", src: "<!DOCTYPE html>\n<html></html>", want: "HTML"},
		{name: "sql content", src: "SELECT 1;\nUPDATE t SET a = 1;\n", want: "SQL"},
		{name: "template file", filename: "show.html.erb", want: "Template"},
		{name: "unknown", src: "just words", want: "Text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Detect("", tt.filename, []byte(tt.src))
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Name())
		})
	}
}

func TestText(t *testing.T) {
	got := lex(t, lexer.New(Text), "a <b> c")
	require.Equal(t, []lexeme{{"a <b> c", token.Text}}, got)
}

// Every builtin must cover any input exactly, without engine errors.
func TestBuiltins_RoundTrip(t *testing.T) {
	reg := builtinRegistry(t)
	alphabet := []rune("<>/%=\"'{}();:#@$-*!&.,|`[]\\ \n\tabzSELECTstylescript019é")

	for _, impl := range Builtins() {
		t.Run(impl.Info().Name, func(t *testing.T) {
			rapid.Check(t, func(rt *rapid.T) {
				src := rapid.StringOf(rapid.SampledFrom(alphabet)).Draw(rt, "src")
				lx := lexer.New(impl)

				var b strings.Builder
				end := 0
				_, err := lexer.NewEngine(lexer.WithResolver(reg)).Run(context.Background(), lx, []byte(src), func(ev lexer.Event) error {
					if ev.Kind != lexer.EventToken {
						return nil
					}
					if ev.Start != end {
						rt.Fatalf("token at %d, previous ended at %d", ev.Start, end)
					}
					end = ev.End
					b.Write(ev.Text)
					return nil
				})
				if err != nil {
					rt.Fatalf("scan failed: %v", err)
				}
				if b.String() != src {
					rt.Fatalf("got %q, want %q", b.String(), src)
				}
			})
		})
	}
}

func TestWhitespace_LineEndings(t *testing.T) {
	in := lexer.NewInput([]byte(" \r\n\t\r\nx"))
	r, ok := whitespace(in)
	require.True(t, ok)
	require.Equal(t, 0, r.Token.Start)
	require.Equal(t, 6, r.Token.End)
	require.Equal(t, token.Text, r.Token.Class)

	_, ok = whitespace(in)
	require.False(t, ok, "no blanks at the cursor")
}

func TestLineComment(t *testing.T) {
	for name, src := range map[string]string{"LF": "-- c\nx", "CRLF": "-- c\r\nx", "CR": "-- c\rx"} {
		t.Run(name, func(t *testing.T) {
			in := lexer.NewInput([]byte(src))
			lineComment(in, 0)
			require.Equal(t, 4, in.Cursor)
		})
	}

	in := lexer.NewInput([]byte("# c %>"))
	lineComment(in, '%')
	require.Equal(t, 4, in.Cursor)
}
