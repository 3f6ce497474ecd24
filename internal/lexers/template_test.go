package lexers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/token"
)

func htmlTemplate(t *testing.T) *lexer.Lexer {
	t.Helper()
	lx := lexer.New(Template)
	require.NoError(t, lx.SetOption("secondary", option.Lexer("html", lexer.New(HTML))))
	return lx
}

func TestTemplate_WithSecondary(t *testing.T) {
	got := lex(t, htmlTemplate(t), "<ul><% items.each do |i| %><li><%= i %></li><% end %></ul>")
	require.Equal(t, []lexeme{
		{"<ul", token.NameTag},
		{">", token.NameTag},
		{"<%", token.TagPreproc},
		{"items", token.Name},
		{".", token.Punctuation},
		{"each", token.NameBuiltin},
		{"do", token.Keyword},
		{"|", token.Punctuation},
		{"i", token.Name},
		{"|", token.Punctuation},
		{"%>", token.TagPreproc},
		{"<li", token.NameTag},
		{">", token.NameTag},
		{"<%=", token.TagPreproc},
		{"i", token.Name},
		{"%>", token.TagPreproc},
		{"</li", token.NameTag},
		{">", token.NameTag},
		{"<%", token.TagPreproc},
		{"end", token.Keyword},
		{"%>", token.TagPreproc},
		{"</ul", token.NameTag},
		{">", token.NameTag},
	}, got)
}

func TestTemplate_SecondaryStateSurvivesTags(t *testing.T) {
	got := lex(t, htmlTemplate(t), `<a <%= attrs %>href="x">`)
	require.Equal(t, []lexeme{
		{"<a", token.NameTag},
		{"<%=", token.TagPreproc},
		{"attrs", token.Name},
		{"%>", token.TagPreproc},
		{"href", token.NameAttribute},
		{"=", token.Operator},
		{`"x"`, token.String},
		{">", token.NameTag},
	}, got)
}

func TestTemplate_WithoutSecondary(t *testing.T) {
	got := lex(t, lexer.New(Template), "<%# note %>x<%%")
	require.Equal(t, []lexeme{
		{"<%# note %>", token.Comment},
		{"x", token.Text},
		{"<%%", token.Text},
	}, got)
}

func TestTemplate_Code(t *testing.T) {
	got := lex(t, lexer.New(Template), `<% def greet(name) @count += 1 :ok "hi" %>`)
	require.Equal(t, []lexeme{
		{"<%", token.TagPreproc},
		{"def", token.Keyword},
		{"greet", token.NameFunction},
		{"(", token.Punctuation},
		{"name", token.Name},
		{")", token.Punctuation},
		{"@count", token.NameVariableInstance},
		{"+", token.Operator},
		{"=", token.Operator},
		{"1", token.NumberDecimal},
		{":ok", token.StringInterned},
		{`"hi"`, token.StringDouble},
		{"%>", token.TagPreproc},
	}, got)
}

func TestTemplate_CommentLineEndings(t *testing.T) {
	for name, eol := range map[string]string{"LF": "\n", "CRLF": "\r\n", "CR": "\r"} {
		t.Run(name, func(t *testing.T) {
			got := lex(t, lexer.New(Template), "<% # c"+eol+"foo %>")
			require.Equal(t, []lexeme{
				{"<%", token.TagPreproc},
				{"# c", token.CommentSingle},
				{"foo", token.Name},
				{"%>", token.TagPreproc},
			}, got)
		})
	}
}

func TestTemplate_UnterminatedTag(t *testing.T) {
	got := lex(t, lexer.New(Template), "<% foo")
	require.Equal(t, []lexeme{{"<%", token.TagPreproc}, {"foo", token.Name}}, got)
}

func TestTemplate_Fingerprint(t *testing.T) {
	lx := htmlTemplate(t)
	require.Len(t, lx.Sublexers(), 1)
	require.Contains(t, lx.Fingerprint(), "+HTML(")
}
