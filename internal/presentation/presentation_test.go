package presentation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/lexers"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/theme"
)

func builtinLexers(t *testing.T) []LexerDTO {
	t.Helper()
	reg := registry.New()
	require.NoError(t, lexers.Register(reg))
	return FromRegistrations(reg.Sorted())
}

func find[T any](items []T, name func(T) string, want string) (T, bool) {
	for _, it := range items {
		if name(it) == want {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func TestFromRegistration(t *testing.T) {
	sql, ok := find(builtinLexers(t), func(l LexerDTO) string { return l.Name }, "SQL")
	require.True(t, ok)
	require.Equal(t, registry.SourceBuiltIn.String(), sql.Source)
	require.Contains(t, sql.Aliases, "sql")
	require.Contains(t, sql.Filenames, "*.sql")

	dialect, ok := find(sql.Options, func(o OptionDTO) string { return o.Name }, "dialect")
	require.True(t, ok)
	require.Equal(t, "enum", dialect.Type)
	require.NotEmpty(t, dialect.Choices)
}

func TestFromFormatters(t *testing.T) {
	dtos := FromFormatters(formatter.All())
	require.Len(t, dtos, 3)

	term, ok := find(dtos, func(f FormatterDTO) string { return f.Name }, "Terminal")
	require.True(t, ok)
	th, ok := find(term.Options, func(o OptionDTO) string { return o.Name }, "theme")
	require.True(t, ok)
	require.Equal(t, theme.Default, th.Default)
	bg, ok := find(term.Options, func(o OptionDTO) string { return o.Name }, "background")
	require.True(t, ok)
	require.Empty(t, bg.Default)

	plain, ok := find(dtos, func(f FormatterDTO) string { return f.Name }, "Plain")
	require.True(t, ok)
	require.Nil(t, plain.Options)
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatJSON(FromThemes(theme.All())))

	var got []ThemeDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, len(theme.All()))
	require.True(t, strings.HasPrefix(buf.String(), "[\n  {"))
}

func TestFormatLexers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatLexers(builtinLexers(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.True(t, strings.HasPrefix(lines[0], "NAME"))
	require.Contains(t, lines[0], "FILENAMES")
	require.Contains(t, buf.String(), "*.sql")
}

func TestFormatThemes_MarksCurrent(t *testing.T) {
	var buf bytes.Buffer
	themes := []ThemeDTO{{Name: "github", Description: "light"}, {Name: "molokai"}}
	require.NoError(t, NewFormatter(&buf).FormatThemes(themes, "Molokai"))
	require.Contains(t, buf.String(), "molokai *")
	require.NotContains(t, buf.String(), "github *")
}

func TestFormatFormatters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatFormatters(FromFormatters(formatter.All())))
	require.Contains(t, buf.String(), "css_prefix")
	require.Contains(t, buf.String(), "Plain")
}

func TestMarkdown(t *testing.T) {
	md := LexersMarkdown([]LexerDTO{{Name: "A|B", Aliases: []string{"ab"}}})
	require.Contains(t, md, "| A\\|B | ab | - | - |")

	md = FormattersMarkdown(FromFormatters(formatter.All()))
	require.Contains(t, md, "## HTML")
	require.Contains(t, md, "| profile | enum | auto |")

	md = ThemesMarkdown([]ThemeDTO{{Name: "molokai", Description: "dark"}, {Name: "plain"}}, "molokai")
	require.Contains(t, md, "- **`molokai`** (current): dark")
	require.Contains(t, md, "- `plain`\n")
}
