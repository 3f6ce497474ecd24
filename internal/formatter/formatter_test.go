package formatter

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/token"
)

type span struct {
	class token.Class
	text  string
}

func render(t *testing.T, f *Formatter, spans ...span) string {
	t.Helper()
	var b strings.Builder
	r := f.Renderer(&b)
	require.NoError(t, r.StartDocument())
	for _, s := range spans {
		require.NoError(t, r.StartToken(s.class))
		require.NoError(t, r.WriteToken([]byte(s.text)))
		require.NoError(t, r.EndToken(s.class))
	}
	require.NoError(t, r.EndDocument())
	return b.String()
}

type themeResolver struct{}

func (themeResolver) ResolveTheme(name string) (any, bool) { return theme.Resolve(name) }
func (themeResolver) ResolveLexer(string) (any, bool)      { return nil, false }

func TestByName(t *testing.T) {
	for name, want := range map[string]Implementation{
		"plain": Plain, "TOKENS": Plain, "terminal": Terminal, "ansi": Terminal, "Html": HTML,
	} {
		got, err := ByName(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}
	_, err := ByName("pdf")
	require.ErrorIs(t, err, ErrNotFound)
	require.Len(t, All(), 3)
}

func TestPlain(t *testing.T) {
	got := render(t, New(Plain),
		span{token.Keyword, "SELECT"},
		span{token.Text, " "},
		span{token.StringSingle, "'a\"b'\n"},
	)
	require.Equal(t, "KEYWORD: \"SELECT\"\nTEXT: \" \"\nSTRING_SINGLE: \"'a\\\"b'\\n\"\n", got)
}

func TestTerminal(t *testing.T) {
	f := New(Terminal)
	require.NoError(t, f.SetOptionString("profile", "truecolor", nil))

	got := render(t, f, span{token.Keyword, "if"}, span{token.Punctuation, ";"})
	require.Equal(t, "\x1b[1;38;2;249;38;114mif\x1b[0m;", got, "molokai by default, unstyled classes untouched")
}

func TestTerminal_LinesAreSelfContained(t *testing.T) {
	f := New(Terminal)
	require.NoError(t, f.SetOptionString("profile", "truecolor", nil))
	require.NoError(t, f.SetOptionString("theme", "github", themeResolver{}))

	got := render(t, f, span{token.CommentMultiline, "/* a\nb */"})
	open := "\x1b[3;38;2;106;115;125m"
	require.Equal(t, open+"/* a\x1b[0m\n"+open+"b */\x1b[0m", got)
}

func TestTerminal_Profiles(t *testing.T) {
	f := New(Terminal)
	require.NoError(t, f.SetOptionString("profile", "none", nil))
	require.Equal(t, "if", render(t, f, span{token.Keyword, "if"}))

	require.NoError(t, f.SetOptionString("profile", "ansi256", nil))
	require.True(t, strings.HasPrefix(render(t, f, span{token.Keyword, "if"}), "\x1b[1;38;5;"))

	require.ErrorIs(t, f.SetOptionString("profile", "cga", nil), option.ErrInvalidValue)
	require.Equal(t, termenv.TrueColor, Profile(ProfileTrueColor))
}

func TestTerminal_Background(t *testing.T) {
	style := theme.MustParseStyle("#ffffff bg:#000000")
	require.Equal(t, "\x1b[38;2;255;255;255m", Sequence(style, termenv.TrueColor, false))
	require.Equal(t, "\x1b[38;2;255;255;255;48;2;0;0;0m", Sequence(style, termenv.TrueColor, true))
	require.Empty(t, Sequence(theme.Style{}, termenv.TrueColor, true))
}

func TestHTML(t *testing.T) {
	got := render(t, New(HTML),
		span{token.NameTag, "<p"},
		span{token.Text, " & "},
		span{token.String, `"x"`},
	)
	require.Equal(t, `<pre class="hilite"><span class="nt">&lt;p</span> &amp; <span class="s">&#34;x&#34;</span></pre>`+"\n", got)
}

func TestHTML_Options(t *testing.T) {
	f := New(HTML)
	require.NoError(t, f.SetOptionString("css_prefix", "hl-", nil))
	require.NoError(t, f.SetOptionString("nowrap", "yes", nil))
	require.Equal(t, `<span class="hl-k">if</span>`, render(t, f, span{token.Keyword, "if"}))

	inline := New(HTML)
	require.NoError(t, inline.SetOptionString("inline", "true", nil))
	require.NoError(t, inline.SetOptionString("theme", "github", themeResolver{}))
	got := render(t, inline, span{token.Keyword, "if"}, span{token.Punctuation, ";"})
	require.Equal(t,
		`<pre class="hilite" style="color: #24292e; background-color: #ffffff">`+
			`<span style="color: #d73a49">if</span>;</pre>`+"\n", got)
}

func TestFormatter_Theme(t *testing.T) {
	f := New(HTML)
	require.Equal(t, theme.Default, f.Theme().Name)

	err := f.SetOptionString("theme", "nope", themeResolver{})
	require.ErrorIs(t, err, option.ErrUnknownReference)
	require.Equal(t, theme.Default, f.Theme().Name)

	require.NoError(t, f.SetOptionString("theme", "MONOKAI", themeResolver{}))
	require.Equal(t, "monokai", f.Theme().Name)
	require.Contains(t, f.Fingerprint(), "theme=MONOKAI")

	require.Empty(t, New(Plain).Str("theme"))
}
