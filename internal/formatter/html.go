package formatter

import (
	"html"
	"io"
	"strings"

	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/token"
)

// htmlFormatter wraps tokens in spans carrying either the CSS class of
// their token class or, with "inline", a style attribute.
type htmlFormatter struct{}

var htmlInfo = &Info{
	Name:    "HTML",
	Doc:     "Format tokens as HTML spans inside a <pre> block.",
	Aliases: []string{"html", "htm"},
	Options: []option.Decl{
		themeOption(),
		{Name: "css_prefix", Type: option.TypeString, Doc: "prefix prepended to every CSS class"},
		{Name: "inline", Type: option.TypeBool, Doc: "use style attributes instead of CSS classes"},
		{Name: "nowrap", Type: option.TypeBool, Doc: "omit the surrounding <pre> element"},
		{Name: "class", Type: option.TypeString, Default: option.String("hilite"), Doc: "class of the <pre> element"},
	},
}

func (*htmlFormatter) Info() *Info { return htmlInfo }

func (*htmlFormatter) Renderer(f *Formatter, w io.Writer) Renderer {
	return &htmlRenderer{
		w:      w,
		theme:  f.Theme(),
		prefix: f.Str("css_prefix"),
		class:  f.Str("class"),
		inline: f.Bool("inline"),
		nowrap: f.Bool("nowrap"),
	}
}

type htmlRenderer struct {
	w      io.Writer
	theme  *theme.Theme
	prefix string
	class  string
	inline bool
	nowrap bool
	open   bool
}

// InlineStyle renders s as the value of a style attribute.
func InlineStyle(s theme.Style) string {
	var decls []string
	if s.FGSet {
		decls = append(decls, "color: "+s.FG.Hex())
	}
	if s.BGSet {
		decls = append(decls, "background-color: "+s.BG.Hex())
	}
	if s.Bold {
		decls = append(decls, "font-weight: bold")
	}
	if s.Italic {
		decls = append(decls, "font-style: italic")
	}
	if s.Underline {
		decls = append(decls, "text-decoration: underline")
	}
	return strings.Join(decls, "; ")
}

func (r *htmlRenderer) StartDocument() error {
	if r.nowrap {
		return nil
	}
	var b strings.Builder
	b.WriteString("<pre")
	if r.class != "" {
		b.WriteString(` class="` + html.EscapeString(r.class) + `"`)
	}
	if r.inline {
		if style := InlineStyle(r.theme.Style(token.Text)); style != "" {
			b.WriteString(` style="` + style + `"`)
		}
	}
	b.WriteString(">")
	return r.write(b.String())
}

func (r *htmlRenderer) EndDocument() error {
	if r.nowrap {
		return nil
	}
	return r.write("</pre>\n")
}

func (r *htmlRenderer) StartToken(c token.Class) error {
	r.open = false
	if r.inline {
		if c == token.Text {
			return nil
		}
		style := InlineStyle(r.theme.Style(c))
		if style == "" {
			return nil
		}
		r.open = true
		return r.write(`<span style="` + style + `">`)
	}
	css := c.CSSClass()
	if css == "" {
		return nil
	}
	r.open = true
	return r.write(`<span class="` + html.EscapeString(r.prefix+css) + `">`)
}

func (r *htmlRenderer) WriteToken(text []byte) error {
	return r.write(html.EscapeString(string(text)))
}

func (r *htmlRenderer) EndToken(token.Class) error {
	if !r.open {
		return nil
	}
	r.open = false
	return r.write("</span>")
}

func (r *htmlRenderer) write(s string) error {
	_, err := io.WriteString(r.w, s)
	return err
}
