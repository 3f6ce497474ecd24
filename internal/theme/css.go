package theme

import (
	"strings"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/token"
)

// ExportCSS renders t as a style sheet. Classes sharing the same style are
// grouped under one rule, in the order their first member appears in the
// class enumeration. A non-empty scope prefixes every selector and receives
// the TEXT style as the block default. Pretty indents the declarations.
func ExportCSS(t *Theme, scope string, pretty bool) string {
	groups := hashtable.NewDirect[*[]token.Class](int(token.Count), nil)
	for _, c := range token.All() {
		s := t.Style(c)
		if c.CSSClass() == "" || s.IsZero() {
			continue
		}
		members := &[]token.Class{c}
		if existing, outcome := groups.Put(hashtable.OnDupKeyPreserve, s.Key(), members); outcome == hashtable.Preserved {
			*existing = append(*existing, c)
		}
	}

	indent := ""
	if pretty {
		indent = "  "
	}
	var b strings.Builder
	if text := t.Style(token.Text); scope != "" && !text.IsZero() {
		b.WriteString(scope)
		writeRule(&b, text, indent)
	}
	for _, members := range groups.All() {
		for i, c := range *members {
			if i > 0 {
				b.WriteString(", ")
			}
			if scope != "" {
				b.WriteString(scope)
				b.WriteByte(' ')
			}
			b.WriteByte('.')
			b.WriteString(c.CSSClass())
		}
		writeRule(&b, t.Style((*members)[0]), indent)
	}
	return b.String()
}

func writeRule(b *strings.Builder, s Style, indent string) {
	b.WriteString(" {\n")
	decl := func(d string) {
		b.WriteString(indent)
		b.WriteString(d)
		b.WriteString(";\n")
	}
	if s.BGSet {
		decl("background-color: " + s.BG.Hex())
	}
	if s.FGSet {
		decl("color: " + s.FG.Hex())
	}
	if s.Bold {
		decl("font-weight: bold")
	}
	if s.Italic {
		decl("font-style: italic")
	}
	if s.Underline {
		decl("text-decoration: underline")
	}
	b.WriteString("}\n")
}
