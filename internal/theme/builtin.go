package theme

import "github.com/zjrosen/hilite/internal/token"

func define(name, description string, styles map[token.Class]string) *Theme {
	t := &Theme{Name: name, Description: description}
	for c, s := range styles {
		t.Set(c, MustParseStyle(s))
	}
	return t
}

func builtins() []*Theme {
	return []*Theme{monokai(), molokai(), github()}
}

func monokai() *Theme {
	return define("monokai", "Dark theme after the Monokai TextMate scheme", map[token.Class]string{
		token.Text:              "#f8f8f2 bg:#272822",
		token.Error:             "#960050 bg:#1e0010",
		token.Comment:           "#75715e",
		token.TagPreproc:        "#75715e",
		token.Keyword:           "#66d9ef",
		token.KeywordNamespace:  "#f92672",
		token.Operator:          "#f92672",
		token.Punctuation:       "#f8f8f2",
		token.Name:              "#f8f8f2",
		token.NameAttribute:     "#a6e22e",
		token.NameClass:         "#a6e22e",
		token.NameConstant:      "#66d9ef",
		token.NameFunction:      "#a6e22e",
		token.NameTag:           "#f92672",
		token.Number:            "#ae81ff",
		token.Literal:           "#ae81ff",
		token.String:            "#e6db74",
		token.SequenceEscaped:   "#ae81ff",
		token.Generic:           "#f8f8f2",
		token.GenericDeleted:    "#f92672",
		token.GenericInserted:   "#a6e22e",
		token.GenericHeading:    "#75715e",
		token.GenericSubheading: "#75715e",
		token.GenericStrong:     "bold",
	})
}

func molokai() *Theme {
	return define("molokai", "Dark theme after the molokai vim scheme", map[token.Class]string{
		token.Text:              "#f8f8f2 bg:#1b1d1e",
		token.Error:             "#960050 bg:#1e0010",
		token.Comment:           "#7e8e91",
		token.TagPreproc:        "#a6e22e",
		token.Keyword:           "bold #f92672",
		token.KeywordType:       "#66d9ef",
		token.KeywordConstant:   "bold #ae81ff",
		token.KeywordReserved:   "bold #f92672",
		token.Operator:          "#f92672",
		token.Name:              "#f8f8f2",
		token.NameBuiltin:       "#66d9ef",
		token.NameFunction:      "#a6e22e",
		token.NameClass:         "#66d9ef",
		token.NameTag:           "italic #f92672",
		token.NameAttribute:     "#a6e22e",
		token.NameVariable:      "#fd971f",
		token.NameEntity:        "#e6db74",
		token.String:            "#e6db74",
		token.SequenceEscaped:   "bold #ae81ff",
		token.Number:            "#ae81ff",
		token.Literal:           "#ae81ff",
		token.GenericDeleted:    "#960050 bg:#1e0010",
		token.GenericInserted:   "#a6e22e",
		token.GenericHeading:    "bold #ef5939",
		token.GenericSubheading: "#ef5939",
		token.GenericStrong:     "bold",
	})
}

func github() *Theme {
	return define("github", "Light theme after GitHub's code view", map[token.Class]string{
		token.Text:              "#24292e bg:#ffffff",
		token.Error:             "#b31d28 bg:#ffeef0",
		token.Comment:           "italic #6a737d",
		token.TagPreproc:        "#d73a49",
		token.Keyword:           "#d73a49",
		token.KeywordConstant:   "#005cc5",
		token.Operator:          "#d73a49",
		token.Name:              "#24292e",
		token.NameBuiltin:       "#005cc5",
		token.NameFunction:      "#6f42c1",
		token.NameClass:         "#6f42c1",
		token.NameTag:           "#22863a",
		token.NameAttribute:     "#6f42c1",
		token.NameVariable:      "#e36209",
		token.String:            "#032f62",
		token.Number:            "#005cc5",
		token.Literal:           "#005cc5",
		token.GenericDeleted:    "#b31d28 bg:#ffeef0",
		token.GenericInserted:   "#22863a bg:#f0fff4",
		token.GenericHeading:    "bold #005cc5",
		token.GenericSubheading: "#6f42c1",
		token.GenericStrong:     "bold",
	})
}
