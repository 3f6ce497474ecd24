package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClass_String(t *testing.T) {
	require.Equal(t, "EOS", EOS.String())
	require.Equal(t, "NAME_BUILTIN", NameBuiltin.String())
	require.Equal(t, "GENERIC_INSERTED", GenericInserted.String())
	require.Equal(t, "UNKNOWN", Count.String())
	require.Equal(t, "UNKNOWN", Class(-1).String())
}

func TestClass_TableIsComplete(t *testing.T) {
	require.Equal(t, 58, int(Count))
	seenCSS := map[string]Class{}
	for _, c := range All() {
		require.NotEmpty(t, c.String(), "class %d has no name", c)
		require.True(t, c.Parent().Valid())
		root := c
		for i := 0; i < 3 && root.Parent() != root; i++ {
			root = root.Parent()
		}
		require.Equal(t, root, root.Parent(), "%s: parent chain must reach a root category", c)

		css := c.CSSClass()
		if css == "" {
			continue
		}
		prev, dup := seenCSS[css]
		require.False(t, dup, "css class %q used by %s and %s", css, prev, c)
		seenCSS[css] = c
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want Class
		ok   bool
	}{
		{name: "KEYWORD", want: Keyword, ok: true},
		{name: "keyword_type", want: KeywordType, ok: true},
		{name: "name.builtin.pseudo", want: NameBuiltinPseudo, ok: true},
		{name: "String.Double", want: StringDouble, ok: true},
		{name: "nope", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ByName(tt.name)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClass_Key(t *testing.T) {
	require.Equal(t, "name.variable.global", NameVariableGlobal.Key())
	for _, c := range All() {
		got, ok := ByName(c.Key())
		require.True(t, ok)
		require.Equal(t, c, got)
	}
}

func TestClass_Parent(t *testing.T) {
	require.Equal(t, String, StringDouble.Parent())
	require.Equal(t, NameBuiltin, NameBuiltinPseudo.Parent())
	require.Equal(t, Keyword, Keyword.Parent())
	require.Equal(t, Text, Class(999).Parent())
}
