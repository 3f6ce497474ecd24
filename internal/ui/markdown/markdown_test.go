package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r, err := New(60, StyleNoTTY)
	require.NoError(t, err)
	require.Equal(t, 60, r.Width())

	out, err := r.Render("# Lexers\n\n| Name | Aliases |\n| --- | --- |\n| SQL | sql |\n")
	require.NoError(t, err)
	require.Contains(t, out, "Lexers")
	require.Contains(t, out, "SQL")
	require.Contains(t, out, "sql")
}

func TestNew_Auto(t *testing.T) {
	r, err := New(40, StyleAuto)
	require.NoError(t, err)

	out, err := r.Render("plain *words*")
	require.NoError(t, err)
	require.Contains(t, out, "plain")
}
