package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/presentation"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/theme"
)

// writeConfig writes body as the config file of a test and isolates HOME.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// run executes the command line with stdin and returns standard output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root, c := newRootCmd()
	t.Cleanup(c.close)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHighlight_Stdin(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, "SELECT 1;", "-c", cfg, "-l", "sql", "-f", "plain")
	require.NoError(t, err)
	require.Equal(t,
		"KEYWORD: \"SELECT\"\nTEXT: \" \"\nNUMBER_DECIMAL: \"1\"\nPUNCTUATION: \";\"\n", out)
}

func TestHighlight_DetectsByFileName(t *testing.T) {
	cfg := writeConfig(t, "formatter: plain\n")
	file := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(file, []byte("SELECT 1;"), 0o644))

	out, err := run(t, "", "-c", cfg, file)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "KEYWORD: \"SELECT\""), out)

	out, err = run(t, "SELECT 1;", "-c", cfg, "--filename", "piped.sql")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "KEYWORD: \"SELECT\""), out)
}

func TestHighlight_Terminal(t *testing.T) {
	cfg := writeConfig(t, "theme: molokai\n")
	out, err := run(t, "SELECT", "-c", cfg, "-l", "sql", "-f", "terminal", "-P", "profile=truecolor")
	require.NoError(t, err)
	require.Equal(t, "\x1b[1;38;2;249;38;114mSELECT\x1b[0m", out)

	out, err = run(t, "SELECT", "-c", cfg, "-l", "sql", "-f", "terminal", "-t", "github", "-P", "profile=truecolor")
	require.NoError(t, err)
	require.Equal(t, "\x1b[38;2;215;58;73mSELECT\x1b[0m", out)
}

func TestHighlight_HTMLOptions(t *testing.T) {
	cfg := writeConfig(t, "formatter_options:\n  css_prefix: hl-\n")
	out, err := run(t, "SELECT", "-c", cfg, "-l", "sql", "-f", "html", "-P", "nowrap")
	require.NoError(t, err)
	require.Equal(t, `<span class="hl-k">SELECT</span>`, out)
}

func TestHighlight_Options(t *testing.T) {
	cfg := writeConfig(t, "lexer_options:\n  dialect: mysql\n  not_a_text_option: 1\n")

	_, err := run(t, "x", "-c", cfg, "-l", "text", "-f", "plain")
	require.NoError(t, err, "configured options the lexer does not declare are skipped")

	_, err = run(t, "x", "-c", cfg, "-l", "text", "-f", "plain", "-O", "nope=1")
	require.ErrorIs(t, err, option.ErrUnknownOption)

	_, err = run(t, "x", "-c", cfg, "-l", "sql", "-f", "plain", "-O", "dialect=cobol")
	require.ErrorIs(t, err, option.ErrInvalidValue)

	_, err = run(t, "x", "-c", cfg, "-l", "sql", "-f", "plain", "-P", "=oops")
	require.ErrorIs(t, err, ErrBadOption)
}

func TestHighlight_Errors(t *testing.T) {
	cfg := writeConfig(t, "")

	_, err := run(t, "x", "-c", cfg, "-f", "pdf")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	require.ErrorIs(t, err, formatter.ErrNotFound)

	_, err = run(t, "x", "-c", cfg, "-l", "no-such-lexer", "-f", "plain")
	require.ErrorIs(t, err, registry.ErrNotFound)

	_, err = run(t, "", "-c", cfg, filepath.Join(t.TempDir(), "missing.sql"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "", "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestHighlight_Cache(t *testing.T) {
	cfg := writeConfig(t, "cache:\n  enabled: true\n  ttl: 1m\n")
	out, err := run(t, "SELECT", "-c", cfg, "-l", "sql", "-f", "plain")
	require.NoError(t, err)
	require.Equal(t, "KEYWORD: \"SELECT\"\n", out)
}

func TestHighlight_ChromaFlag(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, "package main\n", "-c", cfg, "-l", "go", "-f", "plain")
	require.NoError(t, err)
	require.Contains(t, out, "KEYWORD")

	off := writeConfig(t, "flags:\n  chroma-lexers: false\n")
	_, err = run(t, "package main\n", "-c", off, "-l", "go", "-f", "plain")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestHighlight_Tracing(t *testing.T) {
	traces := filepath.Join(t.TempDir(), "traces.jsonl")
	cfg := writeConfig(t, "tracing:\n  enabled: true\n  exporter: file\n  file_path: "+traces+"\n")

	root, c := newRootCmd()
	root.SetOut(io.Discard)
	root.SetIn(strings.NewReader("<style>p{}</style>"))
	root.SetArgs([]string{"-c", cfg, "-l", "html", "-f", "plain"})
	require.NoError(t, root.Execute())
	c.close()

	data, err := os.ReadFile(traces)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"highlight"`)
	assert.Contains(t, string(data), `"lexer.scan"`)
}

func TestList(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "", "-c", cfg, "list")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "NAME"))
	require.Contains(t, out, "SQL")

	out, err = run(t, "", "-c", cfg, "list", "formatters", "-o", "json")
	require.NoError(t, err)
	var formatters []presentation.FormatterDTO
	require.NoError(t, json.Unmarshal([]byte(out), &formatters))
	require.Len(t, formatters, 3)

	out, err = run(t, "", "-c", cfg, "-t", "github", "list", "themes", "--markdown", "--style", "notty")
	require.NoError(t, err)
	require.Contains(t, out, "molokai")
	require.Contains(t, out, "github")

	_, err = run(t, "", "-c", cfg, "list", "bogus")
	require.Error(t, err)

	_, err = run(t, "", "-c", cfg, "list", "-o", "xml")
	require.Error(t, err)
}

func TestCSS(t *testing.T) {
	cfg := writeConfig(t, "theme: github\n")
	out, err := run(t, "", "-c", cfg, "css", "--scope", ".code")
	require.NoError(t, err)
	require.Contains(t, out, ".code .k")
	require.Contains(t, out, "color: #d73a49;")

	want, err := theme.ByName("molokai")
	require.NoError(t, err)
	out, err = run(t, "", "-c", cfg, "css", "-t", "molokai", "--scope", "", "--pretty")
	require.NoError(t, err)
	require.Equal(t, theme.ExportCSS(want, "", true), out)

	_, err = run(t, "", "-c", cfg, "css", "-t", "nope")
	require.ErrorIs(t, err, theme.ErrNotFound)
}

func TestConfigCommands(t *testing.T) {
	cfg := writeConfig(t, "# mine\ntheme: molokai\n")

	out, err := run(t, "", "-c", cfg, "config", "path")
	require.NoError(t, err)
	require.Equal(t, cfg+"\n", out)

	_, err = run(t, "", "-c", cfg, "config", "set", "theme", "github")
	require.NoError(t, err)
	_, err = run(t, "", "-c", cfg, "config", "set", "lexer_options.dialect", "postgresql")
	require.NoError(t, err)
	_, err = run(t, "", "-c", cfg, "config", "set", "cache.enabled", "true")
	require.NoError(t, err)
	_, err = run(t, "", "-c", cfg, "config", "set", "theme", "no-such-theme")
	require.Error(t, err)
	_, err = run(t, "", "-c", cfg, "config", "set", "cache..ttl", "1m")
	require.Error(t, err)

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	require.Contains(t, string(data), "# mine")
	require.Contains(t, string(data), "theme: github")
	require.Contains(t, string(data), "dialect: postgresql")
	require.Contains(t, string(data), "enabled: true")

	out, err = run(t, "", "-c", cfg, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "theme: github")
	require.Contains(t, out, "formatter: terminal")
}

func TestConfigInit(t *testing.T) {
	cfg := writeConfig(t, "")
	target := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := run(t, "", "-c", cfg, "config", "init", target)
	require.NoError(t, err)
	require.Contains(t, out, target)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfigTemplate(), string(data))

	_, err = run(t, "", "-c", cfg, "config", "init", target)
	require.Error(t, err)
	_, err = run(t, "", "-c", cfg, "config", "init", "--force", target)
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	cfg := writeConfig(t, "")
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := run(t, "", "-c", cfg, "--version")
	require.NoError(t, err)
	require.Contains(t, out, "1.2.3")
}
