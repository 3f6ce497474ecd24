package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Output formats of the listings.
const (
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatJSON writes v as indented JSON.
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatLexers writes one row per lexer.
func (f *Formatter) FormatLexers(lexers []LexerDTO) error {
	rows := make([][]string, 0, len(lexers))
	for _, l := range lexers {
		rows = append(rows, []string{l.Name, l.Source, join(l.Aliases), join(l.Filenames)})
	}
	return f.table([]string{"NAME", "SOURCE", "ALIASES", "FILENAMES"}, rows)
}

// FormatFormatters writes one row per formatter.
func (f *Formatter) FormatFormatters(formatters []FormatterDTO) error {
	rows := make([][]string, 0, len(formatters))
	for _, fm := range formatters {
		rows = append(rows, []string{fm.Name, join(fm.Aliases), optionNames(fm.Options)})
	}
	return f.table([]string{"NAME", "ALIASES", "OPTIONS"}, rows)
}

// FormatThemes writes one row per theme, marking current.
func (f *Formatter) FormatThemes(themes []ThemeDTO, current string) error {
	rows := make([][]string, 0, len(themes))
	for _, t := range themes {
		name := t.Name
		if strings.EqualFold(name, current) {
			name += " *"
		}
		rows = append(rows, []string{name, t.Description})
	}
	return f.table([]string{"NAME", "DESCRIPTION"}, rows)
}

func (f *Formatter) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.writer, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func join(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}

func optionNames(opts []OptionDTO) string {
	names := make([]string, 0, len(opts))
	for _, o := range opts {
		names = append(names, o.Name)
	}
	return join(names)
}
