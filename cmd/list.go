package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/presentation"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/ui/markdown"
)

// Listing kinds accepted by the list command.
const (
	listLexers     = "lexers"
	listFormatters = "formatters"
	listThemes     = "themes"
)

type listOptions struct {
	output   string
	style    string
	width    int
	markdown bool
}

func newListCmd(c *cli) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:       "list [lexers|formatters|themes]",
		Short:     "List lexers, formatters or themes",
		ValidArgs: []string{listLexers, listFormatters, listThemes},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `List the registered lexers, the formatters with their options, or the
color themes. Lexers are listed by default.

Examples:
  hilite list
  hilite list formatters --markdown
  hilite list themes -o json | jq '.[].name'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := listLexers
			if len(args) == 1 {
				kind = args[0]
			}
			if opts.markdown {
				opts.output = presentation.OutputMarkdown
			}
			return c.runList(cmd.OutOrStdout(), kind, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", presentation.OutputTable, "output format: table, json or markdown")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "shorthand for --output markdown")
	cmd.Flags().StringVar(&opts.style, "style", markdown.StyleAuto, "markdown style: auto, dark, light or notty")
	cmd.Flags().IntVar(&opts.width, "width", 100, "markdown word wrap width")
	return cmd
}

func (c *cli) runList(w io.Writer, kind string, opts *listOptions) error {
	var (
		data any
		md   string
	)
	out := presentation.NewFormatter(w)
	var table func() error

	switch kind {
	case listLexers:
		dtos := presentation.FromRegistrations(c.registry.Sorted())
		data, md = dtos, presentation.LexersMarkdown(dtos)
		table = func() error { return out.FormatLexers(dtos) }
	case listFormatters:
		dtos := presentation.FromFormatters(formatter.All())
		data, md = dtos, presentation.FormattersMarkdown(dtos)
		table = func() error { return out.FormatFormatters(dtos) }
	case listThemes:
		dtos := presentation.FromThemes(theme.All())
		data, md = dtos, presentation.ThemesMarkdown(dtos, c.cfg.Theme)
		table = func() error { return out.FormatThemes(dtos, c.cfg.Theme) }
	default:
		return fmt.Errorf("unknown listing %q", kind)
	}

	switch opts.output {
	case presentation.OutputTable:
		return table()
	case presentation.OutputJSON:
		return out.FormatJSON(data)
	case presentation.OutputMarkdown:
		r, err := markdown.New(opts.width, opts.style)
		if err != nil {
			return fmt.Errorf("creating markdown renderer: %w", err)
		}
		rendered, err := r.Render(md)
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		_, err = io.WriteString(w, rendered)
		return err
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}
}
