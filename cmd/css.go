package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/theme"
)

func newCSSCmd(c *cli) *cobra.Command {
	var (
		scope  string
		pretty bool
	)
	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the style sheet of a theme",
		Long: `Print the CSS rules for the classes the HTML formatter emits, using the
theme selected with --theme or the config file.

Examples:
  hilite css > hilite.css
  hilite css -t github --scope .code --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := theme.ByName(c.cfg.Theme)
			if err != nil {
				return err
			}
			css := theme.ExportCSS(t, scope, pretty)
			if _, err := io.WriteString(cmd.OutOrStdout(), css); err != nil {
				return fmt.Errorf("writing css: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", ".hilite", "selector prefixed to every rule; empty for none")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "one declaration per line")
	return cmd
}
