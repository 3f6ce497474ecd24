package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/ui/pager"
	"github.com/zjrosen/hilite/internal/watcher"
)

func newViewCmd(c *cli) *cobra.Command {
	var (
		follow     bool
		profile    string
		background bool
	)
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Page through a highlighted file",
		Long: `Show a highlighted file full screen.

Keys: j/k scroll, g/G top and bottom, t/T next and previous theme,
s save the theme to the config file, l toggle the log pane, q quit.

With --follow the file is highlighted again whenever it changes.`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationTeaLog: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			lx, err := c.newLexer(path, src)
			if err != nil {
				return err
			}

			cfg := pager.Config{
				Path:        path,
				Source:      src,
				Lexer:       lx,
				Highlighter: c.highlighter,
				Theme:       c.cfg.Theme,
				Profile:     profile,
				Background:  background,
				ConfigPath:  c.configPath(),
			}
			if follow {
				w, err := watcher.New(watcher.DefaultConfig(path))
				if err != nil {
					return err
				}
				cfg.Events = w
				if err := w.Start(); err != nil {
					return err
				}
				defer func() {
					if err := w.Stop(); err != nil {
						log.ErrorErr(log.CatWatcher, "stopping watcher", err)
					}
				}()
			}

			if err := pager.Run(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("running pager: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "re-highlight the file when it changes")
	cmd.Flags().StringVar(&profile, "profile", formatter.ProfileAuto, "color profile: auto, truecolor, ansi256, ansi or none")
	cmd.Flags().BoolVar(&background, "background", false, "paint the theme background colors")
	return cmd
}
