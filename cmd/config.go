package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/theme"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}
	cmd.AddCommand(newConfigPathCmd(c), newConfigShowCmd(c), newConfigInitCmd(), newConfigSetCmd(c))
	return cmd
}

func newConfigPathCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the path of the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), c.configPath())
			return err
		},
	}
}

func newConfigShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(c.v.AllSettings()); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the commented default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := localConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if fileExists(path) && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigSetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set one value in the config file, keeping its comments",
		Long: `Set one value in the config file in use, keeping comments and layout.
Nested keys are separated by dots.

Examples:
  hilite config set theme github
  hilite config set lexer_options.dialect postgresql
  hilite config set formatter_options.profile ansi256
  hilite config set cache.enabled true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			path := c.configPath()
			if err := setConfigValue(path, key, value); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %s\n", path, key, value)
			return err
		},
	}
}

func setConfigValue(path, key, value string) error {
	switch {
	case key == "theme":
		if _, err := theme.ByName(value); err != nil {
			return err
		}
		return config.SaveTheme(path, value)
	case strings.HasPrefix(key, "lexer_options."):
		return config.SaveLexerOption(path, strings.TrimPrefix(key, "lexer_options."), value)
	case strings.HasPrefix(key, "formatter_options."):
		return config.SaveFormatterOption(path, strings.TrimPrefix(key, "formatter_options."), value)
	}
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}
	return config.SetValue(path, parts, value)
}
