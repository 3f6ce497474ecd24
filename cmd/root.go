package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hilite/internal/cachemanager"
	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/flags"
	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/highlight"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/lexers"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var version = "dev"

// localConfigPath is looked up before the user config directory.
const localConfigPath = ".hilite/config.yaml"

// annotationTeaLog marks commands that own the terminal; their debug log
// goes through tea.LogToFile.
const annotationTeaLog = "hilite/tea-log"

// cli carries the state of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config

	lexerOpts     []string
	formatterOpts []string
	filename      string

	registry    *registry.Registry
	highlighter *highlight.Highlighter
	provider    *tracing.Provider
	cleanups    []func()
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{v: viper.New()}
	root := &cobra.Command{
		Use:   "hilite [file]",
		Short: "Syntax highlighting for terminals and web pages",
		Long: `hilite splits source text into classified tokens and renders them as
ANSI colored text, HTML or a plain token listing.

The lexer is picked by -l, else by file name, shebang line and content.
Lexers may hand regions to other lexers, such as CSS inside an HTML
<style> element.

Examples:
  hilite main.sql
  cat page.html | hilite -l html -f html -P inline
  hilite -f terminal -t github -P profile=ansi256 query.sql
  hilite -O dialect=postgresql schema.sql`,
		Version:            version,
		Args:               cobra.MaximumNArgs(1),
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		RunE:               c.runHighlight,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.cfgFile, "config", "c", "",
		"config file (default: ./.hilite/config.yaml, then ~/.config/hilite/config.yaml)")
	pf.StringP("theme", "t", "", "color theme of the terminal and HTML formatters")
	pf.Bool("debug", false, "write debug logs to the configured log file")

	f := root.Flags()
	f.StringP("lexer", "l", "", "lexer name or alias; detected when empty")
	f.StringP("formatter", "f", "", "output format: terminal, html or plain")
	f.StringArrayVarP(&c.lexerOpts, "lexer-option", "O", nil, "lexer option name=value (repeatable, comma separated)")
	f.StringArrayVarP(&c.formatterOpts, "formatter-option", "P", nil, "formatter option name=value (repeatable, comma separated)")
	f.StringVar(&c.filename, "filename", "", "file name used for lexer detection when reading standard input")

	_ = c.v.BindPFlag("theme", pf.Lookup("theme"))
	_ = c.v.BindPFlag("debug", pf.Lookup("debug"))
	_ = c.v.BindPFlag("lexer", f.Lookup("lexer"))
	_ = c.v.BindPFlag("formatter", f.Lookup("formatter"))

	root.AddCommand(newListCmd(c), newCSSCmd(c), newViewCmd(c), newConfigCmd(c))
	return root, c
}

// loadConfig reads the config file and decodes it over the defaults. When
// no file exists anywhere, the commented default is written to the user
// config directory.
func (c *cli) loadConfig() error {
	config.SetDefaults(c.v)
	c.v.SetEnvPrefix("HILITE")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	userDir := config.Dir()
	switch {
	case c.cfgFile != "":
		c.v.SetConfigFile(c.cfgFile)
	case fileExists(localConfigPath):
		c.v.SetConfigFile(localConfigPath)
	case userDir != "":
		c.v.AddConfigPath(userDir)
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		if userDir != "" {
			defaultPath := filepath.Join(userDir, "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				c.v.SetConfigFile(defaultPath)
				_ = c.v.ReadInConfig()
			}
		}
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// configPath is where settings changed at runtime are saved.
func (c *cli) configPath() string {
	if used := c.v.ConfigFileUsed(); used != "" {
		return used
	}
	if c.cfgFile != "" {
		return c.cfgFile
	}
	if dir := config.Dir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return localConfigPath
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setup loads the configuration and builds the lexer registry and the
// highlighter shared by all commands.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}

	if c.cfg.Debug {
		var (
			cleanup func()
			err     error
		)
		if cmd.Annotations[annotationTeaLog] == "true" {
			cleanup, err = log.InitWithTeaLog(c.cfg.LogFile, "hilite")
		} else {
			cleanup, err = log.Init(c.cfg.LogFile)
		}
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		c.cleanups = append(c.cleanups, cleanup)
		log.Info(log.CatConfig, "starting", "command", cmd.Name(), "version", version, "flags", c.cfg.FlagRegistry().String())
	}

	loaded, err := c.cfg.LoadThemes()
	if err != nil {
		return err
	}
	for _, t := range loaded {
		log.Debug(log.CatConfig, "theme loaded", "name", t.Name)
	}

	provider, err := tracing.NewProvider(c.cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	c.provider = provider
	c.cleanups = append(c.cleanups, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	})

	reg, err := c.buildRegistry()
	if err != nil {
		return err
	}
	c.registry = reg
	c.highlighter = highlight.New(reg, c.highlightOptions()...)
	return nil
}

func (c *cli) buildRegistry() (*registry.Registry, error) {
	reg := registry.New()
	if err := lexers.Register(reg); err != nil {
		return nil, fmt.Errorf("registering lexers: %w", err)
	}
	if c.cfg.FlagRegistry().Enabled(flags.FlagChromaLexers) {
		n, err := lexers.RegisterChroma(reg)
		if err != nil {
			return nil, fmt.Errorf("registering chroma lexers: %w", err)
		}
		log.Debug(log.CatRegistry, "chroma lexers registered", "count", n)
	}
	return reg, nil
}

func (c *cli) highlightOptions() []highlight.Option {
	var opts []highlight.Option
	if c.provider.Enabled() {
		opts = append(opts, highlight.WithTracer(c.provider.Tracer()))
	}
	if c.cfg.MaxDepth > 0 {
		opts = append(opts, highlight.WithEngineOptions(lexer.WithMaxDepth(c.cfg.MaxDepth)))
	}
	if c.cacheEnabled() {
		cache := cachemanager.NewInMemoryCacheManager[highlight.CacheKey, []byte]("highlight", c.cfg.Cache.TTL, 2*c.cfg.Cache.TTL)
		opts = append(opts, highlight.WithCache(cache, c.cfg.Cache.TTL))
	}
	return opts
}

func (c *cli) cacheEnabled() bool {
	return c.cfg.Cache.Enabled || c.cfg.FlagRegistry().Enabled(flags.FlagHighlightCache)
}

func (c *cli) close() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

// readInput returns the document and the file name used for detection.
func (c *cli) readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 1 && args[0] != "-" {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return nil, "", err
		}
		name := args[0]
		if c.filename != "" {
			name = c.filename
		}
		return src, name, nil
	}
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, "", fmt.Errorf("reading standard input: %w", err)
	}
	return src, c.filename, nil
}

// newLexer detects the lexer for the document and applies the configured
// and explicit lexer options.
func (c *cli) newLexer(filename string, src []byte) (*lexer.Lexer, error) {
	reg, err := c.registry.Detect(c.cfg.Lexer, filename, src)
	if err != nil {
		return nil, err
	}
	lx := reg.New()
	configured, err := configSettings(c.cfg.LexerOptions)
	if err != nil {
		return nil, err
	}
	explicit, err := parseSettings(c.lexerOpts)
	if err != nil {
		return nil, err
	}
	resolver := c.highlighter.Resolver()
	set := func(name, value string) error { return lx.SetOptionString(name, value, resolver) }
	if err := applySettings(lx.Name(), set, configured, explicit); err != nil {
		return nil, err
	}
	log.Debug(log.CatRegistry, "lexer selected", "name", lx.Name(), "file", filename, "source", reg.Source().String())
	return lx, nil
}

// newFormatter creates the configured formatter. The theme option comes
// from the theme setting unless given with -P.
func (c *cli) newFormatter(name string) (*formatter.Formatter, error) {
	impl, err := formatter.ByName(name)
	if err != nil {
		return nil, err
	}
	f := formatter.New(impl)
	resolver := c.highlighter.Resolver()
	set := func(name, value string) error { return f.SetOptionString(name, value, resolver) }

	configured, err := configSettings(c.cfg.FormatterOptions)
	if err != nil {
		return nil, err
	}
	if c.cfg.Theme != "" {
		configured = append([]setting{{name: "theme", value: c.cfg.Theme}}, configured...)
	}
	explicit, err := parseSettings(c.formatterOpts)
	if err != nil {
		return nil, err
	}
	if err := applySettings(f.Name(), set, configured, explicit); err != nil {
		return nil, err
	}
	return f, nil
}

func (c *cli) runHighlight(cmd *cobra.Command, args []string) error {
	src, filename, err := c.readInput(cmd, args)
	if err != nil {
		return err
	}
	lx, err := c.newLexer(filename, src)
	if err != nil {
		return err
	}
	f, err := c.newFormatter(c.cfg.Formatter)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if !c.cacheEnabled() {
		_, err := c.highlighter.Stream(ctx, out, lx, f, src)
		return err
	}
	res, err := c.highlighter.Highlight(ctx, lx, f, src)
	if err != nil {
		return err
	}
	_, err = out.Write(res.Output)
	return err
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, c := newRootCmd()
	defer c.close()
	return root.ExecuteContext(ctx)
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
