// Package formatter turns classified tokens into output: plain listings,
// ANSI colored text or HTML.
package formatter

import (
	"errors"
	"fmt"
	"io"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/token"
)

var ErrNotFound = errors.New("formatter not found")

// Info describes a formatter implementation.
type Info struct {
	Name    string
	Doc     string
	Aliases []string
	Options []option.Decl
}

// Implementation is a kind of output. Renderer is called once per document.
type Implementation interface {
	Info() *Info
	Renderer(f *Formatter, w io.Writer) Renderer
}

// Renderer receives the tokens of one document in order. For each token
// StartToken, WriteToken and EndToken are called in turn.
type Renderer interface {
	StartDocument() error
	StartToken(c token.Class) error
	WriteToken(text []byte) error
	EndToken(c token.Class) error
	EndDocument() error
}

// Formatter is a configured instance of an implementation.
type Formatter struct {
	impl Implementation
	opts *option.Set
}

// New creates an instance of impl with default options.
func New(impl Implementation) *Formatter {
	return &Formatter{impl: impl, opts: option.NewSet(impl.Info().Options)}
}

// Implementation returns the implementation behind f.
func (f *Formatter) Implementation() Implementation {
	return f.impl
}

// Name returns the implementation name.
func (f *Formatter) Name() string {
	return f.impl.Info().Name
}

// Options returns the option values of the instance.
func (f *Formatter) Options() *option.Set {
	return f.opts
}

// SetOption assigns a typed option value.
func (f *Formatter) SetOption(name string, v option.Value) error {
	if err := f.opts.Set(name, v); err != nil {
		return fmt.Errorf("formatter %s: %w", f.Name(), err)
	}
	return nil
}

// SetOptionString parses and assigns an option value; theme names are
// resolved through r.
func (f *Formatter) SetOptionString(name, text string, r option.Resolver) error {
	if err := f.opts.SetString(name, text, r); err != nil {
		return fmt.Errorf("formatter %s: %w", f.Name(), err)
	}
	return nil
}

// Bool returns a boolean option, false when undeclared.
func (f *Formatter) Bool(name string) bool {
	v, err := f.opts.Get(name)
	return err == nil && v.Bool()
}

// Str returns a string or enum option, "" when undeclared.
func (f *Formatter) Str(name string) string {
	v, err := f.opts.Get(name)
	if err != nil {
		return ""
	}
	return v.Str()
}

// Theme returns the theme selected by the "theme" option, looking names up
// in the theme registry and defaulting to theme.Default.
func (f *Formatter) Theme() *theme.Theme {
	if v, err := f.opts.Get("theme"); err == nil {
		if t, ok := v.Ref().(*theme.Theme); ok && t != nil {
			return t
		}
		if v.Str() != "" {
			if t, err := theme.ByName(v.Str()); err == nil {
				return t
			}
		}
	}
	t, err := theme.ByName(theme.Default)
	if err != nil {
		panic(err)
	}
	return t
}

// Renderer starts a document written to w.
func (f *Formatter) Renderer(w io.Writer) Renderer {
	return f.impl.Renderer(f, w)
}

// Fingerprint identifies the instance configuration.
func (f *Formatter) Fingerprint() string {
	return f.Name() + "(" + f.opts.String() + ")"
}

// Builtin formatter implementations.
var (
	Plain    Implementation = &plainFormatter{}
	Terminal Implementation = &terminalFormatter{}
	HTML     Implementation = &htmlFormatter{}
)

var byName = func() *hashtable.Table[string, Implementation] {
	t := hashtable.New[string, Implementation](8, hashtable.ASCIICaseInsensitive(), nil)
	for _, impl := range All() {
		t.Put(hashtable.OnDupKeyPreserve, impl.Info().Name, impl)
		for _, alias := range impl.Info().Aliases {
			t.Put(hashtable.OnDupKeyPreserve, alias, impl)
		}
	}
	return t
}()

// All returns the builtin implementations sorted by name.
func All() []Implementation {
	return []Implementation{HTML, Plain, Terminal}
}

// ByName finds an implementation by name or alias, ignoring case.
func ByName(name string) (Implementation, error) {
	impl, ok := byName.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return impl, nil
}

// themeOption is the declaration shared by formatters that use colors.
func themeOption() option.Decl {
	return option.Decl{
		Name:    "theme",
		Type:    option.TypeTheme,
		Default: option.Theme(theme.Default, nil),
		Doc:     "the theme to use",
	}
}
