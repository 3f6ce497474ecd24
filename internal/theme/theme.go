// Package theme maps token classes to colors and font attributes.
package theme

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/token"
)

var (
	ErrNotFound       = errors.New("theme not found")
	ErrDuplicateTheme = errors.New("duplicate theme")
)

// Default is the theme formatters use when none is configured.
const Default = "molokai"

// Theme holds the styles of a color scheme. Classes without a style of
// their own take the one of their nearest styled ancestor.
type Theme struct {
	Name        string
	Description string

	styles  [token.Count]Style
	defined [token.Count]bool
}

// New creates a theme from per-class styles.
func New(name, description string, styles map[token.Class]Style) *Theme {
	t := &Theme{Name: name, Description: description}
	for c, s := range styles {
		t.Set(c, s)
	}
	return t
}

// Set defines the style of c.
func (t *Theme) Set(c token.Class, s Style) {
	if !c.Valid() {
		return
	}
	t.styles[c] = s
	t.defined[c] = true
}

// Own returns the style defined for c itself.
func (t *Theme) Own(c token.Class) (Style, bool) {
	if !c.Valid() {
		return Style{}, false
	}
	return t.styles[c], t.defined[c]
}

// Style returns the style of c, walking up the class hierarchy until a
// defined style is found. Classes with no styled ancestor are unstyled.
func (t *Theme) Style(c token.Class) Style {
	for c.Valid() {
		if t.defined[c] {
			return t.styles[c]
		}
		parent := c.Parent()
		if parent == c {
			break
		}
		c = parent
	}
	return Style{}
}

// Clone returns a copy of t under a new name.
func (t *Theme) Clone(name string) *Theme {
	c := *t
	c.Name = name
	return &c
}

var (
	mu     sync.RWMutex
	themes = hashtable.New[string, *Theme](8, hashtable.ASCIICaseInsensitive(), nil)
)

func init() {
	for _, t := range builtins() {
		if err := Register(t); err != nil {
			panic(err)
		}
	}
}

// Register makes t available to ByName and All.
func Register(t *Theme) error {
	mu.Lock()
	defer mu.Unlock()
	if existing, ok := themes.Get(t.Name); ok && existing != t {
		return fmt.Errorf("%w: %q", ErrDuplicateTheme, t.Name)
	}
	themes.Put(0, t.Name, t)
	return nil
}

// Replace registers t, replacing any theme of the same name. Theme files
// are reloaded this way.
func Replace(t *Theme) {
	mu.Lock()
	defer mu.Unlock()
	themes.Put(0, t.Name, t)
}

// ByName finds a theme, ignoring case.
func ByName(name string) (*Theme, error) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := themes.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t, nil
}

// All returns the registered themes sorted by name.
func All() []*Theme {
	mu.RLock()
	all := slices.Collect(themes.Values())
	mu.RUnlock()
	slices.SortFunc(all, func(a, b *Theme) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return all
}

// Names returns the names of All.
func Names() []string {
	var names []string
	for _, t := range All() {
		names = append(names, t.Name)
	}
	return names
}

// Resolve implements the theme half of option.Resolver.
func Resolve(name string) (any, bool) {
	t, err := ByName(name)
	if err != nil {
		return nil, false
	}
	return t, true
}
