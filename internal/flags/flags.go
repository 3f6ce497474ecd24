// Package flags holds the feature flags read from the "flags" section of the
// configuration. A Registry is read-only once built.
package flags

import (
	"maps"
	"slices"
	"strings"

	"github.com/zjrosen/hilite/internal/log"
)

const (
	// FlagChromaLexers registers every chroma lexer next to the builtin ones.
	FlagChromaLexers = "chroma-lexers"

	// FlagHighlightCache memoizes rendered output keyed by lexer, formatter
	// and source hash.
	FlagHighlightCache = "highlight-cache"
)

// Flag describes a known flag.
type Flag struct {
	Name    string
	Default bool
	Doc     string
}

var known = []Flag{
	{Name: FlagChromaLexers, Default: true, Doc: "register chroma lexers for languages without a builtin lexer"},
	{Name: FlagHighlightCache, Default: false, Doc: "cache rendered output in memory"},
}

// Known returns the flags hilite understands.
func Known() []Flag {
	return slices.Clone(known)
}

// Registry holds flag values. Names are case-insensitive.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from configured values layered over the defaults
// of the known flags.
func New(values map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(known)+len(values))}
	for _, f := range known {
		r.flags[f.Name] = f.Default
	}
	for name, v := range values {
		r.flags[strings.ToLower(name)] = v
	}
	log.Debug(log.CatConfig, "feature flags initialized", "flags", r.String())
	return r
}

// Enabled reports whether name is on. Unknown flags and a nil registry are
// off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	v, ok := r.flags[strings.ToLower(name)]
	if !ok {
		log.Debug(log.CatConfig, "unknown flag", "flag", name)
	}
	return v
}

// All returns a copy of every flag value.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// String lists the flags as "name=value" sorted by name.
func (r *Registry) String() string {
	all := r.All()
	parts := make([]string, 0, len(all))
	for _, name := range slices.Sorted(maps.Keys(all)) {
		v := "false"
		if all[name] {
			v = "true"
		}
		parts = append(parts, name+"="+v)
	}
	return strings.Join(parts, ",")
}
