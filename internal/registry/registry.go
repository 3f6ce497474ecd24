// Package registry maps lexer names, aliases, file names, MIME types and
// interpreters to lexer implementations.
package registry

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/log"
)

// Registry errors
var (
	ErrNotFound          = errors.New("lexer not found")
	ErrDuplicateLexer    = errors.New("duplicate lexer name or alias")
	ErrNilImplementation = errors.New("implementation cannot be nil")
)

// FallbackName is the lexer Detect returns when nothing else matches.
const FallbackName = "Text"

// Source indicates where a registration originated from.
type Source int

const (
	// SourceBuiltIn indicates a lexer implemented in this module.
	SourceBuiltIn Source = iota
	// SourceChroma indicates a lexer adapted from the chroma library.
	SourceChroma
)

// String returns a human-readable representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceBuiltIn:
		return "built-in"
	case SourceChroma:
		return "chroma"
	default:
		return "unknown"
	}
}

// Registration is one registered lexer implementation.
type Registration struct {
	impl   lexer.Implementation
	source Source
}

// Implementation returns the registered implementation.
func (r *Registration) Implementation() lexer.Implementation {
	return r.impl
}

// Name returns the implementation name.
func (r *Registration) Name() string {
	return r.impl.Info().Name
}

// Info returns the implementation metadata.
func (r *Registration) Info() *lexer.Info {
	return r.impl.Info()
}

// Source returns where the registration came from.
func (r *Registration) Source() Source {
	return r.source
}

// New creates an instance of the registered lexer.
func (r *Registration) New() *lexer.Lexer {
	return lexer.New(r.impl)
}

// Registry holds all registrations. It is not safe for concurrent
// registration; lookups are safe once registration is complete.
type Registry struct {
	registrations []*Registration
	byName        *hashtable.Table[string, *Registration]
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		registrations: make([]*Registration, 0),
		byName:        hashtable.New[string, *Registration](64, hashtable.ASCIICaseInsensitive(), nil),
	}
}

// Add registers impl under its name and aliases, after the implementations
// it lists as implicit dependencies. Dependencies already registered are
// skipped; a name or alias clash with another implementation is an error.
func (r *Registry) Add(impl lexer.Implementation, source Source) error {
	if impl == nil {
		return ErrNilImplementation
	}
	if r.registered(impl) {
		return nil
	}
	info := impl.Info()
	keys := append([]string{info.Name}, info.Aliases...)
	// A clash found before the dependencies leaves the registry untouched.
	// A dependency may itself take one of the keys, hence the second check.
	if err := r.checkKeys(impl, keys); err != nil {
		return err
	}
	for _, dep := range info.Implicit {
		if err := r.Add(dep, source); err != nil {
			return fmt.Errorf("implicit dependency of %s: %w", info.Name, err)
		}
	}
	if err := r.checkKeys(impl, keys); err != nil {
		return err
	}

	reg := &Registration{impl: impl, source: source}
	for _, key := range keys {
		r.byName.Put(hashtable.OnDupKeyPreserve, key, reg)
	}
	r.registrations = append(r.registrations, reg)
	log.Debug(log.CatRegistry, "registered lexer", "name", info.Name, "source", source, "aliases", len(info.Aliases))
	return nil
}

func (r *Registry) checkKeys(impl lexer.Implementation, keys []string) error {
	for _, key := range keys {
		if existing, ok := r.byName.Get(key); ok && existing.impl != impl {
			return fmt.Errorf("%w: %q already registered by %s", ErrDuplicateLexer, key, existing.Name())
		}
	}
	return nil
}

// MustAdd is Add for static registration tables; it panics on error.
func (r *Registry) MustAdd(impl lexer.Implementation, source Source) {
	if err := r.Add(impl, source); err != nil {
		panic(err)
	}
}

func (r *Registry) registered(impl lexer.Implementation) bool {
	existing, ok := r.byName.Get(impl.Info().Name)
	return ok && existing.impl == impl
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	return len(r.registrations)
}

// List returns all registrations in registration order.
func (r *Registry) List() []*Registration {
	return r.registrations
}

// Sorted returns all registrations ordered by name.
func (r *Registry) Sorted() []*Registration {
	out := make([]*Registration, len(r.registrations))
	copy(out, r.registrations)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name()) < strings.ToLower(out[j].Name())
	})
	return out
}

// Lookup finds a registration by name or alias, ignoring ASCII case.
func (r *Registry) Lookup(name string) (*Registration, error) {
	reg, ok := r.byName.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return reg, nil
}

// ByName implements lexer.Resolver.
func (r *Registry) ByName(name string) (lexer.Implementation, bool) {
	reg, ok := r.byName.Get(name)
	if !ok {
		return nil, false
	}
	return reg.impl, true
}

// ResolveLexer implements the lexer half of option.Resolver: it returns a
// fresh *lexer.Lexer for the named implementation.
func (r *Registry) ResolveLexer(name string) (any, bool) {
	reg, ok := r.byName.Get(name)
	if !ok {
		return nil, false
	}
	return reg.New(), true
}

// ForFilename finds the lexer whose file name patterns match the base name
// of filename. Among several candidates the earliest registered wins.
func (r *Registry) ForFilename(filename string) (*Registration, error) {
	base := filepath.Base(filename)
	for _, reg := range r.registrations {
		if matchAny(reg.Info().Filenames, base) {
			return reg, nil
		}
	}
	return nil, fmt.Errorf("%w: no lexer for file %q", ErrNotFound, filename)
}

// ForMimeType finds the lexer declaring mime, ignoring case and parameters.
func (r *Registry) ForMimeType(mime string) (*Registration, error) {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(mime)
	for _, reg := range r.registrations {
		for _, m := range reg.Info().MimeTypes {
			if hashtable.EqualFold(m, mime) {
				return reg, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no lexer for MIME type %q", ErrNotFound, mime)
}

// ForInterpreter finds the lexer for the interpreter named by the shebang
// line of src, e.g. "#!/usr/bin/env python3".
func (r *Registry) ForInterpreter(src []byte) (*Registration, error) {
	interp := Interpreter(src)
	if interp == "" {
		return nil, fmt.Errorf("%w: no shebang line", ErrNotFound)
	}
	for _, reg := range r.registrations {
		if matchAny(reg.Info().Interpreters, interp) {
			return reg, nil
		}
	}
	return nil, fmt.Errorf("%w: no lexer for interpreter %q", ErrNotFound, interp)
}

// Interpreter returns the base name of the program named by the shebang
// line of src, looking through /usr/bin/env. It returns "" when src has no
// shebang.
func Interpreter(src []byte) string {
	if !bytes.HasPrefix(src, []byte("#!")) {
		return ""
	}
	line := src[2:]
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return ""
	}
	prog := filepath.Base(fields[0])
	if prog == "env" {
		for _, f := range fields[1:] {
			if !strings.HasPrefix(f, "-") && !strings.Contains(f, "=") {
				return filepath.Base(f)
			}
		}
		return ""
	}
	return prog
}

// Guess implements lexer.Resolver: it returns the implementation whose
// Analyse rates src highest. Scores of zero do not count.
func (r *Registry) Guess(src []byte) (lexer.Implementation, bool) {
	var best *Registration
	bestScore := 0
	for _, reg := range r.registrations {
		a, ok := reg.impl.(lexer.Analyser)
		if !ok {
			continue
		}
		if score := a.Analyse(src); score > bestScore {
			best, bestScore = reg, score
		}
	}
	if best == nil {
		return nil, false
	}
	log.Debug(log.CatRegistry, "guessed lexer", "name", best.Name(), "score", bestScore)
	return best.impl, true
}

// Detect picks a lexer for a document: an explicit name first, then the
// file name, the shebang line and content analysis, and finally the plain
// text lexer. Only an unknown explicit name is an error.
func (r *Registry) Detect(name, filename string, src []byte) (*Registration, error) {
	if name != "" {
		return r.Lookup(name)
	}
	if filename != "" {
		if reg, err := r.ForFilename(filename); err == nil {
			return reg, nil
		}
	}
	if reg, err := r.ForInterpreter(src); err == nil {
		return reg, nil
	}
	if impl, ok := r.Guess(src); ok {
		reg, _ := r.byName.Get(impl.Info().Name)
		return reg, nil
	}
	return r.Lookup(FallbackName)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
