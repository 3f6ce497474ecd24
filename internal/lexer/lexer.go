// Package lexer implements the lexing engine: the cursor shared by lexers,
// the step protocol a lexer implements and the delegation engine that lets
// one lexer hand regions of the input to another.
package lexer

import (
	"github.com/zjrosen/hilite/internal/option"
)

// Lexer is an instance of an implementation together with its option values.
type Lexer struct {
	impl Implementation
	opts *option.Set
}

// New creates an instance of impl with default option values.
func New(impl Implementation) *Lexer {
	return &Lexer{impl: impl, opts: option.NewSet(impl.Info().Options)}
}

// Implementation returns the implementation the instance was created from.
func (l *Lexer) Implementation() Implementation {
	return l.impl
}

// Name returns the implementation name.
func (l *Lexer) Name() string {
	return l.impl.Info().Name
}

// Options returns the instance's option values.
func (l *Lexer) Options() *option.Set {
	return l.opts
}

// Option returns the current value of the named option.
func (l *Lexer) Option(name string) (option.Value, error) {
	return l.opts.Get(name)
}

// SetOption assigns a typed value to the named option.
func (l *Lexer) SetOption(name string, v option.Value) error {
	return l.opts.Set(name, v)
}

// SetOptionString parses text into the named option; lexer and theme names
// are resolved through r.
func (l *Lexer) SetOptionString(name, text string, r option.Resolver) error {
	return l.opts.SetString(name, text, r)
}

// Bool returns a boolean option, false when unknown.
func (l *Lexer) Bool(name string) bool {
	v, err := l.opts.Get(name)
	return err == nil && v.Type() == option.TypeBool && v.Bool()
}

// Str returns a string or enumeration option, empty when unknown.
func (l *Lexer) Str(name string) string {
	v, err := l.opts.Get(name)
	if err != nil {
		return ""
	}
	return v.Str()
}

// Sublexer returns the lexer referenced by a lexer-typed option, nil when
// unset.
func (l *Lexer) Sublexer(name string) *Lexer {
	v, err := l.opts.Get(name)
	if err != nil || v.Type() != option.TypeLexer {
		return nil
	}
	sub, _ := v.Ref().(*Lexer)
	return sub
}

// Sublexers returns every lexer referenced by the instance's options,
// depth first.
func (l *Lexer) Sublexers() []*Lexer {
	var subs []*Lexer
	seen := map[*Lexer]bool{l: true}
	var walk func(*Lexer)
	walk = func(lx *Lexer) {
		lx.opts.Each(func(d option.Decl, v option.Value) {
			if d.Type != option.TypeLexer {
				return
			}
			sub, ok := v.Ref().(*Lexer)
			if !ok || sub == nil || seen[sub] {
				return
			}
			seen[sub] = true
			subs = append(subs, sub)
			walk(sub)
		})
	}
	walk(l)
	return subs
}

// Fingerprint identifies the instance configuration, including the options
// of its sublexers.
func (l *Lexer) Fingerprint() string {
	fp := l.Name() + "(" + l.opts.String() + ")"
	for _, sub := range l.Sublexers() {
		fp += "+" + sub.Name() + "(" + sub.opts.String() + ")"
	}
	return fp
}

func (l *Lexer) newData() *Data {
	d := NewData()
	if init, ok := l.impl.(Initializer); ok {
		init.Init(l, d)
	}
	return d
}

func (l *Lexer) finalize(d *Data) {
	if fin, ok := l.impl.(Finalizer); ok {
		fin.Finalize(d)
	}
}

// NewData returns fresh state for the instance, with the implementation's
// Init hook applied. Lexers that keep a child's state across delegations
// pass it in Target.Data.
func (l *Lexer) NewData() *Data {
	return l.newData()
}
