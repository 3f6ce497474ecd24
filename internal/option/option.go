// Package option implements typed, named configuration values attached to
// lexer and formatter instances.
package option

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/zjrosen/hilite/internal/hashtable"
)

// Type is the declared type of an option.
type Type int

const (
	TypeBool Type = iota
	TypeInt
	TypeString
	TypeEnum
	TypeTheme
	TypeLexer
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeTheme:
		return "theme"
	case TypeLexer:
		return "lexer"
	default:
		return "unknown"
	}
}

// Errors reported by Set and SetString. Configuration happens before a scan
// starts, so none of these ever interrupts lexing.
var (
	ErrUnknownOption    = errors.New("unknown option")
	ErrTypeMismatch     = errors.New("option type mismatch")
	ErrInvalidValue     = errors.New("invalid option value")
	ErrUnknownReference = errors.New("unknown reference")
)

// Value is a typed option value.
type Value struct {
	typ Type
	b   bool
	i   int
	s   string
	ref any
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Int returns an integer value.
func Int(i int) Value { return Value{typ: TypeInt, i: i} }

// String returns a string value.
func String(s string) Value { return Value{typ: TypeString, s: s} }

// Enum returns an enumeration value; it is checked against the declared
// choices when set.
func Enum(s string) Value { return Value{typ: TypeEnum, s: s} }

// Theme returns a reference to a theme known under name.
func Theme(name string, ref any) Value { return Value{typ: TypeTheme, s: name, ref: ref} }

// Lexer returns a reference to a lexer instance known under name.
func Lexer(name string, ref any) Value { return Value{typ: TypeLexer, s: name, ref: ref} }

// Type returns the value's type.
func (v Value) Type() Type { return v.typ }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload.
func (v Value) Int() int { return v.i }

// Str returns the string, enumeration or reference name payload.
func (v Value) Str() string { return v.s }

// Ref returns the referenced theme or lexer, nil when unset.
func (v Value) Ref() any { return v.ref }

// String renders the value the way SetString would accept it.
func (v Value) String() string {
	switch v.typ {
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeInt:
		return strconv.Itoa(v.i)
	default:
		return v.s
	}
}

// Decl declares one option of an implementation.
type Decl struct {
	Name    string
	Type    Type
	Default Value
	Choices []string // TypeEnum only
	Doc     string
}

// Resolver turns theme and lexer names into references for SetString.
type Resolver interface {
	ResolveTheme(name string) (any, bool)
	ResolveLexer(name string) (any, bool)
}

// Set holds the current values of a declaration table, one slot per
// declared option.
type Set struct {
	decls  []Decl
	values []Value
}

// NewSet creates a Set initialized with the declared defaults.
func NewSet(decls []Decl) *Set {
	s := &Set{decls: decls, values: make([]Value, len(decls))}
	s.Reset()
	return s
}

// Reset restores every option to its default.
func (s *Set) Reset() {
	for i, d := range s.decls {
		v := d.Default
		if v.typ != d.Type {
			v = Value{typ: d.Type}
		}
		s.values[i] = v
	}
}

// Decls returns the declaration table.
func (s *Set) Decls() []Decl {
	return s.decls
}

func (s *Set) index(name string) int {
	for i := range s.decls {
		if s.decls[i].Name == name {
			return i
		}
	}
	return -1
}

// Get returns the current value of the named option.
func (s *Set) Get(name string) (Value, error) {
	i := s.index(name)
	if i < 0 {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return s.values[i], nil
}

// Set assigns v to the named option. The type of v must match the
// declaration exactly.
func (s *Set) Set(name string, v Value) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	d := s.decls[i]
	if v.typ != d.Type {
		return fmt.Errorf("%w: %q is %s, got %s", ErrTypeMismatch, name, d.Type, v.typ)
	}
	if d.Type == TypeEnum {
		choice, ok := matchChoice(d.Choices, v.s)
		if !ok {
			return fmt.Errorf("%w: %q must be one of %s", ErrInvalidValue, name, strings.Join(d.Choices, ", "))
		}
		v.s = choice
	}
	s.values[i] = v
	return nil
}

// SetString parses text according to the declared type of the option and
// assigns it. Theme and lexer names are resolved through r.
func (s *Set) SetString(name, text string, r Resolver) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	v, err := parse(s.decls[i], text, r)
	if err != nil {
		return fmt.Errorf("option %q: %w", name, err)
	}
	return s.Set(name, v)
}

func parse(d Decl, text string, r Resolver) (Value, error) {
	text = strings.TrimSpace(text)
	switch d.Type {
	case TypeBool:
		switch strings.ToLower(text) {
		case "yes", "on":
			return Bool(true), nil
		case "no", "off":
			return Bool(false), nil
		}
		b, err := cast.ToBoolE(text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, text)
		}
		return Bool(b), nil
	case TypeInt:
		n, err := cast.ToIntE(text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, text)
		}
		return Int(n), nil
	case TypeString:
		return String(text), nil
	case TypeEnum:
		return Enum(text), nil
	case TypeTheme:
		if r == nil {
			return Value{}, fmt.Errorf("%w: theme %q", ErrUnknownReference, text)
		}
		ref, ok := r.ResolveTheme(text)
		if !ok {
			return Value{}, fmt.Errorf("%w: theme %q", ErrUnknownReference, text)
		}
		return Theme(text, ref), nil
	case TypeLexer:
		if r == nil {
			return Value{}, fmt.Errorf("%w: lexer %q", ErrUnknownReference, text)
		}
		ref, ok := r.ResolveLexer(text)
		if !ok {
			return Value{}, fmt.Errorf("%w: lexer %q", ErrUnknownReference, text)
		}
		return Lexer(text, ref), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported type %s", ErrInvalidValue, d.Type)
}

func matchChoice(choices []string, s string) (string, bool) {
	for _, c := range choices {
		if hashtable.EqualFold(c, s) {
			return c, true
		}
	}
	return "", false
}

// Each calls fn for every declared option with its current value.
func (s *Set) Each(fn func(Decl, Value)) {
	for i, d := range s.decls {
		fn(d, s.values[i])
	}
}

// String returns a stable "name=value" listing of the current values,
// suitable as a cache key component.
func (s *Set) String() string {
	var b strings.Builder
	for i, d := range s.decls {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(d.Name)
		b.WriteByte('=')
		b.WriteString(s.values[i].String())
	}
	return b.String()
}
