package lexer

import "github.com/zjrosen/hilite/internal/option"

// Info is the static description of a lexer implementation.
type Info struct {
	// Name starts with an upper case letter, e.g. "HTML".
	Name string
	Doc  string
	// Aliases are additional names, matched case-insensitively.
	Aliases []string
	// Filenames are glob patterns matched against a file's base name.
	Filenames []string
	MimeTypes []string
	// Interpreters are glob patterns matched against the base name of a
	// shebang interpreter.
	Interpreters []string
	Options      []option.Decl
	// Implicit lists implementations this one delegates to and that must be
	// registered alongside it.
	Implicit []Implementation
}

// Implementation is a lexer grammar. Implementations are stateless and
// shared; per-scan state lives in Data.
type Implementation interface {
	Info() *Info
	// Step recognizes one lexical unit starting at in.Cursor, reports that
	// the region is exhausted, or hands the next region to another lexer.
	// A step that recognizes nothing must still advance, see
	// Input.Unclassified.
	Step(in *Input, d *Data, lx *Lexer) Result
}

// Initializer is implemented by lexers needing setup when an instance is
// pushed on the delegation stack.
type Initializer interface {
	Init(lx *Lexer, d *Data)
}

// Finalizer is implemented by lexers needing cleanup when an instance is
// popped.
type Finalizer interface {
	Finalize(d *Data)
}

// Analyser is implemented by lexers able to rate how likely a text is
// written in their language. Higher is more confident; 0 means no opinion.
type Analyser interface {
	Analyse(src []byte) int
}
