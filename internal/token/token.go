// Package token defines the closed set of lexical classifications shared by
// every lexer, formatter and theme.
package token

import (
	"strings"

	"github.com/zjrosen/hilite/internal/hashtable"
)

// Class is the category attached to a token for downstream formatting.
type Class int

const (
	EOS Class = iota
	Ignorable
	Text
	Error
	Operator
	Punctuation
	TagPreproc
	Name
	NameBuiltin
	NameBuiltinPseudo
	NameTag
	NameEntity
	NameAttribute
	NameFunction
	NameClass
	NameConstant
	NameNamespace
	NameVariable
	NameVariableClass
	NameVariableGlobal
	NameVariableInstance
	Keyword
	KeywordDefault
	KeywordBuiltin
	KeywordConstant
	KeywordDeclaration
	KeywordNamespace
	KeywordPseudo
	KeywordReserved
	KeywordType
	Number
	NumberFloat
	NumberDecimal
	NumberImaginary
	NumberBinary
	NumberOctal
	NumberHexadecimal
	Comment
	CommentSingle
	CommentMultiline
	CommentDocumentation
	String
	StringSingle
	StringDouble
	StringBacktick
	StringRegex
	StringInterned
	SequenceEscaped
	SequenceInterpolated
	Literal
	LiteralSize
	LiteralDuration
	Generic
	GenericStrong
	GenericHeading
	GenericSubheading
	GenericDeleted
	GenericInserted

	// Count is the number of classes.
	Count
)

type classInfo struct {
	name        string
	cssClass    string
	parent      Class
	description string
}

// parent == the class itself marks a root category.
var classes = [Count]classInfo{
	EOS:                  {"EOS", "", EOS, "end of stream"},
	Ignorable:            {"IGNORABLE", "", Ignorable, "ignorable like spaces"},
	Text:                 {"TEXT", "", Text, "regular text"},
	Error:                {"ERROR", "err", Error, "an invalid part"},
	Operator:             {"OPERATOR", "o", Operator, "operator"},
	Punctuation:          {"PUNCTUATION", "p", Punctuation, "syntax element like ';' in C"},
	TagPreproc:           {"TAG_PREPROC", "cp", TagPreproc, "tag PI"},
	Name:                 {"NAME", "n", Name, "uncategorized name type"},
	NameBuiltin:          {"NAME_BUILTIN", "nb", Name, "builtin names; names that are available in the global namespace"},
	NameBuiltinPseudo:    {"NAME_BUILTIN_PSEUDO", "bp", NameBuiltin, "builtin names that are implicit (`self` in Ruby, `this` in Java)"},
	NameTag:              {"NAME_TAG", "nt", Name, "tag name"},
	NameEntity:           {"NAME_ENTITY", "ni", Name, "HTML/XML name entity"},
	NameAttribute:        {"NAME_ATTRIBUTE", "na", Name, "tag attribute's name"},
	NameFunction:         {"NAME_FUNCTION", "nf", Name, "a function name"},
	NameClass:            {"NAME_CLASS", "nc", Name, "a class name"},
	NameConstant:         {"NAME_CONSTANT", "no", Name, "a constant name"},
	NameNamespace:        {"NAME_NAMESPACE", "nn", Name, "a namespace name"},
	NameVariable:         {"NAME_VARIABLE", "nv", Name, "variable name"},
	NameVariableClass:    {"NAME_VARIABLE_CLASS", "vc", NameVariable, "name of a class variable"},
	NameVariableGlobal:   {"NAME_VARIABLE_GLOBAL", "vg", NameVariable, "name of a global variable"},
	NameVariableInstance: {"NAME_VARIABLE_INSTANCE", "vi", NameVariable, "name of a variable instance"},
	Keyword:              {"KEYWORD", "k", Keyword, "uncategorized keyword type"},
	KeywordDefault:       {"KEYWORD_DEFAULT", "kdf", Keyword, "default keyword"},
	KeywordBuiltin:       {"KEYWORD_BUILTIN", "kb", Keyword, "builtin keyword"},
	KeywordConstant:      {"KEYWORD_CONSTANT", "kc", Keyword, "a keyword that is constant"},
	KeywordDeclaration:   {"KEYWORD_DECLARATION", "kd", Keyword, "a keyword used for variable declaration (`var` or `let` in Javascript)"},
	KeywordNamespace:     {"KEYWORD_NAMESPACE", "kn", Keyword, "a keyword used for namespace declaration (`namespace` in PHP, `package` in Java"},
	KeywordPseudo:        {"KEYWORD_PSEUDO", "kp", Keyword, "a keyword that isn't really a keyword"},
	KeywordReserved:      {"KEYWORD_RESERVED", "kr", Keyword, "a reserved keyword"},
	KeywordType:          {"KEYWORD_TYPE", "kt", Keyword, "a builtin type (`char`, `int`, ... in C)"},
	Number:               {"NUMBER", "m", Number, "uncategorized number type"},
	NumberFloat:          {"NUMBER_FLOAT", "mf", Number, "float number"},
	NumberDecimal:        {"NUMBER_DECIMAL", "mi", Number, "decimal number"},
	NumberImaginary:      {"NUMBER_IMAGINARY", "mj", Number, "imaginary number"},
	NumberBinary:         {"NUMBER_BINARY", "mb", Number, "binary number"},
	NumberOctal:          {"NUMBER_OCTAL", "mo", Number, "octal number"},
	NumberHexadecimal:    {"NUMBER_HEXADECIMAL", "mh", Number, "hexadecimal number"},
	Comment:              {"COMMENT", "c", Comment, "uncategorized comment type"},
	CommentSingle:        {"COMMENT_SINGLE", "c1", Comment, "comment which ends at the end of the line"},
	CommentMultiline:     {"COMMENT_MULTILINE", "cm", Comment, "multiline comment"},
	CommentDocumentation: {"COMMENT_DOCUMENTATION", "cd", Comment, "comment with documentation value"},
	String:               {"STRING", "s", String, "uncategorized string type"},
	StringSingle:         {"STRING_SINGLE", "s1", String, "single quoted string"},
	StringDouble:         {"STRING_DOUBLE", "s2", String, "double quoted string"},
	StringBacktick:       {"STRING_BACKTICK", "sb", String, "string enclosed in backticks"},
	StringRegex:          {"STRING_REGEX", "sr", String, "regular expression"},
	StringInterned:       {"STRING_INTERNED", "ss", String, "interned string"},
	SequenceEscaped:      {"SEQUENCE_ESCAPED", "se", String, "escaped sequence in string like \\n, \\x32, \\u1234, etc"},
	SequenceInterpolated: {"SEQUENCE_INTERPOLATED", "si", String, "sequence in string for interpolated variables"},
	Literal:              {"LITERAL", "l", Literal, "uncategorized literal type"},
	LiteralSize:          {"LITERAL_SIZE", "ls", Literal, "size literals (eg: 3ko)"},
	LiteralDuration:      {"LITERAL_DURATION", "ld", Literal, "duration literals (eg: 23s)"},
	Generic:              {"GENERIC", "g", Generic, "generic text"},
	GenericStrong:        {"GENERIC_STRONG", "gs", Generic, "the token value as bold"},
	GenericHeading:       {"GENERIC_HEADING", "gh", Generic, "the token value is a headline"},
	GenericSubheading:    {"GENERIC_SUBHEADING", "gu", Generic, "the token value is a subheadline"},
	GenericDeleted:       {"GENERIC_DELETED", "gd", Generic, "marks the token value as deleted"},
	GenericInserted:      {"GENERIC_INSERTED", "gi", Generic, "marks the token value as inserted"},
}

var byName = func() *hashtable.Table[string, Class] {
	t := hashtable.New[string, Class](int(Count), hashtable.ASCIICaseInsensitive(), nil)
	for c := EOS; c < Count; c++ {
		t.Put(0, classes[c].name, c)
	}
	return t
}()

// Valid reports whether c is one of the defined classes.
func (c Class) Valid() bool {
	return c >= EOS && c < Count
}

// String returns the constant name, e.g. "NAME_BUILTIN".
func (c Class) String() string {
	if !c.Valid() {
		return "UNKNOWN"
	}
	return classes[c].name
}

// CSSClass returns the short CSS class name; empty for classes that are not styled.
func (c Class) CSSClass() string {
	if !c.Valid() {
		return ""
	}
	return classes[c].cssClass
}

// Description returns a human readable summary of the class.
func (c Class) Description() string {
	if !c.Valid() {
		return ""
	}
	return classes[c].description
}

// Parent returns the more general class c falls back to, or c itself for a
// root category.
func (c Class) Parent() Class {
	if !c.Valid() {
		return Text
	}
	return classes[c].parent
}

// Key returns the lower case dotted key used in theme files, e.g. "name.builtin".
func (c Class) Key() string {
	return strings.ReplaceAll(strings.ToLower(c.String()), "_", ".")
}

// ByName looks up a class by constant name ("NAME_BUILTIN") or theme key
// ("name.builtin"), ignoring case.
func ByName(name string) (Class, bool) {
	return byName.Get(strings.ReplaceAll(name, ".", "_"))
}

// All returns every class in declaration order.
func All() []Class {
	all := make([]Class, 0, Count)
	for c := EOS; c < Count; c++ {
		all = append(all, c)
	}
	return all
}
