package lexers

import (
	"errors"
	"fmt"

	chroma "github.com/alecthomas/chroma/v2"
	chromalexers "github.com/alecthomas/chroma/v2/lexers"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/token"
)

// chromaLexer exposes a chroma lexer as an Implementation. The region handed
// to it is tokenised in one go on its first step and replayed token by token.
type chromaLexer struct {
	l    chroma.Lexer
	info *lexer.Info
}

// NewChroma adapts l.
func NewChroma(l chroma.Lexer) lexer.Implementation {
	cfg := l.Config()
	filenames := append(append([]string{}, cfg.Filenames...), cfg.AliasFilenames...)
	return &chromaLexer{
		l: chroma.Coalesce(l),
		info: &lexer.Info{
			Name:      cfg.Name,
			Doc:       fmt.Sprintf("%s, provided by chroma.", cfg.Name),
			Aliases:   cfg.Aliases,
			Filenames: filenames,
			MimeTypes: cfg.MimeTypes,
		},
	}
}

// RegisterChroma adds every chroma lexer whose name and aliases are still
// free in reg. It returns the number of lexers added.
func RegisterChroma(reg *registry.Registry) (int, error) {
	added := 0
	for _, l := range chromalexers.GlobalLexerRegistry.Lexers {
		err := reg.Add(NewChroma(l), registry.SourceChroma)
		switch {
		case errors.Is(err, registry.ErrDuplicateLexer):
			log.Debug(log.CatRegistry, "skipped chroma lexer", "name", l.Config().Name, "reason", err)
		case err != nil:
			return added, err
		default:
			added++
		}
	}
	return added, nil
}

func (c *chromaLexer) Info() *lexer.Info { return c.info }

func (c *chromaLexer) Analyse(src []byte) int {
	return int(c.l.AnalyseText(string(src)) * 100)
}

type chromaState struct {
	tokens []chroma.Token
	next   int
	pos    int
	limit  int
}

func (c *chromaLexer) Step(in *lexer.Input, d *lexer.Data, _ *lexer.Lexer) lexer.Result {
	if in.AtLimit() {
		return lexer.Done()
	}
	st, ok := d.Local.(*chromaState)
	if !ok || st.pos != in.Cursor || st.limit != in.Limit || st.next >= len(st.tokens) {
		st = c.tokenise(in)
		d.Local = st
	}

	for st.next < len(st.tokens) {
		tok := st.tokens[st.next]
		st.next++
		if tok.Value == "" {
			continue
		}
		end := in.Cursor + len(tok.Value)
		if end > in.Limit || string(in.Src[in.Cursor:end]) != tok.Value {
			// chroma rewrote the text; keep the rest unclassified.
			break
		}
		in.Cursor = end
		st.pos = end
		return in.Token(classFor(tok.Type))
	}

	st.tokens = nil
	in.Cursor = in.Limit
	return in.Token(token.Text).ThenDone()
}

func (c *chromaLexer) tokenise(in *lexer.Input) *chromaState {
	text := string(in.Src[in.Cursor:in.Limit])
	tokens, err := chroma.Tokenise(c.l, &chroma.TokeniseOptions{State: "root", EnsureLF: false}, text)
	if err != nil {
		log.ErrorErr(log.CatLexer, "chroma tokenise failed", err, "lexer", c.info.Name)
		tokens = nil
	}
	return &chromaState{tokens: tokens, pos: in.Cursor, limit: in.Limit}
}

// chromaClasses maps chroma token types onto classes. Types missing from
// the table are resolved through their sub-category, then category.
var chromaClasses = func() *hashtable.Table[chroma.TokenType, token.Class] {
	t := hashtable.New[chroma.TokenType, token.Class](128, hashtable.Identity[chroma.TokenType](), nil)
	for ct, c := range map[chroma.TokenType]token.Class{
		chroma.Error:                 token.Error,
		chroma.Other:                 token.Text,
		chroma.Text:                  token.Text,
		chroma.Whitespace:            token.Text,
		chroma.Keyword:               token.Keyword,
		chroma.KeywordConstant:       token.KeywordConstant,
		chroma.KeywordDeclaration:    token.KeywordDeclaration,
		chroma.KeywordNamespace:      token.KeywordNamespace,
		chroma.KeywordPseudo:         token.KeywordPseudo,
		chroma.KeywordReserved:       token.KeywordReserved,
		chroma.KeywordType:           token.KeywordType,
		chroma.Name:                  token.Name,
		chroma.NameAttribute:         token.NameAttribute,
		chroma.NameBuiltin:           token.NameBuiltin,
		chroma.NameBuiltinPseudo:     token.NameBuiltinPseudo,
		chroma.NameClass:             token.NameClass,
		chroma.NameConstant:          token.NameConstant,
		chroma.NameEntity:            token.NameEntity,
		chroma.NameFunction:          token.NameFunction,
		chroma.NameNamespace:         token.NameNamespace,
		chroma.NameTag:               token.NameTag,
		chroma.NameVariable:          token.NameVariable,
		chroma.NameVariableClass:     token.NameVariableClass,
		chroma.NameVariableGlobal:    token.NameVariableGlobal,
		chroma.NameVariableInstance:  token.NameVariableInstance,
		chroma.Literal:               token.Literal,
		chroma.LiteralString:         token.String,
		chroma.LiteralStringSingle:   token.StringSingle,
		chroma.LiteralStringDouble:   token.StringDouble,
		chroma.LiteralStringBacktick: token.StringBacktick,
		chroma.LiteralStringRegex:    token.StringRegex,
		chroma.LiteralStringSymbol:   token.StringInterned,
		chroma.LiteralStringEscape:   token.SequenceEscaped,
		chroma.LiteralStringInterpol: token.SequenceInterpolated,
		chroma.LiteralNumber:         token.Number,
		chroma.LiteralNumberFloat:    token.NumberFloat,
		chroma.LiteralNumberInteger:  token.NumberDecimal,
		chroma.LiteralNumberHex:      token.NumberHexadecimal,
		chroma.LiteralNumberOct:      token.NumberOctal,
		chroma.LiteralNumberBin:      token.NumberBinary,
		chroma.Operator:              token.Operator,
		chroma.Punctuation:           token.Punctuation,
		chroma.Comment:               token.Comment,
		chroma.CommentSingle:         token.CommentSingle,
		chroma.CommentMultiline:      token.CommentMultiline,
		chroma.CommentPreproc:        token.TagPreproc,
		chroma.CommentSpecial:        token.CommentDocumentation,
		chroma.Generic:               token.Generic,
		chroma.GenericDeleted:        token.GenericDeleted,
		chroma.GenericInserted:       token.GenericInserted,
		chroma.GenericHeading:        token.GenericHeading,
		chroma.GenericSubheading:     token.GenericSubheading,
		chroma.GenericStrong:         token.GenericStrong,
	} {
		t.Put(0, ct, c)
	}
	return t
}()

func classFor(ct chroma.TokenType) token.Class {
	for _, candidate := range []chroma.TokenType{ct, ct.SubCategory(), ct.Category()} {
		if c, ok := chromaClasses.Get(candidate); ok {
			return c
		}
	}
	return token.Text
}
