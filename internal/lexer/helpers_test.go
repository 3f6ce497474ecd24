package lexer

import (
	"strings"

	"github.com/zjrosen/hilite/internal/token"
)

type stepFunc func(in *Input, d *Data, lx *Lexer) Result

type testImpl struct {
	info  Info
	step  stepFunc
	inits int
	finis int
}

func newImpl(name string, step stepFunc) *testImpl {
	return &testImpl{info: Info{Name: name}, step: step}
}

func (t *testImpl) Info() *Info { return &t.info }

func (t *testImpl) Step(in *Input, d *Data, lx *Lexer) Result { return t.step(in, d, lx) }

// hookedImpl counts Init and Finalize calls.
type hookedImpl struct {
	*testImpl
}

func (h hookedImpl) Init(_ *Lexer, d *Data) {
	h.inits++
	d.Local = h.inits
}

func (h hookedImpl) Finalize(*Data) { h.finis++ }

type fakeResolver struct {
	byName map[string]Implementation
	guess  Implementation
}

func (r fakeResolver) ByName(name string) (Implementation, bool) {
	impl, ok := r.byName[strings.ToLower(name)]
	return impl, ok
}

func (r fakeResolver) Guess([]byte) (Implementation, bool) {
	return r.guess, r.guess != nil
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// wordStep emits runs of letters as names and anything else byte by byte
// as punctuation.
func wordStep(in *Input, _ *Data, _ *Lexer) Result {
	if in.AtLimit() {
		return Done()
	}
	if in.AdvanceWhile(isLetter) > 0 {
		return in.Token(token.Name)
	}
	in.Advance(1)
	return in.Token(token.Punctuation)
}

func words() *testImpl {
	return newImpl("Words", wordStep)
}

// tagStep hands every "<...>" region to child and emits the text between
// tags itself.
func tagStep(child Target) stepFunc {
	return func(in *Input, _ *Data, _ *Lexer) Result {
		if in.AtLimit() {
			return Done()
		}
		if c, _ := in.Peek(); c == '<' {
			if end := in.Index(">"); end >= 0 {
				return DelegateUntil(end+1, child, token.Error)
			}
			return in.Unclassified()
		}
		in.AdvanceWhile(func(b byte) bool { return b != '<' })
		return in.Token(token.Text)
	}
}

type span struct {
	Text  string
	Class token.Class
	Depth int
}

func spans(events []Event) []span {
	out := make([]span, 0, len(events))
	for _, ev := range events {
		out = append(out, span{Text: string(ev.Text), Class: ev.Class, Depth: ev.Depth})
	}
	return out
}

func joined(events []Event) string {
	var b strings.Builder
	for _, ev := range events {
		b.Write(ev.Text)
	}
	return b.String()
}
