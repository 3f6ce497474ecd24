package lexer

import (
	"context"
	"fmt"

	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/token"
)

const (
	// DefaultMaxDepth bounds the delegation stack, root included.
	DefaultMaxDepth = 32
	// DefaultMaxStalls is the number of consecutive steps that may leave
	// both the cursor and the emitted offset unchanged.
	DefaultMaxStalls = 128

	cancelCheckInterval = 256
)

// Resolver finds implementations for delegations that name their target or
// ask for a guess. The registry implements it.
type Resolver interface {
	ByName(name string) (Implementation, bool)
	Guess(src []byte) (Implementation, bool)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithResolver sets the resolver used for named and guessed delegations.
// Without one those delegations always fall back.
func WithResolver(r Resolver) EngineOption {
	return func(e *Engine) { e.resolver = r }
}

// WithMaxDepth bounds the delegation stack.
func WithMaxDepth(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithMaxStalls bounds the number of consecutive steps without progress.
func WithMaxStalls(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxStalls = n
		}
	}
}

// Engine drives a root lexer over a source text, maintaining the stack of
// delegated lexers. An Engine holds no per-scan state and may be shared.
type Engine struct {
	resolver  Resolver
	maxDepth  int
	maxStalls int
}

// NewEngine creates an engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{maxDepth: DefaultMaxDepth, maxStalls: DefaultMaxStalls}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// frame is one lexer on the delegation stack.
type frame struct {
	lx    *Lexer
	data  *Data
	owned bool
	limit int
	// resume is where the parent continues once this frame is popped, -1 to
	// continue wherever the child stopped.
	resume   int
	fallback token.Class
	// bounded frames cover a fixed region; whatever they leave unemitted is
	// delivered with fallback when they finish.
	bounded bool
}

type scan struct {
	e       *Engine
	in      Input
	stack   []frame
	emitted int
	sink    Sink
	stats   Stats
}

// Run scans src with root and delivers a start event, a token event for
// every span and an end event to sink. The token spans are contiguous,
// in order and cover src exactly.
func (e *Engine) Run(ctx context.Context, root *Lexer, src []byte, sink Sink) (Stats, error) {
	s := &scan{e: e, in: Input{Src: src, Limit: len(src)}, sink: sink}
	if err := ctx.Err(); err != nil {
		return s.stats, err
	}
	if err := sink(Event{Kind: EventStartDocument, Lexer: root.Name(), Depth: 1}); err != nil {
		return s.stats, err
	}

	s.push(frame{lx: root, data: root.newData(), owned: true, limit: len(src), resume: -1})

	stalls := 0
	for len(s.stack) > 0 {
		if s.stats.Steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return s.stats, err
			}
		}

		top := &s.stack[len(s.stack)-1]
		cursor, emitted := s.in.Cursor, s.emitted
		s.in.Limit = top.limit
		s.in.Text = s.in.Cursor
		s.in.Marker = s.in.Cursor

		res := top.lx.impl.Step(&s.in, top.data, top.lx)
		s.stats.Steps++

		if s.in.Cursor < 0 || s.in.Cursor > top.limit {
			return s.stats, fmt.Errorf("%w: %s moved the cursor to %d, region ends at %d",
				ErrBoundaryOverrun, top.lx.Name(), s.in.Cursor, top.limit)
		}
		if err := s.apply(&res); err != nil {
			return s.stats, err
		}

		if s.in.Cursor == cursor && s.emitted == emitted {
			stalls++
			if stalls > e.maxStalls {
				name := "<none>"
				if len(s.stack) > 0 {
					name = s.stack[len(s.stack)-1].lx.Name()
				}
				return s.stats, fmt.Errorf("%w: %s stuck at offset %d", ErrNoProgress, name, cursor)
			}
		} else {
			stalls = 0
		}
	}

	if err := sink(Event{Kind: EventEndDocument, Lexer: root.Name(), Depth: 1}); err != nil {
		return s.stats, err
	}
	return s.stats, nil
}

// Tokenize runs root over src and collects the token events.
func Tokenize(ctx context.Context, root *Lexer, src []byte, opts ...EngineOption) ([]Event, error) {
	var events []Event
	_, err := NewEngine(opts...).Run(ctx, root, src, func(ev Event) error {
		if ev.Kind == EventToken {
			events = append(events, ev)
		}
		return nil
	})
	return events, err
}

func (s *scan) apply(res *Result) error {
	for r := res; r != nil; r = r.Next {
		if r.Emit {
			if err := s.emit(r.Token); err != nil {
				return err
			}
		}
		var err error
		switch r.Action {
		case ActionNone:
		case ActionDone:
			err = s.pop()
		case ActionDelegateUntil, ActionDelegateFull, ActionReplay:
			err = s.delegate(r)
		default:
			err = fmt.Errorf("unknown action %d", r.Action)
		}
		if err != nil {
			return err
		}
		if len(s.stack) == 0 {
			return nil
		}
	}
	return nil
}

func (s *scan) limit() int {
	if len(s.stack) == 0 {
		return len(s.in.Src)
	}
	return s.stack[len(s.stack)-1].limit
}

// emit validates tok and delivers it, preceded by a TEXT token for any gap
// since the last emitted offset.
func (s *scan) emit(tok Token) error {
	switch {
	case tok.End < tok.Start:
		return fmt.Errorf("%w: [%d,%d)", ErrInvalidSpan, tok.Start, tok.End)
	case tok.Start == tok.End:
		return nil
	case tok.Start < s.emitted:
		return fmt.Errorf("%w: [%d,%d) starts before offset %d", ErrTokenOverlap, tok.Start, tok.End, s.emitted)
	case tok.End > s.limit():
		return fmt.Errorf("%w: [%d,%d) ends past %d", ErrBoundaryOverrun, tok.Start, tok.End, s.limit())
	}
	if tok.Start > s.emitted {
		if err := s.deliver(Token{Start: s.emitted, End: tok.Start, Class: token.Text}); err != nil {
			return err
		}
	}
	return s.deliver(tok)
}

// fill delivers [emitted, end) as a single token of class c.
func (s *scan) fill(end int, c token.Class) error {
	if end <= s.emitted {
		return nil
	}
	return s.deliver(Token{Start: s.emitted, End: end, Class: c})
}

func (s *scan) deliver(tok Token) error {
	ev := Event{
		Kind:  EventToken,
		Class: tok.Class,
		Value: tok.Value,
		Start: tok.Start,
		End:   tok.End,
		Text:  s.in.Src[tok.Start:tok.End],
		Depth: len(s.stack),
	}
	if len(s.stack) > 0 {
		ev.Lexer = s.stack[len(s.stack)-1].lx.Name()
	}
	s.emitted = tok.End
	s.stats.Tokens++
	return s.sink(ev)
}

func (s *scan) push(f frame) {
	s.stack = append(s.stack, f)
	s.stats.MaxDepth = max(s.stats.MaxDepth, len(s.stack))
}

func (s *scan) pop() error {
	n := len(s.stack) - 1
	f := s.stack[n]
	if f.owned {
		f.lx.finalize(f.data)
	}

	var err error
	switch {
	case n == 0:
		// The root may finish early; the rest of the document is plain text.
		err = s.fill(len(s.in.Src), token.Text)
	case f.bounded:
		err = s.fill(f.limit, f.fallback)
	}
	s.stack = s.stack[:n]
	if err != nil {
		return err
	}

	switch {
	case n == 0:
		s.in.Cursor = len(s.in.Src)
	case f.resume >= 0:
		s.in.Cursor = f.resume
	}
	return nil
}

func (s *scan) delegate(r *Result) error {
	parent := s.stack[len(s.stack)-1]
	var from, to, resume int
	bounded := true

	switch r.Action {
	case ActionDelegateUntil:
		if r.Boundary < s.in.Cursor || r.Boundary > parent.limit {
			return fmt.Errorf("%w: %s delegated until %d, cursor at %d, region ends at %d",
				ErrInvalidBoundary, parent.lx.Name(), r.Boundary, s.in.Cursor, parent.limit)
		}
		if r.Boundary == s.in.Cursor {
			return nil
		}
		from, to, resume = s.in.Cursor, r.Boundary, r.Boundary
	case ActionDelegateFull:
		from, to, resume = s.in.Cursor, parent.limit, -1
		bounded = false
	case ActionReplay:
		if r.From < s.emitted || r.From > r.Boundary || r.Boundary > parent.limit {
			return fmt.Errorf("%w: %s replayed [%d,%d), emitted up to %d, region ends at %d",
				ErrInvalidBoundary, parent.lx.Name(), r.From, r.Boundary, s.emitted, parent.limit)
		}
		if r.From == r.Boundary {
			s.in.Cursor = r.Boundary
			return nil
		}
		from, to, resume = r.From, r.Boundary, r.Boundary
	}

	if len(s.stack) >= s.e.maxDepth {
		return fmt.Errorf("%w: depth %d at offset %d", ErrRunawayDelegation, len(s.stack), from)
	}

	child := s.resolve(r.Target, s.in.Src[from:to])
	if child == nil {
		s.stats.Fallbacks++
		if log.Enabled(log.LevelDebug) {
			log.Debug(log.CatLexer, "delegation fell back",
				"from", parent.lx.Name(), "target", describe(r.Target), "start", from, "end", to)
		}
		if from > s.emitted {
			if err := s.fill(from, token.Text); err != nil {
				return err
			}
		}
		if err := s.fill(to, r.Fallback); err != nil {
			return err
		}
		s.in.Cursor = to
		return nil
	}

	data, owned := r.Target.Data, false
	if data == nil {
		data, owned = child.newData(), true
	}
	s.push(frame{
		lx:       child,
		data:     data,
		owned:    owned,
		limit:    to,
		resume:   resume,
		fallback: r.Fallback,
		bounded:  bounded,
	})
	s.in.Cursor = from
	s.stats.Delegations++

	if log.Enabled(log.LevelDebug) {
		log.Debug(log.CatLexer, "delegate",
			"action", r.Action, "from", parent.lx.Name(), "to", child.Name(),
			"start", from, "end", to, "depth", len(s.stack))
	}
	return nil
}

func (s *scan) resolve(t Target, span []byte) *Lexer {
	switch {
	case t.Lexer != nil:
		return t.Lexer
	case t.Impl != nil:
		return New(t.Impl)
	case t.Name != "":
		if s.e.resolver == nil {
			return nil
		}
		if impl, ok := s.e.resolver.ByName(t.Name); ok {
			return New(impl)
		}
	case t.Guess:
		if s.e.resolver == nil {
			return nil
		}
		if impl, ok := s.e.resolver.Guess(span); ok {
			return New(impl)
		}
	}
	return nil
}

func describe(t Target) string {
	switch {
	case t.Lexer != nil:
		return t.Lexer.Name()
	case t.Impl != nil:
		return t.Impl.Info().Name
	case t.Name != "":
		return t.Name
	case t.Guess:
		return "<guess>"
	}
	return "<none>"
}
