package lexer

import "github.com/zjrosen/hilite/internal/token"

// Action is what the engine does after delivering the token of a Result, if any.
type Action int

const (
	// ActionNone continues with the next step of the same lexer.
	ActionNone Action = iota
	// ActionDone returns control to the parent lexer, or ends the scan for the root.
	ActionDone
	// ActionDelegateUntil hands [cursor, Boundary) to a child lexer.
	ActionDelegateUntil
	// ActionDelegateFull hands control to a child that decides itself when it is done.
	ActionDelegateFull
	// ActionReplay has a child rescan [From, Boundary), a span the parent already consumed.
	ActionReplay
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDone:
		return "done"
	case ActionDelegateUntil:
		return "delegate-until"
	case ActionDelegateFull:
		return "delegate-full"
	case ActionReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// Token is a classified span of the shared input.
type Token struct {
	Start, End int
	Class      token.Class
	// Value distinguishes sub-kinds for a downstream consumer; 0 when unused.
	Value int
}

// Target selects the child lexer of a delegation. The first non-empty field
// among Lexer, Impl and Name wins; Guess asks the resolver to pick one from
// the delegated text.
type Target struct {
	Lexer *Lexer
	Impl  Implementation
	Name  string
	Guess bool
	// Data, when set, is used as the child's state instead of a fresh one and
	// outlives the delegation.
	Data *Data
}

// IsZero reports whether no child was designated.
func (t Target) IsZero() bool {
	return t.Lexer == nil && t.Impl == nil && t.Name == "" && !t.Guess
}

// Result is the outcome of one step: optionally a token to deliver, then an
// action. Next chains further results to process in order before the
// following step.
type Result struct {
	Emit  bool
	Token Token

	Action   Action
	From     int // ActionReplay: where the child starts
	Boundary int // ActionDelegateUntil, ActionReplay: where the child stops
	Target   Target
	// Fallback classifies the delegated span when no child can be resolved.
	Fallback token.Class

	Next *Result
}

// Emit delivers tok and continues.
func Emit(tok Token) Result {
	return Result{Emit: true, Token: tok}
}

// Done ends the current lexer.
func Done() Result {
	return Result{Action: ActionDone}
}

// EmitThenDone delivers tok, then ends the current lexer.
func EmitThenDone(tok Token) Result {
	return Result{Emit: true, Token: tok, Action: ActionDone}
}

// DelegateUntil hands [cursor, boundary) to target.
func DelegateUntil(boundary int, target Target, fallback token.Class) Result {
	return Result{Action: ActionDelegateUntil, Boundary: boundary, Target: target, Fallback: fallback}
}

// DelegateFull hands control to target until it reports Done.
func DelegateFull(target Target, fallback token.Class) Result {
	return Result{Action: ActionDelegateFull, Target: target, Fallback: fallback}
}

// Replay has target rescan [from, to). The parent resumes at to.
func Replay(from, to int, target Target, fallback token.Class) Result {
	return Result{Action: ActionReplay, From: from, Boundary: to, Target: target, Fallback: fallback}
}

// ThenDone keeps the token of r and ends the current lexer after it.
func (r Result) ThenDone() Result {
	r.Action = ActionDone
	return r
}

// ThenDelegateUntil keeps the token of r and delegates afterwards.
func (r Result) ThenDelegateUntil(boundary int, target Target, fallback token.Class) Result {
	r.Action = ActionDelegateUntil
	r.Boundary = boundary
	r.Target = target
	r.Fallback = fallback
	return r
}

// ThenDelegateFull keeps the token of r and delegates afterwards.
func (r Result) ThenDelegateFull(target Target, fallback token.Class) Result {
	r.Action = ActionDelegateFull
	r.Target = target
	r.Fallback = fallback
	return r
}

// Then appends next to the chain of pending results.
func (r Result) Then(next Result) Result {
	tail := &r
	for tail.Next != nil {
		copied := *tail.Next
		tail.Next = &copied
		tail = tail.Next
	}
	tail.Next = &next
	return r
}
