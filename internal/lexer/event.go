package lexer

import "github.com/zjrosen/hilite/internal/token"

// EventKind distinguishes the events delivered to a Sink.
type EventKind int

const (
	EventStartDocument EventKind = iota
	EventToken
	EventEndDocument
)

func (k EventKind) String() string {
	switch k {
	case EventStartDocument:
		return "start-document"
	case EventToken:
		return "token"
	case EventEndDocument:
		return "end-document"
	default:
		return "unknown"
	}
}

// Event is one notification of a scan. Token events carry the span and its
// classification; Text aliases the source and must not be retained past the
// callback without copying.
type Event struct {
	Kind  EventKind
	Class token.Class
	Value int
	Start int
	End   int
	Text  []byte
	// Depth is the delegation depth of the lexer that produced the token,
	// 1 for the root.
	Depth int
	Lexer string
}

// Sink receives the events of a scan in document order. A non-nil error
// aborts the scan and is returned by Run.
type Sink func(Event) error

// Stats summarizes a scan.
type Stats struct {
	Steps       int
	Tokens      int
	Delegations int
	Fallbacks   int
	MaxDepth    int
}
