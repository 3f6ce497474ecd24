package lexer

import (
	"bytes"

	"github.com/zjrosen/hilite/internal/hashtable"
	"github.com/zjrosen/hilite/internal/token"
)

// Input is the cursor shared by every lexer on the delegation stack. All
// positions are byte offsets into Src.
//
// Between steps 0 <= Text <= Cursor <= Limit <= len(Src) holds. Text is the
// start of the lexeme being matched, Marker a backtrack point and Limit the
// end of the region the active lexer may read.
type Input struct {
	Src    []byte
	Cursor int
	Limit  int
	Marker int
	Text   int
}

// NewInput returns a cursor over the whole of src.
func NewInput(src []byte) *Input {
	return &Input{Src: src, Limit: len(src)}
}

// AtLimit reports whether the cursor reached the end of the readable region.
func (in *Input) AtLimit() bool {
	return in.Cursor >= in.Limit
}

// Remaining returns the number of readable bytes after the cursor.
func (in *Input) Remaining() int {
	return in.Limit - in.Cursor
}

// Peek returns the byte under the cursor.
func (in *Input) Peek() (byte, bool) {
	return in.PeekAt(0)
}

// PeekAt returns the byte n positions after the cursor.
func (in *Input) PeekAt(n int) (byte, bool) {
	if i := in.Cursor + n; i >= 0 && i < in.Limit {
		return in.Src[i], true
	}
	return 0, false
}

// Advance moves the cursor forward by n bytes, never past Limit.
func (in *Input) Advance(n int) {
	in.Cursor = min(in.Cursor+n, in.Limit)
}

// AdvanceWhile moves the cursor while pred holds and returns the number of
// bytes consumed.
func (in *Input) AdvanceWhile(pred func(byte) bool) int {
	start := in.Cursor
	for in.Cursor < in.Limit && pred(in.Src[in.Cursor]) {
		in.Cursor++
	}
	return in.Cursor - start
}

// Len returns the length of the current lexeme.
func (in *Input) Len() int {
	return in.Cursor - in.Text
}

// Lexeme returns the bytes of the current lexeme.
func (in *Input) Lexeme() []byte {
	return in.Src[in.Text:in.Cursor]
}

// Less rewinds the cursor so that the current lexeme is n bytes long.
func (in *Input) Less(n int) {
	in.Cursor = in.Text + n
}

// Backup records the cursor in Marker.
func (in *Input) Backup() {
	in.Marker = in.Cursor
}

// Restore moves the cursor back to Marker.
func (in *Input) Restore() {
	in.Cursor = in.Marker
}

// Equal compares the current lexeme to s, lengths first.
func (in *Input) Equal(s string) bool {
	return in.Len() == len(s) && string(in.Lexeme()) == s
}

// EqualFold compares the current lexeme to s ignoring ASCII case.
func (in *Input) EqualFold(s string) bool {
	return in.Len() == len(s) && hashtable.EqualFold(string(in.Lexeme()), s)
}

// HasPrefix reports whether the readable input at the cursor starts with s.
func (in *Input) HasPrefix(s string) bool {
	return in.Remaining() >= len(s) && string(in.Src[in.Cursor:in.Cursor+len(s)]) == s
}

// HasPrefixFold is HasPrefix ignoring ASCII case.
func (in *Input) HasPrefixFold(s string) bool {
	return in.Remaining() >= len(s) && hashtable.EqualFold(string(in.Src[in.Cursor:in.Cursor+len(s)]), s)
}

// Index returns the offset of the first occurrence of s at or after the
// cursor and before Limit, or -1.
func (in *Input) Index(s string) int {
	i := bytes.Index(in.Src[in.Cursor:in.Limit], []byte(s))
	if i < 0 {
		return -1
	}
	return in.Cursor + i
}

// IndexFold is Index ignoring ASCII case.
func (in *Input) IndexFold(s string) int {
	for i := in.Cursor; i+len(s) <= in.Limit; i++ {
		if hashtable.EqualFold(string(in.Src[i:i+len(s)]), s) {
			return i
		}
	}
	return -1
}

// Newline consumes one line ending at the cursor. CR, LF and CRLF each count
// as a single newline; it reports whether one was consumed.
func (in *Input) Newline() bool {
	c, ok := in.Peek()
	switch {
	case !ok:
		return false
	case c == '\n':
		in.Cursor++
		return true
	case c == '\r':
		in.Cursor++
		if c, ok := in.Peek(); ok && c == '\n' {
			in.Cursor++
		}
		return true
	}
	return false
}

// Token builds a result emitting the current lexeme with class c.
func (in *Input) Token(c token.Class) Result {
	return Emit(Token{Start: in.Text, End: in.Cursor, Class: c})
}

// TokenValue is Token with a sub-kind value for downstream consumers.
func (in *Input) TokenValue(c token.Class, value int) Result {
	return Emit(Token{Start: in.Text, End: in.Cursor, Class: c, Value: value})
}

// Unclassified consumes one byte, or a whole UTF-8 sequence, past the
// lexeme start and emits it as an ERROR token. Step functions use it when
// nothing matches so that the scan always makes progress.
func (in *Input) Unclassified() Result {
	in.Cursor = in.Text
	if in.Cursor < in.Limit {
		in.Cursor += utf8Len(in.Src[in.Cursor])
		in.Cursor = min(in.Cursor, in.Limit)
	}
	return in.Token(token.Error)
}

func utf8Len(b byte) int {
	switch {
	case b < 0xC0:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}
