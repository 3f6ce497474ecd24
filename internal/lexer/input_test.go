package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/token"
)

func TestInput_PeekAndAdvance(t *testing.T) {
	in := NewInput([]byte("abc"))
	in.Limit = 2

	c, ok := in.Peek()
	require.True(t, ok)
	require.Equal(t, byte('a'), c)

	_, ok = in.PeekAt(2)
	require.False(t, ok, "peeking past the limit")

	in.Advance(10)
	require.Equal(t, 2, in.Cursor)
	require.True(t, in.AtLimit())
	require.Zero(t, in.Remaining())
}

func TestInput_Lexeme(t *testing.T) {
	in := NewInput([]byte("SELECT * FROM t"))

	n := in.AdvanceWhile(isLetter)
	require.Equal(t, 6, n)
	require.Equal(t, "SELECT", string(in.Lexeme()))
	require.True(t, in.Equal("SELECT"))
	require.False(t, in.Equal("select"))
	require.True(t, in.EqualFold("select"))
	require.False(t, in.EqualFold("selects"))

	in.Less(3)
	require.Equal(t, "SEL", string(in.Lexeme()))
	require.Equal(t, 3, in.Len())
}

func TestInput_BackupRestore(t *testing.T) {
	in := NewInput([]byte("abcdef"))
	in.Advance(2)
	in.Backup()
	in.Advance(3)
	in.Restore()
	require.Equal(t, 2, in.Cursor)
}

func TestInput_PrefixAndIndex(t *testing.T) {
	in := NewInput([]byte("<STYLE>p{}</style>"))

	require.True(t, in.HasPrefix("<ST"))
	require.False(t, in.HasPrefix("<st"))
	require.True(t, in.HasPrefixFold("<st"))

	require.Equal(t, 10, in.IndexFold("</STYLE"))
	require.Equal(t, -1, in.Index("</STYLE"))

	in.Limit = 12
	require.Equal(t, -1, in.IndexFold("</style>"), "matches must end before the limit")
}

func TestInput_Newline(t *testing.T) {
	tests := []struct {
		src  string
		ok   bool
		want int
	}{
		{"\n", true, 1},
		{"\r\n", true, 2},
		{"\rx", true, 1},
		{"x", false, 0},
		{"", false, 0},
	}
	for _, tt := range tests {
		in := NewInput([]byte(tt.src))
		require.Equal(t, tt.ok, in.Newline(), "%q", tt.src)
		require.Equal(t, tt.want, in.Cursor, "%q", tt.src)
	}
}

func TestInput_Token(t *testing.T) {
	in := NewInput([]byte("abc"))
	in.Text = 1
	in.Cursor = 3

	r := in.TokenValue(token.Keyword, 4)
	require.True(t, r.Emit)
	require.Equal(t, Token{Start: 1, End: 3, Class: token.Keyword, Value: 4}, r.Token)
	require.Equal(t, ActionNone, r.Action)
}

func TestInput_Unclassified(t *testing.T) {
	in := NewInput([]byte("€x"))
	r := in.Unclassified()
	require.Equal(t, Token{Start: 0, End: 3, Class: token.Error}, r.Token)

	in = NewInput([]byte("\xe2"))
	r = in.Unclassified()
	require.Equal(t, 1, r.Token.End, "truncated sequences stop at the limit")
}

func TestData_States(t *testing.T) {
	d := NewData()
	d.Begin(2)
	d.PushState(5)
	d.PushState(7)
	require.Equal(t, 2, d.Depth())
	require.Equal(t, 7, d.State)

	require.True(t, d.PopState())
	require.Equal(t, 5, d.State)
	require.True(t, d.PopState())
	require.Equal(t, 2, d.State)
	require.False(t, d.PopState())
	require.Equal(t, 2, d.State)

	d.NextLabel = LabelClass
	d.Local = "kept"
	d.PushState(1)
	d.Reset()
	require.Zero(t, d.State)
	require.Zero(t, d.Depth())
	require.Equal(t, LabelNone, d.NextLabel)
	require.Equal(t, "kept", d.Local)
}

func TestResult_Constructors(t *testing.T) {
	tok := Token{Start: 0, End: 1, Class: token.Name}

	r := EmitThenDone(tok)
	require.True(t, r.Emit)
	require.Equal(t, ActionDone, r.Action)

	r = Emit(tok).ThenDelegateUntil(4, Target{Name: "css"}, token.Text)
	require.Equal(t, ActionDelegateUntil, r.Action)
	require.Equal(t, 4, r.Boundary)
	require.Equal(t, "css", r.Target.Name)

	r = Replay(2, 6, Target{Guess: true}, token.Comment)
	require.Equal(t, ActionReplay, r.Action)
	require.Equal(t, 2, r.From)
	require.Equal(t, 6, r.Boundary)
	require.Equal(t, token.Comment, r.Fallback)

	require.True(t, Target{}.IsZero())
	require.False(t, Target{Guess: true}.IsZero())
	require.Equal(t, "delegate-full", ActionDelegateFull.String())
}

func TestResult_ThenKeepsOrder(t *testing.T) {
	a := Emit(Token{Start: 0, End: 1})
	b := Emit(Token{Start: 1, End: 2})
	c := Done()

	chained := a.Then(b).Then(c)
	require.Equal(t, 0, chained.Token.Start)
	require.NotNil(t, chained.Next)
	require.Equal(t, 1, chained.Next.Token.Start)
	require.NotNil(t, chained.Next.Next)
	require.Equal(t, ActionDone, chained.Next.Next.Action)
	require.Nil(t, a.Next, "Then does not modify its receiver")
}
