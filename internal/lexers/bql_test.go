package lexers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/token"
)

func TestBQL_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []lexeme
	}{
		{
			name:  "simple equality",
			input: "type = task",
			expected: []lexeme{
				{"type", token.NameAttribute},
				{"=", token.Operator},
				{"task", token.Text},
			},
		},
		{
			name:  "comparison operators",
			input: "priority <= P2",
			expected: []lexeme{
				{"priority", token.NameAttribute},
				{"<=", token.Operator},
				{"P2", token.Text},
			},
		},
		{
			name:  "in expression",
			input: "status in (open, closed)",
			expected: []lexeme{
				{"status", token.NameAttribute},
				{"in", token.Keyword},
				{"(", token.Punctuation},
				{"open", token.Text},
				{",", token.Punctuation},
				{"closed", token.Text},
				{")", token.Punctuation},
			},
		},
		{
			name:  "and/or keywords",
			input: "type = bug AND priority != P0",
			expected: []lexeme{
				{"type", token.NameAttribute},
				{"=", token.Operator},
				{"bug", token.Text},
				{"AND", token.Keyword},
				{"priority", token.NameAttribute},
				{"!=", token.Operator},
				{"P0", token.Text},
			},
		},
		{
			name:  "not keyword and boolean",
			input: "not blocked = true",
			expected: []lexeme{
				{"not", token.Keyword},
				{"blocked", token.NameAttribute},
				{"=", token.Operator},
				{"true", token.KeywordConstant},
			},
		},
		{
			name:  "order by clause",
			input: "order by created desc",
			expected: []lexeme{
				{"order", token.Keyword},
				{"by", token.Keyword},
				{"created", token.NameAttribute},
				{"desc", token.Keyword},
			},
		},
		{
			name:  "date offset",
			input: "created > -7d",
			expected: []lexeme{
				{"created", token.NameAttribute},
				{">", token.Operator},
				{"-7d", token.LiteralDuration},
			},
		},
		{
			name:  "quoted string",
			input: `title ~ "login bug"`,
			expected: []lexeme{
				{"title", token.NameAttribute},
				{"~", token.Operator},
				{`"login bug"`, token.String},
			},
		},
		{
			name:  "field after value list",
			input: "label in (a) and owner = me",
			expected: []lexeme{
				{"label", token.NameAttribute},
				{"in", token.Keyword},
				{"(", token.Punctuation},
				{"a", token.Text},
				{")", token.Punctuation},
				{"and", token.Keyword},
				{"owner", token.NameAttribute},
				{"=", token.Operator},
				{"me", token.Text},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lex(t, lexer.New(BQL), tt.input))
		})
	}
}

func TestBQL_Unclassified(t *testing.T) {
	got := lex(t, lexer.New(BQL), "a ! b")
	assert.Contains(t, got, lexeme{"!", token.Error})
}
