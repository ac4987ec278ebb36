package diag

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BlackRookSoftware/CommonLang/token"
)

func TestCollectorSinkAccumulates(t *testing.T) {
	c := &CollectorSink{}
	c.Token(token.Token{StreamName: "a", Lexeme: "x", Type: token.Identifier})
	c.Token(token.Token{StreamName: "a", Lexeme: "y", Type: token.Identifier})
	assert.Len(t, c.Tokens, 2)
	assert.Equal(t, "x", c.Tokens[0].Lexeme)
	assert.Equal(t, "y", c.Tokens[1].Lexeme)
}

func TestSlogSinkWritesDebugRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewSlogSink(logger)

	s.Token(token.Token{StreamName: "main", Lexeme: "foo", LineNumber: 1, Type: token.Identifier})

	out := buf.String()
	assert.Contains(t, out, "token")
	assert.Contains(t, out, "foo")
	assert.Contains(t, out, "IDENTIFIER")
}

func TestNewSlogSinkDefaultsToSlogDefault(t *testing.T) {
	s := NewSlogSink(nil)
	assert.NotNil(t, s.Logger)
}
