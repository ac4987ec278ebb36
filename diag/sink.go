// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

// Package diag provides the observability hook described by the
// toolkit's design: "when a global debug flag is enabled each emitted
// token is written to a diagnostic sink". Rather than the historical
// global mutable flag, the flag and the sink are both injected into the
// Lexer that uses them (see lexer.Lexer.SetDiagnostics).
package diag

import (
	"log/slog"

	"github.com/BlackRookSoftware/CommonLang/token"
)

// Sink receives one notification per emitted token.
type Sink interface {
	Token(t token.Token)
}

// SlogSink reports tokens through a *slog.Logger at Debug level, in the
// teacher's preferred structured-logging idiom.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink wraps logger, or slog.Default() if logger is nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger}
}

// Token implements Sink.
func (s *SlogSink) Token(t token.Token) {
	s.Logger.Debug("token",
		slog.String("stream", t.StreamName),
		slog.Int("line", t.LineNumber),
		slog.String("type", t.Type.String()),
		slog.String("lexeme", t.Lexeme),
	)
}

// CollectorSink accumulates tokens in memory, for tests that want to
// assert on the exact sequence of diagnostic notifications independent
// of Lexer.Next's own return values.
type CollectorSink struct {
	Tokens []token.Token
}

// Token implements Sink.
func (c *CollectorSink) Token(t token.Token) {
	c.Tokens = append(c.Tokens, t)
}
