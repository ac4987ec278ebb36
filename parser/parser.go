// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

// Package parser provides the token-lookahead and error-accumulation base
// (C6) that concrete grammars build their productions on. It supplies no
// grammar of its own, mirroring the teacher's parser.Parser split between
// mechanical token bookkeeping and hand-written recursive-descent rules.
package parser

import (
	"fmt"

	"github.com/BlackRookSoftware/CommonLang/token"
)

// TokenSource is anything that can be pulled one token at a time --
// implemented by both *lexer.Lexer and *preprocessor.CommonLexer, so a
// grammar can be written once and run over either.
type TokenSource interface {
	Next() (*token.Token, error)
}

// Error is one accumulated parse failure, keyed by stream, line and the
// lexeme current when it was raised.
type Error struct {
	Stream string
	Line   int
	Lexeme string
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s (at %q)", e.Stream, e.Line, e.Msg, e.Lexeme)
}

// FatalError wraps an unrecoverable failure from the underlying token
// source (an I/O error surfacing through NextToken).
type FatalError struct {
	Cause error
}

func (e *FatalError) Error() string { return fmt.Sprintf("parser: fatal: %v", e.Cause) }
func (e *FatalError) Unwrap() error { return e.Cause }

// Base holds the current-token cursor and the accumulated error list that
// every concrete parser is built on.
type Base struct {
	src     TokenSource
	current *token.Token
	errors  []*Error
}

// NewBase constructs a Base over src and primes the cursor with the first
// token. A non-nil error here is always a FatalError.
func NewBase(src TokenSource) (*Base, error) {
	b := &Base{src: src}
	if err := b.advance(); err != nil {
		return nil, err
	}
	return b, nil
}

// Current returns the token under the cursor, or nil at end of input.
func (b *Base) Current() *token.Token { return b.current }

// CurrentType reports whether the current token's type is one of types.
func (b *Base) CurrentType(types ...token.Type) bool {
	if b.current == nil {
		return false
	}
	for _, t := range types {
		if b.current.Type == t {
			return true
		}
	}
	return false
}

// MatchType consumes and returns true if the current token's type equals
// t; otherwise the cursor is left unchanged and false is returned.
func (b *Base) MatchType(t token.Type) (bool, error) {
	if !b.CurrentType(t) {
		return false, nil
	}
	if err := b.advance(); err != nil {
		return false, err
	}
	return true, nil
}

// NextToken advances the cursor unconditionally. An I/O failure from the
// underlying source is reported as a FatalError -- parsing cannot
// meaningfully continue past a broken source.
func (b *Base) NextToken() error {
	return b.advance()
}

func (b *Base) advance() error {
	tok, err := b.src.Next()
	if err != nil {
		return &FatalError{Cause: err}
	}
	b.current = tok
	return nil
}

// AddError records a parse error at the current token's position.
func (b *Base) AddError(format string, args ...interface{}) {
	e := &Error{Msg: fmt.Sprintf(format, args...)}
	if b.current != nil {
		e.Stream = b.current.StreamName
		e.Line = b.current.LineNumber
		e.Lexeme = b.current.Lexeme
	}
	b.errors = append(b.errors, e)
}

// Errors returns every error accumulated so far, in the order raised.
func (b *Base) Errors() []*Error { return b.errors }

// HasErrors reports whether any error has been accumulated.
func (b *Base) HasErrors() bool { return len(b.errors) > 0 }

// AtEnd reports whether the cursor has run off the end of input.
func (b *Base) AtEnd() bool { return b.current == nil }
