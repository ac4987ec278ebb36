// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

// Package preprocessor implements CommonLexer (C4): a macro-expanding,
// directive-handling layer composed over a lexer.Lexer. Per the design
// notes, this favours composition over the teacher's original
// inheritance-based split -- CommonLexer holds a Lexer and a token
// pushback stack and implements the same pull contract by delegating to
// it and post-processing the result.
package preprocessor

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/BlackRookSoftware/CommonLang/kernel"
	"github.com/BlackRookSoftware/CommonLang/lexer"
	"github.com/BlackRookSoftware/CommonLang/reader"
	"github.com/BlackRookSoftware/CommonLang/token"
)

// DirectiveType is the special-prefix type CommonLexer registers for '#'.
// It is a large, fixed value deliberately out of the way of any ordinary
// caller-assigned delimiter or keyword type.
const DirectiveType token.Type = 1 << 29

const (
	directiveInclude  = "#include"
	directiveDefine   = "#define"
	directiveUndefine = "#undefine"
	directiveIfdef    = "#ifdef"
	directiveIfndef   = "#ifndef"
	directiveEndif    = "#endif"
)

// DirectiveError is a fatal preprocessor failure, carrying the stream and
// line it occurred on.
type DirectiveError struct {
	Stream string
	Line   int
	Msg    string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Stream, e.Line, e.Msg)
}

func errAt(t *token.Token, format string, args ...interface{}) *DirectiveError {
	return &DirectiveError{Stream: t.StreamName, Line: t.LineNumber, Msg: fmt.Sprintf(format, args...)}
}

// Resolver resolves an #include target named by the string literal on the
// directive line into an opened, named source. currentStream is the name
// of the stream the #include appeared in.
type Resolver func(fs afero.Fs, currentStream, target string) (name string, rc io.ReadCloser, err error)

// DefaultResolver implements the documented parent-path-then-verbatim
// lookup: if a file named target exists alongside currentStream, that one
// is used; otherwise target is opened as given.
func DefaultResolver(fs afero.Fs, currentStream, target string) (string, io.ReadCloser, error) {
	candidate := filepath.Join(filepath.Dir(currentStream), target)
	name := target
	if ok, _ := afero.Exists(fs, candidate); ok {
		name = candidate
	}
	f, err := fs.Open(name)
	if err != nil {
		return "", nil, err
	}
	return name, f, nil
}

// CommonLexer wraps a lexer.Lexer, expanding macros via a pushback token
// stack and handling #include/#define/#undefine/#ifdef/#ifndef/#endif
// directives.
type CommonLexer struct {
	lx       *lexer.Lexer
	resolver Resolver

	pushback []*token.Token // LIFO: last element is next to deliver
	macros   map[string][]*token.Token
	ifStack  []bool
}

// New builds a CommonLexer over source. b is a kernel builder for the
// target language; New forces IncludeNewlines on (directive lines are
// newline-terminated) and registers '#' as the special-prefix that
// introduces directives, then freezes the kernel.
func New(b *kernel.Builder, streamName string, source io.Reader, resolver Resolver) *CommonLexer {
	b.IncludeNewlines(true)
	b.AddSpecialDelimiter('#', DirectiveType)
	k := b.Build()
	if resolver == nil {
		resolver = DefaultResolver
	}
	return &CommonLexer{
		lx:       lexer.New(k, streamName, source),
		resolver: resolver,
		macros:   make(map[string][]*token.Token),
	}
}

// NewFromString builds a CommonLexer over an in-memory source.
func NewFromString(b *kernel.Builder, streamName, source string, resolver Resolver) *CommonLexer {
	b.IncludeNewlines(true)
	b.AddSpecialDelimiter('#', DirectiveType)
	k := b.Build()
	if resolver == nil {
		resolver = DefaultResolver
	}
	st := reader.NewStack(nil)
	st.PushString(streamName, source)
	return &CommonLexer{
		lx:       lexer.NewFromStack(k, st),
		resolver: resolver,
		macros:   make(map[string][]*token.Token),
	}
}

// NewFromStack builds a CommonLexer over an already-constructed reader
// stack, letting callers supply their own afero.Fs (e.g. an in-memory
// filesystem for tests, or one preloaded with #include targets).
func NewFromStack(b *kernel.Builder, stack *reader.Stack, resolver Resolver) *CommonLexer {
	b.IncludeNewlines(true)
	b.AddSpecialDelimiter('#', DirectiveType)
	k := b.Build()
	if resolver == nil {
		resolver = DefaultResolver
	}
	return &CommonLexer{
		lx:       lexer.NewFromStack(k, stack),
		resolver: resolver,
		macros:   make(map[string][]*token.Token),
	}
}

// Lexer returns the wrapped lexer, for callers that need direct access to
// the reader stack (e.g. to push an initial set of predefined sources).
func (cl *CommonLexer) Lexer() *lexer.Lexer { return cl.lx }

// Next returns the next token after macro expansion and directive
// processing, or (nil, nil) at end of input.
func (cl *CommonLexer) Next() (*token.Token, error) {
	for {
		fromExpansion := len(cl.pushback) > 0
		tok, err := cl.pull()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, nil
		}

		if tok.Type == token.DelimNewline {
			continue
		}

		if tok.Type == DirectiveType && !fromExpansion {
			if err := cl.handleDirective(tok); err != nil {
				return nil, err
			}
			continue
		}

		if !cl.active() {
			continue
		}

		if tok.Type == token.Identifier {
			if expansion, ok := cl.macros[tok.Lexeme]; ok {
				cl.pushExpansion(expansion)
				continue
			}
		}

		return tok, nil
	}
}

// active reports whether the top of the if-stack currently permits
// emitting ordinary tokens.
func (cl *CommonLexer) active() bool {
	if len(cl.ifStack) == 0 {
		return true
	}
	return cl.ifStack[len(cl.ifStack)-1]
}

// pull returns the next raw token, from the pushback stack if non-empty,
// else from the underlying lexer. Unlike Next, pull performs no
// postprocessing at all.
func (cl *CommonLexer) pull() (*token.Token, error) {
	if n := len(cl.pushback); n > 0 {
		t := cl.pushback[n-1]
		cl.pushback = cl.pushback[:n-1]
		return t, nil
	}
	return cl.lx.Next()
}

// pushExpansion pushes a macro's token vector onto the pushback stack in
// reverse order, so the first token of the expansion is the next one
// pull returns -- this preserves left-to-right expansion order and
// allows mutual recursion between macros with no self-reference check,
// as the design mandates.
func (cl *CommonLexer) pushExpansion(tokens []*token.Token) {
	for i := len(tokens) - 1; i >= 0; i-- {
		cl.pushback = append(cl.pushback, tokens[i])
	}
}

func (cl *CommonLexer) handleDirective(dir *token.Token) error {
	switch dir.Lexeme {
	case directiveInclude:
		return cl.handleInclude(dir)
	case directiveDefine:
		return cl.handleDefine(dir)
	case directiveUndefine:
		return cl.handleUndefine(dir)
	case directiveIfdef:
		return cl.handleIfdef(dir, false)
	case directiveIfndef:
		return cl.handleIfdef(dir, true)
	case directiveEndif:
		return cl.handleEndif(dir)
	default:
		return errAt(dir, "unknown preprocessor directive %q", dir.Lexeme)
	}
}

func (cl *CommonLexer) handleInclude(dir *token.Token) error {
	t, err := cl.pull()
	if err != nil {
		return err
	}
	if t == nil || t.Type != token.String {
		return errAt(dir, "#include expects a string literal naming the file to include")
	}
	name, rc, err := cl.resolver(cl.lx.Stack().Fs(), t.StreamName, t.Lexeme)
	if err != nil {
		return errAt(dir, "#include target %q not found: %v", t.Lexeme, err)
	}
	cl.lx.Stack().Push(reader.NewStream(name, rc))
	return nil
}

func (cl *CommonLexer) handleDefine(dir *token.Token) error {
	name, err := cl.pull()
	if err != nil {
		return err
	}
	if name == nil || name.Type != token.Identifier {
		return errAt(dir, "#define expects an identifier")
	}
	var body []*token.Token
	for {
		t, err := cl.pull()
		if err != nil {
			return err
		}
		if t == nil {
			return errAt(dir, "truncated #define for %q", name.Lexeme)
		}
		if t.Type == token.DelimNewline {
			break
		}
		if t.Lexeme == name.Lexeme {
			return errAt(dir, "recursive definition of macro %q", name.Lexeme)
		}
		cp := *t
		body = append(body, &cp)
	}
	cl.macros[name.Lexeme] = body
	return nil
}

func (cl *CommonLexer) handleUndefine(dir *token.Token) error {
	name, err := cl.pull()
	if err != nil {
		return err
	}
	if name == nil || name.Type != token.Identifier {
		return errAt(dir, "#undefine expects an identifier")
	}
	delete(cl.macros, name.Lexeme)
	return nil
}

func (cl *CommonLexer) handleIfdef(dir *token.Token, negate bool) error {
	name, err := cl.pull()
	if err != nil {
		return err
	}
	if name == nil || name.Type != token.Identifier {
		return errAt(dir, "%s expects an identifier", dir.Lexeme)
	}
	_, defined := cl.macros[name.Lexeme]
	if negate {
		defined = !defined
	}
	cl.ifStack = append(cl.ifStack, defined)
	return nil
}

func (cl *CommonLexer) handleEndif(dir *token.Token) error {
	if len(cl.ifStack) == 0 {
		return errAt(dir, "#endif without matching #ifdef/#ifndef")
	}
	cl.ifStack = cl.ifStack[:len(cl.ifStack)-1]
	return nil
}
