// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

// Package lexer implements the deterministic character-stream tokenizer
// (C3): an 18-state machine that consumes runes from a reader.Stack under
// the rules of a kernel.Kernel and emits token.Token records. The public
// surface is a single pull method, Next, in the spirit of the teacher's
// StateFn continuation-passing design (github.com/db47h/lex), adapted
// here to dispatch on an explicit, named state enumeration rather than
// closures, since the kernel's behaviour is data, not code, per state.
package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/BlackRookSoftware/CommonLang/diag"
	"github.com/BlackRookSoftware/CommonLang/kernel"
	"github.com/BlackRookSoftware/CommonLang/reader"
	"github.com/BlackRookSoftware/CommonLang/token"
)

// endOfLexer is the internal rune sentinel fed through the same dispatch
// path as ordinary characters when the reader stack has no current
// stream left. It is never observed outside this package.
const endOfLexer rune = '￿'

// state names the lexer's internal states. Only the reserved token.Type
// constants are ever visible to callers; state is a separate, unexported
// enumeration so the two spaces can never be confused.
type state int

const (
	stUnknown state = iota
	stIllegal
	stPoint
	stFloat
	stExponent
	stExponentPower
	stNumber
	stHexInteger0
	stHexInteger1
	stHexInteger
	stIdentifier
	stSpecial
	stString
	stDelimiter
	stComment
	stDelimComment
	stLineComment
	stEndOfLexer
)

// Lexer is the C3 state machine. A Lexer owns exactly one reader.Stack
// (possibly shared with a sibling Lexer in a strict hand-off, see
// NewFromStack) and is not safe for concurrent use.
type Lexer struct {
	kernel *kernel.Kernel
	stack  *reader.Stack

	st state

	lexeme strings.Builder

	hasPushback bool
	pushback    rune

	stringCloser rune
	specialType  token.Type

	tokStream string
	tokLine   int
	tokText   string

	sink  diag.Sink
	debug bool

	done bool
}

// New creates a Lexer over a single named source, wrapping it in a new,
// privately owned reader.Stack.
func New(k *kernel.Kernel, streamName string, src io.Reader) *Lexer {
	st := reader.NewStack(nil)
	st.Push(reader.NewStream(streamName, src))
	return NewFromStack(k, st)
}

// NewFromString creates a Lexer over an in-memory source.
func NewFromString(k *kernel.Kernel, streamName, source string) *Lexer {
	st := reader.NewStack(nil)
	st.PushString(streamName, source)
	return NewFromStack(k, st)
}

// NewFromStack creates a Lexer that pulls from an existing reader.Stack,
// allowing a host lexer to later hand the same stack off to a guest
// lexer for composed-language scenarios (§5 concurrency model: the stack
// may be shared only under a strict sequential hand-off).
func NewFromStack(k *kernel.Kernel, stack *reader.Stack) *Lexer {
	return &Lexer{kernel: k, stack: stack, st: stUnknown}
}

// Stack returns the Lexer's reader stack, so callers can push additional
// sources (e.g. the preprocessor pushing an #include target) or hand the
// stack to a sibling Lexer.
func (lx *Lexer) Stack() *reader.Stack { return lx.stack }

// SetDiagnostics installs a diagnostic sink that every emitted token is
// reported to. A nil sink (the default) disables reporting. This is the
// per-Lexer equivalent of the kernel's historical global debug flag (see
// design notes).
func (lx *Lexer) SetDiagnostics(sink diag.Sink, enabled bool) {
	lx.sink = sink
	lx.debug = enabled
}

// Next returns the next token from the input, or (nil, nil) when every
// stream on the reader stack has been exhausted. A non-nil error
// indicates an unrecoverable I/O failure from the underlying source;
// nothing is retried afterwards.
func (lx *Lexer) Next() (*token.Token, error) {
	if lx.done {
		return nil, nil
	}
	for {
		tok, again, err := lx.step()
		if err != nil {
			return nil, err
		}
		if again {
			continue
		}
		if tok == nil {
			lx.done = true
			return nil, nil
		}
		if lx.debug && lx.sink != nil {
			lx.sink.Token(*tok)
		}
		return tok, nil
	}
}

// startToken records the stream/line/lexeme-start bookkeeping for a fresh
// token, called the instant the dispatcher commits to a new lexeme.
func (lx *Lexer) startToken() {
	lx.tokStream = lx.stack.CurrentStreamName()
	lx.tokLine = lx.stack.CurrentLineNumber()
	if s := lx.stack.Peek(); s != nil {
		lx.tokText = s.LineText()
	}
	lx.lexeme.Reset()
}

// emit builds the Token for the in-progress lexeme.
func (lx *Lexer) emit(t token.Type, lexeme string) *token.Token {
	return &token.Token{
		StreamName: lx.tokStream,
		Lexeme:     lexeme,
		LineText:   lx.tokText,
		LineNumber: lx.tokLine,
		Type:       t,
	}
}

// next reads the next rune, honouring the single pending delim-break
// slot, and translates stack exhaustion into the endOfLexer sentinel. A
// non-nil error means the underlying source failed (spec §4.2/§7 kind 1)
// and must be propagated from Next as-is, without retrying.
func (lx *Lexer) next() (rune, error) {
	if lx.hasPushback {
		lx.hasPushback = false
		return lx.pushback, nil
	}
	if lx.stack.IsEmpty() {
		return endOfLexer, nil
	}
	return lx.stack.ReadChar()
}

// pushBack re-feeds r on the next call to next. Only one level of
// pushback is supported, matching the single pending delim-break
// character the design allows.
func (lx *Lexer) pushBack(r rune) {
	lx.pushback = r
	lx.hasPushback = true
}

// step executes exactly one state transition. If again is true the
// caller should call step once more without inspecting tok (used for
// silent transitions such as skipped whitespace or closed comments). A
// nil tok with again false signals end of lexer.
func (lx *Lexer) step() (tok *token.Token, again bool, err error) {
	switch lx.st {
	case stUnknown:
		return lx.dispatchUnknown()
	case stIdentifier:
		return lx.continueIdentifier()
	case stSpecial:
		return lx.continueSpecial()
	case stString:
		return lx.continueString()
	case stDelimiter:
		return lx.continueDelimiter()
	case stComment:
		return lx.continueComment()
	case stDelimComment:
		return lx.continueDelimComment()
	case stLineComment:
		return lx.continueLineComment()
	case stPoint:
		return lx.continuePoint()
	case stFloat:
		return lx.continueFloat()
	case stExponent:
		return lx.continueExponent()
	case stExponentPower:
		return lx.continueExponentPower()
	case stNumber:
		return lx.continueNumber()
	case stHexInteger0:
		return lx.continueHexInteger0()
	case stHexInteger1:
		return lx.continueHexInteger1()
	case stHexInteger:
		return lx.continueHexInteger()
	case stIllegal:
		return lx.continueIllegal()
	case stEndOfLexer:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("lexer: unreachable state %d", lx.st)
	}
}

// dispatchUnknown implements the total dispatch order from a fresh
// character, in the exact precedence the design mandates: end sentinels,
// whitespace, decimal separator, special prefix, string start, delimiter
// start, identifier start, numeric start, else illegal.
func (lx *Lexer) dispatchUnknown() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}

	switch {
	case r == endOfLexer:
		lx.st = stEndOfLexer
		return nil, false, nil

	case r == reader.EndOfStream:
		popped := lx.stack.Pop()
		if lx.kernel.IncludeStreamBreak() {
			lx.tokStream = popped.Name()
			lx.tokLine = popped.LineNumber()
			lx.tokText = popped.LineText()
			return lx.emit(token.EndOfStream, ""), false, nil
		}
		return nil, true, nil

	case r == '\n':
		if lx.kernel.IncludeNewlines() {
			lx.startToken()
			return lx.emit(token.DelimNewline, ""), false, nil
		}
		return nil, true, nil

	case r == ' ':
		if lx.kernel.IncludeSpaces() {
			lx.startToken()
			return lx.emit(token.DelimSpace, " "), false, nil
		}
		return nil, true, nil

	case r == '\t':
		if lx.kernel.IncludeTabs() {
			lx.startToken()
			return lx.emit(token.DelimTab, "\t"), false, nil
		}
		return nil, true, nil

	case unicode.IsSpace(r):
		return nil, true, nil

	case r == lx.kernel.DecimalSeparator():
		lx.startToken()
		lx.lexeme.WriteRune(r)
		if lx.kernel.IsDelimiterStart(r) {
			lx.st = stPoint
		} else {
			lx.st = stFloat
		}
		return nil, true, nil

	case lx.isSpecialStart(r):
		lx.startToken()
		lx.specialType, _ = lx.kernel.LookupSpecial(r)
		lx.lexeme.WriteRune(r)
		lx.st = stSpecial
		return nil, true, nil

	case lx.isStringStart(r):
		lx.startToken()
		lx.stringCloser, _ = lx.kernel.LookupStringDelimiter(r)
		lx.st = stString
		return nil, true, nil

	case lx.kernel.IsDelimiterStart(r):
		lx.startToken()
		lx.lexeme.WriteRune(r)
		lx.st = stDelimiter
		return nil, true, nil

	case r == '_' || unicode.IsLetter(r):
		lx.startToken()
		lx.lexeme.WriteRune(r)
		lx.st = stIdentifier
		return nil, true, nil

	case r == '0':
		lx.startToken()
		lx.lexeme.WriteRune(r)
		lx.st = stHexInteger0
		return nil, true, nil

	case unicode.IsDigit(r):
		lx.startToken()
		lx.lexeme.WriteRune(r)
		lx.st = stNumber
		return nil, true, nil

	default:
		lx.startToken()
		lx.lexeme.WriteRune(r)
		lx.st = stIllegal
		return nil, true, nil
	}
}

func (lx *Lexer) isSpecialStart(r rune) bool {
	_, ok := lx.kernel.LookupSpecial(r)
	return ok
}

func (lx *Lexer) isStringStart(r rune) bool {
	_, ok := lx.kernel.LookupStringDelimiter(r)
	return ok
}

// beginsNewToken reports whether r ends an ILLEGAL or SPECIAL run: an end
// sentinel, whitespace, the decimal separator, or the first character of
// a special-prefix, string or delimiter lexeme. Letters and digits do not
// end a run, even though they would start an identifier or number under
// dispatchUnknown.
func (lx *Lexer) beginsNewToken(r rune) bool {
	switch {
	case r == endOfLexer, r == reader.EndOfStream:
		return true
	case unicode.IsSpace(r):
		return true
	case r == lx.kernel.DecimalSeparator():
		return true
	case lx.isSpecialStart(r):
		return true
	case lx.isStringStart(r):
		return true
	case lx.kernel.IsDelimiterStart(r):
		return true
	default:
		return false
	}
}

func isIdentifierRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexVal(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	default:
		return r - 'A' + 10
	}
}
