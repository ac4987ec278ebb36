// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

package lexer

import (
	"strings"
	"unicode"

	"github.com/BlackRookSoftware/CommonLang/reader"
	"github.com/BlackRookSoftware/CommonLang/token"
)

// continueIdentifier accumulates letters, digits and underscores, then
// resolves the finished lexeme against the keyword tables.
func (lx *Lexer) continueIdentifier() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if isIdentifierRune(r) {
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	}
	lx.pushBack(r)
	lx.st = stUnknown
	lexeme := lx.lexeme.String()
	t, ok := lx.kernel.LookupKeyword(lexeme, strings.ToLower(lexeme))
	if !ok {
		t = token.Identifier
	}
	return lx.emit(t, lexeme), false, nil
}

// continueSpecial accumulates a special-prefix-driven token: everything
// up to the next character that would itself begin a recognized lexeme.
func (lx *Lexer) continueSpecial() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if !lx.beginsNewToken(r) {
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	}
	lx.pushBack(r)
	lx.st = stUnknown
	return lx.emit(lx.specialType, lx.lexeme.String()), false, nil
}

// continueIllegal accumulates an unrecognized run until the next
// character would itself begin a recognized lexeme.
func (lx *Lexer) continueIllegal() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if !lx.beginsNewToken(r) {
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	}
	lx.pushBack(r)
	lx.st = stUnknown
	return lx.emit(token.Illegal, lx.lexeme.String()), false, nil
}

// continueString processes escapes and accumulates the decoded string
// value until the configured closing character is seen.
func (lx *Lexer) continueString() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	switch {
	case r == lx.stringCloser:
		lx.st = stUnknown
		return lx.emit(token.String, lx.lexeme.String()), false, nil

	case r == '\n' || r == reader.EndOfStream || r == endOfLexer:
		lx.pushBack(r)
		lx.st = stUnknown
		return lx.emit(token.Illegal, lx.lexeme.String()), false, nil

	case r == '\\':
		return lx.continueStringEscape()

	default:
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	}
}

func (lx *Lexer) continueStringEscape() (*token.Token, bool, error) {
	e, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	switch e {
	case '0':
		lx.lexeme.WriteRune(0)
	case 'b':
		lx.lexeme.WriteRune('\b')
	case 't':
		lx.lexeme.WriteRune('\t')
	case 'n':
		lx.lexeme.WriteRune('\n')
	case 'f':
		lx.lexeme.WriteRune('\f')
	case 'r':
		lx.lexeme.WriteRune('\r')
	case '/':
		lx.lexeme.WriteRune('/')
	case '\\':
		lx.lexeme.WriteRune('\\')
	case lx.stringCloser:
		lx.lexeme.WriteRune(lx.stringCloser)
	case 'u':
		v, ok, err := lx.readHexDigits(4)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			lx.st = stUnknown
			return lx.emit(token.Illegal, lx.lexeme.String()), false, nil
		}
		lx.lexeme.WriteRune(v)
	case 'x':
		v, ok, err := lx.readHexDigits(2)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			lx.st = stUnknown
			return lx.emit(token.Illegal, lx.lexeme.String()), false, nil
		}
		lx.lexeme.WriteRune(v)
	default:
		lx.st = stUnknown
		return lx.emit(token.Illegal, lx.lexeme.String()), false, nil
	}
	return nil, true, nil
}

// readHexDigits consumes exactly n hex digits and returns their value.
// ok is false if a non-hex digit was encountered; the offending rune is
// not consumed further (it has already been read, so the string state is
// abandoned rather than re-fed, matching "a non-hex digit inside a \u or
// \x sequence is ILLEGAL").
func (lx *Lexer) readHexDigits(n int) (rune, bool, error) {
	var v rune
	for i := 0; i < n; i++ {
		r, err := lx.next()
		if err != nil {
			return 0, false, err
		}
		if !isHexDigit(r) {
			return 0, false, nil
		}
		v = v<<4 | hexVal(r)
	}
	return v, true, nil
}

// continueDelimiter implements maximal-munch delimiter accumulation,
// with immediate hand-off to COMMENT/LINE_COMMENT on an exact match.
func (lx *Lexer) continueDelimiter() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	candidate := lx.lexeme.String() + string(r)

	if t, ok := lx.kernel.LookupCommentStart(candidate); ok {
		_ = t
		lx.lexeme.Reset()
		lx.st = stComment
		return nil, true, nil
	}
	if t, ok := lx.kernel.LookupCommentLine(candidate); ok {
		_ = t
		lx.lexeme.Reset()
		lx.st = stLineComment
		return nil, true, nil
	}
	if lx.kernel.DelimiterPrefix(candidate) {
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	}

	lx.pushBack(r)
	lx.st = stUnknown
	return lx.finalizeDelimiter(lx.lexeme.String()), false, nil
}

// finalizeDelimiter resolves a finished delimiter lexeme through the
// comment-start, comment-end, comment-line, then plain-delimiter tables,
// in that order.
func (lx *Lexer) finalizeDelimiter(lexeme string) *token.Token {
	if t, ok := lx.kernel.LookupCommentStart(lexeme); ok {
		return lx.emit(t, lexeme)
	}
	if t, ok := lx.kernel.LookupCommentEnd(lexeme); ok {
		return lx.emit(t, lexeme)
	}
	if t, ok := lx.kernel.LookupCommentLine(lexeme); ok {
		return lx.emit(t, lexeme)
	}
	if t, ok := lx.kernel.LookupDelimiter(lexeme); ok {
		return lx.emit(t, lexeme)
	}
	return lx.emit(token.Illegal, lexeme)
}

// continuePoint resolves the ambiguity of a decimal separator that is
// also a registered delimiter: a following digit commits to FLOAT,
// anything else finalizes the separator as a delimiter.
func (lx *Lexer) continuePoint() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if isDigit(r) {
		lx.lexeme.WriteRune(r)
		lx.st = stFloat
		return nil, true, nil
	}
	lx.pushBack(r)
	lx.st = stUnknown
	return lx.finalizeDelimiter(lx.lexeme.String()), false, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// continueFloat accumulates fractional digits, diverts into EXPONENT on
// e/E, and treats a following letter as ILLEGAL (a floating literal
// followed by a letter is never a valid two-token split, unlike a plain
// integer).
func (lx *Lexer) continueFloat() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	switch {
	case isDigit(r):
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	case r == 'e' || r == 'E':
		lx.lexeme.WriteRune(r)
		lx.st = stExponent
		return nil, true, nil
	case r == '_' || isLetterRune(r):
		lx.lexeme.WriteRune(r)
		lx.st = stIllegal
		return nil, true, nil
	default:
		lx.pushBack(r)
		lx.st = stUnknown
		return lx.emit(token.Number, lx.lexeme.String()), false, nil
	}
}

// continueExponent expects an optional sign or the first exponent digit
// right after e/E; anything else is ILLEGAL.
func (lx *Lexer) continueExponent() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	switch {
	case r == '+' || r == '-':
		lx.lexeme.WriteRune(r)
		lx.st = stExponentPower
		return nil, true, nil
	case isDigit(r):
		lx.lexeme.WriteRune(r)
		lx.st = stExponentPower
		return nil, true, nil
	default:
		lx.pushBack(r)
		lx.st = stUnknown
		return lx.emit(token.Illegal, lx.lexeme.String()), false, nil
	}
}

// continueExponentPower accumulates exponent digits; the literal must
// have at least one digit after the optional sign to be valid.
func (lx *Lexer) continueExponentPower() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if isDigit(r) {
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	}
	lx.pushBack(r)
	lx.st = stUnknown
	lexeme := lx.lexeme.String()
	last := lexeme[len(lexeme)-1]
	if last < '0' || last > '9' {
		return lx.emit(token.Illegal, lexeme), false, nil
	}
	return lx.emit(token.Number, lexeme), false, nil
}

// continueNumber accumulates a plain integer, diverting to FLOAT or
// EXPONENT as soon as a decimal separator or e/E is seen. A following
// letter is not an error here: the integer finalizes and the letter
// starts a fresh identifier token on the next call.
func (lx *Lexer) continueNumber() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	switch {
	case isDigit(r):
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	case r == lx.kernel.DecimalSeparator():
		lx.lexeme.WriteRune(r)
		lx.st = stFloat
		return nil, true, nil
	case r == 'e' || r == 'E':
		lx.lexeme.WriteRune(r)
		lx.st = stExponent
		return nil, true, nil
	default:
		lx.pushBack(r)
		lx.st = stUnknown
		return lx.emit(token.Number, lx.lexeme.String()), false, nil
	}
}

// continueHexInteger0 handles the character right after a leading '0'.
func (lx *Lexer) continueHexInteger0() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	switch {
	case r == 'x' || r == 'X':
		lx.lexeme.WriteRune(r)
		lx.st = stHexInteger1
		return nil, true, nil
	case isDigit(r):
		lx.lexeme.WriteRune(r)
		lx.st = stNumber
		return nil, true, nil
	case r == lx.kernel.DecimalSeparator():
		lx.lexeme.WriteRune(r)
		lx.st = stFloat
		return nil, true, nil
	case r == 'e' || r == 'E':
		lx.lexeme.WriteRune(r)
		lx.st = stExponent
		return nil, true, nil
	case r == '_' || isLetterRune(r):
		lx.lexeme.WriteRune(r)
		lx.st = stIllegal
		return nil, true, nil
	default:
		lx.pushBack(r)
		lx.st = stUnknown
		return lx.emit(token.Number, lx.lexeme.String()), false, nil
	}
}

// continueHexInteger1 expects the first hex digit right after "0x"/"0X".
func (lx *Lexer) continueHexInteger1() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if isHexDigit(r) {
		lx.lexeme.WriteRune(r)
		lx.st = stHexInteger
		return nil, true, nil
	}
	lx.pushBack(r)
	lx.st = stUnknown
	return lx.emit(token.Illegal, lx.lexeme.String()), false, nil
}

// continueHexInteger accumulates hex digits until one runs out.
func (lx *Lexer) continueHexInteger() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if isHexDigit(r) {
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	}
	lx.pushBack(r)
	lx.st = stUnknown
	return lx.emit(token.Number, lx.lexeme.String()), false, nil
}

func isLetterRune(r rune) bool {
	return unicode.IsLetter(r)
}

// continueComment discards block-comment content, watching for the first
// character of a configured terminator.
func (lx *Lexer) continueComment() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if r == reader.EndOfStream || r == endOfLexer {
		lx.pushBack(r)
		lx.st = stUnknown
		return nil, true, nil
	}
	if lx.kernel.IsEndCommentDelimiterStart(r) {
		lx.lexeme.Reset()
		lx.lexeme.WriteRune(r)
		lx.st = stDelimComment
	}
	return nil, true, nil
}

// continueDelimComment accumulates a tentative block-comment terminator.
func (lx *Lexer) continueDelimComment() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	candidate := lx.lexeme.String() + string(r)
	if _, ok := lx.kernel.LookupCommentEnd(candidate); ok {
		lx.lexeme.Reset()
		lx.st = stUnknown
		return nil, true, nil
	}
	if lx.kernel.DelimiterPrefix(candidate) {
		lx.lexeme.WriteRune(r)
		return nil, true, nil
	}
	lx.lexeme.Reset()
	lx.st = stComment
	return nil, true, nil
}

// continueLineComment discards content up to (and including) the next
// newline.
func (lx *Lexer) continueLineComment() (*token.Token, bool, error) {
	r, err := lx.next()
	if err != nil {
		return nil, false, err
	}
	if r == '\n' {
		lx.st = stUnknown
		return nil, true, nil
	}
	if r == reader.EndOfStream || r == endOfLexer {
		lx.pushBack(r)
		lx.st = stUnknown
		return nil, true, nil
	}
	return nil, true, nil
}
