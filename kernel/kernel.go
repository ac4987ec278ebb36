// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

// Package kernel holds the LexerKernel configuration (C1): the immutable,
// after-construction table of delimiters, comments, string pairs,
// special-prefix characters, keywords and emission flags that the lexer
// state machine runs against. A Kernel is built with Builder and then
// frozen; multiple Lexers may safely share one Kernel.
package kernel

import (
	"sort"
	"unicode/utf8"

	"github.com/BlackRookSoftware/CommonLang/localeconv"
	"github.com/BlackRookSoftware/CommonLang/token"
)

// firstRune decodes the first character of s, which may be more than one
// byte wide for any lexeme outside ASCII.
func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// Kernel is the frozen configuration consumed by the lexer. Its zero
// value is usable but empty; use Builder or Default to construct one with
// content.
type Kernel struct {
	delimStart           []rune // sorted, for binary-search probing
	delimTable           map[string]token.Type
	commentStartTable    map[string]token.Type
	commentEndTable      map[string]token.Type
	commentLineTable     map[string]token.Type
	endCommentDelimStart []rune
	stringDelimTable     map[rune]rune
	specialDelimTable    map[rune]token.Type
	keywordTable         map[string]token.Type
	ciKeywordTable       map[string]token.Type

	decimalSeparator rune

	includeSpaces      bool
	includeTabs        bool
	includeNewlines    bool
	includeStreamBreak bool
}

// DecimalSeparator returns the configured decimal-point character.
func (k *Kernel) DecimalSeparator() rune { return k.decimalSeparator }

// IncludeSpaces reports whether DELIM_SPACE tokens are emitted.
func (k *Kernel) IncludeSpaces() bool { return k.includeSpaces }

// IncludeTabs reports whether DELIM_TAB tokens are emitted.
func (k *Kernel) IncludeTabs() bool { return k.includeTabs }

// IncludeNewlines reports whether DELIM_NEWLINE tokens are emitted.
func (k *Kernel) IncludeNewlines() bool { return k.includeNewlines }

// IncludeStreamBreak reports whether END_OF_STREAM tokens are emitted.
func (k *Kernel) IncludeStreamBreak() bool { return k.includeStreamBreak }

// IsDelimiterStart reports whether r can begin a delimiter lexeme.
func (k *Kernel) IsDelimiterStart(r rune) bool {
	i := sort.Search(len(k.delimStart), func(i int) bool { return k.delimStart[i] >= r })
	return i < len(k.delimStart) && k.delimStart[i] == r
}

// IsEndCommentDelimiterStart reports whether r can begin a block-comment
// terminator delimiter.
func (k *Kernel) IsEndCommentDelimiterStart(r rune) bool {
	for _, c := range k.endCommentDelimStart {
		if c == r {
			return true
		}
	}
	return false
}

// DelimiterPrefix reports whether lexeme is a proper prefix of (or equal
// to) some delimiter, comment-start or line-comment-start entry, which is
// the condition the DELIMITER state uses to decide whether to keep
// extending its accumulator.
func (k *Kernel) DelimiterPrefix(lexeme string) bool {
	for s := range k.delimTable {
		if len(s) >= len(lexeme) && s[:len(lexeme)] == lexeme {
			return true
		}
	}
	for s := range k.commentLineTable {
		if len(s) >= len(lexeme) && s[:len(lexeme)] == lexeme {
			return true
		}
	}
	return false
}

// LookupCommentStart resolves lexeme as a block-comment opener.
func (k *Kernel) LookupCommentStart(lexeme string) (token.Type, bool) {
	t, ok := k.commentStartTable[lexeme]
	return t, ok
}

// LookupCommentEnd resolves lexeme as a block-comment closer.
func (k *Kernel) LookupCommentEnd(lexeme string) (token.Type, bool) {
	t, ok := k.commentEndTable[lexeme]
	return t, ok
}

// LookupCommentLine resolves lexeme as a line-comment opener.
func (k *Kernel) LookupCommentLine(lexeme string) (token.Type, bool) {
	t, ok := k.commentLineTable[lexeme]
	return t, ok
}

// LookupDelimiter resolves lexeme as a plain delimiter.
func (k *Kernel) LookupDelimiter(lexeme string) (token.Type, bool) {
	t, ok := k.delimTable[lexeme]
	return t, ok
}

// LookupStringDelimiter returns the closing character configured for an
// opening character, e.g. '"' -> '"' or '[' -> ']'.
func (k *Kernel) LookupStringDelimiter(open rune) (rune, bool) {
	c, ok := k.stringDelimTable[open]
	return c, ok
}

// LookupSpecial returns the user type registered for a special-prefix
// character.
func (k *Kernel) LookupSpecial(r rune) (token.Type, bool) {
	t, ok := k.specialDelimTable[r]
	return t, ok
}

// LookupKeyword resolves lexeme against the case-sensitive keyword table
// first, then the case-insensitive one, matching the lookup precedence
// required of identifier finalization.
func (k *Kernel) LookupKeyword(lexeme, lowered string) (token.Type, bool) {
	if t, ok := k.keywordTable[lexeme]; ok {
		return t, true
	}
	if t, ok := k.ciKeywordTable[lowered]; ok {
		return t, true
	}
	return 0, false
}

// Builder accumulates LexerKernel configuration before it is frozen with
// Build. The zero value is ready to use.
type Builder struct {
	k Kernel

	delimStart           map[rune]struct{}
	endCommentDelimStart map[rune]struct{}
}

// NewBuilder returns an empty Builder with all Include flags false and the
// decimal separator defaulted from the host locale.
func NewBuilder() *Builder {
	b := &Builder{}
	b.k.decimalSeparator = localeconv.DefaultDecimalSeparator()
	return b
}

func (b *Builder) ensureMaps() {
	if b.k.delimTable == nil {
		b.k.delimTable = make(map[string]token.Type)
		b.k.commentStartTable = make(map[string]token.Type)
		b.k.commentEndTable = make(map[string]token.Type)
		b.k.commentLineTable = make(map[string]token.Type)
		b.k.stringDelimTable = make(map[rune]rune)
		b.k.specialDelimTable = make(map[rune]token.Type)
		b.k.keywordTable = make(map[string]token.Type)
		b.k.ciKeywordTable = make(map[string]token.Type)
		b.delimStart = make(map[rune]struct{})
		b.endCommentDelimStart = make(map[rune]struct{})
	}
}

// AddDelimiter registers a plain delimiter lexeme.
func (b *Builder) AddDelimiter(lexeme string, t token.Type) *Builder {
	b.ensureMaps()
	b.k.delimTable[lexeme] = t
	b.delimStart[firstRune(lexeme)] = struct{}{}
	return b
}

// AddComment registers a block comment's start and end delimiters. Both
// are also registered as plain delimiters, per the invariant that every
// comment delimiter is discoverable by the delimiter DFA.
func (b *Builder) AddComment(start, end string, t token.Type) *Builder {
	b.ensureMaps()
	b.k.commentStartTable[start] = t
	b.k.commentEndTable[end] = t
	b.k.delimTable[start] = t
	b.k.delimTable[end] = t
	b.delimStart[firstRune(start)] = struct{}{}
	b.delimStart[firstRune(end)] = struct{}{}
	b.endCommentDelimStart[firstRune(end)] = struct{}{}
	return b
}

// AddLineComment registers a line comment's start delimiter.
func (b *Builder) AddLineComment(start string, t token.Type) *Builder {
	b.ensureMaps()
	b.k.commentLineTable[start] = t
	b.k.delimTable[start] = t
	b.delimStart[firstRune(start)] = struct{}{}
	return b
}

// AddStringDelimiter registers open/close characters for string literals,
// e.g. AddStringDelimiter('"', '"') or AddStringDelimiter('[', ']').
func (b *Builder) AddStringDelimiter(open, closeCh rune) *Builder {
	b.ensureMaps()
	b.k.stringDelimTable[open] = closeCh
	return b
}

// AddSpecialDelimiter registers a single-character special prefix, such
// as '#' for preprocessor directives.
func (b *Builder) AddSpecialDelimiter(prefix rune, t token.Type) *Builder {
	b.ensureMaps()
	b.k.specialDelimTable[prefix] = t
	return b
}

// AddKeyword registers a case-sensitive keyword.
func (b *Builder) AddKeyword(lexeme string, t token.Type) *Builder {
	b.ensureMaps()
	b.k.keywordTable[lexeme] = t
	return b
}

// AddCaseInsensitiveKeyword registers a case-insensitive keyword. lexeme
// should already be lower-cased.
func (b *Builder) AddCaseInsensitiveKeyword(lexeme string, t token.Type) *Builder {
	b.ensureMaps()
	b.k.ciKeywordTable[lexeme] = t
	return b
}

// SetDecimalSeparator overrides the default, locale-derived decimal
// separator.
func (b *Builder) SetDecimalSeparator(r rune) *Builder {
	b.k.decimalSeparator = r
	return b
}

// IncludeSpaces toggles emission of DELIM_SPACE tokens.
func (b *Builder) IncludeSpaces(v bool) *Builder { b.k.includeSpaces = v; return b }

// IncludeTabs toggles emission of DELIM_TAB tokens.
func (b *Builder) IncludeTabs(v bool) *Builder { b.k.includeTabs = v; return b }

// IncludeNewlines toggles emission of DELIM_NEWLINE tokens.
func (b *Builder) IncludeNewlines(v bool) *Builder { b.k.includeNewlines = v; return b }

// IncludeStreamBreak toggles emission of END_OF_STREAM tokens.
func (b *Builder) IncludeStreamBreak(v bool) *Builder { b.k.includeStreamBreak = v; return b }

// Build freezes the accumulated configuration into a Kernel. The returned
// Kernel is safe to share across multiple Lexers.
func (b *Builder) Build() *Kernel {
	b.ensureMaps()
	k := b.k
	k.delimStart = make([]rune, 0, len(b.delimStart))
	for r := range b.delimStart {
		k.delimStart = append(k.delimStart, r)
	}
	sort.Slice(k.delimStart, func(i, j int) bool { return k.delimStart[i] < k.delimStart[j] })
	k.endCommentDelimStart = make([]rune, 0, len(b.endCommentDelimStart))
	for r := range b.endCommentDelimStart {
		k.endCommentDelimStart = append(k.endCommentDelimStart, r)
	}
	return &k
}

// Default returns a ready-made Kernel configured with common C-style
// lexical conventions: "//" and "/* */" comments, '"' and '\'' delimited
// strings, the usual arithmetic and grouping delimiters, and no keywords.
// It exists so callers (and cmd/lexdump) have a concrete starting point
// without hand-assembling a Builder.
func Default() *Kernel {
	b := NewBuilder()
	b.AddLineComment("//", 100)
	b.AddComment("/*", "*/", 101)
	b.AddStringDelimiter('"', '"')
	b.AddStringDelimiter('\'', '\'')
	for i, d := range []string{
		"+", "-", "*", "/", "%", "=", "==", "!=", "<", ">", "<=", ">=",
		"(", ")", "{", "}", "[", "]", ",", ";", ":", ".", "&&", "||", "!",
	} {
		b.AddDelimiter(d, token.Type(i))
	}
	b.IncludeNewlines(false)
	b.IncludeSpaces(false)
	b.IncludeTabs(false)
	return b.Build()
}
