package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackRookSoftware/CommonLang/token"
)

func TestBuilderDelimiterLookup(t *testing.T) {
	k := NewBuilder().
		AddDelimiter("+", token.Type(1)).
		AddDelimiter("++", token.Type(2)).
		Build()

	assert.True(t, k.IsDelimiterStart('+'))
	assert.False(t, k.IsDelimiterStart('-'))

	typ, ok := k.LookupDelimiter("+")
	require.True(t, ok)
	assert.Equal(t, token.Type(1), typ)

	typ, ok = k.LookupDelimiter("++")
	require.True(t, ok)
	assert.Equal(t, token.Type(2), typ)

	_, ok = k.LookupDelimiter("+++")
	assert.False(t, ok)
}

func TestBuilderCommentRegistersAsDelimiterToo(t *testing.T) {
	k := NewBuilder().AddComment("/*", "*/", token.Type(10)).Build()

	_, ok := k.LookupDelimiter("/*")
	assert.True(t, ok, "comment start must also be a plain delimiter")
	_, ok = k.LookupDelimiter("*/")
	assert.True(t, ok, "comment end must also be a plain delimiter")

	typ, ok := k.LookupCommentStart("/*")
	require.True(t, ok)
	assert.Equal(t, token.Type(10), typ)

	assert.True(t, k.IsEndCommentDelimiterStart('*'))
	assert.False(t, k.IsEndCommentDelimiterStart('/'))
}

func TestBuilderLineComment(t *testing.T) {
	k := NewBuilder().AddLineComment("//", token.Type(20)).Build()
	typ, ok := k.LookupCommentLine("//")
	require.True(t, ok)
	assert.Equal(t, token.Type(20), typ)
}

func TestDelimiterPrefix(t *testing.T) {
	k := NewBuilder().AddDelimiter("==", token.Type(1)).Build()
	assert.True(t, k.DelimiterPrefix("="))
	assert.True(t, k.DelimiterPrefix("=="))
	assert.False(t, k.DelimiterPrefix("=!"))
}

func TestStringDelimiter(t *testing.T) {
	k := NewBuilder().AddStringDelimiter('"', '"').AddStringDelimiter('[', ']').Build()
	c, ok := k.LookupStringDelimiter('"')
	require.True(t, ok)
	assert.Equal(t, '"', c)
	c, ok = k.LookupStringDelimiter('[')
	require.True(t, ok)
	assert.Equal(t, ']', c)
	_, ok = k.LookupStringDelimiter('\'')
	assert.False(t, ok)
}

func TestKeywordLookupPrecedence(t *testing.T) {
	k := NewBuilder().
		AddKeyword("If", token.Type(1)).
		AddCaseInsensitiveKeyword("if", token.Type(2)).
		Build()

	typ, ok := k.LookupKeyword("If", "if")
	require.True(t, ok)
	assert.Equal(t, token.Type(1), typ, "case-sensitive table wins when both match")

	typ, ok = k.LookupKeyword("IF", "if")
	require.True(t, ok)
	assert.Equal(t, token.Type(2), typ, "falls back to case-insensitive table")

	_, ok = k.LookupKeyword("else", "else")
	assert.False(t, ok)
}

func TestIncludeFlagsDefaultFalse(t *testing.T) {
	k := NewBuilder().Build()
	assert.False(t, k.IncludeSpaces())
	assert.False(t, k.IncludeTabs())
	assert.False(t, k.IncludeNewlines())
	assert.False(t, k.IncludeStreamBreak())
}

func TestIncludeFlagsToggle(t *testing.T) {
	k := NewBuilder().
		IncludeSpaces(true).
		IncludeTabs(true).
		IncludeNewlines(true).
		IncludeStreamBreak(true).
		Build()
	assert.True(t, k.IncludeSpaces())
	assert.True(t, k.IncludeTabs())
	assert.True(t, k.IncludeNewlines())
	assert.True(t, k.IncludeStreamBreak())
}

func TestSetDecimalSeparator(t *testing.T) {
	k := NewBuilder().SetDecimalSeparator(',').Build()
	assert.Equal(t, ',', k.DecimalSeparator())
}

func TestBuilderDelimiterStartDecodesMultibyteRune(t *testing.T) {
	k := NewBuilder().
		AddDelimiter("€", token.Type(1)).
		AddLineComment("¶¶", token.Type(2)).
		AddComment("«", "»", token.Type(3)).
		Build()

	assert.True(t, k.IsDelimiterStart('€'))
	assert.True(t, k.IsDelimiterStart('¶'))
	assert.True(t, k.IsDelimiterStart('«'))
	assert.True(t, k.IsEndCommentDelimiterStart('»'))

	// "€" is 0xE2 0x82 0xAC in UTF-8; byte-indexing would have registered
	// the lead byte 0xE2 as a rune instead of the real character.
	assert.False(t, k.IsDelimiterStart(rune(0xE2)), "must not register the lead byte as a garbage rune")
}

func TestDefaultKernel(t *testing.T) {
	k := Default()
	assert.True(t, k.IsDelimiterStart('+'))
	_, ok := k.LookupStringDelimiter('"')
	assert.True(t, ok)
	_, ok = k.LookupCommentLine("//")
	assert.True(t, ok)
	_, ok = k.LookupCommentStart("/*")
	assert.True(t, ok)
}
