package preprocessor

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackRookSoftware/CommonLang/kernel"
	"github.com/BlackRookSoftware/CommonLang/reader"
	"github.com/BlackRookSoftware/CommonLang/token"
)

func lexAll(t *testing.T, cl *CommonLexer) []token.Token {
	t.Helper()
	var out []token.Token
	for {
		tok, err := cl.Next()
		require.NoError(t, err)
		if tok == nil {
			return out
		}
		out = append(out, *tok)
	}
}

func newBuilder() *kernel.Builder {
	b := kernel.NewBuilder()
	b.AddDelimiter("(", token.Type(100))
	b.AddDelimiter(")", token.Type(101))
	b.AddDelimiter(",", token.Type(102))
	b.AddComment("/*", "*/", token.Type(200))
	b.AddLineComment("//", token.Type(201))
	b.AddStringDelimiter('"', '"')
	return b
}

func TestCommonLexerPassesOrdinaryTokens(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "foo(bar)", nil)
	toks := lexAll(t, cl)
	require.Len(t, toks, 4)
	assert.Equal(t, token.Identifier, toks[0].Type)
	assert.Equal(t, "foo", toks[0].Lexeme)
	assert.Equal(t, "bar", toks[2].Lexeme)
}

func TestCommonLexerStripsNewlines(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "foo\nbar\n", nil)
	toks := lexAll(t, cl)
	require.Len(t, toks, 2)
	for _, tk := range toks {
		assert.NotEqual(t, token.DelimNewline, tk.Type)
	}
}

func TestCommonLexerDefineAndExpand(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "#define FOO bar\nFOO(FOO)\n", nil)
	toks := lexAll(t, cl)
	require.Len(t, toks, 4)
	assert.Equal(t, "bar", toks[0].Lexeme)
	assert.Equal(t, "(", toks[1].Lexeme)
	assert.Equal(t, "bar", toks[2].Lexeme)
	assert.Equal(t, ")", toks[3].Lexeme)
}

func TestCommonLexerUndefine(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "#define FOO bar\n#undefine FOO\nFOO\n", nil)
	toks := lexAll(t, cl)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Identifier, toks[0].Type)
	assert.Equal(t, "FOO", toks[0].Lexeme)
}

func TestCommonLexerRecursiveDefineIsFatal(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "#define FOO bar FOO\n", nil)
	_, err := cl.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursive")
}

func TestCommonLexerIfdefTakesDefinedBranch(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "#define FOO x\n#ifdef FOO\nyes\n#endif\nno\n", nil)
	toks := lexAll(t, cl)
	require.Len(t, toks, 2)
	assert.Equal(t, "yes", toks[0].Lexeme)
	assert.Equal(t, "no", toks[1].Lexeme)
}

func TestCommonLexerIfdefDropsUndefinedBranch(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "#ifdef FOO\nyes\n#endif\nno\n", nil)
	toks := lexAll(t, cl)
	require.Len(t, toks, 1)
	assert.Equal(t, "no", toks[0].Lexeme)
}

func TestCommonLexerIfndef(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "#ifndef FOO\nyes\n#endif\n", nil)
	toks := lexAll(t, cl)
	require.Len(t, toks, 1)
	assert.Equal(t, "yes", toks[0].Lexeme)
}

func TestCommonLexerEndifWithoutOpenIsFatal(t *testing.T) {
	cl := NewFromString(newBuilder(), "main", "#endif\n", nil)
	_, err := cl.Next()
	require.Error(t, err)
}

func TestCommonLexerNestedIfdefPushesUnconditionally(t *testing.T) {
	src := "#ifdef OUTER\n#ifdef INNER\ninner-body\n#endif\n#endif\nafter\n"
	cl := NewFromString(newBuilder(), "main", src, nil)
	toks := lexAll(t, cl)
	require.Len(t, toks, 1)
	assert.Equal(t, "after", toks[0].Lexeme)
}

func TestCommonLexerInclude(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "included.src", []byte("included_token\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "main.src", []byte("before\n#include \"included.src\"\nafter\n"), 0o644))

	stack := reader.NewStack(fs)
	_, err := stack.PushFile("main.src")
	require.NoError(t, err)

	cl := NewFromStack(newBuilder(), stack, DefaultResolver)
	toks := lexAll(t, cl)
	require.Len(t, toks, 3)
	assert.Equal(t, "before", toks[0].Lexeme)
	assert.Equal(t, "included_token", toks[1].Lexeme)
	assert.Equal(t, "after", toks[2].Lexeme)
}
