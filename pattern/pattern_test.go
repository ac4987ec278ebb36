package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsEmptyPattern(t *testing.T) {
	_, err := Compile("")
	require.Error(t, err)
}

func TestCompileRejectsTrailingSeparator(t *testing.T) {
	_, err := Compile("a/b/")
	require.Error(t, err)
}

func TestCompileRejectsEmptySegment(t *testing.T) {
	_, err := Compile("a//b")
	require.Error(t, err)
}

func TestCompileRejectsPartialDoubleStar(t *testing.T) {
	_, err := Compile("a/**b/c")
	require.Error(t, err)
}

func TestCompileBareFileGetsSyntheticAnyDirectory(t *testing.T) {
	p, err := Compile("*.txt")
	require.NoError(t, err)
	require.Len(t, p.Nodes(), 2)
	assert.Equal(t, AnyDirectory, p.Nodes()[0].Kind)
	assert.Equal(t, File, p.Nodes()[1].Kind)
}

func TestCompileDoubleStarSegment(t *testing.T) {
	p, err := Compile("a/**/c.txt")
	require.NoError(t, err)
	require.Len(t, p.Nodes(), 3)
	assert.Equal(t, Directory, p.Nodes()[0].Kind)
	assert.Equal(t, AnyDirectory, p.Nodes()[1].Kind)
	assert.Equal(t, File, p.Nodes()[2].Kind)
}

func TestMatchRejectsWildcardTarget(t *testing.T) {
	p := MustCompile("*.txt")
	_, err := p.Match("foo/*.txt")
	require.Error(t, err)
}

func TestMatchRejectsEmptyTargetSegment(t *testing.T) {
	p := MustCompile("*.txt")
	_, err := p.Match("foo//bar.txt")
	require.Error(t, err)
}

func TestMatchBareFilenameAtAnyDepth(t *testing.T) {
	p := MustCompile("*.txt")
	for _, good := range []string{"a.txt", "foo/a.txt", "foo/bar/baz.txt"} {
		ok, err := p.Match(good)
		require.NoError(t, err)
		assert.True(t, ok, good)
	}
	ok, err := p.Match("foo/bar.go")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchDoubleStarMiddle(t *testing.T) {
	p := MustCompile("src/**/*.go")
	cases := map[string]bool{
		"src/main.go":           true,
		"src/pkg/lexer.go":      true,
		"src/pkg/sub/kernel.go": true,
		"other/main.go":         false,
		"src/pkg/lexer.txt":     false,
	}
	for path, want := range cases {
		ok, err := p.Match(path)
		require.NoError(t, err)
		assert.Equal(t, want, ok, path)
	}
}

func TestMatchDirectorySegments(t *testing.T) {
	p := MustCompile("com/example/*/Test?.java")
	ok, err := p.Match("com/example/util/TestA.java")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Match("com/example/TestA.java")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchCaseSensitivityDefault(t *testing.T) {
	p := MustCompile("*.TXT")
	ok, err := p.Match("a.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchCaseInsensitiveOption(t *testing.T) {
	p := MustCompile("*.TXT", CaseInsensitive())
	ok, err := p.Match("a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStringRoundTrip(t *testing.T) {
	for _, src := range []string{"*.txt", "src/**/*.go", "a/b/c"} {
		p := MustCompile(src)
		assert.Equal(t, src, p.String())
	}
}

func TestEqualAndHash(t *testing.T) {
	a := MustCompile("src/**/*.go")
	b := MustCompile("src/**/*.go")
	c := MustCompile("src/**/*.txt")

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
}
