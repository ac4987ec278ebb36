package localeconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestDecimalSeparatorForCommaLocale(t *testing.T) {
	assert.Equal(t, ',', decimalSeparatorFor(language.MustParse("de-DE")))
	assert.Equal(t, ',', decimalSeparatorFor(language.MustParse("fr")))
}

func TestDecimalSeparatorForDotLocale(t *testing.T) {
	assert.Equal(t, '.', decimalSeparatorFor(language.MustParse("en-US")))
	assert.Equal(t, '.', decimalSeparatorFor(language.MustParse("ja")))
}

func TestDecimalSeparatorForUndeterminedLocale(t *testing.T) {
	assert.Equal(t, '.', decimalSeparatorFor(language.Und))
}

func TestHostLocaleTagSkipsPosixAndEmpty(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_NUMERIC", "C")
	t.Setenv("LANG", "de_DE.UTF-8")

	tag := hostLocaleTag()
	base, _ := tag.Base()
	assert.Equal(t, "de", base.String())
}

func TestHostLocaleTagPrefersLcAll(t *testing.T) {
	t.Setenv("LC_ALL", "fr_FR.UTF-8")
	t.Setenv("LC_NUMERIC", "de_DE.UTF-8")
	t.Setenv("LANG", "en_US.UTF-8")

	tag := hostLocaleTag()
	base, _ := tag.Base()
	assert.Equal(t, "fr", base.String())
}
