// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

// Package localeconv resolves the host locale's conventional decimal
// separator, used as the LexerKernel's default when a Builder isn't told
// otherwise. It is a thin wrapper over golang.org/x/text/language: the
// standard library doesn't expose locale-aware number formatting symbols
// on its own.
package localeconv

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// commaLocales lists the base languages whose conventional decimal mark
// is a comma rather than a period. This mirrors the small, fixed set of
// locale facts golang.org/x/text/language/display ships for its own
// examples rather than pulling in the much larger CLDR-backed
// golang.org/x/text/message/pipeline tables, which would be overkill for
// a single punctuation rune.
var commaLocales = map[string]bool{
	"de": true, "fr": true, "es": true, "it": true, "pt": true,
	"nl": true, "ru": true, "pl": true, "tr": true, "sv": true,
	"fi": true, "da": true, "nb": true, "nn": true, "cs": true,
	"sk": true, "el": true, "hu": true, "ro": true, "bg": true,
	"uk": true, "sr": true, "hr": true, "sl": true, "lt": true,
	"lv": true, "et": true, "id": true, "vi": true,
}

// DefaultDecimalSeparator returns '.' or ',' depending on the process's
// locale, read from the LANG/LC_ALL/LC_NUMERIC environment variables. It
// falls back to '.' (the language.Und default) when no locale can be
// determined, matching the kernel's historical default.
func DefaultDecimalSeparator() rune {
	return decimalSeparatorFor(hostLocaleTag())
}

// hostLocaleTag parses the first usable locale name out of the standard
// POSIX locale environment variables.
func hostLocaleTag() language.Tag {
	for _, name := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		v := os.Getenv(name)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		v = strings.SplitN(v, ".", 2)[0] // strip encoding, e.g. "en_US.UTF-8"
		v = strings.ReplaceAll(v, "_", "-")
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
	}
	return language.Und
}

// decimalSeparatorFor returns the conventional decimal mark for the base
// language of tag.
func decimalSeparatorFor(tag language.Tag) rune {
	base, conf := tag.Base()
	if conf == language.No {
		return '.'
	}
	if commaLocales[base.String()] {
		return ','
	}
	return '.'
}
