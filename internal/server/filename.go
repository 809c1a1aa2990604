package server

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SecureFilename reduces a client-supplied name to a safe base name: accents
// are folded to ASCII, path separators and whitespace become underscores,
// anything outside [A-Za-z0-9._-] is dropped and leading or trailing dots
// and underscores are trimmed. An empty result becomes "upload".
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return ' '
		case r > unicode.MaxASCII:
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), "_")

	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		}
		return -1
	}, name)
	name = strings.Trim(name, "._")

	if name == "" {
		return "upload"
	}
	return name
}
