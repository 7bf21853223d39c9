//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// reservedFileNameChars are replaced in produced file names on every
// platform, so documents keep the same name when moved between systems.
const reservedFileNameChars = `\/:*?"<>|`

// CleanFileName replaces characters not allowed in file names with
// underscores.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == 0 {
			return -1
		}
		if strings.ContainsRune(reservedFileNameChars+string(os.PathListSeparator), sym) {
			return '_'
		}
		return sym
	}, in), ".")
	if len(strings.TrimSpace(out)) == 0 {
		out = "document"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
