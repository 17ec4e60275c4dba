package mongolog

import (
	"regexp"
	"strings"
)

// ansiPattern matches an ESC byte together with a trailing CSI sequence
// when present. Matching the bare ESC as well guarantees no escape bytes
// survive stripping, even for malformed sequences.
var ansiPattern = regexp.MustCompile("\x1b(?:\\[[0-9;]*[@-~])?")

// IsColorized reports whether the message contains ANSI escape bytes.
// It is a cheap pre-check so uncolored messages skip the regexp.
func IsColorized(message string) bool {
	return strings.ContainsRune(message, '\x1b')
}

// StripColors removes all ANSI escape sequences from the message.
// Non-escape characters are preserved verbatim and stripping an already
// clean string is a no-op.
func StripColors(message string) string {
	if !IsColorized(message) {
		return message
	}
	return ansiPattern.ReplaceAllString(message, emptyString)
}
