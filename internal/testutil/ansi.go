// Package testutil provides helpers shared by the package tests.
package testutil

import "regexp"

// ansiRegex matches CSI sequences: ESC [ parameters final-letter.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes colour escapes so CLI output can be compared as
// plain text.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
