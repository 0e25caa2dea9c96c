package parser

import "strings"

// splitLines splits on newlines without producing a trailing empty entry
// for text that ends in a newline. CR before LF is dropped.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
