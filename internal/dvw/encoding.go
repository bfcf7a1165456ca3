// Package dvw reads the DVW scouting notation: legacy text decoding, the
// section scanner and the fixed-offset rally-log decoder.
package dvw

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Turkish letters arrive through a Windows-1252 decode as their Latin-1
// neighbours at the same byte values.
var legacyReplacer = strings.NewReplacer(
	"Ý", "İ",
	"Ð", "Ğ",
	"Þ", "Ş",
	"ý", "ı",
	"ð", "ğ",
	"þ", "ş",
)

// Normalize maps the legacy confusion set to canonical letters. Every other
// character passes through unchanged.
func Normalize(s string) string {
	return legacyReplacer.Replace(s)
}

// Decode turns raw file bytes into text using Windows-1252, the encoding
// scouting software writes.
func Decode(raw []byte) (string, error) {
	b, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(b), nil
}

// SplitLines splits text on LF and drops a trailing CR from each line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
