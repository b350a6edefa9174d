// Package util provides some basic utility functions.
package util

import (
	"fmt"
	"strings"
)

// Placeholder is substituted for any byte that has no printable ASCII form.
const Placeholder = '?'

// Printable reports whether v is in the printable ASCII range (32-126 inclusive).
func Printable(v int) bool {
	return v >= 32 && v <= 126
}

// ToASCII returns the printable ASCII character for v, or Placeholder.
func ToASCII(v int) byte {
	if Printable(v) {
		return byte(v)
	}
	return Placeholder
}

// HexWords formats s as space-separated upper-case hex bytes, e.g. "RED" -> "52 45 44".
func HexWords(s string) string {
	words := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		words[i] = fmt.Sprintf("%02X", s[i])
	}
	return strings.Join(words, " ")
}

// Min returns the smallest of a and b.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the largest of a and b.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
