package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// wordPattern matches one word token: letters with optional internal apostrophes.
var wordPattern = regexp.MustCompile(`[a-zA-Z]+(?:'[a-zA-Z]+)*`)

// Tokenize returns the lowercase word tokens of text in document order.
// Tokens are cut on word boundaries, so "Brazil" never produces "bra".
func Tokenize(text string) []string {
	tokens := wordPattern.FindAllString(text, -1)
	for i, tok := range tokens {
		tokens[i] = strings.ToLower(tok)
	}
	return tokens
}

// UniqueTokens returns deduplicated lowercase word tokens in first-seen order.
func UniqueTokens(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range Tokenize(text) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// TokenizeAround returns the lowercase tokens inside a window of radius bytes
// around pos, clamped to the text bounds. Tokens cut by the window edges are
// kept as-is.
func TokenizeAround(text string, pos, radius int) []string {
	start, end := ClampWindow(pos-radius, pos+radius, len(text))
	return Tokenize(text[start:end])
}

// ClampWindow clamps the half-open range [start, end) to [0, max].
func ClampWindow(start, end, max int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > max {
		end = max
	}
	if start > end {
		start = end
	}
	return start, end
}

// IsWordByte reports whether b belongs inside a word token.
func IsWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// FormatWithCommas renders n with thousands separators for log output.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
