package utils

import (
	"unicode"
)

// IsSeparator checks if a rune separates the words of a phrase
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-'
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains characters that can never
// appear in a glossary word or phrase (anything beyond letters, apostrophes
// and common separators)
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '\'' && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsValidInput checks if a hovered word or phrase should be processed at all.
// Returns false for empty strings, digit runs, special characters, and
// repetitive keyboard noise like "ddddd".
func IsValidInput(s string) bool {
	if len(s) == 0 || len(s) > 64 {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsSpecialChars(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	return true
}

// IsRepetitive checks if a string consists of a single repeated character
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}
	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}
