// Package naming derives identifiers and labels from raw car asset names.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackSlug is returned by Slug when nothing usable is left of the name.
const FallbackSlug = "car"

const maxSlugLen = 8

// Slug lowercases name, keeps only [a-z0-9] and truncates to eight characters.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if b.Len() == maxSlugLen {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return FallbackSlug
	}
	return b.String()
}

// DisplayName turns a snake_case name into a space separated, capitalized label.
// Names made only of underscores are returned unchanged.
func DisplayName(name string) string {
	var parts []string
	for _, p := range strings.Split(name, "_") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return name
	}

	for i, p := range parts {
		if isDigits(p) {
			parts[i] = strings.ToUpper(p)
			continue
		}
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
