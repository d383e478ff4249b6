package tscn

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/OCAP2/carscene/internal/naming"
)

// UpsertArray rewrites the first match of re, whose first group must capture
// the bracket contents of an array literal, with items merged in. render
// receives the merged contents and returns the replacement assignment.
// It reports false and leaves text untouched when re does not match.
func UpsertArray(text string, re *regexp.Regexp, render func(content string) string, items []string) (string, bool) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil || loc[2] < 0 {
		return text, false
	}
	merged := AppendUnique(text[loc[2]:loc[3]], items)
	return text[:loc[0]] + render(merged) + text[loc[1]:], true
}

// AppendUnique splits a comma separated list, drops blank items and appends
// every item not already present verbatim.
func AppendUnique(content string, items []string) string {
	var existing []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(content, ",") {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		existing = append(existing, item)
		seen[item] = true
	}
	for _, item := range items {
		if seen[item] {
			continue
		}
		existing = append(existing, item)
		seen[item] = true
	}
	return strings.Join(existing, ", ")
}

// ExtResourceRef is the expression that dereferences a declared resource.
func ExtResourceRef(id string) string {
	return fmt.Sprintf(`ExtResource("%s")`, id)
}

// UpdateArrays appends the cars' scene references and display names to the
// car manager arrays. Missing arrays are skipped.
func (p *Patcher) UpdateArrays(text string, names []string, ids map[string]string) string {
	sceneItems := make([]string, 0, len(names))
	nameItems := make([]string, 0, len(names))
	for _, n := range names {
		sceneItems = append(sceneItems, ExtResourceRef(ids[n]))
		nameItems = append(nameItems, fmt.Sprintf(`"%s"`, naming.DisplayName(n)))
	}

	text, _ = UpsertArray(text, p.scenesRe, func(content string) string {
		return fmt.Sprintf("%s = [%s]", p.opts.ScenesArray, content)
	}, sceneItems)
	text, _ = UpsertArray(text, p.namesRe, func(content string) string {
		return fmt.Sprintf("%s = Array[String]([%s])", p.opts.NamesArray, content)
	}, nameItems)
	return text
}

// ArrayItems returns the items of the first array assignment re matches, or
// nil when there is none.
func ArrayItems(text string, re *regexp.Regexp) []string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var items []string
	for _, raw := range strings.Split(m[1], ",") {
		if item := strings.TrimSpace(raw); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// SceneItems returns the current entries of the car scene array.
func (p *Patcher) SceneItems(text string) []string {
	return ArrayItems(text, p.scenesRe)
}

// NameItems returns the current entries of the car name array.
func (p *Patcher) NameItems(text string) []string {
	return ArrayItems(text, p.namesRe)
}
