package tscn

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/OCAP2/carscene/internal/naming"
)

const extResourcePrefix = "[ext_resource "

var (
	declarationRe = regexp.MustCompile(`\[ext_resource[^\n]*path="([^"]+)"[^\n]*id="([^"]+)"\]`)
	sequenceRe    = regexp.MustCompile(`id="(\d+)_`)
)

// Declaration is one ext_resource entry.
type Declaration struct {
	Path string
	ID   string
}

// FindDeclarations returns every ext_resource declaration in text, in document order.
func FindDeclarations(text string) []Declaration {
	var decls []Declaration
	for _, m := range declarationRe.FindAllStringSubmatch(text, -1) {
		decls = append(decls, Declaration{Path: m[1], ID: m[2]})
	}
	return decls
}

// NextSequence returns one more than the largest numeric id prefix in text,
// or 1 when no id carries one.
func NextSequence(text string) (int, error) {
	next := 1
	for _, m := range sequenceRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid resource id sequence %q: %w", m[1], err)
		}
		if n >= next {
			if n == math.MaxInt {
				return 0, fmt.Errorf("resource id sequence %d has no successor", n)
			}
			next = n + 1
		}
	}
	return next, nil
}

// UpsertExtResources declares a wrapper scene for every name that is not
// declared yet. Already declared names keep their id. New lines go right
// after the last ext_resource line.
func (p *Patcher) UpsertExtResources(text string, names []string) (*Result, error) {
	pathToID := make(map[string]string)
	for _, d := range FindDeclarations(text) {
		pathToID[d.Path] = d.ID
	}

	seq, err := NextSequence(text)
	if err != nil {
		return nil, err
	}

	res := &Result{Text: text, IDs: make(map[string]string, len(names))}
	for _, name := range names {
		path := p.ScenePath(name)
		if id, ok := pathToID[path]; ok {
			res.IDs[name] = id
			continue
		}
		id := fmt.Sprintf("%d_auto%s", seq, naming.Slug(name))
		seq++
		// a repeated name in the same call resolves to the first new id
		pathToID[path] = id
		res.IDs[name] = id
		res.Added = append(res.Added, Declaration{Path: path, ID: id})
	}

	if !res.Changed() {
		return res, nil
	}

	lines := splitLines(text)
	anchor := -1
	for i, line := range lines {
		if strings.HasPrefix(line, extResourcePrefix) {
			anchor = i
		}
	}
	if anchor < 0 {
		return nil, ErrNoExtResource
	}

	newLines := make([]string, 0, len(res.Added))
	for _, d := range res.Added {
		newLines = append(newLines, p.declarationLine(d))
	}

	updated := make([]string, 0, len(lines)+len(newLines))
	updated = append(updated, lines[:anchor+1]...)
	updated = append(updated, newLines...)
	updated = append(updated, lines[anchor+1:]...)
	res.Text = strings.Join(updated, "\n") + "\n"
	return res, nil
}

func (p *Patcher) declarationLine(d Declaration) string {
	return fmt.Sprintf(`[ext_resource type="%s" path="%s" id="%s"]`, p.opts.ResourceType, d.Path, d.ID)
}

// splitLines breaks text on \n, \r\n and \r. A trailing line break does not
// produce an empty final line.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		text = text[i+1:]
	}
	return lines
}
