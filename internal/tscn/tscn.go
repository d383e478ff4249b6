// Package tscn patches the handful of Godot text-scene constructs the car
// registration touches: the ext_resource table and the car manager arrays.
// Everything else in a document is preserved byte for byte.
package tscn

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoExtResource is returned when a document has no ext_resource line to
// anchor new declarations after.
var ErrNoExtResource = errors.New("no ext_resource block found")

// ErrUnsafeName is returned for names that cannot be written into a
// declaration line or an array entry.
var ErrUnsafeName = errors.New("name cannot be written into the scene")

// Options configures the resource paths and array names a Patcher writes.
type Options struct {
	ResourceType string // type="..." of new declarations
	ScenePrefix  string // res:// directory holding car scenes
	SceneExt     string
	ScenesArray  string
	NamesArray   string
}

// DefaultOptions matches the stock project layout.
func DefaultOptions() Options {
	return Options{
		ResourceType: "PackedScene",
		ScenePrefix:  "res://scenes/cars",
		SceneExt:     "tscn",
		ScenesArray:  "car_scenes",
		NamesArray:   "car_names",
	}
}

// Patcher applies car registrations to a scene document held in memory.
type Patcher struct {
	opts     Options
	scenesRe *regexp.Regexp
	namesRe  *regexp.Regexp
}

// New creates a Patcher. Empty option fields fall back to DefaultOptions.
func New(opts Options) *Patcher {
	def := DefaultOptions()
	if opts.ResourceType == "" {
		opts.ResourceType = def.ResourceType
	}
	if opts.ScenePrefix == "" {
		opts.ScenePrefix = def.ScenePrefix
	}
	if opts.SceneExt == "" {
		opts.SceneExt = def.SceneExt
	}
	if opts.ScenesArray == "" {
		opts.ScenesArray = def.ScenesArray
	}
	if opts.NamesArray == "" {
		opts.NamesArray = def.NamesArray
	}
	opts.ScenePrefix = strings.TrimRight(opts.ScenePrefix, "/")

	return &Patcher{
		opts:     opts,
		scenesRe: regexp.MustCompile(regexp.QuoteMeta(opts.ScenesArray) + `\s*=\s*\[(.*)\]`),
		namesRe:  regexp.MustCompile(regexp.QuoteMeta(opts.NamesArray) + `\s*=\s*Array\[String\]\(\[(.*)\]\)`),
	}
}

// Options returns the effective options.
func (p *Patcher) Options() Options {
	return p.opts
}

// ScenePath is the res:// path a car's wrapper scene is declared under.
func (p *Patcher) ScenePath(name string) string {
	return fmt.Sprintf("%s/%s.%s", p.opts.ScenePrefix, name, p.opts.SceneExt)
}

// Result is the outcome of patching a document.
type Result struct {
	Text  string
	IDs   map[string]string // car name -> ext_resource id
	Added []Declaration     // declarations inserted by this patch, in order
}

// Changed reports whether the patch inserted any declaration.
func (r *Result) Changed() bool {
	return len(r.Added) > 0
}

// Apply registers names in text: new ext_resource lines first, then the
// car scene and car name arrays.
func (p *Patcher) Apply(text string, names []string) (*Result, error) {
	for _, name := range names {
		if strings.ContainsAny(name, "\",\r\n") {
			return nil, fmt.Errorf("%w: %q", ErrUnsafeName, name)
		}
	}

	res, err := p.UpsertExtResources(text, names)
	if err != nil {
		return nil, err
	}
	res.Text = p.UpdateArrays(res.Text, names, res.IDs)
	return res, nil
}
