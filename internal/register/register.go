// Package register sequences a car registration: model checks, wrapper
// scenes, then a single read-patch-write of the main scene.
package register

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OCAP2/carscene/internal/assets"
	"github.com/OCAP2/carscene/internal/ledger"
	"github.com/OCAP2/carscene/internal/naming"
	"github.com/OCAP2/carscene/internal/tscn"

	"github.com/spf13/afero"
)

var (
	// ErrUsage is returned when no car names are given.
	ErrUsage = errors.New("Usage: register_cars <car_name> [car_name...]")

	// ErrInvalidName is returned for names that cannot form a file or resource path.
	ErrInvalidName = errors.New("invalid car name")
)

// Recorder stores completed runs. *ledger.Manager implements it.
type Recorder interface {
	Record(ctx context.Context, document string, startedAt time.Time, entries []ledger.Entry) (string, error)
}

// Dependencies holds everything a Registrar needs.
type Dependencies struct {
	Layout    assets.Layout
	Patcher   *tscn.Patcher
	MainScene string // project relative, slash separated
	Logger    *slog.Logger
	Out       io.Writer // progress lines; io.Discard if nil
	Ledger    Recorder  // optional
}

// Scene is the wrapper scene of one car.
type Scene struct {
	Name    string
	Path    string // project relative
	Created bool
}

// Report describes a finished run.
type Report struct {
	RunID    string // empty without a ledger
	Document string
	Scenes   []Scene
	IDs      map[string]string
	Added    []tscn.Declaration
}

// Registrar registers cars into a project.
type Registrar struct {
	deps Dependencies
	ins  instruments
}

// New creates a Registrar.
func New(deps Dependencies) (*Registrar, error) {
	if deps.Patcher == nil {
		deps.Patcher = tscn.New(tscn.DefaultOptions())
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.MainScene == "" {
		deps.MainScene = "scenes/main.tscn"
	}

	ins, err := newInstruments()
	if err != nil {
		return nil, err
	}
	return &Registrar{deps: deps, ins: ins}, nil
}

// MainScenePath is the filesystem path of the main scene.
func (r *Registrar) MainScenePath() string {
	return filepath.Join(r.deps.Layout.Root, filepath.FromSlash(r.deps.MainScene))
}

// Run registers names. Models are checked and scenes generated name by name,
// so a missing model aborts the run after earlier names' scenes were
// written. The main scene is only written once every name got that far.
func (r *Registrar) Run(ctx context.Context, names []string) (*Report, error) {
	startedAt := time.Now()
	log := r.deps.Logger

	if len(names) == 0 {
		return nil, ErrUsage
	}
	for _, name := range names {
		if err := validateName(name); err != nil {
			return nil, err
		}
	}

	layout := r.deps.Layout
	report := &Report{Document: r.deps.MainScene}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := layout.EnsureModelExists(name); err != nil {
			return nil, err
		}

		p, created, err := layout.EnsureCarScene(name)
		if err != nil {
			return nil, err
		}
		if created {
			r.ins.scenesCreated.Add(ctx, 1)
		}

		rel := layout.Rel(p)
		report.Scenes = append(report.Scenes, Scene{Name: name, Path: rel, Created: created})
		log.Debug("Scene ready", "car", name, "path", rel, "created", created)
		fmt.Fprintf(r.deps.Out, "Scene ready: %s\n", rel)
	}

	mainPath := r.MainScenePath()
	info, err := layout.Fs.Stat(mainPath)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", r.deps.MainScene, err)
	}
	data, err := afero.ReadFile(layout.Fs, mainPath)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", r.deps.MainScene, err)
	}

	res, err := r.deps.Patcher.Apply(string(data), names)
	if err != nil {
		if errors.Is(err, tscn.ErrNoExtResource) {
			return nil, fmt.Errorf("%w in %s", err, r.deps.MainScene)
		}
		return nil, fmt.Errorf("error patching %s: %w", r.deps.MainScene, err)
	}
	report.IDs = res.IDs
	report.Added = res.Added

	scenes, labels := r.deps.Patcher.SceneItems(res.Text), r.deps.Patcher.NameItems(res.Text)
	if len(scenes) != len(labels) {
		log.Warn("Car arrays differ in length", "scenes", len(scenes), "names", len(labels))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := afero.WriteFile(layout.Fs, mainPath, []byte(res.Text), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("error writing %s: %w", r.deps.MainScene, err)
	}
	r.ins.runs.Add(ctx, 1)
	r.ins.declared.Add(ctx, int64(len(res.Added)))
	log.Info("Main scene updated", "path", r.deps.MainScene, "declared", len(res.Added), "cars", len(names))
	fmt.Fprintf(r.deps.Out, "Updated: %s\n", r.deps.MainScene)

	if r.deps.Ledger != nil {
		id, err := r.deps.Ledger.Record(ctx, r.deps.MainScene, startedAt, ledgerEntries(report))
		if err != nil {
			log.Warn("Failed to record run in ledger", "error", err)
		} else {
			report.RunID = id
		}
	}

	return report, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	// separators, quotes, list commas and line breaks would leak out of the
	// scene path, the ext_resource line or the array entries
	if strings.ContainsAny(name, "/\\\",\r\n") || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func ledgerEntries(report *Report) []ledger.Entry {
	declared := make(map[string]bool, len(report.Added))
	for _, d := range report.Added {
		declared[d.ID] = true
	}

	seen := make(map[string]bool, len(report.Scenes))
	entries := make([]ledger.Entry, 0, len(report.Scenes))
	for _, s := range report.Scenes {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		id := report.IDs[s.Name]
		entries = append(entries, ledger.Entry{
			Name:         s.Name,
			ResourceID:   id,
			DisplayName:  naming.DisplayName(s.Name),
			ScenePath:    s.Path,
			SceneCreated: s.Created,
			Declared:     declared[id],
		})
	}
	return entries
}
