// Package assets checks car model files and generates wrapper scenes for them.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

const carSceneTemplate = `[gd_scene format=3]

[ext_resource type="PackedScene" path="%s" id="1_model"]

[node name="CarBody" type="RigidBody3D"]

[node name="Model" parent="." instance=ExtResource("1_model")]

[editable path="Model"]
`

// MissingModelError is returned when a car's model file does not exist.
type MissingModelError struct {
	Name string
	Path string
}

func (e *MissingModelError) Error() string {
	return fmt.Sprintf("Missing model: %s", e.Path)
}

// Layout locates model and scene files below a project root. Directories
// are project relative and slash separated.
type Layout struct {
	Fs           afero.Fs
	Root         string
	ModelsDir    string
	CarScenesDir string
	ModelExt     string
	SceneExt     string
}

// DefaultLayout returns the stock Godot project layout rooted at root.
func DefaultLayout(fs afero.Fs, root string) Layout {
	return Layout{
		Fs:           fs,
		Root:         root,
		ModelsDir:    "assets/models",
		CarScenesDir: "scenes/cars",
		ModelExt:     "glb",
		SceneExt:     "tscn",
	}
}

// ModelPath is the filesystem path of a car's model.
func (l Layout) ModelPath(name string) string {
	return filepath.Join(l.Root, filepath.FromSlash(l.ModelsDir), name, name+"."+l.ModelExt)
}

// ModelResPath is the res:// path of a car's model.
func (l Layout) ModelResPath(name string) string {
	return "res://" + path.Join(l.ModelsDir, name, name+"."+l.ModelExt)
}

// ScenePath is the filesystem path of a car's wrapper scene.
func (l Layout) ScenePath(name string) string {
	return filepath.Join(l.Root, filepath.FromSlash(l.CarScenesDir), name+"."+l.SceneExt)
}

// Rel returns p relative to the project root, slash separated. p is
// returned unchanged if it is not below the root.
func (l Layout) Rel(p string) string {
	rel, err := filepath.Rel(l.Root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// EnsureModelExists fails with a *MissingModelError if name has no model file.
func (l Layout) EnsureModelExists(name string) error {
	p := l.ModelPath(name)
	exists, err := afero.Exists(l.Fs, p)
	if err != nil {
		return fmt.Errorf("error checking model %s: %w", p, err)
	}
	if !exists {
		return &MissingModelError{Name: name, Path: p}
	}
	return nil
}

// RenderCarScene fills the wrapper scene template for name.
func (l Layout) RenderCarScene(name string) string {
	return fmt.Sprintf(carSceneTemplate, l.ModelResPath(name))
}

// EnsureCarScene writes the wrapper scene for name unless it already exists.
// Existing scenes are left as they are. It returns the scene path and
// whether the file was created.
func (l Layout) EnsureCarScene(name string) (string, bool, error) {
	dir := filepath.Join(l.Root, filepath.FromSlash(l.CarScenesDir))
	if err := l.Fs.MkdirAll(dir, 0755); err != nil {
		return "", false, fmt.Errorf("error creating %s: %w", dir, err)
	}

	p := l.ScenePath(name)
	if _, err := l.Fs.Stat(p); err == nil {
		return p, false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("error checking scene %s: %w", p, err)
	}

	if err := afero.WriteFile(l.Fs, p, []byte(l.RenderCarScene(name)), 0644); err != nil {
		return "", false, fmt.Errorf("error writing scene %s: %w", p, err)
	}
	return p, true, nil
}
