package assets

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rallyScene = `[gd_scene format=3]

[ext_resource type="PackedScene" path="res://assets/models/rally/rally.glb" id="1_model"]

[node name="CarBody" type="RigidBody3D"]

[node name="Model" parent="." instance=ExtResource("1_model")]

[editable path="Model"]
`

func newTestLayout(t *testing.T) Layout {
	t.Helper()
	return DefaultLayout(afero.NewMemMapFs(), "/project")
}

func TestPaths(t *testing.T) {
	l := newTestLayout(t)

	assert.Equal(t, filepath.Join("/project", "assets", "models", "rally", "rally.glb"), l.ModelPath("rally"))
	assert.Equal(t, "res://assets/models/rally/rally.glb", l.ModelResPath("rally"))
	assert.Equal(t, filepath.Join("/project", "scenes", "cars", "rally.tscn"), l.ScenePath("rally"))
	assert.Equal(t, "scenes/cars/rally.tscn", l.Rel(l.ScenePath("rally")))
}

func TestEnsureModelExists(t *testing.T) {
	l := newTestLayout(t)
	require.NoError(t, afero.WriteFile(l.Fs, l.ModelPath("rally"), []byte("glTF"), 0644))

	assert.NoError(t, l.EnsureModelExists("rally"))
}

func TestEnsureModelExists_Missing(t *testing.T) {
	l := newTestLayout(t)

	err := l.EnsureModelExists("ghost")
	require.Error(t, err)

	var missing *MissingModelError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "ghost", missing.Name)
	assert.Equal(t, l.ModelPath("ghost"), missing.Path)
	assert.Equal(t, "Missing model: "+l.ModelPath("ghost"), err.Error())
}

func TestRenderCarScene(t *testing.T) {
	l := newTestLayout(t)
	assert.Equal(t, rallyScene, l.RenderCarScene("rally"))
}

func TestEnsureCarScene_CreatesOnce(t *testing.T) {
	l := newTestLayout(t)

	p, created, err := l.EnsureCarScene("rally")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, l.ScenePath("rally"), p)

	data, err := afero.ReadFile(l.Fs, p)
	require.NoError(t, err)
	assert.Equal(t, rallyScene, string(data))

	p2, created, err := l.EnsureCarScene("rally")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p, p2)
}

func TestEnsureCarScene_KeepsEditedScene(t *testing.T) {
	l := newTestLayout(t)
	edited := []byte("[gd_scene format=3]\n; tuned by hand\n")
	require.NoError(t, l.Fs.MkdirAll(filepath.Dir(l.ScenePath("rally")), 0755))
	require.NoError(t, afero.WriteFile(l.Fs, l.ScenePath("rally"), edited, 0644))

	_, created, err := l.EnsureCarScene("rally")
	require.NoError(t, err)
	assert.False(t, created)

	data, err := afero.ReadFile(l.Fs, l.ScenePath("rally"))
	require.NoError(t, err)
	assert.Equal(t, edited, data)
}

func TestEnsureCarScene_ReadOnlyFs(t *testing.T) {
	l := DefaultLayout(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/project")

	_, _, err := l.EnsureCarScene("rally")
	require.Error(t, err)
}

func TestEnsureCarScene_CustomLayout(t *testing.T) {
	l := Layout{
		Fs:           afero.NewMemMapFs(),
		Root:         "/game",
		ModelsDir:    "art/vehicles",
		CarScenesDir: "prefabs",
		ModelExt:     "gltf",
		SceneExt:     "tscn",
	}

	p, created, err := l.EnsureCarScene("tank")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, filepath.Join("/game", "prefabs", "tank.tscn"), p)

	data, err := afero.ReadFile(l.Fs, p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `path="res://art/vehicles/tank/tank.gltf" id="1_model"`)
}
