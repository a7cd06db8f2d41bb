package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbot/internal/batch"
	"planbot/internal/models"
	"planbot/internal/repository"
)

func writeProgram(t *testing.T, weeks int) string {
	t.Helper()
	p := &models.Program{ID: 1, Name: "CLI"}
	for i := 0; i < weeks; i++ {
		p.Weeks = append(p.Weeks, models.Week{Days: []models.Day{{
			ID: models.NewID(),
			Blocks: []models.Block{{ID: models.NewID(), Exercises: []models.Exercise{{
				ID:   models.NewID(),
				Name: "Press",
				Tags: []models.Tag{{ID: "push", Label: "Push"}},
				Sets: []models.Set{{ID: models.NewID(), Reps: models.Number(8), Weight: models.Number(40)}},
			}}}},
		}}})
	}
	path := filepath.Join(t.TempDir(), "program.json")
	require.NoError(t, repository.NewFileStore(path).Replace(context.Background(), p))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func readReps(t *testing.T, path string, week int) float64 {
	t.Helper()
	p, err := repository.NewFileStore(path).Read(context.Background())
	require.NoError(t, err)
	reps, ok := p.Weeks[week-1].Days[0].Blocks[0].Exercises[0].Sets[0].Reps.Float()
	require.True(t, ok)
	return reps
}

func TestApply_Progression(t *testing.T) {
	path := writeProgram(t, 3)

	out, err := execute(t, "apply", "progression", "-f", path, "--reps", "1", "--volume-alert=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Linear progression: weeks 1-3, reps +1")
	assert.Contains(t, out, "progression: applied")

	assert.Equal(t, 8.0, readReps(t, path, 1))
	assert.Equal(t, 10.0, readReps(t, path, 3))
}

func TestApply_AlertsNeedYes(t *testing.T) {
	path := writeProgram(t, 2)

	_, err := execute(t, "apply", "adjust", "-f", path, "--weeks", "2", "--reps", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), batch.ConfirmQuestion)
	assert.Contains(t, err.Error(), "--yes")
	assert.Equal(t, 8.0, readReps(t, path, 2))

	_, err = execute(t, "apply", "adjust", "-f", path, "--weeks", "2", "--reps", "2", "--yes")
	require.NoError(t, err)
	assert.Equal(t, 10.0, readReps(t, path, 2))
}

func TestPreview_DoesNotWrite(t *testing.T) {
	path := writeProgram(t, 2)
	xlsx := filepath.Join(t.TempDir(), "preview.xlsx")

	out, err := execute(t, "preview", "adjust", "-f", path, "--sets", "1", "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "sets added: 2")
	assert.Equal(t, 8.0, readReps(t, path, 1))

	_, err = os.Stat(xlsx)
	assert.NoError(t, err)
}

func TestApply_Preset(t *testing.T) {
	path := writeProgram(t, 4)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ramp.yaml"), []byte(`
name: ramp
action: progression
config:
  increments: {reps: 1}
  safety_limits: {alert_volume_increase: false}
`), 0644))

	_, err := execute(t, "apply", "-f", path, "--preset", "ramp", "--presets-dir", dir, "--weeks", "2-4")
	require.NoError(t, err)
	assert.Equal(t, 8.0, readReps(t, path, 2))
	assert.Equal(t, 10.0, readReps(t, path, 4))
}

func TestApply_Rejections(t *testing.T) {
	path := writeProgram(t, 2)

	_, err := execute(t, "apply", "-f", path)
	assert.Error(t, err, "no action and no preset")

	_, err = execute(t, "apply", "stretch", "-f", path)
	assert.Error(t, err)

	_, err = execute(t, "apply", "progression", "-f", path, "--weeks", "1-5")
	assert.Error(t, err)

	_, err = execute(t, "apply", "adjust", "-f", path, "--mode", "set", "--reps", "10")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	path := writeProgram(t, 2)
	out, err := execute(t, "show", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "CLI (2 weeks)")
	assert.Contains(t, out, "week 2: 1 exercises, 1 sets, volume 8")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "week.txt")
	require.NoError(t, os.WriteFile(template, []byte("Day A:\nSquat 3x5x100 #legs\nBench 3/8 60\n"), 0644))
	path := filepath.Join(dir, "program.json")

	out, err := execute(t, "init", "-f", path, "--from", template, "--weeks", "3", "--name", "Base")
	require.NoError(t, err)
	assert.Contains(t, out, "Base: 3 weeks")

	_, err = execute(t, "init", "-f", path, "--from", template)
	assert.Error(t, err, "existing file needs --force")

	out, err = execute(t, "show", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "week 3: 2 exercises, 6 sets, volume 39")
}
