package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbot/internal/batch"
	"planbot/internal/models"
)

func TestFileStore_ReplaceAndRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "program.json")
	store := NewFileStore(path)

	program := &models.Program{ID: 7, Name: "Block A", Weeks: []models.Week{{Days: []models.Day{{
		ID: "d1",
		Blocks: []models.Block{{ID: "b1", Exercises: []models.Exercise{{
			ID:   "e1",
			Name: "Squat",
			Tags: []models.Tag{{ID: "legs", Label: "Legs"}},
			Sets: []models.Set{{ID: "s1", Reps: models.Number(5), Weight: models.Number(100), RPE: models.Text("hard")}},
		}}}},
	}}}}}

	require.NoError(t, store.Replace(ctx, program))
	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, program, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	_, err := store.Read(context.Background())
	assert.Error(t, err)
}

func TestFileStore_DrivesSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "program.json")
	store := NewFileStore(path)

	program := &models.Program{ID: 1}
	for i := 0; i < 3; i++ {
		program.Weeks = append(program.Weeks, models.Week{Days: []models.Day{{
			ID: models.NewID(),
			Blocks: []models.Block{{ID: models.NewID(), Exercises: []models.Exercise{{
				ID:   models.NewID(),
				Sets: []models.Set{{ID: models.NewID(), Reps: models.Number(8), Weight: models.Number(60)}},
			}}}},
		}}})
	}
	require.NoError(t, store.Replace(ctx, program))

	s := batch.NewSession(store, batch.DefaultSafetyLimits, nil)
	require.NoError(t, s.Reset(ctx))
	require.NoError(t, s.Select(batch.MassAdjustment{}))
	require.NoError(t, s.UpdateConfig(func(c *batch.Config) { c.Increments.Sets = 1 }))
	_, err := s.Preview(ctx)
	require.NoError(t, err)
	_, err = s.Confirm(ctx)
	require.NoError(t, err)

	saved, err := store.Read(ctx)
	require.NoError(t, err)
	for _, w := range saved.Weeks {
		assert.Len(t, w.Days[0].Blocks[0].Exercises[0].Sets, 2)
	}
}
