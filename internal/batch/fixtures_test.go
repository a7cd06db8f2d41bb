package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"planbot/internal/models"
)

// ignoreIDs compares trees by values only
var ignoreIDs = cmp.Options{
	cmpopts.IgnoreFields(models.Day{}, "ID"),
	cmpopts.IgnoreFields(models.Block{}, "ID"),
	cmpopts.IgnoreFields(models.Exercise{}, "ID"),
	cmpopts.IgnoreFields(models.Set{}, "ID"),
}

func set(reps, weight, rpe float64) models.Set {
	return models.Set{
		ID:     models.NewID(),
		Reps:   models.Number(reps),
		Weight: models.Number(weight),
		RPE:    models.Number(rpe),
	}
}

func exercise(name string, tags []string, sets ...models.Set) models.Exercise {
	ex := models.Exercise{ID: models.NewID(), Name: name}
	for _, t := range tags {
		ex.Tags = append(ex.Tags, models.Tag{ID: t, Label: t})
	}
	for _, s := range sets {
		s.ID = models.NewID()
		s.Reps = s.Reps.Copy()
		s.Weight = s.Weight.Copy()
		s.RPE = s.RPE.Copy()
		ex.Sets = append(ex.Sets, s)
	}
	return ex
}

func week(exercises ...models.Exercise) models.Week {
	return models.Week{Days: []models.Day{{
		ID:   models.NewID(),
		Name: "Day A",
		Blocks: []models.Block{{
			ID:        models.NewID(),
			Name:      "Main",
			Exercises: exercises,
		}},
	}}}
}

// uniformProgram builds n identical weeks with a bench press carrying the given sets
func uniformProgram(n int, sets ...models.Set) *models.Program {
	p := &models.Program{ID: 1, Name: "Test"}
	for i := 0; i < n; i++ {
		p.Weeks = append(p.Weeks, week(exercise("Bench press", []string{"push"}, sets...)))
	}
	return p
}

func baseConfig(start, end int) Config {
	return Config{
		WeekRange:      WeekRange{Start: start, End: end},
		Filters:        Filters{ApplyToAll: true},
		SafetyLimits:   SafetyLimits{MaxSets: 8, MaxReps: 15},
		AdjustmentType: AdjustAdd,
	}
}

func firstExercise(p *models.Program, weekNum int) models.Exercise {
	return p.Weeks[weekNum-1].Days[0].Blocks[0].Exercises[0]
}

func num(t *testing.T, v models.Value) float64 {
	t.Helper()
	f, ok := v.Float()
	require.True(t, ok, "value %q is not numeric", v.String())
	return f
}

func collectIDs(w models.Week) map[string]bool {
	ids := make(map[string]bool)
	for _, d := range w.Days {
		ids[d.ID] = true
		for _, b := range d.Blocks {
			ids[b.ID] = true
			for _, e := range b.Exercises {
				ids[e.ID] = true
				for _, s := range e.Sets {
					ids[s.ID] = true
				}
			}
		}
	}
	return ids
}

// memoryStore is a Store over a single in-memory tree
type memoryStore struct {
	program  *models.Program
	replaced int
	readErr  error
	writeErr error
}

func (m *memoryStore) Read(context.Context) (*models.Program, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return copyProgram(m.program), nil
}

func (m *memoryStore) Replace(_ context.Context, p *models.Program) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.program = copyProgram(p)
	m.replaced++
	return nil
}

type historyStub struct {
	entries []HistoryEntry
	fail    bool
}

func (h *historyStub) Record(_ context.Context, e HistoryEntry) error {
	if h.fail {
		return errors.New("history down")
	}
	h.entries = append(h.entries, e)
	return nil
}
