package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"planbot/internal/batch"
	"planbot/internal/models"
	"planbot/internal/presets"
)

type presetMap map[string]presets.Preset

func (m presetMap) Get(name string) (presets.Preset, error) {
	p, ok := m[name]
	if !ok {
		return presets.Preset{}, presets.ErrNotFound
	}
	return p, nil
}

type memStore struct {
	program  *models.Program
	replaced int
}

func (m *memStore) Read(context.Context) (*models.Program, error) {
	// program trees are rebuilt by the engine, a shallow copy is enough here
	p := *m.program
	return &p, nil
}

func (m *memStore) Replace(_ context.Context, p *models.Program) error {
	m.program = p
	m.replaced++
	return nil
}

type historyLog struct{ entries []batch.HistoryEntry }

func (h *historyLog) Record(_ context.Context, e batch.HistoryEntry) error {
	h.entries = append(h.entries, e)
	return nil
}

func program(weeks int) *models.Program {
	p := &models.Program{ID: 3, Name: "Spring"}
	for i := 0; i < weeks; i++ {
		p.Weeks = append(p.Weeks, models.Week{Days: []models.Day{{
			ID: models.NewID(),
			Blocks: []models.Block{{ID: models.NewID(), Exercises: []models.Exercise{{
				ID:   models.NewID(),
				Name: "Squat",
				Sets: []models.Set{{ID: models.NewID(), Reps: models.Number(5), Weight: models.Number(100)}},
			}}}},
		}}})
	}
	return p
}

func TestLoadJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: weekly-ramp
    program_id: 3
    preset: ramp
    cron: "0 0 6 * * MON"
  - program_id: 4
    preset: deload
    cron: "@monthly"
`), 0644))

	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, Job{Name: "weekly-ramp", ProgramID: 3, Preset: "ramp", Cron: "0 0 6 * * MON"}, jobs[0])
	assert.Equal(t, "deload#4", jobs[1].Name)
}

func TestLoadJobs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad cron", "jobs:\n  - {program_id: 1, preset: ramp, cron: \"every monday\"}\n"},
		{"no preset", "jobs:\n  - {program_id: 1, cron: \"@daily\"}\n"},
		{"no program", "jobs:\n  - {preset: ramp, cron: \"@daily\"}\n"},
		{"not yaml", "jobs: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "schedules.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := LoadJobs(path)
			assert.Error(t, err)
		})
	}
}

func TestScheduler_Run(t *testing.T) {
	store := &memStore{program: program(3)}
	history := &historyLog{}
	src := presetMap{"ramp": {
		Name:   "ramp",
		Action: "progression",
		Config: batch.Config{Increments: batch.Increments{Reps: 1, LoadPercentage: 0.05}},
	}}

	s := New(src, func(int) batch.Store { return store }, history, batch.DefaultSafetyLimits, zaptest.NewLogger(t))
	result, err := s.Run(context.Background(), Job{Name: "ramp#3", ProgramID: 3, Preset: "ramp", Cron: "@weekly"})
	require.NoError(t, err)
	assert.Equal(t, batch.OutcomeApplied, result.Outcome)
	assert.Equal(t, 1, store.replaced)

	w3 := store.program.Weeks[2].Days[0].Blocks[0].Exercises[0].Sets[0]
	reps, _ := w3.Reps.Float()
	load, _ := w3.Weight.Float()
	assert.Equal(t, 7.0, reps)
	assert.Equal(t, 110.0, load)

	require.Len(t, history.entries, 1)
	assert.Equal(t, batch.KindLinearProgression, history.entries[0].Action)
}

func TestScheduler_RunUnknownPreset(t *testing.T) {
	store := &memStore{program: program(2)}
	s := New(presetMap{}, func(int) batch.Store { return store }, nil, batch.DefaultSafetyLimits, nil)

	_, err := s.Run(context.Background(), Job{ProgramID: 3, Preset: "missing", Cron: "@daily"})
	assert.ErrorIs(t, err, presets.ErrNotFound)
	assert.Zero(t, store.replaced)
}

func TestScheduler_Add(t *testing.T) {
	s := New(presetMap{}, nil, nil, batch.DefaultSafetyLimits, nil)
	assert.NoError(t, s.Add(Job{Name: "a", ProgramID: 1, Preset: "ramp", Cron: "@hourly"}))
	assert.Error(t, s.Add(Job{Name: "b", ProgramID: 1, Preset: "ramp", Cron: "nonsense"}))
}
