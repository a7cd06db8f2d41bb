package bot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"planbot/internal/batch"
)

func TestParseSettings(t *testing.T) {
	base := batch.DefaultConfig(4, batch.DefaultSafetyLimits)

	tests := []struct {
		name       string
		text       string
		edit       func(*batch.Config)
		wantSource int
	}{
		{"week range", "weeks 2-4", func(c *batch.Config) { c.WeekRange = batch.WeekRange{Start: 2, End: 4} }, 1},
		{"single week", "weeks 3", func(c *batch.Config) { c.WeekRange = batch.WeekRange{Start: 3, End: 3} }, 1},
		{"increments", "sets +1\nreps 2\nrpe 0,5", func(c *batch.Config) {
			c.Increments = batch.Increments{Sets: 1, Reps: 2, RPE: 0.5}
		}, 1},
		{"load percent", "load 2.5%", func(c *batch.Config) { c.Increments.LoadPercentage = 0.025 }, 1},
		{"load fraction", "вес -0.1", func(c *batch.Config) { c.Increments.LoadPercentage = -0.1 }, 1},
		{"tags", "tags legs, push", func(c *batch.Config) { c.Filters = batch.Filters{Tags: []string{"legs", "push"}} }, 1},
		{"all tags", "теги все", func(c *batch.Config) { c.Filters = batch.Filters{ApplyToAll: true} }, 1},
		{"limits", "maxsets 6; maxreps 12; volume off", func(c *batch.Config) {
			c.SafetyLimits = batch.SafetyLimits{MaxSets: 6, MaxReps: 12}
		}, 1},
		{"mode", "mode SET", func(c *batch.Config) { c.AdjustmentType = batch.AdjustSet }, 1},
		{"source week", "source 3", func(*batch.Config) {}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := base
			tt.edit(&want)

			got, source, err := parseSettings(tt.text, base, 1)
			if err != nil {
				t.Fatalf("parseSettings(%q) error = %v", tt.text, err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("parseSettings(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
			if source != tt.wantSource {
				t.Errorf("source = %d, want %d", source, tt.wantSource)
			}
		})
	}
}

func TestParseSettings_Errors(t *testing.T) {
	base := batch.DefaultConfig(4, batch.DefaultSafetyLimits)

	tests := []struct {
		name      string
		text      string
		wantField string
	}{
		{"empty", "  ", ""},
		{"unknown key", "speed 3", "speed"},
		{"no value", "reps", "reps"},
		{"not a number", "reps many", "reps"},
		{"bad range", "weeks one-two", "weeks"},
		{"bad switch", "volume maybe", "volume"},
		{"bad mode", "mode multiply", "mode"},
		{"zero source", "source 0", "source"},
		{"fractional limit", "maxsets 2.5", "maxsets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseSettings(tt.text, base, 1)
			var ve batch.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("parseSettings(%q) error = %v, want ValidationError", tt.text, err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
			if !errors.Is(err, batch.ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}
