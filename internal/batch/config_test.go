package batch

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekRange(t *testing.T) {
	tests := []struct {
		in      string
		want    WeekRange
		wantErr bool
	}{
		{"1-4", WeekRange{Start: 1, End: 4}, false},
		{" 2 - 3 ", WeekRange{Start: 2, End: 3}, false},
		{"3", WeekRange{Start: 3, End: 3}, false},
		{"4-2", WeekRange{Start: 4, End: 2}, false},
		{"a-b", WeekRange{}, true},
		{"1-", WeekRange{}, true},
		{"", WeekRange{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekRange(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeekRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_ValidateFieldNames(t *testing.T) {
	tests := []struct {
		name      string
		edit      func(*Config)
		wantField string
		wantErr   error
	}{
		{"start below one", func(c *Config) { c.WeekRange.Start = 0 }, "weekrange_start", ErrInvalidWeekRange},
		{"end before start", func(c *Config) { c.WeekRange = WeekRange{Start: 3, End: 2} }, "weekrange_end", ErrInvalidWeekRange},
		{"load below -100%", func(c *Config) { c.Increments.LoadPercentage = -1.5 }, "increments_loadpercentage", ErrInvalidConfig},
		{"too many sets allowed", func(c *Config) { c.SafetyLimits.MaxSets = 21 }, "safetylimits_maxsets", ErrInvalidConfig},
		{"unknown mode", func(c *Config) { c.AdjustmentType = "multiply" }, "adjustmenttype", ErrInvalidConfig},
		{"huge sets increment", func(c *Config) { c.Increments.Sets = 1e20 }, "increments_sets", ErrInvalidConfig},
		{"reps not a number", func(c *Config) { c.Increments.Reps = math.NaN() }, "increments_reps", ErrInvalidConfig},
		{"infinite rpe", func(c *Config) { c.Increments.RPE = math.Inf(-1) }, "increments_rpe", ErrInvalidConfig},
		{"load not a number", func(c *Config) { c.Increments.LoadPercentage = math.NaN() }, "increments_loadpercentage", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(1, 4)
			tt.edit(&cfg)

			err := cfg.Validate()
			var ve ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfig_ValidateFor(t *testing.T) {
	cfg := baseConfig(2, 5)
	assert.NoError(t, cfg.ValidateFor(5))
	assert.ErrorIs(t, cfg.ValidateFor(4), ErrInvalidWeekRange)
}

func TestConfig_Summary(t *testing.T) {
	cfg := baseConfig(1, 3)
	cfg.Increments = Increments{Sets: -1, Reps: 1, LoadPercentage: 0.025}
	assert.Equal(t, "weeks 1-3, sets -1, reps +1, load +2.5%", cfg.Summary())

	cfg.Filters = Filters{Tags: []string{"legs", "push"}}
	assert.Equal(t, "weeks 1-3, sets -1, reps +1, load +2.5%, tags legs,push", cfg.Summary())
}

func TestFilters_Matches(t *testing.T) {
	assert.True(t, Filters{ApplyToAll: true}.Matches(nil))
	assert.True(t, Filters{Tags: []string{"legs"}}.Matches([]string{"push", "legs"}))
	assert.False(t, Filters{Tags: []string{"legs"}}.Matches([]string{"push"}))
	assert.False(t, Filters{Tags: []string{"legs"}}.Matches(nil))
}
