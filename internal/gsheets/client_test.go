package gsheets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"planbot/internal/models"
)

func TestProgramRows(t *testing.T) {
	program := &models.Program{ID: 1, Weeks: []models.Week{
		{Days: []models.Day{{Name: "Day A", Blocks: []models.Block{{Name: "Main", Exercises: []models.Exercise{{
			Name: "Squat",
			Tags: []models.Tag{{ID: "legs", Label: "Legs"}, {ID: "main", Label: "Main lift"}},
			Sets: []models.Set{
				{Reps: models.Number(5), Weight: models.Number(100), RPE: models.Number(7.5)},
				{Reps: models.Text("AMRAP"), Weight: models.Number(90)},
			},
		}}}}}}},
		{Days: []models.Day{{Name: "Day A"}}},
	}}

	want := [][]interface{}{
		programHeaders,
		{1, "Day A", "Main", "Squat", "Legs, Main lift", 1, 5.0, 100.0, 7.5},
		{1, "Day A", "Main", "Squat", "Legs, Main lift", 2, "AMRAP", 90.0, ""},
	}
	if diff := cmp.Diff(want, programRows(program)); diff != "" {
		t.Errorf("programRows() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSpreadsheetURL(t *testing.T) {
	if got := GetSpreadsheetURL("abc"); got != "https://docs.google.com/spreadsheets/d/abc" {
		t.Errorf("GetSpreadsheetURL() = %q", got)
	}
}
