package training

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"planbot/internal/models"
)

func TestParseExercise(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ExerciseInput
	}{
		{
			name:  "x format with weight",
			input: "Жим лежа 4x10x60",
			want:  ExerciseInput{Name: "Жим лежа", Sets: 4, Reps: models.Number(10), Weight: models.Number(60)},
		},
		{
			name:  "cyrillic x",
			input: "Присед 5х5х80,5",
			want:  ExerciseInput{Name: "Присед", Sets: 5, Reps: models.Number(5), Weight: models.Number(80.5)},
		},
		{
			name:  "slash format",
			input: "Подтягивания 4/10 20",
			want:  ExerciseInput{Name: "Подтягивания", Sets: 4, Reps: models.Number(10), Weight: models.Number(20)},
		},
		{
			name:  "slash without weight",
			input: "Отжимания 3/15",
			want:  ExerciseInput{Name: "Отжимания", Sets: 3, Reps: models.Number(15)},
		},
		{
			name:  "rpe and tags",
			input: "Squat 4x5x100 @8 #legs #main",
			want: ExerciseInput{Name: "Squat", Sets: 4, Reps: models.Number(5), Weight: models.Number(100),
				RPE: models.Number(8), Tags: []string{"legs", "main"}},
		},
		{
			name:  "text reps",
			input: "Pull-ups 3xAMRAP @hard",
			want:  ExerciseInput{Name: "Pull-ups", Sets: 3, Reps: models.Text("AMRAP"), RPE: models.Text("hard")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseExercise(tt.input)
			if !ok {
				t.Fatalf("ParseExercise(%q) not recognized", tt.input)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseExercise(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseExercise_Rejects(t *testing.T) {
	for _, input := range []string{"", "Присед", "Присед 0x5", "Присед 25x5", "просто текст без цифр"} {
		if _, ok := ParseExercise(input); ok {
			t.Errorf("ParseExercise(%q) should fail", input)
		}
	}
}

func TestParseProgram(t *testing.T) {
	text := `
День A:
[Основная часть]
Присед 3x5x100 #legs
Жим лежа 3/8 60 #push
[Подсобка]
Подтягивания 3xAMRAP

День B:
Становая 2x5x120 @8
`
	p, err := ParseProgram(7, "Весна", text, 3)
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	if p.ID != 7 || p.Name != "Весна" || p.TotalWeeks() != 3 {
		t.Fatalf("program header = %d %q %d weeks", p.ID, p.Name, p.TotalWeeks())
	}

	week := p.Weeks[0]
	if len(week.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(week.Days))
	}
	if got := week.Days[0].Blocks[1].Name; got != "Подсобка" {
		t.Errorf("second block = %q", got)
	}
	if got := week.Days[1].Blocks[0].Name; got != defaultBlockName {
		t.Errorf("implicit block = %q, want %q", got, defaultBlockName)
	}
	squat := week.Days[0].Blocks[0].Exercises[0]
	if len(squat.Sets) != 3 || squat.Tags[0].ID != "legs" {
		t.Errorf("squat = %+v", squat)
	}
	if got := week.Volume(); got != 15+24+10 {
		t.Errorf("week volume = %v, want 49 (text reps are not counted)", got)
	}

	// every week carries its own identities
	seen := map[string]bool{}
	for wi := range p.Weeks {
		for _, ex := range p.Weeks[wi].Exercises() {
			if seen[ex.ID] {
				t.Fatalf("exercise id %s reused", ex.ID)
			}
			seen[ex.ID] = true
		}
	}

	// sets do not share value pointers
	*squat.Sets[0].Reps.Num = 99
	if v, _ := squat.Sets[1].Reps.Float(); v != 5 {
		t.Errorf("sets share reps storage")
	}
}

func TestParseProgram_Errors(t *testing.T) {
	if _, err := ParseProgram(1, "x", "", 2); err == nil {
		t.Error("empty text should fail")
	}
	if _, err := ParseProgram(1, "x", "Присед 3x5", 0); err == nil {
		t.Error("zero weeks should fail")
	}
	if _, err := ParseProgram(1, "x", "Присед 3x5\nчто-то непонятное", 1); err == nil {
		t.Error("unrecognized line should fail")
	}
}
