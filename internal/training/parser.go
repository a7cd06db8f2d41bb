package training

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"planbot/internal/models"
)

// Формат текста программы (одна неделя, повторяется для каждой недели):
//
//	День A:
//	Присед 4x5x100 @8 #legs
//	Жим лежа 4/8 60 #push
//	Подтягивания 3xAMRAP
//
// Строка с двоеточием на конце начинает новый день, "[Блок]" начинает блок.
var (
	patternX     = regexp.MustCompile(`^(.+?)\s+(\d+)[xх](\d+|[A-Za-z]+)(?:[xх](\d+(?:[.,]\d+)?))?((?:\s+\S+)*)$`)
	patternSlash = regexp.MustCompile(`^(.+?)\s+(\d+)/(\d+|[A-Za-z]+)(?:\s+(\d+(?:[.,]\d+)?))?((?:\s+[@#]\S+)*)$`)
)

const (
	defaultDayName   = "День 1"
	defaultBlockName = "Основной"
	maxParsedSets    = 20
)

// ExerciseInput одна распознанная строка упражнения
type ExerciseInput struct {
	Name   string
	Sets   int
	Reps   models.Value
	Weight models.Value
	RPE    models.Value
	Tags   []string
}

type blockInput struct {
	name      string
	exercises []ExerciseInput
}

type dayInput struct {
	name   string
	blocks []blockInput
}

// ParseExercise разбирает одну строку: "Жим лежа 4x10x60 @8 #push" или "Подтягивания 4/10 20"
func ParseExercise(line string) (ExerciseInput, bool) {
	line = strings.TrimSpace(line)
	var m []string
	if m = patternSlash.FindStringSubmatch(line); m == nil {
		m = patternX.FindStringSubmatch(line)
	}
	if m == nil {
		return ExerciseInput{}, false
	}

	ex := ExerciseInput{Name: strings.TrimSpace(m[1])}
	ex.Sets, _ = strconv.Atoi(m[2])
	if ex.Sets < 1 || ex.Sets > maxParsedSets {
		return ExerciseInput{}, false
	}
	ex.Reps = models.ParseValue(m[3])
	if m[4] != "" {
		ex.Weight = models.ParseValue(m[4])
	}
	for _, token := range strings.Fields(m[5]) {
		switch {
		case strings.HasPrefix(token, "@"):
			ex.RPE = models.ParseValue(strings.TrimPrefix(token, "@"))
		case strings.HasPrefix(token, "#"):
			if tag := strings.TrimPrefix(token, "#"); tag != "" {
				ex.Tags = append(ex.Tags, tag)
			}
		}
	}
	return ex, true
}

// ParseProgram строит программу из текста одной недели, повторённой weeks раз.
// Каждая неделя получает собственные идентификаторы.
func ParseProgram(id int, name, text string, weeks int) (*models.Program, error) {
	if weeks < 1 {
		return nil, fmt.Errorf("количество недель должно быть не меньше 1")
	}
	days, err := parseDays(text)
	if err != nil {
		return nil, err
	}

	p := &models.Program{ID: id, Name: name}
	for w := 0; w < weeks; w++ {
		week := models.Week{Days: make([]models.Day, 0, len(days))}
		for _, d := range days {
			week.Days = append(week.Days, buildDay(d))
		}
		p.Weeks = append(p.Weeks, week)
	}
	return p, nil
}

func parseDays(text string) ([]dayInput, error) {
	var days []dayInput
	current := func() *dayInput {
		if len(days) == 0 {
			days = append(days, dayInput{name: defaultDayName})
		}
		return &days[len(days)-1]
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue
		case strings.HasSuffix(line, ":"):
			days = append(days, dayInput{name: strings.TrimSpace(strings.TrimSuffix(line, ":"))})
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			d := current()
			d.blocks = append(d.blocks, blockInput{name: strings.TrimSpace(line[1 : len(line)-1])})
		default:
			ex, ok := ParseExercise(line)
			if !ok {
				return nil, fmt.Errorf("строка %d: не удалось распознать %q", i+1, line)
			}
			d := current()
			if len(d.blocks) == 0 {
				d.blocks = append(d.blocks, blockInput{name: defaultBlockName})
			}
			b := &d.blocks[len(d.blocks)-1]
			b.exercises = append(b.exercises, ex)
		}
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("пустой текст")
	}
	return days, nil
}

func buildDay(d dayInput) models.Day {
	day := models.Day{ID: models.NewID(), Name: d.name}
	for _, b := range d.blocks {
		block := models.Block{ID: models.NewID(), Name: b.name}
		for _, in := range b.exercises {
			block.Exercises = append(block.Exercises, buildExercise(in))
		}
		day.Blocks = append(day.Blocks, block)
	}
	return day
}

func buildExercise(in ExerciseInput) models.Exercise {
	ex := models.Exercise{ID: models.NewID(), Name: in.Name}
	for _, tag := range in.Tags {
		ex.Tags = append(ex.Tags, models.Tag{ID: strings.ToLower(tag), Label: tag})
	}
	for i := 0; i < in.Sets; i++ {
		ex.Sets = append(ex.Sets, models.Set{
			ID:     models.NewID(),
			Reps:   in.Reps.Copy(),
			Weight: in.Weight.Copy(),
			RPE:    in.RPE.Copy(),
		})
	}
	return ex
}
