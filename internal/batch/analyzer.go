package batch

import (
	"fmt"

	"planbot/internal/models"
)

// VolumeIncreaseThreshold рост объёма неделя к неделе, после которого выдаётся предупреждение
const VolumeIncreaseThreshold = 0.10

// ConfirmQuestion задаётся перед применением, если есть предупреждения
const ConfirmQuestion = "Всё равно применить?"

// AlertKind тип предупреждения
type AlertKind string

const (
	AlertMaxSets        AlertKind = "max_sets"
	AlertMaxReps        AlertKind = "max_reps"
	AlertVolumeIncrease AlertKind = "volume_increase"
)

// Alert предупреждение, применение не блокирует
type Alert struct {
	Kind     AlertKind
	Week     int
	Exercise string
	Message  string
}

func (a Alert) String() string {
	return a.Message
}

// WeekVolume объём недели до и после
type WeekVolume struct {
	Week   int
	Before float64
	After  float64
}

// Preview что изменит операция
type Preview struct {
	Alerts           []Alert
	WeekVolumes      []WeekVolume
	ExercisesTouched int
	SetsAdded        int
	SetsRemoved      int
}

// Messages тексты предупреждений по порядку
func (p Preview) Messages() []string {
	msgs := make([]string, len(p.Alerts))
	for i, a := range p.Alerts {
		msgs[i] = a.Message
	}
	return msgs
}

// ConfirmPrompt вопрос подтверждения, пусто если предупреждений нет
func (p Preview) ConfirmPrompt() string {
	if len(p.Alerts) == 0 {
		return ""
	}
	return ConfirmQuestion
}

// Analyze сравнивает новое дерево after с исходным before
func Analyze(before, after *models.Program, cfg Config) Preview {
	var preview Preview
	limits := cfg.SafetyLimits

	for w := range after.Weeks {
		week := w + 1
		for _, ex := range after.Weeks[w].Exercises() {
			if limits.MaxSets > 0 && len(ex.Sets) >= limits.MaxSets {
				preview.Alerts = append(preview.Alerts, Alert{
					Kind:     AlertMaxSets,
					Week:     week,
					Exercise: ex.Name,
					Message:  fmt.Sprintf("Неделя %d, %s: %d подходов, достигнут лимит %d", week, exerciseLabel(ex), len(ex.Sets), limits.MaxSets),
				})
			}
			if limits.MaxReps > 0 && hitsMaxReps(ex, limits.MaxReps) {
				preview.Alerts = append(preview.Alerts, Alert{
					Kind:     AlertMaxReps,
					Week:     week,
					Exercise: ex.Name,
					Message:  fmt.Sprintf("Неделя %d, %s: повторы достигли лимита %d", week, exerciseLabel(ex), limits.MaxReps),
				})
			}
		}
	}

	preview.WeekVolumes = weekVolumes(before, after)
	if limits.AlertVolumeIncrease {
		preview.Alerts = append(preview.Alerts, volumeAlerts(preview.WeekVolumes)...)
	}

	preview.ExercisesTouched, preview.SetsAdded, preview.SetsRemoved = diffCounts(before, after)
	return preview
}

func hitsMaxReps(ex *models.Exercise, maxReps int) bool {
	for _, s := range ex.Sets {
		if reps, ok := s.Reps.Float(); ok && reps >= float64(maxReps) {
			return true
		}
	}
	return false
}

func weekVolumes(before, after *models.Program) []WeekVolume {
	volumes := make([]WeekVolume, len(after.Weeks))
	for w := range after.Weeks {
		volumes[w] = WeekVolume{Week: w + 1, After: after.Weeks[w].Volume()}
		if w < len(before.Weeks) {
			volumes[w].Before = before.Weeks[w].Volume()
		}
	}
	return volumes
}

func volumeAlerts(volumes []WeekVolume) []Alert {
	var alerts []Alert
	for i := 1; i < len(volumes); i++ {
		prev, cur := volumes[i-1].After, volumes[i].After
		if prev <= 0 {
			continue
		}
		growth := (cur - prev) / prev
		if growth > VolumeIncreaseThreshold {
			alerts = append(alerts, Alert{
				Kind: AlertVolumeIncrease,
				Week: volumes[i].Week,
				Message: fmt.Sprintf("Объём растёт на %.1f%% с недели %d на неделю %d",
					growth*100, volumes[i-1].Week, volumes[i].Week),
			})
		}
	}
	return alerts
}

// diffCounts считает упражнения с новыми ID и изменение числа подходов
func diffCounts(before, after *models.Program) (touched, added, removed int) {
	known := make(map[string]bool)
	for w := range before.Weeks {
		for _, ex := range before.Weeks[w].Exercises() {
			known[ex.ID] = true
		}
	}

	for w := range after.Weeks {
		setsAfter := 0
		for _, ex := range after.Weeks[w].Exercises() {
			if !known[ex.ID] {
				touched++
			}
			setsAfter += len(ex.Sets)
		}
		setsBefore := 0
		if w < len(before.Weeks) {
			for _, ex := range before.Weeks[w].Exercises() {
				setsBefore += len(ex.Sets)
			}
		}
		if d := setsAfter - setsBefore; d > 0 {
			added += d
		} else {
			removed -= d
		}
	}
	return touched, added, removed
}

func exerciseLabel(ex *models.Exercise) string {
	if ex.Name != "" {
		return ex.Name
	}
	return ex.ID
}
