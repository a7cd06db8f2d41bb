package batch

import (
	"math"

	"planbot/internal/models"
)

// maxRPE верх шкалы RPE
const maxRPE = 10

// duplicateWeek заменяет недели после source до cfg.WeekRange.End свежими копиями
// дней исходной недели. Недели за концом программы пропускаются.
func duplicateWeek(p *models.Program, source int, cfg Config) *models.Program {
	out := copyProgram(p)
	src := p.Weeks[source-1]

	for w := source + 1; w <= cfg.WeekRange.End && w <= len(out.Weeks); w++ {
		days := alloc(src.Days)
		for i, d := range src.Days {
			days[i] = CloneDay(d)
		}
		out.Weeks[w-1] = models.Week{Days: days}
	}
	return out
}

// linearProgression умножает приросты на смещение от первой недели диапазона.
// Первая неделя (множитель 0) копируется без изменений.
func linearProgression(p *models.Program, cfg Config) *models.Program {
	return mapExercises(p, cfg, func(e models.Exercise, week int) models.Exercise {
		return progressExercise(e, cfg, week-cfg.WeekRange.Start)
	}, cfg.WeekRange.Start+1)
}

// massAdjustment одинаковые приросты для каждой недели диапазона
func massAdjustment(p *models.Program, cfg Config) *models.Program {
	return mapExercises(p, cfg, func(e models.Exercise, _ int) models.Exercise {
		return adjustExercise(e, cfg)
	}, cfg.WeekRange.Start)
}

// mapExercises копирует программу и заменяет отфильтрованные упражнения недель
// [from, cfg.WeekRange.End] результатом fn.
func mapExercises(p *models.Program, cfg Config, fn func(models.Exercise, int) models.Exercise, from int) *models.Program {
	out := copyProgram(p)
	for w := range out.Weeks {
		week := w + 1
		if week < from || !cfg.WeekRange.Contains(week) {
			continue
		}
		for _, ex := range out.Weeks[w].Exercises() {
			if !cfg.Filters.Matches(tagIDs(ex.Tags)) {
				continue
			}
			*ex = fn(*ex, week)
		}
	}
	return out
}

func progressExercise(e models.Exercise, cfg Config, multiplier int) models.Exercise {
	out := CloneExercise(e)
	if multiplier <= 0 {
		return out
	}
	inc := cfg.Increments
	limits := cfg.SafetyLimits
	m := float64(multiplier)

	if inc.Sets > 0 {
		out.Sets = growSets(out.Sets, inc.Sets*m, limits.MaxSets)
	}

	for i := range out.Sets {
		s := &out.Sets[i]
		if reps, ok := s.Reps.Float(); ok && inc.Reps > 0 {
			s.Reps = models.Number(math.Min(reps+inc.Reps*m, float64(limits.MaxReps)))
		}
		if rpe, ok := s.RPE.Float(); ok && inc.RPE > 0 {
			s.RPE = models.Number(math.Min(maxRPE, rpe+inc.RPE*m))
		}
		if weight, ok := s.Weight.Float(); ok && inc.LoadPercentage > 0 {
			s.Weight = models.Number(roundLoad(weight * (1 + inc.LoadPercentage*m)))
		}
	}
	return out
}

func adjustExercise(e models.Exercise, cfg Config) models.Exercise {
	out := CloneExercise(e)
	inc := cfg.Increments
	limits := cfg.SafetyLimits

	switch {
	case inc.Sets > 0:
		out.Sets = growSets(out.Sets, inc.Sets, limits.MaxSets)
	case inc.Sets < 0:
		out.Sets = shrinkSets(out.Sets, int(math.Round(-inc.Sets)))
	}

	for i := range out.Sets {
		s := &out.Sets[i]
		if reps, ok := s.Reps.Float(); ok && inc.Reps != 0 {
			s.Reps = models.Number(clamp(reps+inc.Reps, 1, float64(limits.MaxReps)))
		}
		if rpe, ok := s.RPE.Float(); ok && inc.RPE != 0 {
			s.RPE = models.Number(clamp(rpe+inc.RPE, 1, maxRPE))
		}
		if weight, ok := s.Weight.Float(); ok && inc.LoadPercentage != 0 {
			s.Weight = models.Number(roundLoad(weight * (1 + inc.LoadPercentage)))
		}
	}
	return out
}

// growSets добавляет до n копий последнего подхода, не больше maxSets.
// Новые подходы копируют последний подход до приростов этого прохода.
func growSets(sets []models.Set, n float64, maxSets int) []models.Set {
	room := maxSets - len(sets)
	if len(sets) == 0 || room <= 0 {
		return sets
	}
	// считаем во float, чтобы огромный прирост не переполнил int
	count := room
	if r := math.Round(n); r < float64(room) {
		count = int(r)
	}
	template := sets[len(sets)-1]
	for i := 0; i < count; i++ {
		sets = append(sets, CloneSet(template))
	}
	return sets
}

// shrinkSets убирает n подходов с конца, минимум один остаётся
func shrinkSets(sets []models.Set, n int) []models.Set {
	keep := len(sets) - n
	if keep < 1 {
		keep = 1
	}
	if keep >= len(sets) {
		return sets
	}
	return sets[:keep:keep]
}

// roundLoad округляет вес до десятых
func roundLoad(w float64) float64 {
	return math.Round(w*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func tagIDs(tags []models.Tag) []string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
