package batch

import "planbot/internal/models"

// CloneDay глубокая копия дня: день и все вложенные блоки, упражнения и подходы
// получают новые ID. С исходником ничего не разделяется.
func CloneDay(d models.Day) models.Day {
	out := models.Day{
		ID:     models.NewID(),
		Name:   d.Name,
		Blocks: alloc(d.Blocks),
	}
	for i, b := range d.Blocks {
		out.Blocks[i] = cloneBlock(b)
	}
	return out
}

func cloneBlock(b models.Block) models.Block {
	out := models.Block{
		ID:        models.NewID(),
		Name:      b.Name,
		Exercises: alloc(b.Exercises),
	}
	for i, e := range b.Exercises {
		out.Exercises[i] = CloneExercise(e)
	}
	return out
}

// CloneExercise копия упражнения с новыми ID у него и подходов
func CloneExercise(e models.Exercise) models.Exercise {
	out := models.Exercise{
		ID:   models.NewID(),
		Name: e.Name,
		Tags: copyTags(e.Tags),
		Sets: alloc(e.Sets),
	}
	for i, s := range e.Sets {
		out.Sets[i] = CloneSet(s)
	}
	return out
}

// CloneSet копия подхода с новым ID
func CloneSet(s models.Set) models.Set {
	out := copySet(s)
	out.ID = models.NewID()
	return out
}

// copyProgram глубокая копия с сохранением ID
func copyProgram(p *models.Program) *models.Program {
	out := &models.Program{
		ID:        p.ID,
		Name:      p.Name,
		UpdatedAt: p.UpdatedAt,
		Weeks:     alloc(p.Weeks),
	}
	for i, w := range p.Weeks {
		out.Weeks[i] = copyWeek(w)
	}
	return out
}

func copyWeek(w models.Week) models.Week {
	out := models.Week{Days: alloc(w.Days)}
	for i, d := range w.Days {
		out.Days[i] = copyDay(d)
	}
	return out
}

func copyDay(d models.Day) models.Day {
	out := models.Day{ID: d.ID, Name: d.Name, Blocks: alloc(d.Blocks)}
	for i, b := range d.Blocks {
		out.Blocks[i] = models.Block{ID: b.ID, Name: b.Name, Exercises: alloc(b.Exercises)}
		for j, e := range b.Exercises {
			out.Blocks[i].Exercises[j] = copyExercise(e)
		}
	}
	return out
}

func copyExercise(e models.Exercise) models.Exercise {
	out := models.Exercise{ID: e.ID, Name: e.Name, Tags: copyTags(e.Tags), Sets: alloc(e.Sets)}
	for i, s := range e.Sets {
		out.Sets[i] = copySet(s)
	}
	return out
}

func copySet(s models.Set) models.Set {
	return models.Set{
		ID:     s.ID,
		Reps:   s.Reps.Copy(),
		Weight: s.Weight.Copy(),
		RPE:    s.RPE.Copy(),
	}
}

func copyTags(tags []models.Tag) []models.Tag {
	out := alloc(tags)
	copy(out, tags)
	return out
}

// alloc срез той же длины, nil остаётся nil
func alloc[T any](src []T) []T {
	if src == nil {
		return nil
	}
	return make([]T, len(src))
}
