package models

import (
	"time"

	"github.com/google/uuid"
)

// Program представляет программу: недели → дни → блоки → упражнения → подходы.
// У недель нет своего ID, они адресуются номером с 1.
type Program struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Weeks     []Week    `json:"weeks"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Week представляет неделю: упорядоченные тренировочные дни
type Week struct {
	Days []Day `json:"days"`
}

// Day представляет тренировочный день
type Day struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Blocks []Block `json:"blocks"`
}

// Block группа упражнений внутри дня (разминка, основная часть, подсобка)
type Block struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise представляет упражнение с подходами
type Exercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tags []Tag  `json:"tags"`
	Sets []Set  `json:"sets"`
}

// Tag метка упражнения для фильтров. Сравнивается только ID.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Set представляет подход. Любое поле может быть текстом ("AMRAP", "8-10").
type Set struct {
	ID     string `json:"id"`
	Reps   Value  `json:"reps"`
	Weight Value  `json:"weight"`
	RPE    Value  `json:"rpe"`
}

// NewID возвращает новый уникальный идентификатор узла
func NewID() string {
	return uuid.New().String()
}

// TotalWeeks количество недель
func (p *Program) TotalWeeks() int {
	if p == nil {
		return 0
	}
	return len(p.Weeks)
}

// Week неделя по номеру с 1, nil если такой нет
func (p *Program) Week(num int) *Week {
	if p == nil || num < 1 || num > len(p.Weeks) {
		return nil
	}
	return &p.Weeks[num-1]
}

// HasAnyTag есть ли у упражнения хотя бы одна из меток
func (e *Exercise) HasAnyTag(ids []string) bool {
	for _, tag := range e.Tags {
		for _, id := range ids {
			if tag.ID == id {
				return true
			}
		}
	}
	return false
}

// Exercises все упражнения недели по порядку дней и блоков
func (w *Week) Exercises() []*Exercise {
	var result []*Exercise
	for d := range w.Days {
		for b := range w.Days[d].Blocks {
			for e := range w.Days[d].Blocks[b].Exercises {
				result = append(result, &w.Days[d].Blocks[b].Exercises[e])
			}
		}
	}
	return result
}

// Volume объём недели (подходы × повторы): сумма числовых повторов всех подходов
func (w *Week) Volume() float64 {
	var total float64
	for _, ex := range w.Exercises() {
		total += ex.Volume()
	}
	return total
}

// Volume сумма числовых повторов упражнения
func (e *Exercise) Volume() float64 {
	var total float64
	for _, s := range e.Sets {
		if reps, ok := s.Reps.Float(); ok {
			total += reps
		}
	}
	return total
}
