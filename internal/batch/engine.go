package batch

import (
	"fmt"
	"time"

	"planbot/internal/models"
)

// Outcome изменилось ли дерево на самом деле
type Outcome string

const (
	// OutcomeApplied получено новое дерево
	OutcomeApplied Outcome = "applied"
	// OutcomeUnsupported операция принята, но пока недоступна; дерево без изменений
	OutcomeUnsupported Outcome = "unsupported"
)

// Result результат операции
type Result struct {
	Action  Action
	Config  Config
	Outcome Outcome
	Program *models.Program
	Preview Preview
}

// Apply проверяет запрос, строит новое дерево и анализирует его.
// Входная программа не меняется. При ошибке дерево не возвращается.
func Apply(p *models.Program, a Action, cfg Config) (result *Result, err error) {
	if err := Validate(p, a, cfg); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrTransformFailed, r)
		}
		observeTransform(a.Kind(), time.Since(start), err)
	}()

	next, outcome := transformTree(p, a, cfg)
	return &Result{
		Action:  a,
		Config:  cfg,
		Outcome: outcome,
		Program: next,
		Preview: Analyze(p, next, cfg),
	}, nil
}

// Validate отклоняет запрос до обхода дерева
func Validate(p *models.Program, a Action, cfg Config) error {
	if a == nil {
		return fmt.Errorf("%w: no action selected", ErrUnknownAction)
	}
	if p.TotalWeeks() == 0 {
		return ErrEmptyProgram
	}

	switch act := a.(type) {
	case DuplicateWeek:
		if act.SourceWeek < 1 || act.SourceWeek > p.TotalWeeks() {
			return ValidationError{
				Field:   "source_week",
				Message: fmt.Sprintf("неделя %d вне 1-%d", act.SourceWeek, p.TotalWeeks()),
				Err:     ErrInvalidWeekRange,
			}
		}
	case MassAdjustment:
		switch resolveMode(act, cfg) {
		case AdjustAdd:
		case AdjustSet:
			return ValidationError{Field: "adjustment_type", Message: "абсолютные значения пока не поддерживаются", Err: ErrUnsupportedMode}
		default:
			return ValidationError{Field: "adjustment_type", Message: fmt.Sprintf("неизвестный режим %q", act.Mode), Err: ErrInvalidConfig}
		}
	case LinearProgression, ApplyTemplate, ReorganizeDays:
	default:
		return fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}

	return cfg.ValidateFor(p.TotalWeeks())
}

// transformTree подменяется в тестах
var transformTree = transform

func transform(p *models.Program, a Action, cfg Config) (*models.Program, Outcome) {
	switch act := a.(type) {
	case DuplicateWeek:
		return duplicateWeek(p, act.SourceWeek, cfg), OutcomeApplied
	case LinearProgression:
		return linearProgression(p, cfg), OutcomeApplied
	case MassAdjustment:
		return massAdjustment(p, cfg), OutcomeApplied
	default:
		// шаблоны и перестановка дней возвращают неизменённую копию
		return copyProgram(p), OutcomeUnsupported
	}
}

func resolveMode(a MassAdjustment, cfg Config) AdjustmentType {
	switch {
	case a.Mode != "":
		return a.Mode
	case cfg.AdjustmentType != "":
		return cfg.AdjustmentType
	default:
		return AdjustAdd
	}
}
