package batch

import (
	"fmt"
	"strings"
)

// ActionKind внешний строковый тег операции
type ActionKind string

const (
	KindDuplicateWeek     ActionKind = "duplicate"
	KindLinearProgression ActionKind = "progression"
	KindMassAdjustment    ActionKind = "adjust"
	KindApplyTemplate     ActionKind = "template"
	KindReorganizeDays    ActionKind = "reorganize"
)

// Kinds все операции в порядке меню
var Kinds = []ActionKind{
	KindDuplicateWeek,
	KindLinearProgression,
	KindMassAdjustment,
	KindApplyTemplate,
	KindReorganizeDays,
}

// Action одна из закрытого набора пакетных операций.
// Каждый вариант несёт только свои поля.
type Action interface {
	Kind() ActionKind
	action()
}

// DuplicateWeek копирует исходную неделю на все следующие до WeekRange.End
type DuplicateWeek struct {
	SourceWeek int
}

// LinearProgression умножает приросты на номер недели от WeekRange.Start
type LinearProgression struct{}

// MassAdjustment одинаковые приросты для каждой недели диапазона
type MassAdjustment struct {
	Mode AdjustmentType
}

// ApplyTemplate принимается, но пока не реализована
type ApplyTemplate struct {
	TemplateID string
}

// ReorganizeDays принимается, но пока не реализована
type ReorganizeDays struct{}

func (DuplicateWeek) Kind() ActionKind     { return KindDuplicateWeek }
func (LinearProgression) Kind() ActionKind { return KindLinearProgression }
func (MassAdjustment) Kind() ActionKind    { return KindMassAdjustment }
func (ApplyTemplate) Kind() ActionKind     { return KindApplyTemplate }
func (ReorganizeDays) Kind() ActionKind    { return KindReorganizeDays }

func (DuplicateWeek) action()     {}
func (LinearProgression) action() {}
func (MassAdjustment) action()    {}
func (ApplyTemplate) action()     {}
func (ReorganizeDays) action()    {}

// Title подпись операции
func (k ActionKind) Title() string {
	switch k {
	case KindDuplicateWeek:
		return "Duplicate week"
	case KindLinearProgression:
		return "Linear progression"
	case KindMassAdjustment:
		return "Mass adjustment"
	case KindApplyTemplate:
		return "Apply template"
	case KindReorganizeDays:
		return "Reorganize days"
	default:
		return string(k)
	}
}

// ParseAction строит операцию по тегу. sourceWeek нужен только duplicate,
// mode только adjust.
func ParseAction(kind string, sourceWeek int, mode AdjustmentType) (Action, error) {
	switch ActionKind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindDuplicateWeek:
		return DuplicateWeek{SourceWeek: sourceWeek}, nil
	case KindLinearProgression:
		return LinearProgression{}, nil
	case KindMassAdjustment:
		if mode == "" {
			mode = AdjustAdd
		}
		return MassAdjustment{Mode: mode}, nil
	case KindApplyTemplate:
		return ApplyTemplate{}, nil
	case KindReorganizeDays:
		return ReorganizeDays{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
}
