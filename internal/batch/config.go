package batch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AdjustmentType как массовая корректировка трактует приросты
type AdjustmentType string

const (
	// AdjustAdd приросты как дельты
	AdjustAdd AdjustmentType = "add"
	// AdjustSet абсолютные значения (принимается, не поддерживается)
	AdjustSet AdjustmentType = "set"
)

// WeekRange диапазон недель с 1, включительно
type WeekRange struct {
	Start int `json:"start" yaml:"start" validate:"gte=1"`
	End   int `json:"end" yaml:"end" validate:"gtefield=Start"`
}

// Contains входит ли неделя в диапазон
func (r WeekRange) Contains(week int) bool {
	return week >= r.Start && week <= r.End
}

// ParseWeekRange читает "2-4" или одну неделю "3". Границы проверяет Validate.
func ParseWeekRange(s string) (WeekRange, error) {
	s = strings.ReplaceAll(s, " ", "")
	from, to, found := strings.Cut(s, "-")
	start, err := strconv.Atoi(from)
	if err != nil {
		return WeekRange{}, ValidationError{Field: "week_range", Message: fmt.Sprintf("%q не диапазон недель", s), Err: ErrInvalidWeekRange}
	}
	end := start
	if found {
		if end, err = strconv.Atoi(to); err != nil {
			return WeekRange{}, ValidationError{Field: "week_range", Message: fmt.Sprintf("%q не диапазон недель", s), Err: ErrInvalidWeekRange}
		}
	}
	return WeekRange{Start: start, End: end}, nil
}

// Increments приросты, 0 без изменений. LoadPercentage доля (0.025 = 2.5%).
type Increments struct {
	Sets           float64 `json:"sets" yaml:"sets" validate:"gte=-20,lte=20"`
	Reps           float64 `json:"reps" yaml:"reps" validate:"gte=-100,lte=100"`
	LoadPercentage float64 `json:"load_percentage" yaml:"load_percentage" validate:"gt=-1,lte=10"`
	RPE            float64 `json:"rpe" yaml:"rpe" validate:"gte=-20,lte=20"`
}

// IsZero ничего не меняется
func (i Increments) IsZero() bool {
	return i.Sets == 0 && i.Reps == 0 && i.LoadPercentage == 0 && i.RPE == 0
}

// Filters ограничивают операцию упражнениями хотя бы с одним из Tags
type Filters struct {
	ApplyToAll bool     `json:"apply_to_all" yaml:"apply_to_all"`
	Tags       []string `json:"tags" yaml:"tags" validate:"required_if=ApplyToAll false,dive,required"`
}

// Matches проходит ли упражнение фильтр
func (f Filters) Matches(tags []string) bool {
	if f.ApplyToAll {
		return true
	}
	for _, t := range tags {
		for _, want := range f.Tags {
			if t == want {
				return true
			}
		}
	}
	return false
}

// SafetyLimits жёсткие потолки для всех изменений
type SafetyLimits struct {
	MaxSets             int  `json:"max_sets" yaml:"max_sets" validate:"gte=1,lte=20"`
	MaxReps             int  `json:"max_reps" yaml:"max_reps" validate:"gte=1,lte=100"`
	AlertVolumeIncrease bool `json:"alert_volume_increase" yaml:"alert_volume_increase"`
}

// DefaultSafetyLimits лимиты по умолчанию
var DefaultSafetyLimits = SafetyLimits{
	MaxSets:             8,
	MaxReps:             15,
	AlertVolumeIncrease: true,
}

// Config настройки одной пакетной операции
type Config struct {
	WeekRange      WeekRange      `json:"week_range" yaml:"week_range"`
	Increments     Increments     `json:"increments" yaml:"increments"`
	Filters        Filters        `json:"filters" yaml:"filters"`
	SafetyLimits   SafetyLimits   `json:"safety_limits" yaml:"safety_limits"`
	AdjustmentType AdjustmentType `json:"adjustment_type" yaml:"adjustment_type" validate:"omitempty,oneof=add set"`
}

// DefaultConfig настройки по умолчанию на всю программу
func DefaultConfig(totalWeeks int, limits SafetyLimits) Config {
	if totalWeeks < 1 {
		totalWeeks = 1
	}
	return Config{
		WeekRange:      WeekRange{Start: 1, End: totalWeeks},
		Filters:        Filters{ApplyToAll: true},
		SafetyLimits:   limits,
		AdjustmentType: AdjustAdd,
	}
}

var configValidate = validator.New()

// Validate структурная проверка
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	fe := fieldErrs[0]
	validationErr := ValidationError{
		Field:   fieldName(fe.Namespace()),
		Message: fmt.Sprintf("не прошло проверку %q (%s)", fe.Tag(), fe.Param()),
		Err:     ErrInvalidConfig,
	}
	// ошибки диапазона недель отдаём как ErrInvalidWeekRange
	if strings.HasPrefix(fe.Namespace(), "Config.WeekRange") {
		validationErr.Err = ErrInvalidWeekRange
	}
	return validationErr
}

// ValidateFor проверка против программы из totalWeeks недель
func (c Config) ValidateFor(totalWeeks int) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.WeekRange.Start < 1 || c.WeekRange.Start > c.WeekRange.End || c.WeekRange.End > totalWeeks {
		return ValidationError{
			Field:   "week_range",
			Message: fmt.Sprintf("недели %d-%d вне 1-%d", c.WeekRange.Start, c.WeekRange.End, totalWeeks),
			Err:     ErrInvalidWeekRange,
		}
	}
	return nil
}

// Summary краткое описание для истории и логов
func (c Config) Summary() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("weeks %d-%d", c.WeekRange.Start, c.WeekRange.End))
	if c.Increments.Sets != 0 {
		parts = append(parts, fmt.Sprintf("sets %+g", c.Increments.Sets))
	}
	if c.Increments.Reps != 0 {
		parts = append(parts, fmt.Sprintf("reps %+g", c.Increments.Reps))
	}
	if c.Increments.LoadPercentage != 0 {
		parts = append(parts, fmt.Sprintf("load %+g%%", c.Increments.LoadPercentage*100))
	}
	if c.Increments.RPE != 0 {
		parts = append(parts, fmt.Sprintf("rpe %+g", c.Increments.RPE))
	}
	if !c.Filters.ApplyToAll {
		parts = append(parts, "tags "+strings.Join(c.Filters.Tags, ","))
	}
	return strings.Join(parts, ", ")
}

func fieldName(namespace string) string {
	name := strings.TrimPrefix(namespace, "Config.")
	return strings.ToLower(strings.ReplaceAll(name, ".", "_"))
}
