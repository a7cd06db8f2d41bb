package bot

import (
	"fmt"
	"strconv"
	"strings"

	"planbot/internal/batch"
)

// ключи настроек и их русские синонимы
var settingAliases = map[string]string{
	"weeks":   "weeks",
	"недели":  "weeks",
	"sets":    "sets",
	"подходы": "sets",
	"reps":    "reps",
	"повторы": "reps",
	"load":    "load",
	"вес":     "load",
	"rpe":     "rpe",
	"tags":    "tags",
	"теги":    "tags",
	"maxsets": "maxsets",
	"maxreps": "maxreps",
	"volume":  "volume",
	"объём":   "volume",
	"mode":    "mode",
	"режим":   "mode",
	"source":  "source",
	"неделя":  "source",
}

// parseSettings applies every line of text ("reps +1", "load 2.5%", ...) to cfg.
// Lines may also be separated by ';'. source is the source week of a duplicate.
func parseSettings(text string, cfg batch.Config, source int) (batch.Config, int, error) {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == ';' })
	applied := 0
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		applied++
		key, ok := settingAliases[strings.ToLower(fields[0])]
		if !ok {
			return cfg, source, settingError(fields[0], "неизвестная настройка")
		}
		value := strings.Join(fields[1:], " ")
		if value == "" {
			return cfg, source, settingError(key, "нет значения")
		}

		var err error
		switch key {
		case "weeks":
			cfg.WeekRange, err = parseWeekRange(value)
		case "sets":
			cfg.Increments.Sets, err = parseNumber(key, value)
		case "reps":
			cfg.Increments.Reps, err = parseNumber(key, value)
		case "rpe":
			cfg.Increments.RPE, err = parseNumber(key, value)
		case "load":
			cfg.Increments.LoadPercentage, err = parseLoad(value)
		case "tags":
			cfg.Filters = parseTags(value)
		case "maxsets":
			cfg.SafetyLimits.MaxSets, err = parseInt(key, value)
		case "maxreps":
			cfg.SafetyLimits.MaxReps, err = parseInt(key, value)
		case "volume":
			cfg.SafetyLimits.AlertVolumeIncrease, err = parseSwitch(value)
		case "mode":
			cfg.AdjustmentType, err = parseMode(value)
		case "source":
			source, err = parseInt(key, value)
			if err == nil && source < 1 {
				err = settingError(key, "неделя должна быть не меньше 1")
			}
		}
		if err != nil {
			return cfg, source, err
		}
	}
	if applied == 0 {
		return cfg, source, settingError("", "пустая настройка")
	}
	return cfg, source, nil
}

// parseWeekRange: "1-4" или "3"
func parseWeekRange(value string) (batch.WeekRange, error) {
	r, err := batch.ParseWeekRange(value)
	if err != nil {
		return batch.WeekRange{}, settingError("weeks", "ожидается диапазон вида 1-4")
	}
	return r, nil
}

// parseLoad: "2.5%" это 0.025, без знака процента значение уже доля
func parseLoad(value string) (float64, error) {
	percent := strings.HasSuffix(value, "%")
	n, err := parseNumber("load", strings.TrimSuffix(value, "%"))
	if err != nil {
		return 0, err
	}
	if percent {
		n /= 100
	}
	return n, nil
}

func parseTags(value string) batch.Filters {
	switch strings.ToLower(value) {
	case "all", "все":
		return batch.Filters{ApplyToAll: true}
	}
	var tags []string
	for _, tag := range strings.Split(value, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return batch.Filters{Tags: tags}
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes", "да", "вкл":
		return true, nil
	case "off", "no", "нет", "выкл":
		return false, nil
	}
	return false, settingError("volume", "ожидается on или off")
}

func parseMode(value string) (batch.AdjustmentType, error) {
	mode := batch.AdjustmentType(strings.ToLower(value))
	if mode != batch.AdjustAdd && mode != batch.AdjustSet {
		return "", settingError("mode", "ожидается add или set")
	}
	return mode, nil
}

func parseNumber(key, value string) (float64, error) {
	value = strings.TrimPrefix(strings.Replace(value, ",", ".", 1), "+")
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, settingError(key, fmt.Sprintf("%q не число", value))
	}
	return n, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(value, "+"))
	if err != nil {
		return 0, settingError(key, fmt.Sprintf("%q не целое число", value))
	}
	return n, nil
}

func settingError(field, message string) error {
	return batch.ValidationError{Field: field, Message: message, Err: batch.ErrInvalidConfig}
}
