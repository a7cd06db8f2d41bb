package bot

import (
	"fmt"
	"strings"

	"planbot/internal/batch"
	"planbot/internal/presets"
	"planbot/internal/repository"
)

const settingsHelp = `Настройки, по одной на строку:
weeks 1-4 · sets +1 · reps +1 · load 2.5% · rpe 0.5
tags legs,push (или tags all) · maxsets 8 · maxreps 15
volume on|off · mode add|set · source 2 (для копирования недели)`

// formatConfig показывает текущие настройки сессии
func formatConfig(a batch.Action, cfg batch.Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Операция: %s\n", a.Kind().Title())
	if dup, ok := a.(batch.DuplicateWeek); ok {
		fmt.Fprintf(&sb, "Исходная неделя: %d\n", dup.SourceWeek)
	}
	fmt.Fprintf(&sb, "Настройки: %s\n", cfg.Summary())
	fmt.Fprintf(&sb, "Лимиты: подходов %d, повторений %d, контроль объёма %s\n",
		cfg.SafetyLimits.MaxSets, cfg.SafetyLimits.MaxReps, onOff(cfg.SafetyLimits.AlertVolumeIncrease))
	sb.WriteString("\n")
	sb.WriteString(settingsHelp)
	return sb.String()
}

// formatPreview описывает результат предпросмотра
func formatPreview(r *batch.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s: %s\n", r.Action.Kind().Title(), r.Config.Summary())

	if r.Outcome == batch.OutcomeUnsupported {
		sb.WriteString("\nЭта операция пока не поддерживается, программа не изменится.")
		return sb.String()
	}

	p := r.Preview
	fmt.Fprintf(&sb, "Упражнений изменено: %d\n", p.ExercisesTouched)
	if p.SetsAdded > 0 || p.SetsRemoved > 0 {
		fmt.Fprintf(&sb, "Подходов добавлено: %d, удалено: %d\n", p.SetsAdded, p.SetsRemoved)
	}

	if len(p.WeekVolumes) > 0 {
		sb.WriteString("\nОбъём по неделям:\n")
		for _, v := range p.WeekVolumes {
			fmt.Fprintf(&sb, "  Неделя %d: %g → %g\n", v.Week, v.Before, v.After)
		}
	}

	if len(p.Alerts) > 0 {
		sb.WriteString("\n⚠️ Предупреждения:\n")
		for _, msg := range p.Messages() {
			fmt.Fprintf(&sb, "• %s\n", msg)
		}
		sb.WriteString("\n")
		sb.WriteString(p.ConfirmPrompt())
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatHistory(programID int, entries []batch.HistoryEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("Для программы %d пакетных операций ещё не было", programID)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "История программы %d:\n", programID)
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n%s  %s (%s)\n", e.CreatedAt.Format("02.01.2006 15:04"), e.Action.Title(), e.Outcome)
		if e.Summary != "" {
			fmt.Fprintf(&sb, "  %s\n", e.Summary)
		}
		if len(e.Alerts) > 0 {
			fmt.Fprintf(&sb, "  предупреждений: %d\n", len(e.Alerts))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatPrograms(items []repository.ProgramListItem) string {
	if len(items) == 0 {
		return "Программ пока нет"
	}
	var sb strings.Builder
	sb.WriteString("Программы:\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "[%d] %s, недель: %d, изменена %s\n",
			item.ID, item.Name, item.TotalWeeks, item.UpdatedAt.Format("02.01.2006"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatPresets(list []presets.Preset) string {
	if len(list) == 0 {
		return "Пресетов нет"
	}
	var sb strings.Builder
	sb.WriteString("Пресеты:\n")
	for _, p := range list {
		fmt.Fprintf(&sb, "• %s (%s)", p.Name, p.Action)
		if p.Description != "" {
			fmt.Fprintf(&sb, ": %s", p.Description)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func onOff(v bool) string {
	if v {
		return "вкл"
	}
	return "выкл"
}
