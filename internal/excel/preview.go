package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"planbot/internal/batch"
	"planbot/internal/models"
)

// Листы файла предпросмотра
const (
	SheetProgram = "Программа"
	SheetVolume  = "Объём"
	SheetAlerts  = "Предупреждения"
)

var programHeaders = []string{"Неделя", "День", "Блок", "Упражнение", "Подход", "Повторы", "Вес", "RPE", "Изменено"}

// ExportPreview записывает результат пакетной операции в xlsx: дерево после
// изменений, объём по неделям и предупреждения
func ExportPreview(path string, before *models.Program, result *batch.Result) error {
	if result == nil || result.Program == nil {
		return fmt.Errorf("нет результата для экспорта")
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetProgram)
	if _, err := f.NewSheet(SheetVolume); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetAlerts); err != nil {
		return err
	}

	header, err := headerStyle(f)
	if err != nil {
		return fmt.Errorf("ошибка создания стиля: %w", err)
	}
	changed, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFF2CC"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("ошибка создания стиля: %w", err)
	}

	if err := writeProgram(f, before, result.Program, header, changed); err != nil {
		return err
	}
	if err := writeVolumes(f, result.Preview.WeekVolumes, header); err != nil {
		return err
	}
	if err := writeAlerts(f, result.Preview.Alerts, header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("ошибка сохранения файла: %w", err)
	}
	return nil
}

func writeProgram(f *excelize.File, before, after *models.Program, header, changed int) error {
	if err := writeHeaders(f, SheetProgram, programHeaders, header); err != nil {
		return err
	}

	known := exerciseIDs(before)
	row := 2
	for wi := range after.Weeks {
		week := &after.Weeks[wi]
		for _, day := range week.Days {
			for _, block := range day.Blocks {
				for _, ex := range block.Exercises {
					_, existed := known[ex.ID]
					for si, set := range ex.Sets {
						values := []interface{}{
							wi + 1, day.Name, block.Name, ex.Name, si + 1,
							cellValue(set.Reps), cellValue(set.Weight), cellValue(set.RPE),
						}
						if !existed {
							values = append(values, "да")
						}
						cell, _ := excelize.CoordinatesToCellName(1, row)
						if err := f.SetSheetRow(SheetProgram, cell, &values); err != nil {
							return err
						}
						if !existed {
							last, _ := excelize.CoordinatesToCellName(len(programHeaders), row)
							f.SetCellStyle(SheetProgram, cell, last, changed)
						}
						row++
					}
				}
			}
		}
	}

	f.SetColWidth(SheetProgram, "B", "D", 20)
	return f.SetPanes(SheetProgram, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeVolumes(f *excelize.File, volumes []batch.WeekVolume, header int) error {
	if err := writeHeaders(f, SheetVolume, []string{"Неделя", "До", "После", "Изменение, %"}, header); err != nil {
		return err
	}
	for i, v := range volumes {
		row := i + 2
		values := []interface{}{v.Week, v.Before, v.After}
		if v.Before > 0 {
			values = append(values, (v.After-v.Before)/v.Before*100)
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetVolume, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func writeAlerts(f *excelize.File, alerts []batch.Alert, header int) error {
	if err := writeHeaders(f, SheetAlerts, []string{"Тип", "Неделя", "Упражнение", "Сообщение"}, header); err != nil {
		return err
	}
	for i, a := range alerts {
		values := []interface{}{string(a.Kind), a.Week, a.Exercise, a.Message}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetAlerts, cell, &values); err != nil {
			return err
		}
	}
	f.SetColWidth(SheetAlerts, "D", "D", 60)
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
}

// cellValue: числа пишем числами, текст как есть
func cellValue(v models.Value) interface{} {
	if n, ok := v.Float(); ok {
		return n
	}
	return v.Text
}

func exerciseIDs(p *models.Program) map[string]struct{} {
	ids := make(map[string]struct{})
	if p == nil {
		return ids
	}
	for wi := range p.Weeks {
		for _, ex := range p.Weeks[wi].Exercises() {
			ids[ex.ID] = struct{}{}
		}
	}
	return ids
}
