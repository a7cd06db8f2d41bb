package gsheets

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"planbot/internal/models"
)

// SheetProgram лист с деревом программы
const SheetProgram = "Программа"

var programHeaders = []interface{}{"Неделя", "День", "Блок", "Упражнение", "Теги", "Подход", "Повторы", "Вес", "RPE"}

// Client клиент для работы с Google Sheets
type Client struct {
	sheets   *sheets.Service
	drive    *drive.Service
	folderID string
	logger   *zap.Logger
}

// NewClient создаёт клиент по service account credentials
func NewClient(ctx context.Context, credentialsPath, folderID string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data,
		sheets.SpreadsheetsScope,
		drive.DriveScope,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}

	client := config.Client(ctx)

	sheetsSrv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Sheets сервиса: %w", err)
	}
	driveSrv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Drive сервиса: %w", err)
	}

	return &Client{
		sheets:   sheetsSrv,
		drive:    driveSrv,
		folderID: folderID,
		logger:   logger,
	}, nil
}

// CreateProgramSpreadsheet создаёт таблицу для программы и кладёт её в папку
func (c *Client) CreateProgramSpreadsheet(ctx context.Context, program *models.Program) (string, error) {
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: program.Name},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: SheetProgram, Index: 0}},
		},
	}

	created, err := c.sheets.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("ошибка создания таблицы: %w", err)
	}

	if c.folderID != "" {
		_, err = c.drive.Files.Update(created.SpreadsheetId, nil).
			AddParents(c.folderID).
			Context(ctx).
			Do()
		if err != nil {
			c.logger.Warn("не удалось переместить таблицу в папку", zap.String("spreadsheet", created.SpreadsheetId), zap.Error(err))
		}
	}

	return created.SpreadsheetId, nil
}

// PublishProgram перезаписывает лист программы текущим деревом
func (c *Client) PublishProgram(ctx context.Context, spreadsheetID string, program *models.Program) error {
	_, err := c.sheets.Spreadsheets.Values.Clear(spreadsheetID, SheetProgram, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("ошибка очистки листа: %w", err)
	}

	valueRange := &sheets.ValueRange{Values: programRows(program)}
	_, err = c.sheets.Spreadsheets.Values.Update(spreadsheetID, SheetProgram+"!A1", valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("ошибка записи программы: %w", err)
	}

	c.formatHeaders(ctx, spreadsheetID, 0)
	c.logger.Info("программа опубликована",
		zap.Int("program_id", program.ID),
		zap.String("spreadsheet", spreadsheetID),
		zap.Int("rows", len(valueRange.Values)-1),
	)
	return nil
}

// programRows раскладывает дерево в строки: по одной на подход
func programRows(program *models.Program) [][]interface{} {
	rows := [][]interface{}{programHeaders}
	for wi := range program.Weeks {
		for _, day := range program.Weeks[wi].Days {
			for _, block := range day.Blocks {
				for _, ex := range block.Exercises {
					tags := ""
					for i, tag := range ex.Tags {
						if i > 0 {
							tags += ", "
						}
						tags += tag.Label
					}
					for si, set := range ex.Sets {
						rows = append(rows, []interface{}{
							wi + 1, day.Name, block.Name, ex.Name, tags, si + 1,
							cellValue(set.Reps), cellValue(set.Weight), cellValue(set.RPE),
						})
					}
				}
			}
		}
	}
	return rows
}

func cellValue(v models.Value) interface{} {
	if n, ok := v.Float(); ok {
		return n
	}
	return v.Text
}

// formatHeaders форматирует заголовки (жирный шрифт, цвет фона)
func (c *Client) formatHeaders(ctx context.Context, spreadsheetID string, sheetIndex int64) {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetIndex,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(programHeaders)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{Red: 0.2, Green: 0.4, Blue: 0.8},
						TextFormat: &sheets.TextFormat{
							Bold:            true,
							ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1},
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		},
	}

	_, err := c.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).
		Do()
	if err != nil {
		c.logger.Warn("ошибка форматирования", zap.String("spreadsheet", spreadsheetID), zap.Error(err))
	}
}

// GetSpreadsheetURL возвращает URL таблицы
func GetSpreadsheetURL(spreadsheetID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", spreadsheetID)
}
