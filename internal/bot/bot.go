package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"planbot/internal/batch"
	"planbot/internal/gsheets"
	"planbot/internal/presets"
	"planbot/internal/repository"
	"planbot/internal/training"
)

const (
	commandStart        = "start"
	commandHelp         = "help"
	commandPrograms     = "programs"
	commandBatch        = "batch"
	commandBatchPreset  = "batch_preset"
	commandBatchHistory = "batch_history"
	commandPresets      = "presets"
	commandPublish      = "publish"
	commandCancel       = "cancel"
	commandImport       = "import"

	historyLimit = 10
)

const helpText = `Пакетное редактирование программ:
/programs - список программ
/batch <id> - новая пакетная операция
/batch_preset <id> <пресет> - операция по пресету
/presets - список пресетов
/batch_history <id> - история операций
/publish <id> [spreadsheet] - выгрузить программу в Google Sheets
/import <id> <недель> <название> - новая программа, неделя текстом со следующей строки
/cancel - отменить текущую операцию`

// chatSession пакетная операция одного чата
type chatSession struct {
	programID int
	source    int
	session   *batch.Session
}

// Bot представляет Telegram бота
type Bot struct {
	api     *tgbotapi.BotAPI
	repo    *repository.Repository
	presets *presets.Library
	sheets  *gsheets.Client // nil, если Google Sheets не настроен
	limits  batch.SafetyLimits
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*chatSession
}

// New создаёт новый экземпляр бота
func New(api *tgbotapi.BotAPI, repo *repository.Repository, lib *presets.Library, sheets *gsheets.Client, limits batch.SafetyLimits, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:      api,
		repo:     repo,
		presets:  lib,
		sheets:   sheets,
		limits:   limits,
		logger:   logger,
		sessions: make(map[int64]*chatSession),
	}
}

// Start обрабатывает обновления до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("бот запущен", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !b.repo.Editor.IsEditor(ctx, chatID) {
		b.sendMessage(chatID, "Нет доступа. Попросите администратора добавить вас в редакторы.")
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	cs := b.session(chatID)
	if cs == nil {
		b.sendMessage(chatID, helpText)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == btnCancel {
		b.cancel(chatID)
		return
	}

	switch cs.session.State() {
	case batch.StateSelecting:
		b.handleSelect(chatID, cs, text)
	case batch.StateConfiguring:
		b.handleConfigure(ctx, chatID, cs, text)
	case batch.StatePreviewing:
		b.handlePreviewReply(ctx, chatID, cs, text)
	default:
		b.dropSession(chatID)
		b.sendMessage(chatID, helpText)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())

	switch message.Command() {
	case commandStart, commandHelp:
		b.sendMessage(chatID, helpText)
	case commandPrograms:
		items, err := b.repo.Program.List(ctx)
		if err != nil {
			b.sendError(chatID, "Не удалось получить список программ", err)
			return
		}
		b.sendMessage(chatID, formatPrograms(items))
	case commandPresets:
		b.sendMessage(chatID, formatPresets(b.presets.List()))
	case commandBatch:
		programID, ok := b.programArg(chatID, args)
		if !ok {
			return
		}
		cs, err := b.openSession(ctx, chatID, programID)
		if err != nil {
			b.sendError(chatID, "Не удалось открыть программу", err)
			return
		}
		b.sendMessageWithKeyboard(chatID, fmt.Sprintf("Программа %d. Выберите операцию:", cs.programID), actionKeyboard())
	case commandBatchPreset:
		b.handleBatchPreset(ctx, chatID, args)
	case commandBatchHistory:
		programID, ok := b.programArg(chatID, args)
		if !ok {
			return
		}
		entries, err := b.repo.History.List(ctx, programID, historyLimit)
		if err != nil {
			b.sendError(chatID, "Не удалось получить историю", err)
			return
		}
		b.sendMessage(chatID, formatHistory(programID, entries))
	case commandPublish:
		b.handlePublish(ctx, chatID, args)
	case commandImport:
		b.handleImport(ctx, chatID, message.CommandArguments())
	case commandCancel:
		b.cancel(chatID)
	default:
		b.sendMessage(chatID, "Неизвестная команда\n\n"+helpText)
	}
}

func (b *Bot) handleBatchPreset(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		b.sendMessage(chatID, "Использование: /batch_preset <id программы> <пресет>")
		return
	}
	programID, ok := b.programArg(chatID, args)
	if !ok {
		return
	}
	preset, err := b.presets.Get(args[1])
	if err != nil {
		b.sendError(chatID, fmt.Sprintf("Пресет %q не найден. /presets покажет доступные", args[1]), err)
		return
	}

	cs, err := b.openSession(ctx, chatID, programID)
	if err != nil {
		b.sendError(chatID, "Не удалось открыть программу", err)
		return
	}
	action, cfg, err := preset.Resolve(cs.session.Config().WeekRange.End, b.limits)
	if err != nil {
		b.dropSession(chatID)
		b.sendError(chatID, "Пресет не подходит: "+err.Error(), err)
		return
	}
	if dup, ok := action.(batch.DuplicateWeek); ok {
		cs.source = dup.SourceWeek
	}
	if err := cs.session.Select(action); err != nil {
		b.dropSession(chatID)
		b.sendError(chatID, "Не удалось выбрать операцию", err)
		return
	}
	if err := cs.session.Configure(cfg); err != nil {
		b.sendMessageWithKeyboard(chatID, "Настройки пресета отклонены: "+err.Error(), configureKeyboard())
		return
	}
	b.preview(ctx, chatID, cs)
}

func (b *Bot) handleSelect(chatID int64, cs *chatSession, text string) {
	kind, ok := kindFromText(text)
	if !ok {
		b.sendMessageWithKeyboard(chatID, "Выберите операцию кнопкой", actionKeyboard())
		return
	}
	action, err := batch.ParseAction(string(kind), cs.source, cs.session.Config().AdjustmentType)
	if err != nil {
		b.sendError(chatID, "Неизвестная операция", err)
		return
	}
	if err := cs.session.Select(action); err != nil {
		b.sendError(chatID, "Не удалось выбрать операцию", err)
		return
	}
	b.sendMessageWithKeyboard(chatID, formatConfig(action, cs.session.Config()), configureKeyboard())
}

func (b *Bot) handleConfigure(ctx context.Context, chatID int64, cs *chatSession, text string) {
	switch text {
	case btnBack:
		if err := cs.session.Back(); err != nil {
			b.sendError(chatID, "Нельзя вернуться назад", err)
			return
		}
		b.sendMessageWithKeyboard(chatID, "Выберите операцию:", actionKeyboard())
		return
	case btnPreview:
		b.preview(ctx, chatID, cs)
		return
	}

	cfg, source, err := parseSettings(text, cs.session.Config(), cs.source)
	if err != nil {
		b.sendMessageWithKeyboard(chatID, "⚠️ "+err.Error(), configureKeyboard())
		return
	}
	if err := cs.session.Configure(cfg); err != nil {
		b.sendMessageWithKeyboard(chatID, "⚠️ "+err.Error(), configureKeyboard())
		return
	}

	// источник и режим живут в самой операции
	var next batch.Action
	switch cs.session.Action().(type) {
	case batch.DuplicateWeek:
		next = batch.DuplicateWeek{SourceWeek: source}
	case batch.MassAdjustment:
		next = batch.MassAdjustment{Mode: cfg.AdjustmentType}
	}
	if next != nil {
		if err := cs.session.SetAction(next); err != nil {
			b.sendError(chatID, "Не удалось обновить операцию", err)
			return
		}
	}
	cs.source = source

	b.sendMessageWithKeyboard(chatID, formatConfig(cs.session.Action(), cs.session.Config()), configureKeyboard())
}

func (b *Bot) handlePreviewReply(ctx context.Context, chatID int64, cs *chatSession, text string) {
	switch text {
	case btnBack:
		if err := cs.session.Back(); err != nil {
			b.sendError(chatID, "Нельзя вернуться назад", err)
			return
		}
		b.sendMessageWithKeyboard(chatID, formatConfig(cs.session.Action(), cs.session.Config()), configureKeyboard())
	case btnApply:
		result, err := cs.session.Confirm(ctx)
		if err != nil {
			b.sendMessageWithKeyboard(chatID, "❌ Изменения не применены: "+err.Error(), previewKeyboard())
			return
		}
		b.dropSession(chatID)
		if result.Outcome == batch.OutcomeUnsupported {
			b.sendMessageWithRemove(chatID, "Операция пока не поддерживается, программа не изменена")
			return
		}
		b.sendMessageWithRemove(chatID, fmt.Sprintf("✅ Готово: %s, %s", result.Action.Kind().Title(), result.Config.Summary()))
	default:
		b.sendMessageWithKeyboard(chatID, "Применить изменения?", previewKeyboard())
	}
}

func (b *Bot) preview(ctx context.Context, chatID int64, cs *chatSession) {
	result, err := cs.session.Preview(ctx)
	if err != nil {
		b.sendMessageWithKeyboard(chatID, "⚠️ "+describeError(err), configureKeyboard())
		return
	}
	b.sendMessageWithKeyboard(chatID, formatPreview(result), previewKeyboard())
}

func (b *Bot) handlePublish(ctx context.Context, chatID int64, args []string) {
	if b.sheets == nil {
		b.sendMessage(chatID, "Google Sheets не настроен")
		return
	}
	programID, ok := b.programArg(chatID, args)
	if !ok {
		return
	}
	program, err := b.repo.Program.Get(ctx, programID)
	if err != nil {
		b.sendError(chatID, "Не удалось открыть программу", err)
		return
	}

	var spreadsheetID string
	if len(args) > 1 {
		spreadsheetID = args[1]
	} else if spreadsheetID, err = b.sheets.CreateProgramSpreadsheet(ctx, program); err != nil {
		b.sendError(chatID, "Не удалось создать таблицу", err)
		return
	}

	if err := b.sheets.PublishProgram(ctx, spreadsheetID, program); err != nil {
		b.sendError(chatID, "Не удалось выгрузить программу", err)
		return
	}
	b.sendMessage(chatID, "Программа выгружена: "+gsheets.GetSpreadsheetURL(spreadsheetID))
}

// handleImport: первая строка "<id> <недель> <название>", дальше текст недели
func (b *Bot) handleImport(ctx context.Context, chatID int64, arguments string) {
	header, body, _ := strings.Cut(arguments, "\n")
	args := strings.Fields(header)
	if len(args) < 3 || strings.TrimSpace(body) == "" {
		b.sendMessage(chatID, "Использование:\n/import 3 4 Весна\nДень A:\nПрисед 4x5x100 #legs\nЖим лежа 4/8 60 #push")
		return
	}
	programID, ok := b.programArg(chatID, args)
	if !ok {
		return
	}
	weeks, err := strconv.Atoi(args[1])
	if err != nil || weeks < 1 {
		b.sendMessage(chatID, "Количество недель должно быть положительным числом")
		return
	}

	program, err := training.ParseProgram(programID, strings.Join(args[2:], " "), body, weeks)
	if err != nil {
		b.sendError(chatID, "Не удалось разобрать программу: "+err.Error(), err)
		return
	}
	if err := b.repo.Program.Create(ctx, program); err != nil {
		if errors.Is(err, repository.ErrProgramExists) {
			b.sendMessage(chatID, fmt.Sprintf("Программа %d уже существует", programID))
			return
		}
		b.sendError(chatID, "Не удалось сохранить программу", err)
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("Программа %d «%s» создана: недель %d. /batch %d для изменений",
		programID, program.Name, program.TotalWeeks(), programID))
}

func (b *Bot) openSession(ctx context.Context, chatID int64, programID int) (*chatSession, error) {
	logger := b.logger.With(zap.Int64("chat_id", chatID), zap.Int("program_id", programID))
	s := batch.NewSession(b.repo.Program.Store(programID), b.limits, logger)
	s.SetHistory(b.repo.History)
	if err := s.Reset(ctx); err != nil {
		return nil, err
	}

	cs := &chatSession{programID: programID, source: 1, session: s}
	b.mu.Lock()
	b.sessions[chatID] = cs
	b.mu.Unlock()
	return cs, nil
}

func (b *Bot) session(chatID int64) *chatSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[chatID]
}

func (b *Bot) dropSession(chatID int64) {
	b.mu.Lock()
	delete(b.sessions, chatID)
	b.mu.Unlock()
}

func (b *Bot) cancel(chatID int64) {
	b.dropSession(chatID)
	b.sendMessageWithRemove(chatID, "Операция отменена")
}

func (b *Bot) programArg(chatID int64, args []string) (int, bool) {
	if len(args) == 0 {
		b.sendMessage(chatID, "Укажите ID программы, например /batch 3. Список: /programs")
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		b.sendMessage(chatID, "ID программы должен быть положительным числом")
		return 0, false
	}
	return id, true
}

// describeError переводит ошибки движка в текст для тренера
func describeError(err error) string {
	switch {
	case errors.Is(err, batch.ErrInvalidWeekRange):
		return "Неверный диапазон недель: " + err.Error()
	case errors.Is(err, batch.ErrUnsupportedMode):
		return "Режим set пока не поддерживается, используйте mode add"
	case errors.Is(err, batch.ErrEmptyProgram):
		return "В программе нет недель"
	case errors.Is(err, batch.ErrInvalidConfig):
		return "Неверные настройки: " + err.Error()
	case errors.Is(err, batch.ErrTransformFailed):
		return "Не удалось рассчитать изменения, программа не тронута"
	default:
		return err.Error()
	}
}
