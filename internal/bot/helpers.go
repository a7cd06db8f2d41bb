package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"planbot/internal/batch"
)

const (
	btnPreview = "👁 Предпросмотр"
	btnApply   = "✅ Применить"
	btnBack    = "⬅️ Назад"
	btnCancel  = "Отмена"
)

// sendError sends error message to user and logs it
func (b *Bot) sendError(chatID int64, userMessage string, err error) {
	if err != nil {
		b.logger.Warn("ошибка обработки", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	b.send(tgbotapi.NewMessage(chatID, userMessage))
}

// sendMessage sends message to user with error logging
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

// sendMessageWithKeyboard sends message with keyboard
func (b *Bot) sendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

// sendMessageWithRemove sends message and hides the keyboard
func (b *Bot) sendMessageWithRemove(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(msg)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("не удалось отправить сообщение", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

func actionKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(batch.Kinds); i += 2 {
		row := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(batch.Kinds[i].Title()))
		if i+1 < len(batch.Kinds) {
			row = append(row, tgbotapi.NewKeyboardButton(batch.Kinds[i+1].Title()))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func configureKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPreview),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

func previewKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnApply),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

// kindFromText accepts a button title or the raw kind tag
func kindFromText(text string) (batch.ActionKind, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, k := range batch.Kinds {
		if text == strings.ToLower(k.Title()) || text == string(k) {
			return k, true
		}
	}
	return "", false
}
