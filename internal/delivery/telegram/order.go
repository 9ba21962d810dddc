package telegram

import (
	"context"
	"strings"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/logger"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) handleNewOrder(ctx context.Context, c telebot.Context) error {
	prompt, err := t.wizard.StartOrder(ctx, c.Sender().ID)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to start order session", logger.ErrorField(err))
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}
	return t.sendPrompt(ctx, c, prompt, nil)
}

// handleSurvey starts a HARSI survey. An optional payload picks the symbol
// up front, e.g. "/survey BTC".
func (t *TelegramBotHandler) handleSurvey(ctx context.Context, c telebot.Context) error {
	var symbol *dto.Symbol
	if payload := strings.TrimSpace(c.Message().Payload); payload != "" {
		parsed, ok := dto.ParseSymbol(payload)
		if !ok {
			_, err := t.telegram.Send(ctx, c, "❌ Symbol không hợp lệ. Ví dụ: /survey BTC")
			return err
		}
		symbol = &parsed
	}

	prompt, err := t.wizard.StartSurvey(ctx, c.Sender().ID, symbol)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to start survey session", logger.ErrorField(err))
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}
	return t.sendPrompt(ctx, c, prompt, nil)
}
