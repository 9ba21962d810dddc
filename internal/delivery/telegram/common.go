package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/wizard"
	"harsi-trading-bot/pkg/logger"

	"gopkg.in/telebot.v3"
)

// dispatchWizardEvent feeds one normalized event into the wizard and renders
// whatever comes back.
func (t *TelegramBotHandler) dispatchWizardEvent(ctx context.Context, c telebot.Context, ev dto.Event) error {
	prompt, result, err := t.wizard.Handle(ctx, ev)
	switch {
	case errors.Is(err, wizard.ErrNoActiveSession):
		if strings.HasPrefix(strings.TrimSpace(ev.Input()), "/") {
			return nil
		}
		_, sendErr := t.telegram.Send(ctx, c, commonNoSession)
		return sendErr
	case errors.Is(err, wizard.ErrStaleState):
		_, sendErr := t.telegram.Send(ctx, c, commonErrorStale)
		return sendErr
	case err != nil:
		t.log.ErrorContext(ctx, "wizard failed to handle event",
			logger.Int64Field("user_id", ev.UserID),
			logger.ErrorField(err),
		)
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}

	if prompt != nil {
		if err := t.sendPrompt(ctx, c, prompt, result); err != nil {
			return err
		}
	}
	return nil
}

// sendPrompt renders a wizard prompt, attaching its options as an inline
// keyboard. A freshly saved order also gets an AI review shortcut.
func (t *TelegramBotHandler) sendPrompt(ctx context.Context, c telebot.Context, prompt *dto.Prompt, result *wizard.Result) error {
	menu := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	var tempRow []telebot.Btn

	for _, opt := range prompt.Options {
		btn := menu.Data(opt.Label, btnWizardOption.Unique, opt.Token)
		tempRow = append(tempRow, btn)
		if len(tempRow) == 2 {
			rows = append(rows, menu.Row(tempRow...))
			tempRow = nil
		}
	}
	if len(tempRow) > 0 {
		rows = append(rows, menu.Row(tempRow...))
	}

	if result != nil && result.Kind == wizard.ResultOrderSaved {
		rows = append(rows, menu.Row(
			menu.Data(btnOrderReview.Text, btnOrderReview.Unique, fmt.Sprintf("%d", result.OrderID)),
		))
	}

	if len(rows) == 0 {
		_, err := t.telegram.Send(ctx, c, prompt.Text, telebot.ModeHTML)
		return err
	}

	menu.Inline(rows...)
	_, err := t.telegram.Send(ctx, c, prompt.Text, menu, telebot.ModeHTML)
	return err
}

// handleWizardOption is the callback for every inline button a prompt emits.
func (t *TelegramBotHandler) handleWizardOption(ctx context.Context, c telebot.Context) error {
	defer c.Respond()

	ev := dto.Event{
		UserID:    c.Sender().ID,
		ChatID:    c.Chat().ID,
		Selection: strings.TrimSpace(c.Data()),
	}
	return t.dispatchWizardEvent(ctx, c, ev)
}
