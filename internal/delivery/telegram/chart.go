package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/logger"

	"gopkg.in/telebot.v3"
)

// handleChart asks which symbol to chart. "/chart BTC 4h" skips straight to
// the snapshot.
func (t *TelegramBotHandler) handleChart(ctx context.Context, c telebot.Context) error {
	payload := strings.Fields(c.Message().Payload)
	if len(payload) >= 2 {
		symbol, okSym := dto.ParseSymbol(payload[0])
		timeframe, okTf := dto.ParseTimeframe(payload[1])
		if okSym && okTf {
			return t.sendChart(ctx, c, symbol, timeframe)
		}
		_, err := t.telegram.Send(ctx, c, "❌ Không hiểu. Ví dụ: /chart BTC 4h")
		return err
	}

	menu := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	var tempRow []telebot.Btn
	for _, symbol := range dto.Symbols {
		btn := menu.Data(string(symbol), btnChartSymbol.Unique, string(symbol))
		tempRow = append(tempRow, btn)
		if len(tempRow) == 2 {
			rows = append(rows, menu.Row(tempRow...))
			tempRow = nil
		}
	}
	if len(tempRow) > 0 {
		rows = append(rows, menu.Row(tempRow...))
	}
	menu.Inline(rows...)

	_, err := t.telegram.Send(ctx, c, "📈 Chọn symbol muốn xem biểu đồ:", menu)
	return err
}

func (t *TelegramBotHandler) handleChartSymbol(ctx context.Context, c telebot.Context) error {
	defer c.Respond()

	symbol, ok := dto.ParseSymbol(c.Data())
	if !ok {
		_, err := t.telegram.Send(ctx, c, commonErrorInternal)
		return err
	}

	menu := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	var tempRow []telebot.Btn
	for _, tf := range dto.Timeframes {
		btn := menu.Data(string(tf), btnChartTimeframe.Unique, fmt.Sprintf("%s|%s", symbol, tf))
		tempRow = append(tempRow, btn)
		if len(tempRow) == 4 {
			rows = append(rows, menu.Row(tempRow...))
			tempRow = nil
		}
	}
	if len(tempRow) > 0 {
		rows = append(rows, menu.Row(tempRow...))
	}
	menu.Inline(rows...)

	_, err := t.telegram.Send(ctx, c, fmt.Sprintf("🕐 Chọn khung thời gian cho %s:", symbol), menu)
	return err
}

func (t *TelegramBotHandler) handleChartTimeframe(ctx context.Context, c telebot.Context) error {
	defer c.Respond()

	parts := strings.SplitN(strings.TrimSpace(c.Data()), "|", 2)
	if len(parts) != 2 {
		_, err := t.telegram.Send(ctx, c, commonErrorInternal)
		return err
	}
	symbol, okSym := dto.ParseSymbol(parts[0])
	timeframe, okTf := dto.ParseTimeframe(parts[1])
	if !okSym || !okTf {
		_, err := t.telegram.Send(ctx, c, commonErrorInternal)
		return err
	}

	return t.sendChart(ctx, c, symbol, timeframe)
}

func (t *TelegramBotHandler) sendChart(ctx context.Context, c telebot.Context, symbol dto.Symbol, timeframe dto.Timeframe) error {
	png, err := t.service.MarketService.ChartSnapshot(ctx, symbol, timeframe)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to fetch chart snapshot",
			logger.StringField("symbol", string(symbol)),
			logger.ErrorField(err),
		)
		_, sendErr := t.telegram.Send(ctx, c, "❌ Không lấy được biểu đồ, vui lòng thử lại sau.")
		return sendErr
	}

	caption := fmt.Sprintf("📈 %s — khung %s", symbol, timeframe)
	if summary, err := t.service.MarketService.PriceSummary(ctx, symbol); err == nil {
		caption += fmt.Sprintf("\n💵 Giá hiện tại: %s", formatPriceSummary(summary))
	}

	photo := &telebot.Photo{
		File:    telebot.FromReader(bytes.NewReader(png)),
		Caption: caption,
	}
	_, err = t.telegram.Send(ctx, c, photo)
	return err
}

func formatPriceSummary(summary *dto.PriceSummary) string {
	text := fmt.Sprintf("%.2f", summary.LastPrice)
	if summary.DailyChangePercent != nil {
		icon := "🟢"
		if *summary.DailyChangePercent < 0 {
			icon = "🔴"
		}
		text += fmt.Sprintf(" (%s %+.2f%% hôm nay)", icon, *summary.DailyChangePercent)
	}
	return text
}
