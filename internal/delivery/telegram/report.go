package telegram

import (
	"context"
	"fmt"
	"strings"

	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/utils"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) handleReport(ctx context.Context, c telebot.Context) error {
	summary, err := t.service.ReportService.Summary(ctx, c.Sender().ID)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to build trading report", logger.ErrorField(err))
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}

	if summary.TotalOrders == 0 {
		_, err := t.telegram.Send(ctx, c, "❌ Bạn chưa có lệnh nào. Dùng /neworder để bắt đầu.")
		return err
	}

	sb := strings.Builder{}
	sb.WriteString("💰 <b>Tổng kết trading của bạn</b>\n\n")
	sb.WriteString(fmt.Sprintf("📋 Tổng số lệnh: %d (đang mở: %d, đã đóng: %d)\n",
		summary.TotalOrders, summary.Open, summary.Closed))

	if summary.Closed > 0 {
		sb.WriteString(fmt.Sprintf("🟢 Thắng: %d | 🔴 Thua: %d | 🟡 Hòa vốn: %d\n",
			summary.Wins, summary.Losses, summary.Breakevens))
		if summary.Wins+summary.Losses > 0 {
			sb.WriteString(fmt.Sprintf("🎯 Tỷ lệ thắng: %.1f%%\n", summary.WinRate))
		}
		sb.WriteString(fmt.Sprintf("⚖️ Tổng R: %s (trung bình %s/lệnh)\n",
			utils.FormatR(summary.TotalR), utils.FormatR(summary.AverageR)))

		if len(summary.BySymbol) > 0 {
			sb.WriteString("\n📊 <b>Theo symbol:</b>\n")
			for _, stats := range summary.BySymbol {
				sb.WriteString(fmt.Sprintf("  • %s: %d lệnh, %d thắng, %s",
					stats.Symbol, stats.Closed, stats.Wins, utils.FormatR(stats.TotalR)))
				if stats.HasUsdPnL {
					sb.WriteString(fmt.Sprintf(", %+.2f USD", stats.TotalUsd))
				}
				sb.WriteString("\n")
			}
		}
	}

	_, err = t.telegram.Send(ctx, c, sb.String(), telebot.ModeHTML)
	return err
}
