package telegram

import (
	"context"
	"fmt"
	"strings"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/logger"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) handleETF(ctx context.Context, c telebot.Context) error {
	reports, err := t.service.MarketService.ETFFlows(ctx)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to fetch etf flows", logger.ErrorField(err))
		_, sendErr := t.telegram.Send(ctx, c, "❌ Không lấy được dữ liệu ETF, vui lòng thử lại sau.")
		return sendErr
	}

	sb := strings.Builder{}
	sb.WriteString("📊 <b>Dòng tiền ETF gần đây</b> (triệu USD)\n")
	for _, report := range reports {
		name := "BTC"
		if report.Asset == dto.ETFAssetETH {
			name = "ETH"
		}
		sb.WriteString(fmt.Sprintf("\n<b>%s ETF</b>\n", name))

		var total float64
		for _, row := range report.Rows {
			icon := "🟢"
			if row.TotalFlow < 0 {
				icon = "🔴"
			}
			sb.WriteString(fmt.Sprintf("%s %s: %+.1f\n", icon, row.Date, row.TotalFlow))
			total += row.TotalFlow
		}
		sb.WriteString(fmt.Sprintf("Σ %d ngày: <b>%+.1f</b>\n", len(report.Rows), total))
	}

	_, err = t.telegram.Send(ctx, c, sb.String(), telebot.ModeHTML)
	return err
}
