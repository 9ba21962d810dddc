package telegram

import (
	"context"
	"net/http"
	"time"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/logger"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(t.ctx, 5*time.Minute)
		defer cancel()

		return handler(ctx, c)
	}
}

func (t *TelegramBotHandler) RegisterHandlers() {
	t.echo.POST("/api/v1/telegram/webhook", func(c echo.Context) error {
		var update telebot.Update
		if err := c.Bind(&update); err != nil {
			t.log.ErrorContext(t.ctx, "Cannot bind JSON", logger.ErrorField(err))
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
		t.bot.ProcessUpdate(update)
		return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
	})

	t.bot.Handle("/start", t.WithContext(t.handleStart))
	t.bot.Handle("/help", t.WithContext(t.handleHelp))
	t.bot.Handle("/neworder", t.WithContext(t.handleNewOrder))
	t.bot.Handle("/myorders", t.WithContext(t.handleMyOrders))
	t.bot.Handle("/survey", t.WithContext(t.handleSurvey))
	t.bot.Handle("/chart", t.WithContext(t.handleChart))
	t.bot.Handle("/etf", t.WithContext(t.handleETF))
	t.bot.Handle("/report", t.WithContext(t.handleReport))
	t.bot.Handle("/cancel", t.WithContext(t.handleCancel))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handleText))

	t.bot.Handle(&btnWizardOption, t.WithContext(t.handleWizardOption))
	t.bot.Handle(&btnOrderDetail, t.WithContext(t.handleOrderDetail))
	t.bot.Handle(&btnOrderClose, t.WithContext(t.handleOrderClose))
	t.bot.Handle(&btnOrderReview, t.WithContext(t.handleOrderReview))
	t.bot.Handle(&btnChartSymbol, t.WithContext(t.handleChartSymbol))
	t.bot.Handle(&btnChartTimeframe, t.WithContext(t.handleChartTimeframe))
}

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	message := `👋 <b>Chào mừng đến với HARSI Trading Bot!</b> 🤖
Mình giúp bạn ghi lệnh swing trading theo chỉ báo HARSI và theo dõi kết quả.

🔧 Các lệnh bạn có thể dùng:

📝 /neworder - Ghi một lệnh mới (hỏi đáp từng bước)
📋 /myorders - Xem các lệnh đang mở và đã đóng
📊 /survey - Khảo sát xu hướng HARSI đa khung thời gian
📈 /chart - Xem biểu đồ giá
💵 /etf - Dòng tiền ETF BTC/ETH hôm nay
💰 /report - Tổng kết kết quả trading của bạn

💡 Trợ giúp:
🆘 /help - Hướng dẫn chi tiết
🔁 /start - Hiện lại tin nhắn này
❌ /cancel - Hủy phiên đang mở

🚀 <b>Sẵn sàng chưa?</b> Gõ /neworder để ghi lệnh đầu tiên!`
	_, err := t.telegram.Send(ctx, c, message, telebot.ModeHTML)
	return err
}

func (t *TelegramBotHandler) handleHelp(ctx context.Context, c telebot.Context) error {
	message := `❓ <b>Hướng dẫn sử dụng HARSI Trading Bot</b> ❓

Bot ghi lại lệnh swing trading của bạn kèm chỉ báo HARSI trên nhiều khung thời gian, tự tính risk/reward và tổng kết kết quả.

🤖 <b>Các lệnh chính:</b>
/neworder - Bắt đầu ghi lệnh mới, bot hỏi từng bước: symbol, hướng lệnh, HARSI các khung, entry, cắt lỗ, chốt lời, khối lượng, ghi chú
/myorders - Xem lệnh đang mở, bấm vào từng lệnh để đóng hoặc nhờ AI đánh giá
/survey - Khảo sát HARSI nhanh, bot tự suy ra xu hướng và khuyến nghị
/chart - Biểu đồ giá theo khung thời gian
/etf - Dòng tiền ETF BTC/ETH
/report - Thống kê thắng/thua và tổng R
/cancel - Hủy phiên đang mở

💡 <b>Mẹo:</b>
1. Trong lúc nhập liệu có thể gõ "skip" để bỏ qua trường không bắt buộc
2. Làm /survey mỗi sáng để nắm xu hướng trước khi vào lệnh
3. Nếu hướng lệnh ngược xu hướng khảo sát gần nhất, bot sẽ chặn và đề nghị khảo sát lại

📌 Mọi con số chỉ mang tính tham khảo, quyết định vẫn là của bạn! 🔍`
	_, err := t.telegram.Send(ctx, c, message, telebot.ModeHTML)
	return err
}

func (t *TelegramBotHandler) handleCancel(ctx context.Context, c telebot.Context) error {
	if t.wizard.Cancel(c.Sender().ID) {
		_, err := t.telegram.Send(ctx, c, "✅ Đã hủy phiên hiện tại.")
		return err
	}
	_, err := t.telegram.Send(ctx, c, "Không có phiên nào để hủy.")
	return err
}

func (t *TelegramBotHandler) handleText(ctx context.Context, c telebot.Context) error {
	ev := dto.Event{
		UserID: c.Sender().ID,
		ChatID: c.Chat().ID,
		Text:   c.Text(),
	}
	return t.dispatchWizardEvent(ctx, c, ev)
}
