package telegram

import "gopkg.in/telebot.v3"

var (
	btnWizardOption   telebot.Btn = telebot.Btn{Unique: "btn_wizard_option"}
	btnOrderDetail    telebot.Btn = telebot.Btn{Unique: "btn_order_detail"}
	btnOrderClose     telebot.Btn = telebot.Btn{Text: "📤 Đóng lệnh", Unique: "btn_order_close"}
	btnOrderReview    telebot.Btn = telebot.Btn{Text: "🤖 Đánh giá AI", Unique: "btn_order_review"}
	btnChartSymbol    telebot.Btn = telebot.Btn{Unique: "btn_chart_symbol"}
	btnChartTimeframe telebot.Btn = telebot.Btn{Unique: "btn_chart_timeframe"}
)

const (
	commonErrorInternal = "❌ Có lỗi xảy ra, vui lòng thử lại."
	commonErrorStale    = "⚠️ Phiên vừa được cập nhật ở nơi khác, vui lòng thử lại."
	commonNoSession     = "Bạn không có phiên nào đang mở. Dùng /help để xem các lệnh."
)
