package wizard

import (
	"fmt"
	"strings"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/pkg/utils"
)

const (
	msgAskSymbol       = "📈 Chọn cặp giao dịch cho lệnh mới:"
	msgInvalidSymbol   = "❌ Mã không hợp lệ. Vui lòng chọn một trong các cặp bên dưới:"
	msgAskDirection    = "📊 %s — hướng lệnh là gì?"
	msgInvalidDir      = "❌ Hướng lệnh không hợp lệ. Chọn LONG hoặc SHORT:"
	msgAskHarsi        = "🔎 HARSI khung %s đang thế nào? (hoặc bỏ qua)"
	msgInvalidHarsi    = "❌ Không hiểu tín hiệu. Chọn bullish / bearish / neutral hoặc bỏ qua:"
	msgAskEntry        = "💰 Nhập giá entry (số dương, ví dụ: 65000.5):"
	msgInvalidNumber   = "❌ Giá không hợp lệ. Vui lòng nhập một số dương:"
	msgAskStopLoss     = "📉 Nhập giá stop-loss:"
	msgAskTakeProfit   = "🎯 Nhập giá take-profit (hoặc bỏ qua):"
	msgAskQuantity     = "🔢 Nhập khối lượng (hoặc bỏ qua):"
	msgAskNotes        = "📝 Thêm ghi chú cho lệnh: gõ tự do, chọn nhãn bên dưới, hoặc bấm ✅ Xong."
	msgAskClosePrice   = "💵 Nhập giá đóng lệnh cho %s #%d:"
	msgCancelled       = "✅ Đã hủy phiên hiện tại."
	msgSaveFailed      = "❌ Không lưu được lệnh, vui lòng thử lại với ✅ Xong."
	msgCloseSaveFailed = "❌ Không cập nhật được giá đóng, vui lòng nhập lại."
	msgOrderNotFound   = "❌ Không tìm thấy lệnh này nữa, phiên đã được hủy."
	msgSurveySaved     = "✅ Đã lưu khảo sát HARSI %s — xu hướng: %s, khuyến nghị: %s."
	msgSurveyFailed    = "❌ Không lưu được khảo sát, vui lòng chọn lại tín hiệu."

	msgDirectionBlocked = "⛔ HARSI 1D và 8H đều đang %s — ngược hẳn với lệnh %s.\n" +
		"Bot sẽ không ghi lệnh này. Hãy khảo sát lại trước khi vào lệnh."
)

const (
	tokenSkip     = "skip"
	tokenDone     = "done"
	tokenClear    = "clear"
	tokenCancel   = "cancel"
	tokenResurvey = "resurvey"
)

var noteLabels = []dto.Option{
	{Label: "Thuận xu hướng", Token: "note:trend"},
	{Label: "Ngược xu hướng", Token: "note:counter"},
	{Label: "Phá vỡ", Token: "note:breakout"},
	{Label: "Quét thanh khoản", Token: "note:sweep"},
	{Label: "Tin tức", Token: "note:news"},
	{Label: "FOMO", Token: "note:fomo"},
}

// noteLabelFor resolves a note token back to its display label; free-form
// tokens resolve to themselves.
func noteLabelFor(token string) string {
	for _, n := range noteLabels {
		if n.Token == token {
			return n.Label
		}
	}
	return ""
}

func cancelOption() dto.Option {
	return dto.Option{Label: "❌ Hủy", Token: tokenCancel}
}

func skipOption() dto.Option {
	return dto.Option{Label: "⏭ Bỏ qua", Token: tokenSkip}
}

func symbolPrompt(invalid bool) *dto.Prompt {
	text := msgAskSymbol
	if invalid {
		text = msgInvalidSymbol
	}
	opts := make([]dto.Option, 0, len(dto.Symbols)+1)
	for _, s := range dto.Symbols {
		opts = append(opts, dto.Option{Label: string(s), Token: string(s)})
	}
	opts = append(opts, cancelOption())
	return &dto.Prompt{Text: text, Options: opts}
}

func directionPrompt(symbol dto.Symbol, invalid bool) *dto.Prompt {
	text := fmt.Sprintf(msgAskDirection, symbol)
	if invalid {
		text = msgInvalidDir
	}
	return &dto.Prompt{
		Text: text,
		Options: []dto.Option{
			{Label: "🟢 LONG", Token: string(dto.DirectionLong)},
			{Label: "🔴 SHORT", Token: string(dto.DirectionShort)},
			cancelOption(),
		},
	}
}

func directionBlockedPrompt(reading dto.HarsiReading, direction dto.Direction) *dto.Prompt {
	return &dto.Prompt{
		Text: fmt.Sprintf(msgDirectionBlocked, reading, direction),
		Options: []dto.Option{
			{Label: "🔄 Khảo sát lại", Token: tokenResurvey},
			cancelOption(),
		},
	}
}

func harsiPrompt(tf dto.Timeframe, invalid bool) *dto.Prompt {
	text := fmt.Sprintf(msgAskHarsi, strings.ToUpper(string(tf)))
	if invalid {
		text = msgInvalidHarsi
	}
	return &dto.Prompt{
		Text: text,
		Options: []dto.Option{
			{Label: "🟢 Bullish", Token: string(dto.HarsiBullish)},
			{Label: "🔴 Bearish", Token: string(dto.HarsiBearish)},
			{Label: "🟡 Neutral", Token: string(dto.HarsiNeutral)},
			skipOption(),
			cancelOption(),
		},
	}
}

func numberPrompt(text string, invalid, skippable bool) *dto.Prompt {
	if invalid {
		text = msgInvalidNumber
	}
	opts := []dto.Option{}
	if skippable {
		opts = append(opts, skipOption())
	}
	opts = append(opts, cancelOption())
	return &dto.Prompt{Text: text, Options: opts}
}

func notesPrompt(current *string) *dto.Prompt {
	text := msgAskNotes
	if current != nil && *current != "" {
		text += "\n\nGhi chú hiện tại: " + *current
	}
	opts := make([]dto.Option, 0, len(noteLabels)+3)
	opts = append(opts, noteLabels...)
	opts = append(opts,
		dto.Option{Label: "🧹 Xóa ghi chú", Token: tokenClear},
		dto.Option{Label: "✅ Xong", Token: tokenDone},
		cancelOption(),
	)
	return &dto.Prompt{Text: text, Options: opts}
}

func closePricePrompt(symbol dto.Symbol, orderID uint, invalid bool) *dto.Prompt {
	text := fmt.Sprintf(msgAskClosePrice, symbol, orderID)
	if invalid {
		text = msgInvalidNumber
	}
	return &dto.Prompt{Text: text, Options: []dto.Option{cancelOption()}}
}

func completionText(orderID uint, d dto.OrderDraft) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💾 Đã lưu lệnh #%d!\n\n", orderID))
	sb.WriteString(fmt.Sprintf("• Cặp: %s %s\n", d.Symbol, d.Direction))
	if d.Entry != nil {
		sb.WriteString("• Entry: " + utils.FormatPrice(*d.Entry) + "\n")
	}
	if d.StopLoss != nil {
		sb.WriteString("• SL: " + utils.FormatPrice(*d.StopLoss))
		if d.PotentialStopLossPercent != nil {
			sb.WriteString(" (" + utils.FormatSignedPercent(-*d.PotentialStopLossPercent) + ")")
		}
		sb.WriteString("\n")
	}
	if d.TakeProfit != nil {
		sb.WriteString("• TP: " + utils.FormatPrice(*d.TakeProfit))
		if d.PotentialProfitPercent != nil {
			sb.WriteString(" (" + utils.FormatSignedPercent(*d.PotentialProfitPercent) + ")")
		}
		sb.WriteString("\n")
	}
	if d.Quantity != nil {
		sb.WriteString("• Khối lượng: " + utils.FormatPrice(*d.Quantity) + "\n")
	}
	if d.PotentialRiskRewardRatio != nil {
		sb.WriteString("• R:R: " + utils.FormatFloat(*d.PotentialRiskRewardRatio, 2) + "\n")
	}
	if d.Notes != nil {
		sb.WriteString("• Ghi chú: " + *d.Notes + "\n")
	}
	return sb.String()
}

func surveySavedText(symbol dto.Symbol, trend dto.Trend, recommendation dto.Recommendation) string {
	return fmt.Sprintf(msgSurveySaved, symbol, trend, recommendation)
}

func closedText(orderID uint, closePrice float64, d dto.OrderDraft) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Đã đóng lệnh #%d (%s %s) tại %s.\n\n",
		orderID, d.Symbol, d.Direction, utils.FormatPrice(closePrice)))
	if d.ActualRealizedPnL != nil {
		sb.WriteString("• PnL: " + utils.FormatPrice(*d.ActualRealizedPnL))
		if d.ActualRealizedPnLPercent != nil {
			sb.WriteString(" (" + utils.FormatSignedPercent(*d.ActualRealizedPnLPercent) + ")")
		}
		sb.WriteString("\n")
	}
	if d.ActualRiskRewardRatio != nil {
		sb.WriteString("• Kết quả: " + utils.FormatR(*d.ActualRiskRewardRatio) + " — " + d.OrderResult.String() + "\n")
	}
	return sb.String()
}
