package telegram

import (
	"fmt"
	"strings"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/pkg/utils"
)

func formatOrderDetail(order *model.Order) string {
	d := order.Data
	sb := strings.Builder{}

	sb.WriteString(fmt.Sprintf("📋 <b>Lệnh #%d — %s</b>", order.ID, d.Symbol))
	if d.Direction != "" {
		sb.WriteString(fmt.Sprintf(" %s", d.Direction))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("🕐 Tạo lúc: %s\n\n", order.CreatedAt.Format("02/01/2006 15:04")))

	var readings []string
	for _, tf := range dto.Timeframes {
		if r := d.Harsi(tf); r != nil {
			readings = append(readings, fmt.Sprintf("%s=%s", tf, *r))
		}
	}
	if len(readings) > 0 {
		sb.WriteString(fmt.Sprintf("📊 HARSI: %s\n\n", strings.Join(readings, ", ")))
	}

	if d.Entry != nil {
		sb.WriteString(fmt.Sprintf("💵 Entry: %s\n", utils.FormatPrice(*d.Entry)))
	}
	if d.StopLoss != nil {
		sb.WriteString(fmt.Sprintf("📉 Cắt lỗ: %s\n", utils.FormatPrice(*d.StopLoss)))
	}
	if d.TakeProfit != nil {
		sb.WriteString(fmt.Sprintf("🎯 Chốt lời: %s\n", utils.FormatPrice(*d.TakeProfit)))
	}
	if d.Quantity != nil {
		sb.WriteString(fmt.Sprintf("📦 Khối lượng: %s\n", utils.FormatFloat(*d.Quantity, 4)))
	}

	if d.PotentialStopLoss != nil {
		sb.WriteString(fmt.Sprintf("\n⚠️ Rủi ro: %s", utils.FormatPrice(*d.PotentialStopLoss)))
		if d.PotentialStopLossPercent != nil {
			sb.WriteString(fmt.Sprintf(" (%s)", utils.FormatSignedPercent(-*d.PotentialStopLossPercent)))
		}
		if d.PotentialStopLossUsd != nil {
			sb.WriteString(fmt.Sprintf(" ≈ %s USD", utils.FormatFloat(*d.PotentialStopLossUsd, 2)))
		}
		sb.WriteString("\n")
	}
	if d.PotentialProfit != nil {
		sb.WriteString(fmt.Sprintf("💰 Lợi nhuận kỳ vọng: %s", utils.FormatPrice(*d.PotentialProfit)))
		if d.PotentialProfitPercent != nil {
			sb.WriteString(fmt.Sprintf(" (%s)", utils.FormatSignedPercent(*d.PotentialProfitPercent)))
		}
		sb.WriteString("\n")
	}
	if d.PotentialRiskRewardRatio != nil {
		sb.WriteString(fmt.Sprintf("⚖️ R:R: %s\n", utils.FormatR(*d.PotentialRiskRewardRatio)))
	}

	if order.IsClosed() {
		sb.WriteString(fmt.Sprintf("\n📤 Giá đóng: %s\n", utils.FormatPrice(*order.ClosePrice)))
		if d.ActualRealizedPnL != nil {
			sb.WriteString(fmt.Sprintf("💵 PnL: %s", utils.FormatPrice(*d.ActualRealizedPnL)))
			if d.ActualRealizedPnLPercent != nil {
				sb.WriteString(fmt.Sprintf(" (%s)", utils.FormatSignedPercent(*d.ActualRealizedPnLPercent)))
			}
			sb.WriteString("\n")
		}
		if d.ActualRiskRewardRatio != nil {
			sb.WriteString(fmt.Sprintf("⚖️ R thực tế: %s\n", utils.FormatR(*d.ActualRiskRewardRatio)))
		}
		sb.WriteString(fmt.Sprintf("🏁 Kết quả: %s\n", d.OrderResult))
	}

	if d.Notes != nil && *d.Notes != "" {
		sb.WriteString(fmt.Sprintf("\n📝 Ghi chú: %s\n", *d.Notes))
	}

	return sb.String()
}

func formatOrderReview(review *dto.AIOrderReviewResponse) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("🤖 <b>AI đánh giá lệnh %s</b>\n\n", review.Symbol))
	sb.WriteString(fmt.Sprintf("🏷 Nhận định: <b>%s</b>\n", review.Verdict))
	sb.WriteString(fmt.Sprintf("📊 Điểm kỹ thuật: %.0f/100\n", review.Score))
	sb.WriteString(fmt.Sprintf("🎯 Độ tự tin: %.0f%%\n", review.Confidence))

	if len(review.KeyInsights) > 0 {
		sb.WriteString("\n🔍 <b>Điểm chính:</b>\n")
		for key, insight := range review.KeyInsights {
			sb.WriteString(fmt.Sprintf("  • <i>%s</i>: %s\n", key, insight))
		}
	}
	if review.Reason != "" {
		sb.WriteString(fmt.Sprintf("\n💬 %s\n", review.Reason))
	}

	sb.WriteString("\n📌 Chỉ mang tính tham khảo, quyết định vẫn là của bạn!")
	return sb.String()
}
