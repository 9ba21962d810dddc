package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/internal/service"
	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/utils"

	"gopkg.in/telebot.v3"
)

const myOrdersLimit = 10

// handleMyOrders lists the user's open orders. "/myorders closed" lists the
// most recently closed ones instead.
func (t *TelegramBotHandler) handleMyOrders(ctx context.Context, c telebot.Context) error {
	userID := c.Sender().ID
	showClosed := strings.EqualFold(strings.TrimSpace(c.Message().Payload), "closed")

	param := dto.GetOrdersParam{OnlyOpen: !showClosed, OnlyClosed: showClosed, Limit: myOrdersLimit}
	orders, err := t.service.OrderService.ListOrders(ctx, userID, param)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to list orders", logger.ErrorField(err))
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}

	if len(orders) == 0 {
		msg := "❌ Bạn chưa có lệnh nào đang mở. Dùng /neworder để ghi lệnh mới."
		if showClosed {
			msg = "❌ Bạn chưa có lệnh nào đã đóng."
		}
		_, err := t.telegram.Send(ctx, c, msg)
		return err
	}

	sb := strings.Builder{}
	if showClosed {
		sb.WriteString("📋 <b>Các lệnh đã đóng gần đây:</b>\n\n")
	} else {
		sb.WriteString("📋 <b>Các lệnh đang mở:</b>\n\n")
	}

	for idx, order := range orders {
		sb.WriteString(fmt.Sprintf("<b>%d. #%d %s</b>", idx+1, order.ID, order.Data.Symbol))
		if order.Data.Direction != "" {
			sb.WriteString(fmt.Sprintf(" %s", order.Data.Direction))
		}
		sb.WriteString("\n")
		if order.Data.Entry != nil {
			sb.WriteString(fmt.Sprintf("  • Entry: %s\n", utils.FormatPrice(*order.Data.Entry)))
		}
		if showClosed {
			sb.WriteString(fmt.Sprintf("  • Kết quả: %s", order.Data.OrderResult))
			if r := order.Data.ActualRiskRewardRatio; r != nil {
				sb.WriteString(fmt.Sprintf(" (%s)", utils.FormatR(*r)))
			}
			sb.WriteString("\n")
		} else if rrr := order.Data.PotentialRiskRewardRatio; rrr != nil {
			sb.WriteString(fmt.Sprintf("  • R:R: %s\n", utils.FormatR(*rrr)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("👉 Bấm vào lệnh bên dưới để xem chi tiết.")

	menu := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	var tempRow []telebot.Btn
	for _, order := range orders {
		btn := menu.Data(fmt.Sprintf("#%d %s", order.ID, order.Data.Symbol), btnOrderDetail.Unique, fmt.Sprintf("%d", order.ID))
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

	_, err = t.telegram.Send(ctx, c, sb.String(), menu, telebot.ModeHTML)
	return err
}

func (t *TelegramBotHandler) handleOrderDetail(ctx context.Context, c telebot.Context) error {
	defer c.Respond()

	order, ok := t.orderFromCallback(ctx, c)
	if !ok {
		return nil
	}

	menu := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	if !order.IsClosed() {
		rows = append(rows, menu.Row(menu.Data(btnOrderClose.Text, btnOrderClose.Unique, fmt.Sprintf("%d", order.ID))))
	}
	rows = append(rows, menu.Row(menu.Data(btnOrderReview.Text, btnOrderReview.Unique, fmt.Sprintf("%d", order.ID))))
	menu.Inline(rows...)

	_, err := t.telegram.Send(ctx, c, formatOrderDetail(order), menu, telebot.ModeHTML)
	return err
}

func (t *TelegramBotHandler) handleOrderClose(ctx context.Context, c telebot.Context) error {
	defer c.Respond()

	orderID, err := strconv.ParseUint(strings.TrimSpace(c.Data()), 10, 64)
	if err != nil {
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}

	order, err := t.service.OrderService.GetOrder(ctx, c.Sender().ID, uint(orderID))
	if err != nil {
		if err == service.ErrOrderNotFound {
			_, sendErr := t.telegram.Send(ctx, c, "❌ Không tìm thấy lệnh này nữa.")
			return sendErr
		}
		t.log.ErrorContext(ctx, "failed to load order", logger.ErrorField(err))
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}

	prompt, err := t.wizard.StartClose(ctx, c.Sender().ID, order.ID)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to start close session", logger.ErrorField(err))
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}

	// Best effort hint with the current market price.
	if price, priceErr := t.service.MarketService.LastPrice(ctx, order.Data.Symbol); priceErr == nil {
		prompt.Text += fmt.Sprintf("\n\n💡 Giá %s hiện tại: %s", order.Data.Symbol, utils.FormatPrice(price))
	}
	return t.sendPrompt(ctx, c, prompt, nil)
}

func (t *TelegramBotHandler) handleOrderReview(ctx context.Context, c telebot.Context) error {
	defer c.Respond()

	orderID, err := strconv.ParseUint(strings.TrimSpace(c.Data()), 10, 64)
	if err != nil {
		_, sendErr := t.telegram.Send(ctx, c, commonErrorInternal)
		return sendErr
	}

	if _, err := t.telegram.Send(ctx, c, "🤖 Đang nhờ AI đánh giá lệnh, chờ chút nhé..."); err != nil {
		return err
	}

	review, err := t.service.OrderService.ReviewOrder(ctx, c.Sender().ID, uint(orderID))
	if err != nil {
		if err == service.ErrOrderNotFound {
			_, sendErr := t.telegram.Send(ctx, c, "❌ Không tìm thấy lệnh này nữa.")
			return sendErr
		}
		t.log.ErrorContext(ctx, "failed to review order", logger.ErrorField(err))
		_, sendErr := t.telegram.Send(ctx, c, "❌ AI đang bận, vui lòng thử lại sau.")
		return sendErr
	}

	_, err = t.telegram.Send(ctx, c, formatOrderReview(review), telebot.ModeHTML)
	return err
}

func (t *TelegramBotHandler) orderFromCallback(ctx context.Context, c telebot.Context) (*model.Order, bool) {
	orderID, err := strconv.ParseUint(strings.TrimSpace(c.Data()), 10, 64)
	if err != nil {
		t.telegram.Send(ctx, c, commonErrorInternal)
		return nil, false
	}

	order, err := t.service.OrderService.GetOrder(ctx, c.Sender().ID, uint(orderID))
	if err != nil {
		if err == service.ErrOrderNotFound {
			t.telegram.Send(ctx, c, "❌ Không tìm thấy lệnh này nữa.")
		} else {
			t.log.ErrorContext(ctx, "failed to load order", logger.ErrorField(err))
			t.telegram.Send(ctx, c, commonErrorInternal)
		}
		return nil, false
	}
	return order, true
}
