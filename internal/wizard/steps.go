package wizard

import (
	"context"
	"strings"
	"time"

	"harsi-trading-bot/internal/conversation"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/internal/risk"
	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/utils"
)

func (w *Wizard) handleSymbol(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	symbol, ok := dto.ParseSymbol(input)
	if !ok {
		return symbolPrompt(true), nil, nil
	}

	rec.Data.Symbol = symbol
	if rec.Mode == conversation.ModeSurvey {
		rec.Step = conversation.StepWaitingHarsi1W
		if err := w.store.Put(rec); err != nil {
			return nil, nil, err
		}
		return harsiPrompt(dto.Timeframe1W, false), nil, nil
	}

	rec.Step = conversation.StepWaitingDirection
	if err := w.store.Put(rec); err != nil {
		return nil, nil, err
	}
	return directionPrompt(symbol, false), nil, nil
}

func (w *Wizard) handleDirection(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	if input == tokenResurvey {
		// The unblock action offered by the contradiction gate: fold the
		// session into a survey for the same symbol.
		symbol := rec.Data.Symbol
		rec.Mode = conversation.ModeSurvey
		rec.Step = conversation.StepWaitingHarsi1W
		rec.Data = dto.OrderDraft{Symbol: symbol}
		if err := w.store.Put(rec); err != nil {
			return nil, nil, err
		}
		return harsiPrompt(dto.Timeframe1W, false), nil, nil
	}

	direction, ok := dto.ParseDirection(input)
	if !ok {
		return directionPrompt(rec.Data.Symbol, true), nil, nil
	}

	// Hard gate: when the latest survey's 1D and 8H readings both strongly
	// contradict the chosen direction, refuse to proceed. Nothing is
	// mutated and the step does not advance. Lookup failure degrades to
	// allowing the direction.
	if blocked, reading := w.directionContradicted(ctx, rec.Data.Symbol, direction); blocked {
		return directionBlockedPrompt(reading, direction), nil, nil
	}

	rec.Data.Direction = direction
	rec.Step = conversation.StepWaitingHarsi1W
	if err := w.store.Put(rec); err != nil {
		return nil, nil, err
	}
	return harsiPrompt(dto.Timeframe1W, false), nil, nil
}

func (w *Wizard) directionContradicted(ctx context.Context, symbol dto.Symbol, direction dto.Direction) (bool, dto.HarsiReading) {
	survey, err := w.trends.Latest(ctx, symbol)
	if err != nil {
		w.log.WarnContext(ctx, "Trend lookup failed, allowing direction",
			logger.StringField("symbol", string(symbol)),
			logger.ErrorField(err))
		return false, ""
	}
	if survey == nil {
		return false, ""
	}

	// The deciding pair is fixed to the 1-day and 8-hour timeframes.
	r1d := survey.Reading(dto.Timeframe1D)
	r8h := survey.Reading(dto.Timeframe8H)
	if r1d != nil && r8h != nil && r1d.Opposes(direction) && r8h.Opposes(direction) {
		return true, *r1d
	}
	return false, ""
}

func (w *Wizard) handleHarsi(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	tf, _ := rec.Step.HarsiTimeframe()

	if isSkip(input) {
		rec.Data.SetHarsi(tf, nil)
	} else {
		reading, ok := dto.ParseHarsiReading(input)
		if !ok {
			return harsiPrompt(tf, true), nil, nil
		}
		rec.Data.SetHarsi(tf, &reading)
	}

	if rec.Step == conversation.StepWaitingHarsi2H {
		if rec.Mode == conversation.ModeSurvey {
			return w.finalizeSurvey(ctx, rec)
		}
		rec.Step = conversation.StepWaitingEntry
		if err := w.store.Put(rec); err != nil {
			return nil, nil, err
		}
		return numberPrompt(msgAskEntry, false, false), nil, nil
	}

	rec.Step++
	if err := w.store.Put(rec); err != nil {
		return nil, nil, err
	}
	next, _ := rec.Step.HarsiTimeframe()
	return harsiPrompt(next, false), nil, nil
}

func (w *Wizard) handleEntry(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	value, ok := utils.ParsePositiveFloat(input)
	if !ok {
		return numberPrompt(msgAskEntry, true, false), nil, nil
	}
	rec.Data.Entry = &value
	rec.Step = conversation.StepWaitingStopLoss
	if err := w.store.Put(rec); err != nil {
		return nil, nil, err
	}
	return numberPrompt(msgAskStopLoss, false, false), nil, nil
}

func (w *Wizard) handleStopLoss(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	value, ok := utils.ParsePositiveFloat(input)
	if !ok {
		return numberPrompt(msgAskStopLoss, true, false), nil, nil
	}
	rec.Data.StopLoss = &value
	rec.Step = conversation.StepWaitingTakeProfit
	if err := w.store.Put(rec); err != nil {
		return nil, nil, err
	}
	return numberPrompt(msgAskTakeProfit, false, true), nil, nil
}

func (w *Wizard) handleTakeProfit(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	if isSkip(input) {
		rec.Data.TakeProfit = nil
	} else {
		value, ok := utils.ParsePositiveFloat(input)
		if !ok {
			return numberPrompt(msgAskTakeProfit, true, true), nil, nil
		}
		rec.Data.TakeProfit = &value
	}
	rec.Step = conversation.StepWaitingQuantity
	if err := w.store.Put(rec); err != nil {
		return nil, nil, err
	}
	return numberPrompt(msgAskQuantity, false, true), nil, nil
}

func (w *Wizard) handleQuantity(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	if isSkip(input) {
		rec.Data.Quantity = nil
	} else {
		value, ok := utils.ParsePositiveFloat(input)
		if !ok {
			return numberPrompt(msgAskQuantity, true, true), nil, nil
		}
		rec.Data.Quantity = &value
	}
	rec.Step = conversation.StepWaitingNotes
	if err := w.store.Put(rec); err != nil {
		return nil, nil, err
	}
	return notesPrompt(rec.Data.Notes), nil, nil
}

func (w *Wizard) handleNotes(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	switch {
	case input == tokenDone:
		if rec.Data.Notes != nil && *rec.Data.Notes == "" {
			rec.Data.Notes = nil
		}
		return w.finalizeOrder(ctx, rec)

	case isSkip(input):
		rec.Data.Notes = nil
		return w.finalizeOrder(ctx, rec)

	case input == tokenClear:
		empty := ""
		rec.Data.Notes = &empty
		if err := w.store.Put(rec); err != nil {
			return nil, nil, err
		}
		return notesPrompt(rec.Data.Notes), nil, nil

	case noteLabelFor(input) != "":
		rec.Data.Notes = appendNote(rec.Data.Notes, noteLabelFor(input))
		if err := w.store.Put(rec); err != nil {
			return nil, nil, err
		}
		return notesPrompt(rec.Data.Notes), nil, nil

	default:
		text := strings.TrimSpace(input)
		rec.Data.Notes = &text
		if err := w.store.Put(rec); err != nil {
			return nil, nil, err
		}
		return notesPrompt(rec.Data.Notes), nil, nil
	}
}

// appendNote adds label to the comma-joined note set, suppressing exact
// duplicates.
func appendNote(current *string, label string) *string {
	if current == nil || *current == "" {
		return &label
	}
	if utils.ContainsString(strings.Split(*current, ", "), label) {
		return current
	}
	joined := *current + ", " + label
	return &joined
}

func (w *Wizard) finalizeOrder(ctx context.Context, rec *conversation.Record) (*dto.Prompt, *Result, error) {
	draft := risk.Calculate(rec.Data, nil)

	orderID, err := w.orders.Save(ctx, rec.UserID, draft)
	if err != nil {
		w.log.ErrorContext(ctx, "Failed to save order",
			logger.Int64Field("user_id", rec.UserID),
			logger.ErrorField(err))
		return &dto.Prompt{Text: msgSaveFailed, Options: []dto.Option{
			{Label: "✅ Xong", Token: tokenDone},
			cancelOption(),
		}}, nil, nil
	}

	w.store.Delete(rec.UserID)
	result := &Result{Kind: ResultOrderSaved, OrderID: orderID, Draft: draft}
	return &dto.Prompt{Text: completionText(orderID, draft)}, result, nil
}

func (w *Wizard) finalizeSurvey(ctx context.Context, rec *conversation.Record) (*dto.Prompt, *Result, error) {
	readings := make(map[dto.Timeframe]dto.HarsiReading)
	for _, tf := range dto.Timeframes {
		if r := rec.Data.Harsi(tf); r != nil {
			readings[tf] = *r
		}
	}

	survey, err := model.NewTrendSurvey(rec.Data.Symbol, readings, time.Now())
	if err == nil {
		err = w.trends.Save(ctx, survey)
	}
	if err != nil {
		w.log.ErrorContext(ctx, "Failed to save trend survey",
			logger.Int64Field("user_id", rec.UserID),
			logger.StringField("symbol", string(rec.Data.Symbol)),
			logger.ErrorField(err))
		return &dto.Prompt{Text: msgSurveyFailed}, nil, nil
	}

	w.store.Delete(rec.UserID)
	result := &Result{Kind: ResultSurveyRecorded, Survey: survey}
	text := surveySavedText(survey.Symbol, survey.Trend, survey.Recommendation)
	return &dto.Prompt{Text: text}, result, nil
}

func (w *Wizard) handleClosePrice(ctx context.Context, rec *conversation.Record, input string) (*dto.Prompt, *Result, error) {
	price, ok := utils.ParsePositiveFloat(input)
	if !ok {
		var symbol dto.Symbol
		var orderID uint
		if rec.SelectedOrderID != nil {
			orderID = *rec.SelectedOrderID
		}
		symbol = rec.Data.Symbol
		return closePricePrompt(symbol, orderID, true), nil, nil
	}

	if rec.SelectedOrderID == nil {
		w.store.Delete(rec.UserID)
		return &dto.Prompt{Text: msgOrderNotFound}, nil, nil
	}

	order, err := w.orders.GetByID(ctx, *rec.SelectedOrderID)
	if err != nil {
		w.log.ErrorContext(ctx, "Failed to load order for closing",
			logger.IntField("order_id", int(*rec.SelectedOrderID)),
			logger.ErrorField(err))
		return &dto.Prompt{Text: msgCloseSaveFailed}, nil, nil
	}
	if order == nil || order.UserID != rec.UserID {
		w.store.Delete(rec.UserID)
		return &dto.Prompt{Text: msgOrderNotFound}, nil, nil
	}

	draft := risk.Calculate(order.Data, &price)
	if _, err := w.orders.UpdateClose(ctx, order.ID, price, draft); err != nil {
		w.log.ErrorContext(ctx, "Failed to update close price",
			logger.IntField("order_id", int(order.ID)),
			logger.ErrorField(err))
		return &dto.Prompt{Text: msgCloseSaveFailed}, nil, nil
	}

	w.store.Delete(rec.UserID)
	result := &Result{Kind: ResultOrderClosed, OrderID: order.ID, Draft: draft, ClosePrice: &price}
	return &dto.Prompt{Text: closedText(order.ID, price, draft)}, result, nil
}

func isSkip(input string) bool {
	switch strings.ToLower(input) {
	case tokenSkip, "bỏ qua":
		return true
	default:
		return false
	}
}
