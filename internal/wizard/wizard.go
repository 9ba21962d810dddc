// Package wizard implements the order-entry conversation state machine. It
// is transport-agnostic: it consumes normalized events, mutates the stored
// conversation record, and emits the next prompt. All Telegram specifics
// live in the delivery layer.
package wizard

import (
	"context"
	"errors"
	"strings"
	"time"

	"harsi-trading-bot/internal/conversation"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/pkg/logger"
)

// ErrNoActiveSession is returned by Handle when the user has no in-progress
// conversation. A normal outcome, not a fault.
var ErrNoActiveSession = errors.New("no active session")

// ErrStaleState is surfaced when a concurrent delivery already advanced the
// conversation; the user should simply retry.
var ErrStaleState = conversation.ErrStaleState

// OrderRepository persists finalized orders.
type OrderRepository interface {
	Save(ctx context.Context, userID int64, draft dto.OrderDraft) (uint, error)
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	UpdateClose(ctx context.Context, id uint, closePrice float64, draft dto.OrderDraft) (*model.Order, error)
}

// TrendRepository reads and records HARSI trend surveys.
type TrendRepository interface {
	// Latest returns the most recent survey for symbol, or (nil, nil) when
	// none exists.
	Latest(ctx context.Context, symbol dto.Symbol) (*model.TrendSurvey, error)
	Save(ctx context.Context, survey *model.TrendSurvey) error
}

// ResultKind says what a finished conversation produced.
type ResultKind int

const (
	ResultOrderSaved ResultKind = iota
	ResultOrderClosed
	ResultSurveyRecorded
)

// Result is handed to the caller when a conversation reaches its terminal
// transition.
type Result struct {
	Kind       ResultKind
	OrderID    uint
	Draft      dto.OrderDraft
	ClosePrice *float64
	Survey     *model.TrendSurvey
}

type Wizard struct {
	log    *logger.Logger
	store  conversation.Store
	orders OrderRepository
	trends TrendRepository
}

func New(log *logger.Logger, store conversation.Store, orders OrderRepository, trends TrendRepository) *Wizard {
	return &Wizard{
		log:    log,
		store:  store,
		orders: orders,
		trends: trends,
	}
}

// StartOrder begins a fresh order-entry session, overwriting any session the
// user already had.
func (w *Wizard) StartOrder(ctx context.Context, userID int64) (*dto.Prompt, error) {
	rec := &conversation.Record{
		UserID:    userID,
		Mode:      conversation.ModeOrder,
		Step:      conversation.StepWaitingSymbol,
		CreatedAt: time.Now(),
	}
	w.store.Delete(userID)
	if err := w.store.Put(rec); err != nil {
		return nil, err
	}
	return symbolPrompt(false), nil
}

// StartSurvey begins a HARSI survey session. When symbol is already known
// the symbol step is skipped.
func (w *Wizard) StartSurvey(ctx context.Context, userID int64, symbol *dto.Symbol) (*dto.Prompt, error) {
	rec := &conversation.Record{
		UserID:    userID,
		Mode:      conversation.ModeSurvey,
		Step:      conversation.StepWaitingSymbol,
		CreatedAt: time.Now(),
	}
	prompt := symbolPrompt(false)
	if symbol != nil {
		rec.Data.Symbol = *symbol
		rec.Step = conversation.StepWaitingHarsi1W
		prompt = harsiPrompt(dto.Timeframe1W, false)
	}
	w.store.Delete(userID)
	if err := w.store.Put(rec); err != nil {
		return nil, err
	}
	return prompt, nil
}

// StartClose begins the short close-price session for an existing order.
func (w *Wizard) StartClose(ctx context.Context, userID int64, orderID uint) (*dto.Prompt, error) {
	order, err := w.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return &dto.Prompt{Text: msgOrderNotFound}, nil
	}

	rec := &conversation.Record{
		UserID:          userID,
		Mode:            conversation.ModeClose,
		Step:            conversation.StepWaitingClosePrice,
		SelectedOrderID: &orderID,
		CreatedAt:       time.Now(),
	}
	w.store.Delete(userID)
	if err := w.store.Put(rec); err != nil {
		return nil, err
	}
	return closePricePrompt(order.Data.Symbol, orderID, false), nil
}

// Active reports whether the user has an in-progress conversation.
func (w *Wizard) Active(userID int64) bool {
	rec, ok := w.store.Get(userID)
	return ok && rec.Step != conversation.StepIdle
}

// Cancel clears the user's session and reports whether one existed.
func (w *Wizard) Cancel(userID int64) bool {
	_, existed := w.store.Get(userID)
	w.store.Delete(userID)
	return existed
}

// Handle advances the conversation by one user event. It returns the next
// prompt and, on a terminal transition, the finished Result. Validation
// failures re-emit the current step's prompt and never surface as errors.
func (w *Wizard) Handle(ctx context.Context, ev dto.Event) (*dto.Prompt, *Result, error) {
	rec, ok := w.store.Get(ev.UserID)
	if !ok || rec.Step == conversation.StepIdle {
		return nil, nil, ErrNoActiveSession
	}

	input := strings.TrimSpace(ev.Input())
	if isCancel(input) {
		w.store.Delete(ev.UserID)
		return &dto.Prompt{Text: msgCancelled}, nil, nil
	}

	switch {
	case rec.Step == conversation.StepWaitingSymbol:
		return w.handleSymbol(ctx, rec, input)
	case rec.Step == conversation.StepWaitingDirection:
		return w.handleDirection(ctx, rec, input)
	case rec.Step.IsHarsi():
		return w.handleHarsi(ctx, rec, input)
	case rec.Step == conversation.StepWaitingEntry:
		return w.handleEntry(ctx, rec, input)
	case rec.Step == conversation.StepWaitingStopLoss:
		return w.handleStopLoss(ctx, rec, input)
	case rec.Step == conversation.StepWaitingTakeProfit:
		return w.handleTakeProfit(ctx, rec, input)
	case rec.Step == conversation.StepWaitingQuantity:
		return w.handleQuantity(ctx, rec, input)
	case rec.Step == conversation.StepWaitingNotes:
		return w.handleNotes(ctx, rec, input)
	case rec.Step == conversation.StepWaitingClosePrice:
		return w.handleClosePrice(ctx, rec, input)
	default:
		// Dangling state from an older build: clear rather than trap the user.
		w.log.WarnContext(ctx, "Dangling conversation step, clearing session",
			logger.Int64Field("user_id", rec.UserID),
			logger.IntField("step", int(rec.Step)))
		w.store.Delete(ev.UserID)
		return nil, nil, ErrNoActiveSession
	}
}

func isCancel(input string) bool {
	switch strings.ToLower(input) {
	case tokenCancel, "/cancel", "hủy":
		return true
	default:
		return false
	}
}
