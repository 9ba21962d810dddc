package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harsi-trading-bot/internal/conversation"
	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/pkg/cache"
	"harsi-trading-bot/pkg/logger"
	"harsi-trading-bot/pkg/utils"
)

type stubOrderRepo struct {
	nextID  uint
	saveErr error

	savedUserID int64
	savedDraft  *dto.OrderDraft

	order  *model.Order
	getErr error

	closedID    uint
	closedPrice float64
	closedDraft *dto.OrderDraft
	updateErr   error
}

func (s *stubOrderRepo) Save(ctx context.Context, userID int64, draft dto.OrderDraft) (uint, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	s.savedUserID = userID
	s.savedDraft = &draft
	if s.nextID == 0 {
		s.nextID = 1
	}
	return s.nextID, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, nil
}

func (s *stubOrderRepo) UpdateClose(ctx context.Context, id uint, closePrice float64, draft dto.OrderDraft) (*model.Order, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.closedID = id
	s.closedPrice = closePrice
	s.closedDraft = &draft
	return s.order, nil
}

type stubTrendRepo struct {
	latest    *model.TrendSurvey
	latestErr error

	saved   *model.TrendSurvey
	saveErr error
}

func (s *stubTrendRepo) Latest(ctx context.Context, symbol dto.Symbol) (*model.TrendSurvey, error) {
	if s.latestErr != nil {
		return nil, s.latestErr
	}
	return s.latest, nil
}

func (s *stubTrendRepo) Save(ctx context.Context, survey *model.TrendSurvey) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = survey
	return nil
}

func newTestWizard(t *testing.T, orders OrderRepository, trends TrendRepository) (*Wizard, conversation.Store) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	store := conversation.NewStore(cache.NewCache(cache.NoExpiration, time.Hour))
	return New(log, store, orders, trends), store
}

func advance(t *testing.T, w *Wizard, userID int64, input string) (*dto.Prompt, *Result) {
	t.Helper()
	prompt, result, err := w.Handle(context.Background(), dto.Event{UserID: userID, ChatID: userID, Text: input})
	require.NoError(t, err)
	require.NotNil(t, prompt)
	return prompt, result
}

func optionTokens(p *dto.Prompt) []string {
	tokens := make([]string, 0, len(p.Options))
	for _, o := range p.Options {
		tokens = append(tokens, o.Token)
	}
	return tokens
}

func TestWizard_OrderFlowCompletes(t *testing.T) {
	orders := &stubOrderRepo{nextID: 7}
	trends := &stubTrendRepo{}
	w, _ := newTestWizard(t, orders, trends)
	ctx := context.Background()
	userID := int64(42)

	prompt, err := w.StartOrder(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, msgAskSymbol, prompt.Text)
	assert.Contains(t, optionTokens(prompt), "BTC")

	prompt, _ = advance(t, w, userID, "btc")
	assert.Contains(t, prompt.Text, "BTC")

	advance(t, w, userID, "long")
	for _, reading := range []string{"bullish", "bullish", "neutral", "skip", "bullish", "neutral", "bearish"} {
		advance(t, w, userID, reading)
	}
	advance(t, w, userID, "65000")
	advance(t, w, userID, "64000")
	advance(t, w, userID, "68000")
	advance(t, w, userID, "0.5")

	prompt, result := advance(t, w, userID, "done")
	require.NotNil(t, result)
	assert.Equal(t, ResultOrderSaved, result.Kind)
	assert.Equal(t, uint(7), result.OrderID)
	assert.Contains(t, prompt.Text, "#7")

	require.NotNil(t, orders.savedDraft)
	assert.Equal(t, int64(42), orders.savedUserID)
	d := orders.savedDraft
	assert.Equal(t, dto.SymbolBTC, d.Symbol)
	assert.Equal(t, dto.DirectionLong, d.Direction)
	require.NotNil(t, d.Harsi1W)
	assert.Equal(t, dto.HarsiBullish, *d.Harsi1W)
	assert.Nil(t, d.Harsi12H)
	require.NotNil(t, d.PotentialStopLoss)
	assert.InDelta(t, 1000, *d.PotentialStopLoss, 1e-9)
	require.NotNil(t, d.PotentialStopLossUsd)
	assert.InDelta(t, 500, *d.PotentialStopLossUsd, 1e-9)
	require.NotNil(t, d.PotentialRiskRewardRatio)
	assert.InDelta(t, 3, *d.PotentialRiskRewardRatio, 1e-9)
	assert.Equal(t, dto.ResultInProgress, d.OrderResult)

	assert.False(t, w.Active(userID))
	_, _, err = w.Handle(ctx, dto.Event{UserID: userID, Text: "anything"})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestWizard_InvalidInputKeepsStep(t *testing.T) {
	w, store := newTestWizard(t, &stubOrderRepo{}, &stubTrendRepo{})
	ctx := context.Background()
	userID := int64(1)

	_, err := w.StartOrder(ctx, userID)
	require.NoError(t, err)

	prompt, result := advance(t, w, userID, "DOGE")
	assert.Nil(t, result)
	assert.Equal(t, msgInvalidSymbol, prompt.Text)

	rec, ok := store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, conversation.StepWaitingSymbol, rec.Step)
	assert.Empty(t, rec.Data.Symbol)

	advance(t, w, userID, "eth")
	prompt, _ = advance(t, w, userID, "sideways")
	assert.Equal(t, msgInvalidDir, prompt.Text)

	rec, ok = store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, conversation.StepWaitingDirection, rec.Step)

	advance(t, w, userID, "short")
	for i := 0; i < len(dto.Timeframes); i++ {
		advance(t, w, userID, "skip")
	}
	prompt, _ = advance(t, w, userID, "-5")
	assert.Equal(t, msgInvalidNumber, prompt.Text)
	prompt, _ = advance(t, w, userID, "abc")
	assert.Equal(t, msgInvalidNumber, prompt.Text)
	prompt, _ = advance(t, w, userID, "nan")
	assert.Equal(t, msgInvalidNumber, prompt.Text)

	rec, ok = store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, conversation.StepWaitingEntry, rec.Step)
	assert.Nil(t, rec.Data.Entry)
}

func TestWizard_CancelEndsSession(t *testing.T) {
	w, _ := newTestWizard(t, &stubOrderRepo{}, &stubTrendRepo{})
	ctx := context.Background()
	userID := int64(5)

	_, err := w.StartOrder(ctx, userID)
	require.NoError(t, err)
	advance(t, w, userID, "sol")

	prompt, result := advance(t, w, userID, "cancel")
	assert.Nil(t, result)
	assert.Equal(t, msgCancelled, prompt.Text)
	assert.False(t, w.Active(userID))

	_, _, err = w.Handle(ctx, dto.Event{UserID: userID, Text: "long"})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestWizard_HandleWithoutSession(t *testing.T) {
	w, _ := newTestWizard(t, &stubOrderRepo{}, &stubTrendRepo{})

	_, _, err := w.Handle(context.Background(), dto.Event{UserID: 99, Text: "btc"})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestWizard_DirectionBlockedByOpposingSurvey(t *testing.T) {
	survey, err := model.NewTrendSurvey(dto.SymbolBTC, map[dto.Timeframe]dto.HarsiReading{
		dto.Timeframe1W: dto.HarsiBullish,
		dto.Timeframe1D: dto.HarsiBearish,
		dto.Timeframe8H: dto.HarsiBearish,
	}, time.Now())
	require.NoError(t, err)

	trends := &stubTrendRepo{latest: survey}
	w, store := newTestWizard(t, &stubOrderRepo{}, trends)
	ctx := context.Background()
	userID := int64(42)

	_, err = w.StartOrder(ctx, userID)
	require.NoError(t, err)
	advance(t, w, userID, "btc")

	prompt, result := advance(t, w, userID, "long")
	assert.Nil(t, result)
	assert.Contains(t, optionTokens(prompt), tokenResurvey)

	rec, ok := store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, conversation.StepWaitingDirection, rec.Step)
	assert.Empty(t, rec.Data.Direction)

	// The block is one-sided: the same survey does not oppose a short.
	advance(t, w, userID, "short")
	rec, ok = store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, dto.DirectionShort, rec.Data.Direction)
	assert.Equal(t, conversation.StepWaitingHarsi1W, rec.Step)
}

func TestWizard_ResurveyFoldsIntoSurveyMode(t *testing.T) {
	survey, err := model.NewTrendSurvey(dto.SymbolETH, map[dto.Timeframe]dto.HarsiReading{
		dto.Timeframe1D: dto.HarsiBearish,
		dto.Timeframe8H: dto.HarsiBearish,
	}, time.Now())
	require.NoError(t, err)

	trends := &stubTrendRepo{latest: survey}
	w, store := newTestWizard(t, &stubOrderRepo{}, trends)
	ctx := context.Background()
	userID := int64(8)

	_, err = w.StartOrder(ctx, userID)
	require.NoError(t, err)
	advance(t, w, userID, "eth")
	advance(t, w, userID, "long")

	advance(t, w, userID, tokenResurvey)
	rec, ok := store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, conversation.ModeSurvey, rec.Mode)
	assert.Equal(t, conversation.StepWaitingHarsi1W, rec.Step)
	assert.Equal(t, dto.SymbolETH, rec.Data.Symbol)
	assert.Empty(t, rec.Data.Direction)
}

func TestWizard_DirectionAllowedWhenLookupFails(t *testing.T) {
	trends := &stubTrendRepo{latestErr: errors.New("db down")}
	w, store := newTestWizard(t, &stubOrderRepo{}, trends)
	ctx := context.Background()
	userID := int64(3)

	_, err := w.StartOrder(ctx, userID)
	require.NoError(t, err)
	advance(t, w, userID, "btc")
	advance(t, w, userID, "long")

	rec, ok := store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, dto.DirectionLong, rec.Data.Direction)
	assert.Equal(t, conversation.StepWaitingHarsi1W, rec.Step)
}

func TestWizard_SurveyFlowRecordsMajority(t *testing.T) {
	trends := &stubTrendRepo{}
	w, _ := newTestWizard(t, &stubOrderRepo{}, trends)
	ctx := context.Background()
	userID := int64(42)

	prompt, err := w.StartSurvey(ctx, userID, nil)
	require.NoError(t, err)
	assert.Equal(t, msgAskSymbol, prompt.Text)

	advance(t, w, userID, "sol")
	readings := []string{"bullish", "bullish", "bullish", "skip", "bearish", "bearish", "neutral"}
	var result *Result
	for _, r := range readings {
		prompt, result = advance(t, w, userID, r)
	}

	require.NotNil(t, result)
	assert.Equal(t, ResultSurveyRecorded, result.Kind)
	assert.Contains(t, prompt.Text, "SOL")

	require.NotNil(t, trends.saved)
	assert.Equal(t, dto.SymbolSOL, trends.saved.Symbol)
	assert.Equal(t, dto.TrendBullish, trends.saved.Trend)
	assert.Equal(t, dto.RecommendLong, trends.saved.Recommendation)

	stored := trends.saved.ReadingMap()
	assert.Equal(t, dto.HarsiBullish, stored[dto.Timeframe1W])
	assert.Equal(t, dto.HarsiBearish, stored[dto.Timeframe8H])
	_, present := stored[dto.Timeframe12H]
	assert.False(t, present)

	assert.False(t, w.Active(userID))
}

func TestWizard_StartSurveyWithKnownSymbolSkipsSymbolStep(t *testing.T) {
	w, store := newTestWizard(t, &stubOrderRepo{}, &stubTrendRepo{})
	symbol := dto.SymbolXAU

	prompt, err := w.StartSurvey(context.Background(), 11, &symbol)
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, "1W")

	rec, ok := store.Get(11)
	require.True(t, ok)
	assert.Equal(t, conversation.StepWaitingHarsi1W, rec.Step)
	assert.Equal(t, dto.SymbolXAU, rec.Data.Symbol)
}

func TestWizard_CloseFlow(t *testing.T) {
	orders := &stubOrderRepo{
		order: &model.Order{
			ID:     9,
			UserID: 42,
			Data: dto.OrderDraft{
				Symbol:    dto.SymbolETH,
				Direction: dto.DirectionLong,
				Entry:     utils.ToPointer(2000.0),
				StopLoss:  utils.ToPointer(1900.0),
				Quantity:  utils.ToPointer(1.0),
			},
		},
	}
	w, _ := newTestWizard(t, orders, &stubTrendRepo{})
	ctx := context.Background()
	userID := int64(42)

	prompt, err := w.StartClose(ctx, userID, 9)
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, "#9")

	prompt, _ = advance(t, w, userID, "abc")
	assert.Equal(t, msgInvalidNumber, prompt.Text)

	prompt, result := advance(t, w, userID, "2200")
	require.NotNil(t, result)
	assert.Equal(t, ResultOrderClosed, result.Kind)
	assert.Equal(t, uint(9), result.OrderID)
	require.NotNil(t, result.ClosePrice)
	assert.InDelta(t, 2200, *result.ClosePrice, 1e-9)
	assert.Contains(t, prompt.Text, "#9")

	assert.Equal(t, uint(9), orders.closedID)
	assert.InDelta(t, 2200, orders.closedPrice, 1e-9)
	require.NotNil(t, orders.closedDraft)
	d := orders.closedDraft
	require.NotNil(t, d.ActualRealizedPnL)
	assert.InDelta(t, 200, *d.ActualRealizedPnL, 1e-9)
	require.NotNil(t, d.ActualRiskRewardRatio)
	assert.InDelta(t, 2, *d.ActualRiskRewardRatio, 1e-9)
	assert.Equal(t, dto.ResultWin, d.OrderResult)

	assert.False(t, w.Active(userID))
}

func TestWizard_CloseRejectsForeignOrder(t *testing.T) {
	orders := &stubOrderRepo{
		order: &model.Order{ID: 9, UserID: 99, Data: dto.OrderDraft{Symbol: dto.SymbolBTC}},
	}
	w, _ := newTestWizard(t, orders, &stubTrendRepo{})

	prompt, err := w.StartClose(context.Background(), 42, 9)
	require.NoError(t, err)
	assert.Equal(t, msgOrderNotFound, prompt.Text)
	assert.False(t, w.Active(42))
}

func TestWizard_CloseFailsWhenOrderDeletedMidSession(t *testing.T) {
	orders := &stubOrderRepo{
		order: &model.Order{ID: 4, UserID: 42, Data: dto.OrderDraft{Symbol: dto.SymbolBTC}},
	}
	w, _ := newTestWizard(t, orders, &stubTrendRepo{})
	ctx := context.Background()

	_, err := w.StartClose(ctx, 42, 4)
	require.NoError(t, err)

	// The order disappears between prompt and answer.
	orders.order = nil
	prompt, result := advance(t, w, 42, "500")
	assert.Nil(t, result)
	assert.Equal(t, msgOrderNotFound, prompt.Text)
	assert.False(t, w.Active(42))
}

func walkToNotes(t *testing.T, w *Wizard, userID int64) {
	t.Helper()
	_, err := w.StartOrder(context.Background(), userID)
	require.NoError(t, err)
	inputs := []string{
		"btc", "long",
		"skip", "skip", "skip", "skip", "skip", "skip", "skip",
		"65000", "64000", "skip", "skip",
	}
	for _, in := range inputs {
		advance(t, w, userID, in)
	}
}

func TestWizard_NotesLabelsAccumulateAndDeduplicate(t *testing.T) {
	orders := &stubOrderRepo{nextID: 3}
	w, store := newTestWizard(t, orders, &stubTrendRepo{})
	userID := int64(42)
	walkToNotes(t, w, userID)

	prompt, _ := advance(t, w, userID, "note:trend")
	assert.Contains(t, prompt.Text, "Thuận xu hướng")

	advance(t, w, userID, "note:trend")
	prompt, _ = advance(t, w, userID, "note:fomo")
	assert.Contains(t, prompt.Text, "Thuận xu hướng, FOMO")

	rec, ok := store.Get(userID)
	require.True(t, ok)
	require.NotNil(t, rec.Data.Notes)
	assert.Equal(t, "Thuận xu hướng, FOMO", *rec.Data.Notes)

	_, result := advance(t, w, userID, "done")
	require.NotNil(t, result)
	require.NotNil(t, orders.savedDraft.Notes)
	assert.Equal(t, "Thuận xu hướng, FOMO", *orders.savedDraft.Notes)
}

func TestWizard_NotesClearAndFreeText(t *testing.T) {
	orders := &stubOrderRepo{nextID: 4}
	w, _ := newTestWizard(t, orders, &stubTrendRepo{})
	userID := int64(7)
	walkToNotes(t, w, userID)

	advance(t, w, userID, "note:news")
	advance(t, w, userID, "clear")
	prompt, _ := advance(t, w, userID, "  Re-test vùng hỗ trợ  ")
	assert.Contains(t, prompt.Text, "Re-test vùng hỗ trợ")

	_, result := advance(t, w, userID, "done")
	require.NotNil(t, result)
	require.NotNil(t, orders.savedDraft.Notes)
	assert.Equal(t, "Re-test vùng hỗ trợ", *orders.savedDraft.Notes)
}

func TestWizard_NotesUnknownLabelTokenIsKeptAsFreeText(t *testing.T) {
	orders := &stubOrderRepo{nextID: 8}
	w, _ := newTestWizard(t, orders, &stubTrendRepo{})
	userID := int64(15)
	walkToNotes(t, w, userID)

	prompt, _ := advance(t, w, userID, "note: theo setup A")
	assert.Contains(t, prompt.Text, "note: theo setup A")

	_, result := advance(t, w, userID, "done")
	require.NotNil(t, result)
	require.NotNil(t, orders.savedDraft.Notes)
	assert.Equal(t, "note: theo setup A", *orders.savedDraft.Notes)
}

func TestWizard_NotesClearThenDoneLeavesNotesEmpty(t *testing.T) {
	orders := &stubOrderRepo{nextID: 5}
	w, _ := newTestWizard(t, orders, &stubTrendRepo{})
	userID := int64(9)
	walkToNotes(t, w, userID)

	advance(t, w, userID, "note:breakout")
	advance(t, w, userID, "clear")
	_, result := advance(t, w, userID, "done")
	require.NotNil(t, result)
	assert.Nil(t, orders.savedDraft.Notes)
}

func TestWizard_SaveFailureKeepsSessionAlive(t *testing.T) {
	orders := &stubOrderRepo{saveErr: errors.New("db down")}
	w, store := newTestWizard(t, orders, &stubTrendRepo{})
	userID := int64(13)
	walkToNotes(t, w, userID)

	prompt, result := advance(t, w, userID, "done")
	assert.Nil(t, result)
	assert.Equal(t, msgSaveFailed, prompt.Text)

	// The user can retry once the repository recovers.
	_, ok := store.Get(userID)
	assert.True(t, ok)
	orders.saveErr = nil
	orders.nextID = 6
	_, result = advance(t, w, userID, "done")
	require.NotNil(t, result)
	assert.Equal(t, uint(6), result.OrderID)
}

func TestWizard_StartOrderReplacesExistingSession(t *testing.T) {
	w, store := newTestWizard(t, &stubOrderRepo{}, &stubTrendRepo{})
	ctx := context.Background()
	userID := int64(21)

	_, err := w.StartOrder(ctx, userID)
	require.NoError(t, err)
	advance(t, w, userID, "btc")
	advance(t, w, userID, "long")

	_, err = w.StartOrder(ctx, userID)
	require.NoError(t, err)
	rec, ok := store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, conversation.StepWaitingSymbol, rec.Step)
	assert.Empty(t, rec.Data.Symbol)
	assert.Empty(t, rec.Data.Direction)
}
