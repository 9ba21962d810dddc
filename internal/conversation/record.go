package conversation

import (
	"time"

	"harsi-trading-bot/internal/dto"
)

// Mode distinguishes which flow a conversation belongs to.
type Mode int

const (
	// ModeOrder is the full order-entry wizard.
	ModeOrder Mode = iota
	// ModeClose attaches a close price to an already persisted order.
	ModeClose
	// ModeSurvey records a HARSI trend survey (symbol + readings only).
	ModeSurvey
)

// Step is the wizard state: it determines which input is expected next.
type Step int

const (
	StepIdle Step = iota
	StepWaitingSymbol
	StepWaitingDirection
	StepWaitingHarsi1W
	StepWaitingHarsi3D
	StepWaitingHarsi1D
	StepWaitingHarsi12H
	StepWaitingHarsi8H
	StepWaitingHarsi4H
	StepWaitingHarsi2H
	StepWaitingEntry
	StepWaitingStopLoss
	StepWaitingTakeProfit
	StepWaitingQuantity
	StepWaitingNotes
	StepWaitingClosePrice
)

var harsiSteps = map[Step]dto.Timeframe{
	StepWaitingHarsi1W:  dto.Timeframe1W,
	StepWaitingHarsi3D:  dto.Timeframe3D,
	StepWaitingHarsi1D:  dto.Timeframe1D,
	StepWaitingHarsi12H: dto.Timeframe12H,
	StepWaitingHarsi8H:  dto.Timeframe8H,
	StepWaitingHarsi4H:  dto.Timeframe4H,
	StepWaitingHarsi2H:  dto.Timeframe2H,
}

// HarsiTimeframe returns the timeframe a HARSI step asks about.
func (s Step) HarsiTimeframe() (dto.Timeframe, bool) {
	tf, ok := harsiSteps[s]
	return tf, ok
}

// IsHarsi reports whether the step is one of the per-timeframe HARSI steps.
func (s Step) IsHarsi() bool {
	_, ok := harsiSteps[s]
	return ok
}

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepWaitingSymbol:
		return "waiting_symbol"
	case StepWaitingDirection:
		return "waiting_direction"
	case StepWaitingEntry:
		return "waiting_entry"
	case StepWaitingStopLoss:
		return "waiting_stop_loss"
	case StepWaitingTakeProfit:
		return "waiting_take_profit"
	case StepWaitingQuantity:
		return "waiting_quantity"
	case StepWaitingNotes:
		return "waiting_notes"
	case StepWaitingClosePrice:
		return "waiting_close_price"
	default:
		if tf, ok := s.HarsiTimeframe(); ok {
			return "waiting_harsi_" + string(tf)
		}
		return "unknown"
	}
}

// Record is the server-held state of one user's in-progress conversation.
// Exactly one record exists per user; a fresh start overwrites it.
type Record struct {
	UserID          int64
	Mode            Mode
	Step            Step
	Data            dto.OrderDraft
	SelectedOrderID *uint
	Version         uint64
	CreatedAt       time.Time
}
