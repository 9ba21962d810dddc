package model

import (
	"time"

	"harsi-trading-bot/internal/dto"
)

// Order is the persisted envelope around a finalized OrderDraft: storage
// metadata lives on the envelope, the domain fields stay inside Data.
type Order struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     int64          `gorm:"not null;index" json:"user_id"`
	Data       dto.OrderDraft `gorm:"embedded" json:"data"`
	ClosePrice *float64       `json:"close_price"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// IsClosed reports whether a close price has been attached.
func (o *Order) IsClosed() bool {
	return o.ClosePrice != nil
}
