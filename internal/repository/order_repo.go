package repository

import (
	"context"
	"errors"
	"fmt"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"

	"gorm.io/gorm"
)

// OrderRepository persists finalized order drafts inside their envelope.
type OrderRepository interface {
	Save(ctx context.Context, userID int64, draft dto.OrderDraft) (uint, error)
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	GetByUser(ctx context.Context, userID int64, param dto.GetOrdersParam) ([]model.Order, error)
	UpdateClose(ctx context.Context, id uint, closePrice float64, draft dto.OrderDraft) (*model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Save(ctx context.Context, userID int64, draft dto.OrderDraft) (uint, error) {
	order := model.Order{
		UserID: userID,
		Data:   draft,
	}
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, fmt.Errorf("failed to save order: %w", err)
	}
	return order.ID, nil
}

// GetByID returns (nil, nil) when the order does not exist.
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}
	return &order, nil
}

func (r *orderRepository) GetByUser(ctx context.Context, userID int64, param dto.GetOrdersParam) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if param.OnlyOpen {
		q = q.Where("close_price IS NULL")
	}
	if param.OnlyClosed {
		q = q.Where("close_price IS NOT NULL")
	}
	if param.Symbol != nil {
		q = q.Where("symbol = ?", *param.Symbol)
	}
	if param.Limit > 0 {
		q = q.Limit(param.Limit)
	}

	var orders []model.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateClose(ctx context.Context, id uint, closePrice float64, draft dto.OrderDraft) (*model.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	order.ClosePrice = &closePrice
	order.Data = draft
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	return order, nil
}
