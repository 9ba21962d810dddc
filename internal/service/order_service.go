package service

import (
	"context"
	"fmt"

	"harsi-trading-bot/internal/dto"
	"harsi-trading-bot/internal/model"
	"harsi-trading-bot/internal/repository"
	"harsi-trading-bot/pkg/logger"
)

// ErrOrderNotFound is returned when an order does not exist or belongs to
// another user.
var ErrOrderNotFound = fmt.Errorf("order not found")

type OrderService interface {
	ListOrders(ctx context.Context, userID int64, param dto.GetOrdersParam) ([]model.Order, error)
	GetOrder(ctx context.Context, userID int64, id uint) (*model.Order, error)
	ReviewOrder(ctx context.Context, userID int64, id uint) (*dto.AIOrderReviewResponse, error)
}

type orderService struct {
	log       *logger.Logger
	orderRepo repository.OrderRepository
	aiRepo    repository.AIRepository
}

func NewOrderService(log *logger.Logger, orderRepo repository.OrderRepository, aiRepo repository.AIRepository) OrderService {
	return &orderService{
		log:       log,
		orderRepo: orderRepo,
		aiRepo:    aiRepo,
	}
}

func (s *orderService) ListOrders(ctx context.Context, userID int64, param dto.GetOrdersParam) ([]model.Order, error) {
	return s.orderRepo.GetByUser(ctx, userID, param)
}

func (s *orderService) GetOrder(ctx context.Context, userID int64, id uint) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ReviewOrder asks the AI for a second opinion on one of the user's orders.
func (s *orderService) ReviewOrder(ctx context.Context, userID int64, id uint) (*dto.AIOrderReviewResponse, error) {
	order, err := s.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	review, err := s.aiRepo.ReviewOrder(ctx, order)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to review order",
			logger.IntField("order_id", int(id)),
			logger.ErrorField(err),
		)
		return nil, err
	}
	return review, nil
}
