package usecase

import (
	"context"
	"fmt"

	"glowcart-backend/internal/domain"
	"glowcart-backend/pkg/logger"
	"glowcart-backend/pkg/utils"
)

// OrderUsecase covers the plain read paths and the fulfilment lifecycle
// (pending -> processing -> shipped -> delivered) that precedes any return.
// Return-state writes go exclusively through ReturnUsecase.
type OrderUsecase struct {
	orderRepo domain.OrderRepository
	txManager domain.TransactionManager
	notifier  domain.Notifier
}

func NewOrderUsecase(repo domain.OrderRepository, txManager domain.TransactionManager, notifier domain.Notifier) *OrderUsecase {
	return &OrderUsecase{
		orderRepo: repo,
		txManager: txManager,
		notifier:  notifier,
	}
}

func (u *OrderUsecase) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return u.orderRepo.GetByUserID(ctx, userID)
}

func (u *OrderUsecase) GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	return u.orderRepo.GetAll(ctx, filter)
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return u.orderRepo.GetByID(ctx, id)
}

// GetMyOrder fetches one order and hides it from anyone but its owner.
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID, id string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return order, nil
}

func (u *OrderUsecase) GetOrderEvents(ctx context.Context, orderID string) ([]domain.OrderEvent, error) {
	return u.orderRepo.GetOrderEvents(ctx, orderID)
}

// Fulfilment progress weights. Forward-only: an order never moves backward,
// and this path cannot be used to enter or leave return states.
var fulfilmentWeights = map[string]int{
	domain.OrderStatusPending:    10,
	domain.OrderStatusProcessing: 20,
	domain.OrderStatusShipped:    30,
	domain.OrderStatusDelivered:  40,
}

// UpdateFulfilmentStatus advances an order along the fulfilment lifecycle.
// The delivered status it produces is the precondition for any return.
func (u *OrderUsecase) UpdateFulfilmentStatus(ctx context.Context, actor *domain.User, orderID, newStatus, note string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	currentWeight, okCurrent := fulfilmentWeights[order.Status]
	newWeight, okNew := fulfilmentWeights[newStatus]
	if !okNew {
		return nil, fmt.Errorf("%w: %q is not a fulfilment status", domain.ErrValidation, newStatus)
	}
	if !okCurrent {
		return nil, fmt.Errorf("%w: order is in the return workflow, status %q", domain.ErrInvalidTransition, order.Status)
	}
	if newWeight <= currentWeight {
		return nil, fmt.Errorf("%w: cannot go from %q to %q", domain.ErrInvalidTransition, order.Status, newStatus)
	}

	var updated *domain.Order
	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		var casErr error
		updated, casErr = u.orderRepo.CompareAndSetStatus(txCtx, orderID, order.Status, newStatus, domain.StatusUpdate{})
		if casErr != nil {
			return casErr
		}

		var notePtr *string
		if note != "" {
			notePtr = &note
		}
		event := &domain.OrderEvent{
			ID:             utils.GenerateUUID(),
			OrderID:        orderID,
			PreviousStatus: order.Status,
			NewStatus:      newStatus,
			Note:           notePtr,
			ActorID:        actor.ID,
			ActorRole:      actor.Role,
		}
		return u.orderRepo.CreateOrderEvent(txCtx, event)
	})
	if err != nil {
		return nil, err
	}

	logger.StatusChange(orderID, order.Status, newStatus, actor.Role)
	if u.notifier != nil {
		u.notifier.Notify(orderID, newStatus, actor.Role)
	}

	return updated, nil
}
