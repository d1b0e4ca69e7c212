package usecase

import (
	"context"
	"testing"

	"glowcart-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = &domain.User{ID: "staff-0", Email: "ops@glowcart.test", Role: domain.RoleAdmin}

func newOrderUsecase(orders ...*domain.Order) (*OrderUsecase, *fakeOrderRepo, *fakeNotifier) {
	repo := newFakeOrderRepo(orders...)
	notifier := &fakeNotifier{}
	return NewOrderUsecase(repo, fakeTxManager{}, notifier), repo, notifier
}

func TestUpdateFulfilmentStatus(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusPending
	uc, repo, notifier := newOrderUsecase(o)
	ctx := context.Background()

	for _, next := range []string{
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		order, err := uc.UpdateFulfilmentStatus(ctx, admin, "ord-1", next, "")
		require.NoError(t, err)
		assert.Equal(t, next, order.Status)
	}

	events, _ := repo.GetOrderEvents(ctx, "ord-1")
	assert.Len(t, events, 3)
	assert.Len(t, notifier.calls, 3)
}

func TestUpdateFulfilmentStatusForwardOnly(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusShipped
	uc, _, _ := newOrderUsecase(o)

	_, err := uc.UpdateFulfilmentStatus(context.Background(), admin, "ord-1", domain.OrderStatusProcessing, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.UpdateFulfilmentStatus(context.Background(), admin, "ord-1", domain.OrderStatusShipped, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateFulfilmentStatusStaysOutOfReturns(t *testing.T) {
	uc, _, _ := newOrderUsecase(deliveredOrder())

	// Return states are not reachable through the fulfilment path.
	_, err := uc.UpdateFulfilmentStatus(context.Background(), admin, "ord-1", domain.OrderStatusReturnRequested, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Nor can a return-state order be dragged back into fulfilment.
	o := deliveredOrder()
	o.ID = "ord-2"
	o.Status = domain.OrderStatusReturnRequested
	uc2, _, _ := newOrderUsecase(o)
	_, err = uc2.UpdateFulfilmentStatus(context.Background(), admin, "ord-2", domain.OrderStatusDelivered, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetMyOrder(t *testing.T) {
	uc, _, _ := newOrderUsecase(deliveredOrder())
	ctx := context.Background()

	order, err := uc.GetMyOrder(ctx, customer.ID, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)

	_, err = uc.GetMyOrder(ctx, "user-2", "ord-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
