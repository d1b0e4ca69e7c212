package usecase

import (
	"context"
	"fmt"

	"glowcart-backend/internal/domain"
	"glowcart-backend/pkg/logger"
	"glowcart-backend/pkg/utils"
)

// ReturnUsecase drives the return/refund workflow: it validates every
// transition against the domain guard table, applies it through the order
// store's compare-and-set, records the audit event, and notifies humans.
// On any failure the order keeps its last valid state.
type ReturnUsecase struct {
	orderRepo domain.OrderRepository
	txManager domain.TransactionManager
	notifier  domain.Notifier
}

func NewReturnUsecase(repo domain.OrderRepository, txManager domain.TransactionManager, notifier domain.Notifier) *ReturnUsecase {
	return &ReturnUsecase{
		orderRepo: repo,
		txManager: txManager,
		notifier:  notifier,
	}
}

// RequestReturn records a customer's return request on a delivered order.
// The second-leg shipping fee may be recorded now if already known.
func (u *ReturnUsecase) RequestReturn(ctx context.Context, actor *domain.User, orderID string, secondShippingFee *float64, reasonType string, note *string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Customers can only act on their own orders.
	if actor.Role == domain.RoleCustomer && order.UserID != actor.ID {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, orderID)
	}

	if !domain.IsValidRefundReasonType(reasonType) {
		return nil, fmt.Errorf("%w: unknown refund reason type %q", domain.ErrValidation, reasonType)
	}
	if secondShippingFee != nil && *secondShippingFee < 0 {
		return nil, fmt.Errorf("%w: second shipping fee must not be negative", domain.ErrValidation)
	}

	upd := domain.StatusUpdate{
		SecondShippingFee: secondShippingFee,
		RefundReasonType:  &reasonType,
	}
	return u.applyTransition(ctx, actor, order, domain.ActionRequestReturn, upd, note)
}

// CSConfirm moves a requested return into the CS-confirmed stage.
func (u *ReturnUsecase) CSConfirm(ctx context.Context, actor *domain.User, orderID string, note *string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return u.applyTransition(ctx, actor, order, domain.ActionCSConfirm, domain.StatusUpdate{}, note)
}

// StaffConfirm records the warehouse inspection result. The fault
// attribution is an explicit enum set here, never inferred from the
// free-text note, which is kept separately as a non-authoritative comment.
func (u *ReturnUsecase) StaffConfirm(ctx context.Context, actor *domain.User, orderID, faultAttribution string, basePenaltyAmount *float64, note *string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.IsValidFaultAttribution(faultAttribution) {
		return nil, fmt.Errorf("%w: unknown fault attribution %q", domain.ErrValidation, faultAttribution)
	}
	if basePenaltyAmount != nil && *basePenaltyAmount < 0 {
		return nil, fmt.Errorf("%w: penalty override must not be negative", domain.ErrValidation)
	}

	upd := domain.StatusUpdate{
		FaultAttribution:  &faultAttribution,
		BasePenaltyAmount: basePenaltyAmount,
		InspectionNote:    note,
	}
	return u.applyTransition(ctx, actor, order, domain.ActionStaffConfirm, upd, note)
}

// Reject closes a return case before inspection is complete. A non-empty
// reason is required; return_rejected is terminal.
func (u *ReturnUsecase) Reject(ctx context.Context, actor *domain.User, orderID, reason string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}

	upd := domain.StatusUpdate{RejectionReason: &reason}
	return u.applyTransition(ctx, actor, order, domain.ActionReject, upd, &reason)
}

// PreviewRefund computes the refund breakdown without touching state.
// Callable at any return stage, repeatedly, for side-by-side display.
func (u *ReturnUsecase) PreviewRefund(ctx context.Context, orderID string) (*domain.RefundBreakdown, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	breakdown := domain.ComputeRefund(order)
	return &breakdown, nil
}

// ConfirmRefund is the terminal payout transition. The amount paid is the
// inspector-confirmed total only; the customer-proposed figure remains a
// separate audit value and is never used for payout.
func (u *ReturnUsecase) ConfirmRefund(ctx context.Context, actor *domain.User, orderID string, note *string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Guard first: a payout attempt from the wrong stage is a transition
	// error, not a data problem. Past staff confirmation the attribution is
	// always present, so the check below only catches corrupted rows.
	if _, err := domain.CheckReturnTransition(domain.ActionConfirmRefund, order.Status, actor.Role); err != nil {
		return nil, err
	}
	if order.FaultAttribution == nil {
		return nil, fmt.Errorf("%w: fault attribution missing, inspection incomplete", domain.ErrValidation)
	}

	breakdown := domain.ComputeRefund(order)
	refundAmount := breakdown.InspectorConfirmedTotal

	upd := domain.StatusUpdate{RefundAmount: &refundAmount}
	return u.applyTransition(ctx, actor, order, domain.ActionConfirmRefund, upd, note)
}

// GetReturnCase returns the derived return view of an order.
func (u *ReturnUsecase) GetReturnCase(ctx context.Context, orderID string) (*domain.ReturnCase, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view := order.ReturnView()
	return &view, nil
}

// applyTransition is the shared spine of every return transition: guard
// check, atomic compare-and-set keyed on the status the actor saw, audit
// event in the same transaction, then fire-and-forget notification.
func (u *ReturnUsecase) applyTransition(ctx context.Context, actor *domain.User, order *domain.Order, action domain.ReturnAction, upd domain.StatusUpdate, note *string) (*domain.Order, error) {
	newStatus, err := domain.CheckReturnTransition(action, order.Status, actor.Role)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order
	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		var casErr error
		updated, casErr = u.orderRepo.CompareAndSetStatus(txCtx, order.ID, order.Status, newStatus, upd)
		if casErr != nil {
			return casErr
		}

		event := &domain.OrderEvent{
			ID:             utils.GenerateUUID(),
			OrderID:        order.ID,
			PreviousStatus: order.Status,
			NewStatus:      newStatus,
			Note:           note,
			ActorID:        actor.ID,
			ActorRole:      actor.Role,
		}
		if err := u.orderRepo.CreateOrderEvent(txCtx, event); err != nil {
			return fmt.Errorf("failed to record order event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.StatusChange(order.ID, order.Status, newStatus, actor.Role)
	if u.notifier != nil {
		u.notifier.Notify(order.ID, newStatus, actor.Role)
	}

	return updated, nil
}
