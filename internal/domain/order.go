package domain

import (
	"context"
	"time"
)

type OrderFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// --- Order Entities ---

// Order is the aggregate root. Monetary fields are expressed in the
// smallest currency unit; ProductValue + FirstShippingFee == TotalPaid
// (within half a unit) once payment is captured.
type Order struct {
	ID     string `json:"id"`
	Code   string `json:"code"` // Human-readable reference, immutable
	UserID string `json:"userId"`
	Status string `json:"status"`

	TotalPaid        float64 `json:"totalPaid"`
	ProductValue     float64 `json:"productValue"`
	FirstShippingFee float64 `json:"firstShippingFee"`

	// Return-specific fields. SecondShippingFee is the fee the customer
	// advanced for the return leg; zero until the return is requested.
	SecondShippingFee float64  `json:"secondShippingFee"`
	RefundReasonType  string   `json:"refundReasonType,omitempty"` // customer's own fault claim
	FaultAttribution  *string  `json:"faultAttribution,omitempty"` // set once by staff confirm
	BasePenaltyAmount float64  `json:"basePenaltyAmount"`          // optional override of the 10% penalty
	RefundAmount      *float64 `json:"refundAmount,omitempty"`     // set once by the refunded transition
	RejectionReason   *string  `json:"rejectionReason,omitempty"`  // set once by the rejected transition
	InspectionNote    *string  `json:"inspectionNote,omitempty"`   // free text, non-authoritative

	ShippingAddress JSONB     `json:"shippingAddress"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ReturnCase is a view over an order's return fields. It exists while the
// order sits in a return-eligible status and is never persisted separately.
type ReturnCase struct {
	OrderID           string   `json:"orderId"`
	OrderCode         string   `json:"orderCode"`
	Status            string   `json:"status"`
	SecondShippingFee float64  `json:"secondShippingFee"`
	RefundReasonType  string   `json:"refundReasonType,omitempty"`
	FaultAttribution  *string  `json:"faultAttribution,omitempty"`
	RefundAmount      *float64 `json:"refundAmount,omitempty"`
	RejectionReason   *string  `json:"rejectionReason,omitempty"`
	InspectionNote    *string  `json:"inspectionNote,omitempty"`
	Terminal          bool     `json:"terminal"`
}

// ReturnView derives the return case from the order's current state.
func (o *Order) ReturnView() ReturnCase {
	return ReturnCase{
		OrderID:           o.ID,
		OrderCode:         o.Code,
		Status:            o.Status,
		SecondShippingFee: o.SecondShippingFee,
		RefundReasonType:  o.RefundReasonType,
		FaultAttribution:  o.FaultAttribution,
		RefundAmount:      o.RefundAmount,
		RejectionReason:   o.RejectionReason,
		InspectionNote:    o.InspectionNote,
		Terminal:          IsTerminalReturnStatus(o.Status),
	}
}

// OrderEvent is one audit row per applied transition.
type OrderEvent struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Note           *string   `json:"note,omitempty"`
	ActorID        string    `json:"actorId"`
	ActorRole      string    `json:"actorRole"`
	CreatedAt      time.Time `json:"createdAt"`
}

// StatusUpdate carries the optional field writes applied together with a
// status compare-and-set. Nil pointers leave the stored value untouched.
type StatusUpdate struct {
	SecondShippingFee *float64
	RefundReasonType  *string
	FaultAttribution  *string
	BasePenaltyAmount *float64
	RefundAmount      *float64
	RejectionReason   *string
	InspectionNote    *string
}

// --- Interfaces ---

// OrderRepository is the Order Store contract the core consumes.
// CompareAndSetStatus must be atomic: the write applies only if the stored
// status still equals expectedStatus. A lost race yields
// ErrConcurrentModification, an unknown id ErrNotFound.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByUserID(ctx context.Context, userID string) ([]Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	CompareAndSetStatus(ctx context.Context, id, expectedStatus, newStatus string, upd StatusUpdate) (*Order, error)

	CreateOrderEvent(ctx context.Context, event *OrderEvent) error
	GetOrderEvents(ctx context.Context, orderID string) ([]OrderEvent, error)
}

// Notifier delivers status-change messages to humans. Fire-and-forget:
// a delivery failure never rolls back the transition that triggered it.
type Notifier interface {
	Notify(orderID, newStatus, actorRole string)
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
