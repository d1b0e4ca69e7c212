package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"glowcart-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `
	id, code, user_id, status,
	total_paid, product_value, first_shipping_fee, second_shipping_fee,
	refund_reason_type, fault_attribution, base_penalty_amount,
	refund_amount, rejection_reason, inspection_note,
	shipping_address, created_at, updated_at`

// --- Mappers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o       domain.Order
		reason  *string
		address []byte
	)
	err := row.Scan(
		&o.ID, &o.Code, &o.UserID, &o.Status,
		&o.TotalPaid, &o.ProductValue, &o.FirstShippingFee, &o.SecondShippingFee,
		&reason, &o.FaultAttribution, &o.BasePenaltyAmount,
		&o.RefundAmount, &o.RejectionReason, &o.InspectionNote,
		&address, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reason != nil {
		o.RefundReasonType = *reason
	}
	if len(address) > 0 {
		var addr domain.JSONB
		if err := json.Unmarshal(address, &addr); err == nil {
			o.ShippingAddress = addr
		}
	}
	return &o, nil
}

// --- Read Methods ---

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := querierFromContext(ctx, r.db)
	row := q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	q := querierFromContext(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	q := querierFromContext(ctx, r.db)

	where := ` WHERE ($1 = '' OR status = $1) AND ($2 = '' OR code ILIKE '%' || $2 || '%')`

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, filter.Status, filter.Search).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	rows, err := q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders`+where+` ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		filter.Status, filter.Search, filter.Limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
	}
	return orders, total, rows.Err()
}

// --- Transitions ---

// CompareAndSetStatus applies the status write and any field updates in a
// single guarded UPDATE. The WHERE clause carries the optimistic check: a
// stale expected status matches zero rows, which is then disambiguated
// into conflict vs. not-found.
func (r *orderRepository) CompareAndSetStatus(ctx context.Context, id, expectedStatus, newStatus string, upd domain.StatusUpdate) (*domain.Order, error) {
	q := querierFromContext(ctx, r.db)

	row := q.QueryRow(ctx, `
		UPDATE orders SET
			status              = $3,
			second_shipping_fee = COALESCE($4, second_shipping_fee),
			refund_reason_type  = COALESCE($5, refund_reason_type),
			fault_attribution   = COALESCE($6, fault_attribution),
			base_penalty_amount = COALESCE($7, base_penalty_amount),
			refund_amount       = COALESCE($8, refund_amount),
			rejection_reason    = COALESCE($9, rejection_reason),
			inspection_note     = COALESCE($10, inspection_note),
			updated_at          = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns,
		id, expectedStatus, newStatus,
		upd.SecondShippingFee, upd.RefundReasonType, upd.FaultAttribution,
		upd.BasePenaltyAmount, upd.RefundAmount, upd.RejectionReason,
		upd.InspectionNote,
	)

	order, err := scanOrder(row)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Zero rows: either the order is gone or someone else moved it first.
	var current string
	lookupErr := q.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
	if errors.Is(lookupErr, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if lookupErr != nil {
		return nil, lookupErr
	}
	return nil, fmt.Errorf("%w: expected status %q but found %q", domain.ErrConcurrentModification, expectedStatus, current)
}

// --- Order Events ---

func (r *orderRepository) CreateOrderEvent(ctx context.Context, event *domain.OrderEvent) error {
	q := querierFromContext(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO order_events (id, order_id, previous_status, new_status, note, actor_id, actor_role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.OrderID, event.PreviousStatus, event.NewStatus,
		event.Note, event.ActorID, event.ActorRole,
	)
	return err
}

func (r *orderRepository) GetOrderEvents(ctx context.Context, orderID string) ([]domain.OrderEvent, error) {
	q := querierFromContext(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, order_id, previous_status, new_status, note, actor_id, actor_role, created_at
		FROM order_events WHERE order_id = $1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.OrderEvent
	for rows.Next() {
		var e domain.OrderEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.PreviousStatus, &e.NewStatus, &e.Note, &e.ActorID, &e.ActorRole, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
