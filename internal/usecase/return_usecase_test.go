package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"glowcart-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

// fakeOrderRepo is an in-memory OrderRepository honoring the same
// compare-and-set contract as the Postgres implementation.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	events []domain.OrderEvent

	// beforeCAS, when set, runs just before the compare-and-set so a test
	// can mutate stored state and simulate a racing actor.
	beforeCAS func()
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		cp := *o
		r.orders[o.ID] = &cp
	}
	return r
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetAll(_ context.Context, _ domain.OrderFilter) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) CompareAndSetStatus(_ context.Context, id, expectedStatus, newStatus string, upd domain.StatusUpdate) (*domain.Order, error) {
	if r.beforeCAS != nil {
		r.beforeCAS()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if o.Status != expectedStatus {
		return nil, fmt.Errorf("%w: order %s status is %q, expected %q",
			domain.ErrConcurrentModification, id, o.Status, expectedStatus)
	}

	o.Status = newStatus
	if upd.SecondShippingFee != nil {
		o.SecondShippingFee = *upd.SecondShippingFee
	}
	if upd.RefundReasonType != nil {
		o.RefundReasonType = *upd.RefundReasonType
	}
	if upd.FaultAttribution != nil {
		o.FaultAttribution = upd.FaultAttribution
	}
	if upd.BasePenaltyAmount != nil {
		o.BasePenaltyAmount = *upd.BasePenaltyAmount
	}
	if upd.RefundAmount != nil {
		o.RefundAmount = upd.RefundAmount
	}
	if upd.RejectionReason != nil {
		o.RejectionReason = upd.RejectionReason
	}
	if upd.InspectionNote != nil {
		o.InspectionNote = upd.InspectionNote
	}

	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) CreateOrderEvent(_ context.Context, event *domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeOrderRepo) GetOrderEvents(_ context.Context, orderID string) ([]domain.OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OrderEvent
	for _, e := range r.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *fakeNotifier) Notify(orderID, newStatus, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, orderID+":"+newStatus)
}

// --- Fixtures ---

var (
	customer  = &domain.User{ID: "user-1", Email: "aisha@example.com", Role: domain.RoleCustomer}
	support   = &domain.User{ID: "staff-1", Email: "cs@glowcart.test", Role: domain.RoleCustomerSupport}
	warehouse = &domain.User{ID: "staff-2", Email: "wh@glowcart.test", Role: domain.RoleWarehouseStaff}
	finance   = &domain.User{ID: "staff-3", Email: "fin@glowcart.test", Role: domain.RoleFinanceAdmin}
)

func deliveredOrder() *domain.Order {
	return &domain.Order{
		ID:               "ord-1",
		Code:             "GC-1A2B3C4D",
		UserID:           customer.ID,
		Status:           domain.OrderStatusDelivered,
		TotalPaid:        930000,
		ProductValue:     900000,
		FirstShippingFee: 30000,
	}
}

func newReturnUsecase(orders ...*domain.Order) (*ReturnUsecase, *fakeOrderRepo, *fakeNotifier) {
	repo := newFakeOrderRepo(orders...)
	notifier := &fakeNotifier{}
	return NewReturnUsecase(repo, fakeTxManager{}, notifier), repo, notifier
}

func fl(v float64) *float64 { return &v }
func str(v string) *string  { return &v }

// --- Tests ---

func TestRequestReturn(t *testing.T) {
	uc, repo, notifier := newReturnUsecase(deliveredOrder())

	order, err := uc.RequestReturn(context.Background(), customer, "ord-1", fl(40000), domain.RefundReasonStoreFault, str("arrived damaged"))
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusReturnRequested, order.Status)
	assert.Equal(t, float64(40000), order.SecondShippingFee)
	assert.Equal(t, domain.RefundReasonStoreFault, order.RefundReasonType)

	events, _ := repo.GetOrderEvents(context.Background(), "ord-1")
	require.Len(t, events, 1)
	assert.Equal(t, domain.OrderStatusDelivered, events[0].PreviousStatus)
	assert.Equal(t, domain.OrderStatusReturnRequested, events[0].NewStatus)
	assert.Equal(t, customer.ID, events[0].ActorID)

	assert.Equal(t, []string{"ord-1:return_requested"}, notifier.calls)
}

func TestRequestReturnGuards(t *testing.T) {
	t.Run("someone else's order reads as not found", func(t *testing.T) {
		uc, _, _ := newReturnUsecase(deliveredOrder())
		other := &domain.User{ID: "user-2", Role: domain.RoleCustomer}

		_, err := uc.RequestReturn(context.Background(), other, "ord-1", nil, domain.RefundReasonStoreFault, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown reason type", func(t *testing.T) {
		uc, _, _ := newReturnUsecase(deliveredOrder())

		_, err := uc.RequestReturn(context.Background(), customer, "ord-1", nil, "changed-my-mind", nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("negative shipping fee", func(t *testing.T) {
		uc, _, _ := newReturnUsecase(deliveredOrder())

		_, err := uc.RequestReturn(context.Background(), customer, "ord-1", fl(-1), domain.RefundReasonStoreFault, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("not delivered yet", func(t *testing.T) {
		o := deliveredOrder()
		o.Status = domain.OrderStatusShipped
		uc, _, _ := newReturnUsecase(o)

		_, err := uc.RequestReturn(context.Background(), customer, "ord-1", nil, domain.RefundReasonStoreFault, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestStaffConfirm(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnCSConfirmed
	o.SecondShippingFee = 40000
	o.RefundReasonType = domain.RefundReasonStoreFault
	uc, _, _ := newReturnUsecase(o)

	order, err := uc.StaffConfirm(context.Background(), warehouse, "ord-1", domain.FaultCustomer, nil, str("seal broken by customer"))
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusReturnStaffConfirmed, order.Status)
	require.NotNil(t, order.FaultAttribution)
	assert.Equal(t, domain.FaultCustomer, *order.FaultAttribution)
	require.NotNil(t, order.InspectionNote)
	assert.Equal(t, "seal broken by customer", *order.InspectionNote)
}

func TestStaffConfirmGuards(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnCSConfirmed
	uc, _, _ := newReturnUsecase(o)

	_, err := uc.StaffConfirm(context.Background(), warehouse, "ord-1", "nobody", nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.StaffConfirm(context.Background(), warehouse, "ord-1", domain.FaultCustomer, fl(-5), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Support cannot record inspection outcomes.
	_, err = uc.StaffConfirm(context.Background(), support, "ord-1", domain.FaultCustomer, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReject(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnRequested
	uc, repo, _ := newReturnUsecase(o)

	order, err := uc.Reject(context.Background(), support, "ord-1", "photos show no defect")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusReturnRejected, order.Status)
	require.NotNil(t, order.RejectionReason)
	assert.Equal(t, "photos show no defect", *order.RejectionReason)

	// Terminal: nothing moves it afterwards.
	_, err = uc.CSConfirm(context.Background(), support, "ord-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	events, _ := repo.GetOrderEvents(context.Background(), "ord-1")
	assert.Len(t, events, 1)
}

func TestRejectRequiresReason(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnRequested
	uc, _, _ := newReturnUsecase(o)

	_, err := uc.Reject(context.Background(), support, "ord-1", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFullReturnFlow(t *testing.T) {
	uc, repo, notifier := newReturnUsecase(deliveredOrder())
	ctx := context.Background()

	_, err := uc.RequestReturn(ctx, customer, "ord-1", fl(40000), domain.RefundReasonStoreFault, nil)
	require.NoError(t, err)

	_, err = uc.CSConfirm(ctx, support, "ord-1", str("pickup arranged"))
	require.NoError(t, err)

	_, err = uc.StaffConfirm(ctx, warehouse, "ord-1", domain.FaultCustomer, nil, str("used product"))
	require.NoError(t, err)

	order, err := uc.ConfirmRefund(ctx, finance, "ord-1", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusRefunded, order.Status)
	require.NotNil(t, order.RefundAmount)
	// 930000 - 40000 return shipping - 90000 penalty, despite the
	// customer claiming store fault.
	assert.Equal(t, float64(800000), *order.RefundAmount)

	events, _ := repo.GetOrderEvents(ctx, "ord-1")
	assert.Len(t, events, 4)
	assert.Len(t, notifier.calls, 4)
}

func TestConfirmRefundIdempotence(t *testing.T) {
	attribution := domain.FaultStore
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnStaffConfirmed
	o.SecondShippingFee = 40000
	o.RefundReasonType = domain.RefundReasonStoreFault
	o.FaultAttribution = &attribution
	uc, repo, _ := newReturnUsecase(o)
	ctx := context.Background()

	first, err := uc.ConfirmRefund(ctx, finance, "ord-1", nil)
	require.NoError(t, err)
	require.NotNil(t, first.RefundAmount)
	assert.Equal(t, float64(970000), *first.RefundAmount)

	// A double-click or replay must not pay twice.
	_, err = uc.ConfirmRefund(ctx, finance, "ord-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := repo.GetByID(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, float64(970000), *stored.RefundAmount)

	events, _ := repo.GetOrderEvents(ctx, "ord-1")
	assert.Len(t, events, 1)
}

func TestConfirmRefundBeforeInspection(t *testing.T) {
	// Payout attempted while the case still awaits the warehouse: this is
	// a wrong-stage call, not bad data, and must read as such.
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnCSConfirmed
	uc, repo, _ := newReturnUsecase(o)

	_, err := uc.ConfirmRefund(context.Background(), finance, "ord-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, _ := repo.GetByID(context.Background(), "ord-1")
	assert.Equal(t, domain.OrderStatusReturnCSConfirmed, stored.Status)
	assert.Nil(t, stored.RefundAmount)
}

func TestConfirmRefundMissingAttribution(t *testing.T) {
	// Correct stage but the inspection record is incomplete; only this
	// corrupted-row case is a validation error.
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnStaffConfirmed
	uc, _, _ := newReturnUsecase(o)

	_, err := uc.ConfirmRefund(context.Background(), finance, "ord-1", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConcurrentActorsLoseCleanly(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnRequested
	uc, repo, notifier := newReturnUsecase(o)
	ctx := context.Background()

	// A racing rejecter lands between this actor's read and write.
	repo.beforeCAS = func() {
		repo.mu.Lock()
		repo.orders["ord-1"].Status = domain.OrderStatusReturnRejected
		repo.mu.Unlock()
	}

	_, err := uc.CSConfirm(ctx, support, "ord-1", nil)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	// The loser left no trace: no event, no notification.
	events, _ := repo.GetOrderEvents(ctx, "ord-1")
	assert.Empty(t, events)
	assert.Empty(t, notifier.calls)
}

func TestPreviewRefundIsReadOnly(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnRequested
	o.SecondShippingFee = 40000
	o.RefundReasonType = domain.RefundReasonCustomerFault
	uc, repo, _ := newReturnUsecase(o)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b, err := uc.PreviewRefund(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, float64(800000), b.CustomerProposedTotal)
	}

	stored, err := repo.GetByID(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusReturnRequested, stored.Status)
	assert.Nil(t, stored.RefundAmount)
}

func TestGetReturnCase(t *testing.T) {
	o := deliveredOrder()
	o.Status = domain.OrderStatusReturnRejected
	o.RejectionReason = str("no defect found")
	uc, _, _ := newReturnUsecase(o)

	view, err := uc.GetReturnCase(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.True(t, view.Terminal)
	assert.Equal(t, o.Code, view.OrderCode)
	require.NotNil(t, view.RejectionReason)
	assert.Equal(t, "no defect found", *view.RejectionReason)
}
