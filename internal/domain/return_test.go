package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReturnTransitionHappyPath(t *testing.T) {
	steps := []struct {
		action ReturnAction
		role   string
		from   string
		to     string
	}{
		{ActionRequestReturn, RoleCustomer, OrderStatusDelivered, OrderStatusReturnRequested},
		{ActionCSConfirm, RoleCustomerSupport, OrderStatusReturnRequested, OrderStatusReturnCSConfirmed},
		{ActionStaffConfirm, RoleWarehouseStaff, OrderStatusReturnCSConfirmed, OrderStatusReturnStaffConfirmed},
		{ActionConfirmRefund, RoleFinanceAdmin, OrderStatusReturnStaffConfirmed, OrderStatusRefunded},
	}

	for _, s := range steps {
		to, err := CheckReturnTransition(s.action, s.from, s.role)
		require.NoError(t, err, "action %s", s.action)
		assert.Equal(t, s.to, to)
	}
}

func TestCheckReturnTransitionRejectPaths(t *testing.T) {
	for _, from := range []string{OrderStatusReturnRequested, OrderStatusReturnCSConfirmed} {
		for _, role := range []string{RoleCustomerSupport, RoleWarehouseStaff} {
			to, err := CheckReturnTransition(ActionReject, from, role)
			require.NoError(t, err)
			assert.Equal(t, OrderStatusReturnRejected, to)
		}
	}

	// Once inspection confirmed the return, rejection is off the table.
	_, err := CheckReturnTransition(ActionReject, OrderStatusReturnStaffConfirmed, RoleWarehouseStaff)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckReturnTransitionRoleGuards(t *testing.T) {
	cases := []struct {
		name   string
		action ReturnAction
		status string
		role   string
	}{
		{"support cannot request a return", ActionRequestReturn, OrderStatusDelivered, RoleCustomerSupport},
		{"customer cannot cs-confirm", ActionCSConfirm, OrderStatusReturnRequested, RoleCustomer},
		{"warehouse cannot cs-confirm", ActionCSConfirm, OrderStatusReturnRequested, RoleWarehouseStaff},
		{"support cannot staff-confirm", ActionStaffConfirm, OrderStatusReturnCSConfirmed, RoleCustomerSupport},
		{"finance cannot staff-confirm", ActionStaffConfirm, OrderStatusReturnCSConfirmed, RoleFinanceAdmin},
		{"customer cannot reject", ActionReject, OrderStatusReturnRequested, RoleCustomer},
		{"finance cannot reject", ActionReject, OrderStatusReturnCSConfirmed, RoleFinanceAdmin},
		{"support cannot confirm refund", ActionConfirmRefund, OrderStatusReturnStaffConfirmed, RoleCustomerSupport},
		{"warehouse cannot confirm refund", ActionConfirmRefund, OrderStatusReturnStaffConfirmed, RoleWarehouseStaff},
		{"admin cannot confirm refund", ActionConfirmRefund, OrderStatusReturnStaffConfirmed, RoleAdmin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CheckReturnTransition(tc.action, tc.status, tc.role)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestCheckReturnTransitionStatusGuards(t *testing.T) {
	cases := []struct {
		name   string
		action ReturnAction
		status string
		role   string
	}{
		{"no return before delivery", ActionRequestReturn, OrderStatusShipped, RoleCustomer},
		{"cs-confirm needs a request", ActionCSConfirm, OrderStatusDelivered, RoleCustomerSupport},
		{"staff-confirm needs cs confirmation", ActionStaffConfirm, OrderStatusReturnRequested, RoleWarehouseStaff},
		{"no skipping inspection", ActionConfirmRefund, OrderStatusReturnCSConfirmed, RoleFinanceAdmin},
		{"repeated cs-confirm fails", ActionCSConfirm, OrderStatusReturnCSConfirmed, RoleCustomerSupport},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CheckReturnTransition(tc.action, tc.status, tc.role)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestTerminalStatusesAreSinks(t *testing.T) {
	actions := []ReturnAction{ActionRequestReturn, ActionCSConfirm, ActionStaffConfirm, ActionReject, ActionConfirmRefund}

	for _, status := range []string{OrderStatusRefunded, OrderStatusReturnRejected} {
		require.True(t, IsTerminalReturnStatus(status))
		for _, action := range actions {
			for _, role := range ActorRoles {
				_, err := CheckReturnTransition(action, status, role)
				assert.ErrorIs(t, err, ErrInvalidTransition,
					"%s by %s from %s must fail", action, role, status)
			}
		}
	}
}

func TestAllowedReturnActions(t *testing.T) {
	assert.Equal(t,
		[]ReturnAction{ActionRequestReturn},
		AllowedReturnActions(OrderStatusDelivered, RoleCustomer))

	assert.Equal(t,
		[]ReturnAction{ActionCSConfirm, ActionReject},
		AllowedReturnActions(OrderStatusReturnRequested, RoleCustomerSupport))

	assert.Equal(t,
		[]ReturnAction{ActionStaffConfirm, ActionReject},
		AllowedReturnActions(OrderStatusReturnCSConfirmed, RoleWarehouseStaff))

	assert.Equal(t,
		[]ReturnAction{ActionConfirmRefund},
		AllowedReturnActions(OrderStatusReturnStaffConfirmed, RoleFinanceAdmin))

	assert.Empty(t, AllowedReturnActions(OrderStatusRefunded, RoleAdmin))
	assert.Empty(t, AllowedReturnActions(OrderStatusDelivered, RoleFinanceAdmin))
}
