package domain

import "fmt"

// ReturnAction identifies one transition of the return state machine.
type ReturnAction string

const (
	ActionRequestReturn ReturnAction = "request_return"
	ActionCSConfirm     ReturnAction = "cs_confirm"
	ActionStaffConfirm  ReturnAction = "staff_confirm"
	ActionReject        ReturnAction = "reject"
	ActionConfirmRefund ReturnAction = "confirm_refund"
)

// returnRule binds an action to the statuses it may fire from, the status
// it lands on, and the roles allowed to perform it. This table is the
// single server-side authority; UI button visibility is cosmetic only.
type returnRule struct {
	from  []string
	to    string
	roles []string
}

var returnRules = map[ReturnAction]returnRule{
	ActionRequestReturn: {
		from:  []string{OrderStatusDelivered},
		to:    OrderStatusReturnRequested,
		roles: []string{RoleCustomer},
	},
	ActionCSConfirm: {
		from:  []string{OrderStatusReturnRequested},
		to:    OrderStatusReturnCSConfirmed,
		roles: []string{RoleCustomerSupport},
	},
	ActionStaffConfirm: {
		from:  []string{OrderStatusReturnCSConfirmed},
		to:    OrderStatusReturnStaffConfirmed,
		roles: []string{RoleWarehouseStaff},
	},
	ActionReject: {
		from:  []string{OrderStatusReturnRequested, OrderStatusReturnCSConfirmed},
		to:    OrderStatusReturnRejected,
		roles: []string{RoleCustomerSupport, RoleWarehouseStaff},
	},
	ActionConfirmRefund: {
		from:  []string{OrderStatusReturnStaffConfirmed},
		to:    OrderStatusRefunded,
		roles: []string{RoleFinanceAdmin},
	},
}

// IsTerminalReturnStatus reports whether status is a sink: once reached,
// no transition succeeds for any actor.
func IsTerminalReturnStatus(status string) bool {
	return status == OrderStatusRefunded || status == OrderStatusReturnRejected
}

// CheckReturnTransition validates one (status, role, action) triple against
// the guard table. It returns the target status on success and a wrapped
// ErrInvalidTransition otherwise. Re-invoking an already-applied transition
// fails here because the current status no longer matches the precondition.
func CheckReturnTransition(action ReturnAction, currentStatus, role string) (string, error) {
	rule, ok := returnRules[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	allowedRole := false
	for _, r := range rule.roles {
		if r == role {
			allowedRole = true
			break
		}
	}
	if !allowedRole {
		return "", fmt.Errorf("%w: role %q may not perform %s", ErrInvalidTransition, role, action)
	}

	for _, s := range rule.from {
		if s == currentStatus {
			return rule.to, nil
		}
	}
	return "", fmt.Errorf("%w: cannot %s from status %q", ErrInvalidTransition, action, currentStatus)
}

// AllowedReturnActions lists the actions a given role could perform on an
// order in the given status. Used by the consoles to render action menus;
// the guard above is still enforced on every call.
func AllowedReturnActions(currentStatus, role string) []ReturnAction {
	var actions []ReturnAction
	for _, action := range []ReturnAction{ActionRequestReturn, ActionCSConfirm, ActionStaffConfirm, ActionReject, ActionConfirmRefund} {
		if _, err := CheckReturnTransition(action, currentStatus, role); err == nil {
			actions = append(actions, action)
		}
	}
	return actions
}
