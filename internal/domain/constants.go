package domain

// Order Statuses
// Fulfilment lifecycle first, then the return sub-lifecycle.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"

	OrderStatusReturnRequested      = "return_requested"
	OrderStatusReturnCSConfirmed    = "return_cs_confirmed"
	OrderStatusReturnStaffConfirmed = "return_staff_confirmed"
	OrderStatusRefunded             = "refunded"        // Terminal
	OrderStatusReturnRejected       = "return_rejected" // Terminal
)

// Actor Roles
const (
	RoleCustomer        = "customer"
	RoleCustomerSupport = "support"
	RoleWarehouseStaff  = "warehouse"
	RoleFinanceAdmin    = "finance"
	RoleAdmin           = "admin"
)

// Fault Attribution (set once by the warehouse inspection)
const (
	FaultCustomer = "customer"
	FaultStore    = "store"
)

// Refund Reason Types (the customer's own claim at request time)
const (
	RefundReasonCustomerFault = "customer_fault" // changed mind, wrong shade ordered, etc.
	RefundReasonStoreFault    = "store_fault"    // damaged, expired, wrong item shipped
)

// DefaultPenaltyRate is the standard deduction taken from the product value
// when the customer is at fault and no explicit penalty override is set.
const DefaultPenaltyRate = 0.10

// List Exports for API
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusReturnRequested,
	OrderStatusReturnCSConfirmed,
	OrderStatusReturnStaffConfirmed,
	OrderStatusRefunded,
	OrderStatusReturnRejected,
}

var ActorRoles = []string{
	RoleCustomer,
	RoleCustomerSupport,
	RoleWarehouseStaff,
	RoleFinanceAdmin,
	RoleAdmin,
}

var FaultAttributions = []string{
	FaultCustomer,
	FaultStore,
}

var RefundReasonTypes = []string{
	RefundReasonCustomerFault,
	RefundReasonStoreFault,
}

// IsValidFaultAttribution reports whether v is a known fault side.
func IsValidFaultAttribution(v string) bool {
	return v == FaultCustomer || v == FaultStore
}

// IsValidRefundReasonType reports whether v is a known reason type.
func IsValidRefundReasonType(v string) bool {
	return v == RefundReasonCustomerFault || v == RefundReasonStoreFault
}
