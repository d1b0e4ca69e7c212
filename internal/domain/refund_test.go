package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

// Baseline order used across refund tests: 900,000 product value plus
// 30,000 first-leg shipping paid up front, 40,000 advanced for the
// return leg.
func refundOrder() *Order {
	return &Order{
		ID:                "ord-1",
		Code:              "GC-1A2B3C4D",
		Status:            OrderStatusReturnStaffConfirmed,
		TotalPaid:         930000,
		ProductValue:      900000,
		FirstShippingFee:  30000,
		SecondShippingFee: 40000,
	}
}

func TestComputeRefundCustomerFault(t *testing.T) {
	o := refundOrder()
	o.RefundReasonType = RefundReasonCustomerFault
	o.FaultAttribution = ptr(FaultCustomer)

	b := ComputeRefund(o)

	// 930000 - 40000 - 10% of 900000
	assert.Equal(t, float64(90000), b.PenaltyApplied)
	assert.Equal(t, float64(800000), b.InspectorConfirmedTotal)
	assert.Equal(t, float64(800000), b.CustomerProposedTotal)
}

func TestComputeRefundStoreFault(t *testing.T) {
	o := refundOrder()
	o.RefundReasonType = RefundReasonStoreFault
	o.FaultAttribution = ptr(FaultStore)

	b := ComputeRefund(o)

	// Full amount back plus the return shipping the customer advanced.
	assert.Equal(t, float64(970000), b.InspectorConfirmedTotal)
	assert.Equal(t, float64(970000), b.CustomerProposedTotal)
	assert.Zero(t, b.PenaltyApplied)
}

func TestComputeRefundPenaltyOverride(t *testing.T) {
	o := refundOrder()
	o.RefundReasonType = RefundReasonCustomerFault
	o.FaultAttribution = ptr(FaultCustomer)
	o.BasePenaltyAmount = 50000

	b := ComputeRefund(o)

	assert.Equal(t, float64(50000), b.PenaltyApplied)
	assert.Equal(t, float64(840000), b.InspectorConfirmedTotal)
}

func TestComputeRefundProposedAndConfirmedDiverge(t *testing.T) {
	// Customer claims the store shipped a damaged item; inspection finds
	// customer-caused damage. The two figures must stay separate, and only
	// the inspector-confirmed one is the payout.
	o := refundOrder()
	o.RefundReasonType = RefundReasonStoreFault
	o.FaultAttribution = ptr(FaultCustomer)

	b := ComputeRefund(o)

	assert.Equal(t, float64(970000), b.CustomerProposedTotal)
	assert.Equal(t, float64(800000), b.InspectorConfirmedTotal)
	assert.Equal(t, float64(90000), b.PenaltyApplied)
}

func TestComputeRefundNeverNegative(t *testing.T) {
	o := &Order{
		TotalPaid:         10000,
		ProductValue:      8000,
		FirstShippingFee:  2000,
		SecondShippingFee: 15000,
		RefundReasonType:  RefundReasonCustomerFault,
		FaultAttribution:  ptr(FaultCustomer),
	}

	b := ComputeRefund(o)

	assert.Zero(t, b.InspectorConfirmedTotal)
}

func TestComputeRefundBeforeInspection(t *testing.T) {
	// No attribution yet: the confirmed column mirrors the proposed figure
	// so preview screens always have a value to show.
	o := refundOrder()
	o.Status = OrderStatusReturnRequested
	o.RefundReasonType = RefundReasonCustomerFault

	b := ComputeRefund(o)

	assert.Equal(t, b.CustomerProposedTotal, b.InspectorConfirmedTotal)
	assert.Equal(t, float64(90000), b.PenaltyApplied)
}

func TestComputeRefundStoredAmountWins(t *testing.T) {
	// A refunded order read back later keeps showing the amount actually
	// paid, even if no attribution survived.
	o := refundOrder()
	o.Status = OrderStatusRefunded
	o.RefundReasonType = RefundReasonCustomerFault
	o.RefundAmount = ptr(float64(812345))

	b := ComputeRefund(o)

	assert.Equal(t, float64(812345), b.InspectorConfirmedTotal)
}

func TestComputeRefundStoreFaultNeverPaysLess(t *testing.T) {
	orders := []*Order{
		refundOrder(),
		{TotalPaid: 10000, ProductValue: 8000, FirstShippingFee: 2000, SecondShippingFee: 15000},
		{TotalPaid: 55500, ProductValue: 50000, FirstShippingFee: 5500, SecondShippingFee: 0},
		{TotalPaid: 120000, ProductValue: 100000, FirstShippingFee: 20000, SecondShippingFee: 7500, BasePenaltyAmount: 99999},
	}
	for _, o := range orders {
		o.RefundReasonType = RefundReasonCustomerFault

		o.FaultAttribution = ptr(FaultCustomer)
		customer := ComputeRefund(o).InspectorConfirmedTotal

		o.FaultAttribution = ptr(FaultStore)
		store := ComputeRefund(o).InspectorConfirmedTotal

		assert.GreaterOrEqual(t, store, customer)
	}
}
