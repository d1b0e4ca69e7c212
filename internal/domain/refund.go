package domain

import "math"

// RefundBreakdown carries every line item of the refund computation so a
// console can render a side-by-side reconciliation. CustomerProposedTotal
// and InspectorConfirmedTotal are tracked separately for audit and dispute
// purposes and are never merged before payout; only the inspector-confirmed
// figure is ever paid out.
type RefundBreakdown struct {
	TotalPaid         float64 `json:"totalPaid"`
	ProductValue      float64 `json:"productValue"`
	FirstShippingFee  float64 `json:"firstShippingFee"`
	SecondShippingFee float64 `json:"secondShippingFee"`

	// PenaltyApplied is the deduction used in the inspector-confirmed
	// total: zero when the store is at fault.
	PenaltyApplied float64 `json:"penaltyApplied"`

	CustomerProposedTotal   float64 `json:"customerProposedTotal"`
	InspectorConfirmedTotal float64 `json:"inspectorConfirmedTotal"`
}

// ComputeRefund derives the refund breakdown for an order. Pure: no I/O,
// no mutation, safe to call repeatedly for previews before the terminal
// transition locks the amount in.
//
// Intermediate values stay unrounded; each total is rounded to the smallest
// currency unit only when finalized, and clamped at zero.
func ComputeRefund(o *Order) RefundBreakdown {
	b := RefundBreakdown{
		TotalPaid:         o.TotalPaid,
		ProductValue:      o.ProductValue,
		FirstShippingFee:  o.FirstShippingFee,
		SecondShippingFee: o.SecondShippingFee,
	}

	// The customer-proposed figure is keyed by the customer's own claim
	// and is always computable, even before inspection.
	proposedSide := FaultCustomer
	if o.RefundReasonType == RefundReasonStoreFault {
		proposedSide = FaultStore
	}
	b.CustomerProposedTotal, _ = refundFormula(o, proposedSide)

	// The inspector-confirmed figure prefers the recorded attribution.
	// Without one, a previously persisted refund amount wins; failing
	// that, fall back to the proposed total so a display value always
	// exists.
	switch {
	case o.FaultAttribution != nil:
		b.InspectorConfirmedTotal, b.PenaltyApplied = refundFormula(o, *o.FaultAttribution)
	case o.RefundAmount != nil:
		b.InspectorConfirmedTotal = *o.RefundAmount
	default:
		b.InspectorConfirmedTotal = b.CustomerProposedTotal
		if proposedSide == FaultCustomer {
			b.PenaltyApplied = penaltyFor(o)
		}
	}

	return b
}

// refundFormula is the shared formula shape keyed by fault side. It returns
// the finalized total and the penalty that was deducted (zero for store
// fault).
func refundFormula(o *Order, faultSide string) (total, penalty float64) {
	if faultSide == FaultStore {
		// The store pays the return shipping back too.
		return math.Round(o.TotalPaid + o.SecondShippingFee), 0
	}

	penalty = penaltyFor(o)
	total = o.TotalPaid - o.SecondShippingFee - penalty
	total = math.Round(total)
	if total < 0 {
		total = 0
	}
	return total, penalty
}

// penaltyFor resolves the customer-fault penalty: the stored override when
// positive, otherwise the standard rate applied to the product value,
// rounded to the nearest currency unit.
func penaltyFor(o *Order) float64 {
	if o.BasePenaltyAmount > 0 {
		return o.BasePenaltyAmount
	}
	return math.Round(o.ProductValue * DefaultPenaltyRate)
}
