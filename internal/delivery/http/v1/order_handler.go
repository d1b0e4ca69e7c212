package v1

import (
	"net/http"

	"glowcart-backend/internal/domain"
	"glowcart-backend/internal/usecase"
	"glowcart-backend/pkg/utils"

	"github.com/goccy/go-json"
)

// OrderHandler serves the customer-facing order endpoints, including the
// entry point of the return workflow.
type OrderHandler struct {
	orderUC  *usecase.OrderUsecase
	returnUC *usecase.ReturnUsecase
}

func NewOrderHandler(orderUC *usecase.OrderUsecase, returnUC *usecase.ReturnUsecase) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, returnUC: returnUC}
}

func actorFromContext(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	return user, ok && user != nil
}

func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := h.orderUC.GetMyOrders(r.Context(), user.ID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetMyOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, err := h.orderUC.GetMyOrder(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// RequestReturn records the customer's return request on a delivered order.
func (h *OrderHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		SecondShippingFee *float64 `json:"secondShippingFee"`
		ReasonType        string   `json:"reasonType"`
		Note              *string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	order, err := h.returnUC.RequestReturn(r.Context(), user, r.PathValue("id"), req.SecondShippingFee, req.ReasonType, req.Note)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// GetMyReturnCase shows the customer the current return view of their order.
func (h *OrderHandler) GetMyReturnCase(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Ownership gate before exposing return details
	if _, err := h.orderUC.GetMyOrder(r.Context(), user.ID, r.PathValue("id")); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	view, err := h.returnUC.GetReturnCase(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// PreviewMyRefund lets the customer see the side-by-side refund breakdown
// before and after inspection. Read-only.
func (h *OrderHandler) PreviewMyRefund(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if _, err := h.orderUC.GetMyOrder(r.Context(), user.ID, r.PathValue("id")); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	breakdown, err := h.returnUC.PreviewRefund(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, breakdown)
}
