package v1

import (
	"net/http"

	"glowcart-backend/internal/domain"
	"glowcart-backend/internal/usecase"
	"glowcart-backend/pkg/utils"

	"github.com/goccy/go-json"
)

// AdminOrderHandler serves the back-office order screens: listings, detail,
// fulfilment progression and the audit trail.
type AdminOrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewAdminOrderHandler(uc *usecase.OrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orderUC: uc}
}

func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page := utils.ParseInt(r.URL.Query().Get("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 20)
	if limit < 1 {
		limit = 20
	}

	filter := domain.OrderFilter{
		Page:   page,
		Limit:  limit,
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	orders, total, err := h.orderUC.GetAllOrders(r.Context(), filter)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders":     orders,
		"pagination": domain.NewPagination(page, limit, total),
	})
}

func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUC.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// UpdateStatus advances an order along the fulfilment lifecycle
// (pending/processing/shipped/delivered). Return transitions have their own
// guarded endpoints and are rejected here.
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	order, err := h.orderUC.UpdateFulfilmentStatus(r.Context(), user, r.PathValue("id"), req.Status, req.Note)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *AdminOrderHandler) GetOrderEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.orderUC.GetOrderEvents(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, events)
}
