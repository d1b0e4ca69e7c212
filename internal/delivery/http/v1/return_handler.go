package v1

import (
	"net/http"

	"glowcart-backend/internal/usecase"
	"glowcart-backend/pkg/utils"

	"github.com/goccy/go-json"
)

// ReturnHandler serves the staff-console side of the return workflow. Every
// endpoint delegates to the guarded state machine; role middleware narrows
// who can reach each route, but the usecase re-checks role and status on
// every call.
type ReturnHandler struct {
	returnUC *usecase.ReturnUsecase
}

func NewReturnHandler(uc *usecase.ReturnUsecase) *ReturnHandler {
	return &ReturnHandler{returnUC: uc}
}

// CSConfirm - customer support accepts the return request.
func (h *ReturnHandler) CSConfirm(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Note *string `json:"note"`
	}
	// Body is optional here
	json.NewDecoder(r.Body).Decode(&req)

	order, err := h.returnUC.CSConfirm(r.Context(), user, r.PathValue("id"), req.Note)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// StaffConfirm - warehouse staff records the inspection outcome.
func (h *ReturnHandler) StaffConfirm(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		FaultAttribution  string   `json:"faultAttribution"`
		BasePenaltyAmount *float64 `json:"basePenaltyAmount"`
		Note              *string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	order, err := h.returnUC.StaffConfirm(r.Context(), user, r.PathValue("id"), req.FaultAttribution, req.BasePenaltyAmount, req.Note)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// Reject - support or warehouse staff closes the case. Terminal.
func (h *ReturnHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	order, err := h.returnUC.Reject(r.Context(), user, r.PathValue("id"), req.Reason)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// PreviewRefund - read-only breakdown for the reconciliation screen.
func (h *ReturnHandler) PreviewRefund(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.returnUC.PreviewRefund(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, breakdown)
}

// ConfirmRefund - finance admin locks in the payout. Terminal.
func (h *ReturnHandler) ConfirmRefund(w http.ResponseWriter, r *http.Request) {
	user, ok := actorFromContext(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Note *string `json:"note"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	order, err := h.returnUC.ConfirmRefund(r.Context(), user, r.PathValue("id"), req.Note)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// GetReturnCase - the derived return view for console detail screens.
func (h *ReturnHandler) GetReturnCase(w http.ResponseWriter, r *http.Request) {
	view, err := h.returnUC.GetReturnCase(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}
