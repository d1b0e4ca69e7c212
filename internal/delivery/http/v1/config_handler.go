package v1

import (
	"net/http"
	"time"

	"glowcart-backend/internal/domain"
	"glowcart-backend/pkg/cache"
	"glowcart-backend/pkg/utils"
)

type ConfigHandler struct {
	cache    cache.CacheService
	enumsTTL time.Duration
}

func NewConfigHandler(cache cache.CacheService, enumsTTL time.Duration) *ConfigHandler {
	return &ConfigHandler{cache: cache, enumsTTL: enumsTTL}
}

// GET /api/v1/config/enums
// The consoles build status badges, role selectors and fault-side pickers
// from this; values only change with a deploy, so a TTL cache is plenty.
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	cacheKey := "system:config:enums"

	if val, found := h.cache.Get(cacheKey); found {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		utils.WriteJSON(w, http.StatusOK, val)
		return
	}

	response := map[string]interface{}{
		"orderStatuses":     domain.OrderStatuses,
		"actorRoles":        domain.ActorRoles,
		"faultAttributions": domain.FaultAttributions,
		"refundReasonTypes": domain.RefundReasonTypes,
	}

	h.cache.Set(cacheKey, response, h.enumsTTL)

	w.Header().Set("Cache-Control", "public, max-age=3600")
	utils.WriteJSON(w, http.StatusOK, response)
}
