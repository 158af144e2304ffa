package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/Skarath13/bloom-sub003/services/scheduling"
	"github.com/Skarath13/bloom-sub003/utils"
)

// availabilityCacheTTL bounds how stale a cached slot response can get. The
// booking conflict check catches anything booked in the meantime.
const availabilityCacheTTL = 60 * time.Second

// AvailabilityHandler serves the read-only slot query. Cache is optional; nil
// disables response caching.
type AvailabilityHandler struct {
	Engine scheduling.AvailabilityEngine
	Cache  *redis.Client
}

func NewAvailabilityHandler(engine scheduling.AvailabilityEngine, cache *redis.Client) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine, Cache: cache}
}

// GetAvailability handles GET /api/availability.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	req := scheduling.AvailabilityRequest{
		LocationID:   c.Query("location_id"),
		ServiceID:    c.Query("service_id"),
		TechnicianID: c.Query("technician_id"),
		Date:         c.Query("date"),
	}
	if req.LocationID == "" || req.ServiceID == "" || req.Date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", "location_id, service_id and date are required")
		return
	}

	cacheKey := fmt.Sprintf("availability:%s:%s:%s:%s", req.LocationID, req.ServiceID, req.TechnicianID, req.Date)
	if h.Cache != nil {
		if raw, err := h.Cache.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(raw))
			return
		}
	}

	resp, err := h.Engine.GetAvailability(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrInvalidDate):
			utils.JSONError(c, http.StatusBadRequest, "invalid request", "date must be formatted YYYY-MM-DD")
		case errors.Is(err, scheduling.ErrServiceNotFound):
			utils.JSONError(c, http.StatusNotFound, "service not found", req.ServiceID)
		case errors.Is(err, scheduling.ErrTechnicianNotFound):
			utils.JSONError(c, http.StatusNotFound, "technician not found", req.TechnicianID)
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability", err.Error())
		}
		return
	}

	if h.Cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			// Best effort; a failed cache write only costs a reccompute.
			h.Cache.Set(c.Request.Context(), cacheKey, raw, availabilityCacheTTL)
		}
	}
	c.JSON(http.StatusOK, resp)
}
