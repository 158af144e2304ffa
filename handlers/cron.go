package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skarath13/bloom-sub003/services/reminders"
	"github.com/Skarath13/bloom-sub003/utils"
)

// CronHandler exposes the time-triggered sweeps over HTTP so an external
// scheduler can drive them. The same sweeps also run on the in-process
// worker; the claim pattern makes overlapping invocations harmless.
type CronHandler struct {
	Sweeper reminders.ReminderSweeper
}

func NewCronHandler(sweeper reminders.ReminderSweeper) *CronHandler {
	return &CronHandler{Sweeper: sweeper}
}

// RunReminderSweep handles POST /api/cron/reminders.
func (h *CronHandler) RunReminderSweep(c *gin.Context) {
	result, err := h.Sweeper.Sweep(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "reminder sweep failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// RunReconciliation handles POST /api/cron/reconcile.
func (h *CronHandler) RunReconciliation(c *gin.Context) {
	counts, err := h.Sweeper.Reconcile(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "claim reconciliation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": counts})
}
