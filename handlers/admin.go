package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	scheduleRepo "github.com/Skarath13/bloom-sub003/database/repository/schedule"
	"github.com/Skarath13/bloom-sub003/models"
	"github.com/Skarath13/bloom-sub003/utils"
)

// AdminHandler covers the administrative schedule edits the engine reads.
type AdminHandler struct {
	Schedules scheduleRepo.ScheduleRepository
}

func NewAdminHandler(schedules scheduleRepo.ScheduleRepository) *AdminHandler {
	return &AdminHandler{Schedules: schedules}
}

// UpsertWorkingSchedule handles PUT /api/admin/schedules.
func (h *AdminHandler) UpsertWorkingSchedule(c *gin.Context) {
	var input struct {
		TechnicianID string `json:"technicianId" binding:"required"`
		Weekday      int    `json:"weekday"`
		IsWorking    bool   `json:"isWorking"`
		Start        int    `json:"start"`
		End          int    `json:"end"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.Weekday < 0 || input.Weekday > 6 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "weekday must be 0 (Sunday) through 6 (Saturday)")
		return
	}
	if input.IsWorking && (input.Start < 0 || input.End > 24*60 || input.Start >= input.End) {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "start must be before end, within the day")
		return
	}

	ws := models.WorkingSchedule{
		TechnicianID: input.TechnicianID,
		Weekday:      time.Weekday(input.Weekday),
		IsWorking:    input.IsWorking,
		Start:        input.Start,
		End:          input.End,
	}
	if err := h.Schedules.UpsertWorkingSchedule(c.Request.Context(), ws); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save schedule", err.Error())
		return
	}
	c.JSON(http.StatusOK, ws)
}

// CreateTimeBlock handles POST /api/admin/time-blocks.
func (h *AdminHandler) CreateTimeBlock(c *gin.Context) {
	var block models.TimeBlock
	if err := c.ShouldBindJSON(&block); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if block.TechnicianID == "" || block.Date == "" || block.Start >= block.End {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "technicianId, date and a non-empty time range are required")
		return
	}

	if err := h.Schedules.CreateBlock(c.Request.Context(), &block); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create time block", err.Error())
		return
	}
	c.JSON(http.StatusCreated, block)
}

// DeleteTimeBlock handles DELETE /api/admin/time-blocks/:id. With a ?date=
// query the delete targets a single occurrence of a recurring block, which
// is recorded as an exception on the canonical instance rather than a stored
// row removal.
func (h *AdminHandler) DeleteTimeBlock(c *gin.Context) {
	id := c.Param("id")
	if date := c.Query("date"); date != "" {
		if err := h.Schedules.AddBlockException(c.Request.Context(), id, date); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				utils.JSONError(c, http.StatusNotFound, "time block not found", id)
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "failed to delete occurrence", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "excludedDate": date})
		return
	}

	if err := h.Schedules.DeleteBlock(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.JSONError(c, http.StatusNotFound, "time block not found", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete time block", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
