package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tidyhome-backend/internal/http/response"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

type TimeLogHandler struct {
	clock services.TimeClockService
}

func NewTimeLogHandler(clock services.TimeClockService) *TimeLogHandler {
	return &TimeLogHandler{clock: clock}
}

type clockInRequest struct {
	JobID string   `json:"job_id"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
}

// GET /api/timelogs
func (h *TimeLogHandler) ListTimeLogs(c *gin.Context) {
	openOnly, _ := strconv.ParseBool(c.DefaultQuery("open", "false"))
	out, err := h.clock.List(dbctx.New(c.Request.Context()), openOnly)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"time_logs": out})
}

// POST /api/timelogs/clock-in
func (h *TimeLogHandler) ClockIn(c *gin.Context) {
	var req clockInRequest
	if !bindBody(c, &req) {
		return
	}
	jobID, err := bodyID("job_id", req.JobID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	tl, err := h.clock.ClockIn(c.Request.Context(), services.ClockInInput{
		JobID: jobID,
		Lat:   req.Lat,
		Lng:   req.Lng,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"time_log": tl})
}

// POST /api/timelogs/:id/clock-out
func (h *TimeLogHandler) ClockOut(c *gin.Context) {
	id, ok := pathID(c, "time log")
	if !ok {
		return
	}
	tl, err := h.clock.ClockOut(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"time_log": tl})
}
