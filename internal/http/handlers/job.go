package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"github.com/yungbote/tidyhome-backend/internal/http/response"
	"github.com/yungbote/tidyhome-backend/internal/platform/apierr"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

type JobHandler struct {
	jobs services.JobService
	now  func() time.Time
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs, now: time.Now}
}

type createJobRequest struct {
	CustomerID     string   `json:"customer_id"`
	SubscriptionID *string  `json:"subscription_id"`
	ScheduledDate  string   `json:"scheduled_date"`
	ArrivalWindow  string   `json:"arrival_window"`
	Bedrooms       *int     `json:"bedrooms"`
	Bathrooms      *int     `json:"bathrooms"`
	Sqft           *int     `json:"sqft"`
	Frequency      string   `json:"frequency"`
	ExtraIDs       []string `json:"extra_ids"`
}

// missing names the room counts left out of the body. Zero is a valid count,
// so absence is checked on the pointer.
func (r createJobRequest) missing() []string {
	var out []string
	for _, f := range []struct {
		name string
		v    *int
	}{{"bedrooms", r.Bedrooms}, {"bathrooms", r.Bathrooms}, {"sqft", r.Sqft}} {
		if f.v == nil {
			out = append(out, f.name)
		}
	}
	return out
}

// GET /api/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	out, err := h.jobs.List(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": out})
}

// GET /api/jobs/today
func (h *JobHandler) ListToday(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = h.now().UTC().Format(types.DateLayout)
	}
	out, err := h.jobs.ListByDate(dbctx.New(c.Request.Context()), date)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"date": date, "jobs": out})
}

// GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := pathID(c, "job")
	if !ok {
		return
	}
	job, err := h.jobs.Get(dbctx.New(c.Request.Context()), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// POST /api/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req createJobRequest
	if !bindBody(c, &req) {
		return
	}
	if missing := req.missing(); len(missing) > 0 {
		response.RespondAPIError(c, apierr.BadRequest("validation",
			fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))))
		return
	}
	customerID, err := bodyID("customer_id", req.CustomerID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var subID *uuid.UUID
	if req.SubscriptionID != nil && strings.TrimSpace(*req.SubscriptionID) != "" {
		id, err := bodyID("subscription_id", *req.SubscriptionID)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		subID = &id
	}
	job, err := h.jobs.Create(c.Request.Context(), services.CreateJobInput{
		CustomerID:     customerID,
		SubscriptionID: subID,
		ScheduledDate:  req.ScheduledDate,
		ArrivalWindow:  req.ArrivalWindow,
		Bedrooms:       *req.Bedrooms,
		Bathrooms:      *req.Bathrooms,
		Sqft:           *req.Sqft,
		Frequency:      req.Frequency,
		ExtraIDs:       req.ExtraIDs,
		Source:         services.SourceAPI,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job": job})
}

// POST /api/jobs/:id/complete
func (h *JobHandler) CompleteJob(c *gin.Context) {
	id, ok := pathID(c, "job")
	if !ok {
		return
	}
	job, err := h.jobs.Complete(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// POST /api/jobs/:id/cancel
func (h *JobHandler) CancelJob(c *gin.Context) {
	id, ok := pathID(c, "job")
	if !ok {
		return
	}
	job, err := h.jobs.Cancel(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
