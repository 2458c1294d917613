package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tidyhome-backend/internal/http/response"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptions services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type createSubscriptionRequest struct {
	CustomerID string `json:"customer_id"`
	Frequency  string `json:"frequency"`
	StartDate  string `json:"start_date"`
}

// GET /api/subscriptions
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	out, err := h.subscriptions.List(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subscriptions": out})
}

// GET /api/subscriptions/:id
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	sub, err := h.subscriptions.Get(dbctx.New(c.Request.Context()), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subscription": sub})
}

// GET /api/subscriptions/:id/jobs
func (h *SubscriptionHandler) ListSubscriptionJobs(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	jobs, err := h.subscriptions.ListJobs(dbctx.New(c.Request.Context()), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs})
}

// POST /api/subscriptions
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if !bindBody(c, &req) {
		return
	}
	customerID, err := bodyID("customer_id", req.CustomerID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	sub, err := h.subscriptions.Create(c.Request.Context(), services.CreateSubscriptionInput{
		CustomerID: customerID,
		Frequency:  req.Frequency,
		StartDate:  req.StartDate,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"subscription": sub})
}

// POST /api/subscriptions/:id/cancel
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	sub, cancelled, err := h.subscriptions.Cancel(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subscription": sub, "cancelled_jobs": cancelled})
}

// POST /api/subscriptions/:id/pause
func (h *SubscriptionHandler) PauseSubscription(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	sub, err := h.subscriptions.Pause(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subscription": sub})
}

// POST /api/subscriptions/:id/resume
func (h *SubscriptionHandler) ResumeSubscription(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	sub, err := h.subscriptions.Resume(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subscription": sub})
}
