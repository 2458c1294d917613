package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tidyhome-backend/internal/http/response"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

type CustomerHandler struct {
	customers services.CustomerService
}

func NewCustomerHandler(customers services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type createCustomerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// GET /api/customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	out, err := h.customers.List(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"customers": out})
}

// GET /api/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "customer")
	if !ok {
		return
	}
	cust, err := h.customers.Get(dbctx.New(c.Request.Context()), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"customer": cust})
}

// POST /api/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if !bindBody(c, &req) {
		return
	}
	cust, err := h.customers.Create(c.Request.Context(), services.CreateCustomerInput{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"customer": cust})
}
