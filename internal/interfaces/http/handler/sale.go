package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appsales "github.com/elotech/pdv-backend/internal/application/sales"
	"github.com/elotech/pdv-backend/internal/interfaces/http/dto"
)

// SaleHandler handles checkout and sales history endpoints
type SaleHandler struct {
	BaseHandler
	service *appsales.CheckoutService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(service *appsales.CheckoutService) *SaleHandler {
	return &SaleHandler{service: service}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	sales := r.Group("/sales")
	{
		sales.POST("/checkout", h.Checkout)
		sales.GET("", h.List)
		sales.GET("/history", h.History)
		sales.GET("/dashboard", h.Dashboard)
		sales.GET("/:id", h.Get)
		sales.POST("/:id/cancel", adminOnly, h.Cancel)
	}
}

// Checkout handles POST /sales/checkout
func (h *SaleHandler) Checkout(c *gin.Context) {
	operatorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appsales.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.Checkout(c.Request.Context(), operatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, result)
}

// History handles GET /sales/history?from=&to=
func (h *SaleHandler) History(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid 'from' date, expected YYYY-MM-DD or RFC 3339")
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid 'to' date, expected YYYY-MM-DD or RFC 3339")
		return
	}
	if to.IsZero() {
		to = time.Now()
	}

	result, err := h.service.History(c.Request.Context(), from, to, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, result)
}

// Dashboard handles GET /sales/dashboard
func (h *SaleHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sale, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Cancel handles POST /sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sale, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// parseDateParam accepts a date-only or RFC 3339 value; empty means zero time
func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
