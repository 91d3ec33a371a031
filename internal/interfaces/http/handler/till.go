package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	apptill "github.com/elotech/pdv-backend/internal/application/till"
	"github.com/elotech/pdv-backend/internal/interfaces/http/dto"
)

// TillHandler handles cash register endpoints
type TillHandler struct {
	BaseHandler
	service *apptill.TillService
}

// NewTillHandler creates a new till handler
func NewTillHandler(service *apptill.TillService) *TillHandler {
	return &TillHandler{service: service}
}

// RegisterRoutes registers cash register routes
func (h *TillHandler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	till := r.Group("/till")
	{
		till.POST("/open", h.Open)
		till.GET("/status", h.Status)
		till.POST("/sangria", h.Sangria)
		till.POST("/close", h.Close)
		till.GET("/history", h.History)
		till.GET("/report", adminOnly, h.DailyReport)
	}
}

// Open handles POST /till/open
func (h *TillHandler) Open(c *gin.Context) {
	operatorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apptill.OpenTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	register, err := h.service.Open(c.Request.Context(), operatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// Status handles GET /till/status
func (h *TillHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Sangria handles POST /till/sangria
func (h *TillHandler) Sangria(c *gin.Context) {
	operatorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apptill.SangriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sangria, err := h.service.Sangria(c.Request.Context(), operatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sangria)
}

// Close handles POST /till/close
func (h *TillHandler) Close(c *gin.Context) {
	var req apptill.CloseTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Close(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// History handles GET /till/history
func (h *TillHandler) History(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.History(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, result)
}

// DailyReport handles GET /till/report?date=YYYY-MM-DD
func (h *TillHandler) DailyReport(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid 'date', expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	report, err := h.service.DailyReport(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
