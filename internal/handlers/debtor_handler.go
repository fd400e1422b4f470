package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/debtdesk/api/internal/services"
)

// DebtorHandler handles taxpayer debt requests.
type DebtorHandler struct {
	service services.DebtorService
}

// NewDebtorHandler creates a new DebtorHandler instance.
func NewDebtorHandler(service services.DebtorService) *DebtorHandler {
	return &DebtorHandler{service: service}
}

// Register mounts the debtor routes on rg.
func (h *DebtorHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/debtor")
	g.POST("/filter", h.Filter)
	g.GET("/info/:id", h.Info)
	g.GET("/print/:id", h.Print)
	g.GET("/generate/:id", h.Generate)
}

// Filter handles POST /debtor/filter.
func (h *DebtorHandler) Filter(c *gin.Context) {
	f, ok := bindListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.Filter(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Info handles GET /debtor/info/:id.
func (h *DebtorHandler) Info(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	info, err := h.service.Info(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Print handles GET /debtor/print/:id.
func (h *DebtorHandler) Print(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.service.Print(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Generate handles GET /debtor/generate/:id.
func (h *DebtorHandler) Generate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := h.service.Generate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, doc)
}
