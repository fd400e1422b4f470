package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/debtdesk/api/internal/services"
)

// DebtChargeHandler handles issued tax notice requests.
type DebtChargeHandler struct {
	service        services.DebtChargeService
	maxUploadBytes int64
}

// NewDebtChargeHandler creates a new DebtChargeHandler instance.
func NewDebtChargeHandler(service services.DebtChargeService, maxUploadBytes int64) *DebtChargeHandler {
	return &DebtChargeHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Register mounts the debt charge routes on rg.
func (h *DebtChargeHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/debtcharges")
	g.POST("/filter", h.Filter)
	g.POST("/upload", h.Upload)
	g.GET("/generate/:id", h.Generate)
	g.GET("/:id", h.Get)
}

// Filter handles POST /debtcharges/filter.
func (h *DebtChargeHandler) Filter(c *gin.Context) {
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

// Get handles GET /debtcharges/:id.
func (h *DebtChargeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	charge, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, charge)
}

// Upload handles POST /debtcharges/upload. The stored charges are replaced
// by the valid rows of the file.
func (h *DebtChargeHandler) Upload(c *gin.Context) {
	upload, ok := readUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}
	result, err := h.service.Import(c.Request.Context(), actor(c), upload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondImport(c, result)
}

// Generate handles GET /debtcharges/generate/:id.
func (h *DebtChargeHandler) Generate(c *gin.Context) {
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
