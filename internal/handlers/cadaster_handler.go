package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/debtdesk/api/internal/services"
)

// CadasterHandler handles land parcel requests.
type CadasterHandler struct {
	service        services.CadasterService
	maxUploadBytes int64
}

// NewCadasterHandler creates a new CadasterHandler instance.
func NewCadasterHandler(service services.CadasterService, maxUploadBytes int64) *CadasterHandler {
	return &CadasterHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// CadasterRequest is the body of create and update.
type CadasterRequest struct {
	PlotArea        decimal.Decimal `json:"plot_area"`
	LandTax         decimal.Decimal `json:"land_tax"`
	PayerName       string          `json:"payer_name" binding:"required"`
	PayerAddress    string          `json:"payer_address"`
	IBAN            string          `json:"iban" binding:"omitempty,iban_ua"`
	TaxAddress      string          `json:"tax_address"`
	CadastralNumber string          `json:"cadastral_number"`
}

func (r CadasterRequest) input() services.CadasterInput {
	return services.CadasterInput{
		PlotArea:        r.PlotArea,
		LandTax:         r.LandTax,
		PayerName:       r.PayerName,
		PayerAddress:    r.PayerAddress,
		IBAN:            r.IBAN,
		TaxAddress:      r.TaxAddress,
		CadastralNumber: r.CadastralNumber,
	}
}

// Register mounts the cadaster routes on rg.
func (h *CadasterHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/cadaster")
	g.POST("/filter", h.Filter)
	g.POST("/upload", h.Upload)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// Filter handles POST /cadaster/filter.
func (h *CadasterHandler) Filter(c *gin.Context) {
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

// Get handles GET /cadaster/:id.
func (h *CadasterHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Create handles POST /cadaster.
func (h *CadasterHandler) Create(c *gin.Context) {
	var req CadasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	id, err := h.service.Create(c.Request.Context(), actor(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Запис кадастру створено", ID: id})
}

// Update handles PUT /cadaster/:id.
func (h *CadasterHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CadasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.service.Update(c.Request.Context(), actor(c), id, req.input()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Запис кадастру оновлено", ID: id})
}

// Delete handles DELETE /cadaster/:id.
func (h *CadasterHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Запис кадастру видалено", ID: id})
}

// Upload handles POST /cadaster/upload.
func (h *CadasterHandler) Upload(c *gin.Context) {
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
