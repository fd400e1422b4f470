package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/debtdesk/api/internal/services"
)

// LogHandler handles audit log, security event and blacklist requests.
type LogHandler struct {
	service services.LogService
}

// NewLogHandler creates a new LogHandler instance.
func NewLogHandler(service services.LogService) *LogHandler {
	return &LogHandler{service: service}
}

// BlacklistRequest is the body of POST /log/blacklist.
type BlacklistRequest struct {
	IP      string `json:"ip" binding:"required,ip"`
	Details string `json:"details" binding:"max=500"`
}

// Register mounts the log routes on rg.
func (h *LogHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/log")
	g.POST("", h.List)
	g.POST("/detailed", h.Detailed)
	g.POST("/secure", h.Secure)
	g.POST("/blacklist/all", h.Blacklist)
	g.POST("/blacklist", h.AddBlacklist)
	g.DELETE("/blacklist/:id", h.DeleteBlacklist)
	g.GET("/:id", h.Get)
}

// List handles POST /log.
func (h *LogHandler) List(c *gin.Context) {
	f, ok := bindCursorFilter(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /log/:id.
func (h *LogHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Detailed handles POST /log/detailed.
func (h *LogHandler) Detailed(c *gin.Context) {
	f, ok := bindListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.Detailed(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Secure handles POST /log/secure.
func (h *LogHandler) Secure(c *gin.Context) {
	f, ok := bindCursorFilter(c)
	if !ok {
		return
	}
	page, err := h.service.Secure(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Blacklist handles POST /log/blacklist/all.
func (h *LogHandler) Blacklist(c *gin.Context) {
	f, ok := bindCursorFilter(c)
	if !ok {
		return
	}
	page, err := h.service.Blacklist(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AddBlacklist handles POST /log/blacklist.
func (h *LogHandler) AddBlacklist(c *gin.Context) {
	var req BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	id, err := h.service.AddBlacklist(c.Request.Context(), actor(c), c.ClientIP(), req.IP, req.Details)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "IP-адресу додано до чорного списку", ID: id})
}

// DeleteBlacklist handles DELETE /log/blacklist/:id.
func (h *LogHandler) DeleteBlacklist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBlacklist(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "IP-адресу видалено з чорного списку", ID: id})
}
