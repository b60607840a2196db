package backup

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Manager *Manager
}

func NewHandler(m *Manager) *Handler {
	return &Handler{Manager: m}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/backups")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:name", h.download)
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.Manager.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *Handler) create(c *gin.Context) {
	name, err := h.Manager.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backup failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": name})
}

func (h *Handler) download(c *gin.Context) {
	path, ok := h.Manager.Path(c.Param("name"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid backup name"})
		return
	}
	c.FileAttachment(path, c.Param("name"))
}
