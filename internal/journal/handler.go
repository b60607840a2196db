package journal

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/glebradiotec/publisher-site/internal/issue"
	"github.com/glebradiotec/publisher-site/internal/slug"
	"github.com/glebradiotec/publisher-site/pkg/models"
)

type Handler struct {
	Repo   *Repo
	Issues *issue.Repo
}

func NewHandler(repo *Repo, issues *issue.Repo) *Handler {
	return &Handler{Repo: repo, Issues: issues}
}

// RegisterPublicRoutes serves the reader-facing journal pages. Inactive
// journals and unpublished issues never appear here.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/journals", h.listPublic)
	rg.GET("/journals/:slug", h.getPublic)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/journals")
	g.GET("", h.listAdmin)
	g.POST("", h.create)
	g.GET("/:id", h.getAdmin)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/toggle-active", h.toggleActive)
}

func (h *Handler) listPublic(c *gin.Context) {
	journals, err := h.Repo.List(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": journals})
}

func (h *Handler) getPublic(c *gin.Context) {
	j, err := h.Repo.GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal not found"})
		return
	}

	issues, err := h.Issues.ListByJournal(c.Request.Context(), j.ID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list issues failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"journal": j, "issues": issues})
}

func (h *Handler) listAdmin(c *gin.Context) {
	journals, err := h.Repo.List(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": journals})
}

func (h *Handler) getAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	j, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal not found"})
		return
	}
	c.JSON(http.StatusOK, j)
}

type journalReq struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	ISSN           string `json:"issn"`
	EISSN          string `json:"eissn"`
	Description    string `json:"description"`
	AimsScope      string `json:"aims_scope"`
	CoverImage     string `json:"cover_image"`
	EditorialBoard string `json:"editorial_board"`
	SubmissionInfo string `json:"submission_info"`
	IsActive       *bool  `json:"is_active"`
	DisplayOrder   int    `json:"display_order"`
}

func (h *Handler) create(c *gin.Context) {
	var req journalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	s := req.Slug
	if s == "" {
		s = slug.Make(req.Name)
	}
	s, err := h.freeSlug(c, slug.Normalize(s), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "slug check failed"})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	j := models.Journal{
		Name:           req.Name,
		Slug:           s,
		ISSN:           req.ISSN,
		EISSN:          req.EISSN,
		Description:    req.Description,
		AimsScope:      req.AimsScope,
		CoverImage:     req.CoverImage,
		EditorialBoard: req.EditorialBoard,
		SubmissionInfo: req.SubmissionInfo,
		IsActive:       active,
		DisplayOrder:   req.DisplayOrder,
	}
	if err := h.Repo.Create(c.Request.Context(), &j); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, j)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	existing, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal not found"})
		return
	}

	var req journalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	s := slug.Normalize(req.Slug)
	if s == "" {
		s = existing.Slug
	}
	if s != existing.Slug {
		s, err = h.freeSlug(c, s, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "slug check failed"})
			return
		}
	}

	existing.Name = req.Name
	existing.Slug = s
	existing.ISSN = req.ISSN
	existing.EISSN = req.EISSN
	existing.Description = req.Description
	existing.AimsScope = req.AimsScope
	existing.CoverImage = req.CoverImage
	existing.EditorialBoard = req.EditorialBoard
	existing.SubmissionInfo = req.SubmissionInfo
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.DisplayOrder = req.DisplayOrder

	if err := h.Repo.Update(c.Request.Context(), existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, existing)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	// deleting a journal cascades through issues and articles, so refuse
	// until the issues are removed explicitly
	issues, err := h.Issues.CountByJournal(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if issues > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "journal has issues, delete them first"})
		return
	}

	deleted, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) toggleActive(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	active, err := h.Repo.ToggleActive(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_active": active})
}

// freeSlug returns base or the first base-N not taken by another journal.
func (h *Handler) freeSlug(c *gin.Context, base string, excludeID int64) (string, error) {
	taken, err := h.Repo.SlugExists(c.Request.Context(), base, excludeID)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	for n := 2; ; n++ {
		cand := fmt.Sprintf("%s-%d", base, n)
		taken, err := h.Repo.SlugExists(c.Request.Context(), cand, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return cand, nil
		}
	}
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
