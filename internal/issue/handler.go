package issue

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/glebradiotec/publisher-site/internal/authorname"
	"github.com/glebradiotec/publisher-site/pkg/models"
)

// JournalResolver is the slice of the journal repository the issue
// handler needs.
type JournalResolver interface {
	GetBySlug(ctx context.Context, slug string, onlyActive bool) (*models.Journal, error)
	GetByID(ctx context.Context, id int64) (*models.Journal, error)
}

// ArticleLister loads an issue's table of contents.
type ArticleLister interface {
	ListByIssue(ctx context.Context, issueID int64, publishedOnly bool) ([]models.Article, error)
}

type Handler struct {
	Repo     *Repo
	Journals JournalResolver
	Articles ArticleLister
}

func NewHandler(repo *Repo, journals JournalResolver, articles ArticleLister) *Handler {
	return &Handler{Repo: repo, Journals: journals, Articles: articles}
}

// RegisterPublicRoutes serves the reader-facing issue page with its table
// of contents.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/journals/:slug/issues/:id", h.getPublic)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/issues")
	g.GET("", h.listAdmin)
	g.POST("", h.create)
	g.GET("/:id", h.getAdmin)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/toggle-published", h.togglePublished)
}

func (h *Handler) getPublic(c *gin.Context) {
	j, err := h.Journals.GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal not found"})
		return
	}

	id, ok := paramID(c)
	if !ok {
		return
	}
	is, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if is == nil || is.JournalID != j.ID || !is.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}

	articles, err := h.Articles.ListByIssue(c.Request.Context(), is.ID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list articles failed"})
		return
	}

	toc := make([]gin.H, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		names := make([]string, len(a.Authors))
		for k, au := range a.Authors {
			names[k] = au.FullName
		}
		toc = append(toc, gin.H{
			"id":      a.ID,
			"title":   a.Title,
			"authors": authorname.DisplayList(names),
			"pages":   a.PagesString(),
			"doi":     a.DOI,
		})
	}

	c.JSON(http.StatusOK, gin.H{"journal": j, "issue": is, "articles": toc})
}

func (h *Handler) listAdmin(c *gin.Context) {
	journalID, err := strconv.ParseInt(c.Query("journal_id"), 10, 64)
	if err != nil || journalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "journal_id required"})
		return
	}
	issues, err := h.Repo.ListByJournal(c.Request.Context(), journalID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": issues})
}

func (h *Handler) getAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	is, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if is == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}
	c.JSON(http.StatusOK, is)
}

type issueReq struct {
	JournalID       int64  `json:"journal_id"`
	Volume          *int   `json:"volume"`
	Number          int    `json:"number"`
	Year            int    `json:"year"`
	PublicationDate string `json:"publication_date"`
	CoverImage      string `json:"cover_image"`
	Description     string `json:"description"`
	IsPublished     *bool  `json:"is_published"`
}

func (h *Handler) create(c *gin.Context) {
	var req issueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.JournalID <= 0 || req.Number <= 0 || req.Year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "journal_id, number and year required"})
		return
	}

	j, err := h.Journals.GetByID(c.Request.Context(), req.JournalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if j == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "journal not found"})
		return
	}

	is := models.Issue{
		JournalID:       req.JournalID,
		Volume:          req.Volume,
		Number:          req.Number,
		Year:            req.Year,
		PublicationDate: req.PublicationDate,
		CoverImage:      req.CoverImage,
		Description:     req.Description,
	}
	if req.IsPublished != nil {
		is.IsPublished = *req.IsPublished
	}
	if err := h.Repo.Create(c.Request.Context(), &is); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, is)
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
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}

	var req issueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Number <= 0 || req.Year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number and year required"})
		return
	}

	existing.Volume = req.Volume
	existing.Number = req.Number
	existing.Year = req.Year
	existing.PublicationDate = req.PublicationDate
	existing.CoverImage = req.CoverImage
	existing.Description = req.Description
	if req.IsPublished != nil {
		existing.IsPublished = *req.IsPublished
	}

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
	deleted, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) togglePublished(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	published, err := h.Repo.TogglePublished(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_published": published})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
