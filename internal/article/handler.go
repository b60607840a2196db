package article

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/glebradiotec/publisher-site/internal/authorname"
	"github.com/glebradiotec/publisher-site/internal/issue"
	"github.com/glebradiotec/publisher-site/internal/journal"
	"github.com/glebradiotec/publisher-site/pkg/models"
)

type Handler struct {
	Repo     *Repo
	Issues   *issue.Repo
	Journals *journal.Repo
}

func NewHandler(repo *Repo, issues *issue.Repo, journals *journal.Repo) *Handler {
	return &Handler{Repo: repo, Issues: issues, Journals: journals}
}

// RegisterPublicRoutes serves the article landing page and full-text
// search. Unpublished articles and articles in unpublished issues are not
// visible here.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/articles/:id", h.getPublic)
	rg.GET("/search", h.search)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/articles")
	g.GET("", h.listAdmin)
	g.POST("", h.create)
	g.GET("/:id", h.getAdmin)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/toggle-published", h.togglePublished)
}

func (h *Handler) getPublic(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if a == nil || !a.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	is, err := h.Issues.GetByID(c.Request.Context(), a.IssueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if is == nil || !is.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	j, err := h.Journals.GetByID(c.Request.Context(), is.JournalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": a,
		"by_line": byLine(a),
		"pages":   a.PagesString(),
		"issue":   is,
		"journal": j,
	})
}

// byLine builds the display author string, dropping legacy noise rows.
func byLine(a *models.Article) string {
	names := make([]string, len(a.Authors))
	for i, au := range a.Authors {
		names[i] = au.FullName
	}
	return authorname.DisplayList(names)
}

func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len([]rune(q)) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query too short"})
		return
	}

	articles, err := h.Repo.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	results := make([]gin.H, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		results = append(results, gin.H{
			"id":      a.ID,
			"title":   a.Title,
			"authors": byLine(a),
			"pages":   a.PagesString(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "items": results})
}

func (h *Handler) listAdmin(c *gin.Context) {
	issueID, err := strconv.ParseInt(c.Query("issue_id"), 10, 64)
	if err != nil || issueID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issue_id required"})
		return
	}
	articles, err := h.Repo.ListByIssue(c.Request.Context(), issueID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": articles})
}

func (h *Handler) getAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

type authorReq struct {
	FullName      string `json:"full_name"`
	FullNameEn    string `json:"full_name_en"`
	Affiliation   string `json:"affiliation"`
	AffiliationEn string `json:"affiliation_en"`
	Email         string `json:"email"`
	ORCID         string `json:"orcid"`
}

type articleReq struct {
	IssueID      int64       `json:"issue_id"`
	Title        string      `json:"title"`
	TitleEn      string      `json:"title_en"`
	Abstract     string      `json:"abstract"`
	AbstractEn   string      `json:"abstract_en"`
	Keywords     string      `json:"keywords"`
	KeywordsEn   string      `json:"keywords_en"`
	DOI          string      `json:"doi"`
	PagesFrom    *int        `json:"pages_from"`
	PagesTo      *int        `json:"pages_to"`
	Language     string      `json:"language"`
	PDFFile      string      `json:"pdf_file"`
	DisplayOrder *int        `json:"display_order"`
	IsPublished  *bool       `json:"is_published"`
	Authors      []authorReq `json:"authors"`
}

func (req *articleReq) authors() []models.Author {
	out := make([]models.Author, 0, len(req.Authors))
	for _, au := range req.Authors {
		name := strings.TrimSpace(au.FullName)
		if name == "" {
			continue
		}
		out = append(out, models.Author{
			FullName:      name,
			FullNameEn:    strings.TrimSpace(au.FullNameEn),
			Affiliation:   strings.TrimSpace(au.Affiliation),
			AffiliationEn: strings.TrimSpace(au.AffiliationEn),
			Email:         strings.TrimSpace(au.Email),
			ORCID:         strings.TrimSpace(au.ORCID),
		})
	}
	return out
}

func (h *Handler) create(c *gin.Context) {
	var req articleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.IssueID <= 0 || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issue_id and title required"})
		return
	}

	is, err := h.Issues.GetByID(c.Request.Context(), req.IssueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if is == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issue not found"})
		return
	}

	order := 0
	if req.DisplayOrder != nil {
		order = *req.DisplayOrder
	} else {
		max, err := h.Repo.MaxOrder(c.Request.Context(), req.IssueID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		order = max + 1
	}

	a := models.Article{
		IssueID:      req.IssueID,
		Title:        req.Title,
		TitleEn:      req.TitleEn,
		Abstract:     req.Abstract,
		AbstractEn:   req.AbstractEn,
		Keywords:     req.Keywords,
		KeywordsEn:   req.KeywordsEn,
		DOI:          req.DOI,
		PagesFrom:    req.PagesFrom,
		PagesTo:      req.PagesTo,
		Language:     req.Language,
		PDFFile:      req.PDFFile,
		DisplayOrder: order,
		Authors:      req.authors(),
	}
	if req.IsPublished != nil {
		a.IsPublished = *req.IsPublished
	}

	if err := h.Repo.Create(c.Request.Context(), &a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	created, err := h.Repo.GetByID(c.Request.Context(), a.ID)
	if err != nil || created == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusCreated, created)
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
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	var req articleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}

	if req.IssueID > 0 && req.IssueID != existing.IssueID {
		is, err := h.Issues.GetByID(c.Request.Context(), req.IssueID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		if is == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "issue not found"})
			return
		}
		existing.IssueID = req.IssueID
	}

	existing.Title = req.Title
	existing.TitleEn = req.TitleEn
	existing.Abstract = req.Abstract
	existing.AbstractEn = req.AbstractEn
	existing.Keywords = req.Keywords
	existing.KeywordsEn = req.KeywordsEn
	existing.DOI = req.DOI
	existing.PagesFrom = req.PagesFrom
	existing.PagesTo = req.PagesTo
	existing.Language = req.Language
	existing.PDFFile = req.PDFFile
	if req.DisplayOrder != nil {
		existing.DisplayOrder = *req.DisplayOrder
	}
	if req.IsPublished != nil {
		existing.IsPublished = *req.IsPublished
	}
	existing.Authors = req.authors()

	if err := h.Repo.Update(c.Request.Context(), existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	updated, err := h.Repo.GetByID(c.Request.Context(), existing.ID)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
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
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
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
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
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
