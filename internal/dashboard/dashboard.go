// Package dashboard aggregates content counters and data-quality
// warnings for the admin overview page.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glebradiotec/publisher-site/internal/article"
	"github.com/glebradiotec/publisher-site/pkg/utils"
)

type Handler struct {
	DB       *sql.DB
	Articles *article.Repo
}

func NewHandler(db *sql.DB, articles *article.Repo) *Handler {
	return &Handler{DB: db, Articles: articles}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.get)
}

type stats struct {
	Journals          int           `json:"journals"`
	Issues            int           `json:"issues"`
	UnpublishedIssues int           `json:"unpublished_issues"`
	Articles          article.Stats `json:"articles"`
	Users             int           `json:"users"`
	Warnings          []string      `json:"warnings"`
}

func (h *Handler) get(c *gin.Context) {
	s, err := h.collect(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) collect(ctx context.Context) (stats, error) {
	var s stats

	err := h.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM journals),
			(SELECT COUNT(*) FROM issues),
			(SELECT COUNT(*) FROM issues WHERE is_published = 0),
			(SELECT COUNT(*) FROM users)
	`).Scan(&s.Journals, &s.Issues, &s.UnpublishedIssues, &s.Users)
	if err != nil {
		return s, fmt.Errorf("dashboard counts: %w", err)
	}

	s.Articles, err = h.Articles.CollectStats(ctx)
	if err != nil {
		return s, err
	}

	s.Warnings = warnings(s)
	return s, nil
}

// warnings lists data-quality problems worth an editor's attention.
func warnings(s stats) []string {
	out := []string{}

	if n := s.Articles.Total - s.Articles.WithPDF; n > 0 {
		out = append(out, fmt.Sprintf("%d %s без PDF",
			n, utils.PluralizeRu(n, "статья", "статьи", "статей")))
	}
	if n := s.Articles.NoAbstract; n > 0 {
		out = append(out, fmt.Sprintf("%d %s без аннотации",
			n, utils.PluralizeRu(n, "статья", "статьи", "статей")))
	}
	if n := s.UnpublishedIssues; n > 0 {
		out = append(out, fmt.Sprintf("%d %s не опубликовано",
			n, utils.PluralizeRu(n, "выпуск", "выпуска", "выпусков")))
	}
	return out
}
