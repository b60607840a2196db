package article

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/glebradiotec/publisher-site/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const articleColumns = `id, issue_id, title, title_en, abstract, abstract_en,
	keywords, keywords_en, doi, pages_from, pages_to, language, pdf_file,
	display_order, is_published, created_at`

func scanArticle(scan func(...any) error) (*models.Article, error) {
	var (
		a         models.Article
		titleEn   sql.NullString
		abstract  sql.NullString
		abstrEn   sql.NullString
		keywords  sql.NullString
		kwEn      sql.NullString
		doi       sql.NullString
		pagesFrom sql.NullInt64
		pagesTo   sql.NullInt64
		lang      sql.NullString
		pdf       sql.NullString
	)
	if err := scan(&a.ID, &a.IssueID, &a.Title, &titleEn, &abstract, &abstrEn,
		&keywords, &kwEn, &doi, &pagesFrom, &pagesTo, &lang, &pdf,
		&a.DisplayOrder, &a.IsPublished, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.TitleEn = titleEn.String
	a.Abstract = abstract.String
	a.AbstractEn = abstrEn.String
	a.Keywords = keywords.String
	a.KeywordsEn = kwEn.String
	a.DOI = doi.String
	if pagesFrom.Valid {
		v := int(pagesFrom.Int64)
		a.PagesFrom = &v
	}
	if pagesTo.Valid {
		v := int(pagesTo.Int64)
		a.PagesTo = &v
	}
	a.Language = lang.String
	a.PDFFile = pdf.String
	return &a, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	a, err := scanArticle(r.DB.QueryRowContext(ctx, `
		SELECT `+articleColumns+` FROM articles WHERE id = ?
	`, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	if err := r.fillAuthors(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByIssue returns an issue's articles in display order, authors
// attached.
func (r *Repo) ListByIssue(ctx context.Context, issueID int64, publishedOnly bool) ([]models.Article, error) {
	q := `SELECT ` + articleColumns + ` FROM articles WHERE issue_id = ?`
	if publishedOnly {
		q += ` AND is_published = 1`
	}
	q += ` ORDER BY display_order, id`

	rows, err := r.DB.QueryContext(ctx, q, issueID)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	for i := range out {
		if err := r.fillAuthors(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) fillAuthors(ctx context.Context, a *models.Article) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, article_id, full_name, full_name_en, affiliation, affiliation_en,
			email, orcid, display_order
		FROM article_authors
		WHERE article_id = ?
		ORDER BY display_order, id
	`, a.ID)
	if err != nil {
		return fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	a.Authors = nil
	for rows.Next() {
		var (
			au     models.Author
			nameEn sql.NullString
			aff    sql.NullString
			affEn  sql.NullString
			email  sql.NullString
			orcid  sql.NullString
		)
		if err := rows.Scan(&au.ID, &au.ArticleID, &au.FullName, &nameEn,
			&aff, &affEn, &email, &orcid, &au.DisplayOrder); err != nil {
			return fmt.Errorf("scan author: %w", err)
		}
		au.FullNameEn = nameEn.String
		au.Affiliation = aff.String
		au.AffiliationEn = affEn.String
		au.Email = email.String
		au.ORCID = orcid.String
		a.Authors = append(a.Authors, au)
	}
	return rows.Err()
}

const searchLimit = 50

// Search matches published articles by title, abstract or keywords, in
// either language, falling back to author names. Queries shorter than two
// characters return nothing.
func (r *Repo) Search(ctx context.Context, query string) ([]models.Article, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, nil
	}
	like := "%" + query + "%"

	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT `+prefixed("a", articleColumns)+`
		FROM articles a
		JOIN issues i ON i.id = a.issue_id
		LEFT JOIN article_authors au ON au.article_id = a.id
		WHERE a.is_published = 1 AND i.is_published = 1
		  AND (a.title LIKE ? OR a.title_en LIKE ?
			OR a.abstract LIKE ? OR a.abstract_en LIKE ?
			OR a.keywords LIKE ? OR a.keywords_en LIKE ?
			OR au.full_name LIKE ? OR au.full_name_en LIKE ?)
		ORDER BY a.id DESC
		LIMIT ?
	`, like, like, like, like, like, like, like, like, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	for i := range out {
		if err := r.fillAuthors(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// prefixed qualifies each column of a comma-separated list with an alias.
func prefixed(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// Create inserts the article with its author list in one transaction.
func (r *Repo) Create(ctx context.Context, a *models.Article) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create article: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO articles (issue_id, title, title_en, abstract, abstract_en,
			keywords, keywords_en, doi, pages_from, pages_to, language, pdf_file,
			display_order, is_published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.IssueID, a.Title, nullable(a.TitleEn), nullable(a.Abstract), nullable(a.AbstractEn),
		nullable(a.Keywords), nullable(a.KeywordsEn), nullable(a.DOI),
		nullableInt(a.PagesFrom), nullableInt(a.PagesTo), language(a.Language),
		nullable(a.PDFFile), a.DisplayOrder, a.IsPublished)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("article insert id: %w", err)
	}

	if err := replaceAuthors(ctx, tx, a.ID, a.Authors); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the article row and replaces the author list wholesale,
// keeping the order the caller sent.
func (r *Repo) Update(ctx context.Context, a *models.Article) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update article: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE articles
		SET issue_id = ?, title = ?, title_en = ?, abstract = ?, abstract_en = ?,
			keywords = ?, keywords_en = ?, doi = ?, pages_from = ?, pages_to = ?,
			language = ?, pdf_file = ?, display_order = ?, is_published = ?
		WHERE id = ?
	`, a.IssueID, a.Title, nullable(a.TitleEn), nullable(a.Abstract), nullable(a.AbstractEn),
		nullable(a.Keywords), nullable(a.KeywordsEn), nullable(a.DOI),
		nullableInt(a.PagesFrom), nullableInt(a.PagesTo), language(a.Language),
		nullable(a.PDFFile), a.DisplayOrder, a.IsPublished, a.ID)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("update article: not found")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_authors WHERE article_id = ?`, a.ID); err != nil {
		return fmt.Errorf("clear authors: %w", err)
	}
	if err := replaceAuthors(ctx, tx, a.ID, a.Authors); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceAuthors(ctx context.Context, tx *sql.Tx, articleID int64, authors []models.Author) error {
	if len(authors) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO article_authors (article_id, full_name, full_name_en,
			affiliation, affiliation_en, email, orcid, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare author insert: %w", err)
	}
	defer stmt.Close()

	for i, au := range authors {
		_, err := stmt.ExecContext(ctx, articleID, au.FullName, nullable(au.FullNameEn),
			nullable(au.Affiliation), nullable(au.AffiliationEn),
			nullable(au.Email), nullable(au.ORCID), i)
		if err != nil {
			return fmt.Errorf("insert author: %w", err)
		}
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete article: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) TogglePublished(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE articles SET is_published = NOT is_published WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("toggle article: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, fmt.Errorf("toggle article: not found")
	}
	var published bool
	if err := r.DB.QueryRowContext(ctx, `SELECT is_published FROM articles WHERE id = ?`, id).Scan(&published); err != nil {
		return false, fmt.Errorf("read toggled article: %w", err)
	}
	return published, nil
}

// MaxOrder returns the highest display_order in an issue, -1 when empty.
func (r *Repo) MaxOrder(ctx context.Context, issueID int64) (int, error) {
	var max sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `
		SELECT MAX(display_order) FROM articles WHERE issue_id = ?
	`, issueID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max order: %w", err)
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

// Stats describes the article corpus for the admin dashboard.
type Stats struct {
	Total      int `json:"total"`
	WithPDF    int `json:"with_pdf"`
	WithDOI    int `json:"with_doi"`
	NoAbstract int `json:"no_abstract"`
}

func (r *Repo) CollectStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN pdf_file IS NOT NULL AND pdf_file != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN doi IS NOT NULL AND doi != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN abstract IS NULL OR abstract = '' THEN 1 ELSE 0 END), 0)
		FROM articles
	`).Scan(&s.Total, &s.WithPDF, &s.WithDOI, &s.NoAbstract)
	if err != nil {
		return s, fmt.Errorf("article stats: %w", err)
	}
	return s, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func language(s string) string {
	if s == "" {
		return "ru"
	}
	return s
}
