package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/glebradiotec/publisher-site/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const journalColumns = `id, name, slug, issn, eissn, description, aims_scope, cover_image,
	editorial_board, submission_info, is_active, display_order, created_at`

func scanJournal(scan func(...any) error) (*models.Journal, error) {
	var (
		j          models.Journal
		issn       sql.NullString
		eissn      sql.NullString
		desc       sql.NullString
		aims       sql.NullString
		cover      sql.NullString
		board      sql.NullString
		submission sql.NullString
	)
	if err := scan(&j.ID, &j.Name, &j.Slug, &issn, &eissn, &desc, &aims, &cover,
		&board, &submission, &j.IsActive, &j.DisplayOrder, &j.CreatedAt); err != nil {
		return nil, err
	}
	j.ISSN = issn.String
	j.EISSN = eissn.String
	j.Description = desc.String
	j.AimsScope = aims.String
	j.CoverImage = cover.String
	j.EditorialBoard = board.String
	j.SubmissionInfo = submission.String
	return &j, nil
}

// List returns journals in display order. With onlyActive it also fills
// the published-issue and published-article counts shown on the public
// site.
func (r *Repo) List(ctx context.Context, onlyActive bool) ([]models.Journal, error) {
	q := `SELECT ` + journalColumns + ` FROM journals`
	if onlyActive {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY display_order, name`

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	defer rows.Close()

	var out []models.Journal
	for rows.Next() {
		j, err := scanJournal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		out = append(out, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	if onlyActive {
		for i := range out {
			if err := r.fillCounts(ctx, &out[i]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (r *Repo) fillCounts(ctx context.Context, j *models.Journal) error {
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM issues WHERE journal_id = ? AND is_published = 1),
			(SELECT COUNT(*) FROM articles a JOIN issues i ON i.id = a.issue_id
			 WHERE i.journal_id = ? AND a.is_published = 1)
	`, j.ID, j.ID).Scan(&j.PublishedIssues, &j.ArticleCount)
	if err != nil {
		return fmt.Errorf("journal counts: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Journal, error) {
	j, err := scanJournal(r.DB.QueryRowContext(ctx, `
		SELECT `+journalColumns+` FROM journals WHERE id = ?
	`, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal: %w", err)
	}
	return j, nil
}

func (r *Repo) GetBySlug(ctx context.Context, slug string, onlyActive bool) (*models.Journal, error) {
	q := `SELECT ` + journalColumns + ` FROM journals WHERE slug = ?`
	if onlyActive {
		q += ` AND is_active = 1`
	}
	j, err := scanJournal(r.DB.QueryRowContext(ctx, q, slug).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal by slug: %w", err)
	}
	return j, nil
}

func (r *Repo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM journals WHERE slug = ? AND id != ?
	`, slug, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM journals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count journals: %w", err)
	}
	return n, nil
}

func (r *Repo) Create(ctx context.Context, j *models.Journal) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO journals (name, slug, issn, eissn, description, aims_scope, cover_image,
			editorial_board, submission_info, is_active, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, j.Name, j.Slug, nullable(j.ISSN), nullable(j.EISSN), nullable(j.Description),
		nullable(j.AimsScope), nullable(j.CoverImage), nullable(j.EditorialBoard),
		nullable(j.SubmissionInfo), j.IsActive, j.DisplayOrder)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	j.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("journal insert id: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, j *models.Journal) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE journals
		SET name = ?, slug = ?, issn = ?, eissn = ?, description = ?, aims_scope = ?,
			cover_image = ?, editorial_board = ?, submission_info = ?, is_active = ?, display_order = ?
		WHERE id = ?
	`, j.Name, j.Slug, nullable(j.ISSN), nullable(j.EISSN), nullable(j.Description),
		nullable(j.AimsScope), nullable(j.CoverImage), nullable(j.EditorialBoard),
		nullable(j.SubmissionInfo), j.IsActive, j.DisplayOrder, j.ID)
	if err != nil {
		return fmt.Errorf("update journal: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("update journal: not found")
	}
	return nil
}

// Delete removes a journal. Cascades remove issues, articles and authors,
// so callers guard against accidental wipes (the admin API refuses while
// issues exist).
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM journals WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete journal: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) ToggleActive(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE journals SET is_active = NOT is_active WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("toggle journal: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, fmt.Errorf("toggle journal: not found")
	}
	var active bool
	if err := r.DB.QueryRowContext(ctx, `SELECT is_active FROM journals WHERE id = ?`, id).Scan(&active); err != nil {
		return false, fmt.Errorf("read toggled journal: %w", err)
	}
	return active, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
