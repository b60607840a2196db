package issue

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

const issueColumns = `id, journal_id, volume, number, year, publication_date,
	cover_image, description, is_published, created_at`

func scanIssue(scan func(...any) error) (*models.Issue, error) {
	var (
		is      models.Issue
		volume  sql.NullInt64
		pubDate sql.NullString
		cover   sql.NullString
		desc    sql.NullString
	)
	if err := scan(&is.ID, &is.JournalID, &volume, &is.Number, &is.Year,
		&pubDate, &cover, &desc, &is.IsPublished, &is.CreatedAt); err != nil {
		return nil, err
	}
	if volume.Valid {
		v := int(volume.Int64)
		is.Volume = &v
	}
	is.PublicationDate = pubDate.String
	is.CoverImage = cover.String
	is.Description = desc.String
	return &is, nil
}

// ListByJournal returns a journal's issues newest first, with per-issue
// published-article counts.
func (r *Repo) ListByJournal(ctx context.Context, journalID int64, publishedOnly bool) ([]models.Issue, error) {
	q := `SELECT ` + issueColumns + ` FROM issues WHERE journal_id = ?`
	if publishedOnly {
		q += ` AND is_published = 1`
	}
	q += ` ORDER BY year DESC, number DESC`

	rows, err := r.DB.QueryContext(ctx, q, journalID)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var out []models.Issue
	for rows.Next() {
		is, err := scanIssue(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		out = append(out, *is)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	for i := range out {
		cond := ""
		if publishedOnly {
			cond = ` AND is_published = 1`
		}
		err := r.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM articles WHERE issue_id = ?`+cond,
			out[i].ID).Scan(&out[i].ArticleCount)
		if err != nil {
			return nil, fmt.Errorf("issue article count: %w", err)
		}
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Issue, error) {
	is, err := scanIssue(r.DB.QueryRowContext(ctx, `
		SELECT `+issueColumns+` FROM issues WHERE id = ?
	`, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return is, nil
}

func (r *Repo) CountByJournal(ctx context.Context, journalID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM issues WHERE journal_id = ?
	`, journalID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count issues: %w", err)
	}
	return n, nil
}

func (r *Repo) Create(ctx context.Context, is *models.Issue) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO issues (journal_id, volume, number, year, publication_date,
			cover_image, description, is_published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, is.JournalID, nullableInt(is.Volume), is.Number, is.Year,
		nullable(is.PublicationDate), nullable(is.CoverImage), nullable(is.Description),
		is.IsPublished)
	if err != nil {
		return fmt.Errorf("create issue: %w", err)
	}
	is.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("issue insert id: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, is *models.Issue) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE issues
		SET volume = ?, number = ?, year = ?, publication_date = ?,
			cover_image = ?, description = ?, is_published = ?
		WHERE id = ?
	`, nullableInt(is.Volume), is.Number, is.Year, nullable(is.PublicationDate),
		nullable(is.CoverImage), nullable(is.Description), is.IsPublished, is.ID)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("update issue: not found")
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete issue: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) TogglePublished(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE issues SET is_published = NOT is_published WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("toggle issue: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, fmt.Errorf("toggle issue: not found")
	}
	var published bool
	if err := r.DB.QueryRowContext(ctx, `SELECT is_published FROM issues WHERE id = ?`, id).Scan(&published); err != nil {
		return false, fmt.Errorf("read toggled issue: %w", err)
	}
	return published, nil
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
