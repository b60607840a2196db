// Package importer performs the one-time migration of the old site's
// MySQL dump into the normalized journal/issue/article/author schema.
// It is a destructive full reload: previously imported content is cleared
// before the dump is re-read.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/glebradiotec/publisher-site/internal/slug"
)

// Default credential for the safety-net admin account created when the
// users table is empty. A convenience for first login, not a security
// feature: change it immediately.
const (
	DefaultAdminUser     = "admin"
	DefaultAdminPassword = "admin2026"
)

type Importer struct {
	DB       *sql.DB
	DumpPath string
	Out      io.Writer
}

type Summary struct {
	Encoding string
	Journals int
	Issues   int
	Articles int
	Authors  int
	Skipped  int
}

func New(db *sql.DB, dumpPath string, out io.Writer) *Importer {
	return &Importer{DB: db, DumpPath: dumpPath, Out: out}
}

func (imp *Importer) printf(format string, args ...any) {
	if imp.Out != nil {
		fmt.Fprintf(imp.Out, format, args...)
	}
}

// Run executes the whole migration in one transaction. Unreadable input is
// the only fatal condition; bad rows are skipped and counted.
func (imp *Importer) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	enc, err := detectEncoding(imp.DumpPath)
	if err != nil {
		return sum, err
	}
	sum.Encoding = enc.name
	imp.printf("Encoding: %s\n", enc.name)

	journalRows, err := extractTable(imp.DumpPath, enc, "journals")
	if err != nil {
		return sum, err
	}
	imp.printf("Found %d journal rows\n", len(journalRows))

	issueRows, err := extractTable(imp.DumpPath, enc, "nomera")
	if err != nil {
		return sum, err
	}
	imp.printf("Found %d issue rows\n", len(issueRows))

	sectionRows, err := extractTable(imp.DumpPath, enc, "razdel_numbers")
	if err != nil {
		return sum, err
	}
	imp.printf("Found %d section rows\n", len(sectionRows))

	articleRows, err := extractTable(imp.DumpPath, enc, "articles")
	if err != nil {
		return sum, err
	}
	imp.printf("Found %d article rows\n", len(articleRows))

	// Sections only route articles to issues. First write wins on
	// duplicate section ids.
	sectionToIssue := make(map[int]int, len(sectionRows))
	for _, r := range sectionRows {
		s, ok := sectionFromRow(r)
		if !ok {
			continue
		}
		if _, seen := sectionToIssue[s.ID]; !seen {
			sectionToIssue[s.ID] = s.IssueID
		}
	}

	tx, err := imp.DB.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	if err := imp.clearExisting(ctx, tx); err != nil {
		return sum, err
	}

	journalMap, err := imp.loadJournals(ctx, tx, journalRows, &sum)
	if err != nil {
		return sum, err
	}

	issueMap, err := imp.loadIssues(ctx, tx, issueRows, journalMap, &sum)
	if err != nil {
		return sum, err
	}

	if err := imp.loadArticles(ctx, tx, articleRows, sectionToIssue, issueMap, &sum); err != nil {
		return sum, err
	}

	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("commit import tx: %w", err)
	}

	if err := imp.EnsureAdmin(ctx); err != nil {
		return sum, err
	}

	imp.printf("Imported: %d journals, %d issues, %d articles, %d authors (skipped %d articles)\n",
		sum.Journals, sum.Issues, sum.Articles, sum.Authors, sum.Skipped)
	return sum, nil
}

// clearExisting removes all previously imported content. Cascades take the
// dependents down with the journals.
func (imp *Importer) clearExisting(ctx context.Context, tx *sql.Tx) error {
	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM journals`).Scan(&existing); err != nil {
		return fmt.Errorf("count journals: %w", err)
	}
	if existing == 0 {
		return nil
	}

	imp.printf("Database has %d journals, clearing for re-import\n", existing)
	if _, err := tx.ExecContext(ctx, `DELETE FROM journals`); err != nil {
		return fmt.Errorf("clear journals: %w", err)
	}
	return nil
}

func (imp *Importer) loadJournals(ctx context.Context, tx *sql.Tx, rows []row, sum *Summary) (map[int]int64, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO journals (name, slug, issn, description, editorial_board, is_active, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare journal insert: %w", err)
	}
	defer stmt.Close()

	oldToNew := make(map[int]int64, len(rows))
	usedSlugs := make(map[string]bool, len(rows))
	order := 0

	for _, r := range rows {
		j, ok := journalFromRow(r)
		if !ok {
			continue
		}

		s := j.Link
		if s == "" {
			s = slug.Make(j.Name)
		}
		s = uniqueSlug(slug.Normalize(s), usedSlugs)
		usedSlugs[s] = true

		desc := truncate(j.Description, 1000)

		res, err := stmt.ExecContext(ctx,
			j.Name, s,
			nullString(j.ISSN), nullString(desc), nullString(j.EditorialBoard),
			j.Active, order,
		)
		if err != nil {
			return nil, fmt.Errorf("insert journal %d: %w", j.ID, err)
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("journal insert id: %w", err)
		}

		oldToNew[j.ID] = newID
		order++
		sum.Journals++
		imp.printf("  Journal: %s (old_id=%d -> new_id=%d, slug=%s)\n", j.Name, j.ID, newID, s)
	}

	return oldToNew, nil
}

// uniqueSlug appends a numeric suffix until the slug is unused.
func uniqueSlug(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		cand := fmt.Sprintf("%s-%d", base, n)
		if !used[cand] {
			return cand
		}
	}
}

func (imp *Importer) loadIssues(ctx context.Context, tx *sql.Tx, rows []row, journalMap map[int]int64, sum *Summary) (map[int]int64, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO issues (journal_id, number, year, is_published)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare issue insert: %w", err)
	}
	defer stmt.Close()

	oldToNew := make(map[int]int64, len(rows))

	for _, r := range rows {
		is, ok := issueFromRow(r)
		if !ok {
			continue
		}

		journalID, ok := journalMap[is.JournalID]
		if !ok {
			// journal import runs first, so this issue's journal simply
			// does not exist in the dump
			continue
		}

		year := is.Year
		if year == 0 {
			year = 2000
		}

		res, err := stmt.ExecContext(ctx, journalID, leadingInt(is.Number, 1), year, is.Published)
		if err != nil {
			return nil, fmt.Errorf("insert issue %d: %w", is.ID, err)
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("issue insert id: %w", err)
		}

		oldToNew[is.ID] = newID
		sum.Issues++
	}

	imp.printf("  Imported %d issues\n", sum.Issues)
	return oldToNew, nil
}

func (imp *Importer) loadArticles(ctx context.Context, tx *sql.Tx, rows []row, sectionToIssue map[int]int, issueMap map[int]int64, sum *Summary) error {
	artStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (issue_id, title, title_en, abstract, abstract_en,
			keywords, keywords_en, doi, pages_from, pages_to, pdf_file, display_order, is_published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`)
	if err != nil {
		return fmt.Errorf("prepare article insert: %w", err)
	}
	defer artStmt.Close()

	authStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO article_authors (article_id, full_name, full_name_en, display_order)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare author insert: %w", err)
	}
	defer authStmt.Close()

	for _, r := range rows {
		a, ok := articleFromRow(r)
		if !ok {
			continue
		}

		if a.Title == "" {
			sum.Skipped++
			continue
		}

		// article -> section -> legacy issue -> new issue
		legacyIssueID, ok := sectionToIssue[a.SectionID]
		if !ok {
			sum.Skipped++
			continue
		}
		issueID, ok := issueMap[legacyIssueID]
		if !ok {
			sum.Skipped++
			continue
		}

		pagesFrom, pagesTo := parsePages(a.Pages)

		res, err := artStmt.ExecContext(ctx,
			issueID, a.Title,
			nullString(a.TitleEn), nullString(a.Abstract), nullString(a.AbstractEn),
			nullString(a.Keywords), nullString(a.KeywordsEn), nullString(a.DOI),
			nullInt(pagesFrom), nullInt(pagesTo), nullString(a.PDFFile),
			sum.Articles,
		)
		if err != nil {
			return fmt.Errorf("insert article %d: %w", a.ID, err)
		}
		articleID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("article insert id: %w", err)
		}
		sum.Articles++

		if a.Authors == "" {
			continue
		}

		ruNames := splitNames(a.Authors)
		enNames := splitNames(a.AuthorsEn)

		for idx, name := range ruNames {
			name = stripHTML(name)
			if name == "" {
				continue
			}
			var en sql.NullString
			if idx < len(enNames) {
				en = nullString(stripHTML(enNames[idx]))
			}
			if _, err := authStmt.ExecContext(ctx, articleID, name, en, idx); err != nil {
				return fmt.Errorf("insert author for article %d: %w", a.ID, err)
			}
			sum.Authors++
		}
	}

	imp.printf("  Imported %d articles, %d authors\n", sum.Articles, sum.Authors)
	return nil
}

func splitNames(joined string) []string {
	if joined == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(joined, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EnsureAdmin creates the default admin account when the users table is
// completely empty, so a fresh import leaves a usable CMS.
func (imp *Importer) EnsureAdmin(ctx context.Context) error {
	var users int
	if err := imp.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = imp.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, display_name, password_hash, role)
		VALUES (?, ?, ?, ?, 'admin')
	`, uuid.NewString(), DefaultAdminUser, "Администратор", string(hash))
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	imp.printf("  Created admin user (%s / %s), change this password\n", DefaultAdminUser, DefaultAdminPassword)
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
