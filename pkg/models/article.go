package models

import (
	"fmt"
	"time"
)

// Article is a single paper inside an issue. Authors are ordered and
// cascade on delete.
type Article struct {
	ID           int64     `json:"id"`
	IssueID      int64     `json:"issue_id"`
	Title        string    `json:"title"`
	TitleEn      string    `json:"title_en,omitempty"`
	Abstract     string    `json:"abstract,omitempty"`
	AbstractEn   string    `json:"abstract_en,omitempty"`
	Keywords     string    `json:"keywords,omitempty"`
	KeywordsEn   string    `json:"keywords_en,omitempty"`
	DOI          string    `json:"doi,omitempty"`
	PagesFrom    *int      `json:"pages_from,omitempty"`
	PagesTo      *int      `json:"pages_to,omitempty"`
	Language     string    `json:"language,omitempty"`
	PDFFile      string    `json:"pdf_file,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at,omitempty"`

	Authors []Author `json:"authors,omitempty"`
}

// PagesString renders "12–25", "12" or "".
func (a *Article) PagesString() string {
	if a.PagesFrom != nil && a.PagesTo != nil {
		return fmt.Sprintf("%d–%d", *a.PagesFrom, *a.PagesTo)
	}
	if a.PagesFrom != nil {
		return fmt.Sprintf("%d", *a.PagesFrom)
	}
	return ""
}
