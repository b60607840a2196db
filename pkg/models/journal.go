package models

import "time"

// Journal is a periodical owned by the publisher. Issues cascade on delete.
type Journal struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	ISSN           string    `json:"issn,omitempty"`
	EISSN          string    `json:"eissn,omitempty"`
	Description    string    `json:"description,omitempty"`
	AimsScope      string    `json:"aims_scope,omitempty"`
	CoverImage     string    `json:"cover_image,omitempty"`
	EditorialBoard string    `json:"editorial_board,omitempty"`
	SubmissionInfo string    `json:"submission_info,omitempty"`
	IsActive       bool      `json:"is_active"`
	DisplayOrder   int       `json:"display_order"`
	CreatedAt      time.Time `json:"created_at,omitempty"`

	// Filled by list queries for the public site.
	PublishedIssues int `json:"published_issues,omitempty"`
	ArticleCount    int `json:"article_count,omitempty"`
}
