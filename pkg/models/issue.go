package models

import "time"

// Issue is one numbered issue of a journal.
type Issue struct {
	ID              int64     `json:"id"`
	JournalID       int64     `json:"journal_id"`
	Volume          *int      `json:"volume,omitempty"`
	Number          int       `json:"number"`
	Year            int       `json:"year"`
	PublicationDate string    `json:"publication_date,omitempty"`
	CoverImage      string    `json:"cover_image,omitempty"`
	Description     string    `json:"description,omitempty"`
	IsPublished     bool      `json:"is_published"`
	CreatedAt       time.Time `json:"created_at,omitempty"`

	ArticleCount int `json:"article_count,omitempty"`
}
