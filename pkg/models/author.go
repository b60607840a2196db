package models

// Author is one contributor row of an article, in stored order.
// FullName is raw legacy data: it may hold an affiliation or an e-mail
// instead of a person, which is why by-lines go through the authorname
// filter at display time.
type Author struct {
	ID            int64  `json:"id"`
	ArticleID     int64  `json:"article_id"`
	FullName      string `json:"full_name"`
	FullNameEn    string `json:"full_name_en,omitempty"`
	Affiliation   string `json:"affiliation,omitempty"`
	AffiliationEn string `json:"affiliation_en,omitempty"`
	Email         string `json:"email,omitempty"`
	ORCID         string `json:"orcid,omitempty"`
	DisplayOrder  int    `json:"display_order"`
}
