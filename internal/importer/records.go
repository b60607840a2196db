package importer

import "fmt"

// Fixed-shape records for the four legacy tables. Each raw tuple is mapped
// here once, by the documented legacy ordinals; no later stage indexes a
// tuple again.

// legacy `journals` ordinals:
//
//	0 journ_id, 1 menu_name, 3 journ_name, 4 link, 6 descript,
//	7 redkol, 14 issn, 20 jr_active
type legacyJournal struct {
	ID             int
	Name           string
	Link           string // becomes the slug when present
	Description    string
	EditorialBoard string
	ISSN           string
	Active         bool
}

func journalFromRow(r row) (legacyJournal, bool) {
	id, ok := r.intAt(0)
	if !ok {
		return legacyJournal{}, false
	}

	name := stripHTML(r.text(3))
	if name == "" {
		name = stripHTML(r.text(1))
	}
	if name == "" {
		name = fmt.Sprintf("Journal %d", id)
	}

	active := true
	if len(r) > 20 {
		n, ok := r.intAt(20)
		active = ok && n == 1
	}

	return legacyJournal{
		ID:             id,
		Name:           name,
		Link:           r.text(4),
		Description:    stripHTML(r.text(6)),
		EditorialBoard: stripHTML(r.text(7)),
		ISSN:           r.text(14),
		Active:         active,
	}, true
}

// legacy `nomera` ordinals:
//
//	0 num_id, 1 jr_num, 2 num_year, 3 num_num, 5 num_act
type legacyIssue struct {
	ID        int
	JournalID int
	Year      int
	Number    string // compound numbers like "5-6" possible
	Published bool
}

func issueFromRow(r row) (legacyIssue, bool) {
	id, ok := r.intAt(0)
	if !ok {
		return legacyIssue{}, false
	}

	jr, _ := r.intAt(1)
	year, _ := r.intAt(2)
	act, _ := r.intAt(5)

	// a stored 0 means "no number", same as absent
	number := r.text(3)
	if number == "" || number == "0" {
		number = "1"
	}

	return legacyIssue{
		ID:        id,
		JournalID: jr,
		Year:      year,
		Number:    number,
		Published: act == 1,
	}, true
}

// legacy `razdel_numbers` ordinals: 0 razd_id, 1 number (-> nomera.num_id).
// Sections are pure indirection between articles and issues.
type legacySection struct {
	ID      int
	IssueID int
}

func sectionFromRow(r row) (legacySection, bool) {
	id, ok := r.intAt(0)
	if !ok {
		return legacySection{}, false
	}
	issueID, ok := r.intAt(1)
	if !ok {
		return legacySection{}, false
	}
	return legacySection{ID: id, IssueID: issueID}, true
}

// legacy `articles` ordinals:
//
//	0 art_id, 1 razd_id, 2 art_page, 3 authors, 4 art_name, 5 descript,
//	7 authors_eng, 8 art_name_eng, 9 descript_eng, 11 keyword,
//	12 keyword_eng, 15 doi, 23 file
type legacyArticle struct {
	ID         int
	SectionID  int
	Pages      string
	Authors    string // comma-joined, mixed with affiliation noise
	AuthorsEn  string
	Title      string
	TitleEn    string
	Abstract   string
	AbstractEn string
	Keywords   string
	KeywordsEn string
	DOI        string
	PDFFile    string
}

func articleFromRow(r row) (legacyArticle, bool) {
	id, ok := r.intAt(0)
	if !ok {
		return legacyArticle{}, false
	}
	sectionID, _ := r.intAt(1)

	return legacyArticle{
		ID:         id,
		SectionID:  sectionID,
		Pages:      r.text(2),
		Authors:    r.text(3),
		AuthorsEn:  r.text(7),
		Title:      stripHTML(r.text(4)),
		TitleEn:    stripHTML(r.text(8)),
		Abstract:   stripHTML(r.text(5)),
		AbstractEn: stripHTML(r.text(9)),
		Keywords:   r.text(11),
		KeywordsEn: r.text(12),
		DOI:        r.text(15),
		PDFFile:    r.text(23),
	}, true
}
