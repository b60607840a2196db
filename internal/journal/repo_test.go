package journal

import (
	"context"
	"database/sql"
	"testing"

	"github.com/glebradiotec/publisher-site/pkg/database"
	"github.com/glebradiotec/publisher-site/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// a :memory: database exists per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if err := database.MigrateFrom(db, "../../docs/schema.sql"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateAndGetBySlug(t *testing.T) {
	db := testDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	j := models.Journal{Name: "Радиотехника", Slug: "radiotekhnika", ISSN: "0134-0182", IsActive: true}
	if err := repo.Create(ctx, &j); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if j.ID == 0 {
		t.Fatal("Create did not set ID")
	}

	got, err := repo.GetBySlug(ctx, "radiotekhnika", true)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got == nil || got.Name != "Радиотехника" || got.ISSN != "0134-0182" {
		t.Errorf("GetBySlug = %+v", got)
	}

	missing, err := repo.GetBySlug(ctx, "nope", true)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if missing != nil {
		t.Errorf("unknown slug returned %+v", missing)
	}
}

func TestListActiveOnly(t *testing.T) {
	db := testDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	active := models.Journal{Name: "Активный", Slug: "aktivnyy", IsActive: true, DisplayOrder: 1}
	hidden := models.Journal{Name: "Скрытый", Slug: "skrytyy", IsActive: false}
	if err := repo.Create(ctx, &active); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &hidden); err != nil {
		t.Fatalf("Create: %v", err)
	}

	pub, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pub) != 1 || pub[0].Slug != "aktivnyy" {
		t.Errorf("active list = %+v", pub)
	}

	all, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin list len = %d, want 2", len(all))
	}

	// inactive journal never appears through the public slug lookup
	if j, _ := repo.GetBySlug(ctx, "skrytyy", true); j != nil {
		t.Error("inactive journal visible through public lookup")
	}
	if j, _ := repo.GetBySlug(ctx, "skrytyy", false); j == nil {
		t.Error("inactive journal hidden from admin lookup")
	}
}

func TestListFillsPublishedCounts(t *testing.T) {
	db := testDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	j := models.Journal{Name: "Радиотехника", Slug: "radiotekhnika", IsActive: true}
	if err := repo.Create(ctx, &j); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := db.Exec(`INSERT INTO issues (journal_id, number, year, is_published) VALUES (?, 1, 2020, 1)`, j.ID)
	if err != nil {
		t.Fatalf("seed issue: %v", err)
	}
	issueID, _ := res.LastInsertId()
	if _, err := db.Exec(`INSERT INTO issues (journal_id, number, year, is_published) VALUES (?, 2, 2020, 0)`, j.ID); err != nil {
		t.Fatalf("seed issue: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO articles (issue_id, title, is_published) VALUES (?, 'Опубликованная', 1)`, issueID); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO articles (issue_id, title, is_published) VALUES (?, 'Черновик', 0)`, issueID); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	list, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list len = %d", len(list))
	}
	if list[0].PublishedIssues != 1 || list[0].ArticleCount != 1 {
		t.Errorf("counts = issues %d articles %d, want 1/1", list[0].PublishedIssues, list[0].ArticleCount)
	}
}

func TestSlugExists(t *testing.T) {
	db := testDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	j := models.Journal{Name: "Радиотехника", Slug: "radiotekhnika"}
	if err := repo.Create(ctx, &j); err != nil {
		t.Fatalf("Create: %v", err)
	}

	taken, err := repo.SlugExists(ctx, "radiotekhnika", 0)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !taken {
		t.Error("existing slug reported free")
	}

	// the journal's own row does not count against it
	taken, err = repo.SlugExists(ctx, "radiotekhnika", j.ID)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if taken {
		t.Error("slug blocked by its own journal")
	}
}

func TestToggleActive(t *testing.T) {
	db := testDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	j := models.Journal{Name: "Радиотехника", Slug: "radiotekhnika", IsActive: true}
	if err := repo.Create(ctx, &j); err != nil {
		t.Fatalf("Create: %v", err)
	}

	active, err := repo.ToggleActive(ctx, j.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if active {
		t.Error("toggle should deactivate")
	}
	active, err = repo.ToggleActive(ctx, j.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if !active {
		t.Error("second toggle should reactivate")
	}
}

func TestDeleteCascades(t *testing.T) {
	db := testDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	j := models.Journal{Name: "Радиотехника", Slug: "radiotekhnika"}
	if err := repo.Create(ctx, &j); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO issues (journal_id, number, year) VALUES (?, 1, 2020)`, j.ID); err != nil {
		t.Fatalf("seed issue: %v", err)
	}

	deleted, err := repo.Delete(ctx, j.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("journal not deleted")
	}

	var issues int
	if err := db.QueryRow(`SELECT COUNT(*) FROM issues`).Scan(&issues); err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if issues != 0 {
		t.Errorf("issues after cascade = %d, want 0", issues)
	}
}
