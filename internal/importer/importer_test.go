package importer

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/glebradiotec/publisher-site/pkg/database"

	_ "github.com/mattn/go-sqlite3"
)

// fixture dump: two journals whose names slugify identically, one issue
// with a compound number, one orphan issue, a section duplicate, and
// articles covering the skip paths.
const testDump = "-- дамп журналов: Радиотехника, научная статья\n" +
	"INSERT INTO `journals` VALUES " +
	"(1,'Радиотехника',1,'Радиотехника','','x','Описание <b>журнала</b>','Редколлегия',0,0,0,0,0,0,'0134-0182',NULL,0,NULL,NULL,NULL,1)," +
	"(2,'Меню',1,'Радиотехника','','x','','',0,0,0,0,0,0,NULL,NULL,0,NULL,NULL,NULL,0);\n" +
	"INSERT INTO `nomera` VALUES " +
	"(10,1,2005,'5-6','',1,NULL,NULL,NULL)," +
	"(11,1,2006,2,'',0,NULL,NULL,NULL)," +
	"(12,99,2007,1,'',1,NULL,NULL,NULL);\n" +
	"INSERT INTO `razdel_numbers` VALUES " +
	"(100,10,'Раздел',0,0,0,NULL)," +
	"(100,11,'Дубликат',0,0,0,NULL)," +
	"(101,11,'Раздел',0,0,0,NULL);\n" +
	"INSERT INTO `articles` VALUES " +
	"(1000,100,'12-25','Иванов И.И., Кафедра радиотехники','Статья о <b>сигналах</b>','Аннотация',NULL,'Ivanov I.I.','Signals',NULL,NULL,'сигналы',NULL,0,NULL,'10.1234/x',NULL,NULL,NULL,NULL,NULL,0,NULL,'art1000.pdf',0)," +
	"(1001,999,'7','Петров П.П.','Без выпуска',NULL,NULL,NULL,NULL,NULL,NULL,NULL,NULL,0,NULL,NULL,NULL,NULL,NULL,NULL,NULL,0,NULL,NULL,0)," +
	"(1002,100,NULL,NULL,NULL,NULL,NULL,NULL,NULL,NULL,NULL,NULL,NULL,0,NULL,NULL,NULL,NULL,NULL,NULL,NULL,0,NULL,NULL,0)," +
	"(1003,101,'7','Петров П.П.1','Статья про \\'кавычки\\', и прочее',NULL,NULL,NULL,NULL,NULL,NULL,NULL,NULL,0,NULL,NULL,NULL,NULL,NULL,NULL,NULL,0,NULL,NULL,0);\n"

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

func runImport(t *testing.T, db *sql.DB, dump string) Summary {
	t.Helper()
	path := writeTemp(t, "dump.sql", []byte(dump))
	sum, err := New(db, path, io.Discard).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sum
}

func TestImporter_Counts(t *testing.T) {
	db := testDB(t)
	sum := runImport(t, db, testDump)

	if sum.Journals != 2 {
		t.Errorf("journals = %d, want 2", sum.Journals)
	}
	if sum.Issues != 2 {
		t.Errorf("issues = %d, want 2 (orphan issue silently dropped)", sum.Issues)
	}
	if sum.Articles != 2 {
		t.Errorf("articles = %d, want 2", sum.Articles)
	}
	// article 1000 carries two author entries (one of them noise, kept in
	// storage), article 1003 one
	if sum.Authors != 3 {
		t.Errorf("authors = %d, want 3", sum.Authors)
	}
	// 1001 has no resolvable issue, 1002 has no title
	if sum.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", sum.Skipped)
	}
}

func TestImporter_SlugCollision(t *testing.T) {
	db := testDB(t)
	runImport(t, db, testDump)

	rows, err := db.Query(`SELECT slug FROM journals ORDER BY display_order`)
	if err != nil {
		t.Fatalf("query slugs: %v", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			t.Fatalf("scan: %v", err)
		}
		slugs = append(slugs, s)
	}
	if len(slugs) != 2 {
		t.Fatalf("got %d slugs: %v", len(slugs), slugs)
	}
	if slugs[0] != "radiotekhnika" {
		t.Errorf("first slug = %q, want radiotekhnika", slugs[0])
	}
	if slugs[1] != "radiotekhnika-2" {
		t.Errorf("second slug = %q, want numeric suffix", slugs[1])
	}
}

func TestImporter_FieldNormalization(t *testing.T) {
	db := testDB(t)
	runImport(t, db, testDump)

	var (
		title     string
		pagesFrom sql.NullInt64
		pagesTo   sql.NullInt64
		doi       sql.NullString
		number    int
	)
	err := db.QueryRow(`
		SELECT a.title, a.pages_from, a.pages_to, a.doi, i.number
		FROM articles a JOIN issues i ON i.id = a.issue_id
		WHERE a.doi IS NOT NULL
	`).Scan(&title, &pagesFrom, &pagesTo, &doi, &number)
	if err != nil {
		t.Fatalf("query article: %v", err)
	}

	if title != "Статья о сигналах" {
		t.Errorf("title = %q, want HTML stripped", title)
	}
	if !pagesFrom.Valid || pagesFrom.Int64 != 12 || !pagesTo.Valid || pagesTo.Int64 != 25 {
		t.Errorf("pages = %v-%v, want 12-25", pagesFrom, pagesTo)
	}
	if doi.String != "10.1234/x" {
		t.Errorf("doi = %q", doi.String)
	}
	if number != 5 {
		t.Errorf("issue number = %d, want leading 5 of '5-6'", number)
	}

	// escaped quotes survive into the stored title
	var quoted string
	err = db.QueryRow(`SELECT title FROM articles WHERE title LIKE '%кавычки%'`).Scan(&quoted)
	if err != nil {
		t.Fatalf("query quoted title: %v", err)
	}
	if quoted != "Статья про 'кавычки', и прочее" {
		t.Errorf("quoted title = %q", quoted)
	}
}

func TestImporter_AuthorsAligned(t *testing.T) {
	db := testDB(t)
	runImport(t, db, testDump)

	rows, err := db.Query(`
		SELECT au.full_name, au.full_name_en, au.display_order
		FROM article_authors au
		JOIN articles a ON a.id = au.article_id
		WHERE a.doi IS NOT NULL
		ORDER BY au.display_order
	`)
	if err != nil {
		t.Fatalf("query authors: %v", err)
	}
	defer rows.Close()

	type author struct {
		name  string
		en    sql.NullString
		order int
	}
	var got []author
	for rows.Next() {
		var a author
		if err := rows.Scan(&a.name, &a.en, &a.order); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, a)
	}

	if len(got) != 2 {
		t.Fatalf("got %d authors, want 2", len(got))
	}
	if got[0].name != "Иванов И.И." || !got[0].en.Valid || got[0].en.String != "Ivanov I.I." {
		t.Errorf("author 0 = %+v, want RU/EN aligned", got[0])
	}
	if got[1].name != "Кафедра радиотехники" || got[1].en.Valid {
		t.Errorf("author 1 = %+v, want noise kept without EN name", got[1])
	}
}

func TestImporter_DestructiveReload(t *testing.T) {
	db := testDB(t)
	first := runImport(t, db, testDump)
	second := runImport(t, db, testDump)

	if first != second {
		t.Errorf("reload changed aggregate counts: first %+v, second %+v", first, second)
	}

	var journals, issues, articles, authors int
	row := db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM journals), (SELECT COUNT(*) FROM issues),
		       (SELECT COUNT(*) FROM articles), (SELECT COUNT(*) FROM article_authors)
	`)
	if err := row.Scan(&journals, &issues, &articles, &authors); err != nil {
		t.Fatalf("count: %v", err)
	}
	if journals != 2 || issues != 2 || articles != 2 || authors != 3 {
		t.Errorf("final state = %d/%d/%d/%d, want 2/2/2/3", journals, issues, articles, authors)
	}
}

func TestImporter_EnsureAdmin(t *testing.T) {
	db := testDB(t)
	runImport(t, db, testDump)

	var users int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ? AND role = 'admin'`, DefaultAdminUser).Scan(&users); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Errorf("admin users = %d, want 1", users)
	}

	// second run must not duplicate the account
	runImport(t, db, testDump)
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Errorf("users after reload = %d, want 1", users)
	}
}

func TestImporter_MissingDumpIsFatal(t *testing.T) {
	db := testDB(t)
	_, err := New(db, "does-not-exist.sql", io.Discard).Run(context.Background())
	if err == nil {
		t.Fatal("expected error for missing dump")
	}
}

func TestImporter_EmptyDumpIsNotAnError(t *testing.T) {
	db := testDB(t)
	sum := runImport(t, db, "-- пустой дамп\n")
	if sum.Journals != 0 || sum.Articles != 0 || sum.Skipped != 0 {
		t.Errorf("summary = %+v, want all zero", sum)
	}
}
