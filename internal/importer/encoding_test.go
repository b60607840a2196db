package importer

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestDetectEncoding_UTF8(t *testing.T) {
	path := writeTemp(t, "dump.sql", []byte("-- дамп журнала Радиотехника, научные статьи\n"))

	enc, err := detectEncoding(path)
	if err != nil {
		t.Fatalf("detectEncoding: %v", err)
	}
	if enc.name != "utf-8" {
		t.Errorf("encoding = %s, want utf-8", enc.name)
	}
}

func TestDetectEncoding_CP1251(t *testing.T) {
	text := "-- дамп журнала Радиотехника, научные статьи\n"
	raw, err := charmap.Windows1251.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode cp1251: %v", err)
	}
	path := writeTemp(t, "dump.sql", raw)

	enc, err := detectEncoding(path)
	if err != nil {
		t.Fatalf("detectEncoding: %v", err)
	}
	if enc.name != "cp1251" {
		t.Errorf("encoding = %s, want cp1251", enc.name)
	}
}

func TestDetectEncoding_FallsBack(t *testing.T) {
	// no probe words under any encoding: lenient utf-8 fallback, no error
	path := writeTemp(t, "dump.sql", []byte{0xff, 0xfe, 0x00, 0x41, 0x42})

	enc, err := detectEncoding(path)
	if err != nil {
		t.Fatalf("detectEncoding: %v", err)
	}
	if enc.name != "utf-8" {
		t.Errorf("encoding = %s, want utf-8 fallback", enc.name)
	}
}

func TestDecodeStrict_RejectsUndefinedBytes(t *testing.T) {
	// 0x98 is unassigned in cp1251; the decoder substitutes U+FFFD for it,
	// which a strict decode must treat as failure
	cand := dumpEncoding{"cp1251", charmap.Windows1251}

	if _, ok := decodeStrict([]byte{0xcf, 0x98, 0xd0}, cand); ok {
		t.Error("undefined cp1251 byte accepted")
	}

	valid, err := charmap.Windows1251.NewEncoder().Bytes([]byte("журнал"))
	if err != nil {
		t.Fatalf("encode cp1251: %v", err)
	}
	chunk, ok := decodeStrict(valid, cand)
	if !ok {
		t.Fatal("valid cp1251 rejected")
	}
	if chunk != "журнал" {
		t.Errorf("decoded = %q", chunk)
	}
}

func TestDetectEncoding_MissingFile(t *testing.T) {
	if _, err := detectEncoding(filepath.Join(t.TempDir(), "nope.sql")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractTable_CP1251(t *testing.T) {
	text := "-- журнал Радиотехника, статья\n" +
		"INSERT INTO `journals` VALUES (1,'Журнал испытаний');\n" +
		"INSERT INTO `other` VALUES (9,'мимо');\n"
	raw, err := charmap.Windows1251.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode cp1251: %v", err)
	}
	path := writeTemp(t, "dump.sql", raw)

	enc, err := detectEncoding(path)
	if err != nil {
		t.Fatalf("detectEncoding: %v", err)
	}
	rows, err := extractTable(path, enc, "journals")
	if err != nil {
		t.Fatalf("extractTable: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].text(1); got != "Журнал испытаний" {
		t.Errorf("decoded field = %q", got)
	}
}
