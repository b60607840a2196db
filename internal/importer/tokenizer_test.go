package importer

import (
	"reflect"
	"testing"
)

func TestParseValues_QuotingRoundTrip(t *testing.T) {
	// backslash-escaped quote, doubled quote and a comma inside a quoted
	// literal must all survive into the original field text
	line := `INSERT INTO ` + "`t`" + ` VALUES ('a\'b','c''d','x, y');`

	rows := parseValues(line)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if len(r) != 3 {
		t.Fatalf("got %d fields, want 3: %#v", len(r), r)
	}

	want := []string{"a'b", "c'd", "x, y"}
	for i, w := range want {
		if got := r.text(i); got != w {
			t.Errorf("field %d = %q, want %q", i, got, w)
		}
	}
}

func TestParseValues_MultipleTuples(t *testing.T) {
	line := "INSERT INTO `journals` VALUES (1,'один',NULL),(2,'два',3.5),(3,'',42);"

	rows := parseValues(line)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	raw := make([][]string, len(rows))
	for i, r := range rows {
		raw[i] = []string(r)
	}
	want := [][]string{
		{"1", "один", "NULL"},
		{"2", "два", "3.5"},
		{"3", "", "42"},
	}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("raw tokens = %#v, want %#v", raw, want)
	}

	if n, ok := rows[0].intAt(0); !ok || n != 1 {
		t.Errorf("intAt(0) = %d, %v", n, ok)
	}
	if !rows[0].isNull(2) {
		t.Error("NULL token not detected as absent")
	}
	if !rows[2].isNull(1) {
		t.Error("empty token not detected as absent")
	}
}

func TestParseValues_ParensInsideQuotes(t *testing.T) {
	line := "INSERT INTO `t` VALUES (1,'смесь (A, B) и (C)',2);"

	rows := parseValues(line)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].text(1); got != "смесь (A, B) и (C)" {
		t.Errorf("field 1 = %q", got)
	}
	if got, _ := rows[0].intAt(2); got != 2 {
		t.Errorf("field 2 = %d, want 2", got)
	}
}

func TestParseValues_EscapedBackslashAndNewline(t *testing.T) {
	line := `INSERT INTO ` + "`t`" + ` VALUES ('line1\nline2','back\\slash');`

	rows := parseValues(line)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].text(0); got != "line1\nline2" {
		t.Errorf("field 0 = %q", got)
	}
	if got := rows[0].text(1); got != `back\slash` {
		t.Errorf("field 1 = %q", got)
	}
}

func TestParseValues_NoValuesKeyword(t *testing.T) {
	if rows := parseValues("-- just a comment line"); rows != nil {
		t.Errorf("expected nil, got %#v", rows)
	}
}

func TestParseValues_HTMLEntities(t *testing.T) {
	line := "INSERT INTO `t` VALUES ('Приём &amp; передача');"

	rows := parseValues(line)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].text(0); got != "Приём & передача" {
		t.Errorf("field 0 = %q", got)
	}
}
