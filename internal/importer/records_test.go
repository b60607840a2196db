package importer

import "testing"

func TestIssueFromRow(t *testing.T) {
	tests := []struct {
		name       string
		r          row
		wantNumber string
		wantPub    bool
	}{
		{"compound number kept", row{"10", "1", "2005", "5-6", "", "1"}, "5-6", true},
		{"zero means no number", row{"11", "1", "2006", "0", "", "0"}, "1", false},
		{"absent number", row{"12", "1", "2007", "NULL", "", "1"}, "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, ok := issueFromRow(tt.r)
			if !ok {
				t.Fatal("row rejected")
			}
			if is.Number != tt.wantNumber {
				t.Errorf("Number = %q, want %q", is.Number, tt.wantNumber)
			}
			if is.Published != tt.wantPub {
				t.Errorf("Published = %v, want %v", is.Published, tt.wantPub)
			}
		})
	}
}

func TestIssueFromRowRejectsBadID(t *testing.T) {
	if _, ok := issueFromRow(row{"NULL", "1", "2005", "1", "", "1"}); ok {
		t.Error("row without id accepted")
	}
}
