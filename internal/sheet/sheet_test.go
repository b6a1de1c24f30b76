package sheet

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		cell string
		want Status
	}{
		{"", StatusEmpty},
		{"✅ Sent", StatusSent},
		{"🕓 Sending...", StatusInProgress},
		{"❌ Failed", StatusFailed},
		{"something else", StatusEmpty},
	}
	for _, c := range cases {
		if got := ParseStatus(c.cell); got != c.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", c.cell, got, c.want)
		}
	}
}

func TestRowsFromValues(t *testing.T) {
	values := [][]interface{}{
		{"1", "Alice", "Smith", "mango", "alice@example.com"},
		{"2", "Bob", "Jones", "kiwi"}, // no email column
		{"3"},                         // nearly empty row
	}

	rows := rowsFromValues(values)
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(rows))
	}

	if rows[0].Index != 2 {
		t.Fatalf("first data row must map to sheet row 2, got %d", rows[0].Index)
	}
	if rows[0].FirstName != "Alice" || rows[0].LastName != "Smith" || rows[0].Fruit != "mango" || rows[0].Email != "alice@example.com" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}

	if rows[1].Index != 3 || rows[1].Email != "" {
		t.Fatalf("short row must parse with empty email: %+v", rows[1])
	}
	if rows[2].Index != 4 || rows[2].FirstName != "" {
		t.Fatalf("near-empty row must parse with blanks: %+v", rows[2])
	}
}

func TestRowsFromValuesEmpty(t *testing.T) {
	if got := rowsFromValues(nil); len(got) != 0 {
		t.Fatalf("want no rows, got %d", len(got))
	}
}
