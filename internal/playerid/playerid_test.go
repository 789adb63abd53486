package playerid

import "testing"

func TestFromName_Deterministic(t *testing.T) {
	a := FromName("Patrick Mahomes", "QB")
	b := FromName("Patrick Mahomes", "QB")

	if a != b {
		t.Errorf("Expected identical IDs, got %q and %q", a, b)
	}
	if a != "patrick-mahomes-qb" {
		t.Errorf("Expected patrick-mahomes-qb, got %q", a)
	}
}

func TestSlug_CollapsesNonAlphanumerics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ja'Marr Chase-WR", "ja-marr-chase-wr"},
		{"Amon-Ra St. Brown", "amon-ra-st-brown"},
		{"  D'Andre   Swift  ", "d-andre-swift"},
		{"---", ""},
		{"A.J. Brown", "a-j-brown"},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug_Idempotent(t *testing.T) {
	once := Slug("Kenneth Walker III-RB")
	twice := Slug(once)

	if once != twice {
		t.Errorf("Re-normalizing changed the ID: %q -> %q", once, twice)
	}
}
