package displayid

import "testing"

func TestParseRoundTripModern(t *testing.T) {
	for n := 1; n <= 8; n++ {
		id := Format(n)
		got, err := Parse(id)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", id, err)
		}
		if got != n {
			t.Fatalf("Parse(%q) = %d, want %d", id, got, n)
		}
	}
}

func TestParseRoundTripLegacy(t *testing.T) {
	for n := 1; n <= 8; n++ {
		id := FormatLegacy(n)
		got, err := Parse(id)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", id, err)
		}
		if got != n {
			t.Fatalf("Parse(%q) = %d, want %d", id, got, n)
		}
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []string{"", "Display0", "Display-1", "DisplayX", "Foo3", `\\.\DISPLAY`}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Fatalf("Parse(%q) expected error, got nil", c)
		}
	}
}
