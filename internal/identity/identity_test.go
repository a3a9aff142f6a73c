package identity

import "testing"

func TestExtractUID(t *testing.T) {
	cases := map[string]uint32{
		`\\?\DISPLAY#ACI27BB#5&1a2b3c4d&0&UID176389#{e6f07b5f-ee97-4a90-b076-33f57bf4eaa7}`: 176389,
		`\\?\DISPLAY#ACI27BB#5&1a2b3c4d&0&UID0#{...}`:                                       0,
		"no uid segment here":                                                              0,
	}
	for path, want := range cases {
		if got := extractUID(path); got != want {
			t.Fatalf("extractUID(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestByLogicalNumberDenseAscendingUID(t *testing.T) {
	mappings := []Mapping{
		{LogicalNumber: 1, UID: 10},
		{LogicalNumber: 2, UID: 55},
		{LogicalNumber: 3, UID: 200},
	}
	for n := 1; n <= 3; n++ {
		m, ok := ByLogicalNumber(mappings, n)
		if !ok {
			t.Fatalf("ByLogicalNumber(%d) not found", n)
		}
		if m.LogicalNumber != n {
			t.Fatalf("ByLogicalNumber(%d).LogicalNumber = %d", n, m.LogicalNumber)
		}
	}
	if _, ok := ByLogicalNumber(mappings, 4); ok {
		t.Fatalf("ByLogicalNumber(4) expected not found")
	}
}

func TestMappingStringDistinguishesMatch(t *testing.T) {
	matched := Mapping{LogicalNumber: 1, UID: 5, FriendlyName: "Dell U2720Q", Matched: true}
	unmatched := Mapping{LogicalNumber: 2, UID: 6}
	if got, want := matched.String(), "Display1(uid=5,Dell U2720Q)"; got != want {
		t.Fatalf("matched.String() = %q, want %q", got, want)
	}
	if got, want := unmatched.String(), "Display2(uid=6,unmatched)"; got != want {
		t.Fatalf("unmatched.String() = %q, want %q", got, want)
	}
}
