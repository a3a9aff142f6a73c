package modes

import "testing"

func sampleCatalog() Catalog {
	return Catalog{Modes: []Mode{
		{Width: 1920, Height: 1080, RefreshRate: 60},
		{Width: 1920, Height: 1080, RefreshRate: 144},
		{Width: 2560, Height: 1440, RefreshRate: 60},
	}}
}

func TestLookupExactMatch(t *testing.T) {
	cat := sampleCatalog()
	m, err := cat.Lookup(1920, 1080, 144)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if m.RefreshRate != 144 {
		t.Fatalf("Lookup refresh = %d, want 144", m.RefreshRate)
	}
}

func TestLookupZeroRefreshMatchesFirstResolutionHit(t *testing.T) {
	cat := sampleCatalog()
	m, err := cat.Lookup(1920, 1080, 0)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if m.Width != 1920 || m.Height != 1080 {
		t.Fatalf("Lookup(refresh=0) = %+v, want 1920x1080", m)
	}
}

func TestLookupUnsupportedMode(t *testing.T) {
	cat := sampleCatalog()
	_, err := cat.Lookup(3840, 2160, 60)
	if err == nil {
		t.Fatalf("Lookup(3840x2160) expected error")
	}
	if _, ok := err.(ErrUnsupportedMode); !ok {
		t.Fatalf("Lookup error type = %T, want ErrUnsupportedMode", err)
	}
}

func TestSupports(t *testing.T) {
	cat := sampleCatalog()
	if !cat.Supports(2560, 1440, 60) {
		t.Fatalf("Supports(2560x1440@60) = false, want true")
	}
	if cat.Supports(640, 480, 60) {
		t.Fatalf("Supports(640x480@60) = true, want false")
	}
}
