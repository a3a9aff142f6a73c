package enginerr

import "testing"

func TestTranslateKnownCodes(t *testing.T) {
	cases := []struct {
		code int32
		kind Kind
	}{
		{5, KindPermissionDenied},
		{170, KindDeviceBusy},
		{87, KindDriverError},
		{1169, KindDriverError},
		{9999, KindDriverError},
	}
	for _, c := range cases {
		err := Translate(c.code, "test")
		if err.Kind != c.kind {
			t.Fatalf("Translate(%d).Kind = %v, want %v", c.code, err.Kind, c.kind)
		}
		if err.Error() == "" {
			t.Fatalf("Translate(%d).Error() empty", c.code)
		}
	}
}

func TestConfigurationFailedMessage(t *testing.T) {
	err := NewConfigurationFailed("refresh", "75", "not in mode catalog")
	if err.Kind != KindConfigurationFailed {
		t.Fatalf("Kind = %v, want KindConfigurationFailed", err.Kind)
	}
	want := "ConfigurationFailed(refresh=75): not in mode catalog"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
