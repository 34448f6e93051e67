package service

import (
	"math"
	"testing"
)

// TestMarshalDetails tests audit payload serialization and the fallback marker
func TestMarshalDetails(t *testing.T) {
	if got := MarshalDetails(nil); got != "" {
		t.Errorf("nil details = %q, want empty", got)
	}

	if got := MarshalDetails(map[string]string{"name": "a.pdf"}); got != `{"name":"a.pdf"}` {
		t.Errorf("map details = %q", got)
	}

	// NaN cannot be marshaled, the marker takes its place
	if got := MarshalDetails(map[string]float64{"x": math.NaN()}); got != UnserializableDetails {
		t.Errorf("unserializable details = %q, want marker", got)
	}
}
