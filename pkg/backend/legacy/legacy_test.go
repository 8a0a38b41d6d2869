package legacy

import "testing"

func TestBackend_Name(t *testing.T) {
	b := New()
	if got := b.Name(); got != "legacy" {
		t.Errorf("Name() = %q, want %q", got, "legacy")
	}
}
