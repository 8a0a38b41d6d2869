package modern

import "testing"

func TestBackend_Name(t *testing.T) {
	b := New()
	if got := b.Name(); got != "modern" {
		t.Errorf("Name() = %q, want %q", got, "modern")
	}
}
