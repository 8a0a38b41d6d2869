package watch

import "testing"

func TestEvaluate_StringComparison(t *testing.T) {
	vars := map[string]string{"status": "resolved"}
	got, err := Evaluate(`status == "resolved"`, vars)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "true" {
		t.Errorf("got %q, want %q", got, "true")
	}
}

func TestEvaluate_StringLength(t *testing.T) {
	vars := map[string]string{"itemCount": "2"}
	got, err := Evaluate(`len(itemCount)`, vars)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "1" { // len("2") == 1 rune
		t.Errorf("got %q, want %q", got, "1")
	}
}

func TestEvaluate_UndefinedVariableIsError(t *testing.T) {
	_, err := Evaluate(`missing == "x"`, map[string]string{})
	if err == nil {
		t.Fatal("expected an error for an undefined variable reference")
	}
}

func TestEvaluate_CompileErrorOnInvalidSyntax(t *testing.T) {
	_, err := Evaluate(`== ==`, map[string]string{})
	if err == nil {
		t.Fatal("expected a compile error for invalid syntax")
	}
}
