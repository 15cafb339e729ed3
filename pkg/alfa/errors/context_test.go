package errors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempSource(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.alfa")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestExtractContext(t *testing.T) {
	path := writeTempSource(t, "line one\nline two\nline three\nline four\nline five\n")

	ctx := ExtractContext(Location{File: path, Line: 3, Column: 2}, 1)

	if !strings.Contains(ctx, "-> 3 | line three") {
		t.Errorf("context missing marked error line:\n%s", ctx)
	}
	if !strings.Contains(ctx, "line two") || !strings.Contains(ctx, "line four") {
		t.Errorf("context missing surrounding lines:\n%s", ctx)
	}
	if strings.Contains(ctx, "line five") {
		t.Errorf("context includes line outside range:\n%s", ctx)
	}
}

func TestExtractContextInvalidLocation(t *testing.T) {
	if got := ExtractContext(Location{}, 2); got != "" {
		t.Errorf("ExtractContext() = %q, want empty", got)
	}
}

func TestExtractContextMissingFile(t *testing.T) {
	loc := Location{File: "/nonexistent/main.alfa", Line: 1}
	if got := ExtractContext(loc, 2); got != "" {
		t.Errorf("ExtractContext() = %q, want empty", got)
	}
}

func TestAddContextToError(t *testing.T) {
	path := writeTempSource(t, "namespace example {\n\tbadtoken\n}\n")

	err := New(ErrorTypeSyntax, "unexpected token", Location{File: path, Line: 2, Column: 2})
	AddContextToError(err)

	if err.Context == "" {
		t.Fatal("Context not populated")
	}
	if !strings.Contains(err.Context, "badtoken") {
		t.Errorf("Context missing source line:\n%s", err.Context)
	}
}
