package rag

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func tempUserDir(t *testing.T) UserDirFunc {
	t.Helper()
	root := t.TempDir()
	return func(userID int64) (string, error) {
		dir := filepath.Join(root, strconv.FormatInt(userID, 10))
		return dir, os.MkdirAll(dir, 0o755)
	}
}

func TestBuildIndex_WritesManifest(t *testing.T) {
	userDir := tempUserDir(t)
	svc := New(userDir)

	dir, _ := userDir(1)
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("fixture write: %v", err)
		}
	}

	n, err := svc.BuildIndex(1)
	if err != nil {
		t.Fatalf("BuildIndex error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 files indexed, got %d", n)
	}
	b, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if string(b) != "a.txt\nb.txt" {
		t.Fatalf("unexpected manifest content: %q", b)
	}
}

func TestBuildIndex_EmptyDirectory(t *testing.T) {
	svc := New(tempUserDir(t))
	n, err := svc.BuildIndex(5)
	if err != nil {
		t.Fatalf("BuildIndex error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 files, got %d", n)
	}
}

// The manifest is a regular file; a rebuild counts it like any other upload.
func TestBuildIndex_ManifestCountsOnRebuild(t *testing.T) {
	svc := New(tempUserDir(t))
	if _, err := svc.BuildIndex(1); err != nil {
		t.Fatalf("first build: %v", err)
	}
	n, err := svc.BuildIndex(1)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected the manifest itself to be counted, got %d", n)
	}
}

func TestAssess_GradeBounds(t *testing.T) {
	userDir := tempUserDir(t)
	svc := New(userDir)

	// short text, no files: floor of 1.0
	grade, explanation, err := svc.Assess(1, "hi")
	if err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if grade < 1.0 || grade > 10.0 {
		t.Fatalf("grade out of bounds: %f", grade)
	}
	if !strings.Contains(explanation, "0 uploaded files") {
		t.Fatalf("explanation must name the file count: %q", explanation)
	}

	// long text, several files: capped at 10.0
	dir, _ := userDir(1)
	for i := 0; i < 8; i++ {
		name := filepath.Join(dir, "f"+strconv.Itoa(i)+".txt")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatalf("fixture write: %v", err)
		}
	}
	long := strings.Repeat("word ", 500)
	grade, _, err = svc.Assess(1, long)
	if err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if grade != 10.0 {
		t.Fatalf("expected capped grade 10.0, got %f", grade)
	}
}

func TestAssess_FileBonusRaisesGrade(t *testing.T) {
	userDir := tempUserDir(t)
	svc := New(userDir)
	text := strings.Repeat("a", 100)

	before, _, err := svc.Assess(1, text)
	if err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	dir, _ := userDir(1)
	for i := 0; i < 4; i++ {
		if err := os.WriteFile(filepath.Join(dir, "f"+strconv.Itoa(i)), []byte("x"), 0o644); err != nil {
			t.Fatalf("fixture write: %v", err)
		}
	}
	after, _, err := svc.Assess(1, text)
	if err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if after <= before {
		t.Fatalf("uploaded files must raise the grade: before=%f after=%f", before, after)
	}
}
