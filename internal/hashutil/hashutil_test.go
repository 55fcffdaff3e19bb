package hashutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHashTree_StableAcrossIdenticalContent(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()

	files := map[string]string{
		"README.md":        "hello",
		"src/main.go":      "package main",
		"src/nested/a.txt": "a",
	}
	writeTree(t, a, files)
	writeTree(t, b, files)

	ha, err := HashTree(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, err := HashTree(b)
	if err != nil {
		t.Fatal(err)
	}
	if ha != hb {
		t.Fatalf("expected identical hashes, got %s vs %s", ha, hb)
	}
}

func TestHashTree_ExcludesGitDir(t *testing.T) {
	a := t.TempDir()
	writeTree(t, a, map[string]string{"README.md": "hello"})

	ha, err := HashTree(a)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Join(a, ".git", "objects"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(a, ".git", "HEAD"), []byte("ref: refs/heads/main"), 0o644); err != nil {
		t.Fatal(err)
	}

	hb, err := HashTree(a)
	if err != nil {
		t.Fatal(err)
	}
	if ha != hb {
		t.Fatalf("expected .git to be excluded from hash, got %s vs %s", ha, hb)
	}
}

func TestHashTree_DetectsContentChange(t *testing.T) {
	a := t.TempDir()
	writeTree(t, a, map[string]string{"README.md": "hello"})
	h1, err := HashTree(a)
	if err != nil {
		t.Fatal(err)
	}

	writeTree(t, a, map[string]string{"README.md": "goodbye"})
	h2, err := HashTree(a)
	if err != nil {
		t.Fatal(err)
	}

	if h1 == h2 {
		t.Fatal("expected hash to change when content changes")
	}
}

func TestHashTree_MissingRootIsEmpty(t *testing.T) {
	h, err := HashTree(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatal(err)
	}
	empty, err := HashTree(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if h != empty {
		t.Fatalf("expected missing root to hash the same as an empty dir, got %s vs %s", h, empty)
	}
}
