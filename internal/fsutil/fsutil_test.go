package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyTree_ExcludesGit(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "dst")

	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(src, ".git", "objects"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyTree(src, dst); err != nil {
		t.Fatal(err)
	}

	if !Exists(filepath.Join(dst, "a.txt")) {
		t.Fatal("expected a.txt to be copied")
	}
	if Exists(filepath.Join(dst, ".git")) {
		t.Fatal("expected .git to be excluded")
	}
}

func TestReplaceTree_RemovesStaleFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.WriteFile(filepath.Join(dst, "stale.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "fresh.txt"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ReplaceTree(src, dst); err != nil {
		t.Fatal(err)
	}

	if Exists(filepath.Join(dst, "stale.txt")) {
		t.Fatal("expected stale file to be removed")
	}
	if !Exists(filepath.Join(dst, "fresh.txt")) {
		t.Fatal("expected fresh file to be copied")
	}
}

func TestSyncTreeKeepGit_PreservesGitDirAndDropsStaleFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dst, ".git", "objects"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dst, ".git", "HEAD"), []byte("ref: refs/heads/main"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dst, "stale.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "fresh.txt"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := SyncTreeKeepGit(src, dst); err != nil {
		t.Fatal(err)
	}

	if !Exists(filepath.Join(dst, ".git", "HEAD")) {
		t.Fatal("expected .git to survive a SyncTreeKeepGit call")
	}
	if Exists(filepath.Join(dst, "stale.txt")) {
		t.Fatal("expected stale file to be removed")
	}
	if !Exists(filepath.Join(dst, "fresh.txt")) {
		t.Fatal("expected fresh file to be copied")
	}
}

func TestAtomicWriteFile_OverwritesWithoutLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	if err := AtomicWriteFile(path, []byte(`{"v":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWriteFile(path, []byte(`{"v":2}`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"v":2}` {
		t.Fatalf("expected final content, got %s", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %v", entries)
	}
}
