//go:build integration
// +build integration

package classifier

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/fverse/salt/internal/hashutil"
	"github.com/fverse/salt/internal/resolver"
	"github.com/fverse/salt/internal/statestore"
)

func runGitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed in %s: %v\n%s", args, dir, err, out)
	}
}

func initRepoWithFlatCopy(t *testing.T) (cloneDir, flatPath string) {
	t.Helper()
	cloneDir = t.TempDir()
	runGitCmd(t, cloneDir, "init", "-b", "main")
	runGitCmd(t, cloneDir, "config", "user.email", "test@example.com")
	runGitCmd(t, cloneDir, "config", "user.name", "Test User")
	if err := os.WriteFile(filepath.Join(cloneDir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGitCmd(t, cloneDir, "add", ".")
	runGitCmd(t, cloneDir, "commit", "-m", "initial")

	flatPath = t.TempDir()
	if err := os.WriteFile(filepath.Join(flatPath, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	return cloneDir, flatPath
}

func headOf(t *testing.T, dir string) string {
	t.Helper()
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatal(err)
	}
	return string(out[:40])
}

func TestClassify_NoStateIsBehind(t *testing.T) {
	cloneDir, flatPath := initRepoWithFlatCopy(t)
	s := resolver.Submodule{Name: "x", DefaultBranch: "main"}
	status, err := Classify(context.Background(), s, nil, "main", cloneDir, flatPath)
	if err != nil {
		t.Fatal(err)
	}
	if status != Behind {
		t.Fatalf("expected BEHIND for missing state, got %s", status)
	}
}

func TestClassify_Synced(t *testing.T) {
	cloneDir, flatPath := initRepoWithFlatCopy(t)
	s := resolver.Submodule{Name: "x", DefaultBranch: "main"}

	hash, err := hashutil.HashTree(flatPath)
	if err != nil {
		t.Fatal(err)
	}
	state := &statestore.SubmoduleState{
		LastSyncCommit:  headOf(t, cloneDir),
		ParentFilesHash: hash,
		SourceBranch:    "main",
		LastSyncTime:    time.Now(),
	}

	status, err := Classify(context.Background(), s, state, "main", cloneDir, flatPath)
	if err != nil {
		t.Fatal(err)
	}
	if status != Synced {
		t.Fatalf("expected SYNCED, got %s", status)
	}
}

func TestClassify_StaleDominatesOtherChanges(t *testing.T) {
	cloneDir, flatPath := initRepoWithFlatCopy(t)
	s := resolver.Submodule{
		Name:           "x",
		DefaultBranch:  "main",
		BranchMappings: map[string]string{"dev": "develop"},
	}

	hash, err := hashutil.HashTree(flatPath)
	if err != nil {
		t.Fatal(err)
	}
	state := &statestore.SubmoduleState{
		LastSyncCommit:  headOf(t, cloneDir),
		ParentFilesHash: hash,
		SourceBranch:    "main", // stale relative to parent branch "dev" -> "develop"
		LastSyncTime:    time.Now(),
	}

	// A parent-side edit that would otherwise classify as DIRTY.
	if err := os.WriteFile(filepath.Join(flatPath, "a.txt"), []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	status, err := Classify(context.Background(), s, state, "dev", cloneDir, flatPath)
	if err != nil {
		t.Fatal(err)
	}
	if status != Stale {
		t.Fatalf("expected STALE, got %s", status)
	}
}

func TestClassify_Dirty(t *testing.T) {
	cloneDir, flatPath := initRepoWithFlatCopy(t)
	s := resolver.Submodule{Name: "x", DefaultBranch: "main"}

	hash, err := hashutil.HashTree(flatPath)
	if err != nil {
		t.Fatal(err)
	}
	state := &statestore.SubmoduleState{
		LastSyncCommit:  headOf(t, cloneDir),
		ParentFilesHash: hash,
		SourceBranch:    "main",
		LastSyncTime:    time.Now(),
	}

	if err := os.WriteFile(filepath.Join(flatPath, "a.txt"), []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	status, err := Classify(context.Background(), s, state, "main", cloneDir, flatPath)
	if err != nil {
		t.Fatal(err)
	}
	if status != Dirty {
		t.Fatalf("expected DIRTY, got %s", status)
	}
}

func TestClassify_BehindAndDiverged(t *testing.T) {
	cloneDir, flatPath := initRepoWithFlatCopy(t)
	s := resolver.Submodule{Name: "x", DefaultBranch: "main"}

	hash, err := hashutil.HashTree(flatPath)
	if err != nil {
		t.Fatal(err)
	}
	state := &statestore.SubmoduleState{
		LastSyncCommit:  headOf(t, cloneDir),
		ParentFilesHash: hash,
		SourceBranch:    "main",
		LastSyncTime:    time.Now(),
	}

	// Upstream-side change: a new commit in the hidden clone.
	if err := os.WriteFile(filepath.Join(cloneDir, "b.txt"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGitCmd(t, cloneDir, "add", ".")
	runGitCmd(t, cloneDir, "commit", "-m", "upstream change")

	status, err := Classify(context.Background(), s, state, "main", cloneDir, flatPath)
	if err != nil {
		t.Fatal(err)
	}
	if status != Behind {
		t.Fatalf("expected BEHIND, got %s", status)
	}

	// Now also dirty the parent tree -> DIVERGED.
	if err := os.WriteFile(filepath.Join(flatPath, "a.txt"), []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}
	status, err = Classify(context.Background(), s, state, "main", cloneDir, flatPath)
	if err != nil {
		t.Fatal(err)
	}
	if status != Diverged {
		t.Fatalf("expected DIVERGED, got %s", status)
	}
}
