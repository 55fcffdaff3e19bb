// Package gitexec is salt's git facade: typed wrappers around the git
// subprocess that classify stderr into the error kinds the
// orchestrator reacts to. Salt never links a git implementation in
// process; every call here shells out, the way
// other_examples' submodule helpers run "git -C <dir> ...".
package gitexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/fverse/salt/internal/salterr"
)

// Suggested timeouts from spec.md §5. Zero means no timeout.
const (
	CloneTimeout    = 300 * time.Second
	PullPushTimeout = 120 * time.Second
	NoTimeout       = 0
)

// Result carries the captured output of a git invocation.
type Result struct {
	Stdout string
	Stderr string
}

// run executes `git <args...>` with working directory dir. A zero
// timeout means the subprocess runs unbounded (suitable for local,
// non-network queries).
func run(ctx context.Context, dir string, timeout time.Duration, args ...string) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctx.Err() == context.DeadlineExceeded {
		return res, salterr.Wrap(salterr.Timeout, fmt.Sprintf("git %s timed out after %s", strings.Join(args, " "), timeout), ctx.Err())
	}
	if err != nil {
		return res, classify(args, res.Stderr, err)
	}
	return res, nil
}

// classify turns a raw *exec.ExitError plus the command's stderr into
// one of the tagged error kinds the orchestrator understands.
func classify(args []string, stderr string, cause error) error {
	lower := strings.ToLower(stderr)
	verb := ""
	if len(args) > 0 {
		verb = args[0]
	}

	switch {
	case strings.Contains(lower, "merge conflict") ||
		strings.Contains(lower, "automatic merge failed") ||
		strings.Contains(lower, "conflict (content)"):
		return salterr.Wrap(salterr.MergeConflict, "merge conflict in hidden clone", cause)
	case verb == "clone":
		return salterr.Wrap(salterr.CloneFailed, "git clone failed: "+strings.TrimSpace(stderr), cause)
	case verb == "checkout":
		return salterr.Wrap(salterr.CheckoutFailed, "git checkout failed: "+strings.TrimSpace(stderr), cause)
	case verb == "pull":
		return salterr.Wrap(salterr.PullFailed, "git pull failed: "+strings.TrimSpace(stderr), cause)
	case verb == "push":
		if strings.Contains(lower, "no upstream branch") {
			return salterr.Wrap(salterr.PushFailed, "no upstream branch configured", cause)
		}
		if strings.Contains(lower, "non-fast-forward") || strings.Contains(lower, "fetch first") || strings.Contains(lower, "rejected") {
			return salterr.Wrap(salterr.PushFailed, "push rejected (non-fast-forward)", cause)
		}
		return salterr.Wrap(salterr.PushFailed, "git push failed: "+strings.TrimSpace(stderr), cause)
	default:
		return salterr.Wrap(salterr.GitCommandFailed, fmt.Sprintf("git %s failed: %s", strings.Join(args, " "), strings.TrimSpace(stderr)), cause)
	}
}

// Clone clones url into dir. Shallow clones use --depth 1
// --single-branch, per spec.md §4.5 `add`.
func Clone(ctx context.Context, dir, url, branch string, shallow bool) error {
	args := []string{"clone"}
	if shallow {
		args = append(args, "--depth", "1", "--branch", branch, "--single-branch")
	} else {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dir)

	// The clone target doesn't exist yet, so run in the process's
	// working directory and pass dir to git as the destination.
	_, err := run(ctx, "", CloneTimeout, args...)
	return err
}

// Fetch runs `git fetch origin` inside dir. Callers treat failure as a
// warning per spec.md, not fatal.
func Fetch(ctx context.Context, dir string) error {
	_, err := run(ctx, dir, PullPushTimeout, "fetch", "origin")
	return err
}

// Checkout switches dir's working tree to branch.
func Checkout(ctx context.Context, dir, branch string) error {
	_, err := run(ctx, dir, NoTimeout, "checkout", branch)
	return err
}

// Pull runs `git pull origin <branch>` inside dir.
func Pull(ctx context.Context, dir, branch string) error {
	_, err := run(ctx, dir, PullPushTimeout, "pull", "origin", branch)
	return err
}

// Push runs `git push origin <branch>` inside dir.
func Push(ctx context.Context, dir, branch string) error {
	_, err := run(ctx, dir, PullPushTimeout, "push", "origin", branch)
	return err
}

// Add stages paths (or everything, with ".") inside dir.
func Add(ctx context.Context, dir string, paths ...string) error {
	args := append([]string{"add"}, paths...)
	_, err := run(ctx, dir, NoTimeout, args...)
	return err
}

// Commit creates a commit with message in dir.
func Commit(ctx context.Context, dir, message string) error {
	_, err := run(ctx, dir, NoTimeout, "commit", "-m", message)
	return err
}

// RevParseHEAD returns the current commit id of dir's HEAD.
func RevParseHEAD(ctx context.Context, dir string) (string, error) {
	res, err := run(ctx, dir, NoTimeout, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// CurrentBranch returns the branch checked out in dir.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	res, err := run(ctx, dir, NoTimeout, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// PorcelainStatus returns the `git status --porcelain` output for dir,
// optionally scoped to a sub-path.
func PorcelainStatus(ctx context.Context, dir string, path string) (string, error) {
	args := []string{"status", "--porcelain"}
	if path != "" {
		args = append(args, "--", path)
	}
	res, err := run(ctx, dir, NoTimeout, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// IsDirty reports whether dir (optionally scoped to path) has
// uncommitted changes.
func IsDirty(ctx context.Context, dir string, path string) (bool, error) {
	out, err := PorcelainStatus(ctx, dir, path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// ModifiedFileCount counts the lines of `git status --porcelain
// <path>`, i.e. the number of modified files under path.
func ModifiedFileCount(ctx context.Context, dir, path string) (int, error) {
	out, err := PorcelainStatus(ctx, dir, path)
	if err != nil {
		return 0, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return 0, nil
	}
	return len(strings.Split(out, "\n")), nil
}

// AheadBehind returns (ahead, behind) counts between localBranch and
// origin/remoteBranch, best-effort: any failure yields (0, 0, err).
func AheadBehind(ctx context.Context, dir, localBranch, remoteBranch string) (ahead, behind int, err error) {
	spec := fmt.Sprintf("%s...origin/%s", localBranch, remoteBranch)
	res, rErr := run(ctx, dir, NoTimeout, "rev-list", "--left-right", "--count", spec)
	if rErr != nil {
		return 0, 0, rErr
	}
	fields := strings.Fields(strings.TrimSpace(res.Stdout))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", res.Stdout)
	}
	if _, err := fmt.Sscanf(fields[0], "%d", &ahead); err != nil {
		return 0, 0, err
	}
	if _, err := fmt.Sscanf(fields[1], "%d", &behind); err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// BranchExists reports whether branch exists locally or on origin in dir.
func BranchExists(ctx context.Context, dir, branch string) bool {
	if _, err := run(ctx, dir, NoTimeout, "show-ref", "--verify", "--quiet", "refs/heads/"+branch); err == nil {
		return true
	}
	_, err := run(ctx, dir, NoTimeout, "show-ref", "--verify", "--quiet", "refs/remotes/origin/"+branch)
	return err == nil
}

// AddPath registers path with the parent repository's index (best
// effort; spec.md §4.5 `add` step 5 is explicitly non-fatal).
func AddPath(ctx context.Context, parentDir, path string) error {
	_, err := run(ctx, parentDir, NoTimeout, "add", path)
	return err
}

// RemoveCached removes path from the parent repository's index
// without deleting the working tree files.
func RemoveCached(ctx context.Context, parentDir, path string) error {
	_, err := run(ctx, parentDir, NoTimeout, "rm", "-r", "--cached", path)
	return err
}

// CurrentParentBranch returns the branch currently checked out in the
// parent repository rooted at dir.
func CurrentParentBranch(ctx context.Context, dir string) (string, error) {
	return CurrentBranch(ctx, dir)
}
