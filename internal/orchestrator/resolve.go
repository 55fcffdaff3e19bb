package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/hashutil"
	"github.com/fverse/salt/internal/salterr"
)

// ResolveResult is "RESOLVED" (freshly cloned) or "UPDATED" (existing
// hidden clone fetched/pulled), per spec.md §4.5 `resolve`.
type ResolveResult string

const (
	ResolveResultResolved ResolveResult = "RESOLVED"
	ResolveResultUpdated  ResolveResult = "UPDATED"
)

// Resolve implements spec.md §4.5 `resolve` for the named submodule,
// or every submodule when name is empty.
func (o *Orchestrator) Resolve(ctx context.Context, name string, force bool) ([]Report, error) {
	submodules, err := o.submodulesFor(name)
	if err != nil {
		return nil, err
	}

	reports := runPerSubmodule(submodules, o.CI, func(s *config.Submodule) (string, error) {
		result, nestedNotice, err := o.resolveOne(ctx, s, force)
		if err != nil {
			return "", err
		}
		detail := string(result)
		if nestedNotice != "" {
			detail += ": " + nestedNotice
		}
		return detail, nil
	})
	return reports, nil
}

func (o *Orchestrator) resolveOne(ctx context.Context, s *config.Submodule, force bool) (ResolveResult, string, error) {
	cloneDir := o.CloneDir(s.Name)
	flatPath := o.FlatPath(s.Path)

	var result ResolveResult
	if !fsutil.Exists(cloneDir) {
		if err := gitexec.Clone(ctx, cloneDir, s.URL, s.DefaultBranch, s.Shallow); err != nil {
			return "", "", err
		}
		result = ResolveResultResolved
	} else {
		// Fetch failure is a warning per spec.md, not fatal.
		_ = gitexec.Fetch(ctx, cloneDir)

		if err := gitexec.Checkout(ctx, cloneDir, s.DefaultBranch); err != nil {
			return "", "", err
		}
		if err := gitexec.Pull(ctx, cloneDir, s.DefaultBranch); err != nil {
			var se *salterr.Error
			if errors.As(err, &se) && se.Kind == salterr.MergeConflict {
				return "", "", err
			}
			// Other pull failures are warnings; continue with local state.
		}
		result = ResolveResultUpdated
	}

	if err := fsutil.ReplaceTree(cloneDir, flatPath); err != nil {
		return "", "", salterr.Wrap(salterr.IOError, "failed to copy hidden clone into "+s.Path, err)
	}

	head, err := gitexec.RevParseHEAD(ctx, cloneDir)
	if err != nil {
		return "", "", err
	}
	hash, err := hashutil.HashTree(flatPath)
	if err != nil {
		return "", "", salterr.Wrap(salterr.IOError, "failed to hash "+s.Path, err)
	}
	sourceBranch, err := gitexec.CurrentBranch(ctx, cloneDir)
	if err != nil {
		return "", "", err
	}
	o.state.UpdateAfterSync(s.Name, head, hash, sourceBranch, now())
	if err := o.saveState(); err != nil {
		return "", "", err
	}

	var nestedNotice string
	if fsutil.Exists(fmt.Sprintf("%s/salt.conf", flatPath)) {
		nestedNotice = fmt.Sprintf("nested salt.conf detected at %s/salt.conf (not recursed into)", s.Path)
	}

	return result, nestedNotice, nil
}

