package orchestrator

import (
	"context"
	"fmt"

	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/hashutil"
	"github.com/fverse/salt/internal/resolver"
	"github.com/fverse/salt/internal/salterr"
)

// PushOptions carries `push`'s parsed flags, per spec.md §6.
type PushOptions struct {
	Force    bool
	AutoSync bool
}

// Push implements spec.md §4.5 `push`.
func (o *Orchestrator) Push(ctx context.Context, name string, opts PushOptions) ([]Report, error) {
	submodules, err := o.submodulesFor(name)
	if err != nil {
		return nil, err
	}

	parentBranch := o.ParentBranch(ctx)

	reports := runPerSubmodule(submodules, o.CI, func(s *config.Submodule) (string, error) {
		return o.pushOne(ctx, s, parentBranch, opts)
	})
	return reports, nil
}

func (o *Orchestrator) pushOne(ctx context.Context, s *config.Submodule, parentBranch string, opts PushOptions) (string, error) {
	st := o.state.Get(s.Name)
	if st == nil {
		return "", salterr.New(salterr.NoState, "no sync state for "+s.Name+"; run `salt sync` first")
	}

	expected := resolver.Resolve(resolverSubmodule(s), parentBranch)
	if st.SourceBranch != expected {
		switch {
		case opts.Force:
			// proceed with the stale tree as-is.
		case opts.AutoSync:
			if _, err := o.syncOne(ctx, s, parentBranch, false); err != nil {
				return "", err
			}
			st = o.state.Get(s.Name)
		default:
			return "", salterr.New(salterr.BranchMismatch, fmt.Sprintf("%s is STALE: synced from %q, parent branch now maps to %q", s.Name, st.SourceBranch, expected))
		}
	}

	cloneDir := o.CloneDir(s.Name)
	flatPath := o.FlatPath(s.Path)

	currentHash, err := hashutil.HashTree(flatPath)
	if err != nil {
		return "", salterr.Wrap(salterr.IOError, "failed to hash "+s.Path, err)
	}
	if currentHash == st.ParentFilesHash {
		return "", salterr.New(salterr.NoChanges, s.Name+" has no changes to push")
	}

	if err := fsutil.SyncTreeKeepGit(flatPath, cloneDir); err != nil {
		return "", salterr.Wrap(salterr.IOError, "failed to copy "+s.Path+" into hidden clone", err)
	}

	if err := gitexec.Add(ctx, cloneDir, "."); err != nil {
		return "", err
	}
	dirty, err := gitexec.IsDirty(ctx, cloneDir, "")
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", salterr.New(salterr.NoChanges, s.Name+" has no changes to push")
	}

	message := fmt.Sprintf("Update from parent repo (branch: %s)", parentBranch)
	if err := gitexec.Commit(ctx, cloneDir, message); err != nil {
		return "", err
	}

	branch, err := gitexec.CurrentBranch(ctx, cloneDir)
	if err != nil {
		return "", err
	}
	if err := gitexec.Push(ctx, cloneDir, branch); err != nil {
		return "", err
	}

	head, err := gitexec.RevParseHEAD(ctx, cloneDir)
	if err != nil {
		return "", err
	}
	hash, err := hashutil.HashTree(flatPath)
	if err != nil {
		return "", salterr.Wrap(salterr.IOError, "failed to hash "+s.Path, err)
	}
	o.state.UpdateAfterPush(s.Name, head, hash, now())
	if err := o.saveState(); err != nil {
		return "", err
	}

	return "pushed to " + branch, nil
}
