package orchestrator

import (
	"context"

	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/salterr"
)

// RemoveOptions carries `remove`'s parsed flags, per spec.md §6.
type RemoveOptions struct {
	DeleteFiles bool
	Force       bool
	DryRun      bool
}

// RemovePlan describes what Remove did (or, under DryRun, would do).
type RemovePlan struct {
	Name           string
	Path           string
	CloneDir       string
	DeletedFiles   bool
	DeletedClone   bool
	UnregisteredAt bool
}

// Remove implements spec.md §4.5 `remove`, supplemented with the
// --dry-run preview described in SPEC_FULL.md.
func (o *Orchestrator) Remove(ctx context.Context, name string, opts RemoveOptions) (RemovePlan, error) {
	s := o.cfg.Find(name)
	if s == nil {
		return RemovePlan{}, salterr.New(salterr.SubmoduleNotFound, "no such submodule: "+name)
	}

	cloneDir := o.CloneDir(s.Name)
	flatPath := o.FlatPath(s.Path)
	plan := RemovePlan{Name: s.Name, Path: s.Path, CloneDir: cloneDir}

	if opts.DeleteFiles && !opts.Force {
		dirty, err := gitexec.IsDirty(ctx, o.RepoRoot, s.Path)
		if err != nil {
			return plan, err
		}
		if dirty {
			return plan, salterr.New(salterr.UncommittedChanges, s.Path+" has uncommitted changes; pass --force to delete anyway")
		}
	}

	if opts.DryRun {
		plan.DeletedFiles = opts.DeleteFiles
		plan.DeletedClone = true
		plan.UnregisteredAt = true
		return plan, nil
	}

	if opts.DeleteFiles {
		if err := fsutil.RemoveTree(flatPath); err != nil {
			return plan, salterr.Wrap(salterr.IOError, "failed to remove "+s.Path, err)
		}
		plan.DeletedFiles = true
	}

	// Best effort: the parent tree may never have been a git repo, or
	// the path may already be untracked.
	_ = gitexec.RemoveCached(ctx, o.RepoRoot, s.Path)

	if err := fsutil.RemoveTree(cloneDir); err != nil {
		return plan, salterr.Wrap(salterr.IOError, "failed to remove hidden clone for "+s.Name, err)
	}
	plan.DeletedClone = true

	o.cfg.Remove(s.Name)
	if err := o.saveConfig(); err != nil {
		return plan, err
	}
	o.state.Remove(s.Name)
	if err := o.saveState(); err != nil {
		return plan, err
	}
	plan.UnregisteredAt = true

	return plan, nil
}
