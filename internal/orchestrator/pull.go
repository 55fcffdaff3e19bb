package orchestrator

import (
	"context"
	"errors"

	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/hashutil"
	"github.com/fverse/salt/internal/salterr"
)

// Pull implements spec.md §4.5 `pull`: fast-forward the hidden clone
// on its current branch and refresh the flat copy.
func (o *Orchestrator) Pull(ctx context.Context, name string) ([]Report, error) {
	submodules, err := o.submodulesFor(name)
	if err != nil {
		return nil, err
	}

	reports := runPerSubmodule(submodules, o.CI, func(s *config.Submodule) (string, error) {
		return o.pullOne(ctx, s)
	})
	return reports, nil
}

func (o *Orchestrator) pullOne(ctx context.Context, s *config.Submodule) (string, error) {
	cloneDir := o.CloneDir(s.Name)
	flatPath := o.FlatPath(s.Path)

	if !fsutil.Exists(cloneDir) {
		return "", salterr.New(salterr.SourceRepoNotFound, "hidden clone missing for "+s.Name)
	}

	branch, err := gitexec.CurrentBranch(ctx, cloneDir)
	if err != nil {
		return "", err
	}

	dirty, err := gitexec.IsDirty(ctx, cloneDir, "")
	if err != nil {
		return "", err
	}
	if dirty {
		return "", salterr.New(salterr.UncommittedChanges, "hidden clone for "+s.Name+" has uncommitted changes")
	}

	if err := gitexec.Pull(ctx, cloneDir, branch); err != nil {
		var se *salterr.Error
		if errors.As(err, &se) && se.Kind == salterr.MergeConflict {
			return "", se.AsSkip()
		}
		return "", err
	}

	if err := fsutil.ReplaceTree(cloneDir, flatPath); err != nil {
		return "", salterr.Wrap(salterr.IOError, "failed to copy hidden clone into "+s.Path, err)
	}

	head, err := gitexec.RevParseHEAD(ctx, cloneDir)
	if err != nil {
		return "", err
	}
	hash, err := hashutil.HashTree(flatPath)
	if err != nil {
		return "", salterr.Wrap(salterr.IOError, "failed to hash "+s.Path, err)
	}
	o.state.UpdateAfterSync(s.Name, head, hash, branch, now())
	if err := o.saveState(); err != nil {
		return "", err
	}

	return "pulled " + branch, nil
}
