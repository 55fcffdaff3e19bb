package orchestrator

import (
	"context"
	"errors"

	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/hashutil"
	"github.com/fverse/salt/internal/resolver"
	"github.com/fverse/salt/internal/salterr"
)

// Sync implements spec.md §4.5 `sync` for the named submodule, or
// every submodule when name is empty.
func (o *Orchestrator) Sync(ctx context.Context, name string, force bool) ([]Report, error) {
	submodules, err := o.submodulesFor(name)
	if err != nil {
		return nil, err
	}

	parentBranch := o.ParentBranch(ctx)

	reports := runPerSubmodule(submodules, o.CI, func(s *config.Submodule) (string, error) {
		return o.syncOne(ctx, s, parentBranch, force)
	})
	return reports, nil
}

func (o *Orchestrator) syncOne(ctx context.Context, s *config.Submodule, parentBranch string, force bool) (string, error) {
	cloneDir := o.CloneDir(s.Name)
	flatPath := o.FlatPath(s.Path)

	if !fsutil.Exists(cloneDir) {
		return "", salterr.New(salterr.SourceRepoNotFound, "hidden clone missing for "+s.Name)
	}

	if !force {
		dirty, err := gitexec.IsDirty(ctx, o.RepoRoot, s.Path)
		if err != nil {
			return "", err
		}
		if dirty {
			return "", salterr.New(salterr.UncommittedChanges, "uncommitted changes under "+s.Path)
		}
	}

	target := resolver.Resolve(resolverSubmodule(s), parentBranch)

	// Fetch failure is a warning per spec.md.
	_ = gitexec.Fetch(ctx, cloneDir)

	if err := gitexec.Checkout(ctx, cloneDir, target); err != nil {
		return "", err
	}
	if err := gitexec.Pull(ctx, cloneDir, target); err != nil {
		var se *salterr.Error
		if errors.As(err, &se) && se.Kind == salterr.MergeConflict {
			return "", err
		}
		// Other pull failures are warnings; continue with local state.
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
	o.state.UpdateAfterSync(s.Name, head, hash, target, now())
	if err := o.saveState(); err != nil {
		return "", err
	}

	return "synced to " + target, nil
}
