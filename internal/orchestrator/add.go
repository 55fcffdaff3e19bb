package orchestrator

import (
	"context"

	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/hashutil"
	"github.com/fverse/salt/internal/salterr"
)

// AddOptions carries `add`'s parsed flags, per spec.md §6.
type AddOptions struct {
	URL     string
	Path    string // empty -> defaults to Name
	Branch  string // empty -> "main"
	Name    string // empty -> derived from URL
	Shallow bool
	// ShallowSet distinguishes "not passed" from "explicitly false",
	// since Shallow's spec-mandated default is true.
	ShallowSet bool
}

// Add implements spec.md §4.5 `add`.
func (o *Orchestrator) Add(ctx context.Context, opts AddOptions) (*config.Submodule, error) {
	name := opts.Name
	if name == "" {
		name = deriveNameFromURL(opts.URL)
	}
	path := opts.Path
	if path == "" {
		path = name
	}
	branch := opts.Branch
	if branch == "" {
		branch = "main"
	}
	shallow := true
	if opts.ShallowSet {
		shallow = opts.Shallow
	}

	flatPath := o.FlatPath(path)
	if fsutil.Exists(flatPath) {
		return nil, salterr.New(salterr.PathAlreadyExists, "path already exists: "+path)
	}
	cloneDir := o.CloneDir(name)
	if fsutil.Exists(cloneDir) {
		return nil, salterr.New(salterr.SubmoduleAlreadyExists, "hidden clone already exists for: "+name)
	}

	if err := fsutil.EnsureDir(o.ReposDir()); err != nil {
		return nil, salterr.Wrap(salterr.IOError, "failed to create .salt/repos", err)
	}

	if err := gitexec.Clone(ctx, cloneDir, opts.URL, branch, shallow); err != nil {
		return nil, err
	}

	if err := fsutil.CopyTree(cloneDir, flatPath); err != nil {
		return nil, salterr.Wrap(salterr.IOError, "failed to copy hidden clone into "+path, err)
	}

	// Registering the flat path with the parent's index is best-effort:
	// salt may be used outside a git parent repository (spec.md §4.5
	// step 5).
	_ = gitexec.AddPath(ctx, o.RepoRoot, path)

	sub := &config.Submodule{
		Name:           name,
		Path:           path,
		URL:            opts.URL,
		DefaultBranch:  branch,
		Shallow:        shallow,
		BranchMappings: map[string]string{},
	}
	if err := o.cfg.Add(sub); err != nil {
		return nil, salterr.Wrap(salterr.ConfigParseError, "failed to register submodule", err)
	}
	if err := o.saveConfig(); err != nil {
		return nil, err
	}

	head, err := gitexec.RevParseHEAD(ctx, cloneDir)
	if err != nil {
		return nil, err
	}
	hash, err := hashutil.HashTree(flatPath)
	if err != nil {
		return nil, salterr.Wrap(salterr.IOError, "failed to hash "+path, err)
	}
	sourceBranch, err := gitexec.CurrentBranch(ctx, cloneDir)
	if err != nil {
		return nil, err
	}

	o.state.Initialize(name, head, hash, sourceBranch, now())
	if err := o.saveState(); err != nil {
		return nil, err
	}

	return sub, nil
}
