// Package orchestrator implements the seven command pipelines of
// spec.md §4.5: add, resolve, sync, pull, push, remove, status. Each
// pipeline coordinates the hidden clone, the flat copy in the parent
// tree, and the persisted state under a specific ordering and failure
// policy; the CLI layer (cmd/salt) is a thin cobra wrapper over these.
package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/resolver"
	"github.com/fverse/salt/internal/salterr"
	"github.com/fverse/salt/internal/statestore"
)

// Orchestrator holds the parent repository root and carries the
// loaded config/state across a single command invocation, mirroring
// spec.md §4.5's "all commands first load config and state" rule.
type Orchestrator struct {
	RepoRoot string
	CI       bool

	cfg   *config.Config
	state *statestore.State
}

// Open loads salt.conf and .salt/state.json from repoRoot.
func Open(repoRoot string) (*Orchestrator, error) {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		return nil, err
	}
	st, err := statestore.Load(repoRoot)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{RepoRoot: repoRoot, cfg: cfg, state: st}, nil
}

// Config returns the loaded configuration.
func (o *Orchestrator) Config() *config.Config { return o.cfg }

// State returns the loaded state.
func (o *Orchestrator) State() *statestore.State { return o.state }

func (o *Orchestrator) saveState() error {
	return statestore.Save(o.RepoRoot, o.state)
}

func (o *Orchestrator) saveConfig() error {
	return config.Save(o.RepoRoot, o.cfg)
}

// CloneDir returns the hidden clone's path for a submodule name.
func (o *Orchestrator) CloneDir(name string) string {
	return filepath.Join(o.RepoRoot, ".salt", "repos", name)
}

// ReposDir returns the directory holding all hidden clones.
func (o *Orchestrator) ReposDir() string {
	return filepath.Join(o.RepoRoot, ".salt", "repos")
}

// FlatPath returns the absolute flat-copy path inside the parent tree
// for a submodule's configured (relative) path.
func (o *Orchestrator) FlatPath(relPath string) string {
	return filepath.Join(o.RepoRoot, relPath)
}

// ParentBranch returns the branch currently checked out in the parent
// repository. If the parent tree isn't a git repository (spec.md §1:
// "Salt may be used outside a Git parent"), it falls back to "main".
func (o *Orchestrator) ParentBranch(ctx context.Context) string {
	branch, err := gitexec.CurrentParentBranch(ctx, o.RepoRoot)
	if err != nil || branch == "" {
		return "main"
	}
	return branch
}

func resolverSubmodule(s *config.Submodule) resolver.Submodule {
	return resolver.Submodule{
		Name:           s.Name,
		DefaultBranch:  s.DefaultBranch,
		BranchMappings: s.BranchMappings,
	}
}

// submodulesFor resolves the name/all selection shared by resolve,
// sync, pull, push, status: a specific submodule by name, or every
// configured submodule in declaration order when name is empty.
func (o *Orchestrator) submodulesFor(name string) ([]*config.Submodule, error) {
	if name == "" {
		return o.cfg.Submodules, nil
	}
	s := o.cfg.Find(name)
	if s == nil {
		return nil, salterr.New(salterr.SubmoduleNotFound, "no such submodule: "+name)
	}
	return []*config.Submodule{s}, nil
}

// deriveNameFromURL mirrors common git-submodule UX: the last path
// segment with a trailing ".git" stripped.
func deriveNameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	idx := strings.LastIndexAny(url, "/:")
	if idx < 0 {
		return url
	}
	return url[idx+1:]
}

func now() time.Time {
	return time.Now().UTC()
}

// OpOutcome tags what happened to one submodule within a multi-submodule
// run, used by resolve/sync/pull/push to report per-submodule results
// and by the CLI to decide whether to keep accumulating errors or stop.
type OpOutcome string

const (
	OutcomeOK      OpOutcome = "ok"
	OutcomeSkipped OpOutcome = "skipped"
	OutcomeFailed  OpOutcome = "failed"
)

// Report is one submodule's result from a multi-submodule pipeline.
type Report struct {
	Name    string
	Outcome OpOutcome
	Detail  string
	Err     error
}

// runPerSubmodule iterates submodules in declaration order, invoking fn
// for each. A *salterr.Error with Skip()==true becomes a Skipped
// report and never halts the run. Any other error becomes a Failed
// report; under CI the run stops at the first one, mirroring spec.md
// §5's "a fatal error on one submodule under --ci halts the run
// immediately; without --ci, errors accumulate and subsequent
// submodules continue."
func runPerSubmodule(submodules []*config.Submodule, ci bool, fn func(*config.Submodule) (string, error)) []Report {
	reports := make([]Report, 0, len(submodules))
	for _, s := range submodules {
		detail, err := fn(s)
		if err == nil {
			reports = append(reports, Report{Name: s.Name, Outcome: OutcomeOK, Detail: detail})
			continue
		}

		var se *salterr.Error
		if errors.As(err, &se) && se.Skip() {
			reports = append(reports, Report{Name: s.Name, Outcome: OutcomeSkipped, Detail: se.Message, Err: err})
			continue
		}

		reports = append(reports, Report{Name: s.Name, Outcome: OutcomeFailed, Detail: detail, Err: err})
		if ci {
			break
		}
	}
	return reports
}
