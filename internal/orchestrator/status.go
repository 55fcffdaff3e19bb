package orchestrator

import (
	"context"

	"github.com/fverse/salt/internal/classifier"
	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/resolver"
	"github.com/fverse/salt/internal/statestore"
)

// SubmoduleStatus is one row of the `status` report, shaped to match
// the `status --json` schema in spec.md §6.
type SubmoduleStatus struct {
	Name           string                `json:"name"`
	Path           string                `json:"path"`
	CurrentBranch  string                `json:"current_branch"`
	ExpectedBranch string                `json:"expected_branch"`
	Status         classifier.SyncStatus `json:"status"`
	ModifiedFiles  int                   `json:"modified_files"`
	Ahead          int                   `json:"ahead"`
	Behind         int                   `json:"behind"`
	Exists         bool                  `json:"exists"`
}

// StatusReport is the full `status --json` document.
type StatusReport struct {
	Version      string            `json:"version"`
	ParentBranch string            `json:"parent_branch"`
	Submodules   []SubmoduleStatus `json:"submodules"`
}

// Status implements spec.md §4.5 `status`.
func (o *Orchestrator) Status(ctx context.Context, name string, verbose bool) (StatusReport, error) {
	submodules, err := o.submodulesFor(name)
	if err != nil {
		return StatusReport{}, err
	}

	parentBranch := o.ParentBranch(ctx)
	report := StatusReport{Version: statestore.CurrentVersion, ParentBranch: parentBranch}

	for _, s := range submodules {
		row, err := o.statusOne(ctx, s, parentBranch, verbose)
		if err != nil {
			return report, err
		}
		report.Submodules = append(report.Submodules, row)
	}
	return report, nil
}

func (o *Orchestrator) statusOne(ctx context.Context, s *config.Submodule, parentBranch string, verbose bool) (SubmoduleStatus, error) {
	cloneDir := o.CloneDir(s.Name)
	flatPath := o.FlatPath(s.Path)
	expected := resolver.Resolve(resolverSubmodule(s), parentBranch)

	row := SubmoduleStatus{
		Name:           s.Name,
		Path:           s.Path,
		ExpectedBranch: expected,
		Exists:         fsutil.Exists(cloneDir),
	}

	if !row.Exists {
		row.Status = classifier.Behind
		return row, nil
	}

	st := o.state.Get(s.Name)
	status, err := classifier.Classify(ctx, resolverSubmodule(s), st, parentBranch, cloneDir, flatPath)
	if err != nil {
		return row, err
	}
	row.Status = status

	if branch, err := gitexec.CurrentBranch(ctx, cloneDir); err == nil {
		row.CurrentBranch = branch
	}

	if verbose {
		if count, err := gitexec.ModifiedFileCount(ctx, o.RepoRoot, s.Path); err == nil {
			row.ModifiedFiles = count
		}
		_ = gitexec.Fetch(ctx, cloneDir)
		if ahead, behind, err := gitexec.AheadBehind(ctx, cloneDir, expected, expected); err == nil {
			row.Ahead = ahead
			row.Behind = behind
			if ahead > 0 && row.ModifiedFiles == 0 && row.Status == classifier.Synced {
				row.Status = classifier.Ahead
			}
		}
	}

	return row, nil
}
