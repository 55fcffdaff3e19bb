// Package classifier implements the SyncStatus decision in spec.md
// §4.4: a mostly-pure function over config, state, and a couple of
// live observations (the flat copy's content hash and the hidden
// clone's HEAD).
package classifier

import (
	"context"

	"github.com/fverse/salt/internal/gitexec"
	"github.com/fverse/salt/internal/hashutil"
	"github.com/fverse/salt/internal/resolver"
	"github.com/fverse/salt/internal/statestore"
)

// SyncStatus is one of the six states spec.md §1/§4.4 names.
type SyncStatus string

const (
	Synced   SyncStatus = "SYNCED"
	Dirty    SyncStatus = "DIRTY"
	Behind   SyncStatus = "BEHIND"
	Ahead    SyncStatus = "AHEAD"
	Diverged SyncStatus = "DIVERGED"
	Stale    SyncStatus = "STALE"
)

// Classify computes the SyncStatus for submodule s given its
// persisted state and the parent's current branch, observing the
// hidden clone at cloneDir and the flat copy at flatPath.
//
// AHEAD is never returned here: per spec.md §4.4 it is only
// observable during `status --verbose` via a remote ahead/behind
// comparison, computed separately by the orchestrator's status
// pipeline.
func Classify(ctx context.Context, s resolver.Submodule, state *statestore.SubmoduleState, parentBranch, cloneDir, flatPath string) (SyncStatus, error) {
	if state == nil {
		return Behind, nil
	}

	expected := resolver.Resolve(s, parentBranch)
	if state.SourceBranch != expected {
		return Stale, nil
	}

	currentHash, err := hashutil.HashTree(flatPath)
	if err != nil {
		return "", err
	}
	parentChanged := currentHash != state.ParentFilesHash

	head, err := gitexec.RevParseHEAD(ctx, cloneDir)
	if err != nil {
		return "", err
	}
	sourceChanged := head != state.LastSyncCommit

	switch {
	case parentChanged && sourceChanged:
		return Diverged, nil
	case parentChanged:
		return Dirty, nil
	case sourceChanged:
		return Behind, nil
	default:
		return Synced, nil
	}
}
