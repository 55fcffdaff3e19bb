// Package statestore persists .salt/state.json: the per-submodule
// sync-state record described in spec.md §3-4.3. Loading is a plain
// JSON read, a missing file just means "nothing synced yet" rather
// than an error; saving uses a write-temp-then-rename so a crash
// mid-write never corrupts the previous contents, the way the
// teacher's internal/daemon.Registry persists registry.json.
package statestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/salterr"
)

// CurrentVersion is the on-disk schema version written by this build.
const CurrentVersion = "1.0"

// SubmoduleState is one submodule's persisted record, per spec.md §3.
type SubmoduleState struct {
	LastSyncCommit  string     `json:"last_sync_commit"`
	LastPushCommit  string     `json:"last_push_commit"`
	ParentFilesHash string     `json:"parent_files_hash"`
	SourceBranch    string     `json:"source_branch"`
	LastSyncTime    time.Time  `json:"last_sync_time"`
	LastPushTime    *time.Time `json:"last_push_time,omitempty"`
}

// State is the full persisted aggregate: a version tag plus one record
// per submodule name.
type State struct {
	Version    string                     `json:"version"`
	Submodules map[string]*SubmoduleState `json:"submodules"`
}

// New returns an empty state at the current schema version.
func New() *State {
	return &State{Version: CurrentVersion, Submodules: map[string]*SubmoduleState{}}
}

// Get returns the record for name, or nil if the submodule has never
// been synced (spec.md §3: "missing state ≡ never synced").
func (s *State) Get(name string) *SubmoduleState {
	return s.Submodules[name]
}

// Remove deletes name's record, if any.
func (s *State) Remove(name string) {
	delete(s.Submodules, name)
}

// Initialize sets name's record per the "add" mutation in spec.md
// §4.3: both commit fields start at headCommit, hash is the freshly
// computed parent-tree hash, source_branch is the initial branch, and
// last_push_time is unset.
func (s *State) Initialize(name, headCommit, parentHash, sourceBranch string, now time.Time) {
	s.Submodules[name] = &SubmoduleState{
		LastSyncCommit:  headCommit,
		LastPushCommit:  headCommit,
		ParentFilesHash: parentHash,
		SourceBranch:    sourceBranch,
		LastSyncTime:    now,
	}
}

// UpdateAfterSync applies the "sync/pull/resolve" mutation: refreshes
// the sync-side fields, leaves push-side fields untouched.
func (s *State) UpdateAfterSync(name, syncCommit, parentHash, sourceBranch string, now time.Time) {
	rec := s.ensure(name)
	rec.LastSyncCommit = syncCommit
	rec.ParentFilesHash = parentHash
	rec.SourceBranch = sourceBranch
	rec.LastSyncTime = now
}

// UpdateAfterPush applies the "push" mutation: refreshes the push-side
// fields, leaves sync-side fields untouched.
func (s *State) UpdateAfterPush(name, pushCommit, parentHash string, now time.Time) {
	rec := s.ensure(name)
	rec.LastPushCommit = pushCommit
	rec.ParentFilesHash = parentHash
	rec.LastPushTime = &now
}

func (s *State) ensure(name string) *SubmoduleState {
	rec, ok := s.Submodules[name]
	if !ok {
		rec = &SubmoduleState{}
		s.Submodules[name] = rec
	}
	return rec
}

// dir layout: <repoRoot>/.salt/state.json
func statePath(repoRoot string) string {
	return filepath.Join(repoRoot, ".salt", "state.json")
}

func lockPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".salt", "state.lock")
}

// Load reads .salt/state.json under repoRoot. A missing file returns
// a fresh empty state, not an error, per spec.md §4.3.
func Load(repoRoot string) (*State, error) {
	path := statePath(repoRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, salterr.Wrap(salterr.IOError, "failed to read .salt/state.json", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, salterr.Wrap(salterr.IOError, ".salt/state.json is corrupted", err)
	}
	if s.Submodules == nil {
		s.Submodules = map[string]*SubmoduleState{}
	}
	if s.Version == "" {
		s.Version = CurrentVersion
	}
	return &s, nil
}

// Save atomically persists s to .salt/state.json under repoRoot,
// holding an advisory file lock (gofrs/flock) for the duration of the
// write so two concurrent Save calls do not interleave. The lock is
// not held between Load and Save, so concurrent salt invocations can
// still overwrite each other's records; spec.md §5 only requires the
// write itself be atomic.
func Save(repoRoot string, s *State) error {
	saltDir := filepath.Join(repoRoot, ".salt")
	if err := fsutil.EnsureDir(saltDir); err != nil {
		return salterr.Wrap(salterr.IOError, "failed to create .salt directory", err)
	}

	fl := flock.New(lockPath(repoRoot))
	if err := fl.Lock(); err != nil {
		return salterr.Wrap(salterr.IOError, "failed to acquire state lock", err)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return salterr.Wrap(salterr.IOError, "failed to marshal state", err)
	}

	if err := fsutil.AtomicWriteFile(statePath(repoRoot), data, 0o644); err != nil {
		return salterr.Wrap(salterr.IOError, "failed to persist .salt/state.json", err)
	}
	return nil
}
