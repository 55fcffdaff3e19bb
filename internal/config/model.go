// Package config models salt.conf: the submodule list and their
// branch mappings, plus the parser and writer for the file's bespoke
// grammar. The file-discovery strategy (walk up from cwd, fall back
// to the starting directory) mirrors the teacher's internal/config.Initialize
// walking up from cwd to find .beads/config.yaml.
package config

import "fmt"

// Submodule is a configured submodule entry as declared in salt.conf.
// It satisfies the narrow structural shape spec.md §9 calls for
// resolve/classify to depend on: name, path, default branch, and
// mappings, modeled as one concrete type rather than an interface.
type Submodule struct {
	Name           string
	Path           string
	URL            string
	DefaultBranch  string
	Shallow        bool
	BranchMappings map[string]string
	// Comment holds any "#"-prefixed lines immediately preceding this
	// submodule's block, preserved across parse/emit round-trips.
	Comment string
}

// Config is the in-memory, ordered form of salt.conf.
type Config struct {
	// Submodules preserves declaration order from the file (or
	// insertion order for a config built programmatically); Name
	// uniqueness is enforced by Add.
	Submodules []*Submodule
}

// New returns an empty configuration.
func New() *Config {
	return &Config{}
}

// Find returns the submodule with the given name, or nil.
func (c *Config) Find(name string) *Submodule {
	for _, s := range c.Submodules {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Add appends submodule to the config. It returns an error if name is
// already taken, enforcing spec.md §3's uniqueness invariant.
func (c *Config) Add(s *Submodule) error {
	if c.Find(s.Name) != nil {
		return fmt.Errorf("submodule %q already exists in config", s.Name)
	}
	c.Submodules = append(c.Submodules, s)
	return nil
}

// Remove deletes the submodule with name from the config. Reports
// whether a submodule was found and removed.
func (c *Config) Remove(name string) bool {
	for i, s := range c.Submodules {
		if s.Name == name {
			c.Submodules = append(c.Submodules[:i], c.Submodules[i+1:]...)
			return true
		}
	}
	return false
}

// Validate checks the invariants spec.md §3 requires: name uniqueness
// and non-empty path/url/default_branch.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Submodules))
	for _, s := range c.Submodules {
		if s.Name == "" {
			return fmt.Errorf("submodule has empty name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate submodule name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Path == "" {
			return fmt.Errorf("submodule %q: path must not be empty", s.Name)
		}
		if s.URL == "" {
			return fmt.Errorf("submodule %q: url must not be empty", s.Name)
		}
		if s.DefaultBranch == "" {
			return fmt.Errorf("submodule %q: default_branch must not be empty", s.Name)
		}
	}
	return nil
}
