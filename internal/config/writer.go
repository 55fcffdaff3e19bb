package config

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Emit renders cfg in salt.conf's grammar to w. Branch mappings are
// sorted by key so parse(Emit(c)) == c regardless of map iteration
// order, satisfying the round-trip property in spec.md §8.
func Emit(w io.Writer, cfg *Config) error {
	for i, s := range cfg.Submodules {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if s.Comment != "" {
			for _, line := range strings.Split(s.Comment, "\n") {
				if _, err := fmt.Fprintf(w, "# %s\n", line); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintf(w, "[submodule %q]\n", s.Name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  path = %q\n", s.Path); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  url = %q\n", s.URL); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  default_branch = %q\n", s.DefaultBranch); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  shallow = %t\n", s.Shallow); err != nil {
			return err
		}
		if len(s.BranchMappings) > 0 {
			if _, err := fmt.Fprintln(w, "  branches = {"); err != nil {
				return err
			}
			keys := make([]string, 0, len(s.BranchMappings))
			for k := range s.BranchMappings {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if _, err := fmt.Fprintf(w, "    %q -> %q\n", k, s.BranchMappings[k]); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, "  }"); err != nil {
				return err
			}
		}
	}
	return nil
}

// EmitString renders cfg to a string.
func EmitString(cfg *Config) (string, error) {
	var b strings.Builder
	if err := Emit(&b, cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}
