package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fverse/salt/internal/debug"
	"github.com/fverse/salt/internal/fsutil"
	"github.com/fverse/salt/internal/salterr"
)

// FileName is the conventional name of salt's config file.
const FileName = "salt.conf"

var submoduleHeader = regexp.MustCompile(`^\[submodule\s+"([^"]*)"\]$`)

// Discover walks upward from dir looking for salt.conf, the way the
// teacher's config loader walks up from cwd looking for
// .beads/config.yaml. It returns the directory containing salt.conf,
// or dir itself if none is found anywhere above it.
func Discover(dir string) string {
	for cur := dir; ; {
		candidate := filepath.Join(cur, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

// Load reads and parses salt.conf from dir. A missing file is reported
// as a ConfigNotFound error, distinct from the ConfigParseError of a
// malformed one. No caller treats a missing file specially: every
// command that opens an orchestrator, add included, fails without an
// existing salt.conf, and init checks for the file on its own.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, salterr.Wrap(salterr.ConfigNotFound, "salt.conf not found in "+dir, err)
		}
		return nil, salterr.Wrap(salterr.IOError, "failed to open salt.conf", err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := Parse(f)
	if err != nil {
		return nil, err
	}
	debug.Logf("config: loaded %d submodule(s) from %s\n", len(cfg.Submodules), path)
	return cfg, nil
}

// Save renders cfg and writes it to <dir>/salt.conf.
func Save(dir string, cfg *Config) error {
	var b strings.Builder
	if err := Emit(&b, cfg); err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	if err := fsutil.AtomicWriteFile(path, []byte(b.String()), 0o644); err != nil {
		return salterr.Wrap(salterr.IOError, "failed to write salt.conf", err)
	}
	return nil
}

// Parse reads salt.conf's bespoke grammar from r. See spec.md §6 for
// the grammar; strips matched surrounding quotes from values, honors
// "#" as an inline comment starter (unless inside quotes), and
// attaches immediately-preceding "#" comment lines to the following
// [submodule] block.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var current *Submodule
	var inBranches bool
	var pendingComment []string

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" {
			pendingComment = nil
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			pendingComment = append(pendingComment, strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			continue
		}

		if inBranches {
			if trimmed == "}" {
				inBranches = false
				continue
			}
			pattern, target, ok := splitArrow(stripInlineComment(trimmed))
			if !ok {
				return nil, salterr.New(salterr.ConfigParseError, fmt.Sprintf("salt.conf:%d: malformed branch mapping %q", lineNo, trimmed))
			}
			if current == nil {
				return nil, salterr.New(salterr.ConfigParseError, fmt.Sprintf("salt.conf:%d: branch mapping outside of a [submodule] block", lineNo))
			}
			current.BranchMappings[pattern] = target
			continue
		}

		if m := submoduleHeader.FindStringSubmatch(trimmed); m != nil {
			current = &Submodule{Name: m[1], BranchMappings: map[string]string{}}
			if len(pendingComment) > 0 {
				current.Comment = strings.Join(pendingComment, "\n")
				pendingComment = nil
			}
			if err := cfg.Add(current); err != nil {
				return nil, salterr.Wrap(salterr.ConfigParseError, fmt.Sprintf("salt.conf:%d", lineNo), err)
			}
			continue
		}

		pendingComment = nil

		if current == nil {
			return nil, salterr.New(salterr.ConfigParseError, fmt.Sprintf("salt.conf:%d: assignment outside of a [submodule] block: %q", lineNo, trimmed))
		}

		line := stripInlineComment(trimmed)
		key, value, ok := splitAssignment(line)
		if !ok {
			return nil, salterr.New(salterr.ConfigParseError, fmt.Sprintf("salt.conf:%d: malformed line %q", lineNo, trimmed))
		}

		switch key {
		case "path":
			current.Path = unquote(value)
		case "url":
			current.URL = unquote(value)
		case "default_branch":
			current.DefaultBranch = unquote(value)
		case "shallow":
			current.Shallow = unquote(value) == "true"
		case "branches":
			if strings.TrimSpace(value) != "{" {
				return nil, salterr.New(salterr.ConfigParseError, fmt.Sprintf("salt.conf:%d: expected 'branches = {'", lineNo))
			}
			inBranches = true
		default:
			return nil, salterr.New(salterr.ConfigParseError, fmt.Sprintf("salt.conf:%d: unknown key %q", lineNo, key))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, salterr.Wrap(salterr.IOError, "failed to read salt.conf", err)
	}
	if inBranches {
		return nil, salterr.New(salterr.ConfigParseError, "salt.conf: unterminated branches block")
	}

	if err := cfg.Validate(); err != nil {
		return nil, salterr.Wrap(salterr.ConfigParseError, "salt.conf failed validation", err)
	}
	return cfg, nil
}

// stripInlineComment removes a trailing "# ..." comment, honoring
// quotes so a "#" inside a quoted value is not treated as a comment
// starter.
func stripInlineComment(line string) string {
	inSingle, inDouble := false, false
	for i, r := range line {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble {
				return strings.TrimSpace(line[:i])
			}
		}
	}
	return strings.TrimSpace(line)
}

func splitAssignment(line string) (key, value string, ok bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func splitArrow(line string) (pattern, target string, ok bool) {
	idx := strings.Index(line, "->")
	if idx < 0 {
		return "", "", false
	}
	return unquote(strings.TrimSpace(line[:idx])), unquote(strings.TrimSpace(line[idx+2:])), true
}

// unquote strips one layer of matched surrounding single or double
// quotes, per spec.md §6.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
