package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/fverse/salt/internal/salterr"
)

func sampleConfig() *Config {
	cfg := New()
	_ = cfg.Add(&Submodule{
		Name:          "widgets",
		Path:          "vendor/widgets",
		URL:           "https://example.com/widgets.git",
		DefaultBranch: "main",
		Shallow:       true,
		BranchMappings: map[string]string{
			"main":      "prod",
			"release/*": "prod/*",
			"dev":       "develop",
		},
	})
	_ = cfg.Add(&Submodule{
		Name:           "gadgets",
		Path:           "vendor/gadgets",
		URL:            "https://example.com/gadgets.git",
		DefaultBranch:  "master",
		Shallow:        false,
		BranchMappings: map[string]string{},
		Comment:        "pinned to the vendor fork",
	})
	return cfg
}

func TestRoundTrip(t *testing.T) {
	cfg := sampleConfig()
	text, err := EmitString(cfg)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse failed: %v\n--- emitted ---\n%s", err, text)
	}

	if len(parsed.Submodules) != len(cfg.Submodules) {
		t.Fatalf("expected %d submodules, got %d", len(cfg.Submodules), len(parsed.Submodules))
	}
	for i, want := range cfg.Submodules {
		got := parsed.Submodules[i]
		if got.Name != want.Name || got.Path != want.Path || got.URL != want.URL ||
			got.DefaultBranch != want.DefaultBranch || got.Shallow != want.Shallow {
			t.Fatalf("submodule %d mismatch: got %+v want %+v", i, got, want)
		}
		if len(got.BranchMappings) != len(want.BranchMappings) {
			t.Fatalf("submodule %d: mapping count mismatch: got %v want %v", i, got.BranchMappings, want.BranchMappings)
		}
		for k, v := range want.BranchMappings {
			if got.BranchMappings[k] != v {
				t.Fatalf("submodule %d: mapping %q: got %q want %q", i, k, got.BranchMappings[k], v)
			}
		}
		if got.Comment != want.Comment {
			t.Fatalf("submodule %d: comment mismatch: got %q want %q", i, got.Comment, want.Comment)
		}
	}
}

func TestParse_InlineCommentAndQuoting(t *testing.T) {
	text := `[submodule "x"]
  path = "vendor/x" # flattened copy
  url = 'https://example.com/x.git'
  default_branch = main
  shallow = true
`
	cfg, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	s := cfg.Find("x")
	if s == nil {
		t.Fatal("expected submodule x")
	}
	if s.Path != "vendor/x" {
		t.Fatalf("expected path to be stripped of quotes and comment, got %q", s.Path)
	}
	if s.URL != "https://example.com/x.git" {
		t.Fatalf("expected single-quoted url to be stripped, got %q", s.URL)
	}
	if !s.Shallow {
		t.Fatal("expected shallow = true")
	}
}

func TestParse_MissingFileIsConfigNotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing salt.conf")
	}
	var se *salterr.Error
	if !errors.As(err, &se) || se.Kind != salterr.ConfigNotFound {
		t.Fatalf("expected ConfigNotFound, got %v", err)
	}
}

func TestParse_DuplicateNameFails(t *testing.T) {
	text := `[submodule "x"]
  path = a
  url = u
  default_branch = main
  shallow = false

[submodule "x"]
  path = b
  url = u2
  default_branch = main
  shallow = false
`
	if _, err := Parse(strings.NewReader(text)); err == nil {
		t.Fatal("expected duplicate submodule name to fail")
	}
}
