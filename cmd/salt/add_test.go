package main

import (
	"testing"

	"github.com/spf13/pflag"
)

func newShallowFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	fs.Bool("shallow", true, "")
	fs.Bool("no-shallow", false, "")
	return fs
}

func TestResolveShallowFlag_NeitherPassed(t *testing.T) {
	shallow, set := resolveShallowFlag(newShallowFlagSet(), true)
	if set {
		t.Fatalf("expected unset when neither flag is passed, got shallow=%v set=%v", shallow, set)
	}
}

func TestResolveShallowFlag_NoShallowPassed(t *testing.T) {
	fs := newShallowFlagSet()
	if err := fs.Set("no-shallow", "true"); err != nil {
		t.Fatal(err)
	}
	shallow, set := resolveShallowFlag(fs, true)
	if !set || shallow {
		t.Fatalf("expected --no-shallow to produce shallow=false set=true, got shallow=%v set=%v", shallow, set)
	}
}

func TestResolveShallowFlag_ShallowExplicitlyFalse(t *testing.T) {
	fs := newShallowFlagSet()
	if err := fs.Set("shallow", "false"); err != nil {
		t.Fatal(err)
	}
	shallow, set := resolveShallowFlag(fs, false)
	if !set || shallow {
		t.Fatalf("expected --shallow=false to produce shallow=false set=true, got shallow=%v set=%v", shallow, set)
	}
}
