package main

import (
	"os"

	"github.com/fverse/salt/internal/config"
	"github.com/fverse/salt/internal/orchestrator"
	"github.com/fverse/salt/internal/ui"
)

// openOrchestrator discovers the nearest salt.conf upward from the
// current directory and loads an Orchestrator rooted there.
func openOrchestrator(ci bool) (*orchestrator.Orchestrator, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root := config.Discover(cwd)
	o, err := orchestrator.Open(root)
	if err != nil {
		return nil, err
	}
	o.CI = ci
	return o, nil
}

// useColor reports whether output should be colored, honoring --quiet
// and the standard NO_COLOR/CLICOLOR conventions.
func useColor() bool {
	return !quiet && ui.ShouldUseColor()
}

// firstFatal returns the first non-skip failure among reports, so the
// CLI's exit code reflects spec.md §6: 0 only when every submodule
// either succeeded or was deliberately skipped.
func firstFatal(reports []orchestrator.Report) error {
	for _, r := range reports {
		if r.Outcome == orchestrator.OutcomeFailed {
			return r.Err
		}
	}
	return nil
}

