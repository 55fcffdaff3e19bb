package ui

import (
	"fmt"
	"strings"

	"github.com/fverse/salt/internal/classifier"
	"github.com/fverse/salt/internal/orchestrator"
)

// statusSymbol returns the ✓/⚠/✗ indicator and style for a SyncStatus,
// per spec.md §7's "status indicators" requirement.
func statusSymbol(status classifier.SyncStatus) (string, func(string) string) {
	switch status {
	case classifier.Synced:
		return "✓", TableSuccessStyle.Render
	case classifier.Behind, classifier.Ahead:
		return "⚠", TableWarningStyle.Render
	case classifier.Dirty, classifier.Diverged, classifier.Stale:
		return "⚠", TableWarningStyle.Render
	default:
		return "✗", TableFailStyle.Render
	}
}

// Suggestion returns the actionable hint spec.md §4.5 `status` prints
// for a non-SYNCED row, or "" for SYNCED.
func Suggestion(status classifier.SyncStatus) string {
	switch status {
	case classifier.Synced:
		return ""
	case classifier.Behind:
		return "run `salt sync` to pull upstream changes"
	case classifier.Dirty:
		return "run `salt push` to publish local edits"
	case classifier.Ahead:
		return "hidden clone has unpushed commits; run `salt push`"
	case classifier.Diverged:
		return "run `salt pull` then `salt push` to reconcile"
	case classifier.Stale:
		return "parent branch mapping changed; run `salt sync --force`"
	default:
		return ""
	}
}

// RenderStatusTable renders a StatusReport as a human-readable table,
// colored when useColor is true.
func RenderStatusTable(report orchestrator.StatusReport, verbose, useColor bool) string {
	headers := []string{"", "NAME", "PATH", "BRANCH", "STATUS"}
	if verbose {
		headers = append(headers, "MODIFIED", "AHEAD", "BEHIND")
	}

	t := NewReportTable(GetWidth()).Headers(headers...)
	var suggestions []string

	for _, row := range report.Submodules {
		symbol, style := statusSymbol(row.Status)
		if !useColor {
			style = func(s string) string { return s }
		}

		branch := row.CurrentBranch
		if branch == "" {
			branch = "-"
		}

		cells := []string{style(symbol), row.Name, row.Path, branch, style(string(row.Status))}
		if verbose {
			cells = append(cells,
				fmt.Sprintf("%d", row.ModifiedFiles),
				fmt.Sprintf("%d", row.Ahead),
				fmt.Sprintf("%d", row.Behind),
			)
		}
		t.Row(cells...)

		if hint := Suggestion(row.Status); hint != "" {
			suggestions = append(suggestions, fmt.Sprintf("  %s: %s", row.Name, hint))
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("parent branch: %s\n\n", report.ParentBranch))
	b.WriteString(t.String())
	if len(suggestions) > 0 {
		b.WriteString("\n\nsuggestions:\n")
		b.WriteString(strings.Join(suggestions, "\n"))
	}
	return b.String()
}

// RenderReports renders a slice of per-submodule pipeline reports
// (from resolve/sync/pull/push) as a table with ✓/⚠/✗ outcome markers.
func RenderReports(reports []orchestrator.Report, useColor bool) string {
	t := NewReportTable(GetWidth()).Headers("", "NAME", "DETAIL")

	for _, r := range reports {
		symbol, style := "✓", TableSuccessStyle.Render
		switch r.Outcome {
		case orchestrator.OutcomeSkipped:
			symbol, style = "⚠", TableWarningStyle.Render
		case orchestrator.OutcomeFailed:
			symbol, style = "✗", TableFailStyle.Render
		}
		if !useColor {
			style = func(s string) string { return s }
		}

		detail := r.Detail
		if r.Err != nil && detail == "" {
			detail = r.Err.Error()
		}
		t.Row(style(symbol), r.Name, detail)
	}
	return t.String()
}
