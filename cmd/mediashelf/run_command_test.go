package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"mediashelf/internal/organizer"
	"mediashelf/internal/workflow"
)

func TestSummaryLineSuggestsWorkDirRetry(t *testing.T) {
	published := workflow.SetResult{Name: "2024-06-05 Sunset", Library: organizer.Report{Video: organizer.OutcomeCopied}}
	deferred := workflow.SetResult{Name: "2024-06-06 Dawn", Library: organizer.Report{Video: organizer.OutcomeInUse}}
	failed := workflow.SetResult{Name: "2023-12-24 Eve", Stage: workflow.StageLibrary, Err: errors.New("missing album tag")}

	tests := []struct {
		name      string
		sets      []workflow.SetResult
		wantHint  bool
		wantCount string
	}{
		{name: "all published", sets: []workflow.SetResult{published}, wantCount: "1 published, 0 deferred, 0 failed"},
		{name: "deferred", sets: []workflow.SetResult{published, deferred}, wantHint: true, wantCount: "1 deferred"},
		{name: "failed", sets: []workflow.SetResult{failed}, wantHint: true, wantCount: "1 failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			line := summaryLine(workflow.Summary{Sets: tc.sets, Elapsed: 1500 * time.Millisecond}, false)
			requireContains(t, line, tc.wantCount)
			if got := strings.Contains(line, "--from-work-dir"); got != tc.wantHint {
				t.Fatalf("retry hint present=%v, want %v in %q", got, tc.wantHint, line)
			}
		})
	}
}
