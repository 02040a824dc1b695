/**
 * Copyright 2025 Advanced Micro Devices, Inc.  All rights reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
**/

// Package report renders run summaries from progress snapshots and
// archives finished runs to disk.
package report

import (
	"fmt"
	"strings"

	"github.com/silogen/playbook-pulse/pkg/progress"
)

// RunStats aggregates the per-host counters across the whole run.
type RunStats struct {
	OK          int
	Changed     int
	Failed      int
	Skipped     int
	Unreachable int
	Rescued     int
	Ignored     int
}

// Collect totals the counters of every host in the snapshot.
func Collect(snap progress.Snapshot) RunStats {
	var s RunStats
	for _, h := range snap.Hosts {
		s.OK += h.OK
		s.Changed += h.Changed
		s.Failed += h.Failed
		s.Skipped += h.Skipped
		s.Unreachable += h.Unreachable
		s.Rescued += h.Rescued
		s.Ignored += h.Ignored
	}
	return s
}

// HasFailures reports whether any host failed or became unreachable.
func (s RunStats) HasFailures() bool {
	return s.Failed > 0 || s.Unreachable > 0
}

// Summary returns a one-line formatted summary.
func (s RunStats) Summary() string {
	return fmt.Sprintf("%d ok, %d changed, %d failed, %d skipped, %d unreachable, %d rescued, %d ignored",
		s.OK, s.Changed, s.Failed, s.Skipped, s.Unreachable, s.Rescued, s.Ignored)
}

// RenderTable formats the per-host view as a plain-text table.
func RenderTable(snap progress.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-24s %-12s %-12s %5s %8s %7s %8s %12s  %s\n",
		"HOST", "STATE", "SUMMARY", "OK", "CHANGED", "FAILED", "SKIPPED", "UNREACHABLE", "ERROR")

	for _, h := range snap.SortedHosts() {
		fmt.Fprintf(&b, "%-24s %-12s %-12s %5d %8d %7d %8d %12d  %s\n",
			h.Identifier, h.CurrentState, h.SummaryState(),
			h.OK, h.Changed, h.Failed, h.Skipped, h.Unreachable, h.ErrorMsg)
	}

	return b.String()
}
