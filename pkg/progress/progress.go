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

// Package progress turns the default human-readable output of an
// ansible-playbook run into structured, continuously updated per-host
// status. It is a pure line-at-a-time state machine: the caller owns the
// process (or log file) producing the output and feeds decoded lines in
// emission order.
package progress

import "strings"

// HostState identifies where a host currently is in the run.
type HostState string

const (
	StateWaiting     HostState = "waiting"
	StateRunning     HostState = "running"
	StateOK          HostState = "ok"
	StateChanged     HostState = "changed"
	StateFailed      HostState = "failed"
	StateUnreachable HostState = "unreachable"
	StateSkipped     HostState = "skipped"
	StateDone        HostState = "done"
)

// HostStatus is the cumulative outcome of one inventory host during a
// playbook run. Counters only grow from live result lines, with two
// exceptions: an "...ignoring" correction takes one failure back, and a
// recap line replaces all seven counters with Ansible's own totals.
type HostStatus struct {
	Identifier  string
	OK          int
	Changed     int
	Failed      int
	Skipped     int
	Unreachable int
	Rescued     int
	Ignored     int

	CurrentState HostState
	ErrorMsg     string
}

// TasksCompleted counts task outcomes for this host. Rescued, unreachable
// and ignored results are corrections or terminal events, not completions.
func (h *HostStatus) TasksCompleted() int {
	return h.OK + h.Changed + h.Failed + h.Skipped
}

// SummaryState returns the overall state for display. Worst status wins.
func (h *HostStatus) SummaryState() HostState {
	switch {
	case h.Unreachable > 0:
		return StateUnreachable
	case h.Failed > 0:
		return StateFailed
	case h.Changed > 0:
		return StateChanged
	case h.OK > 0:
		return StateOK
	default:
		return StateWaiting
	}
}

// PlaybookProgress is the live parsing state for one playbook run. It must
// be owned by a single goroutine (the reader loop); other goroutines get
// consistent copies via Snapshot.
type PlaybookProgress struct {
	Hosts       map[string]*HostStatus
	CurrentPlay string
	CurrentTask string
	TaskIndex   int
	InRecap     bool
	Finished    bool
	Warnings    []string
}

// New creates run state seeded with the host identifiers Ansible will
// print, exactly as they appear in the inventory. Lines naming hosts
// outside this set are consumed but change nothing.
func New(hosts []string) *PlaybookProgress {
	p := &PlaybookProgress{
		Hosts: make(map[string]*HostStatus, len(hosts)),
	}
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		p.Hosts[h] = &HostStatus{
			Identifier:   h,
			CurrentState: StateWaiting,
		}
	}
	return p
}

// Feed parses one output line. It reports whether the change warrants a
// UI refresh. Lines must arrive in emission order, one call per line,
// never concurrently. Unclassifiable lines are noise, not errors.
func (p *PlaybookProgress) Feed(line string) bool {
	line = strings.TrimRight(line, " \t\r\n")
	if line == "" {
		return false
	}

	for _, m := range lineMatchers {
		if m.guard != nil && !m.guard(p) {
			continue
		}
		groups := m.re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		return m.handle(p, groups)
	}
	return false
}

// host looks a host up by the exact printed token. Unknown hosts resolve
// to nil and the caller treats the line as matched-but-inert.
func (p *PlaybookProgress) host(name string) *HostStatus {
	return p.Hosts[strings.TrimSpace(name)]
}
