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

package progress

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Match "PLAY [site] ****"
	playRegex = regexp.MustCompile(`^PLAY \[(.+?)\]`)

	// Match "TASK [task name] ****"
	taskRegex = regexp.MustCompile(`^TASK \[(.+?)\]`)

	// Match result lines like "ok: [127.0.0.1]", possibly indented under a block
	okRegex      = regexp.MustCompile(`^\s*ok: \[(.+?)\]`)
	changedRegex = regexp.MustCompile(`^\s*changed: \[(.+?)\]`)
	skipRegex    = regexp.MustCompile(`^\s*skipping: \[(.+?)\]`)
	rescuedRegex = regexp.MustCompile(`^\s*rescued: \[(.+?)\]`)

	// Match "fatal: [host]: FAILED! => {...}" and the UNREACHABLE variant
	fatalRegex = regexp.MustCompile(`^\s*fatal: \[(.+?)\]:\s+(FAILED|UNREACHABLE)!\s*=>\s*(.*)`)

	// Match "...ignoring" after a failed task with ignore_errors: true.
	// Some callback versions include the host ("...ignoring: [h1]"),
	// some emit the bare marker.
	ignoredRegex = regexp.MustCompile(`^\s*(?:\.\.\.ignoring:?|ignoring:)\s*(?:\[(.+?)\])?`)

	// Match the "PLAY RECAP" boundary and its per-host data lines
	recapRegex     = regexp.MustCompile(`^PLAY RECAP\b`)
	recapLineRegex = regexp.MustCompile(`^(\S+)\s+:\s+ok=(\d+)\s+changed=(\d+)\s+unreachable=(\d+)\s+failed=(\d+)\s+skipped=(\d+)\s+rescued=(\d+)\s+ignored=(\d+)`)

	warningRegex = regexp.MustCompile(`^\[WARNING\]:\s*(.+)`)
)

// lineMatcher pairs one line shape with its state mutation. The handler
// reports whether the mutation warrants a UI refresh.
type lineMatcher struct {
	re     *regexp.Regexp
	guard  func(*PlaybookProgress) bool
	handle func(*PlaybookProgress, []string) bool
}

// lineMatchers is evaluated in order, first match wins. The shapes are
// mutually exclusive, but recap data lines stay guarded behind the recap
// boundary because their leading token is unconstrained.
var lineMatchers = []lineMatcher{
	{re: playRegex, handle: applyPlay},
	{re: taskRegex, handle: applyTask},
	{re: okRegex, handle: applyOK},
	{re: changedRegex, handle: applyChanged},
	{re: fatalRegex, handle: applyFatal},
	{re: skipRegex, handle: applySkipped},
	{re: rescuedRegex, handle: applyRescued},
	{re: ignoredRegex, handle: applyIgnored},
	{re: recapRegex, handle: applyRecapHeader},
	{re: recapLineRegex, guard: inRecap, handle: applyRecapLine},
	{re: warningRegex, handle: applyWarning},
}

func inRecap(p *PlaybookProgress) bool {
	return p.InRecap
}

func applyPlay(p *PlaybookProgress, groups []string) bool {
	p.CurrentPlay = groups[1]
	p.InRecap = false
	return true
}

func applyTask(p *PlaybookProgress, groups []string) bool {
	p.CurrentTask = groups[1]
	p.TaskIndex++
	// Every host that can still make progress is now attempting this task
	for _, h := range p.Hosts {
		if h.CurrentState != StateUnreachable {
			h.CurrentState = StateRunning
		}
	}
	return true
}

func applyOK(p *PlaybookProgress, groups []string) bool {
	if h := p.host(groups[1]); h != nil {
		h.OK++
		h.CurrentState = StateOK
	}
	return true
}

func applyChanged(p *PlaybookProgress, groups []string) bool {
	if h := p.host(groups[1]); h != nil {
		h.Changed++
		h.CurrentState = StateChanged
	}
	return true
}

func applyFatal(p *PlaybookProgress, groups []string) bool {
	h := p.host(groups[1])
	if h == nil {
		return true
	}
	if groups[2] == "UNREACHABLE" {
		h.Unreachable++
		h.CurrentState = StateUnreachable
	} else {
		h.Failed++
		h.CurrentState = StateFailed
	}
	h.ErrorMsg = extractErrorMsg(strings.TrimSpace(groups[3]))
	return true
}

func applySkipped(p *PlaybookProgress, groups []string) bool {
	if h := p.host(groups[1]); h != nil {
		h.Skipped++
		h.CurrentState = StateSkipped
	}
	return true
}

func applyRescued(p *PlaybookProgress, groups []string) bool {
	if h := p.host(groups[1]); h != nil {
		h.Rescued++
		h.CurrentState = StateOK
	}
	return true
}

// applyIgnored undoes the pessimistic classification of the preceding
// fatal line: Ansible reports the failure first and the ignore_errors
// verdict after.
func applyIgnored(p *PlaybookProgress, groups []string) bool {
	if groups[1] == "" {
		return true
	}
	if h := p.host(groups[1]); h != nil {
		h.Ignored++
		if h.Failed > 0 {
			h.Failed--
		}
		h.CurrentState = StateOK
	}
	return true
}

func applyRecapHeader(p *PlaybookProgress, _ []string) bool {
	p.InRecap = true
	p.CurrentTask = ""
	return true
}

// applyRecapLine overwrites the live tallies with Ansible's own totals.
// Handlers and looped tasks make live counts drift, so the recap is the
// source of truth for final state.
func applyRecapLine(p *PlaybookProgress, groups []string) bool {
	if h := p.host(groups[1]); h != nil {
		setCounter(&h.OK, groups[2])
		setCounter(&h.Changed, groups[3])
		setCounter(&h.Unreachable, groups[4])
		setCounter(&h.Failed, groups[5])
		setCounter(&h.Skipped, groups[6])
		setCounter(&h.Rescued, groups[7])
		setCounter(&h.Ignored, groups[8])
		h.CurrentState = StateDone
	}
	p.Finished = true
	return true
}

// applyWarning accumulates the warning without triggering a full refresh
func applyWarning(p *PlaybookProgress, groups []string) bool {
	p.Warnings = append(p.Warnings, groups[1])
	return false
}

// setCounter assigns a recap field, keeping the live tally for any field
// that fails to parse rather than aborting the whole line.
func setCounter(dst *int, raw string) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	*dst = n
}
