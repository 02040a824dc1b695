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

package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/silogen/playbook-pulse/pkg/progress"
)

func sampleSnapshot() progress.Snapshot {
	p := progress.New([]string{"web1", "db1"})
	for _, line := range []string{
		"PLAY [site]",
		"TASK [install]",
		"ok: [web1]",
		`fatal: [db1]: FAILED! => {"msg": "disk full"}`,
		"TASK [configure]",
		"changed: [web1]",
		"[WARNING]: slow connection",
	} {
		p.Feed(line)
	}
	return p.Snapshot()
}

func TestCollect(t *testing.T) {
	s := Collect(sampleSnapshot())

	if s.OK != 1 || s.Changed != 1 || s.Failed != 1 {
		t.Errorf("Collect = %+v, want ok=1 changed=1 failed=1", s)
	}
	if !s.HasFailures() {
		t.Error("HasFailures = false with one failed host")
	}
}

func TestSummary(t *testing.T) {
	s := RunStats{OK: 3, Changed: 2, Failed: 1}
	want := "3 ok, 2 changed, 1 failed, 0 skipped, 0 unreachable, 0 rescued, 0 ignored"
	if got := s.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestRenderTable(t *testing.T) {
	table := RenderTable(sampleSnapshot())
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("table has %d lines, want header + 2 hosts", len(lines))
	}
	if !strings.HasPrefix(lines[0], "HOST") {
		t.Errorf("missing header: %q", lines[0])
	}
	// Sorted by identifier: db1 first
	if !strings.HasPrefix(lines[1], "db1") {
		t.Errorf("lines[1] = %q, want db1 row", lines[1])
	}
	if !strings.Contains(lines[1], "disk full") {
		t.Errorf("db1 row lacks error message: %q", lines[1])
	}
	if !strings.Contains(lines[2], "changed") {
		t.Errorf("web1 row lacks changed summary: %q", lines[2])
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	completed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	a := Build(snap, completed)
	if a.Play != "site" {
		t.Errorf("Play = %q, want site", a.Play)
	}
	if a.TaskCount != 2 {
		t.Errorf("TaskCount = %d, want 2", a.TaskCount)
	}
	if len(a.Hosts) != 2 {
		t.Fatalf("Hosts = %d, want 2", len(a.Hosts))
	}
	if a.Hosts[0].Host != "db1" || a.Hosts[0].Failed != 1 {
		t.Errorf("Hosts[0] = %+v, want db1 with failed=1", a.Hosts[0])
	}

	path := filepath.Join(t.TempDir(), "archive.yaml")
	if err := a.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Summary != a.Summary {
		t.Errorf("Summary = %q, want %q", loaded.Summary, a.Summary)
	}
	if len(loaded.Warnings) != 1 || loaded.Warnings[0] != "slow connection" {
		t.Errorf("Warnings = %v", loaded.Warnings)
	}
	if loaded.Hosts[1].Error != "" {
		t.Errorf("web1 error = %q, want empty", loaded.Hosts[1].Error)
	}
}

func TestLoadMissingArchive(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}
