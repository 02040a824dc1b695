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
	"fmt"
	"os"
	"time"

	"github.com/silogen/playbook-pulse/pkg/progress"
	"gopkg.in/yaml.v2"
)

// HostRecord is one host's final row in an archived run.
type HostRecord struct {
	Host        string `yaml:"host"`
	State       string `yaml:"state"`
	OK          int    `yaml:"ok"`
	Changed     int    `yaml:"changed"`
	Failed      int    `yaml:"failed"`
	Skipped     int    `yaml:"skipped"`
	Unreachable int    `yaml:"unreachable"`
	Rescued     int    `yaml:"rescued"`
	Ignored     int    `yaml:"ignored"`
	Error       string `yaml:"error,omitempty"`
}

// Archive is the persisted record of one playbook run.
type Archive struct {
	CompletedAt time.Time    `yaml:"completed_at"`
	Play        string       `yaml:"play"`
	TaskCount   int          `yaml:"task_count"`
	Finished    bool         `yaml:"finished"`
	Summary     string       `yaml:"summary"`
	Hosts       []HostRecord `yaml:"hosts"`
	Warnings    []string     `yaml:"warnings,omitempty"`
}

// Build assembles an archive from a snapshot.
func Build(snap progress.Snapshot, completedAt time.Time) Archive {
	a := Archive{
		CompletedAt: completedAt,
		Play:        snap.CurrentPlay,
		TaskCount:   snap.TaskIndex,
		Finished:    snap.Finished,
		Summary:     Collect(snap).Summary(),
		Warnings:    snap.Warnings,
	}
	for _, h := range snap.SortedHosts() {
		a.Hosts = append(a.Hosts, HostRecord{
			Host:        h.Identifier,
			State:       string(h.CurrentState),
			OK:          h.OK,
			Changed:     h.Changed,
			Failed:      h.Failed,
			Skipped:     h.Skipped,
			Unreachable: h.Unreachable,
			Rescued:     h.Rescued,
			Ignored:     h.Ignored,
			Error:       h.ErrorMsg,
		})
	}
	return a
}

// WriteFile persists the archive as YAML.
func (a Archive) WriteFile(path string) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal archive: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

// Load reads a previously written archive.
func Load(path string) (Archive, error) {
	var a Archive
	data, err := os.ReadFile(path)
	if err != nil {
		return a, fmt.Errorf("read archive: %w", err)
	}
	if err := yaml.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("parse archive: %w", err)
	}
	return a, nil
}
