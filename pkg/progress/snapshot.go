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

import "sort"

// Snapshot is a self-contained copy of the run state. The reader loop owns
// the live PlaybookProgress; rendering and reporting code works from
// snapshots, never from a shared live reference.
type Snapshot struct {
	Hosts       map[string]HostStatus
	CurrentPlay string
	CurrentTask string
	TaskIndex   int
	Finished    bool
	Warnings    []string
}

// Snapshot copies the current state. Host entries are copied by value, so
// later Feed calls cannot mutate what a consumer already holds.
func (p *PlaybookProgress) Snapshot() Snapshot {
	s := Snapshot{
		Hosts:       make(map[string]HostStatus, len(p.Hosts)),
		CurrentPlay: p.CurrentPlay,
		CurrentTask: p.CurrentTask,
		TaskIndex:   p.TaskIndex,
		Finished:    p.Finished,
	}
	for name, h := range p.Hosts {
		s.Hosts[name] = *h
	}
	if len(p.Warnings) > 0 {
		s.Warnings = append([]string(nil), p.Warnings...)
	}
	return s
}

// SortedHosts returns the snapshot's hosts ordered by identifier, for
// stable table and API output.
func (s Snapshot) SortedHosts() []HostStatus {
	hosts := make([]HostStatus, 0, len(s.Hosts))
	for _, h := range s.Hosts {
		hosts = append(hosts, h)
	}
	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Identifier < hosts[j].Identifier
	})
	return hosts
}
