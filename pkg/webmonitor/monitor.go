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

// Package webmonitor publishes the current run state over HTTP as JSON.
// The reader loop pushes snapshots in; any number of HTTP clients read
// them out. This is the hand-off point between the single-goroutine
// parser and everything else.
package webmonitor

import (
	"sync"
	"time"

	"github.com/silogen/playbook-pulse/pkg/progress"
)

// Monitor holds the most recent snapshot behind a lock.
type Monitor struct {
	mutex     sync.RWMutex
	snapshot  progress.Snapshot
	updatedAt time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Update replaces the published snapshot. Called from the reader loop's
// refresh hook.
func (m *Monitor) Update(snap progress.Snapshot) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.snapshot = snap
	m.updatedAt = time.Now()
}

// Current returns the last published snapshot and when it arrived. The
// snapshot is already a deep copy, so callers may keep it.
func (m *Monitor) Current() (progress.Snapshot, time.Time) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.snapshot, m.updatedAt
}
