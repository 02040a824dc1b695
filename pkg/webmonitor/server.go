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

package webmonitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/silogen/playbook-pulse/pkg/progress"
)

// RunView is the run-level JSON shape served at /api/status.
type RunView struct {
	CurrentPlay string    `json:"current_play"`
	CurrentTask string    `json:"current_task"`
	TaskIndex   int       `json:"task_index"`
	Finished    bool      `json:"finished"`
	HostCount   int       `json:"host_count"`
	Warnings    []string  `json:"warnings,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HostView is one per-host row served at /api/hosts.
type HostView struct {
	Host           string `json:"host"`
	State          string `json:"state"`
	Summary        string `json:"summary"`
	TasksCompleted int    `json:"tasks_completed"`
	OK             int    `json:"ok"`
	Changed        int    `json:"changed"`
	Failed         int    `json:"failed"`
	Skipped        int    `json:"skipped"`
	Unreachable    int    `json:"unreachable"`
	Rescued        int    `json:"rescued"`
	Ignored        int    `json:"ignored"`
	Error          string `json:"error,omitempty"`
}

// Server exposes a Monitor over HTTP.
type Server struct {
	Port    int
	Monitor *Monitor
}

func NewServer(port int, monitor *Monitor) *Server {
	return &Server{Port: port, Monitor: monitor}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/hosts", s.handleHosts)
	return mux
}

// Start serves until the listener fails. Meant to run on its own
// goroutine next to the reader loop.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.Port)
	log.Infof("Serving run status at http://localhost%s/api/status", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, updatedAt := s.Monitor.Current()

	writeJSON(w, RunView{
		CurrentPlay: snap.CurrentPlay,
		CurrentTask: snap.CurrentTask,
		TaskIndex:   snap.TaskIndex,
		Finished:    snap.Finished,
		HostCount:   len(snap.Hosts),
		Warnings:    snap.Warnings,
		UpdatedAt:   updatedAt,
	})
}

func (s *Server) handleHosts(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.Monitor.Current()

	views := make([]HostView, 0, len(snap.Hosts))
	for _, h := range snap.SortedHosts() {
		views = append(views, hostView(h))
	}
	writeJSON(w, views)
}

func hostView(h progress.HostStatus) HostView {
	return HostView{
		Host:           h.Identifier,
		State:          string(h.CurrentState),
		Summary:        string(h.SummaryState()),
		TasksCompleted: h.TasksCompleted(),
		OK:             h.OK,
		Changed:        h.Changed,
		Failed:         h.Failed,
		Skipped:        h.Skipped,
		Unreachable:    h.Unreachable,
		Rescued:        h.Rescued,
		Ignored:        h.Ignored,
		Error:          h.ErrorMsg,
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warnf("Failed to encode status response: %v", err)
	}
}
