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

// Package stream feeds ansible-playbook output into a progress parser,
// either from a pipe-style reader or by following a growing log file.
package stream

import (
	"bufio"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/silogen/playbook-pulse/pkg/progress"
)

// Pump drives a PlaybookProgress from line-oriented input. It is the
// single-goroutine reader loop the parser's contract asks for: lines are
// fed in arrival order, and consumers observe state only through the
// snapshots handed to OnRefresh.
type Pump struct {
	Progress *progress.PlaybookProgress

	// LogFile, when set, receives a verbatim copy of every input line.
	LogFile *os.File

	// OnRefresh is called with a fresh snapshot whenever a line changed
	// something worth repainting.
	OnRefresh func(progress.Snapshot)
}

// Run consumes the reader until EOF. Cancellation is the caller closing
// the underlying reader; the pump has no background work of its own.
func (p *Pump) Run(input io.Reader) error {
	scanner := bufio.NewScanner(input)

	for scanner.Scan() {
		p.feed(scanner.Text())
	}

	return scanner.Err()
}

func (p *Pump) feed(line string) {
	if p.LogFile != nil {
		if _, err := p.LogFile.WriteString(line + "\n"); err != nil {
			log.Warnf("Log tee to %s failed, disabling: %v", p.LogFile.Name(), err)
			p.LogFile = nil
		}
	}

	if p.Progress.Feed(line) && p.OnRefresh != nil {
		p.OnRefresh(p.Progress.Snapshot())
	}
}
