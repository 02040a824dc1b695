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

package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultPollInterval = 500 * time.Millisecond

// Follower tails a growing playbook output file and hands complete lines
// to the pump. It wakes on fsnotify write events, with a polling fallback
// for filesystems where events are unreliable (NFS, some overlayfs).
type Follower struct {
	Path string
	Pump *Pump

	// PollInterval bounds how stale the view can get without an event.
	// Zero means defaultPollInterval.
	PollInterval time.Duration
}

// Run follows the file until the run's recap has been parsed or the
// context is cancelled. The file may not exist yet when Run is called;
// the follower waits for it to appear.
func (f *Follower) Run(ctx context.Context) error {
	interval := f.PollInterval
	if interval == 0 {
		interval = defaultPollInterval
	}

	file, err := f.waitForFile(ctx, interval)
	if err != nil {
		return err
	}
	defer file.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.Path); err != nil {
		return fmt.Errorf("watch %s: %w", f.Path, err)
	}

	reader := bufio.NewReader(file)
	var pending strings.Builder

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if done, err := f.drain(reader, &pending); err != nil {
			return err
		} else if done {
			// Finished flips on the first recap line; give the rest of
			// the recap burst one interval to land before stopping.
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
			_, err := f.drain(reader, &pending)
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				return fmt.Errorf("output file %s disappeared mid-run", f.Path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		case <-ticker.C:
		}
	}
}

// drain reads everything currently appended, feeding complete lines and
// carrying a trailing partial line over to the next wakeup. Reports true
// once the parser has seen the recap.
func (f *Follower) drain(reader *bufio.Reader, pending *strings.Builder) (bool, error) {
	for {
		chunk, err := reader.ReadString('\n')
		if err == io.EOF {
			pending.WriteString(chunk)
			break
		}
		if err != nil {
			return false, err
		}

		pending.WriteString(chunk)
		f.Pump.feed(strings.TrimSuffix(pending.String(), "\n"))
		pending.Reset()
	}

	return f.Pump.Progress.Finished, nil
}

func (f *Follower) waitForFile(ctx context.Context, interval time.Duration) (*os.File, error) {
	for {
		file, err := os.Open(f.Path)
		if err == nil {
			return file, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("open %s: %w", f.Path, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}
