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

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silogen/playbook-pulse/pkg/progress"
	"github.com/silogen/playbook-pulse/pkg/report"
	"github.com/silogen/playbook-pulse/pkg/stream"
)

// transcript is a condensed but shape-faithful ansible-playbook run: two
// plays, an ignored failure, an unreachable host and the final recap.
const transcript = `
PLAY [provision] ***************************************************************

TASK [Gathering Facts] *********************************************************
[WARNING]: Platform linux on host 10.0.0.5 is using the discovered Python
ok: [10.0.0.5]
ok: [10.0.0.6]
fatal: [10.0.0.7]: UNREACHABLE! => {"changed": false, "msg": "Failed to connect to the host via ssh", "unreachable": true}

TASK [Install packages] ********************************************************
changed: [10.0.0.5]
fatal: [10.0.0.6]: FAILED! => {"changed": false, "msg": "No package matching 'htopp' found"}
...ignoring: [10.0.0.6]

TASK [Copy config] *************************************************************
ok: [10.0.0.5]
skipping: [10.0.0.6]

PLAY [verify] ******************************************************************

TASK [Check service] ***********************************************************
ok: [10.0.0.5]
ok: [10.0.0.6]

PLAY RECAP *********************************************************************
10.0.0.5                   : ok=4    changed=1    unreachable=0    failed=0    skipped=0    rescued=0    ignored=0
10.0.0.6                   : ok=3    changed=0    unreachable=0    failed=0    skipped=1    rescued=0    ignored=1
10.0.0.7                   : ok=0    changed=0    unreachable=1    failed=0    skipped=0    rescued=0    ignored=0
`

func TestFullRunThroughPump(t *testing.T) {
	prog := progress.New([]string{"10.0.0.5", "10.0.0.6", "10.0.0.7"})

	var refreshes int
	pump := &stream.Pump{
		Progress:  prog,
		OnRefresh: func(progress.Snapshot) { refreshes++ },
	}
	require.NoError(t, pump.Run(strings.NewReader(transcript)))

	assert.True(t, prog.Finished)
	assert.Equal(t, "verify", prog.CurrentPlay)
	assert.Equal(t, 4, prog.TaskIndex)
	assert.Positive(t, refreshes)

	h5 := prog.Hosts["10.0.0.5"]
	require.NotNil(t, h5)
	assert.Equal(t, progress.StateDone, h5.CurrentState)
	assert.Equal(t, 4, h5.OK)
	assert.Equal(t, 1, h5.Changed)

	// The mid-run failure on .6 was ignored and the recap confirms it
	h6 := prog.Hosts["10.0.0.6"]
	require.NotNil(t, h6)
	assert.Equal(t, 0, h6.Failed)
	assert.Equal(t, 1, h6.Ignored)
	assert.Equal(t, progress.StateDone, h6.CurrentState)

	h7 := prog.Hosts["10.0.0.7"]
	require.NotNil(t, h7)
	assert.Equal(t, 1, h7.Unreachable)
	assert.Contains(t, h7.ErrorMsg, "Failed to connect")

	require.Len(t, prog.Warnings, 1)
	assert.Contains(t, prog.Warnings[0], "discovered Python")
}

func TestFullRunThroughFollowerAndArchive(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ansible.log")

	prog := progress.New([]string{"10.0.0.5", "10.0.0.6", "10.0.0.7"})
	follower := &stream.Follower{
		Path:         logPath,
		Pump:         &stream.Pump{Progress: prog},
		PollInterval: 10 * time.Millisecond,
	}

	go func() {
		file, err := os.Create(logPath)
		if err != nil {
			t.Error(err)
			return
		}
		defer file.Close()
		for _, line := range strings.Split(transcript, "\n") {
			file.WriteString(line + "\n")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, follower.Run(ctx))
	require.True(t, prog.Finished)

	archivePath := filepath.Join(dir, "archive.yaml")
	archive := report.Build(prog.Snapshot(), time.Now())
	require.NoError(t, archive.WriteFile(archivePath))

	loaded, err := report.Load(archivePath)
	require.NoError(t, err)
	assert.Equal(t, "verify", loaded.Play)
	assert.True(t, loaded.Finished)
	require.Len(t, loaded.Hosts, 3)
	assert.Equal(t, "10.0.0.5", loaded.Hosts[0].Host)
	assert.Equal(t, 1, loaded.Hosts[2].Unreachable)
}
