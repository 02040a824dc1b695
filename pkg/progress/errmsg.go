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
	"encoding/json"
	"regexp"
)

// maxErrorMsgLen caps stored error messages so one verbose module failure
// can't flood the status view.
const maxErrorMsgLen = 80

var msgFieldRegex = regexp.MustCompile(`"msg":\s*"([^"]+)"`)

// extractErrorMsg pulls a human-readable message from the JSON tail of a
// fatal line. Falls back to a textual scan when the tail isn't valid JSON,
// and to "" when no msg field can be found at all. Empty means "no message
// available", never an error.
func extractErrorMsg(tail string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(tail), &payload); err == nil {
		if msg, ok := payload["msg"].(string); ok && msg != "" {
			return truncateMsg(msg)
		}
	}

	if matches := msgFieldRegex.FindStringSubmatch(tail); len(matches) > 1 {
		return truncateMsg(matches[1])
	}

	return ""
}

func truncateMsg(msg string) string {
	if len(msg) > maxErrorMsgLen {
		return msg[:maxErrorMsgLen] + "..."
	}
	return msg
}
