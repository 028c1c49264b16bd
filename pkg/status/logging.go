// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	sizeWidth   = 12 // Width for file size
	statusWidth = 15 // Width for status text
)

// 🎯 FormatFileOperation formats a file status line for the console
func FormatFileOperation(path string, status FileStatus, size int64) string {
	var prefix string
	switch status {
	case StatusVerified, StatusUploaded, StatusCopied:
		prefix = color.GreenString("✓")
	case StatusRetried:
		prefix = color.YellowString("⟳")
	case StatusRolledBack, StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, path)
	sizePart := fmt.Sprintf("%-*s", sizeWidth, formatSize(size))
	statusPart := fmt.Sprintf("%-*s", statusWidth, status)

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		sizePart,
		statusPart,
	)
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
