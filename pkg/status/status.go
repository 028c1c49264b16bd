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
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is the state of one file in a transfer
type FileStatus int

const (
	StatusUnknown    FileStatus = iota
	StatusCopied                // Copied, not verified
	StatusVerified              // Copied and digest matched
	StatusRetried               // Digest matched on the second attempt
	StatusUploaded              // Uploaded to a remote backend
	StatusRolledBack            // Removed again after an integrity failure
	StatusFailed                // Could not be transferred
	StatusSkipped               // Not a regular file
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusVerified:
		return "verified"
	case StatusRetried:
		return "retried"
	case StatusUploaded:
		return "uploaded"
	case StatusRolledBack:
		return "rolled back"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 📄 FileInfo describes one file of a transfer
type FileInfo struct {
	Path     string     // Name of the file inside the source directory
	Status   FileStatus // Current status
	Size     int64      // File size in bytes
	Checksum string     // Hex digest, empty when not verified
	Error    error      // Any error associated with this file
}

// 📈 Tracker receives per-file progress of a transfer
type Tracker interface {
	StartOperation(ctx context.Context, total int)
	TrackFile(ctx context.Context, path string, info FileInfo)
	FinishOperation(ctx context.Context)
}

// Discard is a Tracker that drops everything
var Discard Tracker = discard{}

type discard struct{}

func (discard) StartOperation(context.Context, int)         {}
func (discard) TrackFile(context.Context, string, FileInfo) {}
func (discard) FinishOperation(context.Context)             {}

// 🔧 Manager records file status and reports it to zerolog and, when set,
// to a console writer
type Manager struct {
	formatter FileFormatter
	console   io.Writer

	mu    sync.RWMutex
	files map[string]FileInfo
	order []string

	total     int
	processed int
}

var _ Tracker = (*Manager)(nil)

// 🏭 New creates a new status manager. console may be nil.
func New(console io.Writer) *Manager {
	return &Manager{
		formatter: NewDefaultFileFormatter(),
		console:   console,
		files:     make(map[string]FileInfo),
	}
}

// WithFormatter replaces the formatter used for log messages
func (m *Manager) WithFormatter(f FileFormatter) *Manager {
	m.formatter = f
	return m
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.files = make(map[string]FileInfo)
	m.order = nil

	zerolog.Ctx(ctx).Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) TrackFile(ctx context.Context, path string, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; !ok {
		m.order = append(m.order, path)
		if info.Status != StatusRolledBack {
			m.processed++
		}
	}
	info.Path = path
	m.files[path] = info

	logger := zerolog.Ctx(ctx)
	if info.Error != nil {
		logger.Error().Err(info.Error).Str("path", path).Str("status", info.Status.String()).Msg(m.formatter.FormatError(info.Error))
	} else {
		logger.Info().Str("path", path).Str("status", info.Status.String()).Msg(m.formatter.FormatFileOperation(path, info.Status))
	}

	if m.console != nil {
		fmt.Fprintln(m.console, FormatFileOperation(path, info.Status, info.Size))
	}
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zerolog.Ctx(ctx).Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// Progress returns processed and total file counts
func (m *Manager) Progress() (processed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns tracked files in the order they were first seen
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.order))
	for _, p := range m.order {
		files = append(files, m.files[p])
	}
	return files
}

// Counts returns how many tracked files are in each status
func (m *Manager) Counts() map[FileStatus]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[FileStatus]int{}
	for _, info := range m.files {
		counts[info.Status]++
	}
	return counts
}

// Summary returns a one-line count per status, sorted by status
func (m *Manager) Summary() string {
	counts := m.Counts()
	statuses := make([]FileStatus, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	out := ""
	for i, s := range statuses {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d %s", counts[s], s)
	}
	return out
}
