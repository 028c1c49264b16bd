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

package log

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// JournalPrefix starts every journal message
const JournalPrefix = "ZOP Export: "

// 📓 Journal appends the messages of one process to <dir>/<id>.log as JSON
// lines. A nil *Journal drops everything, so callers need no checks.
type Journal struct {
	mu        sync.Mutex
	file      *os.File
	zlog      zerolog.Logger
	processID int
}

// 🏭 OpenJournal opens the journal of processID in dir. It returns nil
// without error when processID is not positive or dir is empty.
func OpenJournal(dir string, processID int) (*Journal, error) {
	if processID <= 0 || dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Errorf("creating journal directory: %w", err)
	}

	path := filepath.Join(dir, strconv.Itoa(processID)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Errorf("opening journal %s: %w", path, err)
	}

	return &Journal{
		file:      f,
		zlog:      zerolog.New(f).With().Timestamp().Int("process_id", processID).Logger(),
		processID: processID,
	}, nil
}

// Path returns the journal file, or "" for a nil journal
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.file.Name()
}

func (j *Journal) write(level zerolog.Level, msg string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.zlog.WithLevel(level).Msg(JournalPrefix + msg)
}

// Info records an info message
func (j *Journal) Info(msg string) { j.write(zerolog.InfoLevel, msg) }

// Warning records a warning
func (j *Journal) Warning(msg string) { j.write(zerolog.WarnLevel, msg) }

// Error records an error
func (j *Journal) Error(msg string) { j.write(zerolog.ErrorLevel, msg) }

// Close closes the journal file
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.file.Close(); err != nil {
		return errors.Errorf("closing journal: %w", err)
	}
	return nil
}
