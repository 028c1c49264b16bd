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

package export

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/walteh/zopexport/pkg/backend"
	"github.com/walteh/zopexport/pkg/log"
)

const (
	// AbortionMessage is followed by the process id when an export fails
	AbortionMessage = "Export aborted for process with ID "
	// CompletionMessage is followed by the process id when an export succeeds
	CompletionMessage = "Export executed for process with ID "
)

// 📤 Outcome is the result of one export
type Outcome struct {
	Success  bool
	Problems []string
}

// 📣 Reporter receives the user facing lines of an export. *log.Logger
// satisfies it.
type Reporter interface {
	Info(msg string)
	Error(msg string)
}

// exportAnnouncer is implemented by reporters that frame an export
type exportAnnouncer interface {
	StartExport(ctx context.Context, op log.ExportOperation)
	EndExport(ctx context.Context, success bool)
}

// 🔧 Options configures an Exporter
type Options struct {
	// Dialer opens backends, backend.DefaultDialer{} when nil
	Dialer backend.Dialer
	// Reporter receives user facing lines, zerolog only when nil
	Reporter Reporter
	// JournalDir holds the per-process journals, no journal when empty
	JournalDir string
}

// 🚀 Exporter runs exports and never lets a failure escape
type Exporter struct {
	dialer     backend.Dialer
	reporter   Reporter
	journalDir string
}

// 🏭 NewExporter creates an Exporter
func NewExporter(opts Options) *Exporter {
	e := &Exporter{
		dialer:     opts.Dialer,
		reporter:   opts.Reporter,
		journalDir: opts.JournalDir,
	}
	if e.dialer == nil {
		e.dialer = backend.DefaultDialer{}
	}
	return e
}

// 🎯 Export plans and runs req. A failed export carries exactly one problem.
func (e *Exporter) Export(ctx context.Context, req Request) (out *Outcome) {
	logger := zerolog.Ctx(ctx).With().Int("process_id", req.ProcessID).Logger()
	ctx = logger.WithContext(ctx)

	out = &Outcome{}

	journal, err := log.OpenJournal(e.journalDir, req.ProcessID)
	if err != nil {
		logger.Warn().Err(err).Msg("journal unavailable")
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing journal")
		}
	}()

	r := &reporting{reporter: e.reporter, journal: journal, logger: logger}

	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Msg("export panicked")
			*out = Outcome{}
			e.abort(r, out, req.ProcessID, fmt.Sprintf("unexpected failure: %v", p))
		}
	}()

	logical, err := loadLogical(ctx, req)
	if err != nil {
		e.abort(r, out, req.ProcessID, err.Error())
		return out
	}
	req.Logical = logical

	job, err := Plan(ctx, req)
	if err != nil {
		e.abort(r, out, req.ProcessID, err.Error())
		return out
	}

	announcer, framed := e.reporter.(exportAnnouncer)
	if framed {
		announcer.StartExport(ctx, log.ExportOperation{
			ProcessID:   job.ProcessID(),
			Title:       job.ProcessTitle(),
			Source:      job.Source(),
			Destination: job.Destination(),
			Backend:     job.Backend().String(),
		})
	}

	err = job.Run(ctx, e.dialer)
	if framed {
		announcer.EndExport(ctx, err == nil)
	}
	if err != nil {
		e.abort(r, out, req.ProcessID, err.Error())
		return out
	}

	r.info(fmt.Sprintf("Images from '%s' are successfully copied to '%s'.", job.Source(), job.Target()))
	r.info(CompletionMessage + strconv.Itoa(req.ProcessID))
	out.Success = true
	return out
}

func (e *Exporter) abort(r *reporting, out *Outcome, processID int, problem string) {
	out.Success = false
	out.Problems = append(out.Problems, problem)
	r.error(problem)
	r.error(AbortionMessage + strconv.Itoa(processID))
}

// reporting fans a line out to the reporter, the journal and zerolog
type reporting struct {
	reporter Reporter
	journal  *log.Journal
	logger   zerolog.Logger
}

func (r *reporting) info(msg string) {
	r.journal.Info(msg)
	if r.reporter != nil {
		r.reporter.Info(msg)
		return
	}
	r.logger.Info().Msg(msg)
}

func (r *reporting) error(msg string) {
	r.journal.Error(msg)
	if r.reporter != nil {
		r.reporter.Error(msg)
		return
	}
	r.logger.Error().Msg(msg)
}
