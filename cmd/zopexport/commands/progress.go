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

package commands

import (
	"context"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/zopexport/pkg/status"
)

// 📊 progressTracker draws a pterm progress bar for one transfer
type progressTracker struct {
	mu    sync.Mutex
	title string
	bar   *pterm.ProgressbarPrinter
	seen  map[string]bool
}

var _ status.Tracker = (*progressTracker)(nil)

func newProgressTracker(title string) *progressTracker {
	return &progressTracker{title: title}
}

func (p *progressTracker) StartOperation(ctx context.Context, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seen = make(map[string]bool)
	bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle(p.title).Start()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("progress bar unavailable")
		return
	}
	p.bar = bar
}

func (p *progressTracker) TrackFile(ctx context.Context, path string, info status.FileInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if !p.seen[path] && info.Status != status.StatusRolledBack {
		p.seen[path] = true
		p.bar.UpdateTitle(p.title + " " + path)
		p.bar.Increment()
	}
}

func (p *progressTracker) FinishOperation(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if _, err := p.bar.Stop(); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("stopping progress bar")
	}
	p.bar = nil
}

// 🔀 trackers fans progress out to several trackers
type trackers []status.Tracker

func (t trackers) StartOperation(ctx context.Context, total int) {
	for _, tr := range t {
		tr.StartOperation(ctx, total)
	}
}

func (t trackers) TrackFile(ctx context.Context, path string, info status.FileInfo) {
	for _, tr := range t {
		tr.TrackFile(ctx, path, info)
	}
}

func (t trackers) FinishOperation(ctx context.Context) {
	for _, tr := range t {
		tr.FinishOperation(ctx)
	}
}
