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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/zopexport/pkg/backend"
	"github.com/walteh/zopexport/pkg/backend/backendtest"
	"github.com/walteh/zopexport/pkg/log"
	"github.com/walteh/zopexport/pkg/status"
)

type recordingReporter struct {
	infos  []string
	errors []string
}

func (r *recordingReporter) Info(msg string)  { r.infos = append(r.infos, msg) }
func (r *recordingReporter) Error(msg string) { r.errors = append(r.errors, msg) }

func TestExportSuccess(t *testing.T) {
	ctx := testContext(t)
	root := filepath.ToSlash(t.TempDir())
	journalDir := t.TempDir()
	src := sourceDir(t, map[string]string{"00000001.tif": "first page"})

	rep := &recordingReporter{}
	tracker := status.New(nil)
	exp := NewExporter(Options{Dialer: backend.DefaultDialer{}, Reporter: rep, JournalDir: journalDir})

	out := exp.Export(ctx, Request{
		ProjectName: "Archive",
		Config:      localConfig(root),
		Logical:     monograph("ABC123"),
		SourceDir:   src,
		ProcessID:   17,
		Tracker:     tracker,
	})

	require.NotNil(t, out)
	assert.True(t, out.Success)
	assert.Empty(t, out.Problems)
	assert.Empty(t, rep.errors)
	assert.Equal(t, []string{
		"Images from '" + src + "' are successfully copied to '" + root + "/ABC123'.",
		"Export executed for process with ID 17",
	}, rep.infos)

	info, err := tracker.GetFileInfo(ctx, "00000001.tif")
	require.NoError(t, err)
	assert.Equal(t, status.StatusVerified, info.Status)

	journal, err := os.ReadFile(filepath.Join(journalDir, "17.log"))
	require.NoError(t, err)
	assert.Contains(t, string(journal), log.JournalPrefix+"Export executed for process with ID 17")
}

func TestExportAbortsWithOneProblem(t *testing.T) {
	tests := []struct {
		name        string
		req         func(t *testing.T) Request
		dialer      func(t *testing.T) backend.Dialer
		wantProblem string
	}{
		{
			name: "configuration",
			req: func(t *testing.T) Request {
				return Request{ProjectName: "Archive", Logical: monograph("ABC123"), SourceDir: t.TempDir(), ProcessID: 3}
			},
			wantProblem: "no configuration loaded",
		},
		{
			name: "metadata",
			req: func(t *testing.T) Request {
				return Request{
					ProjectName: "Archive",
					Config:      localConfig(t.TempDir()),
					Logical:     monograph(""),
					SourceDir:   t.TempDir(),
					ProcessID:   3,
				}
			},
			wantProblem: "no valid id found",
		},
		{
			name: "unreadable_metadata",
			req: func(t *testing.T) Request {
				return Request{
					ProjectName:  "Archive",
					Config:       localConfig(t.TempDir()),
					MetadataFile: filepath.Join(t.TempDir(), "meta.yaml"),
					SourceDir:    sourceDir(t, map[string]string{"00000001.tif": "page"}),
					ProcessID:    3,
				}
			},
			wantProblem: "metadata document",
		},
		{
			name: "empty_source",
			req: func(t *testing.T) Request {
				return Request{
					ProjectName: "Archive",
					Config:      localConfig(t.TempDir()),
					Logical:     monograph("ABC123"),
					SourceDir:   t.TempDir(),
					ProcessID:   3,
				}
			},
			wantProblem: "there is nothing to copy",
		},
		{
			name: "destination_not_empty",
			req: func(t *testing.T) Request {
				root := t.TempDir()
				require.NoError(t, os.MkdirAll(filepath.Join(root, "ABC123"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(root, "ABC123", "old.tif"), []byte("old"), 0644))
				return Request{
					ProjectName: "Archive",
					Config:      localConfig(filepath.ToSlash(root)),
					Logical:     monograph("ABC123"),
					SourceDir:   sourceDir(t, map[string]string{"00000001.tif": "page"}),
					ProcessID:   3,
				}
			},
			wantProblem: "is not empty",
		},
		{
			name: "connection",
			req: func(t *testing.T) Request {
				return Request{
					ProjectName: "Archive",
					Config:      remoteConfig(),
					Logical:     monograph("ABC123"),
					SourceDir:   sourceDir(t, map[string]string{"00000001.tif": "page"}),
					ProcessID:   3,
				}
			},
			dialer: func(t *testing.T) backend.Dialer {
				return backend.DialerFunc(func(ctx context.Context, cfg backend.Config) (backend.Backend, error) {
					return nil, assert.AnError
				})
			},
			wantProblem: "connecting to goobi@archive.example.org:22",
		},
		{
			name: "panic",
			req: func(t *testing.T) Request {
				return Request{
					ProjectName: "Archive",
					Config:      remoteConfig(),
					Logical:     monograph("ABC123"),
					SourceDir:   sourceDir(t, map[string]string{"00000001.tif": "page"}),
					ProcessID:   3,
				}
			},
			dialer: func(t *testing.T) backend.Dialer {
				return backend.DialerFunc(func(ctx context.Context, cfg backend.Config) (backend.Backend, error) {
					panic("dialer exploded")
				})
			},
			wantProblem: "unexpected failure: dialer exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &recordingReporter{}
			opts := Options{Reporter: rep}
			if tt.dialer != nil {
				opts.Dialer = tt.dialer(t)
			}

			var out *Outcome
			require.NotPanics(t, func() {
				out = NewExporter(opts).Export(testContext(t), tt.req(t))
			})

			require.NotNil(t, out)
			assert.False(t, out.Success)
			require.Len(t, out.Problems, 1, "exactly one problem per abort")
			assert.Contains(t, out.Problems[0], tt.wantProblem)

			assert.Equal(t, []string{out.Problems[0], "Export aborted for process with ID 3"}, rep.errors)
			assert.Empty(t, rep.infos)
		})
	}
}

func TestExportRemoteReleasesConnection(t *testing.T) {
	srv := backendtest.NewServer(t)
	src := sourceDir(t, map[string]string{"00000001.tif": "page"})

	req := Request{
		ProjectName: "Archive",
		Config:      remoteConfig(),
		Logical:     monograph("ABC123"),
		SourceDir:   src,
		ProcessID:   9,
	}
	exp := NewExporter(Options{Dialer: srv.Dialer(t), Reporter: &recordingReporter{}})

	first := exp.Export(testContext(t), req)
	assert.True(t, first.Success)

	// the destination is now filled, so the second run aborts
	second := exp.Export(testContext(t), req)
	assert.False(t, second.Success)
	require.Len(t, second.Problems, 1)
	assert.Contains(t, second.Problems[0], "is not empty")

	assert.Equal(t, 2, srv.Opened())
	assert.Equal(t, 2, srv.Closed())
}

func TestExportWithLogger(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := log.NewWithZerolog(buf, zerolog.New(zerolog.NewTestWriter(t)))
	src := sourceDir(t, map[string]string{"00000001.tif": "page"})
	root := filepath.ToSlash(t.TempDir())

	out := NewExporter(Options{Reporter: logger}).Export(testContext(t), Request{
		ProjectName: "Archive",
		Config:      localConfig(root),
		Logical:     monograph("ABC123"),
		SourceDir:   src,
		ProcessID:   17,
	})
	require.True(t, out.Success)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[exporting "+root+"/ABC123]", lines[0])
	assert.Equal(t, "◆ process 17 • local", lines[1])
	assert.Equal(t, "ℹ️  Export executed for process with ID 17", lines[3])
}

func TestExportWithoutReporter(t *testing.T) {
	out := NewExporter(Options{}).Export(testContext(t), Request{ProjectName: "Archive"})
	assert.False(t, out.Success)
	assert.Len(t, out.Problems, 1)
}

func TestExportReadsMetadataFile(t *testing.T) {
	ctx := testContext(t)
	root := filepath.ToSlash(t.TempDir())
	meta := filepath.Join(t.TempDir(), "meta.yaml")
	require.NoError(t, os.WriteFile(meta, []byte(`
logical:
  type: Monograph
  metadata:
    - name: CatalogIDDigital
      value: XYZ789
`), 0644))

	out := NewExporter(Options{}).Export(ctx, Request{
		ProjectName:  "Archive",
		Config:       localConfig(root),
		MetadataFile: meta,
		SourceDir:    sourceDir(t, map[string]string{"00000001.tif": "page"}),
		ProcessID:    9,
	})
	require.True(t, out.Success, "problems: %v", out.Problems)

	_, err := os.Stat(filepath.Join(filepath.FromSlash(root), "XYZ789", "00000001.tif"))
	assert.NoError(t, err)
}

func TestLoadLogicalUnreadable(t *testing.T) {
	logical, err := loadLogical(testContext(t), Request{MetadataFile: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.Nil(t, logical)
	assert.Equal(t, ErrMetadata, Kind(err))
	assert.Contains(t, err.Error(), "could not be read")
}
