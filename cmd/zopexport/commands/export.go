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
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/zopexport/cmd/zopexport/opts"
	"github.com/walteh/zopexport/pkg/export"
	"github.com/walteh/zopexport/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// exportFlags describe one item on the command line
type exportFlags struct {
	project      string
	source       string
	metadata     string
	processID    int
	processTitle string
	fallback     string
	journalDir   string
	progress     bool
}

// NewExportCmd creates the export command
func NewExportCmd(o *opts.RootOpts) *cobra.Command {
	f := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one item",
		Long: `Export copies the files of a source directory into <path>/<identifier> or,
for multi-volume works, <path>/<identifier>-<volume>. It will:
1. Select the config block of the project
2. Resolve the folder name from the metadata document
3. Create the folder, which must be empty
4. Copy and verify every file
5. Write <folder>.ctl next to the folder`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "export").Logger().WithContext(cmd.Context())

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}

			mgr := status.New(nil)
			var tracker status.Tracker = mgr
			if f.progress {
				tracker = trackers{mgr, newProgressTracker("copying")}
			}

			o.Logger.Header("exporting " + f.source)

			exp := export.NewExporter(export.Options{
				Dialer:     o.BackendDialer(),
				Reporter:   o.Logger,
				JournalDir: f.journalDir,
			})

			out := exp.Export(ctx, export.Request{
				ProjectName:         f.project,
				Config:              cfg,
				MetadataFile:        f.metadata,
				SourceDir:           f.source,
				FallbackDestination: f.fallback,
				ProcessID:           f.processID,
				ProcessTitle:        f.processTitle,
				Tracker:             tracker,
			})

			if summary := mgr.Summary(); summary != "" {
				o.Logger.Info(summary)
			}
			if n := mgr.Counts()[status.StatusSkipped]; n > 0 {
				o.Logger.Warningf("%d source entries are not files and were skipped", n)
			}
			if !out.Success {
				return errors.Errorf("export failed: %s", strings.Join(out.Problems, "; "))
			}
			o.Logger.Success("export complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.project, "project", "p", "", "project name used to select the config block")
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "directory holding the files to export")
	cmd.Flags().StringVarP(&f.metadata, "metadata", "m", "", "metadata document (.yaml, .yml or .json)")
	cmd.Flags().IntVar(&f.processID, "process-id", 0, "process id for variables and the journal")
	cmd.Flags().StringVar(&f.processTitle, "process-title", "", "process title for variables")
	cmd.Flags().StringVar(&f.fallback, "fallback", "", "destination used when the config block has no path")
	cmd.Flags().StringVar(&f.journalDir, "journal-dir", "", "directory for per-process journals")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "show a progress bar")

	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("metadata")

	return cmd
}
