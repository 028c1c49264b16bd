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
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/zopexport/cmd/zopexport/opts"
	"github.com/walteh/zopexport/pkg/config"
	"github.com/walteh/zopexport/pkg/export"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// batchResult is the outcome of one manifest job
type batchResult struct {
	job     ManifestJob
	outcome *export.Outcome
}

// NewBatchCmd creates the batch command
func NewBatchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		parallel   int
		journalDir string
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Export every item listed in a manifest",
		Long: `Batch runs one export per manifest job. Jobs are independent: each one opens
its own backend, and a failed job does not stop the others. Jobs must not
share a destination folder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "batch").Logger().WithContext(cmd.Context())

			if parallel < 1 {
				return errors.Errorf("invalid --parallel %d, must be at least 1", parallel)
			}

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}

			manifest, err := loadManifest(args[0])
			if err != nil {
				return err
			}

			o.Logger.Header(fmt.Sprintf("exporting %d items", len(manifest.Jobs)))

			exp := export.NewExporter(export.Options{
				Dialer:     o.BackendDialer(),
				Reporter:   o.Logger,
				JournalDir: journalDir,
			})

			results := runBatch(ctx, exp, cfg, manifest.Jobs, parallel)

			if err := renderBatch(results); err != nil {
				zerolog.Ctx(ctx).Debug().Err(err).Msg("rendering summary table")
			}

			failed := 0
			for _, r := range results {
				if !r.outcome.Success {
					failed++
				}
			}
			if failed > 0 {
				return errors.Errorf("%d of %d exports failed", failed, len(results))
			}
			o.Logger.Successf("%d exports complete", len(results))
			return nil
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", 1, "number of exports to run at the same time")
	cmd.Flags().StringVar(&journalDir, "journal-dir", "", "directory for per-process journals")

	return cmd
}

// runBatch exports every job and returns the results in manifest order
func runBatch(ctx context.Context, exp *export.Exporter, cfg *config.Config, jobs []ManifestJob, parallel int) []batchResult {
	results := make([]batchResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = batchResult{job: job, outcome: runManifestJob(gctx, exp, cfg, job)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func runManifestJob(ctx context.Context, exp *export.Exporter, cfg *config.Config, job ManifestJob) *export.Outcome {
	logger := zerolog.Ctx(ctx).With().Str("project", job.Project).Int("process_id", job.ProcessID).Logger()
	ctx = logger.WithContext(ctx)

	return exp.Export(ctx, export.Request{
		ProjectName:         job.Project,
		Config:              cfg,
		MetadataFile:        job.Metadata,
		SourceDir:           job.Source,
		FallbackDestination: job.Fallback,
		ProcessID:           job.ProcessID,
		ProcessTitle:        job.ProcessTitle,
	})
}

func renderBatch(results []batchResult) error {
	data := pterm.TableData{{"Process", "Project", "Source", "Result"}}
	for _, r := range results {
		result := pterm.Green("ok")
		if !r.outcome.Success {
			result = pterm.Red(strings.Join(r.outcome.Problems, "; "))
		}
		data = append(data, []string{strconv.Itoa(r.job.ProcessID), r.job.Project, r.job.Source, result})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
