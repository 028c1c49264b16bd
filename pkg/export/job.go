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
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/zopexport/pkg/backend"
	"github.com/walteh/zopexport/pkg/config"
	"github.com/walteh/zopexport/pkg/metadata"
	"github.com/walteh/zopexport/pkg/operation"
	"github.com/walteh/zopexport/pkg/resolve"
	"github.com/walteh/zopexport/pkg/status"
	"github.com/walteh/zopexport/pkg/text"
)

// 📥 Request is everything the caller knows about one export
type Request struct {
	// ProjectName selects the config block
	ProjectName string
	// Config holds the config blocks
	Config *config.Config
	// Logical is the logical structure of the item
	Logical *metadata.DocStruct
	// MetadataFile is read by the Exporter when Logical is nil
	MetadataFile string
	// SourceDir is the flat local directory holding the files
	SourceDir string
	// FallbackDestination is used when the block has no path
	FallbackDestination string
	// ProcessID identifies the process, 0 when unknown
	ProcessID int
	// ProcessTitle is substituted for {processtitle}
	ProcessTitle string
	// Tracker receives per-file status, optional
	Tracker status.Tracker
}

// 📦 Job is a planned export. It does not change once built.
type Job struct {
	project      string
	source       string
	root         string
	destination  string
	folder       resolve.Result
	backend      backend.Config
	processID    int
	processTitle string
	tracker      status.Tracker
}

// loadLogical returns req.Logical, reading MetadataFile when it is unset
func loadLogical(ctx context.Context, req Request) (*metadata.DocStruct, error) {
	if req.Logical != nil || req.MetadataFile == "" {
		return req.Logical, nil
	}

	doc, err := metadata.Load(ctx, req.MetadataFile)
	if err != nil {
		return nil, metadataError(err, "the metadata document %s could not be read", req.MetadataFile)
	}
	return doc.Logical, nil
}

// 🎯 Plan selects and validates the config block, substitutes the path
// template and resolves the destination folder. It does no I/O.
func Plan(ctx context.Context, req Request) (*Job, error) {
	logger := zerolog.Ctx(ctx).With().Str("project", req.ProjectName).Int("process_id", req.ProcessID).Logger()

	if req.Config == nil {
		return nil, configurationError(nil, "no configuration loaded")
	}

	block, err := req.Config.Select(req.ProjectName)
	if err != nil {
		return nil, configurationError(err, "the configuration for project %q is incomplete", req.ProjectName)
	}
	if err := block.Validate(); err != nil {
		return nil, configurationError(err, "the configuration for project %q is incomplete", req.ProjectName)
	}

	if strings.TrimSpace(req.SourceDir) == "" {
		return nil, configurationError(nil, "no source directory given")
	}

	root := block.Path
	if root == "" {
		logger.Debug().Msg("path is not configured, using the fallback destination")
		root = strings.TrimSpace(req.FallbackDestination)
	}
	if root == "" {
		return nil, configurationError(nil, "no destination configured for project %q", req.ProjectName)
	}

	if req.Logical == nil {
		return nil, metadataError(nil, "logical structure is missing")
	}

	template := root
	root = strings.TrimSpace(text.NewVariableReplacer(req.Logical, req.ProcessID, req.ProcessTitle).Replace(ctx, root))
	if root == "" {
		return nil, configurationError(nil, "the destination %q for project %q resolves to an empty path", template, req.ProjectName)
	}
	root = filepath.ToSlash(root)

	folder, err := resolve.FolderName(req.Logical, block.Identifier, block.Volume)
	if err != nil {
		return nil, metadataError(err, "resolving folder name")
	}

	job := &Job{
		project:      block.Project,
		source:       req.SourceDir,
		root:         root,
		destination:  path.Join(root, folder.FolderName),
		folder:       *folder,
		backend:      block.Backend(),
		processID:    req.ProcessID,
		processTitle: req.ProcessTitle,
		tracker:      req.Tracker,
	}

	logger.Debug().
		Str("block", job.project).
		Str("destination", job.destination).
		Bool("multi_volume", folder.MultiVolume).
		Str("backend", job.backend.String()).
		Msg("export planned")

	return job, nil
}

// Project returns the name of the selected config block
func (j *Job) Project() string { return j.project }

// Source returns the source directory
func (j *Job) Source() string { return j.source }

// Root returns the destination root after substitution
func (j *Job) Root() string { return j.root }

// Destination returns the export directory, Root joined with the folder name
func (j *Job) Destination() string { return j.destination }

// Folder returns the resolved folder name parts
func (j *Job) Folder() resolve.Result { return j.folder }

// Backend returns the backend config
func (j *Job) Backend() backend.Config { return j.backend }

// ProcessID returns the process id
func (j *Job) ProcessID() int { return j.processID }

// ProcessTitle returns the process title
func (j *Job) ProcessTitle() string { return j.processTitle }

// Target describes the destination for humans, user@host:path for sftp
func (j *Job) Target() string {
	if j.backend.Variant == backend.VariantRemote {
		return j.backend.User + "@" + j.backend.Host + ":" + j.destination
	}
	return j.destination
}

// 🏃 Run executes the job: provision, transfer, marker. The backend is
// opened only after the source has been found non-empty and is always
// closed again.
func (j *Job) Run(ctx context.Context, dialer backend.Dialer) error {
	logger := zerolog.Ctx(ctx).With().
		Int("process_id", j.processID).
		Str("destination", j.destination).
		Str("backend", j.backend.String()).
		Logger()
	ctx = logger.WithContext(ctx)

	entries, err := os.ReadDir(j.source)
	if err != nil {
		return operation.NewKindError(ErrTransfer, err, "reading source directory %s", j.source)
	}
	if len(entries) == 0 {
		return operation.NewKindError(ErrPrecondition, nil, "there is nothing to copy from %s, it is empty", j.source)
	}

	b, err := dialer.Open(ctx, j.backend)
	if err != nil {
		return connectionError(err, "connecting to %s", j.backend)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing backend")
		}
	}()

	transfer := operation.NewTransfer(operation.Options{
		Backend: b,
		Tracker: j.tracker,
	})

	return operation.NewRunner().Run(ctx,
		operation.Provision(b, j.destination),
		operation.Copy(transfer, j.source, j.destination),
		operation.Mark(b, j.destination),
	)
}
