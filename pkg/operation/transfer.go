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

package operation

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/zopexport/pkg/backend"
	"github.com/walteh/zopexport/pkg/status"
)

// 🔧 Options configures a Transfer
type Options struct {
	// Backend receives the files
	Backend backend.Backend
	// Tracker records per-file progress, status.Discard when nil
	Tracker status.Tracker
}

// 🚚 Transfer copies the regular files of a local directory into an empty
// destination directory on a backend.
//
// When the backend is a backend.Digester every copy is verified against the
// SHA-256 of its source. A mismatch is retried once. A second mismatch
// removes everything in the destination and the destination itself.
type Transfer struct {
	backend  backend.Backend
	digester backend.Digester
	tracker  status.Tracker
}

// 🏭 NewTransfer creates a Transfer
func NewTransfer(opts Options) *Transfer {
	t := &Transfer{
		backend: opts.Backend,
		tracker: opts.Tracker,
	}
	if t.tracker == nil {
		t.tracker = status.Discard
	}
	if d, ok := opts.Backend.(backend.Digester); ok {
		t.digester = d
	}
	return t
}

// Verifies reports whether copies are checked against their source
func (t *Transfer) Verifies() bool {
	return t.digester != nil
}

// 🏃 Run copies src into dst. dst must already exist and be empty.
func (t *Transfer) Run(ctx context.Context, src, dst string) error {
	logger := zerolog.Ctx(ctx).With().
		Str("backend", t.backend.Name()).
		Str("src", src).
		Str("dst", dst).
		Logger()
	ctx = logger.WithContext(ctx)

	entries, err := os.ReadDir(src)
	if err != nil {
		return transferError(err, "reading source directory %s", src)
	}
	if len(entries) == 0 {
		return preconditionError("there is nothing to copy from %s, it is empty", src)
	}

	existing, err := t.backend.List(ctx, dst)
	if err != nil {
		return transferError(err, "listing destination directory %s", dst)
	}
	if len(existing) > 0 {
		return preconditionError("the directory %s is not empty", dst)
	}

	t.tracker.StartOperation(ctx, len(entries))
	defer t.tracker.FinishOperation(ctx)

	logger.Debug().Int("entries", len(entries)).Bool("verify", t.Verifies()).Msg("starting transfer")

	copied := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return transferError(err, "transfer interrupted")
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := path.Join(dst, entry.Name())

		// os.Stat follows links, so a linked image is copied like any other
		info, err := os.Stat(srcPath)
		if err != nil {
			t.track(ctx, dstPath, status.StatusFailed, 0, "", err)
			return transferError(err, "reading source entry %s", srcPath)
		}

		if !info.Mode().IsRegular() {
			logger.Warn().Str("entry", entry.Name()).Msg("skipping entry that is not a regular file")
			t.track(ctx, dstPath, status.StatusSkipped, 0, "", nil)
			continue
		}

		if err := t.copyFile(ctx, srcPath, dstPath, info.Size()); err != nil {
			return err
		}
		copied++
	}

	if copied == 0 {
		return preconditionError("there are no files to copy in %s", src)
	}

	logger.Debug().Int("files", copied).Msg("transfer complete")
	return nil
}

func (t *Transfer) copyFile(ctx context.Context, srcPath, dstPath string, size int64) error {
	logger := zerolog.Ctx(ctx)

	if err := t.backend.Put(ctx, srcPath, dstPath); err != nil {
		t.track(ctx, dstPath, status.StatusFailed, size, "", err)
		return transferError(err, "copying %s to %s", srcPath, dstPath)
	}

	if t.digester == nil {
		t.track(ctx, dstPath, status.StatusUploaded, size, "", nil)
		return nil
	}

	want, err := backend.SumFile(srcPath)
	if err != nil {
		t.track(ctx, dstPath, status.StatusFailed, size, "", err)
		return transferError(err, "hashing source file %s", srcPath)
	}

	got, err := t.digester.Digest(ctx, dstPath)
	if err != nil {
		t.track(ctx, dstPath, status.StatusFailed, size, "", err)
		return transferError(err, "hashing copied file %s", dstPath)
	}
	if got == want {
		t.track(ctx, dstPath, status.StatusVerified, size, got, nil)
		return nil
	}

	logger.Warn().
		Str("file", dstPath).
		Str("want", want).
		Str("got", got).
		Msg("checksum mismatch, copying again")

	if err := t.backend.DeleteFile(ctx, dstPath); err != nil {
		t.track(ctx, dstPath, status.StatusFailed, size, "", err)
		return transferError(err, "removing mismatched copy %s", dstPath)
	}
	if err := t.backend.Put(ctx, srcPath, dstPath); err != nil {
		t.track(ctx, dstPath, status.StatusFailed, size, "", err)
		return transferError(err, "copying %s to %s again", srcPath, dstPath)
	}

	got, err = t.digester.Digest(ctx, dstPath)
	if err != nil {
		t.track(ctx, dstPath, status.StatusFailed, size, "", err)
		return transferError(err, "hashing copied file %s", dstPath)
	}
	if got == want {
		t.track(ctx, dstPath, status.StatusRetried, size, got, nil)
		return nil
	}

	logger.Error().
		Str("file", dstPath).
		Str("want", want).
		Str("got", got).
		Msg("checksum mismatch after retry, rolling back")

	t.track(ctx, dstPath, status.StatusFailed, size, got, nil)
	if err := t.rollback(ctx, path.Dir(dstPath)); err != nil {
		return integrityError("checksum check failed twice for %s, rollback incomplete: %v", srcPath, err)
	}
	return integrityError("checksum check failed twice for %s, the export directory has been removed", srcPath)
}

// 🧹 rollback removes every entry of dst and then dst itself
func (t *Transfer) rollback(ctx context.Context, dst string) error {
	logger := zerolog.Ctx(ctx)

	names, err := t.backend.List(ctx, dst)
	if err != nil {
		return transferError(err, "listing %s for rollback", dst)
	}

	var first error
	for _, name := range names {
		p := path.Join(dst, name)
		if err := t.backend.DeleteFile(ctx, p); err != nil {
			logger.Error().Err(err).Str("file", p).Msg("rollback could not delete file")
			if first == nil {
				first = err
			}
			continue
		}
		t.track(ctx, p, status.StatusRolledBack, 0, "", nil)
	}

	if err := t.backend.DeleteTree(ctx, dst); err != nil {
		logger.Error().Err(err).Msg("rollback could not delete directory")
		if first == nil {
			first = err
		}
	}

	return first
}

func (t *Transfer) track(ctx context.Context, p string, st status.FileStatus, size int64, sum string, err error) {
	name := path.Base(p)
	t.tracker.TrackFile(ctx, name, status.FileInfo{
		Path:     name,
		Status:   st,
		Size:     size,
		Checksum: sum,
		Error:    err,
	})
}
