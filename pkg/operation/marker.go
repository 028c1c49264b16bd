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
)

// MarkerExtension is appended to the export directory name to form the
// completion marker
const MarkerExtension = ".ctl"

// MarkerPath returns the marker location for dst, a sibling of dst
func MarkerPath(dst string) string {
	dst = path.Clean(dst)
	return path.Join(path.Dir(dst), path.Base(dst)+MarkerExtension)
}

// 🏁 WriteMarker creates the empty completion marker next to dst.
//
// Backends that can create files in place do so. Others receive an empty
// file staged in a scratch directory, which is removed afterwards.
func WriteMarker(ctx context.Context, b backend.Backend, dst string) error {
	base := path.Base(path.Clean(dst))
	if base == "/" || base == "." || base == ".." {
		return transferError(nil, "cannot place a marker next to %q", dst)
	}

	marker := MarkerPath(dst)
	logger := zerolog.Ctx(ctx).With().Str("backend", b.Name()).Str("marker", marker).Logger()

	if creator, ok := b.(backend.EmptyFileCreator); ok {
		if err := creator.CreateEmptyFile(ctx, marker); err != nil {
			return transferError(err, "creating marker %s", marker)
		}
		logger.Debug().Msg("marker created")
		return nil
	}

	scratch, err := os.MkdirTemp("", "zopexport-marker-*")
	if err != nil {
		return transferError(err, "creating scratch directory")
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Warn().Err(err).Str("scratch", scratch).Msg("failed to remove scratch directory")
		}
	}()

	staged := filepath.Join(scratch, base+MarkerExtension)
	if err := os.WriteFile(staged, nil, 0644); err != nil {
		return transferError(err, "staging marker")
	}

	if err := b.Put(ctx, staged, marker); err != nil {
		return transferError(err, "uploading marker %s", marker)
	}

	logger.Debug().Msg("marker uploaded")
	return nil
}
