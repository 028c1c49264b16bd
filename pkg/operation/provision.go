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
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/zopexport/pkg/backend"
)

// 📁 EnsureDir makes sure dir exists on b.
//
// A blank dir is rejected without touching the backend. An existing dir is
// left alone. Otherwise the backend creates it and it must be listable
// afterwards. Nothing is deleted when creation fails.
func EnsureDir(ctx context.Context, b backend.Backend, dir string) bool {
	logger := zerolog.Ctx(ctx).With().Str("backend", b.Name()).Str("dir", dir).Logger()

	if strings.TrimSpace(dir) == "" {
		logger.Error().Msg("the path provided is empty")
		return false
	}

	exists, err := b.Exists(ctx, dir)
	if err != nil {
		logger.Error().Err(err).Msg("failed to check directory")
		return false
	}
	if exists {
		logger.Debug().Msg("directory already exists")
		return true
	}

	if err := b.MakeDirAll(ctx, dir); err != nil {
		logger.Error().Err(err).Msg("failed to create directory")
		return false
	}

	if _, err := b.List(ctx, dir); err != nil {
		logger.Error().Err(err).Msg("created directory is not listable")
		return false
	}

	logger.Debug().Msg("directory created")
	return true
}
