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
	"time"

	"github.com/rs/zerolog"
)

// 🏃 Runner executes stages in order and stops at the first failure
type Runner struct{}

// 🏗️ NewRunner creates a new runner
func NewRunner() *Runner {
	return &Runner{}
}

// 🏃 Run executes ops one after another. The first error is returned
// unchanged so callers can classify it.
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return transferError(err, "export cancelled before %s", op.Name())
		}

		logger := zerolog.Ctx(ctx).With().Str("stage", op.Name()).Logger()
		start := time.Now()

		logger.Debug().Msg("stage started")
		if err := op.Execute(logger.WithContext(ctx)); err != nil {
			logger.Debug().Err(err).Dur("took", time.Since(start)).Msg("stage failed")
			return err
		}
		logger.Debug().Dur("took", time.Since(start)).Msg("stage finished")
	}
	return nil
}
