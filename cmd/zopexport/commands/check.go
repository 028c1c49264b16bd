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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/zopexport/cmd/zopexport/opts"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [project...]",
		Short: "Validate the config file",
		Long: `Check loads the config file and validates it. With project names it reports
the block each project would use, without touching any destination.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				for i := range cfg.Projects {
					o.Logger.Info(cfg.Projects[i].String())
				}
				o.Logger.Successf("%s: %d config blocks", cfg.Location(), len(cfg.Projects))
				return nil
			}

			failed := 0
			for _, name := range args {
				block, err := cfg.Select(name)
				if err == nil {
					err = block.Validate()
				}
				if err != nil {
					failed++
					o.Logger.Errorf("%s: %v", name, err)
					continue
				}
				o.Logger.Info(fmt.Sprintf("%s uses %s", name, block))
			}

			if failed > 0 {
				return errors.Errorf("%d of %d projects have no usable config block", failed, len(args))
			}
			o.Logger.Success("config is valid")
			return nil
		},
	}

	return cmd
}
