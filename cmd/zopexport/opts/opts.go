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

package opts

import (
	"context"
	"time"

	"github.com/walteh/zopexport/pkg/backend"
	"github.com/walteh/zopexport/pkg/config"
	"github.com/walteh/zopexport/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🔧 RootOpts holds the values shared by every command. It is filled in
// before a command runs.
type RootOpts struct {
	// ConfigFile is the path of the config file
	ConfigFile string
	// Debug enables debug logging
	Debug bool
	// DialTimeout bounds connecting to sftp hosts
	DialTimeout time.Duration
	// Logger writes user facing lines
	Logger *log.Logger
	// Dialer opens backends, built from DialTimeout when nil
	Dialer backend.Dialer

	config *config.Config
}

// Config loads the config file once
func (o *RootOpts) Config(ctx context.Context) (*config.Config, error) {
	if o.config != nil {
		return o.config, nil
	}
	if o.ConfigFile == "" {
		return nil, errors.New("no config file given, use --config")
	}
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	o.config = cfg
	return cfg, nil
}

// BackendDialer returns the dialer commands should use
func (o *RootOpts) BackendDialer() backend.Dialer {
	if o.Dialer != nil {
		return o.Dialer
	}
	return backend.DefaultDialer{Timeout: o.DialTimeout}
}
