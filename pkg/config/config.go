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

package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/zopexport/pkg/backend"
	"gitlab.com/tozd/go/errors"
)

// CatchAll is the project name of the fallback block
const CatchAll = "*"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 Project is the export configuration of one project, or of every
// project matching its glob pattern
type Project struct {
	Project    string `json:"project" yaml:"project"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Volume     string `json:"volume" yaml:"volume"`
	SFTP       bool   `json:"sftp,omitempty" yaml:"sftp,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Hostname   string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	KeyPath    string `json:"keyPath,omitempty" yaml:"keyPath,omitempty"`
	KnownHosts string `json:"knownHosts,omitempty" yaml:"knownHosts,omitempty"`
}

// 📚 Config is a complete configuration file
type Config struct {
	Projects []Project `json:"configs" yaml:"configs"`

	location string
}

// Location returns the file the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg.location = path
	logger.Debug().Int("projects", len(cfg.Projects)).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks the file as a whole. Individual blocks are checked
// with Project.Validate once selected.
func (cfg *Config) Validate() error {
	if len(cfg.Projects) == 0 {
		return errors.Errorf("at least one config block is required")
	}

	seen := make(map[string]bool, len(cfg.Projects))
	for i := range cfg.Projects {
		p := &cfg.Projects[i]
		p.trim()

		if p.Project == "" {
			return errors.Errorf("config block %d: project is required", i)
		}
		if seen[p.Project] {
			return errors.Errorf("config block %d: duplicate project %q", i, p.Project)
		}
		seen[p.Project] = true

		if !doublestar.ValidatePattern(p.Project) {
			return errors.Errorf("config block %d: invalid project pattern %q", i, p.Project)
		}
		if p.Port < 0 || p.Port > 65535 {
			return errors.Errorf("config block %d: invalid port %d", i, p.Port)
		}
	}
	return nil
}

// 🎯 Select returns the block for a project. An exact name wins, then the
// first glob pattern that matches, then the "*" block.
func (cfg *Config) Select(name string) (*Project, error) {
	for i := range cfg.Projects {
		if cfg.Projects[i].Project == name {
			return &cfg.Projects[i], nil
		}
	}

	var fallback *Project
	for i := range cfg.Projects {
		p := &cfg.Projects[i]
		if p.Project == CatchAll {
			fallback = p
			continue
		}
		if ok, _ := doublestar.Match(p.Project, name); ok {
			return p, nil
		}
	}

	if fallback != nil {
		return fallback, nil
	}
	return nil, errors.Errorf("no config block for project %q", name)
}

func (p *Project) trim() {
	p.Project = strings.TrimSpace(p.Project)
	p.Path = strings.TrimSpace(p.Path)
	p.Identifier = strings.TrimSpace(p.Identifier)
	p.Volume = strings.TrimSpace(p.Volume)
	p.Username = strings.TrimSpace(p.Username)
	p.Hostname = strings.TrimSpace(p.Hostname)
	p.KeyPath = strings.TrimSpace(p.KeyPath)
	p.KnownHosts = strings.TrimSpace(p.KnownHosts)
}

// 🔍 Validate checks that the block carries everything an export needs
func (p *Project) Validate() error {
	if p.Identifier == "" {
		return errors.Errorf("identifier is required")
	}
	if p.Volume == "" {
		return errors.Errorf("volume is required")
	}
	return p.Backend().Validate()
}

// 🔌 Backend returns the backend the block exports to
func (p *Project) Backend() backend.Config {
	if !p.SFTP {
		return backend.Config{Variant: backend.VariantLocal}
	}
	return backend.Config{
		Variant:    backend.VariantRemote,
		Host:       p.Hostname,
		Port:       p.Port,
		User:       p.Username,
		KeyPath:    p.KeyPath,
		KnownHosts: p.KnownHosts,
	}
}

// 📝 String returns a string representation of the block
func (p *Project) String() string {
	path := p.Path
	if path == "" {
		path = "<default>"
	}
	return fmt.Sprintf("%s: %s -> %s", p.Project, p.Backend(), path)
}
