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
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📋 ManifestJob is one item of a batch
type ManifestJob struct {
	Project      string `yaml:"project"`
	Source       string `yaml:"source"`
	Metadata     string `yaml:"metadata"`
	ProcessID    int    `yaml:"processId"`
	ProcessTitle string `yaml:"processTitle"`
	Fallback     string `yaml:"fallback"`
}

// 📋 Manifest lists the items of a batch
type Manifest struct {
	Jobs []ManifestJob `yaml:"jobs"`
}

// loadManifest reads a manifest. Relative source and metadata paths are
// taken relative to the manifest.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading manifest: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Errorf("parsing manifest: %w", err)
	}
	if len(m.Jobs) == 0 {
		return nil, errors.Errorf("manifest %s lists no jobs", path)
	}

	base := filepath.Dir(path)
	for i := range m.Jobs {
		j := &m.Jobs[i]
		j.Project = strings.TrimSpace(j.Project)
		if j.Project == "" {
			return nil, errors.Errorf("job %d: project is required", i)
		}
		if strings.TrimSpace(j.Source) == "" {
			return nil, errors.Errorf("job %d: source is required", i)
		}
		if strings.TrimSpace(j.Metadata) == "" {
			return nil, errors.Errorf("job %d: metadata is required", i)
		}
		j.Source = relativeTo(base, j.Source)
		j.Metadata = relativeTo(base, j.Metadata)
	}

	return &m, nil
}

func relativeTo(base, p string) string {
	p = strings.TrimSpace(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
