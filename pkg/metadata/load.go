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

package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📄 Document is the on-disk metadata file of one process
type Document struct {
	Logical *DocStruct `json:"logical" yaml:"logical"`
}

// 🎯 Load reads a metadata document. The format is chosen by extension:
// .json for JSON, .yaml or .yml for YAML.
func Load(ctx context.Context, path string) (*Document, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading metadata")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading metadata file: %w", err)
	}

	var doc *Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		doc, err = parseJSON(data)
	case ".yaml", ".yml":
		doc, err = parseYAML(data)
	default:
		return nil, errors.Errorf("unsupported metadata file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if doc.Logical == nil {
		return nil, errors.Errorf("metadata document %s has no logical structure", path)
	}
	return doc, nil
}

func parseJSON(data []byte) (*Document, error) {
	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &doc, nil
}

func parseYAML(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &doc, nil
}
