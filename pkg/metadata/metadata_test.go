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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	d := &DocStruct{
		Type: "Monograph",
		Metadata: []Metadata{
			{Name: "TitleDocMain", Value: "A title"},
			{Name: "CatalogIDDigital", Value: "  ABC123  "},
			{Name: "CatalogIDDigital", Value: "second"},
		},
	}

	assert.Equal(t, "ABC123", d.Find("CatalogIDDigital"), "first match wins and is trimmed")
	assert.Equal(t, "A title", d.Find("TitleDocMain"))
	assert.Empty(t, d.Find("missing"))

	var nilDoc *DocStruct
	assert.Empty(t, nilDoc.Find("CatalogIDDigital"))
	assert.False(t, nilDoc.IsAnchor())
}

func TestFirstChild(t *testing.T) {
	child := &DocStruct{Type: "Volume"}
	parent := &DocStruct{Type: "MultiVolumeWork", Anchor: true, Children: []*DocStruct{child, {Type: "Volume"}}}

	got, ok := parent.FirstChild()
	require.True(t, ok)
	assert.Same(t, child, got)

	_, ok = child.FirstChild()
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		errContains string
		check       func(t *testing.T, doc *Document)
	}{
		{
			name: "yaml_anchor",
			file: "meta.yaml",
			content: `
logical:
  type: Periodical
  anchor: true
  metadata:
    - name: CatalogIDDigital
      value: ABC123
  children:
    - type: PeriodicalVolume
      metadata:
        - name: CurrentNo
          value: Volume 1
`,
			check: func(t *testing.T, doc *Document) {
				assert.True(t, doc.Logical.IsAnchor())
				assert.Equal(t, "ABC123", doc.Logical.Find("CatalogIDDigital"))
				child, ok := doc.Logical.FirstChild()
				require.True(t, ok)
				assert.Equal(t, "Volume 1", child.Find("CurrentNo"))
			},
		},
		{
			name:    "json_monograph",
			file:    "meta.json",
			content: `{"logical": {"type": "Monograph", "metadata": [{"name": "CatalogIDDigital", "value": "XYZ"}]}}`,
			check: func(t *testing.T, doc *Document) {
				assert.False(t, doc.Logical.IsAnchor())
				assert.Equal(t, "XYZ", doc.Logical.Find("CatalogIDDigital"))
			},
		},
		{
			name:        "unknown_field",
			file:        "meta.yml",
			content:     "logical:\n  type: Monograph\n  colour: blue\n",
			errContains: "parsing YAML",
		},
		{
			name:        "no_logical",
			file:        "meta.json",
			content:     `{}`,
			errContains: "has no logical structure",
		},
		{
			name:        "unsupported_extension",
			file:        "meta.xml",
			content:     "<mets/>",
			errContains: "unsupported metadata file extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			doc, err := Load(ctx, path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, doc)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading metadata file")
}
