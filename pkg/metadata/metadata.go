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

// Package metadata models the logical structure of a digitized work and
// loads it from YAML or JSON documents.
package metadata

import (
	"strings"
)

// 🏷️ Metadata is one named value attached to a structure element
type Metadata struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// 📚 DocStruct is a node of the logical structure tree.
//
// An anchor is a multi-volume parent whose children are the individual
// volumes.
type DocStruct struct {
	Type     string       `json:"type" yaml:"type"`
	Anchor   bool         `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Metadata []Metadata   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Children []*DocStruct `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsAnchor reports whether the node is a multi-volume parent
func (d *DocStruct) IsAnchor() bool {
	return d != nil && d.Anchor
}

// 🔍 Find returns the trimmed value of the first metadata entry named field,
// or "" when there is none. Only this node's own entries are scanned.
func (d *DocStruct) Find(field string) string {
	if d == nil {
		return ""
	}
	for _, md := range d.Metadata {
		if md.Name == field {
			return strings.TrimSpace(md.Value)
		}
	}
	return ""
}

// FirstChild returns the first child node, if any
func (d *DocStruct) FirstChild() (*DocStruct, bool) {
	if d == nil || len(d.Children) == 0 || d.Children[0] == nil {
		return nil, false
	}
	return d.Children[0], true
}
