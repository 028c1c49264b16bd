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

// Package resolve derives the destination folder name of an export from
// the logical metadata tree.
package resolve

import (
	"strings"

	"github.com/walteh/zopexport/pkg/metadata"
	"gitlab.com/tozd/go/errors"
)

// NameSeparator joins identifier and volume title for multi-volume works
const NameSeparator = "-"

// 📁 Result is the resolved destination folder
type Result struct {
	Identifier  string
	VolumeTitle string // empty for single volume works
	MultiVolume bool
	FolderName  string
}

// 🎯 FolderName resolves the destination folder base name.
//
// The identifier is read from the root of the logical tree. When the root is
// an anchor, the volume title is read from its first child with spaces
// replaced by underscores and the name becomes "<identifier>-<volume>".
func FolderName(logical *metadata.DocStruct, identifierField, volumeField string) (*Result, error) {
	if logical == nil {
		return nil, errors.New("logical structure is missing")
	}

	id := logical.Find(identifierField)
	if id == "" {
		return nil, errors.Errorf("no valid id found, it seems that %s is invalid", identifierField)
	}

	res := &Result{
		Identifier: id,
		FolderName: id,
	}

	if !logical.IsAnchor() {
		return res, nil
	}

	volume, ok := logical.FirstChild()
	if !ok {
		return nil, errors.Errorf("anchor %s has no volumes", logical.Type)
	}

	title := strings.ReplaceAll(volume.Find(volumeField), " ", "_")
	if title == "" {
		return nil, errors.Errorf("no valid volume title found, it seems that %s is invalid", volumeField)
	}

	res.VolumeTitle = title
	res.MultiVolume = true
	res.FolderName = id + NameSeparator + title
	return res, nil
}
