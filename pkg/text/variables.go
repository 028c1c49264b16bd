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

package text

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/zopexport/pkg/metadata"
)

// variablePattern matches {processid}, {processtitle}, {meta.X},
// {meta.topstruct.X} and {meta.firstchild.X}
var variablePattern = regexp.MustCompile(`(?i)\{(processid|processtitle|meta(?:\.(topstruct|firstchild))?\.([^{}]+))\}`)

// 🧩 VariableReplacer substitutes process and metadata variables in path
// templates.
//
// {meta.X} reads the current volume, that is the first child of an anchor
// or the root otherwise. {meta.topstruct.X} always reads the root and
// {meta.firstchild.X} always reads the first child. Unknown fields become
// the empty string. Substituted values are never scanned again, so a title
// holding "{processid}" stays as it is.
type VariableReplacer struct {
	logical      *metadata.DocStruct
	processID    int
	processTitle string
}

// NewVariableReplacer creates a replacer for one process
func NewVariableReplacer(logical *metadata.DocStruct, processID int, processTitle string) *VariableReplacer {
	return &VariableReplacer{
		logical:      logical,
		processID:    processID,
		processTitle: processTitle,
	}
}

func (v *VariableReplacer) value(name, scope, field string) string {
	switch strings.ToLower(name) {
	case "processid":
		return strconv.Itoa(v.processID)
	case "processtitle":
		return v.processTitle
	}

	first, hasChild := v.logical.FirstChild()
	switch strings.ToLower(scope) {
	case "topstruct":
		return v.logical.Find(field)
	case "firstchild":
		if !hasChild {
			return ""
		}
		return first.Find(field)
	default:
		if v.logical.IsAnchor() && hasChild {
			return first.Find(field)
		}
		return v.logical.Find(field)
	}
}

// 🎯 Replace substitutes every variable in template in a single pass
func (v *VariableReplacer) Replace(ctx context.Context, template string) string {
	count := 0
	result := variablePattern.ReplaceAllStringFunc(template, func(token string) string {
		m := variablePattern.FindStringSubmatch(token)
		count++
		return v.value(m[1], m[2], m[3])
	})

	if count > 0 {
		zerolog.Ctx(ctx).Debug().
			Str("template", template).
			Str("result", result).
			Int("replacements", count).
			Msg("variables replaced")
	}
	return result
}
