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

package text_test

import (
	"context"
	"fmt"

	"github.com/walteh/zopexport/pkg/metadata"
	"github.com/walteh/zopexport/pkg/text"
)

func ExampleVariableReplacer_Replace() {
	logical := &metadata.DocStruct{
		Type:     "Monograph",
		Metadata: []metadata.Metadata{{Name: "CatalogIDDigital", Value: "ABC123"}},
	}

	replacer := text.NewVariableReplacer(logical, 17, "ABC123_title")
	fmt.Println(replacer.Replace(context.Background(), "/opt/export/{meta.CatalogIDDigital}/{processid}"))

	// Output:
	// /opt/export/ABC123/17
}
