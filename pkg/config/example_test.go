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

package config_test

import (
	"fmt"

	"github.com/walteh/zopexport/pkg/config"
)

func ExampleConfig_Select() {
	cfg := &config.Config{Projects: []config.Project{
		{Project: "*", Path: "/opt/export"},
		{Project: "News*", Path: "/opt/news", SFTP: true, Username: "goobi", Hostname: "archive"},
	}}

	for _, name := range []string{"Newspapers", "Manuscripts"} {
		p, err := cfg.Select(name)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(p)
	}

	// Output:
	// News*: goobi@archive:22 -> /opt/news
	// *: local -> /opt/export
}
