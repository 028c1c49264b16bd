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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
//
// Each project is a labelled block:
//
//	config "*" {
//	  path       = "/opt/export"
//	  identifier = "CatalogIDDigital"
//	  volume     = "CurrentNo"
//	  keyPath    = "${env.HOME}/.ssh/id_ed25519"
//	}
//
// Environment variables are available as env.NAME.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclProject struct {
		Project    string `hcl:"project,label"`
		Path       string `hcl:"path,optional"`
		Identifier string `hcl:"identifier,optional"`
		Volume     string `hcl:"volume,optional"`
		SFTP       bool   `hcl:"sftp,optional"`
		Username   string `hcl:"username,optional"`
		Hostname   string `hcl:"hostname,optional"`
		Port       int    `hcl:"port,optional"`
		KeyPath    string `hcl:"keyPath,optional"`
		KnownHosts string `hcl:"knownHosts,optional"`
	}
	type hclConfig struct {
		Configs []hclProject `hcl:"config,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	for _, c := range hclCfg.Configs {
		cfg.Projects = append(cfg.Projects, Project(c))
	}
	return cfg, nil
}

// evalContext exposes the process environment as env.NAME
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = cty.StringVal(value)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}
