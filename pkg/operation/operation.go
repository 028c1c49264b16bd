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

package operation

import (
	"context"

	"github.com/walteh/zopexport/pkg/backend"
)

// 🎯 Operation is one stage of an export
type Operation interface {
	// Name identifies the stage in logs
	Name() string
	// Execute runs the stage
	Execute(ctx context.Context) error
}

// 🔧 Func adapts a function to an Operation
type Func struct {
	Label string
	Fn    func(ctx context.Context) error
}

func (f Func) Name() string { return f.Label }

func (f Func) Execute(ctx context.Context) error { return f.Fn(ctx) }

// 📁 Provision returns a stage that makes sure dir exists on b
func Provision(b backend.Backend, dir string) Operation {
	return Func{
		Label: "provision",
		Fn: func(ctx context.Context) error {
			if !EnsureDir(ctx, b, dir) {
				return transferError(nil, "could not create directory %s", dir)
			}
			return nil
		},
	}
}

// 🚚 Copy returns a stage that runs t from src into dst
func Copy(t *Transfer, src, dst string) Operation {
	return Func{
		Label: "transfer",
		Fn: func(ctx context.Context) error {
			return t.Run(ctx, src, dst)
		},
	}
}

// 🏁 Mark returns a stage that writes the completion marker of dst
func Mark(b backend.Backend, dst string) Operation {
	return Func{
		Label: "marker",
		Fn: func(ctx context.Context) error {
			return WriteMarker(ctx, b, dst)
		},
	}
}
