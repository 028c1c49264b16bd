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

package backend

import (
	"context"
	"strconv"

	"gitlab.com/tozd/go/errors"
)

// 🎯 Backend is the capability set shared by every export target.
//
// All paths are slash separated. Navigation methods (MakeDir, ChangeDir) are
// relative to the backend's working directory; every other method takes an
// absolute path or a path relative to the backend root.
type Backend interface {
	// Name returns a short identifier used in logs ("local", "sftp")
	Name() string
	// Exists reports whether path exists
	Exists(ctx context.Context, path string) (bool, error)
	// List returns the entry names of dir, never "." or ".."
	List(ctx context.Context, dir string) ([]string, error)
	// Put copies the local file src to dst
	Put(ctx context.Context, src, dst string) error
	// DeleteFile removes a single file
	DeleteFile(ctx context.Context, path string) error
	// DeleteTree removes dir and everything below it
	DeleteTree(ctx context.Context, dir string) error
	// MakeDir creates one directory relative to the working directory
	MakeDir(ctx context.Context, name string) error
	// ChangeDir moves the working directory
	ChangeDir(ctx context.Context, name string) error
	// MakeDirAll creates dir and any missing parents
	MakeDirAll(ctx context.Context, dir string) error
	// Close releases any held connection
	Close() error
}

// 📝 EmptyFileCreator is implemented by backends that can create an empty
// file without an upload.
type EmptyFileCreator interface {
	CreateEmptyFile(ctx context.Context, path string) error
}

// 🔍 Digester is implemented by backends whose copies must be verified by
// content digest.
type Digester interface {
	Digest(ctx context.Context, path string) (string, error)
}

// 🔌 Variant selects a backend implementation
type Variant int

const (
	VariantLocal Variant = iota
	VariantRemote
)

// String returns a string representation of Variant
func (v Variant) String() string {
	switch v {
	case VariantLocal:
		return "local"
	case VariantRemote:
		return "sftp"
	default:
		return "unknown"
	}
}

// DefaultPort is the ssh port used when none is configured
const DefaultPort = 22

// 📦 Config describes which backend a job exports to
type Config struct {
	Variant Variant

	// remote only
	Host       string
	Port       int
	User       string
	KeyPath    string
	KnownHosts string
}

// 🔍 Validate checks that a remote config carries enough to connect
func (c Config) Validate() error {
	if c.Variant != VariantRemote {
		return nil
	}
	if c.User == "" {
		return errors.Errorf("username is required for sftp")
	}
	if c.Host == "" {
		return errors.Errorf("hostname is required for sftp")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Address returns host:port for the remote variant
func (c Config) Address() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return c.Host + ":" + strconv.Itoa(port)
}

// String returns a string representation of the config
func (c Config) String() string {
	if c.Variant == VariantRemote {
		return c.User + "@" + c.Address()
	}
	return c.Variant.String()
}
