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
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	_ Backend          = (*Local)(nil)
	_ EmptyFileCreator = (*Local)(nil)
	_ Digester         = (*Local)(nil)
)

// 💾 Local exports to the local filesystem
type Local struct {
	cwd string
}

// 🏭 NewLocal creates a local backend whose working directory is the
// process working directory
func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Name() string { return "local" }

// 🔒 native converts a backend path to an OS path
func (l *Local) native(path string) string {
	return filepath.FromSlash(path)
}

func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(l.native(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking existence of %s: %w", path, err)
}

func (l *Local) List(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(l.native(dir))
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (l *Local) Put(ctx context.Context, src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.OpenFile(l.native(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file content: %w", err)
	}
	if err := destination.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("src", src).Str("dst", dst).Msg("file copied")
	return nil
}

func (l *Local) CreateEmptyFile(ctx context.Context, path string) error {
	f, err := os.OpenFile(l.native(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func (l *Local) DeleteFile(ctx context.Context, path string) error {
	if err := os.Remove(l.native(path)); err != nil {
		return errors.Errorf("deleting file: %w", err)
	}
	return nil
}

func (l *Local) DeleteTree(ctx context.Context, dir string) error {
	if err := os.RemoveAll(l.native(dir)); err != nil {
		return errors.Errorf("removing directory: %w", err)
	}
	return nil
}

func (l *Local) MakeDir(ctx context.Context, name string) error {
	if err := os.Mkdir(l.resolve(name), 0755); err != nil {
		return errors.Errorf("creating directory %s: %w", name, err)
	}
	return nil
}

func (l *Local) ChangeDir(ctx context.Context, name string) error {
	target := l.resolve(name)
	info, err := os.Stat(target)
	if err != nil {
		return errors.Errorf("changing directory to %s: %w", name, err)
	}
	if !info.IsDir() {
		return errors.Errorf("changing directory to %s: not a directory", name)
	}
	l.cwd = target
	return nil
}

func (l *Local) MakeDirAll(ctx context.Context, dir string) error {
	if err := os.MkdirAll(l.native(dir), 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

func (l *Local) Digest(ctx context.Context, path string) (string, error) {
	return SumFile(l.native(path))
}

func (l *Local) Close() error { return nil }

// 🔒 resolve joins name onto the working directory
func (l *Local) resolve(name string) string {
	name = l.native(name)
	if filepath.IsAbs(name) || l.cwd == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(l.cwd, name)
}
