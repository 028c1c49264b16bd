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
	"path"
	"strings"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var _ Backend = (*Remote)(nil)

// 🌐 Remote exports over one sftp session.
//
// SFTP has no notion of a current directory, so Remote keeps its own for
// ChangeDir and MakeDir. It is not safe for concurrent use.
type Remote struct {
	client *sftp.Client
	closer io.Closer
	cwd    string
}

// 🏭 NewRemote wraps an open sftp client. closer, if not nil, is closed
// after the client (typically the ssh connection).
func NewRemote(client *sftp.Client, closer io.Closer) *Remote {
	return &Remote{
		client: client,
		closer: closer,
		cwd:    "/",
	}
}

func (r *Remote) Name() string { return "sftp" }

// 🔒 abs resolves a non-navigation path against the session root
func (r *Remote) abs(p string) string {
	return path.Join("/", p)
}

// 🔒 resolve joins name onto the working directory
func (r *Remote) resolve(name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Join(r.cwd, name)
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist) || os.IsNotExist(err)
}

func (r *Remote) Exists(ctx context.Context, p string) (bool, error) {
	_, err := r.client.Stat(r.abs(p))
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking existence of %s: %w", p, err)
}

func (r *Remote) List(ctx context.Context, dir string) ([]string, error) {
	infos, err := r.client.ReadDir(r.abs(dir))
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", dir, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Name() == "." || info.Name() == ".." {
			continue
		}
		names = append(names, info.Name())
	}
	return names, nil
}

func (r *Remote) Put(ctx context.Context, src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := r.client.Create(r.abs(dst))
	if err != nil {
		return errors.Errorf("creating remote file %s: %w", dst, err)
	}

	if _, err := destination.ReadFrom(source); err != nil {
		destination.Close()
		return errors.Errorf("uploading %s: %w", dst, err)
	}
	if err := destination.Close(); err != nil {
		return errors.Errorf("closing remote file %s: %w", dst, err)
	}

	zerolog.Ctx(ctx).Trace().Str("src", src).Str("dst", dst).Msg("file uploaded")
	return nil
}

func (r *Remote) DeleteFile(ctx context.Context, p string) error {
	if err := r.client.Remove(r.abs(p)); err != nil {
		return errors.Errorf("deleting remote file %s: %w", p, err)
	}
	return nil
}

func (r *Remote) DeleteTree(ctx context.Context, dir string) error {
	dir = r.abs(dir)
	infos, err := r.client.ReadDir(dir)
	if err != nil {
		return errors.Errorf("listing %s: %w", dir, err)
	}
	for _, info := range infos {
		if info.Name() == "." || info.Name() == ".." {
			continue
		}
		child := path.Join(dir, info.Name())
		if info.IsDir() {
			if err := r.DeleteTree(ctx, child); err != nil {
				return err
			}
			continue
		}
		if err := r.client.Remove(child); err != nil {
			return errors.Errorf("deleting remote file %s: %w", child, err)
		}
	}
	if err := r.client.RemoveDirectory(dir); err != nil {
		return errors.Errorf("removing remote directory %s: %w", dir, err)
	}
	return nil
}

func (r *Remote) MakeDir(ctx context.Context, name string) error {
	target := r.resolve(name)
	if err := r.client.Mkdir(target); err != nil {
		return errors.Errorf("creating remote directory %s: %w", target, err)
	}
	zerolog.Ctx(ctx).Debug().Str("dir", target).Msg("remote directory created")
	return nil
}

func (r *Remote) ChangeDir(ctx context.Context, name string) error {
	target := r.resolve(name)
	info, err := r.client.Stat(target)
	if err != nil {
		return errors.Errorf("changing directory to %s: %w", target, err)
	}
	if !info.IsDir() {
		return errors.Errorf("changing directory to %s: not a directory", target)
	}
	r.cwd = target
	return nil
}

// Pwd returns the working directory used by ChangeDir and MakeDir
func (r *Remote) Pwd() string {
	return r.cwd
}

// 📁 MakeDirAll walks dir one segment at a time from "/", entering each
// segment and creating it when it cannot be entered. "." and ".." only
// navigate. Segments containing a "." anywhere else are skipped and never
// created.
func (r *Remote) MakeDirAll(ctx context.Context, dir string) error {
	logger := zerolog.Ctx(ctx)

	if err := r.ChangeDir(ctx, "/"); err != nil {
		return err
	}

	for _, segment := range strings.Split(dir, "/") {
		switch {
		case segment == "." || segment == "..":
			if err := r.ChangeDir(ctx, segment); err != nil {
				return err
			}
		case segment == "":
			continue
		case strings.Contains(segment, "."):
			logger.Debug().Str("segment", segment).Msg("skipping dotted path segment")
		default:
			if err := r.ChangeDir(ctx, segment); err == nil {
				continue
			}
			if err := r.MakeDir(ctx, segment); err != nil {
				return err
			}
			if err := r.ChangeDir(ctx, segment); err != nil {
				return err
			}
		}
		logger.Trace().Str("pwd", r.cwd).Msg("remote working directory")
	}
	return nil
}

func (r *Remote) Close() error {
	err := r.client.Close()
	if r.closer != nil {
		if cerr := r.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return errors.Errorf("closing sftp session: %w", err)
	}
	return nil
}
