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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/zopexport/pkg/backend"
	"github.com/walteh/zopexport/pkg/backend/backendtest"
)

// countingBackend counts calls that touch the filesystem
type countingBackend struct {
	backend.Backend
	calls int
}

func (c *countingBackend) Exists(ctx context.Context, p string) (bool, error) {
	c.calls++
	return c.Backend.Exists(ctx, p)
}

func (c *countingBackend) MakeDirAll(ctx context.Context, dir string) error {
	c.calls++
	return c.Backend.MakeDirAll(ctx, dir)
}

func (c *countingBackend) List(ctx context.Context, dir string) ([]string, error) {
	c.calls++
	return c.Backend.List(ctx, dir)
}

func TestEnsureDirBlank(t *testing.T) {
	for _, dir := range []string{"", "   ", "\t\n"} {
		ctx := testContext(t)
		b := &countingBackend{Backend: backend.NewLocal()}

		assert.False(t, EnsureDir(ctx, b, dir), "blank path %q should be rejected", dir)
		assert.Zero(t, b.calls, "blank path %q should not reach the backend", dir)
	}
}

func TestEnsureDirLocal(t *testing.T) {
	ctx := testContext(t)
	root := filepath.ToSlash(t.TempDir())
	b := backend.NewLocal()

	dir := root + "/export/ABC123-Volume_1"
	require.True(t, EnsureDir(ctx, b, dir))

	info, err := os.Stat(filepath.FromSlash(dir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// existing directory with content is left alone
	marker := filepath.Join(filepath.FromSlash(dir), "keep.txt")
	require.NoError(t, os.WriteFile(marker, []byte("keep"), 0644))
	assert.True(t, EnsureDir(ctx, b, dir))
	_, err = os.Stat(marker)
	assert.NoError(t, err)
}

func TestEnsureDirLocalFailure(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	assert.False(t, EnsureDir(ctx, backend.NewLocal(), filepath.ToSlash(blocker)+"/ABC123"))

	content, err := os.ReadFile(blocker)
	require.NoError(t, err)
	assert.Equal(t, "x", string(content), "nothing is deleted on failure")
}

func TestEnsureDirRemote(t *testing.T) {
	ctx := testContext(t)
	srv := backendtest.NewServer(t)
	b := srv.Open(t)

	require.True(t, EnsureDir(ctx, b, "/archive/ABC123"))
	require.True(t, EnsureDir(ctx, b, "/archive/ABC123"), "second call is idempotent")

	info, err := srv.Client.Stat("/archive/ABC123")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDirRemoteDottedSegment(t *testing.T) {
	ctx := testContext(t)
	srv := backendtest.NewServer(t)

	// the dotted segment is skipped, so the requested path never appears
	assert.False(t, EnsureDir(ctx, srv.Open(t), "/archive/v1.2/ABC123"))

	_, err := srv.Client.Stat("/archive/v1.2")
	assert.Error(t, err, "dotted segments are never created")
	_, err = srv.Client.Stat("/archive/ABC123")
	assert.NoError(t, err, "remaining segments are created")
}

func TestProvisionOperation(t *testing.T) {
	ctx := testContext(t)

	op := Provision(backend.NewLocal(), " ")
	assert.Equal(t, "provision", op.Name())

	err := op.Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransfer)
	assert.Contains(t, err.Error(), "could not create directory")

	dir := filepath.ToSlash(filepath.Join(t.TempDir(), "ABC123"))
	require.NoError(t, Provision(backend.NewLocal(), dir).Execute(ctx))
}
