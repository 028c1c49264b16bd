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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/zopexport/pkg/backend"
	"github.com/walteh/zopexport/pkg/backend/backendtest"
)

func TestMarkerPath(t *testing.T) {
	tests := []struct {
		dst  string
		want string
	}{
		{dst: "/opt/export/ABC123", want: "/opt/export/ABC123.ctl"},
		{dst: "/opt/export/ABC123/", want: "/opt/export/ABC123.ctl"},
		{dst: "/opt/export/ABC123-Volume_1", want: "/opt/export/ABC123-Volume_1.ctl"},
		{dst: "ABC123", want: "ABC123.ctl"},
	}

	for _, tt := range tests {
		t.Run(tt.dst, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkerPath(tt.dst))
		})
	}
}

func TestWriteMarkerLocal(t *testing.T) {
	ctx := testContext(t)
	dst := emptyDest(t)

	require.NoError(t, WriteMarker(ctx, backend.NewLocal(), dst+"/"))

	info, err := os.Stat(filepath.FromSlash(dst + ".ctl"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
	assert.False(t, info.IsDir())

	entries, err := os.ReadDir(filepath.FromSlash(dst))
	require.NoError(t, err)
	assert.Empty(t, entries, "marker is a sibling, not a child")
}

func TestWriteMarkerRejectsRoot(t *testing.T) {
	ctx := testContext(t)
	for _, dst := range []string{"/", ".", ""} {
		err := WriteMarker(ctx, backend.NewLocal(), dst)
		require.Error(t, err, "dst %q", dst)
		assert.True(t, errors.Is(err, ErrTransfer))
	}
}

func TestWriteMarkerRemote(t *testing.T) {
	ctx := testContext(t)
	scratch := t.TempDir()
	t.Setenv("TMPDIR", scratch)

	srv := backendtest.NewServer(t)
	require.NoError(t, srv.Client.MkdirAll("/export/ABC123"))

	require.NoError(t, WriteMarker(ctx, srv.Open(t), "/export/ABC123"))

	info, err := srv.Client.Stat("/export/ABC123.ctl")
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory is removed")
}

func TestWriteMarkerRemoteFailure(t *testing.T) {
	ctx := testContext(t)
	scratch := t.TempDir()
	t.Setenv("TMPDIR", scratch)

	srv := backendtest.NewServer(t)

	err := WriteMarker(ctx, srv.Open(t), "/missing/ABC123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransfer))
	assert.Contains(t, err.Error(), "uploading marker /missing/ABC123.ctl")

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory is removed on failure")
}

func TestRunner(t *testing.T) {
	var ran []string
	step := func(name string, err error) Operation {
		return Func{Label: name, Fn: func(ctx context.Context) error {
			ran = append(ran, name)
			return err
		}}
	}

	t.Run("in_order", func(t *testing.T) {
		ran = nil
		require.NoError(t, NewRunner().Run(testContext(t), step("a", nil), step("b", nil)))
		assert.Equal(t, []string{"a", "b"}, ran)
	})

	t.Run("stops_at_first_error", func(t *testing.T) {
		ran = nil
		boom := NewKindError(ErrPrecondition, nil, "boom")
		err := NewRunner().Run(testContext(t), step("a", nil), step("b", boom), step("c", nil))
		assert.Same(t, boom, err, "error is returned unchanged")
		assert.Equal(t, []string{"a", "b"}, ran)
	})

	t.Run("cancelled", func(t *testing.T) {
		ran = nil
		ctx, cancel := context.WithCancel(testContext(t))
		cancel()
		err := NewRunner().Run(ctx, step("a", nil))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTransfer))
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Empty(t, ran)
	})
}

func TestStages(t *testing.T) {
	ctx := testContext(t)
	src := writeSource(t, map[string]string{"00000001.tif": "page"})
	dst := filepath.ToSlash(filepath.Join(t.TempDir(), "export", "ABC123"))
	b := backend.NewLocal()

	err := NewRunner().Run(ctx,
		Provision(b, dst),
		Copy(NewTransfer(Options{Backend: b}), src, dst),
		Mark(b, dst),
	)
	require.NoError(t, err)

	_, err = os.Stat(filepath.FromSlash(dst + "/00000001.tif"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.FromSlash(dst + ".ctl"))
	assert.NoError(t, err)
}
