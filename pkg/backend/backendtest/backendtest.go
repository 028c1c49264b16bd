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

// Package backendtest provides an in-memory sftp server for tests.
package backendtest

import (
	"context"
	"net"
	"sync/atomic"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/require"
	"github.com/walteh/zopexport/pkg/backend"
)

// 🧪 Server is an in-memory sftp filesystem. Every session opened on it
// sees the same files.
type Server struct {
	// Client is a session of its own, handy for assertions
	Client *sftp.Client

	handlers sftp.Handlers
	opened   atomic.Int32
	closed   atomic.Int32
}

// 🏭 NewServer starts an in-memory sftp filesystem that lives until the
// test ends
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{handlers: sftp.InMemHandler()}
	s.Client = s.session(t)
	return s
}

func (s *Server) session(t testing.TB) *sftp.Client {
	t.Helper()

	serverConn, clientConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, s.handlers)
	go func() {
		_ = server.Serve()
	}()

	client, err := sftp.NewClientPipe(clientConn, clientConn)
	require.NoError(t, err, "starting sftp client")

	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return client
}

// 🔌 Open returns a Remote backend on a new session
func (s *Server) Open(t testing.TB) *backend.Remote {
	t.Helper()

	s.opened.Add(1)
	return backend.NewRemote(s.session(t), closeCounter{&s.closed})
}

// 🔌 Dialer returns a dialer that opens sessions on this server for the
// remote variant and plain local backends otherwise
func (s *Server) Dialer(t testing.TB) backend.Dialer {
	return backend.DialerFunc(func(ctx context.Context, cfg backend.Config) (backend.Backend, error) {
		if cfg.Variant == backend.VariantRemote {
			return s.Open(t), nil
		}
		return backend.NewLocal(), nil
	})
}

// Opened returns how many backends Open has handed out
func (s *Server) Opened() int { return int(s.opened.Load()) }

// Closed returns how many of those backends have been closed
func (s *Server) Closed() int { return int(s.closed.Load()) }

type closeCounter struct {
	n *atomic.Int32
}

func (c closeCounter) Close() error {
	c.n.Add(1)
	return nil
}
