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
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// 🔌 Dialer opens the backend described by a Config. The caller owns the
// returned backend and must Close it.
type Dialer interface {
	Open(ctx context.Context, cfg Config) (Backend, error)
}

// DialerFunc adapts a function to the Dialer interface
type DialerFunc func(ctx context.Context, cfg Config) (Backend, error)

func (f DialerFunc) Open(ctx context.Context, cfg Config) (Backend, error) {
	return f(ctx, cfg)
}

// 🌐 DefaultDialer opens local backends directly and remote backends over ssh
type DefaultDialer struct {
	// Timeout bounds the tcp connect and ssh handshake, zero means no limit
	Timeout time.Duration
}

func (d DefaultDialer) Open(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Variant {
	case VariantLocal:
		return NewLocal(), nil
	case VariantRemote:
		return d.openRemote(ctx, cfg)
	default:
		return nil, errors.Errorf("unknown backend variant %d", cfg.Variant)
	}
}

func (d DefaultDialer) openRemote(ctx context.Context, cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	auth, release, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	hostKeys, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         d.Timeout,
	}

	client, err := dial(ctx, cfg.Address(), sshConfig, d.Timeout)
	if err != nil {
		return nil, errors.Errorf("couldn't connect ssh: %w", err)
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		_ = client.Close()
		return nil, errors.Errorf("couldn't initialise sftp: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("remote", cfg.String()).Msg("sftp session opened")
	return NewRemote(sftpClient, client), nil
}

// 📞 dial connects to addr honouring ctx for the tcp part
func dial(ctx context.Context, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

// 🔑 authMethods loads the private key, or falls back to the ssh agent when
// no key path is configured. release closes any agent connection.
func authMethods(cfg Config) ([]ssh.AuthMethod, func(), error) {
	noop := func() {}

	if cfg.KeyPath != "" {
		key, err := os.ReadFile(cfg.KeyPath)
		if err != nil {
			return nil, noop, errors.Errorf("failed to read private key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, noop, errors.Errorf("failed to parse private key file: %w", err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, noop, nil
	}

	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, noop, errors.Errorf("no keyPath configured and SSH_AUTH_SOCK is not set")
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, noop, errors.Errorf("couldn't connect to ssh-agent: %w", err)
	}
	signers, err := agent.NewClient(conn).Signers()
	if err != nil {
		_ = conn.Close()
		return nil, noop, errors.Errorf("couldn't read ssh agent signers: %w", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signers...)}, func() { _ = conn.Close() }, nil
}

// 🔒 hostKeyCallback checks against a known_hosts file when one is
// configured and accepts any host key otherwise.
func hostKeyCallback(cfg Config) (ssh.HostKeyCallback, error) {
	if cfg.KnownHosts == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(cfg.KnownHosts)
	if err != nil {
		return nil, errors.Errorf("loading known hosts: %w", err)
	}
	return cb, nil
}
