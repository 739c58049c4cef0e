package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultPort    = 22
	defaultTimeout = 5 * time.Second
)

// Config holds SSH probe configuration.
type Config struct {
	Port int
	User string

	// Signer authenticates the probe. When nil the probe only requires the
	// key exchange to complete.
	Signer ssh.Signer

	// Timeout bounds each probe, dial and handshake included.
	// If zero, defaultTimeout is used.
	Timeout time.Duration

	// HostKeyCallback verifies the server's host key. It is required; use
	// HostKeyCallback to build one from a policy.
	HostKeyCallback ssh.HostKeyCallback
}

// Prober checks whether a host accepts SSH connections.
type Prober struct {
	config *Config
}

// NewProber creates a new Prober and validates cfg.
func NewProber(cfg *Config) (*Prober, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.HostKeyCallback == nil {
		return nil, fmt.Errorf("config host key callback cannot be nil")
	}
	if cfg.Signer != nil && cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}

	// Copy config to avoid mutating caller's struct
	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.Timeout == 0 {
		configCopy.Timeout = defaultTimeout
	}

	return &Prober{config: &configCopy}, nil
}

// Probe makes a single connection attempt to host.
func (p *Prober) Probe(ctx context.Context, host string) error {
	addr := net.JoinHostPort(host, strconv.Itoa(p.config.Port))

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	// The host key callback runs only after the server proved possession of
	// the key, so reaching it with a nil result means key exchange succeeded.
	var hostKeyAccepted atomic.Bool
	clientConfig := &ssh.ClientConfig{
		User: p.config.User,
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			if err := p.config.HostKeyCallback(hostname, remote, key); err != nil {
				return err
			}
			hostKeyAccepted.Store(true)
			return nil
		},
		Timeout: p.config.Timeout,
	}
	if p.config.Signer != nil {
		clientConfig.Auth = []ssh.AuthMethod{ssh.PublicKeys(p.config.Signer)}
	} else if clientConfig.User == "" {
		clientConfig.User = "genesis-probe"
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		if p.config.Signer == nil && hostKeyAccepted.Load() {
			return nil
		}
		var keyErr *HostKeyMismatchError
		if errors.As(err, &keyErr) {
			return keyErr
		}
		return fmt.Errorf("SSH handshake with %s failed: %w", addr, err)
	}

	return ssh.NewClient(c, chans, reqs).Close()
}
