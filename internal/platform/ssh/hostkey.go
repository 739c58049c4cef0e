package ssh

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/imamik/genesis/internal/config"
)

// HostKeyMismatchError is returned when a host presents a key different
// from the one on record.
type HostKeyMismatchError struct {
	Host string
	Err  error
}

func (e *HostKeyMismatchError) Error() string {
	return fmt.Sprintf("host key for %s does not match known_hosts: %v", e.Host, e.Err)
}

func (e *HostKeyMismatchError) Unwrap() error {
	return e.Err
}

// HostKeyCallback builds the callback for policy. knownHostsPath is used by
// the tofu and strict policies.
func HostKeyCallback(policy config.HostKeyPolicy, knownHostsPath string) (ssh.HostKeyCallback, error) {
	switch policy {
	case config.HostKeyInsecure:
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // explicitly requested by configuration
	case config.HostKeyStrict:
		cb, err := knownhosts.New(knownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}
		return mismatchAware(cb), nil
	case config.HostKeyTOFU, "":
		t, err := newTOFU(knownHostsPath)
		if err != nil {
			return nil, err
		}
		return t.check, nil
	default:
		return nil, fmt.Errorf("unknown host key policy %q", policy)
	}
}

func mismatchAware(cb ssh.HostKeyCallback) ssh.HostKeyCallback {
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := cb(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) > 0 {
			return &HostKeyMismatchError{Host: hostname, Err: err}
		}
		return err
	}
}

// tofu records unknown hosts in a known_hosts file.
type tofu struct {
	path  string
	known ssh.HostKeyCallback

	mu       sync.Mutex
	accepted map[string]ssh.PublicKey
}

func newTOFU(path string) (*tofu, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create known hosts directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open known hosts: %w", err)
	}
	_ = f.Close()

	known, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts: %w", err)
	}
	return &tofu{path: path, known: known, accepted: make(map[string]ssh.PublicKey)}, nil
}

func (t *tofu) check(hostname string, remote net.Addr, key ssh.PublicKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.accepted[hostname]; ok {
		if bytes.Equal(prev.Marshal(), key.Marshal()) {
			return nil
		}
		return &HostKeyMismatchError{Host: hostname, Err: fmt.Errorf("key changed during this run")}
	}

	err := t.known(hostname, remote, key)
	if err == nil {
		return nil
	}

	var keyErr *knownhosts.KeyError
	if !errors.As(err, &keyErr) {
		return err
	}
	if len(keyErr.Want) > 0 {
		return &HostKeyMismatchError{Host: hostname, Err: err}
	}

	if err := t.record(hostname, key); err != nil {
		return err
	}
	t.accepted[hostname] = key
	return nil
}

func (t *tofu) record(hostname string, key ssh.PublicKey) error {
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open known hosts: %w", err)
	}
	defer func() { _ = f.Close() }()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to record host key: %w", err)
	}
	return nil
}
