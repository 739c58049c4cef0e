package ssh

import (
	"bytes"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/genesis/internal/util/keygen"
)

// testServer is a minimal SSH server that accepts connections and rejects
// every channel.
type testServer struct {
	host    string
	port    int
	hostKey *keygen.KeyPair
	logins  atomic.Int32
}

// startServer serves SSH on a loopback port. When authorized is nil any
// client is rejected at authentication.
func startServer(t *testing.T, authorized ssh.PublicKey) *testServer {
	t.Helper()

	hostKey, err := keygen.Generate()
	require.NoError(t, err)

	srv := &testServer{hostKey: hostKey}
	serverConfig := &ssh.ServerConfig{
		PublicKeyCallback: func(_ ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if authorized != nil && bytes.Equal(key.Marshal(), authorized.Marshal()) {
				srv.logins.Add(1)
				return &ssh.Permissions{}, nil
			}
			return nil, errUnauthorized
		},
	}
	serverConfig.AddHostKey(hostKey.Signer)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	host, port, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	srv.host = host
	srv.port, _ = strconv.Atoi(port)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, serverConfig)
		}
	}()

	return srv
}

func serveConn(conn net.Conn, cfg *ssh.ServerConfig) {
	defer func() { _ = conn.Close() }()
	sconn, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	defer func() { _ = sconn.Close() }()

	go ssh.DiscardRequests(reqs)
	for ch := range chans {
		_ = ch.Reject(ssh.Prohibited, "no channels")
	}
}

var errUnauthorized = errors.New("unauthorized")

// closedPort returns a loopback port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}
