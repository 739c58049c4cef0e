package bootstrap

import (
	"fmt"
	"os"

	"github.com/imamik/genesis/internal/config"
	sshprobe "github.com/imamik/genesis/internal/platform/ssh"
	"github.com/imamik/genesis/internal/provisioning"
	"github.com/imamik/genesis/internal/util/keygen"
)

// LoadCredentials returns the key pair the probe authenticates with: the
// configured private key, or a freshly generated one. In handshake-only
// mode there are no credentials and it returns nil.
func LoadCredentials(cfg config.SSHConfig) (*keygen.KeyPair, error) {
	if cfg.HandshakeOnly {
		return nil, nil
	}
	if cfg.PrivateKeyPath == "" {
		return keygen.Generate()
	}

	data, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH private key: %w", err)
	}
	return keygen.FromPrivateKey(data)
}

// AuthorizedKeys lists the keys to install on the instance for kp.
func AuthorizedKeys(user string, kp *keygen.KeyPair) []provisioning.AuthorizedKey {
	if kp == nil {
		return nil
	}
	return []provisioning.AuthorizedKey{{User: user, PublicKey: kp.PublicKey}}
}

// NewProber builds the SSH prober for cfg, authenticating with kp when set.
func NewProber(cfg *config.Config, kp *keygen.KeyPair) (*sshprobe.Prober, error) {
	hostKeys, err := sshprobe.HostKeyCallback(cfg.SSH.HostKeyPolicy, cfg.SSH.KnownHostsPath)
	if err != nil {
		return nil, err
	}

	probeCfg := &sshprobe.Config{
		Port:            cfg.SSH.Port,
		User:            cfg.SSH.User,
		Timeout:         cfg.Probe.Timeout,
		HostKeyCallback: hostKeys,
	}
	if kp != nil {
		probeCfg.Signer = kp.Signer
	}
	return sshprobe.NewProber(probeCfg)
}
