package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds an Ed25519 key pair in ready-to-use formats.
type KeyPair struct {
	// Signer authenticates SSH connections with the private key.
	Signer ssh.Signer
	// PublicKey is the public key in OpenSSH authorized_keys format, without
	// the trailing newline.
	PublicKey string
}

// Generate creates a new Ed25519 key pair.
func Generate() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH signer: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		Signer:    signer,
		PublicKey: strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub))),
	}, nil
}

// FromPrivateKey loads a key pair from a PEM-encoded private key.
func FromPrivateKey(pemBytes []byte) (*KeyPair, error) {
	signer, err := ssh.ParsePrivateKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &KeyPair{
		Signer:    signer,
		PublicKey: strings.TrimSpace(string(ssh.MarshalAuthorizedKey(signer.PublicKey()))),
	}, nil
}
