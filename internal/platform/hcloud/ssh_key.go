package hcloud

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/genesis/internal/provisioning"
	"github.com/imamik/genesis/internal/util/naming"
)

// keyIDLength is how many hex digits of the key hash go into its name.
const keyIDLength = 8

// ensureSSHKeys registers keys for the instance, reusing keys that are
// already present in the project.
func (c *Client) ensureSSHKeys(ctx context.Context, instance string, keys []provisioning.AuthorizedKey, keyLabels map[string]string) ([]*hcloud.SSHKey, error) {
	out := make([]*hcloud.SSHKey, 0, len(keys))
	for _, key := range keys {
		k, err := c.ensureSSHKey(ctx, instance, key.PublicKey, keyLabels)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// ensureSSHKey creates the key under a name derived from the instance and
// the key itself, so a fresh key never collides with one left by an earlier
// run. A key Hetzner already knows is looked up by fingerprint and reused.
func (c *Client) ensureSSHKey(ctx context.Context, instance, publicKey string, keyLabels map[string]string) (*hcloud.SSHKey, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(publicKey))
	if err != nil {
		return nil, &provisioning.APIError{
			Op:       "create ssh key",
			Resource: instance,
			Code:     provisioning.ErrorCodeInvalidInput,
			Err:      fmt.Errorf("invalid public key: %w", err),
		}
	}
	name := naming.SSHKey(instance, keyID(pub))

	created, _, err := c.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
		Labels:    keyLabels,
	})
	if err == nil {
		return created, nil
	}
	if !isHCloudErrorCode(err, hcloud.ErrorCodeUniquenessError) {
		return nil, translateError("create ssh key", name, err)
	}

	existing, _, getErr := c.client.SSHKey.GetByFingerprint(ctx, ssh.FingerprintLegacyMD5(pub))
	if getErr != nil {
		return nil, translateError("get ssh key", name, getErr)
	}
	if existing == nil {
		return nil, translateError("create ssh key", name, err)
	}
	return existing, nil
}

// keyID is a short, name-safe digest of the public key.
func keyID(pub ssh.PublicKey) string {
	sum := sha256.Sum256(pub.Marshal())
	return hex.EncodeToString(sum[:])[:keyIDLength]
}
