package naming

import (
	"fmt"
	"strings"
)

// MaxLength is the longest resource name accepted by the providers.
const MaxLength = 63

// Validate checks that name is an RFC 1035 label: lowercase letters, digits
// and hyphens, starting with a letter and not ending with a hyphen.
func Validate(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name is required", kind)
	}
	if len(name) > MaxLength {
		return fmt.Errorf("%s name %q must be %d characters or less", kind, name, MaxLength)
	}
	if name[0] < 'a' || name[0] > 'z' {
		return fmt.Errorf("%s name %q must start with a lowercase letter", kind, name)
	}
	if name[len(name)-1] == '-' {
		return fmt.Errorf("%s name %q cannot end with a hyphen", kind, name)
	}
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return fmt.Errorf("%s name %q can only contain lowercase letters, numbers, and hyphens", kind, name)
		}
	}
	return nil
}

// SSHKey returns the provider-side name of an instance's authorized key.
// The key ID keeps names of different keys for the same instance apart; the
// instance part is shortened so the ID always survives truncation.
func SSHKey(instance, keyID string) string {
	suffix := "-key-" + keyID
	return truncate(instance, MaxLength-len(suffix)) + suffix
}

// TagLabel returns the label key used to emulate a network tag on providers
// that select firewall targets by label.
func TagLabel(tag string) string {
	return "genesis.tag/" + tag
}

func truncate(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	return strings.TrimRight(name[:limit], "-")
}
