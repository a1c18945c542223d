package inter

import "github.com/archethic-network/mining-core/crypto"

// Ownership couples an encrypted secret with the set of keys authorized to
// decrypt it: AuthorizedKeys maps a hex-encoded public key to that secret's
// AES key, itself encrypted under the corresponding public key.
type Ownership struct {
	Secret         []byte
	AuthorizedKeys map[string][]byte
}

// AuthorizedFor reports whether pk holds a decryption entry in o, returning
// its encrypted key material.
func (o Ownership) AuthorizedFor(pk crypto.PublicKey) ([]byte, bool) {
	enc, ok := o.AuthorizedKeys[pk.String()]
	return enc, ok
}

// Copy returns a deep copy of o.
func (o Ownership) Copy() Ownership {
	secret := make([]byte, len(o.Secret))
	copy(secret, o.Secret)
	keys := make(map[string][]byte, len(o.AuthorizedKeys))
	for k, v := range o.AuthorizedKeys {
		cp := make([]byte, len(v))
		copy(cp, v)
		keys[k] = cp
	}
	return Ownership{Secret: secret, AuthorizedKeys: keys}
}
