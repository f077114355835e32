package wallet

import (
	"encoding/hex"

	"github.com/nanogallery/nanopay/types"
	"github.com/pkg/errors"
	"github.com/shryder/ed25519-blake2b"
)

// DecodePrivateKey accepts a 64-char hex seed or a 128-char hex expanded
// private key. The decoded key lives only in the caller's scope; it is
// never persisted or logged anywhere in this package.
func DecodePrivateKey(key_hex string) (ed25519.PrivateKey, error) {
	key_bytes, err := hex.DecodeString(key_hex)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, "private key is not valid hex")
	}

	switch len(key_bytes) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(key_bytes)
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(key_bytes), nil
	}

	return nil, errors.Wrapf(ErrInvalidKey, "private key must be %d or %d bytes", ed25519.SeedSize, ed25519.PrivateKeySize)
}

// Sign signs the block's canonical state hash. Pure, no I/O; the key is
// used for this call only.
func Sign(block *types.Block, private_key ed25519.PrivateKey) (*types.Signature, error) {
	if len(private_key) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(ErrInvalidKey, "malformed private key")
	}

	raw_signature := ed25519.Sign(private_key, block.SigningHash()[:])

	signature := new(types.Signature)
	copy(signature[:], raw_signature)

	return signature, nil
}

// KeyMatchesAccount reports whether the key's public half is the account.
func KeyMatchesAccount(private_key ed25519.PrivateKey, account *types.Address) bool {
	if len(private_key) != ed25519.PrivateKeySize {
		return false
	}

	public_key := private_key.Public()

	derived, err := types.AddressFromPublicKey(public_key)
	if err != nil {
		return false
	}

	return *derived == *account
}
