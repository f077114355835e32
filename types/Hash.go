package types

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
)

type Hash [32]byte

func (hash *Hash) BigInt() *big.Int {
	return new(big.Int).SetBytes((*hash)[:])
}

func (hash *Hash) Cmp(other *Hash) int {
	return hash.BigInt().Cmp(other.BigInt())
}

func (hash *Hash) IsZero() bool {
	for _, b := range hash {
		if b != 0 {
			return false
		}
	}

	return true
}

func (hash *Hash) ToHexString() string {
	return hex.EncodeToString((*hash)[:])
}

func (hash *Hash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hash.ToHexString() + `"`), nil
}

func (hash *Hash) UnmarshalJSON(data []byte) error {
	hash_slice, err := hex.DecodeString(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}

	if len(hash_slice) != 32 {
		return errors.New("String representation of a hash must be 32 bytes")
	}

	copy(hash[:], hash_slice)

	return nil
}

func StringToHash(hash_str string) (*Hash, error) {
	hash_slice, err := hex.DecodeString(hash_str)
	if err != nil {
		return nil, err
	}

	if len(hash_slice) != 32 {
		return nil, errors.New("String representation of a hash must be 32 bytes")
	}

	hash := new(Hash)
	copy(hash[:], hash_slice)

	return hash, nil
}
