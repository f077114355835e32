package utils

import (
	"errors"
	"math/big"

	"github.com/nanogallery/nanopay/types"
	"golang.org/x/crypto/blake2b"
)

// RawPerXNO is the number of raw units in one XNO (10^30).
var RawPerXNO = new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)

func Blake2BHash(data ...[]byte) *types.Hash {
	b2b_hash, _ := blake2b.New(32, nil)
	for _, item := range data {
		b2b_hash.Write(item)
	}

	hash_bytes := b2b_hash.Sum(nil)
	hash := new(types.Hash)
	copy(hash[:], hash_bytes)

	return hash
}

// XNOToRaw converts a presentation-boundary XNO decimal string ("0.01")
// to raw exactly, flooring anything below one raw.
func XNOToRaw(xno string) (*types.Amount, error) {
	ratio, ok := new(big.Rat).SetString(xno)
	if !ok {
		return nil, errors.New("Invalid XNO amount: " + xno)
	}

	if ratio.Sign() < 0 {
		return nil, errors.New("XNO amount cannot be negative")
	}

	ratio.Mul(ratio, new(big.Rat).SetInt(RawPerXNO))
	raw := new(big.Int).Quo(ratio.Num(), ratio.Denom())

	return types.AmountFromBigInt(raw)
}

// RawToXNO is lossy and only for display.
func RawToXNO(amount *types.Amount) float64 {
	ratio := new(big.Rat).SetFrac(amount.BigInt(), RawPerXNO)
	xno, _ := ratio.Float64()

	return xno
}
