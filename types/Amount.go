package types

import (
	"errors"
	"math/big"
	"strings"
)

// Amount is an unsigned 128-bit value in raw, the ledger's smallest unit,
// stored big-endian. 1 XNO = 10^30 raw.
type Amount [16]byte

var maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

func (amount *Amount) BigInt() *big.Int {
	return new(big.Int).SetBytes((*amount)[:])
}

func AmountFromBigInt(value *big.Int) (*Amount, error) {
	if value.Sign() < 0 {
		return nil, errors.New("Amount cannot be negative")
	}

	if value.Cmp(maxAmount) > 0 {
		return nil, errors.New("Amount does not fit in 128 bits")
	}

	amount := new(Amount)
	value.FillBytes(amount[:])

	return amount, nil
}

func AmountFromString(raw string) (*Amount, error) {
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, errors.New("Invalid raw amount: " + raw)
	}

	return AmountFromBigInt(value)
}

// Add returns a fresh Amount, erroring on 128-bit overflow.
func (amount *Amount) Add(other *Amount) (*Amount, error) {
	return AmountFromBigInt(new(big.Int).Add(amount.BigInt(), other.BigInt()))
}

// Sub returns a fresh Amount, erroring if other is larger than amount.
func (amount *Amount) Sub(other *Amount) (*Amount, error) {
	return AmountFromBigInt(new(big.Int).Sub(amount.BigInt(), other.BigInt()))
}

func (amount *Amount) Cmp(other *Amount) int {
	return amount.BigInt().Cmp(other.BigInt())
}

func (amount *Amount) IsZero() bool {
	for _, b := range amount {
		if b != 0 {
			return false
		}
	}

	return true
}

func (amount *Amount) String() string {
	return amount.BigInt().String()
}

func (amount *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + amount.String() + `"`), nil
}

func (amount *Amount) UnmarshalJSON(data []byte) error {
	parsed, err := AmountFromString(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}

	copy(amount[:], parsed[:])

	return nil
}
