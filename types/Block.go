package types

import (
	"golang.org/x/crypto/blake2b"
)

type BlockSubtype string

const (
	BlockSubtypeSend    BlockSubtype = "send"
	BlockSubtypeReceive BlockSubtype = "receive"
	BlockSubtypeOpen    BlockSubtype = "open"
)

// statePreamble distinguishes state block hashes from legacy block hashes.
var statePreamble = [32]byte{31: 0x06}

type Block struct {
	Type           string       `json:"type"`
	Subtype        BlockSubtype `json:"subtype,omitempty"`
	Hash           *Hash        `json:"hash,omitempty"`
	Previous       *Hash        `json:"previous"`
	Account        *Address     `json:"account"`
	Representative *Address     `json:"representative"`
	Balance        *Amount      `json:"balance"`
	Link           *Link        `json:"link"`
	Signature      *Signature   `json:"signature,omitempty"`
	Work           *Work        `json:"work,omitempty"`
}

// SigningHash computes the canonical state block digest that is signed
// and that the ledger uses as the block's identity.
func (block *Block) SigningHash() *Hash {
	digest, _ := blake2b.New(32, nil)
	digest.Write(statePreamble[:])
	digest.Write(block.Account[:])
	digest.Write(block.Previous[:])
	digest.Write(block.Representative[:])
	digest.Write(block.Balance[:])
	digest.Write(block.Link[:])

	hash := new(Hash)
	copy(hash[:], digest.Sum(nil))

	return hash
}

// Root is the value work must be generated against: the previous hash,
// or the account's public key for an account's first block.
func (block *Block) Root() *Hash {
	if block.Previous.IsZero() {
		return (*Hash)(block.Account)
	}

	return block.Previous
}

func (block *Block) Cmp(other_block *Block) int {
	return block.Hash.Cmp(other_block.Hash)
}
