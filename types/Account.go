package types

// AccountState is a snapshot of an account's head as reported by the
// ledger. It is fetched fresh before every block construction and never
// reused across operations, since any confirmed block invalidates it.
type AccountState struct {
	Address        Address
	Frontier       Hash
	Representative Address
	Balance        *Amount
	Opened         bool
}

// PendingEntry is an inbound send sitting in an account's pending pool,
// not yet claimed by a receive block.
type PendingEntry struct {
	BlockHash Hash
	Amount    *Amount
	Source    Address
}
