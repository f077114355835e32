package wallet

import (
	"sync"

	"github.com/nanogallery/nanopay/types"
)

// AccountLocks serializes block construction and submission per account.
// The account's on-ledger frontier is a single mutable pointer, so two
// in-flight blocks from the same address race on previous and the loser
// is rejected. Different accounts proceed in parallel.
type AccountLocks struct {
	Table      map[types.Address]*sync.Mutex
	TableMutex sync.Mutex
}

func NewAccountLocks() *AccountLocks {
	return &AccountLocks{
		Table: make(map[types.Address]*sync.Mutex),
	}
}

func (locks *AccountLocks) mutexFor(address *types.Address) *sync.Mutex {
	locks.TableMutex.Lock()
	defer locks.TableMutex.Unlock()

	mutex, found := locks.Table[*address]
	if !found {
		mutex = &sync.Mutex{}
		locks.Table[*address] = mutex
	}

	return mutex
}

// Acquire blocks until the address's lock is held. Held from account
// state fetch through block submission; released on success or terminal
// failure, never while a submitted block is still unresolved.
func (locks *AccountLocks) Acquire(address *types.Address) {
	locks.mutexFor(address).Lock()
}

func (locks *AccountLocks) Release(address *types.Address) {
	locks.mutexFor(address).Unlock()
}
