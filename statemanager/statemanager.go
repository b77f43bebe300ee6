package statemanager

/*
 * Licensed under LGPL-3.0.
 *
 * You can get a copy of the LGPL-3.0 License at
 *
 * https://www.gnu.org/licenses/lgpl-3.0.en.html
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/shardvm/diffcache"
	itypes "github.com/wcgcyx/shardvm/types"
)

// Logger
var log = logging.Logger("statemanager")

// StateManager is the speculative state on top of the persisted state.
// Every write is scoped by nested checkpoints and only reaches the
// persisted state on Flush.
type StateManager interface {
	// GetAccount gets the account of given address, nil if it does not exist.
	GetAccount(ctx context.Context, addr common.Address) (*itypes.AccountValue, error)

	// PutAccount puts the account of given address.
	// The storage version is managed by the state manager.
	PutAccount(ctx context.Context, addr common.Address, acct *itypes.AccountValue) error

	// DeleteAccount deletes the account of given address together with its storage.
	DeleteAccount(ctx context.Context, addr common.Address) error

	// GetContractCode gets the code of given address.
	GetContractCode(ctx context.Context, addr common.Address) ([]byte, error)

	// PutContractCode puts the code and sets the code hash of given address.
	PutContractCode(ctx context.Context, addr common.Address, code []byte) error

	// GetContractStorage gets the current storage value.
	GetContractStorage(ctx context.Context, addr common.Address, key common.Hash) (common.Hash, error)

	// GetOriginalContractStorage gets the storage value at the start of the current transaction.
	GetOriginalContractStorage(ctx context.Context, addr common.Address, key common.Hash) (common.Hash, error)

	// PutContractStorage puts the storage value.
	PutContractStorage(ctx context.Context, addr common.Address, key common.Hash, val common.Hash) error

	// ClearContractStorage clears all storage of given address.
	ClearContractStorage(ctx context.Context, addr common.Address) error

	// Checkpoint opens a new checkpoint.
	Checkpoint()

	// Commit closes the current checkpoint keeping its changes.
	Commit() error

	// Revert closes the current checkpoint discarding its changes.
	Revert() error

	// Height gets the number of open checkpoints.
	Height() int

	// ClearOriginalStorageCache clears the original storage captured for the previous transaction.
	ClearOriginalStorageCache()

	// Flush persists all committed changes as one batch.
	// It returns the new persisted height and the batch digest.
	Flush(ctx context.Context) (uint64, common.Hash, error)

	// Discard drops all changes that have not been flushed.
	Discard()

	// Stats gets the statistics of the account, storage and code caches.
	Stats(reset bool) map[string]diffcache.Stats
}
