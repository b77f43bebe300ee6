package statestore

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
	itypes "github.com/wcgcyx/shardvm/types"
)

type StateStore interface {
	// GetPersistedHeight gets the number of persisted batches and the digest of the last one.
	GetPersistedHeight(ctx context.Context) (uint64, common.Hash, error)

	// GetAccountValue gets the persisted account value for given address.
	// If the account does not exist, it returns an empty account carrying
	// the last storage version used by the address and false.
	GetAccountValue(ctx context.Context, addr common.Address) (*itypes.AccountValue, bool, error)

	// GetStorageByVersion gets the persisted storage value for given key.
	GetStorageByVersion(ctx context.Context, addr common.Address, version uint64, key common.Hash) (common.Hash, error)

	// GetCodeByHash gets the persisted code for given hash.
	GetCodeByHash(ctx context.Context, codeHash common.Hash) ([]byte, error)

	// NewTransaction creates a new transaction to write.
	NewTransaction(ctx context.Context) (Transaction, error)

	// Shutdown safely shuts the statestore down.
	Shutdown()
}

type Transaction interface {
	// PutAccountValue puts the account value for given address.
	PutAccountValue(addr common.Address, acct *itypes.AccountValue) error

	// DeleteAccountValue deletes the account, remembering its storage version.
	DeleteAccountValue(addr common.Address, version uint64) error

	// PutStorage puts a storage value, a zero value deletes the slot.
	PutStorage(addr common.Address, version uint64, key common.Hash, val common.Hash) error

	// PutCode puts the code for given hash.
	PutCode(codeHash common.Hash, code []byte) error

	// SetPersistedHeight sets the persisted height and digest.
	SetPersistedHeight(height uint64, digest common.Hash) error

	// Commit commits all changes.
	Commit() error

	// Discard discards all changes.
	Discard()
}
