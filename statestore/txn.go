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
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/ipfs/go-datastore"
	itypes "github.com/wcgcyx/shardvm/types"
)

// transactionImpl implements Transaction.
type transactionImpl struct {
	ctx    context.Context
	cancel context.CancelFunc
	txn    datastore.Txn
}

// NewTransaction creates a new transaction to write.
func (s *stateStoreImpl) NewTransaction(ctx context.Context) (Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
	txn, err := s.ds.NewTransaction(ctx, false)
	if err != nil {
		cancel()
		return nil, err
	}
	return &transactionImpl{ctx: ctx, cancel: cancel, txn: txn}, nil
}

// PutAccountValue puts the account value for given address.
func (t *transactionImpl) PutAccountValue(addr common.Address, acct *itypes.AccountValue) error {
	old, err := t.persistedVersion(addr)
	if err != nil {
		return err
	}
	err = t.txn.Put(t.ctx, getAccountValueKey(addr), itypes.EncodeAccountValue(acct))
	if err != nil {
		return err
	}
	// Delete account version if any
	err = t.txn.Delete(t.ctx, getAccountVersionKey(addr))
	if err != nil {
		return err
	}
	return t.markGC(addr, old, acct.Version)
}

// DeleteAccountValue deletes the account, remembering its storage version.
func (t *transactionImpl) DeleteAccountValue(addr common.Address, version uint64) error {
	old, err := t.persistedVersion(addr)
	if err != nil {
		return err
	}
	err = t.txn.Delete(t.ctx, getAccountValueKey(addr))
	if err != nil {
		return err
	}
	err = t.txn.Put(t.ctx, getAccountVersionKey(addr), encodeAccountVersion(version))
	if err != nil {
		return err
	}
	// Storage of the deleted version is garbage as well.
	return t.markGC(addr, old, version+1)
}

// PutStorage puts a storage value, a zero value deletes the slot.
func (t *transactionImpl) PutStorage(addr common.Address, version uint64, key common.Hash, val common.Hash) error {
	if val == (common.Hash{}) {
		return t.txn.Delete(t.ctx, getStorageKey(addr, version, key))
	}
	return t.txn.Put(t.ctx, getStorageKey(addr, version, key), encodeStorage(val))
}

// PutCode puts the code for given hash.
func (t *transactionImpl) PutCode(codeHash common.Hash, code []byte) error {
	if codeHash == types.EmptyCodeHash {
		return nil
	}
	return t.txn.Put(t.ctx, getCodeKey(codeHash), encodeCode(code))
}

// SetPersistedHeight sets the persisted height and digest.
func (t *transactionImpl) SetPersistedHeight(height uint64, digest common.Hash) error {
	return t.txn.Put(t.ctx, persistedHeightKey(), encodePersistedHeight(height, digest))
}

// Commit commits all changes.
func (t *transactionImpl) Commit() error {
	defer t.cancel()
	return t.txn.Commit(t.ctx)
}

// Discard discards all changes.
func (t *transactionImpl) Discard() {
	defer t.cancel()
	t.txn.Discard(t.ctx)
}

// persistedVersion gets the storage version currently stored for the address.
func (t *transactionImpl) persistedVersion(addr common.Address) (uint64, error) {
	data, err := t.txn.Get(t.ctx, getAccountValueKey(addr))
	if err == nil {
		acct, err := itypes.DecodeAccountValue(data)
		if err != nil {
			return 0, err
		}
		return acct.Version, nil
	} else if !errors.Is(err, datastore.ErrNotFound) {
		return 0, err
	}
	data, err = t.txn.Get(t.ctx, getAccountVersionKey(addr))
	if err == nil {
		return decodeAccountVersion(data), nil
	} else if !errors.Is(err, datastore.ErrNotFound) {
		return 0, err
	}
	return 0, nil
}

// markGC notifies GC to clear storage of versions in [from, to).
func (t *transactionImpl) markGC(addr common.Address, from uint64, to uint64) error {
	if from == 0 {
		from = 1
	}
	for i := from; i < to; i++ {
		err := t.txn.Put(t.ctx, getGCKey(addr, i), []byte{})
		if err != nil {
			return err
		}
	}
	return nil
}

// persistGenesis writes the genesis allocation with storage version 1.
func persistGenesis(txn Transaction, genesis types.GenesisAlloc) error {
	for addr, account := range genesis {
		acct := itypes.NewAccountValue(1)
		acct.Nonce = account.Nonce
		if account.Balance != nil {
			balance, overflow := uint256.FromBig(account.Balance)
			if overflow {
				return errors.New("genesis balance overflow")
			}
			acct.Balance = balance
		}
		if len(account.Code) > 0 {
			acct.CodeHash = crypto.Keccak256Hash(account.Code)
			err := txn.PutCode(acct.CodeHash, account.Code)
			if err != nil {
				return err
			}
		}
		for k, v := range account.Storage {
			err := txn.PutStorage(addr, acct.Version, k, v)
			if err != nil {
				return err
			}
		}
		err := txn.PutAccountValue(addr, acct)
		if err != nil {
			return err
		}
	}
	return txn.SetPersistedHeight(0, common.Hash{})
}
