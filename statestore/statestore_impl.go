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
	"fmt"

	"github.com/dgraph-io/badger/v2/options"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ipfs/go-datastore"
	badgerds "github.com/ipfs/go-ds-badger2"
	logging "github.com/ipfs/go-log"
	itypes "github.com/wcgcyx/shardvm/types"
)

// Logger
var log = logging.Logger("statestore")

// stateStoreImpl implements StateStore.
type stateStoreImpl struct {
	opts Opts
	ds   *badgerds.Datastore
	// Process related
	routineCtx context.Context
	cancel     context.CancelFunc
	exitLoop   chan bool
}

// NewStateStoreImpl creates a new StateStore.
// If the datastore is empty, the given genesis allocation is persisted as height 0.
func NewStateStoreImpl(ctx context.Context, opts Opts, genesis types.GenesisAlloc) (StateStore, error) {
	dsopts := badgerds.DefaultOptions
	dsopts.SyncWrites = false
	dsopts.Truncate = true
	// Use max table size of 256MiB
	dsopts.Options.MaxTableSize = 256 << 20
	// Use memory map for value log
	dsopts.Options.ValueLogLoadingMode = options.MemoryMap
	if opts.Path == "" {
		return nil, fmt.Errorf("empty path provided")
	}
	if opts.GCPeriod <= 0 {
		return nil, fmt.Errorf("invalid gc period %v", opts.GCPeriod)
	}
	ds, err := badgerds.NewDatastore(opts.Path, &dsopts)
	if err != nil {
		return nil, err
	}
	routineCtx, cancel := context.WithCancel(context.Background())
	res := &stateStoreImpl{
		opts:       opts,
		ds:         ds,
		routineCtx: routineCtx,
		cancel:     cancel,
		exitLoop:   make(chan bool),
	}
	ok, err := res.ds.Has(ctx, persistedHeightKey())
	if err != nil {
		cancel()
		ds.Close()
		return nil, err
	}
	if ok {
		log.Infof("Existing ds detected, skip persisting genesis")
		go res.gcRoutine()
		return res, nil
	}
	// Persist genesis state
	txn, err := res.NewTransaction(ctx)
	if err != nil {
		cancel()
		ds.Close()
		return nil, err
	}
	defer txn.Discard()
	err = persistGenesis(txn, genesis)
	if err != nil {
		cancel()
		ds.Close()
		return nil, err
	}
	err = txn.Commit()
	if err != nil {
		cancel()
		ds.Close()
		return nil, err
	}
	log.Infof("Genesis with %v accounts persisted", len(genesis))
	go res.gcRoutine()
	return res, nil
}

// GetPersistedHeight gets the number of persisted batches and the digest of the last one.
func (s *stateStoreImpl) GetPersistedHeight(ctx context.Context) (uint64, common.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	val, err := s.ds.Get(ctx, persistedHeightKey())
	if err != nil {
		return 0, common.Hash{}, err
	}

	return decodePersistedHeight(val)
}

// GetAccountValue gets the persisted account value for given address.
func (s *stateStoreImpl) GetAccountValue(ctx context.Context, addr common.Address) (*itypes.AccountValue, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	val, err := s.ds.Get(ctx, getAccountValueKey(addr))
	if err != nil {
		if !errors.Is(err, datastore.ErrNotFound) {
			return nil, false, err
		}
		log.Debugf("Get account value empty for %v", addr)
		// Get account version
		version := uint64(0)
		versionBytes, err := s.ds.Get(ctx, getAccountVersionKey(addr))
		if err == nil {
			version = decodeAccountVersion(versionBytes)
		} else if !errors.Is(err, datastore.ErrNotFound) {
			return nil, false, err
		}
		return itypes.NewAccountValue(version), false, nil
	}
	log.Debugf("Get account value non-empty for %v", addr)
	acct, err := itypes.DecodeAccountValue(val)
	if err != nil {
		return nil, false, err
	}
	return acct, true, nil
}

// GetStorageByVersion gets the persisted storage value for given key.
func (s *stateStoreImpl) GetStorageByVersion(ctx context.Context, addr common.Address, version uint64, key common.Hash) (common.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	val, err := s.ds.Get(ctx, getStorageKey(addr, version, key))
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			log.Debugf("Get storage empty for %v-%v-%v", addr, version, key)
			return common.Hash{}, nil
		}
		return common.Hash{}, err
	}

	log.Debugf("Get storage non-empty for %v-%v-%v", addr, version, key)
	return decodeStorage(val)
}

// GetCodeByHash gets the persisted code for given hash.
func (s *stateStoreImpl) GetCodeByHash(ctx context.Context, codeHash common.Hash) ([]byte, error) {
	if codeHash == types.EmptyCodeHash {
		return []byte{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	codeBytes, err := s.ds.Get(ctx, getCodeKey(codeHash))
	if err != nil {
		return nil, err
	}

	return decodeCode(codeBytes)
}

// Shutdown safely shuts the statestore down.
func (s *stateStoreImpl) Shutdown() {
	log.Infof("Close statestore...")
	s.cancel()
	<-s.exitLoop
	err := s.ds.Close()
	if err != nil {
		log.Errorf("Fail to close statestore: %v", err.Error())
		return
	}
	log.Infof("Statestore closed successfully.")
}
