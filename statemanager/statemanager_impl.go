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
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/wcgcyx/shardvm/diffcache"
	"github.com/wcgcyx/shardvm/statestore"
	itypes "github.com/wcgcyx/shardvm/types"
)

// slotKey identifies a storage slot of a given storage version.
type slotKey struct {
	addr    common.Address
	version uint64
	key     common.Hash
}

func slotKeyLess(a, b slotKey) bool {
	if c := a.addr.Cmp(b.addr); c != 0 {
		return c < 0
	}
	if a.version != b.version {
		return a.version < b.version
	}
	return a.key.Cmp(b.key) < 0
}

func addrLess(a, b common.Address) bool {
	return a.Cmp(b) < 0
}

func hashLess(a, b common.Hash) bool {
	return a.Cmp(b) < 0
}

// originKey identifies a storage slot regardless of version.
type originKey struct {
	addr common.Address
	key  common.Hash
}

// persistedAccount is an account read from the state store.
type persistedAccount struct {
	acct   *itypes.AccountValue
	exists bool
}

// stateManagerImpl implements StateManager.
type stateManagerImpl struct {
	sstore statestore.StateStore

	// Speculative state, accounts are kept serialized.
	accounts *diffcache.Cache[common.Address, []byte]
	// Storage version of accounts that do not exist.
	versions *diffcache.Cache[common.Address, uint64]
	storage  *diffcache.Cache[slotKey, common.Hash]
	code     *diffcache.Cache[common.Hash, []byte]

	// Storage at the start of the current transaction
	originals map[originKey]common.Hash

	// Cache to speed up lookups of persisted state
	cachedAccts   *lru.Cache[common.Address, persistedAccount]
	cachedStorage *lru.Cache[slotKey, common.Hash]
	cachedCode    *lru.Cache[common.Hash, []byte]
}

// NewStateManagerImpl creates a new StateManager over given state store.
func NewStateManagerImpl(opts Opts, sstore statestore.StateStore) (StateManager, error) {
	cachedAccts, err := lru.New[common.Address, persistedAccount](opts.AccountCacheSize)
	if err != nil {
		return nil, err
	}
	cachedStorage, err := lru.New[slotKey, common.Hash](opts.StorageCacheSize)
	if err != nil {
		return nil, err
	}
	cachedCode, err := lru.New[common.Hash, []byte](opts.CodeCacheSize)
	if err != nil {
		return nil, err
	}
	return &stateManagerImpl{
		sstore:        sstore,
		accounts:      diffcache.New[common.Address, []byte]("accounts", addrLess),
		versions:      diffcache.New[common.Address, uint64]("versions", addrLess),
		storage:       diffcache.New[slotKey, common.Hash]("storage", slotKeyLess),
		code:          diffcache.New[common.Hash, []byte]("code", hashLess),
		originals:     make(map[originKey]common.Hash),
		cachedAccts:   cachedAccts,
		cachedStorage: cachedStorage,
		cachedCode:    cachedCode,
	}, nil
}

// GetAccount gets the account of given address, nil if it does not exist.
func (s *stateManagerImpl) GetAccount(ctx context.Context, addr common.Address) (*itypes.AccountValue, error) {
	elem, ok := s.accounts.Get(addr)
	if !ok {
		err := s.loadAccount(ctx, addr)
		if err != nil {
			return nil, err
		}
		elem, _ = s.accounts.Get(addr)
	}
	if !elem.Exists {
		return nil, nil
	}
	return itypes.DecodeAccountValue(elem.Value)
}

// loadAccount loads the persisted account into the speculative state.
func (s *stateManagerImpl) loadAccount(ctx context.Context, addr common.Address) error {
	pacct, ok := s.cachedAccts.Get(addr)
	if !ok {
		acct, exists, err := s.sstore.GetAccountValue(ctx, addr)
		if err != nil {
			log.Errorf("Fail to get account value for %v: %v", addr, err.Error())
			return err
		}
		pacct = persistedAccount{acct: acct, exists: exists}
		s.cachedAccts.Add(addr, pacct)
	}
	if pacct.exists {
		s.accounts.Load(addr, diffcache.Element[[]byte]{Value: itypes.EncodeAccountValue(pacct.acct), Exists: true})
	} else {
		s.accounts.Load(addr, diffcache.Element[[]byte]{Exists: false})
	}
	s.versions.Load(addr, diffcache.Element[uint64]{Value: pacct.acct.Version, Exists: true})
	return nil
}

// tombstoneVersion gets the last storage version used by a non-existing account.
func (s *stateManagerImpl) tombstoneVersion(addr common.Address) uint64 {
	elem, _ := s.versions.Get(addr)
	return elem.Value
}

// PutAccount puts the account of given address.
func (s *stateManagerImpl) PutAccount(ctx context.Context, addr common.Address, acct *itypes.AccountValue) error {
	cur, err := s.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	acct = acct.Copy()
	if cur != nil {
		acct.Version = cur.Version
	} else {
		acct.Version = s.tombstoneVersion(addr) + 1
	}
	s.accounts.Put(addr, itypes.EncodeAccountValue(acct))
	return nil
}

// DeleteAccount deletes the account of given address together with its storage.
func (s *stateManagerImpl) DeleteAccount(ctx context.Context, addr common.Address) error {
	cur, err := s.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	if cur == nil {
		return nil
	}
	s.versions.Put(addr, cur.Version)
	s.accounts.Del(addr)
	return nil
}

// GetContractCode gets the code of given address.
func (s *stateManagerImpl) GetContractCode(ctx context.Context, addr common.Address) ([]byte, error) {
	acct, err := s.GetAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	if acct == nil || acct.CodeHash == types.EmptyCodeHash {
		return []byte{}, nil
	}
	elem, ok := s.code.Get(acct.CodeHash)
	if ok {
		return elem.Value, nil
	}
	code, ok := s.cachedCode.Get(acct.CodeHash)
	if !ok {
		code, err = s.sstore.GetCodeByHash(ctx, acct.CodeHash)
		if err != nil {
			log.Errorf("Fail to get code for %v: %v", acct.CodeHash, err.Error())
			return nil, err
		}
		s.cachedCode.Add(acct.CodeHash, code)
	}
	s.code.Load(acct.CodeHash, diffcache.Element[[]byte]{Value: code, Exists: true})
	return code, nil
}

// PutContractCode puts the code and sets the code hash of given address.
func (s *stateManagerImpl) PutContractCode(ctx context.Context, addr common.Address, code []byte) error {
	codeHash := crypto.Keccak256Hash(code)
	if codeHash == types.EmptyCodeHash {
		return nil
	}
	acct, err := s.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	if acct == nil {
		acct = itypes.NewAccountValue(0)
	}
	s.code.Put(codeHash, common.CopyBytes(code))
	acct.CodeHash = codeHash
	return s.PutAccount(ctx, addr, acct)
}

// GetContractStorage gets the current storage value.
func (s *stateManagerImpl) GetContractStorage(ctx context.Context, addr common.Address, key common.Hash) (common.Hash, error) {
	acct, err := s.GetAccount(ctx, addr)
	if err != nil {
		return common.Hash{}, err
	}
	if acct == nil {
		return common.Hash{}, nil
	}
	k := slotKey{addr: addr, version: acct.Version, key: key}
	elem, ok := s.storage.Get(k)
	if ok {
		return elem.Value, nil
	}
	val, ok := s.cachedStorage.Get(k)
	if !ok {
		val, err = s.sstore.GetStorageByVersion(ctx, addr, acct.Version, key)
		if err != nil {
			log.Errorf("Fail to get storage for %v-%v-%v: %v", addr, acct.Version, key, err.Error())
			return common.Hash{}, err
		}
		s.cachedStorage.Add(k, val)
	}
	s.storage.Load(k, diffcache.Element[common.Hash]{Value: val, Exists: true})
	return val, nil
}

// GetOriginalContractStorage gets the storage value at the start of the current transaction.
func (s *stateManagerImpl) GetOriginalContractStorage(ctx context.Context, addr common.Address, key common.Hash) (common.Hash, error) {
	ok := originKey{addr: addr, key: key}
	val, exists := s.originals[ok]
	if exists {
		return val, nil
	}
	// Not written in this transaction, current is the original.
	val, err := s.GetContractStorage(ctx, addr, key)
	if err != nil {
		return common.Hash{}, err
	}
	s.originals[ok] = val
	return val, nil
}

// PutContractStorage puts the storage value.
func (s *stateManagerImpl) PutContractStorage(ctx context.Context, addr common.Address, key common.Hash, val common.Hash) error {
	_, err := s.GetOriginalContractStorage(ctx, addr, key)
	if err != nil {
		return err
	}
	acct, err := s.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	if acct == nil {
		acct = itypes.NewAccountValue(0)
		err = s.PutAccount(ctx, addr, acct)
		if err != nil {
			return err
		}
		acct, err = s.GetAccount(ctx, addr)
		if err != nil {
			return err
		}
	}
	s.storage.Put(slotKey{addr: addr, version: acct.Version, key: key}, val)
	return nil
}

// ClearContractStorage clears all storage of given address.
func (s *stateManagerImpl) ClearContractStorage(ctx context.Context, addr common.Address) error {
	acct, err := s.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	if acct == nil {
		return nil
	}
	acct.Version++
	s.accounts.Put(addr, itypes.EncodeAccountValue(acct))
	return nil
}

// Checkpoint opens a new checkpoint.
func (s *stateManagerImpl) Checkpoint() {
	s.accounts.Checkpoint()
	s.versions.Checkpoint()
	s.storage.Checkpoint()
	s.code.Checkpoint()
}

// Commit closes the current checkpoint keeping its changes.
func (s *stateManagerImpl) Commit() error {
	err := s.accounts.Commit()
	if err != nil {
		return err
	}
	err = s.versions.Commit()
	if err != nil {
		return err
	}
	err = s.storage.Commit()
	if err != nil {
		return err
	}
	return s.code.Commit()
}

// Revert closes the current checkpoint discarding its changes.
func (s *stateManagerImpl) Revert() error {
	err := s.accounts.Revert()
	if err != nil {
		return err
	}
	err = s.versions.Revert()
	if err != nil {
		return err
	}
	err = s.storage.Revert()
	if err != nil {
		return err
	}
	return s.code.Revert()
}

// Height gets the number of open checkpoints.
func (s *stateManagerImpl) Height() int {
	return s.accounts.Height()
}

// ClearOriginalStorageCache clears the original storage captured for the previous transaction.
func (s *stateManagerImpl) ClearOriginalStorageCache() {
	s.originals = make(map[originKey]common.Hash)
}

// Flush persists all committed changes as one batch.
func (s *stateManagerImpl) Flush(ctx context.Context) (uint64, common.Hash, error) {
	if s.Height() != 0 {
		return 0, common.Hash{}, fmt.Errorf("flush with %v open checkpoints", s.Height())
	}
	height, digest, err := s.sstore.GetPersistedHeight(ctx)
	if err != nil {
		return 0, common.Hash{}, err
	}
	accts := s.accounts.Flush()
	slots := s.storage.Flush()
	codes := s.code.Flush()
	s.versions.Flush()

	txn, err := s.sstore.NewTransaction(ctx)
	if err != nil {
		return 0, common.Hash{}, err
	}
	defer txn.Discard()

	// Digest chains the previous digest with every change in order.
	heightBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(heightBytes, height+1)
	data := [][]byte{digest.Bytes(), heightBytes}
	for _, entry := range codes {
		err = txn.PutCode(entry.Key, entry.Element.Value)
		if err != nil {
			return 0, common.Hash{}, err
		}
		data = append(data, entry.Key.Bytes())
	}
	for _, entry := range slots {
		err = txn.PutStorage(entry.Key.addr, entry.Key.version, entry.Key.key, entry.Element.Value)
		if err != nil {
			return 0, common.Hash{}, err
		}
		version := make([]byte, 8)
		binary.BigEndian.PutUint64(version, entry.Key.version)
		data = append(data, entry.Key.addr.Bytes(), version, entry.Key.key.Bytes(), entry.Element.Value.Bytes())
	}
	persisted := make(map[common.Address]persistedAccount)
	for _, entry := range accts {
		if entry.Element.Exists {
			acct, err := itypes.DecodeAccountValue(entry.Element.Value)
			if err != nil {
				return 0, common.Hash{}, err
			}
			err = txn.PutAccountValue(entry.Key, acct)
			if err != nil {
				return 0, common.Hash{}, err
			}
			persisted[entry.Key] = persistedAccount{acct: acct, exists: true}
			data = append(data, entry.Key.Bytes(), entry.Element.Value)
		} else {
			version := s.tombstoneVersion(entry.Key)
			err = txn.DeleteAccountValue(entry.Key, version)
			if err != nil {
				return 0, common.Hash{}, err
			}
			persisted[entry.Key] = persistedAccount{acct: itypes.NewAccountValue(version), exists: false}
			data = append(data, entry.Key.Bytes(), []byte{0})
		}
	}
	newDigest := crypto.Keccak256Hash(data...)
	err = txn.SetPersistedHeight(height+1, newDigest)
	if err != nil {
		return 0, common.Hash{}, err
	}
	err = txn.Commit()
	if err != nil {
		return 0, common.Hash{}, err
	}

	// Update read caches
	for addr, pacct := range persisted {
		s.cachedAccts.Add(addr, pacct)
	}
	for _, entry := range slots {
		s.cachedStorage.Add(entry.Key, entry.Element.Value)
	}
	for _, entry := range codes {
		s.cachedCode.Add(entry.Key, entry.Element.Value)
	}
	s.Discard()
	log.Infof("Flushed batch %v with %v accounts %v slots %v codes: %v", height+1, len(accts), len(slots), len(codes), newDigest)
	return height + 1, newDigest, nil
}

// Discard drops all changes that have not been flushed.
func (s *stateManagerImpl) Discard() {
	s.accounts.Clear()
	s.versions.Clear()
	s.storage.Clear()
	s.code.Clear()
	s.originals = make(map[originKey]common.Hash)
}

// Stats gets the statistics of the account, storage and code caches.
func (s *stateManagerImpl) Stats(reset bool) map[string]diffcache.Stats {
	return map[string]diffcache.Stats{
		"accounts": s.accounts.Stats(reset),
		"storage":  s.storage.Stats(reset),
		"code":     s.code.Stats(reset),
	}
}
