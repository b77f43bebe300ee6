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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/wcgcyx/shardvm/statestore"
	itypes "github.com/wcgcyx/shardvm/types"
	"go.uber.org/mock/gomock"
)

var (
	testAddr1 = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testAddr2 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	testKey1  = common.HexToHash("0x1")
	testKey2  = common.HexToHash("0x2")
	testOpts  = Opts{AccountCacheSize: 16, StorageCacheSize: 16, CodeCacheSize: 16}
)

// newTestStore creates a mock state store where testAddr1 exists with
// storage version 1 and testAddr2 does not exist with tombstone version 3.
func newTestStore(t *testing.T) *statestore.MockStateStore {
	ctrl := gomock.NewController(t)
	m := statestore.NewMockStateStore(ctrl)
	acct1 := itypes.NewAccountValue(1)
	acct1.Nonce = 1
	acct1.Balance = uint256.NewInt(100)
	m.EXPECT().GetAccountValue(gomock.Any(), testAddr1).Return(acct1, true, nil).AnyTimes()
	m.EXPECT().GetAccountValue(gomock.Any(), testAddr2).Return(itypes.NewAccountValue(3), false, nil).AnyTimes()
	m.EXPECT().GetStorageByVersion(gomock.Any(), testAddr1, uint64(1), testKey1).Return(common.HexToHash("0x5"), nil).AnyTimes()
	m.EXPECT().GetStorageByVersion(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(common.Hash{}, nil).AnyTimes()
	m.EXPECT().GetPersistedHeight(gomock.Any()).Return(uint64(7), common.Hash{}, nil).AnyTimes()
	return m
}

func TestGetPutAccount(t *testing.T) {
	ctx := context.Background()
	sm, err := NewStateManagerImpl(testOpts, newTestStore(t))
	assert.Nil(t, err)

	acct, err := sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	assert.NotNil(t, acct)
	assert.Equal(t, uint64(1), acct.Nonce)
	assert.Equal(t, uint64(100), acct.Balance.Uint64())

	acct, err = sm.GetAccount(ctx, testAddr2)
	assert.Nil(t, err)
	assert.Nil(t, acct)

	// New account takes the version after the tombstone
	newAcct := itypes.NewAccountValue(0)
	newAcct.Balance = uint256.NewInt(5)
	assert.Nil(t, sm.PutAccount(ctx, testAddr2, newAcct))
	acct, err = sm.GetAccount(ctx, testAddr2)
	assert.Nil(t, err)
	assert.Equal(t, uint64(4), acct.Version)
	assert.Equal(t, uint64(5), acct.Balance.Uint64())

	// Existing account keeps its version
	acct, err = sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	acct.Nonce = 2
	acct.Version = 10
	assert.Nil(t, sm.PutAccount(ctx, testAddr1, acct))
	acct, err = sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), acct.Nonce)
	assert.Equal(t, uint64(1), acct.Version)
}

func TestCheckpointRevertCommit(t *testing.T) {
	ctx := context.Background()
	sm, err := NewStateManagerImpl(testOpts, newTestStore(t))
	assert.Nil(t, err)

	sm.Checkpoint()
	assert.Equal(t, 1, sm.Height())
	acct, err := sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	acct.Nonce = 5
	assert.Nil(t, sm.PutAccount(ctx, testAddr1, acct))
	assert.Nil(t, sm.PutContractStorage(ctx, testAddr1, testKey1, common.HexToHash("0x9")))
	assert.Nil(t, sm.DeleteAccount(ctx, testAddr2))

	sm.Checkpoint()
	assert.Nil(t, sm.DeleteAccount(ctx, testAddr1))
	acct, err = sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	assert.Nil(t, acct)
	assert.Nil(t, sm.Revert())

	acct, err = sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), acct.Nonce)
	assert.Nil(t, sm.Commit())
	assert.Equal(t, 0, sm.Height())

	val, err := sm.GetContractStorage(ctx, testAddr1, testKey1)
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x9"), val)

	sm.Checkpoint()
	assert.Nil(t, sm.PutContractStorage(ctx, testAddr1, testKey1, common.HexToHash("0xa")))
	assert.Nil(t, sm.Revert())
	val, err = sm.GetContractStorage(ctx, testAddr1, testKey1)
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x9"), val)

	// Unbalanced
	assert.NotNil(t, sm.Commit())
	assert.NotNil(t, sm.Revert())
}

func TestOriginalStorage(t *testing.T) {
	ctx := context.Background()
	sm, err := NewStateManagerImpl(testOpts, newTestStore(t))
	assert.Nil(t, err)

	val, err := sm.GetOriginalContractStorage(ctx, testAddr1, testKey1)
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x5"), val)

	assert.Nil(t, sm.PutContractStorage(ctx, testAddr1, testKey1, common.HexToHash("0x7")))
	assert.Nil(t, sm.PutContractStorage(ctx, testAddr1, testKey2, common.HexToHash("0x8")))
	val, err = sm.GetContractStorage(ctx, testAddr1, testKey1)
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x7"), val)
	val, err = sm.GetOriginalContractStorage(ctx, testAddr1, testKey1)
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x5"), val)
	val, err = sm.GetOriginalContractStorage(ctx, testAddr1, testKey2)
	assert.Nil(t, err)
	assert.Equal(t, common.Hash{}, val)

	// Next transaction sees the written values as original
	sm.ClearOriginalStorageCache()
	val, err = sm.GetOriginalContractStorage(ctx, testAddr1, testKey1)
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x7"), val)
}

func TestClearStorage(t *testing.T) {
	ctx := context.Background()
	sm, err := NewStateManagerImpl(testOpts, newTestStore(t))
	assert.Nil(t, err)

	assert.Nil(t, sm.ClearContractStorage(ctx, testAddr1))
	acct, err := sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), acct.Version)
	val, err := sm.GetContractStorage(ctx, testAddr1, testKey1)
	assert.Nil(t, err)
	assert.Equal(t, common.Hash{}, val)

	// Clear of non-existing account is no-op
	assert.Nil(t, sm.ClearContractStorage(ctx, testAddr2))

	// Storage does not survive delete and re-create
	assert.Nil(t, sm.PutContractStorage(ctx, testAddr1, testKey2, common.HexToHash("0x1")))
	assert.Nil(t, sm.DeleteAccount(ctx, testAddr1))
	val, err = sm.GetContractStorage(ctx, testAddr1, testKey2)
	assert.Nil(t, err)
	assert.Equal(t, common.Hash{}, val)
	assert.Nil(t, sm.PutAccount(ctx, testAddr1, itypes.NewAccountValue(0)))
	acct, err = sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), acct.Version)
	val, err = sm.GetContractStorage(ctx, testAddr1, testKey2)
	assert.Nil(t, err)
	assert.Equal(t, common.Hash{}, val)
}

func TestContractCode(t *testing.T) {
	ctx := context.Background()
	sm, err := NewStateManagerImpl(testOpts, newTestStore(t))
	assert.Nil(t, err)

	code, err := sm.GetContractCode(ctx, testAddr1)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(code))

	// Empty code is ignored
	assert.Nil(t, sm.PutContractCode(ctx, testAddr2, []byte{}))
	acct, err := sm.GetAccount(ctx, testAddr2)
	assert.Nil(t, err)
	assert.Nil(t, acct)

	assert.Nil(t, sm.PutContractCode(ctx, testAddr2, []byte{0x60, 0x00}))
	acct, err = sm.GetAccount(ctx, testAddr2)
	assert.Nil(t, err)
	assert.Equal(t, crypto.Keccak256Hash([]byte{0x60, 0x00}), acct.CodeHash)
	code, err = sm.GetContractCode(ctx, testAddr2)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x60, 0x00}, code)
}

func TestFlush(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)
	ctrl := gomock.NewController(t)
	txn := statestore.NewMockTransaction(ctrl)
	m.EXPECT().NewTransaction(gomock.Any()).Return(txn, nil).Times(1)

	sm, err := NewStateManagerImpl(testOpts, m)
	assert.Nil(t, err)

	code := []byte{0x60, 0x00}
	codeHash := crypto.Keccak256Hash(code)
	assert.Nil(t, sm.PutContractCode(ctx, testAddr2, code))
	assert.Nil(t, sm.PutContractStorage(ctx, testAddr2, testKey1, common.HexToHash("0x3")))
	assert.Nil(t, sm.DeleteAccount(ctx, testAddr1))

	txn.EXPECT().PutCode(codeHash, code).Return(nil).Times(1)
	txn.EXPECT().PutStorage(testAddr2, uint64(4), testKey1, common.HexToHash("0x3")).Return(nil).Times(1)
	txn.EXPECT().PutAccountValue(testAddr2, gomock.Any()).DoAndReturn(func(_ common.Address, acct *itypes.AccountValue) error {
		assert.Equal(t, codeHash, acct.CodeHash)
		assert.Equal(t, uint64(4), acct.Version)
		return nil
	}).Times(1)
	txn.EXPECT().DeleteAccountValue(testAddr1, uint64(1)).Return(nil).Times(1)
	txn.EXPECT().SetPersistedHeight(uint64(8), gomock.Any()).Return(nil).Times(1)
	txn.EXPECT().Commit().Return(nil).Times(1)
	txn.EXPECT().Discard().Times(1)

	// Flush inside a checkpoint should fail
	sm.Checkpoint()
	_, _, err = sm.Flush(ctx)
	assert.NotNil(t, err)
	assert.Nil(t, sm.Commit())

	height, digest, err := sm.Flush(ctx)
	assert.Nil(t, err)
	assert.Equal(t, uint64(8), height)
	assert.NotEqual(t, common.Hash{}, digest)

	// Flushed state is served from the read caches
	acct, err := sm.GetAccount(ctx, testAddr2)
	assert.Nil(t, err)
	assert.Equal(t, codeHash, acct.CodeHash)
	acct, err = sm.GetAccount(ctx, testAddr1)
	assert.Nil(t, err)
	assert.Nil(t, acct)
	val, err := sm.GetContractStorage(ctx, testAddr2, testKey1)
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x3"), val)
	res, err := sm.GetContractCode(ctx, testAddr2)
	assert.Nil(t, err)
	assert.Equal(t, code, res)

	stats := sm.Stats(true)
	assert.Contains(t, stats, "accounts")
	assert.Contains(t, stats, "storage")
	assert.Contains(t, stats, "code")
}
