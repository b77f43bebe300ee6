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
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	itypes "github.com/wcgcyx/shardvm/types"
)

const (
	testDS       = "./test-ds"
	testAcct1Str = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testAcct2Str = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

var testOpts = Opts{
	Path:         testDS,
	GCPeriod:     time.Minute,
	ReadTimeout:  time.Second,
	WriteTimeout: time.Second,
}

func TestMain(m *testing.M) {
	os.RemoveAll(testDS)
	os.Mkdir(testDS, os.ModePerm)
	defer os.RemoveAll(testDS)
	m.Run()
}

func testGenesis() types.GenesisAlloc {
	return types.GenesisAlloc{
		common.HexToAddress(testAcct1Str): {
			Balance: big.NewInt(1000),
			Nonce:   2,
		},
		common.HexToAddress(testAcct2Str): {
			Balance: big.NewInt(0),
			Code:    []byte{0x60, 0x01, 0x00},
			Storage: map[common.Hash]common.Hash{
				common.HexToHash("0x1"): common.HexToHash("0x11"),
			},
		},
	}
}

func TestNewStateStore(t *testing.T) {
	defer os.RemoveAll(testDS)

	ctx := context.Background()

	// Empty path should fail
	_, err := NewStateStoreImpl(ctx, Opts{
		GCPeriod:     time.Minute,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, nil)
	assert.NotNil(t, err)

	// Invalid gc period should fail
	_, err = NewStateStoreImpl(ctx, Opts{
		Path:         testDS,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, nil)
	assert.NotNil(t, err)

	// Start from genesis should work
	sstore, err := NewStateStoreImpl(ctx, testOpts, testGenesis())
	assert.Nil(t, err)
	assert.NotNil(t, sstore)
	sstore.Shutdown()

	// Open existing should work
	sstore, err = NewStateStoreImpl(ctx, testOpts, nil)
	assert.Nil(t, err)
	assert.NotNil(t, sstore)
	defer sstore.Shutdown()

	height, digest, err := sstore.GetPersistedHeight(ctx)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), height)
	assert.Equal(t, common.Hash{}, digest)

	acct, exists, err := sstore.GetAccountValue(ctx, common.HexToAddress(testAcct1Str))
	assert.Nil(t, err)
	assert.True(t, exists)
	assert.Equal(t, uint64(2), acct.Nonce)
	assert.Equal(t, uint64(1000), acct.Balance.Uint64())
	assert.Equal(t, types.EmptyCodeHash, acct.CodeHash)
	assert.Equal(t, uint64(1), acct.Version)

	acct, exists, err = sstore.GetAccountValue(ctx, common.HexToAddress(testAcct2Str))
	assert.Nil(t, err)
	assert.True(t, exists)
	code, err := sstore.GetCodeByHash(ctx, acct.CodeHash)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x60, 0x01, 0x00}, code)
	val, err := sstore.GetStorageByVersion(ctx, common.HexToAddress(testAcct2Str), 1, common.HexToHash("0x1"))
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x11"), val)
}

func TestAccountLifecycle(t *testing.T) {
	defer os.RemoveAll(testDS)

	ctx := context.Background()
	sstore, err := NewStateStoreImpl(ctx, testOpts, nil)
	assert.Nil(t, err)
	defer sstore.Shutdown()

	addr := common.HexToAddress(testAcct1Str)
	acct, exists, err := sstore.GetAccountValue(ctx, addr)
	assert.Nil(t, err)
	assert.False(t, exists)
	assert.True(t, acct.Empty())
	assert.Equal(t, uint64(0), acct.Version)

	// Create account with storage
	txn, err := sstore.NewTransaction(ctx)
	assert.Nil(t, err)
	acct = &itypes.AccountValue{
		Nonce:    1,
		Balance:  uint256.NewInt(10),
		CodeHash: crypto.Keccak256Hash([]byte{0x00}),
		Version:  1,
	}
	assert.Nil(t, txn.PutAccountValue(addr, acct))
	assert.Nil(t, txn.PutCode(acct.CodeHash, []byte{0x00}))
	assert.Nil(t, txn.PutStorage(addr, 1, common.HexToHash("0x1"), common.HexToHash("0x2")))
	assert.Nil(t, txn.PutStorage(addr, 1, common.HexToHash("0x2"), common.HexToHash("0x3")))
	assert.Nil(t, txn.SetPersistedHeight(1, common.HexToHash("0x1234")))
	assert.Nil(t, txn.Commit())

	stored, exists, err := sstore.GetAccountValue(ctx, addr)
	assert.Nil(t, err)
	assert.True(t, exists)
	assert.Equal(t, acct.Nonce, stored.Nonce)
	assert.Equal(t, acct.Balance, stored.Balance)
	height, digest, err := sstore.GetPersistedHeight(ctx)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), height)
	assert.Equal(t, common.HexToHash("0x1234"), digest)

	// Discarded transaction should have no effect
	txn, err = sstore.NewTransaction(ctx)
	assert.Nil(t, err)
	assert.Nil(t, txn.PutStorage(addr, 1, common.HexToHash("0x1"), common.HexToHash("0x9")))
	txn.Discard()
	val, err := sstore.GetStorageByVersion(ctx, addr, 1, common.HexToHash("0x1"))
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x2"), val)

	// Zero value deletes slot
	txn, err = sstore.NewTransaction(ctx)
	assert.Nil(t, err)
	assert.Nil(t, txn.PutStorage(addr, 1, common.HexToHash("0x2"), common.Hash{}))
	assert.Nil(t, txn.Commit())
	val, err = sstore.GetStorageByVersion(ctx, addr, 1, common.HexToHash("0x2"))
	assert.Nil(t, err)
	assert.Equal(t, common.Hash{}, val)

	// Delete account keeps the version
	txn, err = sstore.NewTransaction(ctx)
	assert.Nil(t, err)
	assert.Nil(t, txn.DeleteAccountValue(addr, 1))
	assert.Nil(t, txn.Commit())
	stored, exists, err = sstore.GetAccountValue(ctx, addr)
	assert.Nil(t, err)
	assert.False(t, exists)
	assert.Equal(t, uint64(1), stored.Version)

	// Code is content addressed and kept
	code, err := sstore.GetCodeByHash(ctx, acct.CodeHash)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x00}, code)
	code, err = sstore.GetCodeByHash(ctx, types.EmptyCodeHash)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(code))
	_, err = sstore.GetCodeByHash(ctx, common.HexToHash("0x1"))
	assert.NotNil(t, err)

	// GC removes storage of the deleted version
	impl := sstore.(*stateStoreImpl)
	accts, slots := impl.gcRound()
	assert.Equal(t, 1, accts)
	assert.Equal(t, 1, slots)
	val, err = sstore.GetStorageByVersion(ctx, addr, 1, common.HexToHash("0x1"))
	assert.Nil(t, err)
	assert.Equal(t, common.Hash{}, val)

	// Nothing left to collect
	accts, slots = impl.gcRound()
	assert.Equal(t, 0, accts)
	assert.Equal(t, 0, slots)
}

func TestVersionBumpMarksGC(t *testing.T) {
	defer os.RemoveAll(testDS)

	ctx := context.Background()
	sstore, err := NewStateStoreImpl(ctx, testOpts, testGenesis())
	assert.Nil(t, err)
	defer sstore.Shutdown()

	addr := common.HexToAddress(testAcct2Str)
	acct, exists, err := sstore.GetAccountValue(ctx, addr)
	assert.Nil(t, err)
	assert.True(t, exists)

	// Clearing storage bumps version
	acct.Version = 3
	txn, err := sstore.NewTransaction(ctx)
	assert.Nil(t, err)
	assert.Nil(t, txn.PutAccountValue(addr, acct))
	assert.Nil(t, txn.PutStorage(addr, 3, common.HexToHash("0x5"), common.HexToHash("0x6")))
	assert.Nil(t, txn.Commit())

	accts, slots := sstore.(*stateStoreImpl).gcRound()
	// Versions 1 and 2 are cleared, only version 1 has a slot
	assert.Equal(t, 2, accts)
	assert.Equal(t, 1, slots)

	val, err := sstore.GetStorageByVersion(ctx, addr, 3, common.HexToHash("0x5"))
	assert.Nil(t, err)
	assert.Equal(t, common.HexToHash("0x6"), val)
}

func TestSplitGCKey(t *testing.T) {
	addr := common.HexToAddress(testAcct1Str)
	key := getGCKey(addr, 7)
	a, v, ok := splitGCKey(key.String())
	assert.True(t, ok)
	assert.Equal(t, addr, a)
	assert.Equal(t, uint64(7), v)

	_, _, ok = splitGCKey("/s/abc")
	assert.False(t, ok)
	_, _, ok = splitGCKey("/g/!!/1")
	assert.False(t, ok)
	_, _, ok = splitGCKey("/g/AAAA/x")
	assert.False(t, ok)
}
