package journal

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
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/wcgcyx/shardvm/protocol"
	"github.com/wcgcyx/shardvm/statemanager"
	itypes "github.com/wcgcyx/shardvm/types"
	"go.uber.org/mock/gomock"
)

var (
	testAddr1 = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testAddr2 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	testAddr3 = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	testSlot1 = common.HexToHash("0x1")
	testSlot2 = common.HexToHash("0x2")
)

func newTestJournal(t *testing.T, hf protocol.Hardfork) (*Journal, *statemanager.MockStateManager) {
	ctrl := gomock.NewController(t)
	sm := statemanager.NewMockStateManager(ctrl)
	sm.EXPECT().Checkpoint().AnyTimes()
	sm.EXPECT().Commit().Return(nil).AnyTimes()
	sm.EXPECT().Revert().Return(nil).AnyTimes()
	sm.EXPECT().PutAccount(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	rules, err := protocol.NewRules(hf, 1, nil)
	assert.Nil(t, err)
	return New(sm, rules), sm
}

// snapshot captures the observable state of the journal for given addresses and slots.
type snapshot struct {
	warmAddrs map[common.Address]bool
	warmSlots map[common.Address]map[common.Hash]bool
	touched   map[common.Address]bool
}

func takeSnapshot(j *Journal) snapshot {
	res := snapshot{
		warmAddrs: make(map[common.Address]bool),
		warmSlots: make(map[common.Address]map[common.Hash]bool),
		touched:   make(map[common.Address]bool),
	}
	for _, addr := range []common.Address{testAddr1, testAddr2, testAddr3, ripemdAddress} {
		res.warmAddrs[addr] = j.IsWarmedAddress(addr)
		res.touched[addr] = j.IsTouched(addr)
		res.warmSlots[addr] = make(map[common.Hash]bool)
		for _, slot := range []common.Hash{testSlot1, testSlot2} {
			res.warmSlots[addr][slot] = j.IsWarmedStorage(addr, slot)
		}
	}
	return res
}

func TestWarmAddressAndStorage(t *testing.T) {
	j, _ := newTestJournal(t, protocol.Berlin)

	assert.False(t, j.IsWarmedAddress(testAddr1))
	j.AddWarmedAddress(testAddr1)
	assert.True(t, j.IsWarmedAddress(testAddr1))
	j.AddWarmedAddress(testAddr1)
	assert.True(t, j.IsWarmedAddress(testAddr1))

	// Warming a slot warms the address
	assert.False(t, j.IsWarmedStorage(testAddr2, testSlot1))
	j.AddWarmedStorage(testAddr2, testSlot1)
	assert.True(t, j.IsWarmedAddress(testAddr2))
	assert.True(t, j.IsWarmedStorage(testAddr2, testSlot1))
	assert.False(t, j.IsWarmedStorage(testAddr2, testSlot2))
}

func TestRevertIsInverse(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestJournal(t, protocol.Berlin)

	j.AddWarmedAddress(testAddr1)
	j.AddWarmedStorage(testAddr1, testSlot1)
	assert.Nil(t, j.PutAccount(ctx, testAddr1, itypes.NewAccountValue(0)))
	before := takeSnapshot(j)

	j.Checkpoint()
	j.AddWarmedAddress(testAddr2)
	j.AddWarmedStorage(testAddr1, testSlot2)
	j.AddWarmedStorage(testAddr3, testSlot1)
	assert.Nil(t, j.PutAccount(ctx, testAddr2, itypes.NewAccountValue(0)))
	j.Checkpoint()
	j.AddWarmedStorage(testAddr2, testSlot2)
	assert.Nil(t, j.PutAccount(ctx, testAddr3, itypes.NewAccountValue(0)))
	assert.Nil(t, j.Commit())
	assert.NotEqual(t, before, takeSnapshot(j))
	assert.Nil(t, j.Revert())

	assert.Equal(t, before, takeSnapshot(j))
	assert.Equal(t, 0, j.Height())
}

func TestCommitIsTransparent(t *testing.T) {
	ctx := context.Background()
	j1, _ := newTestJournal(t, protocol.Berlin)
	j2, _ := newTestJournal(t, protocol.Berlin)

	ops := func(j *Journal) {
		j.AddWarmedAddress(testAddr1)
		j.AddWarmedStorage(testAddr2, testSlot1)
		assert.Nil(t, j.PutAccount(ctx, testAddr3, itypes.NewAccountValue(0)))
	}

	j1.Checkpoint()
	ops(j1)
	assert.Nil(t, j1.Commit())
	ops(j2)
	assert.Equal(t, takeSnapshot(j2), takeSnapshot(j1))

	// A later revert at the outer level still undoes committed changes
	j1.Checkpoint()
	j1.Checkpoint()
	j1.AddWarmedStorage(testAddr1, testSlot2)
	assert.Nil(t, j1.Commit())
	assert.True(t, j1.IsWarmedStorage(testAddr1, testSlot2))
	assert.Nil(t, j1.Revert())
	assert.False(t, j1.IsWarmedStorage(testAddr1, testSlot2))
	assert.Equal(t, takeSnapshot(j2), takeSnapshot(j1))
}

func TestRevertBoundary(t *testing.T) {
	j, _ := newTestJournal(t, protocol.Berlin)

	// Frames: [0 1 2]
	j.Checkpoint()
	j.Checkpoint()
	j.AddWarmedAddress(testAddr1)
	// Frames: [0 1 2 1]
	assert.Nil(t, j.Commit())
	// Frames: [0 1 2 1 2]
	j.Checkpoint()
	j.AddWarmedAddress(testAddr2)
	assert.Equal(t, 5, len(j.frames))

	// Scan stops at the committed barrier frame at height 1
	assert.Nil(t, j.Revert())
	assert.Equal(t, 4, len(j.frames))
	assert.True(t, j.IsWarmedAddress(testAddr1))
	assert.False(t, j.IsWarmedAddress(testAddr2))

	// Reverting the outer checkpoint reaches into the committed frame
	assert.Nil(t, j.Revert())
	assert.Equal(t, 1, len(j.frames))
	assert.False(t, j.IsWarmedAddress(testAddr1))
	assert.Equal(t, 0, j.Height())
}

func TestRevertSiblingFrames(t *testing.T) {
	j, _ := newTestJournal(t, protocol.Berlin)

	j.Checkpoint()
	// First call at height 2 succeeds
	j.Checkpoint()
	j.AddWarmedStorage(testAddr1, testSlot1)
	assert.Nil(t, j.Commit())
	// Second call at the same height fails
	j.Checkpoint()
	j.AddWarmedStorage(testAddr1, testSlot2)
	j.AddWarmedAddress(testAddr2)
	assert.Nil(t, j.Revert())

	assert.True(t, j.IsWarmedAddress(testAddr1))
	assert.True(t, j.IsWarmedStorage(testAddr1, testSlot1))
	assert.False(t, j.IsWarmedStorage(testAddr1, testSlot2))
	assert.False(t, j.IsWarmedAddress(testAddr2))
	assert.Nil(t, j.Commit())
	assert.True(t, j.IsWarmedStorage(testAddr1, testSlot1))
}

func TestRipemdStaysTouched(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestJournal(t, protocol.Berlin)

	j.Checkpoint()
	assert.Nil(t, j.PutAccount(ctx, ripemdAddress, itypes.NewAccountValue(0)))
	assert.Nil(t, j.PutAccount(ctx, testAddr1, itypes.NewAccountValue(0)))
	assert.True(t, j.IsTouched(ripemdAddress))
	assert.True(t, j.IsTouched(testAddr1))
	assert.Nil(t, j.Revert())

	assert.True(t, j.IsTouched(ripemdAddress))
	assert.False(t, j.IsTouched(testAddr1))
}

func TestAlwaysWarm(t *testing.T) {
	j, _ := newTestJournal(t, protocol.Berlin)

	j.Checkpoint()
	j.AddAlwaysWarmAddress(testAddr1, false)
	j.AddAlwaysWarmSlot(testAddr2, testSlot1, false)
	assert.Nil(t, j.Revert())

	assert.True(t, j.IsWarmedAddress(testAddr1))
	assert.True(t, j.IsWarmedAddress(testAddr2))
	assert.True(t, j.IsWarmedStorage(testAddr2, testSlot1))
	assert.False(t, j.IsWarmedStorage(testAddr2, testSlot2))

	// Slot warm in the journal but not in the overlay
	j.AddWarmedStorage(testAddr2, testSlot2)
	assert.True(t, j.IsWarmedStorage(testAddr2, testSlot2))
	assert.True(t, j.IsWarmedStorage(testAddr2, testSlot1))

	j.CleanJournal()
	assert.False(t, j.IsWarmedAddress(testAddr1))
	assert.False(t, j.IsWarmedStorage(testAddr2, testSlot1))
}

func TestAccessList(t *testing.T) {
	j, _ := newTestJournal(t, protocol.Berlin)
	assert.Nil(t, j.AccessList())

	j.StartReportingAccessList()
	j.AddAlwaysWarmAddress(testAddr3, false)
	j.AddAlwaysWarmSlot(testAddr1, testSlot2, true)
	j.Checkpoint()
	j.AddWarmedStorage(testAddr2, testSlot2)
	j.AddWarmedStorage(testAddr2, testSlot1)
	assert.Nil(t, j.Revert())

	// Mirror is never reverted
	al := j.AccessList()
	assert.Equal(t, types.AccessList{
		{Address: testAddr2, StorageKeys: []common.Hash{testSlot1, testSlot2}},
		{Address: testAddr1, StorageKeys: []common.Hash{testSlot2}},
	}, al)
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	j, sm := newTestJournal(t, protocol.SpuriousDragon)

	nonEmpty := itypes.NewAccountValue(1)
	nonEmpty.Balance = uint256.NewInt(1)
	sm.EXPECT().GetAccount(gomock.Any(), testAddr1).Return(nonEmpty, nil).Times(1)
	sm.EXPECT().GetAccount(gomock.Any(), testAddr2).Return(itypes.NewAccountValue(1), nil).Times(1)
	sm.EXPECT().GetAccount(gomock.Any(), testAddr3).Return(nil, nil).Times(1)
	sm.EXPECT().DeleteAccount(gomock.Any(), testAddr2).Return(nil).Times(1)
	sm.EXPECT().DeleteAccount(gomock.Any(), testAddr3).Return(nil).Times(1)

	j.StartReportingAccessList()
	assert.Nil(t, j.PutAccount(ctx, testAddr1, nonEmpty))
	assert.Nil(t, j.PutAccount(ctx, testAddr2, itypes.NewAccountValue(1)))
	assert.Nil(t, j.PutAccount(ctx, testAddr3, itypes.NewAccountValue(1)))
	assert.Nil(t, j.Cleanup(ctx))

	assert.False(t, j.IsTouched(testAddr1))
	assert.Nil(t, j.AccessList())
	assert.Equal(t, 0, j.Height())
}

func TestCleanupBeforeSpuriousDragon(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestJournal(t, protocol.Homestead)

	// No account lookups or deletions are expected
	assert.Nil(t, j.PutAccount(ctx, testAddr1, itypes.NewAccountValue(1)))
	assert.Nil(t, j.Cleanup(ctx))
	assert.False(t, j.IsTouched(testAddr1))
}
