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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/shardvm/protocol"
	"github.com/wcgcyx/shardvm/statemanager"
	itypes "github.com/wcgcyx/shardvm/types"
)

// Logger
var log = logging.Logger("journal")

// ripemdAddress stays touched once touched, even if the touch is reverted.
var ripemdAddress = common.BytesToAddress([]byte{3})

// diffFrame records what has been added since it was pushed.
type diffFrame struct {
	height    int
	warmAddrs mapset.Set[common.Address]
	warmSlots map[common.Address]mapset.Set[common.Hash]
	touched   mapset.Set[common.Address]
}

func newDiffFrame(height int) diffFrame {
	return diffFrame{
		height:    height,
		warmAddrs: mapset.NewThreadUnsafeSet[common.Address](),
		warmSlots: make(map[common.Address]mapset.Set[common.Hash]),
		touched:   mapset.NewThreadUnsafeSet[common.Address](),
	}
}

// Journal tracks warm addresses, warm storage slots and touched accounts of a
// transaction under nested checkpoints, forwarding every checkpoint to the
// state manager.
type Journal struct {
	sm    statemanager.StateManager
	rules *protocol.Rules

	height int
	// warm maps every warm address to its warm slots.
	warm       map[common.Address]mapset.Set[common.Hash]
	alwaysWarm map[common.Address]mapset.Set[common.Hash]
	touched    mapset.Set[common.Address]
	frames     []diffFrame

	// accessList is nil unless reporting is started.
	accessList map[common.Address]mapset.Set[common.Hash]
}

// New creates a new journal over given state manager.
func New(sm statemanager.StateManager, rules *protocol.Rules) *Journal {
	j := &Journal{
		sm:    sm,
		rules: rules,
	}
	j.CleanJournal()
	return j
}

// StateManager gets the underlying state manager.
func (j *Journal) StateManager() statemanager.StateManager {
	return j.sm
}

// Height gets the current checkpoint height.
func (j *Journal) Height() int {
	return j.height
}

// StartReportingAccessList starts to record every warmed address and slot.
func (j *Journal) StartReportingAccessList() {
	j.accessList = make(map[common.Address]mapset.Set[common.Hash])
}

// AccessList gets the recorded access list in address order, nil if not reporting.
func (j *Journal) AccessList() types.AccessList {
	if j.accessList == nil {
		return nil
	}
	addrs := make([]common.Address, 0, len(j.accessList))
	for addr := range j.accessList {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, k int) bool {
		return addrs[i].Cmp(addrs[k]) < 0
	})
	res := make(types.AccessList, 0, len(addrs))
	for _, addr := range addrs {
		slots := j.accessList[addr].ToSlice()
		sort.Slice(slots, func(i, k int) bool {
			return slots[i].Cmp(slots[k]) < 0
		})
		res = append(res, types.AccessTuple{Address: addr, StorageKeys: slots})
	}
	return res
}

// PutAccount touches the address and puts the account.
func (j *Journal) PutAccount(ctx context.Context, addr common.Address, acct *itypes.AccountValue) error {
	j.touchAccount(addr)
	return j.sm.PutAccount(ctx, addr, acct)
}

// DeleteAccount touches the address and deletes the account.
func (j *Journal) DeleteAccount(ctx context.Context, addr common.Address) error {
	j.touchAccount(addr)
	return j.sm.DeleteAccount(ctx, addr)
}

// IsTouched checks if the address has been touched.
func (j *Journal) IsTouched(addr common.Address) bool {
	return j.touched.Contains(addr)
}

func (j *Journal) touchAccount(addr common.Address) {
	if j.touched.Add(addr) {
		j.frames[len(j.frames)-1].touched.Add(addr)
	}
}

// Checkpoint opens a new checkpoint.
func (j *Journal) Checkpoint() {
	j.height++
	j.frames = append(j.frames, newDiffFrame(j.height))
	j.sm.Checkpoint()
}

// Commit closes the current checkpoint keeping its changes.
// The pushed frame separates the committed changes from later ones.
func (j *Journal) Commit() error {
	j.height--
	j.frames = append(j.frames, newDiffFrame(j.height))
	return j.sm.Commit()
}

// Revert closes the current checkpoint undoing its changes.
// Frames are undone from the top until one is found below the current height.
func (j *Journal) Revert() error {
	finalI := 0
	for i := len(j.frames) - 1; i >= 0; i-- {
		finalI = i
		frame := j.frames[i]
		if frame.height < j.height {
			break
		}
		for addr := range frame.warmAddrs.Iter() {
			delete(j.warm, addr)
		}
		for addr, slots := range frame.warmSlots {
			warmSlots, ok := j.warm[addr]
			if !ok {
				continue
			}
			for slot := range slots.Iter() {
				warmSlots.Remove(slot)
			}
		}
		for addr := range frame.touched.Iter() {
			if addr != ripemdAddress {
				j.touched.Remove(addr)
			}
		}
	}
	j.frames = j.frames[:finalI+1]
	j.height--
	return j.sm.Revert()
}

// CleanJournal resets the journal to height 0.
func (j *Journal) CleanJournal() {
	j.height = 0
	j.warm = make(map[common.Address]mapset.Set[common.Hash])
	j.alwaysWarm = make(map[common.Address]mapset.Set[common.Hash])
	j.touched = mapset.NewThreadUnsafeSet[common.Address]()
	j.frames = []diffFrame{newDiffFrame(0)}
}

// Cleanup deletes touched accounts that are absent or empty (EIP-161),
// then resets the journal and stops access list reporting.
func (j *Journal) Cleanup(ctx context.Context) error {
	if j.rules.GteHardfork(protocol.SpuriousDragon) {
		touched := j.touched.ToSlice()
		sort.Slice(touched, func(i, k int) bool {
			return touched[i].Cmp(touched[k]) < 0
		})
		for _, addr := range touched {
			acct, err := j.sm.GetAccount(ctx, addr)
			if err != nil {
				return err
			}
			if acct == nil || acct.Empty() {
				err = j.DeleteAccount(ctx, addr)
				if err != nil {
					return err
				}
				log.Debugf("Cleanup touched account %v", addr)
			}
		}
	}
	j.CleanJournal()
	j.accessList = nil
	return nil
}

// AddAlwaysWarmAddress marks the address warm for the whole transaction.
func (j *Journal) AddAlwaysWarmAddress(addr common.Address, addToAccessList bool) {
	if _, ok := j.alwaysWarm[addr]; !ok {
		j.alwaysWarm[addr] = mapset.NewThreadUnsafeSet[common.Hash]()
	}
	if addToAccessList && j.accessList != nil {
		if _, ok := j.accessList[addr]; !ok {
			j.accessList[addr] = mapset.NewThreadUnsafeSet[common.Hash]()
		}
	}
}

// AddAlwaysWarmSlot marks the slot warm for the whole transaction.
func (j *Journal) AddAlwaysWarmSlot(addr common.Address, slot common.Hash, addToAccessList bool) {
	j.AddAlwaysWarmAddress(addr, addToAccessList)
	j.alwaysWarm[addr].Add(slot)
	if addToAccessList && j.accessList != nil {
		j.accessList[addr].Add(slot)
	}
}

// IsWarmedAddress checks if the address is warm.
func (j *Journal) IsWarmedAddress(addr common.Address) bool {
	if _, ok := j.warm[addr]; ok {
		return true
	}
	_, ok := j.alwaysWarm[addr]
	return ok
}

// AddWarmedAddress marks the address warm in the current checkpoint.
func (j *Journal) AddWarmedAddress(addr common.Address) {
	if _, ok := j.warm[addr]; !ok {
		j.warm[addr] = mapset.NewThreadUnsafeSet[common.Hash]()
		j.frames[len(j.frames)-1].warmAddrs.Add(addr)
	}
	if j.accessList != nil {
		if _, ok := j.accessList[addr]; !ok {
			j.accessList[addr] = mapset.NewThreadUnsafeSet[common.Hash]()
		}
	}
}

// IsWarmedStorage checks if the slot is warm.
func (j *Journal) IsWarmedStorage(addr common.Address, slot common.Hash) bool {
	if slots, ok := j.warm[addr]; ok && slots.Contains(slot) {
		return true
	}
	if slots, ok := j.alwaysWarm[addr]; ok {
		return slots.Contains(slot)
	}
	return false
}

// AddWarmedStorage marks the slot warm in the current checkpoint, warming the address if needed.
func (j *Journal) AddWarmedStorage(addr common.Address, slot common.Hash) {
	slots, ok := j.warm[addr]
	if !ok {
		j.AddWarmedAddress(addr)
		slots = j.warm[addr]
	}
	if slots.Add(slot) {
		frame := j.frames[len(j.frames)-1]
		frameSlots, ok := frame.warmSlots[addr]
		if !ok {
			frameSlots = mapset.NewThreadUnsafeSet[common.Hash]()
			frame.warmSlots[addr] = frameSlots
		}
		frameSlots.Add(slot)
	}
	if j.accessList != nil {
		listSlots, ok := j.accessList[addr]
		if !ok {
			listSlots = mapset.NewThreadUnsafeSet[common.Hash]()
			j.accessList[addr] = listSlots
		}
		listSlots.Add(slot)
	}
}
