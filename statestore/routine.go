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
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
)

func (s *stateStoreImpl) gcRoutine() {
	defer func() {
		s.exitLoop <- true
	}()

	after := time.NewTicker(s.opts.GCPeriod)
	defer after.Stop()
	for {
		select {
		case <-s.routineCtx.Done():
			log.Infof("Exit GC routine")
			return
		case <-after.C:
			log.Infof("Start GC round")
			accts, slots := s.gcRound()
			log.Infof("GC round cleared %v account versions with %v storage slots", accts, slots)
		}
		if s.routineCtx.Err() != nil {
			log.Warnf("Exit GC routine due to context cancelled: %v", s.routineCtx.Err().Error())
			return
		}
	}
}

// gcRound clears storage of every version marked for GC.
func (s *stateStoreImpl) gcRound() (int, int) {
	totalCleanedAccts := 0
	totalCleanedSlots := 0
	results, err := s.ds.Query(s.routineCtx, query.Query{Prefix: datastore.NewKey(gcKey).String(), KeysOnly: true})
	if err != nil {
		log.Warnf("GC - Fail to query ds: %v", err.Error())
		return 0, 0
	}
	entries, err := results.Rest()
	if err != nil {
		log.Warnf("GC - Fail to query ds: %v", err.Error())
		return 0, 0
	}
	for _, entry := range entries {
		if s.routineCtx.Err() != nil {
			log.Warnf("Exit GC round due to context cancelled: %v", s.routineCtx.Err().Error())
			break
		}
		addr, version, ok := splitGCKey(entry.Key)
		if !ok {
			log.Warnf("GC - Invalid gc entry %v", entry.Key)
			continue
		}
		cleared, err := s.clearVersion(addr, version, datastore.NewKey(entry.Key))
		if err != nil {
			log.Warnf("GC - Fail to clear %v-%v: %v", addr, version, err.Error())
			continue
		}
		totalCleanedAccts++
		totalCleanedSlots += cleared
	}
	return totalCleanedAccts, totalCleanedSlots
}

// clearVersion deletes all storage slots of the given version and its gc entry.
func (s *stateStoreImpl) clearVersion(addr common.Address, version uint64, gcEntry datastore.Key) (int, error) {
	txn, err := s.ds.NewTransaction(s.routineCtx, false)
	if err != nil {
		return 0, err
	}
	defer txn.Discard(s.routineCtx)
	results, err := txn.Query(s.routineCtx, query.Query{Prefix: getStoragePrefix(addr, version).String(), KeysOnly: true})
	if err != nil {
		return 0, err
	}
	entries, err := results.Rest()
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		err = txn.Delete(s.routineCtx, datastore.NewKey(entry.Key))
		if err != nil {
			return 0, err
		}
	}
	err = txn.Delete(s.routineCtx, gcEntry)
	if err != nil {
		return 0, err
	}
	err = txn.Commit(s.routineCtx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
