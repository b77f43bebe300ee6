package transient

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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// modification is one journaled write.
type modification struct {
	addr common.Address
	key  common.Hash
	prev common.Hash
}

// Storage is the EIP-1153 transient storage of a transaction.
type Storage struct {
	storage map[common.Address]map[common.Hash]common.Hash
	// Every write is journaled, indices holds the journal length at each checkpoint.
	journal []modification
	indices []int
}

// New creates a new transient storage.
func New() *Storage {
	s := &Storage{}
	s.Clear()
	return s
}

// Get gets the value of given slot, zero if unset.
func (s *Storage) Get(addr common.Address, key []byte) []byte {
	slots, ok := s.storage[addr]
	if !ok {
		return make([]byte, 32)
	}
	val := slots[common.BytesToHash(key)]
	return val.Bytes()
}

// Put sets the value of given slot.
func (s *Storage) Put(addr common.Address, key []byte, value []byte) error {
	if len(key) != 32 {
		return fmt.Errorf("transient storage key must be 32 bytes long, got %v", len(key))
	}
	if len(value) > 32 {
		return fmt.Errorf("transient storage value cannot be longer than 32 bytes, got %v", len(value))
	}
	slots, ok := s.storage[addr]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		s.storage[addr] = slots
	}
	k := common.BytesToHash(key)
	s.journal = append(s.journal, modification{addr: addr, key: k, prev: slots[k]})
	slots[k] = common.BytesToHash(value)
	return nil
}

// Checkpoint opens a new checkpoint.
func (s *Storage) Checkpoint() {
	s.indices = append(s.indices, len(s.journal))
}

// Commit closes the current checkpoint keeping its changes.
func (s *Storage) Commit() error {
	if len(s.indices) == 0 {
		return fmt.Errorf("nothing to commit")
	}
	s.indices = s.indices[:len(s.indices)-1]
	return nil
}

// Revert closes the current checkpoint undoing its changes.
func (s *Storage) Revert() error {
	if len(s.indices) == 0 {
		return fmt.Errorf("nothing to revert")
	}
	last := s.indices[len(s.indices)-1]
	s.indices = s.indices[:len(s.indices)-1]
	for i := len(s.journal) - 1; i >= last; i-- {
		mod := s.journal[i]
		s.storage[mod.addr][mod.key] = mod.prev
	}
	s.journal = s.journal[:last]
	return nil
}

// Clear drops all values and the journal.
func (s *Storage) Clear() {
	s.storage = make(map[common.Address]map[common.Hash]common.Hash)
	s.journal = make([]modification, 0)
	s.indices = []int{0}
}

// Len gets the journal length.
func (s *Storage) Len() int {
	return len(s.journal)
}
