package vm

/*
 * Licensed under LGPL-3.0.
 *
 * You can get a copy of the LGPL-3.0 License at
 *
 * https://www.gnu.org/licenses/lgpl-3.0.en.html
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

// memoryChunk is the capacity growth step of the backing store.
const memoryChunk = 8 * 1024

// Memory is the byte addressable scratch space of a call frame.
// It grows in whole words and never shrinks.
type Memory struct {
	// store is zero beyond length
	store  []byte
	length uint64
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{store: make([]byte, 0)}
}

// Extend grows the memory to cover [offset, offset+size), rounded up to a whole word.
func (m *Memory) Extend(offset, size uint64) {
	if size == 0 {
		return
	}
	newSize := ceil32(offset + size)
	if newSize <= m.length {
		return
	}
	if newSize > uint64(len(m.store)) {
		capacity := (newSize + memoryChunk - 1) / memoryChunk * memoryChunk
		store := make([]byte, capacity)
		copy(store, m.store[:m.length])
		m.store = store
	}
	m.length = newSize
}

// Write writes value at offset. The length of value must equal size.
func (m *Memory) Write(offset, size uint64, value []byte) error {
	if size == 0 {
		return nil
	}
	if uint64(len(value)) != size {
		return ErrOutOfRange
	}
	m.Extend(offset, size)
	if offset+size > m.length {
		return ErrOutOfRange
	}
	copy(m.store[offset:offset+size], value)
	return nil
}

// Read reads size bytes at offset. With avoidCopy the result aliases the memory
// and must not be modified.
func (m *Memory) Read(offset, size uint64, avoidCopy bool) []byte {
	if size == 0 {
		return []byte{}
	}
	m.Extend(offset, size)
	if avoidCopy {
		return m.store[offset : offset+size : offset+size]
	}
	res := make([]byte, size)
	copy(res, m.store[offset:offset+size])
	return res
}

// Copy copies size bytes from src to dst, the regions may overlap.
func (m *Memory) Copy(dst, src, size uint64) {
	if size == 0 {
		return
	}
	m.Extend(dst, size)
	m.Extend(src, size)
	copy(m.store[dst:dst+size], m.store[src:src+size])
}

// Len gets the memory size in bytes.
func (m *Memory) Len() int {
	return int(m.length)
}

// Data gets the memory content.
func (m *Memory) Data() []byte {
	return m.store[:m.length]
}

func ceil32(n uint64) uint64 {
	if n%32 == 0 {
		return n
	}
	return n + 32 - n%32
}
