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

import (
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Note:
// The bit vector is adapted from:
// 		go-ethereum@v1.14.8/core/vm/analysis_legacy.go

const (
	set2BitsMask = uint16(0b11)
	set3BitsMask = uint16(0b111)
	set4BitsMask = uint16(0b1111)
	set5BitsMask = uint16(0b1_1111)
	set6BitsMask = uint16(0b11_1111)
	set7BitsMask = uint16(0b111_1111)
)

// bitvec marks push data in a program. A set bit means the byte is push data.
type bitvec []byte

func (bits bitvec) set1(pos uint64) {
	bits[pos/8] |= 1 << (pos % 8)
}

func (bits bitvec) setN(flag uint16, pos uint64) {
	a := flag << (pos % 8)
	bits[pos/8] |= byte(a)
	if b := byte(a >> 8); b != 0 {
		bits[pos/8+1] = b
	}
}

func (bits bitvec) set8(pos uint64) {
	a := byte(0xFF << (pos % 8))
	bits[pos/8] |= a
	bits[pos/8+1] = ^a
}

func (bits bitvec) set16(pos uint64) {
	a := byte(0xFF << (pos % 8))
	bits[pos/8] |= a
	bits[pos/8+1] = 0xFF
	bits[pos/8+2] = ^a
}

// codeSegment checks if the position is an opcode rather than push data.
func (bits bitvec) codeSegment(pos uint64) bool {
	return ((bits[pos/8] >> (pos % 8)) & 1) == 0
}

// codeBitmap collects the push data locations of the code.
func codeBitmap(code []byte) bitvec {
	// Four extra bytes for a trailing PUSH32.
	bits := make(bitvec, len(code)/8+1+4)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])
		pc++
		if !op.IsPush() {
			continue
		}
		numbits := op - PUSH1 + 1
		if numbits >= 8 {
			for ; numbits >= 16; numbits -= 16 {
				bits.set16(pc)
				pc += 16
			}
			for ; numbits >= 8; numbits -= 8 {
				bits.set8(pc)
				pc += 8
			}
		}
		switch numbits {
		case 1:
			bits.set1(pc)
			pc += 1
		case 2:
			bits.setN(set2BitsMask, pc)
			pc += 2
		case 3:
			bits.setN(set3BitsMask, pc)
			pc += 3
		case 4:
			bits.setN(set4BitsMask, pc)
			pc += 4
		case 5:
			bits.setN(set5BitsMask, pc)
			pc += 5
		case 6:
			bits.setN(set6BitsMask, pc)
			pc += 6
		case 7:
			bits.setN(set7BitsMask, pc)
			pc += 7
		}
	}
	return bits
}

// JumpdestCache caches the code analysis by code hash. It is safe to share.
type JumpdestCache struct {
	cache *lru.Cache[common.Hash, bitvec]
}

// NewJumpdestCache creates a cache holding the analysis of up to size programs.
func NewJumpdestCache(size int) (*JumpdestCache, error) {
	cache, err := lru.New[common.Hash, bitvec](size)
	if err != nil {
		return nil, err
	}
	return &JumpdestCache{cache: cache}, nil
}

// analyse gets the analysis of the code, computing it on a miss.
// A zero code hash skips the cache.
func (c *JumpdestCache) analyse(codeHash common.Hash, code []byte) bitvec {
	if codeHash == (common.Hash{}) {
		return codeBitmap(code)
	}
	if bits, ok := c.cache.Get(codeHash); ok {
		return bits
	}
	bits := codeBitmap(code)
	c.cache.Add(codeHash, bits)
	return bits
}

// Len gets the number of cached programs.
func (c *JumpdestCache) Len() int {
	return c.cache.Len()
}

// validJumpdest checks if dest is a JUMPDEST that is not push data.
func validJumpdest(code []byte, bits bitvec, dest uint64) bool {
	if dest >= uint64(len(code)) {
		return false
	}
	if OpCode(code[dest]) != JUMPDEST {
		return false
	}
	return bits.codeSegment(dest)
}
