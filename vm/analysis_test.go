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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestJumpdestAnalysis(t *testing.T) {
	tests := []struct {
		code  []byte
		dest  uint64
		valid bool
	}{
		{[]byte{byte(JUMPDEST)}, 0, true},
		{[]byte{byte(PUSH1), byte(JUMPDEST), byte(JUMPDEST)}, 1, false},
		{[]byte{byte(PUSH1), byte(JUMPDEST), byte(JUMPDEST)}, 2, true},
		{[]byte{byte(PUSH1 + 1), byte(JUMPDEST), byte(JUMPDEST), byte(JUMPDEST)}, 2, false},
		{[]byte{byte(PUSH1 + 1), byte(JUMPDEST), byte(JUMPDEST), byte(JUMPDEST)}, 3, true},
		{[]byte{byte(PUSH1), byte(JUMPDEST)}, 5, false},
		{[]byte{byte(STOP)}, 0, false},
		// Push data running past the end of code
		{[]byte{byte(PUSH32), byte(JUMPDEST)}, 1, false},
	}
	for i, test := range tests {
		bits := codeBitmap(test.code)
		assert.Equal(t, test.valid, validJumpdest(test.code, bits, test.dest), "case %v", i)
	}
}

func TestJumpdestCache(t *testing.T) {
	cache, err := NewJumpdestCache(2)
	assert.Nil(t, err)

	code := []byte{byte(PUSH1), byte(JUMPDEST), byte(JUMPDEST)}
	bits := cache.analyse(crypto.Keccak256Hash(code), code)
	assert.True(t, validJumpdest(code, bits, 2))
	assert.Equal(t, 1, cache.Len())

	// Code without hash is not cached
	cache.analyse(common.Hash{}, code)
	assert.Equal(t, 1, cache.Len())

	for i := byte(0); i < 3; i++ {
		other := []byte{i}
		cache.analyse(crypto.Keccak256Hash(other), other)
	}
	assert.Equal(t, 2, cache.Len())
}
