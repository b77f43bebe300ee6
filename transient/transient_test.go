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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

var (
	testAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testKey1 = common.HexToHash("0x1").Bytes()
	testKey2 = common.HexToHash("0x2").Bytes()
)

func TestGetPut(t *testing.T) {
	s := New()
	assert.Equal(t, make([]byte, 32), s.Get(testAddr, testKey1))

	assert.Nil(t, s.Put(testAddr, testKey1, []byte{0x05}))
	assert.Equal(t, common.HexToHash("0x5").Bytes(), s.Get(testAddr, testKey1))
	assert.Equal(t, make([]byte, 32), s.Get(testAddr, testKey2))
	assert.Equal(t, 1, s.Len())

	assert.NotNil(t, s.Put(testAddr, []byte{0x01}, []byte{0x01}))
	assert.NotNil(t, s.Put(testAddr, testKey1, make([]byte, 33)))
	assert.Equal(t, 1, s.Len())
}

func TestCheckpointRevert(t *testing.T) {
	s := New()
	assert.Nil(t, s.Put(testAddr, testKey1, []byte{0x01}))

	s.Checkpoint()
	assert.Nil(t, s.Put(testAddr, testKey1, []byte{0x02}))
	s.Checkpoint()
	assert.Nil(t, s.Put(testAddr, testKey1, []byte{0x03}))
	assert.Nil(t, s.Put(testAddr, testKey2, []byte{0x04}))
	assert.Nil(t, s.Commit())
	assert.Equal(t, 4, s.Len())
	assert.Nil(t, s.Revert())

	assert.Equal(t, common.HexToHash("0x1").Bytes(), s.Get(testAddr, testKey1))
	assert.Equal(t, make([]byte, 32), s.Get(testAddr, testKey2))
	assert.Equal(t, 1, s.Len())
}

func TestCheckpointCommit(t *testing.T) {
	s := New()
	s.Checkpoint()
	assert.Nil(t, s.Put(testAddr, testKey1, []byte{0x01}))
	assert.Nil(t, s.Commit())
	assert.Equal(t, common.HexToHash("0x1").Bytes(), s.Get(testAddr, testKey1))

	// The initial index allows one extra close
	assert.Nil(t, s.Revert())
	assert.Equal(t, make([]byte, 32), s.Get(testAddr, testKey1))
	assert.NotNil(t, s.Commit())
	assert.NotNil(t, s.Revert())
}

func TestClear(t *testing.T) {
	s := New()
	s.Checkpoint()
	assert.Nil(t, s.Put(testAddr, testKey1, []byte{0x01}))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, make([]byte, 32), s.Get(testAddr, testKey1))
	assert.Nil(t, s.Revert())
	assert.NotNil(t, s.Revert())
}
