package types

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
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestAccountValueRoundTrip(t *testing.T) {
	original := &AccountValue{
		11,
		uint256.NewInt(22),
		common.HexToHash("0xf48be2fbf5a8e6b02b456703b044fe0f3d3bdb45f6bd317c42278955edb27b55"),
		3,
	}

	decoded, err := DecodeAccountValue(EncodeAccountValue(original))
	assert.Nil(t, err)

	assert.Equal(t, original.Nonce, decoded.Nonce)
	assert.Equal(t, original.Balance, decoded.Balance)
	assert.Equal(t, original.CodeHash, decoded.CodeHash)
	assert.Equal(t, original.Version, decoded.Version)

	_, err = DecodeAccountValue([]byte{})
	assert.NotNil(t, err)
}

func TestAccountValueEmpty(t *testing.T) {
	acct := NewAccountValue(2)
	assert.True(t, acct.Empty())
	assert.Equal(t, uint64(2), acct.Version)

	cp := acct.Copy()
	cp.Balance.SetUint64(1)
	assert.False(t, cp.Empty())
	assert.True(t, acct.Empty())

	cp = acct.Copy()
	cp.Nonce = 1
	assert.False(t, cp.Empty())

	cp = acct.Copy()
	cp.CodeHash = common.HexToHash("0x01")
	assert.False(t, cp.Empty())
	assert.Equal(t, types.EmptyCodeHash, acct.CodeHash)
}

func TestLogsRoundTrip(t *testing.T) {
	original := []Log{
		{
			Address: common.HexToAddress("0x976EA74026E726554dB657fA54763abd0C3a0aa9"),
			Topics:  []common.Hash{common.HexToHash("0x1"), common.HexToHash("0x2")},
			Data:    []byte{1, 2, 3},
		},
		{
			Address: common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
			Topics:  []common.Hash{},
			Data:    []byte{},
		},
	}

	bs := make([]byte, SizeLogs(original))
	MarshalLogs(original, bs)
	decoded, _, err := UnmarshalLogs(bs)
	assert.Nil(t, err)
	assert.Equal(t, len(original), len(decoded))
	for i := range original {
		assert.Equal(t, original[i].Address, decoded[i].Address)
		assert.Equal(t, len(original[i].Topics), len(decoded[i].Topics))
		for j := range original[i].Topics {
			assert.Equal(t, original[i].Topics[j], decoded[i].Topics[j])
		}
		assert.Equal(t, original[i].Data, decoded[i].Data)
	}

	ethLog := original[0].ToEthLog()
	assert.Equal(t, original[0].Address, ethLog.Address)
	assert.Equal(t, original[0].Topics, ethLog.Topics)
}
