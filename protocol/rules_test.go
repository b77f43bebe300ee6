package protocol

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
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
)

func TestParseHardfork(t *testing.T) {
	h, err := ParseHardfork("Cancun")
	assert.Nil(t, err)
	assert.Equal(t, Cancun, h)

	h, err = ParseHardfork("frontier")
	assert.Nil(t, err)
	assert.Equal(t, Chainstart, h)

	h, err = ParseHardfork("merge")
	assert.Nil(t, err)
	assert.Equal(t, Paris, h)

	h, err = ParseHardfork("spuriousdragon")
	assert.Nil(t, err)
	assert.Equal(t, SpuriousDragon, h)
	assert.Equal(t, "spuriousDragon", h.String())

	_, err = ParseHardfork("prague")
	assert.NotNil(t, err)
}

func TestNewRules(t *testing.T) {
	_, err := NewRules(Hardfork(100), 1, nil)
	assert.NotNil(t, err)

	_, err = NewRules(London, 1, []int{1})
	assert.NotNil(t, err)

	r, err := NewRules(Istanbul, 1, nil)
	assert.Nil(t, err)
	assert.True(t, r.GteHardfork(Constantinople))
	assert.False(t, r.GteHardfork(Berlin))
	assert.False(t, r.IsActivatedEIP(2929))
	assert.Equal(t, uint64(800), r.Param(GasSload))
	assert.Equal(t, uint64(800), r.Param(GasSstoreNoopEIP2200))
	assert.Equal(t, uint64(15000), r.Param(GasSstoreClearRefundEIP2200))
	assert.Equal(t, uint64(700), r.Param(GasCall))
	assert.Equal(t, uint64(50), r.Param(GasExpByte))
	assert.Equal(t, uint64(150), r.Param(GasBn254Add))

	r, err = NewRules(Berlin, 1, nil)
	assert.Nil(t, err)
	assert.True(t, r.IsActivatedEIP(2929))
	assert.True(t, r.IsActivatedEIP(2565))
	assert.Equal(t, uint64(0), r.Param(GasSload))
	assert.Equal(t, uint64(0), r.Param(GasCall))
	assert.Equal(t, uint64(100), r.Param(GasSstoreNoopEIP2200))
	assert.Equal(t, uint64(2900), r.Param(GasSstoreCleanEIP2200))
	assert.Equal(t, uint64(19900), r.Param(GasSstoreInitRefundEIP2200))
	assert.Equal(t, uint64(4900), r.Param(GasSstoreCleanRefundEIP2200))
	assert.Equal(t, uint64(3), r.Param(GasModexpGquaddivisor))
	assert.Equal(t, uint64(24000), r.Param(GasSelfdestructRefund))
	assert.Equal(t, uint64(2), r.Param(MaxRefundQuotient))

	r, err = NewRules(London, 1, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(4800), r.Param(GasSstoreClearRefundEIP2200))
	assert.Equal(t, uint64(0), r.Param(GasSelfdestructRefund))
	assert.Equal(t, uint64(5), r.Param(MaxRefundQuotient))

	r, err = NewRules(Chainstart, 1, []int{3074})
	assert.Nil(t, err)
	assert.True(t, r.IsActivatedEIP(3074))
	assert.Equal(t, uint64(40), r.Param(GasCall))
	assert.Equal(t, uint64(10), r.Param(GasExpByte))
	assert.Equal(t, []int{3074}, r.ActiveEIPs())
	assert.Equal(t, uint64(1), r.ChainID().Uint64())
}

func TestFromChainConfig(t *testing.T) {
	r, err := FromChainConfig(params.MainnetChainConfig, big.NewInt(0), false, 0, nil)
	assert.Nil(t, err)
	assert.Equal(t, Chainstart, r.Hardfork())

	r, err = FromChainConfig(params.MainnetChainConfig, big.NewInt(4370000), false, 0, nil)
	assert.Nil(t, err)
	assert.Equal(t, Byzantium, r.Hardfork())

	r, err = FromChainConfig(params.MainnetChainConfig, big.NewInt(12965000), false, 0, nil)
	assert.Nil(t, err)
	assert.Equal(t, London, r.Hardfork())

	r, err = FromChainConfig(params.MainnetChainConfig, big.NewInt(20000000), true, 1710338135, nil)
	assert.Nil(t, err)
	assert.Equal(t, Cancun, r.Hardfork())
	assert.True(t, r.IsActivatedEIP(1153))

	_, err = FromChainConfig(&params.ChainConfig{}, big.NewInt(0), false, 0, nil)
	assert.NotNil(t, err)
}
