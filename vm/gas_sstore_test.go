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
	"github.com/stretchr/testify/assert"
	"github.com/wcgcyx/shardvm/protocol"
)

type sstoreCase struct {
	original, current, value uint64
	startRefund              uint64
	gas                      uint64
	refund                   uint64
}

func runSstoreCases(t *testing.T, hf protocol.Hardfork, warm bool, cases []sstoreCase) {
	rules, err := protocol.NewRules(hf, 1, nil)
	assert.Nil(t, err)
	for i, c := range cases {
		rc := &refundCounter{refund: c.startRefund}
		gas, err := sstoreGas(rules, rc, 100000, warm,
			hashOf(c.current), hashOf(c.original), hashOf(c.value))
		assert.Nil(t, err, "case %v", i)
		assert.Equal(t, c.gas, gas, "case %v", i)
		assert.Equal(t, c.refund, rc.refund, "case %v", i)
	}
}

func TestSstoreLegacy(t *testing.T) {
	runSstoreCases(t, protocol.Byzantium, false, []sstoreCase{
		{original: 0, current: 0, value: 1, gas: 20000},
		{original: 0, current: 1, value: 2, gas: 5000},
		{original: 1, current: 1, value: 0, gas: 5000, refund: 15000},
		{original: 0, current: 0, value: 0, gas: 5000},
	})
}

func TestSstoreEIP1283(t *testing.T) {
	runSstoreCases(t, protocol.Constantinople, false, []sstoreCase{
		{original: 0, current: 0, value: 0, gas: 200},
		{original: 0, current: 0, value: 1, gas: 20000},
		{original: 1, current: 1, value: 0, gas: 5000, refund: 15000},
		{original: 1, current: 1, value: 2, gas: 5000},
		{original: 1, current: 2, value: 1, gas: 200, refund: 4800},
		{original: 0, current: 1, value: 0, gas: 200, refund: 19800},
		{original: 1, current: 0, value: 1, startRefund: 15000, gas: 200, refund: 4800},
		{original: 5, current: 7, value: 0, gas: 200, refund: 15000},
		{original: 1, current: 2, value: 3, gas: 200},
	})
}

func TestSstoreEIP1283RefundExhausted(t *testing.T) {
	rules, err := protocol.NewRules(protocol.Constantinople, 1, nil)
	assert.Nil(t, err)
	rc := &refundCounter{}
	_, err = sstoreGas(rules, rc, 100000, false, common.Hash{}, hashOf(1), hashOf(2))
	assert.Equal(t, ErrRefundExhausted, err)
	assert.Equal(t, uint64(0), rc.refund)
}

func TestSstoreEIP2200(t *testing.T) {
	runSstoreCases(t, protocol.Istanbul, false, []sstoreCase{
		{original: 0, current: 0, value: 0, gas: 800},
		{original: 0, current: 0, value: 1, gas: 20000},
		{original: 1, current: 1, value: 0, gas: 5000, refund: 15000},
		{original: 1, current: 2, value: 1, gas: 800, refund: 4200},
		{original: 0, current: 1, value: 0, gas: 800, refund: 19200},
		{original: 5, current: 7, value: 0, gas: 800, refund: 15000},
	})
}

func TestSstoreEIP2929(t *testing.T) {
	// Cold access is charged separately
	runSstoreCases(t, protocol.Berlin, true, []sstoreCase{
		{original: 0, current: 0, value: 0, gas: 100},
		{original: 0, current: 0, value: 1, gas: 20000},
		{original: 1, current: 1, value: 2, gas: 2900},
		{original: 1, current: 2, value: 1, gas: 100, refund: 2800},
		{original: 0, current: 1, value: 0, gas: 100, refund: 19900},
	})
	// London reduces the clear refund
	runSstoreCases(t, protocol.London, true, []sstoreCase{
		{original: 1, current: 1, value: 0, gas: 2900, refund: 4800},
	})
}

func TestSstoreSentry(t *testing.T) {
	rules, err := protocol.NewRules(protocol.Istanbul, 1, nil)
	assert.Nil(t, err)
	rc := &refundCounter{}
	_, err = sstoreGas(rules, rc, 2300, false, common.Hash{}, common.Hash{}, hashOf(1))
	assert.Equal(t, ErrOutOfGas, err)
}
