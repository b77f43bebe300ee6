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
	"github.com/wcgcyx/shardvm/protocol"
)

func precompileAt(t *testing.T, hf protocol.Hardfork, addr byte) (*protocol.Rules, precompile) {
	rules, err := protocol.NewRules(hf, 1, nil)
	assert.Nil(t, err)
	pre, ok := activePrecompiles(rules)[common.BytesToAddress([]byte{addr})]
	assert.True(t, ok)
	return rules, pre
}

func TestPrecompileActivation(t *testing.T) {
	rules, err := protocol.NewRules(protocol.Chainstart, 1, nil)
	assert.Nil(t, err)
	assert.Len(t, PrecompileAddresses(rules), 4)

	rules, err = protocol.NewRules(protocol.Byzantium, 1, nil)
	assert.Nil(t, err)
	assert.Len(t, PrecompileAddresses(rules), 8)

	rules, err = protocol.NewRules(protocol.Istanbul, 1, nil)
	assert.Nil(t, err)
	assert.Len(t, PrecompileAddresses(rules), 9)

	rules, err = protocol.NewRules(protocol.Cancun, 1, nil)
	assert.Nil(t, err)
	assert.Len(t, PrecompileAddresses(rules), 10)
}

func TestEcrecover(t *testing.T) {
	rules, run := precompileAt(t, protocol.Cancun, 0x01)

	key, err := crypto.GenerateKey()
	assert.Nil(t, err)
	hash := crypto.Keccak256([]byte("shardvm"))
	sig, err := crypto.Sign(hash, key)
	assert.Nil(t, err)

	input := make([]byte, 128)
	copy(input, hash)
	input[63] = sig[64] + 27
	copy(input[64:], sig[:64])

	out, gas, err := run(rules, input, 5000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3000), gas)
	assert.Equal(t, common.LeftPadBytes(crypto.PubkeyToAddress(key.PublicKey).Bytes(), 32), out)

	// Invalid v gives empty output
	input[63] = 29
	out, gas, err = run(rules, input, 5000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3000), gas)
	assert.Empty(t, out)

	_, gas, err = run(rules, input, 2999)
	assert.Equal(t, ErrOutOfGas, err)
	assert.Equal(t, uint64(2999), gas)
}

func TestHashPrecompiles(t *testing.T) {
	rules, sha := precompileAt(t, protocol.Cancun, 0x02)
	out, gas, err := sha(rules, []byte{}, 100)
	assert.Nil(t, err)
	assert.Equal(t, uint64(60), gas)
	assert.Equal(t, common.FromHex("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"), out)

	_, ripemd := precompileAt(t, protocol.Cancun, 0x03)
	out, gas, err = ripemd(rules, []byte{}, 1000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(600), gas)
	assert.Equal(t, common.FromHex("0000000000000000000000009c1185a5c5e9fc54612808977ee8f548b2258d31"), out)
}

func TestIdentity(t *testing.T) {
	rules, run := precompileAt(t, protocol.Cancun, 0x04)
	data := []byte("hello")
	out, gas, err := run(rules, data, 100)
	assert.Nil(t, err)
	assert.Equal(t, uint64(18), gas)
	assert.Equal(t, data, out)

	out, gas, err = run(rules, data, 17)
	assert.Equal(t, ErrOutOfGas, err)
	assert.Equal(t, uint64(17), gas)
	assert.Nil(t, out)
}

func TestModexp(t *testing.T) {
	input := make([]byte, 96+3)
	input[31], input[63], input[95] = 1, 1, 1
	input[96], input[97], input[98] = 3, 2, 5

	rules, run := precompileAt(t, protocol.Berlin, 0x05)
	out, gas, err := run(rules, input, 1000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(200), gas)
	assert.Equal(t, []byte{4}, out)

	// Zero modulus gives zero
	input[98] = 0
	out, _, err = run(rules, input, 1000)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0}, out)

	// Operand too large
	huge := make([]byte, 96)
	huge[0] = 0x01
	huge[95] = 1
	_, gas, err = run(rules, huge, 1000)
	assert.Equal(t, ErrOutOfGas, err)
	assert.Equal(t, uint64(1000), gas)
}

func TestBn254Add(t *testing.T) {
	rules, run := precompileAt(t, protocol.Istanbul, 0x06)
	out, gas, err := run(rules, make([]byte, 128), 1000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(150), gas)
	assert.Equal(t, make([]byte, 64), out)

	// Point not on curve
	bad := make([]byte, 128)
	bad[31] = 1
	bad[63] = 1
	_, gas, err = run(rules, bad, 1000)
	assert.Equal(t, ErrOutOfGas, err)
	assert.Equal(t, uint64(1000), gas)
}

func TestBlake2FInput(t *testing.T) {
	rules, run := precompileAt(t, protocol.Istanbul, 0x09)
	_, gas, err := run(rules, make([]byte, 212), 1000)
	assert.Equal(t, ErrInvalidInputLength, err)
	assert.Equal(t, uint64(1000), gas)

	input := make([]byte, 213)
	input[3] = 12
	input[212] = 2
	_, _, err = run(rules, input, 1000)
	assert.Equal(t, ErrInvalidInput, err)

	input[212] = 1
	out, gas, err := run(rules, input, 1000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(12), gas)
	assert.Len(t, out, 64)
}

func TestPointEvaluationInput(t *testing.T) {
	rules, run := precompileAt(t, protocol.Cancun, 0x0a)
	_, gas, err := run(rules, make([]byte, 191), 100000)
	assert.Equal(t, ErrInvalidInputLength, err)
	assert.Equal(t, uint64(100000), gas)

	_, _, err = run(rules, make([]byte, 192), 100000)
	assert.Equal(t, ErrInvalidCommitment, err)

	_, _, err = run(rules, make([]byte, 192), 100)
	assert.Equal(t, ErrOutOfGas, err)
}
