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
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/blake2b"
	"github.com/ethereum/go-ethereum/crypto/bn256"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
	"github.com/wcgcyx/shardvm/protocol"
	"golang.org/x/crypto/ripemd160"
)

// precompile runs a native contract. It returns the output and the gas used.
// On error all of the gas limit is consumed.
type precompile func(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error)

// precompileEntry is a native contract with its activation rule.
type precompileEntry struct {
	addr   common.Address
	run    precompile
	active func(rules *protocol.Rules) bool
}

// RipemdAddress is the address of the RIPEMD160 precompile.
var RipemdAddress = common.BytesToAddress([]byte{0x03})

var (
	// Point evaluation return value
	fieldElementsPerBlob = big.NewInt(4096)
	blsModulus, _        = new(big.Int).SetString("52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)

	// Largest modexp operand length handled
	modexpMaxLen = big.NewInt(2147483647)

	true32Byte  = common.LeftPadBytes([]byte{1}, 32)
	false32Byte = make([]byte, 32)
)

func fromHardfork(h protocol.Hardfork) func(rules *protocol.Rules) bool {
	return func(rules *protocol.Rules) bool {
		return rules.GteHardfork(h)
	}
}

func fromEIP(eip int) func(rules *protocol.Rules) bool {
	return func(rules *protocol.Rules) bool {
		return rules.IsActivatedEIP(eip)
	}
}

var precompileEntries = []precompileEntry{
	{common.BytesToAddress([]byte{0x01}), runEcrecover, fromHardfork(protocol.Chainstart)},
	{common.BytesToAddress([]byte{0x02}), runSha256, fromHardfork(protocol.Chainstart)},
	{RipemdAddress, runRipemd160, fromHardfork(protocol.Chainstart)},
	{common.BytesToAddress([]byte{0x04}), runIdentity, fromHardfork(protocol.Chainstart)},
	{common.BytesToAddress([]byte{0x05}), runModexp, fromHardfork(protocol.Byzantium)},
	{common.BytesToAddress([]byte{0x06}), runBn254Add, fromHardfork(protocol.Byzantium)},
	{common.BytesToAddress([]byte{0x07}), runBn254Mul, fromHardfork(protocol.Byzantium)},
	{common.BytesToAddress([]byte{0x08}), runBn254Pairing, fromHardfork(protocol.Byzantium)},
	{common.BytesToAddress([]byte{0x09}), runBlake2F, fromHardfork(protocol.Istanbul)},
	{common.BytesToAddress([]byte{0x0a}), runPointEvaluation, fromEIP(4844)},
}

// activePrecompiles gets the native contracts active under the rules.
func activePrecompiles(rules *protocol.Rules) map[common.Address]precompile {
	res := make(map[common.Address]precompile)
	for _, entry := range precompileEntries {
		if entry.active(rules) {
			res[entry.addr] = entry.run
		}
	}
	return res
}

// PrecompileAddresses gets the addresses of the native contracts active under the rules.
func PrecompileAddresses(rules *protocol.Rules) []common.Address {
	res := make([]common.Address, 0, len(precompileEntries))
	for _, entry := range precompileEntries {
		if entry.active(rules) {
			res = append(res, entry.addr)
		}
	}
	return res
}

// wordGas is base plus perWord for every word of input.
func wordGas(input []byte, base, perWord uint64) uint64 {
	return base + toWordSize(uint64(len(input)))*perWord
}

// getData returns a slice of data padded with zeros on the right.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length || end < start {
		end = length
	}
	return common.RightPadBytes(data[start:end], int(size))
}

// getDataBig is getData with an offset that may not fit in 64 bits.
func getDataBig(data []byte, start *big.Int, size uint64) []byte {
	if !start.IsUint64() {
		return make([]byte, size)
	}
	return getData(data, start.Uint64(), size)
}

func runEcrecover(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	gasUsed := rules.Param(protocol.GasEcrecover)
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	input = getData(input, 0, 128)
	// v must be 27 or 28
	if !allZero(input[32:63]) || (input[63] != 27 && input[63] != 28) {
		return []byte{}, gasUsed, nil
	}
	v := input[63] - 27
	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])
	if !crypto.ValidateSignatureValues(v, r, s, false) {
		return []byte{}, gasUsed, nil
	}
	sig := make([]byte, 65)
	copy(sig, input[64:128])
	sig[64] = v
	pub, err := crypto.Ecrecover(input[:32], sig)
	if err != nil {
		log.Debugf("Ecrecover failed: %v", err)
		return []byte{}, gasUsed, nil
	}
	return common.LeftPadBytes(crypto.Keccak256(pub[1:])[12:], 32), gasUsed, nil
}

func runSha256(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	gasUsed := wordGas(input, rules.Param(protocol.GasSha256), rules.Param(protocol.GasSha256Word))
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	h := sha256.Sum256(input)
	return h[:], gasUsed, nil
}

func runRipemd160(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	gasUsed := wordGas(input, rules.Param(protocol.GasRipemd160), rules.Param(protocol.GasRipemd160Word))
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	h := ripemd160.New()
	h.Write(input)
	return common.LeftPadBytes(h.Sum(nil), 32), gasUsed, nil
}

func runIdentity(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	gasUsed := wordGas(input, rules.Param(protocol.GasIdentity), rules.Param(protocol.GasIdentityWord))
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	return common.CopyBytes(input), gasUsed, nil
}

// modexpMultComplexity is the EIP-198 multiplication complexity.
func modexpMultComplexity(x *big.Int) *big.Int {
	switch {
	case x.Cmp(big.NewInt(64)) <= 0:
		return new(big.Int).Mul(x, x)
	case x.Cmp(big.NewInt(1024)) <= 0:
		// x^2/4 + 96x - 3072
		res := new(big.Int).Div(new(big.Int).Mul(x, x), big.NewInt(4))
		res.Add(res, new(big.Int).Mul(x, big.NewInt(96)))
		return res.Sub(res, big.NewInt(3072))
	default:
		// x^2/16 + 480x - 199680
		res := new(big.Int).Div(new(big.Int).Mul(x, x), big.NewInt(16))
		res.Add(res, new(big.Int).Mul(x, big.NewInt(480)))
		return res.Sub(res, big.NewInt(199680))
	}
}

// modexpMultComplexityEIP2565 is the square of the number of 64 bit words.
func modexpMultComplexityEIP2565(x *big.Int) *big.Int {
	words := new(big.Int).Add(x, big.NewInt(7))
	words.Div(words, big.NewInt(8))
	return words.Mul(words, words)
}

// modexpAdjustedExpLen is the bit length of the first exponent word plus 8 per extra byte.
func modexpAdjustedExpLen(input []byte, baseLen, expLen *big.Int) *big.Int {
	start := new(big.Int).Add(big.NewInt(96), baseLen)
	head := new(big.Int).SetBytes(getDataBig(input, start, 32))
	if expLen.Cmp(big.NewInt(32)) < 0 {
		head.Rsh(head, uint(8*(32-expLen.Uint64())))
	}
	adjusted := new(big.Int)
	if expLen.Cmp(big.NewInt(32)) > 0 {
		adjusted.Sub(expLen, big.NewInt(32))
		adjusted.Mul(adjusted, big.NewInt(8))
	}
	if bitLen := head.BitLen() - 1; bitLen > 0 {
		adjusted.Add(adjusted, big.NewInt(int64(bitLen)))
	}
	return adjusted
}

func runModexp(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	baseLen := new(big.Int).SetBytes(getData(input, 0, 32))
	expLen := new(big.Int).SetBytes(getData(input, 32, 32))
	modLen := new(big.Int).SetBytes(getData(input, 64, 32))

	adjExpLen := modexpAdjustedExpLen(input, baseLen, expLen)
	if adjExpLen.Sign() == 0 {
		adjExpLen.SetUint64(1)
	}
	maxLen := baseLen
	if modLen.Cmp(maxLen) > 0 {
		maxLen = modLen
	}
	gas := new(big.Int)
	if rules.IsActivatedEIP(2565) {
		gas.Mul(adjExpLen, modexpMultComplexityEIP2565(maxLen))
		gas.Div(gas, new(big.Int).SetUint64(rules.Param(protocol.GasModexpGquaddivisor)))
		if gas.Cmp(big.NewInt(200)) < 0 {
			gas.SetUint64(200)
		}
	} else {
		gas.Mul(adjExpLen, modexpMultComplexity(maxLen))
		gas.Div(gas, new(big.Int).SetUint64(rules.Param(protocol.GasModexpGquaddivisor)))
	}
	if !gas.IsUint64() || gasLimit < gas.Uint64() {
		return nil, gasLimit, ErrOutOfGas
	}
	gasUsed := gas.Uint64()

	if baseLen.Sign() == 0 {
		if modLen.Cmp(modexpMaxLen) > 0 {
			return nil, gasLimit, ErrOutOfGas
		}
		return make([]byte, modLen.Uint64()), gasUsed, nil
	}
	if modLen.Sign() == 0 {
		return []byte{}, gasUsed, nil
	}
	if baseLen.Cmp(modexpMaxLen) > 0 || expLen.Cmp(modexpMaxLen) > 0 || modLen.Cmp(modexpMaxLen) > 0 {
		return nil, gasLimit, ErrOutOfGas
	}
	bLen, eLen, mLen := baseLen.Uint64(), expLen.Uint64(), modLen.Uint64()
	base := new(big.Int).SetBytes(getData(input, 96, bLen))
	exp := new(big.Int).SetBytes(getData(input, 96+bLen, eLen))
	mod := new(big.Int).SetBytes(getData(input, 96+bLen+eLen, mLen))
	res := new(big.Int)
	if mod.Sign() != 0 {
		res.Exp(base, exp, mod)
	}
	return common.LeftPadBytes(res.Bytes(), int(mLen)), gasUsed, nil
}

func newCurvePoint(blob []byte) (*bn256.G1, error) {
	p := new(bn256.G1)
	if _, err := p.Unmarshal(blob); err != nil {
		return nil, err
	}
	return p, nil
}

func newTwistPoint(blob []byte) (*bn256.G2, error) {
	p := new(bn256.G2)
	if _, err := p.Unmarshal(blob); err != nil {
		return nil, err
	}
	return p, nil
}

func runBn254Add(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	gasUsed := rules.Param(protocol.GasBn254Add)
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	x, err := newCurvePoint(getData(input, 0, 64))
	if err != nil {
		log.Debugf("Bn254 add invalid point: %v", err)
		return nil, gasLimit, ErrOutOfGas
	}
	y, err := newCurvePoint(getData(input, 64, 64))
	if err != nil {
		log.Debugf("Bn254 add invalid point: %v", err)
		return nil, gasLimit, ErrOutOfGas
	}
	res := new(bn256.G1)
	res.Add(x, y)
	return res.Marshal(), gasUsed, nil
}

func runBn254Mul(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	gasUsed := rules.Param(protocol.GasBn254Mul)
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	p, err := newCurvePoint(getData(input, 0, 64))
	if err != nil {
		log.Debugf("Bn254 mul invalid point: %v", err)
		return nil, gasLimit, ErrOutOfGas
	}
	res := new(bn256.G1)
	res.ScalarMult(p, new(big.Int).SetBytes(getData(input, 64, 32)))
	return res.Marshal(), gasUsed, nil
}

func runBn254Pairing(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	pairs := uint64(len(input) / 192)
	gasUsed := rules.Param(protocol.GasBn254PairingBase) + pairs*rules.Param(protocol.GasBn254PairingWord)
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	if len(input)%192 != 0 {
		return nil, gasLimit, ErrOutOfGas
	}
	cs := make([]*bn256.G1, 0, pairs)
	ts := make([]*bn256.G2, 0, pairs)
	for i := 0; i < len(input); i += 192 {
		c, err := newCurvePoint(input[i : i+64])
		if err != nil {
			log.Debugf("Bn254 pairing invalid point: %v", err)
			return nil, gasLimit, ErrOutOfGas
		}
		t, err := newTwistPoint(input[i+64 : i+192])
		if err != nil {
			log.Debugf("Bn254 pairing invalid twist point: %v", err)
			return nil, gasLimit, ErrOutOfGas
		}
		cs = append(cs, c)
		ts = append(ts, t)
	}
	if bn256.PairingCheck(cs, ts) {
		return common.CopyBytes(true32Byte), gasUsed, nil
	}
	return common.CopyBytes(false32Byte), gasUsed, nil
}

const blake2FInputLength = 213

func runBlake2F(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	if len(input) != blake2FInputLength {
		return nil, gasLimit, ErrInvalidInputLength
	}
	rounds := binary.BigEndian.Uint32(input[0:4])
	gasUsed := uint64(rounds) * rules.Param(protocol.GasBlake2Round)
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	final := input[212]
	if final != 0 && final != 1 {
		return nil, gasLimit, ErrInvalidInput
	}
	var (
		h [8]uint64
		m [16]uint64
		t [2]uint64
	)
	for i := 0; i < 8; i++ {
		offset := 4 + i*8
		h[i] = binary.LittleEndian.Uint64(input[offset : offset+8])
	}
	for i := 0; i < 16; i++ {
		offset := 68 + i*8
		m[i] = binary.LittleEndian.Uint64(input[offset : offset+8])
	}
	t[0] = binary.LittleEndian.Uint64(input[196:204])
	t[1] = binary.LittleEndian.Uint64(input[204:212])

	blake2b.F(&h, m, t, final == 1, rounds)

	output := make([]byte, 64)
	for i := 0; i < 8; i++ {
		offset := i * 8
		binary.LittleEndian.PutUint64(output[offset:offset+8], h[i])
	}
	return output, gasUsed, nil
}

const pointEvaluationInputLength = 192

func runPointEvaluation(rules *protocol.Rules, input []byte, gasLimit uint64) ([]byte, uint64, error) {
	gasUsed := rules.Param(protocol.GasKzgPointEvaluation)
	if gasLimit < gasUsed {
		return nil, gasLimit, ErrOutOfGas
	}
	if len(input) != pointEvaluationInputLength {
		return nil, gasLimit, ErrInvalidInputLength
	}
	var (
		versionedHash = input[:32]
		point         kzg4844.Point
		claim         kzg4844.Claim
		commitment    kzg4844.Commitment
		proof         kzg4844.Proof
	)
	copy(point[:], input[32:64])
	copy(claim[:], input[64:96])
	copy(commitment[:], input[96:144])
	copy(proof[:], input[144:192])

	if kzg4844.CalcBlobHashV1(sha256.New(), &commitment) != common.BytesToHash(versionedHash) {
		return nil, gasLimit, ErrInvalidCommitment
	}
	if err := kzg4844.VerifyProof(commitment, point, claim, proof); err != nil {
		log.Debugf("Point evaluation failed: %v", err)
		return nil, gasLimit, ErrInvalidProof
	}
	output := make([]byte, 64)
	fieldElementsPerBlob.FillBytes(output[:32])
	blsModulus.FillBytes(output[32:])
	return output, gasUsed, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
