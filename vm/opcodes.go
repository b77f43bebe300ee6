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
	"fmt"

	"github.com/wcgcyx/shardvm/protocol"
)

// OpCode is a single byte EVM instruction.
type OpCode byte

const (
	STOP       OpCode = 0x00
	ADD        OpCode = 0x01
	MUL        OpCode = 0x02
	SUB        OpCode = 0x03
	DIV        OpCode = 0x04
	SDIV       OpCode = 0x05
	MOD        OpCode = 0x06
	SMOD       OpCode = 0x07
	ADDMOD     OpCode = 0x08
	MULMOD     OpCode = 0x09
	EXP        OpCode = 0x0a
	SIGNEXTEND OpCode = 0x0b

	LT     OpCode = 0x10
	GT     OpCode = 0x11
	SLT    OpCode = 0x12
	SGT    OpCode = 0x13
	EQ     OpCode = 0x14
	ISZERO OpCode = 0x15
	AND    OpCode = 0x16
	OR     OpCode = 0x17
	XOR    OpCode = 0x18
	NOT    OpCode = 0x19
	BYTE   OpCode = 0x1a
	SHL    OpCode = 0x1b
	SHR    OpCode = 0x1c
	SAR    OpCode = 0x1d

	KECCAK256 OpCode = 0x20

	ADDRESS        OpCode = 0x30
	BALANCE        OpCode = 0x31
	ORIGIN         OpCode = 0x32
	CALLER         OpCode = 0x33
	CALLVALUE      OpCode = 0x34
	CALLDATALOAD   OpCode = 0x35
	CALLDATASIZE   OpCode = 0x36
	CALLDATACOPY   OpCode = 0x37
	CODESIZE       OpCode = 0x38
	CODECOPY       OpCode = 0x39
	GASPRICE       OpCode = 0x3a
	EXTCODESIZE    OpCode = 0x3b
	EXTCODECOPY    OpCode = 0x3c
	RETURNDATASIZE OpCode = 0x3d
	RETURNDATACOPY OpCode = 0x3e
	EXTCODEHASH    OpCode = 0x3f

	BLOCKHASH   OpCode = 0x40
	COINBASE    OpCode = 0x41
	TIMESTAMP   OpCode = 0x42
	NUMBER      OpCode = 0x43
	PREVRANDAO  OpCode = 0x44
	GASLIMIT    OpCode = 0x45
	CHAINID     OpCode = 0x46
	SELFBALANCE OpCode = 0x47
	BASEFEE     OpCode = 0x48
	BLOBHASH    OpCode = 0x49
	BLOBBASEFEE OpCode = 0x4a

	POP      OpCode = 0x50
	MLOAD    OpCode = 0x51
	MSTORE   OpCode = 0x52
	MSTORE8  OpCode = 0x53
	SLOAD    OpCode = 0x54
	SSTORE   OpCode = 0x55
	JUMP     OpCode = 0x56
	JUMPI    OpCode = 0x57
	PC       OpCode = 0x58
	MSIZE    OpCode = 0x59
	GAS      OpCode = 0x5a
	JUMPDEST OpCode = 0x5b
	TLOAD    OpCode = 0x5c
	TSTORE   OpCode = 0x5d
	MCOPY    OpCode = 0x5e
	PUSH0    OpCode = 0x5f
	PUSH1    OpCode = 0x60
	PUSH32   OpCode = 0x7f
	DUP1     OpCode = 0x80
	DUP16    OpCode = 0x8f
	SWAP1    OpCode = 0x90
	SWAP16   OpCode = 0x9f
	LOG0     OpCode = 0xa0
	LOG4     OpCode = 0xa4

	CREATE       OpCode = 0xf0
	CALL         OpCode = 0xf1
	CALLCODE     OpCode = 0xf2
	RETURN       OpCode = 0xf3
	DELEGATECALL OpCode = 0xf4
	CREATE2      OpCode = 0xf5
	AUTH         OpCode = 0xf6
	AUTHCALL     OpCode = 0xf7
	STATICCALL   OpCode = 0xfa
	REVERT       OpCode = 0xfd
	INVALID      OpCode = 0xfe
	SELFDESTRUCT OpCode = 0xff
)

var opCodeNames = map[OpCode]string{
	STOP: "STOP", ADD: "ADD", MUL: "MUL", SUB: "SUB", DIV: "DIV", SDIV: "SDIV", MOD: "MOD",
	SMOD: "SMOD", ADDMOD: "ADDMOD", MULMOD: "MULMOD", EXP: "EXP", SIGNEXTEND: "SIGNEXTEND",
	LT: "LT", GT: "GT", SLT: "SLT", SGT: "SGT", EQ: "EQ", ISZERO: "ISZERO", AND: "AND",
	OR: "OR", XOR: "XOR", NOT: "NOT", BYTE: "BYTE", SHL: "SHL", SHR: "SHR", SAR: "SAR",
	KECCAK256: "KECCAK256",
	ADDRESS: "ADDRESS", BALANCE: "BALANCE", ORIGIN: "ORIGIN", CALLER: "CALLER",
	CALLVALUE: "CALLVALUE", CALLDATALOAD: "CALLDATALOAD", CALLDATASIZE: "CALLDATASIZE",
	CALLDATACOPY: "CALLDATACOPY", CODESIZE: "CODESIZE", CODECOPY: "CODECOPY",
	GASPRICE: "GASPRICE", EXTCODESIZE: "EXTCODESIZE", EXTCODECOPY: "EXTCODECOPY",
	RETURNDATASIZE: "RETURNDATASIZE", RETURNDATACOPY: "RETURNDATACOPY", EXTCODEHASH: "EXTCODEHASH",
	BLOCKHASH: "BLOCKHASH", COINBASE: "COINBASE", TIMESTAMP: "TIMESTAMP", NUMBER: "NUMBER",
	PREVRANDAO: "PREVRANDAO", GASLIMIT: "GASLIMIT", CHAINID: "CHAINID", SELFBALANCE: "SELFBALANCE",
	BASEFEE: "BASEFEE", BLOBHASH: "BLOBHASH", BLOBBASEFEE: "BLOBBASEFEE",
	POP: "POP", MLOAD: "MLOAD", MSTORE: "MSTORE", MSTORE8: "MSTORE8", SLOAD: "SLOAD",
	SSTORE: "SSTORE", JUMP: "JUMP", JUMPI: "JUMPI", PC: "PC", MSIZE: "MSIZE", GAS: "GAS",
	JUMPDEST: "JUMPDEST", TLOAD: "TLOAD", TSTORE: "TSTORE", MCOPY: "MCOPY", PUSH0: "PUSH0",
	CREATE: "CREATE", CALL: "CALL", CALLCODE: "CALLCODE", RETURN: "RETURN",
	DELEGATECALL: "DELEGATECALL", CREATE2: "CREATE2", AUTH: "AUTH", AUTHCALL: "AUTHCALL",
	STATICCALL: "STATICCALL", REVERT: "REVERT", INVALID: "INVALID", SELFDESTRUCT: "SELFDESTRUCT",
}

// String returns the mnemonic of the opcode.
func (op OpCode) String() string {
	switch {
	case op >= PUSH1 && op <= PUSH32:
		return fmt.Sprintf("PUSH%d", op-PUSH1+1)
	case op >= DUP1 && op <= DUP16:
		return fmt.Sprintf("DUP%d", op-DUP1+1)
	case op >= SWAP1 && op <= SWAP16:
		return fmt.Sprintf("SWAP%d", op-SWAP1+1)
	case op >= LOG0 && op <= LOG4:
		return fmt.Sprintf("LOG%d", op-LOG0)
	}
	if name, ok := opCodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode %#x not defined", byte(op))
}

// IsPush checks if the opcode carries immediate push data.
func (op OpCode) IsPush() bool {
	return op >= PUSH1 && op <= PUSH32
}

// opInfo is the static description of an active opcode.
type opInfo struct {
	// Static fee charged before the dynamic gas
	fee uint64

	// Stack items consumed and produced
	pops   int
	pushes int

	// The opcode reads or changes state and is metered dynamically
	dynamic bool
}

// opcodeTable maps every byte to its description, nil when the opcode is not active.
type opcodeTable [256]*opInfo

// newOpcodeTable builds the opcodes active under the rules.
func newOpcodeTable(rules *protocol.Rules) *opcodeTable {
	t := &opcodeTable{}
	p := rules.Param
	set := func(op OpCode, fee uint64, pops, pushes int) {
		t[op] = &opInfo{fee: fee, pops: pops, pushes: pushes}
	}
	dyn := func(op OpCode, fee uint64, pops, pushes int) {
		t[op] = &opInfo{fee: fee, pops: pops, pushes: pushes, dynamic: true}
	}

	set(STOP, p(protocol.GasZero), 0, 0)
	for _, op := range []OpCode{ADD, SUB, LT, GT, SLT, SGT, EQ, AND, OR, XOR, BYTE} {
		set(op, p(protocol.GasVeryLow), 2, 1)
	}
	for _, op := range []OpCode{MUL, DIV, SDIV, MOD, SMOD, SIGNEXTEND} {
		set(op, p(protocol.GasLow), 2, 1)
	}
	set(ADDMOD, p(protocol.GasMid), 3, 1)
	set(MULMOD, p(protocol.GasMid), 3, 1)
	dyn(EXP, p(protocol.GasExp), 2, 1)
	set(ISZERO, p(protocol.GasVeryLow), 1, 1)
	set(NOT, p(protocol.GasVeryLow), 1, 1)
	dyn(KECCAK256, p(protocol.GasKeccak256), 2, 1)

	for _, op := range []OpCode{ADDRESS, ORIGIN, CALLER, CALLVALUE, CALLDATASIZE, CODESIZE, GASPRICE,
		COINBASE, TIMESTAMP, NUMBER, PREVRANDAO, GASLIMIT, PC, MSIZE, GAS} {
		set(op, p(protocol.GasBase), 0, 1)
	}
	dyn(BALANCE, p(protocol.GasBalance), 1, 1)
	set(CALLDATALOAD, p(protocol.GasVeryLow), 1, 1)
	dyn(CALLDATACOPY, p(protocol.GasVeryLow), 3, 0)
	dyn(CODECOPY, p(protocol.GasVeryLow), 3, 0)
	dyn(EXTCODESIZE, p(protocol.GasExtcodeSize), 1, 1)
	dyn(EXTCODECOPY, p(protocol.GasExtcodeCopy), 4, 0)
	set(BLOCKHASH, p(protocol.GasBlockhash), 1, 1)

	set(POP, p(protocol.GasBase), 1, 0)
	dyn(MLOAD, p(protocol.GasVeryLow), 1, 1)
	dyn(MSTORE, p(protocol.GasVeryLow), 2, 0)
	dyn(MSTORE8, p(protocol.GasVeryLow), 2, 0)
	dyn(SLOAD, p(protocol.GasSload), 1, 1)
	dyn(SSTORE, p(protocol.GasSstore), 2, 0)
	set(JUMP, p(protocol.GasMid), 1, 0)
	set(JUMPI, p(protocol.GasHigh), 2, 0)
	set(JUMPDEST, p(protocol.GasJumpdest), 0, 0)
	for i := 0; i < 32; i++ {
		set(PUSH1+OpCode(i), p(protocol.GasVeryLow), 0, 1)
	}
	for i := 0; i < 16; i++ {
		set(DUP1+OpCode(i), p(protocol.GasVeryLow), i+1, i+2)
		set(SWAP1+OpCode(i), p(protocol.GasVeryLow), i+2, i+2)
	}
	for i := 0; i <= 4; i++ {
		dyn(LOG0+OpCode(i), p(protocol.GasLog), i+2, 0)
	}

	dyn(CREATE, p(protocol.GasCreate), 3, 1)
	dyn(CALL, p(protocol.GasCall), 7, 1)
	dyn(CALLCODE, p(protocol.GasCallCode), 7, 1)
	dyn(RETURN, p(protocol.GasZero), 2, 0)
	dyn(SELFDESTRUCT, p(protocol.GasSelfdestruct), 1, 0)

	if rules.GteHardfork(protocol.Homestead) {
		dyn(DELEGATECALL, p(protocol.GasDelegateCall), 6, 1)
	}
	if rules.GteHardfork(protocol.Byzantium) {
		dyn(STATICCALL, p(protocol.GasStaticCall), 6, 1)
		set(RETURNDATASIZE, p(protocol.GasBase), 0, 1)
		dyn(RETURNDATACOPY, p(protocol.GasVeryLow), 3, 0)
		dyn(REVERT, p(protocol.GasZero), 2, 0)
	}
	if rules.GteHardfork(protocol.Constantinople) {
		set(SHL, p(protocol.GasVeryLow), 2, 1)
		set(SHR, p(protocol.GasVeryLow), 2, 1)
		set(SAR, p(protocol.GasVeryLow), 2, 1)
		dyn(EXTCODEHASH, p(protocol.GasExtcodeHash), 1, 1)
		dyn(CREATE2, p(protocol.GasCreate), 4, 1)
	}
	if rules.GteHardfork(protocol.Istanbul) {
		set(CHAINID, p(protocol.GasBase), 0, 1)
		dyn(SELFBALANCE, p(protocol.GasLow), 0, 1)
	}
	if rules.IsActivatedEIP(3198) {
		set(BASEFEE, p(protocol.GasBase), 0, 1)
	}
	if rules.IsActivatedEIP(3855) {
		set(PUSH0, p(protocol.GasBase), 0, 1)
	}
	if rules.IsActivatedEIP(1153) {
		dyn(TLOAD, p(protocol.GasTload), 1, 1)
		dyn(TSTORE, p(protocol.GasTstore), 2, 0)
	}
	if rules.IsActivatedEIP(5656) {
		dyn(MCOPY, p(protocol.GasVeryLow), 3, 0)
	}
	if rules.IsActivatedEIP(4844) {
		set(BLOBHASH, p(protocol.GasVeryLow), 1, 1)
	}
	if rules.IsActivatedEIP(7516) {
		set(BLOBBASEFEE, p(protocol.GasBase), 0, 1)
	}
	if rules.IsActivatedEIP(3074) {
		dyn(AUTH, p(protocol.GasAuth), 3, 1)
		dyn(AUTHCALL, p(protocol.GasAuthcall), 8, 1)
	}
	return t
}
