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
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/wcgcyx/shardvm/protocol"
)

// maxMemorySize is the largest memory whose gas fits in an uint64.
const maxMemorySize = 0x1FFFFFFFE0

const maxUint64 = ^uint64(0)

// toWordSize returns the number of words needed for size bytes.
func toWordSize(size uint64) uint64 {
	if size > maxUint64-31 {
		return maxUint64/32 + 1
	}
	return (size + 31) / 32
}

// useGas charges the frame, leaving it with no gas when it cannot pay.
func (in *Interpreter) useGas(amount uint64) error {
	if amount > in.gasLeft {
		in.gasLeft = 0
		return ErrOutOfGas
	}
	in.gasLeft -= amount
	return nil
}

// addStipend gives the frame the stipend it will pass to a value call.
func (in *Interpreter) addStipend(amount uint64) {
	in.gasLeft += amount
}

// memoryGas charges the expansion of memory to cover [offset, offset+length).
// Only the cost above the highest cost reached by the frame is returned.
func (in *Interpreter) memoryGas(offset, length *uint256.Int) (uint64, error) {
	if length.IsZero() {
		return 0, nil
	}
	if !offset.IsUint64() || !length.IsUint64() {
		return 0, ErrOutOfGas
	}
	end, overflow := math.SafeAdd(offset.Uint64(), length.Uint64())
	if overflow || end > maxMemorySize {
		return 0, ErrOutOfGas
	}
	words := toWordSize(end)
	if words <= in.memoryWordCount {
		return 0, nil
	}
	rules := in.evm.rules
	cost := words*rules.Param(protocol.GasMemory) + words*words/rules.Param(protocol.GasQuadCoeffDiv)
	in.memoryWordCount = words
	if cost > in.highestMemCost {
		delta := cost - in.highestMemCost
		in.highestMemCost = cost
		return delta, nil
	}
	return 0, nil
}

// copyGas is the per word cost of copying length bytes.
func (in *Interpreter) copyGas(length *uint256.Int) (uint64, error) {
	if length.IsZero() {
		return 0, nil
	}
	if !length.IsUint64() {
		return 0, ErrOutOfGas
	}
	gas, overflow := math.SafeMul(toWordSize(length.Uint64()), in.evm.rules.Param(protocol.GasCopy))
	if overflow {
		return 0, ErrOutOfGas
	}
	return gas, nil
}

// accessAddress returns the EIP-2929 cost of accessing addr and warms it.
// SELFDESTRUCT and AUTHCALL pay no warm price.
func (in *Interpreter) accessAddress(addr common.Address, chargeGas bool, isSelfdestructOrAuthcall bool) uint64 {
	rules := in.evm.rules
	if !rules.IsActivatedEIP(2929) {
		return 0
	}
	journal := in.evm.journal
	if !journal.IsWarmedAddress(addr) {
		journal.AddWarmedAddress(addr)
		if chargeGas {
			return rules.Param(protocol.GasColdAccountAccess)
		}
	} else if chargeGas && !isSelfdestructOrAuthcall {
		return rules.Param(protocol.GasWarmStorageRead)
	}
	return 0
}

// accessStorage returns the EIP-2929 cost of accessing a slot of the frame account and warms it.
// A warm SSTORE pays nothing here.
func (in *Interpreter) accessStorage(key common.Hash, isSstore bool) uint64 {
	rules := in.evm.rules
	if !rules.IsActivatedEIP(2929) {
		return 0
	}
	journal := in.evm.journal
	if !journal.IsWarmedStorage(in.address, key) {
		journal.AddWarmedStorage(in.address, key)
		return rules.Param(protocol.GasColdSload)
	} else if !isSstore {
		return rules.Param(protocol.GasWarmStorageRead)
	}
	return 0
}

// maxCallGas caps the requested gas to all but one 64th of the available gas from TangerineWhistle.
func (in *Interpreter) maxCallGas(requested *uint256.Int, available uint64) uint64 {
	if in.evm.rules.GteHardfork(protocol.TangerineWhistle) {
		allowed := available - available/64
		if !requested.IsUint64() || requested.Uint64() > allowed {
			return allowed
		}
		return requested.Uint64()
	}
	if !requested.IsUint64() {
		return maxUint64
	}
	return requested.Uint64()
}

// dynamicGas computes the total gas of the opcode from its static fee.
// State it needs has been resolved into the step view.
func (in *Interpreter) dynamicGas(op OpCode, fee uint64) (uint64, error) {
	rules := in.evm.rules
	st := in.stack
	gas := fee
	add := func(n uint64) error {
		var overflow bool
		if gas, overflow = math.SafeAdd(gas, n); overflow {
			return ErrOutOfGas
		}
		return nil
	}
	mem := func(offset, length *uint256.Int) error {
		cost, err := in.memoryGas(offset, length)
		if err != nil {
			return err
		}
		return add(cost)
	}
	words := func(length *uint256.Int, perWord uint64) error {
		if length.IsZero() {
			return nil
		}
		if !length.IsUint64() {
			return ErrOutOfGas
		}
		cost, overflow := math.SafeMul(toWordSize(length.Uint64()), perWord)
		if overflow {
			return ErrOutOfGas
		}
		return add(cost)
	}

	switch {
	case op == EXP:
		exponent := st.back(1)
		if exponent.IsZero() {
			return gas, nil
		}
		byteLen := uint64((exponent.BitLen() + 7) / 8)
		return gas, add(byteLen * rules.Param(protocol.GasExpByte))

	case op == KECCAK256:
		offset, length := st.back(0), st.back(1)
		if err := mem(offset, length); err != nil {
			return 0, err
		}
		return gas, words(length, rules.Param(protocol.GasKeccak256Word))

	case op == BALANCE || op == EXTCODESIZE || op == EXTCODEHASH:
		return gas, add(in.accessAddress(addressOf(st.back(0)), true, false))

	case op == CALLDATACOPY || op == CODECOPY:
		memOffset, length := st.back(0), st.back(2)
		if err := mem(memOffset, length); err != nil {
			return 0, err
		}
		cost, err := in.copyGas(length)
		if err != nil {
			return 0, err
		}
		return gas, add(cost)

	case op == EXTCODECOPY:
		addr, memOffset, length := st.back(0), st.back(1), st.back(3)
		if err := mem(memOffset, length); err != nil {
			return 0, err
		}
		if err := add(in.accessAddress(addressOf(addr), true, false)); err != nil {
			return 0, err
		}
		cost, err := in.copyGas(length)
		if err != nil {
			return 0, err
		}
		return gas, add(cost)

	case op == RETURNDATACOPY:
		memOffset, dataOffset, length := st.back(0), st.back(1), st.back(2)
		end, overflow := new(uint256.Int).AddOverflow(dataOffset, length)
		if overflow || !end.IsUint64() || end.Uint64() > uint64(len(in.returnBytes)) {
			return 0, ErrInvalidReturndataCopy
		}
		if err := mem(memOffset, length); err != nil {
			return 0, err
		}
		cost, err := in.copyGas(length)
		if err != nil {
			return 0, err
		}
		return gas, add(cost)

	case op == MLOAD || op == MSTORE:
		return gas, mem(st.back(0), uint256.NewInt(32))

	case op == MSTORE8:
		return gas, mem(st.back(0), uint256.NewInt(1))

	case op == SLOAD:
		return gas, add(in.accessStorage(common.Hash(st.back(0).Bytes32()), false))

	case op == SSTORE:
		if in.isStatic {
			return 0, ErrStaticStateChange
		}
		key := common.Hash(st.back(0).Bytes32())
		value := common.Hash(st.back(1).Bytes32())
		warm := in.evm.journal.IsWarmedStorage(in.address, key)
		cost, err := sstoreGas(rules, &in.refundCounter, in.gasLeft, warm, in.view.current, in.view.original, value)
		if err != nil {
			return 0, err
		}
		if err = add(cost); err != nil {
			return 0, err
		}
		return gas, add(in.accessStorage(key, true))

	case op == TSTORE:
		if in.isStatic {
			return 0, ErrStaticStateChange
		}
		return gas, nil

	case op == TLOAD:
		return gas, nil

	case op == MCOPY:
		dst, src, length := st.back(0), st.back(1), st.back(2)
		if err := words(length, rules.Param(protocol.GasVeryLow)); err != nil {
			return 0, err
		}
		if err := mem(src, length); err != nil {
			return 0, err
		}
		return gas, mem(dst, length)

	case op >= LOG0 && op <= LOG4:
		if in.isStatic {
			return 0, ErrStaticStateChange
		}
		offset, length := st.back(0), st.back(1)
		if err := mem(offset, length); err != nil {
			return 0, err
		}
		if err := add(uint64(op-LOG0) * rules.Param(protocol.GasLogTopic)); err != nil {
			return 0, err
		}
		if !length.IsUint64() {
			return 0, ErrOutOfGas
		}
		cost, overflow := math.SafeMul(length.Uint64(), rules.Param(protocol.GasLogData))
		if overflow {
			return 0, ErrOutOfGas
		}
		return gas, add(cost)

	case op == CREATE || op == CREATE2:
		if in.isStatic {
			return 0, ErrStaticStateChange
		}
		offset, length := st.back(1), st.back(2)
		if err := mem(offset, length); err != nil {
			return 0, err
		}
		if err := add(in.accessAddress(in.address, false, false)); err != nil {
			return 0, err
		}
		if rules.IsActivatedEIP(3860) {
			if err := words(length, rules.Param(protocol.GasInitCodeWord)); err != nil {
				return 0, err
			}
		}
		if op == CREATE2 {
			if err := words(length, rules.Param(protocol.GasKeccak256Word)); err != nil {
				return 0, err
			}
		}
		if gas > in.gasLeft {
			return 0, ErrOutOfGas
		}
		left := in.gasLeft - gas
		in.messageGasLimit = in.maxCallGas(uint256.NewInt(left), left)
		return gas, nil

	case op == CALL || op == CALLCODE:
		requested, to, value := st.back(0), addressOf(st.back(1)), st.back(2)
		inOffset, inLength, outOffset, outLength := st.back(3), st.back(4), st.back(5), st.back(6)
		if op == CALL && in.isStatic && !value.IsZero() {
			return 0, ErrStaticStateChange
		}
		if err := mem(inOffset, inLength); err != nil {
			return 0, err
		}
		if err := mem(outOffset, outLength); err != nil {
			return 0, err
		}
		if err := add(in.accessAddress(to, true, false)); err != nil {
			return 0, err
		}
		if !value.IsZero() {
			if err := add(rules.Param(protocol.GasCallValueTransfer)); err != nil {
				return 0, err
			}
		}
		if op == CALL {
			if rules.GteHardfork(protocol.SpuriousDragon) {
				if (in.view.account == nil || in.view.account.Empty()) && !value.IsZero() {
					if err := add(rules.Param(protocol.GasCallNewAccount)); err != nil {
						return 0, err
					}
				}
			} else if in.view.account == nil {
				if err := add(rules.Param(protocol.GasCallNewAccount)); err != nil {
					return 0, err
				}
			}
		}
		if gas > in.gasLeft {
			return 0, ErrOutOfGas
		}
		limit := in.maxCallGas(requested, in.gasLeft-gas)
		if limit > in.gasLeft-gas {
			return 0, ErrOutOfGas
		}
		if !value.IsZero() {
			stipend := rules.Param(protocol.GasCallStipend)
			in.addStipend(stipend)
			limit += stipend
		}
		in.messageGasLimit = limit
		return gas, nil

	case op == DELEGATECALL || op == STATICCALL:
		requested, to := st.back(0), addressOf(st.back(1))
		inOffset, inLength, outOffset, outLength := st.back(2), st.back(3), st.back(4), st.back(5)
		if err := mem(inOffset, inLength); err != nil {
			return 0, err
		}
		if err := mem(outOffset, outLength); err != nil {
			return 0, err
		}
		if err := add(in.accessAddress(to, true, false)); err != nil {
			return 0, err
		}
		if gas > in.gasLeft {
			return 0, ErrOutOfGas
		}
		limit := in.maxCallGas(requested, in.gasLeft-gas)
		if limit > in.gasLeft-gas {
			return 0, ErrOutOfGas
		}
		in.messageGasLimit = limit
		return gas, nil

	case op == RETURN || op == REVERT:
		return gas, mem(st.back(0), st.back(1))

	case op == SELFDESTRUCT:
		if in.isStatic {
			return 0, ErrStaticStateChange
		}
		beneficiary := addressOf(st.back(0))
		charge := false
		if rules.GteHardfork(protocol.SpuriousDragon) {
			if in.view.self != nil && !in.view.self.Balance.IsZero() {
				charge = in.view.account == nil || in.view.account.Empty()
			}
		} else if rules.GteHardfork(protocol.TangerineWhistle) {
			charge = in.view.account == nil
		}
		if charge {
			if err := add(rules.Param(protocol.GasCallNewAccount)); err != nil {
				return 0, err
			}
		}
		return gas, add(in.accessAddress(beneficiary, true, true))

	case op == AUTH:
		return gas, mem(st.back(1), st.back(2))

	case op == AUTHCALL:
		if in.auth == nil {
			return 0, ErrAuthcallUnset
		}
		requested, to, value, valueExt := st.back(0), addressOf(st.back(1)), st.back(2), st.back(3)
		if !valueExt.IsZero() {
			return 0, ErrAuthcallNonzeroValueExt
		}
		if err := add(rules.Param(protocol.GasWarmStorageRead)); err != nil {
			return 0, err
		}
		if err := add(in.accessAddress(to, true, true)); err != nil {
			return 0, err
		}
		if err := mem(st.back(4), st.back(5)); err != nil {
			return 0, err
		}
		if err := mem(st.back(6), st.back(7)); err != nil {
			return 0, err
		}
		if !value.IsZero() {
			if err := add(rules.Param(protocol.GasAuthcallValueTransfer)); err != nil {
				return 0, err
			}
			if in.view.account == nil {
				if err := add(rules.Param(protocol.GasCallNewAccount)); err != nil {
					return 0, err
				}
			}
		}
		if gas > in.gasLeft {
			return 0, ErrOutOfGas
		}
		left := in.gasLeft - gas
		limit := in.maxCallGas(uint256.NewInt(left), left)
		if !requested.IsZero() {
			if !requested.IsUint64() || requested.Uint64() > limit {
				return 0, ErrOutOfGas
			}
			limit = requested.Uint64()
		}
		in.messageGasLimit = limit
		return gas, nil
	}
	return gas, nil
}

// addressOf truncates a word to an address.
func addressOf(word *uint256.Int) common.Address {
	return common.Address(word.Bytes20())
}
