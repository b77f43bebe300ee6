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
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/wcgcyx/shardvm/protocol"
	itypes "github.com/wcgcyx/shardvm/types"
)

// auth message magic of EIP-3074
const authMagic = 0x03

var secp256k1HalfN = new(big.Int).Rsh(crypto.S256().Params().N, 1)

// clamp gets the word as uint64, the maximum value if it does not fit.
func clamp(x *uint256.Int) uint64 {
	if !x.IsUint64() {
		return maxUint64
	}
	return x.Uint64()
}

// execute runs the effects of the opcode. Gas and stack height have been checked.
func (in *Interpreter) execute(ctx context.Context, op OpCode) error {
	st := in.stack
	mem := in.memory
	rules := in.evm.rules

	switch {
	case op == STOP:
		return errStopToken

	// Arithmetic
	case op == ADD:
		x, y := st.pop(), st.peek()
		y.Add(&x, y)
	case op == MUL:
		x, y := st.pop(), st.peek()
		y.Mul(&x, y)
	case op == SUB:
		x, y := st.pop(), st.peek()
		y.Sub(&x, y)
	case op == DIV:
		x, y := st.pop(), st.peek()
		y.Div(&x, y)
	case op == SDIV:
		x, y := st.pop(), st.peek()
		y.SDiv(&x, y)
	case op == MOD:
		x, y := st.pop(), st.peek()
		y.Mod(&x, y)
	case op == SMOD:
		x, y := st.pop(), st.peek()
		y.SMod(&x, y)
	case op == ADDMOD:
		x, y, z := st.pop(), st.pop(), st.peek()
		z.AddMod(&x, &y, z)
	case op == MULMOD:
		x, y, z := st.pop(), st.pop(), st.peek()
		z.MulMod(&x, &y, z)
	case op == EXP:
		base, exponent := st.pop(), st.peek()
		exponent.Exp(&base, exponent)
	case op == SIGNEXTEND:
		back, num := st.pop(), st.peek()
		num.ExtendSign(num, &back)

	// Comparison and bitwise
	case op == LT:
		x, y := st.pop(), st.peek()
		setBool(y, x.Lt(y))
	case op == GT:
		x, y := st.pop(), st.peek()
		setBool(y, x.Gt(y))
	case op == SLT:
		x, y := st.pop(), st.peek()
		setBool(y, x.Slt(y))
	case op == SGT:
		x, y := st.pop(), st.peek()
		setBool(y, x.Sgt(y))
	case op == EQ:
		x, y := st.pop(), st.peek()
		setBool(y, x.Eq(y))
	case op == ISZERO:
		x := st.peek()
		setBool(x, x.IsZero())
	case op == AND:
		x, y := st.pop(), st.peek()
		y.And(&x, y)
	case op == OR:
		x, y := st.pop(), st.peek()
		y.Or(&x, y)
	case op == XOR:
		x, y := st.pop(), st.peek()
		y.Xor(&x, y)
	case op == NOT:
		x := st.peek()
		x.Not(x)
	case op == BYTE:
		th, val := st.pop(), st.peek()
		val.Byte(&th)
	case op == SHL:
		shift, value := st.pop(), st.peek()
		if shift.LtUint64(256) {
			value.Lsh(value, uint(shift.Uint64()))
		} else {
			value.Clear()
		}
	case op == SHR:
		shift, value := st.pop(), st.peek()
		if shift.LtUint64(256) {
			value.Rsh(value, uint(shift.Uint64()))
		} else {
			value.Clear()
		}
	case op == SAR:
		shift, value := st.pop(), st.peek()
		if shift.GtUint64(255) {
			if value.Sign() >= 0 {
				value.Clear()
			} else {
				value.SetAllOne()
			}
		} else {
			value.SRsh(value, uint(shift.Uint64()))
		}

	case op == KECCAK256:
		offset, size := st.pop(), st.peek()
		data := mem.Read(offset.Uint64(), size.Uint64(), true)
		size.SetBytes(crypto.Keccak256(data))

	// Environment
	case op == ADDRESS:
		st.push(new(uint256.Int).SetBytes20(in.address.Bytes()))
	case op == BALANCE:
		st.pop()
		st.push(balanceOf(in.view.account))
	case op == ORIGIN:
		st.push(new(uint256.Int).SetBytes20(in.evm.origin.Bytes()))
	case op == CALLER:
		st.push(new(uint256.Int).SetBytes20(in.caller.Bytes()))
	case op == CALLVALUE:
		st.push(new(uint256.Int).Set(in.callValue))
	case op == CALLDATALOAD:
		x := st.peek()
		if x.IsUint64() {
			x.SetBytes32(getData(in.callData, x.Uint64(), 32))
		} else {
			x.Clear()
		}
	case op == CALLDATASIZE:
		st.push(uint256.NewInt(uint64(len(in.callData))))
	case op == CALLDATACOPY:
		memOffset, dataOffset, length := st.pop(), st.pop(), st.pop()
		return in.copyToMemory(&memOffset, &dataOffset, &length, in.callData)
	case op == CODESIZE:
		st.push(uint256.NewInt(uint64(len(in.code))))
	case op == CODECOPY:
		memOffset, codeOffset, length := st.pop(), st.pop(), st.pop()
		return in.copyToMemory(&memOffset, &codeOffset, &length, in.code)
	case op == GASPRICE:
		st.push(orZero(in.evm.tx.GasPrice))
	case op == EXTCODESIZE:
		st.pop()
		st.push(uint256.NewInt(uint64(len(in.view.code))))
	case op == EXTCODECOPY:
		st.pop()
		memOffset, codeOffset, length := st.pop(), st.pop(), st.pop()
		return in.copyToMemory(&memOffset, &codeOffset, &length, in.view.code)
	case op == RETURNDATASIZE:
		st.push(uint256.NewInt(uint64(len(in.returnBytes))))
	case op == RETURNDATACOPY:
		memOffset, dataOffset, length := st.pop(), st.pop(), st.pop()
		return in.copyToMemory(&memOffset, &dataOffset, &length, in.returnBytes)
	case op == EXTCODEHASH:
		slot := st.peek()
		acct := in.view.account
		if acct == nil || acct.Empty() {
			slot.Clear()
		} else {
			slot.SetBytes32(acct.CodeHash[:])
		}

	// Block
	case op == BLOCKHASH:
		num := st.peek()
		block := in.evm.block
		if !num.IsUint64() || num.Uint64() >= block.Number || block.Number-num.Uint64() > 256 || block.GetHash == nil {
			num.Clear()
		} else {
			hash := block.GetHash(num.Uint64())
			num.SetBytes32(hash[:])
		}
	case op == COINBASE:
		st.push(new(uint256.Int).SetBytes20(in.evm.block.Coinbase.Bytes()))
	case op == TIMESTAMP:
		st.push(uint256.NewInt(in.evm.block.Time))
	case op == NUMBER:
		st.push(uint256.NewInt(in.evm.block.Number))
	case op == PREVRANDAO:
		st.push(new(uint256.Int).SetBytes32(in.evm.block.PrevRandao[:]))
	case op == GASLIMIT:
		st.push(uint256.NewInt(in.evm.block.GasLimit))
	case op == CHAINID:
		st.push(rules.ChainID())
	case op == SELFBALANCE:
		st.push(balanceOf(in.view.self))
	case op == BASEFEE:
		st.push(orZero(in.evm.block.BaseFee))
	case op == BLOBHASH:
		index := st.peek()
		hashes := in.evm.tx.BlobHashes
		if index.LtUint64(uint64(len(hashes))) {
			index.SetBytes32(hashes[index.Uint64()][:])
		} else {
			index.Clear()
		}
	case op == BLOBBASEFEE:
		st.push(orZero(in.evm.block.BlobBaseFee))

	// Stack, memory, storage and flow
	case op == POP:
		st.pop()
	case op == MLOAD:
		v := st.peek()
		v.SetBytes32(mem.Read(v.Uint64(), 32, true))
	case op == MSTORE:
		offset, val := st.pop(), st.pop()
		b := val.Bytes32()
		return mem.Write(offset.Uint64(), 32, b[:])
	case op == MSTORE8:
		offset, val := st.pop(), st.pop()
		return mem.Write(offset.Uint64(), 1, []byte{byte(val.Uint64())})
	case op == SLOAD:
		st.peek().SetBytes32(in.view.current[:])
	case op == SSTORE:
		key, val := st.pop(), st.pop()
		return in.sstore(ctx, common.Hash(key.Bytes32()), common.Hash(val.Bytes32()))
	case op == JUMP:
		dest := st.pop()
		if !in.validJump(&dest) {
			return ErrInvalidJump
		}
		in.pc = dest.Uint64()
	case op == JUMPI:
		dest, cond := st.pop(), st.pop()
		if !cond.IsZero() {
			if !in.validJump(&dest) {
				return ErrInvalidJump
			}
			in.pc = dest.Uint64()
		}
	case op == PC:
		st.push(uint256.NewInt(in.pc - 1))
	case op == MSIZE:
		st.push(uint256.NewInt(in.memoryWordCount * 32))
	case op == GAS:
		st.push(uint256.NewInt(in.gasLeft))
	case op == JUMPDEST:
	case op == TLOAD:
		key := st.peek()
		k := key.Bytes32()
		key.SetBytes(in.evm.transient.Get(in.address, k[:]))
	case op == TSTORE:
		key, val := st.pop(), st.pop()
		k, v := key.Bytes32(), val.Bytes32()
		return in.evm.transient.Put(in.address, k[:], v[:])
	case op == MCOPY:
		dst, src, length := st.pop(), st.pop(), st.pop()
		if !length.IsZero() {
			mem.Copy(dst.Uint64(), src.Uint64(), length.Uint64())
		}
	case op == PUSH0:
		st.push(new(uint256.Int))
	case op >= PUSH1 && op <= PUSH32:
		size := uint64(op - PUSH1 + 1)
		st.push(new(uint256.Int).SetBytes(getData(in.code, in.pc, size)))
		in.pc += size
	case op >= DUP1 && op <= DUP16:
		return st.Dup(int(op - DUP1 + 1))
	case op >= SWAP1 && op <= SWAP16:
		return st.Swap(int(op - SWAP1 + 1))
	case op >= LOG0 && op <= LOG4:
		offset, size := st.pop(), st.pop()
		topics := make([]common.Hash, int(op-LOG0))
		for i := range topics {
			topic := st.pop()
			topics[i] = common.Hash(topic.Bytes32())
		}
		in.logs = append(in.logs, itypes.Log{
			Address: in.address,
			Topics:  topics,
			Data:    mem.Read(offset.Uint64(), size.Uint64(), false),
		})

	// System
	case op == CREATE:
		value, offset, size := st.pop(), st.pop(), st.pop()
		return in.create(ctx, &value, mem.Read(offset.Uint64(), size.Uint64(), false), nil)
	case op == CREATE2:
		value, offset, size, salt := st.pop(), st.pop(), st.pop(), st.pop()
		s := common.Hash(salt.Bytes32())
		return in.create(ctx, &value, mem.Read(offset.Uint64(), size.Uint64(), false), &s)
	case op == CALL || op == CALLCODE:
		st.pop()
		addr, value := st.pop(), st.pop()
		inOffset, inSize, outOffset, outSize := st.pop(), st.pop(), st.pop(), st.pop()
		to := addressOf(&addr)
		msg := &Message{
			Caller:   in.address,
			To:       &to,
			Value:    new(uint256.Int).Set(&value),
			Data:     mem.Read(inOffset.Uint64(), inSize.Uint64(), false),
			GasLimit: in.messageGasLimit,
			IsStatic: in.isStatic,
		}
		if op == CALLCODE {
			self := in.address
			msg.To = &self
			msg.CodeAddress = &to
		}
		return in.call(ctx, msg, &outOffset, &outSize)
	case op == DELEGATECALL:
		st.pop()
		addr := st.pop()
		inOffset, inSize, outOffset, outSize := st.pop(), st.pop(), st.pop(), st.pop()
		to, self := addressOf(&addr), in.address
		msg := &Message{
			Caller:       in.caller,
			To:           &self,
			CodeAddress:  &to,
			Value:        new(uint256.Int).Set(in.callValue),
			Data:         mem.Read(inOffset.Uint64(), inSize.Uint64(), false),
			GasLimit:     in.messageGasLimit,
			IsStatic:     in.isStatic,
			Delegatecall: true,
		}
		return in.call(ctx, msg, &outOffset, &outSize)
	case op == STATICCALL:
		st.pop()
		addr := st.pop()
		inOffset, inSize, outOffset, outSize := st.pop(), st.pop(), st.pop(), st.pop()
		to := addressOf(&addr)
		msg := &Message{
			Caller:   in.address,
			To:       &to,
			Value:    new(uint256.Int),
			Data:     mem.Read(inOffset.Uint64(), inSize.Uint64(), false),
			GasLimit: in.messageGasLimit,
			IsStatic: true,
		}
		return in.call(ctx, msg, &outOffset, &outSize)
	case op == AUTH:
		authority, offset, size := st.pop(), st.pop(), st.pop()
		return in.authorize(addressOf(&authority), &offset, &size)
	case op == AUTHCALL:
		st.pop()
		addr, value := st.pop(), st.pop()
		st.pop()
		inOffset, inSize, outOffset, outSize := st.pop(), st.pop(), st.pop(), st.pop()
		to, self := addressOf(&addr), in.address
		msg := &Message{
			Caller:         *in.auth,
			To:             &to,
			Value:          new(uint256.Int).Set(&value),
			Data:           mem.Read(inOffset.Uint64(), inSize.Uint64(), false),
			GasLimit:       in.messageGasLimit,
			IsStatic:       in.isStatic,
			AuthcallOrigin: &self,
		}
		return in.call(ctx, msg, &outOffset, &outSize)
	case op == RETURN:
		offset, size := st.pop(), st.pop()
		in.output = mem.Read(offset.Uint64(), size.Uint64(), false)
		return errStopToken
	case op == REVERT:
		offset, size := st.pop(), st.pop()
		in.output = mem.Read(offset.Uint64(), size.Uint64(), false)
		return ErrRevert
	case op == SELFDESTRUCT:
		beneficiary := st.pop()
		return in.selfDestruct(ctx, addressOf(&beneficiary))
	default:
		return ErrInvalidOpcode
	}
	return nil
}

func setBool(x *uint256.Int, b bool) {
	if b {
		x.SetOne()
	} else {
		x.Clear()
	}
}

func orZero(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(x)
}

func balanceOf(acct *itypes.AccountValue) *uint256.Int {
	if acct == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(acct.Balance)
}

// copyToMemory copies length bytes of src at srcOffset into memory, padding with zeros.
func (in *Interpreter) copyToMemory(memOffset, srcOffset, length *uint256.Int, src []byte) error {
	if length.IsZero() {
		return nil
	}
	size := length.Uint64()
	return in.memory.Write(memOffset.Uint64(), size, getData(src, clamp(srcOffset), size))
}

// sstore writes the slot of the frame account.
func (in *Interpreter) sstore(ctx context.Context, key, val common.Hash) error {
	if err := in.evm.sm.PutContractStorage(ctx, in.address, key, val); err != nil {
		return fatal(err)
	}
	return nil
}

// call runs a message call and pushes its success flag.
func (in *Interpreter) call(ctx context.Context, msg *Message, outOffset, outSize *uint256.Int) error {
	in.returnBytes = []byte{}
	// The output window is paid for even when nothing is written to it.
	if !outSize.IsZero() {
		in.memory.Extend(outOffset.Uint64(), outSize.Uint64())
	}
	value := msg.value()
	if in.depth >= int(in.evm.rules.Param(protocol.CallDepthLimit)) {
		in.stack.push(new(uint256.Int))
		return nil
	}
	if !msg.Delegatecall && !value.IsZero() {
		self, err := in.evm.getAccount(ctx, in.address)
		if err != nil {
			return err
		}
		if self.Balance.Lt(value) {
			in.stack.push(new(uint256.Int))
			return nil
		}
	}
	msg.Depth = in.depth + 1
	msg.gasRefund = in.refund
	msg.selfdestruct = in.selfdestruct.Clone()
	msg.createdAddresses = in.createdAddresses.Clone()

	res, err := in.evm.runCall(ctx, msg)
	if err != nil {
		return err
	}
	in.logs = append(in.logs, res.Logs...)
	if err = in.useGas(res.GasUsed); err != nil {
		return err
	}
	if !res.Failed() || res.Reverted() {
		in.returnBytes = res.ReturnData
	}
	if size := outSize.Uint64(); !outSize.IsZero() && len(in.returnBytes) > 0 {
		if uint64(len(in.returnBytes)) < size {
			size = uint64(len(in.returnBytes))
		}
		if err = in.memory.Write(outOffset.Uint64(), size, in.returnBytes[:size]); err != nil {
			return err
		}
	}
	if res.Failed() {
		in.stack.push(new(uint256.Int))
		return nil
	}
	in.selfdestruct = in.selfdestruct.Union(res.selfdestruct)
	in.createdAddresses = in.createdAddresses.Union(res.createdAddresses)
	in.refund = res.GasRefund
	in.stack.push(uint256.NewInt(1))
	return nil
}

// create runs a contract creation and pushes the created address.
func (in *Interpreter) create(ctx context.Context, value *uint256.Int, initcode []byte, salt *common.Hash) error {
	rules := in.evm.rules
	in.returnBytes = []byte{}
	self, err := in.evm.getAccount(ctx, in.address)
	if err != nil {
		return err
	}
	if in.depth >= int(rules.Param(protocol.CallDepthLimit)) || self.Balance.Lt(value) {
		in.stack.push(new(uint256.Int))
		return nil
	}
	if self.Nonce >= maxUint64 {
		in.stack.push(new(uint256.Int))
		return nil
	}
	self.Nonce++
	if err = in.evm.journal.PutAccount(ctx, in.address, self); err != nil {
		return fatal(err)
	}
	if rules.IsActivatedEIP(3860) && uint64(len(initcode)) > rules.Param(protocol.MaxInitCodeSize) && !rules.AllowUnlimitedInitCodeSize {
		in.stack.push(new(uint256.Int))
		return nil
	}
	msg := &Message{
		Caller:           in.address,
		Value:            new(uint256.Int).Set(value),
		Data:             initcode,
		GasLimit:         in.messageGasLimit,
		Depth:            in.depth + 1,
		Salt:             salt,
		gasRefund:        in.refund,
		selfdestruct:     in.selfdestruct.Clone(),
		createdAddresses: in.createdAddresses.Clone(),
	}
	res, err := in.evm.runCall(ctx, msg)
	if err != nil {
		return err
	}
	in.logs = append(in.logs, res.Logs...)
	if err = in.useGas(res.GasUsed); err != nil {
		return err
	}
	if res.Reverted() {
		in.returnBytes = res.ReturnData
	}
	if (res.Err == nil || errors.Is(res.Err, ErrCodestoreOutOfGas)) && res.CreatedAddress != nil {
		in.selfdestruct = in.selfdestruct.Union(res.selfdestruct)
		in.createdAddresses = in.createdAddresses.Union(res.createdAddresses)
		in.refund = res.GasRefund
		in.stack.push(new(uint256.Int).SetBytes20(res.CreatedAddress.Bytes()))
		return nil
	}
	in.stack.push(new(uint256.Int))
	return nil
}

// selfDestruct marks the frame account for deletion and sends its balance to the beneficiary.
func (in *Interpreter) selfDestruct(ctx context.Context, beneficiary common.Address) error {
	rules := in.evm.rules
	if !in.selfdestruct.Contains(in.address) {
		in.refundGas(rules.Param(protocol.GasSelfdestructRefund))
	}
	in.selfdestruct.Add(in.address)

	self, err := in.evm.getAccount(ctx, in.address)
	if err != nil {
		return err
	}
	toSelf := beneficiary == in.address
	if !toSelf {
		to, err := in.evm.getAccount(ctx, beneficiary)
		if err != nil {
			return err
		}
		to.Balance = new(uint256.Int).Add(to.Balance, self.Balance)
		if err = in.evm.journal.PutAccount(ctx, beneficiary, to); err != nil {
			return fatal(err)
		}
	}
	doModify := !rules.IsActivatedEIP(6780) || in.createdAddresses.Contains(in.address) || !toSelf
	if doModify {
		self.Balance = new(uint256.Int)
		if err = in.evm.sm.PutAccount(ctx, in.address, self); err != nil {
			return fatal(err)
		}
	}
	return errStopToken
}

// authorize verifies an EIP-3074 signature of the authority over this invoker.
func (in *Interpreter) authorize(authority common.Address, offset, size *uint256.Int) error {
	length := size.Uint64()
	if !size.IsZero() {
		in.memory.Extend(offset.Uint64(), length)
	}
	if size.GtUint64(128) {
		length = 128
	}
	data := common.RightPadBytes(in.memory.Read(offset.Uint64(), length, false), 128)
	yParity := data[31]
	r, s, commit := data[32:64], data[64:96], data[96:128]
	if new(big.Int).SetBytes(s).Cmp(secp256k1HalfN) > 0 {
		return ErrAuthInvalidS
	}
	chainID := in.evm.rules.ChainID().Bytes32()
	msgHash := crypto.Keccak256([]byte{authMagic}, chainID[:], common.LeftPadBytes(in.address.Bytes(), 32), commit)

	sig := make([]byte, 65)
	copy(sig, r)
	copy(sig[32:], s)
	sig[64] = yParity
	pub, err := crypto.Ecrecover(msgHash, sig)
	if err != nil {
		log.Debugf("Auth signature recovery failed: %v", err)
		in.auth = nil
		in.stack.push(new(uint256.Int))
		return nil
	}
	recovered := common.BytesToAddress(crypto.Keccak256(pub[1:])[12:])
	if recovered != authority {
		in.auth = nil
		in.stack.push(new(uint256.Int))
		return nil
	}
	in.auth = &recovered
	in.stack.push(uint256.NewInt(1))
	return nil
}
