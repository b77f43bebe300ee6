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

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	itypes "github.com/wcgcyx/shardvm/types"
)

// errStopToken halts the frame successfully.
var errStopToken = errors.New("stop token")

// ctxCheckInterval is the number of steps between two context checks.
const ctxCheckInterval = 1024

// stateRead is the state an opcode needs before it can be metered.
// The interpreter resolves it through the state manager, the only place
// where a step waits on I/O.
type stateRead struct {
	// Account of the given address
	account *common.Address

	// Account of the frame
	self bool

	// Code of the given address
	code *common.Address

	// Storage slot of the frame account, with its original value when set
	slot     *common.Hash
	original bool
}

// stepView holds the state resolved for the current step.
type stepView struct {
	account  *itypes.AccountValue
	self     *itypes.AccountValue
	code     []byte
	current  common.Hash
	original common.Hash
}

// Interpreter runs the code of one call frame.
type Interpreter struct {
	evm *EVM
	msg *Message

	code      []byte
	codeHash  common.Hash
	jumpdests bitvec
	pc        uint64
	steps     uint64

	stack  *Stack
	memory *Memory

	gasLeft         uint64
	messageGasLimit uint64
	memoryWordCount uint64
	highestMemCost  uint64
	refundCounter

	address   common.Address
	caller    common.Address
	callValue *uint256.Int
	callData  []byte
	isStatic  bool
	depth     int
	auth      *common.Address

	// Return data of the last call and the output of this frame
	returnBytes []byte
	output      []byte

	logs             []itypes.Log
	selfdestruct     mapset.Set[common.Address]
	createdAddresses mapset.Set[common.Address]

	view stepView
}

// newInterpreter creates the frame running code on behalf of addr.
func newInterpreter(evm *EVM, msg *Message, addr common.Address, code []byte, codeHash common.Hash) *Interpreter {
	return &Interpreter{
		evm:              evm,
		msg:              msg,
		code:             code,
		codeHash:         codeHash,
		stack:            NewStack(),
		memory:           NewMemory(),
		gasLeft:          msg.GasLimit,
		refundCounter:    refundCounter{refund: msg.gasRefund},
		address:          addr,
		caller:           msg.Caller,
		callValue:        msg.value(),
		callData:         msg.Data,
		isStatic:         msg.IsStatic,
		depth:            msg.Depth,
		returnBytes:      []byte{},
		logs:             make([]itypes.Log, 0),
		selfdestruct:     msg.selfdestruct,
		createdAddresses: msg.createdAddresses,
	}
}

// release returns the stack to the pool.
func (in *Interpreter) release() {
	in.stack.release()
	in.stack = nil
}

// run executes the code until the frame halts.
// It returns nil on success, ErrRevert on REVERT and the fault otherwise.
// Failures of the state manager are returned as fatal errors.
func (in *Interpreter) run(ctx context.Context) error {
	table := in.evm.opcodes
	tracer := in.evm.tracer
	for in.pc < uint64(len(in.code)) {
		in.steps++
		if in.steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fatal(err)
			}
		}
		op := OpCode(in.code[in.pc])
		info := table[op]
		if info == nil {
			return in.fault(tracer, op, 0, ErrInvalidOpcode)
		}
		if sLen := in.stack.Len(); sLen < info.pops {
			return in.fault(tracer, op, 0, ErrStackUnderflow)
		} else if sLen-info.pops+info.pushes > StackLimit {
			return in.fault(tracer, op, 0, ErrStackOverflow)
		}
		// Suspension point
		if read, ok := in.stateNeeds(op); ok {
			if err := in.resolve(ctx, read); err != nil {
				return err
			}
		}
		cost := info.fee
		if info.dynamic {
			var err error
			if cost, err = in.dynamicGas(op, info.fee); err != nil {
				return in.fault(tracer, op, info.fee, err)
			}
		}
		tracer.CaptureStep(in.step(op, cost))
		if err := in.useGas(cost); err != nil {
			return in.fault(tracer, op, cost, err)
		}
		in.pc++
		if err := in.execute(ctx, op); err != nil {
			switch {
			case err == errStopToken:
				return nil
			case isFatal(err), errors.Is(err, ErrRevert):
				return err
			default:
				return in.fault(tracer, op, cost, err)
			}
		}
	}
	return nil
}

// step gets the trace of the current step.
func (in *Interpreter) step(op OpCode, cost uint64) Step {
	return Step{
		Address: in.address,
		Depth:   in.depth,
		PC:      in.pc,
		Op:      op,
		Gas:     in.gasLeft,
		Cost:    cost,
		Refund:  in.refund,
		Stack:   in.stack,
		Memory:  in.memory,
	}
}

// fault reports the fault to the tracer and returns it.
func (in *Interpreter) fault(tracer Tracer, op OpCode, cost uint64, err error) error {
	tracer.CaptureFault(in.step(op, cost), err)
	return err
}

// stateNeeds gets the state the opcode reads before it is metered.
// The stack height has been validated.
func (in *Interpreter) stateNeeds(op OpCode) (stateRead, bool) {
	st := in.stack
	switch op {
	case BALANCE, EXTCODEHASH:
		addr := addressOf(st.back(0))
		return stateRead{account: &addr}, true
	case EXTCODESIZE, EXTCODECOPY:
		addr := addressOf(st.back(0))
		return stateRead{code: &addr}, true
	case SELFBALANCE:
		return stateRead{self: true}, true
	case SLOAD:
		key := common.Hash(st.back(0).Bytes32())
		return stateRead{slot: &key}, true
	case SSTORE:
		key := common.Hash(st.back(0).Bytes32())
		return stateRead{slot: &key, original: true}, true
	case CALL, CALLCODE, AUTHCALL:
		addr := addressOf(st.back(1))
		return stateRead{account: &addr}, true
	case SELFDESTRUCT:
		addr := addressOf(st.back(0))
		return stateRead{account: &addr, self: true}, true
	}
	return stateRead{}, false
}

// resolve loads the state of the read into the step view.
func (in *Interpreter) resolve(ctx context.Context, read stateRead) error {
	if err := ctx.Err(); err != nil {
		return fatal(err)
	}
	sm := in.evm.sm
	in.view = stepView{}
	var err error
	if read.account != nil {
		if in.view.account, err = sm.GetAccount(ctx, *read.account); err != nil {
			return fatal(err)
		}
	}
	if read.self {
		if in.view.self, err = sm.GetAccount(ctx, in.address); err != nil {
			return fatal(err)
		}
	}
	if read.code != nil {
		if in.view.code, err = sm.GetContractCode(ctx, *read.code); err != nil {
			return fatal(err)
		}
	}
	if read.slot != nil {
		if in.view.current, err = sm.GetContractStorage(ctx, in.address, *read.slot); err != nil {
			return fatal(err)
		}
		if read.original {
			if in.view.original, err = sm.GetOriginalContractStorage(ctx, in.address, *read.slot); err != nil {
				return fatal(err)
			}
		}
	}
	return nil
}

// validJump checks the jump destination, analysing the code on first use.
func (in *Interpreter) validJump(dest *uint256.Int) bool {
	if !dest.IsUint64() {
		return false
	}
	if in.jumpdests == nil {
		in.jumpdests = in.evm.analyse(in.codeHash, in.code)
	}
	return validJumpdest(in.code, in.jumpdests, dest.Uint64())
}
