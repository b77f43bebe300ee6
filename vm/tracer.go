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
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Step is the interpreter state before an opcode is executed.
type Step struct {
	Address common.Address
	Depth   int
	PC      uint64
	Op      OpCode

	// Gas left before the opcode and the gas charged for it
	Gas  uint64
	Cost uint64

	// Refund counter
	Refund uint64

	// Read only views of the frame
	Stack  *Stack
	Memory *Memory
}

// Tracer receives the execution events of an EVM.
type Tracer interface {
	// CaptureStep is called after the opcode has been metered, before it runs.
	CaptureStep(step Step)

	// CaptureFault is called when an opcode faults.
	CaptureFault(step Step, err error)

	// CaptureEnter is called when a message starts.
	CaptureEnter(msg *Message)

	// CaptureExit is called when a message ends.
	CaptureExit(msg *Message, res *ExecResult)
}

// NoopTracer ignores every event.
type NoopTracer struct{}

func (NoopTracer) CaptureStep(step Step) {}

func (NoopTracer) CaptureFault(step Step, err error) {}

func (NoopTracer) CaptureEnter(msg *Message) {}

func (NoopTracer) CaptureExit(msg *Message, res *ExecResult) {}

// LogTracer writes every event to the debug log.
type LogTracer struct{}

func (LogTracer) CaptureStep(step Step) {
	log.Debugf("%v depth %v pc %v %v gas %v cost %v stack %v", step.Address, step.Depth, step.PC, step.Op, step.Gas, step.Cost, step.Stack.Len())
}

func (LogTracer) CaptureFault(step Step, err error) {
	log.Debugf("%v depth %v pc %v %v fault: %v", step.Address, step.Depth, step.PC, step.Op, err)
}

func (LogTracer) CaptureEnter(msg *Message) {
	to := "create"
	if msg.To != nil {
		to = msg.To.Hex()
	}
	log.Debugf("Enter depth %v caller %v to %v value %v gas %v data %v", msg.Depth, msg.Caller, to, msg.value(), msg.GasLimit, hexutil.Encode(msg.Data))
}

func (LogTracer) CaptureExit(msg *Message, res *ExecResult) {
	log.Debugf("Exit depth %v status %v gas used %v err %v return %v", msg.Depth, res.Status, res.GasUsed, res.Err, hexutil.Encode(res.ReturnData))
}
