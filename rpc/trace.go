package rpc

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
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/wcgcyx/shardvm/node"
	"github.com/wcgcyx/shardvm/vm"
)

// Note:
// This is adapted from:
// 		go-ethereum@v1.15.2/eth/tracers/api.go
// 		go-ethereum@v1.15.2/eth/tracers/logger/logger.go

const (
	// defaultTraceTimeout is the amount of time a single trace can execute
	// by default before being forcefully aborted.
	defaultTraceTimeout = 5 * time.Second
)

// TraceConfig holds the options of the struct logger.
type TraceConfig struct {
	EnableMemory bool    `json:"enableMemory"`
	DisableStack bool    `json:"disableStack"`
	EnableReturn bool    `json:"enableReturnData"`
	Limit        int     `json:"limit"`
	Timeout      *string `json:"timeout"`
}

// StructLog is the trace of a single opcode.
type StructLog struct {
	Pc      uint64         `json:"pc"`
	Op      string         `json:"op"`
	Gas     hexutil.Uint64 `json:"gas"`
	GasCost hexutil.Uint64 `json:"gasCost"`
	Depth   int            `json:"depth"`
	Refund  hexutil.Uint64 `json:"refund,omitempty"`
	Error   string         `json:"error,omitempty"`
	Stack   []string       `json:"stack,omitempty"`
	Memory  []string       `json:"memory,omitempty"`
}

// TraceResult is the result of a struct logger trace.
type TraceResult struct {
	Gas         hexutil.Uint64 `json:"gas"`
	Failed      bool           `json:"failed"`
	ReturnValue hexutil.Bytes  `json:"returnValue"`
	StructLogs  []StructLog    `json:"structLogs"`
}

// structLogger collects a StructLog for every executed opcode.
type structLogger struct {
	cfg  TraceConfig
	logs []StructLog
}

func newStructLogger(cfg *TraceConfig) *structLogger {
	l := &structLogger{logs: make([]StructLog, 0)}
	if cfg != nil {
		l.cfg = *cfg
	}
	return l
}

func (l *structLogger) CaptureStep(step vm.Step) {
	if l.cfg.Limit != 0 && len(l.logs) >= l.cfg.Limit {
		return
	}
	entry := StructLog{
		Pc:      step.PC,
		Op:      step.Op.String(),
		Gas:     hexutil.Uint64(step.Gas),
		GasCost: hexutil.Uint64(step.Cost),
		Depth:   step.Depth,
		Refund:  hexutil.Uint64(step.Refund),
	}
	if !l.cfg.DisableStack {
		data := step.Stack.Data()
		entry.Stack = make([]string, len(data))
		for i := range data {
			entry.Stack[i] = data[i].Hex()
		}
	}
	if l.cfg.EnableMemory {
		mem := step.Memory.Data()
		entry.Memory = make([]string, 0, (len(mem)+31)/32)
		for i := 0; i+32 <= len(mem); i += 32 {
			entry.Memory = append(entry.Memory, hexutil.Encode(mem[i:i+32]))
		}
	}
	l.logs = append(l.logs, entry)
}

func (l *structLogger) CaptureFault(step vm.Step, err error) {
	if n := len(l.logs); n > 0 {
		last := &l.logs[n-1]
		if last.Pc == step.PC && last.Depth == step.Depth {
			last.Error = err.Error()
			return
		}
	}
	if l.cfg.Limit != 0 && len(l.logs) >= l.cfg.Limit {
		return
	}
	l.logs = append(l.logs, StructLog{
		Pc:      step.PC,
		Op:      step.Op.String(),
		Gas:     hexutil.Uint64(step.Gas),
		GasCost: hexutil.Uint64(step.Cost),
		Depth:   step.Depth,
		Error:   err.Error(),
	})
}

func (l *structLogger) CaptureEnter(msg *vm.Message) {}

func (l *structLogger) CaptureExit(msg *vm.Message, res *vm.ExecResult) {}

// result builds the trace result.
func (l *structLogger) result(res *vm.ExecResult) *TraceResult {
	out := &TraceResult{
		Gas:        hexutil.Uint64(res.GasUsed),
		Failed:     res.Failed(),
		StructLogs: l.logs,
	}
	if res.TotalGasSpent != 0 {
		out.Gas = hexutil.Uint64(res.TotalGasSpent)
	}
	if l.cfg.EnableReturn || res.Reverted() {
		out.ReturnValue = res.ReturnData
	}
	return out
}

// DoTraceCall executes the message with the struct logger, discarding its state changes.
func DoTraceCall(ctx context.Context, e *node.Executor, args ExecArgs, blockArgs *BlockArgs, config *TraceConfig, gasCap uint64) (*TraceResult, error) {
	timeout := defaultTraceTimeout
	if config != nil && config.Timeout != nil {
		var err error
		if timeout, err = time.ParseDuration(*config.Timeout); err != nil {
			return nil, err
		}
	}
	tracer := newStructLogger(config)
	resp, err := DoExec(ctx, e, args, blockArgs, execOptions{mode: node.Simulate, tracer: tracer}, timeout, gasCap)
	if err != nil {
		return nil, err
	}
	return tracer.result(resp.Result), nil
}
