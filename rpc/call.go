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
	"errors"
	"fmt"
	"time"

	"github.com/wcgcyx/shardvm/node"
	"github.com/wcgcyx/shardvm/vm"
)

// execOptions are the per request options of an execution.
type execOptions struct {
	mode             node.Mode
	raw              bool
	reportAccessList bool
	tracer           vm.Tracer
}

// DoExec builds the message from the arguments and executes it on the executor.
func DoExec(ctx context.Context, e *node.Executor, args ExecArgs, blockArgs *BlockArgs, opts execOptions, timeout time.Duration, globalGasCap uint64) (*node.Response, error) {
	defer func(start time.Time) { log.Debugf("Executing message finished in %v", time.Since(start)) }(time.Now())

	msg, err := args.toMessage(globalGasCap)
	if err != nil {
		return nil, err
	}
	block, tx, err := blockArgs.toContext()
	if err != nil {
		return nil, err
	}
	return doExec(ctx, e, node.Request{
		Msg:              msg,
		Block:            block,
		Tx:               tx,
		Mode:             opts.mode,
		Raw:              opts.raw,
		ReportAccessList: opts.reportAccessList,
		Tracer:           opts.tracer,
	}, timeout)
}

func doExec(ctx context.Context, e *node.Executor, req node.Request, timeout time.Duration) (*node.Response, error) {
	// Setup context so it may be cancelled the call has completed
	// or, in case of unmetered gas, setup a context with a timeout.
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	// Make sure the context is cancelled when the call has completed
	// this makes sure resources are cleaned up.
	defer cancel()

	resp, err := e.Execute(ctx, req)
	if err != nil {
		// If the timer caused an abort, return an appropriate error message
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("execution aborted (timeout = %v)", timeout)
		}
		return nil, fmt.Errorf("err: %w (supplied gas %d)", err, req.Msg.GasLimit)
	}
	return resp, nil
}
