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

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/wcgcyx/shardvm/node"
	"github.com/wcgcyx/shardvm/protocol"
	"github.com/wcgcyx/shardvm/vm"
)

// Note:
// This is adapted from:
// 		go-ethereum@v1.14.8/eth/gasestimator/gasestimator.go

const estimateGasErrorRatio = 0.015

// DoEstimateGas estimates the gas limit needed by the message.
func DoEstimateGas(ctx context.Context, e *node.Executor, args ExecArgs, blockArgs *BlockArgs, timeout time.Duration, gasCap uint64) (hexutil.Uint64, error) {
	msg, err := args.toMessage(gasCap)
	if err != nil {
		return 0, err
	}
	block, tx, err := blockArgs.toContext()
	if err != nil {
		return 0, err
	}
	req := node.Request{
		Msg:   msg,
		Block: block,
		Tx:    tx,
		Mode:  node.Simulate,
	}
	estimate, revert, err := Estimate(ctx, e, req, timeout)
	if err != nil {
		if len(revert) > 0 {
			return 0, newRevertError(revert)
		}
		return 0, err
	}
	return hexutil.Uint64(estimate), nil
}

// Estimate returns the lowest possible gas limit that allows the message to
// run successfully. It returns an error if the message would always fail.
func Estimate(ctx context.Context, e *node.Executor, req node.Request, timeout time.Duration) (uint64, []byte, error) {
	// Binary search the gas limit, as it may need to be higher than the amount used
	var (
		lo uint64 // lowest-known gas limit where execution fails
		hi uint64 // lowest-known gas limit where execution succeeds
	)
	hi = req.Msg.GasLimit
	if hi > req.Block.GasLimit && req.Block.GasLimit != 0 {
		hi = req.Block.GasLimit
	}
	// We first execute at the highest allowable gas limit, since if this fails we
	// can return error immediately.
	failed, result, err := execute(ctx, e, req, hi, timeout)
	if err != nil {
		return 0, nil, err
	}
	if failed {
		if result != nil && !errors.Is(result.Err, vm.ErrOutOfGas) {
			if result.Reverted() {
				return 0, result.ReturnData, result.Err
			}
			return 0, nil, result.Err
		}
		return 0, nil, fmt.Errorf("gas required exceeds allowance (%d)", hi)
	}
	// The gas spent by the unconstrained execution lower-bounds the gas limit.
	lo = result.TotalGasSpent - 1

	// Most messages succeed with the gas spent before refund plus the stipend.
	optimisticGasLimit := (result.TotalGasSpent + result.GasRefund + e.Rules().Param(protocol.GasCallStipend)) * 64 / 63
	if optimisticGasLimit < hi {
		failed, _, err = execute(ctx, e, req, optimisticGasLimit, timeout)
		if err != nil {
			log.Errorf("Execution error in estimate gas: %v", err.Error())
			return 0, nil, err
		}
		if failed {
			lo = optimisticGasLimit
		} else {
			hi = optimisticGasLimit
		}
	}
	// Binary search for the smallest gas limit that allows the message to execute successfully.
	for lo+1 < hi {
		// Allow a small upwards approximation error.
		if float64(hi-lo)/float64(hi) < estimateGasErrorRatio {
			break
		}
		mid := (hi + lo) / 2
		if mid > lo*2 {
			// Skew the bisection towards the low side.
			mid = lo * 2
		}
		failed, _, err = execute(ctx, e, req, mid, timeout)
		if err != nil {
			log.Errorf("Execution error in estimate gas: %v", err.Error())
			return 0, nil, err
		}
		if failed {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, nil, nil
}

// execute is a helper that executes the message under a given gas limit and
// returns true if the message fails for a reason that might be related to
// not enough gas. A non-nil error means execution failed due to reasons unrelated
// to the gas limit.
func execute(ctx context.Context, e *node.Executor, req node.Request, gasLimit uint64, timeout time.Duration) (bool, *vm.ExecResult, error) {
	msg := *req.Msg
	msg.GasLimit = gasLimit
	req.Msg = &msg

	resp, err := doExec(ctx, e, req, timeout)
	if err != nil {
		if errors.Is(err, vm.ErrIntrinsicGas) {
			return true, nil, nil // Special case, raise gas limit
		}
		return true, nil, err // Bail out
	}
	return resp.Result.Failed(), resp.Result, nil
}
