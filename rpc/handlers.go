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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wcgcyx/shardvm/node"
)

// maxAccessListRounds is the max number of executions to settle an access list.
const maxAccessListRounds = 8

// execAPIHandler is used to handle exec API.
type execAPIHandler struct {
	opts Opts

	e *node.Executor
}

// Execute runs the message as a transaction and persists its changes.
func (h *execAPIHandler) Execute(ctx context.Context, args ExecArgs, block *BlockArgs) (*RPCExecResult, error) {
	resp, err := DoExec(ctx, h.e, args, block, execOptions{mode: node.Commit}, h.opts.RPCEVMTimeout, h.opts.RPCGasCap)
	if err != nil {
		return nil, err
	}
	return newRPCExecResult(resp), nil
}

// Call runs the message as a transaction without persisting its changes.
func (h *execAPIHandler) Call(ctx context.Context, args ExecArgs, block *BlockArgs) (*RPCExecResult, error) {
	resp, err := DoExec(ctx, h.e, args, block, execOptions{mode: node.Simulate}, h.opts.RPCEVMTimeout, h.opts.RPCGasCap)
	if err != nil {
		return nil, err
	}
	return newRPCExecResult(resp), nil
}

// Run runs the message without the transaction wrapper and without persisting its changes.
func (h *execAPIHandler) Run(ctx context.Context, args ExecArgs, block *BlockArgs) (*RPCExecResult, error) {
	resp, err := DoExec(ctx, h.e, args, block, execOptions{mode: node.Simulate, raw: true}, h.opts.RPCEVMTimeout, h.opts.RPCGasCap)
	if err != nil {
		return nil, err
	}
	return newRPCExecResult(resp), nil
}

// EstimateGas estimates the gas limit needed by the message.
func (h *execAPIHandler) EstimateGas(ctx context.Context, args ExecArgs, block *BlockArgs) (hexutil.Uint64, error) {
	return DoEstimateGas(ctx, h.e, args, block, h.opts.RPCEVMTimeout, h.opts.RPCGasCap)
}

// CreateAccessList creates the access list of the message.
func (h *execAPIHandler) CreateAccessList(ctx context.Context, args ExecArgs, block *BlockArgs) (*AccessListResult, error) {
	var prev types.AccessList
	if args.AccessList != nil {
		prev = *args.AccessList
	}
	for i := 0; ; i++ {
		list := prev
		args.AccessList = &list
		resp, err := DoExec(ctx, h.e, args, block, execOptions{mode: node.Simulate, reportAccessList: true}, h.opts.RPCEVMTimeout, h.opts.RPCGasCap)
		if err != nil {
			return nil, err
		}
		res := resp.Result
		if accessListEqual(prev, res.AccessList) || i == maxAccessListRounds-1 {
			out := &AccessListResult{
				Accesslist: &res.AccessList,
				GasUsed:    hexutil.Uint64(res.TotalGasSpent),
			}
			if res.Err != nil {
				out.Error = res.Err.Error()
			}
			return out, nil
		}
		prev = res.AccessList
	}
}

// TraceCall runs the message with the struct logger.
func (h *execAPIHandler) TraceCall(ctx context.Context, args ExecArgs, block *BlockArgs, config *TraceConfig) (*TraceResult, error) {
	return DoTraceCall(ctx, h.e, args, block, config, h.opts.RPCGasCap)
}

// GetAccount gets the account of given address.
func (h *execAPIHandler) GetAccount(ctx context.Context, address common.Address) (*RPCAccount, error) {
	acct, err := h.e.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return &RPCAccount{Balance: new(hexutil.Big), CodeHash: types.EmptyCodeHash}, nil
	}
	return &RPCAccount{
		Exists:   true,
		Nonce:    hexutil.Uint64(acct.Nonce),
		Balance:  (*hexutil.Big)(acct.Balance.ToBig()),
		CodeHash: acct.CodeHash,
	}, nil
}

// GetBalance gets the balance of given address.
func (h *execAPIHandler) GetBalance(ctx context.Context, address common.Address) (*hexutil.Big, error) {
	acct, err := h.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	return acct.Balance, nil
}

// GetTransactionCount gets the nonce of given address.
func (h *execAPIHandler) GetTransactionCount(ctx context.Context, address common.Address) (hexutil.Uint64, error) {
	acct, err := h.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return acct.Nonce, nil
}

// GetCode gets the code of given address.
func (h *execAPIHandler) GetCode(ctx context.Context, address common.Address) (hexutil.Bytes, error) {
	code, err := h.e.GetCode(ctx, address)
	if err != nil {
		return nil, err
	}
	return code, nil
}

// GetStorageAt gets the storage value of given address and key.
func (h *execAPIHandler) GetStorageAt(ctx context.Context, address common.Address, key common.Hash) (common.Hash, error) {
	return h.e.GetStorageAt(ctx, address, key)
}

// ChainId gets the chain id.
func (h *execAPIHandler) ChainId(ctx context.Context) (hexutil.Uint64, error) {
	return hexutil.Uint64(h.e.Rules().ChainID().Uint64()), nil
}

// Status gets the status of the node.
func (h *execAPIHandler) Status(ctx context.Context) (*RPCStatus, error) {
	height, digest, stats, err := h.e.Status(ctx)
	if err != nil {
		return nil, err
	}
	rules := h.e.Rules()
	out := &RPCStatus{
		ChainID:  hexutil.Uint64(rules.ChainID().Uint64()),
		Hardfork: rules.Hardfork().String(),
		EIPs:     rules.ActiveEIPs(),
		Height:   hexutil.Uint64(height),
		Digest:   digest,
		Caches:   make(map[string]RPCCacheStats),
	}
	for name, s := range stats {
		out.Caches[name] = RPCCacheStats{
			Size:   s.Size,
			Reads:  s.Reads,
			Hits:   s.Hits,
			Writes: s.Writes,
			Dels:   s.Dels,
		}
	}
	return out, nil
}

// accessListEqual checks if both lists hold the same entries in the same order.
func accessListEqual(a, b types.AccessList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Address != b[i].Address || len(a[i].StorageKeys) != len(b[i].StorageKeys) {
			return false
		}
		for k := range a[i].StorageKeys {
			if a[i].StorageKeys[k] != b[i].StorageKeys[k] {
				return false
			}
		}
	}
	return true
}
