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
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/filecoin-project/go-jsonrpc"
)

// ExecAPI is the client of the exec namespace.
type ExecAPI struct {
	Execute             func(ctx context.Context, args ExecArgs, block *BlockArgs) (*RPCExecResult, error)
	Call                func(ctx context.Context, args ExecArgs, block *BlockArgs) (*RPCExecResult, error)
	Run                 func(ctx context.Context, args ExecArgs, block *BlockArgs) (*RPCExecResult, error)
	EstimateGas         func(ctx context.Context, args ExecArgs, block *BlockArgs) (hexutil.Uint64, error)
	CreateAccessList    func(ctx context.Context, args ExecArgs, block *BlockArgs) (*AccessListResult, error)
	TraceCall           func(ctx context.Context, args ExecArgs, block *BlockArgs, config *TraceConfig) (*TraceResult, error)
	GetAccount          func(ctx context.Context, address common.Address) (*RPCAccount, error)
	GetBalance          func(ctx context.Context, address common.Address) (*hexutil.Big, error)
	GetTransactionCount func(ctx context.Context, address common.Address) (hexutil.Uint64, error)
	GetCode             func(ctx context.Context, address common.Address) (hexutil.Bytes, error)
	GetStorageAt        func(ctx context.Context, address common.Address, key common.Hash) (common.Hash, error)
	ChainId             func(ctx context.Context) (hexutil.Uint64, error)
	Status              func(ctx context.Context) (*RPCStatus, error)
}

func NewClient(ctx context.Context, host string, port uint64) (ExecAPI, jsonrpc.ClientCloser, error) {
	var client ExecAPI
	closer, err := jsonrpc.NewClient(ctx, fmt.Sprintf("http://%v:%v", host, port), "exec", &client, http.Header{})
	return client, closer, err
}
