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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wcgcyx/shardvm/node"
)

// RPCLog is a log emitted during execution.
type RPCLog struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// RPCExecResult is the result of an executed message.
type RPCExecResult struct {
	Status         string            `json:"status"`
	Error          string            `json:"error,omitempty"`
	GasUsed        hexutil.Uint64    `json:"gasUsed"`
	TotalGasSpent  hexutil.Uint64    `json:"totalGasSpent"`
	GasRefund      hexutil.Uint64    `json:"gasRefund"`
	ReturnData     hexutil.Bytes     `json:"returnData"`
	Logs           []RPCLog          `json:"logs"`
	CreatedAddress *common.Address   `json:"createdAddress,omitempty"`
	Selfdestructed []common.Address  `json:"selfdestructed"`
	AccessList     *types.AccessList `json:"accessList,omitempty"`

	// Persisted height and digest after execution
	Height hexutil.Uint64 `json:"height"`
	Digest common.Hash    `json:"digest"`
}

// newRPCExecResult converts the response of the executor.
func newRPCExecResult(resp *node.Response) *RPCExecResult {
	res := resp.Result
	out := &RPCExecResult{
		Status:         res.Status.String(),
		GasUsed:        hexutil.Uint64(res.GasUsed),
		TotalGasSpent:  hexutil.Uint64(res.TotalGasSpent),
		GasRefund:      hexutil.Uint64(res.GasRefund),
		ReturnData:     res.ReturnData,
		Logs:           make([]RPCLog, 0, len(res.Logs)),
		CreatedAddress: res.CreatedAddress,
		Selfdestructed: res.Selfdestructed,
		Height:         hexutil.Uint64(resp.Height),
		Digest:         resp.Digest,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	for _, l := range res.Logs {
		ethLog := l.ToEthLog()
		out.Logs = append(out.Logs, RPCLog{
			Address: ethLog.Address,
			Topics:  ethLog.Topics,
			Data:    ethLog.Data,
		})
	}
	if out.Selfdestructed == nil {
		out.Selfdestructed = []common.Address{}
	}
	if res.AccessList != nil {
		al := res.AccessList
		out.AccessList = &al
	}
	return out
}

// RPCAccount is the persisted account of an address.
type RPCAccount struct {
	Exists   bool           `json:"exists"`
	Nonce    hexutil.Uint64 `json:"nonce"`
	Balance  *hexutil.Big   `json:"balance"`
	CodeHash common.Hash    `json:"codeHash"`
}

// RPCStatus is the status of the node.
type RPCStatus struct {
	ChainID  hexutil.Uint64           `json:"chainId"`
	Hardfork string                   `json:"hardfork"`
	EIPs     []int                    `json:"eips"`
	Height   hexutil.Uint64           `json:"height"`
	Digest   common.Hash              `json:"digest"`
	Caches   map[string]RPCCacheStats `json:"caches"`
}

// RPCCacheStats is the statistics of one state cache.
type RPCCacheStats struct {
	Size   int    `json:"size"`
	Reads  uint64 `json:"reads"`
	Hits   uint64 `json:"hits"`
	Writes uint64 `json:"writes"`
	Dels   uint64 `json:"dels"`
}

// AccessListResult is the result of exec_createAccessList.
type AccessListResult struct {
	Accesslist *types.AccessList `json:"accessList"`
	Error      string            `json:"error,omitempty"`
	GasUsed    hexutil.Uint64    `json:"gasUsed"`
}
