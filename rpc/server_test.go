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
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/wcgcyx/shardvm/node"
	"github.com/wcgcyx/shardvm/protocol"
	"github.com/wcgcyx/shardvm/statemanager"
	"github.com/wcgcyx/shardvm/statestore"
)

const (
	testDS   = "./test-ds"
	testPort = uint64(9425)
)

var (
	testCaller   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testContract = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	testStranger = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	// PUSH1 1 PUSH1 0 SSTORE STOP
	testCode = []byte{0x60, 0x01, 0x60, 0x00, 0x55, 0x00}
)

func TestMain(m *testing.M) {
	os.RemoveAll(testDS)
	os.Mkdir(testDS, os.ModePerm)
	defer os.RemoveAll(testDS)
	m.Run()
}

func TestExecAPI(t *testing.T) {
	ctx := context.Background()
	sstore, err := statestore.NewStateStoreImpl(ctx, statestore.Opts{
		Path:         testDS,
		GCPeriod:     time.Minute,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, types.GenesisAlloc{
		testCaller:   {Balance: big.NewInt(1000000)},
		testContract: {Code: testCode},
	})
	assert.Nil(t, err)
	defer sstore.Shutdown()
	sm, err := statemanager.NewStateManagerImpl(statemanager.Opts{
		AccountCacheSize: 16,
		StorageCacheSize: 16,
		CodeCacheSize:    16,
	}, sstore)
	assert.Nil(t, err)
	rules, err := protocol.NewRules(protocol.Cancun, 1, nil)
	assert.Nil(t, err)
	e, err := node.NewExecutor(node.Opts{QueueSize: 4}, rules, sstore, sm)
	assert.Nil(t, err)
	go e.Mainloop()
	defer e.Shutdown()

	s, err := NewServer(Opts{
		Host:          "localhost",
		Port:          testPort,
		RPCGasCap:     1000000,
		RPCEVMTimeout: 5 * time.Second,
	}, e)
	assert.Nil(t, err)
	defer s.Shutdown()

	client, closer, err := NewClient(ctx, "localhost", testPort)
	assert.Nil(t, err)
	defer closer()

	chainID, err := client.ChainId(ctx)
	assert.Nil(t, err)
	assert.Equal(t, hexutil.Uint64(1), chainID)

	to := testContract
	gas := hexutil.Uint64(100000)
	args := ExecArgs{From: testCaller, To: &to, Gas: &gas}

	// Simulation leaves the state unchanged
	res, err := client.Call(ctx, args, nil)
	assert.Nil(t, err)
	assert.Equal(t, "halted", res.Status)
	assert.Equal(t, hexutil.Uint64(0), res.Height)
	nonce, err := client.GetTransactionCount(ctx, testCaller)
	assert.Nil(t, err)
	assert.Equal(t, hexutil.Uint64(0), nonce)

	// Berlin style cold sstore from zero
	res, err = client.Execute(ctx, args, nil)
	assert.Nil(t, err)
	assert.Equal(t, "halted", res.Status)
	assert.Equal(t, hexutil.Uint64(43106), res.TotalGasSpent)
	assert.Equal(t, hexutil.Uint64(1), res.Height)

	val, err := client.GetStorageAt(ctx, testContract, common.Hash{})
	assert.Nil(t, err)
	assert.Equal(t, common.BigToHash(big.NewInt(1)), val)

	nonce, err = client.GetTransactionCount(ctx, testCaller)
	assert.Nil(t, err)
	assert.Equal(t, hexutil.Uint64(1), nonce)

	balance, err := client.GetBalance(ctx, testCaller)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(1000000), balance.ToInt())

	code, err := client.GetCode(ctx, testContract)
	assert.Nil(t, err)
	assert.Equal(t, hexutil.Bytes(testCode), code)

	acct, err := client.GetAccount(ctx, testStranger)
	assert.Nil(t, err)
	assert.False(t, acct.Exists)
	assert.Equal(t, types.EmptyCodeHash, acct.CodeHash)

	// Run custom code: PUSH1 2 PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	runCode := hexutil.Bytes{0x60, 0x02, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3}
	res, err = client.Run(ctx, ExecArgs{From: testCaller, To: &to, Gas: &gas, Code: &runCode}, nil)
	assert.Nil(t, err)
	assert.Equal(t, hexutil.Bytes(common.BigToHash(big.NewInt(2)).Bytes()), res.ReturnData)

	estimate, err := client.EstimateGas(ctx, args, nil)
	assert.Nil(t, err)
	assert.True(t, uint64(estimate) >= 21000)
	assert.True(t, uint64(estimate) <= uint64(gas))

	al, err := client.CreateAccessList(ctx, args, nil)
	assert.Nil(t, err)
	assert.Empty(t, al.Error)
	assert.Equal(t, types.AccessList{{Address: testContract, StorageKeys: []common.Hash{{}}}}, *al.Accesslist)

	trace, err := client.TraceCall(ctx, args, nil, &TraceConfig{})
	assert.Nil(t, err)
	assert.False(t, trace.Failed)
	assert.Len(t, trace.StructLogs, 4)
	assert.Equal(t, "SSTORE", trace.StructLogs[2].Op)
	assert.Equal(t, []string{"0x1", "0x0"}, trace.StructLogs[2].Stack)

	status, err := client.Status(ctx)
	assert.Nil(t, err)
	assert.Equal(t, hexutil.Uint64(1), status.Height)
	assert.Equal(t, res.Digest, status.Digest)
	assert.Equal(t, "cancun", status.Hardfork)
}
