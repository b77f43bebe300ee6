package cli

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
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
	"github.com/wcgcyx/shardvm/node"
	"github.com/wcgcyx/shardvm/vm"
)

func runCode(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expect exactly one hex encoded code argument, got %v", c.NArg())
	}
	code, err := hexutil.Decode(c.Args().First())
	if err != nil {
		return fmt.Errorf("fail to decode code: %w", err)
	}
	var input []byte
	if c.String("input") != "" {
		input, err = hexutil.Decode(c.String("input"))
		if err != nil {
			return fmt.Errorf("fail to decode input: %w", err)
		}
	}
	valueBig, ok := new(big.Int).SetString(c.String("value"), 0)
	if !ok || valueBig.Sign() < 0 {
		return fmt.Errorf("invalid value %v", c.String("value"))
	}
	value, overflow := uint256.FromBig(valueBig)
	if overflow {
		return fmt.Errorf("value %v overflows 256 bits", c.String("value"))
	}
	if !common.IsHexAddress(c.String("sender")) || !common.IsHexAddress(c.String("receiver")) {
		return fmt.Errorf("invalid sender or receiver")
	}

	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	if !c.IsSet("path") {
		tmp, err := os.MkdirTemp("", "shardvm-run-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		conf.Path = tmp
	}
	rules, err := conf.Rules()
	if err != nil {
		return err
	}
	sstore, sm, err := openState(c.Context, conf)
	if err != nil {
		return err
	}
	defer sstore.Shutdown()

	e, err := node.NewExecutor(node.Opts{QueueSize: 1, JumpdestCacheSize: conf.EVMJumpdestCacheSize}, rules, sstore, sm)
	if err != nil {
		return err
	}
	go e.Mainloop()
	defer e.Shutdown()

	to := common.HexToAddress(c.String("receiver"))
	req := node.Request{
		Msg: &vm.Message{
			Caller:   common.HexToAddress(c.String("sender")),
			To:       &to,
			Code:     code,
			Value:    value,
			Data:     input,
			GasLimit: c.Uint64("gas"),
		},
		Block: vm.BlockContext{GasLimit: c.Uint64("gas")},
		Mode:  node.Simulate,
		Raw:   true,
	}
	if c.Bool("commit") {
		req.Mode = node.Commit
	}
	if c.Bool("trace") {
		req.Tracer = vm.LogTracer{}
	}
	resp, err := e.Execute(c.Context, req)
	if err != nil {
		return err
	}
	res := resp.Result
	fmt.Println("Status:     ", res.Status)
	if res.Err != nil {
		fmt.Println("Error:      ", res.Err.Error())
	}
	fmt.Println("Gas used:   ", res.GasUsed)
	fmt.Println("Gas refund: ", res.GasRefund)
	fmt.Println("Return:     ", hexutil.Encode(res.ReturnData))
	for i, l := range res.Logs {
		fmt.Printf("Log %v:      %v topics %v data %v\n", i, l.Address, l.Topics, hexutil.Encode(l.Data))
	}
	fmt.Println("Height:     ", resp.Height)
	return nil
}
