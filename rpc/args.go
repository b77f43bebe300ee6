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
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/wcgcyx/shardvm/vm"
)

const (
	// defaultBlockGasLimit is the block gas limit when none is given.
	defaultBlockGasLimit = uint64(30000000)
)

// ExecArgs represents the arguments to construct a message.
type ExecArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Gas   *hexutil.Uint64 `json:"gas"`
	Value *hexutil.Big    `json:"value"`

	// Prefer input, data is accepted for backward compatibility
	Data  *hexutil.Bytes `json:"data"`
	Input *hexutil.Bytes `json:"input"`

	// Code to run instead of the code stored at the recipient
	Code *hexutil.Bytes `json:"code,omitempty"`

	AccessList *types.AccessList `json:"accessList,omitempty"`
}

// data retrieves the transaction calldata. Input field is preferred.
func (args *ExecArgs) data() ([]byte, error) {
	if args.Input != nil && args.Data != nil && !bytes.Equal(*args.Input, *args.Data) {
		return nil, errors.New(`both "data" and "input" are set and not equal. Please use "input" to pass transaction call data`)
	}
	if args.Input != nil {
		return *args.Input, nil
	}
	if args.Data != nil {
		return *args.Data, nil
	}
	return nil, nil
}

// toMessage converts the arguments into a message, capping the gas at globalGasCap.
func (args *ExecArgs) toMessage(globalGasCap uint64) (*vm.Message, error) {
	data, err := args.data()
	if err != nil {
		return nil, err
	}
	gas := globalGasCap
	if gas == 0 {
		gas = defaultBlockGasLimit
	}
	if args.Gas != nil {
		if uint64(*args.Gas) > gas && globalGasCap != 0 {
			log.Warnf("Caller gas above allowance, capping requested %v cap %v", uint64(*args.Gas), globalGasCap)
		} else {
			gas = uint64(*args.Gas)
		}
	}
	msg := &vm.Message{
		Caller:   args.From,
		To:       args.To,
		Data:     data,
		GasLimit: gas,
	}
	if args.Value != nil {
		value, err := toUint256(args.Value.ToInt())
		if err != nil {
			return nil, fmt.Errorf("invalid value: %w", err)
		}
		msg.Value = value
	}
	if args.Code != nil {
		msg.Code = *args.Code
	}
	if args.AccessList != nil {
		msg.AccessList = *args.AccessList
	}
	return msg, nil
}

// BlockArgs represents the block environment of a message.
type BlockArgs struct {
	Coinbase    *common.Address `json:"coinbase,omitempty"`
	Number      *hexutil.Uint64 `json:"number,omitempty"`
	Time        *hexutil.Uint64 `json:"time,omitempty"`
	GasLimit    *hexutil.Uint64 `json:"gasLimit,omitempty"`
	BaseFee     *hexutil.Big    `json:"baseFee,omitempty"`
	BlobBaseFee *hexutil.Big    `json:"blobBaseFee,omitempty"`
	PrevRandao  *common.Hash    `json:"prevRandao,omitempty"`

	// Transaction environment
	Origin     *common.Address `json:"origin,omitempty"`
	GasPrice   *hexutil.Big    `json:"gasPrice,omitempty"`
	BlobHashes []common.Hash   `json:"blobHashes,omitempty"`
}

// toContext converts the arguments into the block and transaction context.
func (b *BlockArgs) toContext() (vm.BlockContext, vm.TxContext, error) {
	block := vm.BlockContext{GasLimit: defaultBlockGasLimit}
	tx := vm.TxContext{}
	if b == nil {
		return block, tx, nil
	}
	if b.Coinbase != nil {
		block.Coinbase = *b.Coinbase
	}
	if b.Number != nil {
		block.Number = uint64(*b.Number)
	}
	if b.Time != nil {
		block.Time = uint64(*b.Time)
	}
	if b.GasLimit != nil {
		block.GasLimit = uint64(*b.GasLimit)
	}
	if b.PrevRandao != nil {
		block.PrevRandao = *b.PrevRandao
	}
	var err error
	if b.BaseFee != nil {
		if block.BaseFee, err = toUint256(b.BaseFee.ToInt()); err != nil {
			return block, tx, fmt.Errorf("invalid base fee: %w", err)
		}
	}
	if b.BlobBaseFee != nil {
		if block.BlobBaseFee, err = toUint256(b.BlobBaseFee.ToInt()); err != nil {
			return block, tx, fmt.Errorf("invalid blob base fee: %w", err)
		}
	}
	if b.GasPrice != nil {
		if tx.GasPrice, err = toUint256(b.GasPrice.ToInt()); err != nil {
			return block, tx, fmt.Errorf("invalid gas price: %w", err)
		}
	}
	tx.Origin = b.Origin
	tx.BlobHashes = b.BlobHashes
	return block, tx, nil
}

// toUint256 converts a non-negative big integer.
func toUint256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, errors.New("negative value")
	}
	res, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errors.New("value overflows 256 bits")
	}
	return res, nil
}
