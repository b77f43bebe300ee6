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
	"errors"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	itypes "github.com/wcgcyx/shardvm/types"
)

// Status is the terminal state of an execution.
type Status int

const (
	Running Status = iota
	Halted
	Reverted
	Faulted
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Reverted:
		return "reverted"
	default:
		return "faulted"
	}
}

// GetHashFunc returns the hash of the given block number.
type GetHashFunc func(uint64) common.Hash

// BlockContext is the read only block environment of a transaction.
type BlockContext struct {
	Coinbase    common.Address
	Number      uint64
	Time        uint64
	GasLimit    uint64
	BaseFee     *uint256.Int
	BlobBaseFee *uint256.Int
	PrevRandao  common.Hash

	// GetHash resolves BLOCKHASH, nil returns zero for every block
	GetHash GetHashFunc
}

// TxContext is the transaction environment shared by all frames.
type TxContext struct {
	// Origin of the transaction, the depth 0 caller when unset
	Origin *common.Address

	GasPrice   *uint256.Int
	BlobHashes []common.Hash
}

// Message is one call or create to execute.
type Message struct {
	// The caller of the message
	Caller common.Address

	// The recipient, nil for contract creation
	To *common.Address

	// The account whose code is run, the recipient if nil
	CodeAddress *common.Address

	// Code to run instead of the code stored at the code address
	Code []byte

	// Value transferred
	Value *uint256.Int

	// Input data, the initcode for contract creation
	Data []byte

	// Gas available to the message
	GasLimit uint64

	// Call depth, 0 for a transaction
	Depth int

	// Whether state changes are forbidden
	IsStatic bool

	// CREATE2 salt, nil for CREATE
	Salt *common.Hash

	// Whether the message is a DELEGATECALL
	Delegatecall bool

	// The invoker paying for an AUTHCALL
	AuthcallOrigin *common.Address

	// Access list pre-warmed by RunTx
	AccessList types.AccessList

	// Frame state carried from the parent
	gasRefund        uint64
	selfdestruct     mapset.Set[common.Address]
	createdAddresses mapset.Set[common.Address]
	precompile       precompile
}

// codeAddress gets the address whose code is run.
func (msg *Message) codeAddress() common.Address {
	if msg.CodeAddress != nil {
		return *msg.CodeAddress
	}
	if msg.To != nil {
		return *msg.To
	}
	return common.Address{}
}

// value gets the transferred value, zero if unset.
func (msg *Message) value() *uint256.Int {
	if msg.Value == nil {
		return new(uint256.Int)
	}
	return msg.Value
}

// ExecResult is the result of executing a message.
type ExecResult struct {
	// Gas consumed by the execution, all of the gas limit on a fault
	GasUsed uint64

	// Output of RETURN or REVERT
	ReturnData []byte

	// Logs emitted, empty on failure
	Logs []itypes.Log

	// The address of the created contract
	CreatedAddress *common.Address

	// Accounts that executed SELFDESTRUCT, in address order
	Selfdestructed []common.Address

	// Refund counter at the end of execution
	GasRefund uint64

	// Terminal status
	Status Status

	// The fault or ErrRevert, nil when halted
	Err error

	// Set by RunTx only

	// Total gas charged to the transaction after refund
	TotalGasSpent uint64

	// Recorded access list, nil unless reporting
	AccessList types.AccessList

	selfdestruct     mapset.Set[common.Address]
	createdAddresses mapset.Set[common.Address]
}

// Reverted checks if the execution ended with REVERT, keeping its return data.
func (r *ExecResult) Reverted() bool {
	return errors.Is(r.Err, ErrRevert)
}

// Failed checks if the execution reverted or faulted.
func (r *ExecResult) Failed() bool {
	return r.Err != nil
}

// finalize fills the exported fields derived from the frame sets.
func (r *ExecResult) finalize() {
	switch {
	case r.Err == nil:
		r.Status = Halted
	case r.Reverted():
		r.Status = Reverted
	default:
		r.Status = Faulted
	}
	if r.ReturnData == nil {
		r.ReturnData = []byte{}
	}
	if r.Logs == nil {
		r.Logs = []itypes.Log{}
	}
	r.Selfdestructed = sortedAddresses(r.selfdestruct)
}

func sortedAddresses(set mapset.Set[common.Address]) []common.Address {
	if set == nil {
		return []common.Address{}
	}
	res := set.ToSlice()
	sort.Slice(res, func(i, j int) bool {
		return res[i].Cmp(res[j]) < 0
	})
	return res
}
