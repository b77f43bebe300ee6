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
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/shardvm/journal"
	"github.com/wcgcyx/shardvm/protocol"
	"github.com/wcgcyx/shardvm/statemanager"
	"github.com/wcgcyx/shardvm/transient"
	itypes "github.com/wcgcyx/shardvm/types"
)

// Logger
var log = logging.Logger("vm")

// Opts is the options for the EVM.
type Opts struct {
	// Tracer receiving execution events, NoopTracer if nil
	Tracer Tracer

	// Shared jump analysis cache, analysis is not cached if nil
	Jumpdests *JumpdestCache

	// Record the access list of RunTx
	ReportAccessList bool
}

// EVM executes the messages of one transaction.
// It is not safe for concurrent use.
type EVM struct {
	rules       *protocol.Rules
	sm          statemanager.StateManager
	journal     *journal.Journal
	transient   *transient.Storage
	block       BlockContext
	tx          TxContext
	tracer      Tracer
	jumpdests   *JumpdestCache
	precompiles map[common.Address]precompile
	opcodes     *opcodeTable
	opts        Opts

	// Origin of the running transaction
	origin common.Address
}

// NewEVM creates a new EVM over the given state manager.
func NewEVM(sm statemanager.StateManager, rules *protocol.Rules, block BlockContext, tx TxContext, opts Opts) (*EVM, error) {
	if sm == nil {
		return nil, fmt.Errorf("state manager must be provided")
	}
	if rules == nil {
		return nil, fmt.Errorf("rules must be provided")
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = NoopTracer{}
	}
	evm := &EVM{
		rules:       rules,
		sm:          sm,
		journal:     journal.New(sm, rules),
		transient:   transient.New(),
		block:       block,
		tx:          tx,
		tracer:      tracer,
		jumpdests:   opts.Jumpdests,
		precompiles: activePrecompiles(rules),
		opcodes:     newOpcodeTable(rules),
		opts:        opts,
	}
	if tx.Origin != nil {
		evm.origin = *tx.Origin
	}
	return evm, nil
}

// Rules gets the active rules.
func (evm *EVM) Rules() *protocol.Rules {
	return evm.rules
}

// Journal gets the journal of the EVM.
func (evm *EVM) Journal() *journal.Journal {
	return evm.journal
}

// Transient gets the transient storage of the EVM.
func (evm *EVM) Transient() *transient.Storage {
	return evm.transient
}

// Execute executes the message.
// Faults of the execution are reported in the result. The returned error is only
// set when the state could not be accessed or the context is done. The checkpoints
// opened by the message are reverted, the caller should discard the state manager.
func (evm *EVM) Execute(ctx context.Context, msg *Message) (*ExecResult, error) {
	res, err := evm.runCall(ctx, msg)
	if err != nil {
		return nil, unwrapFatal(err)
	}
	return res, nil
}

// RunTx executes the message as a transaction. It charges the intrinsic gas,
// warms the accessed addresses, caps the refund and cleans up touched and
// destroyed accounts.
func (evm *EVM) RunTx(ctx context.Context, msg *Message) (*ExecResult, error) {
	if msg.Depth != 0 {
		return nil, fmt.Errorf("transaction must start at depth 0, got %v", msg.Depth)
	}
	intrinsic, err := IntrinsicGas(evm.rules, msg)
	if err != nil {
		return nil, err
	}
	if msg.GasLimit < intrinsic {
		return nil, fmt.Errorf("%w: have %v, want %v", ErrIntrinsicGas, msg.GasLimit, intrinsic)
	}
	caller, err := evm.sm.GetAccount(ctx, msg.Caller)
	if err != nil {
		return nil, err
	}
	if caller != nil && caller.Nonce == maxUint64 {
		return nil, fmt.Errorf("%w: address %v", ErrNonceMax, msg.Caller)
	}
	if evm.opts.ReportAccessList {
		evm.journal.StartReportingAccessList()
	}
	for _, tuple := range msg.AccessList {
		evm.journal.AddAlwaysWarmAddress(tuple.Address, true)
		for _, key := range tuple.StorageKeys {
			evm.journal.AddAlwaysWarmSlot(tuple.Address, key, true)
		}
	}
	evm.sm.ClearOriginalStorageCache()
	if evm.rules.IsActivatedEIP(2929) {
		for _, addr := range PrecompileAddresses(evm.rules) {
			evm.journal.AddAlwaysWarmAddress(addr, false)
		}
		evm.journal.AddAlwaysWarmAddress(msg.Caller, false)
		if msg.To != nil {
			evm.journal.AddAlwaysWarmAddress(*msg.To, false)
		}
		if evm.rules.IsActivatedEIP(3651) {
			evm.journal.AddAlwaysWarmAddress(evm.block.Coinbase, false)
		}
	}

	txMsg := *msg
	txMsg.GasLimit -= intrinsic
	res, err := evm.runCall(ctx, &txMsg)
	if err != nil {
		evm.journal.CleanJournal()
		evm.transient.Clear()
		return nil, unwrapFatal(err)
	}

	res.TotalGasSpent = res.GasUsed + intrinsic
	refund := res.GasRefund
	if limit := res.TotalGasSpent / evm.rules.Param(protocol.MaxRefundQuotient); refund > limit {
		refund = limit
	}
	res.TotalGasSpent -= refund

	for _, addr := range res.Selfdestructed {
		if evm.rules.IsActivatedEIP(6780) && !res.createdAddresses.Contains(addr) {
			continue
		}
		if err = evm.journal.DeleteAccount(ctx, addr); err != nil {
			return nil, err
		}
	}
	if evm.opts.ReportAccessList {
		res.AccessList = evm.journal.AccessList()
	}
	if err = evm.journal.Cleanup(ctx); err != nil {
		return nil, err
	}
	evm.transient.Clear()
	evm.sm.ClearOriginalStorageCache()
	log.Debugf("Transaction from %v finished with status %v, gas spent %v, refund %v", msg.Caller, res.Status, res.TotalGasSpent, refund)
	return res, nil
}

// IntrinsicGas computes the gas charged for a transaction before execution.
func IntrinsicGas(rules *protocol.Rules, msg *Message) (uint64, error) {
	gas := rules.Param(protocol.GasTx)
	if msg.To == nil {
		gas = rules.Param(protocol.GasTxCreate)
	}
	var zeros uint64
	for _, b := range msg.Data {
		if b == 0 {
			zeros++
		}
	}
	nonZeros := uint64(len(msg.Data)) - zeros
	gas += zeros*rules.Param(protocol.GasTxDataZero) + nonZeros*rules.Param(protocol.GasTxDataNonZero)
	if msg.To == nil && rules.IsActivatedEIP(3860) {
		if uint64(len(msg.Data)) > rules.Param(protocol.MaxInitCodeSize) && !rules.AllowUnlimitedInitCodeSize {
			return 0, ErrInitcodeSizeViolation
		}
		gas += toWordSize(uint64(len(msg.Data))) * rules.Param(protocol.GasInitCodeWord)
	}
	if len(msg.AccessList) > 0 {
		gas += uint64(len(msg.AccessList)) * rules.Param(protocol.GasTxAccessListAddress)
		gas += uint64(msg.AccessList.StorageKeys()) * rules.Param(protocol.GasTxAccessListStorageKey)
	}
	return gas, nil
}

// runCall executes a message inside its own checkpoint.
func (evm *EVM) runCall(ctx context.Context, msg *Message) (*ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fatal(err)
	}
	if msg.selfdestruct == nil {
		msg.selfdestruct = mapset.NewThreadUnsafeSet[common.Address]()
	}
	if msg.createdAddresses == nil {
		msg.createdAddresses = mapset.NewThreadUnsafeSet[common.Address]()
	}
	evm.tracer.CaptureEnter(msg)

	if msg.Depth == 0 {
		if evm.tx.Origin == nil {
			evm.origin = msg.Caller
		}
		caller, err := evm.getAccount(ctx, msg.Caller)
		if err != nil {
			return nil, err
		}
		caller.Nonce++
		if err = evm.journal.PutAccount(ctx, msg.Caller, caller); err != nil {
			return nil, fatal(err)
		}
	}
	if msg.To == nil && evm.rules.IsActivatedEIP(2929) {
		addr, err := evm.generateAddress(ctx, msg)
		if err != nil {
			return nil, err
		}
		evm.journal.AddWarmedAddress(addr)
	}

	evm.journal.Checkpoint()
	if evm.rules.IsActivatedEIP(1153) {
		evm.transient.Checkpoint()
	}
	var (
		res *ExecResult
		err error
	)
	if msg.To != nil {
		res, err = evm.executeCall(ctx, msg)
	} else {
		res, err = evm.executeCreate(ctx, msg)
	}
	if err != nil {
		evm.revert()
		return nil, err
	}

	if res.Err != nil && !errors.Is(res.Err, ErrCodestoreOutOfGas) {
		res.selfdestruct = mapset.NewThreadUnsafeSet[common.Address]()
		res.createdAddresses = mapset.NewThreadUnsafeSet[common.Address]()
		res.GasRefund = 0
	}
	if res.Err != nil && !(evm.rules.Hardfork() == protocol.Chainstart && errors.Is(res.Err, ErrCodestoreOutOfGas)) {
		res.Logs = nil
		if err = evm.revert(); err != nil {
			return nil, fatal(err)
		}
	} else {
		if err = evm.journal.Commit(); err != nil {
			return nil, fatal(err)
		}
		if evm.rules.IsActivatedEIP(1153) {
			if err = evm.transient.Commit(); err != nil {
				return nil, fatal(err)
			}
		}
	}
	if msg.Depth == 0 && evm.rules.IsActivatedEIP(1153) {
		evm.transient.Clear()
	}
	res.finalize()
	evm.tracer.CaptureExit(msg, res)
	return res, nil
}

// revert reverts the checkpoint of the current message.
func (evm *EVM) revert() error {
	if err := evm.journal.Revert(); err != nil {
		return err
	}
	if evm.rules.IsActivatedEIP(1153) {
		return evm.transient.Revert()
	}
	return nil
}

// executeCall transfers the value and runs the code of the recipient.
func (evm *EVM) executeCall(ctx context.Context, msg *Message) (*ExecResult, error) {
	res := &ExecResult{
		GasRefund:        msg.gasRefund,
		selfdestruct:     msg.selfdestruct,
		createdAddresses: msg.createdAddresses,
	}
	value := msg.value()
	if !msg.Delegatecall && !value.IsZero() {
		payer := msg.Caller
		if msg.AuthcallOrigin != nil {
			payer = *msg.AuthcallOrigin
		}
		ok, err := evm.subBalance(ctx, payer, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Err = ErrInsufficientBalance
			return res, nil
		}
		to, err := evm.getAccount(ctx, *msg.To)
		if err != nil {
			return nil, err
		}
		if ok, err = evm.addBalance(ctx, *msg.To, to, value); err != nil {
			return nil, err
		} else if !ok {
			res.Err = ErrValueOverflow
			return res, nil
		}
	}

	codeAddr := msg.codeAddress()
	code := msg.Code
	codeHash := common.Hash{}
	if code == nil {
		if pre, ok := evm.precompiles[codeAddr]; ok {
			msg.precompile = pre
		} else {
			acct, err := evm.sm.GetAccount(ctx, codeAddr)
			if err != nil {
				return nil, fatal(err)
			}
			if acct != nil && acct.CodeHash != types.EmptyCodeHash {
				codeHash = acct.CodeHash
				if code, err = evm.sm.GetContractCode(ctx, codeAddr); err != nil {
					return nil, fatal(err)
				}
			}
		}
	}
	if msg.precompile != nil {
		ret, gasUsed, err := msg.precompile(evm.rules, msg.Data, msg.GasLimit)
		res.GasUsed = gasUsed
		res.Err = err
		if err == nil {
			res.ReturnData = ret
		}
		log.Debugf("Precompile %v used %v gas, err %v", codeAddr, gasUsed, err)
		return res, nil
	}
	if len(code) == 0 {
		return res, nil
	}
	return evm.runInterpreter(ctx, msg, *msg.To, code, codeHash)
}

// executeCreate deploys a contract from the initcode in the message data.
func (evm *EVM) executeCreate(ctx context.Context, msg *Message) (*ExecResult, error) {
	res := &ExecResult{
		GasRefund:        msg.gasRefund,
		selfdestruct:     msg.selfdestruct,
		createdAddresses: msg.createdAddresses,
	}
	value := msg.value()
	if !value.IsZero() {
		ok, err := evm.subBalance(ctx, msg.Caller, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Err = ErrInsufficientBalance
			return res, nil
		}
	}
	rules := evm.rules
	if rules.IsActivatedEIP(3860) && uint64(len(msg.Data)) > rules.Param(protocol.MaxInitCodeSize) && !rules.AllowUnlimitedInitCodeSize {
		res.GasUsed = msg.GasLimit
		res.Err = ErrInitcodeSizeViolation
		return res, nil
	}

	initcode := msg.Data
	addr, err := evm.generateAddress(ctx, msg)
	if err != nil {
		return nil, err
	}
	res.CreatedAddress = &addr
	if rules.IsActivatedEIP(6780) {
		msg.createdAddresses.Add(addr)
	}
	acct, err := evm.getAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	if acct.Nonce > 0 || acct.CodeHash != types.EmptyCodeHash {
		log.Debugf("Create collision at %v", addr)
		res.GasUsed = msg.GasLimit
		res.Err = ErrCreateCollision
		return res, nil
	}
	if err = evm.journal.PutAccount(ctx, addr, acct); err != nil {
		return nil, fatal(err)
	}
	if err = evm.sm.ClearContractStorage(ctx, addr); err != nil {
		return nil, fatal(err)
	}
	if acct, err = evm.getAccount(ctx, addr); err != nil {
		return nil, err
	}
	if rules.GteHardfork(protocol.SpuriousDragon) {
		acct.Nonce++
	}
	ok, err := evm.addBalance(ctx, addr, acct, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		res.Err = ErrValueOverflow
		return res, nil
	}
	if len(initcode) == 0 {
		return res, nil
	}

	createMsg := *msg
	createMsg.To = &addr
	createMsg.CodeAddress = nil
	createMsg.Data = []byte{}
	created, err := evm.runInterpreter(ctx, &createMsg, addr, initcode, common.Hash{})
	if err != nil {
		return nil, err
	}
	created.CreatedAddress = &addr

	totalGas := created.GasUsed
	returnFee := uint64(0)
	allowedCodeSize := true
	if created.Err == nil {
		returnFee = uint64(len(created.ReturnData)) * rules.Param(protocol.GasCreateData)
		totalGas += returnFee
		if rules.GteHardfork(protocol.SpuriousDragon) && uint64(len(created.ReturnData)) > rules.Param(protocol.MaxCodeSize) {
			allowedCodeSize = false
		}
	}
	codestoreOOG := false
	if totalGas <= msg.GasLimit && (rules.AllowUnlimitedContractSize || allowedCodeSize) {
		if rules.IsActivatedEIP(3541) && len(created.ReturnData) > 0 && created.ReturnData[0] == 0xEF {
			created.failAll(msg.GasLimit, ErrInvalidBytecodeResult)
		} else {
			created.GasUsed = totalGas
		}
	} else if rules.GteHardfork(protocol.Homestead) {
		if !allowedCodeSize {
			created.failAll(msg.GasLimit, ErrCodesizeExceedsMaximum)
		} else {
			created.failAll(msg.GasLimit, ErrOutOfGas)
		}
	} else if totalGas-returnFee <= msg.GasLimit {
		// The initcode ran but the deposit cannot be paid
		created.GasUsed = totalGas - returnFee
		created.Err = ErrCodestoreOutOfGas
		created.ReturnData = nil
		codestoreOOG = true
	} else {
		created.failAll(msg.GasLimit, ErrOutOfGas)
	}

	if created.Err == nil && len(created.ReturnData) > 0 {
		if err = evm.sm.PutContractCode(ctx, addr, created.ReturnData); err != nil {
			return nil, fatal(err)
		}
	} else if codestoreOOG && !rules.GteHardfork(protocol.Homestead) {
		acct, err := evm.getAccount(ctx, addr)
		if err != nil {
			return nil, err
		}
		if err = evm.journal.PutAccount(ctx, addr, acct); err != nil {
			return nil, fatal(err)
		}
	}
	return created, nil
}

// runInterpreter runs the code in a new frame.
func (evm *EVM) runInterpreter(ctx context.Context, msg *Message, addr common.Address, code []byte, codeHash common.Hash) (*ExecResult, error) {
	in := newInterpreter(evm, msg, addr, code, codeHash)
	defer in.release()
	err := in.run(ctx)
	if isFatal(err) {
		return nil, err
	}
	res := &ExecResult{
		GasUsed:          msg.GasLimit - in.gasLeft,
		ReturnData:       in.output,
		Logs:             in.logs,
		GasRefund:        in.refund,
		Err:              err,
		selfdestruct:     in.selfdestruct,
		createdAddresses: in.createdAddresses,
	}
	if err != nil {
		if isFault(err) {
			res.GasUsed = msg.GasLimit
			res.ReturnData = nil
		}
		res.Logs = nil
		res.selfdestruct = mapset.NewThreadUnsafeSet[common.Address]()
		res.createdAddresses = mapset.NewThreadUnsafeSet[common.Address]()
	}
	return res, nil
}

// failAll turns the result into a fault consuming all gas.
func (r *ExecResult) failAll(gasLimit uint64, err error) {
	r.GasUsed = gasLimit
	r.Err = err
	r.ReturnData = nil
	r.Logs = nil
}

// generateAddress derives the address of the contract created by the message.
// The caller nonce has already been increased.
func (evm *EVM) generateAddress(ctx context.Context, msg *Message) (common.Address, error) {
	if msg.Salt != nil {
		return crypto.CreateAddress2(msg.Caller, *msg.Salt, crypto.Keccak256(msg.Data)), nil
	}
	acct, err := evm.getAccount(ctx, msg.Caller)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.CreateAddress(msg.Caller, acct.Nonce-1), nil
}

// getAccount gets the account of given address, an empty account if it does not exist.
func (evm *EVM) getAccount(ctx context.Context, addr common.Address) (*itypes.AccountValue, error) {
	acct, err := evm.sm.GetAccount(ctx, addr)
	if err != nil {
		return nil, fatal(err)
	}
	if acct == nil {
		return itypes.NewAccountValue(0), nil
	}
	return acct, nil
}

// subBalance takes value from the account, false if the balance is insufficient.
func (evm *EVM) subBalance(ctx context.Context, addr common.Address, value *uint256.Int) (bool, error) {
	acct, err := evm.getAccount(ctx, addr)
	if err != nil {
		return false, err
	}
	if acct.Balance.Lt(value) {
		return false, nil
	}
	acct.Balance = new(uint256.Int).Sub(acct.Balance, value)
	if err = evm.journal.PutAccount(ctx, addr, acct); err != nil {
		return false, fatal(err)
	}
	return true, nil
}

// addBalance adds value to the given account and saves it, false if the balance overflows.
func (evm *EVM) addBalance(ctx context.Context, addr common.Address, acct *itypes.AccountValue, value *uint256.Int) (bool, error) {
	balance, overflow := new(uint256.Int).AddOverflow(acct.Balance, value)
	if overflow {
		return false, nil
	}
	acct.Balance = balance
	if err := evm.journal.PutAccount(ctx, addr, acct); err != nil {
		return false, fatal(err)
	}
	return true, nil
}

// analyse gets the jump analysis of the code.
func (evm *EVM) analyse(codeHash common.Hash, code []byte) bitvec {
	if evm.jumpdests == nil {
		return codeBitmap(code)
	}
	return evm.jumpdests.analyse(codeHash, code)
}

// fatalError is a failure to access the state. It aborts the whole transaction.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) Unwrap() error {
	return e.err
}

// fatal marks err as a failure that aborts the transaction.
func fatal(err error) error {
	if err == nil || isFatal(err) {
		return err
	}
	return &fatalError{err: err}
}

func isFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

func unwrapFatal(err error) error {
	var fe *fatalError
	if errors.As(err, &fe) {
		return fe.err
	}
	return err
}
