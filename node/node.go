package node

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

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log"
	"github.com/wcgcyx/shardvm/diffcache"
	"github.com/wcgcyx/shardvm/protocol"
	"github.com/wcgcyx/shardvm/statemanager"
	"github.com/wcgcyx/shardvm/statestore"
	itypes "github.com/wcgcyx/shardvm/types"
	"github.com/wcgcyx/shardvm/vm"
)

// Logger
var log = logging.Logger("node")

// Mode decides what happens to the state changes of a request.
type Mode int

const (
	// Commit flushes the changes of a successful transaction.
	Commit Mode = iota

	// Simulate discards the changes.
	Simulate
)

// Request is one message to execute.
type Request struct {
	Msg   *vm.Message
	Block vm.BlockContext
	Tx    vm.TxContext
	Mode  Mode

	// Run the message without the transaction wrapper.
	Raw bool

	// Record the access list of the transaction.
	ReportAccessList bool

	// Optional tracer.
	Tracer vm.Tracer
}

// Response is the outcome of a request.
type Response struct {
	Result *vm.ExecResult

	// Persisted height and digest after the request.
	Height uint64
	Digest common.Hash
}

type job struct {
	ctx  context.Context
	run  func(ctx context.Context) error
	done chan error
}

// Executor serializes all access to one state manager.
type Executor struct {
	opts Opts

	rules     *protocol.Rules
	sstore    statestore.StateStore
	sm        statemanager.StateManager
	jumpdests *vm.JumpdestCache

	requests chan job

	// Process related
	routineCtx context.Context
	exitLoop   chan bool

	// Shutdown function
	shutdown func()
}

// NewExecutor creates the executor.
func NewExecutor(opts Opts, rules *protocol.Rules, sstore statestore.StateStore, sm statemanager.StateManager) (*Executor, error) {
	if rules == nil {
		return nil, fmt.Errorf("rules must be provided")
	}
	var jumpdests *vm.JumpdestCache
	if opts.JumpdestCacheSize > 0 {
		var err error
		jumpdests, err = vm.NewJumpdestCache(opts.JumpdestCacheSize)
		if err != nil {
			return nil, err
		}
	}
	routineCtx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		opts:       opts,
		rules:      rules,
		sstore:     sstore,
		sm:         sm,
		jumpdests:  jumpdests,
		requests:   make(chan job, opts.QueueSize),
		routineCtx: routineCtx,
		exitLoop:   make(chan bool),
		shutdown:   func() { cancel() },
	}
	return e, nil
}

// Rules gets the rules used by the executor.
func (e *Executor) Rules() *protocol.Rules {
	return e.rules
}

// The mainloop of the executor.
func (e *Executor) Mainloop() {
	defer func() {
		e.exitLoop <- true
	}()
	log.Infof("Start main routine...")

	for {
		select {
		case <-e.routineCtx.Done():
			log.Infof("Shutdown executor mainloop")
			return
		case j := <-e.requests:
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			j.done <- j.run(j.ctx)
		}
	}
}

// submit queues the function and waits for its result.
func (e *Executor) submit(ctx context.Context, run func(ctx context.Context) error) error {
	j := job{ctx: ctx, run: run, done: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.routineCtx.Done():
		return fmt.Errorf("executor is shut down")
	case e.requests <- j:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.routineCtx.Done():
		return fmt.Errorf("executor is shut down")
	case err := <-j.done:
		return err
	}
}

// Execute executes the request.
// Changes are flushed only when the mode is Commit and the execution did not
// return an error. A failed transaction is still flushed. A context done before
// the flush reverts the whole request.
func (e *Executor) Execute(ctx context.Context, req Request) (*Response, error) {
	if req.Msg == nil {
		return nil, fmt.Errorf("message must be provided")
	}
	var resp *Response
	err := e.submit(ctx, func(ctx context.Context) error {
		var err error
		resp, err = e.execute(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// execute runs the request, it must be called from the mainloop.
func (e *Executor) execute(ctx context.Context, req Request) (*Response, error) {
	evm, err := vm.NewEVM(e.sm, e.rules, req.Block, req.Tx, vm.Opts{
		Tracer:           req.Tracer,
		Jumpdests:        e.jumpdests,
		ReportAccessList: req.ReportAccessList,
	})
	if err != nil {
		return nil, err
	}
	var res *vm.ExecResult
	if req.Raw {
		res, err = evm.Execute(ctx, req.Msg)
	} else {
		res, err = evm.RunTx(ctx, req.Msg)
	}
	if err != nil {
		e.sm.Discard()
		log.Warnf("Fail to execute message from %v: %v", req.Msg.Caller, err.Error())
		return nil, err
	}
	if req.Mode != Commit {
		e.sm.Discard()
		height, digest, err := e.sstore.GetPersistedHeight(ctx)
		if err != nil {
			return nil, err
		}
		return &Response{Result: res, Height: height, Digest: digest}, nil
	}
	height, digest, err := e.sm.Flush(ctx)
	if err != nil {
		e.sm.Discard()
		log.Errorf("Fail to flush state changes: %v", err.Error())
		return nil, err
	}
	log.Debugf("Flushed state at height %v with digest %v", height, digest)
	return &Response{Result: res, Height: height, Digest: digest}, nil
}

// Status gets the persisted height and digest and the cache statistics.
func (e *Executor) Status(ctx context.Context) (uint64, common.Hash, map[string]diffcache.Stats, error) {
	var (
		height uint64
		digest common.Hash
		stats  map[string]diffcache.Stats
	)
	err := e.submit(ctx, func(ctx context.Context) error {
		var err error
		height, digest, err = e.sstore.GetPersistedHeight(ctx)
		if err != nil {
			return err
		}
		stats = e.sm.Stats(false)
		return nil
	})
	return height, digest, stats, err
}

// GetAccount gets the persisted account of given address, nil if it does not exist.
func (e *Executor) GetAccount(ctx context.Context, addr common.Address) (*itypes.AccountValue, error) {
	var acct *itypes.AccountValue
	err := e.submit(ctx, func(ctx context.Context) error {
		var err error
		acct, err = e.sm.GetAccount(ctx, addr)
		return err
	})
	return acct, err
}

// GetStorageAt gets the persisted storage value.
func (e *Executor) GetStorageAt(ctx context.Context, addr common.Address, key common.Hash) (common.Hash, error) {
	var val common.Hash
	err := e.submit(ctx, func(ctx context.Context) error {
		var err error
		val, err = e.sm.GetContractStorage(ctx, addr, key)
		return err
	})
	return val, err
}

// GetCode gets the persisted code of given address.
func (e *Executor) GetCode(ctx context.Context, addr common.Address) ([]byte, error) {
	var code []byte
	err := e.submit(ctx, func(ctx context.Context) error {
		var err error
		code, err = e.sm.GetContractCode(ctx, addr)
		return err
	})
	return code, err
}

// Shutdown safely shuts down the main routine.
func (e *Executor) Shutdown() {
	log.Infof("Close main routine...")
	e.shutdown()
	<-e.exitLoop
}
