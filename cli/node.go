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
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ethereum/go-ethereum/core/types"
	logging "github.com/ipfs/go-log"
	"github.com/urfave/cli/v2"
	"github.com/wcgcyx/shardvm/config"
	"github.com/wcgcyx/shardvm/node"
	"github.com/wcgcyx/shardvm/rpc"
	"github.com/wcgcyx/shardvm/statemanager"
	"github.com/wcgcyx/shardvm/statestore"
)

// Logger
var log = logging.Logger("node")

// loadConfig loads the config and applies the common flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	conf, err := config.NewConfig(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if c.IsSet("path") {
		log.Infof("Override path to be %v", c.String("path"))
		conf.Path = c.String("path")
	}
	if c.IsSet("genesis") {
		log.Infof("Override genesis to be %v", c.String("genesis"))
		conf.GenesisFile = c.String("genesis")
	}
	if c.IsSet("hardfork") {
		log.Infof("Override hardfork to be %v", c.String("hardfork"))
		conf.Hardfork = c.String("hardfork")
	}
	return conf, nil
}

// readGenesis reads the genesis allocation, empty if no file is given.
func readGenesis(path string) (types.GenesisAlloc, error) {
	alloc := types.GenesisAlloc{}
	if path == "" {
		return alloc, nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(contents, &alloc)
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// openState opens the statestore and the statemanager over it.
func openState(ctx context.Context, conf config.Config) (statestore.StateStore, statemanager.StateManager, error) {
	genesis, err := readGenesis(conf.GenesisFile)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Start statestore...")
	sstore, err := statestore.NewStateStoreImpl(ctx, statestore.Opts{
		Path:         filepath.Join(conf.Path, "statedata"),
		GCPeriod:     conf.StateStoreGCPeriod,
		ReadTimeout:  conf.DSTimeout,
		WriteTimeout: conf.DSTimeout,
	}, genesis)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Statestore started.")
	sm, err := statemanager.NewStateManagerImpl(statemanager.Opts{
		AccountCacheSize: conf.StateManagerAccountCacheSize,
		StorageCacheSize: conf.StateManagerStorageCacheSize,
		CodeCacheSize:    conf.StateManagerCodeCacheSize,
	}, sstore)
	if err != nil {
		sstore.Shutdown()
		return nil, nil, err
	}
	return sstore, sm, nil
}

func runNode(c *cli.Context) error {
	// Load config
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("chain-id") {
		log.Infof("Override chain-id to be %v", c.Uint64("chain-id"))
		conf.ChainID = c.Uint64("chain-id")
	}
	if c.IsSet("rpc-host") {
		log.Infof("Override rpc-host to be %v", c.String("rpc-host"))
		conf.RPCHost = c.String("rpc-host")
	}
	if c.IsSet("rpc-port") {
		log.Infof("Override rpc-port to be %v", c.String("rpc-port"))
		conf.RPCPort = uint64(c.Int("rpc-port"))
	}
	rules, err := conf.Rules()
	if err != nil {
		return err
	}
	log.Infof("Use rules of %v with chain id %v and eips %v", rules.Hardfork(), conf.ChainID, rules.ActiveEIPs())

	// Create statestore and statemanager
	sstore, sm, err := openState(c.Context, conf)
	if err != nil {
		return err
	}
	defer sstore.Shutdown()

	// Create executor
	e, err := node.NewExecutor(node.Opts{
		QueueSize:         conf.NodeQueueSize,
		JumpdestCacheSize: conf.EVMJumpdestCacheSize,
	}, rules, sstore, sm)
	if err != nil {
		return err
	}

	// Start mainloop
	go e.Mainloop()

	// Create API server
	log.Infof("Start API Server...")
	apiServer, err := rpc.NewServer(rpc.Opts{
		Host:          conf.RPCHost,
		Port:          conf.RPCPort,
		RPCGasCap:     conf.RPCGasCap,
		RPCEVMTimeout: conf.RPCEVMTimeout,
	}, e)
	if err != nil {
		e.Shutdown()
		return err
	}
	log.Infof("Start serving at %v:%v", conf.RPCHost, conf.RPCPort)

	// Configure graceful shutdown.
	cc := make(chan os.Signal, 1)
	signal.Notify(cc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	<-cc
	log.Infof("Graceful shutdown...")
	apiServer.Shutdown()
	e.Shutdown()
	return nil
}
