package config

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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	logging "github.com/ipfs/go-log"
	"github.com/spf13/viper"
	"github.com/wcgcyx/shardvm/protocol"
)

// Logger
var log = logging.Logger("config")

const (
	defaultConfigPath = ".shardvm"
)

type Config struct {
	// Global
	GlobalLoggingLevel string        `mapstructure:"LOGGING"`      // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.
	Path               string        `mapstructure:"DATA_DIR"`     // Main datastore path.
	GenesisFile        string        `mapstructure:"GENESIS_FILE"` // Genesis allocation in JSON, empty for no allocation.
	DSTimeout          time.Duration `mapstructure:"DS_TIMEOUT"`   // Datastore timeout.

	// Statestore
	StateStoreGCPeriod time.Duration `mapstructure:"STATESTORE_GC_PERIOD"` // Statestore GC period.

	// Protocol
	Hardfork                   string `mapstructure:"HARDFORK"`                      // Active hardfork.
	ChainID                    uint64 `mapstructure:"CHAIN_ID"`                      // Chain id.
	ExtraEIPs                  []int  `mapstructure:"EXTRA_EIPS"`                    // EIPs activated on top of the hardfork.
	AllowUnlimitedContractSize bool   `mapstructure:"ALLOW_UNLIMITED_CONTRACT_SIZE"` // Skip the deployed code size limit.
	AllowUnlimitedInitCodeSize bool   `mapstructure:"ALLOW_UNLIMITED_INITCODE_SIZE"` // Skip the initcode size limit.

	// Statemanager
	StateManagerAccountCacheSize int `mapstructure:"STATEMANAGER_ACCOUNT_CACHE_SIZE"` // Account read cache size.
	StateManagerStorageCacheSize int `mapstructure:"STATEMANAGER_STORAGE_CACHE_SIZE"` // Storage read cache size.
	StateManagerCodeCacheSize    int `mapstructure:"STATEMANAGER_CODE_CACHE_SIZE"`    // Code read cache size.

	// EVM
	EVMJumpdestCacheSize int `mapstructure:"EVM_JUMPDEST_CACHE_SIZE"` // Jump analysis cache size.

	// RPC
	RPCHost       string        `mapstructure:"RPC_HOST"`        // RPC Server host.
	RPCPort       uint64        `mapstructure:"RPC_PORT"`        // RPC Server port.
	RPCGasCap     uint64        `mapstructure:"RPC_GAS_CAP"`     // RPC gas cap for answering calls.
	RPCEVMTimeout time.Duration `mapstructure:"RPC_EVM_TIMEOUT"` // RPC evm timeout for answering calls.

	// Node
	NodeQueueSize int `mapstructure:"NODE_QUEUE_SIZE"` // Number of requests waiting for the executor.
}

// Default configs
var DefaultConfig Config = Config{
	Path:                         "$HOME/.shardvm",
	GlobalLoggingLevel:           "INFO",
	DSTimeout:                    5 * time.Second,
	StateStoreGCPeriod:           30 * time.Minute,
	Hardfork:                     protocol.Latest.String(),
	ChainID:                      8082,
	StateManagerAccountCacheSize: 65536,
	StateManagerStorageCacheSize: 65536,
	StateManagerCodeCacheSize:    1024,
	EVMJumpdestCacheSize:         1024,
	RPCHost:                      "localhost",
	RPCPort:                      9424,
	RPCGasCap:                    50000000,
	RPCEVMTimeout:                5 * time.Second,
	NodeQueueSize:                128,
}

// NewConfig creates a new configuration.
//
// @output - configuration, error.
func NewConfig(configFile string) (Config, error) {
	// Try to load config file from $HOME/.shardvm
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/" + defaultConfigPath)
	if configFile != "" {
		viper.SetConfigFile(configFile)
	}
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Infof("No config file loaded: %v", err.Error())
	}

	conf := Config{}

	// Parse global config
	conf.GlobalLoggingLevel = viper.GetString("LOGGING")
	if conf.GlobalLoggingLevel == "" {
		conf.GlobalLoggingLevel = DefaultConfig.GlobalLoggingLevel
	}
	logLevel, err := logging.LevelFromString(conf.GlobalLoggingLevel)
	if err != nil {
		return Config{}, err
	}
	logging.SetAllLoggers(logLevel)
	conf.Path = viper.GetString("DATA_DIR")
	if conf.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		conf.Path = filepath.Join(home, defaultConfigPath)
		log.Infof("DATA_DIR not defined, use default: %v", conf.Path)
	}
	conf.GenesisFile = viper.GetString("GENESIS_FILE")
	conf.DSTimeout = viper.GetDuration("DS_TIMEOUT")
	if conf.DSTimeout <= 0 {
		conf.DSTimeout = DefaultConfig.DSTimeout
		log.Infof("Invalid DS_TIMEOUT found, use default: %v", conf.DSTimeout)
	}

	// Parse statestore config
	conf.StateStoreGCPeriod = viper.GetDuration("STATESTORE_GC_PERIOD")
	if conf.StateStoreGCPeriod < 10*time.Minute {
		conf.StateStoreGCPeriod = DefaultConfig.StateStoreGCPeriod
		log.Infof("STATESTORE_GC_PERIOD is smaller than min 10m, use default %v", conf.StateStoreGCPeriod)
	}

	// Parse protocol config
	conf.Hardfork = viper.GetString("HARDFORK")
	if _, err := protocol.ParseHardfork(conf.Hardfork); err != nil {
		conf.Hardfork = DefaultConfig.Hardfork
		log.Infof("Invalid HARDFORK found, use default: %v", conf.Hardfork)
	}
	conf.ChainID = uint64(viper.GetInt64("CHAIN_ID"))
	if conf.ChainID == 0 {
		conf.ChainID = DefaultConfig.ChainID
		log.Infof("CHAIN_ID not set, use default %v", conf.ChainID)
	}
	for _, eip := range viper.GetStringSlice("EXTRA_EIPS") {
		val, err := strconv.Atoi(strings.TrimSpace(eip))
		if err != nil {
			return Config{}, fmt.Errorf("invalid EXTRA_EIPS entry %v: %w", eip, err)
		}
		conf.ExtraEIPs = append(conf.ExtraEIPs, val)
	}
	conf.AllowUnlimitedContractSize = viper.GetBool("ALLOW_UNLIMITED_CONTRACT_SIZE")
	conf.AllowUnlimitedInitCodeSize = viper.GetBool("ALLOW_UNLIMITED_INITCODE_SIZE")

	// Parse statemanager config
	conf.StateManagerAccountCacheSize = viper.GetInt("STATEMANAGER_ACCOUNT_CACHE_SIZE")
	if conf.StateManagerAccountCacheSize <= 0 {
		conf.StateManagerAccountCacheSize = DefaultConfig.StateManagerAccountCacheSize
		log.Infof("STATEMANAGER_ACCOUNT_CACHE_SIZE not set, use default %v", conf.StateManagerAccountCacheSize)
	}
	conf.StateManagerStorageCacheSize = viper.GetInt("STATEMANAGER_STORAGE_CACHE_SIZE")
	if conf.StateManagerStorageCacheSize <= 0 {
		conf.StateManagerStorageCacheSize = DefaultConfig.StateManagerStorageCacheSize
		log.Infof("STATEMANAGER_STORAGE_CACHE_SIZE not set, use default %v", conf.StateManagerStorageCacheSize)
	}
	conf.StateManagerCodeCacheSize = viper.GetInt("STATEMANAGER_CODE_CACHE_SIZE")
	if conf.StateManagerCodeCacheSize <= 0 {
		conf.StateManagerCodeCacheSize = DefaultConfig.StateManagerCodeCacheSize
		log.Infof("STATEMANAGER_CODE_CACHE_SIZE not set, use default %v", conf.StateManagerCodeCacheSize)
	}

	// Parse EVM config
	conf.EVMJumpdestCacheSize = viper.GetInt("EVM_JUMPDEST_CACHE_SIZE")
	if !viper.IsSet("EVM_JUMPDEST_CACHE_SIZE") || conf.EVMJumpdestCacheSize < 0 {
		conf.EVMJumpdestCacheSize = DefaultConfig.EVMJumpdestCacheSize
		log.Infof("EVM_JUMPDEST_CACHE_SIZE not set, use default %v", conf.EVMJumpdestCacheSize)
	}

	// Parse RPC config
	conf.RPCHost = viper.GetString("RPC_HOST")
	if conf.RPCHost == "" {
		conf.RPCHost = DefaultConfig.RPCHost
		log.Infof("RPC_HOST not set, use default %v", conf.RPCHost)
	}
	conf.RPCPort = uint64(viper.GetInt64("RPC_PORT"))
	if conf.RPCPort == 0 {
		conf.RPCPort = DefaultConfig.RPCPort
		log.Infof("RPC_PORT not set, use default %v", conf.RPCPort)
	}
	conf.RPCGasCap = uint64(viper.GetInt64("RPC_GAS_CAP"))
	if conf.RPCGasCap == 0 {
		conf.RPCGasCap = DefaultConfig.RPCGasCap
		log.Infof("RPC_GAS_CAP not set, use default %v", conf.RPCGasCap)
	}
	conf.RPCEVMTimeout = viper.GetDuration("RPC_EVM_TIMEOUT")
	if conf.RPCEVMTimeout <= 0 {
		conf.RPCEVMTimeout = DefaultConfig.RPCEVMTimeout
		log.Infof("Invalid RPC_EVM_TIMEOUT found, use default: %v", conf.RPCEVMTimeout)
	}

	// Parse node config
	conf.NodeQueueSize = viper.GetInt("NODE_QUEUE_SIZE")
	if conf.NodeQueueSize <= 0 {
		conf.NodeQueueSize = DefaultConfig.NodeQueueSize
		log.Infof("NODE_QUEUE_SIZE not set, use default %v", conf.NodeQueueSize)
	}

	return conf, nil
}

// Rules creates the rule set of the configuration.
func (conf Config) Rules() (*protocol.Rules, error) {
	hardfork, err := protocol.ParseHardfork(conf.Hardfork)
	if err != nil {
		return nil, err
	}
	rules, err := protocol.NewRules(hardfork, conf.ChainID, conf.ExtraEIPs)
	if err != nil {
		return nil, err
	}
	rules.AllowUnlimitedContractSize = conf.AllowUnlimitedContractSize
	rules.AllowUnlimitedInitCodeSize = conf.AllowUnlimitedInitCodeSize
	return rules, nil
}
