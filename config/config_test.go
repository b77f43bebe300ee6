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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wcgcyx/shardvm/protocol"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	conf, err := NewConfig("")
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfig.Hardfork, conf.Hardfork)
	assert.Equal(t, DefaultConfig.ChainID, conf.ChainID)
	assert.Equal(t, DefaultConfig.NodeQueueSize, conf.NodeQueueSize)
	assert.Equal(t, DefaultConfig.EVMJumpdestCacheSize, conf.EVMJumpdestCacheSize)
	assert.Equal(t, DefaultConfig.StateStoreGCPeriod, conf.StateStoreGCPeriod)
	assert.Empty(t, conf.ExtraEIPs)

	rules, err := conf.Rules()
	assert.Nil(t, err)
	assert.Equal(t, protocol.Latest, rules.Hardfork())
	assert.False(t, rules.AllowUnlimitedContractSize)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("HARDFORK", "berlin")
	t.Setenv("CHAIN_ID", "5")
	t.Setenv("EXTRA_EIPS", "3074")
	t.Setenv("ALLOW_UNLIMITED_CONTRACT_SIZE", "true")
	t.Setenv("RPC_EVM_TIMEOUT", "1s")
	t.Setenv("EVM_JUMPDEST_CACHE_SIZE", "0")
	conf, err := NewConfig("")
	assert.Nil(t, err)
	assert.Equal(t, "berlin", conf.Hardfork)
	assert.Equal(t, uint64(5), conf.ChainID)
	assert.Equal(t, []int{3074}, conf.ExtraEIPs)
	assert.Equal(t, time.Second, conf.RPCEVMTimeout)
	assert.Equal(t, 0, conf.EVMJumpdestCacheSize)

	rules, err := conf.Rules()
	assert.Nil(t, err)
	assert.Equal(t, protocol.Berlin, rules.Hardfork())
	assert.Equal(t, uint64(5), rules.ChainID().Uint64())
	assert.True(t, rules.IsActivatedEIP(2929))
	assert.True(t, rules.IsActivatedEIP(3074))
	assert.True(t, rules.AllowUnlimitedContractSize)
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("HARDFORK", "unknown")
	t.Setenv("RPC_EVM_TIMEOUT", "-1s")
	conf, err := NewConfig("")
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfig.Hardfork, conf.Hardfork)
	assert.Equal(t, DefaultConfig.RPCEVMTimeout, conf.RPCEVMTimeout)

	t.Setenv("EXTRA_EIPS", "abc")
	_, err = NewConfig("")
	assert.NotNil(t, err)

	t.Setenv("EXTRA_EIPS", "")
	t.Setenv("LOGGING", "NOT_A_LEVEL")
	_, err = NewConfig("")
	assert.NotNil(t, err)
	t.Setenv("LOGGING", "INFO")
	_, err = NewConfig("")
	assert.Nil(t, err)
}
