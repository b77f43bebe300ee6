package protocol

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
	"sort"

	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	logging "github.com/ipfs/go-log"
)

// Logger
var log = logging.Logger("protocol")

// Rules is the active rule set used during execution.
// It is immutable once created and safe to share.
type Rules struct {
	hardfork Hardfork
	chainID  *uint256.Int
	eips     map[int]bool
	params   [numParams]uint64

	// Skip the EIP-170 code size limit
	AllowUnlimitedContractSize bool

	// Skip the EIP-3860 initcode size limit
	AllowUnlimitedInitCodeSize bool
}

// NewRules creates the rule set for the given hardfork, chain id and extra EIPs.
func NewRules(hardfork Hardfork, chainID uint64, extraEIPs []int) (*Rules, error) {
	if hardfork < Chainstart || hardfork > Latest {
		return nil, fmt.Errorf("unsupported hardfork %v", hardfork)
	}
	r := &Rules{
		hardfork: hardfork,
		chainID:  uint256.NewInt(chainID),
		eips:     make(map[int]bool),
	}
	for h := Chainstart; h <= hardfork; h++ {
		for _, eip := range hardforkEIPs[h] {
			r.eips[eip] = true
		}
	}
	for _, eip := range extraEIPs {
		if !supportedExtraEIPs[eip] {
			return nil, fmt.Errorf("unsupported eip %v", eip)
		}
		r.eips[eip] = true
	}
	// Build parameter table
	for p, v := range chainstartParams {
		r.params[p] = v
	}
	for h := Chainstart; h <= hardfork; h++ {
		for p, v := range hardforkParams[h] {
			r.params[p] = v
		}
	}
	active := make([]int, 0, len(r.eips))
	for eip := range r.eips {
		active = append(active, eip)
	}
	sort.Ints(active)
	for _, eip := range active {
		for p, v := range eipParams[eip] {
			r.params[p] = v
		}
	}
	log.Debugf("Rules created for %v with eips %v", hardfork, active)
	return r, nil
}

// FromChainConfig creates the rule set active at the given block of a go-ethereum chain config.
func FromChainConfig(cfg *params.ChainConfig, num *big.Int, isMerge bool, time uint64, extraEIPs []int) (*Rules, error) {
	if cfg.ChainID == nil {
		return nil, fmt.Errorf("chain config has no chain id")
	}
	rules := cfg.Rules(num, isMerge, time)
	hardfork := Chainstart
	switch {
	case rules.IsCancun:
		hardfork = Cancun
	case rules.IsShanghai:
		hardfork = Shanghai
	case rules.IsMerge:
		hardfork = Paris
	case rules.IsLondon:
		hardfork = London
	case rules.IsBerlin:
		hardfork = Berlin
	case rules.IsIstanbul:
		hardfork = Istanbul
	case rules.IsPetersburg:
		hardfork = Petersburg
	case rules.IsConstantinople:
		hardfork = Constantinople
	case rules.IsByzantium:
		hardfork = Byzantium
	case rules.IsEIP158:
		hardfork = SpuriousDragon
	case rules.IsEIP150:
		hardfork = TangerineWhistle
	case rules.IsHomestead:
		hardfork = Homestead
	}
	return NewRules(hardfork, cfg.ChainID.Uint64(), extraEIPs)
}

// Hardfork returns the active hardfork.
func (r *Rules) Hardfork() Hardfork {
	return r.hardfork
}

// GteHardfork checks if the active hardfork is at or after the given one.
func (r *Rules) GteHardfork(h Hardfork) bool {
	return r.hardfork >= h
}

// IsActivatedEIP checks if the given EIP is active.
func (r *Rules) IsActivatedEIP(eip int) bool {
	return r.eips[eip]
}

// Param gets the value of the given parameter.
func (r *Rules) Param(p Param) uint64 {
	return r.params[p]
}

// ChainID returns the chain id.
func (r *Rules) ChainID() *uint256.Int {
	return new(uint256.Int).Set(r.chainID)
}

// ActiveEIPs returns the activated EIPs in ascending order.
func (r *Rules) ActiveEIPs() []int {
	res := make([]int, 0, len(r.eips))
	for eip := range r.eips {
		res = append(res, eip)
	}
	sort.Ints(res)
	return res
}
