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
	"github.com/ethereum/go-ethereum/common"
	"github.com/wcgcyx/shardvm/protocol"
)

// refundCounter is the gas refund counter of a frame.
type refundCounter struct {
	refund uint64
}

// refundGas adds to the refund counter.
func (r *refundCounter) refundGas(amount uint64) {
	r.refund += amount
}

// subRefund subtracts from the refund counter, it never goes below zero.
func (r *refundCounter) subRefund(amount uint64) error {
	if amount > r.refund {
		r.refund = 0
		return ErrRefundExhausted
	}
	r.refund -= amount
	return nil
}

// sstoreGas computes the SSTORE cost under the active rules, adjusting the refund counter.
// warm is whether the slot was warm before this SSTORE.
func sstoreGas(rules *protocol.Rules, rc *refundCounter, gasLeft uint64, warm bool, current, original, value common.Hash) (uint64, error) {
	switch {
	case rules.Hardfork() == protocol.Constantinople:
		return sstoreGasEIP1283(rules, rc, current, original, value)
	case rules.GteHardfork(protocol.Istanbul):
		return sstoreGasEIP2200(rules, rc, gasLeft, warm, current, original, value)
	default:
		return sstoreGasLegacy(rules, rc, current, value), nil
	}
}

// sstoreGasLegacy distinguishes set, reset and clear.
func sstoreGasLegacy(rules *protocol.Rules, rc *refundCounter, current, value common.Hash) uint64 {
	switch {
	case current == value || (current != (common.Hash{}) && value != (common.Hash{})):
		return rules.Param(protocol.GasSstoreReset)
	case value == (common.Hash{}):
		rc.refundGas(rules.Param(protocol.GasSstoreRefund))
		return rules.Param(protocol.GasSstoreReset)
	default:
		return rules.Param(protocol.GasSstoreSet)
	}
}

// sstoreGasEIP1283 is the net gas metering of Constantinople.
func sstoreGasEIP1283(rules *protocol.Rules, rc *refundCounter, current, original, value common.Hash) (uint64, error) {
	zero := common.Hash{}
	if current == value {
		return rules.Param(protocol.GasNetSstoreNoop), nil
	}
	if original == current {
		if original == zero {
			return rules.Param(protocol.GasNetSstoreInit), nil
		}
		if value == zero {
			rc.refundGas(rules.Param(protocol.GasNetSstoreClearRefund))
		}
		return rules.Param(protocol.GasNetSstoreClean), nil
	}
	if original != zero {
		if current == zero {
			if err := rc.subRefund(rules.Param(protocol.GasNetSstoreClearRefund)); err != nil {
				return 0, err
			}
		} else if value == zero {
			rc.refundGas(rules.Param(protocol.GasNetSstoreClearRefund))
		}
	}
	if original == value {
		if original == zero {
			rc.refundGas(rules.Param(protocol.GasNetSstoreResetClearRefund))
		} else {
			rc.refundGas(rules.Param(protocol.GasNetSstoreResetRefund))
		}
	}
	return rules.Param(protocol.GasNetSstoreDirty), nil
}

// sstoreGasEIP2200 is the net gas metering of Istanbul with the EIP-2929 adjustments when active.
func sstoreGasEIP2200(rules *protocol.Rules, rc *refundCounter, gasLeft uint64, warm bool, current, original, value common.Hash) (uint64, error) {
	zero := common.Hash{}
	if gasLeft <= rules.Param(protocol.GasSstoreSentryEIP2200) {
		return 0, ErrOutOfGas
	}
	adjusted := rules.IsActivatedEIP(2929) && warm
	if current == value {
		if adjusted {
			return rules.Param(protocol.GasWarmStorageRead), nil
		}
		return rules.Param(protocol.GasSstoreNoopEIP2200), nil
	}
	if original == current {
		if original == zero {
			return rules.Param(protocol.GasSstoreInitEIP2200), nil
		}
		if value == zero {
			rc.refundGas(rules.Param(protocol.GasSstoreClearRefundEIP2200))
		}
		return rules.Param(protocol.GasSstoreCleanEIP2200), nil
	}
	if original != zero {
		if current == zero {
			if err := rc.subRefund(rules.Param(protocol.GasSstoreClearRefundEIP2200)); err != nil {
				return 0, err
			}
		} else if value == zero {
			rc.refundGas(rules.Param(protocol.GasSstoreClearRefundEIP2200))
		}
	}
	if original == value {
		if original == zero {
			refund := rules.Param(protocol.GasSstoreInitRefundEIP2200)
			if adjusted {
				refund = rules.Param(protocol.GasSstoreInitEIP2200) - rules.Param(protocol.GasWarmStorageRead)
			}
			rc.refundGas(refund)
		} else {
			refund := rules.Param(protocol.GasSstoreCleanRefundEIP2200)
			if adjusted {
				refund = rules.Param(protocol.GasSstoreReset) - rules.Param(protocol.GasColdSload) - rules.Param(protocol.GasWarmStorageRead)
			}
			rc.refundGas(refund)
		}
	}
	return rules.Param(protocol.GasSstoreDirtyEIP2200), nil
}
