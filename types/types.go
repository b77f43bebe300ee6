package types

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
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// AccountValue is used to represent the state of an account.
type AccountValue struct {
	// The nonce of the account
	Nonce uint64

	// The balance of the account
	Balance *uint256.Int

	// The code hash of this account
	CodeHash common.Hash

	// Version of the account storage.
	// Clearing the storage of an account bumps its version.
	Version uint64
}

// NewAccountValue creates an empty account value with given storage version.
func NewAccountValue(version uint64) *AccountValue {
	return &AccountValue{
		Nonce:    0,
		Balance:  uint256.NewInt(0),
		CodeHash: types.EmptyCodeHash,
		Version:  version,
	}
}

// Empty checks if the account is empty as defined in EIP-161.
func (a *AccountValue) Empty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && a.CodeHash == types.EmptyCodeHash
}

// Copy returns a deep copy of the account value.
func (a *AccountValue) Copy() *AccountValue {
	return &AccountValue{
		Nonce:    a.Nonce,
		Balance:  new(uint256.Int).Set(a.Balance),
		CodeHash: a.CodeHash,
		Version:  a.Version,
	}
}

// Log is a log entry emitted by LOG0..LOG4.
type Log struct {
	// The emitting contract
	Address common.Address

	// Indexed topics
	Topics []common.Hash

	// Unindexed data
	Data []byte
}

// ToEthLog converts the log into go-ethereum's log type.
func (l Log) ToEthLog() *types.Log {
	return &types.Log{
		Address: l.Address,
		Topics:  l.Topics,
		Data:    l.Data,
	}
}
