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

import "github.com/ethereum/go-ethereum/params"

// Param names a numeric protocol parameter.
type Param int

const (
	// Static fee tiers
	GasZero Param = iota
	GasJumpdest
	GasBase
	GasVeryLow
	GasLow
	GasMid
	GasHigh
	GasBlockhash

	// Memory
	GasMemory
	GasQuadCoeffDiv

	// Arithmetic and hashing
	GasExp
	GasExpByte
	GasKeccak256
	GasKeccak256Word
	GasCopy

	// Logs
	GasLog
	GasLogData
	GasLogTopic

	// Account access
	GasBalance
	GasExtcodeSize
	GasExtcodeCopy
	GasExtcodeHash
	GasSload
	GasSstore

	// EIP-2929
	GasColdSload
	GasColdAccountAccess
	GasWarmStorageRead

	// Legacy SSTORE
	GasSstoreSet
	GasSstoreReset
	GasSstoreRefund

	// EIP-1283
	GasNetSstoreNoop
	GasNetSstoreInit
	GasNetSstoreClean
	GasNetSstoreDirty
	GasNetSstoreClearRefund
	GasNetSstoreResetRefund
	GasNetSstoreResetClearRefund

	// EIP-2200
	GasSstoreSentryEIP2200
	GasSstoreNoopEIP2200
	GasSstoreDirtyEIP2200
	GasSstoreInitEIP2200
	GasSstoreCleanEIP2200
	GasSstoreClearRefundEIP2200
	GasSstoreInitRefundEIP2200
	GasSstoreCleanRefundEIP2200

	// Calls and creation
	GasCall
	GasCallCode
	GasDelegateCall
	GasStaticCall
	GasCallStipend
	GasCallValueTransfer
	GasCallNewAccount
	GasCreate
	GasCreateData
	GasInitCodeWord
	GasSelfdestruct
	GasSelfdestructRefund
	GasTload
	GasTstore

	// EIP-3074
	GasAuth
	GasAuthcall
	GasAuthcallValueTransfer

	// Precompiles
	GasEcrecover
	GasSha256
	GasSha256Word
	GasRipemd160
	GasRipemd160Word
	GasIdentity
	GasIdentityWord
	GasModexpGquaddivisor
	GasBn254Add
	GasBn254Mul
	GasBn254PairingBase
	GasBn254PairingWord
	GasBlake2Round
	GasKzgPointEvaluation

	// Intrinsic transaction gas
	GasTx
	GasTxCreate
	GasTxDataZero
	GasTxDataNonZero
	GasTxAccessListAddress
	GasTxAccessListStorageKey

	// Limits
	MaxCodeSize
	MaxInitCodeSize
	StackLimit
	CallDepthLimit
	MaxRefundQuotient

	numParams
)

// paramOverrides sets parameters in sequence. The chainstart set must be complete.
type paramOverrides map[Param]uint64

var chainstartParams = paramOverrides{
	GasZero:      0,
	GasJumpdest:  params.JumpdestGas,
	GasBase:      2,
	GasVeryLow:   3,
	GasLow:       5,
	GasMid:       8,
	GasHigh:      10,
	GasBlockhash: 20,

	GasMemory:       params.MemoryGas,
	GasQuadCoeffDiv: params.QuadCoeffDiv,

	GasExp:           10,
	GasExpByte:       params.ExpByteFrontier,
	GasKeccak256:     params.Keccak256Gas,
	GasKeccak256Word: params.Keccak256WordGas,
	GasCopy:          params.CopyGas,

	GasLog:      params.LogGas,
	GasLogData:  params.LogDataGas,
	GasLogTopic: params.LogTopicGas,

	GasBalance:     params.BalanceGasFrontier,
	GasExtcodeSize: params.ExtcodeSizeGasFrontier,
	GasExtcodeCopy: params.ExtcodeCopyBaseFrontier,
	GasExtcodeHash: params.ExtcodeHashGasConstantinople,
	GasSload:       params.SloadGasFrontier,
	GasSstore:      0,

	GasColdSload:         params.ColdSloadCostEIP2929,
	GasColdAccountAccess: params.ColdAccountAccessCostEIP2929,
	GasWarmStorageRead:   params.WarmStorageReadCostEIP2929,

	GasSstoreSet:    params.SstoreSetGas,
	GasSstoreReset:  params.SstoreResetGas,
	GasSstoreRefund: params.SstoreRefundGas,

	GasNetSstoreNoop:             params.NetSstoreNoopGas,
	GasNetSstoreInit:             params.NetSstoreInitGas,
	GasNetSstoreClean:            params.NetSstoreCleanGas,
	GasNetSstoreDirty:            params.NetSstoreDirtyGas,
	GasNetSstoreClearRefund:      params.NetSstoreClearRefund,
	GasNetSstoreResetRefund:      params.NetSstoreResetRefund,
	GasNetSstoreResetClearRefund: params.NetSstoreResetClearRefund,

	GasSstoreSentryEIP2200:      params.SstoreSentryGasEIP2200,
	GasSstoreNoopEIP2200:        800,
	GasSstoreDirtyEIP2200:       800,
	GasSstoreInitEIP2200:        params.SstoreSetGasEIP2200,
	GasSstoreCleanEIP2200:       params.SstoreResetGasEIP2200,
	GasSstoreClearRefundEIP2200: params.SstoreClearsScheduleRefundEIP2200,
	GasSstoreInitRefundEIP2200:  19200,
	GasSstoreCleanRefundEIP2200: 4200,

	GasCall:              params.CallGasFrontier,
	GasCallCode:          params.CallGasFrontier,
	GasDelegateCall:      params.CallGasFrontier,
	GasStaticCall:        params.CallGasFrontier,
	GasCallStipend:       params.CallStipend,
	GasCallValueTransfer: params.CallValueTransferGas,
	GasCallNewAccount:    params.CallNewAccountGas,
	GasCreate:            params.CreateGas,
	GasCreateData:        params.CreateDataGas,
	GasInitCodeWord:      params.InitCodeWordGas,
	GasSelfdestruct:      0,
	GasSelfdestructRefund: params.SelfdestructRefundGas,
	GasTload:              params.WarmStorageReadCostEIP2929,
	GasTstore:             params.WarmStorageReadCostEIP2929,

	GasAuth:                  3100,
	GasAuthcall:              0,
	GasAuthcallValueTransfer: 6700,

	GasEcrecover:          params.EcrecoverGas,
	GasSha256:             params.Sha256BaseGas,
	GasSha256Word:         params.Sha256PerWordGas,
	GasRipemd160:          params.Ripemd160BaseGas,
	GasRipemd160Word:      params.Ripemd160PerWordGas,
	GasIdentity:           params.IdentityBaseGas,
	GasIdentityWord:       params.IdentityPerWordGas,
	GasModexpGquaddivisor: 20,
	GasBn254Add:           params.Bn256AddGasByzantium,
	GasBn254Mul:           params.Bn256ScalarMulGasByzantium,
	GasBn254PairingBase:   params.Bn256PairingBaseGasByzantium,
	GasBn254PairingWord:   params.Bn256PairingPerPointGasByzantium,
	GasBlake2Round:        1,
	GasKzgPointEvaluation: params.BlobTxPointEvaluationPrecompileGas,

	GasTx:                     params.TxGas,
	GasTxCreate:               params.TxGas,
	GasTxDataZero:             params.TxDataZeroGas,
	GasTxDataNonZero:          params.TxDataNonZeroGasFrontier,
	GasTxAccessListAddress:    params.TxAccessListAddressGas,
	GasTxAccessListStorageKey: params.TxAccessListStorageKeyGas,

	MaxCodeSize:       params.MaxCodeSize,
	MaxInitCodeSize:   params.MaxInitCodeSize,
	StackLimit:        params.StackLimit,
	CallDepthLimit:    params.CallCreateDepth,
	MaxRefundQuotient: params.RefundQuotient,
}

// hardforkParams are applied in hardfork order on top of chainstart.
var hardforkParams = map[Hardfork]paramOverrides{
	Homestead: {
		GasTxCreate: params.TxGasContractCreation,
	},
	TangerineWhistle: {
		GasBalance:      params.BalanceGasEIP150,
		GasExtcodeSize:  params.ExtcodeSizeGasEIP150,
		GasExtcodeCopy:  params.ExtcodeCopyBaseEIP150,
		GasSload:        params.SloadGasEIP150,
		GasCall:         params.CallGasEIP150,
		GasCallCode:     params.CallGasEIP150,
		GasDelegateCall: params.CallGasEIP150,
		GasStaticCall:   params.CallGasEIP150,
		GasSelfdestruct: params.SelfdestructGasEIP150,
	},
	SpuriousDragon: {
		GasExpByte: params.ExpByteEIP158,
	},
	Istanbul: {
		GasBalance:          params.BalanceGasEIP1884,
		GasExtcodeHash:      params.ExtcodeHashGasEIP1884,
		GasSload:            params.SloadGasEIP2200,
		GasBn254Add:         params.Bn256AddGasIstanbul,
		GasBn254Mul:         params.Bn256ScalarMulGasIstanbul,
		GasBn254PairingBase: params.Bn256PairingBaseGasIstanbul,
		GasBn254PairingWord: params.Bn256PairingPerPointGasIstanbul,
		GasTxDataNonZero:    params.TxDataNonZeroGasEIP2028,
	},
}

// eipParams are applied after the hardfork parameters, in ascending EIP order.
var eipParams = map[int]paramOverrides{
	2565: {
		GasModexpGquaddivisor: 3,
	},
	2929: {
		GasSstoreCleanEIP2200:       params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929,
		GasSstoreNoopEIP2200:        params.WarmStorageReadCostEIP2929,
		GasSstoreDirtyEIP2200:       params.WarmStorageReadCostEIP2929,
		GasSstoreInitRefundEIP2200:  params.SstoreSetGasEIP2200 - params.WarmStorageReadCostEIP2929,
		GasSstoreCleanRefundEIP2200: params.SstoreResetGasEIP2200 - params.WarmStorageReadCostEIP2929,
		GasCall:                     0,
		GasCallCode:                 0,
		GasDelegateCall:             0,
		GasStaticCall:               0,
		GasBalance:                  0,
		GasExtcodeSize:              0,
		GasExtcodeCopy:              0,
		GasExtcodeHash:              0,
		GasSload:                    0,
		GasSstore:                   0,
	},
	3529: {
		GasSstoreClearRefundEIP2200: params.SstoreClearsScheduleRefundEIP3529,
		GasSelfdestructRefund:       0,
		MaxRefundQuotient:           params.RefundQuotientEIP3529,
	},
}
