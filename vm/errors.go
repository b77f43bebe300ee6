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

import "errors"

// Frame faults. Every fault unwinds to the nearest call boundary.
var (
	ErrStackOverflow           = errors.New("stack overflow")
	ErrStackUnderflow          = errors.New("stack underflow")
	ErrOutOfGas                = errors.New("out of gas")
	ErrOutOfRange              = errors.New("value out of range")
	ErrInvalidJump             = errors.New("invalid JUMP")
	ErrInvalidOpcode           = errors.New("invalid opcode")
	ErrStaticStateChange       = errors.New("static state change")
	ErrRevert                  = errors.New("revert")
	ErrRefundExhausted         = errors.New("refund exhausted")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrValueOverflow           = errors.New("value overflow")
	ErrCreateCollision         = errors.New("create collision")
	ErrCodesizeExceedsMaximum  = errors.New("code size to deposit exceeds maximum code size")
	ErrCodestoreOutOfGas       = errors.New("code store out of gas")
	ErrInvalidBytecodeResult   = errors.New("invalid bytecode deployed")
	ErrInitcodeSizeViolation   = errors.New("initcode exceeds max initcode size")
	ErrInvalidReturndataCopy   = errors.New("invalid returndata copy")
	ErrAuthInvalidS            = errors.New("invalid signature s-value")
	ErrAuthcallUnset           = errors.New("attempting to AUTHCALL without AUTH set")
	ErrAuthcallNonzeroValueExt = errors.New("attempting to execute AUTHCALL with nonzero external value")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidInputLength      = errors.New("invalid input length")
	ErrInvalidCommitment       = errors.New("kzg commitment does not match versioned hash")
	ErrInvalidProof            = errors.New("kzg proof invalid")
)

// Transaction level errors, returned as Go errors by RunTx.
var (
	ErrIntrinsicGas = errors.New("gas limit below intrinsic gas")
	ErrNonceMax     = errors.New("nonce has max value")
)

// isFault checks if the error ends a frame with all of its gas consumed.
func isFault(err error) bool {
	return err != nil && !errors.Is(err, ErrRevert)
}
