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
	"github.com/holiman/uint256"
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MarshalAddress implements the mus.Marshaller interface.
func MarshalAddress(v common.Address, bs []byte) (n int) {
	sl := v.Bytes()
	m := mus.MarshallerFn[byte](varint.MarshalByte)
	n = ord.MarshalSlice[byte](sl, m, bs)
	return
}

// UnmarshalAddress implements the mus.Unmarshaller interface.
func UnmarshalAddress(bs []byte) (v common.Address, n int, err error) {
	var sl []byte
	u := mus.UnmarshallerFn[byte](varint.UnmarshalByte)
	sl, n, err = ord.UnmarshalSlice[byte](u, bs)
	if err != nil {
		return
	}
	v.SetBytes(sl)
	return
}

// SizeAddress implements the mus.Sizer interface.
func SizeAddress(v common.Address) (size int) {
	sl := v.Bytes()
	s := mus.SizerFn[byte](varint.SizeByte)
	size = ord.SizeSlice[byte](sl, s)
	return
}

// MarshalHash implements the mus.Marshaller interface.
func MarshalHash(v common.Hash, bs []byte) (n int) {
	sl := v.Bytes()
	m := mus.MarshallerFn[byte](varint.MarshalByte)
	n = ord.MarshalSlice[byte](sl, m, bs)
	return
}

// UnmarshalHash implements the mus.Unmarshaller interface.
func UnmarshalHash(bs []byte) (v common.Hash, n int, err error) {
	var sl []byte
	u := mus.UnmarshallerFn[byte](varint.UnmarshalByte)
	sl, n, err = ord.UnmarshalSlice[byte](u, bs)
	if err != nil {
		return
	}
	v.SetBytes(sl)
	return
}

// SizeHash implements the mus.Sizer interface.
func SizeHash(v common.Hash) (size int) {
	sl := v.Bytes()
	s := mus.SizerFn[byte](varint.SizeByte)
	size = ord.SizeSlice[byte](sl, s)
	return
}

// MarshalUint256 implements the mus.Marshaller interface.
func MarshalUint256(v *uint256.Int, bs []byte) (n int) {
	sl := v.Bytes()
	m := mus.MarshallerFn[byte](varint.MarshalByte)
	n = ord.MarshalSlice[byte](sl, m, bs)
	return
}

// UnmarshalUint256 implements the mus.Unmarshaller interface.
func UnmarshalUint256(bs []byte) (v *uint256.Int, n int, err error) {
	var sl []byte
	u := mus.UnmarshallerFn[byte](varint.UnmarshalByte)
	sl, n, err = ord.UnmarshalSlice[byte](u, bs)
	if err != nil {
		return
	}
	v = uint256.NewInt(0).SetBytes(sl)
	return
}

// SizeUint256 implements the mus.Sizer interface.
func SizeUint256(v *uint256.Int) (size int) {
	sl := v.Bytes()
	s := mus.SizerFn[byte](varint.SizeByte)
	size = ord.SizeSlice[byte](sl, s)
	return
}

// MarshalBytes implements the mus.Marshaller interface.
func MarshalBytes(v []byte, bs []byte) (n int) {
	m := mus.MarshallerFn[byte](varint.MarshalByte)
	n = ord.MarshalSlice[byte](v, m, bs)
	return
}

// UnmarshalBytes implements the mus.Unmarshaller interface.
func UnmarshalBytes(bs []byte) (v []byte, n int, err error) {
	u := mus.UnmarshallerFn[byte](varint.UnmarshalByte)
	v, n, err = ord.UnmarshalSlice[byte](u, bs)
	return
}

// SizeBytes implements the mus.Sizer interface.
func SizeBytes(v []byte) (size int) {
	s := mus.SizerFn[byte](varint.SizeByte)
	size = ord.SizeSlice[byte](v, s)
	return
}

// MarshalAccountValue implements the mus.Marshaller interface.
func MarshalAccountValue(v AccountValue, bs []byte) (n int) {
	n = varint.MarshalUint64(v.Nonce, bs)
	n += MarshalUint256(v.Balance, bs[n:])
	n += MarshalHash(v.CodeHash, bs[n:])
	n += varint.MarshalUint64(v.Version, bs[n:])
	return
}

// UnmarshalAccountValue implements the mus.Unmarshaller interface.
func UnmarshalAccountValue(bs []byte) (v AccountValue, n int, err error) {
	v = AccountValue{}
	v.Nonce, n, err = varint.UnmarshalUint64(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Balance, n1, err = UnmarshalUint256(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CodeHash, n1, err = UnmarshalHash(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Version, n1, err = varint.UnmarshalUint64(bs[n:])
	n += n1
	return
}

// SizeAccountValue implements the mus.Sizer interface.
func SizeAccountValue(v AccountValue) (size int) {
	size = varint.SizeUint64(v.Nonce)
	size += SizeUint256(v.Balance)
	size += SizeHash(v.CodeHash)
	size += varint.SizeUint64(v.Version)
	return size
}

// EncodeAccountValue serializes the account value.
func EncodeAccountValue(v *AccountValue) []byte {
	bs := make([]byte, SizeAccountValue(*v))
	MarshalAccountValue(*v, bs)
	return bs
}

// DecodeAccountValue deserializes the account value.
func DecodeAccountValue(bs []byte) (*AccountValue, error) {
	v, _, err := UnmarshalAccountValue(bs)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MarshalLog implements the mus.Marshaller interface.
func MarshalLog(v Log, bs []byte) (n int) {
	n = MarshalAddress(v.Address, bs)
	m := mus.MarshallerFn[common.Hash](MarshalHash)
	n += ord.MarshalSlice[common.Hash](v.Topics, m, bs[n:])
	n += MarshalBytes(v.Data, bs[n:])
	return
}

// UnmarshalLog implements the mus.Unmarshaller interface.
func UnmarshalLog(bs []byte) (v Log, n int, err error) {
	v.Address, n, err = UnmarshalAddress(bs)
	if err != nil {
		return
	}
	var n1 int
	u := mus.UnmarshallerFn[common.Hash](UnmarshalHash)
	v.Topics, n1, err = ord.UnmarshalSlice[common.Hash](u, bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Data, n1, err = UnmarshalBytes(bs[n:])
	n += n1
	return
}

// SizeLog implements the mus.Sizer interface.
func SizeLog(v Log) (size int) {
	size = SizeAddress(v.Address)
	s := mus.SizerFn[common.Hash](SizeHash)
	size += ord.SizeSlice[common.Hash](v.Topics, s)
	size += SizeBytes(v.Data)
	return
}

// MarshalLogs implements the mus.Marshaller interface.
func MarshalLogs(v []Log, bs []byte) (n int) {
	m := mus.MarshallerFn[Log](MarshalLog)
	n = ord.MarshalSlice[Log](v, m, bs)
	return
}

// UnmarshalLogs implements the mus.Unmarshaller interface.
func UnmarshalLogs(bs []byte) (v []Log, n int, err error) {
	u := mus.UnmarshallerFn[Log](UnmarshalLog)
	v, n, err = ord.UnmarshalSlice[Log](u, bs)
	return
}

// SizeLogs implements the mus.Sizer interface.
func SizeLogs(v []Log) (size int) {
	s := mus.SizerFn[Log](SizeLog)
	size = ord.SizeSlice[Log](v, s)
	return
}
