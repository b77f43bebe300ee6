package statestore

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
	"github.com/mus-format/mus-go/varint"
	itypes "github.com/wcgcyx/shardvm/types"
)

// persistedHeight is used to store the batch height and its digest.
type persistedHeight struct {
	height uint64
	digest common.Hash
}

// marshalPersistedHeight implements the mus.Marshaller interface.
func marshalPersistedHeight(v persistedHeight, bs []byte) (n int) {
	n = varint.MarshalUint64(v.height, bs)
	n += itypes.MarshalHash(v.digest, bs[n:])
	return
}

// unmarshalPersistedHeight implements the mus.Unmarshaller interface.
func unmarshalPersistedHeight(bs []byte) (v persistedHeight, n int, err error) {
	v.height, n, err = varint.UnmarshalUint64(bs)
	if err != nil {
		return
	}
	var n1 int
	v.digest, n1, err = itypes.UnmarshalHash(bs[n:])
	n += n1
	return
}

// sizePersistedHeight implements the mus.Sizer interface.
func sizePersistedHeight(v persistedHeight) (size int) {
	size = varint.SizeUint64(v.height)
	size += itypes.SizeHash(v.digest)
	return
}
