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
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-datastore"
	itypes "github.com/wcgcyx/shardvm/types"
)

const (
	persistedKey      = "p"
	accountValueKey   = "a"
	accountVersionKey = "v"
	storageKey        = "s"
	codeKey           = "c"
	gcKey             = "g"
	separator         = "/"
)

// persistedHeightKey gets the datastore key for persisted height.
func persistedHeightKey() datastore.Key {
	return datastore.NewKey(persistedKey)
}

// getAccountValueKey gets the datastore key for account value with given address.
func getAccountValueKey(addr common.Address) datastore.Key {
	addrStr := base64.URLEncoding.EncodeToString(addr.Bytes())
	return datastore.NewKey(accountValueKey + separator + addrStr)
}

// getAccountVersionKey gets the datastore key for the storage version of a deleted account.
func getAccountVersionKey(addr common.Address) datastore.Key {
	addrStr := base64.URLEncoding.EncodeToString(addr.Bytes())
	return datastore.NewKey(accountVersionKey + separator + addrStr)
}

// getStoragePrefix gets the datastore key prefix for all storage of given version.
func getStoragePrefix(addr common.Address, version uint64) datastore.Key {
	addrStr := base64.URLEncoding.EncodeToString(addr.Bytes())
	return datastore.NewKey(storageKey + separator + addrStr + separator + strconv.FormatUint(version, 10))
}

// getStorageKey gets the datastore key for given storage location.
func getStorageKey(addr common.Address, version uint64, key common.Hash) datastore.Key {
	keyStr := base64.URLEncoding.EncodeToString(key.Bytes())
	return getStoragePrefix(addr, version).ChildString(keyStr)
}

// getCodeKey gets the datastore key for given code hash.
func getCodeKey(codeHash common.Hash) datastore.Key {
	codeStr := base64.URLEncoding.EncodeToString(codeHash.Bytes())
	return datastore.NewKey(codeKey + separator + codeStr)
}

// getGCKey gets the gc key for given address-version pair.
func getGCKey(addr common.Address, version uint64) datastore.Key {
	addrStr := base64.URLEncoding.EncodeToString(addr.Bytes())
	return datastore.NewKey(gcKey + separator + addrStr + separator + strconv.FormatUint(version, 10))
}

// splitGCKey splits the gc key to get address-version pair.
func splitGCKey(key string) (common.Address, uint64, bool) {
	temp := strings.Split(strings.TrimPrefix(key, separator), separator)
	if len(temp) != 3 || temp[0] != gcKey {
		return common.Address{}, 0, false
	}
	data, err := base64.URLEncoding.DecodeString(temp[1])
	if err != nil {
		return common.Address{}, 0, false
	}
	version, err := strconv.ParseUint(temp[2], 10, 64)
	if err != nil {
		return common.Address{}, 0, false
	}
	return common.BytesToAddress(data), version, true
}

// encodePersistedHeight encodes the persisted height and digest.
func encodePersistedHeight(height uint64, digest common.Hash) []byte {
	v := persistedHeight{
		height: height,
		digest: digest,
	}
	size := sizePersistedHeight(v)
	bs := make([]byte, size)
	marshalPersistedHeight(v, bs)
	return bs
}

// decodePersistedHeight decodes the persisted height and digest.
func decodePersistedHeight(bs []byte) (uint64, common.Hash, error) {
	v, _, err := unmarshalPersistedHeight(bs)
	return v.height, v.digest, err
}

// encodeCode encodes the code.
func encodeCode(code []byte) []byte {
	bs := make([]byte, itypes.SizeBytes(code))
	itypes.MarshalBytes(code, bs)
	return bs
}

// decodeCode decodes the code.
func decodeCode(bs []byte) ([]byte, error) {
	code, _, err := itypes.UnmarshalBytes(bs)
	return code, err
}

// encodeAccountVersion encodes the account version.
func encodeAccountVersion(version uint64) []byte {
	versionBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(versionBytes, version)
	return versionBytes
}

// decodeAccountVersion decodes the account version.
func decodeAccountVersion(val []byte) uint64 {
	return binary.LittleEndian.Uint64(val)
}

// encodeStorage encodes the storage value.
func encodeStorage(val common.Hash) []byte {
	size := itypes.SizeHash(val)
	bs := make([]byte, size)
	itypes.MarshalHash(val, bs)
	return bs
}

// decodeStorage decodes the storage value.
func decodeStorage(val []byte) (common.Hash, error) {
	res, _, err := itypes.UnmarshalHash(val)
	return res, err
}
