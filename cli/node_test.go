package cli

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
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestReadGenesis(t *testing.T) {
	alloc, err := readGenesis("")
	assert.Nil(t, err)
	assert.Empty(t, alloc)

	path := filepath.Join(t.TempDir(), "genesis.json")
	err = os.WriteFile(path, []byte(`{
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266": {"balance": "0x64", "nonce": "0x2"},
		"0x70997970C51812dc3A010C7d01b50e0d17dc79C8": {"balance": "0x0", "code": "0x600100"}
	}`), os.ModePerm)
	assert.Nil(t, err)
	alloc, err = readGenesis(path)
	assert.Nil(t, err)
	assert.Len(t, alloc, 2)
	acct := alloc[common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")]
	assert.Equal(t, int64(100), acct.Balance.Int64())
	assert.Equal(t, uint64(2), acct.Nonce)
	assert.Equal(t, []byte{0x60, 0x01, 0x00}, alloc[common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")].Code)

	_, err = readGenesis(filepath.Join(t.TempDir(), "missing.json"))
	assert.NotNil(t, err)
}
