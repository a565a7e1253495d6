package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 公开的 Hardhat 测试账户 #0。
const (
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestDeriveAddress(t *testing.T) {
	addr, err := DeriveAddress(testPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, testAddress, addr)

	addr, err = DeriveAddress(testPrivateKey[2:])
	require.NoError(t, err)
	assert.Equal(t, testAddress, addr)

	_, err = DeriveAddress("zz")
	assert.Error(t, err)
}

func TestResolveWallet(t *testing.T) {
	addr, derived, err := resolveWallet("", testPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, testAddress, addr)
	assert.Equal(t, testAddress, derived)

	main := "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	addr, derived, err = resolveWallet(main, testPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", addr)
	assert.Equal(t, testAddress, derived)

	_, _, err = resolveWallet("not-an-address", testPrivateKey)
	assert.Error(t, err)
}
