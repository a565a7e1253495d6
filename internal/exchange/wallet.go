package exchange

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// normalizePrivateKey 去掉 0x 前缀与空白。
func normalizePrivateKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, "0x")
	return strings.TrimPrefix(key, "0X")
}

// DeriveAddress 由私钥推导钱包地址。
func DeriveAddress(privateKey string) (string, error) {
	key, err := crypto.HexToECDSA(normalizePrivateKey(privateKey))
	if err != nil {
		return "", fmt.Errorf("exchange: 私钥格式无效: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// resolveWallet 返回下单使用的账户地址。
// 配置了地址时以配置为准（API 代理钱包的私钥地址与主账户不同），
// 否则使用私钥推导出的地址。
func resolveWallet(configured, privateKey string) (address string, derived string, err error) {
	derived, err = DeriveAddress(privateKey)
	if err != nil {
		return "", "", err
	}

	configured = strings.TrimSpace(configured)
	if configured == "" {
		return derived, derived, nil
	}
	if !common.IsHexAddress(configured) {
		return "", "", fmt.Errorf("exchange: 钱包地址格式无效 %q", configured)
	}
	return common.HexToAddress(configured).Hex(), derived, nil
}
