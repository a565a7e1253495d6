package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "connector"
)

// legacyEnv 兼容旧版部署使用的环境变量名。
var legacyEnv = map[string]string{
	"trade_exchange.private_key":    "HYPERLIQUID_PRIVATE_KEY",
	"trade_exchange.wallet_address": "HYPERLIQUID_WALLET_ADDRESS",
	"trade_exchange.leverage":       "HYPERLIQUID_LEVERAGE",
	"server.port":                   "PORT",
	"app.environment":               "NODE_ENV",
}

// Load 读取配置文件并结合环境变量返回 Config。
// 配置文件缺失时仅使用默认值与环境变量。
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()

	explicit := path != ""
	if path == "" {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(envPrefix)+"_"+replacer.Replace(strings.ToUpper(key)), env); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", env, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if explicit {
				return nil, fmt.Errorf("未找到配置文件 %q: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.passphrase", "")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("trade_exchange.name", "hyperliquid")
	v.SetDefault("trade_exchange.use_sandbox", false)
	v.SetDefault("trade_exchange.wallet_address", "")
	v.SetDefault("trade_exchange.private_key", "")
	v.SetDefault("trade_exchange.symbol_format", "%s/USDC:USDC")
	v.SetDefault("trade_exchange.leverage", 1)
	v.SetDefault("trade_exchange.retry.max_attempts", 3)
	v.SetDefault("trade_exchange.retry.min_delay", "500ms")
	v.SetDefault("trade_exchange.retry.max_delay", "5s")

	v.SetDefault("execution.submit_timeout", "10s")
	v.SetDefault("execution.slippage", 0.05)

	v.SetDefault("database.path", "data/alert_connector.db")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 4)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.in_memory", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.output_paths", []string{"stdout"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})
	v.SetDefault("logging.file.path", "")
	v.SetDefault("logging.file.max_size_mb", 10)
	v.SetDefault("logging.file.max_backups", 30)
	v.SetDefault("logging.file.max_age_days", 30)
	v.SetDefault("logging.file.compress", true)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
