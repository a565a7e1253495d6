package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App       AppConfig           `mapstructure:"app"`
	Server    ServerConfig        `mapstructure:"server"`
	Trade     TradeExchangeConfig `mapstructure:"trade_exchange"`
	Execution ExecutionConfig     `mapstructure:"execution"`
	Database  DatabaseConfig      `mapstructure:"database"`
	Logging   LoggingConfig       `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment" validate:"required"`
}

// IsProduction 判断是否运行于生产环境。
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

// ServerConfig 描述 webhook 服务监听参数。
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gt=0,lte=65535"`
	Passphrase      string        `mapstructure:"passphrase"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// TradeExchangeConfig 描述执行端交易所配置。
type TradeExchangeConfig struct {
	Name         string      `mapstructure:"name" validate:"required"`
	UseSandbox   bool        `mapstructure:"use_sandbox"`
	Wallet       string      `mapstructure:"wallet_address"`
	PrivateKey   string      `mapstructure:"private_key"`
	SymbolFormat string      `mapstructure:"symbol_format" validate:"required"`
	Leverage     int         `mapstructure:"leverage" validate:"gte=1,lte=50"`
	Retry        RetryConfig `mapstructure:"retry"`
}

// RetryConfig 控制只读调用的重试机制，下单不重试。
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gt=0"`
	MinDelay    time.Duration `mapstructure:"min_delay" validate:"gt=0"`
	MaxDelay    time.Duration `mapstructure:"max_delay" validate:"gt=0"`
}

// ExecutionConfig 控制下单行为。
type ExecutionConfig struct {
	SubmitTimeout time.Duration `mapstructure:"submit_timeout" validate:"gt=0"`
	Slippage      float64       `mapstructure:"slippage" validate:"gte=0,lte=0.2"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string        `mapstructure:"level" validate:"required"`
	Encoding         string        `mapstructure:"encoding" validate:"oneof=console json"`
	Development      bool          `mapstructure:"development"`
	OutputPaths      []string      `mapstructure:"output_paths" validate:"min=1"`
	ErrorOutputPaths []string      `mapstructure:"error_output_paths" validate:"min=1"`
	File             LogFileConfig `mapstructure:"file"`
}

// LogFileConfig 控制滚动日志文件，Path 为空时不写文件。
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

var structValidator = validator.New()

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if vErr := structValidator.Struct(c); vErr != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(vErr, &fieldErrs) {
			for _, fe := range fieldErrs {
				err = multierr.Append(err, fmt.Errorf("%s 不满足约束 %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			}
		} else {
			err = multierr.Append(err, vErr)
		}
	}

	if c.Trade.Retry.MinDelay > c.Trade.Retry.MaxDelay {
		err = multierr.Append(err, errors.New("trade_exchange.retry.min_delay 不能大于 max_delay"))
	}
	if !strings.EqualFold(c.Trade.Name, "hyperliquid") {
		err = multierr.Append(err, fmt.Errorf("trade_exchange.name 仅支持 hyperliquid，当前为 %q", c.Trade.Name))
	}
	if !strings.Contains(c.Trade.SymbolFormat, "%s") {
		err = multierr.Append(err, errors.New("trade_exchange.symbol_format 必须包含 %s 占位符"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
