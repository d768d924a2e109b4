package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	GatewayAPIAddress     string `env:"GATEWAY_API_ADDRESS"`
	GatewaySecretKey      string `env:"GATEWAY_SECRET_KEY"`
	FulfillmentAPIAddress string `env:"FULFILLMENT_API_ADDRESS"`
	JWTUserSecret         string `env:"JWT_USER_SECRET"`

	// TopupFeeRate процент комиссии за пополнение, MinTopupAmount минимальная
	// сумма зачисления в песевах.
	TopupFeeRate   float64 `env:"TOPUP_FEE_RATE" envDefault:"0.02"`
	MinTopupAmount int64   `env:"MIN_TOPUP_AMOUNT" envDefault:"600"`

	GatewayTimeout     time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
	FulfillmentTimeout time.Duration `env:"FULFILLMENT_TIMEOUT" envDefault:"25s"`

	// ClaimTTL срок жизни захвата платежного референса, ReviewAfter срок после
	// которого подтвержденный заказ без ответа оператора уходит на ручной разбор.
	ClaimTTL        time.Duration `env:"CLAIM_TTL" envDefault:"15m"`
	ReviewAfter     time.Duration `env:"REVIEW_AFTER" envDefault:"15m"`
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" envDefault:"1m"`
	MonitorLimit    uint          `env:"MONITOR_LIMIT" envDefault:"100"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("JWT user secret is not set")
	}
	if conf.GatewaySecretKey == "" {
		return nil, errors.New("gateway secret key is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.GatewayAPIAddress, "g", "", "Payment gateway API base address")
	flag.StringVar(&flagConfig.FulfillmentAPIAddress, "f", "", "Carrier fulfillment API base address")

	flag.Parse()
}

// mergeConfig env имеет приоритет над флагами. Числовые и duration-поля
// задаются только через env, для них значения берутся как есть.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	merged := *envConfig
	merged.RunAddress = defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress)
	merged.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	merged.MigrationsDir = defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir)
	merged.GatewayAPIAddress = defaultIfBlank(envConfig.GatewayAPIAddress, flagsConfig.GatewayAPIAddress)
	merged.FulfillmentAPIAddress = defaultIfBlank(envConfig.FulfillmentAPIAddress, flagsConfig.FulfillmentAPIAddress)
	return &merged
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
