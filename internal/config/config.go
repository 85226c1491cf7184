package config

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common"
	marketconfig "github.com/gaze-network/near-indexer/modules/market/config"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	"github.com/gaze-network/near-indexer/pkg/middleware/requestcontext"
	"github.com/gaze-network/near-indexer/pkg/middleware/requestlogger"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit     bool
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
		},
		Near: NearConfig{
			Network:       common.NetworkMainnet,
			Region:        "eu-central-1",
			RequesterPays: true,
			Prefetch:      16,
		},
		EnableModules: []string{common.ModuleMarket.String()},
		Modules: Modules{
			Market: marketconfig.Default(),
		},
	}
)

type Config struct {
	Logger        logger.Config    `mapstructure:"logger"`
	HTTPServer    HTTPServerConfig `mapstructure:"http_server"`
	Near          NearConfig       `mapstructure:"near"`
	EnableModules []string         `mapstructure:"enable_modules"`
	APIOnly       bool             `mapstructure:"api_only"`
	Modules       Modules          `mapstructure:"modules"`
}

type HTTPServerConfig struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"requestip"`
}

// NearConfig selects the NEAR Lake bucket blocks are streamed from.
type NearConfig struct {
	Network common.Network `mapstructure:"network"`
	Region  string         `mapstructure:"s3_region"`
	// Bucket overrides the network's public lake bucket.
	Bucket        string `mapstructure:"s3_bucket"`
	RequesterPays bool   `mapstructure:"requester_pays"`
	// Prefetch is the number of blocks downloaded ahead of processing.
	Prefetch int `mapstructure:"prefetch"`
}

type Modules struct {
	Market marketconfig.Config `mapstructure:"market"`
}

// Parse parses the configuration from environment variables and the optional config file.
func Parse(configFile ...string) Config {
	configOnce.Do(func() {
		initConfig(configFile...)
	})
	return *config
}

// Load returns the loaded configuration
func Load() Config {
	if !isInit {
		logger.Panic("config not loaded")
	}
	return *config
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}

func initConfig(configFile ...string) {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnContext(ctx, "Can't load .env file", slogx.Error(err))
	}

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.FatalContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		logger.FatalContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
}

// setDefaults registers every leaf key so AutomaticEnv can override keys absent from the config file.
func setDefaults() {
	viper.SetDefault("logger.output", config.Logger.Output)
	viper.SetDefault("logger.debug", config.Logger.Debug)
	viper.SetDefault("http_server.port", config.HTTPServer.Port)
	viper.SetDefault("http_server.logger.disable", config.HTTPServer.Logger.Disable)
	viper.SetDefault("http_server.requestip.trusted_proxies_header", config.HTTPServer.RequestIP.TrustedHeader)
	viper.SetDefault("near.network", config.Near.Network)
	viper.SetDefault("near.s3_region", config.Near.Region)
	viper.SetDefault("near.s3_bucket", config.Near.Bucket)
	viper.SetDefault("near.requester_pays", config.Near.RequesterPays)
	viper.SetDefault("near.prefetch", config.Near.Prefetch)
	viper.SetDefault("enable_modules", config.EnableModules)
	viper.SetDefault("api_only", config.APIOnly)
	for key, value := range config.Modules.Market.Defaults() {
		viper.SetDefault("modules.market."+key, value)
	}
}
