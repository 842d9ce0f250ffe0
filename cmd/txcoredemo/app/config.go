package app

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Environment names the deployment mode (dev or prod) and is validated
// when the config loads. The logger does not depend on it: the bench
// harness always builds zap's development logger.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"

	DefaultEnv = EnvDev
)

func (e Environment) Validate() error {
	if e != EnvDev && e != EnvProd {
		return errors.New("environment must be either dev or prod")
	}
	return nil
}

// DemoConfig is the txcoredemo-wide configuration, resolvable from viper
// defaults, an .env file, or TXCORE_-prefixed environment variables, in
// that order of increasing priority (viper's own precedence rules).
type DemoConfig struct {
	Environment Environment `mapstructure:"ENVIRONMENT"`

	BenchWorkers   int `mapstructure:"BENCH_WORKERS"`
	BenchOpsPerRun int `mapstructure:"BENCH_OPS_PER_RUN"`
}

func loadConfig(path string) (DemoConfig, error) {
	viper.AddConfigPath(path)
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.SetEnvPrefix("TXCORE")
	viper.AutomaticEnv()

	viper.SetOptions(viper.ExperimentalBindStruct())

	viper.SetDefault("ENVIRONMENT", DefaultEnv)
	viper.SetDefault("BENCH_WORKERS", 8)
	viper.SetDefault("BENCH_OPS_PER_RUN", 200)

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("config file not found, using env vars and defaults")
	}

	var cfg DemoConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return DemoConfig{}, fmt.Errorf("viper unmarshaling config: %w", err)
	}

	if err := cfg.Environment.Validate(); err != nil {
		return DemoConfig{}, fmt.Errorf("environment validation: %w", err)
	}

	return cfg, nil
}
