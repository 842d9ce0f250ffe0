package app

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envOverrides is the envconfig/godotenv alternate config path: a plain
// struct read directly from the process environment, used when a caller
// wants to override the bench harness's shape without a .env-as-viper-
// source file on disk.
type envOverrides struct {
	BenchSeed int64 `split_words:"true"`
}

func loadEnvOverrides() envOverrides {
	_ = godotenv.Load()

	var env envOverrides
	_ = envconfig.Process("TXCORE", &env)
	return env
}
