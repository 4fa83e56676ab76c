package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/civicreport/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file (the -env-file flag, else ./.env when present)
// into the process environment and then overlays every Config field that has
// its variable set. Variables already present in the environment win over the
// file. Unset variables leave the field untouched.
func parseEnv(config *Config) {
	if err := loadEnvFile(flagx.EnvFileFlags()); err != nil {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}

func loadEnvFile(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}

	err := godotenv.Load(defaultEnvFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
