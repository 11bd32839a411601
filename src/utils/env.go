package utils

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"

// InitEnvironmentVariables loads the local .env file when present. Missing
// files are not an error: production deployments configure the environment
// directly.
func InitEnvironmentVariables() {
	envFile := DEV_ENV_FILENAME
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Debugf("no %s file loaded: %v", envFile, err)
		return
	}

	log.Infof("loaded environment from %s", envFile)
}
