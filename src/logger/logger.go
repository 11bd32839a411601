package logger

import (
	log "github.com/sirupsen/logrus"
)

// Init configures the global logrus logger. An unknown level falls back to
// info.
func Init(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}

	log.SetLevel(parsed)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}
