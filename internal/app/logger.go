package app

import (
	"os"

	"github.com/guttosm/vitaltrack-proxy/internal/logger"
)

// ServiceName identifies this process in logs.
const ServiceName = "vitaltrack-proxy"

// InitializeLogger initializes the JSON logger from LOG_LEVEL and LOG_PRETTY,
// tagging every line with the cache version.
func InitializeLogger(cacheVersion string) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Pretty:  os.Getenv("LOG_PRETTY") == "true",
		Service: ServiceName,
		Version: cacheVersion,
	})
}
