package telemetry

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets up logrus the way the engine's entrypoints
// expect: JSON in production, text for local/dev, level from
// AUCTIONENGINE_LOG_LEVEL (default info).
func ConfigureLogging() {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("AUCTIONENGINE_LOG_FORMAT")), "text") {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}

	level, err := log.ParseLevel(strings.TrimSpace(os.Getenv("AUCTIONENGINE_LOG_LEVEL")))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
