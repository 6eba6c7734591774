package cmd

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvAPIKey is the environment variable holding the Alpha Vantage API key.
const EnvAPIKey = "ALPHAVANTAGE_API_KEY"

var apiKeyFlag = flag.String("apikey", "", "Alpha Vantage API key. This flag takes precedence over the "+EnvAPIKey+" environment variable. You can get one at https://www.alphavantage.co/support/#api-key")

// LoadEnv loads a .env file from the working directory, if any.
// Variables already set in the environment are not overridden.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("cannot load .env file")
	}
}

// APIKey retrieves the API key from the command-line flag or the environment variable.
// It prioritizes the flag over the environment variable.
func APIKey() string {
	if *apiKeyFlag != "" {
		return *apiKeyFlag
	}
	return os.Getenv(EnvAPIKey)
}

// SetupLogging configures the global logger: human readable on stderr,
// warnings only unless verbose.
func SetupLogging(verbose bool) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
