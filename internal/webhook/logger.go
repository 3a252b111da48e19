package webhook

import (
	"os"

	"github.com/rs/zerolog"
)

func newLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Str("component", "webhook").Logger()
}
