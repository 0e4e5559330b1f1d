package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shamlan321/OdooSense/internal/config"
)

var Logger zerolog.Logger

// Init configures the global logger from LOG_LEVEL and DEBUG_MODE. Logs go to
// stderr so they never mix with the conversational output on stdout.
func Init(cfg *config.Config) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return &config.ValidationError{Var: "LOG_LEVEL", Reason: "is not a known log level", Hint: "use trace, debug, info, warn or error"}
	}
	if cfg.Debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Debug {
		ctx = ctx.Caller()
	}
	Logger = ctx.Logger()
	log.Logger = Logger

	return nil
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}
