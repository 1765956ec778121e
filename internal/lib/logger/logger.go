package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/linemk/farm-market/internal/lib/logger/handlers/slogpretty"
)

// switching logger
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const serviceName = "farm-market"

// SetupLogger инициализирует логгер в зависимости от окружения:
// local — цветной pretty-вывод, dev/prod — JSON с именем сервиса.
func SetupLogger(env string) *slog.Logger {
	return New(env, os.Stdout)
}

// New как SetupLogger, но пишет в произвольный writer
func New(env string, out io.Writer) *slog.Logger {
	switch env {
	case EnvLocal:
		return setupPrettySlog(out)
	case EnvDev:
		return jsonLogger(out, slog.LevelDebug)
	default:
		// prod и неизвестные окружения
		return jsonLogger(out, slog.LevelInfo)
	}
}

func jsonLogger(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}),
	).With(slog.String("service", serviceName))
}

func setupPrettySlog(out io.Writer) *slog.Logger {
	color.NoColor = false

	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(out)
	return slog.New(handler)
}
