package observability

import (
	"log/slog"
	"os"

	"github.com/nexfound/apply-engine/internal/config"
)

// SetupLogger builds the process-wide JSON logger. Dev runs at debug level,
// everything else at info; every line carries the service and environment.
func SetupLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
	)
}
