package bootstrap

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/strataviz/frameserve/internal/compress"
	"github.com/strataviz/frameserve/internal/frame"
	"github.com/strataviz/frameserve/internal/health"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideCompression(cfg *Config) (compress.Codec, error) {
	return compress.NewGzip(cfg.CompressionLevel)
}

func ProvideFrameCodec(cfg *Config, compression compress.Codec) (*frame.Codec, error) {
	return frame.NewCodec(cfg.OriginalWidth, cfg.ResizedWidth, compression)
}

func ProvideFrameHandler(store *frame.Store, codec *frame.Codec, logger *slog.Logger) *frame.Handler {
	return frame.NewHandler(store, codec, logger.With("handler", "frame"))
}

func ProvideHealthHandler(db *gorm.DB, store *frame.Store) *health.Handler {
	return health.NewHandler(db, store)
}

type HandlerParams struct {
	fx.In

	FrameHandler  *frame.Handler
	HealthHandler *health.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")
	params.FrameHandler.RegisterRoutes(api.Group("/frames"))
	params.HealthHandler.RegisterRoutes(e)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideCompression,
		ProvideFrameCodec,
		ProvideFrameHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
