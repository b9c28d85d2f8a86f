package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/trafficnode/internal/logging"
)

// HTTPLoggingMiddleware logs each request once it completes, at a level
// derived from method and status.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	logger := logging.GetLogger("http")

	method := ctx.Method()
	path := ctx.URL().Path
	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("path", path),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}
	if ua := ctx.Header("User-Agent"); ua != "" {
		attrs = append(attrs, slog.String("user_agent", ua))
	}

	stream := strings.Contains(ctx.Header("Accept"), "text/event-stream")
	if stream {
		logger.LogAttrs(ctx.Context(), slog.LevelDebug, "Event stream opened", attrs...)
	}

	next(ctx)

	status := ctx.Status()
	attrs = append(attrs,
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	)

	message := "HTTP request completed"
	if stream {
		message = "Event stream closed"
	}
	logger.LogAttrs(ctx.Context(), requestLevel(method, status, stream), message, attrs...)
}

func requestLevel(method string, status int, stream bool) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case method == http.MethodOptions, stream:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
