package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/elpoderosocode/Barberia/libs/config"
	"github.com/elpoderosocode/Barberia/libs/httpx"
	otelx "github.com/elpoderosocode/Barberia/libs/otel"
	"github.com/elpoderosocode/Barberia/libs/runtime"
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/agenda"
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/catalog"
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/handlers"
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/widget"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "widget-service")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	cat := catalog.Default()
	if path := strings.TrimSpace(config.String("CATALOG_PATH", "")); path != "" {
		loaded, err := catalog.LoadFile(path)
		if err != nil {
			logger.Error("catalog load failed, using built-in dataset", "path", path, "err", err)
		} else {
			cat = loaded
			logger.Info("catalog loaded", "path", path)
		}
	}

	agendaURL := config.String("AGENDA_URL", "http://localhost:8090")
	agendaClient := agenda.NewClient(agendaURL,
		config.DurationSeconds("AGENDA_TIMEOUT_SECONDS", 10*time.Second), logger)
	logger.Info("agenda endpoint configured", "url", agendaURL)

	ctrl := widget.New(cat, agendaClient, logger)

	mux := runtime.NewBaseMuxWithReady()
	handlers.New(ctrl, logger).Register(mux)

	bodyLimit := int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))
	requestTimeout := config.DurationSeconds("REQUEST_TIMEOUT_SECONDS", 10*time.Second)
	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 60)

	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		redisDB := 0
		if v, err := strconv.Atoi(config.String("REDIS_DB", "0")); err == nil && v >= 0 {
			redisDB = v
		}
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       redisDB,
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   config.List(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods:   config.List(config.String("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")),
			AllowedHeaders:   config.List(config.String("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-Id")),
			AllowCredentials: config.Bool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           config.DurationSeconds("CORS_MAX_AGE_SECONDS", 600*time.Second),
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(bodyLimit),
		httpx.WithTimeout(requestTimeout),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "widget")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
