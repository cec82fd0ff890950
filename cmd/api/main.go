package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reactagent/calendar-service/internal/config"
	"github.com/reactagent/calendar-service/internal/httpserver"
	"github.com/reactagent/calendar-service/internal/pipeline"
	"github.com/reactagent/calendar-service/internal/store"
	"github.com/reactagent/calendar-service/internal/stream"
)

// newLogger builds a console zap logger with readable timestamps.
func newLogger() *zap.SugaredLogger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapcore.InfoLevel,
	)

	return zap.New(core, zap.AddCaller()).Sugar()
}

// main boots the service: logger → config → DB → schema → stream → HTTP server.
func main() {
	sugar := newLogger()
	defer sugar.Sync()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatal(err)
	}

	// Connect to durable storage (Postgres) using a connection pool.
	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		sugar.Fatal(err)
	}
	defer db.Close()

	// Ensure required tables/indexes exist so `docker compose up --build` is enough.
	if err := db.EnsureSchema(); err != nil {
		sugar.Fatal(err)
	}

	// The stream is optional: when Redis is down the service keeps serving
	// requests and publish attempts fail quietly.
	publisher := stream.NewPublisher(cfg.RedisAddr, cfg.StreamTopic, sugar)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := publisher.Ping(ctx); err != nil {
		sugar.Warnw("event stream unreachable, continuing without publishing",
			"addr", cfg.RedisAddr, "error", err)
	}
	cancel()

	p := pipeline.New(db, db, publisher, sugar)

	router := httpserver.NewRouter(p, db, db)

	sugar.Infof("server started on :%s", cfg.Port)
	sugar.Fatal(router.Run(":" + cfg.Port))
}
