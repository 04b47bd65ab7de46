package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/faizanTadvi/SIHP1/internal/config"
	"github.com/faizanTadvi/SIHP1/internal/handle"
	"github.com/faizanTadvi/SIHP1/internal/handler"
	"github.com/faizanTadvi/SIHP1/internal/inject"
	"github.com/faizanTadvi/SIHP1/internal/log"
	"github.com/faizanTadvi/SIHP1/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.New(os.Stderr, slog.LevelInfo).Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr, log.ParseLevel(cfg.LogLevel))
	if err := run(log.NewContext(context.Background(), logger), cfg); err != nil {
		logger.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	injector := inject.Setup(ctx, cfg)
	defer func() { _ = injector.Shutdown() }()

	// the model handle is settled before the first request
	do.MustInvoke[*model.Handle](injector)
	gin.SetMode(gin.ReleaseMode)

	if _, ok := os.LookupEnv("AWS_LAMBDA_RUNTIME_API"); ok {
		h := do.MustInvoke[*handle.FunctionURLHandler](injector)
		lambda.StartWithOptions(h.Handle, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
			_ = injector.Shutdown()
		}))
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return err
	}
	return handler.Serve(ctx, l, do.MustInvoke[http.Handler](injector))
}
