package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/user/warrant_analyzer_go/internal/api"
	"github.com/user/warrant_analyzer_go/internal/config"
	"github.com/user/warrant_analyzer_go/internal/logger"
	"github.com/user/warrant_analyzer_go/internal/warrant"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (defaults and WARRANT_* environment when empty)")
	serve      = flag.Bool("serve", false, "Run the HTTP API instead of generating a report")
	inputPath  = flag.String("input", "", "Count sheet CSV, overrides input.file")
	pdfPath    = flag.String("pdf", "", "PDF report path, overrides output.pdf")
	jsonPath   = flag.String("json", "", "JSON report path, overrides output.json")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *inputPath != "" {
		cfg.Input.File = *inputPath
	}
	if *pdfPath != "" {
		cfg.Output.PDF = *pdfPath
	}
	if *jsonPath != "" {
		cfg.Output.JSON = *jsonPath
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	engine := warrant.NewEngine(zlog, warrant.WithIntervalsPerHour(cfg.Input.IntervalsPerHour))

	if *serve {
		runServer(cfg, engine, zlog)
		return
	}

	app := NewApp(cfg, engine, zlog)
	if _, err := app.GenerateReport(); err != nil {
		zlog.Fatal("Report generation failed", zap.Error(err))
	}
}

func runServer(cfg *config.Config, engine *warrant.Engine, zlog *zap.Logger) {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(engine, zlog, cfg.Server.MaxBodyBytes),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("Starting server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited")
}
