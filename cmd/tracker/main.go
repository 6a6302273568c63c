package main

import (
	"context"
	"fmt"
	"os"

	"metalwatch/config"
	"metalwatch/internal/app"
	"metalwatch/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; the scheduler normally provides the environment
	_ = godotenv.Load()

	configPath := os.Getenv("METALWATCH_CONFIG")

	// viper config
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// zap logger
	base, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger: "+err.Error())
		return 1
	}
	defer base.Sync()

	log, _ := logger.WithRun(base)

	report, err := app.Run(context.Background(), cfg, log)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return 1
	}

	log.Info("run completed",
		zap.Float64("gold", report.Current.Gold),
		zap.Float64("silver", report.Current.Silver),
		zap.Int("alerts", len(report.Alerts)),
	)
	return 0
}
