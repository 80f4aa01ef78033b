package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"price-ticker/src/config"
	"price-ticker/src/logger"

	"github.com/joho/godotenv"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	envPath := flag.String("env", ".env", "optional dotenv file with TICKER_* overrides")
	autoStart := flag.Bool("autostart", false, "start streaming the configured symbols at boot")
	flag.Parse()

	// Load .env before reading overrides
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Error loading env file: %v\n", err)
		os.Exit(1)
	}

	// Load config from YAML file, falling back to defaults
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.MConfig, cfg.Name)
	defer appLogger.Sync()

	// Setup components
	app, err := setupApp(cfg, appLogger)
	if err != nil {
		appLogger.Critical("Failed to set up application: %v", err)
	}

	// Start servers
	if err := startServers(app, cfg, appLogger); err != nil {
		appLogger.Critical("Failed to start servers: %v", err)
	}

	if *autoStart {
		if err := app.Board.Start(cfg.Symbols); err != nil {
			appLogger.Error("Autostart failed: %v", err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	appLogger.Info("Price ticker ready (http %s:%d, grpc %s:%d)", cfg.Host, cfg.Port, cfg.GrpcHost, cfg.GrpcPort)
	<-quit

	appLogger.Info("Shutting down...")
	app.Shutdown()
}

// -----------------------------------------------------------------------------

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Config file %s not found, using defaults\n", path)
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.NewConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}
