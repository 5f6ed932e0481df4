package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"research-pilot-client/api"
	"research-pilot-client/db"
	"research-pilot-client/ui"
	"research-pilot-client/utils"
)

var (
	version = "0.1.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	serverURL := flag.String("server", "", "Backend server URL (overrides config)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ResearchPilot Client v%s\n", version)
		os.Exit(0)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.GetLogPath())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting ResearchPilot Client v%s", version)

	// Load or create default configuration
	var config *utils.Config
	var actualConfigPath string
	if *configPath != "" {
		actualConfigPath = *configPath
		config, err = utils.LoadConfig(actualConfigPath)
		if err != nil {
			logger.Error("Failed to load config: %v", err)
			os.Exit(1)
		}
	} else {
		actualConfigPath, err = utils.EnsureDefaultConfig()
		if err != nil {
			logger.Error("Failed to create default config: %v", err)
			os.Exit(1)
		}
		logger.Info("Using config file: %s", actualConfigPath)

		config, err = utils.LoadConfig(actualConfigPath)
		if err != nil {
			logger.Error("Failed to load config: %v", err)
			os.Exit(1)
		}
	}

	if *serverURL != "" {
		config.Server.BaseURL = *serverURL
	}

	// Open the local session store
	store, err := db.New(config.Data.DBPath)
	if err != nil {
		logger.Error("Failed to open session store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	logger.Info("Session store opened: %s", config.Data.DBPath)

	// The gateway reads the credential from the store on every call; the
	// store stays the single writer.
	tokens := api.TokenFunc(func() (string, bool) {
		token, ok, err := store.Token()
		if err != nil {
			logger.Error("Failed to read credential: %v", err)
			return "", false
		}
		return token, ok
	})

	client := api.NewClient(
		config.Server.BaseURL,
		tokens,
		time.Duration(config.Server.TimeoutSeconds)*time.Second,
	)

	logger.Info("Backend: %s", config.Server.BaseURL)

	// Create and run application
	app := ui.NewApp(config, actualConfigPath, store, client, logger)

	logger.Info("Application started")
	app.Run()
	logger.Info("Application stopped")
}
