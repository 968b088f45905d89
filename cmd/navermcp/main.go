package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/NERVsystems/navermcp/pkg/metrics"
	"github.com/NERVsystems/navermcp/pkg/naver"
	"github.com/NERVsystems/navermcp/pkg/server"
	"github.com/NERVsystems/navermcp/pkg/version"
	"github.com/joho/godotenv"
)

// configKey is the entry written under mcpServers by -generate-config.
const configKey = "naver-maps"

var (
	showVersion    bool
	debug          bool
	envFile        string
	logDir         string
	metricsAddr    string
	generateConfig string
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "Display version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&envFile, "env-file", ".env", "Load environment variables from this file if it exists")
	flag.StringVar(&logDir, "log-dir", "", "Also write logs to a daily file in this directory")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	flag.StringVar(&generateConfig, "generate-config", "", "Generate an MCP client config file at the specified path")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}

	var logLevel slog.Level
	if debug {
		logLevel = slog.LevelDebug
	} else {
		logLevel = slog.LevelInfo
	}

	logOut, closeLog, err := logWriter(logDir, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// stdout carries the MCP protocol
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	generated, err := prepareEnv(envFile, generateConfig)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	if generated {
		logger.Info("successfully generated MCP client config", "path", generateConfig)
		return
	}

	cfg, err := naver.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting Naver Maps MCP server",
		"version", version.BuildVersion,
		"commit", version.BuildCommit,
		"log_level", logLevel.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, metricsAddr, logger); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	srv, err := server.NewServer(server.Options{Logger: logger, Config: cfg})
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	logger.Info("server initialized, waiting for requests")
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// prepareEnv loads the env file and, when configPath is set, writes the
// client config from the resulting environment. generated reports whether a
// config was written, in which case the server should not start.
func prepareEnv(envPath, configPath string) (generated bool, err error) {
	if err := loadEnvFile(envPath); err != nil {
		return false, fmt.Errorf("failed to load env file %s: %w", envPath, err)
	}
	if configPath == "" {
		return false, nil
	}
	if err := generateClientConfig(configPath); err != nil {
		return false, fmt.Errorf("failed to generate config: %w", err)
	}
	return true, nil
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// logWriter returns stderr, or stderr plus a daily file in dir.
func logWriter(dir string, now time.Time) (io.Writer, func(), error) {
	if dir == "" {
		return os.Stderr, func() {}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}

	name := filepath.Join(dir, fmt.Sprintf("coordinate_search_%s.log", now.Format("20060102")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return io.MultiWriter(os.Stderr, f), func() { f.Close() }, nil
}

// generateClientConfig creates or updates an MCP client config file
// (Claude Desktop format), keeping any other servers already listed.
func generateClientConfig(outputPath string) error {
	logger := slog.Default()

	if outputPath == "" {
		return errors.New("output path must not be empty")
	}
	if filepath.Ext(outputPath) != ".json" {
		return fmt.Errorf("config file must have a .json extension: %s", outputPath)
	}

	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0]
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath
	}

	serverConfig := map[string]interface{}{
		"command": absExecPath,
		"args":    []string{},
		"env": map[string]string{
			naver.EnvMapsClientID:       os.Getenv(naver.EnvMapsClientID),
			naver.EnvMapsClientSecret:   os.Getenv(naver.EnvMapsClientSecret),
			naver.EnvSearchClientID:     os.Getenv(naver.EnvSearchClientID),
			naver.EnvSearchClientSecret: os.Getenv(naver.EnvSearchClientSecret),
		},
	}

	var config map[string]interface{}

	if data, err := os.ReadFile(outputPath); err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			logger.Warn("existing config is not valid JSON, will create new", "error", err)
			config = nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read existing config: %w", err)
	}
	if config == nil {
		config = make(map[string]interface{})
	}

	mcpServers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		mcpServers = make(map[string]interface{})
		config["mcpServers"] = mcpServers
	}
	mcpServers[configKey] = serverConfig

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// credentials may be embedded, keep the file private
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(outputPath, 0600)
}
