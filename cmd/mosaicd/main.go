// Command mosaicd runs the Mosaic server: it binds a listen address,
// accepts connections, and drives each through HELLO/SUBMISSION/GET
// against a SQLite-backed content-addressed record store.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	mosaic "github.com/mosaic-network/mosaic-server"
	"github.com/mosaic-network/mosaic-server/internal/approve"
	"github.com/mosaic-network/mosaic-server/internal/keyidentity"
	"github.com/mosaic-network/mosaic-server/internal/mlog"
	"github.com/mosaic-network/mosaic-server/internal/serverid"
	"github.com/mosaic-network/mosaic-server/internal/sqlitestore"
)

// Config is the daemon's resolved configuration, populated by urfave/cli
// flag destinations the way cmd/mirord binds its own Config struct.
type Config struct {
	DataDir    string
	ListenAddr string
	LogLevel   string
	PIDFile    string
	Verbose    bool
}

func defaultConfig() *Config {
	return &Config{
		DataDir:    "./mosaic-data",
		ListenAddr: "127.0.0.1:8765",
		LogLevel:   "info",
	}
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644)
}

func removePIDFile(path string) {
	if path == "" {
		return
	}
	os.Remove(path)
}

func runDaemon(config *Config) error {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}
	mlog.SetLevel(level)
	if config.Verbose {
		mlog.EnableConsole()
	}

	dataDir := expandPath(config.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := writePIDFile(config.PIDFile); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer removePIDFile(config.PIDFile)

	store, err := sqlitestore.Open(filepath.Join(dataDir, "records.db"))
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer store.Close()

	id, err := serverid.Ensure(store.DB())
	if err != nil {
		return fmt.Errorf("ensure server id: %w", err)
	}

	secretKey, err := keyidentity.LoadOrGenerate()
	if err != nil {
		return fmt.Errorf("load identity key: %w", err)
	}

	server := mosaic.NewServer(mosaic.ServerConfig{
		SecretKey:  secretKey,
		ListenAddr: config.ListenAddr,
		Approver:   approve.AllowAll{},
		Logger:     mlog.ClientLogger{},
		Store:      store,
	})

	mlog.Logger.Info().
		Str("server_id", id).
		Str("listen_addr", config.ListenAddr).
		Str("data_dir", dataDir).
		Msg("starting mosaicd")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		mlog.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
		server.TriggerShutDown(0)
	}()

	if err := server.Run(); err != nil {
		return fmt.Errorf("server run: %w", err)
	}
	server.WaitForShutDown()
	return nil
}

func main() {
	config := defaultConfig()

	app := &cli.App{
		Name:  "mosaicd",
		Usage: "run a Mosaic protocol server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "data-dir",
				Value:       config.DataDir,
				Usage:       "directory holding the record store",
				Destination: &config.DataDir,
			},
			&cli.StringFlag{
				Name:        "listen",
				Value:       config.ListenAddr,
				Usage:       "address to accept connections on",
				Destination: &config.ListenAddr,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Value:       config.LogLevel,
				Usage:       "debug, info, warn, or error",
				Destination: &config.LogLevel,
			},
			&cli.StringFlag{
				Name:        "pid-file",
				Usage:       "optional path to write the daemon's pid to",
				Destination: &config.PIDFile,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "log to the console instead of structured JSON",
				Destination: &config.Verbose,
			},
		},
		Action: func(c *cli.Context) error {
			return runDaemon(config)
		},
	}

	if err := app.Run(os.Args); err != nil {
		if merr, ok := mosaic.AsError(err); ok {
			fmt.Fprintf(os.Stderr, "mosaicd: [%s] %v\n", merr.Kind, merr)
		} else {
			fmt.Fprintln(os.Stderr, "mosaicd:", err)
		}
		os.Exit(1)
	}
}
