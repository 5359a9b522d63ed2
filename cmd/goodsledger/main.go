package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/goodsledger/internal/api"
	"github.com/erazemk/goodsledger/internal/config"
	"github.com/erazemk/goodsledger/internal/db"
	"github.com/erazemk/goodsledger/internal/logger"
	"github.com/erazemk/goodsledger/internal/transfer"
)

const usage = `Usage: goodsledger <init|serve> [flags]

Commands:
  init    create a new database and exit
  serve   run the HTTP server (creates the database if missing)

Flags:
  -c, -config <dir>       directory holding goodsledger.toml and .env (default: .)
  -d, -db <path>          SQLite database path (overrides database.path)
  -a, -addr <host:port>   listen address, serve only (overrides http.addr)
  -l, -log <path>         log file path (overrides log.output)
  -h, -help               show this help and exit
`

type options struct {
	configDir string
	dbPath    string
	addr      string
	logPath   string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "-h" || cmd == "-help" || cmd == "--help" {
		fmt.Fprint(os.Stdout, usage)
		return
	}
	if cmd != "init" && cmd != "serve" {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}

	opts, err := parseFlags(cmd, os.Args[2:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(opts.configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, opts)

	switch cmd {
	case "init":
		err = cmdInit(cfg)
	case "serve":
		err = cmdServe(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(cmd string, args []string) (options, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	var opts options
	fs.StringVar(&opts.configDir, "config", "", "")
	fs.StringVar(&opts.configDir, "c", "", "")
	fs.StringVar(&opts.dbPath, "db", "", "")
	fs.StringVar(&opts.dbPath, "d", "", "")
	fs.StringVar(&opts.addr, "addr", "", "")
	fs.StringVar(&opts.addr, "a", "", "")
	fs.StringVar(&opts.logPath, "log", "", "")
	fs.StringVar(&opts.logPath, "l", "", "")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return opts, nil
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	if opts.addr != "" {
		cfg.HTTP.Addr = opts.addr
	}
	if opts.logPath != "" {
		cfg.Log.Output = opts.logPath
	}
}

func cmdInit(cfg *config.Config) error {
	if _, err := os.Stat(cfg.Database.Path); err == nil {
		return fmt.Errorf("database file %s already exists", cfg.Database.Path)
	}

	if err := initDatabase(cfg.Database.Path); err != nil {
		return err
	}

	fmt.Printf("Database created: %s\n", cfg.Database.Path)
	fmt.Println("Schema initialized.")
	return nil
}

// initDatabase creates a new database with the current schema.
func initDatabase(path string) error {
	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		database.Close()
		os.Remove(path)
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

func cmdServe(cfg *config.Config) error {
	log, closeLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return err
	}
	defer closeLog()
	zap.ReplaceGlobals(log)

	// Auto-init on first run.
	if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
		if err := initDatabase(cfg.Database.Path); err != nil {
			log.Error("failed to initialize database", zap.Error(err))
			return err
		}
		log.Info("database created", zap.String("path", cfg.Database.Path))
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Error("failed to migrate database", zap.Error(err))
		return err
	}
	log.Info("database ready", zap.String("path", cfg.Database.Path))

	engine := transfer.NewEngine(database, transfer.Config{
		InventoryNumberBase: cfg.Inventory.NumberBase,
	}, log.Named("transfer"))

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.LoggingMiddleware(api.NewRouter(database, engine)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	log.Info("server started",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("env", cfg.App.Env),
		zap.Int64("inventory_number_base", cfg.Inventory.NumberBase),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", zap.Error(err))
		return err
	}

	log.Info("server stopped, closing database")
	return nil
}
