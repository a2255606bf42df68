package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/terraincognita07/circlecare/internal/api"
	"github.com/terraincognita07/circlecare/internal/cli"
	"github.com/terraincognita07/circlecare/internal/config"
	"github.com/terraincognita07/circlecare/internal/db"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("circlecare exited")
	}
}

func run(args []string) error {
	if err := loadDotEnv(); err != nil {
		return err
	}
	configPath := resolveConfigPath()

	if len(args) > 0 {
		return runCommand(configPath, args, os.Stdin, os.Stdout)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	setupLogger(cfg.Log.Level, os.Stderr)
	return serve(cfg)
}

func runCommand(configPath string, args []string, stdin *os.File, out io.Writer) error {
	command := strings.TrimSpace(args[0])
	if len(args) != 2 || strings.TrimSpace(args[1]) == "" {
		return fmt.Errorf("usage: circlecare %s <username>", command)
	}

	cfg, err := config.Read(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	setupLogger(cfg.Log.Level, os.Stderr)

	switch command {
	case "reset-password":
		return cli.RunResetPasswordCommand(cfg.Database.Path, args[1], out)
	case "set-password":
		return cli.RunSetPasswordCommand(cfg.Database.Path, args[1], stdin, out)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func serve(cfg config.Config) error {
	location, err := cfg.Location()
	if err != nil {
		log.Warn().Err(err).Msg("falling back to UTC")
	}
	time.Local = location

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	handler, err := api.NewHandler(database, api.HandlerOptions{
		SecretKey:    cfg.Auth.SecretKey,
		Location:     location,
		CookieSecure: cfg.Auth.CookieSecure,
		TokenTTL:     cfg.Auth.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Server.Port).
		Str("db", cfg.Database.Path).
		Str("tz", location.String()).
		Msg("circlecare listening")
	if err := app.Listen(":" + cfg.Server.Port); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "CircleCare",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}

// loadDotEnv reads ENV_FILE (default .env) when present. Variables already
// set in the environment are kept.
func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath() string {
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		return path
	}
	return config.DefaultConfigPath
}

func setupLogger(level string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
