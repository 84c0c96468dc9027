package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-intake/internal/config"
	"github.com/jonathan/applicant-intake/internal/db"
	"github.com/jonathan/applicant-intake/internal/extraction"
	"github.com/jonathan/applicant-intake/internal/ledger"
	"github.com/jonathan/applicant-intake/internal/llm"
	"github.com/jonathan/applicant-intake/internal/logger"
	"github.com/jonathan/applicant-intake/internal/scheduler"
	"github.com/jonathan/applicant-intake/internal/server"
	"github.com/jonathan/applicant-intake/internal/storage"
	"github.com/jonathan/applicant-intake/internal/webhook"
)

var (
	serveConfigPath string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intake API server",
	Long: `Start the HTTP server that accepts CV submissions.

Configuration is resolved in order: config file (--config), environment
variables, then built-in defaults. PostgreSQL, redis, and the webhook
are optional; the submit flow skips whatever is not configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	store, err := storage.NewLocalStore(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	book := ledger.New(cfg.LedgerPath)
	if err := book.Init(); err != nil {
		return fmt.Errorf("failed to initialize ledger: %w", err)
	}

	serverCfg := server.Config{
		Port:       cfg.Port,
		StorageDir: cfg.StorageDir,
		Store:      store,
		Ledger:     book,
		Logger:     log,
	}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		serverCfg.Extractor = extraction.NewExtractor(client, log, cfg.ExtractionTimeoutDuration())
	} else {
		log.Warn("GEMINI_API_KEY not set, falling back to heuristic extraction only")
	}

	if cfg.WebhookURL != "" {
		serverCfg.Webhook = webhook.NewSender(cfg.WebhookURL, cfg.CandidateEmail, log)
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		serverCfg.Records = database
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		sender, err := scheduler.NewSESSender(ctx, cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			return fmt.Errorf("failed to create email sender: %w", err)
		}

		sched := scheduler.New(scheduler.NewRegistry(redisClient), sender, log)
		sched.Start()
		defer sched.Stop()
		serverCfg.Scheduler = sched
	} else {
		log.Warn("REDIS_ADDR not set, follow-up emails are disabled")
	}

	srv, err := server.New(serverCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("intake server configured",
		zap.Int("port", cfg.Port),
		zap.Bool("extraction", serverCfg.Extractor != nil),
		zap.Bool("webhook", serverCfg.Webhook != nil),
		zap.Bool("database", serverCfg.Records != nil),
		zap.Bool("followups", serverCfg.Scheduler != nil))

	return srv.Start()
}
