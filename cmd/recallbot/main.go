// Recallbot is a Telegram bot that remembers links, files, voice notes
// and locations, and finds them later by semantic search.
//
// Configuration is loaded from a YAML file with environment variable
// overrides. See internal/config for details.
//
// Usage:
//
//	# Start with the default config path
//	recallbot
//
//	# Start with an explicit config file
//	recallbot --config /etc/recallbot/config.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/config"
	"github.com/fyrsmithlabs/recallbot/internal/health"
	"github.com/fyrsmithlabs/recallbot/internal/ingest"
	"github.com/fyrsmithlabs/recallbot/internal/intent"
	"github.com/fyrsmithlabs/recallbot/internal/llm"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/reranker"
	"github.com/fyrsmithlabs/recallbot/internal/retrieval"
	"github.com/fyrsmithlabs/recallbot/internal/session"
	"github.com/fyrsmithlabs/recallbot/internal/telegram"
	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"

	embeddingsvc "github.com/fyrsmithlabs/recallbot/internal/embeddings"
)

// Version information (set via ldflags during build)
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:     "recallbot",
	Short:   "Telegram memory bot with semantic retrieval",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.config/recallbot/config.yaml)")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "recallbot: %v\n", err)
		os.Exit(1)
	}
}

// run wires all services and blocks until the context is canceled.
//
//  1. Loads and validates configuration
//  2. Initializes the logger
//  3. Connects the vector store and embedding service
//  4. Builds the LLM cascade, classifier, reranker and answerer
//  5. Assembles ingestion and retrieval pipelines
//  6. Starts the Telegram transport and the health/metrics server
//  7. Performs graceful shutdown on context cancellation
func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	logger.Info(ctx, "starting recallbot",
		zap.String("version", version),
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("model", cfg.LLM.Model),
	)

	embedder, err := embeddingsvc.NewService(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("initializing embeddings: %w", err)
	}

	store, err := vectorstore.New(cfg.Store, cfg.Embedding.VectorSize, embedder, logger)
	if err != nil {
		return fmt.Errorf("initializing vector store: %w", err)
	}
	defer store.Close()

	// One cascade for answering and media analysis, one cheap-first
	// cascade for classification and reranking.
	primary, err := llm.NewClient(cfg.LLM, cfg.LLM.Model, logger)
	if err != nil {
		return fmt.Errorf("initializing llm client: %w", err)
	}
	cheapFirst, err := llm.NewCascadeFromConfig(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("initializing llm cascade: %w", err)
	}

	classifier, err := intent.NewClassifier(cheapFirst, logger)
	if err != nil {
		return err
	}
	rr, err := reranker.NewLLMReranker(cheapFirst, logger)
	if err != nil {
		return err
	}
	answerer, err := retrieval.NewAnswerer(primary, logger)
	if err != nil {
		return err
	}

	var transcriber ingest.Transcriber
	if cfg.LLM.WhisperAPIKey.IsSet() {
		transcriber, err = ingest.NewWhisperTranscriber(cfg.LLM.WhisperAPIKey.Value())
		if err != nil {
			return fmt.Errorf("initializing whisper: %w", err)
		}
	}

	ingestSvc, err := ingest.NewService(store, primary, ingest.ReadabilityExtractor{}, transcriber, cfg.Ingest.MaxFileSize, logger)
	if err != nil {
		return fmt.Errorf("initializing ingest service: %w", err)
	}

	cache := session.NewMemoryCache(cfg.Session.TTL.Duration())

	orch, err := retrieval.NewOrchestrator(cfg.Retrieval, classifier, store, rr, cache, answerer, nil, ingestSvc, logger)
	if err != nil {
		return fmt.Errorf("initializing orchestrator: %w", err)
	}

	bot, err := telegram.New(cfg.Telegram, orch, ingestSvc, classifier, logger)
	if err != nil {
		return fmt.Errorf("initializing telegram bot: %w", err)
	}
	orch.SetMessageCopier(bot)

	srv, err := health.NewServer(cfg.Server, logger)
	if err != nil {
		return fmt.Errorf("initializing http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go bot.Start(ctx)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn(shutdownCtx, "http shutdown failed", zap.Error(err))
	}

	logger.Info(shutdownCtx, "shutdown complete")
	return nil
}
