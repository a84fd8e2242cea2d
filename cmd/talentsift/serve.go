package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/catalog"
	"github.com/talentsift/talentsift/config"
	"github.com/talentsift/talentsift/embedding"
	"github.com/talentsift/talentsift/insight"
	"github.com/talentsift/talentsift/llm"
	"github.com/talentsift/talentsift/server"
	"github.com/talentsift/talentsift/service"
	"github.com/talentsift/talentsift/shutdown"
	"github.com/talentsift/talentsift/store"
	"github.com/talentsift/talentsift/vectorstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		return runServe(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		return err
	}

	db, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}

	vectors, err := vectorstore.Open(vectorstore.Options{
		Dir:      cfg.Storage.VectorPath,
		InMemory: cfg.Storage.VectorInMemory,
	})
	if err != nil {
		db.Close()
		return err
	}

	cat, err := catalog.Open(cfg.Storage.CatalogPath)
	if err != nil {
		vectors.Close()
		db.Close()
		return err
	}

	embedder, err := embedding.NewProvider(embedding.Config{
		Provider:  cfg.Embedding.Provider,
		Model:     cfg.Embedding.Model,
		APIKey:    cfg.LLM.OpenAIKey,
		BaseURL:   cfg.Embedding.BaseURL,
		Dimension: cfg.Embedding.Dimension,
	})
	if err != nil {
		cat.Close()
		vectors.Close()
		db.Close()
		return err
	}

	provider, err := llm.NewProvider(llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey(),
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		cat.Close()
		vectors.Close()
		db.Close()
		return err
	}

	candidates := service.NewCandidateService(db, vectors, embedder, service.CandidateOptions{
		RetrievalTopK: cfg.Chat.RetrievalTopK,
		EmbedTimeout:  cfg.Embedding.Timeout.Duration,
	}, logger)
	chat := service.NewChatService(db,
		insight.NewWeightsGenerator(provider, logger),
		insight.NewAnalyzer(provider, logger),
		service.ChatOptions{
			AnalysisTopN: cfg.Chat.AnalysisTopN,
			LLMTimeout:   cfg.LLM.Timeout.Duration,
		}, logger)

	srv := server.New(db, candidates, chat, cat, server.Options{
		Addr:           cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout.Duration,
		WriteTimeout:   cfg.Server.WriteTimeout.Duration,
		ChatRateLimit:  cfg.Server.ChatRateLimit,
		ChatRateWindow: cfg.Server.ChatRateWindow.Duration,
	}, logger)

	coord := shutdown.NewCoordinator(cfg.Server.ShutdownTimeout.Duration, logger)
	coord.RegisterFunc("http-server", shutdown.PhaseFrontend, srv.Shutdown)
	if closer, ok := provider.(io.Closer); ok {
		coord.RegisterFunc("llm-provider", shutdown.PhaseServices, func(context.Context) error {
			return closer.Close()
		})
	}
	coord.RegisterFunc("catalog", shutdown.PhaseStorage, func(context.Context) error {
		return cat.Close()
	})
	coord.RegisterFunc("vector-store", shutdown.PhaseStorage, func(context.Context) error {
		return vectors.Close()
	})
	coord.RegisterFunc("database", shutdown.PhaseStorage, func(context.Context) error {
		return db.Close()
	})
	coord.HandleSignals()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		_ = coord.Shutdown(sctx)
		return err
	case <-coord.Done():
		logger.Info("server stopped")
		return coord.Err()
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		return coord.Shutdown(sctx)
	}
}
