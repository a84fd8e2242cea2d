package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/talentsift/talentsift/catalog"
	"github.com/talentsift/talentsift/embedding"
	"github.com/talentsift/talentsift/importer"
	"github.com/talentsift/talentsift/vectorstore"
)

var importCmd = &cobra.Command{
	Use:   "import <resumes.json>",
	Short: "Import resumes from a JSON file into the vector store and catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := os.MkdirAll(filepath.Dir(cfg.Storage.VectorPath), 0o755); err != nil {
			return err
		}

		vectors, err := vectorstore.Open(vectorstore.Options{
			Dir:      cfg.Storage.VectorPath,
			InMemory: cfg.Storage.VectorInMemory,
		})
		if err != nil {
			return err
		}
		defer vectors.Close()

		cat, err := catalog.Open(cfg.Storage.CatalogPath)
		if err != nil {
			return err
		}
		defer cat.Close()

		embedder, err := embedding.NewProvider(embedding.Config{
			Provider:  cfg.Embedding.Provider,
			Model:     cfg.Embedding.Model,
			APIKey:    cfg.LLM.OpenAIKey,
			BaseURL:   cfg.Embedding.BaseURL,
			Dimension: cfg.Embedding.Dimension,
		})
		if err != nil {
			return err
		}

		im := importer.New(vectors, cat, embedder, logger)
		stats, err := im.ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printImportSummary(stats)
		if stats.Total > 0 && stats.Imported == 0 {
			return fmt.Errorf("no resumes were imported")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func printImportSummary(stats *importer.Stats) {
	fmt.Println("Resume import summary")
	fmt.Printf("  Total:    %d\n", stats.Total)
	fmt.Printf("  Imported: %d\n", stats.Imported)
	fmt.Printf("  Failed:   %d\n", stats.Failed)
	if len(stats.Errors) > 0 {
		fmt.Printf("  Errors (%d):\n", len(stats.Errors))
		shown := stats.Errors
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for i, msg := range shown {
			fmt.Printf("    %d. %s\n", i+1, msg)
		}
		if rest := len(stats.Errors) - len(shown); rest > 0 {
			fmt.Printf("    ... and %d more\n", rest)
		}
	}
}
