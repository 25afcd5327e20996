package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanPaul06/RPNews/internal/config"
	"github.com/RyanPaul06/RPNews/internal/database"
	"github.com/RyanPaul06/RPNews/internal/engine"
	"github.com/RyanPaul06/RPNews/internal/llm"
	"github.com/RyanPaul06/RPNews/internal/server"
	"github.com/RyanPaul06/RPNews/internal/summarize"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "rpnews",
	Short:   "Personal news collection and triage",
	Long:    "RPNews collects, triages, and summarizes news from configured RSS feeds into a daily briefing.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rpnews", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/rpnews/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure feeds, API keys, and the summarization provider.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Today: %s\n\n", database.Today())
		fmt.Println("Articles:")
		fmt.Printf("  Total collected: %d\n", stats.TotalArticles)
		fmt.Printf("  High priority: %d\n", stats.HighPriority)
		fmt.Printf("  Unread: %d\n", stats.UnreadArticles)
		fmt.Printf("  Starred: %d\n", stats.StarredArticles)
		if len(stats.CategoryCounts) > 0 {
			fmt.Println("\nBy category:")
			for _, category := range config.Categories {
				fmt.Printf("  %s: %d\n", category, stats.CategoryCounts[category])
			}
		}
		fmt.Println("\nCollection:")
		fmt.Printf("  Runs recorded: %d\n", stats.CollectionRuns)
		if stats.LastRunAt != nil {
			fmt.Printf("  Last run: %s\n", stats.LastRunAt.Format(time.RFC3339))
		}
		fmt.Printf("  Days with overviews: %d\n", stats.DaysWithOverviews)
		return nil
	},
}

// --- collect command ---

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection cycle across all configured feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Println("Collecting articles from sources...")

		e := engine.New(cfg, db, newSummarizer())
		count, err := e.CollectAll(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("\nCollection complete: %d new articles\n", count)
		fmt.Println("Run 'rpnews serve' to browse the briefing.")
		return nil
	},
}

// --- overview command ---

var overviewRefresh bool

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Print today's overview, regenerating it if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		overview, err := db.GetDailyOverview(database.Today())
		if err != nil {
			return err
		}
		if overview == nil || overviewRefresh {
			e := engine.New(cfg, db, newSummarizer())
			if err := e.RefreshOverview(cmd.Context()); err != nil {
				return fmt.Errorf("regenerating overview: %w", err)
			}
			if overview, err = db.GetDailyOverview(database.Today()); err != nil {
				return err
			}
		}
		if overview == nil {
			fmt.Println("No overview for today yet. Run 'rpnews collect' first.")
			return nil
		}

		fmt.Printf("%s\n\n%s\n", overview.Date, overview.OverviewText)
		fmt.Printf("\nArticles: %d total, %d high priority\n",
			overview.TotalArticles, overview.HighPriorityCount)
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collection engine and web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		e := engine.New(cfg, db, newSummarizer())
		srv, err := server.New(db, e)
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}
		httpSrv := &http.Server{
			Addr:    fmt.Sprintf("127.0.0.1:%d", port),
			Handler: srv.Handler(),
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		e.Start(ctx)

		errCh := make(chan error, 1)
		go func() {
			fmt.Printf("Serving at http://%s\n", httpSrv.Addr)
			fmt.Println("Press Ctrl+C to stop")
			errCh <- httpSrv.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Printf("Received %s, shutting down", sig)
		case err := <-errCh:
			e.Stop()
			return err
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown: %v", err)
		}
		cancel()
		e.Stop()
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
	overviewCmd.Flags().BoolVar(&overviewRefresh, "refresh", false, "Regenerate even if today's overview exists")
}

// newSummarizer assembles the provider chain from config, preferred
// provider first. The rule-based fallback inside the summarizer means
// an empty chain is still fully functional.
func newSummarizer() *summarize.Summarizer {
	ollama := llm.NewOllamaProvider(cfg.Summarization.Model, cfg.Summarization.OllamaURL)
	openai := llm.NewOpenAIProvider(cfg.Summarization.OpenAIModel, cfg.Summarization.APIKeyEnv)

	if cfg.Summarization.Provider == "openai" {
		return summarize.New(openai, ollama)
	}
	return summarize.New(ollama, openai)
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(filepath.Join(dataDir, "rpnews.db"))
}
