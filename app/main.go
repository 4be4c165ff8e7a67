package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/wine-comb/app/api"
	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/cfg"
	"github.com/lysyi3m/wine-comb/app/database"
	"github.com/lysyi3m/wine-comb/app/fetch"
	"github.com/lysyi3m/wine-comb/app/scrape"
	"github.com/lysyi3m/wine-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Wine Comb", "version", appCfg.Version)

	profile, err := catalog.LoadProfile(appCfg.ProfileFile)
	if err != nil {
		slog.Error("Failed to load profile", "path", appCfg.ProfileFile, "error", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	productRepo := database.NewProductRepository(db, profile.Name)
	catalogRepo := database.NewCatalogRepository(db)
	runRepo := database.NewRunRepository(db)

	client, err := fetch.NewClient(appCfg.UserAgent,
		time.Duration(profile.Settings.Timeout)*time.Second,
		time.Duration(profile.Settings.RequestInterval)*time.Millisecond)
	if err != nil {
		slog.Error("Failed to create HTTP client", "error", err)
		os.Exit(1)
	}

	runner := scrape.NewRunner(profile, client, productRepo, catalogRepo)

	if appCfg.Once {
		if err := runOnce(appCfg, profile, runner, runRepo); err != nil {
			slog.Error("Run failed", "source", profile.Name, "error", err)
			db.Close()
			os.Exit(1)
		}
		return
	}

	scheduler := tasks.NewScheduler(profile, runner, productRepo, catalogRepo, runRepo,
		time.Duration(appCfg.SchedulerInterval)*time.Second,
		time.Duration(appCfg.TaskTimeout)*time.Second,
		appCfg.AutoMerge)
	scheduler.Start()

	apiHandler := api.NewHandler(profile, productRepo, catalogRepo, runRepo, scheduler, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "api_enabled", appCfg.APIAccessKey != "")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()

	slog.Info("Wine Comb shutdown complete")
}

// runOnce executes a single run in the foreground and prints its records to
// stdout as a JSON array.
func runOnce(appCfg *cfg.Cfg, profile *catalog.Profile, runner tasks.CatalogRunner, runRepo database.RunRepository) error {
	mode := database.RunModeLive
	if appCfg.Replay {
		mode = database.RunModeReplay
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(appCfg.TaskTimeout)*time.Second)
	defer cancel()

	task := tasks.NewScrapeCatalogTask(profile.Name, mode, runner, runRepo)
	task.Start()
	if err := task.Execute(ctx); err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(task.Records()); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	return nil
}
