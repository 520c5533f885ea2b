package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/shapingai/shaping-ai-dashboard/internal/backup"
	"github.com/shapingai/shaping-ai-dashboard/internal/corpus"
	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
	"github.com/shapingai/shaping-ai-dashboard/internal/duckdb"
	"github.com/shapingai/shaping-ai-dashboard/internal/httpserver"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
	"github.com/shapingai/shaping-ai-dashboard/internal/network"
	"github.com/shapingai/shaping-ai-dashboard/internal/socketrpc"
)

// runServer loads the corpus and serves the dashboard over HTTP and the
// unix socket until interrupted.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	c, err := corpus.Load(cfg.corpusPaths())
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	// SQL mirror of the corpus for the summary and the query explorer.
	var store *duckdb.Store
	if cfg.MirrorEnabled {
		store, err = openMirror(cfg, c)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var bundle *network.Bundle
	if cfg.BundlePath != "" {
		bundle, err = network.LoadBundle(cfg.BundlePath)
		if err != nil {
			log.Printf("Warning: network bundle unavailable: %v", err)
		}
	}

	// A nil *duckdb.Store must not reach the service as a non-nil interface.
	var summary model.SummaryQuerier
	var schema model.SchemaQuerier
	if store != nil {
		summary, schema = store, store
	}
	svc := dashboard.NewService(c, summary, bundle, cfg.dashboardConfig())

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, svc, schema)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Socket RPC server for the terminal client.
	sockServer := socketrpc.NewServer(cfg.SocketPath, svc)
	if err := sockServer.Start(); err != nil {
		log.Printf("Warning: failed to start socket server: %v", err)
	} else {
		defer sockServer.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	printStartupBanner(cfg, summarize(svc), bundle)

	g, gctx := errgroup.WithContext(ctx)

	if store != nil {
		if exporter, err := backup.NewExporter(store, cfg.backupConfig()); err != nil {
			log.Printf("Warning: snapshots disabled: %v", err)
		} else if exporter != nil {
			g.Go(func() error {
				if _, err := exporter.Export(gctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("backup: snapshot export failed: %v", err)
				}
				return nil
			})
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	signal.Stop(sigCh)
	return nil
}

// openMirror creates the DuckDB mirror and fills it from the corpus.
func openMirror(cfg appConfig, c *corpus.Corpus) (*duckdb.Store, error) {
	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DuckDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := store.LoadCorpus(ctx, c); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load corpus into DuckDB: %w", err)
	}
	return store, nil
}

func summarize(svc *dashboard.Service) model.CorpusSummary {
	sum, err := svc.Summary()
	if err != nil {
		log.Printf("Warning: corpus summary failed: %v", err)
	}
	return sum
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "shapingai")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "shapingai.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, sum model.CorpusSummary, bundle *network.Bundle) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	row := func(mark, label, value string) string {
		return fmt.Sprintf("    %s  %-14s %s", mark, label, value)
	}

	logo := cyan.Bold(true).Render(`
    ╔═╗╦ ╦╔═╗╔═╗╦╔╗╔╔═╗  ╔═╗╦
    ╚═╗╠═╣╠═╣╠═╝║║║║║ ╦  ╠═╣║
    ╚═╝╩ ╩╩ ╩╩  ╩╝╚╝╚═╝  ╩ ╩╩`)

	separator := dim.Render("    ─────────────────────────────────")

	lines := []string{"", logo, "    " + dim.Render("v"+version), "", separator, ""}

	lines = append(lines, bold.Render("    Corpus"), "")
	lines = append(lines, row(check, "Data", dim.Render(shortenPath(cfg.DataDir))))
	lines = append(lines, row(check, "Articles", cyan.Render(fmt.Sprintf("%d", sum.TotalArticles))))
	lines = append(lines, row(check, "Media", cyan.Render(fmt.Sprintf("%d", sum.DistinctMedia))))
	if !sum.FirstDate.IsZero() {
		lines = append(lines, row(check, "Period", dim.Render(model.NewDateRange(sum.FirstDate, sum.LastDate).String())))
	}
	if bundle != nil {
		lines = append(lines, row(check, "Network", dim.Render(fmt.Sprintf("%d nodes, %d edges", bundle.Nodes, bundle.Edges))))
	} else {
		lines = append(lines, row(dot, "Network", dim.Render("remote bundle")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"), "")
	if cfg.APIEnabled {
		lines = append(lines, row(check, "HTTP API", cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, row(dot, "HTTP API", dim.Render("disabled")))
	}
	lines = append(lines, row(check, "Unix Socket", cyan.Render(shortenPath(cfg.SocketPath))), "")

	lines = append(lines, bold.Render("    Storage"), "")
	if cfg.MirrorEnabled {
		lines = append(lines, row(check, "SQL Mirror", dim.Render(shortenPath(cfg.DBPath))))
	} else {
		lines = append(lines, row(dot, "SQL Mirror", dim.Render("disabled")))
	}
	if cfg.SnapshotEnabled && cfg.MirrorEnabled {
		lines = append(lines, row(check, "Snapshots", dim.Render(shortenPath(cfg.SnapshotDir))))
	} else {
		lines = append(lines, row(dot, "Snapshots", dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, row(check, "Config File", dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, row(dot, "Config File", dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
