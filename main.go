package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FarmaSync/edups/config"
	"github.com/FarmaSync/edups/handlers"
	"github.com/FarmaSync/edups/health"
	"github.com/FarmaSync/edups/logging"
	"github.com/FarmaSync/edups/pages"
	"github.com/FarmaSync/edups/scheduler"
	"github.com/FarmaSync/edups/server"
	"github.com/FarmaSync/edups/store"
	"github.com/FarmaSync/edups/tui"
)

const (
	openTimeout     = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formulary",
		Short: "EHR medications formulary dashboard",
		Long: `Browse the EHR medications formulary: active ingredients, dosage forms,
prescribing products and their brands.

Without a subcommand the web dashboard is served on ADDRESS:PORT.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:           "tui",
		Short:         "Open the dashboard in the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	})

	return root
}

// bootstrap loads the configuration, starts logging and opens the store.
// Failures before logging is up go to stderr.
func bootstrap(fileOnlyLogs bool) (*config.Config, *store.Store, error) {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	logging.InitLogger(logging.Options{
		Dir:            cfg.LogDir,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		FileOnly:       fileOnlyLogs,
	})

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	st, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logging.Error("Failed to open the formulary store", "driver", cfg.DBDriver, "error", err)
		if fileOnlyLogs {
			fmt.Fprintln(os.Stderr, err)
		}
		_ = logging.Close()
		return nil, nil, err
	}
	logging.Info("Formulary store opened", "driver", st.Driver())

	return cfg, st, nil
}

func runServer() error {
	cfg, st, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer logging.Close()
	defer st.Close()

	sched := scheduler.NewScheduler(st, cfg.StoreProbeInterval)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to schedule store probes", "error", err)
		return err
	}
	defer sched.Stop()

	checker := health.NewHealthChecker(sched, cfg.StoreProbeInterval, st.Driver())
	handler := handlers.NewDashboardHandler(pages.NewShell(st), checker)
	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
	case err := <-serveErr:
		logging.Error("Server failed to start", "error", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(ctx)
}

func runTUI() error {
	_, st, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer logging.Close()
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx, pages.NewShell(st)); err != nil {
		logging.Error("Terminal dashboard failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
