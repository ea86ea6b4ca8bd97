// boss — единый исполняемый файл с двумя взаимоисключающими режимами:
// `--boss` запускает оркестратор, `--worker` — отдельный, намеренно
// тривиальный worker-процесс (см. internal/worker). Ровно один из двух
// флагов обязателен.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shaiso/boss/internal/assets"
	"github.com/shaiso/boss/internal/boss"
	"github.com/shaiso/boss/internal/metrics"
	"github.com/shaiso/boss/internal/pipedef"
	"github.com/shaiso/boss/internal/telemetry"
	"github.com/shaiso/boss/internal/worker"
)

var version = "dev"

func main() {
	var (
		runBoss     bool
		runWorker   bool
		pipedefPath string
		addr        string
		workerAddr  string
	)

	rootCmd := &cobra.Command{
		Use:           "boss",
		Short:         "CI-style pipeline orchestrator with a live web UI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runBoss == runWorker {
				return errors.New("exactly one of --boss or --worker is required")
			}
			if runBoss && pipedefPath == "" {
				return errors.New("--boss requires --pipedef")
			}

			logger := telemetry.SetupLogger()
			if runWorker {
				return serveWorker(cmd.Context(), logger, workerAddr)
			}
			return serveBoss(cmd.Context(), logger, pipedefPath, addr)
		},
	}

	rootCmd.Flags().BoolVar(&runBoss, "boss", false, "run the orchestrator")
	rootCmd.Flags().BoolVar(&runWorker, "worker", false, "run the worker process")
	rootCmd.Flags().StringVar(&pipedefPath, "pipedef", "", "path to the pipeline definition (required with --boss)")
	rootCmd.Flags().StringVar(&addr, "addr", ":9001", "boss HTTP listen address")
	rootCmd.Flags().StringVar(&workerAddr, "worker-addr", ":9009", "worker HTTP listen address")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveBoss(ctx context.Context, logger *slog.Logger, pipedefPath, addr string) error {
	pipeline, err := pipedef.Parse(pipedefPath)
	if err != nil {
		logger.Error("failed to parse pipedef", "error", err)
		return err
	}

	scriptTasks, err := pipedef.NewScriptTaskConfig(pipedefPath)
	if err != nil {
		logger.Error("failed to install task runner script", "error", err)
		return err
	}

	rec := metrics.New(prometheus.DefaultRegisterer)
	svc := boss.New(pipeline, scriptTasks.Config, logger, rec)

	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", assets.Handler())

	return runServer(ctx, logger, addr, mux, "boss")
}

func serveWorker(ctx context.Context, logger *slog.Logger, addr string) error {
	mux := worker.NewMux(logger)
	return runServer(ctx, logger, addr, mux, "worker")
}

func runServer(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler, name string) error {
	server := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "component", name, "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "component", name)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	logger.Info("stopped", "component", name)
	return nil
}
