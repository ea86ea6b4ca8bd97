// Package worker — тривиальная поверхность отдельного worker-процесса.
// Запуск контейнеров — забота другого процесса со своими контрактами и
// не предмет этого репозитория; здесь ровно столько, чтобы
// `boss --worker` был настоящим вторым режимом, а не пустым флагом:
// health-check и endpoint метрик.
package worker

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux собирает HTTP-поверхность worker-процесса.
func NewMux(logger *slog.Logger) *http.ServeMux {
	start := time.Now()
	mux := http.NewServeMux()

	// HTTP mux: /healthz + /metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok " + time.Since(start).String()))
	})
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("worker http surface ready")
	return mux
}
