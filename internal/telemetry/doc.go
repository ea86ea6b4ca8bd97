// Package telemetry обеспечивает наблюдаемость boss: structured
// logging через slog, настраиваемое через LOG_LEVEL/LOG_FORMAT. Metrics
// живут отдельно в internal/metrics, но оба экспортируются единым
// http.Server в cmd/boss.
package telemetry
