package boss

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/shaiso/boss/internal/domain"
	"github.com/shaiso/boss/internal/metrics"
)

// Service — HTTP-сервис оркестратора: хранит неизменяемый пайплайн,
// единственный текущий ActiveRun (если есть) и всё необходимое для
// старта новых запусков. Один Service на процесс.
type Service struct {
	pipeline   *domain.Pipeline
	taskConfig TaskConfigFunc
	logger     *slog.Logger
	metrics    *metrics.Recorder

	mu      sync.Mutex
	current *ActiveRun

	counter atomic.Uint32
}

// New собирает Service для данного пайплайна. taskConfig поставляет
// runner.Config на каждую пару (stage, task) — штатная реализация
// internal/pipedef.ScriptTaskConfig.
func New(pipeline *domain.Pipeline, taskConfig TaskConfigFunc, logger *slog.Logger, rec *metrics.Recorder) *Service {
	return &Service{
		pipeline:   pipeline,
		taskConfig: taskConfig,
		logger:     logger,
		metrics:    rec,
	}
}

// stateSnapshot возвращает StateResponse для GET /api/state:
// неизменяемый пайплайн плюс снимок текущего запуска, если он есть.
func (s *Service) stateSnapshot() domain.StateResponse {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	resp := domain.StateResponse{Pipeline: s.pipeline}
	if current != nil {
		resp.Run = current.Snapshot()
	}
	return resp
}

// startRun выделяет новый run_id, собирает свежий ActiveRun,
// устанавливает его текущим и запускает его driver в фоне. Предыдущий
// ActiveRun, если был, не отменяется — он дорабатывает до конца, но с
// момента замены перестаёт быть достижим через HTTP-поверхность.
//
// Gauge активного запуска переключается только под s.mu и только если
// завершившийся запуск всё ещё текущий: driver вытесненного запуска,
// доделывающий работу в фоне, не должен обнулять gauge под живым
// преемником.
func (s *Service) startRun() *ActiveRun {
	runID := s.counter.Add(1)
	ar := newActiveRun(s.pipeline, runID)

	s.mu.Lock()
	s.current = ar
	s.metrics.ActiveRun.Set(1)
	s.mu.Unlock()

	go func() {
		runDriver(context.Background(), s.pipeline, ar, s.taskConfig, s.logger, s.metrics)

		s.mu.Lock()
		if s.current == ar {
			s.metrics.ActiveRun.Set(0)
		}
		s.mu.Unlock()
	}()

	return ar
}

// lookupRun возвращает текущий ActiveRun, если его id совпадает с
// runID, иначе ErrRunNotCurrent (в том числе когда текущего запуска нет
// вовсе).
func (s *Service) lookupRun(runID uint32) (*ActiveRun, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil || current.RunID() != runID {
		return nil, ErrRunNotCurrent
	}
	return current, nil
}
