package boss

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shaiso/boss/internal/hub"
)

// handleState обслуживает GET /api/state.
func (s *Service) handleState(w http.ResponseWriter, r *http.Request) {
	resp := s.stateSnapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type runResponse struct {
	RunID uint32 `json:"run_id"`
}

// handleRun обслуживает POST /api/run.
func (s *Service) handleRun(w http.ResponseWriter, r *http.Request) {
	ar := s.startRun()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runResponse{RunID: ar.RunID()})
}

// handleEvents обслуживает GET /api/run/{id}/events: SSE-поток без
// потерь для запуска с id из пути, либо 404, если это не текущий
// запуск.
//
// Критичный порядок: сначала подписка на hub, потом снимок состояния —
// тогда событие, опубликованное между этими двумя действиями, не может
// пропасть. Сигнал Lagged от hub'а поглощается здесь же: клиент его не
// видит, он получает только свежее событие "state".
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	runID64, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ar, err := s.lookupRun(uint32(runID64))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	sub := ar.Subscribe()
	defer sub.Unsubscribe()

	state := ar.Snapshot()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	writeStateEvent(w, flusher, state)

	ctx := r.Context()
	for {
		ev, err := sub.Recv(ctx)
		switch err {
		case nil:
		case hub.ErrLagged:
			writeStateEvent(w, flusher, ar.Snapshot())
			continue
		case hub.ErrClosed:
			// Hub закрывается только после публикации run_done; подписчик,
			// не получивший его из hub'а (подключился позже или отстал),
			// получает run_done здесь, так что поток всегда им завершается.
			writeSSEEvent(w, flusher, eventRunDone, runDoneEvent().Data)
			return
		default:
			// Отмена контекста (клиент отключился): молча завершаем поток,
			// запуск продолжает идти.
			return
		}

		writeSSEEvent(w, flusher, ev.Kind, ev.Data)
		if ev.Kind == eventRunDone {
			return
		}
	}
}
