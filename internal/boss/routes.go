package boss

import "net/http"

// RegisterRoutes регистрирует HTTP-поверхность оркестратора на mux.
// Отдача статики ("/", "/logs", файлы по пути) — забота вызывающей
// стороны, см. internal/assets: это отдельный, заменяемый слой.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mw := chain(recovery(s.logger), s.logging())

	mux.Handle("GET /api/state", mw(http.HandlerFunc(s.handleState)))
	mux.Handle("POST /api/run", mw(http.HandlerFunc(s.handleRun)))
	mux.Handle("GET /api/run/{id}/events", mw(http.HandlerFunc(s.handleEvents)))
}
