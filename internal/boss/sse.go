package boss

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shaiso/boss/internal/domain"
)

// writeSSEEvent пишет один SSE-фрейм: "event: <kind>\ndata: <data>\n\n".
// Flush после каждого фрейма — то, что делает поток «живым», а не
// буферизованным.
func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, kind, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", kind, data)
	flusher.Flush()
}

func writeStateEvent(w http.ResponseWriter, flusher http.Flusher, state *domain.PipelineRunState) {
	data, err := json.Marshal(state)
	if err != nil {
		// state целиком состоит из простых полей (domain.PipelineRunState);
		// ошибка маршалинга здесь — ошибка программиста, не рантайма.
		panic("boss: state does not marshal: " + err.Error())
	}
	writeSSEEvent(w, flusher, eventState, string(data))
}
