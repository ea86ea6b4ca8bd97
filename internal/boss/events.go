package boss

import (
	"encoding/json"

	"github.com/shaiso/boss/internal/hub"
)

// Виды событий на проводе — совпадают с именами SSE-событий, на которые
// подписываются клиенты.
const (
	eventState        = "state"
	eventStageStarted = "stage_started"
	eventTaskOutput   = "task_output"
	eventTaskResult   = "task_result"
	eventRunDone      = "run_done"
)

type stageStartedPayload struct {
	Stage string `json:"stage"`
}

type taskOutputPayload struct {
	Stage string `json:"stage"`
	Task  string `json:"task"`
	Line  string `json:"line"`
}

type taskResultPayload struct {
	Stage  string `json:"stage"`
	Task   string `json:"task"`
	Passed bool   `json:"passed"`
	Output string `json:"output"`
}

// mustEvent сериализует payload в hub.Event данного вида. Все типы
// payload здесь — плоские структуры из строк и bool, маршалинг не может
// упасть; падение было бы ошибкой программиста, а не условием рантайма.
func mustEvent(kind string, payload any) hub.Event {
	data, err := json.Marshal(payload)
	if err != nil {
		panic("boss: event payload does not marshal: " + err.Error())
	}
	return hub.Event{Kind: kind, Data: string(data)}
}

func stageStartedEvent(stage string) hub.Event {
	return mustEvent(eventStageStarted, stageStartedPayload{Stage: stage})
}

func taskOutputEvent(stage, task, line string) hub.Event {
	return mustEvent(eventTaskOutput, taskOutputPayload{Stage: stage, Task: task, Line: line})
}

func taskResultEvent(stage, task string, passed bool, output string) hub.Event {
	return mustEvent(eventTaskResult, taskResultPayload{Stage: stage, Task: task, Passed: passed, Output: output})
}

func runDoneEvent() hub.Event {
	return hub.Event{Kind: eventRunDone, Data: "{}"}
}
