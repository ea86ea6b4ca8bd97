package boss

import (
	"sync"
	"sync/atomic"

	"github.com/shaiso/boss/internal/domain"
	"github.com/shaiso/boss/internal/hub"
)

// ActiveRun владеет всем, что относится к одному запуску-в-процессе:
// изменяемым деревом состояния, его широковещательным hub'ом и флагом
// active, читаемым без захвата мьютекса состояния — GET /api/state
// обновляет Active из атомарного флага, а не из дерева под локом.
//
// Всякая мутация state идёт через собственный мьютекс ActiveRun; пишет
// только run driver, читателей (HTTP-хэндлеров) — сколько угодно.
type ActiveRun struct {
	mu    sync.Mutex
	state *domain.PipelineRunState
	hub   *hub.Hub

	active atomic.Bool
}

func newActiveRun(pipeline *domain.Pipeline, runID uint32) *ActiveRun {
	ar := &ActiveRun{
		state: domain.NewRunState(pipeline, runID),
		hub:   hub.New(hub.DefaultCapacity),
	}
	ar.active.Store(true)
	return ar
}

// RunID возвращает id запуска. Неизменен на протяжении жизни ActiveRun,
// читается без мьютекса.
func (ar *ActiveRun) RunID() uint32 {
	return ar.state.RunID
}

// Snapshot возвращает глубокую копию дерева состояния с Active,
// обновлённым из атомарного флага. Флаг может отставать от породившей
// его мутации дерева на несколько инструкций, поэтому оба значения
// читаются независимо, а не как единое целое под одним локом.
func (ar *ActiveRun) Snapshot() *domain.PipelineRunState {
	ar.mu.Lock()
	snap := ar.state.Clone()
	ar.mu.Unlock()

	snap.Active = ar.active.Load()
	return snap
}

// Subscribe регистрирует нового SSE-подписчика на hub'е этого запуска.
func (ar *ActiveRun) Subscribe() *hub.Subscription {
	return ar.hub.Subscribe()
}

// markStageRunning переводит каждую задачу названной стадии в Running
// под мьютексом состояния и возвращает имена задач стадии по порядку —
// по ним вызывающая сторона разворачивает task driver'ы.
func (ar *ActiveRun) markStageRunning(stageName string) []string {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	stage := ar.state.Stage(stageName)
	names := make([]string, len(stage.Tasks))
	for i, t := range stage.Tasks {
		t.State = domain.TaskRunning
		names[i] = t.Name
	}
	return names
}

// appendTaskLine добавляет одну строку вывода к накопленному output
// задачи, под мьютексом состояния.
func (ar *ActiveRun) appendTaskLine(stageName, taskName, line string) {
	ar.mu.Lock()
	defer ar.mu.Unlock()
	ar.state.Stage(stageName).Task(taskName).AppendLine(line)
}

// finishTask выставляет задаче терминальное состояние и возвращает её
// итоговый накопленный output — и то и другое под мьютексом, так что
// возвращённый output в точности тот, каким он был в момент перехода
// задачи в терминальное состояние.
func (ar *ActiveRun) finishTask(stageName, taskName string, state domain.TaskState) string {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	task := ar.state.Stage(stageName).Task(taskName)
	task.State = state
	return task.Output
}

// publish рассылает событие через hub запуска.
func (ar *ActiveRun) publish(ev hub.Event) {
	ar.hub.Publish(ev)
}

// finish закрывает hub запуска и сбрасывает active. Вызывается один
// раз, run driver'ом, после завершения последней стадии.
func (ar *ActiveRun) finish() {
	ar.active.Store(false)
	ar.hub.Close()
}
