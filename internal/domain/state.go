package domain

// TaskState — состояние одной задачи в рамках запуска.
//
// Жизненный цикл:
//
//	Pending → Running → Pass
//	                  ↘ Fail
//
// Переход в Pass/Fail финальный — других переходов из терминального
// состояния нет.
type TaskState string

const (
	// TaskPending — задача ещё не начала выполняться.
	TaskPending TaskState = "Pending"

	// TaskRunning — задача выполняется (стадия, в которую она входит, стартовала).
	TaskRunning TaskState = "Running"

	// TaskPass — задача завершилась успешно (код возврата 0).
	TaskPass TaskState = "Pass"

	// TaskFail — задача завершилась с ошибкой, либо не удалось её запустить.
	TaskFail TaskState = "Fail"
)

// IsTerminal возвращает true для Pass/Fail.
func (s TaskState) IsTerminal() bool {
	return s == TaskPass || s == TaskFail
}

// TaskRunState — состояние одной задачи внутри конкретного запуска.
type TaskRunState struct {
	Name   string    `json:"name"`
	State  TaskState `json:"state"`
	Output string    `json:"output"`
}

// AppendLine добавляет строку к накопленному выводу задачи, вставляя
// разделитель "\n" только если вывод уже не пуст. Не потокобезопасно —
// вызывающая сторона (run driver) держит мьютекс PipelineRunState.
func (t *TaskRunState) AppendLine(line string) {
	if t.Output != "" {
		t.Output += "\n"
	}
	t.Output += line
}

// StageRunState — состояние одной стадии внутри конкретного запуска.
type StageRunState struct {
	Name  string          `json:"name"`
	Tasks []*TaskRunState `json:"tasks"`
}

// PipelineRunState — изменяемое дерево состояния одного запуска пайплайна.
// Один run driver пишет в него (через мьютекс своего ActiveRun), любое
// число читателей делает снимки (clone) под тем же мьютексом.
type PipelineRunState struct {
	RunID  uint32          `json:"run_id"`
	Active bool            `json:"active"`
	Stages []StageRunState `json:"stages"`
}

// NewRunState строит дерево состояния для нового запуска: все задачи
// Pending, active=true. Чистая функция, без побочных эффектов.
func NewRunState(pipeline *Pipeline, runID uint32) *PipelineRunState {
	stages := make([]StageRunState, len(pipeline.Stages))
	for i, stage := range pipeline.Stages {
		tasks := make([]*TaskRunState, len(stage.Tasks))
		for j, name := range stage.Tasks {
			tasks[j] = &TaskRunState{Name: name, State: TaskPending}
		}
		stages[i] = StageRunState{Name: stage.Name, Tasks: tasks}
	}
	return &PipelineRunState{
		RunID:  runID,
		Active: true,
		Stages: stages,
	}
}

// Stage возвращает указатель на StageRunState с данным именем, или nil.
func (s *PipelineRunState) Stage(name string) *StageRunState {
	for i := range s.Stages {
		if s.Stages[i].Name == name {
			return &s.Stages[i]
		}
	}
	return nil
}

// Task возвращает TaskRunState с данным именем внутри стадии, или nil.
func (s *StageRunState) Task(name string) *TaskRunState {
	for _, t := range s.Tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Clone возвращает глубокую копию дерева состояния, пригодную для отправки
// наружу (snapshot под /api/state или "state" событием SSE) без риска
// гонки с продолжающими писать в оригинал горутинами.
func (s *PipelineRunState) Clone() *PipelineRunState {
	out := &PipelineRunState{
		RunID:  s.RunID,
		Active: s.Active,
		Stages: make([]StageRunState, len(s.Stages)),
	}
	for i, stage := range s.Stages {
		tasks := make([]*TaskRunState, len(stage.Tasks))
		for j, t := range stage.Tasks {
			cp := *t
			tasks[j] = &cp
		}
		out.Stages[i] = StageRunState{Name: stage.Name, Tasks: tasks}
	}
	return out
}

// StateResponse — тело ответа GET /api/state.
type StateResponse struct {
	Pipeline *Pipeline         `json:"pipeline"`
	Run      *PipelineRunState `json:"run"`
}
