package domain_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/shaiso/boss/internal/domain"
)

// reachableRunState строит случайное дерево состояния: стартует из
// NewRunState и применяет к каждой задаче только те операции, которые
// выполняет сам run driver (перевод в Running, AppendLine, терминальное
// состояние). Фаза каждой задачи и флаг active выбираются независимо,
// поэтому порядок стадий между собой и связь active с состояниями
// задач генератор не соблюдает.
func reachableRunState(rt *rapid.T) *domain.PipelineRunState {
	stageCount := rapid.IntRange(0, 3).Draw(rt, "stages")
	pipeline := &domain.Pipeline{}
	for i := 0; i < stageCount; i++ {
		taskCount := rapid.IntRange(0, 3).Draw(rt, fmt.Sprintf("tasks-%d", i))
		stage := domain.Stage{Name: fmt.Sprintf("stage-%d", i)}
		for j := 0; j < taskCount; j++ {
			stage.Tasks = append(stage.Tasks, fmt.Sprintf("task-%d-%d", i, j))
		}
		pipeline.Stages = append(pipeline.Stages, stage)
	}

	rs := domain.NewRunState(pipeline, rapid.Uint32Range(1, 1<<20).Draw(rt, "run_id"))

	for si := range rs.Stages {
		for _, task := range rs.Stages[si].Tasks {
			switch rapid.IntRange(0, 3).Draw(rt, "phase") {
			case 0:
				// остаётся Pending
			case 1:
				task.State = domain.TaskRunning
			case 2:
				task.State = domain.TaskPass
			case 3:
				task.State = domain.TaskFail
			}
			if task.State != domain.TaskPending {
				lineCount := rapid.IntRange(0, 4).Draw(rt, "lines")
				for k := 0; k < lineCount; k++ {
					task.AppendLine(rapid.StringMatching(`[ -~]{0,20}`).Draw(rt, "line"))
				}
			}
		}
	}
	if rapid.Bool().Draw(rt, "done") {
		rs.Active = false
	}
	return rs
}

// TestPropertyRunStateJSONRoundTrip: parse(serialize(state)) == state
// для любого достижимого состояния.
func TestPropertyRunStateJSONRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rs := reachableRunState(rt)

		data, err := json.Marshal(rs)
		require.NoError(rt, err)

		var decoded domain.PipelineRunState
		require.NoError(rt, json.Unmarshal(data, &decoded))
		require.Equal(rt, rs, &decoded)
	})
}

// TestPropertyCloneEqualButIndependent: клон равен оригиналу, но не
// делит с ним изменяемых данных.
func TestPropertyCloneEqualButIndependent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rs := reachableRunState(rt)
		clone := rs.Clone()
		require.Equal(rt, rs, clone)

		var before []string
		for si := range rs.Stages {
			for _, task := range rs.Stages[si].Tasks {
				before = append(before, task.Output)
				task.AppendLine("mutated")
			}
		}
		i := 0
		for si := range clone.Stages {
			for _, task := range clone.Stages[si].Tasks {
				require.Equal(rt, before[i], task.Output)
				i++
			}
		}
	})
}

// TestPropertyAppendLineJoinsWithNewline: накопленный output равен
// непустым строкам, соединённым "\n", без завершающего перевода
// строки. Пустая строка в начале вывода схлопывается — разделитель
// вставляется только при непустом накопленном output.
func TestPropertyAppendLineJoinsWithNewline(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[ -~]{1,20}`), 0, 10).Draw(rt, "lines")

		task := &domain.TaskRunState{Name: "t", State: domain.TaskRunning}
		for _, line := range lines {
			task.AppendLine(line)
		}
		require.Equal(rt, strings.Join(lines, "\n"), task.Output)
	})
}
