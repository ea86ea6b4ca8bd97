package pipedef

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shaiso/boss/internal/runner"
)

const runTaskScript = `#!/bin/sh
# boss_run_task.sh — ищет "<task>.sh" рядом с pipedef и exec'ает его.
# Пишется во временный файл при старте boss; руками не редактируется.
set -e
dir="$1"
stage="$2"
task="$3"
script="$dir/$task.sh"
if [ ! -x "$script" ]; then
	echo "no executable task script for $stage/$task: $script" >&2
	exit 1
fi
exec "$script" "$stage" "$task"
`

// ScriptTaskConfig строит runner.Config для задач, описанных pipedef'ом:
// у каждой задачи "foo" в стадии "bar" рядом с pipedef-файлом ожидается
// исполняемый "foo.sh", вызываемый как "foo.sh bar foo" — имена стадии
// и задачи передаются позиционными аргументами, так что задачи
// поставляются вместе со своим pipedef'ом.
type ScriptTaskConfig struct {
	pipedefDir string
	scriptPath string
}

// NewScriptTaskConfig пишет вспомогательный run_task-скрипт во
// временный файл и возвращает ScriptTaskConfig, привязанный к
// директории pipedef'а. Вызывается один раз при старте boss.
func NewScriptTaskConfig(pipedefPath string) (*ScriptTaskConfig, error) {
	scriptPath := filepath.Join(os.TempDir(), "boss_run_task.sh")
	if err := os.WriteFile(scriptPath, []byte(runTaskScript), 0o755); err != nil {
		return nil, fmt.Errorf("write run_task helper script: %w", err)
	}

	return &ScriptTaskConfig{
		pipedefDir: filepath.Dir(pipedefPath),
		scriptPath: scriptPath,
	}, nil
}

// Config возвращает runner.Config для одной пары (stage, task).
func (s *ScriptTaskConfig) Config(stageName, taskName string) runner.Config {
	return runner.Config{
		Path: "/bin/sh",
		Args: []string{s.scriptPath, s.pipedefDir, stageName, taskName},
		Dir:  s.pipedefDir,
	}
}
