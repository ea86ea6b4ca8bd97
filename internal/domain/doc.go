// Package domain содержит модель пайплайна: неизменяемое определение
// (Pipeline/Stage) и изменяемое состояние одного запуска
// (PipelineRunState/StageRunState/TaskRunState).
//
// Pipeline строится один раз при старте процесса и больше не меняется.
// PipelineRunState создаётся для каждого запуска и мутируется run driver'ом
// (см. internal/boss) под его собственным мьютексом — сам domain пакет
// никаких блокировок не делает, это забота вызывающей стороны.
package domain
