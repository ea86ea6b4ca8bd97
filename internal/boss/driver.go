package boss

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/boss/internal/domain"
	"github.com/shaiso/boss/internal/metrics"
	"github.com/shaiso/boss/internal/runner"
	"github.com/shaiso/boss/internal/telemetry"
)

// TaskConfigFunc строит runner.Config для одной пары (stage, task).
// Поставляется вызывающей стороной (штатная реализация —
// internal/pipedef.ScriptTaskConfig), чтобы run driver не знал, какой
// именно исполняемый файл стоит за задачей.
type TaskConfigFunc func(stageName, taskName string) runner.Config

// runDriver выполняет стадии пайплайна строго по порядку, разворачивая
// задачи каждой стадии параллельно, и по ходу публикует соответствующую
// последовательность stage/task событий. Владеет ar на время запуска;
// ar не должен управляться более чем одним runDriver одновременно.
func runDriver(ctx context.Context, pipeline *domain.Pipeline, ar *ActiveRun, taskConfig TaskConfigFunc, logger *slog.Logger, rec *metrics.Recorder) {
	logger = telemetry.WithRunID(logger, ar.RunID())
	ctx = telemetry.WithLogger(ctx, logger)
	logger.Info("run started", "stages", len(pipeline.Stages))

	var anyFailed atomic.Bool

	for _, stage := range pipeline.Stages {
		names := ar.markStageRunning(stage.Name)
		ar.publish(stageStartedEvent(stage.Name))
		logger.Info("stage started", "stage", stage.Name, "tasks", len(names))

		g, gctx := errgroup.WithContext(ctx)
		for _, taskName := range names {
			taskName := taskName
			g.Go(func() error {
				runTask(gctx, ar, stage.Name, taskName, taskConfig, rec, &anyFailed)
				return nil
			})
		}
		// Task driver никогда не возвращает ошибку, на которую запуску
		// нужно реагировать — Fail задачи это записанное состояние, а не
		// сбой драйвера. Wait здесь лишь барьер: все драйверы стадии
		// вернулись.
		_ = g.Wait()
	}

	ar.publish(runDoneEvent())
	ar.finish()

	// Gauge активного запуска не трогаем отсюда: у driver'а нет знания,
	// текущий ли он ещё — это решает Service под своим мьютексом.
	result := "pass"
	if anyFailed.Load() {
		result = "fail"
	}
	rec.RunsTotal.WithLabelValues(result).Inc()
	logger.Info("run finished", "result", result)
}

// runTask доводит одну задачу до конца: запуск процесса, построчный
// стриминг вывода (на каждую строку сначала append, потом publish,
// именно в этом порядке), затем фиксация вердикта и публикация
// task_result с output ровно таким, каким он был в момент перехода
// задачи в терминальное состояние.
func runTask(ctx context.Context, ar *ActiveRun, stageName, taskName string, taskConfig TaskConfigFunc, rec *metrics.Recorder, anyFailed *atomic.Bool) {
	logger := telemetry.WithStageTask(telemetry.FromContext(ctx), stageName, taskName)
	cfg := taskConfig(stageName, taskName)
	started := time.Now()

	verdict := runner.Run(ctx, cfg, func(line string) {
		ar.appendTaskLine(stageName, taskName, line)
		ar.publish(taskOutputEvent(stageName, taskName, line))
	})

	state := domain.TaskFail
	if verdict == runner.Pass {
		state = domain.TaskPass
	} else {
		anyFailed.Store(true)
	}
	output := ar.finishTask(stageName, taskName, state)
	ar.publish(taskResultEvent(stageName, taskName, state == domain.TaskPass, output))
	rec.ObserveTask(stageName, taskName, state == domain.TaskPass, time.Since(started))

	logger.Info("task finished", "passed", state == domain.TaskPass)
}
