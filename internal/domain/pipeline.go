package domain

import "fmt"

// Stage — именованная группа задач, выполняемых параллельно внутри одного
// этапа пайплайна. Имена задач внутри Stage уникальны.
type Stage struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

// Pipeline — неизменяемое определение пайплайна: упорядоченный список
// стадий. Строится один раз (см. internal/pipedef) и разделяется между
// всеми запусками без копирования.
type Pipeline struct {
	Stages []Stage `json:"stages"`
}

// Validate проверяет уникальность имён стадий и задач внутри каждой
// стадии. Вызывается один раз при старте процесса; ошибка здесь — повод
// завершить процесс, а не деградировать.
func (p *Pipeline) Validate() error {
	stageNames := make(map[string]bool, len(p.Stages))
	for _, stage := range p.Stages {
		if stage.Name == "" {
			return fmt.Errorf("%w: stage has empty name", ErrInvalidPipeline)
		}
		if stageNames[stage.Name] {
			return fmt.Errorf("%w: duplicate stage name %q", ErrInvalidPipeline, stage.Name)
		}
		stageNames[stage.Name] = true

		taskNames := make(map[string]bool, len(stage.Tasks))
		for _, task := range stage.Tasks {
			if task == "" {
				return fmt.Errorf("%w: stage %q has a task with empty name", ErrInvalidPipeline, stage.Name)
			}
			if taskNames[task] {
				return fmt.Errorf("%w: stage %q has duplicate task name %q", ErrInvalidPipeline, stage.Name, task)
			}
			taskNames[task] = true
		}
	}
	return nil
}

// TaskCount возвращает общее число задач во всём пайплайне, по всем стадиям.
func (p *Pipeline) TaskCount() int {
	n := 0
	for _, stage := range p.Stages {
		n += len(stage.Tasks)
	}
	return n
}
