// Package pipedef превращает файл определения пайплайна в неизменяемый
// domain.Pipeline и поставляет штатный способ превратить пару
// (stage, task) в запускаемый runner.Config.
//
// Это намеренно тонкий адаптер: и парсер определения пайплайна, и
// исполняемый файл задачи — внешние компоненты; здесь ровно столько
// клея, сколько нужно, чтобы репозиторий был запускаем от начала до
// конца, не изобретая собственный язык описания CI-задач.
package pipedef

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shaiso/boss/internal/domain"
)

// Parse читает pipedef JSON-файл и возвращает валидированный
// неизменяемый Pipeline. Битый или невалидный pipedef — фатальная
// ошибка старта: вызывающая сторона (cmd/boss) логирует её и выходит,
// без повторов и деградации.
func Parse(path string) (*domain.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipedef %s: %w", path, err)
	}

	var pipeline domain.Pipeline
	if err := json.Unmarshal(data, &pipeline); err != nil {
		return nil, fmt.Errorf("parse pipedef %s: %w", path, err)
	}

	if err := pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("pipedef %s: %w", path, err)
	}

	return &pipeline, nil
}
