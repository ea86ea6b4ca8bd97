package domain

import "errors"

// ErrInvalidPipeline — определение пайплайна не прошло валидацию
// (пустое имя стадии/задачи, дубликат имени). Fatal при старте процесса.
var ErrInvalidPipeline = errors.New("invalid pipeline definition")
